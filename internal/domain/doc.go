// Package domain models NYPD motor vehicle collision data and the filters
// and aggregations the dashboard derives from it.
//
// # Data Source
//
// Collision records come from the NYPD Motor Vehicle Collisions CSV published
// on NYC Open Data. Each row is one crash. The loader reads a capped prefix of
// the file, merges the date and time columns into a single timestamp and
// lowercases every column label, so all lookups use the fixed vocabulary:
//
//	date/time, latitude, longitude, on_street_name, borough, collision_id,
//	injured_persons, injured_pedestrians, injured_cyclists, injured_motorists
//
// # Missing Values
//
// Rows without latitude or longitude are unusable for every view and are
// dropped at load time. Injury counts and street names may be blank; a blank
// count is nil and never satisfies a comparison, so it is excluded from the
// threshold, category and ranking views.
//
// # Views
//
// A [Dataset] is immutable once loaded. Every filter returns a new slice:
//
//	FilterByInjured   total injured >= threshold (0-19)   point map
//	FilterByHour      hour-of-day == hour (0-23)          density map, minute histogram
//	FilterByCategory  category injured >= 1               top-10 streets
//
// The category view is always computed from the base dataset, never from
// the hour or threshold views.
//
// # Hexagon Binning
//
// [BinHexagons] projects points onto a local equirectangular plane centered
// on the view midpoint and assigns each to a pointy-top hexagon of the given
// circumradius using cube-coordinate rounding. Elevation follows the deck.gl
// HexagonLayer defaults the dashboard mirrors: count scaled against the
// largest bin into [0, 1000] and multiplied by 4.
package domain
