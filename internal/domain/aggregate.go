package domain

import (
	"slices"
	"strings"
)

const (
	// MinutesPerHour is the number of histogram bins.
	MinutesPerHour = 60

	// TopStreetsLimit caps the dangerous-streets ranking.
	TopStreetsLimit = 10
)

// NYCCenter is used as the view center when a view has no points.
var NYCCenter = Geo{Lat: 40.7128, Lon: -74.0060}

// MinuteCount is one bin of the per-minute histogram.
type MinuteCount struct {
	Minute  int `json:"minute"`
	Crashes int `json:"crashes"`
}

// StreetInjuries is one row of the dangerous-streets ranking.
type StreetInjuries struct {
	Street  string `json:"on_street_name"`
	Injured int    `json:"injured"`
}

// MinuteHistogram buckets collisions by minute-of-hour into 60 bins. Every
// minute is present even when its count is zero.
func MinuteHistogram(records []Collision) []MinuteCount {
	hist := make([]MinuteCount, MinutesPerHour)
	for i := range hist {
		hist[i].Minute = i
	}
	for _, c := range records {
		hist[c.CrashTime.Minute()].Crashes++
	}
	return hist
}

// TopStreets ranks collisions by the category's injured count, highest first,
// and returns at most limit rows. Rows with a blank street or count are
// skipped. Ties keep the input order.
func TopStreets(records []Collision, cat Category, limit int) []StreetInjuries {
	ranked := make([]StreetInjuries, 0, len(records))
	for _, c := range records {
		n := cat.Count(c)
		street := strings.TrimSpace(c.OnStreet)
		if n == nil || street == "" {
			continue
		}
		ranked = append(ranked, StreetInjuries{Street: street, Injured: *n})
	}

	slices.SortStableFunc(ranked, func(a, b StreetInjuries) int {
		return b.Injured - a.Injured
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Midpoint returns the mean coordinate of the records. ok is false for an
// empty view.
func Midpoint(records []Collision) (mid Geo, ok bool) {
	if len(records) == 0 {
		return Geo{}, false
	}
	var sumLat, sumLon float64
	for _, c := range records {
		sumLat += c.Geo.Lat
		sumLon += c.Geo.Lon
	}
	n := float64(len(records))
	return Geo{Lat: sumLat / n, Lon: sumLon / n}, true
}
