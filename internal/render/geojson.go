// Package render turns computed dashboard views into GeoJSON, SVG charts and
// the HTML dashboard page. Renderers are pure: they never filter or
// aggregate.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/pipeline"
	geojson "github.com/paulmach/go.geojson"
)

// MapStyle is the base map the density layer is drawn over.
const MapStyle = "mapbox://styles/mapbox/light-v9"

// ViewState is the initial camera of a map.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
	Pitch     int     `json:"pitch"`
}

// HexagonLayer describes an extruded hexagon layer over a map.
type HexagonLayer struct {
	MapStyle        string                     `json:"map_style"`
	View            ViewState                  `json:"initial_view_state"`
	Radius          float64                    `json:"radius"`
	ElevationScale  float64                    `json:"elevation_scale"`
	ElevationRange  [2]float64                 `json:"elevation_range"`
	Label           string                     `json:"label"`
	Place           *domain.Place              `json:"place,omitempty"`
	Hexagons        *geojson.FeatureCollection `json:"hexagons"`
	CollisionsTotal int                        `json:"collisions"`
}

// PointsGeoJSON encodes collisions as a FeatureCollection of points.
func PointsGeoJSON(points []domain.Collision) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, c := range points {
		f := geojson.NewPointFeature([]float64{c.Geo.Lon, c.Geo.Lat})
		if c.ID != "" {
			f.SetProperty(domain.ColumnCollisionID, c.ID)
		}
		f.SetProperty(domain.ColumnDateTime, c.CrashTime.Format("2006-01-02 15:04:05"))
		if c.OnStreet != "" {
			f.SetProperty(domain.ColumnOnStreetName, c.OnStreet)
		}
		if c.Injured.Persons != nil {
			f.SetProperty(domain.ColumnInjuredPersons, *c.Injured.Persons)
		}
		fc.AddFeature(f)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}
	return b, nil
}

// NewHexagonLayer builds the density layer from the hour view's bins.
func NewHexagonLayer(d pipeline.Density) HexagonLayer {
	fc := geojson.NewFeatureCollection()
	for _, bin := range d.Bins {
		ring := make([][]float64, 0, len(bin.Vertices))
		for _, v := range bin.Vertices {
			ring = append(ring, []float64{v.Lon, v.Lat})
		}
		f := geojson.NewPolygonFeature([][][]float64{ring})
		f.SetProperty("count", bin.Count)
		f.SetProperty("elevation", bin.Elevation)
		f.SetProperty("center", []float64{bin.Center.Lon, bin.Center.Lat})
		fc.AddFeature(f)
	}

	return HexagonLayer{
		MapStyle: MapStyle,
		View: ViewState{
			Latitude:  d.Midpoint.Lat,
			Longitude: d.Midpoint.Lon,
			Zoom:      d.Zoom,
			Pitch:     d.Pitch,
		},
		Radius:          domain.HexagonRadiusMeters,
		ElevationScale:  domain.HexagonElevationScale,
		ElevationRange:  [2]float64{0, domain.HexagonElevationMax},
		Label:           "Vehicle collisions between " + d.HourLabel,
		Place:           d.Place,
		Hexagons:        fc,
		CollisionsTotal: d.Crashes,
	}
}

// HexagonsGeoJSON encodes the density layer with its view state.
func HexagonsGeoJSON(d pipeline.Density) ([]byte, error) {
	b, err := json.Marshal(NewHexagonLayer(d))
	if err != nil {
		return nil, fmt.Errorf("encode hexagons: %w", err)
	}
	return b, nil
}
