package domain

import "context"

// Place is a human-readable label for a coordinate.
type Place struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Confidence       float64 `json:"confidence"` // 0.0–1.0 provider confidence score
}

// Geocoder labels coordinates with place details.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place details. An empty Place
	// with a nil error means the provider had no match.
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}
