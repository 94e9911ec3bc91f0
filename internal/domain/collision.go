package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Column labels after load-time normalization.
const (
	ColumnDateTime           = "date/time"
	ColumnCrashDate          = "crash_date"
	ColumnCrashTime          = "crash_time"
	ColumnLatitude           = "latitude"
	ColumnLongitude          = "longitude"
	ColumnOnStreetName       = "on_street_name"
	ColumnBorough            = "borough"
	ColumnCollisionID        = "collision_id"
	ColumnInjuredPersons     = "injured_persons"
	ColumnInjuredPedestrians = "injured_pedestrians"
	ColumnInjuredCyclists    = "injured_cyclists"
	ColumnInjuredMotorists   = "injured_motorists"
)

var (
	// ErrUnknownCategory is returned when an affected-person category is not recognized.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidState is returned when a widget value is out of range.
	ErrInvalidState = errors.New("invalid dashboard state")
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Injuries holds the per-category injured counts of one collision.
// A nil count means the source cell was blank.
type Injuries struct {
	Persons     *int `json:"persons"`
	Pedestrians *int `json:"pedestrians"`
	Cyclists    *int `json:"cyclists"`
	Motorists   *int `json:"motorists"`
}

// Collision is one row of the base dataset.
type Collision struct {
	ID        string    `json:"collision_id,omitempty"`
	CrashTime time.Time `json:"date/time"`
	Geo       Geo       `json:"geo"`
	Borough   string    `json:"borough,omitempty"`
	OnStreet  string    `json:"on_street_name,omitempty"`
	Injured   Injuries  `json:"injured"`

	// Raw holds every cell of the row, aligned with Dataset.Columns.
	Raw []string `json:"-"`
}

// Dataset is the immutable, coordinate-cleaned collision table.
type Dataset struct {
	Path     string
	Columns  []string
	Records  []Collision
	Dropped  int
	LoadedAt time.Time
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Category selects which injured count the dangerous-streets view ranks by.
type Category string

const (
	Pedestrians Category = "Pedestrians"
	Cyclists    Category = "Cyclists"
	Motorists   Category = "Motorists"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{Pedestrians, Cyclists, Motorists}

// ParseCategory matches a category label case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Column returns the normalized CSV column holding the category's count.
func (c Category) Column() string {
	switch c {
	case Pedestrians:
		return ColumnInjuredPedestrians
	case Cyclists:
		return ColumnInjuredCyclists
	case Motorists:
		return ColumnInjuredMotorists
	default:
		return ""
	}
}

// Count returns the collision's injured count for the category, or nil when blank.
func (c Category) Count(rec Collision) *int {
	switch c {
	case Pedestrians:
		return rec.Injured.Pedestrians
	case Cyclists:
		return rec.Injured.Cyclists
	case Motorists:
		return rec.Injured.Motorists
	default:
		return nil
	}
}

// NewDataset assembles a Dataset and stamps it with the current load time.
func NewDataset(path string, columns []string, records []Collision, dropped int) *Dataset {
	return &Dataset{
		Path:     path,
		Columns:  columns,
		Records:  records,
		Dropped:  dropped,
		LoadedAt: clock.Now(),
	}
}
