package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMainStreet = "MAIN ST"
	testBroadway   = "BROADWAY"
)

func intPtr(n int) *int { return &n }

func collisionAt(hour, minute int, street string, injured Injuries) Collision {
	return Collision{
		CrashTime: time.Date(2019, time.July, 10, hour, minute, 0, 0, time.UTC),
		Geo:       Geo{Lat: 40.73, Lon: -73.99},
		OnStreet:  street,
		Injured:   injured,
	}
}

func sampleRecords() []Collision {
	return []Collision{
		collisionAt(5, 12, testMainStreet, Injuries{Persons: intPtr(3), Pedestrians: intPtr(3), Cyclists: intPtr(0), Motorists: intPtr(0)}),
		collisionAt(5, 40, testBroadway, Injuries{Persons: intPtr(1), Pedestrians: intPtr(0), Cyclists: intPtr(1), Motorists: intPtr(0)}),
		collisionAt(17, 0, "", Injuries{Persons: intPtr(2), Pedestrians: intPtr(2), Cyclists: intPtr(0), Motorists: intPtr(0)}),
		collisionAt(23, 59, "ATLANTIC AVE", Injuries{Persons: intPtr(0), Pedestrians: intPtr(0), Cyclists: intPtr(0), Motorists: intPtr(0)}),
		collisionAt(0, 5, "QUEENS BLVD", Injuries{}),
		collisionAt(8, 30, "FLATBUSH AVE", Injuries{Persons: intPtr(6), Pedestrians: intPtr(1), Cyclists: intPtr(0), Motorists: intPtr(5)}),
	}
}

func TestFilterByInjured(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name      string
		threshold int
		want      int
	}{
		{"zero keeps every non-blank total", 0, 5},
		{"one", 1, 4},
		{"three", 3, 2},
		{"above max", 19, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterByInjured(records, tt.threshold), tt.want)
		})
	}
}

func TestFilterByInjured_Monotonic(t *testing.T) {
	records := sampleRecords()
	prev := len(records)
	for threshold := MinInjuredThreshold; threshold <= MaxInjuredThreshold; threshold++ {
		n := len(FilterByInjured(records, threshold))
		assert.LessOrEqual(t, n, prev, "threshold %d", threshold)
		prev = n
	}
}

func TestFilterByHour(t *testing.T) {
	records := sampleRecords()

	view := FilterByHour(records, 5)
	require.Len(t, view, 2)
	for _, c := range view {
		assert.Equal(t, 5, c.CrashTime.Hour())
	}

	assert.Empty(t, FilterByHour(records, 3))
	assert.Len(t, FilterByHour(records, 0), 1)
	assert.Len(t, FilterByHour(records, 23), 1)
}

func TestFilterByCategory(t *testing.T) {
	records := sampleRecords()

	assert.Len(t, FilterByCategory(records, Pedestrians), 3)
	assert.Len(t, FilterByCategory(records, Cyclists), 1)
	assert.Len(t, FilterByCategory(records, Motorists), 1)
	assert.Empty(t, FilterByCategory(records, Category("Horses")))
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := make([]Collision, len(records))
	copy(before, records)

	_ = FilterByInjured(records, 2)
	_ = FilterByHour(records, 5)
	_ = FilterByCategory(records, Motorists)

	assert.Equal(t, before, records)
}

func TestFilterByCategory_IndependentOfOtherViews(t *testing.T) {
	records := sampleRecords()
	base := FilterByCategory(records, Pedestrians)

	for hour := MinHour; hour <= MaxHour; hour++ {
		_ = FilterByHour(records, hour)
		_ = FilterByInjured(records, hour%20)
		assert.Equal(t, base, FilterByCategory(records, Pedestrians))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Pedestrians", Pedestrians, false},
		{"cyclists", Cyclists, false},
		{" MOTORISTS ", Motorists, false},
		{"drivers", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Column(t *testing.T) {
	assert.Equal(t, ColumnInjuredPedestrians, Pedestrians.Column())
	assert.Equal(t, ColumnInjuredCyclists, Cyclists.Column())
	assert.Equal(t, ColumnInjuredMotorists, Motorists.Column())
	assert.Empty(t, Category("x").Column())
}
