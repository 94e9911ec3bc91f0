package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
)

// Initial view of the density map.
const (
	DensityZoom  = 11
	DensityPitch = 50
)

// View selects the parts of Artifacts a render computes.
type View uint8

const (
	ViewPoints View = 1 << iota
	ViewDensity
	ViewMinutes
	ViewTopStreets
	ViewRaw

	ViewAll = ViewPoints | ViewDensity | ViewMinutes | ViewTopStreets | ViewRaw
)

// DatasetSource returns the base dataset for a row-count cap.
type DatasetSource interface {
	Load(ctx context.Context, nrows int) (*domain.Dataset, error)
}

// Density is the hexagon density map of the hour view.
type Density struct {
	Midpoint    domain.Geo      `json:"midpoint"`
	HasMidpoint bool            `json:"has_midpoint"`
	Zoom        int             `json:"zoom"`
	Pitch       int             `json:"pitch"`
	HourLabel   string          `json:"hour_label"`
	Bins        []domain.HexBin `json:"bins"`
	Place       *domain.Place   `json:"place,omitempty"`
	Crashes     int             `json:"crashes"`
}

// RawSample is the head of the base dataset in its normalized column layout.
type RawSample struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Artifacts holds every view computed for one State.
type Artifacts struct {
	State       domain.State            `json:"state"`
	Points      []domain.Collision      `json:"-"`
	Density     Density                 `json:"density"`
	Minutes     []domain.MinuteCount    `json:"minutes"`
	TopStreets  []domain.StreetInjuries `json:"top_streets"`
	Raw         *RawSample              `json:"raw,omitempty"`
	DatasetRows int                     `json:"dataset_rows"`
	Dropped     int                     `json:"dropped"`
	LoadedAt    time.Time               `json:"loaded_at"`
}

// Pipeline computes the dashboard views from the cached base dataset.
type Pipeline struct {
	source    DatasetSource
	geocoder  domain.Geocoder
	logger    *slog.Logger
	metrics   *observability.Metrics
	rows      int
	rawSample int
	ready     atomic.Bool
}

// New creates a Pipeline reading rows records per load. geocoder may be nil,
// in which case the density map carries no place label.
func New(source DatasetSource, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics, rows, rawSample int) *Pipeline {
	return &Pipeline{
		source:    source,
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
		rows:      rows,
		rawSample: rawSample,
	}
}

// CheckReadiness returns nil once the base dataset has loaded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Dataset returns the base dataset, loading it on first use.
func (p *Pipeline) Dataset(ctx context.Context) (*domain.Dataset, error) {
	return p.dataset(ctx)
}

// Render validates s and computes every view for it. The category ranking
// always reads the base dataset, independent of the threshold and hour.
func (p *Pipeline) Render(ctx context.Context, s domain.State) (Artifacts, error) {
	return p.RenderViews(ctx, s, ViewAll)
}

// RenderViews is Render restricted to views. Parts not selected are left
// zero; the density map, and with it the place lookup, is only computed
// when ViewDensity is set.
func (p *Pipeline) RenderViews(ctx context.Context, s domain.State, views View) (Artifacts, error) {
	if err := s.Validate(); err != nil {
		return Artifacts{}, err
	}

	ds, err := p.dataset(ctx)
	if err != nil {
		p.metrics.RenderErrors.Inc()
		return Artifacts{}, err
	}

	art := Artifacts{
		State:       s,
		DatasetRows: ds.Len(),
		Dropped:     ds.Dropped,
		LoadedAt:    ds.LoadedAt,
	}
	var hourView []domain.Collision
	if views&(ViewDensity|ViewMinutes) != 0 {
		hourView = domain.FilterByHour(ds.Records, s.Hour)
	}
	if views&ViewPoints != 0 {
		art.Points = domain.FilterByInjured(ds.Records, s.Injured)
	}
	if views&ViewDensity != 0 {
		art.Density = p.density(ctx, s, hourView)
	}
	if views&ViewMinutes != 0 {
		art.Minutes = domain.MinuteHistogram(hourView)
	}
	if views&ViewTopStreets != 0 {
		art.TopStreets = domain.TopStreets(domain.FilterByCategory(ds.Records, s.Category), s.Category, domain.TopStreetsLimit)
	}
	if views&ViewRaw != 0 && s.ShowRaw {
		art.Raw = p.sample(ds)
	}

	p.logger.Debug("render complete",
		"injured", s.Injured,
		"hour", s.Hour,
		"category", s.Category,
		"views", views,
		"points", len(art.Points),
		"hour_crashes", len(hourView),
		"hexagons", len(art.Density.Bins),
		"top_streets", len(art.TopStreets),
	)
	return art, nil
}

func (p *Pipeline) dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := p.source.Load(ctx, p.rows)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	p.ready.Store(true)
	return ds, nil
}

func (p *Pipeline) density(ctx context.Context, s domain.State, view []domain.Collision) Density {
	d := Density{
		Midpoint:  domain.NYCCenter,
		Zoom:      DensityZoom,
		Pitch:     DensityPitch,
		HourLabel: s.HourLabel(),
		Crashes:   len(view),
	}
	mid, ok := domain.Midpoint(view)
	if !ok {
		return d
	}
	d.Midpoint = mid
	d.HasMidpoint = true
	d.Bins = domain.BinHexagons(view, mid, domain.HexagonRadiusMeters)
	d.Place = p.label(ctx, mid)
	return d
}

// label reverse geocodes the midpoint. Failures leave the map unlabeled.
func (p *Pipeline) label(ctx context.Context, mid domain.Geo) *domain.Place {
	if p.geocoder == nil {
		return nil
	}
	place, err := p.geocoder.ReverseGeocode(ctx, mid.Lat, mid.Lon)
	if err != nil {
		p.logger.Warn("midpoint geocoding failed", "error", err, "lat", mid.Lat, "lon", mid.Lon)
		return nil
	}
	if place.Name == "" && place.FormattedAddress == "" {
		return nil
	}
	return &place
}

func (p *Pipeline) sample(ds *domain.Dataset) *RawSample {
	n := min(p.rawSample, ds.Len())
	rows := make([][]string, 0, n)
	for _, rec := range ds.Records[:n] {
		rows = append(rows, rec.Raw)
	}
	return &RawSample{Columns: ds.Columns, Rows: rows}
}
