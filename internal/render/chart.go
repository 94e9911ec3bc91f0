package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight  = 400
	barWidth     = 10
	barSpacing   = 4
	scatterWidth = 640
	labelEvery   = 5
	boundsMargin = 0.005
)

var (
	barColor   = drawing.ColorFromHex("636efa")
	pointColor = drawing.ColorFromHex("c81e1e")
)

// pointStyle renders dots only, with no connecting line.
func pointStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

// MinutesSVG draws the per-minute histogram as a bar chart, one bar per
// minute. Every fifth minute is labeled.
func MinutesSVG(w io.Writer, hist []domain.MinuteCount, title string) error {
	bars := make([]chart.Value, 0, len(hist))
	peak := 0
	for _, m := range hist {
		label := ""
		if m.Minute%labelEvery == 0 {
			label = strconv.Itoa(m.Minute)
		}
		bars = append(bars, chart.Value{Value: float64(m.Crashes), Label: label})
		peak = max(peak, m.Crashes)
	}
	if len(bars) == 0 {
		return fmt.Errorf("render minutes: empty histogram")
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Height:     chartHeight,
		Width:      len(bars)*(barWidth+barSpacing) + 120,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Name:  "crashes",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(peak, 1))},
		},
		Bars: bars,
	}
	for i := range graph.Bars {
		graph.Bars[i].Style = chart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1}
	}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render minutes: %w", err)
	}
	return nil
}

// PointsSVG draws collisions as a longitude/latitude scatter. An empty view
// renders the axes around NYCCenter.
func PointsSVG(w io.Writer, points []domain.Collision, title string) error {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, c := range points {
		xs = append(xs, c.Geo.Lon)
		ys = append(ys, c.Geo.Lat)
	}

	style := pointStyle(pointColor, 3)
	if len(points) == 0 {
		xs = []float64{domain.NYCCenter.Lon}
		ys = []float64{domain.NYCCenter.Lat}
		style = pointStyle(pointColor, chart.Disabled)
	}
	xr, yr := bounds(xs), bounds(ys)

	graph := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      scatterWidth,
		Height:     scatterWidth,
		XAxis:      chart.XAxis{Name: domain.ColumnLongitude, Range: xr},
		YAxis:      chart.YAxis{Name: domain.ColumnLatitude, Range: yr},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "collisions",
				XValues: xs,
				YValues: ys,
				Style:   style,
			},
		},
	}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render points: %w", err)
	}
	return nil
}

// bounds returns a range covering values with a small margin, so a single
// point still has a non-zero span.
func bounds(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return &chart.ContinuousRange{Min: lo - boundsMargin, Max: hi + boundsMargin}
}
