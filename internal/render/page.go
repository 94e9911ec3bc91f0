package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/pipeline"
)

// densestShown caps the hexagon table on the dashboard page.
const densestShown = 5

var funcMap = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "n/a"
		}
		return t.UTC().Format("Jan 2 15:04:05 UTC")
	},
	"fmtCoord": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"placeName": func(p *domain.Place) string {
		if p.Name != "" {
			return p.Name
		}
		return p.FormattedAddress
	},
	"lower": func(c domain.Category) string { return strings.ToLower(string(c)) },
}

var dashboardTmpl = template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplDashboard))

type pageData struct {
	Artifacts   pipeline.Artifacts
	MinInjured  int
	MaxInjured  int
	Hours       []int
	Categories  []domain.Category
	DensestBins []domain.HexBin
}

// Page writes the HTML dashboard for art.
func Page(w io.Writer, art pipeline.Artifacts) error {
	hours := make([]int, 0, domain.MaxHour-domain.MinHour+1)
	for h := domain.MinHour; h <= domain.MaxHour; h++ {
		hours = append(hours, h)
	}
	bins := art.Density.Bins
	if len(bins) > densestShown {
		bins = bins[:densestShown]
	}

	data := pageData{
		Artifacts:   art,
		MinInjured:  domain.MinInjuredThreshold,
		MaxInjured:  domain.MaxInjuredThreshold,
		Hours:       hours,
		Categories:  domain.Categories,
		DensestBins: bins,
	}
	if err := dashboardTmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
