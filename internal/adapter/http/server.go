package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/pipeline"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard computes the views for one set of widget values.
type Dashboard interface {
	RenderViews(ctx context.Context, s domain.State, views pipeline.View) (pipeline.Artifacts, error)
}

// Server exposes the dashboard views plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the dashboard routes, /healthz,
// /readyz, and /metrics.
func NewServer(addr string, dashboard Dashboard, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      accessLog(logger)(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dashboard,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /{$}", s.view("page", pipeline.ViewAll, "text/html; charset=utf-8", writePage))
	mux.HandleFunc("GET /api/points", s.view("points", pipeline.ViewPoints, "application/geo+json", writePoints))
	mux.HandleFunc("GET /api/points.svg", s.view("points_svg", pipeline.ViewPoints, "image/svg+xml", writePointsSVG))
	mux.HandleFunc("GET /api/hexagons", s.view("hexagons", pipeline.ViewDensity, "application/json", writeHexagons))
	mux.HandleFunc("GET /api/minutes", s.view("minutes", pipeline.ViewMinutes, "application/json", writeMinutes))
	mux.HandleFunc("GET /api/minutes.svg", s.view("minutes_svg", pipeline.ViewMinutes, "image/svg+xml", writeMinutesSVG))
	mux.HandleFunc("GET /api/top-streets", s.view("top_streets", pipeline.ViewTopStreets, "application/json", writeTopStreets))
	mux.HandleFunc("GET /api/raw", s.view("raw", pipeline.ViewRaw, "application/json", writeRaw))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// sink writes one rendered view of art.
type sink func(buf *bytes.Buffer, art pipeline.Artifacts) error

// view parses the widget values from the query, renders the views the sink
// needs, and writes its output. The body is buffered so a failed sink yields
// a clean 500.
func (s *Server) view(name string, views pipeline.View, contentType string, write sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			s.metrics.RenderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}()

		q := r.URL.Query()
		raw := q.Get("raw")
		if name == "raw" {
			raw = "true"
		}
		state, err := domain.ParseState(q.Get("injured"), q.Get("hour"), q.Get("category"), raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		art, err := s.dashboard.RenderViews(r.Context(), state, views)
		if errors.Is(err, domain.ErrInvalidState) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			s.logger.Error("render failed", "view", name, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		var buf bytes.Buffer
		if err := write(&buf, art); err != nil {
			s.logger.Error("write view failed", "view", name, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes()) //nolint:errcheck // client went away
	}
}

func writePage(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return render.Page(buf, art)
}

func writePoints(buf *bytes.Buffer, art pipeline.Artifacts) error {
	b, err := render.PointsGeoJSON(art.Points)
	if err != nil {
		return err
	}
	_, err = buf.Write(b)
	return err
}

func writePointsSVG(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return render.PointsSVG(buf, art.Points, "Where are the most people injured in NYC?")
}

func writeHexagons(buf *bytes.Buffer, art pipeline.Artifacts) error {
	b, err := render.HexagonsGeoJSON(art.Density)
	if err != nil {
		return err
	}
	_, err = buf.Write(b)
	return err
}

func writeMinutes(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return json.NewEncoder(buf).Encode(map[string]any{
		"hour":    art.State.Hour,
		"label":   "Breakdown by minute between " + art.State.HourLabel(),
		"minutes": art.Minutes,
	})
}

func writeMinutesSVG(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return render.MinutesSVG(buf, art.Minutes, "Breakdown by minute between "+art.State.HourLabel())
}

func writeTopStreets(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return json.NewEncoder(buf).Encode(map[string]any{
		"category": art.State.Category,
		"column":   art.State.Category.Column(),
		"streets":  art.TopStreets,
	})
}

func writeRaw(buf *bytes.Buffer, art pipeline.Artifacts) error {
	return json.NewEncoder(buf).Encode(art.Raw)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}) //nolint:errcheck // best-effort error response
}
