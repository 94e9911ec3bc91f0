package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/http"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/config"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Midpoint place labeling is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	reader := csvsource.NewReader(logger, metrics)
	loader := csvsource.NewCachedLoader(reader, cfg.DataPath, cfg.DatasetCacheSize, metrics)
	p := pipeline.New(loader, geocoder, logger, metrics, cfg.DataRows, cfg.RawSampleRows)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A dashboard without its dataset is useless; fail before serving.
	if _, err := p.Dataset(ctx); err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
