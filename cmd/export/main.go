// Command export publishes the cleaned collision dataset to Kafka, one
// message per collision keyed by collision ID.
//
// Usage:
//
//	go run ./cmd/export -rows 10000 -batch 500
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/csvsource"
	kafkaadapter "github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/config"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
	"github.com/joho/godotenv"
)

// BatchLoader writes a batch of collisions to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.Collision) error
}

func main() {
	_ = godotenv.Load(".env")

	if err := run(); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rows := flag.Int("rows", cfg.DataRows, "maximum CSV rows to read")
	batch := flag.Int("batch", 500, "collisions per Kafka write")
	flag.Parse()

	if *rows <= 0 || *batch <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows and -batch must be positive")
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := csvsource.NewReader(logger, metrics).Load(ctx, cfg.DataPath, *rows)
	if err != nil {
		return err
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	n, err := export(ctx, writer, ds.Records, *batch, metrics)
	if err != nil {
		return fmt.Errorf("export after %d collisions: %w", n, err)
	}
	logger.Info("export complete", "topic", cfg.KafkaTopic, "collisions", n, "dropped_missing_coordinates", ds.Dropped)
	return nil
}

// export publishes records in batches of size and returns how many were
// written.
func export(ctx context.Context, loader BatchLoader, records []domain.Collision, size int, metrics *observability.Metrics) (int, error) {
	written := 0
	for start := 0; start < len(records); start += size {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := min(start+size, len(records))
		if err := loader.LoadBatch(ctx, records[start:end]); err != nil {
			return written, err
		}
		written += end - start
		metrics.RecordsExported.Add(float64(end - start))
	}
	return written, nil
}
