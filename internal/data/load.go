package data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"busdelay.org/busdb"
	"busdelay.org/internal/ingest"
	"busdelay.org/internal/logging"
	"busdelay.org/internal/schedule"
)

// ErrNoCurveConfigured is the curve load error when no curve source is set.
var ErrNoCurveConfigured = errors.New("no curve source configured")

// buildSnapshot loads every configured source. Component failures are
// recorded on the snapshot instead of aborting the build.
func buildSnapshot(ctx context.Context, config Config, logger *slog.Logger) *Snapshot {
	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
		Field:    config.AggregateField,
	}

	result, err := loadObservations(ctx, config, logger)
	snap.Skipped = result.Skipped
	snap.SkipReasons = result.SkipReasons
	if err == nil {
		snap.Store, err = schedule.NewStore(result.Records)
	}
	if err != nil {
		snap.StoreErr = err
		logging.LogError(logger, "failed to load observations", err,
			slog.String("source", config.ObservationsSource))
	} else if result.Skipped > 0 {
		logger.Warn("dropped invalid observation rows",
			slog.Int("skipped", result.Skipped),
			slog.Int("loaded", snap.Store.Len()),
			slog.String("source", config.ObservationsSource))
	}

	if config.CurveSource == "" {
		snap.CurveErr = ErrNoCurveConfigured
	} else if snap.Curve, err = loadCurve(ctx, config); err != nil {
		snap.CurveErr = err
		logging.LogError(logger, "failed to load delay curve", err,
			slog.String("source", config.CurveSource))
	}

	if config.GTFSSource != "" {
		if snap.Routes, err = loadRouteInfo(ctx, config); err != nil {
			snap.GTFSErr = err
			logging.LogError(logger, "failed to load GTFS route metadata", err,
				slog.String("source", config.GTFSSource))
		}
	}

	return snap
}

func loadObservations(ctx context.Context, config Config, logger *slog.Logger) (ingest.Result, error) {
	if ingest.IsSQLite(config.ObservationsSource) {
		return loadObservationsFromDB(ctx, config, logger)
	}

	b, err := ingest.Fetch(ctx, config.HTTPClient, config.ObservationsSource)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.ReadObservationsCSV(bytes.NewReader(b), config.ingestOptions())
}

func loadObservationsFromDB(ctx context.Context, config Config, logger *slog.Logger) (_ ingest.Result, err error) {
	// opening a missing path would create an empty database
	if _, err := os.Stat(config.ObservationsSource); err != nil {
		return ingest.Result{}, fmt.Errorf("observations database: %w", err)
	}

	client, err := busdb.NewClient(busdb.NewConfig(config.ObservationsSource, config.Env, config.Verbose), logger)
	if err != nil {
		return ingest.Result{}, err
	}
	defer logging.HandleDeferredError(&err, client.Close, logger, "close_observation_db")

	rows, err := client.Observations(ctx)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.FromObservations(rows, config.ingestOptions())
}

func loadCurve(ctx context.Context, config Config) (*schedule.Curve, error) {
	b, err := ingest.Fetch(ctx, config.HTTPClient, config.CurveSource)
	if err != nil {
		return nil, fmt.Errorf("error reading curve: %w", err)
	}
	return ingest.ReadCurve(config.CurveSource, bytes.NewReader(b))
}
