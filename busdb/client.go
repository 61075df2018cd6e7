package busdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"busdelay.org/internal/ingest"
	"busdelay.org/internal/logging"
)

// Client is the main entry point for the observation database
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime time.Duration
}

// NewClient opens the database and applies the schema.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := createDB(config)
	if err != nil {
		return nil, fmt.Errorf("unable to create DB: %w", err)
	}
	if config.verbose {
		logging.LogOperation(logger, "busdb_tables_created",
			slog.String("db_path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportRuntime reports how long the last import took.
func (c *Client) ImportRuntime() time.Duration {
	return c.importRuntime
}

// ImportResult stores the validated records of an ingest result and
// records the import in the imports table.
func (c *Client) ImportResult(ctx context.Context, source string, result ingest.Result) error {
	return c.importResult(ctx, source, result, false)
}

// ReplaceResult is ImportResult after deleting every stored observation.
// The delete and the import share one transaction, so a failed import
// leaves the previous observations in place. Import history is kept.
func (c *Client) ReplaceResult(ctx context.Context, source string, result ingest.Result) error {
	return c.importResult(ctx, source, result, true)
}

func (c *Client) importResult(ctx context.Context, source string, result ingest.Result, replace bool) error {
	startTime := time.Now()
	defer func() {
		c.importRuntime = time.Since(startTime)
		if c.config.verbose {
			logging.LogOperation(c.logger, "busdb_import_completed",
				slog.String("source", source),
				slog.Bool("replace", replace),
				slog.Int("imported", len(result.Records)),
				slog.Int("skipped", result.Skipped),
				slog.Duration("duration", c.importRuntime))
		}
	}()

	return c.inTx(ctx, "import_result", func(tx *sql.Tx) error {
		if replace {
			if err := clearObservations(ctx, tx); err != nil {
				return err
			}
		}
		if err := c.insertObservations(ctx, tx, result.Records); err != nil {
			return err
		}
		return recordImport(ctx, tx, source, len(result.Records), result.Skipped)
	})
}
