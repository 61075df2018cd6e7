package busdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"busdelay.org/internal/logging"
	"busdelay.org/internal/schedule"
)

// InsertObservationBatch adds observations to the database in one transaction.
func (c *Client) InsertObservationBatch(ctx context.Context, observations []schedule.Observation) error {
	return c.inTx(ctx, "insert_observation_batch", func(tx *sql.Tx) error {
		return c.insertObservations(ctx, tx, observations)
	})
}

func (c *Client) inTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, operation)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (c *Client) insertObservations(ctx context.Context, tx *sql.Tx, observations []schedule.Observation) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (
			stop_name, bus_id, published_line, scheduled_delay_minutes,
			hour_of_day, scheduled_arrival, prediction_error_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, c.logger, "insert_observation_statement")

	for _, obs := range observations {
		_, err := stmt.ExecContext(ctx,
			obs.StopName, obs.BusID, obs.Route, obs.ScheduledDelayMinutes,
			obs.HourOfDay, obs.ScheduledArrival, toNullFloat64(obs.PredictionErrorMinutes),
		)
		if err != nil {
			return fmt.Errorf("error inserting observation: %w", err)
		}
	}
	return nil
}

func clearObservations(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return fmt.Errorf("error clearing observations: %w", err)
	}
	return nil
}

func recordImport(ctx context.Context, tx *sql.Tx, source string, imported, skipped int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, imported_rows, skipped_rows, imported_at) VALUES (?, ?, ?, ?)`,
		source, imported, skipped, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("error recording import: %w", err)
	}
	return nil
}
