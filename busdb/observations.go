package busdb

import (
	"context"
	"database/sql"
	"fmt"

	"busdelay.org/internal/logging"
	"busdelay.org/internal/schedule"
)

// Observations returns every stored observation in insertion order.
func (c *Client) Observations(ctx context.Context) (_ []schedule.Observation, err error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT stop_name, bus_id, published_line, scheduled_delay_minutes,
		       hour_of_day, scheduled_arrival, prediction_error_minutes
		FROM observations
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying observations: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_observation_rows")

	var observations []schedule.Observation
	for rows.Next() {
		var (
			obs             schedule.Observation
			predictionError sql.NullFloat64
		)
		if err := rows.Scan(
			&obs.StopName, &obs.BusID, &obs.Route, &obs.ScheduledDelayMinutes,
			&obs.HourOfDay, &obs.ScheduledArrival, &predictionError,
		); err != nil {
			return nil, fmt.Errorf("error scanning observation: %w", err)
		}
		if predictionError.Valid {
			value := predictionError.Float64
			obs.PredictionErrorMinutes = &value
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return observations, nil
}
