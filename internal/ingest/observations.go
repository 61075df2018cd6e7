package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"busdelay.org/internal/schedule"
)

// Column names of the observation CSV.
const (
	ColStopName         = "stop_name"
	ColBusID            = "bus_id"
	ColRoute            = "published_line"
	ColDelayMinutes     = "scheduled_delay_minutes"
	ColHour             = "hour_of_day"
	ColScheduledArrival = "scheduled_arrival"
	ColPredictionError  = "prediction_error_minutes"
)

var (
	// ErrEmptySource is returned when the input has no header row.
	ErrEmptySource = errors.New("source is empty or has no header row")
	// ErrMissingColumns is returned when required columns are absent.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrNoValidRows is returned when every row was dropped or there were none.
	ErrNoValidRows = errors.New("no valid observation rows")
)

// SkipReason classifies a dropped row.
type SkipReason string

const (
	SkipMalformedRow       SkipReason = "malformed_row"
	SkipMissingField       SkipReason = "missing_field"
	SkipInvalidHour        SkipReason = "invalid_hour"
	SkipInvalidDelay       SkipReason = "invalid_delay"
	SkipInvalidPrediction  SkipReason = "invalid_prediction_error"
	SkipInvalidScheduledAt SkipReason = "invalid_scheduled_arrival"
)

// Options controls row validation.
type Options struct {
	// RequirePredictionError makes prediction_error_minutes a required column
	// and drops rows without a finite value for it.
	RequirePredictionError bool
}

// Result is the outcome of validating a batch of rows.
type Result struct {
	Records     []schedule.Observation
	Skipped     int
	SkipReasons map[SkipReason]int
}

// Processed returns the number of rows kept.
func (r Result) Processed() int {
	return len(r.Records)
}

// SortedReasons returns the skip reasons in a stable order for reporting.
func (r Result) SortedReasons() []SkipReason {
	reasons := make([]SkipReason, 0, len(r.SkipReasons))
	for reason := range r.SkipReasons {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

func (r *Result) skip(reason SkipReason) {
	if r.SkipReasons == nil {
		r.SkipReasons = make(map[SkipReason]int)
	}
	r.Skipped++
	r.SkipReasons[reason]++
}

func (r *Result) err() error {
	if len(r.Records) > 0 {
		return nil
	}
	if r.Skipped > 0 {
		return fmt.Errorf("%w: %d rows present but none could be processed", ErrNoValidRows, r.Skipped)
	}
	return fmt.Errorf("%w: source contains no data rows", ErrNoValidRows)
}

// ReadObservationsCSV reads and validates observation rows. Invalid rows are
// dropped and counted; the error is non-nil only when the source itself is
// unusable or yields no valid rows, in which case Result still carries the
// skip counts.
func ReadObservationsCSV(r io.Reader, opts Options) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrEmptySource
	}
	if err != nil {
		return Result{}, fmt.Errorf("error reading header: %w", err)
	}

	columns, err := indexColumns(header, opts)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.skip(SkipMalformedRow)
				continue
			}
			return result, fmt.Errorf("error reading rows: %w", err)
		}

		rec, reason := columns.parse(row, opts)
		if reason != "" {
			result.skip(reason)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, result.err()
}

// FromObservations applies row validation to already typed observations,
// such as rows read back from SQLite.
func FromObservations(rows []schedule.Observation, opts Options) (Result, error) {
	var result Result
	for _, rec := range rows {
		rec.StopName = strings.TrimSpace(rec.StopName)
		rec.BusID = strings.TrimSpace(rec.BusID)
		rec.Route = strings.TrimSpace(rec.Route)
		if reason := validate(rec, opts); reason != "" {
			result.skip(reason)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, result.err()
}

type columnIndex struct {
	stop, bus, route, delay, hour, scheduled int
	prediction                               int
}

func indexColumns(header []string, opts Options) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[name] = i
	}

	required := []string{ColStopName, ColBusID, ColRoute, ColDelayMinutes, ColHour, ColScheduledArrival}
	if opts.RequirePredictionError {
		required = append(required, ColPredictionError)
	}

	var missing []string
	for _, name := range required {
		if _, ok := positions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s (available: %s)", ErrMissingColumns,
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}

	prediction, ok := positions[ColPredictionError]
	if !ok {
		prediction = -1
	}

	return columnIndex{
		stop:       positions[ColStopName],
		bus:        positions[ColBusID],
		route:      positions[ColRoute],
		delay:      positions[ColDelayMinutes],
		hour:       positions[ColHour],
		scheduled:  positions[ColScheduledArrival],
		prediction: prediction,
	}, nil
}

func field(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func (c columnIndex) parse(row []string, opts Options) (schedule.Observation, SkipReason) {
	stop, ok1 := field(row, c.stop)
	bus, ok2 := field(row, c.bus)
	route, ok3 := field(row, c.route)
	scheduled, ok4 := field(row, c.scheduled)
	hourStr, ok5 := field(row, c.hour)
	delayStr, ok6 := field(row, c.delay)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return schedule.Observation{}, SkipMalformedRow
	}

	rec := schedule.Observation{
		StopName:         strings.TrimSpace(stop),
		BusID:            strings.TrimSpace(bus),
		Route:            strings.TrimSpace(route),
		ScheduledArrival: scheduled,
	}
	if rec.StopName == "" || rec.BusID == "" || rec.Route == "" || rec.ScheduledArrival == "" {
		return schedule.Observation{}, SkipMissingField
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil {
		return schedule.Observation{}, SkipInvalidHour
	}
	rec.HourOfDay = hour

	delay, err := strconv.ParseFloat(strings.TrimSpace(delayStr), 64)
	if err != nil {
		return schedule.Observation{}, SkipInvalidDelay
	}
	rec.ScheduledDelayMinutes = delay

	if predStr, ok := field(row, c.prediction); ok && strings.TrimSpace(predStr) != "" {
		pred, err := strconv.ParseFloat(strings.TrimSpace(predStr), 64)
		if err != nil {
			return schedule.Observation{}, SkipInvalidPrediction
		}
		rec.PredictionErrorMinutes = &pred
	}

	return rec, validate(rec, opts)
}

func validate(rec schedule.Observation, opts Options) SkipReason {
	if rec.StopName == "" || rec.BusID == "" || rec.Route == "" || rec.ScheduledArrival == "" {
		return SkipMissingField
	}
	if rec.HourOfDay < 0 || rec.HourOfDay > 23 {
		return SkipInvalidHour
	}
	if math.IsNaN(rec.ScheduledDelayMinutes) || math.IsInf(rec.ScheduledDelayMinutes, 0) {
		return SkipInvalidDelay
	}
	if rec.PredictionErrorMinutes == nil {
		if opts.RequirePredictionError {
			return SkipInvalidPrediction
		}
	} else if v := *rec.PredictionErrorMinutes; math.IsNaN(v) || math.IsInf(v, 0) {
		return SkipInvalidPrediction
	}
	if _, err := schedule.ParseScheduledArrival(rec.ScheduledArrival); err != nil {
		return SkipInvalidScheduledAt
	}
	return ""
}
