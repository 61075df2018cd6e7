package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"busdelay.org/internal/schedule"
)

// ErrMalformedCurve is returned when a curve artifact cannot be decoded.
var ErrMalformedCurve = errors.New("malformed curve artifact")

type curveArtifact struct {
	SmoothedCurve [][]float64 `json:"smoothed_curve"`
}

// ReadCurveJSON decodes a model artifact of the form
// {"smoothed_curve": [[minute_of_day, predicted_delay], ...]} and validates it.
func ReadCurveJSON(r io.Reader) (*schedule.Curve, error) {
	var artifact curveArtifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCurve, err)
	}
	if artifact.SmoothedCurve == nil {
		return nil, fmt.Errorf("%w: missing 'smoothed_curve'", ErrMalformedCurve)
	}

	samples := make([]schedule.Sample, 0, len(artifact.SmoothedCurve))
	for i, pair := range artifact.SmoothedCurve {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want 2", ErrMalformedCurve, i, len(pair))
		}
		samples = append(samples, schedule.Sample{MinuteOfDay: pair[0], PredictedDelay: pair[1]})
	}

	return schedule.NewCurve(samples)
}

// ReadCurveCSV decodes a two column curve. A non-numeric first row is
// treated as a header.
func ReadCurveCSV(r io.Reader) (*schedule.Curve, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCurve, err)
	}

	samples := make([]schedule.Sample, 0, len(rows))
	for i, row := range rows {
		x, errX := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errX != nil || errY != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: row %d is not numeric", ErrMalformedCurve, i+1)
		}
		samples = append(samples, schedule.Sample{MinuteOfDay: x, PredictedDelay: y})
	}

	return schedule.NewCurve(samples)
}

// ReadCurve picks the decoder from the source name.
func ReadCurve(source string, r io.Reader) (*schedule.Curve, error) {
	if strings.HasSuffix(strings.ToLower(source), ".csv") {
		return ReadCurveCSV(r)
	}
	return ReadCurveJSON(r)
}
