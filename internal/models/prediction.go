package models

import "busdelay.org/internal/schedule"

// PredictionEntry is a curve prediction for a requested time of day.
type PredictionEntry struct {
	RequestedTime         string   `json:"requestedTime"`
	PredictedDelayMinutes *float64 `json:"predictedDelayMinutes"`
	Message               string   `json:"message"`
}

func NewPredictionEntry(requested schedule.TimeOfDay, delay float64) PredictionEntry {
	rounded := schedule.Round2(delay)
	return PredictionEntry{
		RequestedTime:         requested.String(),
		PredictedDelayMinutes: &rounded,
		Message:               "Prediction successful.",
	}
}

// NextPredictionEntry is the predicted delay of the next scheduled bus.
// The time and delay are null when nothing is scheduled at or after the
// requested time.
type NextPredictionEntry struct {
	RequestedTime         string   `json:"requestedTime"`
	NextScheduledTime     *string  `json:"nextScheduledTime"`
	PredictedDelayMinutes *float64 `json:"predictedDelayMinutes"`
	Message               string   `json:"message"`
}

func NewNextPredictionEntry(p schedule.NextPrediction) NextPredictionEntry {
	entry := NextPredictionEntry{RequestedTime: p.RequestedTime.String()}
	if !p.Found {
		entry.Message = "No schedule found at or after the requested time."
		return entry
	}
	next := p.NextScheduledTime.String()
	delay := schedule.Round2(p.PredictedDelayMinutes)
	entry.NextScheduledTime = &next
	entry.PredictedDelayMinutes = &delay
	entry.Message = "Prediction successful."
	return entry
}
