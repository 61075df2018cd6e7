package schedule

// NextPrediction is the result of predicting the delay of the next
// scheduled bus.
type NextPrediction struct {
	RequestedTime TimeOfDay
	// Found is false when no schedule exists at or after RequestedTime.
	Found                 bool
	NextScheduledTime     TimeOfDay
	PredictedDelayMinutes float64
}

// PredictNextScheduled resolves the global next scheduled time of day at or
// after t and predicts its delay from curve.
func PredictNextScheduled(store *Store, curve *Curve, t TimeOfDay) NextPrediction {
	result := NextPrediction{RequestedTime: t}
	next, ok := store.NextScheduledTime(t)
	if !ok {
		return result
	}
	result.Found = true
	result.NextScheduledTime = next
	result.PredictedDelayMinutes = curve.Predict(next)
	return result
}
