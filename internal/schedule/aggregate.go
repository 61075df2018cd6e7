package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field selects the numeric observation column that is averaged.
type Field int

const (
	FieldScheduledDelay Field = iota
	FieldPredictionError
)

// ParseField maps a configuration value to a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scheduled_delay", "scheduled_delay_minutes":
		return FieldScheduledDelay, nil
	case "prediction_error", "prediction_error_minutes":
		return FieldPredictionError, nil
	default:
		return FieldScheduledDelay, fmt.Errorf("unknown aggregate field %q (allowed: scheduled_delay, prediction_error)", s)
	}
}

// String returns the configuration name of the field.
func (f Field) String() string {
	if f == FieldPredictionError {
		return "prediction_error"
	}
	return "scheduled_delay"
}

// Value returns the field value of rec, or false when rec has none.
func (f Field) Value(rec Observation) (float64, bool) {
	switch f {
	case FieldPredictionError:
		if rec.PredictionErrorMinutes == nil {
			return 0, false
		}
		return *rec.PredictionErrorMinutes, true
	default:
		return rec.ScheduledDelayMinutes, true
	}
}

// Round2 rounds v to two decimal places, half away from zero, using the
// shortest decimal representation of v. 1.005 becomes 1.01.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 2 {
		return v
	}

	digits, err := strconv.ParseUint(whole+frac[:2], 10, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	if frac[2] >= '5' {
		digits++
	}

	r := float64(digits) / 100
	if v < 0 && r != 0 {
		r = -r
	}
	return r
}

// AverageAtSchedule averages field over the candidates whose ScheduledArrival
// string is identical to the anchor's. It returns nil when anchor is nil or
// no candidate contributes a finite value.
func AverageAtSchedule(anchor *Observation, candidates []Observation, field Field) *float64 {
	if anchor == nil {
		return nil
	}

	var sum float64
	var count int
	for _, rec := range candidates {
		if rec.ScheduledArrival != anchor.ScheduledArrival {
			continue
		}
		v, ok := field.Value(rec)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}

	avg := Round2(sum / float64(count))
	return &avg
}

// RouteSchedule is the resolved next arrival for one route at a stop.
type RouteSchedule struct {
	Route string
	// Next is nil when no arrival exists at or after the requested time.
	Next *Observation
	// Average is nil when Next is nil or nothing could be averaged.
	Average *float64
}

// StopSchedule is the per-route schedule answer for one stop.
type StopSchedule struct {
	StopName      string
	RequestedTime TimeOfDay
	Field         Field
	Routes        []RouteSchedule
}

// StopSchedule resolves the next arrival for every route seen at stopName and
// averages field over the records sharing that exact scheduled arrival.
// Routes are sorted by name.
func (s *Store) StopSchedule(stopName string, t TimeOfDay, field Field) (StopSchedule, error) {
	if !s.HasStop(stopName) {
		return StopSchedule{}, fmt.Errorf("%w: %q", ErrStopNotFound, stopName)
	}

	routes := s.RoutesAtStop(stopName)
	result := StopSchedule{
		StopName:      stopName,
		RequestedTime: t,
		Field:         field,
		Routes:        make([]RouteSchedule, 0, len(routes)),
	}

	for _, route := range routes {
		rs := RouteSchedule{Route: route}
		if next, ok := s.NextArrivalAt(stopName, route, t); ok {
			rs.Next = &next
			rs.Average = AverageAtSchedule(&next, s.RecordsAt(stopName, route), field)
		}
		result.Routes = append(result.Routes, rs)
	}

	return result, nil
}

// RouteAverage is the mean scheduled delay of one route across the store.
type RouteAverage struct {
	Route        string
	AverageDelay float64
	Count        int
}

// RouteAverages returns the mean scheduled delay per route, sorted by route.
func (s *Store) RouteAverages() []RouteAverage {
	averages := make([]RouteAverage, 0, len(s.routes))
	for _, route := range s.routes {
		var sum float64
		var count int
		for _, i := range s.byRoute[route] {
			v := s.records[i].ScheduledDelayMinutes
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		averages = append(averages, RouteAverage{
			Route:        route,
			AverageDelay: Round2(sum / float64(count)),
			Count:        count,
		})
	}
	return averages
}

// RouteHourSummary is the mean scheduled delay of a route within one hour.
type RouteHourSummary struct {
	Route                 string
	Hour                  int
	FirstScheduledArrival string
	AverageDelay          float64
	Count                 int
}

// RouteHourAverage averages the scheduled delay of every record for route
// whose HourOfDay equals hour, across all stops. FirstScheduledArrival is
// taken from the first matching record in input order.
func (s *Store) RouteHourAverage(route string, hour int) (RouteHourSummary, bool) {
	summary := RouteHourSummary{Route: route, Hour: hour}
	var sum float64
	for _, i := range s.byRoute[route] {
		rec := s.records[i]
		if rec.HourOfDay != hour {
			continue
		}
		if summary.Count == 0 {
			summary.FirstScheduledArrival = rec.ScheduledArrival
		}
		sum += rec.ScheduledDelayMinutes
		summary.Count++
	}
	if summary.Count == 0 {
		return RouteHourSummary{}, false
	}
	summary.AverageDelay = Round2(sum / float64(summary.Count))
	return summary, true
}
