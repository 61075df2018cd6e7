package models

import (
	"encoding/json"

	"busdelay.org/internal/schedule"
)

// StopScheduleEntry is the answer to a stop schedule lookup.
type StopScheduleEntry struct {
	StopName      string               `json:"stopName"`
	RequestedTime string               `json:"requestedTime"`
	AveragedField string               `json:"averagedField"`
	RoutesAtStop  []RouteScheduleEntry `json:"routesAtStop"`
}

// RouteScheduleEntry is the next arrival of one route at the stop. The
// average is serialized under a key naming the averaged field.
type RouteScheduleEntry struct {
	Route                string
	NextBusID            *string
	NextScheduledArrival *string
	AverageAtSchedule    *float64
	Field                schedule.Field
}

func (e RouteScheduleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"route":                e.Route,
		"nextBusId":            e.NextBusID,
		"nextScheduledArrival": e.NextScheduledArrival,
		averageKey(e.Field):    e.AverageAtSchedule,
	})
}

func averageKey(field schedule.Field) string {
	if field == schedule.FieldPredictionError {
		return "averagePredictionErrorAtSchedule"
	}
	return "averageScheduledDelayAtSchedule"
}

func NewStopScheduleEntry(result schedule.StopSchedule) StopScheduleEntry {
	entry := StopScheduleEntry{
		StopName:      result.StopName,
		RequestedTime: result.RequestedTime.ShortString(),
		AveragedField: result.Field.String(),
		RoutesAtStop:  make([]RouteScheduleEntry, 0, len(result.Routes)),
	}
	for _, r := range result.Routes {
		route := RouteScheduleEntry{
			Route:             r.Route,
			AverageAtSchedule: r.Average,
			Field:             result.Field,
		}
		if r.Next != nil {
			busID := r.Next.BusID
			arrival := r.Next.ScheduledArrival
			route.NextBusID = &busID
			route.NextScheduledArrival = &arrival
		}
		entry.RoutesAtStop = append(entry.RoutesAtStop, route)
	}
	return entry
}
