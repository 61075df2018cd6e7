package models

import "busdelay.org/internal/schedule"

// BusDataEntry is the per-route delay overview in chart form: Routes and
// AvgDelays are parallel slices.
type BusDataEntry struct {
	Routes    []string  `json:"routes"`
	AvgDelays []float64 `json:"avgDelays"`
	Counts    []int     `json:"counts"`
}

func NewBusDataEntry(averages []schedule.RouteAverage) BusDataEntry {
	entry := BusDataEntry{
		Routes:    make([]string, 0, len(averages)),
		AvgDelays: make([]float64, 0, len(averages)),
		Counts:    make([]int, 0, len(averages)),
	}
	for _, a := range averages {
		entry.Routes = append(entry.Routes, a.Route)
		entry.AvgDelays = append(entry.AvgDelays, a.AverageDelay)
		entry.Counts = append(entry.Counts, a.Count)
	}
	return entry
}

// FilterOptionsEntry lists the routes that can be filtered on.
type FilterOptionsEntry struct {
	Routes []string `json:"routes"`
}

// ArrivalEntry is the mean delay of a route within one hour of the day.
type ArrivalEntry struct {
	Route            string  `json:"route"`
	Hour             int     `json:"hour"`
	ScheduledArrival string  `json:"scheduledArrival"`
	AverageDelay     float64 `json:"averageDelay"`
	Count            int     `json:"count"`
}

func NewArrivalEntry(s schedule.RouteHourSummary) ArrivalEntry {
	return ArrivalEntry{
		Route:            s.Route,
		Hour:             s.Hour,
		ScheduledArrival: s.FirstScheduledArrival,
		AverageDelay:     s.AverageDelay,
		Count:            s.Count,
	}
}
