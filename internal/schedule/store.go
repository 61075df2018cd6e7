package schedule

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrEmptyStore is returned when a store would hold no records.
	ErrEmptyStore = errors.New("no valid observation records")
	// ErrStopNotFound is returned when a stop name matches no records.
	ErrStopNotFound = errors.New("stop not found")
)

// Store is an immutable, indexed collection of observations. It is safe for
// concurrent use; a reload builds a new Store instead of mutating this one.
type Store struct {
	records []Observation

	// stop -> route -> timeline of that route's records at the stop
	byStop map[string]map[string]timeline
	// route -> indices into records, input order
	byRoute map[string][]int

	routes []string
	times  []TimeOfDay

	stopNamesOnce sync.Once
	stopNames     []string
}

// NewStore indexes records into a Store. The slice is copied.
func NewStore(records []Observation) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyStore
	}

	s := &Store{
		records: append([]Observation(nil), records...),
		byStop:  make(map[string]map[string]timeline),
		byRoute: make(map[string][]int),
	}

	grouped := make(map[string]map[string][]Observation)
	seenTimes := make(map[TimeOfDay]struct{})

	for i, rec := range s.records {
		routes, ok := grouped[rec.StopName]
		if !ok {
			routes = make(map[string][]Observation)
			grouped[rec.StopName] = routes
		}
		routes[rec.Route] = append(routes[rec.Route], rec)
		s.byRoute[rec.Route] = append(s.byRoute[rec.Route], i)

		if at, err := ParseScheduledArrival(rec.ScheduledArrival); err == nil {
			seenTimes[TimeOfDayOf(at)] = struct{}{}
		}
	}

	for stop, routes := range grouped {
		timelines := make(map[string]timeline, len(routes))
		for route, recs := range routes {
			timelines[route] = newTimeline(recs)
		}
		s.byStop[stop] = timelines
	}

	s.routes = make([]string, 0, len(s.byRoute))
	for route := range s.byRoute {
		s.routes = append(s.routes, route)
	}
	sort.Strings(s.routes)

	s.times = make([]TimeOfDay, 0, len(seenTimes))
	for tod := range seenTimes {
		s.times = append(s.times, tod)
	}
	sort.Slice(s.times, func(i, j int) bool {
		return s.times[i].Before(s.times[j])
	})

	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in input order.
func (s *Store) Records() []Observation {
	return append([]Observation(nil), s.records...)
}

// StopNames returns the sorted unique stop names. The result is computed on
// first use and shared afterwards; callers must not modify it.
func (s *Store) StopNames() []string {
	s.stopNamesOnce.Do(func() {
		names := make([]string, 0, len(s.byStop))
		for name := range s.byStop {
			names = append(names, name)
		}
		sort.Strings(names)
		s.stopNames = names
	})
	return s.stopNames
}

// Routes returns the sorted unique routes. Callers must not modify it.
func (s *Store) Routes() []string {
	return s.routes
}

// HasStop reports whether any record was observed at stopName.
func (s *Store) HasStop(stopName string) bool {
	_, ok := s.byStop[stopName]
	return ok
}

// RoutesAtStop returns the sorted routes observed at stopName.
func (s *Store) RoutesAtStop(stopName string) []string {
	timelines := s.byStop[stopName]
	routes := make([]string, 0, len(timelines))
	for route := range timelines {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

// RecordsAt returns the records for one route at one stop, in input order.
func (s *Store) RecordsAt(stopName, route string) []Observation {
	return s.byStop[stopName][route].records
}
