package schedule

import (
	"sort"
	"time"
)

type timedEntry struct {
	index int
	at    time.Time
	tod   TimeOfDay
}

// timeline holds a record subset with its parseable entries ordered by full
// timestamp. Records sharing a timestamp keep their input order.
type timeline struct {
	records []Observation
	entries []timedEntry
}

func newTimeline(records []Observation) timeline {
	entries := make([]timedEntry, 0, len(records))
	for i, rec := range records {
		at, err := ParseScheduledArrival(rec.ScheduledArrival)
		if err != nil {
			continue
		}
		entries = append(entries, timedEntry{index: i, at: at, tod: TimeOfDayOf(at)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.Before(entries[j].at)
	})
	return timeline{records: records, entries: entries}
}

func (tl timeline) next(t TimeOfDay) (Observation, bool) {
	for _, e := range tl.entries {
		if !e.tod.Before(t) {
			return tl.records[e.index], true
		}
	}
	return Observation{}, false
}

// NextArrival returns the record with the earliest full scheduled timestamp
// among those whose time of day is at or after t. Records whose timestamp
// does not parse are ignored. There is no wrap-around to the next day: when
// every time of day is earlier than t the second result is false.
func NextArrival(records []Observation, t TimeOfDay) (Observation, bool) {
	return newTimeline(records).next(t)
}

// NextScheduledTime returns the smallest distinct time of day at or after t
// across every record in the store, regardless of stop or route.
func (s *Store) NextScheduledTime(t TimeOfDay) (TimeOfDay, bool) {
	i := sort.Search(len(s.times), func(i int) bool {
		return !s.times[i].Before(t)
	})
	if i == len(s.times) {
		return TimeOfDay{}, false
	}
	return s.times[i], true
}

// NextArrivalAt resolves the next arrival for one route at one stop.
func (s *Store) NextArrivalAt(stopName, route string, t TimeOfDay) (Observation, bool) {
	return s.byStop[stopName][route].next(t)
}
