package schedule

import (
	"fmt"
	"time"
)

// ScheduleLayout is the layout of Observation.ScheduledArrival.
const ScheduleLayout = "2006-01-02 15:04:05"

// scheduleParseLayout also accepts fields without zero padding,
// such as "2025-1-1 8:00:00".
const scheduleParseLayout = "2006-1-2 15:4:5"

// Observation is one validated row of historical arrival data.
type Observation struct {
	StopName              string
	Route                 string
	BusID                 string
	ScheduledArrival      string
	HourOfDay             int
	ScheduledDelayMinutes float64
	// PredictionErrorMinutes is nil for dataset variants without the column.
	PredictionErrorMinutes *float64
}

// TimeOfDay is a wall-clock time independent of calendar date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay validates the components and returns the time of day.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour %d out of range 0-23", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute %d out of range 0-59", minute)
	}
	if second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("second %d out of range 0-59", second)
	}
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}

// TimeOfDayOf strips the date from t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Seconds returns the number of whole seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Minutes returns minutes since midnight as a continuous value.
func (t TimeOfDay) Minutes() float64 {
	return float64(t.Hour*60+t.Minute) + float64(t.Second)/60
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Seconds() < u.Seconds()
}

// String formats the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ShortString formats the time as HH:MM, appending seconds only when non-zero.
func (t TimeOfDay) ShortString() string {
	if t.Second != 0 {
		return t.String()
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseScheduledArrival parses a ScheduledArrival value. The raw string,
// not the parsed time, stays the identity of an arrival.
func ParseScheduledArrival(s string) (time.Time, error) {
	return time.Parse(scheduleParseLayout, s)
}
