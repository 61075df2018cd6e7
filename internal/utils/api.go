package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"busdelay.org/internal/schedule"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?$`)

// ParseIntParam parses an integer query parameter within [min, max]. A
// missing required parameter or an invalid value is recorded in fieldErrors.
func ParseIntParam(params url.Values, key string, min, max int, required bool, fieldErrors map[string][]string) (int, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		if required {
			fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		}
		return 0, false, fieldErrors
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false, fieldErrors
	}
	if i < min || i > max {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Field %q must be between %d and %d.", key, min, max))
		return 0, false, fieldErrors
	}
	return i, true, fieldErrors
}

// ParseClockParams reads the hour, minute and optional second parameters
// into a time of day.
func ParseClockParams(params url.Values, fieldErrors map[string][]string) (schedule.TimeOfDay, map[string][]string) {
	hour, hourOK, fieldErrors := ParseIntParam(params, "hour", 0, 23, true, fieldErrors)
	minute, minuteOK, fieldErrors := ParseIntParam(params, "minute", 0, 59, true, fieldErrors)
	second, _, fieldErrors := ParseIntParam(params, "second", 0, 59, false, fieldErrors)
	if !hourOK || !minuteOK {
		return schedule.TimeOfDay{}, fieldErrors
	}

	tod, err := schedule.NewTimeOfDay(hour, minute, second)
	if err != nil {
		fieldErrors["time"] = append(fieldErrors["time"], err.Error())
	}
	return tod, fieldErrors
}

// ParseTimeOfDayParam parses a HH:MM or HH:MM:SS query parameter.
func ParseTimeOfDayParam(params url.Values, key string, fieldErrors map[string][]string) (schedule.TimeOfDay, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		return schedule.TimeOfDay{}, fieldErrors
	}

	m := timeOfDayPattern.FindStringSubmatch(val)
	if m == nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Field %q must use HH:MM or HH:MM:SS format.", key))
		return schedule.TimeOfDay{}, fieldErrors
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	tod, err := schedule.NewTimeOfDay(hour, minute, second)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], err.Error())
	}
	return tod, fieldErrors
}
