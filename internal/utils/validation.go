package utils

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxStopNameLength = 200
	maxRouteLength    = 100
)

// ValidateStopName validates an exact stop name such as "8 AV/W 86 ST".
// Names are only compared against stored names, so any characters are allowed.
func ValidateStopName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("stop_name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxStopNameLength {
		return errors.New("stop_name too long (max 200 characters)")
	}
	return nil
}

// ValidateRoute validates a published line name such as "M86-SBS".
func ValidateRoute(route string) error {
	if strings.TrimSpace(route) == "" {
		return errors.New("route cannot be empty")
	}
	if utf8.RuneCountInString(route) > maxRouteLength {
		return errors.New("route too long (max 100 characters)")
	}
	return nil
}
