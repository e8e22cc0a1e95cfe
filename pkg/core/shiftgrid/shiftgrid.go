package shiftgrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultEndTime is used when an event has no end time of its own
const DefaultEndTime = "23:00"

const (
	minutesPerDay   = 24 * 60
	minutesPerShift = 60
)

// ErrInvalidTime is returned for time-of-day strings that are not HH:MM
var ErrInvalidTime = errors.New("invalid time of day")

// GenerateShiftKeys returns the start of every one-hour shift between start and
// endTimeOfDay. An end at or before the start is taken to fall on the next day.
// An empty endTimeOfDay defaults to DefaultEndTime.
func GenerateShiftKeys(start time.Time, endTimeOfDay string) ([]string, error) {
	if endTimeOfDay == "" {
		endTimeOfDay = DefaultEndTime
	}

	endMinutes, err := ParseTimeOfDay(endTimeOfDay)
	if err != nil {
		return nil, err
	}

	startMinutes := start.Hour()*60 + start.Minute()
	if endMinutes <= startMinutes {
		endMinutes += minutesPerDay
	}

	keys := make([]string, 0, (endMinutes-startMinutes+minutesPerShift-1)/minutesPerShift)
	for m := startMinutes; m < endMinutes; m += minutesPerShift {
		keys = append(keys, FormatTimeOfDay(m))
	}

	return keys, nil
}

// ParseTimeOfDay converts "HH:MM" (or "H:MM") into minutes since midnight
func ParseTimeOfDay(value string) (int, error) {
	hourStr, minuteStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(minuteStr) != 2 || hourStr == "" || len(hourStr) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return hour*60 + minute, nil
}

// FormatTimeOfDay renders minutes as a zero-padded HH:MM, wrapping at 24 hours
func FormatTimeOfDay(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsValidTimeOfDay reports whether value parses as HH:MM
func IsValidTimeOfDay(value string) bool {
	_, err := ParseTimeOfDay(value)
	return err == nil
}
