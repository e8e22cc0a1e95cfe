package services

import (
	"time"

	"github.com/jakechorley/event-planner/pkg/core/shiftgrid"
)

// Settings carries the configuration the services read
type Settings struct {
	// Location is the timezone events are planned in; UTC when nil
	Location *time.Location
	// DefaultEndTime is used for events without an end time when no override matches
	DefaultEndTime   string
	EndTimeOverrides []shiftgrid.EndTimeOverride
	// Now is replaced in tests
	Now func() time.Time
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.location())
	}
	return s.Now().In(s.location())
}

// endTimeFor resolves the shift grid end time for an event starting at start
func (s Settings) endTimeFor(start time.Time, eventEnd string) string {
	return shiftgrid.ResolveEndTime(start, eventEnd, s.EndTimeOverrides, s.DefaultEndTime)
}
