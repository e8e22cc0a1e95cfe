package shiftgrid

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// EndTimeOverride sets the default end time for events on dates matching an RRule
type EndTimeOverride struct {
	rule    string
	option  rrule.ROption
	EndTime string
}

// NewEndTimeOverride parses the rule and validates the end time
func NewEndTimeOverride(rule string, endTime string) (EndTimeOverride, error) {
	option, err := rrule.StrToROption(rule)
	if err != nil {
		return EndTimeOverride{}, fmt.Errorf("failed to parse rrule %q: %w", rule, err)
	}
	if _, err := ParseTimeOfDay(endTime); err != nil {
		return EndTimeOverride{}, err
	}

	return EndTimeOverride{
		rule:    rule,
		option:  *option,
		EndTime: endTime,
	}, nil
}

// Rule returns the RRule string the override was built from
func (o EndTimeOverride) Rule() string {
	return o.rule
}

// AppliesTo reports whether the calendar day of date is an occurrence of the rule
func (o EndTimeOverride) AppliesTo(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	// Anchor the rule a week before the day so weekly rules have an occurrence in range
	option := o.option
	option.Dtstart = day.AddDate(0, 0, -7)
	rule, err := rrule.NewRRule(option)
	if err != nil {
		return false
	}

	target := day.Format("2006-01-02")
	for _, occurrence := range rule.Between(day, day.AddDate(0, 0, 1), true) {
		if occurrence.Format("2006-01-02") == target {
			return true
		}
	}
	return false
}

// ResolveEndTime picks the end time for an event: its own end time if set, else the
// first matching override, else fallback, else DefaultEndTime
func ResolveEndTime(start time.Time, eventEnd string, overrides []EndTimeOverride, fallback string) string {
	if eventEnd != "" {
		return eventEnd
	}
	for _, override := range overrides {
		if override.AppliesTo(start) {
			return override.EndTime
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultEndTime
}
