package models

import (
	"fmt"
	"time"
)

// DayKeys is the fixed key set of WorkingHours, Monday first.
var DayKeys = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dayLabels = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

func DayLabel(key string) string {
	if label, ok := dayLabels[key]; ok {
		return label
	}
	return key
}

// WorkingHours maps a day key to an [open, close] pair of "HH:MM" strings.
type WorkingHours map[string][]string

func DefaultWorkingHours(opensAt, closesAt string) WorkingHours {
	hours := make(WorkingHours, len(DayKeys))
	for _, day := range DayKeys {
		hours[day] = []string{opensAt, closesAt}
	}
	return hours
}

// Day returns the open/close pair for day, falling back to the given defaults
// when the entry is missing or malformed.
func (h WorkingHours) Day(day, defaultOpen, defaultClose string) (string, string) {
	pair, ok := h[day]
	if !ok || len(pair) != 2 {
		return defaultOpen, defaultClose
	}
	return pair[0], pair[1]
}

// Validate checks the key set and that every pair is two parseable times.
func (h WorkingHours) Validate() error {
	if len(h) != len(DayKeys) {
		return fmt.Errorf("working_hours must contain all %d days", len(DayKeys))
	}
	for _, day := range DayKeys {
		pair, ok := h[day]
		if !ok {
			return fmt.Errorf("working_hours is missing %s", DayLabel(day))
		}
		if len(pair) != 2 {
			return fmt.Errorf("%s hours must have an opening and closing time", DayLabel(day))
		}
		for _, value := range pair {
			if _, err := time.Parse("15:04", value); err != nil {
				return fmt.Errorf("%s hours must be in HH:MM format", DayLabel(day))
			}
		}
	}
	return nil
}
