// Package display holds the pure formatting helpers used by templates.
// Every function is total: malformed input degrades to "" or is passed
// through unchanged so a bad value never breaks a render.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	apiDateLayout  = "2006-01-02"
	shortDateStyle = "2 Jan 2006"
	longDateStyle  = "Mon, 2 Jan 2006"
)

// FormatTime12h turns "HH:MM" (or "HH:MM:SS") into "H:MM AM|PM".
// Hours 00 and 12 both map to 12.
func FormatTime12h(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 || len(parts[1]) != 2 {
		return value
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return value
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return value
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, suffix)
}

// FormatDate renders an API date ("2006-01-02" or RFC 3339) as "2 Jan 2006".
func FormatDate(value string) string {
	return formatDateWith(value, shortDateStyle)
}

// FormatDateLong renders an API date with the weekday, "Mon, 2 Jan 2006".
func FormatDateLong(value string) string {
	return formatDateWith(value, longDateStyle)
}

// FormatStay renders a check-in/check-out pair, or the single date when the
// stay has no check-out.
func FormatStay(checkIn, checkOut string) string {
	start := FormatDate(checkIn)
	end := FormatDate(checkOut)
	if end == "" {
		return start
	}
	return start + " - " + end
}

func formatDateWith(value, layout string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parsed, err := parseAPIDate(value)
	if err != nil {
		return value
	}
	return parsed.Format(layout)
}

func parseAPIDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(apiDateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
