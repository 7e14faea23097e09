package display

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

var twelveHourPattern = regexp.MustCompile(`^(1[0-2]|[1-9]):[0-5][0-9] (AM|PM)$`)

func TestFormatTime12hAllWellFormedTimes(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			input := fmt.Sprintf("%02d:%02d", hour, minute)
			got := FormatTime12h(input)
			if !twelveHourPattern.MatchString(got) {
				t.Fatalf("FormatTime12h(%q) = %q, does not match 12h pattern", input, got)
			}
		}
	}
}

func TestFormatTime12h(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"09:05", "9:05 AM"},
		{"12:00", "12:00 PM"},
		{"12:45", "12:45 PM"},
		{"13:15", "1:15 PM"},
		{"23:59", "11:59 PM"},
		{"14:30:00", "2:30 PM"},
		{"", ""},
		{"noon", "noon"},
		{"25:00", "25:00"},
		{"10:7", "10:7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatTime12h(tt.input); got != tt.want {
				t.Errorf("FormatTime12h(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		short string
		long  string
	}{
		{"2026-03-01", "1 Mar 2026", "Sun, 1 Mar 2026"},
		{"2026-12-24T10:00:00Z", "24 Dec 2026", "Thu, 24 Dec 2026"},
		{"", "", ""},
		{"not-a-date", "not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatDate(tt.input); got != tt.short {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.input, got, tt.short)
			}
			if got := FormatDateLong(tt.input); got != tt.long {
				t.Errorf("FormatDateLong(%q) = %q, want %q", tt.input, got, tt.long)
			}
		})
	}
}

func TestFormatStay(t *testing.T) {
	if got := FormatStay("2026-03-01", "2026-03-04"); got != "1 Mar 2026 - 4 Mar 2026" {
		t.Fatalf("FormatStay = %q", got)
	}
	if got := FormatStay("2026-03-01", ""); got != "1 Mar 2026" {
		t.Fatalf("FormatStay without check-out = %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   *models.Amount
		currency string
		want     string
	}{
		{"nil", nil, "GHS", ""},
		{"small", models.AmountPtr(450), "GHS", "GHS 450"},
		{"thousands", models.AmountPtr(1250), "GHS", "GHS 1,250"},
		{"millions", models.AmountPtr(2500000), "GHS", "GHS 2,500,000"},
		{"fraction", models.AmountPtr(1250.5), "GHS", "GHS 1,250.5"},
		{"no currency", models.AmountPtr(1000), "", "1,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatAmount = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusPalette(t *testing.T) {
	if StatusPalette(models.BookingStatusNoShow) != StatusPalette(models.BookingStatusCancelled) {
		t.Fatalf("no_show must share the cancelled palette")
	}
	if StatusPalette(models.BookingStatusCancelled) != errorPalette {
		t.Fatalf("cancelled must use the error palette")
	}
	if StatusPalette("archived") != StatusPalette(models.BookingStatusPending) {
		t.Fatalf("unknown status must fall back to pending palette")
	}
	if StatusPalette("") != warningPalette {
		t.Fatalf("empty status must fall back to pending palette")
	}
	if StatusPalette(models.BookingStatusConfirmed) != successPalette {
		t.Fatalf("confirmed must use the success palette")
	}
}

func TestStatusLabelAndInitial(t *testing.T) {
	if got := StatusLabel(models.BookingStatusNoShow); got != "no show" {
		t.Fatalf("StatusLabel(no_show) = %q", got)
	}
	if got := Initial("ama", "G"); got != "A" {
		t.Fatalf("Initial(ama) = %q", got)
	}
	if got := Initial("  ", "G"); got != "G" {
		t.Fatalf("Initial(blank) = %q", got)
	}
	if got := Plural(1, "night"); got != "night" {
		t.Fatalf("Plural(1) = %q", got)
	}
	if got := Plural(3, "night"); got != "nights" {
		t.Fatalf("Plural(3) = %q", got)
	}
	if got := Plural(0, "Property"); got != "Properties" {
		t.Fatalf("Plural(Property) = %q", got)
	}
	if got := Plural(2, "day"); got != "days" {
		t.Fatalf("Plural(day) = %q", got)
	}
}
