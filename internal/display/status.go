package display

import (
	"strings"
	"unicode"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

type Palette struct {
	Background string
	Foreground string
}

var (
	successPalette = Palette{Background: "var(--success-bg)", Foreground: "var(--success)"}
	warningPalette = Palette{Background: "var(--warning-bg)", Foreground: "var(--warning)"}
	errorPalette   = Palette{Background: "var(--error-bg)", Foreground: "var(--error)"}
	infoPalette    = Palette{Background: "var(--info-bg)", Foreground: "var(--info)"}
)

var statusPalettes = map[models.BookingStatus]Palette{
	models.BookingStatusConfirmed: successPalette,
	models.BookingStatusPending:   warningPalette,
	models.BookingStatusCancelled: errorPalette,
	models.BookingStatusCompleted: infoPalette,
	models.BookingStatusNoShow:    errorPalette,
}

// StatusPalette maps a booking status to its badge colors. Unknown statuses
// get the pending palette.
func StatusPalette(status models.BookingStatus) Palette {
	if palette, ok := statusPalettes[status]; ok {
		return palette
	}
	return statusPalettes[models.BookingStatusPending]
}

// StatusLabel makes a status human readable: "no_show" -> "no show".
func StatusLabel(status models.BookingStatus) string {
	return strings.Replace(string(status), "_", " ", 1)
}

// Initial returns the upper-cased first letter of name, or fallback.
func Initial(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// Plural returns singular when n == 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	if len(singular) > 1 && strings.HasSuffix(singular, "y") && !strings.ContainsRune("aeiou", rune(singular[len(singular)-2])) {
		return singular[:len(singular)-1] + "ies"
	}
	return singular + "s"
}
