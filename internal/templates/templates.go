// Package templates holds the embedded page and partial markup. Each named
// template is exposed as a templ.Component so handlers render pages and
// htmx fragments through one contract.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/frontdesk-hq/frontdesk/internal/contact"
	"github.com/frontdesk-hq/frontdesk/internal/display"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/models"
)

//go:embed html
var files embed.FS

var (
	currency atomic.Value
	titler   = cases.Title(language.English)
	parsed   = template.Must(template.New("root").Funcs(funcMap()).ParseFS(files, "html/*/*.html"))
)

func init() {
	currency.Store("GHS")
}

// SetCurrency changes the label used by the amount formatter.
func SetCurrency(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	currency.Store(label)
}

func Currency() string {
	return currency.Load().(string)
}

// Component renders the named template with data.
func Component(name string, data any) templ.Component {
	tmpl := parsed.Lookup(name)
	if tmpl == nil {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return fmt.Errorf("template %q not found", name)
		})
	}
	return templ.FromGoHTML(tmpl, data)
}

// Has reports whether a template with name exists.
func Has(name string) bool {
	return parsed.Lookup(name) != nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime":     display.FormatTime12h,
		"formatDate":     display.FormatDate,
		"formatDateLong": display.FormatDateLong,
		"formatStay":     display.FormatStay,
		"amount": func(amount *models.Amount) string {
			return display.FormatAmount(amount, Currency())
		},
		"amountInput": AmountInput,
		// Palette values are fixed CSS variable references, never user input.
		"statusBg": func(status models.BookingStatus) template.CSS {
			return template.CSS(display.StatusPalette(status).Background)
		},
		"statusFg": func(status models.BookingStatus) template.CSS {
			return template.CSS(display.StatusPalette(status).Foreground)
		},
		"statusLabel": display.StatusLabel,
		"initial": func(name string) string {
			return display.Initial(name, "?")
		},
		"plural":   display.Plural,
		"phone":    contact.FormatInternational,
		"str":      models.StringValue,
		"intInput": IntInput,
		"dayLabel": models.DayLabel,
		"join":     strings.Join,
		"title":    titler.String,
		"label": func(value string) string {
			return titler.String(strings.ReplaceAll(value, "_", " "))
		},
		"typeLabel": func(t models.BusinessType) string {
			if t == "" {
				return "Business"
			}
			return titler.String(string(t))
		},
		"isHotel": func(t models.BusinessType) bool {
			return t == models.BusinessTypeHotel
		},
		"bookingGuests": func(b models.Booking) string {
			return IntInput(b.Guests())
		},
		"savedClearPath": func() string { return forms.SavedIndicatorClearPath },
		"savedDelayMs":   func() int64 { return forms.SavedIndicatorDuration.Milliseconds() },
	}
}

// AmountInput renders an optional amount as an input value; nil is "".
func AmountInput(amount *models.Amount) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(amount.Float64(), 'f', -1, 64)
}

// IntInput renders an optional integer as an input value; nil is "".
func IntInput(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
