package display

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount groups thousands and prefixes the currency label,
// e.g. "GHS 1,250.5". A nil amount renders as "".
func FormatAmount(amount *models.Amount, currency string) string {
	if amount == nil {
		return ""
	}
	formatted := amountPrinter.Sprintf("%v", number.Decimal(amount.Float64(), number.MaxFractionDigits(2)))
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}
