// Package contact validates and normalizes the phone numbers businesses
// publish to guests.
package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Only digits, whitespace and the usual separators. Letters or an "@" mean
// the value is not a phone number, even if it contains enough digits.
var phoneChars = regexp.MustCompile(`^\+?[0-9\s().\-]+$`)

// IsPhoneNumber reports whether raw parses as a valid number. Numbers without
// a country code are read in defaultRegion (ISO 3166-1 alpha-2).
func IsPhoneNumber(raw, defaultRegion string) bool {
	_, err := parse(raw, defaultRegion)
	return err == nil
}

// NormalizePhone returns raw in E.164 form.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	num, err := parse(raw, defaultRegion)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// FormatInternational renders an E.164 number for display, e.g.
// "+233 24 123 4567". Unparsable input is returned unchanged.
func FormatInternational(raw string) string {
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

func parse(raw, defaultRegion string) (*phonenumbers.PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("phone number is empty")
	}
	if !phoneChars.MatchString(raw) {
		return nil, fmt.Errorf("phone number %q contains invalid characters", raw)
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return nil, fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("phone number %q is not valid", raw)
	}
	return num, nil
}
