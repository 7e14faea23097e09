package forms

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

var ErrAlreadySubmitting = errors.New("a submission for this form is already in progress")

// FieldError is a client-side validation failure. It never reaches the API.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

var listSeparator = regexp.MustCompile(`[;,]`)

// RequiredText trims value and fails when nothing is left.
func RequiredText(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	return value, nil
}

// OptionalText trims value and returns nil when it is empty.
func OptionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// OptionalInt returns nil for empty input, never zero.
func OptionalInt(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, FieldError{Field: field, Reason: "must be a whole number"}
	}
	if value < 0 {
		return nil, FieldError{Field: field, Reason: "must be 0 or greater"}
	}
	return &value, nil
}

// PositiveInt returns fallback for empty input and rejects values below 1.
func PositiveInt(raw, field string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// OptionalAmount returns nil for empty input, never zero.
func OptionalAmount(raw, field string) (*models.Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, FieldError{Field: field, Reason: "must be a number"}
	}
	if value < 0 {
		return nil, FieldError{Field: field, Reason: "must be 0 or greater"}
	}
	return models.AmountPtr(value), nil
}

// OptionalURL returns nil for empty input and requires http(s) otherwise.
func OptionalURL(raw, field string) (*string, error) {
	value := OptionalText(raw)
	if value == nil {
		return nil, nil
	}
	parsed, err := url.Parse(*value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, FieldError{Field: field, Reason: "must be an http(s) URL"}
	}
	return value, nil
}

// StringList merges repeated form values and comma/semicolon separated text
// into a trimmed, de-duplicated list. Empty input yields nil.
func StringList(values []string) []string {
	var list []string
	seen := make(map[string]bool)
	for _, value := range values {
		for _, part := range listSeparator.Split(value, -1) {
			part = strings.TrimSpace(part)
			if part == "" || seen[strings.ToLower(part)] {
				continue
			}
			seen[strings.ToLower(part)] = true
			list = append(list, part)
		}
	}
	return list
}

func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}
