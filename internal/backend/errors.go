package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches any call that got a 404 from the API.
	ErrNotFound = errors.New("backend: not found")

	// ErrTransport is returned when the API could not be reached at all.
	ErrTransport = errors.New("backend: transport failure")

	// ErrDecode is returned when a 2xx response body could not be decoded.
	ErrDecode = errors.New("backend: invalid response")

	// ErrStatus is returned for any other non-2xx response.
	ErrStatus = errors.New("backend: unexpected status")
)

const (
	unreachableMessage = "Could not reach the booking API"
	decodeMessage      = "The booking API returned an unexpected response"
	genericMessage     = "Something went wrong. Please try again."
)

// Error is the single failure type returned by Client. Message is always
// safe to show to the user.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the display text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericMessage
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func statusError(op string, status int, body []byte) *Error {
	sentinel := ErrStatus
	if status == http.StatusNotFound {
		sentinel = ErrNotFound
	}

	message := detailMessage(body)
	if message == "" {
		message = statusMessage(status)
	}

	return &Error{
		Op:      op,
		Status:  status,
		Message: message,
		Err:     sentinel,
	}
}

// detailMessage extracts the API's "detail" field. It is either a string or
// a list of validation problems, of which the first is reported.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var problems []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &problems); err == nil && len(problems) > 0 {
		msg := strings.TrimSpace(problems[0].Msg)
		if field := lastLocation(problems[0].Loc); field != "" && msg != "" {
			return fmt.Sprintf("%s: %s", field, msg)
		}
		return msg
	}

	return ""
}

func lastLocation(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if field, ok := loc[len(loc)-1].(string); ok && field != "body" {
		return field
	}
	return ""
}

func statusMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "The booking API rejected the request"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "The dashboard is not authorized to call the booking API"
	case status == http.StatusNotFound:
		return "Not found"
	case status == http.StatusConflict:
		return "The record was changed by someone else. Reload and try again."
	case status == http.StatusUnprocessableEntity:
		return "Some fields are invalid"
	case status >= 500:
		return "The booking API is unavailable. Try again shortly."
	default:
		return fmt.Sprintf("Request failed (status %d)", status)
	}
}

// HTTPStatus is the status the dashboard answers with when a call fails.
// Client errors from the API pass through, except 409 which the dashboard
// reserves for duplicate submissions. Everything else is 502.
func HTTPStatus(err error) int {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status < 400 || apiErr.Status >= 500 {
		return http.StatusBadGateway
	}
	if apiErr.Status == http.StatusConflict {
		return http.StatusUnprocessableEntity
	}
	return apiErr.Status
}
