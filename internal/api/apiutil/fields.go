package apiutil

import (
	"fmt"
	"net/http"
	"strings"
)

const maxIDLength = 128

// PathID returns a trimmed path value. Entity ids are opaque to the dashboard,
// so only emptiness, length and control characters are checked.
func PathID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	if raw == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if len(raw) > maxIDLength {
		return "", fmt.Errorf("%s is too long", name)
	}
	for _, ch := range raw {
		if ch < 0x20 || ch == 0x7f {
			return "", fmt.Errorf("%s is invalid", name)
		}
	}
	return raw, nil
}

// FormValues returns every submitted value for key, including repeated
// checkbox inputs. ParseForm must have been called.
func FormValues(r *http.Request, key string) []string {
	if r.Form == nil {
		return nil
	}
	return r.Form[key]
}
