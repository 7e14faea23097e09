package htmx

import (
	"net/http"
	"net/url"
	"strings"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger sets a single client event. Each successful mutation fires exactly one.
func Trigger(w http.ResponseWriter, event string) {
	w.Header().Set("HX-Trigger", event)
}

// Redirect asks htmx to perform a full client-side navigation.
func Redirect(w http.ResponseWriter, location string) {
	w.Header().Set("HX-Redirect", location)
}

// Target returns the id of the element that issued the request, if any.
func Target(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// CurrentPath is the path of the page that issued the request, taken from
// HX-Current-URL. It is empty for non-htmx requests.
func CurrentPath(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Path
}
