// Package nav derives which navigation entries are active. Everything here is
// a pure function of the request path.
package nav

import (
	"net/url"
	"strings"
)

type Match int

const (
	// Exact matches only the route itself.
	Exact Match = iota
	// Prefix also matches any path below the route, on segment boundaries:
	// "/businesses" matches "/businesses/42" but not "/businesses-archive".
	Prefix
)

type Item struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

// IsActive reports whether route should be highlighted for currentPath.
func IsActive(currentPath, route string, match Match) bool {
	current := cleanPath(currentPath)
	route = cleanPath(route)

	if current == route {
		return true
	}
	if match != Prefix || route == "/" {
		return false
	}
	return strings.HasPrefix(current, route+"/")
}

func SidebarItems(currentPath string) []Item {
	items := []struct {
		label string
		href  string
		icon  string
		match Match
	}{
		{"Dashboard", "/", "home", Exact},
		{"Properties", "/businesses", "building", Prefix},
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, Item{
			Label:  item.label,
			Href:   item.href,
			Icon:   item.icon,
			Active: IsActive(currentPath, item.href, item.match),
		})
	}
	return out
}

// BusinessTabs lists the per-business sections. Tabs match exactly, so the
// overview tab is not highlighted on its sub-pages.
func BusinessTabs(businessID, currentPath string, servicesLabel string) []Item {
	base := "/businesses/" + url.PathEscape(businessID)
	if servicesLabel == "" {
		servicesLabel = "Services"
	}
	tabs := []Item{
		{Label: "Overview", Href: base},
		{Label: "Bookings", Href: base + "/bookings"},
		{Label: servicesLabel, Href: base + "/services"},
		{Label: "FAQs", Href: base + "/faqs"},
		{Label: "Settings", Href: base + "/settings"},
	}
	for i := range tabs {
		tabs[i].Active = IsActive(currentPath, tabs[i].Href, Exact)
	}
	return tabs
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
