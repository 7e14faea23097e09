package layouts

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/health"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/nav"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
)

const defaultAppName = "Front Desk"

type Options struct {
	AppName string
	Health  *health.Status
}

var options atomic.Pointer[Options]

// Configure sets the shell options used by every page. It is called once at
// startup.
func Configure(opts Options) {
	if opts.AppName == "" {
		opts.AppName = defaultAppName
	}
	options.Store(&opts)
}

func currentOptions() Options {
	if opts := options.Load(); opts != nil {
		return *opts
	}
	return Options{AppName: defaultAppName}
}

// Page describes the shell around one page of content.
type Page struct {
	Title        string
	CurrentPath  string
	BusinessType models.BusinessType
}

// PageFor builds page metadata from the request path.
func PageFor(r *http.Request, title string) Page {
	return Page{Title: title, CurrentPath: r.URL.Path}
}

type baseData struct {
	AppName string
	Title   string
	Sidebar []nav.Item
	Banner  string
	Accent  template.CSS
	Content template.HTML
}

// Base wraps content in the document shell: sidebar, API banner and scripts.
func Base(content templ.Component, page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		opts := currentOptions()
		data := baseData{
			AppName: opts.AppName,
			Title:   page.Title,
			Sidebar: nav.SidebarItems(page.CurrentPath),
			Accent:  accentCSSVars(page.BusinessType),
		}
		if snap := opts.Health.Snapshot(); !snap.Reachable {
			data.Banner = snap.Message
			if data.Banner == "" {
				data.Banner = "The booking API is unreachable. Data shown may be incomplete."
			}
		}
		if content != nil {
			rendered, err := templ.ToGoHTML(ctx, content)
			if err != nil {
				return err
			}
			data.Content = rendered
		}
		return templates.Component("layouts/base", data).Render(ctx, w)
	})
}

type NotFoundData struct {
	Title    string
	Message  string
	BackHref string
	BackText string
}

// NotFound is the full-page state for detail and settings routes whose
// entity does not exist.
func NotFound(data NotFoundData) templ.Component {
	if data.Title == "" {
		data.Title = "Not found"
	}
	if data.BackHref == "" {
		data.BackHref = "/businesses"
		data.BackText = "Back to properties"
	}
	return templates.Component("layouts/notfound", data)
}

type menuData struct {
	AppName string
	Items   []nav.Item
}

// Menu is the slide-over navigation used on narrow screens.
func Menu(currentPath string) templ.Component {
	return templates.Component("layouts/menu", menuData{
		AppName: currentOptions().AppName,
		Items:   nav.SidebarItems(currentPath),
	})
}

type SearchResult struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Type     models.BusinessType `json:"type"`
	Location string              `json:"location,omitempty"`
}

type SearchData struct {
	Query   string
	Results []SearchResult
}

// SearchResults lists quick-search matches under the sidebar search box.
func SearchResults(data SearchData) templ.Component {
	return templates.Component("layouts/search_results", data)
}
