// internal/api/nav/handlers.go
package nav

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/api/htmx"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/listfilter"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

const searchLimit = 10

var (
	client     searchClient
	clientOnce sync.Once
)

type searchClient interface {
	ListBusinesses(ctx context.Context) ([]models.Business, error)
}

var searchFilter = listfilter.Filter[models.Business]{
	Fields: []func(models.Business) string{
		func(b models.Business) string { return b.Name },
		func(b models.Business) string { return models.StringValue(b.Location) },
	},
}

func InitHandlers(c searchClient) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; nav search will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
	})
}

func loadClient() searchClient {
	return client
}

// GET /api/v1/nav/menu
func HandleMenu(w http.ResponseWriter, r *http.Request) {
	currentPath := r.URL.Path
	if target := htmx.CurrentPath(r); target != "" {
		currentPath = target
	}
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.Menu(currentPath), nil, "Failed to render menu", "Failed to render menu")
}

// GET /api/v1/nav/menu/close
func HandleMenuClose(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(""))
}

// GET /api/v1/nav/search
func HandleSearch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	data := layouts.SearchData{Query: q}

	if q != "" {
		c := loadClient()
		if c == nil {
			logger.Error().Msg("Backend client not initialized")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		businesses, err := c.ListBusinesses(r.Context())
		if err != nil {
			logger.Warn().Err(err).Msg("Property search failed")
			http.Error(w, backend.Message(err), backend.HTTPStatus(err))
			return
		}
		for _, business := range searchFilter.Apply(businesses, listfilter.All, q) {
			if len(data.Results) == searchLimit {
				break
			}
			data.Results = append(data.Results, layouts.SearchResult{
				ID:       business.ID,
				Name:     business.Name,
				Type:     business.Type,
				Location: models.StringValue(business.Location),
			})
		}
	}

	if !htmx.IsRequest(r) {
		results := data.Results
		if results == nil {
			results = []layouts.SearchResult{}
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, results); err != nil {
			logger.Error().Err(err).Msg("Failed to write search results")
		}
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.SearchResults(data), nil, "Failed to render search results", "Search failed")
}
