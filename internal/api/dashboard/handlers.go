// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	hometempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/home"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

var (
	client     dashboardClient
	clientOnce sync.Once
)

type dashboardClient interface {
	ListBusinesses(ctx context.Context) ([]models.Business, error)
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c dashboardClient) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; dashboard handlers will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
	})
}

func loadClient() dashboardClient {
	return client
}

// HandleDashboardPage renders the home page for GET /.
func HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	c := loadClient()
	if c == nil {
		log.Ctx(r.Context()).Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := buildPageData(r, c)
	apiutil.RenderPage(w, r, http.StatusOK, hometempl.Page(data), layouts.PageFor(r, "Dashboard"), "Failed to render dashboard")
}

// HandleDashboardStats refreshes the stat tiles for GET /dashboard/stats.
func HandleDashboardStats(w http.ResponseWriter, r *http.Request) {
	c := loadClient()
	if c == nil {
		log.Ctx(r.Context()).Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := buildPageData(r, c)
	apiutil.RenderHTMLComponent(r.Context(), w, hometempl.StatsPanel(data), nil, "Failed to render dashboard stats", "Failed to render stats")
}

// buildPageData never fails: an unreachable API shows zeroed stats and the
// error message instead of an error page.
func buildPageData(r *http.Request, c dashboardClient) hometempl.PageData {
	businesses, err := c.ListBusinesses(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to list businesses for dashboard")
		return hometempl.PageData{Error: backend.Message(err)}
	}
	return hometempl.PageData{
		Stats:      hometempl.NewStats(businesses),
		Businesses: businesses,
	}
}
