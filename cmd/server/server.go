// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api"
	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/api/bookings"
	"github.com/frontdesk-hq/frontdesk/internal/api/businesses"
	"github.com/frontdesk-hq/frontdesk/internal/api/dashboard"
	"github.com/frontdesk-hq/frontdesk/internal/api/faqs"
	"github.com/frontdesk-hq/frontdesk/internal/api/nav"
	"github.com/frontdesk-hq/frontdesk/internal/api/services"
	"github.com/frontdesk-hq/frontdesk/internal/config"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/health"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

func newServer(cfg *config.Config, apiHealth *health.Status) *http.Server {
	router := http.NewServeMux()

	// WithMetrics is innermost so the matched route pattern is visible to it.
	handler := api.ChainMiddleware(
		router,
		api.WithMetrics,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router, cfg, apiHealth)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, apiHealth *health.Status) {
	// Home page
	mux.HandleFunc("GET /{$}", dashboard.HandleDashboardPage)
	mux.HandleFunc("GET /dashboard/stats", dashboard.HandleDashboardStats)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		snap := apiHealth.Snapshot()
		status := "ok"
		if !snap.Reachable {
			status = "degraded"
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":            status,
			"backend_reachable": snap.Reachable,
		}); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health response")
		}
	})

	if cfg.Features.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Navigation routes
	mux.HandleFunc("GET /api/v1/nav/menu", nav.HandleMenu)
	mux.HandleFunc("GET /api/v1/nav/menu/close", nav.HandleMenuClose)
	mux.HandleFunc("GET /api/v1/nav/search", nav.HandleSearch)
	mux.HandleFunc("GET "+forms.SavedIndicatorClearPath, apiutil.HandleFeedbackClear)

	// Business routes
	mux.HandleFunc("GET /businesses", businesses.HandleBusinessesPage)
	mux.HandleFunc("GET /businesses/list", businesses.HandleBusinessList)
	mux.HandleFunc("GET /businesses/new", businesses.HandleNewBusinessPage)
	mux.HandleFunc("POST /businesses", businesses.HandleCreateBusiness)
	mux.HandleFunc("GET /businesses/{id}", businesses.HandleBusinessOverview)
	mux.HandleFunc("GET /businesses/{id}/header", businesses.HandleBusinessHeader)
	mux.HandleFunc("GET /businesses/{id}/settings", businesses.HandleSettingsPage)
	mux.HandleFunc("POST /businesses/{id}/settings", businesses.HandleUpdateSettings)

	// Service and room type routes
	mux.HandleFunc("GET /businesses/{id}/services", services.HandleServicesPage)
	mux.HandleFunc("GET /businesses/{id}/services/list", services.HandleServiceList)
	mux.HandleFunc("POST /businesses/{id}/services", services.HandleCreateService)
	mux.HandleFunc("GET /businesses/{id}/services/{sid}", services.HandleServiceCard)
	mux.HandleFunc("GET /businesses/{id}/services/{sid}/edit", services.HandleEditService)
	mux.HandleFunc("PATCH /businesses/{id}/services/{sid}", services.HandleUpdateService)
	mux.HandleFunc("DELETE /businesses/{id}/services/{sid}", services.HandleDeleteService)

	// FAQ routes
	mux.HandleFunc("GET /businesses/{id}/faqs", faqs.HandleFAQsPage)
	mux.HandleFunc("GET /businesses/{id}/faqs/list", faqs.HandleFAQList)
	mux.HandleFunc("POST /businesses/{id}/faqs", faqs.HandleCreateFAQ)
	mux.HandleFunc("POST /businesses/{id}/faqs/import", faqs.HandleImportFAQs)
	mux.HandleFunc("DELETE /businesses/{id}/faqs/{fid}", faqs.HandleDeleteFAQ)

	// Booking routes
	mux.HandleFunc("GET /businesses/{id}/bookings", bookings.HandleBookingsPage)
	mux.HandleFunc("GET /businesses/{id}/bookings/table", bookings.HandleBookingsTable)

	// Unknown pages get the shell's not-found state
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		apiutil.RenderPage(w, r, http.StatusNotFound, layouts.NotFound(layouts.NotFoundData{
			Title:    "Page not found",
			Message:  "There is nothing at " + r.URL.Path + ".",
			BackHref: "/",
			BackText: "Back to dashboard",
		}), layouts.PageFor(r, "Not found"), "Failed to render not found page")
	})

	// Static file handling
	staticDir := cfg.App.StaticDir
	fs := http.FileServer(http.Dir(staticDir))

	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
