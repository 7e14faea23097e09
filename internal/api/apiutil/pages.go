package apiutil

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/htmx"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

type BusinessGetter interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
}

// RenderPage renders content inside the shell for full page loads and alone
// for htmx requests that target a fragment of the page.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, content templ.Component, page layouts.Page, logMsg string) bool {
	component := content
	if !htmx.IsRequest(r) || r.Header.Get("HX-Boosted") == "true" {
		component = layouts.Base(content, page)
	}
	return RenderHTMLComponentStatus(r.Context(), w, status, component, nil, logMsg, "Failed to render page")
}

// LoadBusiness fetches the business a detail or settings route is about.
// When it cannot, it writes the not-found page (404) or an error page (502)
// and returns false.
func LoadBusiness(ctx context.Context, w http.ResponseWriter, r *http.Request, getter BusinessGetter, businessID string) (*models.Business, bool) {
	logger := log.Ctx(r.Context())

	business, err := getter.GetBusiness(ctx, businessID)
	if err == nil && business != nil {
		return business, true
	}

	if err == nil || backend.IsNotFound(err) {
		logger.Info().Str("business_id", businessID).Msg("Business not found")
		RenderPage(w, r, http.StatusNotFound, layouts.NotFound(layouts.NotFoundData{
			Title:   "Property not found",
			Message: "This property does not exist or was removed.",
		}), layouts.PageFor(r, "Not found"), "Failed to render not found page")
		return nil, false
	}

	logger.Error().Err(err).Str("business_id", businessID).Msg("Failed to load business")
	RenderPage(w, r, backend.HTTPStatus(err), layouts.NotFound(layouts.NotFoundData{
		Title:   "Could not load property",
		Message: backend.Message(err),
	}), layouts.PageFor(r, "Error"), "Failed to render error page")
	return nil, false
}
