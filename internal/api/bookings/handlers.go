// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/listfilter"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	bookingtempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/bookings"
	businesstempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

const businessIDParam = "id"

var (
	client     bookingClient
	clientOnce sync.Once
)

type bookingClient interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	ListBookings(ctx context.Context, businessID string) ([]models.Booking, error)
}

// bookingFilter files unrecognized statuses under pending, the same default
// the status badge uses, so the tab counts always add up to the total.
var bookingFilter = listfilter.Filter[models.Booking]{
	Category: func(b models.Booking) string {
		if !b.Status.Known() {
			return string(models.BookingStatusPending)
		}
		return string(b.Status)
	},
	Fields: []func(models.Booking) string{
		func(b models.Booking) string { return b.Reference },
		func(b models.Booking) string { return models.StringValue(b.GuestName) },
		func(b models.Booking) string { return models.StringValue(b.ServiceName) },
	},
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c bookingClient) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; booking handlers will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
	})
}

func loadClient() bookingClient {
	return client
}

func statusCategories() []string {
	categories := make([]string, len(models.BookingStatuses))
	for i, status := range models.BookingStatuses {
		categories[i] = string(status)
	}
	return categories
}

// fetchTableData loads every booking once and filters in memory. A failed
// fetch degrades to an empty table with the error shown.
func fetchTableData(r *http.Request, c bookingClient, businessID string, isHotel bool) bookingtempl.TableData {
	categories := statusCategories()
	query := r.URL.Query()
	data := bookingtempl.TableData{
		BusinessID: businessID,
		IsHotel:    isHotel,
		Status:     listfilter.NormalizeCategory(query.Get("status"), categories),
		Query:      strings.TrimSpace(query.Get("q")),
	}

	all, err := c.ListBookings(r.Context(), businessID)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("business_id", businessID).Msg("Failed to list bookings; showing empty table")
		data.Error = backend.Message(err)
		all = nil
	}

	data.Total = len(all)
	data.Counts = bookingFilter.Counts(all, categories)
	data.Bookings = bookingFilter.Apply(all, data.Status, data.Query)
	return data
}

// GET /businesses/{id}/bookings
func HandleBookingsPage(w http.ResponseWriter, r *http.Request) {
	c := loadClient()
	if c == nil {
		log.Ctx(r.Context()).Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, err := apiutil.PathID(r, businessIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	business, ok := apiutil.LoadBusiness(r.Context(), w, r, c, businessID)
	if !ok {
		return
	}

	data := bookingtempl.PageData{
		Header: businesstempl.NewHeaderData(*business, r.URL.Path),
		Table:  fetchTableData(r, c, businessID, business.Type == models.BusinessTypeHotel),
	}
	page := layouts.Page{Title: "Bookings", CurrentPath: r.URL.Path, BusinessType: business.Type}
	apiutil.RenderPage(w, r, http.StatusOK, bookingtempl.Page(data), page, "Failed to render bookings page")
}

// GET /businesses/{id}/bookings/table
func HandleBookingsTable(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, err := apiutil.PathID(r, businessIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Column labels only; a failed lookup falls back to the service layout.
	isHotel := false
	if business, err := c.GetBusiness(r.Context(), businessID); err != nil {
		logger.Warn().Err(err).Str("business_id", businessID).Msg("Failed to load business type")
	} else {
		isHotel = business.Type == models.BusinessTypeHotel
	}

	data := fetchTableData(r, c, businessID, isHotel)
	apiutil.RenderHTMLComponent(r.Context(), w, bookingtempl.Table(data), nil, "Failed to render bookings table", "Failed to render bookings")
}
