// internal/api/services/handlers.go
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/api/htmx"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	businesstempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
	servicetempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/services"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

const (
	businessIDParam     = "id"
	serviceIDParam      = "sid"
	refreshServicesList = "refreshServicesList"
)

var (
	client     serviceClient
	clientOnce sync.Once
	guard      = forms.NewGuard()
)

type serviceClient interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	CreateService(ctx context.Context, businessID string, input models.ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, businessID, serviceID string, input models.ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, businessID, serviceID string) error
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c serviceClient) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; service handlers will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
	})
}

func loadClient() serviceClient {
	return client
}

func itemLabel(isHotel bool) string {
	if isHotel {
		return "Room type"
	}
	return "Service"
}

// GET /businesses/{id}/services
func HandleServicesPage(w http.ResponseWriter, r *http.Request) {
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
	isHotel := business.Type == models.BusinessTypeHotel

	data := servicetempl.PageData{
		Header:  businesstempl.NewHeaderData(*business, r.URL.Path),
		IsHotel: isHotel,
		List:    fetchListData(r, c, businessID, isHotel),
		Form:    servicetempl.NewFormData(businessID, isHotel, forms.NewInstanceToken(), servicetempl.EmptyDraft()),
	}
	page := layouts.Page{Title: businesstempl.ServicesLabel(business.Type), CurrentPath: r.URL.Path, BusinessType: business.Type}
	apiutil.RenderPage(w, r, http.StatusOK, servicetempl.Page(data), page, "Failed to render services page")
}

// GET /businesses/{id}/services/list
func HandleServiceList(w http.ResponseWriter, r *http.Request) {
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

	isHotel := businessIsHotel(r, c, businessID)
	data := fetchListData(r, c, businessID, isHotel)
	apiutil.RenderHTMLComponent(r.Context(), w, servicetempl.List(data), nil, "Failed to render service list", "Failed to render list")
}

// businessIsHotel only decides labels and which fields are shown, so a
// failed lookup falls back to the generic service layout.
func businessIsHotel(r *http.Request, c serviceClient, businessID string) bool {
	business, err := c.GetBusiness(r.Context(), businessID)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("business_id", businessID).Msg("Failed to load business type")
		return false
	}
	return business.Type == models.BusinessTypeHotel
}

func fetchListData(r *http.Request, c serviceClient, businessID string, isHotel bool) servicetempl.ListData {
	data := servicetempl.ListData{BusinessID: businessID, IsHotel: isHotel}
	services, err := c.ListServices(r.Context(), businessID)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("business_id", businessID).Msg("Failed to list services; showing empty list")
		data.Error = backend.Message(err)
		return data
	}
	data.Services = services
	return data
}

// POST /businesses/{id}/services
func HandleCreateService(w http.ResponseWriter, r *http.Request) {
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
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	kind, ok := formKind(w, r)
	if !ok {
		return
	}
	isHotel := kind == models.ServiceKindRoom
	token := formToken(r)
	draft := draftFromForm(r)

	input, err := serviceInput(draft, kind)
	if err != nil {
		writeForm(w, r, http.StatusUnprocessableEntity, servicetempl.FormData{
			BusinessID: businessID, IsHotel: isHotel, Token: token, Draft: draft, Error: err.Error(), BedTypes: models.BedTypes,
		})
		return
	}

	var created *models.Service
	lc, err := guard.Submit("service:create:"+token, backend.Message, func() error {
		var createErr error
		created, createErr = c.CreateService(r.Context(), businessID, input)
		return createErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This form is already being submitted", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Msg("Failed to create service")
		writeForm(w, r, backend.HTTPStatus(err), servicetempl.FormData{
			BusinessID: businessID, IsHotel: isHotel, Token: token, Draft: draft, Error: lc.Message(), BedTypes: models.BedTypes,
		})
		return
	}

	logger.Info().Str("business_id", businessID).Str("service_id", created.ID).Msg("Service created")

	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
			logger.Error().Err(err).Msg("Failed to write service response")
		}
		return
	}

	fresh := servicetempl.NewFormData(businessID, isHotel, forms.NewInstanceToken(), servicetempl.EmptyDraft())
	fresh.Saved = itemLabel(isHotel) + " added."
	htmx.Trigger(w, refreshServicesList)
	writeForm(w, r, http.StatusCreated, fresh)
}

func writeForm(w http.ResponseWriter, r *http.Request, status int, data servicetempl.FormData) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, servicetempl.Form(data), nil, "Failed to render service form", "Failed to render form")
}

// findService looks the service up in the business's catalog; the API has no
// single-service read.
func findService(r *http.Request, c serviceClient, businessID, serviceID string) (*models.Service, error) {
	services, err := c.ListServices(r.Context(), businessID)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].ID == serviceID {
			return &services[i], nil
		}
	}
	return nil, backend.ErrNotFound
}

func serviceMessage(err error) string {
	if errors.Is(err, backend.ErrNotFound) {
		return "This item no longer exists. Refresh the list."
	}
	return backend.Message(err)
}

// GET /businesses/{id}/services/{sid}
func HandleServiceCard(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, serviceID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	service, err := findService(r, c, businessID, serviceID)
	if err != nil {
		logger.Warn().Err(err).Str("service_id", serviceID).Msg("Failed to load service")
		apiutil.WriteHTMLFeedback(w, statusFor(err), serviceMessage(err))
		return
	}

	data := servicetempl.CardData{BusinessID: businessID, IsHotel: businessIsHotel(r, c, businessID), Service: *service}
	apiutil.RenderHTMLComponent(r.Context(), w, servicetempl.Card(data), nil, "Failed to render service card", "Failed to render service")
}

// GET /businesses/{id}/services/{sid}/edit
func HandleEditService(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, serviceID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	service, err := findService(r, c, businessID, serviceID)
	if err != nil {
		logger.Warn().Err(err).Str("service_id", serviceID).Msg("Failed to load service for editing")
		apiutil.WriteHTMLFeedback(w, statusFor(err), serviceMessage(err))
		return
	}

	data := servicetempl.NewEditData(businessID, businessIsHotel(r, c, businessID), *service, forms.NewInstanceToken())
	apiutil.RenderHTMLComponent(r.Context(), w, servicetempl.Edit(data), nil, "Failed to render service editor", "Failed to render form")
}

// PATCH /businesses/{id}/services/{sid}
func HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, serviceID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	kind, ok := formKind(w, r)
	if !ok {
		return
	}
	isHotel := kind == models.ServiceKindRoom
	token := formToken(r)
	draft := draftFromForm(r)
	editData := servicetempl.EditData{
		BusinessID: businessID,
		ServiceID:  serviceID,
		IsHotel:    isHotel,
		Token:      token,
		Draft:      draft,
		BedTypes:   models.BedTypes,
	}

	input, err := serviceInput(draft, kind)
	if err != nil {
		editData.Error = err.Error()
		writeEdit(w, r, http.StatusUnprocessableEntity, editData)
		return
	}

	var updated *models.Service
	lc, err := guard.Submit("service:edit:"+token, serviceMessage, func() error {
		var updateErr error
		updated, updateErr = c.UpdateService(r.Context(), businessID, serviceID, input)
		return updateErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This form is already being submitted", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Str("service_id", serviceID).Msg("Failed to update service")
		editData.Error = lc.Message()
		writeEdit(w, r, backend.HTTPStatus(err), editData)
		return
	}

	logger.Info().Str("business_id", businessID).Str("service_id", serviceID).Msg("Service updated")

	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
			logger.Error().Err(err).Msg("Failed to write service response")
		}
		return
	}

	htmx.Trigger(w, refreshServicesList)
	card := servicetempl.CardData{BusinessID: businessID, IsHotel: isHotel, Service: *updated}
	apiutil.RenderHTMLComponent(r.Context(), w, servicetempl.Card(card), nil, "Failed to render service card", "Failed to render service")
}

func writeEdit(w http.ResponseWriter, r *http.Request, status int, data servicetempl.EditData) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, servicetempl.Edit(data), nil, "Failed to render service editor", "Failed to render form")
}

// DELETE /businesses/{id}/services/{sid}
func HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	businessID, serviceID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	key := forms.DeleteKey("service", serviceID)
	if !guard.TryAcquire(key) {
		http.Error(w, "This item is already being deleted", http.StatusConflict)
		return
	}
	defer guard.Release(key)

	if err := c.DeleteService(r.Context(), businessID, serviceID); err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Str("service_id", serviceID).Msg("Failed to delete service")
		apiutil.WriteHTMLFeedback(w, statusFor(err), serviceMessage(err))
		return
	}

	logger.Info().Str("business_id", businessID).Str("service_id", serviceID).Msg("Service deleted")

	if !htmx.IsRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	htmx.Trigger(w, refreshServicesList)
	apiutil.WriteHTMLFeedback(w, http.StatusOK, "Deleted.")
}

func statusFor(err error) int {
	if errors.Is(err, backend.ErrNotFound) {
		return http.StatusNotFound
	}
	return backend.HTTPStatus(err)
}

// formKind reads the layout the form was rendered with. Submissions never
// look the business up again, so a failed lookup cannot change which fields
// are sent.
func formKind(w http.ResponseWriter, r *http.Request) (models.ServiceKind, bool) {
	kind, ok := models.ParseServiceKind(r.PostFormValue("kind"))
	if !ok {
		http.Error(w, "Invalid form data: kind must be room or service", http.StatusBadRequest)
	}
	return kind, ok
}

func pathIDs(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	businessID, err := apiutil.PathID(r, businessIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	serviceID, err := apiutil.PathID(r, serviceIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	return businessID, serviceID, true
}

func formToken(r *http.Request) string {
	if token := strings.TrimSpace(r.PostFormValue("form_token")); token != "" {
		return token
	}
	return forms.NewInstanceToken()
}

func draftFromForm(r *http.Request) servicetempl.Draft {
	return servicetempl.Draft{
		Name:              r.PostFormValue("name"),
		Description:       r.PostFormValue("description"),
		DurationMinutes:   r.PostFormValue("duration_minutes"),
		Price:             r.PostFormValue("price"),
		Capacity:          r.PostFormValue("capacity"),
		ImageURL:          r.PostFormValue("image_url"),
		MaxOccupancy:      r.PostFormValue("max_occupancy"),
		BedType:           r.PostFormValue("bed_type"),
		BasePricePerNight: r.PostFormValue("base_price_per_night"),
		RoomCount:         r.PostFormValue("room_count"),
		Amenities:         forms.StringList(apiutil.FormValues(r, "amenities")),
		IsActive:          forms.ParseBool(r.PostFormValue("is_active")),
	}
}

// serviceInput coerces the draft. Empty numeric inputs become nil, which the
// API receives as null rather than 0.
func serviceInput(draft servicetempl.Draft, kind models.ServiceKind) (models.ServiceInput, error) {
	input := models.ServiceInput{Kind: kind}

	name, err := forms.RequiredText(draft.Name, "name")
	if err != nil {
		return input, err
	}
	input.Name = name
	input.Description = forms.OptionalText(draft.Description)
	isActive := draft.IsActive
	input.IsActive = &isActive

	if input.ImageURL, err = forms.OptionalURL(draft.ImageURL, "image_url"); err != nil {
		return input, err
	}

	if kind == models.ServiceKindRoom {
		if input.BasePricePerNight, err = forms.OptionalAmount(draft.BasePricePerNight, "base_price_per_night"); err != nil {
			return input, err
		}
		if input.MaxOccupancy, err = forms.OptionalInt(draft.MaxOccupancy, "max_occupancy"); err != nil {
			return input, err
		}
		if input.RoomCount, err = forms.OptionalInt(draft.RoomCount, "room_count"); err != nil {
			return input, err
		}
		input.BedType = forms.OptionalText(draft.BedType)
		input.Amenities = draft.Amenities
		return input, nil
	}

	if input.Price, err = forms.OptionalAmount(draft.Price, "price"); err != nil {
		return input, err
	}
	if input.Capacity, err = forms.OptionalInt(draft.Capacity, "capacity"); err != nil {
		return input, err
	}
	if input.DurationMinutes, err = forms.OptionalInt(draft.DurationMinutes, "duration_minutes"); err != nil {
		return input, err
	}
	if input.DurationMinutes != nil && *input.DurationMinutes == 0 {
		return input, forms.FieldError{Field: "duration_minutes", Reason: "must be greater than 0"}
	}
	return input, nil
}
