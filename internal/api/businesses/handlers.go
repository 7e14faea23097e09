// internal/api/businesses/handlers.go
package businesses

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/api/htmx"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/contact"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/listfilter"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	businesstempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

const (
	businessIDParam      = "id"
	recentBookingsLimit  = 5
	businessUpdatedEvent = "businessUpdated"
	defaultPhoneRegion   = "GH"
)

var (
	client     businessClient
	clientOnce sync.Once
	region     = defaultPhoneRegion
	guard      = forms.NewGuard()
)

type businessClient interface {
	ListBusinesses(ctx context.Context) ([]models.Business, error)
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	CreateBusiness(ctx context.Context, input models.BusinessCreate) (*models.Business, error)
	UpdateBusiness(ctx context.Context, businessID string, input models.BusinessUpdate) (*models.Business, error)
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error)
	ListBookings(ctx context.Context, businessID string) ([]models.Booking, error)
}

var businessFilter = listfilter.Filter[models.Business]{
	Category: func(b models.Business) string { return string(b.Type) },
	Fields: []func(models.Business) string{
		func(b models.Business) string { return b.Name },
		func(b models.Business) string { return models.StringValue(b.Location) },
	},
}

// InitHandlers must be called during server startup before handling requests.
// phoneRegion is the default region for numbers typed without a country code.
func InitHandlers(c businessClient, phoneRegion string) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; business handlers will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
		if phoneRegion != "" {
			region = phoneRegion
		}
	})
}

func loadClient() businessClient {
	return client
}

func businessTypeCategories() []string {
	categories := make([]string, len(models.BusinessTypes))
	for i, t := range models.BusinessTypes {
		categories[i] = string(t)
	}
	return categories
}

// fetchListData loads every business and applies the type tab and search
// term. A failed fetch degrades to an empty list with the error shown.
func fetchListData(r *http.Request, c businessClient) businesstempl.ListData {
	logger := log.Ctx(r.Context())
	categories := businessTypeCategories()
	query := r.URL.Query()
	data := businesstempl.ListData{
		Type:  listfilter.NormalizeCategory(query.Get("type"), categories),
		Query: strings.TrimSpace(query.Get("q")),
	}

	all, err := c.ListBusinesses(r.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to list businesses; showing empty list")
		data.Error = backend.Message(err)
		all = nil
	}

	data.Counts = businessFilter.Counts(all, categories)
	data.Businesses = businessFilter.Apply(all, data.Type, data.Query)
	return data
}

// GET /businesses
func HandleBusinessesPage(w http.ResponseWriter, r *http.Request) {
	c := loadClient()
	if c == nil {
		log.Ctx(r.Context()).Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := fetchListData(r, c)
	apiutil.RenderPage(w, r, http.StatusOK, businesstempl.Page(data), layouts.PageFor(r, "Properties"), "Failed to render businesses page")
}

// GET /businesses/list
func HandleBusinessList(w http.ResponseWriter, r *http.Request) {
	c := loadClient()
	if c == nil {
		log.Ctx(r.Context()).Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := fetchListData(r, c)
	apiutil.RenderHTMLComponent(r.Context(), w, businesstempl.List(data), nil, "Failed to render business list", "Failed to render list")
}

// GET /businesses/new
func HandleNewBusinessPage(w http.ResponseWriter, r *http.Request) {
	data := businesstempl.NewFormData(forms.NewInstanceToken(), businesstempl.EmptyDraft(), "")
	apiutil.RenderPage(w, r, http.StatusOK, businesstempl.NewPage(data), layouts.PageFor(r, "Register a property"), "Failed to render new business page")
}

// POST /businesses
func HandleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadClient()
	if c == nil {
		logger.Error().Msg("Backend client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	draft, token, err := decodeCreateDraft(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if token == "" {
		token = forms.NewInstanceToken()
	}

	input, err := createInput(draft)
	if err != nil {
		writeCreateForm(w, r, http.StatusUnprocessableEntity, token, draft, err.Error())
		return
	}

	var created *models.Business
	lc, err := guard.Submit("business:create:"+token, backend.Message, func() error {
		var createErr error
		created, createErr = c.CreateBusiness(r.Context(), input)
		return createErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This form is already being submitted", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("name", input.Name).Msg("Failed to create business")
		writeCreateForm(w, r, backend.HTTPStatus(err), token, draft, lc.Message())
		return
	}

	logger.Info().Str("business_id", created.ID).Str("type", string(created.Type)).Msg("Business created")

	if apiutil.IsJSONRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
			logger.Error().Err(err).Msg("Failed to write business response")
		}
		return
	}
	if htmx.IsRequest(r) {
		htmx.Redirect(w, "/businesses")
		apiutil.WriteHTMLFeedback(w, http.StatusCreated, "Property created.")
		return
	}
	http.Redirect(w, r, "/businesses", http.StatusSeeOther)
}

func writeCreateForm(w http.ResponseWriter, r *http.Request, status int, token string, draft businesstempl.Draft, message string) {
	if apiutil.IsJSONRequest(r) {
		http.Error(w, message, status)
		return
	}
	data := businesstempl.NewFormData(token, draft, message)
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, businesstempl.Form(data), nil, "Failed to render business form", "Failed to render form")
}

// GET /businesses/{id}
func HandleBusinessOverview(w http.ResponseWriter, r *http.Request) {
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

	business, ok := apiutil.LoadBusiness(r.Context(), w, r, c, businessID)
	if !ok {
		return
	}

	services, faqs, bookings, warnings := fetchOverviewCollections(r.Context(), c, businessID)

	recent := bookings
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}
	data := businesstempl.OverviewData{
		Header:         businesstempl.NewHeaderData(*business, r.URL.Path),
		Stats:          businesstempl.NewOverviewStats(services, faqs, bookings),
		RecentBookings: recent,
		Warnings:       warnings,
	}
	page := layouts.Page{Title: business.Name, CurrentPath: r.URL.Path, BusinessType: business.Type}
	apiutil.RenderPage(w, r, http.StatusOK, businesstempl.Overview(data), page, "Failed to render business overview")
}

// fetchOverviewCollections loads the three collections concurrently. Each
// failure is logged and replaced by an empty collection.
func fetchOverviewCollections(ctx context.Context, c businessClient, businessID string) ([]models.Service, []models.FAQ, []models.Booking, []string) {
	logger := log.Ctx(ctx)

	var (
		services []models.Service
		faqs     []models.FAQ
		bookings []models.Booking
		mu       sync.Mutex
		warnings []string
	)
	warn := func(err error, what string) {
		logger.Warn().Err(err).Str("business_id", businessID).Msgf("Failed to load %s; showing none", what)
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, "Could not load "+what+": "+backend.Message(err))
	}

	var g errgroup.Group
	g.Go(func() error {
		result, err := c.ListServices(ctx, businessID)
		if err != nil {
			warn(err, "services")
			return nil
		}
		services = result
		return nil
	})
	g.Go(func() error {
		result, err := c.ListFAQs(ctx, businessID)
		if err != nil {
			warn(err, "FAQs")
			return nil
		}
		faqs = result
		return nil
	})
	g.Go(func() error {
		result, err := c.ListBookings(ctx, businessID)
		if err != nil {
			warn(err, "bookings")
			return nil
		}
		bookings = result
		return nil
	})
	_ = g.Wait()

	return services, faqs, bookings, warnings
}

// GET /businesses/{id}/header
func HandleBusinessHeader(w http.ResponseWriter, r *http.Request) {
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

	business, err := c.GetBusiness(r.Context(), businessID)
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Msg("Failed to reload business header")
		apiutil.WriteHTMLFeedback(w, backend.HTTPStatus(err), backend.Message(err))
		return
	}

	data := businesstempl.NewHeaderData(*business, currentPagePath(r))
	apiutil.RenderHTMLComponent(r.Context(), w, businesstempl.Header(data), nil, "Failed to render business header", "Failed to render header")
}

// currentPagePath is the path of the page that issued an htmx request, so
// partials highlight the right tab.
func currentPagePath(r *http.Request) string {
	if path := htmx.CurrentPath(r); path != "" {
		return path
	}
	return r.URL.Path
}

// GET /businesses/{id}/settings
func HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
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

	business, ok := apiutil.LoadBusiness(r.Context(), w, r, c, businessID)
	if !ok {
		return
	}

	data := businesstempl.SettingsData{
		Header: businesstempl.NewHeaderData(*business, r.URL.Path),
		Form:   businesstempl.NewSettingsForm(*business, forms.NewInstanceToken()),
	}
	page := layouts.Page{Title: business.Name + " settings", CurrentPath: r.URL.Path, BusinessType: business.Type}
	apiutil.RenderPage(w, r, http.StatusOK, businesstempl.Settings(data), page, "Failed to render settings page")
}

// POST /businesses/{id}/settings
func HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
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

	// The current record decides which fields apply and supplies the stored
	// bot token when the form leaves it blank.
	business, ok := apiutil.LoadBusiness(r.Context(), w, r, c, businessID)
	if !ok {
		return
	}

	token := strings.TrimSpace(r.PostFormValue("form_token"))
	if token == "" {
		token = forms.NewInstanceToken()
	}
	draft := settingsDraftFromForm(r, *business, token)

	input, err := settingsUpdate(r, *business, draft)
	if err != nil {
		draft.Error = err.Error()
		writeSettingsForm(w, r, http.StatusUnprocessableEntity, draft)
		return
	}

	var updated *models.Business
	lc, err := guard.Submit("business:settings:"+token, backend.Message, func() error {
		var updateErr error
		updated, updateErr = c.UpdateBusiness(r.Context(), businessID, input)
		return updateErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This form is already being submitted", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Msg("Failed to update business settings")
		draft.Error = lc.Message()
		writeSettingsForm(w, r, backend.HTTPStatus(err), draft)
		return
	}

	logger.Info().Str("business_id", businessID).Msg("Business settings updated")

	fresh := businesstempl.NewSettingsForm(*updated, forms.NewInstanceToken())
	fresh.Saved = true
	htmx.Trigger(w, businessUpdatedEvent)
	writeSettingsForm(w, r, http.StatusOK, fresh)
}

func writeSettingsForm(w http.ResponseWriter, r *http.Request, status int, form businesstempl.SettingsForm) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, businesstempl.SettingsFormComponent(form), nil, "Failed to render settings form", "Failed to render form")
}

// settingsDraftFromForm echoes the submitted values so a failed save keeps
// what the user typed.
func settingsDraftFromForm(r *http.Request, business models.Business, token string) businesstempl.SettingsForm {
	draft := businesstempl.NewSettingsForm(business, token)
	draft.Name = r.PostFormValue("name")
	draft.Location = r.PostFormValue("location")
	draft.Phone = r.PostFormValue("phone")
	draft.Timezone = r.PostFormValue("timezone")
	draft.SlotDurationMinutes = r.PostFormValue("slot_duration_minutes")
	draft.TelegramGroupID = r.PostFormValue("telegram_group_id")
	for i, day := range draft.Days {
		draft.Days[i].Open = strings.TrimSpace(r.PostFormValue("hours_" + day.Key + "_open"))
		draft.Days[i].Close = strings.TrimSpace(r.PostFormValue("hours_" + day.Key + "_close"))
	}
	return draft
}

func settingsUpdate(r *http.Request, business models.Business, draft businesstempl.SettingsForm) (models.BusinessUpdate, error) {
	var input models.BusinessUpdate

	name, err := forms.RequiredText(draft.Name, "name")
	if err != nil {
		return input, err
	}
	input.Name = &name

	timezone := strings.TrimSpace(draft.Timezone)
	if timezone == "" {
		timezone = models.DefaultTimezone
	}
	if !models.ValidTimezone(timezone) {
		return input, forms.FieldError{Field: "timezone", Reason: "must be an IANA time zone such as Africa/Accra"}
	}
	input.Timezone = &timezone

	phone, err := normalizePhone(draft.Phone)
	if err != nil {
		return input, err
	}
	input.Phone = phone
	input.Location = forms.OptionalText(draft.Location)
	input.TelegramGroupID = forms.OptionalText(draft.TelegramGroupID)

	switch {
	case forms.ParseBool(r.PostFormValue("clear_bot_token")):
		input.TelegramBotToken = nil
	case strings.TrimSpace(r.PostFormValue("telegram_bot_token")) != "":
		input.TelegramBotToken = forms.OptionalText(r.PostFormValue("telegram_bot_token"))
	default:
		input.TelegramBotToken = business.TelegramBotToken
	}

	if business.Type != models.BusinessTypeHotel {
		slot, err := forms.PositiveInt(draft.SlotDurationMinutes, "slot_duration_minutes", models.DefaultSlotDurationMinutes)
		if err != nil {
			return input, err
		}
		input.SlotDurationMinutes = &slot
	}

	hours := make(models.WorkingHours, len(draft.Days))
	for _, day := range draft.Days {
		hours[day.Key] = []string{day.Open, day.Close}
	}
	if err := hours.Validate(); err != nil {
		return input, err
	}
	input.WorkingHours = hours

	return input, nil
}

type businessRequest struct {
	FormToken           string `json:"form_token"`
	Name                string `json:"name"`
	Type                string `json:"type"`
	Location            string `json:"location"`
	Phone               string `json:"phone"`
	TelegramGroupID     string `json:"telegram_group_id"`
	Timezone            string `json:"timezone"`
	SlotDurationMinutes *int   `json:"slot_duration_minutes"`
	OpensAt             string `json:"opens_at"`
	ClosesAt            string `json:"closes_at"`
}

func decodeCreateDraft(r *http.Request) (businesstempl.Draft, string, error) {
	draft := businesstempl.EmptyDraft()

	if apiutil.IsJSONRequest(r) {
		var req businessRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return draft, "", err
		}
		draft.Name = req.Name
		if req.Type != "" {
			draft.Type = req.Type
		}
		draft.Location = req.Location
		draft.Phone = req.Phone
		draft.TelegramGroupID = req.TelegramGroupID
		if req.Timezone != "" {
			draft.Timezone = req.Timezone
		}
		if req.SlotDurationMinutes != nil {
			draft.SlotDurationMinutes = strconv.Itoa(*req.SlotDurationMinutes)
		}
		if req.OpensAt != "" {
			draft.OpensAt = req.OpensAt
		}
		if req.ClosesAt != "" {
			draft.ClosesAt = req.ClosesAt
		}
		return draft, strings.TrimSpace(req.FormToken), nil
	}

	if err := r.ParseForm(); err != nil {
		return draft, "", errors.New("invalid form data")
	}
	draft.Name = r.PostFormValue("name")
	draft.Type = r.PostFormValue("type")
	draft.Location = r.PostFormValue("location")
	draft.Phone = r.PostFormValue("phone")
	draft.TelegramGroupID = r.PostFormValue("telegram_group_id")
	draft.Timezone = r.PostFormValue("timezone")
	draft.SlotDurationMinutes = r.PostFormValue("slot_duration_minutes")
	draft.OpensAt = strings.TrimSpace(r.PostFormValue("opens_at"))
	draft.ClosesAt = strings.TrimSpace(r.PostFormValue("closes_at"))
	return draft, strings.TrimSpace(r.PostFormValue("form_token")), nil
}

// createInput validates the draft. Any error here is shown inline and the
// backend is never called.
func createInput(draft businesstempl.Draft) (models.BusinessCreate, error) {
	var input models.BusinessCreate

	name, err := forms.RequiredText(draft.Name, "name")
	if err != nil {
		return input, err
	}
	input.Name = name

	businessType, err := models.ParseBusinessType(draft.Type)
	if err != nil {
		return input, err
	}
	input.Type = businessType

	timezone := strings.TrimSpace(draft.Timezone)
	if timezone == "" {
		timezone = models.DefaultTimezone
	}
	if !models.ValidTimezone(timezone) {
		return input, forms.FieldError{Field: "timezone", Reason: "must be an IANA time zone such as Africa/Accra"}
	}
	input.Timezone = timezone

	slot, err := forms.PositiveInt(draft.SlotDurationMinutes, "slot_duration_minutes", models.DefaultSlotDurationMinutes)
	if err != nil {
		return input, err
	}
	input.SlotDurationMinutes = slot

	opensAt := draft.OpensAt
	if opensAt == "" {
		opensAt = businesstempl.DefaultOpensAt
	}
	closesAt := draft.ClosesAt
	if closesAt == "" {
		closesAt = businesstempl.DefaultClosesAt
	}
	hours := models.DefaultWorkingHours(opensAt, closesAt)
	if err := hours.Validate(); err != nil {
		return input, err
	}
	input.WorkingHours = hours

	phone, err := normalizePhone(draft.Phone)
	if err != nil {
		return input, err
	}
	input.Phone = phone
	input.Location = forms.OptionalText(draft.Location)
	input.TelegramGroupID = forms.OptionalText(draft.TelegramGroupID)

	return input, nil
}

func normalizePhone(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	normalized, err := contact.NormalizePhone(raw, region)
	if err != nil {
		return nil, forms.FieldError{Field: "phone", Reason: "is not a valid phone number"}
	}
	return &normalized, nil
}
