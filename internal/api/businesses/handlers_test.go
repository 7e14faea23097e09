package businesses

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/models"
)

type mockBusinessClient struct {
	mu          sync.Mutex
	businesses  map[string]models.Business
	listErr     error
	createErr   error
	updateErr   error
	servicesErr error
	faqsErr     error
	bookingsErr error
	services    []models.Service
	faqs        []models.FAQ
	bookings    []models.Booking
	created     []models.BusinessCreate
	updates     []models.BusinessUpdate
}

func newMockBusinessClient(businesses ...models.Business) *mockBusinessClient {
	m := &mockBusinessClient{businesses: make(map[string]models.Business)}
	for _, business := range businesses {
		m.businesses[business.ID] = business
	}
	return m
}

func (m *mockBusinessClient) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	list := make([]models.Business, 0, len(m.businesses))
	for _, id := range []string{"biz-1", "biz-2", "biz-3"} {
		if business, ok := m.businesses[id]; ok {
			list = append(list, business)
		}
	}
	return list, nil
}

func (m *mockBusinessClient) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	business, ok := m.businesses[businessID]
	if !ok {
		return nil, &backend.Error{Op: "get business", Status: http.StatusNotFound, Message: "Business not found", Err: backend.ErrNotFound}
	}
	return &business, nil
}

func (m *mockBusinessClient) CreateBusiness(ctx context.Context, input models.BusinessCreate) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, input)
	if m.createErr != nil {
		return nil, m.createErr
	}
	business := models.Business{ID: "biz-new", Name: input.Name, Type: input.Type, IsActive: true}
	m.businesses[business.ID] = business
	return &business, nil
}

func (m *mockBusinessClient) UpdateBusiness(ctx context.Context, businessID string, input models.BusinessUpdate) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates = append(m.updates, input)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	business := m.businesses[businessID]
	if input.Name != nil {
		business.Name = *input.Name
	}
	business.Location = input.Location
	business.Phone = input.Phone
	business.TelegramBotToken = input.TelegramBotToken
	business.WorkingHours = input.WorkingHours
	m.businesses[businessID] = business
	return &business, nil
}

func (m *mockBusinessClient) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.services, m.servicesErr
}

func (m *mockBusinessClient) ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faqs, m.faqsErr
}

func (m *mockBusinessClient) ListBookings(ctx context.Context, businessID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bookingsErr != nil {
		return nil, m.bookingsErr
	}
	return m.bookings, nil
}

func (m *mockBusinessClient) createCalls() []models.BusinessCreate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.BusinessCreate(nil), m.created...)
}

func (m *mockBusinessClient) updateCalls() []models.BusinessUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.BusinessUpdate(nil), m.updates...)
}

func setupBusinessHandlers(t *testing.T, mock *mockBusinessClient) {
	t.Helper()
	client = mock
	region = "GH"
	t.Cleanup(func() {
		client = nil
		clientOnce = sync.Once{}
		region = defaultPhoneRegion
	})
}

func strPtr(value string) *string {
	return &value
}

func sampleBusinesses() []models.Business {
	return []models.Business{
		{ID: "biz-1", Name: "Labadi Beach Hotel", Type: models.BusinessTypeHotel, IsActive: true, Location: strPtr("Labadi, Accra")},
		{ID: "biz-2", Name: "Buka Restaurant", Type: models.BusinessTypeRestaurant, IsActive: true, Location: strPtr("Osu, Accra")},
		{ID: "biz-3", Name: "Somewhere Nice Hostel", Type: models.BusinessTypeHostel, Location: strPtr("Osu, Accra")},
	}
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func TestCreateBusinessRejectsBlankNameWithoutCallingBackend(t *testing.T) {
	mock := newMockBusinessClient()
	setupBusinessHandlers(t, mock)

	req := postForm("/businesses", url.Values{
		"form_token": {"tok-1"},
		"name":       {"   "},
		"type":       {"hotel"},
		"location":   {"Cantonments"},
	})
	recorder := httptest.NewRecorder()
	HandleCreateBusiness(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}
	if calls := mock.createCalls(); len(calls) != 0 {
		t.Fatalf("backend called %d times", len(calls))
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "name is required") {
		t.Fatalf("missing validation message: %s", body)
	}
	if !strings.Contains(body, `value="Cantonments"`) {
		t.Fatalf("draft not preserved: %s", body)
	}
}

func TestCreateBusinessRejectsInvalidPhone(t *testing.T) {
	mock := newMockBusinessClient()
	setupBusinessHandlers(t, mock)

	req := postForm("/businesses", url.Values{"name": {"Buka"}, "type": {"restaurant"}, "phone": {"12"}})
	recorder := httptest.NewRecorder()
	HandleCreateBusiness(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}
	if len(mock.createCalls()) != 0 {
		t.Fatalf("backend should not be called for an invalid phone")
	}
}

func TestCreateBusinessSuccessRedirects(t *testing.T) {
	mock := newMockBusinessClient()
	setupBusinessHandlers(t, mock)

	req := postForm("/businesses", url.Values{
		"form_token":            {"tok-2"},
		"name":                  {"  Buka Restaurant "},
		"type":                  {"restaurant"},
		"phone":                 {"024 123 4567"},
		"timezone":              {"Africa/Accra"},
		"slot_duration_minutes": {""},
		"opens_at":              {"09:00"},
		"closes_at":             {"23:00"},
	})
	recorder := httptest.NewRecorder()
	HandleCreateBusiness(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("HX-Redirect"); got != "/businesses" {
		t.Fatalf("HX-Redirect: %q", got)
	}

	calls := mock.createCalls()
	if len(calls) != 1 {
		t.Fatalf("expected one create call, got %d", len(calls))
	}
	input := calls[0]
	if input.Name != "Buka Restaurant" || input.Type != models.BusinessTypeRestaurant {
		t.Fatalf("unexpected input: %+v", input)
	}
	if input.Phone == nil || *input.Phone != "+233241234567" {
		t.Fatalf("phone not normalized: %v", input.Phone)
	}
	if input.SlotDurationMinutes != models.DefaultSlotDurationMinutes {
		t.Fatalf("slot duration: %d", input.SlotDurationMinutes)
	}
	if input.Location != nil {
		t.Fatalf("empty location should be absent")
	}
	if open, closing := input.WorkingHours.Day("sun", "", ""); open != "09:00" || closing != "23:00" {
		t.Fatalf("working hours: %v", input.WorkingHours)
	}
}

func TestCreateBusinessFailureKeepsDraftAndMessage(t *testing.T) {
	mock := newMockBusinessClient()
	mock.createErr = &backend.Error{Op: "create business", Status: http.StatusUnprocessableEntity, Message: "name: already registered", Err: backend.ErrStatus}
	setupBusinessHandlers(t, mock)

	req := postForm("/businesses", url.Values{"form_token": {"tok-3"}, "name": {"Buka"}, "type": {"restaurant"}, "location": {"Osu"}})
	recorder := httptest.NewRecorder()
	HandleCreateBusiness(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "name: already registered") {
		t.Fatalf("error message not shown: %s", body)
	}
	if !strings.Contains(body, `value="Buka"`) || !strings.Contains(body, `value="Osu"`) {
		t.Fatalf("draft not preserved: %s", body)
	}
	if !strings.Contains(body, `value="tok-3"`) {
		t.Fatalf("form token should be kept for resubmission: %s", body)
	}
	if recorder.Header().Get("HX-Redirect") != "" {
		t.Fatalf("failure must not redirect")
	}
}

func TestCreateBusinessRejectsDuplicateInFlight(t *testing.T) {
	mock := newMockBusinessClient()
	setupBusinessHandlers(t, mock)

	key := "business:create:tok-busy"
	if !guard.TryAcquire(key) {
		t.Fatalf("guard already held")
	}
	defer guard.Release(key)

	req := postForm("/businesses", url.Values{"form_token": {"tok-busy"}, "name": {"Buka"}, "type": {"restaurant"}})
	recorder := httptest.NewRecorder()
	HandleCreateBusiness(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("status: %d", recorder.Code)
	}
	if len(mock.createCalls()) != 0 {
		t.Fatalf("duplicate submission reached the backend")
	}
}

func TestBusinessListFiltersByTypeAndSearch(t *testing.T) {
	mock := newMockBusinessClient(sampleBusinesses()...)
	setupBusinessHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/businesses/list?type=hostel&q=OSU", nil)
	recorder := httptest.NewRecorder()
	HandleBusinessList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Somewhere Nice Hostel") {
		t.Fatalf("expected hostel in results: %s", body)
	}
	if strings.Contains(body, "Buka Restaurant") || strings.Contains(body, "Labadi Beach Hotel") {
		t.Fatalf("filtered businesses leaked: %s", body)
	}
}

func TestBusinessesPageDegradesWhenListFails(t *testing.T) {
	mock := newMockBusinessClient()
	mock.listErr = &backend.Error{Op: "list businesses", Message: "Could not reach the booking API", Err: backend.ErrTransport}
	setupBusinessHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/businesses", nil)
	recorder := httptest.NewRecorder()
	HandleBusinessesPage(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Could not reach the booking API") || !strings.Contains(body, "No properties found.") {
		t.Fatalf("expected empty list with message: %s", body)
	}
}

func TestOverviewZeroesCountersWhenBookingsFail(t *testing.T) {
	mock := newMockBusinessClient(sampleBusinesses()...)
	mock.services = []models.Service{{ID: "svc-1", Name: "Deluxe", IsActive: true}, {ID: "svc-2", Name: "Suite"}}
	mock.bookingsErr = errors.New("connection reset")
	setupBusinessHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/businesses/biz-1", nil)
	req.SetPathValue("id", "biz-1")
	recorder := httptest.NewRecorder()
	HandleBusinessOverview(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Could not load bookings") {
		t.Fatalf("expected bookings warning: %s", body)
	}
	if !strings.Contains(body, `<span class="stat-value">0</span><span class="stat-label">Bookings</span>`) {
		t.Fatalf("expected zero bookings counter: %s", body)
	}
	if !strings.Contains(body, "(1 active)") {
		t.Fatalf("expected service counts: %s", body)
	}
	if !strings.Contains(body, "No bookings yet.") {
		t.Fatalf("expected empty recent bookings: %s", body)
	}
}

func TestOverviewNotFound(t *testing.T) {
	mock := newMockBusinessClient()
	setupBusinessHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/businesses/missing", nil)
	req.SetPathValue("id", "missing")
	recorder := httptest.NewRecorder()
	HandleBusinessOverview(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Property not found") {
		t.Fatalf("expected not found page: %s", recorder.Body.String())
	}
}

func settingsValues(name string) url.Values {
	values := url.Values{
		"form_token": {"settings-tok"},
		"name":       {name},
		"location":   {"Labadi, Accra"},
		"phone":      {"+233 24 123 4567"},
		"timezone":   {"Africa/Accra"},
	}
	for _, day := range models.DayKeys {
		values.Set("hours_"+day+"_open", "07:00")
		values.Set("hours_"+day+"_close", "23:00")
	}
	return values
}

func TestUpdateSettingsKeepsStoredBotToken(t *testing.T) {
	business := sampleBusinesses()[0]
	business.TelegramBotToken = strPtr("123:stored")
	mock := newMockBusinessClient(business)
	setupBusinessHandlers(t, mock)

	req := postForm("/businesses/biz-1/settings", settingsValues("Labadi Beach Hotel & Spa"))
	req.SetPathValue("id", "biz-1")
	recorder := httptest.NewRecorder()
	HandleUpdateSettings(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Values("HX-Trigger"); len(got) != 1 || got[0] != businessUpdatedEvent {
		t.Fatalf("HX-Trigger: %v", got)
	}
	if !strings.Contains(recorder.Body.String(), "Saved") {
		t.Fatalf("expected saved indicator: %s", recorder.Body.String())
	}

	calls := mock.updateCalls()
	if len(calls) != 1 {
		t.Fatalf("expected one update, got %d", len(calls))
	}
	update := calls[0]
	if update.TelegramBotToken == nil || *update.TelegramBotToken != "123:stored" {
		t.Fatalf("stored token should be resent: %v", update.TelegramBotToken)
	}
	if update.SlotDurationMinutes != nil {
		t.Fatalf("hotels have no slot duration")
	}
	if open, closing := update.WorkingHours.Day("wed", "", ""); open != "07:00" || closing != "23:00" {
		t.Fatalf("working hours: %v", update.WorkingHours)
	}
	if update.Phone == nil || *update.Phone != "+233241234567" {
		t.Fatalf("phone: %v", update.Phone)
	}
}

func TestUpdateSettingsClearsBotToken(t *testing.T) {
	business := sampleBusinesses()[1]
	business.TelegramBotToken = strPtr("123:stored")
	mock := newMockBusinessClient(business)
	setupBusinessHandlers(t, mock)

	values := settingsValues("Buka Restaurant")
	values.Set("clear_bot_token", "true")
	values.Set("slot_duration_minutes", "45")
	req := postForm("/businesses/biz-2/settings", values)
	req.SetPathValue("id", "biz-2")
	recorder := httptest.NewRecorder()
	HandleUpdateSettings(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	update := mock.updateCalls()[0]
	if update.TelegramBotToken != nil {
		t.Fatalf("token should be cleared")
	}
	if update.SlotDurationMinutes == nil || *update.SlotDurationMinutes != 45 {
		t.Fatalf("slot duration: %v", update.SlotDurationMinutes)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		wantMsg string
	}{
		{"blank name", func(v url.Values) { v.Set("name", "  ") }, "name is required"},
		{"bad timezone", func(v url.Values) { v.Set("timezone", "Mars/Olympus") }, "timezone must be an IANA time zone"},
		{"bad hours", func(v url.Values) { v.Set("hours_fri_close", "late") }, "Friday hours must be in HH:MM format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockBusinessClient(sampleBusinesses()...)
			setupBusinessHandlers(t, mock)

			values := settingsValues("Labadi Beach Hotel")
			tt.mutate(values)
			req := postForm("/businesses/biz-1/settings", values)
			req.SetPathValue("id", "biz-1")
			recorder := httptest.NewRecorder()
			HandleUpdateSettings(recorder, req)

			if recorder.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), tt.wantMsg) {
				t.Fatalf("missing %q in %s", tt.wantMsg, recorder.Body.String())
			}
			if len(mock.updateCalls()) != 0 {
				t.Fatalf("invalid settings reached the backend")
			}
			if recorder.Header().Get("HX-Trigger") != "" {
				t.Fatalf("failed save must not trigger a refresh")
			}
		})
	}
}

func TestHeaderPartialUsesCurrentPageForTabs(t *testing.T) {
	mock := newMockBusinessClient(sampleBusinesses()...)
	setupBusinessHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/businesses/biz-1/header", nil)
	req.SetPathValue("id", "biz-1")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Current-URL", "http://localhost:8080/businesses/biz-1/settings")
	recorder := httptest.NewRecorder()
	HandleBusinessHeader(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, `href="/businesses/biz-1/settings" class="tab active"`) {
		t.Fatalf("settings tab should be active: %s", body)
	}
	if !strings.Contains(body, ">Rooms<") {
		t.Fatalf("hotel tabs should say Rooms: %s", body)
	}
}
