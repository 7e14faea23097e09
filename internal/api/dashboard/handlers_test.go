package dashboard

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/models"
)

type mockDashboardClient struct {
	businesses []models.Business
	err        error
}

func (m *mockDashboardClient) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	return m.businesses, m.err
}

func setupDashboardHandlers(t *testing.T, mock *mockDashboardClient) {
	t.Helper()
	client = mock
	t.Cleanup(func() {
		client = nil
		clientOnce = sync.Once{}
	})
}

func TestHandleDashboardPage(t *testing.T) {
	setupDashboardHandlers(t, &mockDashboardClient{businesses: []models.Business{
		{ID: "b1", Name: "Labadi Beach Hotel", Type: models.BusinessTypeHotel, IsActive: true},
		{ID: "b2", Name: "Buka Restaurant", Type: models.BusinessTypeRestaurant, IsActive: false},
		{ID: "b3", Name: "Kokrobite Hostel", Type: models.BusinessTypeHostel, IsActive: true},
	}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	HandleDashboardPage(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<span class="stat-value">3</span><span class="stat-label">Properties</span>`,
		`<span class="stat-value">2</span><span class="stat-label">Active</span>`,
		`<span class="stat-value">1</span><span class="stat-label">Hotel</span>`,
		"Buka Restaurant",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body: %s", want, body)
		}
	}
}

func TestHandleDashboardPageDegradesOnFailure(t *testing.T) {
	setupDashboardHandlers(t, &mockDashboardClient{
		err: &backend.Error{Op: "list_businesses", Message: "Could not reach the booking API", Err: backend.ErrTransport},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	HandleDashboardPage(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Could not reach the booking API") {
		t.Fatalf("expected error message: %s", body)
	}
	if !strings.Contains(body, "No properties yet.") {
		t.Fatalf("expected empty list: %s", body)
	}
}

func TestHandleDashboardStatsIsPartial(t *testing.T) {
	setupDashboardHandlers(t, &mockDashboardClient{businesses: []models.Business{
		{ID: "b1", Name: "Labadi Beach Hotel", Type: models.BusinessTypeHotel, IsActive: true},
	}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()
	HandleDashboardStats(recorder, req)

	body := recorder.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatalf("stats partial should not include the shell")
	}
	if !strings.Contains(body, `<span class="stat-value">1</span><span class="stat-label">Property</span>`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHandleDashboardPageNilClient(t *testing.T) {
	client = nil
	recorder := httptest.NewRecorder()
	HandleDashboardPage(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", recorder.Code)
	}
}
