package nav

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

type mockSearchClient struct {
	businesses []models.Business
	err        error
	calls      int
}

func (m *mockSearchClient) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	m.calls++
	return m.businesses, m.err
}

func setupNavHandlers(t *testing.T, mock *mockSearchClient) {
	t.Helper()
	client = mock
	t.Cleanup(func() {
		client = nil
		clientOnce = sync.Once{}
	})
}

func sampleBusinesses() []models.Business {
	accra := "Accra"
	kumasi := "Kumasi"
	return []models.Business{
		{ID: "b1", Name: "Labadi Beach Hotel", Type: models.BusinessTypeHotel, Location: &accra},
		{ID: "b2", Name: "Buka Restaurant", Type: models.BusinessTypeRestaurant, Location: &accra},
		{ID: "b3", Name: "Kumasi Backpackers", Type: models.BusinessTypeHostel, Location: &kumasi},
	}
}

func TestHandleSearch(t *testing.T) {
	mock := &mockSearchClient{businesses: sampleBusinesses()}
	setupNavHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=accra", nil)
	recorder := httptest.NewRecorder()

	HandleSearch(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}

	var results []layouts.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 || results[0].ID != "b1" || results[1].ID != "b2" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestHandleSearchEmptyQuerySkipsBackend(t *testing.T) {
	mock := &mockSearchClient{businesses: sampleBusinesses()}
	setupNavHandlers(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=%20", nil)
	recorder := httptest.NewRecorder()
	HandleSearch(recorder, req)

	if strings.TrimSpace(recorder.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON list, got %s", recorder.Body.String())
	}
	if mock.calls != 0 {
		t.Fatalf("backend called for empty query")
	}
}

func TestHandleSearchLimitsResults(t *testing.T) {
	var many []models.Business
	for i := 0; i < 25; i++ {
		many = append(many, models.Business{ID: fmt.Sprintf("b%d", i), Name: fmt.Sprintf("Guest House %d", i), Type: models.BusinessTypeHostel})
	}
	setupNavHandlers(t, &mockSearchClient{businesses: many})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=guest", nil)
	recorder := httptest.NewRecorder()
	HandleSearch(recorder, req)

	var results []layouts.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != searchLimit {
		t.Fatalf("got %d results, want %d", len(results), searchLimit)
	}
}

func TestHandleSearchHTMXRendersLinks(t *testing.T) {
	setupNavHandlers(t, &mockSearchClient{businesses: sampleBusinesses()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=zzz", nil)
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()
	HandleSearch(recorder, req)

	body := recorder.Body.String()
	if !strings.Contains(body, "No properties match") {
		t.Fatalf("expected empty message, got %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=kumasi", nil)
	req.Header.Set("HX-Request", "true")
	recorder = httptest.NewRecorder()
	HandleSearch(recorder, req)

	if !strings.Contains(recorder.Body.String(), `href="/businesses/b3"`) {
		t.Fatalf("expected link to b3, got %s", recorder.Body.String())
	}
}

func TestHandleSearchBackendFailure(t *testing.T) {
	setupNavHandlers(t, &mockSearchClient{
		err: &backend.Error{Op: "list_businesses", Message: "Could not reach the booking API", Err: backend.ErrTransport},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/search?q=hotel", nil)
	recorder := httptest.NewRecorder()
	HandleSearch(recorder, req)

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleMenuHighlightsCurrentPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/menu", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Current-URL", "http://localhost:8080/businesses/b1")
	recorder := httptest.NewRecorder()
	HandleMenu(recorder, req)

	body := recorder.Body.String()
	if !strings.Contains(body, `href="/businesses" class="nav-item active"`) {
		t.Fatalf("properties entry should be active: %s", body)
	}
}
