package faqs

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/ratelimit"
)

type mockFAQClient struct {
	mu        sync.Mutex
	faqs      []models.FAQ
	createErr error
	deleteErr error
	importErr error
	created   []models.FAQInput
	deleted   []string
	imports   []string
	contents  []string

	// deleteGate, when set, blocks DeleteFAQ until it is closed.
	deleteGate    chan struct{}
	deleteStarted chan struct{}
}

func (m *mockFAQClient) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	if businessID != "biz-1" {
		return nil, &backend.Error{Op: "get business", Status: http.StatusNotFound, Message: "Business not found", Err: backend.ErrNotFound}
	}
	return &models.Business{ID: "biz-1", Name: "Osu Guest House", Type: models.BusinessTypeHostel, IsActive: true}, nil
}

func (m *mockFAQClient) ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FAQ(nil), m.faqs...), nil
}

func (m *mockFAQClient) CreateFAQ(ctx context.Context, businessID string, input models.FAQInput) (*models.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, input)
	if m.createErr != nil {
		return nil, m.createErr
	}
	faq := models.FAQ{ID: "faq-new", BusinessID: businessID, Question: input.Question, Answer: input.Answer, Keywords: input.Keywords}
	m.faqs = append(m.faqs, faq)
	return &faq, nil
}

func (m *mockFAQClient) DeleteFAQ(ctx context.Context, faqID string) error {
	if m.deleteGate != nil {
		close(m.deleteStarted)
		<-m.deleteGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, faqID)
	return m.deleteErr
}

func (m *mockFAQClient) ImportFAQs(ctx context.Context, businessID, filename string, content io.Reader) ([]models.FAQ, error) {
	body, _ := io.ReadAll(content)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.imports = append(m.imports, filename)
	m.contents = append(m.contents, string(body))
	if m.importErr != nil {
		return nil, m.importErr
	}
	return []models.FAQ{{ID: "faq-a"}, {ID: "faq-b"}}, nil
}

func (m *mockFAQClient) calls() (created []models.FAQInput, deleted, imports []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(created, m.created...), append(deleted, m.deleted...), append(imports, m.imports...)
}

func setupFAQHandlers(t *testing.T, mock *mockFAQClient, importLimiter *ratelimit.Limiter) {
	t.Helper()
	client = mock
	limiter = importLimiter
	t.Cleanup(func() {
		client = nil
		limiter = nil
		clientOnce = sync.Once{}
	})
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", "biz-1")
	return req
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("form_token", "import-tok"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/businesses/biz-1/faqs/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", "biz-1")
	return req
}

func TestCreateFAQRequiresQuestionAndAnswer(t *testing.T) {
	mock := &mockFAQClient{}
	setupFAQHandlers(t, mock, nil)

	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{"blank question", url.Values{"question": {"  "}, "answer": {"Noon"}}, "question is required"},
		{"blank answer", url.Values{"question": {"Checkout time?"}, "answer": {"\n"}}, "answer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			HandleCreateFAQ(recorder, formRequest(http.MethodPost, "/businesses/biz-1/faqs", tt.values))

			if recorder.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), tt.want) {
				t.Fatalf("expected %q in body: %s", tt.want, recorder.Body.String())
			}
		})
	}

	if created, _, _ := mock.calls(); len(created) != 0 {
		t.Fatalf("backend called %d times", len(created))
	}
}

func TestCreateFAQSplitsKeywordsAndResetsForm(t *testing.T) {
	mock := &mockFAQClient{}
	setupFAQHandlers(t, mock, nil)

	req := formRequest(http.MethodPost, "/businesses/biz-1/faqs", url.Values{
		"form_token": {"tok-1"},
		"question":   {" What time is checkout? "},
		"answer":     {"Noon"},
		"keywords":   {"checkout, late;Checkout , time"},
	})
	recorder := httptest.NewRecorder()
	HandleCreateFAQ(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("HX-Trigger"); got != refreshFAQList {
		t.Fatalf("HX-Trigger = %q", got)
	}

	created, _, _ := mock.calls()
	if len(created) != 1 {
		t.Fatalf("expected one create, got %d", len(created))
	}
	if created[0].Question != "What time is checkout?" {
		t.Fatalf("question not trimmed: %q", created[0].Question)
	}
	if strings.Join(created[0].Keywords, "|") != "checkout|late|time" {
		t.Fatalf("keywords: %v", created[0].Keywords)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "Question added.") {
		t.Fatalf("expected saved indicator: %s", body)
	}
	if strings.Contains(body, "What time is checkout?") {
		t.Fatalf("form should be reset after success: %s", body)
	}
	if strings.Contains(body, `value="tok-1"`) {
		t.Fatalf("form token should be fresh after success")
	}
}

func TestCreateFAQEmptyKeywordsSendsEmptyList(t *testing.T) {
	mock := &mockFAQClient{}
	setupFAQHandlers(t, mock, nil)

	recorder := httptest.NewRecorder()
	HandleCreateFAQ(recorder, formRequest(http.MethodPost, "/businesses/biz-1/faqs", url.Values{
		"question": {"Parking?"},
		"answer":   {"Free on site"},
	}))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d", recorder.Code)
	}
	created, _, _ := mock.calls()
	if created[0].Keywords == nil || len(created[0].Keywords) != 0 {
		t.Fatalf("keywords = %#v, want empty non-nil list", created[0].Keywords)
	}
}

func TestCreateFAQBackendFailureKeepsDraft(t *testing.T) {
	mock := &mockFAQClient{
		createErr: &backend.Error{Op: "create_faq", Status: http.StatusUnprocessableEntity, Message: "question: too long", Err: backend.ErrStatus},
	}
	setupFAQHandlers(t, mock, nil)

	recorder := httptest.NewRecorder()
	HandleCreateFAQ(recorder, formRequest(http.MethodPost, "/businesses/biz-1/faqs", url.Values{
		"form_token": {"tok-keep"},
		"question":   {"Breakfast?"},
		"answer":     {"7 to 10"},
	}))

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}
	if recorder.Header().Get("HX-Trigger") != "" {
		t.Fatal("failed create must not refresh the list")
	}
	body := recorder.Body.String()
	for _, want := range []string{"question: too long", `value="Breakfast?"`, `value="tok-keep"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body: %s", want, body)
		}
	}
}

func TestDeleteFAQ(t *testing.T) {
	t.Run("success refreshes list", func(t *testing.T) {
		mock := &mockFAQClient{}
		setupFAQHandlers(t, mock, nil)

		req := formRequest(http.MethodDelete, "/businesses/biz-1/faqs/faq-9", nil)
		req.SetPathValue("fid", "faq-9")
		recorder := httptest.NewRecorder()
		HandleDeleteFAQ(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status: %d", recorder.Code)
		}
		if recorder.Header().Get("HX-Trigger") != refreshFAQList {
			t.Fatalf("missing refresh trigger")
		}
		if _, deleted, _ := mock.calls(); len(deleted) != 1 || deleted[0] != "faq-9" {
			t.Fatalf("deleted: %v", deleted)
		}
	})

	t.Run("already deleted", func(t *testing.T) {
		mock := &mockFAQClient{
			deleteErr: &backend.Error{Op: "delete_faq", Status: http.StatusNotFound, Message: "Not found", Err: backend.ErrNotFound},
		}
		setupFAQHandlers(t, mock, nil)

		req := formRequest(http.MethodDelete, "/businesses/biz-1/faqs/faq-9", nil)
		req.SetPathValue("fid", "faq-9")
		recorder := httptest.NewRecorder()
		HandleDeleteFAQ(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status: %d", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "no longer exists") {
			t.Fatalf("body: %s", recorder.Body.String())
		}
	})

	t.Run("in flight", func(t *testing.T) {
		mock := &mockFAQClient{}
		setupFAQHandlers(t, mock, nil)

		key := forms.DeleteKey("faq", "faq-9")
		if !guard.TryAcquire(key) {
			t.Fatal("could not acquire guard")
		}
		defer guard.Release(key)

		req := formRequest(http.MethodDelete, "/businesses/biz-1/faqs/faq-9", nil)
		req.SetPathValue("fid", "faq-9")
		recorder := httptest.NewRecorder()
		HandleDeleteFAQ(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("status: %d", recorder.Code)
		}
		if _, deleted, _ := mock.calls(); len(deleted) != 0 {
			t.Fatalf("duplicate delete reached backend")
		}
	})
}

func TestDeleteFAQConcurrentDuplicateIsRejected(t *testing.T) {
	mock := &mockFAQClient{deleteGate: make(chan struct{}), deleteStarted: make(chan struct{})}
	setupFAQHandlers(t, mock, nil)

	newRequest := func() *http.Request {
		req := formRequest(http.MethodDelete, "/businesses/biz-1/faqs/faq-7", nil)
		req.SetPathValue("fid", "faq-7")
		return req
	}

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		HandleDeleteFAQ(first, newRequest())
	}()
	<-mock.deleteStarted

	second := httptest.NewRecorder()
	HandleDeleteFAQ(second, newRequest())
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate delete status: %d", second.Code)
	}

	close(mock.deleteGate)
	<-done
	if first.Code != http.StatusOK {
		t.Fatalf("first delete status: %d", first.Code)
	}
	if _, deleted, _ := mock.calls(); len(deleted) != 1 {
		t.Fatalf("backend deletes = %v, want exactly one", deleted)
	}
	if guard.InFlight(forms.DeleteKey("faq", "faq-7")) {
		t.Fatal("guard not released after delete")
	}
}

func TestImportFAQs(t *testing.T) {
	mock := &mockFAQClient{}
	setupFAQHandlers(t, mock, nil)

	recorder := httptest.NewRecorder()
	HandleImportFAQs(recorder, uploadRequest(t, "faqs.csv", "question,answer,keywords\nWifi?,Yes,internet\n"))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if recorder.Header().Get("HX-Trigger") != refreshFAQList {
		t.Fatal("missing refresh trigger")
	}
	if !strings.Contains(recorder.Body.String(), "Imported 2 questions.") {
		t.Fatalf("body: %s", recorder.Body.String())
	}

	_, _, imports := mock.calls()
	if len(imports) != 1 || imports[0] != "faqs.csv" {
		t.Fatalf("imports: %v", imports)
	}
	if !strings.Contains(mock.contents[0], "Wifi?,Yes,internet") {
		t.Fatalf("file content not forwarded: %q", mock.contents[0])
	}
}

func TestImportFAQsRejectsUnsupportedFiles(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"wrong extension", "faqs.xlsx", "data", "Only .csv and .txt"},
		{"empty file", "faqs.txt", "", "The file is empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockFAQClient{}
			setupFAQHandlers(t, mock, nil)

			recorder := httptest.NewRecorder()
			HandleImportFAQs(recorder, uploadRequest(t, tt.filename, tt.content))

			if recorder.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), tt.want) {
				t.Fatalf("expected %q in body: %s", tt.want, recorder.Body.String())
			}
			if _, _, imports := mock.calls(); len(imports) != 0 {
				t.Fatalf("backend called for rejected file")
			}
		})
	}
}

func TestImportFAQsBackendFailure(t *testing.T) {
	mock := &mockFAQClient{
		importErr: &backend.Error{Op: "import_faqs", Status: http.StatusBadRequest, Message: "Row 3 has no answer", Err: backend.ErrStatus},
	}
	setupFAQHandlers(t, mock, nil)

	recorder := httptest.NewRecorder()
	HandleImportFAQs(recorder, uploadRequest(t, "faqs.txt", "Q: Pool?\n"))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Row 3 has no answer") {
		t.Fatalf("body: %s", recorder.Body.String())
	}
	if recorder.Header().Get("HX-Trigger") != "" {
		t.Fatal("failed import must not refresh the list")
	}
}

func TestImportFAQsRateLimited(t *testing.T) {
	mock := &mockFAQClient{}
	importLimiter := ratelimit.New(&ratelimit.Config{Every: time.Hour, Burst: 1})
	defer importLimiter.Close()
	setupFAQHandlers(t, mock, importLimiter)

	first := httptest.NewRecorder()
	HandleImportFAQs(first, uploadRequest(t, "faqs.csv", "q,a\n"))
	if first.Code != http.StatusCreated {
		t.Fatalf("first import status: %d", first.Code)
	}

	second := httptest.NewRecorder()
	HandleImportFAQs(second, uploadRequest(t, "faqs.csv", "q,a\n"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second import status: %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
	if _, _, imports := mock.calls(); len(imports) != 1 {
		t.Fatalf("throttled import reached backend: %d calls", len(imports))
	}
}

func TestFAQListShowsEmptyState(t *testing.T) {
	mock := &mockFAQClient{}
	setupFAQHandlers(t, mock, nil)

	req := httptest.NewRequest(http.MethodGet, "/businesses/biz-1/faqs/list", nil)
	req.SetPathValue("id", "biz-1")
	recorder := httptest.NewRecorder()
	HandleFAQList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "No questions yet.") {
		t.Fatalf("body: %s", recorder.Body.String())
	}
}
