// internal/api/faqs/handlers.go
package faqs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/api/apiutil"
	"github.com/frontdesk-hq/frontdesk/internal/api/htmx"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/forms"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/ratelimit"
	businesstempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
	faqtempl "github.com/frontdesk-hq/frontdesk/internal/templates/components/faqs"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

const (
	businessIDParam = "id"
	faqIDParam      = "fid"
	refreshFAQList  = "refreshFAQList"

	// MaxImportBytes caps the uploaded FAQ file.
	MaxImportBytes = 1 << 20
	// multipart framing around the file part
	multipartOverhead = 16 << 10
)

var allowedImportExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

var (
	client     faqClient
	clientOnce sync.Once
	limiter    *ratelimit.Limiter
	trustProxy bool
	guard      = forms.NewGuard()
)

type faqClient interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error)
	CreateFAQ(ctx context.Context, businessID string, input models.FAQInput) (*models.FAQ, error)
	DeleteFAQ(ctx context.Context, faqID string) error
	ImportFAQs(ctx context.Context, businessID, filename string, content io.Reader) ([]models.FAQ, error)
}

// InitHandlers must be called during server startup before handling requests.
// A nil importLimiter disables import throttling.
func InitHandlers(c faqClient, importLimiter *ratelimit.Limiter, behindProxy bool) {
	if c == nil {
		log.Warn().Msg("InitHandlers called with nil client; FAQ handlers will be unavailable")
		return
	}
	clientOnce.Do(func() {
		client = c
		limiter = importLimiter
		trustProxy = behindProxy
	})
}

func loadClient() faqClient {
	return client
}

// GET /businesses/{id}/faqs
func HandleFAQsPage(w http.ResponseWriter, r *http.Request) {
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

	data := faqtempl.PageData{
		Header: businesstempl.NewHeaderData(*business, r.URL.Path),
		List:   fetchListData(r, c, businessID),
		Form:   faqtempl.FormData{BusinessID: businessID, Token: forms.NewInstanceToken()},
		Import: newImportData(businessID),
	}
	page := layouts.Page{Title: "FAQs", CurrentPath: r.URL.Path, BusinessType: business.Type}
	apiutil.RenderPage(w, r, http.StatusOK, faqtempl.Page(data), page, "Failed to render FAQ page")
}

// GET /businesses/{id}/faqs/list
func HandleFAQList(w http.ResponseWriter, r *http.Request) {
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

	data := fetchListData(r, c, businessID)
	apiutil.RenderHTMLComponent(r.Context(), w, faqtempl.List(data), nil, "Failed to render FAQ list", "Failed to render list")
}

func fetchListData(r *http.Request, c faqClient, businessID string) faqtempl.ListData {
	data := faqtempl.ListData{BusinessID: businessID}
	faqs, err := c.ListFAQs(r.Context(), businessID)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("business_id", businessID).Msg("Failed to list FAQs; showing empty list")
		data.Error = backend.Message(err)
		return data
	}
	data.FAQs = faqs
	return data
}

func newImportData(businessID string) faqtempl.ImportData {
	return faqtempl.ImportData{
		BusinessID: businessID,
		Token:      forms.NewInstanceToken(),
		MaxSizeKB:  MaxImportBytes >> 10,
	}
}

// POST /businesses/{id}/faqs
func HandleCreateFAQ(w http.ResponseWriter, r *http.Request) {
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

	token := formToken(r)
	draft := faqtempl.Draft{
		Question: r.PostFormValue("question"),
		Answer:   r.PostFormValue("answer"),
		Keywords: r.PostFormValue("keywords"),
	}
	formData := faqtempl.FormData{BusinessID: businessID, Token: token, Draft: draft}

	input, err := faqInput(draft)
	if err != nil {
		formData.Error = err.Error()
		writeForm(w, r, http.StatusUnprocessableEntity, formData)
		return
	}

	var created *models.FAQ
	lc, err := guard.Submit("faq:create:"+token, backend.Message, func() error {
		var createErr error
		created, createErr = c.CreateFAQ(r.Context(), businessID, input)
		return createErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This form is already being submitted", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Msg("Failed to create FAQ")
		formData.Error = lc.Message()
		writeForm(w, r, backend.HTTPStatus(err), formData)
		return
	}

	logger.Info().Str("business_id", businessID).Str("faq_id", created.ID).Msg("FAQ created")

	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
			logger.Error().Err(err).Msg("Failed to write FAQ response")
		}
		return
	}

	htmx.Trigger(w, refreshFAQList)
	writeForm(w, r, http.StatusCreated, faqtempl.FormData{
		BusinessID: businessID,
		Token:      forms.NewInstanceToken(),
		Saved:      "Question added.",
	})
}

func writeForm(w http.ResponseWriter, r *http.Request, status int, data faqtempl.FormData) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, faqtempl.Form(data), nil, "Failed to render FAQ form", "Failed to render form")
}

func faqInput(draft faqtempl.Draft) (models.FAQInput, error) {
	var input models.FAQInput

	question, err := forms.RequiredText(draft.Question, "question")
	if err != nil {
		return input, err
	}
	answer, err := forms.RequiredText(draft.Answer, "answer")
	if err != nil {
		return input, err
	}

	input.Question = question
	input.Answer = answer
	input.Keywords = forms.StringList([]string{draft.Keywords})
	if input.Keywords == nil {
		input.Keywords = []string{}
	}
	return input, nil
}

// DELETE /businesses/{id}/faqs/{fid}
func HandleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
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
	faqID, err := apiutil.PathID(r, faqIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := forms.DeleteKey("faq", faqID)
	if !guard.TryAcquire(key) {
		http.Error(w, "This item is already being deleted", http.StatusConflict)
		return
	}
	defer guard.Release(key)

	if err := c.DeleteFAQ(r.Context(), faqID); err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Str("faq_id", faqID).Msg("Failed to delete FAQ")
		status := backend.HTTPStatus(err)
		message := backend.Message(err)
		if errors.Is(err, backend.ErrNotFound) {
			status = http.StatusNotFound
			message = "This question no longer exists. Refresh the list."
		}
		apiutil.WriteHTMLFeedback(w, status, message)
		return
	}

	logger.Info().Str("business_id", businessID).Str("faq_id", faqID).Msg("FAQ deleted")

	if !htmx.IsRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	htmx.Trigger(w, refreshFAQList)
	apiutil.WriteHTMLFeedback(w, http.StatusOK, "Deleted.")
}

// POST /businesses/{id}/faqs/import
func HandleImportFAQs(w http.ResponseWriter, r *http.Request) {
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

	data := newImportData(businessID)

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes+multipartOverhead)
	if err := r.ParseMultipartForm(MaxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data.Error = fmt.Sprintf("The file is larger than %d KB.", data.MaxSizeKB)
			writeImport(w, r, http.StatusRequestEntityTooLarge, data)
			return
		}
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	if token := strings.TrimSpace(r.FormValue("form_token")); token != "" {
		data.Token = token
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		data.Error = "Choose a file to import."
		writeImport(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !allowedImportExtensions[strings.ToLower(filepath.Ext(filename))] {
		data.Error = "Only .csv and .txt files can be imported."
		writeImport(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	if header.Size > MaxImportBytes {
		data.Error = fmt.Sprintf("The file is larger than %d KB.", data.MaxSizeKB)
		writeImport(w, r, http.StatusRequestEntityTooLarge, data)
		return
	}
	if header.Size == 0 {
		data.Error = "The file is empty."
		writeImport(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if limiter != nil {
		if result := limiter.Allow(businessID); !result.Allowed {
			ratelimit.LogExceeded("faq_import", businessID, ratelimit.GetClientIP(r, trustProxy), result.RetryAfter)
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			data.Error = fmt.Sprintf("Too many imports. Try again in %d seconds.", seconds)
			writeImport(w, r, http.StatusTooManyRequests, data)
			return
		}
	}

	var imported []models.FAQ
	lc, err := guard.Submit("faq:import:"+data.Token, backend.Message, func() error {
		var importErr error
		imported, importErr = c.ImportFAQs(r.Context(), businessID, filename, file)
		return importErr
	})
	if errors.Is(err, forms.ErrAlreadySubmitting) {
		http.Error(w, "This file is already being imported", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Str("filename", filename).Msg("Failed to import FAQs")
		data.Error = lc.Message()
		writeImport(w, r, backend.HTTPStatus(err), data)
		return
	}

	logger.Info().Str("business_id", businessID).Int("count", len(imported)).Msg("FAQs imported")

	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusCreated, imported); err != nil {
			logger.Error().Err(err).Msg("Failed to write import response")
		}
		return
	}

	fresh := newImportData(businessID)
	fresh.Saved = importedMessage(len(imported))
	htmx.Trigger(w, refreshFAQList)
	writeImport(w, r, http.StatusCreated, fresh)
}

func importedMessage(n int) string {
	if n == 1 {
		return "Imported 1 question."
	}
	return fmt.Sprintf("Imported %d questions.", n)
}

func writeImport(w http.ResponseWriter, r *http.Request, status int, data faqtempl.ImportData) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, faqtempl.Import(data), nil, "Failed to render FAQ import form", "Failed to render form")
}

func formToken(r *http.Request) string {
	if token := strings.TrimSpace(r.PostFormValue("form_token")); token != "" {
		return token
	}
	return forms.NewInstanceToken()
}
