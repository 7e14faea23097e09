package devapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

const (
	faqNotFound      = "FAQ not found"
	emptyImportError = "Provide JSON body with 'faqs' array or upload a CSV/TXT file (Q: / A: blocks)"
)

func (s *Server) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := s.store.ListFAQs(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, faqNotFound)
		return
	}
	writeJSON(w, http.StatusOK, faqs)
}

func (s *Server) handleCreateFAQ(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if _, err := s.store.GetBusiness(r.Context(), businessID); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	var input models.FAQInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	faq, err := s.newFAQ(businessID, input)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	if err := s.store.CreateFAQs(r.Context(), []models.FAQ{faq}); err != nil {
		writeStoreError(w, r, err, faqNotFound)
		return
	}
	writeJSON(w, http.StatusOK, faq)
}

func (s *Server) handleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteFAQ(r.Context(), r.PathValue("fid")); err != nil {
		writeStoreError(w, r, err, faqNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "FAQ deleted"})
}

// handleImportFAQs accepts either a JSON body {"faqs": [...]} or a multipart
// upload in field "file". Files ending in .csv are read as CSV, anything
// else as Q:/A: text.
func (s *Server) handleImportFAQs(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if _, err := s.store.GetBusiness(r.Context(), businessID); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes+4096)

	var inputs []models.FAQInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			FAQs []models.FAQInput `json:"faqs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		inputs = body.FAQs
	} else {
		parsed, status, detail := parseUpload(r)
		if status != http.StatusOK {
			writeDetail(w, status, detail)
			return
		}
		inputs = parsed
	}

	if len(inputs) == 0 {
		writeDetail(w, http.StatusBadRequest, emptyImportError)
		return
	}

	faqs := make([]models.FAQ, 0, len(inputs))
	for _, input := range inputs {
		faq, err := s.newFAQ(businessID, input)
		if err != nil {
			writeFieldError(w, err)
			return
		}
		faqs = append(faqs, faq)
	}

	if err := s.store.CreateFAQs(r.Context(), faqs); err != nil {
		writeStoreError(w, r, err, faqNotFound)
		return
	}

	log.Ctx(r.Context()).Info().Str("business_id", businessID).Int("count", len(faqs)).Msg("FAQs imported")
	writeJSON(w, http.StatusOK, faqs)
}

func parseUpload(r *http.Request) ([]models.FAQInput, int, string) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, "File is too large"
		}
		return nil, http.StatusBadRequest, emptyImportError
	}
	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		return nil, http.StatusBadRequest, emptyImportError
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, "Could not read the uploaded file"
	}
	if !utf8.Valid(raw) {
		return nil, http.StatusBadRequest, "File must be UTF-8 text or CSV"
	}

	if strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		inputs, err := ParseFAQCSV(bytes.NewReader(raw))
		if err != nil {
			return nil, http.StatusBadRequest, "CSV could not be parsed: " + err.Error()
		}
		return inputs, http.StatusOK, ""
	}
	return ParseFAQText(string(raw)), http.StatusOK, ""
}

func (s *Server) newFAQ(businessID string, input models.FAQInput) (models.FAQ, error) {
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	if question == "" {
		return models.FAQ{}, fieldError{Field: "question", Msg: "field required"}
	}
	if answer == "" {
		return models.FAQ{}, fieldError{Field: "answer", Msg: "field required"}
	}
	return models.FAQ{
		ID:         s.newID(),
		BusinessID: businessID,
		Question:   truncate(question, maxQuestionLength),
		Answer:     answer,
		Keywords:   nonNil(input.Keywords),
	}, nil
}
