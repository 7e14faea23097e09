// Package devapi is a local stand-in for the external booking API. It
// implements the same REST contract on top of SQLite and is used for local
// development and end-to-end tests of the dashboard.
package devapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxImportBytes = 1 << 20

type Server struct {
	store *Store
	newID func() string
}

func NewServer(store *Store) *Server {
	return &Server{
		store: store,
		newID: uuid.NewString,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/businesses", s.handleListBusinesses)
	mux.HandleFunc("POST /api/businesses", s.handleCreateBusiness)
	mux.HandleFunc("GET /api/businesses/{id}", s.handleGetBusiness)
	mux.HandleFunc("PATCH /api/businesses/{id}", s.handleUpdateBusiness)

	mux.HandleFunc("GET /api/businesses/{id}/services", s.handleListServices)
	mux.HandleFunc("POST /api/businesses/{id}/services", s.handleCreateService)
	mux.HandleFunc("PATCH /api/businesses/{id}/services/{sid}", s.handleUpdateService)
	mux.HandleFunc("DELETE /api/businesses/{id}/services/{sid}", s.handleDeleteService)

	mux.HandleFunc("GET /api/businesses/{id}/faqs", s.handleListFAQs)
	mux.HandleFunc("POST /api/businesses/{id}/faqs", s.handleCreateFAQ)
	mux.HandleFunc("POST /api/businesses/{id}/faqs/import", s.handleImportFAQs)
	mux.HandleFunc("DELETE /api/faqs/{fid}", s.handleDeleteFAQ)

	mux.HandleFunc("GET /api/businesses/{id}/bookings", s.handleListBookings)
	mux.HandleFunc("POST /api/businesses/{id}/bookings", s.handleCreateBooking)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.db.PingContext(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Database ping failed")
		writeDetail(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type validationProblem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeInvalid reports a single field problem the way the upstream API does,
// as a 422 with a list of problems.
func writeInvalid(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationProblem{
		"detail": {{Loc: []string{"body", field}, Msg: msg, Type: "value_error"}},
	})
}

// writeStoreError maps store failures onto the API's status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, ErrNotFound) {
		writeDetail(w, http.StatusNotFound, notFound)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg("Store operation failed")
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}

// patch holds the raw fields of a PATCH body so that absent keys can be told
// apart from explicit nulls.
type patch map[string]json.RawMessage

func decodePatch(w http.ResponseWriter, r *http.Request) (patch, error) {
	var p patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// apply decodes key into dst when present. A null clears pointer fields.
func (p patch) apply(key string, dst any) error {
	raw, ok := p[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fieldError{Field: key, Msg: "has an invalid value"}
	}
	return nil
}

func (p patch) has(key string) bool {
	_, ok := p[key]
	return ok
}

type fieldError struct {
	Field string
	Msg   string
}

func (e fieldError) Error() string {
	return e.Field + " " + e.Msg
}

func writeFieldError(w http.ResponseWriter, err error) bool {
	var fe fieldError
	if errors.As(err, &fe) {
		writeInvalid(w, fe.Field, fe.Msg)
		return true
	}
	return false
}
