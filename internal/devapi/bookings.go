package devapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.store.ListBookings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleCreateBooking exists so that local data and tests can be seeded; the
// dashboard itself never creates bookings.
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if _, err := s.store.GetBusiness(r.Context(), businessID); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	var booking models.Booking
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&booking); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	booking.ID = s.newID()
	booking.BusinessID = businessID
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	if !booking.Status.Known() {
		writeInvalid(w, "status", "is not a valid booking status")
		return
	}
	if _, err := time.Parse("2006-01-02", booking.BookingDate); err != nil {
		writeInvalid(w, "booking_date", "must be a YYYY-MM-DD date")
		return
	}
	if strings.TrimSpace(booking.Reference) == "" {
		booking.Reference = referenceFor(booking.ID)
	}

	if err := s.store.CreateBooking(r.Context(), booking); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func referenceFor(id string) string {
	ref := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return "BK-" + ref
}
