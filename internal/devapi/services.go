package devapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

const serviceNotFound = "Service not found"

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.store.ListServices(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, serviceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if _, err := s.store.GetBusiness(r.Context(), businessID); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	var input models.ServiceInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	svc := models.Service{
		ID:                s.newID(),
		BusinessID:        businessID,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		DurationMinutes:   models.DefaultServiceDurationMinutes,
		Price:             input.Price,
		Capacity:          input.Capacity,
		IsActive:          true,
		ImageURL:          input.ImageURL,
		MaxOccupancy:      input.MaxOccupancy,
		BedType:           input.BedType,
		Amenities:         nonNil(input.Amenities),
		BasePricePerNight: input.BasePricePerNight,
		RoomCount:         input.RoomCount,
	}
	if input.DurationMinutes != nil {
		svc.DurationMinutes = *input.DurationMinutes
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}
	if err := validateService(svc); err != nil {
		writeFieldError(w, err)
		return
	}

	if err := s.store.CreateService(r.Context(), svc); err != nil {
		writeStoreError(w, r, err, serviceNotFound)
		return
	}

	log.Ctx(r.Context()).Info().Str("business_id", businessID).Str("service_id", svc.ID).Msg("Service created")
	writeJSON(w, http.StatusOK, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.store.GetService(r.Context(), r.PathValue("id"), r.PathValue("sid"))
	if err != nil {
		writeStoreError(w, r, err, serviceNotFound)
		return
	}

	p, err := decodePatch(w, r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var durationMinutes *int
	for _, field := range []struct {
		key string
		dst any
	}{
		{"name", &svc.Name},
		{"description", &svc.Description},
		{"duration_minutes", &durationMinutes},
		{"price", &svc.Price},
		{"capacity", &svc.Capacity},
		{"is_active", &svc.IsActive},
		{"image_url", &svc.ImageURL},
		{"max_occupancy", &svc.MaxOccupancy},
		{"bed_type", &svc.BedType},
		{"amenities", &svc.Amenities},
		{"base_price_per_night", &svc.BasePricePerNight},
		{"room_count", &svc.RoomCount},
	} {
		if err := p.apply(field.key, field.dst); err != nil {
			writeFieldError(w, err)
			return
		}
	}
	if durationMinutes != nil {
		svc.DurationMinutes = *durationMinutes
	}
	svc.Name = strings.TrimSpace(svc.Name)
	svc.Amenities = nonNil(svc.Amenities)

	if err := validateService(svc); err != nil {
		writeFieldError(w, err)
		return
	}

	if err := s.store.SaveService(r.Context(), svc); err != nil {
		writeStoreError(w, r, err, serviceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteService(r.Context(), r.PathValue("id"), r.PathValue("sid")); err != nil {
		writeStoreError(w, r, err, serviceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}

func validateService(svc models.Service) error {
	if svc.Name == "" {
		return fieldError{Field: "name", Msg: "field required"}
	}
	if svc.DurationMinutes <= 0 {
		return fieldError{Field: "duration_minutes", Msg: "must be greater than 0"}
	}
	for _, check := range []struct {
		field string
		value *models.Amount
	}{
		{"price", svc.Price},
		{"base_price_per_night", svc.BasePricePerNight},
	} {
		if check.value != nil && check.value.Float64() < 0 {
			return fieldError{Field: check.field, Msg: "must be 0 or greater"}
		}
	}
	for _, check := range []struct {
		field string
		value *int
	}{
		{"capacity", svc.Capacity},
		{"max_occupancy", svc.MaxOccupancy},
		{"room_count", svc.RoomCount},
	} {
		if check.value != nil && *check.value < 0 {
			return fieldError{Field: check.field, Msg: "must be 0 or greater"}
		}
	}
	return nil
}
