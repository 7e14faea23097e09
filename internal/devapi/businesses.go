package devapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

const businessNotFound = "Business not found"

func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := s.store.ListBusinesses(r.Context())
	if err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, businesses)
}

func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	business, err := s.store.GetBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, business)
}

func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var input models.BusinessCreate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		writeInvalid(w, "name", "field required")
		return
	}
	if !input.Type.Valid() {
		writeDetail(w, http.StatusBadRequest, "type must be 'hotel', 'restaurant' or 'hostel'")
		return
	}

	business := models.Business{
		ID:                  s.newID(),
		Name:                name,
		Type:                input.Type,
		TelegramGroupID:     input.TelegramGroupID,
		ActiveChannel:       models.DefaultChannel,
		IsActive:            true,
		WorkingHours:        input.WorkingHours,
		SlotDurationMinutes: input.SlotDurationMinutes,
		Timezone:            input.Timezone,
		Location:            input.Location,
		Phone:               input.Phone,
	}
	if business.WorkingHours == nil {
		business.WorkingHours = models.WorkingHours{}
	}
	if business.SlotDurationMinutes == 0 {
		business.SlotDurationMinutes = models.DefaultSlotDurationMinutes
	}
	if business.Timezone == "" {
		business.Timezone = models.DefaultTimezone
	}
	if err := validateBusiness(business); err != nil {
		writeFieldError(w, err)
		return
	}

	if err := s.store.CreateBusiness(r.Context(), business); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	log.Ctx(r.Context()).Info().Str("business_id", business.ID).Str("type", string(business.Type)).Msg("Business created")
	writeJSON(w, http.StatusOK, business)
}

// handleUpdateBusiness applies only the keys present in the body. Nullable
// fields sent as null are cleared.
func (s *Server) handleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	business, err := s.store.GetBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}

	p, err := decodePatch(w, r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if p.has("name") {
		var name string
		if err := p.apply("name", &name); err != nil {
			writeFieldError(w, err)
			return
		}
		if name = strings.TrimSpace(name); name == "" {
			writeInvalid(w, "name", "must not be empty")
			return
		}
		business.Name = name
	}

	var workingHours models.WorkingHours
	for _, field := range []struct {
		key string
		dst any
	}{
		{"telegram_group_id", &business.TelegramGroupID},
		{"telegram_bot_token", &business.TelegramBotToken},
		{"active_channel", &business.ActiveChannel},
		{"is_active", &business.IsActive},
		{"working_hours", &workingHours},
		{"slot_duration_minutes", &business.SlotDurationMinutes},
		{"timezone", &business.Timezone},
		{"location", &business.Location},
		{"phone", &business.Phone},
	} {
		if err := p.apply(field.key, field.dst); err != nil {
			writeFieldError(w, err)
			return
		}
	}
	if workingHours != nil {
		business.WorkingHours = workingHours
	}

	if err := validateBusiness(business); err != nil {
		writeFieldError(w, err)
		return
	}

	if err := s.store.SaveBusiness(r.Context(), business); err != nil {
		writeStoreError(w, r, err, businessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, business)
}

func validateBusiness(b models.Business) error {
	if b.SlotDurationMinutes <= 0 {
		return fieldError{Field: "slot_duration_minutes", Msg: "must be greater than 0"}
	}
	if !models.ValidTimezone(b.Timezone) {
		return fieldError{Field: "timezone", Msg: "is not a known time zone"}
	}
	if len(b.WorkingHours) > 0 {
		if err := b.WorkingHours.Validate(); err != nil {
			return fieldError{Field: "working_hours", Msg: err.Error()}
		}
	}
	return nil
}
