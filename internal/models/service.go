package models

import (
	"encoding/json"
	"strings"
)

// Service is a catalog item offered for booking. Hotels use the room fields
// (max occupancy, bed type, nightly price); restaurants and hostels use
// duration, price and capacity.
type Service struct {
	ID                string   `json:"id"`
	BusinessID        string   `json:"business_id"`
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	DurationMinutes   int      `json:"duration_minutes"`
	Price             *Amount  `json:"price"`
	Capacity          *int     `json:"capacity"`
	IsActive          bool     `json:"is_active"`
	ImageURL          *string  `json:"image_url"`
	MaxOccupancy      *int     `json:"max_occupancy"`
	BedType           *string  `json:"bed_type"`
	Amenities         []string `json:"amenities"`
	BasePricePerNight *Amount  `json:"base_price_per_night"`
	RoomCount         *int     `json:"room_count"`
}

// ServiceKind names the field layout a service form was rendered with.
type ServiceKind string

const (
	ServiceKindRoom ServiceKind = "room"
	ServiceKindSlot ServiceKind = "service"
)

// ServiceKindFor returns the layout used for a business type.
func ServiceKindFor(t BusinessType) ServiceKind {
	if t == BusinessTypeHotel {
		return ServiceKindRoom
	}
	return ServiceKindSlot
}

func ParseServiceKind(raw string) (ServiceKind, bool) {
	switch kind := ServiceKind(strings.TrimSpace(raw)); kind {
	case ServiceKindRoom, ServiceKindSlot:
		return kind, true
	}
	return "", false
}

// ServiceInput is the create and update payload. Optional fields that are nil
// are sent as JSON null, never as zero. When Kind is set only the fields of
// that layout are sent, so an update never clears fields the form did not show.
type ServiceInput struct {
	Kind              ServiceKind `json:"-"`
	Name              string      `json:"name"`
	Description       *string     `json:"description"`
	DurationMinutes   *int        `json:"duration_minutes,omitempty"`
	Price             *Amount     `json:"price"`
	Capacity          *int        `json:"capacity"`
	IsActive          *bool       `json:"is_active,omitempty"`
	ImageURL          *string     `json:"image_url"`
	MaxOccupancy      *int        `json:"max_occupancy"`
	BedType           *string     `json:"bed_type"`
	Amenities         []string    `json:"amenities"`
	BasePricePerNight *Amount     `json:"base_price_per_night"`
	RoomCount         *int        `json:"room_count"`
}

type serviceCommon struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active,omitempty"`
	ImageURL    *string `json:"image_url"`
}

type roomPayload struct {
	serviceCommon
	MaxOccupancy      *int     `json:"max_occupancy"`
	BedType           *string  `json:"bed_type"`
	Amenities         []string `json:"amenities"`
	BasePricePerNight *Amount  `json:"base_price_per_night"`
	RoomCount         *int     `json:"room_count"`
}

type slotPayload struct {
	serviceCommon
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Price           *Amount `json:"price"`
	Capacity        *int    `json:"capacity"`
}

func (in ServiceInput) MarshalJSON() ([]byte, error) {
	common := serviceCommon{Name: in.Name, Description: in.Description, IsActive: in.IsActive, ImageURL: in.ImageURL}
	switch in.Kind {
	case ServiceKindRoom:
		return json.Marshal(roomPayload{
			serviceCommon:     common,
			MaxOccupancy:      in.MaxOccupancy,
			BedType:           in.BedType,
			Amenities:         in.Amenities,
			BasePricePerNight: in.BasePricePerNight,
			RoomCount:         in.RoomCount,
		})
	case ServiceKindSlot:
		return json.Marshal(slotPayload{
			serviceCommon:   common,
			DurationMinutes: in.DurationMinutes,
			Price:           in.Price,
			Capacity:        in.Capacity,
		})
	}
	type plain ServiceInput
	return json.Marshal(plain(in))
}

const DefaultServiceDurationMinutes = 60

// BedTypes are the options offered by the room editor.
var BedTypes = []string{"King", "Queen", "Twin", "Double", "Single"}

// AmenityOptions are the amenities offered as checkboxes by the room editor.
var AmenityOptions = []string{
	"WiFi", "TV", "Air Conditioning", "Mini Bar", "Pool", "Gym",
	"Parking", "Room Service", "Balcony", "Sea View", "City View",
	"Breakfast", "Spa Access", "Airport Shuttle", "Laundry", "Safe",
}

func (s Service) HasAmenity(name string) bool {
	for _, amenity := range s.Amenities {
		if amenity == name {
			return true
		}
	}
	return false
}

func IntValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
