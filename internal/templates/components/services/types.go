package services

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
	"github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
)

// Draft is a service form as typed. Numeric fields stay text so an empty
// input is distinguishable from zero.
type Draft struct {
	Name              string
	Description       string
	DurationMinutes   string
	Price             string
	Capacity          string
	ImageURL          string
	MaxOccupancy      string
	BedType           string
	BasePricePerNight string
	RoomCount         string
	Amenities         []string
	IsActive          bool
}

func EmptyDraft() Draft {
	return Draft{
		DurationMinutes: strconv.Itoa(models.DefaultServiceDurationMinutes),
		IsActive:        true,
	}
}

func DraftFromService(service models.Service) Draft {
	draft := Draft{
		Name:              service.Name,
		Description:       models.StringValue(service.Description),
		Price:             templates.AmountInput(service.Price),
		Capacity:          templates.IntInput(service.Capacity),
		ImageURL:          models.StringValue(service.ImageURL),
		MaxOccupancy:      templates.IntInput(service.MaxOccupancy),
		BedType:           models.StringValue(service.BedType),
		BasePricePerNight: templates.AmountInput(service.BasePricePerNight),
		RoomCount:         templates.IntInput(service.RoomCount),
		Amenities:         append([]string(nil), service.Amenities...),
		IsActive:          service.IsActive,
	}
	if service.DurationMinutes > 0 {
		draft.DurationMinutes = strconv.Itoa(service.DurationMinutes)
	}
	return draft
}

type AmenityOption struct {
	Name    string
	Checked bool
}

// AmenityOptions lists the standard amenities followed by any custom ones
// already on the draft.
func (d Draft) AmenityOptions() []AmenityOption {
	selected := make(map[string]bool, len(d.Amenities))
	for _, amenity := range d.Amenities {
		selected[amenity] = true
	}
	options := make([]AmenityOption, 0, len(models.AmenityOptions)+len(d.Amenities))
	for _, name := range models.AmenityOptions {
		options = append(options, AmenityOption{Name: name, Checked: selected[name]})
		delete(selected, name)
	}
	for _, amenity := range d.Amenities {
		if selected[amenity] {
			options = append(options, AmenityOption{Name: amenity, Checked: true})
			delete(selected, amenity)
		}
	}
	return options
}

type ListData struct {
	BusinessID string
	IsHotel    bool
	Services   []models.Service
	Error      string
}

type CardData struct {
	BusinessID string
	IsHotel    bool
	Service    models.Service
}

func (l ListData) Cards() []CardData {
	cards := make([]CardData, len(l.Services))
	for i, service := range l.Services {
		cards[i] = CardData{BusinessID: l.BusinessID, IsHotel: l.IsHotel, Service: service}
	}
	return cards
}

type FormData struct {
	BusinessID string
	IsHotel    bool
	Token      string
	Draft      Draft
	Error      string
	Saved      string
	BedTypes   []string
}

func NewFormData(businessID string, isHotel bool, token string, draft Draft) FormData {
	return FormData{BusinessID: businessID, IsHotel: isHotel, Token: token, Draft: draft, BedTypes: models.BedTypes}
}

type EditData struct {
	BusinessID string
	ServiceID  string
	IsHotel    bool
	Token      string
	Draft      Draft
	Error      string
	BedTypes   []string
}

func NewEditData(businessID string, isHotel bool, service models.Service, token string) EditData {
	return EditData{
		BusinessID: businessID,
		ServiceID:  service.ID,
		IsHotel:    isHotel,
		Token:      token,
		Draft:      DraftFromService(service),
		BedTypes:   models.BedTypes,
	}
}

type PageData struct {
	Header  businesses.HeaderData
	IsHotel bool
	List    ListData
	Form    FormData
}

func Page(data PageData) templ.Component {
	return templates.Component("services/page", data)
}

func List(data ListData) templ.Component {
	return templates.Component("services/list", data)
}

func Card(data CardData) templ.Component {
	return templates.Component("services/card", data)
}

func Edit(data EditData) templ.Component {
	return templates.Component("services/edit", data)
}

func Form(data FormData) templ.Component {
	return templates.Component("services/form", data)
}
