package businesses

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/listfilter"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/nav"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
)

const (
	DefaultOpensAt  = "08:00"
	DefaultClosesAt = "22:00"
)

type ListData struct {
	Businesses []models.Business
	Counts     []listfilter.Count
	Type       string
	Query      string
	Error      string
}

// Draft is the create form as typed. It is re-rendered unchanged when a
// submission fails.
type Draft struct {
	Name                string
	Type                string
	Location            string
	Phone               string
	TelegramGroupID     string
	Timezone            string
	SlotDurationMinutes string
	OpensAt             string
	ClosesAt            string
}

func EmptyDraft() Draft {
	return Draft{
		Type:                string(models.BusinessTypeHotel),
		Timezone:            models.DefaultTimezone,
		SlotDurationMinutes: "30",
		OpensAt:             DefaultOpensAt,
		ClosesAt:            DefaultClosesAt,
	}
}

type FormData struct {
	Token string
	Draft Draft
	Types []models.BusinessType
	Error string
}

func NewFormData(token string, draft Draft, errMsg string) FormData {
	return FormData{Token: token, Draft: draft, Types: models.BusinessTypes, Error: errMsg}
}

type HeaderData struct {
	Business models.Business
	Tabs     []nav.Item
}

type OverviewStats struct {
	Services       int
	ActiveServices int
	FAQs           int
	Bookings       int
	Pending        int
	Confirmed      int
	Completed      int
}

type OverviewData struct {
	Header         HeaderData
	Stats          OverviewStats
	RecentBookings []models.Booking
	Warnings       []string
}

// NewOverviewStats counts what the overview shows. Nil collections, which
// stand in for failed fetches, count as zero.
func NewOverviewStats(services []models.Service, faqs []models.FAQ, bookings []models.Booking) OverviewStats {
	stats := OverviewStats{
		Services:  len(services),
		FAQs:      len(faqs),
		Bookings:  len(bookings),
		Pending:   models.CountBookingsWithStatus(bookings, models.BookingStatusPending),
		Confirmed: models.CountBookingsWithStatus(bookings, models.BookingStatusConfirmed),
		Completed: models.CountBookingsWithStatus(bookings, models.BookingStatusCompleted),
	}
	for _, service := range services {
		if service.IsActive {
			stats.ActiveServices++
		}
	}
	return stats
}

type DayHours struct {
	Key   string
	Label string
	Open  string
	Close string
}

// SettingsForm holds the settings draft. The bot token is write-only: the
// form never echoes it and a blank submission keeps the stored token.
type SettingsForm struct {
	BusinessID          string
	Token               string
	Name                string
	Location            string
	Phone               string
	Timezone            string
	SlotDurationMinutes string
	TelegramGroupID     string
	HasBotToken         bool
	IsHotel             bool
	Days                []DayHours
	Error               string
	Saved               bool
}

func NewSettingsForm(business models.Business, token string) SettingsForm {
	form := SettingsForm{
		BusinessID:      business.ID,
		Token:           token,
		Name:            business.Name,
		Location:        models.StringValue(business.Location),
		Phone:           models.StringValue(business.Phone),
		Timezone:        business.Timezone,
		TelegramGroupID: models.StringValue(business.TelegramGroupID),
		HasBotToken:     models.StringValue(business.TelegramBotToken) != "",
		IsHotel:         business.Type == models.BusinessTypeHotel,
		Days:            make([]DayHours, 0, len(models.DayKeys)),
	}
	if form.Timezone == "" {
		form.Timezone = models.DefaultTimezone
	}
	if business.SlotDurationMinutes > 0 {
		form.SlotDurationMinutes = strconv.Itoa(business.SlotDurationMinutes)
	}
	for _, day := range models.DayKeys {
		open, closing := business.WorkingHours.Day(day, DefaultOpensAt, DefaultClosesAt)
		form.Days = append(form.Days, DayHours{Key: day, Label: models.DayLabel(day), Open: open, Close: closing})
	}
	return form
}

type SettingsData struct {
	Header HeaderData
	Form   SettingsForm
}

func Page(data ListData) templ.Component {
	return templates.Component("businesses/page", data)
}

func List(data ListData) templ.Component {
	return templates.Component("businesses/list", data)
}

func NewPage(data FormData) templ.Component {
	return templates.Component("businesses/new", data)
}

func Form(data FormData) templ.Component {
	return templates.Component("businesses/form", data)
}

func Header(data HeaderData) templ.Component {
	return templates.Component("businesses/header", data)
}

func Overview(data OverviewData) templ.Component {
	return templates.Component("businesses/overview", data)
}

func Settings(data SettingsData) templ.Component {
	return templates.Component("businesses/settings", data)
}

func SettingsFormComponent(data SettingsForm) templ.Component {
	return templates.Component("businesses/settings_form", data)
}

// ServicesLabel names the catalog tab after what the business sells.
func ServicesLabel(businessType models.BusinessType) string {
	if businessType == models.BusinessTypeHotel {
		return "Rooms"
	}
	return "Services"
}

func NewHeaderData(business models.Business, currentPath string) HeaderData {
	return HeaderData{
		Business: business,
		Tabs:     nav.BusinessTabs(business.ID, currentPath, ServicesLabel(business.Type)),
	}
}
