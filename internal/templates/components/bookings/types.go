package bookings

import (
	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/listfilter"
	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
	"github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
)

type TableData struct {
	BusinessID string
	IsHotel    bool
	Bookings   []models.Booking
	Counts     []listfilter.Count
	Status     string
	Query      string
	Total      int
	Error      string
}

type PageData struct {
	Header businesses.HeaderData
	Table  TableData
}

func Page(data PageData) templ.Component {
	return templates.Component("bookings/page", data)
}

func Table(data TableData) templ.Component {
	return templates.Component("bookings/table", data)
}
