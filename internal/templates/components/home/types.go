package home

import (
	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
)

type Stats struct {
	Total       int
	Active      int
	Hotels      int
	Restaurants int
	Hostels     int
}

type PageData struct {
	Stats      Stats
	Businesses []models.Business
	Error      string
}

func NewStats(businesses []models.Business) Stats {
	stats := Stats{Total: len(businesses)}
	for _, business := range businesses {
		if business.IsActive {
			stats.Active++
		}
		switch business.Type {
		case models.BusinessTypeHotel:
			stats.Hotels++
		case models.BusinessTypeRestaurant:
			stats.Restaurants++
		case models.BusinessTypeHostel:
			stats.Hostels++
		}
	}
	return stats
}

func Page(data PageData) templ.Component {
	return templates.Component("home/page", data)
}

func StatsPanel(data PageData) templ.Component {
	return templates.Component("home/stats", data)
}
