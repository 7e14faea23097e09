package faqs

import (
	"github.com/a-h/templ"

	"github.com/frontdesk-hq/frontdesk/internal/models"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
	"github.com/frontdesk-hq/frontdesk/internal/templates/components/businesses"
)

type Draft struct {
	Question string
	Answer   string
	Keywords string
}

type ListData struct {
	BusinessID string
	FAQs       []models.FAQ
	Error      string
}

type FormData struct {
	BusinessID string
	Token      string
	Draft      Draft
	Error      string
	Saved      string
}

type ImportData struct {
	BusinessID string
	Token      string
	Error      string
	Saved      string
	MaxSizeKB  int64
}

type PageData struct {
	Header businesses.HeaderData
	List   ListData
	Form   FormData
	Import ImportData
}

func Page(data PageData) templ.Component {
	return templates.Component("faqs/page", data)
}

func List(data ListData) templ.Component {
	return templates.Component("faqs/list", data)
}

func Form(data FormData) templ.Component {
	return templates.Component("faqs/form", data)
}

func Import(data ImportData) templ.Component {
	return templates.Component("faqs/import", data)
}
