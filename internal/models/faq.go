package models

type FAQ struct {
	ID         string   `json:"id"`
	BusinessID string   `json:"business_id,omitempty"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Keywords   []string `json:"keywords"`
}

type FAQInput struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}
