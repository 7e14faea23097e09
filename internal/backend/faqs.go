package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func (c *Client) ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error) {
	var faqs []models.FAQ
	if err := c.do(ctx, "list_faqs", http.MethodGet, businessPath(businessID)+"/faqs", nil, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

func (c *Client) CreateFAQ(ctx context.Context, businessID string, input models.FAQInput) (*models.FAQ, error) {
	if input.Keywords == nil {
		input.Keywords = []string{}
	}
	var faq models.FAQ
	if err := c.do(ctx, "create_faq", http.MethodPost, businessPath(businessID)+"/faqs", input, &faq); err != nil {
		return nil, err
	}
	return &faq, nil
}

// DeleteFAQ removes an FAQ. FAQ ids are global, so no business id is needed.
func (c *Client) DeleteFAQ(ctx context.Context, faqID string) error {
	return c.do(ctx, "delete_faq", http.MethodDelete, "/api/faqs/"+url.PathEscape(faqID), nil, nil)
}

// ImportFAQs uploads a CSV (question, answer, keywords columns) or a plain
// text file of Q:/A:/K: blocks. The API picks the parser from the filename.
func (c *Client) ImportFAQs(ctx context.Context, businessID, filename string, content io.Reader) ([]models.FAQ, error) {
	const op = "import_faqs"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Op: op, Message: genericMessage, Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &Error{Op: op, Message: "Could not read the uploaded file", Err: fmt.Errorf("copy upload: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Op: op, Message: genericMessage, Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	var faqs []models.FAQ
	if err := c.send(ctx, op, http.MethodPost, businessPath(businessID)+"/faqs/import", &buf, writer.FormDataContentType(), &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}
