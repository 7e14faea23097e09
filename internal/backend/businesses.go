package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func businessPath(businessID string) string {
	return "/api/businesses/" + url.PathEscape(businessID)
}

func (c *Client) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	var businesses []models.Business
	if err := c.do(ctx, "list_businesses", http.MethodGet, "/api/businesses", nil, &businesses); err != nil {
		return nil, err
	}
	return businesses, nil
}

func (c *Client) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	var business models.Business
	if err := c.do(ctx, "get_business", http.MethodGet, businessPath(businessID), nil, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

func (c *Client) CreateBusiness(ctx context.Context, input models.BusinessCreate) (*models.Business, error) {
	var business models.Business
	if err := c.do(ctx, "create_business", http.MethodPost, "/api/businesses", input, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

func (c *Client) UpdateBusiness(ctx context.Context, businessID string, input models.BusinessUpdate) (*models.Business, error) {
	var business models.Business
	if err := c.do(ctx, "update_business", http.MethodPatch, businessPath(businessID), input, &business); err != nil {
		return nil, err
	}
	return &business, nil
}
