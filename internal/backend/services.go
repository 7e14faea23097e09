package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func servicePath(businessID, serviceID string) string {
	return businessPath(businessID) + "/services/" + url.PathEscape(serviceID)
}

func (c *Client) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	var services []models.Service
	if err := c.do(ctx, "list_services", http.MethodGet, businessPath(businessID)+"/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) CreateService(ctx context.Context, businessID string, input models.ServiceInput) (*models.Service, error) {
	var service models.Service
	if err := c.do(ctx, "create_service", http.MethodPost, businessPath(businessID)+"/services", input, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) UpdateService(ctx context.Context, businessID, serviceID string, input models.ServiceInput) (*models.Service, error) {
	var service models.Service
	if err := c.do(ctx, "update_service", http.MethodPatch, servicePath(businessID, serviceID), input, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) DeleteService(ctx context.Context, businessID, serviceID string) error {
	return c.do(ctx, "delete_service", http.MethodDelete, servicePath(businessID, serviceID), nil, nil)
}
