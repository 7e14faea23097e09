package backend

import (
	"context"
	"net/http"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func (c *Client) ListBookings(ctx context.Context, businessID string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, "list_bookings", http.MethodGet, businessPath(businessID)+"/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
