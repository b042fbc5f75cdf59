package platform

import (
	"context"
	"net/http"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// ListBookings fetches all bookings visible to the session.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListBookings")
	defer span.End()

	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking creates one booking.
func (c *Client) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Platform.CreateBooking")
	defer span.End()

	var created domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", b, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
