package platform

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// ListLocations fetches locations, optionally scoped to one client.
func (c *Client) ListLocations(ctx context.Context, clientID string) ([]domain.Location, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListLocations")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", clientID))

	path := "/locations"
	if clientID != "" {
		q := url.Values{}
		q.Set("clientId", clientID)
		path += "?" + q.Encode()
	}

	var locations []domain.Location
	if err := c.do(ctx, http.MethodGet, path, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation creates one location under its client.
func (c *Client) CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	ctx, span := tracer.Start(ctx, "Platform.CreateLocation")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", loc.ClientID))

	var created domain.Location
	if err := c.do(ctx, http.MethodPost, "/locations", loc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListGamingCenters fetches the gaming-center locations of a client.
func (c *Client) ListGamingCenters(ctx context.Context, clientID string) ([]domain.Location, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListGamingCenters")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", clientID))

	path := "/gaming"
	if clientID != "" {
		q := url.Values{}
		q.Set("clientId", clientID)
		path += "?" + q.Encode()
	}

	var centers []domain.Location
	if err := c.do(ctx, http.MethodGet, path, nil, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}
