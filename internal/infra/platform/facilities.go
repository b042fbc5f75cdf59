package platform

import (
	"context"
	"net/http"
	"net/url"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// ListFacilities fetches facilities matching the filter. Empty filter
// fields are omitted from the query string entirely.
func (c *Client) ListFacilities(ctx context.Context, filter domain.FacilityFilter) ([]domain.Facility, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListFacilities")
	defer span.End()

	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	if filter.LocationID != "" {
		q.Set("location_id", filter.LocationID)
	}

	path := "/facilities"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var facilities []domain.Facility
	if err := c.do(ctx, http.MethodGet, path, nil, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

// CreateFacility creates one facility under its location.
func (c *Client) CreateFacility(ctx context.Context, f *domain.Facility) (*domain.Facility, error) {
	ctx, span := tracer.Start(ctx, "Platform.CreateFacility")
	defer span.End()

	var created domain.Facility
	if err := c.do(ctx, http.MethodPost, "/facilities", f, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
