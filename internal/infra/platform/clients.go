package platform

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// ListClients fetches all business clients.
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListClients")
	defer span.End()

	var clients []domain.Client
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClient fetches one business client by ID.
func (c *Client) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "Platform.GetClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	var client domain.Client
	if err := c.do(ctx, http.MethodGet, "/clients/"+id, nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient patches a business client's profile fields.
func (c *Client) UpdateClient(ctx context.Context, id string, update *domain.Client) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "Platform.UpdateClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	var client domain.Client
	if err := c.do(ctx, http.MethodPatch, "/clients/"+id, update, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// ApproveClient moves a pending client to approved.
func (c *Client) ApproveClient(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Platform.ApproveClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	return c.do(ctx, http.MethodPost, "/clients/"+id+"/approve", nil, nil)
}

// RejectClient rejects a pending client with an operator-supplied reason.
func (c *Client) RejectClient(ctx context.Context, id, reason string) error {
	ctx, span := tracer.Start(ctx, "Platform.RejectClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	return c.do(ctx, http.MethodPost, "/clients/"+id+"/reject", &domain.ClientActionRequest{Reason: reason}, nil)
}

// SuspendClient suspends an active client with a reason.
func (c *Client) SuspendClient(ctx context.Context, id, reason string) error {
	ctx, span := tracer.Start(ctx, "Platform.SuspendClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	return c.do(ctx, http.MethodPost, "/clients/"+id+"/suspend", &domain.ClientActionRequest{Reason: reason}, nil)
}

// ActivateClient reactivates a suspended or approved client.
func (c *Client) ActivateClient(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Platform.ActivateClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id))

	return c.do(ctx, http.MethodPost, "/clients/"+id+"/activate", nil, nil)
}

// ClientStatistics fetches the aggregate counts for the dashboard landing view.
func (c *Client) ClientStatistics(ctx context.Context) (*domain.ClientStatistics, error) {
	ctx, span := tracer.Start(ctx, "Platform.ClientStatistics")
	defer span.End()

	var stats domain.ClientStatistics
	if err := c.do(ctx, http.MethodGet, "/clients/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
