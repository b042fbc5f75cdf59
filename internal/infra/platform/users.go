package platform

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// ListUsers fetches all platform users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListUsers")
	defer span.End()

	var users []domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Platform.GetUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	var user domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserModules sets a user's enabled dashboard modules.
func (c *Client) UpdateUserModules(ctx context.Context, id string, modules []domain.ModuleID) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Platform.UpdateUserModules")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	var user domain.UserProfile
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/modules", &domain.UpdateModulesRequest{Modules: modules}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
