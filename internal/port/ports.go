// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete platform client so tests can substitute mocks.
package port

import (
	"context"
	"io"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

// SessionAPI covers authentication against the booking platform.
type SessionAPI interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserProfile, error)
	Profile(ctx context.Context) (*domain.UserProfile, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error)
}

// ClientsAPI covers business-client administration.
type ClientsAPI interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, update *domain.Client) (*domain.Client, error)
	ApproveClient(ctx context.Context, id string) error
	RejectClient(ctx context.Context, id, reason string) error
	SuspendClient(ctx context.Context, id, reason string) error
	ActivateClient(ctx context.Context, id string) error
	ClientStatistics(ctx context.Context) (*domain.ClientStatistics, error)
}

// LocationsAPI covers location listings and creation.
type LocationsAPI interface {
	ListLocations(ctx context.Context, clientID string) ([]domain.Location, error)
	CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	ListGamingCenters(ctx context.Context, clientID string) ([]domain.Location, error)
}

// FacilitiesAPI covers facility listings and creation.
type FacilitiesAPI interface {
	ListFacilities(ctx context.Context, filter domain.FacilityFilter) ([]domain.Facility, error)
	CreateFacility(ctx context.Context, f *domain.Facility) (*domain.Facility, error)
}

// BookingsAPI covers booking listings and creation.
type BookingsAPI interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// UsersAPI covers platform user administration.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	GetUser(ctx context.Context, id string) (*domain.UserProfile, error)
	UpdateUserModules(ctx context.Context, id string, modules []domain.ModuleID) (*domain.UserProfile, error)
}

// RegisterClientAPI creates a business together with its admin user.
type RegisterClientAPI interface {
	RegisterClient(ctx context.Context, req *domain.RegisterClientRequest) (*domain.RegisterClientResponse, error)
}

// PlatformAPI is the full upstream surface, implemented by platform.Client.
type PlatformAPI interface {
	SessionAPI
	ClientsAPI
	LocationsAPI
	FacilitiesAPI
	BookingsAPI
	UsersAPI
	RegisterClientAPI
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
