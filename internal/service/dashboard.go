package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/port"
)

const statsCacheKey = "statistics"

// DashboardService exposes the admin dashboard's resource views. Most
// operations pass through to the platform; client statistics are cached
// because the overview widget polls them aggressively.
type DashboardService struct {
	clients    port.ClientsAPI
	locations  port.LocationsAPI
	facilities port.FacilitiesAPI
	bookings   port.BookingsAPI
	users      port.UsersAPI
	sessions   port.SessionAPI
	statsCache port.Cache[*domain.ClientStatistics]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	api port.PlatformAPI,
	statsCache port.Cache[*domain.ClientStatistics],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		clients:    api,
		locations:  api,
		facilities: api,
		bookings:   api,
		users:      api,
		sessions:   api,
		statsCache: statsCache,
		metrics:    metrics,
		logger:     logger,
	}
}

// observe records the duration of an operation for the metrics endpoint.
func (s *DashboardService) observe(operation string, start time.Time) {
	s.metrics.RecordRequestDuration(operation, time.Since(start))
}

// ListClients returns all business clients.
func (s *DashboardService) ListClients(ctx context.Context) ([]domain.Client, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListClients")
	defer span.End()
	defer s.observe("list_clients", time.Now())

	return s.clients.ListClients(ctx)
}

// GetClient returns a single business client.
func (s *DashboardService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetClient")
	defer span.End()

	return s.clients.GetClient(ctx, id)
}

// UpdateClient applies a partial update to a client.
func (s *DashboardService) UpdateClient(ctx context.Context, id string, update *domain.Client) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.UpdateClient")
	defer span.End()

	s.statsCache.Delete(statsCacheKey)
	return s.clients.UpdateClient(ctx, id, update)
}

// ApproveClient moves a pending client to approved.
func (s *DashboardService) ApproveClient(ctx context.Context, id string) error {
	return s.clientAction(ctx, "approve", id, func(ctx context.Context) error {
		return s.clients.ApproveClient(ctx, id)
	})
}

// RejectClient rejects a pending client with an operator-supplied reason.
func (s *DashboardService) RejectClient(ctx context.Context, id, reason string) error {
	if reason == "" {
		return &domain.ErrValidation{Field: "reason", Message: "a reason is required to reject a client"}
	}
	return s.clientAction(ctx, "reject", id, func(ctx context.Context) error {
		return s.clients.RejectClient(ctx, id, reason)
	})
}

// SuspendClient suspends an active client with an operator-supplied reason.
func (s *DashboardService) SuspendClient(ctx context.Context, id, reason string) error {
	if reason == "" {
		return &domain.ErrValidation{Field: "reason", Message: "a reason is required to suspend a client"}
	}
	return s.clientAction(ctx, "suspend", id, func(ctx context.Context) error {
		return s.clients.SuspendClient(ctx, id, reason)
	})
}

// ActivateClient reactivates a suspended client.
func (s *DashboardService) ActivateClient(ctx context.Context, id string) error {
	return s.clientAction(ctx, "activate", id, func(ctx context.Context) error {
		return s.clients.ActivateClient(ctx, id)
	})
}

func (s *DashboardService) clientAction(ctx context.Context, action, id string, call func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "DashboardService.ClientAction."+action)
	defer span.End()

	if err := call(ctx); err != nil {
		return err
	}

	// Status transitions shift the pending/active counts.
	s.statsCache.Delete(statsCacheKey)
	s.logger.Info("client status changed",
		zap.String("action", action),
		zap.String("client_id", id),
	)
	return nil
}

// ClientStatistics returns aggregate client counts for the overview widget,
// served from cache when fresh.
func (s *DashboardService) ClientStatistics(ctx context.Context) (*domain.ClientStatistics, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ClientStatistics")
	defer span.End()
	defer s.observe("client_statistics", time.Now())

	if cached, ok := s.statsCache.Get(statsCacheKey); ok {
		s.metrics.IncrCacheHit(statsCacheKey)
		return cached, nil
	}
	s.metrics.IncrCacheMiss(statsCacheKey)

	stats, err := s.clients.ClientStatistics(ctx)
	if err != nil {
		return nil, err
	}
	s.statsCache.Set(statsCacheKey, stats)
	return stats, nil
}

// ListLocations returns locations, optionally filtered to one client.
func (s *DashboardService) ListLocations(ctx context.Context, clientID string) ([]domain.Location, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListLocations")
	defer span.End()
	defer s.observe("list_locations", time.Now())

	return s.locations.ListLocations(ctx, clientID)
}

// CreateLocation creates a location for a client.
func (s *DashboardService) CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.CreateLocation")
	defer span.End()

	return s.locations.CreateLocation(ctx, loc)
}

// ListGamingCenters returns the locations flagged as gaming centers.
func (s *DashboardService) ListGamingCenters(ctx context.Context, clientID string) ([]domain.Location, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListGamingCenters")
	defer span.End()

	return s.locations.ListGamingCenters(ctx, clientID)
}

// ListFacilities returns facilities matching the filter.
func (s *DashboardService) ListFacilities(ctx context.Context, filter domain.FacilityFilter) ([]domain.Facility, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListFacilities")
	defer span.End()
	defer s.observe("list_facilities", time.Now())

	return s.facilities.ListFacilities(ctx, filter)
}

// CreateFacility creates a facility at a location.
func (s *DashboardService) CreateFacility(ctx context.Context, f *domain.Facility) (*domain.Facility, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.CreateFacility")
	defer span.End()

	return s.facilities.CreateFacility(ctx, f)
}

// ListBookings returns all bookings visible to the operator.
func (s *DashboardService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListBookings")
	defer span.End()
	defer s.observe("list_bookings", time.Now())

	return s.bookings.ListBookings(ctx)
}

// CreateBooking creates a booking on behalf of a user.
func (s *DashboardService) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.CreateBooking")
	defer span.End()

	return s.bookings.CreateBooking(ctx, b)
}

// ListUsers returns all platform users.
func (s *DashboardService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.ListUsers")
	defer span.End()
	defer s.observe("list_users", time.Now())

	return s.users.ListUsers(ctx)
}

// GetUser returns a single platform user.
func (s *DashboardService) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetUser")
	defer span.End()

	return s.users.GetUser(ctx, id)
}

// UpdateUserModules sets the dashboard modules enabled for a user.
func (s *DashboardService) UpdateUserModules(ctx context.Context, id string, modules []domain.ModuleID) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.UpdateUserModules")
	defer span.End()

	for _, m := range modules {
		if !m.Valid() {
			return nil, &domain.ErrValidation{Field: "modules", Message: "unknown module: " + string(m)}
		}
	}
	return s.users.UpdateUserModules(ctx, id, modules)
}

// VisibleModules resolves which dashboard modules the current operator
// sees, from their profile's explicit module list or their role default.
func (s *DashboardService) VisibleModules(ctx context.Context) ([]domain.ModuleID, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.VisibleModules")
	defer span.End()

	profile, err := s.sessions.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ResolveVisibleModules(profile.Role, profile.Modules), nil
}

// OpsMetrics returns the counter snapshot for the ops widget.
func (s *DashboardService) OpsMetrics() *domain.OpsMetrics {
	return s.metrics.Snapshot()
}
