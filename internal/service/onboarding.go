package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/cache"
	"github.com/venuedesk/admin-bff-go/internal/onboarding"
	"github.com/venuedesk/admin-bff-go/internal/port"
)

// OnboardingService owns live wizard sessions. Each session is a wizard
// state machine keyed by a generated id and kept in the session cache until
// it completes or its TTL lapses.
type OnboardingService struct {
	backend   onboarding.Backend
	clients   port.ClientsAPI
	locations port.LocationsAPI
	sessions  *cache.InMemory[*onboarding.Wizard]
	ttl       time.Duration
	logger    *zap.Logger

	// mu serializes wizard mutations. Sessions are operator-driven, so
	// contention is negligible; a single lock keeps the state machine simple.
	mu sync.Mutex
}

// NewOnboardingService creates an OnboardingService. ttl bounds how long an
// idle wizard survives between operator interactions.
func NewOnboardingService(
	backend onboarding.Backend,
	clients port.ClientsAPI,
	locations port.LocationsAPI,
	sessions *cache.InMemory[*onboarding.Wizard],
	ttl time.Duration,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		backend:   backend,
		clients:   clients,
		locations: locations,
		sessions:  sessions,
		ttl:       ttl,
		logger:    logger,
	}
}

// StartCreate opens a new create-mode wizard and returns its session id.
func (s *OnboardingService) StartCreate(variant onboarding.Variant) (string, *onboarding.Wizard) {
	w := onboarding.New(variant, s.backend, s.logger)
	id := uuid.NewString()
	s.sessions.SetWithTTL(id, w, s.ttl)
	s.logger.Info("onboarding session started",
		zap.String("session_id", id),
		zap.String("mode", string(onboarding.ModeCreate)),
	)
	return id, w
}

// StartEdit opens an edit-mode wizard anchored to an existing business,
// pre-filled from its current profile and locations.
func (s *OnboardingService) StartEdit(ctx context.Context, variant onboarding.Variant, clientID string) (string, *onboarding.Wizard, error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.StartEdit")
	defer span.End()

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return "", nil, err
	}
	existing, err := s.locations.ListLocations(ctx, clientID)
	if err != nil {
		return "", nil, err
	}

	w := onboarding.NewEdit(variant, client, existing, s.backend, s.logger)
	id := uuid.NewString()
	s.sessions.SetWithTTL(id, w, s.ttl)
	s.logger.Info("onboarding session started",
		zap.String("session_id", id),
		zap.String("mode", string(onboarding.ModeEdit)),
		zap.String("client_id", clientID),
	)
	return id, w, nil
}

// Get returns the wizard for a session id.
func (s *OnboardingService) Get(id string) (*onboarding.Wizard, error) {
	w, ok := s.sessions.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "onboarding session", ID: id}
	}
	return w, nil
}

// touch renews the session TTL after an interaction.
func (s *OnboardingService) touch(id string, w *onboarding.Wizard) {
	s.sessions.SetWithTTL(id, w, s.ttl)
}

// UpdateForms replaces the form values for the session. Nil arguments leave
// the corresponding forms untouched, so a step submission only carries its
// own fields.
func (s *OnboardingService) UpdateForms(id string, business *onboarding.BusinessForm, locations []onboarding.LocationForm, facilities []onboarding.FacilityForm) (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if business != nil {
		w.Business = *business
	}
	if locations != nil {
		w.Locations = locations
	}
	if facilities != nil {
		w.Facilities = facilities
	}
	s.touch(id, w)
	return w, nil
}

// Next submits the current step. The wizard itself reports validation and
// backend failures through its Errors and StepError fields; the returned
// error mirrors them for status mapping. The session is dropped once the
// flow reaches its final step.
func (s *OnboardingService) Next(ctx context.Context, id string) (*onboarding.Wizard, error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.Next")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	stepErr := w.Next(ctx)

	if w.Step == onboarding.StepDone {
		s.sessions.Delete(id)
		s.logger.Info("onboarding session completed",
			zap.String("session_id", id),
			zap.String("client_id", w.ClientID),
		)
	} else {
		s.touch(id, w)
	}
	return w, stepErr
}

// Back moves the session to the previous step.
func (s *OnboardingService) Back(id string) (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	w.Back()
	s.touch(id, w)
	return w, nil
}

// AddLocation appends an empty location row to the session.
func (s *OnboardingService) AddLocation(id string) (*onboarding.Wizard, error) {
	return s.mutate(id, func(w *onboarding.Wizard) { w.AddLocation() })
}

// RemoveLocation drops location row i from the session.
func (s *OnboardingService) RemoveLocation(id string, i int) (*onboarding.Wizard, error) {
	return s.mutate(id, func(w *onboarding.Wizard) { w.RemoveLocation(i) })
}

// AddFacility appends an empty facility row to the session.
func (s *OnboardingService) AddFacility(id string) (*onboarding.Wizard, error) {
	return s.mutate(id, func(w *onboarding.Wizard) { w.AddFacility() })
}

// RemoveFacility drops facility row i from the session.
func (s *OnboardingService) RemoveFacility(id string, i int) (*onboarding.Wizard, error) {
	return s.mutate(id, func(w *onboarding.Wizard) { w.RemoveFacility(i) })
}

// ClearFieldError drops one field's error from the session's display.
func (s *OnboardingService) ClearFieldError(id, key string) (*onboarding.Wizard, error) {
	return s.mutate(id, func(w *onboarding.Wizard) { w.ClearFieldError(key) })
}

// Abandon ends a session without completing it.
func (s *OnboardingService) Abandon(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Get(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	s.logger.Info("onboarding session abandoned", zap.String("session_id", id))
	return nil
}

func (s *OnboardingService) mutate(id string, fn func(*onboarding.Wizard)) (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	fn(w)
	s.touch(id, w)
	return w, nil
}
