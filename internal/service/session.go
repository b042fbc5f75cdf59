// Package service implements the dashboard-facing use cases on top of the
// platform ports: session handling, resource views, and the onboarding
// wizard lifecycle.
package service

import (
	"context"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/port"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

var tracer = otel.Tracer("service")

const profileCacheKey = "me"

// SessionService orchestrates login, logout, and session introspection.
type SessionService struct {
	api          port.SessionAPI
	tokens       session.TokenStore
	profileCache port.Cache[*domain.UserProfile]
	logger       *zap.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(api port.SessionAPI, tokens session.TokenStore, profileCache port.Cache[*domain.UserProfile], logger *zap.Logger) *SessionService {
	return &SessionService{
		api:          api,
		tokens:       tokens,
		profileCache: profileCache,
		logger:       logger,
	}
}

// Login authenticates against the platform. The client persists the token
// pair; this layer only invalidates the cached profile of any previous user.
func (s *SessionService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Login")
	defer span.End()

	s.profileCache.Delete(profileCacheKey)

	pair, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("operator logged in")
	return pair, nil
}

// Logout revokes the session and drops all local session state.
func (s *SessionService) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "SessionService.Logout")
	defer span.End()

	s.profileCache.Delete(profileCacheKey)
	return s.api.Logout(ctx)
}

// Register creates an end-user account upstream.
func (s *SessionService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Register")
	defer span.End()

	return s.api.Register(ctx, req)
}

// Profile returns the authenticated user's profile, cached between calls.
func (s *SessionService) Profile(ctx context.Context) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Profile")
	defer span.End()

	if cached, ok := s.profileCache.Get(profileCacheKey); ok {
		return cached, nil
	}

	profile, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.profileCache.Set(profileCacheKey, profile)
	return profile, nil
}

// UploadImage forwards a multipart upload to the platform.
func (s *SessionService) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.UploadImage")
	defer span.End()

	return s.api.UploadImage(ctx, filename, r)
}

// HasSession reports whether an access token is stored at all. The guard
// middleware uses this; expiry is left to the platform client, which
// refreshes transparently on 401.
func (s *SessionService) HasSession() bool {
	return s.tokens.Get().AccessToken != ""
}

// Status inspects the stored access token without verifying its signature
// (the upstream platform holds the signing key). Used by the session
// widget to show who is logged in and when the token lapses.
func (s *SessionService) Status() *domain.SessionStatus {
	tok := s.tokens.Get()
	if tok.AccessToken == "" {
		return &domain.SessionStatus{Authenticated: false}
	}

	status := &domain.SessionStatus{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, claims); err != nil {
		s.logger.Debug("session: access token is not a parsable JWT", zap.Error(err))
		return status
	}

	if sub, err := claims.GetSubject(); err == nil {
		status.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		status.ExpiresAt = &t
		status.Expired = t.Before(time.Now())
	}
	return status
}
