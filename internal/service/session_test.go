package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/cache"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

type mockSessionAPI struct {
	loginFn      func(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error)
	logoutFn     func(ctx context.Context) error
	profileFn    func(ctx context.Context) (*domain.UserProfile, error)
	profileCalls int
}

func (m *mockSessionAPI) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return &domain.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
}

func (m *mockSessionAPI) Logout(ctx context.Context) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx)
	}
	return nil
}

func (m *mockSessionAPI) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserProfile, error) {
	return &domain.UserProfile{ID: "u-new", Email: req.Email}, nil
}

func (m *mockSessionAPI) Profile(ctx context.Context) (*domain.UserProfile, error) {
	m.profileCalls++
	if m.profileFn != nil {
		return m.profileFn(ctx)
	}
	return &domain.UserProfile{ID: "u-1", Role: domain.RoleAdmin}, nil
}

func (m *mockSessionAPI) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error) {
	return &domain.UploadResponse{URL: "https://cdn/" + filename}, nil
}

func newSessionService(api *mockSessionAPI, tokens session.TokenStore) (*SessionService, *cache.InMemory[*domain.UserProfile]) {
	c := cache.New[*domain.UserProfile](time.Minute)
	return NewSessionService(api, tokens, c, zap.NewNop()), c
}

func TestProfile_CachedBetweenCalls(t *testing.T) {
	api := &mockSessionAPI{}
	svc, c := newSessionService(api, session.NewMemoryStore())
	defer c.Close()

	for i := 0; i < 3; i++ {
		if _, err := svc.Profile(context.Background()); err != nil {
			t.Fatalf("Profile: %v", err)
		}
	}
	if api.profileCalls != 1 {
		t.Errorf("expected 1 upstream profile call, got %d", api.profileCalls)
	}
}

func TestLogin_DropsCachedProfile(t *testing.T) {
	api := &mockSessionAPI{}
	svc, c := newSessionService(api, session.NewMemoryStore())
	defer c.Close()

	if _, err := svc.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if _, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "a@b.co", Password: "secret1"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if api.profileCalls != 2 {
		t.Errorf("login must invalidate the cached profile, got %d calls", api.profileCalls)
	}
}

func TestLogout_DropsCachedProfileEvenOnUpstreamError(t *testing.T) {
	api := &mockSessionAPI{
		logoutFn: func(ctx context.Context) error {
			return &domain.ErrExternalService{Service: "platform", Err: errors.New("boom")}
		},
	}
	svc, c := newSessionService(api, session.NewMemoryStore())
	defer c.Close()

	if _, err := svc.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if err := svc.Logout(context.Background()); err == nil {
		t.Fatal("expected logout error")
	}
	if _, err := svc.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if api.profileCalls != 2 {
		t.Errorf("logout must invalidate the cached profile, got %d calls", api.profileCalls)
	}
}

func TestStatus_NoToken(t *testing.T) {
	svc, c := newSessionService(&mockSessionAPI{}, session.NewMemoryStore())
	defer c.Close()

	status := svc.Status()
	if status.Authenticated {
		t.Error("expected unauthenticated status without a stored token")
	}
}

func TestStatus_ParsesClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: token})
	svc, c := newSessionService(&mockSessionAPI{}, tokens)
	defer c.Close()

	status := svc.Status()
	if !status.Authenticated {
		t.Fatal("expected authenticated status")
	}
	if status.Subject != "u-1" {
		t.Errorf("expected subject u-1, got %q", status.Subject)
	}
	if status.ExpiresAt == nil || !status.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, status.ExpiresAt)
	}
	if status.Expired {
		t.Error("token expires in an hour, must not be flagged expired")
	}
}

func TestStatus_OpaqueTokenStillAuthenticated(t *testing.T) {
	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "not-a-jwt"})
	svc, c := newSessionService(&mockSessionAPI{}, tokens)
	defer c.Close()

	status := svc.Status()
	if !status.Authenticated {
		t.Error("an unparsable token still counts as a session")
	}
	if status.ExpiresAt != nil {
		t.Error("no expiry can be read from an opaque token")
	}
}
