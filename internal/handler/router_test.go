package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/handler"
	"github.com/venuedesk/admin-bff-go/internal/infra/cache"
	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/service"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

func newTestRouter(t *testing.T, tokens session.TokenStore) http.Handler {
	t.Helper()

	profiles := cache.New[*domain.UserProfile](time.Minute)
	t.Cleanup(profiles.Close)

	sessionSvc := service.NewSessionService(nil, tokens, profiles, zap.NewNop())
	return handler.NewRouter(sessionSvc, nil, nil, observability.NewMetrics(), zap.NewNop())
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequestCounterFeedsOpsSnapshot(t *testing.T) {
	profiles := cache.New[*domain.UserProfile](time.Minute)
	t.Cleanup(profiles.Close)

	metrics := observability.NewMetrics()
	sessionSvc := service.NewSessionService(nil, session.NewMemoryStore(), profiles, zap.NewNop())
	router := handler.NewRouter(sessionSvc, nil, nil, metrics, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	snap := metrics.Snapshot()
	if snap.TotalRequests == 0 {
		t.Error("expected the request counter to advance after a handled request")
	}
	if snap.ErrorRate != 0 {
		t.Errorf("expected a zero error rate for a 200 response, got %f", snap.ErrorRate)
	}
}

func TestGuardedRouteWithoutSession(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", rec.Code)
	}
}

func TestSessionStatusIsPublic(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status domain.SessionStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Authenticated {
		t.Error("expected unauthenticated status")
	}
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(t, session.NewMemoryStore())

	body := strings.NewReader(`{"email":"not-an-email","password":""}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an invalid login payload, got %d", rec.Code)
	}
}
