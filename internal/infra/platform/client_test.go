package platform_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/infra/platform"
	"github.com/venuedesk/admin-bff-go/internal/infra/resilience"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

func newTestClient(t *testing.T, upstream *httptest.Server, tokens session.TokenStore) *platform.Client {
	t.Helper()
	return platform.NewClient(
		&http.Client{Timeout: 5 * time.Second},
		upstream.URL,
		tokens,
		resilience.NewCircuitBreaker("test", zap.NewNop()),
		resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxConcurrency: 10},
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func TestDo_RefreshAndRetryOnce(t *testing.T) {
	var bookingCalls, refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var req domain.RefreshRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.RefreshToken != "old-refresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(domain.TokenPair{
				AccessToken:  "new-access",
				RefreshToken: "new-refresh",
			})
		case "/bookings":
			atomic.AddInt32(&bookingCalls, 1)
			if bearerOf(r) != "new-access" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
				return
			}
			_ = json.NewEncoder(w).Encode([]domain.Booking{{ID: "b1"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "old-access", RefreshToken: "old-refresh"})
	c := newTestClient(t, srv, tokens)

	bookings, err := c.ListBookings(context.Background())
	if err != nil {
		t.Fatalf("expected success after refresh, got %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "b1" {
		t.Errorf("unexpected bookings: %v", bookings)
	}

	if got := atomic.LoadInt32(&bookingCalls); got != 2 {
		t.Errorf("expected exactly 2 booking calls (original + one retry), got %d", got)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", got)
	}

	pair := tokens.Get()
	if pair.AccessToken != "new-access" || pair.RefreshToken != "new-refresh" {
		t.Errorf("expected rotated pair persisted, got %+v", pair)
	}
}

func TestDo_RefreshFailureClearsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "refresh token revoked"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "session expired"})
		}
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "stale", RefreshToken: "revoked"})
	c := newTestClient(t, srv, tokens)

	_, err := c.ListBookings(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %T: %v", err, err)
	}
	// The original 401's message surfaces, not the refresh failure.
	if unauthorized.Message != "session expired" {
		t.Errorf("expected original 401 message, got %q", unauthorized.Message)
	}

	if got := tokens.Get(); got.AccessToken != "" || got.RefreshToken != "" {
		t.Errorf("expected both tokens cleared, got %+v", got)
	}
}

func TestDo_LoginNeverTriggersRefresh(t *testing.T) {
	var refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			_ = json.NewEncoder(w).Encode(domain.TokenPair{AccessToken: "x"})
		case "/auth/login":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
		}
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "a", RefreshToken: "r"})
	c := newTestClient(t, srv, tokens)

	_, err := c.Login(context.Background(), &domain.LoginRequest{Email: "a@b.co", Password: "nope"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Error("login 401 must not trigger a refresh attempt")
	}
}

func TestDo_NoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawHeader atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawHeader.Store(true)
		}
		_ = json.NewEncoder(w).Encode([]domain.Booking{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, session.NewMemoryStore())

	if _, err := c.ListBookings(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawHeader.Load() {
		t.Error("no stored access token must mean no Authorization header")
	}
}

func TestUploadImage_MultipartContentType(t *testing.T) {
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.UploadResponse{URL: "https://cdn.example/i.png"})
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "tok"})
	c := newTestClient(t, srv, tokens)

	resp, err := c.UploadImage(context.Background(), "i.png", strings.NewReader("pngbytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.URL == "" {
		t.Error("expected upload URL")
	}

	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Errorf("expected multipart content type with boundary, got %q", contentType)
	}
	if strings.Contains(contentType, "application/json") {
		t.Error("multipart upload must not carry a JSON content type")
	}
}

func TestDo_NoContentYieldsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "tok"})
	c := newTestClient(t, srv, tokens)

	if err := c.ApproveClient(context.Background(), "c1"); err != nil {
		t.Fatalf("204 must be success, got %v", err)
	}
}

func TestDo_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"city is required"}`, "city is required"},
		{"error field", `{"error":"nope"}`, "nope"},
		{"garbage body", `<html>boom</html>`, "Request failed"},
		{"empty body", ``, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tokens := session.NewMemoryStore()
			tokens.Set(session.Tokens{AccessToken: "tok"})
			c := newTestClient(t, srv, tokens)

			_, err := c.CreateBooking(context.Background(), &domain.Booking{})
			var failed *domain.ErrRequestFailed
			if !errors.As(err, &failed) {
				t.Fatalf("expected ErrRequestFailed, got %T: %v", err, err)
			}
			if failed.Message != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, failed.Message)
			}
		})
	}
}

func TestRefresh_ConcurrentCallersShareOneFlight(t *testing.T) {
	var refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(30 * time.Millisecond) // hold the flight open
			_ = json.NewEncoder(w).Encode(domain.TokenPair{
				AccessToken:  "new-access",
				RefreshToken: "new-refresh",
			})
		case "/bookings":
			if bearerOf(r) != "new-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]domain.Booking{})
		}
	}))
	defer srv.Close()

	tokens := session.NewMemoryStore()
	tokens.Set(session.Tokens{AccessToken: "old-access", RefreshToken: "old-refresh"})
	c := newTestClient(t, srv, tokens)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.ListBookings(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: unexpected error: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected a single shared refresh call, got %d", got)
	}
}
