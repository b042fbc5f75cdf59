// Package platform provides the authenticated client for the booking
// platform REST backend. It owns credential attachment, the
// single-refresh-then-retry recovery on 401, and the typed resource
// operations the dashboard consumes.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/infra/resilience"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

var tracer = otel.Tracer("platform")

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"

	contentTypeJSON = "application/json"

	// fallbackErrMessage is used when a non-2xx body carries no parsable
	// message field.
	fallbackErrMessage = "Request failed"
)

// Client wraps HTTP calls to the booking platform API. Token state lives in
// the injected session.TokenStore; the client itself is stateless apart
// from it and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     session.TokenStore
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger

	// refreshGroup collapses concurrent refresh attempts into one upstream
	// call. Unlike the browser dashboard this client serves overlapping
	// requests, so the read-modify-write of the token pair needs real
	// coordination.
	refreshGroup singleflight.Group
}

// NewClient creates a platform client.
func NewClient(httpClient *http.Client, baseURL string, tokens session.TokenStore, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// formPayload is a prepared multipart body. Its content type carries the
// boundary and must reach the wire untouched; do never adds a JSON content
// type on top of it.
type formPayload struct {
	contentType string
	data        []byte
}

// do executes one logical call against the backend: marshal, attach
// credentials, send, recover once from 401 via refresh, decode.
// out may be nil for calls whose response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	contentType := ""

	switch b := body.(type) {
	case nil:
	case *formPayload:
		payload = b.data
		contentType = b.contentType
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = raw
		contentType = contentTypeJSON
	}

	tok := c.tokens.Get()
	status, respBody, err := c.send(ctx, method, path, contentType, payload, tok.AccessToken)
	if err != nil {
		return c.external(path, err)
	}

	// A 401 on anything but the login/refresh endpoints gets exactly one
	// recovery attempt, and only when a refresh token exists.
	if status == http.StatusUnauthorized && !isRefreshExempt(path) && tok.RefreshToken != "" {
		if rerr := c.refresh(ctx, tok.AccessToken); rerr != nil {
			// Recovery failed: drop both credentials and surface the
			// original unauthorized outcome, not the refresh error.
			c.tokens.Clear()
			c.logger.Warn("platform: token refresh failed, credentials cleared",
				zap.String("path", path),
				zap.Error(rerr),
			)
			return &domain.ErrUnauthorized{Message: errorMessage(respBody)}
		}

		tok = c.tokens.Get()
		status, respBody, err = c.send(ctx, method, path, contentType, payload, tok.AccessToken)
		if err != nil {
			return c.external(path, err)
		}
	}

	if status == http.StatusNoContent {
		return nil
	}

	if status < 200 || status >= 300 {
		msg := errorMessage(respBody)
		c.logger.Warn("platform: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
		switch status {
		case http.StatusUnauthorized:
			return &domain.ErrUnauthorized{Message: msg}
		case http.StatusForbidden:
			return &domain.ErrForbidden{Message: msg}
		case http.StatusNotFound:
			return &domain.ErrNotFound{Resource: path, ID: ""}
		default:
			return &domain.ErrRequestFailed{Status: status, Message: msg}
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// send issues a single HTTP request through bulkhead and circuit breaker.
// Transport failures on GETs are retried with backoff; HTTP statuses are
// never retried here so the 401 recovery above stays the only retry path.
func (c *Client) send(ctx context.Context, method, path, contentType string, payload []byte, bearer string) (int, []byte, error) {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return 0, nil, err
	}
	defer c.bulkhead.Release()

	var status int
	var respBody []byte

	attempt := func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		result, err := c.cb.Execute(func() (any, error) {
			return c.httpClient.Do(req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return &domain.ErrCircuitOpen{Service: "platform"}
			}
			return err
		}

		resp := result.(*http.Response)
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		status = resp.StatusCode
		respBody = b
		return nil
	}

	var err error
	if method == http.MethodGet {
		err = resilience.RetryWithBackoff(ctx, c.cfg, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		return 0, nil, err
	}

	c.logger.Debug("platform: request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
	return status, respBody, nil
}

// refresh exchanges the stored refresh token for a new pair. Concurrent
// callers share one upstream call; the winner persists the pair before the
// others observe the result. staleAccess is the token that earned the 401:
// when the store already holds a different one, another caller finished the
// rotation and no upstream call is needed.
func (c *Client) refresh(ctx context.Context, staleAccess string) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		cur := c.tokens.Get()
		if cur.AccessToken != "" && cur.AccessToken != staleAccess {
			return nil, nil
		}
		if cur.RefreshToken == "" {
			return nil, &domain.ErrUnauthorized{Message: "no refresh token"}
		}

		raw, err := json.Marshal(domain.RefreshRequest{RefreshToken: cur.RefreshToken})
		if err != nil {
			return nil, err
		}

		status, respBody, err := c.send(ctx, http.MethodPost, refreshPath, contentTypeJSON, raw, "")
		if err != nil {
			c.metrics.IncrTokenRefresh("failure")
			return nil, err
		}
		if status < 200 || status >= 300 {
			c.metrics.IncrTokenRefresh("failure")
			return nil, &domain.ErrUnauthorized{Message: errorMessage(respBody)}
		}

		var pair domain.TokenPair
		if err := json.Unmarshal(respBody, &pair); err != nil {
			c.metrics.IncrTokenRefresh("failure")
			return nil, fmt.Errorf("decode refresh response: %w", err)
		}
		if pair.AccessToken == "" {
			c.metrics.IncrTokenRefresh("failure")
			return nil, &domain.ErrUnauthorized{Message: "refresh returned no access token"}
		}

		next := session.Tokens{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}
		// Backends that do not rotate keep the old refresh token valid.
		if next.RefreshToken == "" {
			next.RefreshToken = cur.RefreshToken
		}
		c.tokens.Set(next)

		c.metrics.IncrTokenRefresh("success")
		c.logger.Info("platform: access token refreshed")
		return nil, nil
	})
	return err
}

// isRefreshExempt reports whether a 401 on this path must never trigger a
// refresh attempt. Login failing is a credentials problem; refresh failing
// recursively would loop.
func isRefreshExempt(path string) bool {
	return path == loginPath || path == refreshPath
}

// errorMessage pulls a human-readable message out of a JSON error body.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return fallbackErrMessage
	}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallbackErrMessage
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	return fallbackErrMessage
}

// external wraps transport-level failures; typed domain errors pass through.
func (c *Client) external(path string, err error) error {
	var circuitOpen *domain.ErrCircuitOpen
	if errors.As(err, &circuitOpen) {
		return err
	}
	c.metrics.IncrUpstreamError(resourceOf(path))
	return &domain.ErrExternalService{Service: "platform" + path, Err: err}
}

// resourceOf reduces a request path to its first segment so metric labels
// stay low-cardinality (no entity IDs).
func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(trimmed, "/?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
