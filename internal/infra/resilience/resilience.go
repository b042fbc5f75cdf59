// Package resilience wraps calls to the booking platform backend with
// fault-tolerance primitives: bounded retry, a circuit breaker, and a
// bulkhead capping in-flight upstream requests.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Config carries the retry and concurrency limits the platform client
// applies to upstream calls.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

// maxBackoff caps the exponential growth so a flapping backend cannot
// stretch a dashboard request into multi-second waits per attempt.
const maxBackoff = 5 * time.Second

// RetryWithBackoff runs fn up to MaxRetries+1 times with doubled, jittered
// waits in between. It is reserved for transport-level failures; HTTP
// statuses are resolved above it so the platform client's single-refresh
// recovery stays the only status-driven retry.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := backoff + time.Duration(rand.Int63n(int64(backoff/2)+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return lastErr
}

// NewCircuitBreaker guards the platform backend. It trips at a 60% failure
// ratio over at least 5 calls, probes with 3 requests after 10s open, and
// logs every state change so an outage is visible before the first 503.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Bulkhead caps concurrent upstream requests so a slow backend cannot
// absorb every handler goroutine.
type Bulkhead struct {
	sem *semaphore.Weighted
}

// NewBulkhead creates a bulkhead admitting at most maxConcurrency callers.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	return &Bulkhead{sem: semaphore.NewWeighted(int64(maxConcurrency))}
}

// Acquire blocks until a slot frees up or ctx is done.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

// Release returns the caller's slot.
func (b *Bulkhead) Release() {
	b.sem.Release(1)
}
