package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/config"
	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/handler"
	"github.com/venuedesk/admin-bff-go/internal/infra/cache"
	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/infra/platform"
	"github.com/venuedesk/admin-bff-go/internal/infra/resilience"
	"github.com/venuedesk/admin-bff-go/internal/onboarding"
	"github.com/venuedesk/admin-bff-go/internal/service"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("platform_api_url", cfg.PlatformAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("wizard_session_ttl", cfg.WizardSessionTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "venuedesk-admin-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	profileCache := cache.New[*domain.UserProfile](cfg.CacheTTL)
	statsCache := cache.New[*domain.ClientStatistics](cfg.CacheTTL)
	wizardSessions := cache.New[*onboarding.Wizard](cfg.WizardSessionTTL)
	defer profileCache.Close()
	defer statsCache.Close()
	defer wizardSessions.Close()

	// --- Session store ---
	var tokens session.TokenStore
	if cfg.TokenStorePath != "" {
		tokens = session.NewFileStore(cfg.TokenStorePath)
		logger.Info("using file-backed session store", zap.String("path", cfg.TokenStorePath))
	} else {
		tokens = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("booking-platform", logger)

	// --- Platform client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := platform.NewClient(httpClient, cfg.PlatformAPIURL, tokens, cb, resilienceCfg, metrics, logger)

	// --- Services ---
	sessionSvc := service.NewSessionService(api, tokens, profileCache, logger)
	dashSvc := service.NewDashboardService(api, statsCache, metrics, logger)
	onbSvc := service.NewOnboardingService(api, api, api, wizardSessions, cfg.WizardSessionTTL, logger)

	// --- Router ---
	router := handler.NewRouter(sessionSvc, dashSvc, onbSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
