// Package handler exposes the admin dashboard HTTP API: session endpoints,
// resource views over the booking platform, and the onboarding wizard
// lifecycle.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/infra/observability"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the dashboard frontend.
func NewRouter(
	sessionSvc *service.SessionService,
	dashSvc *service.DashboardService,
	onbSvc *service.OnboardingService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Public: session establishment and introspection.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(sessionSvc, logger))
			r.Post("/register", authRegisterHandler(sessionSvc, logger))
			r.Get("/session", sessionStatusHandler(sessionSvc))

			r.Group(func(r chi.Router) {
				r.Use(SessionGuardMiddleware(sessionSvc, logger))
				r.Post("/logout", authLogoutHandler(sessionSvc, logger))
				r.Get("/profile", profileHandler(sessionSvc, logger))
			})
		})

		// Everything else requires a stored session.
		r.Group(func(r chi.Router) {
			r.Use(SessionGuardMiddleware(sessionSvc, logger))

			// Clients (businesses)
			r.Get("/clients", listClientsHandler(dashSvc, logger))
			r.Get("/clients/statistics", clientStatisticsHandler(dashSvc, logger))
			r.Get("/clients/{clientId}", getClientHandler(dashSvc, logger))
			r.Patch("/clients/{clientId}", updateClientHandler(dashSvc, logger))
			r.Post("/clients/{clientId}/approve", clientActionHandler(dashSvc, "approve", logger))
			r.Post("/clients/{clientId}/reject", clientActionHandler(dashSvc, "reject", logger))
			r.Post("/clients/{clientId}/suspend", clientActionHandler(dashSvc, "suspend", logger))
			r.Post("/clients/{clientId}/activate", clientActionHandler(dashSvc, "activate", logger))

			// Locations & gaming centers
			r.Get("/locations", listLocationsHandler(dashSvc, logger))
			r.Post("/locations", createLocationHandler(dashSvc, logger))
			r.Get("/gaming", listGamingCentersHandler(dashSvc, logger))

			// Facilities
			r.Get("/facilities", listFacilitiesHandler(dashSvc, logger))
			r.Post("/facilities", createFacilityHandler(dashSvc, logger))

			// Bookings
			r.Get("/bookings", listBookingsHandler(dashSvc, logger))
			r.Post("/bookings", createBookingHandler(dashSvc, logger))

			// Users & module visibility
			r.Get("/users", listUsersHandler(dashSvc, logger))
			r.Get("/users/{userId}", getUserHandler(dashSvc, logger))
			r.Patch("/users/{userId}/modules", updateUserModulesHandler(dashSvc, logger))
			r.Get("/modules", visibleModulesHandler(dashSvc, logger))

			// Uploads
			r.Post("/uploads/image", uploadImageHandler(sessionSvc, logger))

			// Ops widget
			r.Get("/ops/metrics", opsMetricsHandler(dashSvc))

			// Onboarding wizard
			r.Route("/onboarding", func(r chi.Router) {
				r.Post("/", startOnboardingHandler(onbSvc, logger))
				r.Route("/{sessionId}", func(r chi.Router) {
					r.Get("/", getOnboardingHandler(onbSvc, logger))
					r.Delete("/", onboardingAbandonHandler(onbSvc, logger))
					r.Post("/next", onboardingNextHandler(onbSvc, logger))
					r.Post("/back", onboardingBackHandler(onbSvc, logger))
					r.Post("/locations", onboardingAddRowHandler(onbSvc, "locations", logger))
					r.Delete("/locations/{index}", onboardingRemoveRowHandler(onbSvc, "locations", logger))
					r.Post("/facilities", onboardingAddRowHandler(onbSvc, "facilities", logger))
					r.Delete("/facilities/{index}", onboardingRemoveRowHandler(onbSvc, "facilities", logger))
					r.Delete("/errors", onboardingClearErrorHandler(onbSvc, logger))
				})
			})
		})
	})

	return r
}

// ============================================================
// Health & ops
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func opsMetricsHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.OpsMetrics())
	}
}
