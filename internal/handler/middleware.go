package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/service"
)

// SessionGuardMiddleware rejects requests when no platform session is
// stored. The guard only checks presence: an expired access token is
// handled downstream by the platform client's transparent refresh, and a
// dead refresh token surfaces as 401 from the upstream call itself.
func SessionGuardMiddleware(sessions *service.SessionService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.HasSession() {
				logger.Warn("request without a session",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "not logged in")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
