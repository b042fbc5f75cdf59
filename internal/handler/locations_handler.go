package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Locations
// ============================================================

func listLocationsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/locations")
		defer span.End()

		locations, err := svc.ListLocations(ctx, r.URL.Query().Get("clientId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if locations == nil {
			locations = []domain.Location{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
	}
}

func createLocationHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/locations")
		defer span.End()

		var loc domain.Location
		if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if loc.ClientID == "" {
			writeError(w, http.StatusBadRequest, "client_id is required")
			return
		}

		created, err := svc.CreateLocation(ctx, &loc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listGamingCentersHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gaming")
		defer span.End()

		centers, err := svc.ListGamingCenters(ctx, r.URL.Query().Get("clientId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if centers == nil {
			centers = []domain.Location{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"locations": centers})
	}
}
