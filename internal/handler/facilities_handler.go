package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Facilities
// ============================================================

func listFacilitiesHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/facilities")
		defer span.End()

		q := r.URL.Query()
		filter := domain.FacilityFilter{
			Search:     q.Get("search"),
			Type:       domain.FacilityType(q.Get("type")),
			LocationID: q.Get("locationId"),
		}

		facilities, err := svc.ListFacilities(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if facilities == nil {
			facilities = []domain.Facility{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"facilities": facilities})
	}
}

func createFacilityHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/facilities")
		defer span.End()

		var f domain.Facility
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if f.LocationID == "" {
			writeError(w, http.StatusBadRequest, "location_id is required")
			return
		}
		if f.Status == "" {
			f.Status = domain.FacilityActive
		}

		created, err := svc.CreateFacility(ctx, &f)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
