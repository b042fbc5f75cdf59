package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Bookings
// ============================================================

func listBookingsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings")
		defer span.End()

		bookings, err := svc.ListBookings(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
	}
}

func createBookingHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings")
		defer span.End()

		var b domain.Booking
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if b.LocationID == "" {
			writeError(w, http.StatusBadRequest, "location_id is required")
			return
		}
		if !b.EndsAt.After(b.StartsAt) {
			writeError(w, http.StatusBadRequest, "ends_at must be after starts_at")
			return
		}

		created, err := svc.CreateBooking(ctx, &b)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
