package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Clients (businesses)
// ============================================================

func listClientsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/clients")
		defer span.End()

		clients, err := svc.ListClients(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if clients == nil {
			clients = []domain.Client{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
	}
}

func getClientHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/clients/{clientId}")
		defer span.End()

		clientID := chi.URLParam(r, "clientId")
		span.SetAttributes(attribute.String("client.id", clientID))

		client, err := svc.GetClient(ctx, clientID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, client)
	}
}

func updateClientHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/clients/{clientId}")
		defer span.End()

		clientID := chi.URLParam(r, "clientId")
		span.SetAttributes(attribute.String("client.id", clientID))

		var update domain.Client
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		client, err := svc.UpdateClient(ctx, clientID, &update)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, client)
	}
}

func clientStatisticsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/clients/statistics")
		defer span.End()

		stats, err := svc.ClientStatistics(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// clientActionHandler serves the four status transitions. Reject and
// suspend read the reason from the body; approve and activate take none.
func clientActionHandler(svc *service.DashboardService, action string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/clients/{clientId}/"+action)
		defer span.End()

		clientID := chi.URLParam(r, "clientId")
		span.SetAttributes(attribute.String("client.id", clientID))

		var err error
		switch action {
		case "approve":
			err = svc.ApproveClient(ctx, clientID)
		case "activate":
			err = svc.ActivateClient(ctx, clientID)
		case "reject", "suspend":
			var req domain.ClientActionRequest
			if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if action == "reject" {
				err = svc.RejectClient(ctx, clientID, req.Reason)
			} else {
				err = svc.SuspendClient(ctx, clientID, req.Reason)
			}
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
