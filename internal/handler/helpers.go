package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/onboarding"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var forbidden *domain.ErrForbidden
	var precondition *domain.ErrPrecondition
	var requestFailed *domain.ErrRequestFailed
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &precondition):
		logger.Debug("precondition not met", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &requestFailed):
		logger.Warn("upstream rejected request",
			zap.Int("status", requestFailed.Status),
			zap.String("message", requestFailed.Message),
		)
		writeError(w, requestFailed.Status, requestFailed.Message)
	case errors.As(err, &external):
		logger.Error("upstream failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// wizardResponse is the wire shape of a wizard session. The step count lets
// the frontend render the progress indicator without knowing the variant
// rules.
type wizardResponse struct {
	SessionID string             `json:"session_id"`
	Wizard    *onboarding.Wizard `json:"wizard"`
	Steps     int                `json:"steps"`
}

func writeWizard(w http.ResponseWriter, status int, sessionID string, wiz *onboarding.Wizard) {
	writeJSON(w, status, wizardResponse{
		SessionID: sessionID,
		Wizard:    wiz,
		Steps:     int(wiz.Variant),
	})
}

// handleWizardError writes the wizard state for expected step failures
// (validation, preconditions, upstream rejections) so the frontend renders
// the errors in place, and falls back to the generic mapping otherwise.
func handleWizardError(w http.ResponseWriter, sessionID string, wiz *onboarding.Wizard, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var precondition *domain.ErrPrecondition

	switch {
	case errors.As(err, &validation):
		writeWizard(w, http.StatusUnprocessableEntity, sessionID, wiz)
	case errors.As(err, &precondition):
		writeWizard(w, http.StatusConflict, sessionID, wiz)
	default:
		if wiz != nil && wiz.StepError != "" {
			logger.Warn("wizard step failed upstream", zap.String("error", err.Error()))
			writeWizard(w, http.StatusBadGateway, sessionID, wiz)
			return
		}
		handleServiceError(w, err, logger)
	}
}
