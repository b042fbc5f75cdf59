package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/onboarding"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Onboarding wizard
// ============================================================

type startOnboardingRequest struct {
	Mode     onboarding.Mode `json:"mode"`
	ClientID string          `json:"client_id,omitempty"`
	// Facilities toggles the optional third step.
	Facilities bool `json:"facilities"`
}

func startOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding")
		defer span.End()

		var req startOnboardingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		variant := onboarding.TwoStep
		if req.Facilities {
			variant = onboarding.ThreeStep
		}

		switch req.Mode {
		case onboarding.ModeEdit:
			if req.ClientID == "" {
				writeError(w, http.StatusBadRequest, "client_id is required in edit mode")
				return
			}
			span.SetAttributes(attribute.String("client.id", req.ClientID))
			id, wiz, err := svc.StartEdit(ctx, variant, req.ClientID)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeWizard(w, http.StatusCreated, id, wiz)
		case onboarding.ModeCreate, "":
			id, wiz := svc.StartCreate(variant)
			writeWizard(w, http.StatusCreated, id, wiz)
		default:
			writeError(w, http.StatusBadRequest, "mode must be create or edit")
		}
	}
}

func getOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		wiz, err := svc.Get(id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

// nextStepRequest carries the form values of the step being submitted.
// Omitted sections leave the stored values untouched.
type nextStepRequest struct {
	Business   *onboarding.BusinessForm  `json:"business,omitempty"`
	Locations  []onboarding.LocationForm `json:"locations,omitempty"`
	Facilities []onboarding.FacilityForm `json:"facilities,omitempty"`
}

func onboardingNextHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/{sessionId}/next")
		defer span.End()

		id := chi.URLParam(r, "sessionId")

		// An empty body resubmits the stored forms; EOF is how the decoder
		// reports one, including for chunked requests with no length.
		var req nextStepRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if _, err := svc.UpdateForms(id, req.Business, req.Locations, req.Facilities); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		wiz, err := svc.Next(ctx, id)
		if err != nil {
			handleWizardError(w, id, wiz, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

func onboardingBackHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		wiz, err := svc.Back(id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

func onboardingAddRowHandler(svc *service.OnboardingService, step string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")

		var wiz *onboarding.Wizard
		var err error
		if step == "locations" {
			wiz, err = svc.AddLocation(id)
		} else {
			wiz, err = svc.AddFacility(id)
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

func onboardingRemoveRowHandler(svc *service.OnboardingService, step string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 {
			writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
			return
		}

		var wiz *onboarding.Wizard
		if step == "locations" {
			wiz, err = svc.RemoveLocation(id, index)
		} else {
			wiz, err = svc.RemoveFacility(id, index)
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

// onboardingClearErrorHandler drops a single field error, keyed by the
// ?field= query parameter since error keys contain brackets and dots.
func onboardingClearErrorHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		field := r.URL.Query().Get("field")
		if field == "" {
			writeError(w, http.StatusBadRequest, "field is required")
			return
		}

		wiz, err := svc.ClearFieldError(id, field)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWizard(w, http.StatusOK, id, wiz)
	}
}

func onboardingAbandonHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		if err := svc.Abandon(id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
