package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/service"
)

// ============================================================
// Auth & session
// ============================================================

func authLoginHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validateRequest(&req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		pair, err := svc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

func authLogoutHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		if err := svc.Logout(ctx); err != nil {
			// Local state is already cleared; the stale upstream session is
			// the platform's problem now.
			logger.Warn("upstream logout failed", zap.Error(err))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authRegisterHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/register")
		defer span.End()

		var req domain.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validateRequest(&req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		profile, err := svc.Register(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

func sessionStatusHandler(svc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	}
}

func profileHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/auth/profile")
		defer span.End()

		profile, err := svc.Profile(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// maxUploadBytes bounds image uploads at 8 MiB.
const maxUploadBytes = 8 << 20

func uploadImageHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/uploads/image")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		resp, err := svc.UploadImage(ctx, header.Filename, file)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
