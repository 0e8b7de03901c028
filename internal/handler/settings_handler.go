package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/service"
)

// ============================================================
// Settings & Admin Handlers
// ============================================================

func getSettingsHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/settings")
		defer span.End()

		settings, err := svc.GetSettings(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func updateSettingsHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/settings")
		defer span.End()

		var req domain.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		settings, err := svc.UpdateSettings(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func resetHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/reset")
		defer span.End()

		if err := svc.Reset(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}
