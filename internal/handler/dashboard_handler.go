package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/service"
)

// ============================================================
// Dashboard & Dev Tools Handlers
// ============================================================

func dashboardHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		d, err := svc.Dashboard(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func integrityHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dev/integrity")
		defer span.End()

		report, err := svc.IntegrityCheck(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
