package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
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
	var unknownMember *domain.ErrUnknownMember
	var invalidAmount *domain.ErrInvalidAmount
	var overRepayment *domain.ErrOverRepayment
	var validation *domain.ErrValidation
	var store *domain.ErrStore

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unknownMember):
		logger.Debug("unknown member", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidAmount):
		logger.Debug("invalid amount", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &overRepayment):
		logger.Warn("over-repayment rejected",
			zap.Float64("outstanding", overRepayment.Outstanding),
			zap.Float64("requested", overRepayment.Requested),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &store):
		logger.Error("store failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		logger.Error("unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
