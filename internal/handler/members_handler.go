package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/service"
)

// ============================================================
// Member Handlers
// ============================================================

func listMembersHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/members")
		defer span.End()

		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		query := r.URL.Query().Get("q")

		members, err := svc.ListMembers(ctx, includeInactive, query)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

func createMemberHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/members")
		defer span.End()

		var req domain.MemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		m, err := svc.CreateMember(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func getMemberStatementHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/members/{memberId}")
		defer span.End()

		statement, err := svc.GetMemberStatement(ctx, chi.URLParam(r, "memberId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, statement)
	}
}

func updateMemberHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/members/{memberId}")
		defer span.End()

		var req domain.MemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		m, err := svc.UpdateMember(ctx, chi.URLParam(r, "memberId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func deleteMemberHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/members/{memberId}")
		defer span.End()

		if err := svc.DeleteMember(ctx, chi.URLParam(r, "memberId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func bulkDeleteMembersHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/members/bulk-delete")
		defer span.End()

		var req domain.BulkDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		n, err := svc.BulkDeleteMembers(ctx, req.MemberIDs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
	}
}

func loanCycleHandler(svc *service.SamityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/members/{memberId}/loan-cycle")
		defer span.End()

		cycle, err := svc.GetLoanCycle(ctx, chi.URLParam(r, "memberId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if cycle == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, cycle)
	}
}
