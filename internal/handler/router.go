package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/infra/observability"
	"github.com/samity/samity-ledger-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.SamityService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Members
		r.Get("/members", listMembersHandler(svc, logger))
		r.Post("/members", createMemberHandler(svc, logger))
		r.Get("/members/{memberId}", getMemberStatementHandler(svc, logger))
		r.Put("/members/{memberId}", updateMemberHandler(svc, logger))
		r.Delete("/members/{memberId}", deleteMemberHandler(svc, logger))
		r.Post("/members/bulk-delete", bulkDeleteMembersHandler(svc, logger))
		r.Get("/members/{memberId}/loan-cycle", loanCycleHandler(svc, logger))

		// Transactions
		r.Get("/transactions", listTransactionsHandler(svc, logger))
		r.Post("/transactions", recordTransactionHandler(svc, logger))
		r.Post("/collections/monthly", monthlyCollectionHandler(svc, logger))

		// Settings & admin
		r.Get("/settings", getSettingsHandler(svc, logger))
		r.Put("/settings", updateSettingsHandler(svc, logger))
		r.Post("/reset", resetHandler(svc, logger))

		// Derived views
		r.Get("/dashboard", dashboardHandler(svc, logger))
		r.Get("/metrics/ledger", ledgerMetricsHandler(metrics))

		// Dev tools
		r.Get("/dev/integrity", integrityHandler(svc, logger))
	})

	return r
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(svc *service.SamityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "samity-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		_, err := svc.GetSettings(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			status = "degraded"
		}
		services = append(services, domain.ServiceHealth{
			Name: "store", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overall := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func ledgerMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetLedgerSnapshot())
	}
}
