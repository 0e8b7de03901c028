// Package service provides the business logic layer (use cases).
// SamityService is the single façade over the ledger: member management,
// transaction recording, derived views and settings.
package service

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/infra/observability"
	"github.com/samity/samity-ledger-go/internal/port"
)

var tracer = otel.Tracer("service/samity")

const dashboardCacheKey = "dashboard"

// SamityService orchestrates all ledger operations via the store.
type SamityService struct {
	store   port.Store
	cache   port.Cache[*domain.Dashboard]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New creates the samity service.
func New(store port.Store, cache port.Cache[*domain.Dashboard], metrics *observability.Metrics, logger *zap.Logger) *SamityService {
	return &SamityService{store: store, cache: cache, metrics: metrics, logger: logger}
}

// invalidate drops every cached derived view. Called after any mutation so
// dashboards and statements never serve stale balances.
func (s *SamityService) invalidate() {
	s.cache.Purge()
}

// observe records the outcome of an operation: the success/error request
// counters plus the store failure counter when persistence broke.
func (s *SamityService) observe(op string, err error) {
	if err == nil {
		s.metrics.IncrRequest("success")
		return
	}
	s.metrics.IncrRequest("error")
	var storeErr *domain.ErrStore
	if errors.As(err, &storeErr) {
		s.metrics.IncrStoreError(op)
	}
}
