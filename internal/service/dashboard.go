package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/ledger"
)

// Dashboard derives the organization-wide view: the fold over the full
// transaction log plus member-held totals. The result is cached briefly;
// any mutation purges the cache.
func (s *SamityService) Dashboard(ctx context.Context) (d *domain.Dashboard, err error) {
	ctx, span := tracer.Start(ctx, "SamityService.Dashboard")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard", time.Since(start))
		s.observe("dashboard", err)
	}()

	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		s.metrics.IncrCacheHit("dashboard")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("dashboard")

	var (
		members []domain.Member
		txs     []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.store.ListMembers(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d = &domain.Dashboard{
		OrgStats:     ledger.OrganizationStats(txs),
		MemberTotals: ledger.MemberTotals(members),
	}
	s.cache.Set(dashboardCacheKey, d)
	return d, nil
}
