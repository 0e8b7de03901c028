package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/ledger"
)

// IntegrityCheck recomputes every member's balances from the transaction
// log and compares them with the stored values. A consistent ledger has
// zero mismatches.
func (s *SamityService) IntegrityCheck(ctx context.Context) (*domain.IntegrityReport, error) {
	ctx, span := tracer.Start(ctx, "SamityService.IntegrityCheck")
	defer span.End()

	members, err := s.store.ListMembers(ctx, true)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.IntegrityReport{MembersChecked: len(members), Consistent: true}
	for _, m := range members {
		recomputed := ledger.Recompute(m, txs)
		if recomputed.TotalSavings == m.TotalSavings &&
			recomputed.CurrentLoanPrincipal == m.CurrentLoanPrincipal {
			continue
		}
		report.Consistent = false
		report.Mismatches = append(report.Mismatches, domain.BalanceMismatch{
			MemberID:            m.ID,
			StoredSavings:       m.TotalSavings,
			RecomputedSavings:   recomputed.TotalSavings,
			StoredPrincipal:     m.CurrentLoanPrincipal,
			RecomputedPrincipal: recomputed.CurrentLoanPrincipal,
		})
	}

	if !report.Consistent {
		s.logger.Error("ledger integrity check failed",
			zap.Int("mismatches", len(report.Mismatches)),
		)
	}
	return report, nil
}
