// Package ledger is the pure derivation engine: it converts the
// append-only transaction log into per-member balances, organization-wide
// statistics and loan-cycle summaries. Functions here have no side
// effects and touch no storage; the same input always yields the same
// output.
package ledger

import (
	"math"

	"github.com/samity/samity-ledger-go/internal/domain"
)

// Apply returns the member with tx's balance effect applied.
//
//	Deposit       → totalSavings += amount
//	LoanTaken     → currentLoanPrincipal += amount
//	LoanRepayment → currentLoanPrincipal = max(0, principal - amount)
//	InterestPaid  → no balance change (interest is organization revenue)
//
// Over-repayment is rejected at the validation boundary before a
// transaction is ever recorded; the clamp to zero here is a last line of
// defense for the non-negativity invariant, not the primary enforcement.
func Apply(m domain.Member, tx domain.Transaction) (domain.Member, error) {
	if tx.Amount <= 0 {
		return m, &domain.ErrInvalidAmount{Amount: tx.Amount}
	}
	if tx.MemberID != m.ID {
		return m, &domain.ErrUnknownMember{MemberID: tx.MemberID}
	}

	switch tx.Type {
	case domain.Deposit:
		m.TotalSavings += tx.Amount
	case domain.LoanTaken:
		m.CurrentLoanPrincipal += tx.Amount
	case domain.LoanRepayment:
		m.CurrentLoanPrincipal = math.Max(0, m.CurrentLoanPrincipal-tx.Amount)
	case domain.InterestPaid:
		// revenue for the group; neither member balance moves
	default:
		return m, &domain.ErrValidation{Field: "type", Message: "unknown transaction type"}
	}
	return m, nil
}

// OrganizationStats folds the full transaction log into the shared fund's
// cash position and total interest revenue. The fold is order-independent:
// only sums are involved.
func OrganizationStats(txs []domain.Transaction) domain.OrgStats {
	var stats domain.OrgStats
	for _, t := range txs {
		switch t.Type {
		case domain.Deposit:
			stats.OrgBalance += t.Amount
		case domain.InterestPaid:
			stats.OrgBalance += t.Amount
			stats.TotalInterestEarned += t.Amount
		case domain.LoanTaken:
			stats.OrgBalance -= t.Amount
		case domain.LoanRepayment:
			stats.OrgBalance += t.Amount
		}
	}
	return stats
}

// MemberTotals sums member-held balances and counts active members.
// Soft-deleted members keep their balances but do not count as active.
func MemberTotals(members []domain.Member) domain.MemberTotals {
	var totals domain.MemberTotals
	for _, m := range members {
		if m.IsActive {
			totals.ActiveMembers++
		}
		totals.TotalSavings += m.TotalSavings
		totals.TotalLoansOutstanding += m.CurrentLoanPrincipal
	}
	return totals
}

// LoanCycleSummary identifies the member's current loan cycle, the period
// since their most recent LoanTaken, and summarizes repayments and
// interest within it. Returns nil when the member has no outstanding
// principal, or when no LoanTaken exists despite a nonzero principal
// (inconsistent state is treated as "no displayable cycle").
//
// The latest-LoanTaken boundary means a second loan taken before the first
// is cleared re-scopes the summary and drops earlier repayment history
// from the view; the running principal itself stays correct.
func LoanCycleSummary(m domain.Member, txs []domain.Transaction) *domain.LoanCycleSummary {
	if m.CurrentLoanPrincipal == 0 {
		return nil
	}

	var latest *domain.Transaction
	for i := range txs {
		t := &txs[i]
		if t.MemberID != m.ID || t.Type != domain.LoanTaken {
			continue
		}
		if latest == nil || t.Date.After(latest.Date) {
			latest = t
		}
	}
	if latest == nil {
		return nil
	}

	summary := &domain.LoanCycleSummary{StartDate: latest.Date}
	for _, t := range txs {
		if t.MemberID != m.ID || t.Date.Before(latest.Date) {
			continue
		}
		switch t.Type {
		case domain.LoanRepayment:
			summary.RepaymentCount++
			summary.TotalPrincipalRepaid += t.Amount
		case domain.InterestPaid:
			summary.TotalInterestPaid += t.Amount
		}
	}
	return summary
}

// EstimatedInterestDue is the monthly interest owed on the member's
// outstanding principal: round(principal * rate / 100).
func EstimatedInterestDue(m domain.Member, s domain.Settings) float64 {
	return math.Round(m.CurrentLoanPrincipal * s.InterestRate / 100)
}

// Recompute folds the member's full transaction history from zero
// balances. The stored balance fields are a materialized cache of exactly
// this fold; Recompute exists for integrity checks, not the hot path.
func Recompute(m domain.Member, txs []domain.Transaction) domain.Member {
	m.TotalSavings = 0
	m.CurrentLoanPrincipal = 0
	for _, t := range txs {
		if t.MemberID != m.ID {
			continue
		}
		// Errors cannot occur here: recorded transactions already passed
		// validation, and the member id matches by construction.
		m, _ = Apply(m, t)
	}
	return m
}
