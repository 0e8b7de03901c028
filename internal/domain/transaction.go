package domain

import "time"

// TransactionType is the closed set of ledger entry kinds.
type TransactionType string

const (
	Deposit       TransactionType = "Deposit"
	LoanTaken     TransactionType = "LoanTaken"
	LoanRepayment TransactionType = "LoanRepayment"
	InterestPaid  TransactionType = "InterestPaid"
)

// ValidType reports whether t is one of the four known transaction kinds.
func ValidType(t TransactionType) bool {
	switch t {
	case Deposit, LoanTaken, LoanRepayment, InterestPaid:
		return true
	}
	return false
}

// Transaction is one immutable, append-only ledger entry. MemberID is a
// weak reference: the transaction never owns its member, and members
// referenced by any transaction are soft-deleted rather than removed.
type Transaction struct {
	ID       string          `json:"id" gorm:"primaryKey;size:64"`
	MemberID string          `json:"member_id" gorm:"size:64;index;not null"`
	Date     time.Time       `json:"date" gorm:"index"`
	Type     TransactionType `json:"type" gorm:"size:16;not null"`
	Amount   float64         `json:"amount" gorm:"not null"`
	Note     string          `json:"note,omitempty" gorm:"size:255"`
}

// OrgStats is the organization-wide fold over the full transaction log:
// cash on hand in the shared fund and total interest revenue.
type OrgStats struct {
	OrgBalance          float64 `json:"org_balance"`
	TotalInterestEarned float64 `json:"total_interest_earned"`
}

// LoanCycleSummary summarizes activity since the member's most recent
// LoanTaken event. The boundary is deliberately the latest loan: taking a
// second loan before clearing the first merges principal and re-scopes the
// summary to the newer start date.
type LoanCycleSummary struct {
	StartDate            time.Time `json:"start_date"`
	RepaymentCount       int       `json:"repayment_count"`
	TotalPrincipalRepaid float64   `json:"total_principal_repaid"`
	TotalInterestPaid    float64   `json:"total_interest_paid"`
}
