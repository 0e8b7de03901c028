// Package domain defines the core business entities for the samity ledger.
// These models are independent of storage and transport and represent the
// canonical data structures used throughout the service.
package domain

import "time"

// Member represents one samity member. CurrentLoanPrincipal and
// TotalSavings are derived balances: they are a fold over the member's
// transaction log and change only through transaction application, never
// through direct edits.
type Member struct {
	ID                   string    `json:"id" gorm:"primaryKey;size:64"`
	Name                 string    `json:"name" gorm:"size:120;not null"`
	PhoneNumber          string    `json:"phone_number" gorm:"size:32;not null"`
	IsActive             bool      `json:"is_active"`
	CurrentLoanPrincipal float64   `json:"current_loan_principal"`
	TotalSavings         float64   `json:"total_savings"`
	JoinedDate           time.Time `json:"joined_date"`
}

// MemberTotals aggregates member-held balances for the dashboard.
type MemberTotals struct {
	ActiveMembers         int     `json:"active_members"`
	TotalSavings          float64 `json:"total_savings"`
	TotalLoansOutstanding float64 `json:"total_loans_outstanding"`
}
