package domain

import "time"

// ============================================================
// API request/response types (matches the frontend contract)
// ============================================================

// MemberRequest is the body for POST /v1/members and PUT /v1/members/{id}.
type MemberRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// MemberStatement is returned by GET /v1/members/{memberId}: the member,
// their transactions newest-first, and the current loan-cycle view.
type MemberStatement struct {
	Member               *Member           `json:"member"`
	Transactions         []Transaction     `json:"transactions"`
	LoanCycle            *LoanCycleSummary `json:"loan_cycle,omitempty"`
	EstimatedInterestDue float64           `json:"estimated_interest_due"`
}

// TransactionRequest is the body for POST /v1/transactions.
// Date is optional; the server stamps "now" when it is omitted.
type TransactionRequest struct {
	MemberID string          `json:"member_id"`
	Type     TransactionType `json:"type"`
	Amount   float64         `json:"amount"`
	Date     *time.Time      `json:"date,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// RecordResult is returned by POST /v1/transactions: the appended entry
// plus the member with refreshed balances.
type RecordResult struct {
	Transaction *Transaction `json:"transaction"`
	Member      *Member      `json:"member"`
}

// MonthlyCollectionRequest is the body for POST /v1/collections/monthly.
// Amount zero means "use settings.monthly_savings_amount".
type MonthlyCollectionRequest struct {
	MemberIDs []string `json:"member_ids"`
	Amount    float64  `json:"amount,omitempty"`
}

// MonthlyCollectionResult reports a completed bulk deposit run.
type MonthlyCollectionResult struct {
	Recorded     int           `json:"recorded"`
	Amount       float64       `json:"amount"`
	Date         time.Time     `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// BulkDeleteRequest is the body for POST /v1/members/bulk-delete.
type BulkDeleteRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// Dashboard is returned by GET /v1/dashboard: the transaction-log fold
// plus member-held totals, re-derived on every call (cached briefly).
type Dashboard struct {
	OrgStats
	MemberTotals
}

// IntegrityReport is returned by GET /v1/dev/integrity. A consistent
// ledger has zero mismatches: stored balances always equal the fold over
// the transaction log.
type IntegrityReport struct {
	MembersChecked int               `json:"members_checked"`
	Consistent     bool              `json:"consistent"`
	Mismatches     []BalanceMismatch `json:"mismatches,omitempty"`
}

// BalanceMismatch describes one member whose stored balances diverged
// from the recomputed fold.
type BalanceMismatch struct {
	MemberID            string  `json:"member_id"`
	StoredSavings       float64 `json:"stored_savings"`
	RecomputedSavings   float64 `json:"recomputed_savings"`
	StoredPrincipal     float64 `json:"stored_principal"`
	RecomputedPrincipal float64 `json:"recomputed_principal"`
}

// LedgerMetrics is returned by GET /v1/metrics/ledger.
type LedgerMetrics struct {
	TotalRequests        int64              `json:"total_requests"`
	ErrorRate            float64            `json:"error_rate"`
	CacheHitRate         float64            `json:"cache_hit_rate"`
	TransactionsRecorded map[string]float64 `json:"transactions_recorded"`
}

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}
