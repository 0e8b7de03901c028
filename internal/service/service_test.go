package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/infra/cache"
	"github.com/samity/samity-ledger-go/internal/infra/memstore"
	"github.com/samity/samity-ledger-go/internal/infra/observability"
	"github.com/samity/samity-ledger-go/internal/service"
)

func newService(t *testing.T) (*service.SamityService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := service.New(
		store,
		cache.New[*domain.Dashboard](5*time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
	return svc, store
}

func createMember(t *testing.T, svc *service.SamityService, name string) *domain.Member {
	t.Helper()
	m, err := svc.CreateMember(context.Background(), domain.MemberRequest{
		Name:        name,
		PhoneNumber: "01712345678",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func deposit(t *testing.T, svc *service.SamityService, memberID string, amount float64) {
	t.Helper()
	_, err := svc.RecordTransaction(context.Background(), domain.TransactionRequest{
		MemberID: memberID,
		Type:     domain.Deposit,
		Amount:   amount,
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
}

func TestCreateMember(t *testing.T) {
	svc, _ := newService(t)

	m := createMember(t, svc, "Rahima")
	if m.ID == "" {
		t.Error("expected generated id")
	}
	if !m.IsActive {
		t.Error("expected new member to be active")
	}
	if m.TotalSavings != 0 || m.CurrentLoanPrincipal != 0 {
		t.Error("expected zero balances on a new member")
	}
}

func TestCreateMember_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.MemberRequest
	}{
		{"empty name", domain.MemberRequest{Name: "", PhoneNumber: "0170"}},
		{"whitespace name", domain.MemberRequest{Name: "   ", PhoneNumber: "0170"}},
		{"empty phone", domain.MemberRequest{Name: "Rahima", PhoneNumber: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMember(ctx, tc.req)
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateMember_DoesNotTouchBalances(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	m := createMember(t, svc, "Rahima")
	deposit(t, svc, m.ID, 500)

	updated, err := svc.UpdateMember(ctx, m.ID, domain.MemberRequest{
		Name:        "Rahima Begum",
		PhoneNumber: "01898765432",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Rahima Begum" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.TotalSavings != 500 {
		t.Errorf("expected savings preserved, got %.2f", updated.TotalSavings)
	}
}

func TestListMembers_Search(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	createMember(t, svc, "Rahima")
	createMember(t, svc, "Karim")
	createMember(t, svc, "Karima")

	got, err := svc.ListMembers(ctx, false, "karim")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for 'karim', got %d", len(got))
	}
}

func TestRecordTransaction_DepositAndLoan(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	res, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID,
		Type:     domain.LoanTaken,
		Amount:   3000,
	})
	if err != nil {
		t.Fatalf("loan: %v", err)
	}
	if res.Member.CurrentLoanPrincipal != 3000 {
		t.Errorf("expected principal 3000, got %.2f", res.Member.CurrentLoanPrincipal)
	}
	if res.Transaction.Date.IsZero() {
		t.Error("expected server-stamped date")
	}
}

func TestRecordTransaction_ExplicitDate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	when := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID,
		Type:     domain.Deposit,
		Amount:   100,
		Date:     &when,
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !res.Transaction.Date.Equal(when) {
		t.Errorf("expected date %v, got %v", when, res.Transaction.Date)
	}
}

func TestRecordTransaction_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	if _, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID, Type: domain.Deposit, Amount: 0,
	}); err == nil {
		t.Error("expected zero amount to be rejected")
	}

	if _, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID, Type: "Withdrawal", Amount: 100,
	}); err == nil {
		t.Error("expected unknown type to be rejected")
	}

	_, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: "ghost", Type: domain.Deposit, Amount: 100,
	})
	var unknown *domain.ErrUnknownMember
	if !errors.As(err, &unknown) {
		t.Errorf("expected ErrUnknownMember, got %v", err)
	}
}

func TestRecordTransaction_OverRepayment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	if _, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID, Type: domain.LoanTaken, Amount: 1000,
	}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	_, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID, Type: domain.LoanRepayment, Amount: 1500,
	})
	var over *domain.ErrOverRepayment
	if !errors.As(err, &over) {
		t.Fatalf("expected ErrOverRepayment, got %v", err)
	}

	// exact payoff is fine
	res, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: m.ID, Type: domain.LoanRepayment, Amount: 1000,
	})
	if err != nil {
		t.Fatalf("exact repayment: %v", err)
	}
	if res.Member.CurrentLoanPrincipal != 0 {
		t.Errorf("expected principal cleared, got %.2f", res.Member.CurrentLoanPrincipal)
	}
}

func TestListTransactions_Filters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createMember(t, svc, "Rahima")
	b := createMember(t, svc, "Karim")

	deposit(t, svc, a.ID, 100)
	deposit(t, svc, b.ID, 200)
	if _, err := svc.RecordTransaction(ctx, domain.TransactionRequest{
		MemberID: a.ID, Type: domain.LoanTaken, Amount: 1000,
	}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	byMember, err := svc.ListTransactions(ctx, a.ID, nil, 0)
	if err != nil {
		t.Fatalf("list by member: %v", err)
	}
	if len(byMember) != 2 {
		t.Errorf("expected 2 transactions for member a, got %d", len(byMember))
	}

	byType, err := svc.ListTransactions(ctx, "", []domain.TransactionType{domain.Deposit}, 0)
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(byType) != 2 {
		t.Errorf("expected 2 deposits, got %d", len(byType))
	}

	limited, err := svc.ListTransactions(ctx, "", nil, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Type != domain.LoanTaken {
		t.Errorf("expected the newest entry only, got %+v", limited)
	}

	if _, err := svc.ListTransactions(ctx, "", []domain.TransactionType{"Bogus"}, 0); err == nil {
		t.Error("expected unknown type filter to be rejected")
	}
}

func TestMonthlyCollection_DefaultsFromSettings(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	a := createMember(t, svc, "Rahima")
	b := createMember(t, svc, "Karim")

	res, err := svc.MonthlyCollection(ctx, domain.MonthlyCollectionRequest{
		MemberIDs: []string{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("collection: %v", err)
	}
	if res.Recorded != 2 {
		t.Errorf("expected 2 recorded, got %d", res.Recorded)
	}
	if res.Amount != 100 {
		t.Errorf("expected default amount 100, got %.2f", res.Amount)
	}
	for _, tx := range res.Transactions {
		if !tx.Date.Equal(res.Date) {
			t.Error("expected a shared timestamp across the batch")
		}
		if tx.Note != "Monthly Savings Entry" {
			t.Errorf("expected bulk note, got %q", tx.Note)
		}
	}

	m, err := store.GetMember(ctx, a.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.TotalSavings != 100 {
		t.Errorf("expected savings 100, got %.2f", m.TotalSavings)
	}
}

func TestMonthlyCollection_UnknownMemberRollsBack(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	a := createMember(t, svc, "Rahima")

	_, err := svc.MonthlyCollection(ctx, domain.MonthlyCollectionRequest{
		MemberIDs: []string{a.ID, "ghost"},
	})
	var unknown *domain.ErrUnknownMember
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}

	txs, _ := store.ListTransactions(ctx)
	if len(txs) != 0 {
		t.Errorf("expected no transactions after rollback, got %d", len(txs))
	}
}

func TestGetMemberStatement(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, tx := range []domain.TransactionRequest{
		{MemberID: m.ID, Type: domain.Deposit, Amount: 100, Date: &early},
		{MemberID: m.ID, Type: domain.LoanTaken, Amount: 3000, Date: &late},
	} {
		if _, err := svc.RecordTransaction(ctx, tx); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	st, err := svc.GetMemberStatement(ctx, m.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(st.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(st.Transactions))
	}
	if !st.Transactions[0].Date.After(st.Transactions[1].Date) {
		t.Error("expected newest-first ordering")
	}
	if st.LoanCycle == nil {
		t.Fatal("expected a loan cycle for an outstanding loan")
	}
	if !st.LoanCycle.StartDate.Equal(late) {
		t.Errorf("expected cycle start %v, got %v", late, st.LoanCycle.StartDate)
	}
	// 3000 at the default 5% monthly rate
	if st.EstimatedInterestDue != 150 {
		t.Errorf("expected interest due 150, got %.2f", st.EstimatedInterestDue)
	}
}

func TestGetLoanCycle_NilWithoutLoan(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")
	deposit(t, svc, m.ID, 100)

	cycle, err := svc.GetLoanCycle(ctx, m.ID)
	if err != nil {
		t.Fatalf("loan cycle: %v", err)
	}
	if cycle != nil {
		t.Errorf("expected nil cycle without an outstanding loan, got %+v", cycle)
	}
}

func TestBulkDeleteMembers_SkipsUnknown(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	a := createMember(t, svc, "Rahima")
	b := createMember(t, svc, "Karim")

	n, err := svc.BulkDeleteMembers(ctx, []string{a.ID, "ghost"})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	active, _ := store.ListMembers(ctx, false)
	if len(active) != 1 {
		t.Errorf("expected one active member, got %d", len(active))
	}

	n, err = svc.BulkDeleteMembers(ctx, []string{b.ID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	active, _ = store.ListMembers(ctx, false)
	if len(active) != 0 {
		t.Errorf("expected no active members, got %d", len(active))
	}
}

func TestDeleteMember_UnknownIsNoOp(t *testing.T) {
	svc, _ := newService(t)
	if err := svc.DeleteMember(context.Background(), "ghost"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createMember(t, svc, "Rahima")
	b := createMember(t, svc, "Karim")

	deposit(t, svc, a.ID, 500)
	deposit(t, svc, b.ID, 300)
	for _, tx := range []domain.TransactionRequest{
		{MemberID: a.ID, Type: domain.LoanTaken, Amount: 400},
		{MemberID: a.ID, Type: domain.InterestPaid, Amount: 20},
		{MemberID: a.ID, Type: domain.LoanRepayment, Amount: 100},
	} {
		if _, err := svc.RecordTransaction(ctx, tx); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	// 500 + 300 - 400 + 20 + 100
	if d.OrgBalance != 520 {
		t.Errorf("expected org balance 520, got %.2f", d.OrgBalance)
	}
	if d.TotalInterestEarned != 20 {
		t.Errorf("expected interest earned 20, got %.2f", d.TotalInterestEarned)
	}
	if d.ActiveMembers != 2 {
		t.Errorf("expected 2 active members, got %d", d.ActiveMembers)
	}
	if d.TotalSavings != 800 {
		t.Errorf("expected total savings 800, got %.2f", d.TotalSavings)
	}
	if d.TotalLoansOutstanding != 300 {
		t.Errorf("expected loans outstanding 300, got %.2f", d.TotalLoansOutstanding)
	}
}

func TestDashboard_CacheInvalidatedOnMutation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")

	d1, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d1.TotalSavings != 0 {
		t.Fatalf("expected 0 savings, got %.2f", d1.TotalSavings)
	}

	deposit(t, svc, m.ID, 250)

	d2, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard after deposit: %v", err)
	}
	if d2.TotalSavings != 250 {
		t.Errorf("expected fresh dashboard after mutation, got savings %.2f", d2.TotalSavings)
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.UpdateSettings(ctx, domain.Settings{InterestRate: -1, MonthlySavingsAmount: 100}); err == nil {
		t.Error("expected negative rate to be rejected")
	}
	if _, err := svc.UpdateSettings(ctx, domain.Settings{InterestRate: 5, MonthlySavingsAmount: 0}); err == nil {
		t.Error("expected zero savings amount to be rejected")
	}

	updated, err := svc.UpdateSettings(ctx, domain.Settings{InterestRate: 0, MonthlySavingsAmount: 200})
	if err != nil {
		t.Fatalf("zero interest rate should be allowed: %v", err)
	}
	if updated.MonthlySavingsAmount != 200 {
		t.Errorf("expected amount 200, got %.2f", updated.MonthlySavingsAmount)
	}
}

func TestReset(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")
	deposit(t, svc, m.ID, 100)

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	members, _ := store.ListMembers(ctx, true)
	if len(members) != 0 {
		t.Errorf("expected no members after reset, got %d", len(members))
	}
	settings, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.InterestRate != 5.0 || settings.MonthlySavingsAmount != 100 {
		t.Errorf("expected default settings, got %+v", settings)
	}
}

func TestIntegrityCheck(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Rahima")
	deposit(t, svc, m.ID, 100)

	report, err := svc.IntegrityCheck(ctx)
	if err != nil {
		t.Fatalf("integrity: %v", err)
	}
	if !report.Consistent || report.MembersChecked != 1 {
		t.Errorf("expected consistent ledger, got %+v", report)
	}

	// Corrupt the stored balance behind the service's back.
	corrupted, _ := store.GetMember(ctx, m.ID)
	corrupted.TotalSavings = 999
	if err := store.UpsertMember(ctx, corrupted); err != nil {
		t.Fatalf("corrupt member: %v", err)
	}

	report, err = svc.IntegrityCheck(ctx)
	if err != nil {
		t.Fatalf("integrity: %v", err)
	}
	if report.Consistent {
		t.Fatal("expected mismatch to be detected")
	}
	if len(report.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(report.Mismatches))
	}
	mm := report.Mismatches[0]
	if mm.StoredSavings != 999 || mm.RecomputedSavings != 100 {
		t.Errorf("unexpected mismatch detail: %+v", mm)
	}
}
