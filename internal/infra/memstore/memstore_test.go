package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/infra/memstore"
)

func seed(t *testing.T, s *memstore.Store, id, name string) {
	t.Helper()
	err := s.UpsertMember(context.Background(), &domain.Member{
		ID:          id,
		Name:        name,
		PhoneNumber: "01700000000",
		IsActive:    true,
		JoinedDate:  time.Now(),
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func TestMemstore_InsertionOrder(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	seed(t, s, "c", "Chandana")
	seed(t, s, "a", "Amina")
	seed(t, s, "b", "Bashir")

	members, err := s.ListMembers(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	for i, want := range []string{"c", "a", "b"} {
		if members[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, members[i].ID)
		}
	}
}

func TestMemstore_SoftDeleteKeepsHistory(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seed(t, s, "m1", "Rahima")

	if _, err := s.RecordTransaction(ctx, &domain.Transaction{
		ID: "t1", MemberID: "m1", Date: time.Now(), Type: domain.Deposit, Amount: 200,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.SoftDeleteMember(ctx, "m1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	active, _ := s.ListMembers(ctx, false)
	if len(active) != 0 {
		t.Errorf("expected no active members, got %d", len(active))
	}
	txs, _ := s.ListMemberTransactions(ctx, "m1")
	if len(txs) != 1 {
		t.Errorf("expected history preserved, got %d transactions", len(txs))
	}
	m, err := s.GetMember(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.TotalSavings != 200 {
		t.Errorf("expected savings retained, got %.2f", m.TotalSavings)
	}
}

func TestMemstore_RecordTransactions_AllOrNothing(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seed(t, s, "m1", "Rahima")

	now := time.Now()
	err := s.RecordTransactions(ctx, []domain.Transaction{
		{ID: "t1", MemberID: "m1", Date: now, Type: domain.Deposit, Amount: 100},
		{ID: "t2", MemberID: "ghost", Date: now, Type: domain.Deposit, Amount: 100},
	})
	var unknown *domain.ErrUnknownMember
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}

	txs, _ := s.ListTransactions(ctx)
	if len(txs) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(txs))
	}
	m, _ := s.GetMember(ctx, "m1")
	if m.TotalSavings != 0 {
		t.Errorf("expected untouched savings, got %.2f", m.TotalSavings)
	}
}

func TestMemstore_RecordTransactions_SameMemberTwice(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seed(t, s, "m1", "Rahima")

	now := time.Now()
	err := s.RecordTransactions(ctx, []domain.Transaction{
		{ID: "t1", MemberID: "m1", Date: now, Type: domain.Deposit, Amount: 100},
		{ID: "t2", MemberID: "m1", Date: now, Type: domain.Deposit, Amount: 50},
	})
	if err != nil {
		t.Fatalf("record batch: %v", err)
	}

	m, _ := s.GetMember(ctx, "m1")
	if m.TotalSavings != 150 {
		t.Errorf("expected both deposits applied, got %.2f", m.TotalSavings)
	}
}

func TestMemstore_ResetAll(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seed(t, s, "m1", "Rahima")

	settings, _ := s.GetSettings(ctx)
	settings.InterestRate = 12
	_ = s.SaveSettings(ctx, settings)

	if err := s.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	members, _ := s.ListMembers(ctx, true)
	if len(members) != 0 {
		t.Errorf("expected no members after reset, got %d", len(members))
	}
	reseeded, _ := s.GetSettings(ctx)
	if reseeded.InterestRate != 5.0 {
		t.Errorf("expected default settings after reset, got %+v", reseeded)
	}
}
