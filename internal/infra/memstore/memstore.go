// Package memstore is an in-memory implementation of port.Store. It backs
// tests and the DATA_BACKEND=memory mode, where the ledger lives only for
// the lifetime of the process.
package memstore

import (
	"context"
	"sync"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/ledger"
)

// Store keeps all collections in memory behind one mutex. Slices preserve
// insertion order; maps give O(1) lookup by id.
type Store struct {
	mu          sync.Mutex
	memberOrder []string
	members     map[string]*domain.Member
	txs         []domain.Transaction
	settings    domain.Settings
}

// New returns an empty store seeded with default settings.
func New() *Store {
	return &Store{
		members:  make(map[string]*domain.Member),
		settings: domain.DefaultSettings(),
	}
}

func (s *Store) ListMembers(_ context.Context, includeInactive bool) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		m := s.members[id]
		if !includeInactive && !m.IsActive {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *Store) GetMember(_ context.Context, id string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "member", ID: id}
	}
	cp := *m
	return &cp, nil
}

func (s *Store) UpsertMember(_ context.Context, m *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[m.ID]; !exists {
		s.memberOrder = append(s.memberOrder, m.ID)
	}
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *Store) SoftDeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "member", ID: id}
	}
	m.IsActive = false
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *Store) ListMemberTransactions(_ context.Context, memberID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, t := range s.txs {
		if t.MemberID == memberID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) RecordTransaction(_ context.Context, tx *domain.Transaction) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[tx.MemberID]
	if !ok {
		return nil, &domain.ErrUnknownMember{MemberID: tx.MemberID}
	}

	applied, err := ledger.Apply(*m, *tx)
	if err != nil {
		return nil, err
	}

	s.txs = append(s.txs, *tx)
	*m = applied
	cp := applied
	return &cp, nil
}

func (s *Store) RecordTransactions(_ context.Context, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate and stage every effect before committing anything, so a bad
	// element leaves the store untouched.
	staged := make(map[string]domain.Member, len(txs))
	for _, tx := range txs {
		m, ok := staged[tx.MemberID]
		if !ok {
			mp, exists := s.members[tx.MemberID]
			if !exists {
				return &domain.ErrUnknownMember{MemberID: tx.MemberID}
			}
			m = *mp
		}
		applied, err := ledger.Apply(m, tx)
		if err != nil {
			return err
		}
		staged[tx.MemberID] = applied
	}

	s.txs = append(s.txs, txs...)
	for id, m := range staged {
		cp := m
		s.members[id] = &cp
	}
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.settings
	return &cp, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = *settings
	return nil
}

func (s *Store) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memberOrder = nil
	s.members = make(map[string]*domain.Member)
	s.txs = nil
	s.settings = domain.DefaultSettings()
	return nil
}
