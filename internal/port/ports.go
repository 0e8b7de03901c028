// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain and
// service layers from concrete implementations.
package port

import (
	"context"

	"github.com/samity/samity-ledger-go/internal/domain"
)

// Store is the repository surface over the three persisted collections:
// members, the append-only transaction log, and the settings record.
// Implemented by the SQLite adapter and by the in-memory store.
type Store interface {
	// Members: insertion order, soft delete only.
	ListMembers(ctx context.Context, includeInactive bool) ([]domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	UpsertMember(ctx context.Context, m *domain.Member) error
	SoftDeleteMember(ctx context.Context, id string) error

	// Transactions are append-only; RecordTransaction atomically appends the
	// entry and applies its balance effect to the referenced member. An
	// unknown member id fails the whole operation with nothing appended.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListMemberTransactions(ctx context.Context, memberID string) ([]domain.Transaction, error)
	RecordTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Member, error)
	// RecordTransactions applies a batch all-or-nothing: any invalid
	// element leaves the log and every member untouched.
	RecordTransactions(ctx context.Context, txs []domain.Transaction) error

	// Settings is a single record, created with defaults at first use.
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, s *domain.Settings) error

	// ResetAll clears all three collections and reseeds default settings.
	ResetAll(ctx context.Context) error
}

// Cache provides generic caching with TTL. Purge drops every entry and
// is called after any mutating ledger operation.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Purge()
}
