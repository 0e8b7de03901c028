package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/ledger"
)

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTransactions")
	defer span.End()

	var txs []domain.Transaction
	if err := s.db.WithContext(ctx).Order("rowid asc").Find(&txs).Error; err != nil {
		return nil, &domain.ErrStore{Op: "list transactions", Err: err}
	}
	return txs, nil
}

func (s *Store) ListMemberTransactions(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListMemberTransactions")
	defer span.End()

	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("rowid asc").
		Find(&txs).Error
	if err != nil {
		return nil, &domain.ErrStore{Op: "list member transactions", Err: err}
	}
	return txs, nil
}

// RecordTransaction appends the entry and applies its balance effect to
// the referenced member in one database transaction. Either both writes
// land or neither does.
func (s *Store) RecordTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "Store.RecordTransaction")
	defer span.End()

	var updated domain.Member
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var m domain.Member
		if err := db.First(&m, "id = ?", tx.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.ErrUnknownMember{MemberID: tx.MemberID}
			}
			return err
		}

		applied, err := ledger.Apply(m, *tx)
		if err != nil {
			return err
		}

		if err := db.Create(tx).Error; err != nil {
			return err
		}
		if err := db.Save(&applied).Error; err != nil {
			return err
		}

		updated = applied
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("record transaction", err)
	}
	return &updated, nil
}

// RecordTransactions appends a batch all-or-nothing. Balance effects are
// applied per member inside the same database transaction, so a failure
// on any element rolls back the entire batch.
func (s *Store) RecordTransactions(ctx context.Context, txs []domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Store.RecordTransactions")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for i := range txs {
			tx := &txs[i]

			var m domain.Member
			if err := db.First(&m, "id = ?", tx.MemberID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &domain.ErrUnknownMember{MemberID: tx.MemberID}
				}
				return err
			}

			applied, err := ledger.Apply(m, *tx)
			if err != nil {
				return err
			}

			if err := db.Create(tx).Error; err != nil {
				return err
			}
			if err := db.Save(&applied).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrapStoreErr("record transactions", err)
}

// wrapStoreErr wraps infrastructure failures while letting domain errors
// pass through untouched so callers can dispatch on them.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		unknown   *domain.ErrUnknownMember
		notFound  *domain.ErrNotFound
		badAmount *domain.ErrInvalidAmount
		validate  *domain.ErrValidation
	)
	if errors.As(err, &unknown) || errors.As(err, &notFound) ||
		errors.As(err, &badAmount) || errors.As(err, &validate) {
		return err
	}
	return &domain.ErrStore{Op: op, Err: err}
}
