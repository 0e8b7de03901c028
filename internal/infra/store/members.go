package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/samity/samity-ledger-go/internal/domain"
)

func (s *Store) ListMembers(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	ctx, span := tracer.Start(ctx, "Store.ListMembers")
	defer span.End()

	// rowid preserves insertion order in SQLite
	q := s.db.WithContext(ctx).Order("rowid asc")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var members []domain.Member
	if err := q.Find(&members).Error; err != nil {
		return nil, &domain.ErrStore{Op: "list members", Err: err}
	}
	return members, nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "Store.GetMember")
	defer span.End()

	var m domain.Member
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "member", ID: id}
	}
	if err != nil {
		return nil, &domain.ErrStore{Op: "get member", Err: err}
	}
	return &m, nil
}

func (s *Store) UpsertMember(ctx context.Context, m *domain.Member) error {
	ctx, span := tracer.Start(ctx, "Store.UpsertMember")
	defer span.End()

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return &domain.ErrStore{Op: "upsert member", Err: err}
	}
	return nil
}

// SoftDeleteMember marks the member inactive. The row and its transaction
// history are preserved so the log keeps resolving.
func (s *Store) SoftDeleteMember(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Store.SoftDeleteMember")
	defer span.End()

	res := s.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return &domain.ErrStore{Op: "soft delete member", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "member", ID: id}
	}
	return nil
}
