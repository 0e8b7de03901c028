package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/ledger"
)

// ListMembers returns members in insertion order. query filters by
// case-insensitive substring on name or phone number.
func (s *SamityService) ListMembers(ctx context.Context, includeInactive bool, query string) ([]domain.Member, error) {
	ctx, span := tracer.Start(ctx, "SamityService.ListMembers")
	defer span.End()

	members, err := s.store.ListMembers(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return members, nil
	}

	q := strings.ToLower(query)
	filtered := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(m.PhoneNumber, q) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// CreateMember registers a new member with zero balances.
func (s *SamityService) CreateMember(ctx context.Context, req domain.MemberRequest) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "SamityService.CreateMember")
	defer span.End()

	if err := validateMemberRequest(req); err != nil {
		return nil, err
	}

	m := &domain.Member{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		IsActive:    true,
		JoinedDate:  time.Now().UTC(),
	}
	if err := s.store.UpsertMember(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("member created", zap.String("member_id", m.ID), zap.String("name", m.Name))
	return m, nil
}

// UpdateMember edits the member's profile fields. Balances are derived
// and cannot be edited here.
func (s *SamityService) UpdateMember(ctx context.Context, id string, req domain.MemberRequest) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "SamityService.UpdateMember")
	defer span.End()
	span.SetAttributes(attribute.String("member.id", id))

	if err := validateMemberRequest(req); err != nil {
		return nil, err
	}

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Name = strings.TrimSpace(req.Name)
	m.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := s.store.UpsertMember(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate()
	return m, nil
}

// DeleteMember retires a member. The record and its transaction history
// survive so every log entry keeps resolving. Unknown ids are a silent
// no-op, which also makes the operation idempotent.
func (s *SamityService) DeleteMember(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SamityService.DeleteMember")
	defer span.End()
	span.SetAttributes(attribute.String("member.id", id))

	if err := s.store.SoftDeleteMember(ctx, id); err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	s.invalidate()
	s.logger.Info("member soft-deleted", zap.String("member_id", id))
	return nil
}

// BulkDeleteMembers retires several members at once, skipping unknown ids
// the same way single deletion does. Returns the number actually retired.
func (s *SamityService) BulkDeleteMembers(ctx context.Context, ids []string) (int, error) {
	ctx, span := tracer.Start(ctx, "SamityService.BulkDeleteMembers")
	defer span.End()

	if len(ids) == 0 {
		return 0, &domain.ErrValidation{Field: "member_ids", Message: "at least one member id is required"}
	}

	deleted := 0
	for _, id := range ids {
		if err := s.store.SoftDeleteMember(ctx, id); err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}

	s.invalidate()
	s.logger.Info("members soft-deleted", zap.Int("count", deleted))
	return deleted, nil
}

// GetMemberStatement returns the member with their transactions
// newest-first, the current loan-cycle summary and the estimated monthly
// interest due.
func (s *SamityService) GetMemberStatement(ctx context.Context, id string) (*domain.MemberStatement, error) {
	ctx, span := tracer.Start(ctx, "SamityService.GetMemberStatement")
	defer span.End()
	span.SetAttributes(attribute.String("member.id", id))

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListMemberTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	cycle := ledger.LoanCycleSummary(*m, txs)

	// newest first for display
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})

	return &domain.MemberStatement{
		Member:               m,
		Transactions:         txs,
		LoanCycle:            cycle,
		EstimatedInterestDue: ledger.EstimatedInterestDue(*m, *settings),
	}, nil
}

// GetLoanCycle returns the member's current loan-cycle summary, or nil
// when the member has no outstanding loan.
func (s *SamityService) GetLoanCycle(ctx context.Context, id string) (*domain.LoanCycleSummary, error) {
	ctx, span := tracer.Start(ctx, "SamityService.GetLoanCycle")
	defer span.End()

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListMemberTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return ledger.LoanCycleSummary(*m, txs), nil
}

func validateMemberRequest(req domain.MemberRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return &domain.ErrValidation{Field: "phone_number", Message: "phone number is required"}
	}
	return nil
}
