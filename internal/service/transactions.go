package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
)

// monthlyCollectionNote marks bulk monthly deposits in the log.
const monthlyCollectionNote = "Monthly Savings Entry"

// ListTransactions returns log entries in append order, optionally
// filtered by member and by type. limit > 0 keeps only the newest entries.
func (s *SamityService) ListTransactions(ctx context.Context, memberID string, types []domain.TransactionType, limit int) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "SamityService.ListTransactions")
	defer span.End()

	var (
		txs []domain.Transaction
		err error
	)
	if memberID != "" {
		txs, err = s.store.ListMemberTransactions(ctx, memberID)
	} else {
		txs, err = s.store.ListTransactions(ctx)
	}
	if err != nil {
		return nil, err
	}

	if len(types) > 0 {
		wanted := make(map[domain.TransactionType]bool, len(types))
		for _, t := range types {
			if !domain.ValidType(t) {
				return nil, &domain.ErrValidation{Field: "type", Message: "unknown transaction type: " + string(t)}
			}
			wanted[t] = true
		}
		filtered := txs[:0]
		for _, t := range txs {
			if wanted[t.Type] {
				filtered = append(filtered, t)
			}
		}
		txs = filtered
	}

	if limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	return txs, nil
}

// RecordTransaction validates and appends one ledger entry, returning the
// entry together with the member's refreshed balances.
func (s *SamityService) RecordTransaction(ctx context.Context, req domain.TransactionRequest) (result *domain.RecordResult, err error) {
	ctx, span := tracer.Start(ctx, "SamityService.RecordTransaction")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("record_transaction", time.Since(start))
		s.observe("record_transaction", err)
	}()
	span.SetAttributes(
		attribute.String("member.id", req.MemberID),
		attribute.String("transaction.type", string(req.Type)),
	)

	if req.MemberID == "" {
		return nil, &domain.ErrValidation{Field: "member_id", Message: "member id is required"}
	}
	if !domain.ValidType(req.Type) {
		return nil, &domain.ErrValidation{Field: "type", Message: "unknown transaction type: " + string(req.Type)}
	}
	if req.Amount <= 0 {
		return nil, &domain.ErrInvalidAmount{Amount: req.Amount}
	}

	// Over-repayment is rejected here, before anything reaches the log.
	if req.Type == domain.LoanRepayment {
		m, err := s.store.GetMember(ctx, req.MemberID)
		if err != nil {
			return nil, err
		}
		if req.Amount > m.CurrentLoanPrincipal {
			return nil, &domain.ErrOverRepayment{
				Outstanding: m.CurrentLoanPrincipal,
				Requested:   req.Amount,
			}
		}
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	tx := &domain.Transaction{
		ID:       uuid.NewString(),
		MemberID: req.MemberID,
		Date:     date,
		Type:     req.Type,
		Amount:   req.Amount,
		Note:     req.Note,
	}

	member, err := s.store.RecordTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.metrics.IncrTransaction(string(tx.Type))
	s.logger.Info("transaction recorded",
		zap.String("transaction_id", tx.ID),
		zap.String("member_id", tx.MemberID),
		zap.String("type", string(tx.Type)),
		zap.Float64("amount", tx.Amount),
	)

	return &domain.RecordResult{Transaction: tx, Member: member}, nil
}

// MonthlyCollection records one deposit per listed member with a shared
// timestamp and note. The batch is all-or-nothing: an unknown member id
// leaves the log untouched.
func (s *SamityService) MonthlyCollection(ctx context.Context, req domain.MonthlyCollectionRequest) (result *domain.MonthlyCollectionResult, err error) {
	ctx, span := tracer.Start(ctx, "SamityService.MonthlyCollection")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("monthly_collection", time.Since(start))
		s.observe("monthly_collection", err)
	}()
	span.SetAttributes(attribute.Int("members.count", len(req.MemberIDs)))

	if len(req.MemberIDs) == 0 {
		return nil, &domain.ErrValidation{Field: "member_ids", Message: "at least one member id is required"}
	}
	if req.Amount < 0 {
		return nil, &domain.ErrInvalidAmount{Amount: req.Amount}
	}

	amount := req.Amount
	if amount == 0 {
		settings, err := s.store.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		amount = settings.MonthlySavingsAmount
	}

	now := time.Now().UTC()
	txs := make([]domain.Transaction, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		txs = append(txs, domain.Transaction{
			ID:       uuid.NewString(),
			MemberID: id,
			Date:     now,
			Type:     domain.Deposit,
			Amount:   amount,
			Note:     monthlyCollectionNote,
		})
	}

	if err := s.store.RecordTransactions(ctx, txs); err != nil {
		return nil, err
	}

	s.invalidate()
	for range txs {
		s.metrics.IncrTransaction(string(domain.Deposit))
	}
	s.logger.Info("monthly collection recorded",
		zap.Int("members", len(txs)),
		zap.Float64("amount", amount),
	)

	return &domain.MonthlyCollectionResult{
		Recorded:     len(txs),
		Amount:       amount,
		Date:         now,
		Transactions: txs,
	}, nil
}
