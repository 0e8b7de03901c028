package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/domain"
)

// GetSettings returns the samity-wide configuration, seeding defaults on
// first use.
func (s *SamityService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	ctx, span := tracer.Start(ctx, "SamityService.GetSettings")
	defer span.End()

	return s.store.GetSettings(ctx)
}

// UpdateSettings replaces the samity-wide configuration.
func (s *SamityService) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	ctx, span := tracer.Start(ctx, "SamityService.UpdateSettings")
	defer span.End()

	if settings.InterestRate < 0 {
		return nil, &domain.ErrValidation{Field: "interest_rate", Message: "interest rate cannot be negative"}
	}
	if settings.MonthlySavingsAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "monthly_savings_amount", Message: "monthly savings amount must be positive"}
	}

	if err := s.store.SaveSettings(ctx, &settings); err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("settings updated",
		zap.Float64("interest_rate", settings.InterestRate),
		zap.Float64("monthly_savings_amount", settings.MonthlySavingsAmount),
	)
	return &settings, nil
}

// Reset wipes every member, the whole transaction log and the settings,
// restoring the defaults. There is no undo.
func (s *SamityService) Reset(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "SamityService.Reset")
	defer span.End()

	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}

	s.invalidate()
	s.logger.Warn("ledger reset: all data cleared")
	return nil
}
