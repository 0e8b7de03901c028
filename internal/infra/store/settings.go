package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/samity/samity-ledger-go/internal/domain"
)

// GetSettings returns the single settings record, seeding defaults on
// first use.
func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	ctx, span := tracer.Start(ctx, "Store.GetSettings")
	defer span.End()

	var settings domain.Settings
	err := s.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = domain.DefaultSettings()
		if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, &domain.ErrStore{Op: "seed settings", Err: err}
		}
		return &settings, nil
	}
	if err != nil {
		return nil, &domain.ErrStore{Op: "get settings", Err: err}
	}
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	ctx, span := tracer.Start(ctx, "Store.SaveSettings")
	defer span.End()

	current, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings.ID = current.ID
	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return &domain.ErrStore{Op: "save settings", Err: err}
	}
	return nil
}

// ResetAll wipes members, transactions and settings, then reseeds the
// default settings record.
func (s *Store) ResetAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Store.ResetAll")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Where("1 = 1").Delete(&domain.Transaction{}).Error; err != nil {
			return err
		}
		if err := db.Where("1 = 1").Delete(&domain.Member{}).Error; err != nil {
			return err
		}
		if err := db.Where("1 = 1").Delete(&domain.Settings{}).Error; err != nil {
			return err
		}
		defaults := domain.DefaultSettings()
		return db.Create(&defaults).Error
	})
	if err != nil {
		return &domain.ErrStore{Op: "reset", Err: err}
	}
	return nil
}
