package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/repository"
)

// SettingService is the keystore for process-wide settings.
type SettingService struct {
	settings repository.SettingRepository
	log      logger.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings repository.SettingRepository, log logger.Logger) *SettingService {
	return &SettingService{settings: settings, log: log}
}

// Get returns the setting stored under key.
func (s *SettingService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		return nil, notFound(err, msgSettingNotFound)
	}
	return setting, nil
}

// Set replaces the value stored under an existing key.
func (s *SettingService) Set(ctx context.Context, key, value string) error {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if setting.Value == value {
		return nil
	}
	if err := s.settings.UpdateValue(ctx, setting.ID, value); err != nil {
		return notFound(err, msgSettingNotFound)
	}
	s.log.Info(ctx, "setting updated", "key", key, "from", setting.Value, "to", value)
	return nil
}

// Seed creates every key of defaults that does not exist yet. Existing
// values are left untouched.
func (s *SettingService) Seed(ctx context.Context, defaults map[string]string) error {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		_, err := s.settings.GetByKey(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("read setting %s: %w", key, err)
		}

		err = s.settings.Create(ctx, &domain.Setting{
			ID:    uuid.New().String(),
			Key:   key,
			Value: defaults[key],
		})
		// Another instance may have seeded the key concurrently.
		if err != nil && !errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
		if err == nil {
			s.log.Info(ctx, "setting seeded", "key", key, "value", defaults[key])
		}
	}
	return nil
}

// DefaultSettings returns the settings required for invoice issuance.
func DefaultSettings(taxPercentage string) map[string]string {
	return map[string]string{
		domain.SettingInvoiceNumber: "0",
		domain.SettingTaxPercentage: taxPercentage,
	}
}
