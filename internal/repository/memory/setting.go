package memory

import (
	"context"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// SettingRepository is an in-memory implementation of repository.SettingRepository.
type SettingRepository struct {
	acc accessor
}

// Create adds a new setting.
func (r *SettingRepository) Create(ctx context.Context, setting *domain.Setting) error {
	return r.acc.write(ctx, "settings.Create", func(d *data) error {
		for _, existing := range d.settings {
			if existing.ID == setting.ID || existing.Key == setting.Key {
				return repository.ErrConflict
			}
		}
		if setting.CreatedAt.IsZero() {
			setting.CreatedAt = time.Now().UTC()
		}
		setting.UpdatedAt = setting.CreatedAt
		d.settings[setting.ID] = *setting
		return nil
	})
}

// GetByKey retrieves a setting by key.
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*domain.Setting, error) {
	var out *domain.Setting
	err := r.acc.read(ctx, "settings.GetByKey", func(d *data) error {
		for _, setting := range d.settings {
			if setting.Key == key {
				out = &setting
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

// UpdateValue replaces the value of a setting.
func (r *SettingRepository) UpdateValue(ctx context.Context, id, value string) error {
	return r.acc.write(ctx, "settings.UpdateValue", func(d *data) error {
		stored, ok := d.settings[id]
		if !ok {
			return repository.ErrNotFound
		}
		stored.Value = value
		stored.UpdatedAt = time.Now().UTC()
		d.settings[id] = stored
		return nil
	})
}

// Ensure SettingRepository implements repository.SettingRepository.
var _ repository.SettingRepository = (*SettingRepository)(nil)
