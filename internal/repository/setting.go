package repository

import (
	"context"

	"taxi24/internal/domain"
)

// SettingRepository defines the persistence operations for settings.
type SettingRepository interface {
	// Create adds a new setting. Keys are unique.
	Create(ctx context.Context, setting *domain.Setting) error

	// GetByKey retrieves a setting by key, locking the row inside a unit of work.
	GetByKey(ctx context.Context, key string) (*domain.Setting, error)

	// UpdateValue replaces the value of the setting with the given ID.
	UpdateValue(ctx context.Context, id, value string) error
}
