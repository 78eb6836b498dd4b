package postgres

import (
	"context"
	"database/sql"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// SettingRepository is a PostgreSQL implementation of repository.SettingRepository.
type SettingRepository struct {
	q    Querier
	lock bool
}

// NewSettingRepository creates a new PostgreSQL setting repository.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{q: db}
}

// NewSettingRepositoryWithTx creates a setting repository using a transaction.
// Reading InvoiceNumber through it serializes concurrent invoice issuance.
func NewSettingRepositoryWithTx(tx *sql.Tx) *SettingRepository {
	return &SettingRepository{q: tx, lock: true}
}

// Create adds a new setting.
func (r *SettingRepository) Create(ctx context.Context, setting *domain.Setting) error {
	query := `INSERT INTO settings (id, key, value, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = time.Now().UTC()
	}
	setting.UpdatedAt = setting.CreatedAt

	_, err := r.q.ExecContext(ctx, query, setting.ID, setting.Key, setting.Value, setting.CreatedAt, setting.UpdatedAt)
	return translateError(err)
}

// GetByKey retrieves a setting by key.
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*domain.Setting, error) {
	query := `SELECT id, key, value, created_at, updated_at FROM settings WHERE key = $1` + lockClause(r.lock)

	var setting domain.Setting
	err := r.q.QueryRowContext(ctx, query, key).Scan(
		&setting.ID,
		&setting.Key,
		&setting.Value,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &setting, nil
}

// UpdateValue replaces the value of a setting.
func (r *SettingRepository) UpdateValue(ctx context.Context, id, value string) error {
	query := `UPDATE settings SET value = $1, updated_at = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Ensure SettingRepository implements repository.SettingRepository.
var _ repository.SettingRepository = (*SettingRepository)(nil)
