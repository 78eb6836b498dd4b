package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"taxi24/internal/apperr"
	"taxi24/internal/repository"
)

const uniqueViolation = "23505"

// translateError maps driver errors onto repository and application errors.
// Data exceptions (class 22) and integrity violations (class 23) are caller
// errors; unique violations additionally match repository.ErrConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	code, message, ok := sqlState(err)
	if !ok {
		return err
	}
	switch {
	case code == uniqueViolation:
		return apperr.Wrap(apperr.KindBadRequest, message, fmt.Errorf("%w: %w", repository.ErrConflict, err))
	case len(code) == 5 && (code[:2] == "22" || code[:2] == "23"):
		return apperr.Wrap(apperr.KindBadRequest, message, err)
	default:
		return err
	}
}

// sqlState extracts the SQLSTATE of an error from either supported driver.
func sqlState(err error) (code, message string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message, true
	}
	return "", "", false
}
