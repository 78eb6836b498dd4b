package service

import (
	"context"
	"errors"
	"fmt"

	"taxi24/internal/repository"
)

// withinUnitOfWork runs fn in a new unit of work. The unit of work is
// committed when fn succeeds and rolled back otherwise.
func withinUnitOfWork(ctx context.Context, tx repository.Transactor, fn func(uow repository.UnitOfWork) error) (err error) {
	uow, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	committing := false
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
		if err != nil && !committing {
			if rbErr := uow.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}

	committing = true
	if err = uow.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}
