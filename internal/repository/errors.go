package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"leadtracker/internal/domain"
)

// wrapErr turns driver errors into domain errors. Missing rows become
// ErrNotFound; everything else is a StorageError carrying the SQLSTATE code
// when Postgres reported one.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	serr := &domain.StorageError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		serr.Code = pgErr.Code
	}
	return serr
}
