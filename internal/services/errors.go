package services

import (
	"errors"
	"fmt"

	"hearthub/internal/repositories"

	"github.com/jackc/pgx/v5"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound maps the store's "nothing there" errors onto ErrNotFound and
// passes everything else through.
func notFound(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, repositories.ErrNoRowsAffected) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
