package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

const defaultStoreErrorMessage = "An error occurred"

// Postgres SQLSTATE codes with a fixed user-facing message.
const (
	CodeUndefinedTable      = "42P01"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
)

var storeErrorMessages = map[string]string{
	CodeUndefinedTable:      "Database table not found. Please create the 'rental_applications' table in Supabase.",
	CodeForeignKeyViolation: "Invalid property. Please select a valid property.",
	CodeUniqueViolation:     "You have already submitted an application for this property.",
}

// StoreError is a backend error reduced to its code and message.
type StoreError struct {
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// StoreErrorMessage maps a backend error code to a display string. A known
// code always wins over the backend message.
func StoreErrorMessage(code, message string) string {
	if code != "" {
		if msg, ok := storeErrorMessages[code]; ok {
			return msg
		}
	}
	if message != "" {
		return message
	}
	return defaultStoreErrorMessage
}

// ClassifyStoreError returns the user-facing message for any error, nil included.
func ClassifyStoreError(err error) string {
	if err == nil {
		return defaultStoreErrorMessage
	}
	code, message := storeErrorParts(err)
	return StoreErrorMessage(code, message)
}

// StoreErrorStatus picks the HTTP status for a classified store error.
func StoreErrorStatus(err error) int {
	code, _ := storeErrorParts(err)
	switch code {
	case CodeUniqueViolation:
		return http.StatusConflict
	case CodeForeignKeyViolation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	code, _ := storeErrorParts(err)
	return code == CodeUniqueViolation
}

func storeErrorParts(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code, storeErr.Message
	}
	return "", err.Error()
}
