// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicate signals a unique-constraint violation on insert. Callers that
// can recover from losing a creation race (profile bootstrap) check for it
// with errors.Is.
var ErrDuplicate = errors.New("duplicate row")

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
