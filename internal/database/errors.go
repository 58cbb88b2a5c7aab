package database

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors returned by Store operations. Callers match them with
// errors.Is to distinguish storage outcomes from transport failures.
var (
	// ErrNotFound is returned when a lookup by prefix, chat_id, or key
	// matches no row. Lookups never fall back to a default silently.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique natural key
	// (topic prefix, source chat_id, config key).
	ErrDuplicate = errors.New("already exists")
)

// isUniqueViolation reports whether err is an SQLite unique-constraint
// violation on either a UNIQUE column or the primary key.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
