package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when an operation targets a row that does not
	// exist. Services map it to a not-found result; it is never a crash.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert/update violates a uniqueness
	// constraint (account email, category/region name).
	ErrDuplicate = errors.New("duplicate")
)

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
