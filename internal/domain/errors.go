package domain

import "strings"

// ValidationError carries every violated rule for a candidate record so
// callers can surface all of them at once instead of fixing one at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
