package domain

import (
	"strconv"
	"strings"
	"time"
)

// Request service request domain model (requests table)
type Request struct {
	ID          int64         `json:"id"`
	RequesterID int64         `json:"requester_id"`
	ResponderID *int64        `json:"responder_id"`
	CategoryID  int64         `json:"category_id"`
	DistrictID  int64         `json:"district_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      RequestStatus `json:"status"`
	StartAt     *time.Time    `json:"start_at"`
	EndAt       *time.Time    `json:"end_at"`
	CreatedAt   time.Time     `json:"created_at"`
	Volunteers  []int64       `json:"volunteers"`
}

// Validate checks the full candidate record and collects every violated rule.
// Callers must normalize Volunteers first (nil means "no volunteers" here).
func (r *Request) Validate() error {
	var violations []string

	if strings.TrimSpace(r.Title) == "" {
		violations = append(violations, "title must not be empty")
	}

	if r.StartAt != nil && r.EndAt != nil && r.EndAt.Before(*r.StartAt) {
		violations = append(violations, "end_at cannot be earlier than start_at")
	}

	switch r.Status {
	case StatusPending, StatusExpired:
		if r.ResponderID != nil {
			violations = append(violations, "responder_id must be empty for pending/expired requests")
		}
		if len(r.Volunteers) != 0 {
			violations = append(violations, "volunteers must be empty for pending/expired requests")
		}
	case StatusAccepted, StatusCompleted:
		if r.ResponderID == nil {
			violations = append(violations, "responder_id is required for accepted/completed requests")
		}
		if len(r.Volunteers) < 1 {
			violations = append(violations, "at least one volunteer is required for accepted/completed requests")
		}
	default:
		violations = append(violations, "status must be one of pending/accepted/completed/expired")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// NormalizeVolunteers coerces the accepted wire forms of a volunteer list
// into []int64. Absent/blank becomes an empty list; comma-separated text is
// parsed with non-digit tokens (including signed numbers) silently dropped,
// matching the legacy data this platform inherited; an actual list passes
// through.
func NormalizeVolunteers(v any) []int64 {
	switch val := v.(type) {
	case nil:
		return []int64{}
	case []int64:
		if val == nil {
			return []int64{}
		}
		return val
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return []int64{}
		}
		out := []int64{}
		for _, tok := range strings.Split(s, ",") {
			tok = strings.TrimSpace(tok)
			if !isDigits(tok) {
				continue
			}
			if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
				out = append(out, n)
			}
		}
		return out
	case []any:
		// decoded JSON array: numbers arrive as float64
		out := []int64{}
		for _, item := range val {
			switch n := item.(type) {
			case float64:
				out = append(out, int64(n))
			case int64:
				out = append(out, n)
			case int:
				out = append(out, int64(n))
			case string:
				tok := strings.TrimSpace(n)
				if !isDigits(tok) {
					continue
				}
				if parsed, err := strconv.ParseInt(tok, 10, 64); err == nil {
					out = append(out, parsed)
				}
			}
		}
		return out
	default:
		return []int64{}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
