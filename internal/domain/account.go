package domain

import "strings"

// Account platform account (accounts table). Requesters file requests under
// the PIN role; responders are CSR accounts tied to an affiliation.
type Account struct {
	ID            int64         `json:"id"`
	Email         string        `json:"email"`
	Name          *string       `json:"name"`
	Phone         *string       `json:"phone"`
	Role          AccountRole   `json:"role"`
	Status        AccountStatus `json:"status"`
	AffiliationID *int64        `json:"affiliation_id"`
}

// Validate collects every violated rule for a candidate account.
func (a *Account) Validate() error {
	var violations []string

	email := strings.TrimSpace(a.Email)
	if email == "" {
		violations = append(violations, "email must not be empty")
	} else if !strings.Contains(email, "@") {
		violations = append(violations, "email must be a valid address")
	}

	if !a.Role.Valid() {
		violations = append(violations, "role must be one of UserAdmin/CSR/PIN/PlatformManager")
	}
	if !a.Status.Valid() {
		violations = append(violations, "status must be one of active/inactive/blocked")
	}

	// CSR must have an affiliation; nobody else may carry one.
	if a.Role == RoleCSR && a.AffiliationID == nil {
		violations = append(violations, "CSR accounts must have an affiliation_id")
	}
	if a.Role.Valid() && a.Role != RoleCSR && a.AffiliationID != nil {
		violations = append(violations, "only CSR accounts can have an affiliation_id")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
