package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func validPendingRequest() Request {
	return Request{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		Volunteers:  []int64{},
	}
}

func TestRequestValidate_PendingOK(t *testing.T) {
	r := validPendingRequest()
	require.NoError(t, r.Validate())
}

func TestRequestValidate_EmptyTitle(t *testing.T) {
	r := validPendingRequest()
	r.Title = "   "
	err := r.Validate()
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Contains(t, verr.Violations, "title must not be empty")
}

func TestRequestValidate_TimeOrder(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	r := validPendingRequest()
	r.StartAt = &start
	r.EndAt = &end
	err := r.Validate()
	require.Error(t, err)

	// end == start is allowed
	r.EndAt = &start
	require.NoError(t, r.Validate())

	// only one bound set is allowed
	r.EndAt = nil
	require.NoError(t, r.Validate())
}

func TestRequestValidate_PendingMustBeUnassigned(t *testing.T) {
	r := validPendingRequest()
	r.ResponderID = int64Ptr(9)
	r.Volunteers = []int64{5}
	err := r.Validate()
	require.Error(t, err)

	verr := err.(*ValidationError)
	require.Len(t, verr.Violations, 2)
}

func TestRequestValidate_AcceptedNeedsResponderAndVolunteers(t *testing.T) {
	r := validPendingRequest()
	r.Status = StatusAccepted
	err := r.Validate()
	require.Error(t, err)

	verr := err.(*ValidationError)
	require.Contains(t, verr.Violations, "responder_id is required for accepted/completed requests")
	require.Contains(t, verr.Violations, "at least one volunteer is required for accepted/completed requests")

	r.ResponderID = int64Ptr(9)
	r.Volunteers = []int64{5, 6}
	require.NoError(t, r.Validate())

	r.Status = StatusCompleted
	require.NoError(t, r.Validate())
}

func TestRequestValidate_UnknownStatus(t *testing.T) {
	r := validPendingRequest()
	r.Status = "open"
	require.Error(t, r.Validate())
}

func TestNormalizeVolunteers(t *testing.T) {
	require.Equal(t, []int64{}, NormalizeVolunteers(nil))
	require.Equal(t, []int64{}, NormalizeVolunteers("   "))
	require.Equal(t, []int64{3, 7}, NormalizeVolunteers("3,7"))
	require.Equal(t, []int64{3, 7}, NormalizeVolunteers(" 3 , 7 "))
	// non-digit tokens are dropped, not reported
	require.Equal(t, []int64{3}, NormalizeVolunteers("3,abc,"))
	require.Equal(t, []int64{}, NormalizeVolunteers("abc"))
	// signed tokens count as non-digit
	require.Equal(t, []int64{7}, NormalizeVolunteers("-3,+2,7"))
	require.Equal(t, []int64{5}, NormalizeVolunteers([]any{"-3", "5"}))
	// already a list passes through
	require.Equal(t, []int64{5, 6}, NormalizeVolunteers([]int64{5, 6}))
	// decoded JSON array
	require.Equal(t, []int64{5, 6}, NormalizeVolunteers([]any{float64(5), float64(6)}))
	require.Equal(t, []int64{5}, NormalizeVolunteers([]any{"5", true}))
}

func TestAccountValidate(t *testing.T) {
	name := "Jo"
	aff := int64(4)

	a := Account{Email: "jo@example.com", Name: &name, Role: RolePIN, Status: AccountActive}
	require.NoError(t, a.Validate())

	// CSR needs an affiliation
	a.Role = RoleCSR
	require.Error(t, a.Validate())
	a.AffiliationID = &aff
	require.NoError(t, a.Validate())

	// non-CSR must not carry one
	a.Role = RoleUserAdmin
	err := a.Validate()
	require.Error(t, err)
	require.Contains(t, err.(*ValidationError).Violations, "only CSR accounts can have an affiliation_id")

	a = Account{Email: "not-an-email", Role: RolePIN, Status: AccountActive}
	require.Error(t, a.Validate())

	a = Account{Email: "jo@example.com", Role: "Root", Status: AccountActive}
	require.Error(t, a.Validate())
}
