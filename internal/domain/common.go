package domain

// RequestStatus request lifecycle states
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusCompleted RequestStatus = "completed"
	StatusExpired   RequestStatus = "expired"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// AccountRole account roles (CSR is the only responder-capable role and the
// only one allowed to carry an affiliation)
type AccountRole string

const (
	RoleUserAdmin       AccountRole = "UserAdmin"
	RoleCSR             AccountRole = "CSR"
	RolePIN             AccountRole = "PIN"
	RolePlatformManager AccountRole = "PlatformManager"
)

func (r AccountRole) Valid() bool {
	switch r {
	case RoleUserAdmin, RoleCSR, RolePIN, RolePlatformManager:
		return true
	}
	return false
}

// AccountStatus account states
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountBlocked  AccountStatus = "blocked"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountBlocked:
		return true
	}
	return false
}
