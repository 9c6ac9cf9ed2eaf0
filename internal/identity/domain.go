package identity

import (
	"time"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Role is the coarse account type assigned at registration.
type Role string

const (
	// RoleStandard is a regular buyer account.
	RoleStandard Role = "standard"
	// RoleSeller may submit products for approval.
	RoleSeller Role = "seller"
	// RoleModerator may review community content and view users.
	RoleModerator Role = "moderator"
	// RoleAdmin holds every platform permission.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStandard, RoleSeller, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is an identity record. PasswordHash never leaves the identity and
// auth packages; call Sanitized before handing the record to anything that
// persists or serializes it.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Document     string
	DocumentKind document.Kind
	Role         Role
	Permissions  []string
	Status       shared.Status
	RejectReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy with the credential scrubbed.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// HasPermission reports whether the user holds the given permission token.
func (u User) HasPermission(token string) bool {
	for _, p := range u.Permissions {
		if p == token {
			return true
		}
	}
	return false
}

// Patch carries a partial update; nil fields are left untouched. A patch is
// applied all-or-nothing.
type Patch struct {
	FirstName    *string
	LastName     *string
	PasswordHash *string
	Role         *Role
	Permissions  *[]string
	Status       *shared.Status
	RejectReason *string

	// ExpectStatus makes the update conditional: the patch applies only
	// while the stored status equals it, otherwise the store returns
	// ErrAlreadyProcessed and leaves the record untouched.
	ExpectStatus *shared.Status
}

// Filter narrows List results.
type Filter struct {
	Status *shared.Status
}

// DefaultPermissions returns the permission set granted to a role at
// registration time.
func DefaultPermissions(role Role) []string {
	switch role {
	case RoleAdmin:
		return shared.AdminScopes()
	case RoleModerator:
		return []string{shared.PermUsersView}
	case RoleSeller:
		return shared.SellerScopes()
	default:
		return nil
	}
}
