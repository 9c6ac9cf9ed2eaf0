package auth

import "github.com/vendorkut/vendorkut/internal/identity"

// IsAdmin reports whether the user holds the admin role.
func IsAdmin(u identity.User) bool {
	return u.Role == identity.RoleAdmin
}

// IsSeller reports whether the user may act as a seller. Admins satisfy the
// seller predicate.
func IsSeller(u identity.User) bool {
	return u.Role == identity.RoleSeller || u.Role == identity.RoleAdmin
}

// HasPermission reports whether the user holds the permission token.
func HasPermission(u identity.User, token string) bool {
	return u.HasPermission(token)
}
