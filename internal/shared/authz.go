package shared

// Platform permissions.
const (
	PermAdminAccess = "admin.access"

	PermUsersView    = "users.view"
	PermUsersApprove = "users.approve"

	PermProductsSell    = "products.sell"
	PermProductsApprove = "products.approve"
)

// AdminScopes lists every permission granted to administrators.
func AdminScopes() []string {
	return []string{
		PermAdminAccess,
		PermUsersView,
		PermUsersApprove,
		PermProductsSell,
		PermProductsApprove,
	}
}

// SellerScopes lists the permissions granted to sellers on registration.
func SellerScopes() []string {
	return []string{PermProductsSell}
}
