package models

// Role defines the account role hierarchy.
// Admins run the store, sub-admins buy order capacity from their wallet,
// staff work orders on behalf of the sub-admin that owns them.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubAdmin Role = "sub_admin"
	RoleStaff    Role = "staff"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleStaff:
		return true
	}
	return false
}
