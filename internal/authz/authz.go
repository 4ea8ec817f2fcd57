// Package authz holds the role model and the capability predicates that
// gate navigation and UI controls. Superadmin and admin have full
// access; hr has admin-like access for leave and user management.
//
// All predicates are pure and total: any string (including empty) is a
// valid input, and unknown roles simply carry no elevated capability.
// The backend remains the authority on every mutation; these checks
// only decide what the client shows.
package authz

import "strings"

const (
	RoleSuperadmin  = "superadmin"
	RoleAdmin       = "admin"
	RoleHR          = "hr"
	RoleUser        = "user"
	RoleFinance     = "finance"
	RoleTechSupport = "tech_support"
)

// AssignableRoles are the roles an administrator may hand out from the
// user management screen. Superadmin is seeded, never assigned.
var AssignableRoles = []string{
	RoleUser,
	RoleHR,
	RoleAdmin,
	RoleFinance,
	RoleTechSupport,
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func IsSuperadmin(role string) bool {
	return normalize(role) == RoleSuperadmin
}

func IsAdminOrSuperadmin(role string) bool {
	r := normalize(role)
	return r == RoleAdmin || r == RoleSuperadmin
}

func IsAdminOrHr(role string) bool {
	r := normalize(role)
	return r == RoleAdmin || r == RoleSuperadmin || r == RoleHR
}

// CanManageUsers reports whether the role may list, create and edit
// user accounts.
func CanManageUsers(role string) bool {
	return IsAdminOrHr(role)
}

// CanManageLeave reports whether the role may see every leave request
// and approve or reject pending ones.
func CanManageLeave(role string) bool {
	return IsAdminOrHr(role)
}

func CanAssignTasks(role string) bool {
	return IsAdminOrHr(role)
}

func CanAccessAdminPanel(role string) bool {
	return IsAdminOrSuperadmin(role)
}
