// Package nav decides what the current actor may reach: the route
// guard gates screen rendering, the menu builder filters which items
// are offered at all. Both are evaluated on every navigation, never
// cached, since the session can change between navigations.
package nav

import (
	"strings"

	"crmdesk/internal/authz"
	"crmdesk/internal/session"
)

type Decision int

const (
	// Render lets the requested screen through.
	Render Decision = iota
	// RedirectLogin sends an unauthenticated actor to the login screen.
	RedirectLogin
	// RedirectHome sends an authenticated but unauthorized actor to the
	// default landing screen.
	RedirectHome
)

// Guard applies the route access rule: no session means login, a role
// missing from a non-empty allow-list means home, anything else
// renders. Comparison is case-insensitive like the rest of the role
// model.
func Guard(sess *session.Session, allowedRoles []string) Decision {
	if sess == nil {
		return RedirectLogin
	}
	if len(allowedRoles) == 0 {
		return Render
	}
	role := strings.ToLower(strings.TrimSpace(sess.Role))
	for _, allowed := range allowedRoles {
		if role == strings.ToLower(allowed) {
			return Render
		}
	}
	return RedirectHome
}

// Route is one navigable screen and its allow-list. An empty allow-list
// means any authenticated user.
type Route struct {
	Path         string
	Title        string
	AllowedRoles []string
}

// Routes mirrors the application's screen table.
var Routes = []Route{
	{Path: "home", Title: "Home"},
	{Path: "dashboard", Title: "Dashboard"},
	{Path: "tasks", Title: "Tasks"},
	{Path: "meetings", Title: "Meetings"},
	{Path: "finance", Title: "Finance", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, authz.RoleFinance}},
	{Path: "hr", Title: "HR", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, authz.RoleHR}},
	{Path: "sales", Title: "Sales", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, "sales"}},
	{Path: "techsupport", Title: "Tech Support", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, authz.RoleTechSupport}},
	{Path: "admin", Title: "Admin", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin}},
	{Path: "apply-leave", Title: "Apply for Leave"},
	{Path: "leaves", Title: "My Leave Requests"},
	{Path: "leave-management", Title: "Leave Management", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, authz.RoleHR}},
	{Path: "user-management", Title: "User Management", AllowedRoles: []string{authz.RoleAdmin, authz.RoleSuperadmin, authz.RoleHR}},
}

// Lookup finds a route by path.
func Lookup(path string) (Route, bool) {
	for _, route := range Routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}
