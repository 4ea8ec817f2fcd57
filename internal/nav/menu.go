package nav

import (
	"strings"

	"crmdesk/internal/authz"
)

// MenuItem is one sidebar entry. Designation is the role that owns the
// department; empty means the item is common to every signed-in user.
type MenuItem struct {
	Title       string
	Path        string
	Designation string
}

var commonItems = []MenuItem{
	{Title: "Home", Path: "home"},
	{Title: "Dashboard", Path: "dashboard"},
	{Title: "Tasks", Path: "tasks"},
	{Title: "Meetings", Path: "meetings"},
	{Title: "Apply for Leave", Path: "apply-leave"},
	{Title: "My Leave Requests", Path: "leaves"},
}

var departmentItems = []MenuItem{
	{Title: "Sales", Path: "sales", Designation: "sales"},
	{Title: "Finance", Path: "finance", Designation: authz.RoleFinance},
	{Title: "HR", Path: "hr", Designation: authz.RoleHR},
	{Title: "Tech Support", Path: "techsupport", Designation: authz.RoleTechSupport},
}

var managementItems = []MenuItem{
	{Title: "Leave Management", Path: "leave-management"},
	{Title: "User Management", Path: "user-management"},
}

// MenuFor builds the visible menu for a role. Department items show for
// admin/superadmin or when the actor's role matches the department's
// designation exactly; management items require leave/user management
// capability; the admin panel requires admin or superadmin.
func MenuFor(role string) []MenuItem {
	items := make([]MenuItem, 0, len(commonItems)+len(departmentItems)+len(managementItems)+1)
	items = append(items, commonItems...)

	normalized := strings.ToLower(strings.TrimSpace(role))
	for _, item := range departmentItems {
		if authz.IsAdminOrSuperadmin(role) || normalized == item.Designation {
			items = append(items, item)
		}
	}

	if authz.CanManageLeave(role) {
		items = append(items, managementItems[0])
	}
	if authz.CanManageUsers(role) {
		items = append(items, managementItems[1])
	}
	if authz.CanAccessAdminPanel(role) {
		items = append(items, MenuItem{Title: "Admin", Path: "admin"})
	}
	return items
}
