package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/session"
)

func TestGuardNoSession(t *testing.T) {
	assert.Equal(t, RedirectLogin, Guard(nil, nil))
	assert.Equal(t, RedirectLogin, Guard(nil, []string{"admin"}))
}

func TestGuardAllowList(t *testing.T) {
	hrRoute, ok := Lookup("hr")
	require.True(t, ok)

	allRoles := []string{"superadmin", "admin", "hr", "user", "finance", "tech_support", "", "bogus"}
	allowed := map[string]bool{"admin": true, "superadmin": true, "hr": true}

	for _, role := range allRoles {
		sess := &session.Session{ID: "1", Role: role}
		decision := Guard(sess, hrRoute.AllowedRoles)
		if allowed[role] {
			assert.Equal(t, Render, decision, "role %q should render hr", role)
		} else {
			assert.Equal(t, RedirectHome, decision, "role %q should redirect from hr", role)
		}
	}
}

func TestGuardCaseInsensitive(t *testing.T) {
	sess := &session.Session{ID: "1", Role: "Admin"}
	route, _ := Lookup("admin")
	assert.Equal(t, Render, Guard(sess, route.AllowedRoles))
}

func TestGuardEmptyAllowListNeedsOnlyLogin(t *testing.T) {
	sess := &session.Session{ID: "1", Role: "user"}
	assert.Equal(t, Render, Guard(sess, nil))
}

func TestGuardReEvaluatesAfterLogout(t *testing.T) {
	route, _ := Lookup("leaves")
	sess := &session.Session{ID: "1", Role: "user"}
	assert.Equal(t, Render, Guard(sess, route.AllowedRoles))
	// After logout the same navigation must redirect.
	assert.Equal(t, RedirectLogin, Guard(nil, route.AllowedRoles))
}

func TestRouteTable(t *testing.T) {
	for _, path := range []string{"home", "dashboard", "tasks", "meetings", "apply-leave", "leaves"} {
		route, ok := Lookup(path)
		require.True(t, ok, path)
		assert.Empty(t, route.AllowedRoles, "%s should be open to any signed-in user", path)
	}

	admin, _ := Lookup("admin")
	assert.ElementsMatch(t, []string{"admin", "superadmin"}, admin.AllowedRoles)

	leaveMgmt, _ := Lookup("leave-management")
	assert.ElementsMatch(t, []string{"admin", "superadmin", "hr"}, leaveMgmt.AllowedRoles)

	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func menuPaths(items []MenuItem) []string {
	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.Path)
	}
	return paths
}

func TestMenuForAdminSeesAllDepartments(t *testing.T) {
	paths := menuPaths(MenuFor("admin"))
	for _, want := range []string{"sales", "finance", "hr", "techsupport", "leave-management", "user-management", "admin"} {
		assert.Contains(t, paths, want)
	}
}

func TestMenuForDepartmentMatch(t *testing.T) {
	paths := menuPaths(MenuFor("finance"))
	assert.Contains(t, paths, "finance")
	assert.NotContains(t, paths, "sales")
	assert.NotContains(t, paths, "hr")
	assert.NotContains(t, paths, "admin")
	assert.NotContains(t, paths, "leave-management")
}

func TestMenuForTechSupportExactDesignation(t *testing.T) {
	paths := menuPaths(MenuFor("tech_support"))
	assert.Contains(t, paths, "techsupport")
	assert.NotContains(t, paths, "finance")
}

func TestMenuForHr(t *testing.T) {
	paths := menuPaths(MenuFor("hr"))
	assert.Contains(t, paths, "hr")
	assert.Contains(t, paths, "leave-management")
	assert.Contains(t, paths, "user-management")
	// hr has management capability but no admin panel.
	assert.NotContains(t, paths, "admin")
}

func TestMenuForPlainUser(t *testing.T) {
	paths := menuPaths(MenuFor("user"))
	assert.Contains(t, paths, "home")
	assert.Contains(t, paths, "apply-leave")
	for _, forbidden := range []string{"sales", "finance", "hr", "techsupport", "admin", "leave-management", "user-management"} {
		assert.NotContains(t, paths, forbidden)
	}
}

func TestMenuForSuperadmin(t *testing.T) {
	paths := menuPaths(MenuFor("Superadmin"))
	for _, want := range []string{"sales", "finance", "hr", "techsupport", "admin"} {
		assert.Contains(t, paths, want)
	}
}
