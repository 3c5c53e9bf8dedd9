package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Role
	}{
		{"super admin", "SUPER_ADMIN", RoleSuperAdmin},
		{"lower case admin", "admin", RoleAdmin},
		{"padded editor", "  Editor ", RoleEditor},
		{"moderator", "MODERATOR", RoleModerator},
		{"viewer", "VIEWER", RoleViewer},
		{"empty", "", RoleViewer},
		{"unknown", "ROOT", RoleViewer},
		{"almost super admin", "SUPER-ADMIN", RoleViewer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRole(tt.raw))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("editor")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, r)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestIsSuperAdmin(t *testing.T) {
	for _, r := range Roles() {
		assert.Equal(t, r == RoleSuperAdmin, IsSuperAdmin(r), r)
	}

	assert.False(t, IsSuperAdmin(Role("super_admin")))
}

func TestHasPermission_DefaultMatrix(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleSuperAdmin, PermManageUsers, true},
		{RoleSuperAdmin, PermViewAuditLogs, true},
		{RoleAdmin, PermManageUsers, true},
		{RoleAdmin, PermManageSettings, true},
		{RoleEditor, PermManageEvents, true},
		{RoleEditor, PermManageMedia, true},
		{RoleEditor, PermManageUsers, false},
		{RoleEditor, PermManageMemberApplications, false},
		{RoleModerator, PermManageMemberApplications, true},
		{RoleModerator, PermManageNewsletter, true},
		{RoleModerator, PermManageEvents, false},
		{RoleViewer, PermViewDashboard, true},
		{RoleViewer, PermManageEvents, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			assert.Equal(t, tt.want, table.HasPermission(tt.role, tt.perm))
		})
	}
}

func TestHasPermission_UnknownRoleIsViewer(t *testing.T) {
	table := DefaultTable()

	for _, role := range []Role{"", "ROOT", "admin", "SUPER_ADMIN "} {
		for _, perm := range Permissions() {
			assert.Equal(t,
				table.HasPermission(RoleViewer, perm),
				table.HasPermission(role, perm),
				"role %q perm %s", role, perm,
			)
		}
	}
}

func TestHasPermission_IsPure(t *testing.T) {
	table := DefaultTable()

	for _, role := range append(Roles(), "", "UNKNOWN") {
		for _, perm := range append(Permissions(), "NOT_A_PERMISSION") {
			first := table.HasPermission(role, perm)
			for range 3 {
				assert.Equal(t, first, table.HasPermission(role, perm))
			}
		}
	}
}

func TestPermissions_Sorted(t *testing.T) {
	table := DefaultTable()

	got := table.Permissions(RoleModerator)
	assert.Equal(t, []Permission{
		PermManageEventApplications,
		PermManageMemberApplications,
		PermManageNewsletter,
		PermViewDashboard,
	}, got)

	assert.Equal(t, []Permission{PermViewDashboard}, table.Permissions("nobody"))
}

func TestNewTable_Validation(t *testing.T) {
	t.Run("missing role", func(t *testing.T) {
		grants := DefaultGrants()
		delete(grants, RoleModerator)

		_, err := NewTable(grants, nil)
		assert.ErrorIs(t, err, ErrRoleNotMapped)
	})

	t.Run("unknown permission", func(t *testing.T) {
		grants := DefaultGrants()
		grants[RoleViewer] = []Permission{"MANAGE_EVERYTHING"}

		_, err := NewTable(grants, nil)
		assert.ErrorIs(t, err, ErrUnknownPermission)
	})

	t.Run("unknown role", func(t *testing.T) {
		grants := DefaultGrants()
		grants["OWNER"] = nil

		_, err := NewTable(grants, nil)
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("empty set is allowed", func(t *testing.T) {
		grants := DefaultGrants()
		grants[RoleViewer] = nil

		table, err := NewTable(grants, nil)
		require.NoError(t, err)
		assert.False(t, table.HasPermission(RoleViewer, PermViewDashboard))
		assert.False(t, table.HasPermission("UNKNOWN", PermViewDashboard))
	})

	t.Run("relative page prefix", func(t *testing.T) {
		_, err := NewTable(DefaultGrants(), []PageRule{{Prefix: "admin/x"}})
		assert.ErrorIs(t, err, ErrInvalidPageRule)
	})

	t.Run("page rule with unknown permission", func(t *testing.T) {
		_, err := NewTable(DefaultGrants(), []PageRule{{Prefix: "/admin/x", Permission: "NOPE"}})
		assert.ErrorIs(t, err, ErrUnknownPermission)
	})

	t.Run("grants are copied", func(t *testing.T) {
		grants := DefaultGrants()
		table, err := NewTable(grants, nil)
		require.NoError(t, err)

		grants[RoleViewer] = append(grants[RoleViewer], PermManageUsers)
		assert.False(t, table.HasPermission(RoleViewer, PermManageUsers))
	})
}

func TestMustNewTable_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewTable(Grants{}, nil)
	})
}
