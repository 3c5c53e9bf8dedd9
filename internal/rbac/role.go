package rbac

import "strings"

// Role is the access role attached to a user account.
type Role string

const (
	// RoleSuperAdmin holds every permission and is the only role allowed to
	// delete user accounts or to promote users to RoleSuperAdmin.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleAdmin manages content, users and settings.
	RoleAdmin Role = "ADMIN"
	// RoleEditor manages public content.
	RoleEditor Role = "EDITOR"
	// RoleModerator processes applications and newsletter subscriptions.
	RoleModerator Role = "MODERATOR"
	// RoleViewer may only look at the dashboard.
	RoleViewer Role = "VIEWER"
)

// Roles lists every known role, most privileged first.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleModerator, RoleViewer}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleModerator, RoleViewer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole strictly parses user input (e.g. an admin assigning a role).
// Unlike NormalizeRole it reports unknown values instead of downgrading them.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}

	return r, nil
}

// NormalizeRole turns a raw role value from a session or a user row into a Role.
// Empty and unknown values become RoleViewer.
func NormalizeRole(raw string) Role {
	r, err := ParseRole(raw)
	if err != nil {
		return RoleViewer
	}

	return r
}

// IsSuperAdmin reports whether r is the top role.
func IsSuperAdmin(r Role) bool {
	return r == RoleSuperAdmin
}
