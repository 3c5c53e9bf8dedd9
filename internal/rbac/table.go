package rbac

import (
	"fmt"
	"sort"
)

// Grants maps every role to the permissions it holds.
type Grants map[Role][]Permission

// Table is the immutable permission matrix plus the ordered page rules.
// It is built once at startup and is safe for concurrent readers.
type Table struct {
	grants map[Role]map[Permission]struct{}
	rules  []PageRule
}

// NewTable validates grants and rules and builds a Table.
// Every known role must have an entry (possibly empty) and every referenced
// permission must be known.
func NewTable(grants Grants, rules []PageRule) (*Table, error) {
	t := &Table{
		grants: make(map[Role]map[Permission]struct{}, len(grants)),
		rules:  make([]PageRule, 0, len(rules)),
	}

	for _, role := range Roles() {
		perms, ok := grants[role]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotMapped, role)
		}

		set := make(map[Permission]struct{}, len(perms))

		for _, perm := range perms {
			if !perm.Valid() {
				return nil, fmt.Errorf("%w: %s (role %s)", ErrUnknownPermission, perm, role)
			}

			set[perm] = struct{}{}
		}

		t.grants[role] = set
	}

	for role := range grants {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
	}

	for _, rule := range rules {
		if err := rule.validate(); err != nil {
			return nil, err
		}

		rule.Prefix = CleanPath(rule.Prefix)
		t.rules = append(t.rules, rule)
	}

	return t, nil
}

// MustNewTable is like NewTable but panics on invalid input.
func MustNewTable(grants Grants, rules []PageRule) *Table {
	t, err := NewTable(grants, rules)
	if err != nil {
		panic(err)
	}

	return t
}

// DefaultGrants returns the permission matrix shipped with the application.
func DefaultGrants() Grants {
	content := []Permission{
		PermViewDashboard,
		PermManageEvents,
		PermManageAnnouncements,
		PermManageCategories,
		PermManagePartners,
		PermManageSliders,
		PermManageOrganizationMembers,
		PermManageOrganizationCategories,
		PermManageStatistics,
		PermManageMedia,
	}

	return Grants{
		RoleSuperAdmin: Permissions(),
		RoleAdmin:      Permissions(),
		RoleEditor:     content,
		RoleModerator: {
			PermViewDashboard,
			PermManageMemberApplications,
			PermManageEventApplications,
			PermManageNewsletter,
		},
		RoleViewer: {PermViewDashboard},
	}
}

// DefaultTable builds the Table from DefaultGrants and DefaultPageRules.
func DefaultTable() *Table {
	return MustNewTable(DefaultGrants(), DefaultPageRules())
}

// HasPermission reports whether role holds perm. Unknown roles are evaluated
// with the RoleViewer set.
func (t *Table) HasPermission(role Role, perm Permission) bool {
	set, ok := t.grants[role]
	if !ok {
		set = t.grants[RoleViewer]
	}

	_, has := set[perm]

	return has
}

// Permissions returns the sorted permission set of role.
func (t *Table) Permissions(role Role) []Permission {
	set, ok := t.grants[role]
	if !ok {
		set = t.grants[RoleViewer]
	}

	out := make([]Permission, 0, len(set))
	for perm := range set {
		out = append(out, perm)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Rules returns a copy of the ordered page rules.
func (t *Table) Rules() []PageRule {
	out := make([]PageRule, len(t.rules))
	copy(out, t.rules)

	return out
}
