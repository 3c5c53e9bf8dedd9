package rbac

import (
	"fmt"
	"path"
	"strings"
)

const (
	// AdminPrefix is the URL prefix of the admin panel.
	AdminPrefix = "/admin"
	// LoginPath is always accessible, whatever the role.
	LoginPath = AdminPrefix + "/login"
	// ForbiddenPath is where denied page requests are redirected.
	ForbiddenPath = AdminPrefix + "/forbidden"
	// LogoutPath ends the admin session.
	LogoutPath = AdminPrefix + "/logout"
)

// PageRule maps an admin URL prefix to the permission required to view it.
type PageRule struct {
	// Prefix is matched on path segment boundaries: "/admin/events" matches
	// "/admin/events" and "/admin/events/3" but not "/admin/eventsx".
	Prefix string
	// Exact restricts the match to Prefix itself.
	Exact bool
	// Permission required to view the page. Empty means any role may view it.
	Permission Permission
	// Title is the menu label of the section.
	Title string
}

func (r PageRule) validate() error {
	if r.Prefix == "" || !strings.HasPrefix(r.Prefix, "/") {
		return fmt.Errorf("%w: prefix %q", ErrInvalidPageRule, r.Prefix)
	}

	if r.Permission != "" && !r.Permission.Valid() {
		return fmt.Errorf("%w: %s (page %s)", ErrUnknownPermission, r.Permission, r.Prefix)
	}

	return nil
}

func (r PageRule) matches(p string) bool {
	if p == r.Prefix {
		return true
	}

	return !r.Exact && strings.HasPrefix(p, r.Prefix+"/")
}

// DefaultPageRules returns the ordered admin page rules.
func DefaultPageRules() []PageRule {
	return []PageRule{
		{Prefix: ForbiddenPath, Title: "Forbidden"},
		{Prefix: LogoutPath, Exact: true, Title: "Logout"},
		{Prefix: AdminPrefix, Exact: true, Permission: PermViewDashboard, Title: "Dashboard"},
		{Prefix: AdminPrefix + "/events", Permission: PermManageEvents, Title: "Events"},
		{Prefix: AdminPrefix + "/announcements", Permission: PermManageAnnouncements, Title: "Announcements"},
		{Prefix: AdminPrefix + "/categories", Permission: PermManageCategories, Title: "Categories"},
		{Prefix: AdminPrefix + "/partners", Permission: PermManagePartners, Title: "Partners"},
		{Prefix: AdminPrefix + "/sliders", Permission: PermManageSliders, Title: "Sliders"},
		{
			Prefix:     AdminPrefix + "/organization/members",
			Permission: PermManageOrganizationMembers,
			Title:      "Organization members",
		},
		{
			Prefix:     AdminPrefix + "/organization/categories",
			Permission: PermManageOrganizationCategories,
			Title:      "Organization categories",
		},
		{Prefix: AdminPrefix + "/statistics", Permission: PermManageStatistics, Title: "Statistics"},
		{Prefix: AdminPrefix + "/settings", Permission: PermManageSettings, Title: "Settings"},
		{Prefix: AdminPrefix + "/users", Permission: PermManageUsers, Title: "Users"},
		{Prefix: AdminPrefix + "/form-fields", Permission: PermManageFormFields, Title: "Form fields"},
		{
			Prefix:     AdminPrefix + "/applications/members",
			Permission: PermManageMemberApplications,
			Title:      "Membership applications",
		},
		{
			Prefix:     AdminPrefix + "/applications/events",
			Permission: PermManageEventApplications,
			Title:      "Event applications",
		},
		{Prefix: AdminPrefix + "/newsletter", Permission: PermManageNewsletter, Title: "Newsletter"},
		{Prefix: AdminPrefix + "/media", Permission: PermManageMedia, Title: "Media"},
		{Prefix: AdminPrefix + "/audit-logs", Permission: PermViewAuditLogs, Title: "Audit logs"},
	}
}

// CleanPath normalises a request path for rule matching: lower case, a
// leading slash, no duplicate or trailing slashes, no dot segments.
func CleanPath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return path.Clean(p)
}

// IsAdminPath reports whether p lies under AdminPrefix.
func IsAdminPath(p string) bool {
	p = CleanPath(p)

	return p == AdminPrefix || strings.HasPrefix(p, AdminPrefix+"/")
}

// IsLoginPath reports whether p is the login page or one of its sub paths.
func IsLoginPath(p string) bool {
	p = CleanPath(p)

	return p == LoginPath || strings.HasPrefix(p, LoginPath+"/")
}

// CanAccessPage reports whether role may view the page at p.
// The login page is always accessible. The first matching rule decides;
// unmatched admin paths are denied and non-admin paths are allowed.
func (t *Table) CanAccessPage(role Role, p string) bool {
	p = CleanPath(p)

	if IsLoginPath(p) {
		return true
	}

	for _, rule := range t.rules {
		if !rule.matches(p) {
			continue
		}

		if rule.Permission == "" {
			return true
		}

		return t.HasPermission(role, rule.Permission)
	}

	return !IsAdminPath(p)
}

// Sections returns the page rules with a permission that role may view, in
// rule order. It drives the admin menu.
func (t *Table) Sections(role Role) []PageRule {
	out := make([]PageRule, 0, len(t.rules))

	for _, rule := range t.rules {
		if rule.Permission == "" {
			continue
		}

		if t.HasPermission(role, rule.Permission) {
			out = append(out, rule)
		}
	}

	return out
}
