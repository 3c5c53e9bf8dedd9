package rbac

// Permission is an atomic capability tag for one manageable resource.
type Permission string

// Permission constants define the capabilities checked by admin pages and
// admin API routes.
const (
	// PermViewDashboard allows viewing the admin dashboard.
	PermViewDashboard Permission = "VIEW_DASHBOARD"

	// PermManageEvents allows creating, editing and deleting events.
	PermManageEvents Permission = "MANAGE_EVENTS"
	// PermManageAnnouncements allows creating, editing and deleting announcements.
	PermManageAnnouncements Permission = "MANAGE_ANNOUNCEMENTS"
	// PermManageCategories allows managing event and announcement categories.
	PermManageCategories Permission = "MANAGE_CATEGORIES"
	// PermManagePartners allows managing partner organisations shown on the site.
	PermManagePartners Permission = "MANAGE_PARTNERS"
	// PermManageSliders allows managing home page slider entries.
	PermManageSliders Permission = "MANAGE_SLIDERS"
	// PermManageOrganizationMembers allows managing the people of the organisation chart.
	PermManageOrganizationMembers Permission = "MANAGE_ORGANIZATION_MEMBERS"
	// PermManageOrganizationCategories allows managing the groups of the organisation chart.
	PermManageOrganizationCategories Permission = "MANAGE_ORGANIZATION_CATEGORIES"
	// PermManageStatistics allows managing the public statistics counters.
	PermManageStatistics Permission = "MANAGE_STATISTICS"
	// PermManageSettings allows changing site-wide settings.
	PermManageSettings Permission = "MANAGE_SETTINGS"
	// PermManageUsers allows managing admin accounts.
	PermManageUsers Permission = "MANAGE_USERS"
	// PermManageFormFields allows configuring the fields of application forms.
	PermManageFormFields Permission = "MANAGE_FORM_FIELDS"
	// PermManageMemberApplications allows processing membership applications.
	PermManageMemberApplications Permission = "MANAGE_MEMBER_APPLICATIONS"
	// PermManageEventApplications allows processing event registrations.
	PermManageEventApplications Permission = "MANAGE_EVENT_APPLICATIONS"
	// PermManageNewsletter allows managing newsletter subscribers.
	PermManageNewsletter Permission = "MANAGE_NEWSLETTER"
	// PermManageMedia allows uploading and deleting media files.
	PermManageMedia Permission = "MANAGE_MEDIA"
	// PermViewAuditLogs allows browsing the audit trail.
	PermViewAuditLogs Permission = "VIEW_AUDIT_LOGS"
)

// Permissions lists every known permission.
func Permissions() []Permission {
	return []Permission{
		PermViewDashboard,
		PermManageEvents,
		PermManageAnnouncements,
		PermManageCategories,
		PermManagePartners,
		PermManageSliders,
		PermManageOrganizationMembers,
		PermManageOrganizationCategories,
		PermManageStatistics,
		PermManageSettings,
		PermManageUsers,
		PermManageFormFields,
		PermManageMemberApplications,
		PermManageEventApplications,
		PermManageNewsletter,
		PermManageMedia,
		PermViewAuditLogs,
	}
}

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	for _, known := range Permissions() {
		if p == known {
			return true
		}
	}

	return false
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}
