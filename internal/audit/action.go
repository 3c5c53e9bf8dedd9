package audit

// Action is the kind of administrative action recorded.
type Action string

// Known actions.
const (
	ActionCreate       Action = "CREATE"
	ActionUpdate       Action = "UPDATE"
	ActionDelete       Action = "DELETE"
	ActionLogin        Action = "LOGIN"
	ActionLogout       Action = "LOGOUT"
	ActionStatusChange Action = "STATUS_CHANGE"
	ActionUpload       Action = "UPLOAD"
	ActionExport       Action = "EXPORT"
)

// EntityType tags the kind of entity an entry refers to.
type EntityType string

// Known entity types.
const (
	EntityEvent                EntityType = "EVENT"
	EntityAnnouncement         EntityType = "ANNOUNCEMENT"
	EntityCategory             EntityType = "CATEGORY"
	EntityPartner              EntityType = "PARTNER"
	EntitySlider               EntityType = "SLIDER"
	EntityOrganizationMember   EntityType = "ORGANIZATION_MEMBER"
	EntityOrganizationCategory EntityType = "ORGANIZATION_CATEGORY"
	EntityStatistic            EntityType = "STATISTIC"
	EntitySetting              EntityType = "SETTING"
	EntityUser                 EntityType = "USER"
	EntityFormField            EntityType = "FORM_FIELD"
	EntityMemberApplication    EntityType = "MEMBER_APPLICATION"
	EntityEventApplication     EntityType = "EVENT_APPLICATION"
	EntityNewsletterSubscriber EntityType = "NEWSLETTER_SUBSCRIBER"
	EntityMedia                EntityType = "MEDIA"
)
