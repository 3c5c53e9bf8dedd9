package models

import "time"

// CategoryKind tells which content type a Category groups.
type CategoryKind string

const (
	// CategoryKindEvent groups events.
	CategoryKindEvent CategoryKind = "event"
	// CategoryKindAnnouncement groups announcements.
	CategoryKindAnnouncement CategoryKind = "announcement"
)

// Category groups events or announcements.
type Category struct {
	Base
	Name  string       `gorm:"size:100;not null"            json:"name"  validate:"required,max=100"`
	Slug  string       `gorm:"size:120;uniqueIndex;not null" json:"slug"  validate:"required,max=120"`
	Kind  CategoryKind `gorm:"size:20;not null"             json:"kind"  validate:"required,oneof=event announcement"`
	Order int          `gorm:"column:sort_order" json:"order"`
}

// AuditName implements Entity.
func (c *Category) AuditName() string { return c.Name }

// Event is a public event of the association.
type Event struct {
	Base
	Title            string     `gorm:"size:200;not null"             json:"title"            validate:"required,max=200"`
	Slug             string     `gorm:"size:220;uniqueIndex;not null" json:"slug"             validate:"required,max=220"`
	Summary          string     `gorm:"size:500"                      json:"summary"          validate:"max=500"`
	Content          string     `gorm:"type:text"                     json:"content"`
	Location         string     `gorm:"size:255"                      json:"location"`
	StartsAt         time.Time  `gorm:"index"                         json:"startsAt"         validate:"required"`
	EndsAt           *time.Time `json:"endsAt"`
	CategoryID       *uint64    `gorm:"index"                         json:"categoryId"`
	ImageURL         string     `gorm:"size:500"                      json:"imageUrl"`
	Capacity         int        `json:"capacity"                      validate:"min=0"`
	Published        bool       `gorm:"index"                         json:"published"`
	ApplicationsOpen bool       `json:"applicationsOpen"`
}

// AuditName implements Entity.
func (e *Event) AuditName() string { return e.Title }

// Announcement is a news item.
type Announcement struct {
	Base
	Title       string     `gorm:"size:200;not null"             json:"title"       validate:"required,max=200"`
	Slug        string     `gorm:"size:220;uniqueIndex;not null" json:"slug"        validate:"required,max=220"`
	Summary     string     `gorm:"size:500"                      json:"summary"     validate:"max=500"`
	Content     string     `gorm:"type:text"                     json:"content"`
	CategoryID  *uint64    `gorm:"index"                         json:"categoryId"`
	ImageURL    string     `gorm:"size:500"                      json:"imageUrl"`
	Pinned      bool       `json:"pinned"`
	Published   bool       `gorm:"index"                         json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// AuditName implements Entity.
func (a *Announcement) AuditName() string { return a.Title }

// Partner is a supporting organisation shown on the site.
type Partner struct {
	Base
	Name       string `gorm:"size:150;not null" json:"name"       validate:"required,max=150"`
	LogoURL    string `gorm:"size:500"          json:"logoUrl"`
	WebsiteURL string `gorm:"size:500"          json:"websiteUrl" validate:"omitempty,url"`
	Order      int    `gorm:"column:sort_order" json:"order"`
	Active     bool   `json:"active"`
}

// AuditName implements Entity.
func (p *Partner) AuditName() string { return p.Name }

// Slider is one entry of the home page carousel.
type Slider struct {
	Base
	Title    string `gorm:"size:200;not null" json:"title"    validate:"required,max=200"`
	Subtitle string `gorm:"size:300"          json:"subtitle" validate:"max=300"`
	ImageURL string `gorm:"size:500;not null" json:"imageUrl" validate:"required"`
	LinkURL  string `gorm:"size:500"          json:"linkUrl"`
	Order    int    `gorm:"column:sort_order" json:"order"`
	Active   bool   `json:"active"`
}

// AuditName implements Entity.
func (s *Slider) AuditName() string { return s.Title }

// OrganizationCategory is a group of the organisation chart, e.g. "Board".
type OrganizationCategory struct {
	Base
	Name  string `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Order int    `gorm:"column:sort_order" json:"order"`
}

// AuditName implements Entity.
func (o *OrganizationCategory) AuditName() string { return o.Name }

// OrganizationMember is a person on the organisation chart.
type OrganizationMember struct {
	Base
	FullName   string `gorm:"size:150;not null" json:"fullName"   validate:"required,max=150"`
	Position   string `gorm:"size:150"          json:"position"   validate:"max=150"`
	PhotoURL   string `gorm:"size:500"          json:"photoUrl"`
	Bio        string `gorm:"type:text"         json:"bio"`
	Email      string `gorm:"size:255"          json:"email"      validate:"omitempty,email"`
	CategoryID uint64 `gorm:"index;not null"    json:"categoryId" validate:"required"`
	Order      int    `gorm:"column:sort_order" json:"order"`
	Active     bool   `json:"active"`
}

// AuditName implements Entity.
func (o *OrganizationMember) AuditName() string { return o.FullName }

// Statistic is a public counter, e.g. "Volunteers: 120".
type Statistic struct {
	Base
	Label string `gorm:"size:100;not null" json:"label" validate:"required,max=100"`
	Value string `gorm:"size:50;not null"  json:"value" validate:"required,max=50"`
	Icon  string `gorm:"size:50"           json:"icon"`
	Order int    `gorm:"column:sort_order" json:"order"`
}

// AuditName implements Entity.
func (s *Statistic) AuditName() string { return s.Label }
