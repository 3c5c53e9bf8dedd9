package models

import "time"

// Entity is implemented by every model managed through the admin API.
type Entity interface {
	// GetID returns the primary key.
	GetID() uint64
	// AuditName returns the human readable label stored with audit entries.
	AuditName() string
}

// Record is an Entity embedding Base.
type Record interface {
	Entity
	BaseFields() *Base
}

// Base holds the gorm managed columns shared by the content models.
type Base struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID implements Entity.
func (b *Base) GetID() uint64 {
	return b.ID
}

// BaseFields returns the embedded Base.
func (b *Base) BaseFields() *Base {
	return b
}

// All returns every model for auto migration.
func All() []any {
	return []any{
		&User{},
		&Setting{},
		&AuditLog{},
		&Category{},
		&Event{},
		&Announcement{},
		&Partner{},
		&Slider{},
		&OrganizationCategory{},
		&OrganizationMember{},
		&Statistic{},
		&FormField{},
		&MemberApplication{},
		&EventApplication{},
		&NewsletterSubscriber{},
		&Media{},
	}
}
