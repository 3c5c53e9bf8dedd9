package models

import (
	"time"

	"gorm.io/datatypes"
)

// FormKind names the public form a FormField belongs to.
type FormKind string

const (
	// FormMember is the membership application form.
	FormMember FormKind = "member"
	// FormEvent is the event registration form.
	FormEvent FormKind = "event"
)

// FormField is one admin configured question of a public form.
type FormField struct {
	Base
	Form     FormKind                    `gorm:"size:20;index;not null" json:"form"     validate:"required,oneof=member event"`
	Name     string                      `gorm:"size:64;not null"       json:"name"     validate:"required,max=64,alphanum"`
	Label    string                      `gorm:"size:200;not null"      json:"label"    validate:"required,max=200"`
	Type     string                      `gorm:"size:20;not null"       json:"type"     validate:"required,oneof=text email tel textarea select checkbox date number"` //nolint:lll
	Options  datatypes.JSONSlice[string] `json:"options"`
	Required bool                        `json:"required"`
	Order    int                         `gorm:"column:sort_order" json:"order"`
	Active   bool                        `json:"active"`
}

// AuditName implements Entity.
func (f *FormField) AuditName() string { return f.Label }

// ApplicationStatus is the processing state of an application.
type ApplicationStatus string

const (
	// StatusPending is the initial state of every application.
	StatusPending ApplicationStatus = "PENDING"
	// StatusApproved marks an accepted application.
	StatusApproved ApplicationStatus = "APPROVED"
	// StatusRejected marks a declined application.
	StatusRejected ApplicationStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Applicant holds the fields shared by member and event applications.
type Applicant struct {
	FullName string            `gorm:"size:150;not null"       json:"fullName"`
	Email    string            `gorm:"size:255;index;not null" json:"email"`
	Phone    string            `gorm:"size:50"                 json:"phone"`
	Answers  datatypes.JSONMap `json:"answers"`
	Status   ApplicationStatus `gorm:"size:20;index;not null;default:'PENDING'" json:"status"`
	Note     string            `gorm:"type:text" json:"note"`
}

// ApplicantFields returns the embedded Applicant.
func (a *Applicant) ApplicantFields() *Applicant {
	return a
}

// Application is a Record carrying an Applicant.
type Application interface {
	Record
	ApplicantFields() *Applicant
}

// MemberApplication is a membership request sent from the public site.
type MemberApplication struct {
	Base
	Applicant
}

// AuditName implements Entity.
func (m *MemberApplication) AuditName() string { return m.FullName }

// EventApplication is a registration for one event.
type EventApplication struct {
	Base
	EventID uint64 `gorm:"index;not null" json:"eventId"`
	Applicant
}

// AuditName implements Entity.
func (e *EventApplication) AuditName() string { return e.FullName }

// NewsletterSubscriber is one newsletter address.
type NewsletterSubscriber struct {
	Base
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Token          string     `gorm:"size:36;uniqueIndex;not null"  json:"-"`
	Active         bool       `json:"active"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt"`
}

// AuditName implements Entity.
func (n *NewsletterSubscriber) AuditName() string { return n.Email }

// Media is an uploaded file.
type Media struct {
	Base
	OriginalName string `gorm:"size:255;not null"            json:"originalName"`
	StorageKey   string `gorm:"size:255;uniqueIndex;not null" json:"storageKey"`
	URL          string `gorm:"size:500;not null"            json:"url"`
	MimeType     string `gorm:"size:100;not null"            json:"mimeType"`
	Size         int64  `json:"size"`
	Provider     string `gorm:"size:20;not null"             json:"provider"`
	UploadedBy   uint64 `gorm:"index"                        json:"uploadedBy"`
}

// AuditName implements Entity.
func (m *Media) AuditName() string { return m.OriginalName }
