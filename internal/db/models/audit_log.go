package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one append-only record of an administrative action.
// There is no update or delete path for this table.
type AuditLog struct {
	ID         uint64            `gorm:"primaryKey"            json:"id"`
	UserID     uint64            `gorm:"index;not null"        json:"userId"`
	Action     string            `gorm:"size:20;index;not null" json:"action"`
	EntityType string            `gorm:"size:40;index;not null" json:"entityType"`
	EntityID   *uint64           `gorm:"index"                 json:"entityId,omitempty"`
	EntityName string            `gorm:"size:255"              json:"entityName,omitempty"`
	Changes    datatypes.JSON    `json:"changes,omitempty"`
	IPAddress  string            `gorm:"size:64"               json:"ipAddress,omitempty"`
	UserAgent  string            `gorm:"size:512"              json:"userAgent,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"index"                 json:"createdAt"`
}
