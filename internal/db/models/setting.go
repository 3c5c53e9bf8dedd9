// Package models contains database model definitions.
package models

import "time"

// Setting is a named JSON blob. Typed views over it live in the controller packages.
type Setting struct {
	ID        uint64    `gorm:"primaryKey"                 json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100"       json:"name"`
	Value     []byte    `gorm:"type:blob"                  json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
