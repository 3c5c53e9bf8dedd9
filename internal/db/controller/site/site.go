// Package site holds the typed site-wide settings shown on the public site.
package site

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/db/controller/setting"
)

// SettingKey is the settings row holding the site settings.
const SettingKey = "site"

// Social holds the social network links of the association.
type Social struct {
	Facebook  string `json:"facebook"  validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	X         string `json:"x"         validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin"  validate:"omitempty,url"`
	YouTube   string `json:"youtube"   validate:"omitempty,url"`
}

// Settings are the site-wide settings.
type Settings struct {
	Title        string `json:"title"        validate:"required,max=150"`
	Tagline      string `json:"tagline"      validate:"max=300"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Phone        string `json:"phone"        validate:"max=50"`
	Address      string `json:"address"      validate:"max=500"`
	Social       Social `json:"social"`
	Maintenance  bool   `json:"maintenance"`
}

// Defaults returns the settings used before anything was saved.
func Defaults(title string) Settings {
	if title == "" {
		title = "Association"
	}

	return Settings{Title: title}
}

// Load loads the site settings. A missing row yields Defaults(fallbackTitle).
func Load(ctx context.Context, db *gorm.DB, fallbackTitle string) (Settings, error) {
	s := Defaults(fallbackTitle)

	err := setting.LoadJSON(ctx, db, SettingKey, &s)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return Defaults(fallbackTitle), nil
	}

	return s, err
}

// Save stores s.
func (s *Settings) Save(ctx context.Context, db *gorm.DB) error {
	return setting.SaveJSON(ctx, db, SettingKey, s)
}
