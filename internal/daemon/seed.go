package daemon

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/config"
	"github.com/AssocCMS/AssocCMS/internal/db/controller/site"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

// minAdminPassword is the shortest password accepted for the seeded account.
const minAdminPassword = 8

// seed creates the first SUPER_ADMIN from cfg.Admin while no user exists and
// stores the default site settings while none are saved.
func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count users")
	}

	if count == 0 {
		if err := seedAdmin(db, cfg.Admin); err != nil {
			return err
		}
	}

	s, err := site.Load(ctx, db, cfg.Title)
	if err != nil {
		return errors.Wrap(err, "failed to load site settings")
	}

	return errors.Wrap(s.Save(ctx, db), "failed to store site settings")
}

func seedAdmin(db *gorm.DB, a config.Admin) error {
	if len(a.Password) < minAdminPassword {
		return ErrWeakAdminPassword
	}

	username := a.Username
	if username == "" {
		username = "admin"
	}

	u := models.User{
		Username:   username,
		Email:      strings.ToLower(a.Email),
		Role:       rbac.RoleSuperAdmin.String(),
		AuthSource: models.AuthSourceLocal,
		Active:     true,
	}

	if err := u.SetPassword(a.Password); err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	if err := db.Create(&u).Error; err != nil {
		return errors.Wrap(err, "failed to create admin user")
	}

	log.Warn().Str("username", u.Username).Msg("created initial super admin, change its password")

	return nil
}
