package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/config"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/upload"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
	"github.com/AssocCMS/AssocCMS/internal/web/session"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New("handler dependencies are incomplete")

// Deps are the shared dependencies of all handlers.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Table    *rbac.Table
	Audit    *audit.Writer
	Sessions *session.Store
	Actors   *actor.Resolver
	Validate *validator.Validate
	Uploads  upload.Storage
}

// Check reports ErrMissingDeps when a field every handler relies on is nil.
func (d *Deps) Check() error {
	if d == nil || d.Cfg == nil || d.DB == nil || d.Table == nil || d.Audit == nil ||
		d.Sessions == nil || d.Actors == nil || d.Validate == nil {
		return ErrMissingDeps
	}

	return nil
}

// Admin returns the admin API group prefix of app. Every route of the group
// needs an actor holding perm.
func (d *Deps) Admin(app *fiber.App, prefix string, perm rbac.Permission) fiber.Router {
	return app.Group(AdminAPIPath+prefix, d.Actors.Middleware(), d.Allow(perm))
}

// Allow is RequirePermission bound to the permission table.
func (d *Deps) Allow(perm rbac.Permission) fiber.Handler {
	return actor.RequirePermission(d.Table, perm)
}

// Entry starts an audit entry for the actor of c.
func (d *Deps) Entry(c *fiber.Ctx, action audit.Action, entity audit.EntityType) audit.Entry {
	a, _ := actor.From(c)

	return audit.EntryFromRequest(c, a.ID, action, entity)
}

// Record writes e after the primary operation succeeded. The outcome never
// changes the response.
func (d *Deps) Record(c *fiber.Ctx, e audit.Entry) {
	d.Audit.LogAdminAction(c.UserContext(), e)
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
