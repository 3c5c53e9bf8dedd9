// Package settings serves the site-wide settings: a public read endpoint and
// the admin read and update endpoints.
package settings

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/controller/site"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

const (
	// PublicPath is the public settings endpoint.
	PublicPath = handler.APIPath + "/settings"
	// AdminPath is the admin settings endpoint.
	AdminPath = handler.AdminAPIPath + "/settings"
)

// Service handles the settings routes.
type Service struct {
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(PublicPath, s.Get)

	g := deps.Admin(app, "/settings", rbac.PermManageSettings)
	g.Get(handler.RootPath, s.Get)
	g.Put(handler.RootPath, s.Update)

	return nil
}

// Get returns the current settings.
func (s *Service) Get(c *fiber.Ctx) error {
	current, err := site.Load(c.UserContext(), s.deps.DB, s.deps.Cfg.Title)
	if err != nil {
		return handler.Internal(c, err, "load settings failed")
	}

	return c.JSON(current)
}

// Update merges the JSON body into the stored settings.
func (s *Service) Update(c *fiber.Ctx) error {
	current, err := site.Load(c.UserContext(), s.deps.DB, s.deps.Cfg.Title)
	if err != nil {
		return handler.Internal(c, err, "load settings failed")
	}

	before, _ := audit.Snapshot(current)

	if err = c.BodyParser(&current); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err = s.deps.Validate.Struct(current); err != nil {
		return handler.Invalid(c, err)
	}

	if err = current.Save(c.UserContext(), s.deps.DB); err != nil {
		return handler.Internal(c, err, "save settings failed")
	}

	changes := audit.Diff(before, current)

	entry := s.deps.Entry(c, audit.ActionUpdate, audit.EntitySetting).WithChanges(changes)
	entry.EntityName = site.SettingKey

	s.deps.Record(c, entry)

	return c.JSON(current)
}
