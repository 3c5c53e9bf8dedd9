// Package dashboard renders the server side admin pages: the dashboard, the
// forbidden page and one page per admin section.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/media"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
	"github.com/AssocCMS/AssocCMS/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = rbac.AdminPrefix

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"
	// TemplateSection renders an admin section.
	TemplateSection = "admin/section"
	// TemplateForbidden renders the forbidden page.
	TemplateForbidden = "admin/forbidden"
)

// Tile is one counter of the dashboard.
type Tile struct {
	Title string
	URL   string
	Count int64
}

// counted maps a section permission to the model counted on its tile.
var counted = map[rbac.Permission]any{ //nolint:gochecknoglobals
	rbac.PermManageEvents:              &models.Event{},
	rbac.PermManageAnnouncements:       &models.Announcement{},
	rbac.PermManagePartners:            &models.Partner{},
	rbac.PermManageOrganizationMembers: &models.OrganizationMember{},
	rbac.PermManageUsers:               &models.User{},
	rbac.PermManageMemberApplications:  &models.MemberApplication{},
	rbac.PermManageEventApplications:   &models.EventApplication{},
	rbac.PermManageNewsletter:          &models.NewsletterSubscriber{},
	rbac.PermManageMedia:               &models.Media{},
}

// Service is the dashboard handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Get)
	app.Get(rbac.ForbiddenPath, s.Forbidden)

	for _, rule := range deps.Table.Rules() {
		if rule.Permission == "" || rule.Permission == rbac.PermViewDashboard {
			continue
		}

		app.Get(rule.Prefix, s.Section(rule))

		if !rule.Exact {
			app.Get(rule.Prefix+"/*", s.Section(rule))
		}
	}

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", Path).
		AddBreadcrumb("Home", Path, true)

	return s.deps.Render(c, TemplateName, fiber.Map{
		"Navigation": nav,
		"Tiles":      s.tiles(c),
	})
}

// tiles counts the records of every section the actor may manage.
func (s *Service) tiles(c *fiber.Ctx) []Tile {
	a, _ := actor.From(c)

	var tiles []Tile

	for _, rule := range s.deps.Table.Sections(a.Role) {
		model, ok := counted[rule.Permission]
		if !ok {
			continue
		}

		t := Tile{Title: rule.Title, URL: rule.Prefix}
		if err := s.deps.DB.WithContext(c.UserContext()).Model(model).Count(&t.Count).Error; err != nil {
			log.Error().Err(err).Str("section", rule.Title).Msg("count for dashboard failed")
		}

		tiles = append(tiles, t)
	}

	return tiles
}

// Forbidden renders the page denied requests are redirected to.
func (s *Service) Forbidden(c *fiber.Ctx) error {
	nav := navigation.NewContext("Forbidden", "").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Forbidden", rbac.ForbiddenPath, true)

	c.Status(fiber.StatusForbidden)

	return s.deps.Render(c, TemplateForbidden, fiber.Map{"Navigation": nav})
}

// Section renders the page of one admin section.
func (s *Service) Section(rule rbac.PageRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.deps.Render(c, TemplateSection, fiber.Map{
			"Navigation": navigation.ForRule(rule),
			"Section":    rule,
			"API":        apiPath(rule.Prefix),
		})
	}
}

// apiPath returns the admin API endpoint behind the section at prefix.
func apiPath(prefix string) string {
	if prefix == rbac.AdminPrefix+"/media" {
		return media.Path
	}

	return handler.AdminAPIPath + prefix[len(rbac.AdminPrefix):]
}
