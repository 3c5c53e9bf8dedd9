// Package logout ends admin sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
)

// Path is the logout route.
const Path = rbac.LogoutPath

// Service is the logout handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	a, ok := actor.From(c)
	if !ok {
		a, _ = s.deps.Actors.Resolve(c)
	}

	if err := s.deps.Sessions.End(c); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	if a.ID != 0 {
		s.deps.Record(c, s.deps.Entry(c, audit.ActionLogout, audit.EntityUser).
			WithEntity(a.ID, a.Username))
	}

	return c.Redirect(rbac.LoginPath)
}
