package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/auth"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = rbac.LoginPath

	// TemplateName is the login page template.
	TemplateName = "login"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Service is the login handler service.
type Service struct {
	deps     *handler.Deps
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, s.view(""))
}

func (s *Service) view(msg string) fiber.Map {
	m := fiber.Map{
		"Title":        s.deps.Cfg.Title,
		"oidc_enabled": s.deps.Cfg.OIDC.Enabled,
	}

	if msg != "" {
		m["error"] = msg
	}

	return m
}

// Post handles the login form submission. JSON requests get JSON answers,
// form posts are redirected or re-rendered.
func (s *Service) Post(c *fiber.Ctx) error {
	wantsJSON := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

	fail := func(status int, err error) error {
		if wantsJSON {
			return handler.Message(c, status, err.Error())
		}

		return c.Status(status).Render(TemplateName, s.view(err.Error()))
	}

	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return fail(fiber.StatusBadRequest, ErrInvalidFormData)
	}

	user, err := s.provider.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
			return fail(fiber.StatusUnauthorized, ErrInvalidCredentials)
		case errors.Is(err, auth.ErrUserAccountDisabled):
			return fail(fiber.StatusForbidden, ErrAccountDisabled)
		default:
			log.Error().Err(err).Msg("login failed")

			return fail(fiber.StatusInternalServerError, ErrInternalServerError)
		}
	}

	if err = Start(c, s.deps, user); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return fail(fiber.StatusInternalServerError, ErrInternalServerError)
	}

	if wantsJSON {
		a := auth.NewActor(user)

		return c.JSON(fiber.Map{"id": a.ID, "username": a.Username, "role": a.Role})
	}

	return c.Redirect(rbac.AdminPrefix)
}

// Start opens a session for user and records the LOGIN. It is shared by every
// authentication method.
func Start(c *fiber.Ctx, deps *handler.Deps, user *models.User) error {
	a := auth.NewActor(user)

	err := deps.Sessions.Start(c, &session.Data{UserID: a.ID, Username: a.Username, Role: a.Role.String()})
	if err != nil {
		return err
	}

	deps.Record(c, audit.EntryFromRequest(c, a.ID, audit.ActionLogin, audit.EntityUser).
		WithEntity(a.ID, a.Username).
		WithMetadata(map[string]any{"authSource": string(user.AuthSource)}))

	log.Info().Str("username", a.Username).Str("source", string(user.AuthSource)).Msg("user logged in")

	return nil
}
