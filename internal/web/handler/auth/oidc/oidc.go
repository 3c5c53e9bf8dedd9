// Package oidc provides the OpenID Connect single sign-on routes.
//
// The login route redirects to the identity provider with a fresh state and
// nonce kept in the session storage for five minutes. The callback verifies
// the state, exchanges the code, matches the verified email to an existing
// active account and opens a regular session.
package oidc

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AssocCMS/AssocCMS/internal/auth"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/login"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = rbac.LoginPath + "/oidc"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = LoginPath + "/callback"

	stateTTL = 5 * time.Minute
)

// Provider is the identity provider side of the flow.
type Provider interface {
	AuthURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (*auth.Claims, error)
}

// Service is the OIDC handler service.
type Service struct {
	deps *handler.Deps

	// Provider must be set before Init; routes are only registered when it is.
	Provider Provider
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	if s.Provider == nil {
		log.Info().Msg("OIDC authentication is disabled")

		return nil
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	return nil
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		return handler.Internal(c, err, "failed to generate state token")
	}

	nonce, err := auth.GenerateStateToken()
	if err != nil {
		return handler.Internal(c, err, "failed to generate nonce")
	}

	if err = s.deps.Sessions.PutState(state, nonce, stateTTL); err != nil {
		return handler.Internal(c, err, "failed to store state token")
	}

	return c.Redirect(s.Provider.AuthURL(state, nonce))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return handler.Message(c, fiber.StatusBadRequest, "invalid callback parameters")
	}

	nonce, err := s.deps.Sessions.TakeState(state)
	if err != nil {
		log.Warn().Err(err).Msg("invalid or expired OIDC state")

		return handler.Message(c, fiber.StatusBadRequest, "invalid state token")
	}

	claims, err := s.Provider.Exchange(c.UserContext(), code, nonce)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")

		return handler.Message(c, fiber.StatusUnauthorized, "authentication failed")
	}

	user, err := auth.MatchUser(c.UserContext(), s.deps.DB, claims)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailNotVerified), errors.Is(err, auth.ErrUserNotFound):
			log.Warn().Err(err).Str("subject", claims.Subject).Msg("OIDC identity has no account")

			return handler.Message(c, fiber.StatusForbidden, "no account for this identity")
		case errors.Is(err, auth.ErrUserAccountDisabled):
			return handler.Message(c, fiber.StatusForbidden, login.ErrAccountDisabled.Error())
		default:
			return handler.Internal(c, err, "OIDC user lookup failed")
		}
	}

	if err = login.Start(c, s.deps, user); err != nil {
		return handler.Internal(c, err, "failed to write session")
	}

	return c.Redirect(rbac.AdminPrefix)
}
