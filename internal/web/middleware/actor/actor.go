// Package actor resolves the authenticated admin of a request and gates
// admin API routes by permission.
package actor

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/auth"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/session"
)

const localsKey = "actor"

var (
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")

	msgUnauthorized = fiber.Map{"message": "unauthorized"}
	msgForbidden    = fiber.Map{"message": "forbidden"}
)

// Set stores a on the request.
func Set(c *fiber.Ctx, a auth.Actor) {
	c.Locals(localsKey, a)
}

// From returns the actor stored on the request.
func From(c *fiber.Ctx) (auth.Actor, bool) {
	a, ok := c.Locals(localsKey).(auth.Actor)

	return a, ok
}

// Resolver turns the session cookie into an Actor.
type Resolver struct {
	sessions *session.Store
	db       *gorm.DB
}

// NewResolver returns a Resolver reading sessions and users.
func NewResolver(sessions *session.Store, db *gorm.DB) *Resolver {
	return &Resolver{sessions: sessions, db: db}
}

// Resolve loads the session of c and the user behind it. The user must
// still exist and be active; the role is taken from the database so role
// changes apply to open sessions.
func (r *Resolver) Resolve(c *fiber.Ctx) (auth.Actor, error) {
	if a, ok := From(c); ok {
		return a, nil
	}

	data, err := r.sessions.Read(c.Cookies(session.CookieName))
	if err != nil {
		return auth.Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	var user models.User
	if err = r.db.WithContext(c.UserContext()).First(&user, data.UserID).Error; err != nil {
		return auth.Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if !user.Active {
		return auth.Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, auth.ErrUserAccountDisabled)
	}

	a := auth.NewActor(&user)
	Set(c, a)

	return a, nil
}

// Middleware rejects requests without a valid session with 401.
func (r *Resolver) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := r.Resolve(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(msgUnauthorized)
		}

		return c.Next()
	}
}

// RequirePermission rejects requests whose actor lacks perm with 403.
// Requests without an actor get 401.
func RequirePermission(table *rbac.Table, perm rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := From(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(msgUnauthorized)
		}

		if !table.HasPermission(a.Role, perm) {
			return c.Status(fiber.StatusForbidden).JSON(msgForbidden)
		}

		return c.Next()
	}
}
