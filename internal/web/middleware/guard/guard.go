// Package guard guards the server rendered admin pages.
//
// Every request under /admin except the login pages needs a valid session.
// Anonymous requests are redirected to the login page; authenticated requests
// the page table denies are redirected to the forbidden page. The cleaned
// request path is forwarded in the X-Pathname request header so the layout
// can re-check access with the same evaluator.
package guard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
)

// HeaderPathname carries the guarded path to the layout.
const HeaderPathname = "X-Pathname"

// New returns the admin page guard.
func New(table *rbac.Table, resolver *actor.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := rbac.CleanPath(c.Path())
		if !rbac.IsAdminPath(p) {
			return c.Next()
		}

		c.Request().Header.Set(HeaderPathname, p)

		if rbac.IsLoginPath(p) {
			// a logged in user has nothing to do on the login form
			if p == rbac.LoginPath && c.Method() == fiber.MethodGet {
				if _, err := resolver.Resolve(c); err == nil {
					return c.Redirect(rbac.AdminPrefix)
				}
			}

			return c.Next()
		}

		a, err := resolver.Resolve(c)
		if err != nil {
			return c.Redirect(rbac.LoginPath)
		}

		if !table.CanAccessPage(a.Role, p) {
			return c.Redirect(rbac.ForbiddenPath)
		}

		return c.Next()
	}
}
