package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/guard"
)

// Render renders an admin page inside BaseLayout. The layout repeats the
// page check of the guard on the forwarded pathname and redirects to the
// forbidden page when it fails.
func (d *Deps) Render(c *fiber.Ctx, name string, data fiber.Map) error {
	a, ok := actor.From(c)
	if !ok {
		return c.Redirect(rbac.LoginPath)
	}

	pathname := c.Get(guard.HeaderPathname)
	if pathname == "" {
		pathname = c.Path()
	}

	if !d.Table.CanAccessPage(a.Role, pathname) {
		return c.Redirect(rbac.ForbiddenPath)
	}

	if data == nil {
		data = fiber.Map{}
	}

	data["Actor"] = a
	data["Sections"] = d.Table.Sections(a.Role)
	data["Pathname"] = rbac.CleanPath(pathname)
	data["Title"] = d.Cfg.Title

	return c.Render(name, data, BaseLayout)
}
