// Package auditlog provides the read-only admin API of the audit trail.
package auditlog

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

// Path is the base path of the audit log routes.
const Path = handler.AdminAPIPath + "/audit-logs"

// Service lists audit records.
type Service struct {
	store *audit.GormStore
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

	s.store = audit.NewGormStore(deps.DB)

	g := deps.Admin(app, "/audit-logs", rbac.PermViewAuditLogs)
	g.Get(handler.RootPath, s.List)

	return nil
}

// List returns a page of audit records, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)

	userID := c.QueryInt("userId", 0)
	if userID < 0 {
		userID = 0
	}

	logs, total, err := s.store.List(c.UserContext(), audit.Filter{
		EntityType: strings.ToUpper(c.Query("entityType")),
		Action:     strings.ToUpper(c.Query("action")),
		UserID:     uint64(userID),
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
	if err != nil {
		return handler.Internal(c, err, "query audit logs failed")
	}

	return handler.List(c, logs, total, page)
}
