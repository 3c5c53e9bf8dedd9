// Package application provides the admin API for membership applications
// and event registrations: listing, status changes, deletion and spreadsheet
// export.
package application

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/export"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

const (
	// MembersPath is the base path of membership applications.
	MembersPath = handler.AdminAPIPath + "/applications/members"
	// EventsPath is the base path of event registrations.
	EventsPath = handler.AdminAPIPath + "/applications/events"
)

type statusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
	Note   *string                  `json:"note"   validate:"omitempty,max=2000"`
}

// kind serves one application type.
type kind[T any, PT interface {
	*T
	models.Application
}] struct {
	deps       *handler.Deps
	name       string
	entity     audit.EntityType
	permission rbac.Permission
	filters    map[string]string
	sheet      func(ctx context.Context, db *gorm.DB, items []T) (export.Sheet, error)
}

// Service registers both application kinds.
type Service struct {
	members *kind[models.MemberApplication, *models.MemberApplication]
	events  *kind[models.EventApplication, *models.EventApplication]
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

	s.members = &kind[models.MemberApplication, *models.MemberApplication]{
		deps:       deps,
		name:       "member-applications",
		entity:     audit.EntityMemberApplication,
		permission: rbac.PermManageMemberApplications,
		filters:    map[string]string{"status": "status"},
		sheet: func(ctx context.Context, db *gorm.DB, items []models.MemberApplication) (export.Sheet, error) {
			fields, err := formFields(ctx, db, models.FormMember)
			if err != nil {
				return export.Sheet{}, err
			}

			return export.MemberApplications(items, fields), nil
		},
	}

	s.events = &kind[models.EventApplication, *models.EventApplication]{
		deps:       deps,
		name:       "event-applications",
		entity:     audit.EntityEventApplication,
		permission: rbac.PermManageEventApplications,
		filters:    map[string]string{"status": "status", "eventId": "event_id"},
		sheet:      eventSheet,
	}

	s.members.register(app, "/applications/members")
	s.events.register(app, "/applications/events")

	return nil
}

func (k *kind[T, PT]) register(app *fiber.App, prefix string) {
	g := k.deps.Admin(app, prefix, k.permission)
	g.Get(handler.RootPath, k.List)
	g.Get("/export", k.Export)
	g.Get("/:id", k.Get)
	g.Patch("/:id/status", k.SetStatus)
	g.Delete("/:id", k.Delete)
}

func (k *kind[T, PT]) db(c *fiber.Ctx) *gorm.DB {
	return k.deps.DB.WithContext(c.UserContext())
}

func (k *kind[T, PT]) query(c *fiber.Ctx) *gorm.DB {
	tx := k.db(c).Model(PT(new(T)))

	for param, col := range k.filters {
		if v := c.Query(param); v != "" {
			if col == "status" {
				v = strings.ToUpper(v)
			}

			tx = tx.Where(col+" = ?", v)
		}
	}

	if q := strings.TrimSpace(c.Query("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	return tx.Session(&gorm.Session{})
}

// List returns a page of applications, newest first.
func (k *kind[T, PT]) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := k.query(c)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count "+k.name+" failed")
	}

	items := make([]T, 0, page.PageSize)
	if err := tx.Order("id DESC").Limit(page.PageSize).Offset(page.Offset()).Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query "+k.name+" failed")
	}

	return handler.List(c, items, total, page)
}

// Get returns one application.
func (k *kind[T, PT]) Get(c *fiber.Ctx) error {
	item := PT(new(T))
	if ok, err := k.load(c, item); !ok {
		return err
	}

	return c.JSON(item)
}

// SetStatus changes the status and optionally the note of an application.
func (k *kind[T, PT]) SetStatus(c *fiber.Ctx) error {
	var in statusRequest
	if err := c.BodyParser(&in); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	in.Status = models.ApplicationStatus(strings.ToUpper(string(in.Status)))

	if err := k.deps.Validate.Struct(in); err != nil {
		return handler.Invalid(c, err)
	}

	if !in.Status.Valid() {
		return handler.Message(c, fiber.StatusBadRequest, "unknown status "+string(in.Status))
	}

	item := PT(new(T))
	if ok, err := k.load(c, item); !ok {
		return err
	}

	before, _ := audit.Snapshot(item)

	applicant := item.ApplicantFields()
	applicant.Status = in.Status

	if in.Note != nil {
		applicant.Note = *in.Note
	}

	if err := k.db(c).Save(item).Error; err != nil {
		return handler.DBError(c, err, "update "+k.name+" failed")
	}

	changes := audit.Diff(before, item)

	k.deps.Record(c, k.deps.Entry(c, audit.ActionStatusChange, k.entity).
		WithEntity(item.GetID(), item.AuditName()).
		WithChanges(changes))

	return c.JSON(item)
}

// Delete removes an application.
func (k *kind[T, PT]) Delete(c *fiber.Ctx) error {
	item := PT(new(T))
	if ok, err := k.load(c, item); !ok {
		return err
	}

	if err := k.db(c).Delete(item).Error; err != nil {
		return handler.DBError(c, err, "delete "+k.name+" failed")
	}

	k.deps.Record(c, k.deps.Entry(c, audit.ActionDelete, k.entity).
		WithEntity(item.GetID(), item.AuditName()))

	return handler.Message(c, fiber.StatusOK, "deleted")
}

// Export downloads the filtered applications as an XLSX workbook.
func (k *kind[T, PT]) Export(c *fiber.Ctx) error {
	var items []T
	if err := k.query(c).Order("id ASC").Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query "+k.name+" failed")
	}

	sheet, err := k.sheet(c.UserContext(), k.deps.DB, items)
	if err != nil {
		return handler.Internal(c, err, "prepare "+k.name+" export failed")
	}

	var buf bytes.Buffer
	if err = export.Write(&buf, sheet); err != nil {
		return handler.Internal(c, err, "write "+k.name+" export failed")
	}

	k.deps.Record(c, k.deps.Entry(c, audit.ActionExport, k.entity).
		WithMetadata(map[string]any{"rows": len(items), "filters": c.Queries()}))

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Attachment(export.Filename(k.name, time.Now()))

	return c.Send(buf.Bytes())
}

func (k *kind[T, PT]) load(c *fiber.Ctx, item PT) (bool, error) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return false, handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	if err = k.db(c).First(item, id).Error; err != nil {
		return false, handler.DBError(c, err, "load "+k.name+" failed")
	}

	return true, nil
}

func formFields(ctx context.Context, db *gorm.DB, form models.FormKind) ([]models.FormField, error) {
	var fields []models.FormField

	err := db.WithContext(ctx).Where("form = ?", form).Order("sort_order ASC, id ASC").Find(&fields).Error

	return fields, err
}

func eventSheet(ctx context.Context, db *gorm.DB, items []models.EventApplication) (export.Sheet, error) {
	fields, err := formFields(ctx, db, models.FormEvent)
	if err != nil {
		return export.Sheet{}, err
	}

	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.EventID)
	}

	titles := make(map[uint64]string, len(ids))

	if len(ids) > 0 {
		var events []models.Event
		if err = db.WithContext(ctx).Select("id", "title").Where("id IN ?", ids).Find(&events).Error; err != nil {
			return export.Sheet{}, err
		}

		for _, e := range events {
			titles[e.ID] = e.Title
		}
	}

	return export.EventApplications(items, fields, titles), nil
}
