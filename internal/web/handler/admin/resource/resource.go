// Package resource implements the admin JSON CRUD endpoints shared by the
// content models.
//
// Every mutation is audited after it succeeded: CREATE without a diff,
// UPDATE with the field diff of the record (omitted when nothing changed)
// and DELETE with the entity name.
package resource

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

// Model constrains PT to a pointer to T implementing models.Record.
type Model[T any] interface {
	*T
	models.Record
}

// Config describes one resource.
type Config[T any] struct {
	// Name is the URL segment below /api/admin.
	Name string
	// Entity tags the audit entries.
	Entity audit.EntityType
	// Permission guards every route.
	Permission rbac.Permission
	// Search lists the columns matched by the search query parameter.
	Search []string
	// Filters maps query parameters to columns compared for equality.
	Filters map[string]string
	// Order is the list order; defaults to "id DESC".
	Order string
	// Prepare fills derived fields before validation.
	Prepare func(*T)
	// Check runs after tag validation.
	Check func(*T) error
}

// Resource serves the CRUD routes of T.
type Resource[T any, PT Model[T]] struct {
	cfg  Config[T]
	deps *handler.Deps
}

// New returns the Resource described by cfg.
func New[T any, PT Model[T]](cfg Config[T]) *Resource[T, PT] {
	if cfg.Order == "" {
		cfg.Order = "id DESC"
	}

	return &Resource[T, PT]{cfg: cfg}
}

// Path is the route prefix of the resource.
func (r *Resource[T, PT]) Path() string {
	return handler.AdminAPIPath + "/" + r.cfg.Name
}

// Init registers the routes.
func (r *Resource[T, PT]) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	r.deps = deps

	g := deps.Admin(app, "/"+r.cfg.Name, r.cfg.Permission)
	g.Get(handler.RootPath, r.List)
	g.Post(handler.RootPath, r.Create)
	g.Get("/:id", r.Get)
	g.Put("/:id", r.Update)
	g.Delete("/:id", r.Delete)

	return nil
}

func (r *Resource[T, PT]) db(c *fiber.Ctx) *gorm.DB {
	return r.deps.DB.WithContext(c.UserContext())
}

// List returns a page of records.
func (r *Resource[T, PT]) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := r.db(c).Model(PT(new(T)))

	if q := strings.TrimSpace(c.Query("search")); q != "" && len(r.cfg.Search) > 0 {
		like := "%" + strings.ToLower(q) + "%"
		conds := make([]string, 0, len(r.cfg.Search))
		args := make([]any, 0, len(r.cfg.Search))

		for _, col := range r.cfg.Search {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}

		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}

	for param, col := range r.cfg.Filters {
		if v := c.Query(param); v != "" {
			tx = tx.Where(col+" = ?", filterValue(v))
		}
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count "+r.cfg.Name+" failed")
	}

	items := make([]T, 0, page.PageSize)
	if err := tx.Order(r.cfg.Order).Limit(page.PageSize).Offset(page.Offset()).Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query "+r.cfg.Name+" failed")
	}

	return handler.List(c, items, total, page)
}

// Get returns one record.
func (r *Resource[T, PT]) Get(c *fiber.Ctx) error {
	item := PT(new(T))
	if ok, err := r.load(c, item); !ok {
		return err
	}

	return c.JSON(item)
}

// Create validates and stores a new record.
func (r *Resource[T, PT]) Create(c *fiber.Ctx) error {
	item := PT(new(T))
	if err := c.BodyParser(item); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	*item.BaseFields() = models.Base{}

	if err := r.validate(item); err != nil {
		return handler.Invalid(c, err)
	}

	if err := r.db(c).Create(item).Error; err != nil {
		return handler.DBError(c, err, "create "+r.cfg.Name+" failed")
	}

	r.deps.Record(c, r.deps.Entry(c, audit.ActionCreate, r.cfg.Entity).
		WithEntity(item.GetID(), item.AuditName()))

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update merges the JSON body into a stored record.
func (r *Resource[T, PT]) Update(c *fiber.Ctx) error {
	item := PT(new(T))
	if ok, err := r.load(c, item); !ok {
		return err
	}

	before, _ := audit.Snapshot(item)
	base := *item.BaseFields()

	if err := c.BodyParser(item); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	*item.BaseFields() = base

	if err := r.validate(item); err != nil {
		return handler.Invalid(c, err)
	}

	if err := r.db(c).Save(item).Error; err != nil {
		return handler.DBError(c, err, "update "+r.cfg.Name+" failed")
	}

	changes := audit.Diff(before, item)

	r.deps.Record(c, r.deps.Entry(c, audit.ActionUpdate, r.cfg.Entity).
		WithEntity(item.GetID(), item.AuditName()).
		WithChanges(changes))

	return c.JSON(item)
}

// Delete removes a record.
func (r *Resource[T, PT]) Delete(c *fiber.Ctx) error {
	item := PT(new(T))
	if ok, err := r.load(c, item); !ok {
		return err
	}

	if err := r.db(c).Delete(item).Error; err != nil {
		return handler.DBError(c, err, "delete "+r.cfg.Name+" failed")
	}

	r.deps.Record(c, r.deps.Entry(c, audit.ActionDelete, r.cfg.Entity).
		WithEntity(item.GetID(), item.AuditName()))

	return handler.Message(c, fiber.StatusOK, "deleted")
}

// load fetches the record named by the id parameter into item. When ok is
// false the response has been written already.
func (r *Resource[T, PT]) load(c *fiber.Ctx, item PT) (bool, error) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return false, handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	if err = r.db(c).First(item, id).Error; err != nil {
		return false, handler.DBError(c, err, "load "+r.cfg.Name+" failed")
	}

	return true, nil
}

func (r *Resource[T, PT]) validate(item PT) error {
	if r.cfg.Prepare != nil {
		r.cfg.Prepare((*T)(item))
	}

	if err := r.deps.Validate.Struct(item); err != nil {
		return err
	}

	if r.cfg.Check != nil {
		return r.cfg.Check((*T)(item))
	}

	return nil
}

// filterValue turns boolean query values into booleans so they compare
// with boolean columns on every engine.
func filterValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}
