// Package user provides the admin API for managing admin accounts.
//
// Only a SUPER_ADMIN may create or promote SUPER_ADMIN accounts, modify an
// existing SUPER_ADMIN or delete any account. Nobody can delete or disable
// their own account.
package user

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
)

const (
	// Path is the base path for user management.
	Path = handler.AdminAPIPath + "/users"

	// MePath returns the current actor.
	MePath = handler.AdminAPIPath + "/me"
)

// Service provides CRUD operations for users.
type Service struct {
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=100"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	Role      string `json:"role"`
	Active    *bool  `json:"active"`
}

type updateRequest struct {
	Username  *string `json:"username"  validate:"omitempty,min=3,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email,max=255"`
	Password  *string `json:"password"  validate:"omitempty,min=8,max=128"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=100"`
	Role      *string `json:"role"`
	Active    *bool   `json:"active"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(MePath, deps.Actors.Middleware(), s.Me)

	g := deps.Admin(app, "/users", rbac.PermManageUsers)
	g.Get(handler.RootPath, s.List)
	g.Post(handler.RootPath, s.Create)
	g.Get("/:id", s.Get)
	g.Put("/:id", s.Update)
	g.Delete("/:id", s.Delete)

	return nil
}

// Me returns the actor of the request with its permissions and menu sections.
func (s *Service) Me(c *fiber.Ctx) error {
	a, _ := actor.From(c)

	sections := s.deps.Table.Sections(a.Role)
	paths := make([]string, 0, len(sections))

	for _, sec := range sections {
		paths = append(paths, sec.Prefix)
	}

	return c.JSON(fiber.Map{
		"id":          a.ID,
		"username":    a.Username,
		"role":        a.Role,
		"permissions": s.deps.Table.Permissions(a.Role),
		"pages":       paths,
	})
}

// List shows users with simple pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := s.deps.DB.WithContext(c.UserContext()).Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like,
			like,
			like,
			like,
		)
	}

	if role := c.Query("role"); role != "" {
		tx = tx.Where("role = ?", strings.ToUpper(role))
	}

	tx = tx.Session(&gorm.Session{})

	var totalCount int64
	if err := tx.Count(&totalCount).Error; err != nil {
		return handler.Internal(c, err, "count users failed")
	}

	users := make([]models.User, 0, page.PageSize)
	if err := tx.Order("id DESC").Limit(page.PageSize).Offset(page.Offset()).Find(&users).Error; err != nil {
		return handler.Internal(c, err, "query users failed")
	}

	return handler.List(c, users, totalCount, page)
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	var user models.User
	if ok, err := s.load(c, &user); !ok {
		return err
	}

	return c.JSON(user)
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	a, _ := actor.From(c)

	var in createRequest
	if err := c.BodyParser(&in); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.Validate.Struct(in); err != nil {
		return handler.Invalid(c, err)
	}

	role := rbac.RoleViewer

	if in.Role != "" {
		parsed, err := rbac.ParseRole(in.Role)
		if err != nil {
			return handler.Message(c, fiber.StatusBadRequest, err.Error())
		}

		role = parsed
	}

	if rbac.IsSuperAdmin(role) && !a.IsSuperAdmin() {
		return handler.Message(c, fiber.StatusForbidden, "forbidden")
	}

	user := models.User{
		Username:   strings.TrimSpace(in.Username),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Role:       role.String(),
		AuthSource: models.AuthSourceLocal,
		Active:     in.Active == nil || *in.Active,
	}

	if err := user.SetPassword(in.Password); err != nil {
		return handler.Internal(c, err, "hash password failed")
	}

	if err := s.deps.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return handler.DBError(c, err, "create user failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionCreate, audit.EntityUser).
		WithEntity(user.ID, user.AuditName()))

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update updates a user.
func (s *Service) Update(c *fiber.Ctx) error {
	a, _ := actor.From(c)

	var in updateRequest
	if err := c.BodyParser(&in); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.Validate.Struct(in); err != nil {
		return handler.Invalid(c, err)
	}

	var user models.User
	if ok, err := s.load(c, &user); !ok {
		return err
	}

	if rbac.IsSuperAdmin(rbac.NormalizeRole(user.Role)) && !a.IsSuperAdmin() {
		return handler.Message(c, fiber.StatusForbidden, "forbidden")
	}

	before, _ := audit.Snapshot(&user)

	if in.Role != nil {
		role, err := rbac.ParseRole(*in.Role)
		if err != nil {
			return handler.Message(c, fiber.StatusBadRequest, err.Error())
		}

		if rbac.IsSuperAdmin(role) && !a.IsSuperAdmin() {
			return handler.Message(c, fiber.StatusForbidden, "forbidden")
		}

		user.Role = role.String()
	}

	if in.Active != nil {
		if !*in.Active && user.ID == a.ID {
			return handler.Message(c, fiber.StatusBadRequest, "you cannot disable your own account")
		}

		user.Active = *in.Active
	}

	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}

	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}

	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	passwordChanged := in.Password != nil
	if passwordChanged {
		if err := user.SetPassword(*in.Password); err != nil {
			return handler.Internal(c, err, "hash password failed")
		}
	}

	if err := s.deps.DB.WithContext(c.UserContext()).Save(&user).Error; err != nil {
		return handler.DBError(c, err, "update user failed")
	}

	changes := audit.Diff(before, &user)

	entry := s.deps.Entry(c, audit.ActionUpdate, audit.EntityUser).
		WithEntity(user.ID, user.AuditName()).
		WithChanges(changes)
	if passwordChanged {
		entry = entry.WithMetadata(map[string]any{"passwordChanged": true})
	}

	s.deps.Record(c, entry)

	return c.JSON(user)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	a, _ := actor.From(c)
	if !a.IsSuperAdmin() {
		return handler.Message(c, fiber.StatusForbidden, "forbidden")
	}

	var user models.User
	if ok, err := s.load(c, &user); !ok {
		return err
	}

	if user.ID == a.ID {
		return handler.Message(c, fiber.StatusBadRequest, "you cannot delete your own account")
	}

	if err := s.deps.DB.WithContext(c.UserContext()).Delete(&user).Error; err != nil {
		return handler.DBError(c, err, "delete user failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionDelete, audit.EntityUser).
		WithEntity(user.ID, user.AuditName()))

	return handler.Message(c, fiber.StatusOK, "deleted")
}

func (s *Service) load(c *fiber.Ctx, user *models.User) (bool, error) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return false, handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	if err = s.deps.DB.WithContext(c.UserContext()).First(user, id).Error; err != nil {
		return false, handler.DBError(c, err, "load user failed")
	}

	return true, nil
}
