// Package newsletter serves the public subscribe and unsubscribe endpoints
// and the admin subscriber list.
package newsletter

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/export"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

const (
	// PublicPath is the base path of the public endpoints.
	PublicPath = handler.APIPath + "/newsletter"
	// AdminPath is the base path of the admin endpoints.
	AdminPath = handler.AdminAPIPath + "/newsletter"
)

type subscribeRequest struct {
	Email string `json:"email" form:"email" validate:"required,email,max=255"`
}

// Service handles newsletter routes.
type Service struct {
	deps *handler.Deps
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

	s.deps = deps

	app.Post(PublicPath+"/subscribe", deps.Limiter(), s.Subscribe)
	app.Get(PublicPath+"/unsubscribe/:token", deps.Limiter(), s.Unsubscribe)

	g := deps.Admin(app, "/newsletter", rbac.PermManageNewsletter)
	g.Get(handler.RootPath, s.List)
	g.Get("/export", s.Export)
	g.Delete("/:id", s.Delete)

	return nil
}

// Subscribe adds an address. Subscribing an existing address reactivates it.
func (s *Service) Subscribe(c *fiber.Ctx) error {
	var in subscribeRequest
	if err := c.BodyParser(&in); err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.deps.Validate.Struct(in); err != nil {
		return handler.Invalid(c, err)
	}

	db := s.deps.DB.WithContext(c.UserContext())

	var sub models.NewsletterSubscriber

	err := db.Where("email = ?", in.Email).First(&sub).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.NewsletterSubscriber{Email: in.Email, Token: uuid.NewString(), Active: true}
		if err = db.Create(&sub).Error; err != nil {
			return handler.DBError(c, err, "create subscriber failed")
		}
	case err != nil:
		return handler.Internal(c, err, "load subscriber failed")
	case !sub.Active:
		sub.Active = true
		sub.UnsubscribedAt = nil

		if err = db.Save(&sub).Error; err != nil {
			return handler.Internal(c, err, "reactivate subscriber failed")
		}
	}

	return handler.Message(c, fiber.StatusOK, "subscribed")
}

// Unsubscribe deactivates the address owning token.
func (s *Service) Unsubscribe(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := uuid.Parse(token); err != nil {
		return handler.Message(c, fiber.StatusNotFound, "not found")
	}

	now := time.Now()

	res := s.deps.DB.WithContext(c.UserContext()).
		Model(&models.NewsletterSubscriber{}).
		Where("token = ?", token).
		Updates(map[string]any{"active": false, "unsubscribed_at": now})
	if res.Error != nil {
		return handler.Internal(c, res.Error, "unsubscribe failed")
	}

	if res.RowsAffected == 0 {
		return handler.Message(c, fiber.StatusNotFound, "not found")
	}

	return handler.Message(c, fiber.StatusOK, "unsubscribed")
}

func (s *Service) query(c *fiber.Ctx) *gorm.DB {
	tx := s.deps.DB.WithContext(c.UserContext()).Model(&models.NewsletterSubscriber{})

	if active := c.Query("active"); active != "" {
		tx = tx.Where("active = ?", active == "true")
	}

	if q := strings.TrimSpace(c.Query("search")); q != "" {
		tx = tx.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	return tx.Session(&gorm.Session{})
}

// List returns a page of subscribers.
func (s *Service) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := s.query(c)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count subscribers failed")
	}

	subs := make([]models.NewsletterSubscriber, 0, page.PageSize)
	if err := tx.Order("id DESC").Limit(page.PageSize).Offset(page.Offset()).Find(&subs).Error; err != nil {
		return handler.Internal(c, err, "query subscribers failed")
	}

	return handler.List(c, subs, total, page)
}

// Export downloads the active subscribers as an XLSX workbook.
func (s *Service) Export(c *fiber.Ctx) error {
	var subs []models.NewsletterSubscriber

	err := s.deps.DB.WithContext(c.UserContext()).Where("active = ?", true).Order("email ASC").Find(&subs).Error
	if err != nil {
		return handler.Internal(c, err, "query subscribers failed")
	}

	var buf bytes.Buffer
	if err = export.Write(&buf, export.Subscribers(subs)); err != nil {
		return handler.Internal(c, err, "write subscriber export failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionExport, audit.EntityNewsletterSubscriber).
		WithMetadata(map[string]any{"rows": len(subs)}))

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Attachment(export.Filename("newsletter", time.Now()))

	return c.Send(buf.Bytes())
}

// Delete removes a subscriber.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	db := s.deps.DB.WithContext(c.UserContext())

	var sub models.NewsletterSubscriber
	if err = db.First(&sub, id).Error; err != nil {
		return handler.DBError(c, err, "load subscriber failed")
	}

	if err = db.Delete(&sub).Error; err != nil {
		return handler.Internal(c, err, "delete subscriber failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionDelete, audit.EntityNewsletterSubscriber).
		WithEntity(sub.ID, sub.AuditName()))

	return handler.Message(c, fiber.StatusOK, "deleted")
}
