// Package media provides the admin API for uploaded files.
package media

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/upload"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
)

// Path is the base path of the upload routes.
const Path = handler.AdminAPIPath + "/uploads"

// Service handles uploads.
type Service struct {
	deps      *handler.Deps
	validator upload.Validator
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

	if deps.Uploads == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps
	s.validator = upload.NewValidator(deps.Cfg.Upload.MaxSize)

	g := deps.Admin(app, "/uploads", rbac.PermManageMedia)
	g.Get(handler.RootPath, s.List)
	g.Post(handler.RootPath, s.Upload)
	g.Delete("/:id", s.Delete)

	return nil
}

// List returns a page of media, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := s.deps.DB.WithContext(c.UserContext()).Model(&models.Media{})

	if q := strings.TrimSpace(c.Query("search")); q != "" {
		tx = tx.Where("LOWER(original_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count media failed")
	}

	items := make([]models.Media, 0, page.PageSize)
	if err := tx.Order("id DESC").Limit(page.PageSize).Offset(page.Offset()).Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query media failed")
	}

	return handler.List(c, items, total, page)
}

// Upload validates and stores the multipart field "file".
func (s *Service) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return handler.Message(c, fiber.StatusBadRequest, "missing file")
	}

	if fh.Size > s.validator.MaxSize {
		return handler.Message(c, fiber.StatusBadRequest, upload.ErrTooLarge.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return handler.Internal(c, err, "open upload failed")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.validator.MaxSize+1))
	if err != nil {
		return handler.Internal(c, err, "read upload failed")
	}

	checked, err := s.validator.Validate(fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		if upload.IsRejected(err) {
			return handler.Message(c, fiber.StatusBadRequest, err.Error())
		}

		return handler.Internal(c, err, "validate upload failed")
	}

	a, _ := actor.From(c)
	key := upload.NewKey(time.Now(), checked.Ext)

	url, err := s.deps.Uploads.Put(c.UserContext(), key, checked.MIME, bytes.NewReader(data))
	if err != nil {
		return handler.Internal(c, err, "store upload failed")
	}

	item := models.Media{
		OriginalName: filepath.Base(fh.Filename),
		StorageKey:   key,
		URL:          url,
		MimeType:     checked.MIME,
		Size:         int64(len(data)),
		Provider:     s.deps.Uploads.Name(),
		UploadedBy:   a.ID,
	}

	if err = s.deps.DB.WithContext(c.UserContext()).Create(&item).Error; err != nil {
		if delErr := s.deps.Uploads.Delete(c.UserContext(), key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned upload")
		}

		return handler.Internal(c, err, "create media failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionUpload, audit.EntityMedia).
		WithEntity(item.ID, item.AuditName()).
		WithMetadata(map[string]any{"mimeType": item.MimeType, "size": item.Size, "url": item.URL}))

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Delete removes the stored object and its row.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	db := s.deps.DB.WithContext(c.UserContext())

	var item models.Media
	if err = db.First(&item, id).Error; err != nil {
		return handler.DBError(c, err, "load media failed")
	}

	if err = s.deps.Uploads.Delete(c.UserContext(), item.StorageKey); err != nil && !errors.Is(err, upload.ErrInvalidKey) {
		return handler.Internal(c, err, "delete stored object failed")
	}

	if err = db.Delete(&item).Error; err != nil {
		return handler.Internal(c, err, "delete media failed")
	}

	s.deps.Record(c, s.deps.Entry(c, audit.ActionDelete, audit.EntityMedia).
		WithEntity(item.ID, item.AuditName()))

	return handler.Message(c, fiber.StatusOK, "deleted")
}
