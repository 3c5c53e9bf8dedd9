// Package public serves the read-only content API of the public site and
// the public application forms.
package public

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

// Path is the prefix of the public API.
const Path = handler.APIPath

var (
	errApplicationsClosed = errors.New("applications are closed")
	errEventFull          = errors.New("event is full")
	errAlreadyRegistered  = errors.New("already registered")
)

type applicantRequest struct {
	FullName string         `json:"fullName" validate:"required,max=150"`
	Email    string         `json:"email"    validate:"required,email,max=255"`
	Phone    string         `json:"phone"    validate:"max=50"`
	Answers  map[string]any `json:"answers"`
}

// OrganizationGroup is one category of the organisation chart with its members.
type OrganizationGroup struct {
	models.OrganizationCategory
	Members []models.OrganizationMember `json:"members"`
}

// Service handles the public routes.
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

	app.Route(Path, func(router fiber.Router) {
		router.Get("/events", s.Events)
		router.Get("/events/:slug", s.Event)
		router.Post("/events/:id/applications", deps.Limiter(), s.ApplyEvent)
		router.Get("/announcements", s.Announcements)
		router.Get("/announcements/:slug", s.Announcement)
		router.Get("/partners", s.Partners)
		router.Get("/sliders", s.Sliders)
		router.Get("/organization", s.Organization)
		router.Get("/statistics", s.Statistics)
		router.Get("/form-fields/:form", s.FormFields)
		router.Post("/applications/member", deps.Limiter(), s.ApplyMember)
	})

	return nil
}

func (s *Service) db(c *fiber.Ctx) *gorm.DB {
	return s.deps.DB.WithContext(c.UserContext())
}

// Events lists published events: upcoming ones soonest first, or past ones
// latest first with past=true.
func (s *Service) Events(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	now := time.Now()

	tx := s.db(c).Model(&models.Event{}).Where("published = ?", true)
	order := "starts_at ASC, id ASC"

	if c.QueryBool("past") {
		tx = tx.Where("starts_at < ?", now)
		order = "starts_at DESC, id DESC"
	} else {
		tx = tx.Where("starts_at >= ?", now)
	}

	if cat := c.QueryInt("categoryId", 0); cat > 0 {
		tx = tx.Where("category_id = ?", cat)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count events failed")
	}

	events := make([]models.Event, 0, page.PageSize)
	if err := tx.Order(order).Limit(page.PageSize).Offset(page.Offset()).Find(&events).Error; err != nil {
		return handler.Internal(c, err, "query events failed")
	}

	return handler.List(c, events, total, page)
}

// Event returns a published event by slug.
func (s *Service) Event(c *fiber.Ctx) error {
	var e models.Event
	if err := s.db(c).Where("slug = ? AND published = ?", c.Params("slug"), true).First(&e).Error; err != nil {
		return handler.DBError(c, err, "load event failed")
	}

	return c.JSON(e)
}

// Announcements lists published announcements, pinned first.
func (s *Service) Announcements(c *fiber.Ctx) error {
	page := handler.ParsePage(c)
	tx := s.db(c).Model(&models.Announcement{}).Where("published = ?", true).Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return handler.Internal(c, err, "count announcements failed")
	}

	items := make([]models.Announcement, 0, page.PageSize)

	err := tx.Order("pinned DESC, published_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return handler.Internal(c, err, "query announcements failed")
	}

	return handler.List(c, items, total, page)
}

// Announcement returns a published announcement by slug.
func (s *Service) Announcement(c *fiber.Ctx) error {
	var a models.Announcement
	if err := s.db(c).Where("slug = ? AND published = ?", c.Params("slug"), true).First(&a).Error; err != nil {
		return handler.DBError(c, err, "load announcement failed")
	}

	return c.JSON(a)
}

// Partners lists the active partners.
func (s *Service) Partners(c *fiber.Ctx) error {
	items := make([]models.Partner, 0)
	if err := s.db(c).Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query partners failed")
	}

	return c.JSON(items)
}

// Sliders lists the active slider entries.
func (s *Service) Sliders(c *fiber.Ctx) error {
	items := make([]models.Slider, 0)
	if err := s.db(c).Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query sliders failed")
	}

	return c.JSON(items)
}

// Statistics lists the public counters.
func (s *Service) Statistics(c *fiber.Ctx) error {
	items := make([]models.Statistic, 0)
	if err := s.db(c).Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return handler.Internal(c, err, "query statistics failed")
	}

	return c.JSON(items)
}

// Organization returns the organisation chart: categories in order, each
// with its active members in order. Empty categories are left out.
func (s *Service) Organization(c *fiber.Ctx) error {
	var cats []models.OrganizationCategory
	if err := s.db(c).Order("sort_order ASC, id ASC").Find(&cats).Error; err != nil {
		return handler.Internal(c, err, "query organization categories failed")
	}

	var members []models.OrganizationMember
	if err := s.db(c).Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&members).Error; err != nil {
		return handler.Internal(c, err, "query organization members failed")
	}

	byCat := make(map[uint64][]models.OrganizationMember, len(cats))
	for _, m := range members {
		byCat[m.CategoryID] = append(byCat[m.CategoryID], m)
	}

	out := make([]OrganizationGroup, 0, len(cats))

	for _, cat := range cats {
		if len(byCat[cat.ID]) == 0 {
			continue
		}

		out = append(out, OrganizationGroup{OrganizationCategory: cat, Members: byCat[cat.ID]})
	}

	return c.JSON(out)
}

// FormFields lists the active fields of the member or event form.
func (s *Service) FormFields(c *fiber.Ctx) error {
	form := models.FormKind(strings.ToLower(c.Params("form")))
	if form != models.FormMember && form != models.FormEvent {
		return handler.Message(c, fiber.StatusNotFound, "not found")
	}

	fields, err := s.activeFields(c, form)
	if err != nil {
		return handler.Internal(c, err, "query form fields failed")
	}

	return c.JSON(fields)
}

func (s *Service) activeFields(c *fiber.Ctx, form models.FormKind) ([]models.FormField, error) {
	fields := make([]models.FormField, 0)

	err := s.db(c).
		Where("form = ? AND active = ?", form, true).
		Order("sort_order ASC, id ASC").
		Find(&fields).Error

	return fields, err
}

// applicant parses and validates the common applicant body against the
// active fields of form. When ok is false the response has been written.
func (s *Service) applicant(c *fiber.Ctx, form models.FormKind) (models.Applicant, bool, error) {
	var in applicantRequest
	if err := c.BodyParser(&in); err != nil {
		return models.Applicant{}, false, handler.Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.deps.Validate.Struct(in); err != nil {
		return models.Applicant{}, false, handler.Invalid(c, err)
	}

	fields, err := s.activeFields(c, form)
	if err != nil {
		return models.Applicant{}, false, handler.Internal(c, err, "query form fields failed")
	}

	answers, err := CheckAnswers(s.deps.Validate, fields, in.Answers)
	if err != nil {
		return models.Applicant{}, false, handler.Message(c, fiber.StatusBadRequest, err.Error())
	}

	return models.Applicant{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    strings.TrimSpace(in.Phone),
		Answers:  datatypes.JSONMap(answers),
		Status:   models.StatusPending,
	}, true, nil
}

// ApplyMember stores a membership application.
func (s *Service) ApplyMember(c *fiber.Ctx) error {
	a, ok, err := s.applicant(c, models.FormMember)
	if !ok {
		return err
	}

	app := models.MemberApplication{Applicant: a}
	if err = s.db(c).Create(&app).Error; err != nil {
		return handler.Internal(c, err, "create member application failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "received", "id": app.ID})
}

// ApplyEvent stores a registration for an open, published event.
func (s *Service) ApplyEvent(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Message(c, fiber.StatusNotFound, "not found")
	}

	var event models.Event
	if err = s.db(c).Where("id = ? AND published = ?", id, true).First(&event).Error; err != nil {
		return handler.DBError(c, err, "load event failed")
	}

	if !event.ApplicationsOpen || (event.EndsAt != nil && event.EndsAt.Before(time.Now())) {
		return handler.Message(c, fiber.StatusBadRequest, errApplicationsClosed.Error())
	}

	a, ok, err := s.applicant(c, models.FormEvent)
	if !ok {
		return err
	}

	var registered int64

	err = s.db(c).Model(&models.EventApplication{}).
		Where("event_id = ? AND email = ? AND status <> ?", event.ID, a.Email, models.StatusRejected).
		Count(&registered).Error
	if err != nil {
		return handler.Internal(c, err, "count event applications failed")
	}

	if registered > 0 {
		return handler.Message(c, fiber.StatusConflict, errAlreadyRegistered.Error())
	}

	if event.Capacity > 0 {
		var taken int64

		err = s.db(c).Model(&models.EventApplication{}).
			Where("event_id = ? AND status <> ?", event.ID, models.StatusRejected).
			Count(&taken).Error
		if err != nil {
			return handler.Internal(c, err, "count event applications failed")
		}

		if taken >= int64(event.Capacity) {
			return handler.Message(c, fiber.StatusConflict, errEventFull.Error())
		}
	}

	app := models.EventApplication{EventID: event.ID, Applicant: a}
	if err = s.db(c).Create(&app).Error; err != nil {
		return handler.Internal(c, err, "create event application failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "received", "id": app.ID})
}
