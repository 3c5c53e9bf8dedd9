package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInvalidID is returned by ParseID for a missing or non numeric id.
var ErrInvalidID = errors.New("invalid id")

// Message writes the {"message": msg} envelope with status.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// Internal logs err and answers with a generic 500.
func Internal(c *fiber.Ctx, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg(msg)

	return Message(c, fiber.StatusInternalServerError, "internal server error")
}

// DBError maps a persistence error: record not found is 404, a unique key
// violation 409, everything else a logged 500.
func DBError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Message(c, fiber.StatusNotFound, "not found")
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Message(c, fiber.StatusConflict, "already exists")
	}

	return Internal(c, err, msg)
}

// Invalid answers 400 for a validation error, listing the failing fields.
func Invalid(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Message(c, fiber.StatusBadRequest, err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, lowerFirst(fe.Field())+" ("+fe.Tag()+")")
	}

	return Message(c, fiber.StatusBadRequest, "invalid fields: "+strings.Join(fields, ", "))
}

// ParseID reads the uint64 route parameter name.
func ParseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// Page is the pagination of a list request.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset of the first row of the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePage reads the page and pageSize query parameters.
func ParsePage(c *fiber.Ctx) Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	if page > MaxPage {
		page = MaxPage
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	return Page{Page: page, PageSize: pageSize}
}

// List writes a paginated list envelope.
func List(c *fiber.Ctx, items any, total int64, p Page) error {
	return c.JSON(fiber.Map{
		"items":    items,
		"total":    total,
		"page":     p.Page,
		"pageSize": p.PageSize,
	})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}
