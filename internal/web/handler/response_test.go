package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", "", 1, DefaultPageSize, 0},
		{"second page", "?page=2&pageSize=10", 2, 10, 10},
		{"negative page", "?page=-3", 1, DefaultPageSize, 0},
		{"oversized page size", "?pageSize=5000", 1, DefaultPageSize, 0},
		{"huge page is capped", "?page=9223372036854775807&pageSize=100", MaxPage, 100, (MaxPage - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Page

			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParsePage(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), -1)
			require.NoError(t, err)
			require.Equal(t, http.StatusNoContent, resp.StatusCode)

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			assert.Equal(t, tt.wantOffset, got.Offset())
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}
