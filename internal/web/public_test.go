package web

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/export"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

func (e *testEnv) event(t *testing.T, capacity int, open bool) *models.Event {
	t.Helper()

	ev := &models.Event{
		Title:            "Clean-up Day",
		Slug:             "clean-up-day-" + strconv.Itoa(capacity),
		StartsAt:         time.Now().Add(48 * time.Hour),
		Capacity:         capacity,
		Published:        true,
		ApplicationsOpen: open,
	}
	require.NoError(t, e.db.Create(ev).Error)

	return ev
}

func TestPublicEventApplications(t *testing.T) {
	env := newTestEnv(t)
	ev := env.event(t, 1, true)
	path := "/api/events/" + strconv.FormatUint(ev.ID, 10) + "/applications"

	resp := env.do(t, http.MethodPost, path, `{"fullName":"Ann Lee","email":"Ann@Example.org"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, path, `{"fullName":"Ann Lee","email":"ann@example.org"}`, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, path, `{"fullName":"Bo Chen","email":"bo@example.org"}`, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "event is full", body["message"])

	var stored []models.EventApplication
	require.NoError(t, env.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "ann@example.org", stored[0].Email)
	assert.Equal(t, models.StatusPending, stored[0].Status)

	// public submissions are not audited
	assert.Empty(t, env.audits(t, audit.ActionCreate))
}

func TestPublicEventApplications_Closed(t *testing.T) {
	env := newTestEnv(t)
	ev := env.event(t, 0, false)

	resp := env.do(t, http.MethodPost, "/api/events/"+strconv.FormatUint(ev.ID, 10)+"/applications",
		`{"fullName":"Ann Lee","email":"ann@example.org"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/events/9999/applications",
		`{"fullName":"Ann Lee","email":"ann@example.org"}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMemberApplication_StatusChangeAudited(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.FormField{
		Form: models.FormMember, Name: "motivation", Label: "Why?", Type: "textarea", Required: true, Active: true,
	}).Error)

	resp := env.do(t, http.MethodPost, "/api/applications/member",
		`{"fullName":"Cara Diaz","email":"cara@example.org"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/applications/member",
		`{"fullName":"Cara Diaz","email":"cara@example.org","answers":{"motivation":"gardening","extra":"x"}}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint64 `json:"id"`
	}
	decode(t, resp, &created)

	var stored models.MemberApplication
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.Equal(t, "gardening", stored.Answers["motivation"])
	assert.NotContains(t, stored.Answers, "extra")

	env.user(t, "moderator", rbac.RoleModerator)
	env.user(t, "editor", rbac.RoleEditor)

	statusPath := "/api/admin/applications/members/" + strconv.FormatUint(created.ID, 10) + "/status"

	resp = env.do(t, http.MethodPatch, statusPath, `{"status":"approved"}`, env.login(t, "editor"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	mod := env.login(t, "moderator")

	resp = env.do(t, http.MethodPatch, statusPath, `{"status":"maybe"}`, mod)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, statusPath, `{"status":"approved"}`, mod)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	changes := env.audits(t, audit.ActionStatusChange)
	require.Len(t, changes, 1)
	assert.Equal(t, string(audit.EntityMemberApplication), changes[0].EntityType)
	assert.JSONEq(t, `{"old":{"status":"PENDING"},"new":{"status":"APPROVED"}}`, string(changes[0].Changes))
}

func TestApplicationsExportAudited(t *testing.T) {
	env := newTestEnv(t)
	ev := env.event(t, 0, true)

	for _, email := range []string{"a@example.org", "b@example.org"} {
		require.NoError(t, env.db.Create(&models.EventApplication{
			EventID:   ev.ID,
			Applicant: models.Applicant{FullName: email, Email: email, Status: models.StatusPending},
		}).Error)
	}

	env.user(t, "moderator", rbac.RoleModerator)

	resp := env.do(t, http.MethodGet,
		"/api/admin/applications/events/export?eventId="+strconv.FormatUint(ev.ID, 10), "", env.login(t, "moderator"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")

	exports := env.audits(t, audit.ActionExport)
	require.Len(t, exports, 1)
	assert.EqualValues(t, 2, exports[0].Metadata["rows"])
}

func TestNewsletter(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/newsletter/subscribe", `{"email":" Reader@Example.org "}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/newsletter/subscribe", `{"email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var sub models.NewsletterSubscriber
	require.NoError(t, env.db.Where("email = ?", "reader@example.org").First(&sub).Error)
	assert.True(t, sub.Active)

	resp = env.do(t, http.MethodGet, "/api/newsletter/unsubscribe/"+sub.Token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.First(&sub, sub.ID).Error)
	assert.False(t, sub.Active)
	assert.NotNil(t, sub.UnsubscribedAt)

	resp = env.do(t, http.MethodGet, "/api/newsletter/unsubscribe/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// subscribing again reactivates the same row
	resp = env.do(t, http.MethodPost, "/api/newsletter/subscribe", `{"email":"reader@example.org"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&models.NewsletterSubscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "admin", rbac.RoleAdmin)
	env.user(t, "editor", rbac.RoleEditor)

	resp := env.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var public map[string]any
	decode(t, resp, &public)
	assert.Equal(t, "Test Association", public["title"])

	resp = env.do(t, http.MethodPut, "/api/admin/settings", `{"title":"Renamed"}`, env.login(t, "editor"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/admin/settings", `{"title":"Renamed"}`, env.login(t, "admin"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updates := env.audits(t, audit.ActionUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, string(audit.EntitySetting), updates[0].EntityType)
	assert.JSONEq(t, `{"old":{"title":"Test Association"},"new":{"title":"Renamed"}}`, string(updates[0].Changes))
}
