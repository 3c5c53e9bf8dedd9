package login

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/config"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
	"github.com/AssocCMS/AssocCMS/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func newTestApp(t *testing.T, devMode bool) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{
		DevMode: devMode,
		Title:   "Test Association",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	sessions, err := session.New(memory.New(), cfg.Webserver.Session.ExpiryTime, !devMode)
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Table:    rbac.DefaultTable(),
		Audit:    audit.NewWriter(audit.NewGormStore(db)),
		Sessions: sessions,
		Actors:   actor.NewResolver(sessions, db),
		Validate: validator.New(),
	}

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	var s Service
	if err := s.Init(app, deps); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username, password string, active bool) *models.User {
	t.Helper()

	u := &models.User{
		Username:   username,
		Email:      username + "@example.org",
		Role:       rbac.RoleEditor.String(),
		AuthSource: models.AuthSourceLocal,
		Active:     true,
	}

	if err := u.SetPassword(password); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if !active {
		if err := db.Model(u).Update("active", false).Error; err != nil {
			t.Fatalf("failed to disable user: %v", err)
		}
	}

	return u
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func countLogins(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.AuditLog{}).Where("action = ?", audit.ActionLogin).Count(&n).Error; err != nil {
		t.Fatalf("count audit logs: %v", err)
	}

	return n
}

func TestPost_Success_SetsCookieAndRedirects(t *testing.T) {
	app, db := newTestApp(t, false)
	createUser(t, db, "bob", "s3cr3t-pass", true)

	resp := performPost(t, app, url.Values{"username": {"bob"}, "password": {"s3cr3t-pass"}})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != rbac.AdminPrefix {
		t.Fatalf("expected redirect to %s, got %s", rbac.AdminPrefix, loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, session.CookieName+"=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}

	if n := countLogins(t, db); n != 1 {
		t.Fatalf("expected one LOGIN audit entry, got %d", n)
	}
}

func TestPost_DevModeDisablesSecure(t *testing.T) {
	app, db := newTestApp(t, true)
	createUser(t, db, "carol", "carol-pass", true)

	resp := performPost(t, app, url.Values{"username": {"carol"}, "password": {"carol-pass"}})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if setCookie := resp.Header.Get("Set-Cookie"); strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPost_LoginByEmail(t *testing.T) {
	app, db := newTestApp(t, true)
	createUser(t, db, "erin", "erin-pass", true)

	resp := performPost(t, app, url.Values{"username": {"ERIN@example.org"}, "password": {"erin-pass"}})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}
}

func TestPost_Failures(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantBody string
	}{
		{
			name:     "wrong password",
			form:     url.Values{"username": {"dave"}, "password": {"nope"}},
			wantCode: http.StatusUnauthorized,
			wantBody: ErrInvalidCredentials.Error(),
		},
		{
			name:     "unknown user",
			form:     url.Values{"username": {"nobody"}, "password": {"dave-pass"}},
			wantCode: http.StatusUnauthorized,
			wantBody: ErrInvalidCredentials.Error(),
		},
		{
			name:     "disabled account",
			form:     url.Values{"username": {"frank"}, "password": {"frank-pass"}},
			wantCode: http.StatusForbidden,
			wantBody: ErrAccountDisabled.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, db := newTestApp(t, true)
			createUser(t, db, "dave", "dave-pass", true)
			createUser(t, db, "frank", "frank-pass", false)

			resp := performPost(t, app, tt.form)

			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.wantBody) {
				t.Fatalf("expected %q in body, got %q", tt.wantBody, string(body))
			}

			if resp.Header.Get("Set-Cookie") != "" {
				t.Fatalf("no session expected on failure")
			}

			if n := countLogins(t, db); n != 0 {
				t.Fatalf("expected no LOGIN audit entry, got %d", n)
			}
		})
	}
}

func TestPost_JSON(t *testing.T) {
	app, db := newTestApp(t, true)
	u := createUser(t, db, "gina", "gina-pass", true)

	req := httptest.NewRequest(http.MethodPost, Path,
		strings.NewReader(`{"username":"gina","password":"gina-pass"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var got struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ID != u.ID || got.Username != "gina" || got.Role != rbac.RoleEditor.String() {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestPost_InvalidJSON(t *testing.T) {
	app, _ := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), ErrInvalidFormData.Error()) {
		t.Fatalf("expected error message in body, got %q", string(body))
	}
}

func TestGet_RendersLogin(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path, nil), -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != TemplateName {
		t.Fatalf("expected login template, got %d %q", resp.StatusCode, string(body))
	}
}
