// Package web wires the fiber application: middleware, templates, static
// files and every handler.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/auth"
	"github.com/AssocCMS/AssocCMS/internal/config"
	fiberlogger "github.com/AssocCMS/AssocCMS/internal/logger/adapter/fiber"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/upload"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/application"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/auditlog"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/media"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/resource"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/admin/user"
	oidchandler "github.com/AssocCMS/AssocCMS/internal/web/handler/auth/oidc"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/dashboard"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/login"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/logout"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/newsletter"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/public"
	"github.com/AssocCMS/AssocCMS/internal/web/handler/settings"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/actor"
	"github.com/AssocCMS/AssocCMS/internal/web/middleware/guard"
	"github.com/AssocCMS/AssocCMS/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
	// UploadsPath serves files of the local upload provider.
	UploadsPath = "/uploads"
)

// ErrNilDependency is returned by New when a required dependency is missing.
var ErrNilDependency = errors.New("web: missing dependency")

// Options are the dependencies of the web service.
type Options struct {
	DB *gorm.DB
	// Table is the permission table. Defaults to rbac.DefaultTable.
	Table *rbac.Table
	// Sessions is the session storage backend.
	Sessions fiber.Storage
	// Uploads is the media storage. Without it the upload routes are not registered.
	Uploads upload.Storage
	// OIDC enables single sign-on when set.
	OIDC oidchandler.Provider
	// Audit defaults to a writer on the audit_logs table of DB.
	Audit *audit.Writer
	// Views replaces the template engine, used by tests.
	Views fiber.Views
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, opts Options) (*Service, error) {
	if cfg == nil || opts.DB == nil || opts.Sessions == nil {
		return nil, ErrNilDependency
	}

	table := opts.Table
	if table == nil {
		table = rbac.DefaultTable()
	}

	writer := opts.Audit
	if writer == nil {
		writer = audit.NewWriter(audit.NewGormStore(opts.DB))
	}

	sessions, err := session.New(opts.Sessions, cfg.Webserver.Session.ExpiryTime, !cfg.DevMode)
	if err != nil {
		return nil, err
	}

	views := opts.Views
	if views == nil {
		views = newTemplateEngine(cfg, table)
	}

	bodyLimit := fiber.DefaultBodyLimit
	if maxUpload := int(cfg.Upload.MaxSize) + 1<<20; maxUpload > bodyLimit {
		bodyLimit = maxUpload
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          views,
			BodyLimit:      bodyLimit,
			ProxyHeader:    cfg.Webserver.ProxyHeader,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CheckAliveURI:     CheckAlivePath,
		CacheControlError: fiberlogger.ConfigDefault.CacheControlError,
		User: func(c *fiber.Ctx) string {
			a, _ := actor.From(c)

			return a.Username
		},
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	if local, ok := opts.Uploads.(*upload.Local); ok {
		app.Static(UploadsPath, local.Dir(), fiber.Static{Browse: false})
	}

	resolver := actor.NewResolver(sessions, opts.DB)

	// admin page guard
	app.Use(guard.New(table, resolver))

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       opts.DB,
		Table:    table,
		Audit:    writer,
		Sessions: sessions,
		Actors:   resolver,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		Uploads:  opts.Uploads,
	}

	oidchandler.Handler.Provider = opts.OIDC

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&oidchandler.Handler,
		&dashboard.Handler,
		&user.Handler,
		&application.Handler,
		&newsletter.Handler,
		&settings.Handler,
		&auditlog.Handler,
		&public.Handler,
	}
	services = append(services, resource.Content()...)

	if opts.Uploads != nil {
		services = append(services, &media.Handler)
	}

	for _, svc := range services {
		if err = svc.Init(app, deps); err != nil {
			return nil, fmt.Errorf("init handler %T: %w", svc, err)
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// errorHandler answers unhandled errors of the API with the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if strings.HasPrefix(c.Path(), handler.APIPath+"/") {
		msg := "internal server error"
		if fe != nil && code != fiber.StatusInternalServerError {
			msg = strings.ToLower(fe.Message)
		}

		return handler.Message(c, code, msg)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	return c.Status(code).SendString(http.StatusText(code))
}

func newTemplateEngine(cfg *config.Config, table *rbac.Table) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("can", func(a auth.Actor, perm string) bool {
		return table.HasPermission(a.Role, rbac.Permission(perm))
	})

	return templateEngine
}
