// Package daemon assembles the database, session storage, upload storage and
// identity provider, and runs the web service on top of them.
package daemon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	sessionredis "github.com/gofiber/storage/redis/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/auth"
	"github.com/AssocCMS/AssocCMS/internal/config"
	"github.com/AssocCMS/AssocCMS/internal/db/dsn"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/logger/adapter/stdlogger"
	"github.com/AssocCMS/AssocCMS/internal/upload"
	"github.com/AssocCMS/AssocCMS/internal/web"
)

// SessionTable is the table of the database session backend.
const SessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the web service and blocks until it is shut down by a signal.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New creates a Daemon from cfg: it opens and migrates the database, seeds
// the first account, and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	if err = seed(ctx, cfg, db); err != nil {
		return nil, err
	}

	sessions, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	uploads, err := upload.New(ctx, cfg.Upload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up upload storage")
	}

	opts := web.Options{
		DB:       db,
		Sessions: sessions,
		Uploads:  uploads,
	}

	if cfg.OIDC.Enabled {
		provider, oidcErr := auth.NewOIDCProvider(ctx, cfg.OIDC)
		if oidcErr != nil {
			// the panel stays usable with local accounts
			log.Warn().Err(oidcErr).Msg("oidc provider unavailable, single sign-on disabled")

			cfg.OIDC.Enabled = false
		} else {
			opts.OIDC = provider
		}
	}

	svc, err := web.New(cfg, opts)
	if err != nil {
		return nil, err
	}

	return &Daemon{cfg: cfg, webService: svc}, nil
}

// OpenDB opens the database of the configured gorm engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite, "":
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         stdlogger.Gorm(cfg.Log.SQLLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return db, nil
}

// newSessionStorage returns the configured session backend. The db backend
// follows the gorm engine; sqlite has no session driver and falls back to
// memory.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	s := cfg.Webserver.Session

	switch s.Storage {
	case config.SessionMemory:
		return memory.New(), nil
	case config.SessionRedis:
		return sessionredis.New(sessionredis.Config{
			Host:     s.Redis.Host,
			Port:     s.Redis.Port,
			Username: s.Redis.Username,
			Password: s.Redis.Password,
			Database: s.Redis.Database,
		}), nil
	case config.SessionDB, "":
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSessionStorage, s.Storage)
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         SessionTable,
			GCInterval:    10 * time.Minute,
		}), nil
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         SessionTable,
			GCInterval:    10 * time.Minute,
		}), nil
	default:
		log.Warn().Str("engine", cfg.DB.GormEngine).Msg("no database session driver, sessions are kept in memory")

		return memory.New(), nil
	}
}
