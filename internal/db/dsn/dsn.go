// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/AssocCMS/AssocCMS/internal/config"
)

// Create builds the Data Source Name of the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres(cfg.DB)
	case config.EngineSQLite:
		return sqlite(cfg.DB)
	default:
		return mysql(cfg.DB)
	}
}

// mysql returns user:password@tcp(host:port)/name?extras.
func mysql(db config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		db.User,
		db.Password,
		net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		db.Name,
		db.Extras,
	)
}

// postgres returns a postgres:// URL; extras are appended as the query.
func postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// sqlite returns the database file, ":memory:" when no name is set.
func sqlite(db config.DB) string {
	name := db.Name
	if name == "" {
		name = ":memory:"
	}

	if db.Extras != "" {
		return name + "?" + db.Extras
	}

	return name
}
