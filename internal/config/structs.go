package config

import (
	"time"

	"github.com/AssocCMS/AssocCMS/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `toml:"devMode"` // enable dev mode for development
	Title     string     `toml:"title"`
	DB        DB         `toml:"db"`
	Log       logger.Log `toml:"log"`
	Webserver Webserver  `toml:"webserver"`
	Upload    Upload     `toml:"upload"`
	OIDC      OIDC       `toml:"oidc"`
	Admin     Admin      `toml:"admin"`
}

// DB holds the database configuration settings.
type DB struct {
	GormEngine string `toml:"gormEngine"` // mysql, postgres or sqlite
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`   // database name, file path for sqlite
	Extras     string `toml:"extras"` // appended to the DSN as is
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool      `toml:"browseStatic"`   // enable static file browsing (for development purposes only)
	CacheEnabled   bool      `toml:"cacheEnabled"`   // true = enable template cache
	DisableRecover bool      `toml:"disableRecover"` // disable recover middleware
	Domain         string    `toml:"domain"`         // cookie domain
	Port           int       `toml:"port"`           // listening port for the webserver
	ShutDownTime   int       `toml:"shutDownTime"`   // seconds /checkalive reports 503 before shutdown
	URL            string    `toml:"url"`            // base url for the webserver
	ProxyHeader    string    `toml:"proxyHeader"`    // e.g. X-Forwarded-For when behind a proxy
	Session        Session   `toml:"session"`
	RateLimit      RateLimit `toml:"rateLimit"`
}

// Session settings.
type Session struct {
	ExpiryTime time.Duration `toml:"expiryTime"`
	// Storage selects the session backend: memory, db or redis.
	Storage string `toml:"storage"`
	Redis   Redis  `toml:"redis"`
}

// Redis connection of the redis session backend.
type Redis struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database int    `toml:"database"`
}

// RateLimit applies to the public write endpoints.
type RateLimit struct {
	Max        int           `toml:"max"`
	Expiration time.Duration `toml:"expiration"`
}

// Upload settings.
type Upload struct {
	Provider  string   `toml:"provider"` // local or s3
	MaxSize   int64    `toml:"maxSize"`  // bytes
	LocalDir  string   `toml:"localDir"`
	PublicURL string   `toml:"publicUrl"` // base URL the stored keys are served under
	S3        S3Upload `toml:"s3"`
}

// S3Upload settings of the s3 upload provider.
type S3Upload struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"` // custom endpoint for S3 compatible stores
	AccessKeyID     string `toml:"accessKeyId"`
	SecretAccessKey string `toml:"secretAccessKey"`
	UsePathStyle    bool   `toml:"usePathStyle"`
}

// OIDC single sign-on settings.
type OIDC struct {
	Enabled      bool     `toml:"enabled"`
	ProviderURL  string   `toml:"providerUrl"`
	ClientID     string   `toml:"clientId"`
	ClientSecret string   `toml:"clientSecret"`
	RedirectURL  string   `toml:"redirectUrl"`
	Scopes       []string `toml:"scopes"`
}

// Admin is the account seeded on first start when no user exists.
type Admin struct {
	Username string `toml:"username"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
}
