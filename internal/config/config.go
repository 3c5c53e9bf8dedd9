// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvJSON names the environment variable holding a JSON config override.
const EnvJSON = "ASSOC_CMS_CONFIG_JSON"

// Supported values of DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Supported values of Upload.Provider.
const (
	UploadLocal = "local"
	UploadS3    = "s3"
)

// Supported values of Session.Storage.
const (
	SessionMemory = "memory"
	SessionDB     = "db"
	SessionRedis  = "redis"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c, func(dc *mapstructure.DecoderConfig) { dc.TagName = "toml" }); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if env := os.Getenv(EnvJSON); env != "" {
		c, err = decodeAndMergeConfig(c, env)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills
// in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Upload.Provider {
	case "":
		c.Upload.Provider = UploadLocal
	case UploadLocal:
	case UploadS3:
		if c.Upload.S3.Bucket == "" {
			return errors.Wrap(ErrMissingS3Bucket, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownUploadProvider, invalidErrMessage)
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = SessionDB
	case SessionMemory, SessionDB, SessionRedis:
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	setDefaults(c)

	return nil
}

func setDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = 12 * time.Hour
	}

	if c.Webserver.RateLimit.Max == 0 {
		c.Webserver.RateLimit.Max = 10
	}

	if c.Webserver.RateLimit.Expiration == 0 {
		c.Webserver.RateLimit.Expiration = time.Minute
	}

	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 5 << 20
	}

	if c.Upload.LocalDir == "" {
		c.Upload.LocalDir = "./uploads"
	}

	if c.Upload.Provider == UploadLocal && c.Upload.PublicURL == "" {
		c.Upload.PublicURL = "/uploads"
	}
}
