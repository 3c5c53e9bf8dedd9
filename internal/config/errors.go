package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrUnknownUploadProvider error if config upload.provider is not supported.
	ErrUnknownUploadProvider = errors.New("toml config upload.provider must be local or s3")

	// ErrMissingS3Bucket error if the s3 provider has no bucket.
	ErrMissingS3Bucket = errors.New("toml config upload.s3.bucket can not be empty")

	// ErrUnknownSessionStorage error if config webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("toml config webserver.session.storage must be memory, db or redis")
)
