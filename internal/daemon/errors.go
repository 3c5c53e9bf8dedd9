package daemon

import "errors"

var (
	// ErrNilConfig is returned by New without a configuration.
	ErrNilConfig = errors.New("daemon: config is nil")

	// ErrWeakAdminPassword is returned when the seeded account would get an unusable password.
	ErrWeakAdminPassword = errors.New("daemon: admin.password must have at least 8 characters")
)
