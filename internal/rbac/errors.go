package rbac

import "errors"

var (
	// ErrUnknownRole is returned when a role string is not one of the known roles.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownPermission is returned when a table or page rule references an unknown permission.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrRoleNotMapped is returned when a permission table leaves a known role without an entry.
	ErrRoleNotMapped = errors.New("role has no permission entry")

	// ErrInvalidPageRule is returned when a page rule has an empty or relative prefix.
	ErrInvalidPageRule = errors.New("invalid page rule")
)
