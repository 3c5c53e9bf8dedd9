package upload

import "errors"

var (
	// ErrEmptyFile is returned for zero byte uploads.
	ErrEmptyFile = errors.New("file is empty")
	// ErrTooLarge is returned when a file exceeds the configured maximum size.
	ErrTooLarge = errors.New("file is too large")
	// ErrExtensionNotAllowed is returned for file extensions outside the allow list.
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	// ErrTypeNotAllowed is returned when the sniffed content type is outside the allow list.
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	// ErrTypeMismatch is returned when the declared content type or the extension
	// does not match the sniffed content type.
	ErrTypeMismatch = errors.New("file content does not match its type")
	// ErrUnknownProvider is returned for an unsupported storage provider.
	ErrUnknownProvider = errors.New("unsupported upload provider")
	// ErrInvalidKey is returned for storage keys escaping the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// IsRejected reports whether err rejects the uploaded file itself, as
// opposed to a storage failure.
func IsRejected(err error) bool {
	for _, target := range []error{ErrEmptyFile, ErrTooLarge, ErrExtensionNotAllowed, ErrTypeNotAllowed, ErrTypeMismatch} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
