package upload

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize is used when no maximum is configured.
const DefaultMaxSize int64 = 5 << 20

// allowed maps the accepted content types to their file extensions.
var allowed = map[string][]string{ //nolint:gochecknoglobals
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/gif":       {".gif"},
	"image/webp":      {".webp"},
	"application/pdf": {".pdf"},
}

// Checked is a validated upload.
type Checked struct {
	// Ext is the lower case extension including the dot.
	Ext string
	// MIME is the sniffed content type.
	MIME string
}

// Validator checks uploads before they are stored.
type Validator struct {
	MaxSize int64
}

// NewValidator returns a Validator, DefaultMaxSize when maxSize is not positive.
func NewValidator(maxSize int64) Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return Validator{MaxSize: maxSize}
}

// Validate checks size, extension, sniffed content type and declared content
// type of a file named name.
func (v Validator) Validate(name, declared string, data []byte) (Checked, error) {
	if len(data) == 0 {
		return Checked{}, ErrEmptyFile
	}

	if int64(len(data)) > v.MaxSize {
		return Checked{}, fmt.Errorf("%w: %d bytes, at most %d", ErrTooLarge, len(data), v.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !extensionAllowed(ext) {
		return Checked{}, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}

	typ := baseType(mimetype.Detect(data).String())

	exts, ok := allowed[typ]
	if !ok {
		return Checked{}, fmt.Errorf("%w: %s", ErrTypeNotAllowed, typ)
	}

	if d := baseType(declared); d != "" && d != "application/octet-stream" && d != typ {
		return Checked{}, fmt.Errorf("%w: declared %s, content is %s", ErrTypeMismatch, d, typ)
	}

	if !contains(exts, ext) {
		return Checked{}, fmt.Errorf("%w: extension %s, content is %s", ErrTypeMismatch, ext, typ)
	}

	return Checked{Ext: ext, MIME: typ}, nil
}

func baseType(ct string) string {
	if ct == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}

	return mt
}

func extensionAllowed(ext string) bool {
	for _, exts := range allowed {
		if contains(exts, ext) {
			return true
		}
	}

	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
