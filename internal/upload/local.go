package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/AssocCMS/AssocCMS/internal/config"
)

// Local stores objects below a directory.
type Local struct {
	dir       string
	publicURL string
}

// NewLocal returns a Local storage rooted at dir, serving objects below publicURL.
func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Local{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Name implements Storage.
func (l *Local) Name() string {
	return config.UploadLocal
}

// Dir returns the storage root.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}

// Put implements Storage.
func (l *Local) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	dst, err := l.path(key)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(dst), 0o750); err != nil { //nolint:mnd
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) //nolint:mnd
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}

	if _, err = io.Copy(out, r); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)

		return "", fmt.Errorf("write %s: %w", key, err)
	}

	if err = out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	return l.publicURL + "/" + strings.TrimPrefix(key, "/"), nil
}

// Delete implements Storage. Deleting a missing object is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err = os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}
