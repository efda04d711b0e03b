package device

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/photostore"
)

// Library is the media library: images the user picks from disk or uploads
// from a browser. An empty root allows any path.
type Library struct {
	access domain.Permission
	root   string
	photos photostore.PhotoStore
	logger *slog.Logger
}

func NewLibrary(access domain.Permission, root string, photos photostore.PhotoStore, logger *slog.Logger) *Library {
	return &Library{access: access, root: root, photos: photos, logger: logger}
}

// Selection is one pick from the library. It satisfies gallery.MediaLibrary.
type Selection struct {
	lib  *Library
	open func() (io.ReadCloser, error)
}

// SelectFile selects the file at path. An empty path is a cancelled pick.
func (l *Library) SelectFile(path string) *Selection {
	if strings.TrimSpace(path) == "" {
		return &Selection{lib: l}
	}
	return &Selection{lib: l, open: func() (io.ReadCloser, error) {
		resolved, err := l.resolve(path)
		if err != nil {
			return nil, err
		}
		return os.Open(resolved)
	}}
}

// SelectUpload selects an uploaded image. A nil reader is a cancelled pick.
func (l *Library) SelectUpload(r io.Reader) *Selection {
	if r == nil {
		return &Selection{lib: l}
	}
	return &Selection{lib: l, open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}
}

func (s *Selection) RequestPermission(ctx context.Context) (domain.Permission, error) {
	return s.lib.access, nil
}

func (s *Selection) Pick(ctx context.Context) (domain.Result, error) {
	if s.open == nil {
		return domain.Result{Cancelled: true}, nil
	}
	rc, err := s.open()
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to open selection: %w", err)
	}
	defer closeWithLog(rc, "selection", s.lib.logger)

	return importImage(ctx, s.lib.photos, rc)
}

// resolve makes path absolute and, when a root is configured, rejects paths
// that lead outside it once symlinks are followed.
func (l *Library) resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if l.root == "" {
		return abs, nil
	}

	realRoot, err := filepath.EvalSymlinks(l.root)
	if err != nil {
		return "", fmt.Errorf("invalid library root: %w", err)
	}
	realRoot, err = filepath.Abs(realRoot)
	if err != nil {
		return "", fmt.Errorf("invalid library root: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(realRoot, real)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the media library", path)
	}
	return real, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
