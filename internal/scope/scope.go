// Package scope provides ephemeral working directories whose removal is
// guaranteed regardless of how the enclosing operation exits, and
// per-artifact release so large sessions do not accumulate files on disk.
package scope

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Belphemur/MediaFinder/internal/config"
)

const dirPrefix = "mediafinder-"

// Scope is a private working directory plus the set of individually tracked files
// created inside (or registered from outside) it.
type Scope struct {
	id  string
	dir string

	mu      sync.Mutex
	tracked map[string]struct{}
	closed  bool
}

// New creates a fresh, empty directory under root (the OS temp dir when root is empty).
// Callers own the returned scope and must Close it; prefer WithScope.
func New(root string) (*Scope, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create scope root: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, dirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create scope directory: %w", err)
	}
	return &Scope{
		id:      uuid.NewString(),
		dir:     dir,
		tracked: make(map[string]struct{}),
	}, nil
}

// WithScope creates a scope, runs fn with it, and removes the directory and all of
// its contents on return, including when fn fails or panics.
func WithScope(ctx context.Context, root string, fn func(*Scope) error) (err error) {
	s, err := New(root)
	if err != nil {
		return err
	}
	logger := config.GetLogger()
	logger.Debug().Str("scope", s.id).Str("dir", s.dir).Msg("Scope acquired")

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Str("scope", s.id).Str("dir", s.dir).Msg("Failed to remove scope directory")
			if err == nil {
				err = closeErr
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s)
}

// ID returns the correlation ID of the scope.
func (s *Scope) ID() string {
	return s.id
}

// Dir returns the scope's working directory.
func (s *Scope) Dir() string {
	return s.dir
}

// NewFile reserves a path for name inside the scope and tracks it. The file itself
// is not created; name is reduced to a safe base name.
func (s *Scope) NewFile(name string) (string, error) {
	path, err := safeJoin(s.dir, sanitizeFilename(name))
	if err != nil {
		return "", err
	}
	if err := s.Track(path); err != nil {
		return "", err
	}
	return path, nil
}

// Track registers an individual file for release. Paths outside the scope
// directory are allowed.
func (s *Scope) Track(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("scope already closed")
	}
	s.tracked[filepath.Clean(path)] = struct{}{}
	return nil
}

// Release removes a tracked file immediately. Releasing a file that does not
// exist (never written, or already released) is not an error.
func (s *Scope) Release(path string) error {
	path = filepath.Clean(path)
	s.mu.Lock()
	delete(s.tracked, path)
	s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release %s: %w", filepath.Base(path), err)
	}
	logger := config.GetLogger()
	logger.Debug().Str("scope", s.id).Str("file", filepath.Base(path)).Msg("Released artifact")
	return nil
}

// Tracked returns the files registered but not yet released.
func (s *Scope) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.tracked))
	for p := range s.tracked {
		paths = append(paths, p)
	}
	return paths
}

// Close releases every tracked file and removes the directory. It is safe to call
// more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := make([]string, 0, len(s.tracked))
	for p := range s.tracked {
		pending = append(pending, p)
	}
	s.tracked = map[string]struct{}{}
	s.mu.Unlock()

	var errs []error
	for _, p := range pending {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		errs = append(errs, err)
	}
	logger := config.GetLogger()
	logger.Debug().Str("scope", s.id).Int("released", len(pending)).Msg("Scope released")
	return errors.Join(errs...)
}

// sanitizeFilename removes path traversal and dangerous characters from a filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." || name == "_" {
		return "artifact"
	}
	return name
}

// safeJoin joins name to dir and verifies the result stays inside dir.
func safeJoin(dir, name string) (string, error) {
	full := filepath.Join(dir, name)
	if !strings.HasPrefix(full, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", full, dir)
	}
	return full, nil
}
