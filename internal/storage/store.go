// Package storage manages the shared uploads directory where all
// request-scoped artifacts are written and later served.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store is the managed storage directory. Collision avoidance relies on the
// random component in every generated name, so concurrent requests never
// target the same path and no locking is needed.
type Store struct {
	Dir string
}

// Open ensures the directory exists and returns a store for it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// UniqueName returns a fresh collision-free file name ending in suffix.
func (s *Store) UniqueName(suffix string) string {
	return uuid.NewString() + suffix
}

// Path joins a bare name onto the storage directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// SaveUpload persists uploaded bytes under a fresh unique name ending in
// suffix, which carries the original base name and extension.
func (s *Store) SaveUpload(content io.Reader, suffix string) (string, error) {
	path := s.Path(s.UniqueName(suffix))

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// Sweep removes artifacts older than ttl and reports how many were removed.
// Published URLs stay valid for anything younger than the TTL.
func (s *Store) Sweep(ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, fmt.Errorf("read uploads dir: %w", err)
	}

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(s.Path(entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
