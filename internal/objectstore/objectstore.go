// Package objectstore implements capability.ObjectStore against the local
// filesystem: atomic copy-then-rename into a rooted directory tree, with
// per-directory locking around collision-suffix resolution.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ingestd/ingestd/internal/capability"
)

// Store is a capability.ObjectStore rooted at a single local directory.
type Store struct {
	root string

	// dirLocks serializes collision-suffix resolution per destination
	// directory, so two concurrent workers targeting the same directory
	// never pick the same disambiguated name.
	dirMu sync.Mutex
	dirLocks map[string]*sync.Mutex
}

// New roots a Store at root, creating it if necessary.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating object store root %q: %w", root, err)
	}
	return &Store{root: root, dirLocks: make(map[string]*sync.Mutex)}, nil
}

var _ capability.ObjectStore = (*Store)(nil)

// CopyInto copies src into destRelative under the store's root, resolving
// name collisions by appending "_1", "_2", ... before the extension, and
// returns the relative path actually used.
func (s *Store) CopyInto(ctx context.Context, src, destRelative string) (string, error) {
	return s.copyInto(src, destRelative)
}

func (s *Store) lockFor(dir string) *sync.Mutex {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	m, ok := s.dirLocks[dir]
	if !ok {
		m = &sync.Mutex{}
		s.dirLocks[dir] = m
	}
	return m
}

func (s *Store) copyInto(src, destRelative string) (string, error) {
	destRelative = filepath.FromSlash(destRelative)
	dir := filepath.Dir(destRelative)
	absDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("creating destination directory %q: %w", absDir, err)
	}

	lock := s.lockFor(absDir)
	lock.Lock()
	defer lock.Unlock()

	finalRelative, finalAbs, err := resolveCollision(absDir, destRelative)
	if err != nil {
		return "", err
	}

	if err := atomicCopy(src, finalAbs); err != nil {
		return "", fmt.Errorf("copying %q to %q: %w", src, finalAbs, err)
	}

	return filepath.ToSlash(finalRelative), nil
}

// resolveCollision finds the first of destRelative, destRelative with
// "_1" appended before the extension, "_2", ... that does not already
// exist in absDir, returning both the relative and absolute forms.
func resolveCollision(absDir, destRelative string) (string, string, error) {
	base := filepath.Base(destRelative)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	dirPart := filepath.Dir(destRelative)

	for attempt := 0; ; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = stem + "_" + strconv.Itoa(attempt) + ext
		}
		absCandidate := filepath.Join(absDir, candidate)
		if _, err := os.Stat(absCandidate); os.IsNotExist(err) {
			return filepath.Join(dirPart, candidate), absCandidate, nil
		} else if err != nil {
			return "", "", fmt.Errorf("checking %q: %w", absCandidate, err)
		}
	}
}

// atomicCopy copies src to a temp file beside dest, then renames it into
// place, so a concurrent reader never observes a partially written file.
func atomicCopy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source %q: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".objectstore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// Resolve returns the absolute path for a store-relative path.
func (s *Store) Resolve(relative string) (string, error) {
	return filepath.Join(s.root, filepath.FromSlash(relative)), nil
}
