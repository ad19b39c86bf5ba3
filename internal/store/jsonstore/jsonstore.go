package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// JSON-backed slot. Single file, human-readable, portable.
// Writes go through a temp file + rename under an advisory lock, so two
// invocations never leave a half-written file behind.

const DataFileName = "watchlist.items.v1.json"

const lockRetryDelay = 25 * time.Millisecond

type Slot struct {
	path string
	lock *flock.Flock
}

// New returns a slot stored as DataFileName inside dir.
func New(dir string) *Slot {
	return NewAt(filepath.Join(dir, DataFileName))
}

// NewAt returns a slot stored at an explicit file path.
func NewAt(path string) *Slot {
	return &Slot{path: path, lock: flock.New(path + ".lock")}
}

func (s *Slot) Name() string { return s.path }
func (s *Slot) Path() string { return s.path }

func (s *Slot) Read(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return b, true, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("acquire lock: slot is busy")
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := atomicWriteFile(dir, ".watchlist-*.tmp", s.path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
