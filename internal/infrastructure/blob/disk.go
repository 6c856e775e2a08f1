package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects as flat files under a data directory.
// Writes go through a temp file with fsync and an atomic rename so a crash
// never leaves a half-written object behind.
type DiskStore struct {
	dataDir string
}

func NewDiskStore(dataDir string) (*DiskStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &DiskStore{dataDir: dataDir}, nil
}

// validLocator rejects anything that could escape the data dir. Locators are
// generated server-side, so a failure here is a programming error, not input.
func validLocator(locator string) bool {
	if locator == "" || strings.ContainsAny(locator, `/\`) {
		return false
	}
	return filepath.Base(locator) == locator && locator != "." && locator != ".."
}

func (s *DiskStore) path(locator string) string { return filepath.Join(s.dataDir, locator) }

func (s *DiskStore) Save(ctx context.Context, locator string, content []byte, contentType string) error {
	if !validLocator(locator) {
		return fmt.Errorf("invalid locator %q", locator)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := s.path(locator)
	tmp := full + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write object: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("fsync object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename object: %w", err)
	}
	return nil
}

func (s *DiskStore) Load(ctx context.Context, locator string) ([]byte, error) {
	if !validLocator(locator) {
		return nil, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read object %s: %w", locator, err)
	}
	return b, nil
}

func (s *DiskStore) Delete(ctx context.Context, locator string) error {
	if !validLocator(locator) {
		return nil
	}
	if err := os.Remove(s.path(locator)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", locator, err)
	}
	return nil
}
