package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newDiskStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return s
}

func TestDiskStore_SaveAndLoad(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4 test payload")
	if err := s.Save(ctx, "abc123.pdf", content, "application/pdf"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "abc123.pdf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("Load content = %q, want %q", got, content)
	}

	// no temp file left behind
	if _, err := os.Stat(filepath.Join(s.dataDir, "abc123.pdf.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file still present: %v", err)
	}
}

func TestDiskStore_LoadUnknown(t *testing.T) {
	s := newDiskStore(t)
	if _, err := s.Load(context.Background(), "never-stored.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDiskStore_RejectsTraversalLocators(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	for _, loc := range []string{"../escape", "a/b", `a\b`, "", ".", ".."} {
		if err := s.Save(ctx, loc, []byte("x"), "image/png"); err == nil {
			t.Errorf("Save(%q) accepted a traversal locator", loc)
		}
		if _, err := s.Load(ctx, loc); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) err = %v, want ErrNotFound", loc, err)
		}
	}
}

func TestDiskStore_DeleteIdempotent(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "gone.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "gone.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "gone.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete err = %v, want ErrNotFound", err)
	}
	// second delete is a no-op
	if err := s.Delete(ctx, "gone.jpg"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
