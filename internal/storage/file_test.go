package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	exerciseBlobStore(t, store)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Put(context.Background(), "library", "value"); err != nil {
		t.Fatalf("put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "library.blob" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "library.blob")); string(data) != "value" {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Put(context.Background(), "../escape", "x"); err == nil {
		t.Fatal("expected error for key containing a path separator")
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(" "); err == nil {
		t.Fatal("expected error for blank directory")
	}
}
