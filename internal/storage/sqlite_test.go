package storage

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skip("sqlite driver requires cgo")
		}
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	exerciseBlobStore(t, store)
}

func TestOpenSQLiteRequiresFilename(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected error for empty filename")
	}
}
