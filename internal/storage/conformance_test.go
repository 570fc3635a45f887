package storage

import (
	"context"
	"errors"
	"testing"
)

// exerciseBlobStore runs the behaviour every backend shares.
func exerciseBlobStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "ytSegmentSaver"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Put(ctx, "ytSegmentSaver", "C1e30="); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "ytSegmentSaver")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "C1e30=" {
		t.Fatalf("unexpected value: got %q", got)
	}

	if err := store.Put(ctx, "ytSegmentSaver", `{"currentUser":"defaultUser"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Get(ctx, "ytSegmentSaver")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got != `{"currentUser":"defaultUser"}` {
		t.Fatalf("unexpected value after overwrite: got %q", got)
	}

	if err := store.Delete(ctx, "ytSegmentSaver"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "ytSegmentSaver"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "ytSegmentSaver"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}

	if err := store.Put(ctx, "", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}
