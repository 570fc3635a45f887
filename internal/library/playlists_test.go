package library

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/AGTDofficial/my-yt-playlist/internal/storage"
)

func TestAddPlaylistValidation(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	var verr *ValidationError
	_, err := store.AddPlaylist(ctx, PlaylistInput{Name: " ", SegmentIDs: []string{"x"}})
	if !errors.As(err, &verr) || verr.Reason != ReasonMissingName {
		t.Fatalf("expected missing name, got %v", err)
	}
	_, err = store.AddPlaylist(ctx, PlaylistInput{Name: "Empty"})
	if !errors.As(err, &verr) || verr.Reason != ReasonNoSegments {
		t.Fatalf("expected no segments selected, got %v", err)
	}
	if len(store.Playlists()) != 0 {
		t.Fatal("rejected input must not change state")
	}
}

func TestPlaylistLifecycle(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	a, _ := store.AddSegment(ctx, validInput())
	b, _ := store.AddSegment(ctx, validInput())

	pl, err := store.AddPlaylist(ctx, PlaylistInput{Name: " Mix ", Description: " best bits ", SegmentIDs: []string{b.ID, a.ID, b.ID}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if pl.Name != "Mix" || pl.Description != "best bits" {
		t.Fatalf("unexpected playlist %+v", pl)
	}
	if !reflect.DeepEqual(pl.SegmentIDs, []string{b.ID, a.ID, b.ID}) {
		t.Fatalf("order or duplicates not preserved: %v", pl.SegmentIDs)
	}

	updated, err := store.UpdatePlaylist(ctx, pl.ID, PlaylistInput{Name: "Renamed", SegmentIDs: []string{a.ID}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != pl.ID || !updated.DateCreated.Equal(pl.DateCreated) || updated.DateModified == nil {
		t.Fatalf("identity or timestamps wrong: %+v", updated)
	}
	if _, err := store.UpdatePlaylist(ctx, "missing", PlaylistInput{Name: "x", SegmentIDs: []string{a.ID}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	store.DeletePlaylist(ctx, pl.ID)
	store.DeletePlaylist(ctx, pl.ID)
	if _, err := store.Playlist(pl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected playlist gone, got %v", err)
	}
	if len(store.Segments()) != 2 {
		t.Fatal("deleting a playlist must not delete segments")
	}
}

func TestPlaylistSegmentsSkipsDanglingIDs(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	a, _ := store.AddSegment(ctx, validInput())
	pl, err := store.AddPlaylist(ctx, PlaylistInput{Name: "Mix", SegmentIDs: []string{"ghost", a.ID, a.ID}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	segs, err := store.PlaylistSegments(pl.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(segs) != 2 || segs[0].ID != a.ID || segs[1].ID != a.ID {
		t.Fatalf("unexpected resolution %+v", segs)
	}
	if _, err := store.PlaylistSegments("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
