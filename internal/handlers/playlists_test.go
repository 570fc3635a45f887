package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

func TestPlaylistHandlerLifecycle(t *testing.T) {
	store := newTestLibrary(t)
	first := mustAddSegment(t, store, "one", "0", "10")
	second := mustAddSegment(t, store, "two", "0", "10")
	mux := newTestMux(store, &playerStub{})

	rec := serve(t, mux, http.MethodPost, "/api/v1/playlists", map[string]any{
		"name":       "Mix",
		"segmentIds": []string{first.ID, second.ID, first.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusCreated)
	}
	var created models.Playlist
	decodeBody(t, rec, &created)
	if len(created.SegmentIDs) != 3 {
		t.Fatalf("expected duplicates preserved, got %v", created.SegmentIDs)
	}

	store.DeleteSegment(context.Background(), second.ID)

	rec = serve(t, mux, http.MethodGet, "/api/v1/playlists/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	var detail playlistResponse
	decodeBody(t, rec, &detail)
	if detail.Name != "Mix" || len(detail.SegmentIDs) != 2 || len(detail.Segments) != 2 {
		t.Fatalf("unexpected playlist detail: %+v", detail)
	}

	rec = serve(t, mux, http.MethodPut, "/api/v1/playlists/"+created.ID, map[string]any{
		"name":        "Mix v2",
		"description": "updated",
		"segmentIds":  []string{first.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	rec = serve(t, mux, http.MethodGet, "/api/v1/playlists?q=v2", nil)
	var list listResponse[models.Playlist]
	decodeBody(t, rec, &list)
	if list.Total != 1 || list.Items[0].Description != "updated" {
		t.Fatalf("unexpected search result: %+v", list)
	}

	rec = serve(t, mux, http.MethodGet, "/api/v1/playlists/"+created.ID+"/share", nil)
	var share shareResponse
	decodeBody(t, rec, &share)
	if share.Link != "http://localhost:8080/?playlist="+created.ID || share.WatchURL != "" {
		t.Fatalf("unexpected share: %+v", share)
	}

	if rec := serve(t, mux, http.MethodDelete, "/api/v1/playlists/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", rec.Code)
	}
	if rec := serve(t, mux, http.MethodGet, "/api/v1/playlists/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected not found after delete, got %d", rec.Code)
	}
}

func TestPlaylistHandlerValidation(t *testing.T) {
	mux := newTestMux(newTestLibrary(t), &playerStub{})

	cases := []struct {
		name   string
		body   any
		reason string
	}{
		{name: "missing name", body: map[string]any{"segmentIds": []string{"seg_1"}}, reason: "missing name"},
		{name: "no segments", body: map[string]any{"name": "Empty"}, reason: "no segments selected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, mux, http.MethodPost, "/api/v1/playlists", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] != tc.reason {
				t.Fatalf("unexpected error: got %q want %q", body["error"], tc.reason)
			}
		})
	}
}
