package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
	"github.com/AGTDofficial/my-yt-playlist/internal/storage"
)

var testNow = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

type sequentialIDs struct{ n int }

func (g *sequentialIDs) Segment() string {
	g.n++
	return fmt.Sprintf("seg_%d", g.n)
}

func (g *sequentialIDs) Playlist() string {
	g.n++
	return fmt.Sprintf("pl_%d", g.n)
}

func newTestLibrary(t *testing.T) *library.Store {
	t.Helper()
	store := library.New(storage.NewMemoryStore(), library.Options{
		Now: func() time.Time { return testNow },
		IDs: &sequentialIDs{},
	})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load library: %v", err)
	}
	return store
}

func mustAddSegment(t *testing.T, store *library.Store, name, start, end string) models.Segment {
	t.Helper()
	seg, err := store.AddSegment(context.Background(), library.SegmentInput{
		URL:   "https://www.youtube.com/watch?v=vid" + name,
		Name:  name,
		Start: start,
		End:   end,
	})
	if err != nil {
		t.Fatalf("add segment %s: %v", name, err)
	}
	return seg
}

type playerStub struct {
	err   error
	calls []string
}

func (p *playerStub) Status() playback.Status {
	return playback.Status{Mode: playback.ModeIdle, Ready: true}
}

func (p *playerStub) PlaySegment(ctx context.Context, seg models.Segment) error {
	p.calls = append(p.calls, "segment:"+seg.ID)
	return p.err
}

func (p *playerStub) PlayPlaylist(ctx context.Context, pl models.Playlist) error {
	p.calls = append(p.calls, "playlist:"+pl.ID)
	return p.err
}

func (p *playerStub) Next(ctx context.Context) error {
	p.calls = append(p.calls, "next")
	return p.err
}

func (p *playerStub) Previous(ctx context.Context) error {
	p.calls = append(p.calls, "previous")
	return p.err
}

func (p *playerStub) Stop(ctx context.Context) error {
	p.calls = append(p.calls, "stop")
	return p.err
}

type limiterStub struct {
	allow bool
	keys  []string
}

func (l *limiterStub) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

func newTestMux(store *library.Store, player PlayerService) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Segments:  store,
		Playlists: store,
		Transfer:  store,
		Profile:   store,
		Player:    player,
		PublicURL: "http://localhost:8080/",
	})
	return mux
}

func serve(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
