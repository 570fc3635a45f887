package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
)

// PlayerHandler exposes the playback controller.
type PlayerHandler struct {
	Player    PlayerService
	Segments  SegmentStore
	Playlists PlaylistStore
}

func (h PlayerHandler) available(ctx context.Context, w http.ResponseWriter) bool {
	if h.Player == nil || h.Segments == nil || h.Playlists == nil {
		logging.FromContext(ctx).Error("player dependencies unavailable", "hasPlayer", h.Player != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "player services unavailable"})
		return false
	}
	return true
}

// Status handles GET /api/v1/player.
func (h PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if !h.available(ctx, w) {
		return
	}
	respondJSON(ctx, w, http.StatusOK, h.Player.Status())
}

// PlaySegment handles POST /api/v1/player/segments/{id}.
func (h PlayerHandler) PlaySegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if !h.available(ctx, w) {
		return
	}

	seg, err := h.Segments.Segment(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := h.Player.PlaySegment(ctx, seg); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, h.Player.Status())
}

// PlayPlaylist handles POST /api/v1/player/playlists/{id}.
func (h PlayerHandler) PlayPlaylist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if !h.available(ctx, w) {
		return
	}

	pl, err := h.Playlists.Playlist(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := h.Player.PlayPlaylist(ctx, pl); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, h.Player.Status())
}

// Next handles POST /api/v1/player/next.
func (h PlayerHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context) error { return h.Player.Next(ctx) })
}

// Previous handles POST /api/v1/player/previous.
func (h PlayerHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context) error { return h.Player.Previous(ctx) })
}

// Stop handles POST /api/v1/player/stop.
func (h PlayerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context) error { return h.Player.Stop(ctx) })
}

func (h PlayerHandler) command(w http.ResponseWriter, r *http.Request, run func(context.Context) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if !h.available(ctx, w) {
		return
	}
	if err := run(ctx); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, h.Player.Status())
}

// DeepLink handles GET /api/v1/share?segment=<id> or ?playlist=<id>. A
// segment parameter takes precedence. Unknown ids are ignored with 204.
func (h PlayerHandler) DeepLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if !h.available(ctx, w) {
		return
	}

	query := r.URL.Query()
	var err error
	switch segmentID, playlistID := query.Get("segment"), query.Get("playlist"); {
	case segmentID != "":
		seg, lookupErr := h.Segments.Segment(segmentID)
		if lookupErr != nil {
			err = lookupErr
			break
		}
		err = h.Player.PlaySegment(ctx, seg)
	case playlistID != "":
		pl, lookupErr := h.Playlists.Playlist(playlistID)
		if lookupErr != nil {
			err = lookupErr
			break
		}
		err = h.Player.PlayPlaylist(ctx, pl)
	default:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if errors.Is(err, library.ErrNotFound) {
		logging.FromContext(ctx).Info("shared link target missing", "query", r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, h.Player.Status())
}
