package handlers

import (
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// PlaylistHandler serves the playlist collection.
type PlaylistHandler struct {
	Playlists   PlaylistStore
	Preferences PreferenceReader
	PublicURL   string
}

type playlistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SegmentIDs  []string `json:"segmentIds"`
}

func (req playlistRequest) input() library.PlaylistInput {
	return library.PlaylistInput{Name: req.Name, Description: req.Description, SegmentIDs: req.SegmentIDs}
}

// playlistResponse carries a playlist with its playable segments resolved.
type playlistResponse struct {
	models.Playlist
	Segments []models.Segment `json:"segments"`
}

// Collection handles GET and POST /api/v1/playlists.
func (h PlaylistHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Playlists == nil {
		logger.Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		items := h.Playlists.Playlists()
		if query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); query != "" {
			items = lo.Filter(items, func(pl models.Playlist, _ int) bool {
				return strings.Contains(strings.ToLower(pl.Name), query)
			})
		}
		respondJSON(ctx, w, http.StatusOK, paginate(r, h.Preferences, items))
	case http.MethodPost:
		var req playlistRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn("invalid playlist payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		pl, err := h.Playlists.AddPlaylist(ctx, req.input())
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		logger.Info("playlist saved", "playlistId", pl.ID, "segments", len(pl.SegmentIDs))
		respondJSON(ctx, w, http.StatusCreated, pl)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE /api/v1/playlists/{id}.
func (h PlaylistHandler) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	id := r.PathValue("id")

	if h.Playlists == nil {
		logger.Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		pl, err := h.Playlists.Playlist(id)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		segments, err := h.Playlists.PlaylistSegments(id)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, playlistResponse{Playlist: pl, Segments: segments})
	case http.MethodPut:
		var req playlistRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn("invalid playlist payload", "error", err, "playlistId", id)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		pl, err := h.Playlists.UpdatePlaylist(ctx, id, req.input())
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, pl)
	case http.MethodDelete:
		h.Playlists.DeletePlaylist(ctx, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Share handles GET /api/v1/playlists/{id}/share.
func (h PlaylistHandler) Share(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Playlists == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	pl, err := h.Playlists.Playlist(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, shareResponse{Link: shareLink(h.PublicURL, "playlist", pl.ID)})
}
