package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/videos"
)

// SegmentHandler serves the segment collection.
type SegmentHandler struct {
	Segments    SegmentStore
	Preferences PreferenceReader
	PublicURL   string
}

type segmentRequest struct {
	URL   string    `json:"url"`
	Name  string    `json:"name"`
	Start clockText `json:"start"`
	End   clockText `json:"end"`
}

func (req segmentRequest) input() library.SegmentInput {
	return library.SegmentInput{URL: req.URL, Name: req.Name, Start: string(req.Start), End: string(req.End)}
}

// clockText accepts either a timecode string or a bare number of seconds.
type clockText string

func (c *clockText) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = clockText(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("timecode must be a string or number")
	}
	*c = clockText(number.String())
	return nil
}

// Collection handles GET and POST /api/v1/segments.
func (h SegmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Segments == nil {
		logger.Error("segment store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "segment services unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		items := h.Segments.Segments()
		if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
			items = h.Segments.SearchSegments(query)
		}
		respondJSON(ctx, w, http.StatusOK, paginate(r, h.Preferences, items))
	case http.MethodPost:
		var req segmentRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn("invalid segment payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		seg, err := h.Segments.AddSegment(ctx, req.input())
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		logger.Info("segment saved", "segmentId", seg.ID, "videoId", seg.VideoID)
		respondJSON(ctx, w, http.StatusCreated, seg)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE /api/v1/segments/{id}.
func (h SegmentHandler) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	id := r.PathValue("id")

	if h.Segments == nil {
		logger.Error("segment store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "segment services unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		seg, err := h.Segments.Segment(id)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, seg)
	case http.MethodPut:
		var req segmentRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn("invalid segment payload", "error", err, "segmentId", id)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		seg, err := h.Segments.UpdateSegment(ctx, id, req.input())
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, seg)
	case http.MethodDelete:
		h.Segments.DeleteSegment(ctx, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Share handles GET /api/v1/segments/{id}/share.
func (h SegmentHandler) Share(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Segments == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "segment services unavailable"})
		return
	}

	seg, err := h.Segments.Segment(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, shareResponse{
		Link:     shareLink(h.PublicURL, "segment", seg.ID),
		WatchURL: videos.WatchURL(seg.VideoID, seg.Start),
	})
}
