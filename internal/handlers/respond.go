package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
	"github.com/AGTDofficial/my-yt-playlist/internal/pagination"
	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
)

// listResponse is one cumulative page of a collection.
type listResponse[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

type shareResponse struct {
	Link     string `json:"link"`
	WatchURL string `json:"watchUrl,omitempty"`
}

func paginate[T any](r *http.Request, prefs PreferenceReader, items []T) listResponse[T] {
	perPage := models.DefaultItemsPerPage
	if prefs != nil {
		perPage = prefs.Preferences().ItemsPerPage
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	window := pagination.At(page, perPage)
	visible, hasMore := pagination.Apply(window, items)
	if visible == nil {
		visible = []T{}
	}
	return listResponse[T]{Items: visible, Total: len(items), Page: window.Page, HasMore: hasMore}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func shareLink(publicURL, param, id string) string {
	return strings.TrimRight(publicURL, "/") + "/?" + param + "=" + id
}

// respondError maps library and playback errors onto HTTP statuses.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var validation *library.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": validation.Reason})
	case errors.Is(err, library.ErrImportFormat):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, library.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, playback.ErrNotReady),
		errors.Is(err, playback.ErrEmptyPlaylist),
		errors.Is(err, playback.ErrNoPlayableSegment),
		errors.Is(err, playback.ErrNotInPlaylist):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		logging.FromContext(ctx).Error("unhandled request error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
