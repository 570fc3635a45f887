package handlers

import (
	"net/http"

	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// ProfileHandler serves the active profile and its preferences.
type ProfileHandler struct {
	Profile ProfileStore
}

type profileResponse struct {
	User        string             `json:"user"`
	Name        string             `json:"name"`
	Preferences models.Preferences `json:"preferences"`
	Profiles    []string           `json:"profiles"`
}

type profileUpdateRequest struct {
	Name         *string `json:"name"`
	DarkMode     *bool   `json:"darkMode"`
	ItemsPerPage *int    `json:"itemsPerPage"`
}

type switchProfileRequest struct {
	User string `json:"user"`
}

func (h ProfileHandler) snapshot() profileResponse {
	return profileResponse{
		User:        h.Profile.CurrentUser(),
		Name:        h.Profile.ProfileName(),
		Preferences: h.Profile.Preferences(),
		Profiles:    h.Profile.ProfileKeys(),
	}
}

// Handle implements GET and PUT /api/v1/profile.
func (h ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Profile == nil {
		logger.Error("profile store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile services unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(ctx, w, http.StatusOK, h.snapshot())
	case http.MethodPut:
		var req profileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn("invalid profile payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if req.Name != nil {
			if err := h.Profile.RenameProfile(ctx, *req.Name); err != nil {
				respondError(ctx, w, err)
				return
			}
		}
		if req.ItemsPerPage != nil {
			if err := h.Profile.SetItemsPerPage(ctx, *req.ItemsPerPage); err != nil {
				respondError(ctx, w, err)
				return
			}
		}
		if req.DarkMode != nil {
			h.Profile.SetDarkMode(ctx, *req.DarkMode)
		}
		respondJSON(ctx, w, http.StatusOK, h.snapshot())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Switch handles POST /api/v1/profile/switch.
func (h ProfileHandler) Switch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Profile == nil {
		logger.Error("profile store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile services unavailable"})
		return
	}

	var req switchProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid switch payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.Profile.SwitchUser(ctx, req.User); err != nil {
		respondError(ctx, w, err)
		return
	}
	logger.Info("profile switched", "user", req.User)
	respondJSON(ctx, w, http.StatusOK, h.snapshot())
}
