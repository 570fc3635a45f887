package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
)

// DefaultMaxImportBytes caps import payloads when no limit is configured.
const DefaultMaxImportBytes = 4 << 20

// TransferHandler serves export, backup, import and reset of the library.
type TransferHandler struct {
	Library        TransferStore
	ImportLimiter  RateLimiter
	MaxImportBytes int64
}

type importResponse struct {
	Imported int `json:"imported"`
}

// Export handles GET /api/v1/export.
func (h TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Library == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "library services unavailable"})
		return
	}

	doc := h.Library.ExportSnapshot()
	setAttachment(w, "export", doc.ExportDate)
	respondJSON(ctx, w, http.StatusOK, doc)
}

// Backup handles GET /api/v1/backup.
func (h TransferHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Library == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "library services unavailable"})
		return
	}

	doc := h.Library.Backup()
	setAttachment(w, "backup", doc.BackupDate)
	respondJSON(ctx, w, http.StatusOK, doc)
}

// Import handles POST /api/v1/import.
func (h TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Library == nil {
		logger.Error("library dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "library services unavailable"})
		return
	}

	if !allowRequest(h.ImportLimiter, r, "import") {
		logger.Warn("import rate limited", "clientIP", clientIP(r))
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many import attempts"})
		return
	}

	limit := h.MaxImportBytes
	if limit <= 0 {
		limit = DefaultMaxImportBytes
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(ctx, w, http.StatusRequestEntityTooLarge, map[string]string{"error": fmt.Sprintf("import exceeds %d bytes", limit)})
			return
		}
		logger.Warn("read import payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	n, err := h.Library.Import(ctx, data)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	logger.Info("library imported", "items", n, "bytes", len(data))
	respondJSON(ctx, w, http.StatusOK, importResponse{Imported: n})
}

// Clear handles DELETE /api/v1/library.
func (h TransferHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Library == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "library services unavailable"})
		return
	}

	h.Library.ClearAll(ctx)
	logging.FromContext(ctx).Info("library cleared")
	w.WriteHeader(http.StatusNoContent)
}

func setAttachment(w http.ResponseWriter, kind string, at time.Time) {
	name := fmt.Sprintf("youtube-segment-saver-%s-%s.json", kind, at.UTC().Format(time.DateOnly))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
