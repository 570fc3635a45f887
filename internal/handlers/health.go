package handlers

import (
	"encoding/json"
	"net/http"
)

// DeviceProbe reports whether a player widget is attached.
type DeviceProbe interface {
	Connected() bool
}

// HealthHandler responds with service health information.
type HealthHandler struct {
	Device DeviceProbe
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]any{
		"status":          "ok",
		"playerConnected": h.Device != nil && h.Device.Connected(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
