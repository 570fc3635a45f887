package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Device: deps.DeviceProbe}
	segments := SegmentHandler{Segments: deps.Segments, Preferences: deps.Profile, PublicURL: deps.PublicURL}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Preferences: deps.Profile, PublicURL: deps.PublicURL}
	transfer := TransferHandler{Library: deps.Transfer, ImportLimiter: deps.ImportLimiter, MaxImportBytes: deps.MaxImportBytes}
	profile := ProfileHandler{Profile: deps.Profile}
	player := PlayerHandler{Player: deps.Player, Segments: deps.Segments, Playlists: deps.Playlists}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/segments", segments.Collection)
	mux.HandleFunc("/api/v1/segments/{id}", segments.Item)
	mux.HandleFunc("/api/v1/segments/{id}/share", segments.Share)
	mux.HandleFunc("/api/v1/playlists", playlists.Collection)
	mux.HandleFunc("/api/v1/playlists/{id}", playlists.Item)
	mux.HandleFunc("/api/v1/playlists/{id}/share", playlists.Share)
	mux.HandleFunc("/api/v1/export", transfer.Export)
	mux.HandleFunc("/api/v1/backup", transfer.Backup)
	mux.HandleFunc("/api/v1/import", transfer.Import)
	mux.HandleFunc("/api/v1/library", transfer.Clear)
	mux.HandleFunc("/api/v1/profile", profile.Handle)
	mux.HandleFunc("/api/v1/profile/switch", profile.Switch)
	mux.HandleFunc("/api/v1/player", player.Status)
	mux.HandleFunc("/api/v1/player/segments/{id}", player.PlaySegment)
	mux.HandleFunc("/api/v1/player/playlists/{id}", player.PlayPlaylist)
	mux.HandleFunc("/api/v1/player/next", player.Next)
	mux.HandleFunc("/api/v1/player/previous", player.Previous)
	mux.HandleFunc("/api/v1/player/stop", player.Stop)
	mux.HandleFunc("/api/v1/share", player.DeepLink)
	if deps.Device != nil {
		mux.Handle("/api/v1/player/device", deps.Device)
	}
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Segments       SegmentStore
	Playlists      PlaylistStore
	Transfer       TransferStore
	Profile        ProfileStore
	Player         PlayerService
	Device         http.Handler
	DeviceProbe    DeviceProbe
	ImportLimiter  RateLimiter
	MaxImportBytes int64
	PublicURL      string
}
