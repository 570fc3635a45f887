package handlers

import (
	"context"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
)

// SegmentStore captures the segment operations required by the segment handlers.
type SegmentStore interface {
	Segments() []models.Segment
	SearchSegments(query string) []models.Segment
	Segment(id string) (models.Segment, error)
	AddSegment(ctx context.Context, in library.SegmentInput) (models.Segment, error)
	UpdateSegment(ctx context.Context, id string, in library.SegmentInput) (models.Segment, error)
	DeleteSegment(ctx context.Context, id string)
}

// PlaylistStore captures the playlist operations required by the playlist handlers.
type PlaylistStore interface {
	Playlists() []models.Playlist
	Playlist(id string) (models.Playlist, error)
	PlaylistSegments(id string) ([]models.Segment, error)
	AddPlaylist(ctx context.Context, in library.PlaylistInput) (models.Playlist, error)
	UpdatePlaylist(ctx context.Context, id string, in library.PlaylistInput) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, id string)
}

// TransferStore covers export, import and reset of the whole library.
type TransferStore interface {
	ExportSnapshot() models.Export
	Backup() models.Backup
	Import(ctx context.Context, data []byte) (int, error)
	ClearAll(ctx context.Context)
}

// PreferenceReader exposes the active profile's display settings.
type PreferenceReader interface {
	Preferences() models.Preferences
}

// ProfileStore captures profile and preference operations.
type ProfileStore interface {
	PreferenceReader
	CurrentUser() string
	ProfileName() string
	ProfileKeys() []string
	RenameProfile(ctx context.Context, name string) error
	SetDarkMode(ctx context.Context, enabled bool)
	SetItemsPerPage(ctx context.Context, n int) error
	SwitchUser(ctx context.Context, key string) error
}

// PlayerService drives playback on the connected device.
type PlayerService interface {
	Status() playback.Status
	PlaySegment(ctx context.Context, seg models.Segment) error
	PlayPlaylist(ctx context.Context, pl models.Playlist) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Stop(ctx context.Context) error
}
