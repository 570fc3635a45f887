package library

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// fragment is the lightweight import shape.
type fragment struct {
	Segments  []models.Segment  `json:"segments"`
	Playlists []models.Playlist `json:"playlists"`
}

// Import merges an exported document into the library and reports how many
// items it contributed.
//
// A full backup (profiles plus currentUser) overwrites profiles key by key and
// switches to the backup's current user; the count is the size of that
// profile. A fragment (segments and/or playlists) only adds items whose ids are
// not present yet; the count is the number added. Malformed payloads are
// rejected without merging anything.
func (s *Store) Import(ctx context.Context, data []byte) (int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	hasProfiles := present(fields["profiles"])
	hasUser := present(fields["currentUser"])
	hasSegments := present(fields["segments"])
	hasPlaylists := present(fields["playlists"])

	switch {
	case hasProfiles && hasUser:
		return s.importBackup(ctx, data)
	case hasSegments || hasPlaylists:
		return s.importFragment(ctx, data)
	default:
		return 0, fmt.Errorf("%w: expected profiles or segments/playlists", ErrImportFormat)
	}
}

// present reports whether a top-level field carries a value. Null, false,
// zero and the empty string count as absent.
func present(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func (s *Store) importBackup(ctx context.Context, data []byte) (int, error) {
	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if backup.CurrentUser == "" || backup.Profiles == nil {
		return 0, fmt.Errorf("%w: empty profiles or current user", ErrImportFormat)
	}
	for key, profile := range backup.Profiles {
		if err := checkImported(profile.Segments, profile.Playlists); err != nil {
			return 0, fmt.Errorf("%w: profile %q: %v", ErrImportFormat, key, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, profile := range backup.Profiles {
		s.root.Profiles[key] = profile.Normalize()
	}
	s.root.CurrentUser = backup.CurrentUser
	s.ensureProfileLocked(backup.CurrentUser)
	s.persistLocked(ctx)

	active := s.activeLocked()
	return len(active.Segments) + len(active.Playlists), nil
}

func (s *Store) importFragment(ctx context.Context, data []byte) (int, error) {
	var frag fragment
	if err := json.Unmarshal(data, &frag); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if err := checkImported(frag.Segments, frag.Playlists); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()

	segIDs := lo.SliceToMap(profile.Segments, func(item models.Segment) (string, struct{}) {
		return item.ID, struct{}{}
	})
	newSegments := lo.Filter(lo.UniqBy(frag.Segments, func(item models.Segment) string { return item.ID }),
		func(item models.Segment, _ int) bool {
			_, exists := segIDs[item.ID]
			return !exists
		})

	plIDs := lo.SliceToMap(profile.Playlists, func(item models.Playlist) (string, struct{}) {
		return item.ID, struct{}{}
	})
	newPlaylists := lo.Filter(lo.UniqBy(frag.Playlists, func(item models.Playlist) string { return item.ID }),
		func(item models.Playlist, _ int) bool {
			_, exists := plIDs[item.ID]
			return !exists
		})

	added := len(newSegments) + len(newPlaylists)
	if added == 0 {
		return 0, nil
	}

	profile.Segments = append(slices.Clone(profile.Segments), newSegments...)
	profile.Playlists = append(slices.Clone(profile.Playlists), newPlaylists...)
	s.setActiveLocked(profile.Normalize())
	s.persistLocked(ctx)

	return added, nil
}

func checkImported(segments []models.Segment, playlists []models.Playlist) error {
	for i, seg := range segments {
		if seg.ID == "" {
			return fmt.Errorf("segment %d has no id", i)
		}
		if seg.Start < 0 || seg.Start >= seg.End {
			return fmt.Errorf("segment %s has an invalid range", seg.ID)
		}
	}
	for i, pl := range playlists {
		if pl.ID == "" {
			return fmt.Errorf("playlist %d has no id", i)
		}
	}
	return nil
}

// ExportSnapshot copies the active profile's content for download.
func (s *Store) ExportSnapshot() models.Export {
	return models.Export{
		Segments:   s.Segments(),
		Playlists:  s.Playlists(),
		ExportDate: s.timestamp(),
	}
}

// Backup copies every profile for download.
func (s *Store) Backup() models.Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make(map[string]models.Profile, len(s.root.Profiles))
	for key, profile := range s.root.Profiles {
		profile.Segments = slices.Clone(profile.Segments)
		profile.Playlists = lo.Map(profile.Playlists, func(pl models.Playlist, _ int) models.Playlist {
			return clonePlaylist(pl)
		})
		profiles[key] = profile
	}

	return models.Backup{
		CurrentUser: s.root.CurrentUser,
		Profiles:    profiles,
		BackupDate:  s.timestamp(),
	}
}

// ClearAll discards every profile and leaves one empty default profile for the
// current user key.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = s.freshRoot(s.root.CurrentUser)
	s.persistLocked(ctx)
}

// ProfileKeys lists the stored profile keys in sorted order.
func (s *Store) ProfileKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.root.Profiles))
}
