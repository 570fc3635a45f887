package library

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// PlaylistInput is the user-entered description of a playlist. SegmentIDs
// keeps the caller's order and may repeat ids.
type PlaylistInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SegmentIDs  []string `json:"segmentIds"`
}

func validatePlaylist(in PlaylistInput) (PlaylistInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return PlaylistInput{}, invalid(ReasonMissingName)
	}
	if len(in.SegmentIDs) == 0 {
		return PlaylistInput{}, invalid(ReasonNoSegments)
	}
	in.SegmentIDs = slices.Clone(in.SegmentIDs)
	return in, nil
}

func clonePlaylist(pl models.Playlist) models.Playlist {
	pl.SegmentIDs = slices.Clone(pl.SegmentIDs)
	return pl
}

// Playlists returns the active profile's playlists in insertion order.
func (s *Store) Playlists() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.activeLocked().Playlists, func(pl models.Playlist, _ int) models.Playlist {
		return clonePlaylist(pl)
	})
}

// Playlist looks up one playlist of the active profile.
func (s *Store) Playlist(id string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pl, _, ok := lo.FindIndexOf(s.activeLocked().Playlists, func(item models.Playlist) bool {
		return item.ID == id
	})
	if !ok {
		return models.Playlist{}, ErrNotFound
	}
	return clonePlaylist(pl), nil
}

// PlaylistSegments resolves a playlist's entries in order, skipping ids that
// no longer name a segment.
func (s *Store) PlaylistSegments(id string) ([]models.Segment, error) {
	pl, err := s.Playlist(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := lo.KeyBy(s.activeLocked().Segments, func(item models.Segment) string {
		return item.ID
	})
	return lo.FilterMap(pl.SegmentIDs, func(segID string, _ int) (models.Segment, bool) {
		seg, ok := byID[segID]
		return seg, ok
	}), nil
}

// AddPlaylist validates in and appends a new playlist to the active profile.
func (s *Store) AddPlaylist(ctx context.Context, in PlaylistInput) (models.Playlist, error) {
	in, err := validatePlaylist(in)
	if err != nil {
		return models.Playlist{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pl := models.Playlist{
		ID:          s.ids.Playlist(),
		Name:        in.Name,
		Description: in.Description,
		SegmentIDs:  in.SegmentIDs,
		DateCreated: s.timestamp(),
	}

	profile := s.activeLocked()
	profile.Playlists = append(slices.Clone(profile.Playlists), pl)
	s.setActiveLocked(profile)
	s.persistLocked(ctx)

	return clonePlaylist(pl), nil
}

// UpdatePlaylist replaces the editable fields of an existing playlist.
func (s *Store) UpdatePlaylist(ctx context.Context, id string, in PlaylistInput) (models.Playlist, error) {
	in, err := validatePlaylist(in)
	if err != nil {
		return models.Playlist{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	_, idx, ok := lo.FindIndexOf(profile.Playlists, func(item models.Playlist) bool {
		return item.ID == id
	})
	if !ok {
		return models.Playlist{}, ErrNotFound
	}

	modified := s.timestamp()
	playlists := slices.Clone(profile.Playlists)
	pl := playlists[idx]
	pl.Name = in.Name
	pl.Description = in.Description
	pl.SegmentIDs = in.SegmentIDs
	pl.DateModified = &modified
	playlists[idx] = pl

	profile.Playlists = playlists
	s.setActiveLocked(profile)
	s.persistLocked(ctx)

	return clonePlaylist(pl), nil
}

// DeletePlaylist removes a playlist. Unknown ids are ignored.
func (s *Store) DeletePlaylist(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	if !lo.ContainsBy(profile.Playlists, func(item models.Playlist) bool { return item.ID == id }) {
		return
	}

	profile.Playlists = lo.Reject(profile.Playlists, func(item models.Playlist, _ int) bool {
		return item.ID == id
	})
	s.setActiveLocked(profile)
	s.persistLocked(ctx)
}
