package library

import (
	"context"
	"strings"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// CurrentUser returns the active profile key.
func (s *Store) CurrentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.CurrentUser
}

// ProfileName returns the display name of the active profile.
func (s *Store) ProfileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked().Name
}

// Preferences returns the active profile's display settings.
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked().Preferences
}

// RenameProfile changes the active profile's display name.
func (s *Store) RenameProfile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(ReasonMissingName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	profile.Name = name
	s.setActiveLocked(profile)
	s.persistLocked(ctx)
	return nil
}

// SetDarkMode stores the theme preference.
func (s *Store) SetDarkMode(ctx context.Context, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	profile.Preferences.DarkMode = enabled
	s.setActiveLocked(profile)
	s.persistLocked(ctx)
}

// SetItemsPerPage stores the page size preference. n must be at least 1.
func (s *Store) SetItemsPerPage(ctx context.Context, n int) error {
	if n < 1 {
		return invalid(ReasonInvalidPageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	profile.Preferences.ItemsPerPage = n
	s.setActiveLocked(profile)
	s.persistLocked(ctx)
	return nil
}

// SwitchUser makes key the active profile, creating an empty one on first use.
func (s *Store) SwitchUser(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return invalid(ReasonMissingUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.root.CurrentUser = key
	s.ensureProfileLocked(key)
	s.persistLocked(ctx)
	return nil
}
