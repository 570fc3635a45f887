package models

import "time"

const (
	// DefaultItemsPerPage is the page size used when a profile has none set.
	DefaultItemsPerPage = 10
	// DefaultProfileName names freshly created profiles.
	DefaultProfileName = "User"
	// SchemaVersion is written into every persisted library root.
	SchemaVersion = "1.1.0"
)

// Segment is a named, time-bounded clip of a hosted video.
type Segment struct {
	ID           string     `json:"id"`
	VideoID      string     `json:"videoId"`
	Name         string     `json:"name"`
	Start        int        `json:"start"`
	End          int        `json:"end"`
	DateCreated  time.Time  `json:"dateCreated"`
	DateModified *time.Time `json:"dateModified,omitempty"`
}

// Playlist is an ordered list of segment references. Ids may repeat and may
// point at segments that no longer exist.
type Playlist struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	SegmentIDs   []string   `json:"segmentIds"`
	DateCreated  time.Time  `json:"dateCreated"`
	DateModified *time.Time `json:"dateModified,omitempty"`
}

// Preferences holds per-profile display settings.
type Preferences struct {
	DarkMode     bool `json:"darkMode"`
	ItemsPerPage int  `json:"itemsPerPage"`
}

// Profile is one user's library.
type Profile struct {
	Name        string      `json:"name"`
	Segments    []Segment   `json:"segments"`
	Playlists   []Playlist  `json:"playlists"`
	Preferences Preferences `json:"preferences"`
}

// LibraryRoot is the single persisted document.
type LibraryRoot struct {
	CurrentUser string             `json:"currentUser"`
	Profiles    map[string]Profile `json:"profiles"`
	Version     string             `json:"_version,omitempty"`
	LastUpdated *time.Time         `json:"_lastUpdated,omitempty"`
}

// Export is the lightweight document holding the active profile's content.
type Export struct {
	Segments   []Segment  `json:"segments"`
	Playlists  []Playlist `json:"playlists"`
	ExportDate time.Time  `json:"exportDate"`
}

// Backup is the full document holding every profile.
type Backup struct {
	CurrentUser string             `json:"currentUser"`
	Profiles    map[string]Profile `json:"profiles"`
	BackupDate  time.Time          `json:"backupDate"`
}

// NewProfile returns an empty profile with default preferences.
func NewProfile() Profile {
	return Profile{
		Name:        DefaultProfileName,
		Segments:    []Segment{},
		Playlists:   []Playlist{},
		Preferences: Preferences{ItemsPerPage: DefaultItemsPerPage},
	}
}

// Normalize fills nil slices and out-of-range preferences left by older or
// hand-edited documents.
func (p Profile) Normalize() Profile {
	if p.Name == "" {
		p.Name = DefaultProfileName
	}
	if p.Segments == nil {
		p.Segments = []Segment{}
	}
	if p.Playlists == nil {
		p.Playlists = []Playlist{}
	}
	for i := range p.Playlists {
		if p.Playlists[i].SegmentIDs == nil {
			p.Playlists[i].SegmentIDs = []string{}
		}
	}
	if p.Preferences.ItemsPerPage < 1 {
		p.Preferences.ItemsPerPage = DefaultItemsPerPage
	}
	return p
}
