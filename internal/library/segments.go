package library

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
	"github.com/AGTDofficial/my-yt-playlist/internal/timecode"
	"github.com/AGTDofficial/my-yt-playlist/internal/videos"
)

// SegmentInput is the raw, user-entered description of a segment.
type SegmentInput struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type segmentFields struct {
	videoID string
	name    string
	start   int
	end     int
}

// validateSegment checks in a fixed order and reports the first failure.
func validateSegment(in SegmentInput) (segmentFields, error) {
	url := strings.TrimSpace(in.URL)
	name := strings.TrimSpace(in.Name)
	start := timecode.Parse(strings.TrimSpace(in.Start))
	end := timecode.Parse(strings.TrimSpace(in.End))

	if url == "" {
		return segmentFields{}, invalid(ReasonMissingURL)
	}
	if name == "" {
		return segmentFields{}, invalid(ReasonMissingName)
	}
	if !timecode.Valid(start) || start < 0 {
		return segmentFields{}, invalid(ReasonInvalidStart)
	}
	if !timecode.Valid(end) || end <= 0 {
		return segmentFields{}, invalid(ReasonInvalidEnd)
	}
	videoID, err := videos.ExtractID(url)
	if err != nil {
		return segmentFields{}, invalid(ReasonInvalidURL)
	}
	if start >= end {
		return segmentFields{}, invalid(ReasonStartAfterEnd)
	}

	return segmentFields{videoID: videoID, name: name, start: int(start), end: int(end)}, nil
}

// Segments returns the active profile's segments in insertion order.
func (s *Store) Segments() []models.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activeLocked().Segments)
}

// Segment looks up one segment of the active profile.
func (s *Store) Segment(id string) (models.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seg, _, ok := lo.FindIndexOf(s.activeLocked().Segments, func(item models.Segment) bool {
		return item.ID == id
	})
	if !ok {
		return models.Segment{}, ErrNotFound
	}
	return seg, nil
}

// SearchSegments returns segments whose name or video id contains query,
// ignoring case. An empty query returns every segment.
func (s *Store) SearchSegments(query string) []models.Segment {
	query = strings.ToLower(strings.TrimSpace(query))
	all := s.Segments()
	if query == "" {
		return all
	}
	return lo.Filter(all, func(item models.Segment, _ int) bool {
		return strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.VideoID), query)
	})
}

// AddSegment validates in and appends a new segment to the active profile.
func (s *Store) AddSegment(ctx context.Context, in SegmentInput) (models.Segment, error) {
	fields, err := validateSegment(in)
	if err != nil {
		return models.Segment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seg := models.Segment{
		ID:          s.ids.Segment(),
		VideoID:     fields.videoID,
		Name:        fields.name,
		Start:       fields.start,
		End:         fields.end,
		DateCreated: s.timestamp(),
	}

	profile := s.activeLocked()
	profile.Segments = append(slices.Clone(profile.Segments), seg)
	s.setActiveLocked(profile)
	s.persistLocked(ctx)

	return seg, nil
}

// UpdateSegment replaces the editable fields of an existing segment.
func (s *Store) UpdateSegment(ctx context.Context, id string, in SegmentInput) (models.Segment, error) {
	fields, err := validateSegment(in)
	if err != nil {
		return models.Segment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	_, idx, ok := lo.FindIndexOf(profile.Segments, func(item models.Segment) bool {
		return item.ID == id
	})
	if !ok {
		return models.Segment{}, ErrNotFound
	}

	modified := s.timestamp()
	segments := slices.Clone(profile.Segments)
	seg := segments[idx]
	seg.VideoID = fields.videoID
	seg.Name = fields.name
	seg.Start = fields.start
	seg.End = fields.end
	seg.DateModified = &modified
	segments[idx] = seg

	profile.Segments = segments
	s.setActiveLocked(profile)
	s.persistLocked(ctx)

	return seg, nil
}

// DeleteSegment removes a segment and every reference to it from the active
// profile's playlists. Unknown ids are ignored.
func (s *Store) DeleteSegment(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.activeLocked()
	if !lo.ContainsBy(profile.Segments, func(item models.Segment) bool { return item.ID == id }) {
		return
	}

	profile.Segments = lo.Reject(profile.Segments, func(item models.Segment, _ int) bool {
		return item.ID == id
	})
	profile.Playlists = lo.Map(profile.Playlists, func(pl models.Playlist, _ int) models.Playlist {
		pl.SegmentIDs = lo.Without(pl.SegmentIDs, id)
		return pl
	})
	s.setActiveLocked(profile)
	s.persistLocked(ctx)
}
