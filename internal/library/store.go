// Package library owns the segment and playlist collections of every profile
// and keeps them persisted as a single encoded document.
package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AGTDofficial/my-yt-playlist/internal/codec"
	"github.com/AGTDofficial/my-yt-playlist/internal/idgen"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
	"github.com/AGTDofficial/my-yt-playlist/internal/storage"
)

// IDGenerator issues fresh segment and playlist ids.
type IDGenerator interface {
	Segment() string
	Playlist() string
}

// Options configures a Store.
type Options struct {
	// Key is the blob key the document lives under.
	Key string
	// DefaultUser is the profile key used when nothing is persisted yet.
	DefaultUser string
	Now         func() time.Time
	IDs         IDGenerator
}

// Store is the in-memory library backed by a blob store. Every mutation is
// applied in memory and then persisted; persistence failures are logged and
// retried implicitly by the next save.
type Store struct {
	mu          sync.RWMutex
	blobs       storage.BlobStore
	key         string
	defaultUser string
	now         func() time.Time
	ids         IDGenerator
	root        models.LibraryRoot
}

// New constructs a Store. Call Load before use.
func New(blobs storage.BlobStore, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = "ytSegmentSaver"
	}
	if opts.DefaultUser == "" {
		opts.DefaultUser = "defaultUser"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = idgen.New()
	}

	s := &Store{
		blobs:       blobs,
		key:         opts.Key,
		defaultUser: opts.DefaultUser,
		now:         opts.Now,
		ids:         opts.IDs,
	}
	s.root = s.freshRoot(opts.DefaultUser)
	return s
}

// Load reads the persisted document. A missing or undecodable document yields
// a fresh library with one default profile; only backend read failures are
// returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.FromContext(ctx)

	blob, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.root = s.freshRoot(s.defaultUser)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	var root models.LibraryRoot
	if !codec.Decode(blob, &root) {
		logger.Warn("stored library unreadable, starting fresh", "key", s.key)
		s.root = s.freshRoot(s.defaultUser)
		return nil
	}

	if root.CurrentUser == "" {
		root.CurrentUser = s.defaultUser
	}
	if root.Profiles == nil {
		root.Profiles = make(map[string]models.Profile)
	}
	for key, profile := range root.Profiles {
		root.Profiles[key] = profile.Normalize()
	}
	s.root = root
	s.ensureProfileLocked(root.CurrentUser)

	active := s.activeLocked()
	logger.Info("library loaded",
		"user", root.CurrentUser,
		"segments", len(active.Segments),
		"playlists", len(active.Playlists),
	)
	return nil
}

// Save persists the whole document under the configured key.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	ctx, span := logging.StartSpan(ctx, "library.save", "key", s.key)

	now := s.now().UTC()
	s.root.Version = models.SchemaVersion
	s.root.LastUpdated = &now

	blob := codec.Encode(s.root)
	if blob == "" {
		err := errors.New("encode library: empty document")
		span.End(err)
		return err
	}

	err := s.blobs.Put(ctx, s.key, blob)
	if err != nil {
		err = fmt.Errorf("persist library: %w", err)
	}
	span.End(err)
	return err
}

// persistLocked saves after a mutation. Failures leave memory authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		logging.FromContext(ctx).Error("library changes not persisted", "error", err)
	}
}

func (s *Store) freshRoot(user string) models.LibraryRoot {
	return models.LibraryRoot{
		CurrentUser: user,
		Profiles:    map[string]models.Profile{user: models.NewProfile()},
	}
}

func (s *Store) ensureProfileLocked(user string) {
	if _, ok := s.root.Profiles[user]; !ok {
		s.root.Profiles[user] = models.NewProfile()
	}
}

func (s *Store) activeLocked() models.Profile {
	return s.root.Profiles[s.root.CurrentUser]
}

func (s *Store) setActiveLocked(p models.Profile) {
	s.root.Profiles[s.root.CurrentUser] = p
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}
