package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/AGTDofficial/my-yt-playlist/internal/config"
	"github.com/AGTDofficial/my-yt-playlist/internal/db"
	"github.com/AGTDofficial/my-yt-playlist/internal/handlers"
	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/middleware"
	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
	"github.com/AGTDofficial/my-yt-playlist/internal/remoteplayer"
	"github.com/AGTDofficial/my-yt-playlist/internal/storage"
)

const redisKeyPrefix = "segmentsaver:"

type cleanupFunc func(ctx context.Context) error

func noCleanup(context.Context) error { return nil }

// dependencies holds the long-lived collaborators of the serve command.
type dependencies struct {
	Handlers handlers.Dependencies
	Library  *library.Store
	Bridge   *remoteplayer.Bridge
	Player   *playback.Controller
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (dependencies, cleanupFunc, error) {
	lib, closeStore, err := openLibrary(ctx, cfg)
	if err != nil {
		return dependencies{}, nil, err
	}

	bridge := remoteplayer.New(remoteplayer.Options{
		Logger:      logger,
		CheckOrigin: allowOrigin(cfg.PublicURL),
	})
	player := playback.NewController(bridge, lib, playback.Options{
		TickInterval: cfg.MonitorTick,
		Logger:       logger,
	})
	bridge.OnReady(player.DeviceReady)
	bridge.OnStateChange(player.DeviceStateChanged)

	deps := dependencies{
		Handlers: handlers.Dependencies{
			Segments:       lib,
			Playlists:      lib,
			Transfer:       lib,
			Profile:        lib,
			Player:         player,
			Device:         bridge,
			DeviceProbe:    bridge,
			ImportLimiter:  middleware.NewKeyedLimiter(cfg.ImportLimit, 0),
			MaxImportBytes: cfg.MaxImportBytes,
			PublicURL:      cfg.PublicURL,
		},
		Library: lib,
		Bridge:  bridge,
		Player:  player,
	}

	cleanup := func(ctx context.Context) error {
		player.Close()
		return errors.Join(bridge.Close(), closeStore(ctx))
	}
	return deps, cleanup, nil
}

// openLibrary opens the configured blob store and loads the library from it.
func openLibrary(ctx context.Context, cfg config.Config) (*library.Store, cleanupFunc, error) {
	blobs, closeStore, err := openBlobStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	lib := library.New(blobs, library.Options{
		Key:         cfg.Storage.Key,
		DefaultUser: cfg.DefaultUser,
	})
	if err := lib.Load(ctx); err != nil {
		_ = closeStore(ctx)
		return nil, nil, fmt.Errorf("load library: %w", err)
	}
	return lib, closeStore, nil
}

func openBlobStore(ctx context.Context, cfg config.Config) (storage.BlobStore, cleanupFunc, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), noCleanup, nil
	case config.BackendFile:
		store, err := storage.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, noCleanup, nil
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(pool), func(context.Context) error {
			pool.Close()
			return nil
		}, nil
	case config.BackendRedis:
		store, err := storage.DialRedis(ctx, cfg.RedisAddr, redisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return store.Close() }, nil
	case config.BackendS3:
		store, err := storage.NewS3Store(ctx, cfg.ObjectStore)
		if err != nil {
			return nil, nil, err
		}
		return store, noCleanup, nil
	case config.BackendSQLite:
		path := cfg.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Storage.DataDir, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// allowOrigin accepts same-host WebSocket upgrades and upgrades from the
// public URL's origin.
func allowOrigin(publicURL string) func(r *http.Request) bool {
	var publicHost string
	if parsed, err := url.Parse(publicURL); err == nil {
		publicHost = parsed.Host
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		parsed, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(parsed.Host, r.Host) ||
			(publicHost != "" && strings.EqualFold(parsed.Host, publicHost))
	}
}
