package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AGTDofficial/my-yt-playlist/internal/config"
	"github.com/AGTDofficial/my-yt-playlist/internal/handlers"
	"github.com/AGTDofficial/my-yt-playlist/internal/httpserver"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
	"github.com/AGTDofficial/my-yt-playlist/internal/middleware"
)

// Run bootstraps the segment saver and dispatches the requested command.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, export, import, or clear")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "serve":
		return serve(ctx, cfg)
	case "migrate":
		return runMigrations(ctx, cfg, args[1:], stdout)
	case "export":
		return runExport(ctx, cfg, args[1:], stdout)
	case "import":
		return runImport(ctx, cfg, args[1:], stdout)
	case "clear":
		return runClear(ctx, cfg, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	deps, cleanup, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps.Handlers)

	handler := middleware.RequestLogger(logger)(mux)

	srv := httpserver.New(cfg.AppPort, handler)
	srv.OnShutdown(func() { _ = deps.Bridge.Close() })

	logger.Info("starting http server", "port", cfg.AppPort, "storage", cfg.Storage.Backend)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = cleanup(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := cleanup(shutdownCtx); err != nil {
		logger.Error("release dependencies", "error", err)
	}
	return shutdownErr
}
