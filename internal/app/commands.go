package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/AGTDofficial/my-yt-playlist/internal/config"
	"github.com/AGTDofficial/my-yt-playlist/internal/handlers"
	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/logging"
)

// withLibrary opens the configured store, runs fn against the loaded library
// and flushes it before releasing the store.
func withLibrary(ctx context.Context, cfg config.Config, fn func(ctx context.Context, lib *library.Store) error) error {
	ctx = logging.WithLogger(ctx, logging.New(os.Stderr, cfg.LogLevel))

	lib, closeStore, err := openLibrary(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore(ctx) }()

	return fn(ctx, lib)
}

func runExport(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	full := flags.Bool("full", false, "write a backup of every profile instead of the active one")
	output := flags.StringP("output", "o", "", "file to write; defaults to standard output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	return withLibrary(ctx, cfg, func(ctx context.Context, lib *library.Store) error {
		var doc any = lib.ExportSnapshot()
		if *full {
			doc = lib.Backup()
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		data = append(data, '\n')

		if *output == "" {
			_, err = stdout.Write(data)
			return err
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "exported library to %s\n", *output)
		return nil
	})
}

func runImport(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	input := flags.StringP("input", "i", "", "exported or backup document to merge")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("import requires --input")
	}

	data, err := readCapped(*input, cfg.MaxImportBytes)
	if err != nil {
		return err
	}

	return withLibrary(ctx, cfg, func(ctx context.Context, lib *library.Store) error {
		n, err := lib.Import(ctx, data)
		if err != nil {
			return err
		}
		if err := lib.Save(ctx); err != nil {
			return fmt.Errorf("persist import: %w", err)
		}
		fmt.Fprintf(stdout, "imported %d items\n", n)
		return nil
	})
}

func runClear(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("clear", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	return withLibrary(ctx, cfg, func(ctx context.Context, lib *library.Store) error {
		lib.ClearAll(ctx)
		if err := lib.Save(ctx); err != nil {
			return fmt.Errorf("persist clear: %w", err)
		}
		fmt.Fprintf(stdout, "cleared library for %s\n", lib.CurrentUser())
		return nil
	})
}

func readCapped(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = handlers.DefaultMaxImportBytes
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("import %s exceeds %d bytes", path, limit)
	}
	return data, nil
}
