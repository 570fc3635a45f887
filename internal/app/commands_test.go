package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AGTDofficial/my-yt-playlist/internal/library"
	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

func setFileBackendEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SEGMENTSAVER_STORAGE", "file")
	t.Setenv("SEGMENTSAVER_DATA_DIR", dir)
	t.Setenv("SEGMENTSAVER_LOG_LEVEL", "error")
	return dir
}

const sampleExport = `{
  "segments": [
    {"id": "seg_1", "videoId": "abc123", "name": "Intro", "start": 0, "end": 30, "dateCreated": "2024-01-01T00:00:00Z"}
  ],
  "playlists": [
    {"id": "pl_1", "name": "Mix", "segmentIds": ["seg_1", "seg_gone"], "dateCreated": "2024-01-01T00:00:00Z"}
  ],
  "exportDate": "2024-01-02T00:00:00Z"
}`

func TestRunRequiresKnownCommand(t *testing.T) {
	setFileBackendEnv(t)

	if err := run(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error without a command")
	}
	if err := run(context.Background(), []string{"dance"}, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "dance") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestImportExportClearCommands(t *testing.T) {
	dir := setFileBackendEnv(t)
	ctx := context.Background()

	input := filepath.Join(dir, "export.json")
	if err := os.WriteFile(input, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var out bytes.Buffer
	if err := run(ctx, []string{"import", "--input", input}, &out); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "imported 2 items" {
		t.Fatalf("unexpected import output %q", got)
	}

	out.Reset()
	if err := run(ctx, []string{"export"}, &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	var exported models.Export
	if err := json.Unmarshal(out.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported.Segments) != 1 || len(exported.Playlists) != 1 || exported.Playlists[0].SegmentIDs[1] != "seg_gone" {
		t.Fatalf("unexpected export: %+v", exported)
	}

	backupPath := filepath.Join(dir, "backup.json")
	if err := run(ctx, []string{"export", "--full", "--output", backupPath}, &bytes.Buffer{}); err != nil {
		t.Fatalf("export full: %v", err)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if backup.CurrentUser != "defaultUser" || len(backup.Profiles["defaultUser"].Segments) != 1 {
		t.Fatalf("unexpected backup: %+v", backup)
	}

	out.Reset()
	if err := run(ctx, []string{"clear"}, &out); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out.Reset()
	if err := run(ctx, []string{"export"}, &out); err != nil {
		t.Fatalf("export after clear: %v", err)
	}
	if err := json.Unmarshal(out.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported.Segments) != 0 || len(exported.Playlists) != 0 {
		t.Fatalf("expected empty library after clear, got %+v", exported)
	}

	if err := run(ctx, []string{"import", "--input", backupPath}, &bytes.Buffer{}); err != nil {
		t.Fatalf("restore backup: %v", err)
	}
}

func TestImportCommandRejections(t *testing.T) {
	dir := setFileBackendEnv(t)
	t.Setenv("SEGMENTSAVER_MAX_IMPORT_BYTES", "64")
	ctx := context.Background()

	if err := run(ctx, []string{"import"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected missing --input to fail")
	}

	large := filepath.Join(dir, "large.json")
	if err := os.WriteFile(large, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := run(ctx, []string{"import", "-i", large}, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}

	bogus := filepath.Join(dir, "bogus.json")
	if err := os.WriteFile(bogus, []byte(`{"hello":"world"}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := run(ctx, []string{"import", "--input", bogus}, &bytes.Buffer{}); !errors.Is(err, library.ErrImportFormat) {
		t.Fatalf("expected import format error, got %v", err)
	}

	if err := run(ctx, []string{"export", "--bogus"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected unknown flag to fail")
	}
}
