package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"audiosrt/internal/history"
	"audiosrt/internal/services"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.Record(ctx, history.Entry{
		RunID:        "run-1",
		SourcePath:   "/audio/a.mp3",
		OutputPath:   "/audio/a.srt",
		Backend:      "whisperx",
		Status:       history.StatusSucceeded,
		CueCount:     12,
		AudioSeconds: 42.5,
		StartedAt:    base,
		FinishedAt:   base.Add(3 * time.Second),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if _, err := store.Record(ctx, history.Entry{
		RunID:        "run-1",
		SourcePath:   "/audio/b.mp3",
		Status:       services.StatusFailed,
		ErrorMessage: "external tool error: whisperx: boom",
		StartedAt:    base.Add(4 * time.Second),
		FinishedAt:   base.Add(5 * time.Second),
	}); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourcePath != "/audio/b.mp3" || entries[0].OutputPath != "" {
		t.Fatalf("expected newest failure first, got %+v", entries[0])
	}
	got := entries[1]
	if got.CueCount != 12 || got.AudioSeconds != 42.5 || got.Backend != "whisperx" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.Elapsed() != 3*time.Second {
		t.Fatalf("expected 3s elapsed, got %s", got.Elapsed())
	}

	limited, err := store.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List(1) = %d entries, err %v", len(limited), err)
	}

	run, err := store.ByRun(ctx, "run-1")
	if err != nil || len(run) != 2 || run[0].ID != first.ID {
		t.Fatalf("ByRun returned %+v, err %v", run, err)
	}
}

func TestRecordRequiresSourceAndStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.Record(ctx, history.Entry{Status: history.StatusSucceeded}); err == nil {
		t.Fatal("expected error without source path")
	}
	if _, err := store.Record(ctx, history.Entry{SourcePath: "/a.mp3"}); err == nil {
		t.Fatal("expected error without status")
	}
}

func TestClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for _, src := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		if _, err := store.Record(ctx, history.Entry{SourcePath: src, Status: history.StatusSucceeded}); err != nil {
			t.Fatalf("Record %s: %v", src, err)
		}
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	entries, err := store.List(ctx, 0)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty history, got %d (err %v)", len(entries), err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{SourcePath: "a.mp3", Status: history.StatusSucceeded}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), 0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d (err %v)", len(entries), err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.BumpSchemaVersionForTest(99); err != nil {
		t.Fatalf("bump: %v", err)
	}
	_ = store.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
