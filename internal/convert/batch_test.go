package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"audiosrt/internal/convert"
	"audiosrt/internal/services"
	"audiosrt/internal/subtitles"
	"audiosrt/internal/transcript"
)

type progressRecorder struct {
	started  []string
	finished []convert.Result
	total    int
}

func (p *progressRecorder) FileStarted(_, total int, input string) {
	p.total = total
	p.started = append(p.started, filepath.Base(input))
}

func (p *progressRecorder) FileFinished(_, _ int, result convert.Result) {
	p.finished = append(p.finished, result)
}

func TestBatchEmptyDirectory(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "notes.txt")
	out := filepath.Join(t.TempDir(), "out")

	summary, err := newService(t, foxTranscriber(t), convert.Options{}, nil).Batch(context.Background(), convert.BatchRequest{InputDir: in, OutputDir: out})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if !summary.NothingToDo || summary.Total != 0 || len(summary.Results) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output directory should not be created when there is nothing to do")
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"b.MP3", "a.mp3", "c.Mp3", "d.txt", "broken.mp3"} {
		writeInput(t, in, name)
	}
	if err := os.Mkdir(filepath.Join(in, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "out")

	fox := quickFox(t)
	stub := transcript.TranscriberFunc(func(_ context.Context, path string) (transcript.Transcript, error) {
		if filepath.Base(path) == "broken.mp3" {
			return transcript.Transcript{}, errors.New("decoder exploded")
		}
		return fox, nil
	})
	rec := &recorder{}
	progress := &progressRecorder{}
	svc := newService(t, stub, convert.Options{}, rec)

	summary, err := svc.Batch(context.Background(), convert.BatchRequest{InputDir: in, OutputDir: out, Progress: progress})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 || summary.NothingToDo {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	wantOrder := []string{"a.mp3", "b.MP3", "broken.mp3"}
	for i, name := range wantOrder {
		if progress.started[i] != name {
			t.Fatalf("file %d = %s, want %s (order %v)", i, progress.started[i], name, progress.started)
		}
	}
	if progress.total != 3 || len(progress.finished) != 3 {
		t.Fatalf("unexpected progress: total=%d finished=%d", progress.total, len(progress.finished))
	}
	if !errors.Is(summary.Results[2].Err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for broken file, got %v", summary.Results[2].Err)
	}

	for _, name := range []string{"a.srt", "b.srt"} {
		cues, err := subtitles.ParseFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		if len(cues) != 3 || cues[0].Index != 1 {
			t.Fatalf("%s: expected numbering to restart at 1, got %+v", name, cues)
		}
	}
	if _, err := os.Stat(filepath.Join(out, convert.LockFileName)); !os.IsNotExist(err) {
		t.Fatal("lock file should be removed after the batch")
	}

	if len(rec.entries) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(rec.entries))
	}
	for _, e := range rec.entries {
		if e.RunID != summary.RunID {
			t.Fatalf("history entry run id %q, want %q", e.RunID, summary.RunID)
		}
	}
	if rec.entries[2].Status != services.StatusFailed {
		t.Fatalf("expected failed status for broken file, got %q", rec.entries[2].Status)
	}
}

func TestBatchWritesNextToInputWithoutOutputDir(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "one.mp3")
	summary, err := newService(t, foxTranscriber(t), convert.Options{}, nil).Batch(context.Background(), convert.BatchRequest{InputDir: in})
	if err != nil || summary.Succeeded != 1 {
		t.Fatalf("Batch = %+v, %v", summary, err)
	}
	if _, err := os.Stat(filepath.Join(in, "one.srt")); err != nil {
		t.Fatalf("expected subtitle next to input: %v", err)
	}
}

func TestBatchConfiguredExtensions(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"a.wav", "b.M4A", "c.mp3"} {
		writeInput(t, in, name)
	}
	svc := newService(t, foxTranscriber(t), convert.Options{Extensions: []string{".wav", "m4a"}}, nil)
	files, err := svc.Discover(in)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.wav" || filepath.Base(files[1]) != "b.M4A" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestBatchSkipExisting(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "done.mp3")
	writeInput(t, in, "todo.mp3")
	existing := filepath.Join(in, "done.srt")
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := newService(t, foxTranscriber(t), convert.Options{SkipExisting: true}, nil).Batch(context.Background(), convert.BatchRequest{InputDir: in})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if summary.Skipped != 1 || summary.Succeeded != 1 || !summary.Results[0].Skipped {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep" {
		t.Fatal("existing subtitle file was overwritten")
	}
}

func TestBatchInputDirErrors(t *testing.T) {
	svc := newService(t, foxTranscriber(t), convert.Options{}, nil)
	if _, err := svc.Batch(context.Background(), convert.BatchRequest{InputDir: filepath.Join(t.TempDir(), "nope")}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	file := writeInput(t, t.TempDir(), "a.mp3")
	if _, err := svc.Batch(context.Background(), convert.BatchRequest{InputDir: file}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for a file, got %v", err)
	}
}

func TestBatchRefusesLockedOutputDir(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "a.mp3")
	out := t.TempDir()

	held := flock.New(filepath.Join(out, convert.LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = newService(t, foxTranscriber(t), convert.Options{}, nil).Batch(context.Background(), convert.BatchRequest{InputDir: in, OutputDir: out})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(out, "a.srt")); !os.IsNotExist(statErr) {
		t.Fatal("no files should be written while another batch holds the lock")
	}
}

func TestBatchStopsWhenCancelled(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "a.mp3")
	writeInput(t, in, "b.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	fox := quickFox(t)
	stub := transcript.TranscriberFunc(func(context.Context, string) (transcript.Transcript, error) {
		cancel()
		return fox, nil
	})
	summary, err := newService(t, stub, convert.Options{}, nil).Batch(ctx, convert.BatchRequest{InputDir: in})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if summary.Succeeded != 1 || len(summary.Results) != 1 {
		t.Fatalf("expected exactly one processed file, got %+v", summary)
	}
}
