package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string, sampleRate, channels, seconds int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, sampleRate*channels*seconds),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, TargetSampleRate, 1, 2)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if math.Abs(info.Duration-2.0) > 0.01 {
		t.Fatalf("duration = %v, want 2.0", info.Duration)
	}
	if !info.IsTarget() {
		t.Fatalf("expected target format, got %+v", info)
	}
	if got := Duration(path); math.Abs(got-2.0) > 0.01 {
		t.Fatalf("Duration = %v", got)
	}
}

func TestProbeRejectsOtherContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Probe(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if Duration(path) != 0 {
		t.Fatal("expected zero duration for unsupported input")
	}
}

func TestProbeInvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a riff file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Probe(path); err == nil {
		t.Fatal("expected error for invalid wav")
	}
}

func TestPrepareSkipsTargetWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready.wav")
	writeTestWAV(t, path, TargetSampleRate, 1, 1)

	conv := NewConverter("")
	conv.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("ffmpeg should not run for target wav")
		return nil
	})
	got, cleanup, err := conv.Prepare(context.Background(), path, t.TempDir())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer cleanup()
	if got != path {
		t.Fatalf("Prepare returned %q, want source", got)
	}
}

func TestPrepareConvertsOtherAudio(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "stereo.wav")
	writeTestWAV(t, source, 44100, 2, 1)
	workDir := filepath.Join(dir, "work")

	var gotName string
	var gotArgs []string
	conv := NewConverter("/opt/ffmpeg")
	conv.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return os.WriteFile(args[len(args)-1], []byte("wav"), 0o644)
	})

	out, cleanup, err := conv.Prepare(context.Background(), source, workDir)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if gotName != "/opt/ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if out != filepath.Join(workDir, "stereo.16k.wav") {
		t.Fatalf("unexpected output %q", out)
	}
	joined := strings.Join(gotArgs, " ")
	for _, fragment := range []string{"-i " + source, "-ac 1", "-ar 16000", "-c:a pcm_s16le"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %q", fragment, joined)
		}
	}
	cleanup()
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("cleanup should remove converted file, stat err=%v", err)
	}
}

func TestToWAVWrapsRunnerError(t *testing.T) {
	conv := NewConverter("")
	conv.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1: Invalid data found")
	})
	err := conv.ToWAV(context.Background(), "in.mp3", filepath.Join(t.TempDir(), "out.wav"))
	if err == nil || !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected runner error, got %v", err)
	}
}
