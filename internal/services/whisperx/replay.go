package whisperx

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"audiosrt/internal/audio"
	"audiosrt/internal/services"
	"audiosrt/internal/transcript"
)

// Replay re-reads WhisperX JSON written by an earlier run instead of running
// the model. It looks next to the audio file first, then in the work
// directory.
type Replay struct {
	WorkDir  string
	Language string
}

// NewReplay returns a Replay transcriber.
func NewReplay(workDir, language string) *Replay {
	return &Replay{WorkDir: workDir, Language: language}
}

// Candidates lists the JSON paths Replay checks for audioPath, in order.
func (r *Replay) Candidates(audioPath string) []string {
	paths := []string{JSONPathFor(filepath.Dir(audioPath), audioPath)}
	if strings.TrimSpace(r.WorkDir) != "" {
		if alt := JSONPathFor(r.WorkDir, audioPath); alt != paths[0] {
			paths = append(paths, alt)
		}
	}
	return paths
}

// Transcribe implements transcript.Transcriber.
func (r *Replay) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrTransient, "whisperx", "replay", "Cancelled", err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrNotFound, "whisperx", "replay", "Audio file not found", err)
	}
	for _, candidate := range r.Candidates(audioPath) {
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return transcript.Transcript{}, services.Wrap(services.ErrTransient, "whisperx", "replay", "WhisperX JSON not readable", err)
		}
		result, err := LoadTranscript(candidate, r.Language)
		if err != nil {
			return transcript.Transcript{}, err
		}
		result.Duration = audio.Duration(audioPath)
		return result, nil
	}
	return transcript.Transcript{}, services.Wrap(services.ErrNotFound, "whisperx", "replay",
		"No WhisperX JSON found (looked for "+strings.Join(r.Candidates(audioPath), ", ")+")", nil)
}
