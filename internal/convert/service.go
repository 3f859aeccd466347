package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"audiosrt/internal/audio"
	"audiosrt/internal/history"
	"audiosrt/internal/logging"
	"audiosrt/internal/segmenter"
	"audiosrt/internal/services"
	"audiosrt/internal/subtitles"
	"audiosrt/internal/transcript"
)

// Options controls how files are converted.
type Options struct {
	Segmentation segmenter.Options
	// Extensions lists the audio extensions picked up by Batch, with the
	// leading dot. Each is matched in its lower- and upper-case form.
	Extensions []string
	// SkipExisting leaves files alone when their subtitle output already exists.
	SkipExisting bool
	// Validate checks the written file against the audio duration.
	Validate bool
	// Backend is recorded in the history for reference.
	Backend string
}

// Request describes a single-file conversion. An empty Output places the
// subtitle file next to the input.
type Request struct {
	Input  string
	Output string
}

// Result describes one converted (or attempted) file.
type Result struct {
	Input        string
	Output       string
	Language     string
	Cues         int
	AudioSeconds float64
	Issues       []string
	Skipped      bool
	Elapsed      time.Duration
	Err          error
}

// Service converts audio files with one shared transcriber.
type Service struct {
	transcriber transcript.Transcriber
	opts        Options
	history     history.Recorder
	logger      *slog.Logger
}

// New validates opts and builds a Service. recorder may be nil to disable
// history.
func New(transcriber transcript.Transcriber, opts Options, recorder history.Recorder, logger *slog.Logger) (*Service, error) {
	if transcriber == nil {
		return nil, services.Wrap(services.ErrConfiguration, "convert", "init", "Transcriber is required", nil)
	}
	if err := opts.Segmentation.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".mp3"}
	}
	return &Service{
		transcriber: transcriber,
		opts:        opts,
		history:     recorder,
		logger:      logging.NewComponentLogger(logger, "convert"),
	}, nil
}

// OutputPathFor derives the subtitle path for input: the input's extension
// replaced by .srt, placed in outputDir when one is given.
func OutputPathFor(input, outputDir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".srt"
	if strings.TrimSpace(outputDir) == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(outputDir, name)
}

// Convert transcribes one file and writes its subtitles. The returned error
// carries a services marker: ErrNotFound for a missing input, ErrExternalTool
// for transcription failures and ErrWrite when the output cannot be written.
func (s *Service) Convert(ctx context.Context, req Request) (Result, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	output := req.Output
	if strings.TrimSpace(output) == "" {
		output = OutputPathFor(req.Input, "")
	}
	result := s.convert(ctx, req.Input, output)
	return result, result.Err
}

func (s *Service) convert(ctx context.Context, input, output string) Result {
	ctx = services.WithSourceFile(ctx, input)
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	result := Result{Input: input, Output: output}
	result.Err = s.run(ctx, logger, &result)
	result.Elapsed = time.Since(started)
	s.record(ctx, logger, result, started)

	if result.Err != nil {
		return result
	}
	logger.Info("subtitles written",
		logging.String(logging.FieldEventType, "convert_complete"),
		logging.String("output", output),
		logging.Int("cues", result.Cues),
		logging.String("language", result.Language),
		logging.Duration("elapsed", result.Elapsed.Round(time.Millisecond)),
	)
	return result
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, result *Result) error {
	info, err := os.Stat(result.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "convert", "stat input",
				fmt.Sprintf("Input file %s not found", result.Input), err)
		}
		return services.Wrap(services.ErrTransient, "convert", "stat input", "Input file not readable", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "convert", "stat input",
			fmt.Sprintf("Input %s is a directory", result.Input), nil)
	}

	logger.Info("transcribing", logging.String(logging.FieldEventType, "transcribe_start"))
	t, err := s.transcriber.Transcribe(ctx, result.Input)
	if err != nil {
		return classifyTranscribeError(ctx, err)
	}
	result.Language = t.Language

	cues, err := segmenter.Cues(t, s.opts.Segmentation)
	if err != nil {
		return err
	}
	result.Cues = len(cues)
	if len(cues) == 0 {
		logging.WarnWithContext(logger, "transcript produced no cues", "empty_transcript",
			logging.String(logging.FieldImpact, "subtitle file will be empty"),
			logging.String(logging.FieldErrorHint, "check that the audio contains speech"),
		)
	}

	if err := subtitles.WriteFile(result.Output, cues); err != nil {
		return services.Wrap(services.ErrWrite, "convert", "write subtitles",
			fmt.Sprintf("Cannot write %s", result.Output), err)
	}

	result.AudioSeconds = t.Duration
	if result.AudioSeconds <= 0 {
		result.AudioSeconds = audio.Duration(result.Input)
	}
	if s.opts.Validate {
		result.Issues = subtitles.ValidateSRTContent(result.Output, result.AudioSeconds)
		if len(result.Issues) > 0 {
			logging.WarnWithContext(logger, "subtitle validation reported issues", "srt_validation",
				logging.String("issues", strings.Join(result.Issues, ", ")),
				logging.String(logging.FieldImpact, "subtitles were written but may be misaligned"),
			)
		}
	}
	return nil
}

// classifyTranscribeError keeps markers set by the adapter and tags anything
// else as a transcription failure.
func classifyTranscribeError(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, services.ErrTransient) {
		return services.Wrap(services.ErrTransient, "convert", "transcribe", "Transcription cancelled", err)
	}
	for _, marker := range []error{
		services.ErrExternalTool,
		services.ErrNotFound,
		services.ErrValidation,
		services.ErrConfiguration,
		services.ErrTransient,
	} {
		if errors.Is(err, marker) {
			return err
		}
	}
	return services.Wrap(services.ErrExternalTool, "convert", "transcribe", "Transcription failed", err)
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, result Result, started time.Time) {
	if s.history == nil {
		return
	}
	entry := history.Entry{
		SourcePath:   result.Input,
		OutputPath:   result.Output,
		Backend:      s.opts.Backend,
		Status:       history.StatusSucceeded,
		CueCount:     result.Cues,
		AudioSeconds: result.AudioSeconds,
		StartedAt:    started,
		FinishedAt:   started.Add(result.Elapsed),
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		entry.RunID = id
	}
	if result.Err != nil {
		entry.Status = services.FailureStatus(result.Err)
		entry.ErrorMessage = result.Err.Error()
		entry.OutputPath = ""
	}
	// Best effort: the conversion outcome stands regardless.
	if _, err := s.history.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Debug("history record failed", logging.Error(err))
	}
}
