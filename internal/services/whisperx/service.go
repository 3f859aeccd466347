package whisperx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"audiosrt/internal/audio"
	langpkg "audiosrt/internal/language"
	"audiosrt/internal/logging"
	"audiosrt/internal/services"
	"audiosrt/internal/transcript"
)

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	converter     *audio.Converter
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.UVXBinary == "" {
		cfg.UVXBinary = UVXCommand
	}
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	return &Service{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "whisperx"),
		converter: audio.NewConverter(cfg.FFmpegBinary),
	}
}

// WithCommandRunner sets a custom command runner (for testing). The runner
// also receives ffmpeg invocations.
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
	s.converter.WithCommandRunner(runner)
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// TranscribeFile runs WhisperX on source and returns the path of the JSON it
// wrote into outputDir.
func (s *Service) TranscribeFile(ctx context.Context, source, outputDir, language string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(source, outputDir, language)
	s.logger.Debug("running whisperx",
		logging.String("binary", s.cfg.UVXBinary),
		logging.String("args", strings.Join(redactArgs(args), " ")),
	)
	if err := s.run(ctx, s.cfg.UVXBinary, args...); err != nil {
		return "", fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, baseName+".json"), nil
}

// Transcribe implements transcript.Transcriber. The WhisperX JSON is kept in
// the work directory as <audio base>.json so Replay can reuse it.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return transcript.Transcript{}, services.Wrap(services.ErrNotFound, "whisperx", "stat input", "Audio file not found", err)
		}
		return transcript.Transcript{}, services.Wrap(services.ErrTransient, "whisperx", "stat input", "Audio file not readable", err)
	}

	workDir := s.workDir(audioPath)
	source := audioPath
	if s.cfg.Resample {
		prepared, cleanup, err := s.converter.Prepare(ctx, audioPath, workDir)
		if err != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, "whisperx", "resample", "ffmpeg conversion failed", err)
		}
		defer cleanup()
		source = prepared
	}

	started := time.Now()
	jsonPath, err := s.TranscribeFile(ctx, source, workDir, s.cfg.Language)
	if err != nil {
		if ctx.Err() != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrTransient, "whisperx", "transcribe", "Transcription cancelled", ctx.Err())
		}
		return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, "whisperx", "transcribe", "WhisperX run failed", err)
	}

	keepPath := JSONPathFor(workDir, audioPath)
	if jsonPath != keepPath {
		if err := os.Rename(jsonPath, keepPath); err != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, "whisperx", "collect output", "WhisperX JSON missing", err)
		}
	}

	result, err := LoadTranscript(keepPath, s.cfg.Language)
	if err != nil {
		return transcript.Transcript{}, err
	}
	if result.Duration == 0 {
		result.Duration = audio.Duration(source)
	}

	s.logger.Info("whisperx transcription complete",
		logging.String("model", s.Model()),
		logging.String("language", result.Language),
		logging.Int("segments", len(result.Segments)),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return result, nil
}

func (s *Service) workDir(audioPath string) string {
	if s.cfg.WorkDir != "" {
		return s.cfg.WorkDir
	}
	return filepath.Dir(audioPath)
}

// JSONPathFor returns where the WhisperX JSON for audioPath is kept in dir.
func JSONPathFor(dir, audioPath string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(dir, base+".json")
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 40)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--best_of", BestOf,
		"--temperature", Temperature,
		"--patience", Patience,
		"--print_progress", "False",
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--hf_token" {
			out[i+1] = "<redacted>"
		}
	}
	return out
}
