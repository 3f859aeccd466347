package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"audiosrt/internal/logging"
	"audiosrt/internal/services"
)

// LockFileName is the advisory lock taken in a batch output directory.
const LockFileName = ".audiosrt.lock"

// BatchRequest describes a directory conversion. An empty OutputDir writes
// subtitles next to their audio files.
type BatchRequest struct {
	InputDir  string
	OutputDir string
	Progress  Progress
}

// BatchSummary reports the outcome of a directory conversion.
type BatchSummary struct {
	RunID       string
	InputDir    string
	OutputDir   string
	NothingToDo bool
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	Results     []Result
}

// Progress receives per-file notifications during Batch.
type Progress interface {
	FileStarted(index, total int, input string)
	FileFinished(index, total int, result Result)
}

type noopProgress struct{}

func (noopProgress) FileStarted(int, int, string) {}
func (noopProgress) FileFinished(int, int, Result) {}

// Batch converts every matching file directly inside req.InputDir. A failing
// file is logged and counted and never stops the loop. The returned error is
// non-nil only when the batch itself cannot run or is cancelled.
func (s *Service) Batch(ctx context.Context, req BatchRequest) (BatchSummary, error) {
	summary := BatchSummary{InputDir: req.InputDir, OutputDir: req.OutputDir}

	files, err := s.Discover(req.InputDir)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		summary.NothingToDo = true
		s.logger.Info("no audio files found",
			logging.String(logging.FieldEventType, "batch_empty"),
			logging.String("input_dir", req.InputDir),
			logging.String("extensions", strings.Join(s.opts.Extensions, ",")),
		)
		return summary, nil
	}

	lockDir := req.InputDir
	if strings.TrimSpace(req.OutputDir) != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return summary, services.Wrap(services.ErrWrite, "convert", "create output dir",
				fmt.Sprintf("Cannot create %s", req.OutputDir), err)
		}
		lockDir = req.OutputDir
	}

	lockPath := filepath.Join(lockDir, LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrWrite, "convert", "acquire lock", "Cannot lock output directory", err)
	}
	if !locked {
		return summary, services.Wrap(services.ErrTransient, "convert", "acquire lock",
			fmt.Sprintf("Another batch is already writing to %s", lockDir), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release batch lock", logging.Error(err))
		}
		_ = os.Remove(lockPath)
	}()

	progress := req.Progress
	if progress == nil {
		progress = noopProgress{}
	}

	summary.RunID = uuid.NewString()
	summary.Total = len(files)
	ctx = services.WithRunID(ctx, summary.RunID)
	batchLogger := logging.WithContext(ctx, s.logger)
	batchLogger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("input_dir", req.InputDir),
		logging.Int("files", len(files)),
	)

	for i, input := range files {
		if err := ctx.Err(); err != nil {
			return summary, services.Wrap(services.ErrTransient, "convert", "batch",
				fmt.Sprintf("Cancelled after %d of %d files", i, len(files)), err)
		}
		index := i + 1
		output := OutputPathFor(input, req.OutputDir)
		progress.FileStarted(index, len(files), input)

		if s.opts.SkipExisting && fileExists(output) {
			result := Result{Input: input, Output: output, Skipped: true}
			summary.Skipped++
			summary.Results = append(summary.Results, result)
			batchLogger.Info("subtitles already exist, skipping",
				logging.String(logging.FieldSourceFile, input),
				logging.String("output", output),
			)
			progress.FileFinished(index, len(files), result)
			continue
		}

		result := s.convert(services.WithFileIndex(ctx, index), input, output)
		summary.Results = append(summary.Results, result)
		if result.Err != nil {
			summary.Failed++
			logging.ErrorWithContext(batchLogger, "conversion failed", "convert_failure",
				logging.String(logging.FieldSourceFile, filepath.Base(input)),
				logging.Int(logging.FieldFileIndex, index),
				logging.String("error_message", result.Err.Error()),
				logging.String(logging.FieldErrorHint, hintFor(result.Err)),
			)
		} else {
			summary.Succeeded++
		}
		progress.FileFinished(index, len(files), result)
	}

	batchLogger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// Discover lists the files in dir whose extension matches one of the
// configured extensions in lower- or upper-case form, sorted by name.
// Subdirectories are not searched.
func (s *Service) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "convert", "scan input dir",
				fmt.Sprintf("Input directory %s not found", dir), err)
		}
		return nil, services.Wrap(services.ErrTransient, "convert", "scan input dir", "Cannot read input directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "convert", "scan input dir",
			fmt.Sprintf("%s is not a directory", dir), nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "convert", "scan input dir", "Cannot read input directory", err)
	}

	accepted := make(map[string]struct{}, len(s.opts.Extensions)*2)
	for _, ext := range s.opts.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		accepted[strings.ToLower(ext)] = struct{}{}
		accepted[strings.ToUpper(ext)] = struct{}{}
	}

	// os.ReadDir returns entries sorted by file name.
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := accepted[filepath.Ext(entry.Name())]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "check that the file still exists"
	case errors.Is(err, services.ErrWrite):
		return "check permissions and free space in the output directory"
	case errors.Is(err, services.ErrExternalTool):
		return "run `audiosrt doctor` and check the transcription backend"
	default:
		return "check logs for details"
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
