package preflight

import (
	"context"
	"path/filepath"

	"audiosrt/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.HistoryDB != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}

	switch cfg.Transcription.Backend {
	case config.BackendWhisperX:
		if cfg.Paths.WorkDir != "" {
			results = append(results, CheckDirectoryAccess("WhisperX work directory", cfg.Paths.WorkDir))
		}
	case config.BackendOpenAI:
		results = append(results, CheckOpenAI(ctx, cfg.Transcription.OpenAI.BaseURL, cfg.Transcription.OpenAI.APIKey))
	}

	return results
}
