package main

import (
	"fmt"
	"log/slog"
	"strings"

	"audiosrt/internal/config"
	"audiosrt/internal/convert"
	"audiosrt/internal/history"
	"audiosrt/internal/logging"
	"audiosrt/internal/segmenter"
	"audiosrt/internal/services"
	"audiosrt/internal/services/openaiasr"
	"audiosrt/internal/services/whisperx"
	"audiosrt/internal/transcript"
)

// newTranscriber builds the configured backend. The handle is created once
// per invocation and shared by every converted file.
func newTranscriber(cfg *config.Config, logger *slog.Logger) (transcript.Transcriber, error) {
	t := cfg.Transcription
	switch t.Backend {
	case config.BackendWhisperX:
		return whisperx.NewService(whisperx.Config{
			Model:        t.Model,
			Language:     t.Language,
			CUDAEnabled:  t.CUDA,
			VADMethod:    t.VADMethod,
			HFToken:      t.HFToken,
			WorkDir:      cfg.Paths.WorkDir,
			Resample:     t.Resample,
			UVXBinary:    cfg.UVXBinary(),
			FFmpegBinary: cfg.FFmpegBinary(),
		}, logger), nil
	case config.BackendOpenAI:
		if strings.TrimSpace(t.OpenAI.APIKey) == "" && isHostedOpenAI(t.OpenAI.BaseURL) {
			return nil, services.Wrap(services.ErrConfiguration, "openai-asr", "init",
				"OPENAI_API_KEY is not set (or set transcription.openai.api_key)", nil)
		}
		return openaiasr.New(openaiasr.Config{
			BaseURL:  t.OpenAI.BaseURL,
			APIKey:   t.OpenAI.APIKey,
			Model:    t.OpenAI.Model,
			Language: t.Language,
		}, logger), nil
	case config.BackendJSON:
		return whisperx.NewReplay(cfg.Paths.WorkDir, t.Language), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "cli", "select backend",
			fmt.Sprintf("unsupported backend %q", t.Backend), nil)
	}
}

func isHostedOpenAI(baseURL string) bool {
	return strings.Contains(strings.ToLower(baseURL), "api.openai.com")
}

// newConvertService wires the configured backend, history store and limits.
// The returned cleanup closes the history store.
func (c *commandContext) newConvertService() (*convert.Service, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	tr, err := newTranscriber(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var recorder history.Recorder
	if strings.TrimSpace(cfg.Paths.HistoryDB) != "" {
		store, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not be recorded"),
				logging.String(logging.FieldErrorHint, "delete the history database or fix paths.history_db"),
			)
		} else {
			recorder = store
			cleanup = func() { _ = store.Close() }
		}
	}

	svc, err := convert.New(tr, convert.Options{
		Segmentation: segmenter.Options{
			MaxChars:    cfg.Segmentation.MaxChars,
			MaxDuration: cfg.Segmentation.MaxDuration,
		},
		Extensions:   cfg.Batch.Extensions,
		SkipExisting: cfg.Batch.SkipExisting,
		Validate:     true,
		Backend:      cfg.Transcription.Backend,
	}, recorder, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
