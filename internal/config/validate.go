package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case BackendWhisperX, BackendOpenAI, BackendJSON:
	default:
		return fmt.Errorf("transcription.backend: unsupported value %q (want whisperx, openai, or json)", c.Transcription.Backend)
	}
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method: unsupported value %q (want silero or pyannote)", c.Transcription.VADMethod)
	}
	if c.Transcription.Model == "" {
		return errors.New("transcription.model must be set")
	}
	if c.Transcription.Backend == BackendOpenAI && c.Transcription.OpenAI.Model == "" {
		return errors.New("transcription.openai.model must be set when backend is openai")
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.MaxChars <= 0 {
		return fmt.Errorf("segmentation.max_chars must be positive, got %d", c.Segmentation.MaxChars)
	}
	d := c.Segmentation.MaxDuration
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return fmt.Errorf("segmentation.max_duration must be a positive number of seconds, got %v", d)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
