package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"audiosrt/internal/config"
	"audiosrt/internal/history"
	"audiosrt/internal/logging"
	"audiosrt/internal/services"
)

type globalFlags struct {
	configPath  string
	envFiles    []string
	logLevel    string
	backend     string
	model       string
	language    string
	maxChars    int
	maxDuration float64
	cuda        bool

	changed map[string]bool
}

type commandContext struct {
	flags globalFlags
	// logOutput replaces the stderr/file log sinks when set.
	logOutput io.Writer

	envOnce sync.Once

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// loadEnvFiles loads .env from the working directory and any --env-file
// values. Variables already set in the environment win.
func (c *commandContext) loadEnvFiles() {
	c.envOnce.Do(func() {
		candidates := []string{".env"}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".config", "audiosrt", "audiosrt.env"))
		}
		candidates = append(candidates, c.flags.envFiles...)
		for _, file := range candidates {
			if _, err := os.Stat(file); err != nil {
				continue
			}
			if err := godotenv.Load(file); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", file, err)
			}
		}
	})
}

func (c *commandContext) captureOverrides(cmd *cobra.Command) {
	c.flags.changed = make(map[string]bool)
	for _, name := range []string{"log-level", "backend", "model", "language", "max-chars", "max-duration", "cuda"} {
		if cmd.Flags().Changed(name) {
			c.flags.changed[name] = true
		}
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "Invalid configuration", err)
			return
		}
		c.applyOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "flags", "Invalid command-line override", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) {
	f := c.flags
	if f.changed["log-level"] {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(f.logLevel))
	}
	if f.changed["backend"] {
		cfg.Transcription.Backend = strings.ToLower(strings.TrimSpace(f.backend))
	}
	if f.changed["model"] {
		if cfg.Transcription.Backend == config.BackendOpenAI {
			cfg.Transcription.OpenAI.Model = strings.TrimSpace(f.model)
		} else {
			cfg.Transcription.Model = strings.TrimSpace(f.model)
		}
	}
	if f.changed["language"] {
		cfg.Transcription.Language = strings.ToLower(strings.TrimSpace(f.language))
	}
	if f.changed["max-chars"] {
		cfg.Segmentation.MaxChars = f.maxChars
	}
	if f.changed["max-duration"] {
		cfg.Segmentation.MaxDuration = f.maxDuration
	}
	if f.changed["cuda"] {
		cfg.Transcription.CUDA = f.cuda
	}
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if c.logOutput != nil {
			c.logger, c.loggerErr = logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: c.logOutput,
			})
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openHistory opens the history database. A missing path disables history.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Paths.HistoryDB) == "" {
		return nil, errors.New("history is disabled (paths.history_db is empty)")
	}
	return history.Open(cfg.Paths.HistoryDB)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
