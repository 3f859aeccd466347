package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(newCommandContext())
}

func newRootCommandWith(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "audiosrt",
		Short:         "Generate SubRip subtitles from speech audio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.loadEnvFiles()
			ctx.captureOverrides(cmd)
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.flags.configPath, "config", "c", "", "Configuration file path (TOML or YAML)")
	flags.StringArrayVar(&ctx.flags.envFiles, "env-file", nil, "Additional .env file to load (repeatable)")
	flags.StringVar(&ctx.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&ctx.flags.backend, "backend", "", "Transcription backend (whisperx, openai, json)")
	flags.StringVarP(&ctx.flags.model, "model", "m", "", "Recognition model (tiny, base, small, medium, large-v3, ...)")
	flags.StringVarP(&ctx.flags.language, "language", "l", "", "Spoken language code; empty auto-detects")
	flags.IntVar(&ctx.flags.maxChars, "max-chars", 0, "Maximum characters per subtitle cue")
	flags.Float64Var(&ctx.flags.maxDuration, "max-duration", 0, "Maximum seconds per subtitle cue")
	flags.BoolVar(&ctx.flags.cuda, "cuda", false, "Run WhisperX on a CUDA GPU")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
