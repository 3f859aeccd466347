package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"audiosrt/internal/convert"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <audio-file>",
		Short: "Transcribe one audio file into an .srt subtitle file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to one audio file. Example: audiosrt convert talk.mp3\nRun audiosrt convert --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			if out := strings.TrimSpace(output); out != "" {
				if output, err = filepath.Abs(out); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			svc, cleanup, err := ctx.newConvertService()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Convert(cmd.Context(), convert.Request{Input: input, Output: output})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d cues to %s\n", result.Cues, result.Output)
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "warning: %s\n", issue)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Subtitle file to write (default: input with .srt extension)")
	return cmd
}
