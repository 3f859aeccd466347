package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"audiosrt/internal/audio"
	"audiosrt/internal/subtitles"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var audioPath string

	cmd := &cobra.Command{
		Use:         "validate <file.srt>",
		Short:       "Check an existing SubRip file for structural problems",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			cues, err := subtitles.ParseFile(path)
			if err != nil {
				return err
			}

			var audioSeconds float64
			if strings.TrimSpace(audioPath) != "" {
				info, err := audio.Probe(audioPath)
				if err != nil {
					return err
				}
				audioSeconds = info.Duration
			}

			out := cmd.OutOrStdout()
			first, last := subtitles.Bounds(cues)
			fmt.Fprintf(out, "%s: %d cues, %s --> %s\n", path, len(cues),
				subtitles.FormatTimestamp(first), subtitles.FormatTimestamp(last))

			issues := subtitles.Validate(cues, audioSeconds)
			if len(issues) == 0 {
				fmt.Fprintln(out, "No issues found")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return fmt.Errorf("%d issue(s) found in %s", len(issues), path)
		},
	}
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "WAV file to compare the subtitle duration against")
	return cmd
}
