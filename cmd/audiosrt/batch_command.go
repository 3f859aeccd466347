package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"audiosrt/internal/convert"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var noProgress bool
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Convert every audio file in a directory",
		Long: "Convert every matching audio file directly inside a directory (subdirectories are not searched).\n" +
			"A failing file is reported and the remaining files are still converted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve input directory: %w", err)
			}
			if out := strings.TrimSpace(outputDir); out != "" {
				if outputDir, err = filepath.Abs(out); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			if cmd.Flags().Changed("skip-existing") {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg.Batch.SkipExisting = skipExisting
			}

			svc, cleanup, err := ctx.newConvertService()
			if err != nil {
				return err
			}
			defer cleanup()

			req := convert.BatchRequest{InputDir: inputDir, OutputDir: outputDir}
			var bar *barProgress
			if !noProgress && isTerminal(os.Stderr) {
				bar = newBarProgress(os.Stderr)
				req.Progress = bar
			}

			summary, err := svc.Batch(cmd.Context(), req)
			if bar != nil {
				bar.finish()
			}
			if err != nil && len(summary.Results) == 0 {
				return err
			}
			out := cmd.OutOrStdout()
			if summary.NothingToDo {
				fmt.Fprintf(out, "No audio files found in %s\n", inputDir)
				return nil
			}
			printBatchSummary(out, summary)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for subtitle files (created if missing; default: next to each input)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Leave files whose subtitle output already exists")
	return cmd
}

func printBatchSummary(out io.Writer, summary convert.BatchSummary) {
	for _, result := range summary.Results {
		if result.Err != nil {
			fmt.Fprintf(out, "FAILED  %s: %v\n", filepath.Base(result.Input), result.Err)
		}
	}
	fmt.Fprintf(out, "Converted %d of %d files", summary.Succeeded, summary.Total)
	var extras []string
	if summary.Failed > 0 {
		extras = append(extras, fmt.Sprintf("%d failed", summary.Failed))
	}
	if summary.Skipped > 0 {
		extras = append(extras, fmt.Sprintf("%d skipped", summary.Skipped))
	}
	if len(extras) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(extras, ", "))
	}
	fmt.Fprintln(out)
}

// barProgress renders batch progress with a terminal progress bar.
type barProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{w: w}
}

func (p *barProgress) FileStarted(index, total int, input string) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	p.bar.Describe(fmt.Sprintf("[%d/%d] %s", index, total, filepath.Base(input)))
}

func (p *barProgress) FileFinished(_, _ int, _ convert.Result) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *barProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
