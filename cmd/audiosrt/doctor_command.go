package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"audiosrt/internal/deps"
	"audiosrt/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, endpoints and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (not found, using defaults)"
			}
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, configDetail, colorize))
			fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, cfg.Transcription.Backend, colorize))
			fmt.Fprintln(out, renderStatusLine("Limits", statusInfo,
				fmt.Sprintf("%d chars / %gs", cfg.Segmentation.MaxChars, cfg.Segmentation.MaxDuration), colorize))

			failures := 0
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			statuses := deps.Probe(cmd.Context(), preflight.CheckSystemDeps(cfg), preflight.VersionFlags, nil)
			for _, status := range statuses {
				kind, detail := dependencyLine(status)
				if kind == statusError {
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Checks", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failures > 0 {
				return fmt.Errorf("doctor found %d problem(s)", failures)
			}
			return nil
		},
	}
}

func dependencyLine(status deps.Status) (statusKind, string) {
	if status.Available {
		detail := status.Command
		if v := strings.TrimSpace(status.Version); v != "" {
			detail = v
		} else if status.Detail != "" {
			return statusWarn, status.Detail
		}
		return statusOK, detail
	}
	detail := status.Detail
	if status.Description != "" {
		detail = fmt.Sprintf("%s (%s)", detail, status.Description)
	}
	if status.Optional {
		return statusWarn, detail
	}
	return statusError, detail
}
