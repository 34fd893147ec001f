package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stemsplit/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report external tools, paths and the device a run would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			failed := 0
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					} else {
						failed++
					}
				}
				location := status.Path
				if location == "" {
					location = status.Command
				}
				toolRows = append(toolRows, []string{status.Name, location, status.Version, state, detailOrDescription(status.Detail, status.Description)})
			}

			results := preflight.RunAll(cmd.Context(), cfg, ctx.collab.newProber(cfg))
			failed += len(preflight.Failed(results))
			checkRows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "failed"
				}
				checkRows = append(checkRows, []string{result.Name, state, result.Detail})
			}

			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			fmt.Fprintf(out, "Model: %s\n", cfg.Separator.Model)
			fmt.Fprintf(out, "Two-stem targets: %s\n\n", titledTargets())
			fmt.Fprintln(out, renderTable([]string{"Tool", "Path", "Version", "Status", "Detail"}, toolRows))
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows))

			if failed > 0 {
				return fmt.Errorf("%d required check(s) failed", failed)
			}
			return nil
		},
	}
}

func detailOrDescription(detail, description string) string {
	if strings.TrimSpace(detail) != "" {
		return detail
	}
	return description
}

func titledTargets() string {
	caser := cases.Title(language.English)
	names := targetNames()
	for i, name := range names {
		names[i] = caser.String(name)
	}
	return strings.Join(names, ", ")
}
