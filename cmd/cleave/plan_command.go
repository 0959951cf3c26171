package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleave/internal/config"
	"cleave/internal/deps"
	"cleave/internal/planner"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var outputDir string
	var intervalMinutes int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve pause-aligned cut points for a source",
		Long: `Probe the source, find speech pauses near each target timestamp, and
write a cut plan to the output directory. Interrupted runs resume from the
last checkpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			if missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s (run `cleave deps`)", strings.Join(missing, ", "))
			}

			sourcePath, err := config.ExpandPath(inputPath)
			if err != nil {
				return err
			}
			targetDir, err := resolveOutputDir(cfg, outputDir)
			if err != nil {
				return err
			}

			p := planner.New(cfg, planner.Options{
				Logger:       logger,
				ShowProgress: interactiveTerminal(),
			})
			cutPlan, err := p.Plan(cmd.Context(), planner.Request{
				SourcePath:  sourcePath,
				OutputDir:   targetDir,
				IntervalSec: float64(intervalMinutes) * 60,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Planned %d cut point(s), %d segment(s)\n", len(cutPlan.CutPoints), len(cutPlan.Segments))
			fmt.Fprintln(out, renderCutPlan(cutPlan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Source media file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to configured output dir)")
	cmd.Flags().IntVar(&intervalMinutes, "interval", 0, "Target segment length in minutes (defaults to configuration)")
	cmd.MarkFlagRequired("input")
	return cmd
}

func resolveOutputDir(cfg *config.Config, flagValue string) (string, error) {
	value := strings.TrimSpace(flagValue)
	if value == "" {
		return cfg.Paths.OutputDir, nil
	}
	return config.ExpandPath(value)
}
