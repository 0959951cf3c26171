package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleave/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show execution history for an output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			targetDir, err := resolveOutputDir(cfg, outputDir)
			if err != nil {
				return err
			}

			store, err := journal.Open(targetDir)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if strings.TrimSpace(runID) != "" {
				attempts, err := store.Attempts(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(attempts) == 0 {
					fmt.Fprintf(out, "No attempts recorded for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(attempts))
				for _, attempt := range attempts {
					detail := attempt.OutputPath
					if !attempt.Success {
						detail = attempt.Error
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", attempt.SegmentIndex),
						formatTimestamp(attempt.StartSec),
						formatDurationSeconds(attempt.DurationSec),
						yesNo(attempt.Success),
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{numCol("Segment"), numCol("Start"), numCol("Duration"), col("OK"), col("Detail")},
					rows,
				))
				return nil
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No executions recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					formatClock(run.StartedAt),
					run.SourcePath,
					fmt.Sprintf("%d/%d", run.Succeeded, run.TotalSegments),
					run.Status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{col("Run"), col("Started"), col("Source"), numCol("Succeeded"), col("Status")},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to configured output dir)")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-segment attempts for one run")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}
