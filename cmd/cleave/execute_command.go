package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleave/internal/config"
	"cleave/internal/deps"
	"cleave/internal/executor"
	"cleave/internal/journal"
	"cleave/internal/logging"
	"cleave/internal/plan"
)

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	var planPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Cut the segments described by a plan",
		Long: `Materialize every segment of a cut plan with stream copy. Segment
failures are independent; the report in the output directory records each
outcome and the command exits nonzero when any segment failed.`,
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

			resolvedPlan, err := config.ExpandPath(planPath)
			if err != nil {
				return err
			}
			cutPlan, err := plan.ReadPlanFile(resolvedPlan)
			if err != nil {
				return err
			}
			targetDir, err := resolveOutputDir(cfg, outputDir)
			if err != nil {
				return err
			}

			journalStore, err := journal.Open(targetDir)
			if err != nil {
				logger.Warn("execution journal unavailable", logging.Error(err))
				journalStore = nil
			} else {
				defer journalStore.Close()
			}

			exec := executor.New(cfg, executor.Options{
				Journal:      journalStore,
				Logger:       logger,
				ShowProgress: interactiveTerminal(),
			})
			report, err := exec.Execute(cmd.Context(), cutPlan, targetDir)
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
			}
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("execution incomplete: %d of %d segment(s) failed (see %s)",
					report.Failed, report.TotalSegments, executor.ReportPath(targetDir))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Cut plan file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to configured output dir)")
	cmd.MarkFlagRequired("plan")
	return cmd
}

func renderReport(report *executor.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %s (%d/%d segments)\n",
		report.RunID, report.Status, report.Succeeded, report.TotalSegments)

	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		detail := result.Size
		if !result.Success {
			detail = result.Error
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", result.Index),
			formatTimestamp(result.StartSec),
			formatDurationSeconds(result.DurationSec),
			yesNo(result.Success),
			detail,
		})
	}
	b.WriteString(renderTable(
		[]tableColumn{numCol("Segment"), numCol("Start"), numCol("Duration"), col("OK"), col("Detail")},
		rows,
	))
	return b.String()
}
