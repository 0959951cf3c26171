package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleave/internal/config"
	"cleave/internal/plan"
)

func newShowCommand() *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Render a cut plan",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolvedPlan, err := config.ExpandPath(planPath)
			if err != nil {
				return err
			}
			cutPlan, err := plan.ReadPlanFile(resolvedPlan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCutPlan(cutPlan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Cut plan file")
	cmd.MarkFlagRequired("plan")
	return cmd
}

func renderCutPlan(cutPlan *plan.CutPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s (%s)\n", cutPlan.SourcePath, formatTimestamp(cutPlan.TotalDuration))

	if len(cutPlan.CutPoints) > 0 {
		rows := make([][]string, 0, len(cutPlan.CutPoints))
		for i, point := range cutPlan.CutPoints {
			origin := string(point.SourceType)
			if point.ConfigLabel != "" {
				origin = fmt.Sprintf("%s (%s, r=%ds)", origin, point.ConfigLabel, point.SearchRadiusSec)
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				formatTimestamp(point.Target),
				formatTimestamp(point.Actual),
				formatOffset(point.Deviation),
				string(point.Confidence),
				origin,
			})
		}
		b.WriteString(renderTable(
			[]tableColumn{numCol("Cut"), numCol("Target"), numCol("Actual"), numCol("Deviation"), col("Confidence"), col("Origin")},
			rows,
		))
		b.WriteString("\n")
	}

	rows := make([][]string, 0, len(cutPlan.Segments))
	for _, segment := range cutPlan.Segments {
		rows = append(rows, []string{
			fmt.Sprintf("%d", segment.Index),
			formatTimestamp(segment.Start),
			formatTimestamp(segment.End),
			formatDurationSeconds(segment.Duration),
			string(segment.Kind),
		})
	}
	b.WriteString(renderTable(
		[]tableColumn{numCol("Segment"), numCol("Start"), numCol("End"), numCol("Duration"), col("Kind")},
		rows,
	))
	return b.String()
}
