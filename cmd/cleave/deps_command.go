package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cleave/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Description
				if !status.Available && status.Detail != "" {
					detail = status.Detail
				}
				required := "required"
				if status.Optional {
					required = "optional"
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					required,
					yesNo(status.Available),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]tableColumn{col("Tool"), col("Command"), col("Role"), col("Found"), col("Detail")},
				rows,
			))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
}
