package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of CLI table output. Numeric columns
// (indexes, timestamps, durations) align right so magnitudes line up.
type tableColumn struct {
	title   string
	numeric bool
}

func col(title string) tableColumn    { return tableColumn{title: title} }
func numCol(title string) tableColumn { return tableColumn{title: title, numeric: true} }

// renderTable renders rows under the given columns in the rounded style
// shared by every command. Rows shorter than the column set are padded with
// empty cells.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, column := range columns {
		header[i] = column.title
		align := text.AlignLeft
		if column.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(columns))
		for i := range columns {
			cells[i] = ""
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		tw.AppendRow(cells)
	}

	return tw.Render()
}
