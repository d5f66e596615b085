package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trakt2letterboxd/internal/config"
	"trakt2letterboxd/internal/export"
)

// renderExportSummary lays out one row per output file.
func renderExportSummary(results []export.Result) string {
	if len(results) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"List", "Movies", "File"})

	for _, result := range results {
		file := result.Path
		if !result.Written {
			file = "(not written)"
		}
		tw.AppendRow(table.Row{result.Label, strconv.Itoa(result.Records), file})
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(exportedMovies(results)), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignLeft},
	})
	return tw.Render()
}

// exportedMovies counts rows across the list files only; the recent-history
// file repeats rows already counted under history.
func exportedMovies(results []export.Result) int {
	total := 0
	for _, result := range results {
		if config.IsSupportedList(result.List) {
			total += result.Records
		}
	}
	return total
}
