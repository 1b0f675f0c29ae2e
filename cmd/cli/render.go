package main

import (
	"fmt"
	"io"
	"strconv"

	"smartanalyzer/internal/report"

	"github.com/olekukonko/tablewriter"
)

// writeText prints a report as plain tables for the terminal
func writeText(w io.Writer, r *report.Report) {
	fmt.Fprintf(w, "File: %s (%s), %d rows x %d columns\n\n", r.FileName, r.Format, r.Rows, r.Columns)

	fmt.Fprintln(w, "Data Preview")
	preview := newTable(w, append([]string{""}, r.ColumnNames...))
	for i, row := range r.Preview {
		preview.Append(append([]string{strconv.Itoa(i)}, row...))
	}
	preview.Render()
	fmt.Fprintln(w)

	if r.HasNumeric() {
		fmt.Fprintln(w, "Descriptive Statistics")
		writeLabeled(w, report.SummaryHeader, r.SummaryRows())

		fmt.Fprintln(w, "Correlation Matrix")
		writeLabeled(w, r.Numeric.Correlation.Columns, r.CorrelationRows())
	}

	if r.HasCategorical() {
		sec := r.Categorical
		fmt.Fprintf(w, "Chi-square test: %s vs %s\n", sec.Col1, sec.Col2)
		fmt.Fprintln(w, r.ChiSquareLine())

		t := sec.Result.Table
		table := newTable(w, append([]string{t.RowVar + ` \ ` + t.ColVar}, t.ColLabels...))
		for i, label := range t.RowLabels {
			row := []string{label}
			for _, n := range t.Counts[i] {
				row = append(row, strconv.Itoa(n))
			}
			table.Append(row)
		}
		table.Render()
		fmt.Fprintln(w)
	}

	if r.Completed {
		fmt.Fprintln(w, "Analysis complete!")
	}
}

func writeLabeled(w io.Writer, header []string, rows []report.SummaryRow) {
	table := newTable(w, append([]string{""}, header...))
	for _, row := range rows {
		table.Append(append([]string{row.Column}, row.Cells...))
	}
	table.Render()
	fmt.Fprintln(w)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}
