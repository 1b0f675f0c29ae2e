package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownOptions tweaks the exported document
type MarkdownOptions struct {
	Title string
	// HeatmapURL, when set, embeds the heatmap as an image link
	HeatmapURL string
}

// Markdown renders the report as a standalone markdown document
func (r *Report) Markdown(opts MarkdownOptions) string {
	title := opts.Title
	if title == "" {
		title = "Smart Data Analyzer"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeInline(title))
	fmt.Fprintf(&b, "**File:** %s (%s), %d rows x %d columns\n\n", escapeInline(r.FileName), r.Format, r.Rows, r.Columns)

	b.WriteString("## Data Preview\n\n")
	writeTable(&b, r.ColumnNames, r.Preview)

	if r.HasNumeric() {
		b.WriteString("## Numeric Analysis\n\n")
		writeLabeledTable(&b, "", SummaryHeader, r.SummaryRows())

		b.WriteString("### Correlation Matrix\n\n")
		writeLabeledTable(&b, "", r.Numeric.Correlation.Columns, r.CorrelationRows())

		if opts.HeatmapURL != "" {
			fmt.Fprintf(&b, "![Correlation Heatmap](%s)\n\n", opts.HeatmapURL)
		}
	}

	if r.HasCategorical() {
		sec := r.Categorical
		b.WriteString("## Categorical Analysis\n\n")
		fmt.Fprintf(&b, "Chi-square test between **%s** and **%s**.\n\n", escapeInline(sec.Col1), escapeInline(sec.Col2))
		fmt.Fprintf(&b, "%s\n\n", r.ChiSquareLine())

		t := sec.Result.Table
		rows := make([]SummaryRow, len(t.RowLabels))
		for i, label := range t.RowLabels {
			cells := make([]string, len(t.ColLabels))
			for j := range t.ColLabels {
				cells[j] = strconv.Itoa(t.Counts[i][j])
			}
			rows[i] = SummaryRow{Column: label, Cells: cells}
		}
		writeLabeledTable(&b, t.RowVar+" \\ "+t.ColVar, t.ColLabels, rows)
	}

	if r.Completed {
		b.WriteString("---\n\nAnalysis complete.\n")
	}
	return b.String()
}

// HTML converts the markdown export to an HTML fragment. Raw HTML in cell
// text is dropped rather than passed through.
func (r *Report) HTML(opts MarkdownOptions) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.ToHTML([]byte(r.Markdown(opts)), p, renderer)
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	if len(header) == 0 {
		b.WriteString("_No columns._\n\n")
		return
	}
	writeRow(b, header)
	writeDivider(b, len(header))
	for _, row := range rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeLabeledTable(b *strings.Builder, corner string, header []string, rows []SummaryRow) {
	full := append([]string{corner}, header...)
	writeRow(b, full)
	writeDivider(b, len(full))
	for _, row := range rows {
		writeRow(b, append([]string{row.Column}, row.Cells...))
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeDivider(b *strings.Builder, n int) {
	b.WriteString("|")
	for i := 0; i < n; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

var cellReplacer = strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	if s == "" {
		return " "
	}
	return cellReplacer.Replace(escapeInline(s))
}

var inlineReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
	"[", "\\[",
	"]", "\\]",
	"<", "&lt;",
	">", "&gt;",
)

// escapeInline neutralises markdown emphasis, links and raw HTML in user text
func escapeInline(s string) string {
	return inlineReplacer.Replace(s)
}
