// Package report renders Friedman/Nemenyi reports for terminals, documents and APIs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gofriedman/domain/friedman"
	analysis "gofriedman/internal/analysis/friedman"
	"gofriedman/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects an output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists every supported output format.
var Formats = []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown output format %q (want text, markdown, html or json)", s))
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *analysis.Report, format Format) error {
	var out []byte
	switch format {
	case FormatText:
		out = []byte(Text(r))
	case FormatMarkdown:
		out = []byte(Markdown(r))
	case FormatHTML:
		out = HTML(r)
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
		out = append(b, '\n')
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown output format %q", format))
	}
	_, err := w.Write(out)
	return err
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sigStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#E74C3C"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
)

// Text renders the table, the omnibus test and the pairwise mask for a terminal.
func Text(r *analysis.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Friedman table"))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("(%s ranking, %d blocks)", r.Direction(), r.Blocks())))
	b.WriteString("\n")

	blocks := r.Blocks()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(r.Table.Header()...).
		Rows(r.Table.DisplayRows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			// Summary rows follow the block rows.
			if row >= blocks && col == 0 {
				return headerStyle
			}
			return cellStyle
		})
	b.WriteString(t.String())
	b.WriteString("\n\n")

	for _, line := range summaryLines(r, plain) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("Nemenyi pairwise (CD = %.4f)", r.CriticalDifference)))
	b.WriteString("\n")
	b.WriteString(pairwiseTable(r.Pairwise).String())
	b.WriteString("\n")
	return b.String()
}

func pairwiseTable(p *friedman.PairwiseResult) *table.Table {
	names := p.Treatments()
	rows := make([][]string, len(names))
	for i, a := range names {
		row := []string{a}
		for _, b := range names {
			row = append(row, pairMark(p, a, b))
		}
		rows[i] = row
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{""}, names...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			if rows[row][col] == "*" {
				return sigStyle
			}
			return cellStyle
		})
}

// pairMark is "*" for a significant pair, "-" on the diagonal and "" otherwise.
func pairMark(p *friedman.PairwiseResult, a, b string) string {
	if a == b {
		return "-"
	}
	if sig, _ := p.Significant(a, b); sig {
		return "*"
	}
	return ""
}

func plain(s string) string { return s }

// summaryLines describes the test outcome; esc is applied to treatment names.
func summaryLines(r *analysis.Report, esc func(string) string) []string {
	test := r.Test
	verdict := "not rejected"
	if r.Reject() {
		verdict = "rejected"
	}
	lines := []string{
		fmt.Sprintf("Friedman statistic: %.4f (df = %d, p = %.4g)", test.Statistic, test.DegreesOfFreedom, test.PValue),
		fmt.Sprintf("Iman-Davenport F: %s (p = %.4g)", friedman.FormatSummary(test.ImanDavenport), test.ImanDavenportPValue),
		fmt.Sprintf("Equal average ranks at alpha = %s: %s", r.Significance, verdict),
		fmt.Sprintf("Critical difference: %.4f", r.CriticalDifference),
		fmt.Sprintf("Best: %s; indistinguishable from best: %s",
			esc(r.Pairwise.Best()), strings.Join(mapStrings(r.Pairwise.IndistinguishableFromBest(), esc), ", ")),
	}

	var pairs []string
	for _, p := range r.Pairwise.SignificantPairs() {
		pairs = append(pairs, esc(p.A)+" vs "+esc(p.B))
	}
	if len(pairs) == 0 {
		lines = append(lines, "Significant pairs: none")
	} else {
		lines = append(lines, "Significant pairs: "+strings.Join(pairs, ", "))
	}
	return lines
}

// Markdown renders the report as a GitHub-flavoured markdown document.
func Markdown(r *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Friedman test report\n\n")
	fmt.Fprintf(&b, "Report `%s`, data `%s`, %s ranking, %d blocks.\n\n",
		r.ID, shortHash(r.DataHash.String()), r.Direction(), r.Blocks())

	b.WriteString("## Table\n\n")
	displayRows := r.Table.DisplayRows()
	for i, row := range displayRows {
		displayRows[i] = escapeCells(row)
	}
	writeMarkdownTable(&b, escapeCells(r.Table.Header()), displayRows)

	b.WriteString("\n## Test\n\n")
	for _, line := range summaryLines(r, escapeMarkdown) {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\n## Nemenyi pairwise\n\n")
	header := []string{"A", "B", `\|ΔR\|`, "Significant"}
	var rows [][]string
	for _, c := range r.Pairwise.Comparisons() {
		sig := "no"
		if c.Significant {
			sig = "**yes**"
		}
		rows = append(rows, []string{escapeMarkdown(c.A), escapeMarkdown(c.B), fmt.Sprintf("%.4f", c.Difference), sig})
	}
	writeMarkdownTable(&b, header, rows)

	if len(r.Profiles) > 0 {
		b.WriteString("\n## Score distribution\n\n")
		header = []string{"Treatment", "Min", "Q1", "Median", "Q3", "Max", "Skewness", "Outliers"}
		rows = rows[:0]
		for _, p := range r.Profiles {
			rows = append(rows, []string{
				escapeMarkdown(p.Treatment),
				friedman.FormatScore(p.Min),
				friedman.FormatScore(p.Q1),
				friedman.FormatScore(p.Median),
				friedman.FormatScore(p.Q3),
				friedman.FormatScore(p.Max),
				fmt.Sprintf("%.3f", p.Skewness),
				fmt.Sprintf("%d", p.Outliers),
			})
		}
		writeMarkdownTable(&b, header, rows)
	}
	return b.String()
}

// writeMarkdownTable writes cells as given; callers escape user data first.
func writeMarkdownTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func escapeCells(cells []string) []string {
	return mapStrings(cells, escapeMarkdown)
}

// markdownEscaper backslash-escapes characters that would let a treatment name
// or block label open a table cell, an inline HTML tag, a link or emphasis.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"[", `\[`,
	"]", `\]`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }

func mapStrings(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// HTML renders the markdown report to a standalone HTML fragment. Raw HTML and
// unsafe link targets are dropped.
func HTML(r *analysis.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return markdown.ToHTML([]byte(Markdown(r)), p, renderer)
}
