package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gohyperdown/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // SOURCE, OUTPUT, STATUS, SIZE, TIME
	minSourceWidth   = 20
	minOutputWidth   = 20
	statusWidth      = 9
	sizeWidth        = 10
	timeWidth        = 8
	heavySeparator   = "="
	defaultTermWidth = 100

	statusWritten   = "written"
	statusUnchanged = "unchanged"
	statusFailed    = "failed"
)

// TableRow represents a single rendered file in the table.
type TableRow struct {
	Source string
	Output string
	Status string
	Size   string
	Time   string
}

// TableFormatter formats run outcomes as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a styled table, one row per file.
// Paths are shown relative to base.
func (t *TableFormatter) FormatTable(result *runner.Result, base string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, OutcomeToTableRow(file, base))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// OutcomeToTableRow converts a file outcome to a table row.
func OutcomeToTableRow(outcome runner.FileOutcome, base string) TableRow {
	row := TableRow{
		Source: displayPath(outcome.Path, base),
		Output: displayPath(outcome.Output, base),
		Time:   formatDuration(outcome.Duration),
	}
	switch {
	case outcome.Error != nil:
		row.Status = statusFailed
		row.Output = "-"
		row.Size = "-"
	case outcome.Written:
		row.Status = statusWritten
		row.Size = formatBytes(outcome.BytesOut)
	default:
		row.Status = statusUnchanged
		row.Size = formatBytes(outcome.BytesOut)
	}
	return row
}

type columnWidths struct {
	source int
	output int
}

// calculateColumnWidths sizes the path columns to their content, then
// shrinks them to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{source: minSourceWidth, output: minOutputWidth}
	for _, row := range rows {
		widths.source = max(widths.source, len(row.Source))
		widths.output = max(widths.output, len(row.Output))
	}

	if total := t.calculateTotalWidth(widths); total > t.termWidth {
		excess := total - t.termWidth
		widths.output = max(minOutputWidth, widths.output-excess)

		if total = t.calculateTotalWidth(widths); total > t.termWidth {
			excess = total - t.termWidth
			widths.source = max(minSourceWidth, widths.source-excess)
		}
	}
	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.source + widths.output + statusWidth + sizeWidth + timeWidth +
		tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %*s  %*s ",
		widths.source, "SOURCE",
		widths.output, "OUTPUT",
		statusWidth, "STATUS",
		sizeWidth, "SIZE",
		timeWidth, "TIME",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %*s  %*s ",
		widths.source, truncateFilePath(row.Source, widths.source),
		widths.output, truncateFilePath(row.Output, widths.output),
		statusWidth, row.Status,
		sizeWidth, row.Size,
		timeWidth, row.Time,
	)
	return t.getRowStyle(row.Status).Render(content)
}

func (t *TableFormatter) getRowStyle(status string) lipgloss.Style {
	switch status {
	case statusWritten:
		return t.styles.TableWrittenRow
	case statusUnchanged:
		return t.styles.TableUnchangedRow
	case statusFailed:
		return t.styles.TableErrorRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: written = new output | unchanged = output already current")
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s  %s  %s",
			t.styles.TableWrittenRow.Render(statusWritten),
			t.styles.TableUnchangedRow.Render(statusUnchanged),
			t.styles.TableErrorRow.Render(statusFailed)),
	)
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
