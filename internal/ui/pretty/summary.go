package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/gohyperdown/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Rendered 12 files (3 unchanged), 1 failed in 40ms".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to render") + "\n"
	}

	var parts []string

	rendered := fmt.Sprintf("Rendered %d %s", stats.FilesRendered, plural(stats.FilesRendered))
	if stats.FilesUnchanged > 0 {
		rendered += s.Dim.Render(fmt.Sprintf(" (%d unchanged)", stats.FilesUnchanged))
	}
	if stats.FilesErrored == 0 {
		parts = append(parts, s.Success.Render(rendered))
	} else {
		parts = append(parts, rendered)
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	line := strings.Join(parts, ", ")
	if stats.Duration > 0 {
		line += s.Dim.Render(" in " + formatDuration(stats.Duration))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files found:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files rendered:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesRendered)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("    Written:         " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("    Unchanged:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Input:             " + s.SummaryValue.Render(formatBytes(stats.BytesIn)) + "\n")
	builder.WriteString("  Output:            " + s.SummaryValue.Render(formatBytes(stats.BytesOut)) + "\n")
	if stats.Duration > 0 {
		builder.WriteString("  Elapsed:           " + s.SummaryValue.Render(formatDuration(stats.Duration)) + "\n")
	}

	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Render failed for some files"))
	} else {
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return strconv.Itoa(n) + " B"
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
