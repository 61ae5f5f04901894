package pretty

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gohyperdown/pkg/runner"
)

// FormatOutcome formats one rendered file as "source -> output". Paths
// are shown relative to base when they lie below it.
func (s *Styles) FormatOutcome(outcome runner.FileOutcome, base string) string {
	if outcome.Error != nil {
		return s.FormatFailure(outcome, base)
	}

	status := s.Success.Render("rendered")
	if !outcome.Written {
		status = s.Dim.Render("unchanged")
	}

	return fmt.Sprintf("  %s %s %s  %s\n",
		s.FilePath.Render(displayPath(outcome.Path, base)),
		s.Arrow.Render("->"),
		displayPath(outcome.Output, base),
		status,
	)
}

// FormatFailure formats a file that could not be rendered.
func (s *Styles) FormatFailure(outcome runner.FileOutcome, base string) string {
	return s.FormatError(displayPath(outcome.Path, base), outcome.Error)
}

// FormatError formats an error attributed to path.
func (s *Styles) FormatError(path string, err error) string {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Error.Render("error"),
		s.Message.Render(msg),
	)
}

// FormatWarning formats a non-fatal configuration or input warning.
func (s *Styles) FormatWarning(msg string) string {
	return "  " + s.Warning.Render("warning") + "  " + s.Message.Render(msg) + "\n"
}

func displayPath(path, base string) string {
	if base == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
