package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gohyperdown/internal/ui/pretty"
	"github.com/yaklabco/gohyperdown/pkg/runner"
)

// TextReporter prints a one-line summary, or with Verbose every outcome
// followed by the full summary block.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	if !r.opts.Verbose {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		return failures(result), nil
	}

	for _, outcome := range result.Files {
		fmt.Fprint(r.bw, r.styles.FormatOutcome(outcome, r.opts.WorkingDir))
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return failures(result), nil
}
