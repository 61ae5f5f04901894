package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/yaklabco/gohyperdown/internal/configloader"
	"github.com/yaklabco/gohyperdown/internal/logging"
	"github.com/yaklabco/gohyperdown/pkg/config"
	"github.com/yaklabco/gohyperdown/pkg/fsutil"
	"github.com/yaklabco/gohyperdown/pkg/render"
	"github.com/yaklabco/gohyperdown/pkg/reporter"
	"github.com/yaklabco/gohyperdown/pkg/runner"
)

const stdinPath = "-"

type renderFlags struct {
	allowHTML      bool
	annotate       bool
	math           bool
	highlight      bool
	highlightStyle string
	detectLanguage bool
	maxDepth       int
	ignore         []string
	outDir         string
	output         string
	jobs           int
	verbose        bool
	format         string
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render markup files to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, globals, flags)
		},
	}

	addRenderFlags(cmd.Flags(), flags)

	return cmd
}

const renderLongDescription = `Render HyperDown markup to HTML.

With a single file (or - for stdin) the HTML is written to stdout, or to
--output. With several paths, a directory, or --out-dir, every .md and
.markdown file found is rendered in parallel to a matching .html file.

Examples:
  gohyperdown render README.md            # HTML on stdout
  cat notes.md | gohyperdown render -     # Read stdin
  gohyperdown render -H -l page.md        # Keep raw HTML, annotate lines
  gohyperdown render docs/                # Write docs/**/*.html
  gohyperdown render docs/ --out-dir site # Mirror docs/ into site/
  gohyperdown render . --format table     # Per-file results table
  gohyperdown render . --format json      # Machine-readable run report`

func addRenderFlags(fs *pflag.FlagSet, flags *renderFlags) {
	fs.BoolVarP(&flags.allowHTML, "html", "H", false, "pass raw HTML through unescaped")
	fs.BoolVarP(&flags.annotate, "line", "l", false, "annotate blocks with source line ranges")
	fs.BoolVar(&flags.math, "math", true, "protect $...$ spans and render $$ blocks")
	fs.BoolVar(&flags.highlight, "highlight", false, "syntax highlight fenced code")
	fs.StringVar(&flags.highlightStyle, "highlight-style", config.DefaultHighlightStyle, "chroma style for --highlight")
	fs.BoolVar(&flags.detectLanguage, "detect-language", false, "guess the language of unlabelled fences")
	fs.IntVar(&flags.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum quote and list nesting")
	fs.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip in batch mode")
	fs.StringVar(&flags.outDir, "out-dir", "", "write batch output under this directory")
	fs.StringVarP(&flags.output, "output", "o", "", "write single-file output here instead of stdout")
	fs.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "list every file and a full summary")
	fs.StringVarP(&flags.format, "format", "f", string(reporter.FormatText), "batch report format: text, table, json")
}

// overrides returns one config override per flag the user set, so that
// unset flags never mask file or environment values.
func (f *renderFlags) overrides(fs *pflag.FlagSet) []configloader.Override {
	var out []configloader.Override
	add := func(name string, o configloader.Override) {
		if fs.Changed(name) {
			out = append(out, o)
		}
	}

	add("html", func(c *config.Config) { c.AllowRawHTML = f.allowHTML })
	add("line", func(c *config.Config) { c.AnnotateLines = f.annotate })
	add("math", func(c *config.Config) { c.Math = f.math })
	add("highlight", func(c *config.Config) { c.Highlight.Enabled = f.highlight })
	add("highlight-style", func(c *config.Config) {
		c.Highlight.Style = f.highlightStyle
		c.Highlight.Enabled = true
	})
	add("detect-language", func(c *config.Config) { c.DetectLanguage = f.detectLanguage })
	add("max-depth", func(c *config.Config) { c.MaxDepth = f.maxDepth })
	add("ignore", func(c *config.Config) { c.Ignore = append(c.Ignore, f.ignore...) })
	add("out-dir", func(c *config.Config) { c.Output.Dir = f.outDir })
	add("jobs", func(c *config.Config) { c.Jobs = f.jobs })

	return out
}

func runRender(cmd *cobra.Command, args []string, globals *globalFlags, flags *renderFlags) error {
	if len(args) == 0 {
		return ErrNoInput
	}

	logger := logging.Default()
	ctx := logging.WithLogger(commandContext(cmd), logger)

	loaded, err := loadConfig(ctx, globals, flags.overrides(cmd.Flags())...)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	renderer := render.New(render.OptionsFromConfig(cfg))

	if isSingleInput(args, cfg) {
		return renderOne(ctx, cmd, renderer, args[0], cfg, flags.output)
	}

	switch {
	case flags.output != "":
		return fmt.Errorf("%w: --output needs exactly one input file", ErrUsage)
	case len(args) > 1 && slices.Contains(args, stdinPath):
		return fmt.Errorf("%w: - cannot be combined with other paths", ErrUsage)
	}

	return renderBatch(ctx, cmd, renderer, args, cfg, globals, flags)
}

// isSingleInput reports whether args name one document whose HTML goes to
// stdout. A missing path counts, so reading it reports the error.
func isSingleInput(args []string, cfg *config.Config) bool {
	if len(args) != 1 || cfg.Output.Dir != "" {
		return false
	}
	if args[0] == stdinPath {
		return true
	}
	info, err := os.Stat(args[0])
	return err != nil || !info.IsDir()
}

func renderOne(ctx context.Context, cmd *cobra.Command, renderer *render.Renderer, path string, cfg *config.Config, output string) error {
	logger := logging.FromContext(ctx)
	limit := int64(cfg.MaxInputBytes)

	var (
		content []byte
		err     error
	)
	if path == stdinPath {
		content, err = readStdin(cmd.InOrStdin(), limit)
	} else {
		content, err = fsutil.ReadFile(ctx, path, limit)
	}
	if err != nil {
		return err
	}

	started := time.Now()
	html, err := renderer.Render(ctx, string(content))
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	logger.Debug("rendered",
		logging.FieldInput, path,
		logging.FieldBytes, len(html),
		logging.FieldDuration, time.Since(started))

	if output != "" {
		if err := fsutil.WriteAtomic(ctx, output, []byte(html), 0); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		logger.Debug("wrote output", logging.FieldOutput, output)
		return nil
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), html); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readStdin reads piped input. An interactive terminal counts as no input.
func readStdin(in io.Reader, limit int64) ([]byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("%w: stdin is a terminal", ErrNoInput)
	}
	return fsutil.ReadAll(in, limit)
}

func renderBatch(ctx context.Context, cmd *cobra.Command, renderer *render.Renderer, args []string, cfg *config.Config, globals *globalFlags, flags *renderFlags) error {
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.Options{
		Paths:         args,
		WorkingDir:    workDir,
		ExcludeGlobs:  cfg.Ignore,
		Jobs:          cfg.Jobs,
		MaxInputBytes: int64(cfg.MaxInputBytes),
		OutExtension:  cfg.Output.Extension,
		OutDir:        cfg.Output.Dir,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, cfg.Jobs)

	result, err := runner.New(renderer).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("render run: %w", err)
	}

	logger.Debug("render run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration)

	rep, err := reporter.New(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     format,
		Color:      globals.color,
		Verbose:    flags.verbose,
		WorkingDir: workDir,
	})
	if err != nil {
		return err
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if result.HasFailures() {
		return ErrRenderFailed
	}
	return nil
}
