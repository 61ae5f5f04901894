package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/gohyperdown/internal/logging"
	"github.com/yaklabco/gohyperdown/pkg/fsutil"
)

// Renderer converts one document to HTML. *render.Renderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, text string) (string, error)
}

// Runner renders files with a shared Renderer.
type Runner struct {
	Renderer Renderer
}

// New creates a Runner.
func New(renderer Renderer) *Runner {
	return &Runner{Renderer: renderer}
}

// Run discovers files under opts.Paths and renders them concurrently.
// A file that fails does not stop the others; its outcome carries the
// error. The returned error is only for discovery failures and
// cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, opts, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; rebuild the sorted order afterwards.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, opts Options, workCh <-chan string, outCh chan<- FileOutcome) {
	logger := logging.FromContext(ctx)

	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.renderFile(ctx, opts, path)
		if outcome.Error != nil {
			logger.Error("render failed", logging.FieldPath, path, logging.FieldError, outcome.Error)
		} else {
			logger.Debug("rendered",
				logging.FieldPath, path,
				logging.FieldOutput, outcome.Output,
				logging.FieldBytes, outcome.BytesOut,
				logging.FieldDuration, outcome.Duration)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) renderFile(ctx context.Context, opts Options, path string) (outcome FileOutcome) {
	started := time.Now()
	outcome = FileOutcome{Path: path, Output: opts.OutputPath(path, opts.WorkingDir)}
	defer func() { outcome.Duration = time.Since(started) }()

	content, err := fsutil.ReadFile(ctx, path, opts.MaxInputBytes)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.BytesIn = len(content)

	html, err := r.Renderer.Render(ctx, string(content))
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}
	outcome.BytesOut = len(html)

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.Output, []byte(html), 0)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", outcome.Output, err)
		return outcome
	}
	outcome.Written = written
	return outcome
}
