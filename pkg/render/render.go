// Package render converts a document to HTML.
//
// A Renderer holds configuration only. Every Render call builds its own
// state (footnote ledger, reference definitions, placeholder keys and
// nesting depth), so one Renderer can serve concurrent calls.
package render

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/yaklabco/gohyperdown/pkg/hook"
	"github.com/yaklabco/gohyperdown/pkg/inline"
	"github.com/yaklabco/gohyperdown/pkg/ledger"
	"github.com/yaklabco/gohyperdown/pkg/mdast"
	"github.com/yaklabco/gohyperdown/pkg/parser"
)

// Sentinel errors returned by Render.
var (
	// ErrTooComplex is returned when nesting exceeds MaxDepth or a pattern
	// gives up on pathological input.
	ErrTooComplex = errors.New("input too complex")

	// ErrInputTooLarge is returned when the document exceeds MaxInputBytes.
	ErrInputTooLarge = errors.New("input too large")

	// ErrHookFailed wraps an error returned by a registered hook.
	ErrHookFailed = errors.New("hook failed")
)

// Renderer converts documents to HTML.
type Renderer struct {
	opts Options
}

// New returns a renderer with the given options.
func New(opts Options) *Renderer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxInputBytes < 0 {
		opts.MaxInputBytes = 0
	}
	opts.ExtraWhitelist = slices.Clone(opts.ExtraWhitelist)
	return &Renderer{opts: opts}
}

// Options returns a copy of the renderer's options.
func (r *Renderer) Options() Options {
	opts := r.opts
	opts.ExtraWhitelist = slices.Clone(r.opts.ExtraWhitelist)
	return opts
}

// Render converts text to HTML. Malformed markup is never an error; errors
// report exceeded limits, a failing hook or a cancelled context.
func (r *Renderer) Render(ctx context.Context, text string) (string, error) {
	if r.opts.MaxInputBytes > 0 && len(text) > r.opts.MaxInputBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(text), r.opts.MaxInputBytes)
	}

	s := newState(ctx, r.opts, text)

	html := s.parse(mdast.Normalize(text), false, 0)
	html = s.drainFootnotes(html)
	html = s.optimizeLines(html)
	html = s.textHook(hook.MakeHTML, html)

	if s.failed() {
		return "", s.err
	}
	return html, nil
}

// state is everything one Render call owns.
type state struct {
	ctx   context.Context
	opts  Options
	docID string

	footnotes ledger.Footnotes
	defs      ledger.Definitions
	inline    *inline.Renderer

	depth int
	err   error
}

func newState(ctx context.Context, opts Options, text string) *state {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String()

	s := &state{ctx: ctx, opts: opts, docID: id}
	s.inline = inline.NewRenderer(inline.Options{
		AllowRawHTML: opts.AllowRawHTML,
		Math:         opts.Math,
		Whitelist:    opts.ExtraWhitelist,
		Hooks:        opts.Hooks,
	}, &s.footnotes, &s.defs, inline.NewKeys(strings.ReplaceAll(id, "-", "")))
	return s
}

func (s *state) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// failed reports whether the render has hit an error, picking up errors
// recorded by the inline renderer.
func (s *state) failed() bool {
	if s.err == nil {
		if err := s.inline.Err(); err != nil {
			if errors.Is(err, inline.ErrMatchTimeout) {
				s.fail(fmt.Errorf("%w: %w", ErrTooComplex, err))
			} else {
				s.fail(fmt.Errorf("%w: %w", ErrHookFailed, err))
			}
		}
	}
	return s.err != nil
}

// parse renders a document or a nested document. inline drops the
// paragraph wrapper when the text is a single paragraph. offset is the
// source line of the first line of text.
func (s *state) parse(text string, inline bool, offset int) string {
	if s.failed() {
		return ""
	}

	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.opts.MaxDepth {
		s.fail(fmt.Errorf("%w: nesting deeper than %d levels", ErrTooComplex, s.opts.MaxDepth))
		return ""
	}

	lines := mdast.SplitLines(text)
	blocks := s.segment(lines)
	if inline && len(blocks) == 1 && blocks[0].Kind == mdast.KindNormal {
		blocks[0].Inline = true
	}

	var out strings.Builder
	for _, block := range blocks {
		if err := s.ctx.Err(); err != nil {
			s.fail(err)
		}
		if s.failed() {
			return ""
		}

		extract, err := s.opts.Hooks.RunLines(hook.BeforeBlock(block.Kind), slices.Clone(block.Lines(lines)), block)
		if err != nil {
			s.fail(fmt.Errorf("%w: %w", ErrHookFailed, err))
			return ""
		}

		html := s.renderBlock(block, extract, block.Start+offset, block.End+offset)

		html, err = s.opts.Hooks.RunHTML(hook.AfterBlock(block.Kind), html, block)
		if err != nil {
			s.fail(fmt.Errorf("%w: %w", ErrHookFailed, err))
			return ""
		}
		out.WriteString(html)
	}
	return out.String()
}

// segment splits lines into optimized blocks, running the block-list hooks
// around the optimizer.
func (s *state) segment(lines []string) []mdast.Block {
	blocks := parser.Segment(lines, parser.Options{
		AllowRawHTML:   s.opts.AllowRawHTML,
		BlankTolerance: s.opts.BlankTolerance,
		OnDefinition:   s.define,
	})

	blocks = s.blocksHook(hook.BeforeOptimizeBlocks, blocks, lines)
	blocks = parser.Optimize(blocks, lines)
	return s.blocksHook(hook.AfterOptimizeBlocks, blocks, lines)
}

func (s *state) blocksHook(stage hook.Stage, blocks []mdast.Block, lines []string) []mdast.Block {
	out, err := s.opts.Hooks.RunBlocks(stage, blocks, lines)
	if err == nil {
		err = mdast.ValidatePartition(out, len(lines))
	}
	if err != nil {
		s.fail(fmt.Errorf("%w: %s: %w", ErrHookFailed, stage, err))
		return nil
	}
	return out
}

func (s *state) textHook(stage hook.Stage, text string) string {
	if s.failed() {
		return text
	}
	out, err := s.opts.Hooks.RunText(stage, text)
	if err != nil {
		s.fail(fmt.Errorf("%w: %w", ErrHookFailed, err))
		return text
	}
	return out
}

// define records a link reference definition.
func (s *state) define(label, target string) {
	url, title := inline.CleanURLTitle(target)
	s.defs.Set(label, ledger.Definition{URL: inline.Escape(url), Title: title})
}

// inlineText renders one span of inline markup.
func (s *state) inlineText(text string, whitelist ...string) string {
	if s.failed() {
		return ""
	}
	return s.inline.Render(text, whitelist...)
}
