// Package hook lets callers intercept named stages of a render.
//
// Hooks come in four families keyed by the value they rewrite: text, block
// lines, rendered block HTML and the block list. Hooks registered on the
// same stage run in registration order, each receiving the previous hook's
// result. A hook that returns an error aborts the render.
package hook

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

// Stage names an interception point.
type Stage string

// Text stages.
const (
	BeforeParseInline             Stage = "beforeParseInline"
	AfterParseInlineBeforeRelease Stage = "afterParseInlineBeforeRelease"
	AfterParseInline              Stage = "afterParseInline"
	// ParseLink rewrites the visible text of an autolinked URL or address.
	ParseLink Stage = "parseLink"
	// MakeHTML rewrites the finished document.
	MakeHTML Stage = "makeHtml"
)

// Block list stages.
const (
	BeforeOptimizeBlocks Stage = "beforeOptimizeBlocks"
	AfterOptimizeBlocks  Stage = "afterOptimizeBlocks"
)

// BeforeBlock is the lines stage run before a block of kind is rendered.
func BeforeBlock(kind mdast.Kind) Stage {
	return Stage("beforeParse" + upperFirst(kind.String()))
}

// AfterBlock is the HTML stage run after a block of kind is rendered.
func AfterBlock(kind mdast.Kind) Stage {
	return Stage("afterParse" + upperFirst(kind.String()))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TextFunc rewrites a string.
type TextFunc func(text string) (string, error)

// LinesFunc rewrites the lines of a block before it is rendered.
type LinesFunc func(lines []string, block mdast.Block) ([]string, error)

// HTMLFunc rewrites the HTML rendered for a block.
type HTMLFunc func(html string, block mdast.Block) (string, error)

// BlocksFunc rewrites a block list. lines are the lines the blocks index.
type BlocksFunc func(blocks []mdast.Block, lines []string) ([]mdast.Block, error)

// Registry holds hooks by stage. It is safe for concurrent use; renders
// running while hooks are registered see either the old or the new set.
type Registry struct {
	mu     sync.RWMutex
	text   map[Stage][]TextFunc
	lines  map[Stage][]LinesFunc
	html   map[Stage][]HTMLFunc
	blocks map[Stage][]BlocksFunc
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		text:   make(map[Stage][]TextFunc),
		lines:  make(map[Stage][]LinesFunc),
		html:   make(map[Stage][]HTMLFunc),
		blocks: make(map[Stage][]BlocksFunc),
	}
}

// OnText appends a text hook to stage.
func (r *Registry) OnText(stage Stage, fn TextFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text[stage] = append(r.text[stage], fn)
}

// OnLines appends a lines hook to stage.
func (r *Registry) OnLines(stage Stage, fn LinesFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[stage] = append(r.lines[stage], fn)
}

// OnHTML appends an HTML hook to stage.
func (r *Registry) OnHTML(stage Stage, fn HTMLFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html[stage] = append(r.html[stage], fn)
}

// OnBlocks appends a block list hook to stage.
func (r *Registry) OnBlocks(stage Stage, fn BlocksFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks[stage] = append(r.blocks[stage], fn)
}

// RunText chains the text hooks of stage over text.
// A nil registry returns text unchanged.
func (r *Registry) RunText(stage Stage, text string) (string, error) {
	if r == nil {
		return text, nil
	}
	r.mu.RLock()
	fns := r.text[stage]
	r.mu.RUnlock()

	var err error
	for i, fn := range fns {
		if text, err = fn(text); err != nil {
			return "", fmt.Errorf("hook %s #%d: %w", stage, i+1, err)
		}
	}
	return text, nil
}

// RunLines chains the lines hooks of stage.
func (r *Registry) RunLines(stage Stage, lines []string, block mdast.Block) ([]string, error) {
	if r == nil {
		return lines, nil
	}
	r.mu.RLock()
	fns := r.lines[stage]
	r.mu.RUnlock()

	var err error
	for i, fn := range fns {
		if lines, err = fn(lines, block); err != nil {
			return nil, fmt.Errorf("hook %s #%d: %w", stage, i+1, err)
		}
	}
	return lines, nil
}

// RunHTML chains the HTML hooks of stage.
func (r *Registry) RunHTML(stage Stage, html string, block mdast.Block) (string, error) {
	if r == nil {
		return html, nil
	}
	r.mu.RLock()
	fns := r.html[stage]
	r.mu.RUnlock()

	var err error
	for i, fn := range fns {
		if html, err = fn(html, block); err != nil {
			return "", fmt.Errorf("hook %s #%d: %w", stage, i+1, err)
		}
	}
	return html, nil
}

// RunBlocks chains the block list hooks of stage.
func (r *Registry) RunBlocks(stage Stage, blocks []mdast.Block, lines []string) ([]mdast.Block, error) {
	if r == nil {
		return blocks, nil
	}
	r.mu.RLock()
	fns := r.blocks[stage]
	r.mu.RUnlock()

	var err error
	for i, fn := range fns {
		if blocks, err = fn(blocks, lines); err != nil {
			return nil, fmt.Errorf("hook %s #%d: %w", stage, i+1, err)
		}
	}
	return blocks, nil
}

// Stages returns every stage with at least one hook, sorted.
func (r *Registry) Stages() []Stage {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Stage]struct{})
	for stage := range r.text {
		seen[stage] = struct{}{}
	}
	for stage := range r.lines {
		seen[stage] = struct{}{}
	}
	for stage := range r.html {
		seen[stage] = struct{}{}
	}
	for stage := range r.blocks {
		seen[stage] = struct{}{}
	}

	result := make([]Stage, 0, len(seen))
	for stage := range seen {
		result = append(result, stage)
	}
	slices.Sort(result)
	return result
}
