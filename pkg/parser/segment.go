// Package parser splits a document's lines into typed blocks.
//
// Segmentation is a single left-to-right scan. Each line is offered to an
// ordered table of matchers; the matcher for the currently open block gets
// the first look so that it can keep, close or hand off its block.
package parser

import (
	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

// DefaultBlankTolerance is the number of consecutive blank lines an open
// list absorbs before it ends.
const DefaultBlankTolerance = 1

// Options controls segmentation.
type Options struct {
	// AllowRawHTML enables the "!!!" region and block-level tag matchers.
	AllowRawHTML bool

	// BlankTolerance overrides DefaultBlankTolerance when positive.
	BlankTolerance int

	// OnDefinition receives every link reference definition as soon as its
	// line is segmented. The target is passed uncleaned.
	OnDefinition func(label, target string)
}

// segmenter holds the state of one Segment call.
type segmenter struct {
	opts     Options
	lines    []string
	blocks   []mdast.Block
	current  mdast.Kind
	matchers []matcher

	// blank counts blank lines absorbed by the open list.
	blank int
	// fence is the exact fence run of the open code block.
	fence string
	// htmlTag is the tag a raw HTML block is waiting to see closed.
	htmlTag string
}

// Segment partitions lines into blocks. Every line belongs to exactly one
// block and blocks are returned in line order.
func Segment(lines []string, opts Options) []mdast.Block {
	if opts.BlankTolerance <= 0 {
		opts.BlankTolerance = DefaultBlankTolerance
	}

	seg := &segmenter{
		opts:     opts,
		lines:    lines,
		blocks:   make([]mdast.Block, 0, len(lines)/2+1),
		current:  mdast.KindNormal,
		matchers: matchersFor(opts),
	}

	for n, line := range lines {
		seg.scan(n, line)
	}

	return seg.blocks
}

func (s *segmenter) scan(n int, line string) {
	last, hasLast := s.last()
	cur := s.current

	if cur != mdast.KindNormal {
		if own := s.matcherFor(cur); own != nil && own.match(s, n, line, last, hasLast) == claimed {
			return
		}
	}

	for _, m := range s.matchers {
		if cur != mdast.KindNormal && m.kind == cur {
			continue
		}
		if m.match(s, n, line, last, hasLast) == claimed {
			return
		}
	}
}

func (s *segmenter) matcherFor(kind mdast.Kind) *matcher {
	for i := range s.matchers {
		if s.matchers[i].kind == kind {
			return &s.matchers[i]
		}
	}
	return nil
}

// last returns a copy of the most recent block.
func (s *segmenter) last() (mdast.Block, bool) {
	if len(s.blocks) == 0 {
		return mdast.Block{}, false
	}
	return s.blocks[len(s.blocks)-1].Clone(), true
}

func (s *segmenter) tail() *mdast.Block {
	return &s.blocks[len(s.blocks)-1]
}

// is reports whether a block of kind is open.
func (s *segmenter) is(kind mdast.Kind) bool {
	return s.current == kind
}

// open starts a one-line block of b.Kind at line n and makes it current.
func (s *segmenter) open(n int, b mdast.Block) *segmenter {
	b.Start, b.End = n, n
	s.blocks = append(s.blocks, b)
	s.current = b.Kind
	return s
}

// extend moves the end of the last block to line n.
func (s *segmenter) extend(n int) *segmenter {
	if len(s.blocks) > 0 {
		s.tail().End = n
	}
	return s
}

// close returns the segmenter to the neutral state.
func (s *segmenter) close() {
	s.current = mdast.KindNormal
}

// retract moves the last step lines of the previous block into a new block
// b. When the previous block is left empty it is replaced.
func (s *segmenter) retract(step int, b mdast.Block) *segmenter {
	if len(s.blocks) == 0 {
		return s.open(0, b)
	}

	prev := s.tail()
	last := prev.End
	prev.End = last - step

	b.Start, b.End = last-step+1, last
	if prev.Start <= prev.End {
		s.blocks = append(s.blocks, b)
	} else {
		*prev = b
	}
	s.current = b.Kind
	return s
}

// merge folds the last block into the one before it, keeping the earlier
// block's kind and payload open.
func (s *segmenter) merge() *segmenter {
	if len(s.blocks) < 2 {
		return s
	}
	n := len(s.blocks)
	s.blocks[n-2].End = s.blocks[n-1].End
	s.blocks = s.blocks[:n-1]
	s.current = s.blocks[n-2].Kind
	return s
}
