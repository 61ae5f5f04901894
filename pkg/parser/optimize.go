package parser

import (
	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

// Optimize reclassifies blocks that could only be resolved with hindsight.
//
// An indented code block made only of blank lines becomes a paragraph, and a
// single blank paragraph line between two compatible list or quote blocks is
// folded into one block spanning all three. The input slice is not
// modified. Optimize is idempotent.
func Optimize(blocks []mdast.Block, lines []string) []mdast.Block {
	out := make([]mdast.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}

	for key := 0; key < len(out); {
		block := &out[key]

		if block.Kind == mdast.KindIndentedCode && allBlank(block.Lines(lines)) {
			block.Kind = mdast.KindNormal
		}

		if key > 0 && key+1 < len(out) && isSeparator(*block, lines) && joinable(out[key-1], out[key+1]) {
			out[key-1].End = out[key+1].End
			out = append(out[:key], out[key+2:]...)
			continue
		}
		key++
	}

	return out
}

func allBlank(lines []string) bool {
	for _, line := range lines {
		if !mdast.IsBlank(line) {
			return false
		}
	}
	return true
}

func isSeparator(b mdast.Block, lines []string) bool {
	return b.Kind == mdast.KindNormal && b.Start == b.End && mdast.IsBlank(lines[b.Start])
}

func joinable(prev, next mdast.Block) bool {
	if prev.Kind != next.Kind {
		return false
	}
	switch prev.Kind {
	case mdast.KindQuote:
		return true
	case mdast.KindList:
		return prev.List.Indent == next.List.Indent && prev.List.Marker == next.List.Marker
	default:
		return false
	}
}
