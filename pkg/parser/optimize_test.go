package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/mdast"
	"github.com/yaklabco/gohyperdown/pkg/parser"
)

func TestOptimize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		raw   []string
		want  []string
	}{
		{
			name:  "blank indented code becomes paragraph",
			input: "text\n\n    \n    ",
			raw:   []string{"normal[0:1]", "indentedCode[2:3]"},
			want:  []string{"normal[0:1]", "normal[2:3]"},
		},
		{
			name:  "loose list joins across one blank line",
			input: "- a\n\n\n- b",
			raw:   []string{"list[0:1]", "normal[2:2]", "list[3:3]"},
			want:  []string{"list[0:3]"},
		},
		{
			name:  "different marker kinds stay apart",
			input: "- a\n\n\n1. b",
			raw:   []string{"list[0:1]", "normal[2:2]", "list[3:3]"},
			want:  []string{"list[0:1]", "normal[2:2]", "list[3:3]"},
		},
		{
			name:  "quotes join across one blank line",
			input: "> a\n\n> b",
			raw:   []string{"quote[0:0]", "normal[1:1]", "quote[2:2]"},
			want:  []string{"quote[0:2]"},
		},
		{
			name:  "chained joins",
			input: "> a\n\n> b\n\n> c",
			raw:   []string{"quote[0:0]", "normal[1:1]", "quote[2:2]", "normal[3:3]", "quote[4:4]"},
			want:  []string{"quote[0:4]"},
		},
		{
			name:  "non-blank separator is kept",
			input: "> a\n\nb\n\n> c",
			raw:   []string{"quote[0:0]", "normal[1:3]", "quote[4:4]"},
			want:  []string{"quote[0:0]", "normal[1:3]", "quote[4:4]"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blocks, lines := segment(tt.input, parser.Options{})
			require.Equal(t, tt.raw, summary(blocks))

			optimized := parser.Optimize(blocks, lines)
			assert.Equal(t, tt.want, summary(optimized))
			assert.Equal(t, tt.raw, summary(blocks), "input must not be modified")
		})
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	t.Parallel()

	for _, doc := range corpus {
		blocks, lines := segment(doc, parser.Options{AllowRawHTML: true})
		once := parser.Optimize(blocks, lines)
		twice := parser.Optimize(once, lines)
		assert.Equal(t, once, twice, "document %q", doc)
	}
}

func TestOptimize_KeepsPayload(t *testing.T) {
	t.Parallel()

	blocks, lines := segment("  - a\n\n\n  - b", parser.Options{})
	optimized := parser.Optimize(blocks, lines)
	require.Len(t, optimized, 1)
	assert.Equal(t, mdast.ListInfo{Indent: 2, Marker: mdast.MarkerUnordered, Width: 2}, optimized[0].List)
}
