package highlight_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/highlight"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    highlight.Options
		lang    string
		code    string
		wantOK  bool
		contain []string
	}{
		{
			name:    "go with classes",
			opts:    highlight.Options{Classes: true},
			lang:    "go",
			code:    "package main",
			wantOK:  true,
			contain: []string{"package", "main", `class="`},
		},
		{
			name:    "inline styles",
			opts:    highlight.Options{Style: "monokai"},
			lang:    "python",
			code:    "def f(): pass",
			wantOK:  true,
			contain: []string{"def", `style="`},
		},
		{
			name:    "markup is escaped",
			opts:    highlight.Options{Classes: true},
			lang:    "go",
			code:    `s := "<b>"`,
			wantOK:  true,
			contain: []string{"&lt;b&gt;"},
		},
		{
			name:   "unknown language",
			lang:   "no-such-language",
			code:   "x",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := highlight.New(tt.opts)
			html, ok := h.Highlight(tt.lang, tt.code)
			require.Equal(t, tt.wantOK, ok)
			for _, want := range tt.contain {
				assert.Contains(t, html, want)
			}
			assert.NotContains(t, html, "<pre")
		})
	}
}

func TestKnownStyle(t *testing.T) {
	t.Parallel()

	assert.True(t, highlight.KnownStyle("github"))
	assert.True(t, highlight.KnownStyle("Monokai"))
	assert.False(t, highlight.KnownStyle("no-such-style"))
}

func TestWriteCSS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, highlight.New(highlight.Options{Classes: true}).WriteCSS(&buf))
	assert.NotEmpty(t, buf.String())
}

func TestNew_UnknownStyleFallsBack(t *testing.T) {
	t.Parallel()

	h := highlight.New(highlight.Options{Style: "no-such-style"})
	_, ok := h.Highlight("go", "package main")
	assert.True(t, ok)
}
