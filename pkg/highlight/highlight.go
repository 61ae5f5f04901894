// Package highlight renders fenced code as syntax-highlighted HTML.
package highlight

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when no style, or an unknown one, is configured.
const DefaultStyle = "github"

// Options controls the highlighter.
type Options struct {
	// Style is a chroma style name.
	Style string
	// Classes emits CSS classes instead of inline styles. The matching
	// stylesheet comes from WriteCSS.
	Classes bool
}

// Highlighter renders code with chroma. It is safe for concurrent use.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New returns a highlighter for the given options.
func New(opts Options) *Highlighter {
	name := opts.Style
	if name == "" {
		name = DefaultStyle
	}
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(opts.Classes),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// KnownStyle reports whether name is a registered chroma style.
func KnownStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// Highlight returns the highlighted HTML for code in lang. ok is false when
// chroma has no lexer for lang or fails to tokenise the code.
func (h *Highlighter) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// WriteCSS writes the stylesheet for class-based output.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
