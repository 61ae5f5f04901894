package render

import (
	"github.com/yaklabco/gohyperdown/pkg/config"
	"github.com/yaklabco/gohyperdown/pkg/highlight"
	"github.com/yaklabco/gohyperdown/pkg/hook"
	"github.com/yaklabco/gohyperdown/pkg/langdetect"
	"github.com/yaklabco/gohyperdown/pkg/parser"
)

// Defaults applied by DefaultOptions and by New when a limit is unset.
const (
	DefaultMaxDepth      = 64
	DefaultMaxInputBytes = 8 << 20
)

// Highlighter turns source code into the HTML body of a code element.
// ok is false when the language is unknown and the caller should fall back
// to escaped text.
type Highlighter interface {
	Highlight(lang, code string) (html string, ok bool)
}

// Options controls a Renderer.
type Options struct {
	// AllowRawHTML passes through every tag and comment, and enables the
	// "!!!" region and block-level tag blocks.
	AllowRawHTML bool

	// AnnotateLines decorates block output with source line ranges.
	AnnotateLines bool

	// Math protects $-delimited spans and renders $$ blocks.
	Math bool

	// MaxDepth bounds nesting of quotes and list items. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// MaxInputBytes rejects larger documents. Zero disables the check.
	MaxInputBytes int

	// BlankTolerance is the number of consecutive blank lines a list
	// absorbs. Zero means the segmenter default.
	BlankTolerance int

	// ExtraWhitelist names inline tags kept verbatim in addition to the
	// built-in whitelist.
	ExtraWhitelist []string

	// Highlighter, when set, renders fenced code with a known language.
	// It is not used while AnnotateLines is set.
	Highlighter Highlighter

	// DetectLanguage, when set, guesses the language of fenced code that
	// has no info string. A result of "text" counts as no guess.
	DetectLanguage func(content []byte) string

	Hooks *hook.Registry
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Math:           true,
		MaxDepth:       DefaultMaxDepth,
		MaxInputBytes:  DefaultMaxInputBytes,
		BlankTolerance: parser.DefaultBlankTolerance,
	}
}

// OptionsFromConfig maps a loaded configuration onto renderer options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}

	opts.AllowRawHTML = cfg.AllowRawHTML
	opts.AnnotateLines = cfg.AnnotateLines
	opts.Math = cfg.Math
	opts.MaxDepth = cfg.MaxDepth
	opts.MaxInputBytes = cfg.MaxInputBytes
	opts.BlankTolerance = cfg.ListBlankTolerance
	opts.ExtraWhitelist = append([]string(nil), cfg.ExtraWhitelist...)

	if cfg.Highlight.Enabled {
		opts.Highlighter = highlight.New(highlight.Options{
			Style:   cfg.Highlight.Style,
			Classes: cfg.Highlight.Classes,
		})
	}
	if cfg.DetectLanguage {
		opts.DetectLanguage = langdetect.Detect
	}
	return opts
}
