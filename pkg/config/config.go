// Package config defines the option types shared by the renderer, the
// loader and the CLI. These types are plain data with no dependency on
// any loader.
package config

// Defaults for a fresh configuration.
const (
	DefaultMaxDepth           = 64
	DefaultMaxInputBytes      = 8 << 20
	DefaultListBlankTolerance = 1
	DefaultHighlightStyle     = "github"
	DefaultExtension          = ".html"
)

// HighlightConfig controls syntax highlighting of fenced code.
type HighlightConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Style   string `mapstructure:"style" yaml:"style"`
	// Classes emits CSS classes instead of inline styles.
	Classes bool `mapstructure:"classes" yaml:"classes"`
}

// OutputConfig controls where batch renders are written.
type OutputConfig struct {
	// Extension replaces the source extension, including the dot.
	Extension string `mapstructure:"extension" yaml:"extension"`
	// Dir, when set, receives all outputs instead of writing next to the
	// source file.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Config is the root configuration structure for gohyperdown.
type Config struct {
	// AllowRawHTML passes block and inline HTML through unescaped.
	AllowRawHTML bool `mapstructure:"allow_raw_html" yaml:"allow_raw_html"`

	// AnnotateLines adds source line spans to the output.
	AnnotateLines bool `mapstructure:"annotate_lines" yaml:"annotate_lines"`

	// Math protects $...$ spans and renders $$ blocks.
	Math bool `mapstructure:"math" yaml:"math"`

	// MaxDepth bounds quote and list nesting.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// MaxInputBytes rejects larger documents; 0 means unlimited.
	MaxInputBytes int `mapstructure:"max_input_bytes" yaml:"max_input_bytes"`

	// ListBlankTolerance is how many blank lines a list absorbs.
	ListBlankTolerance int `mapstructure:"list_blank_tolerance" yaml:"list_blank_tolerance"`

	Highlight HighlightConfig `mapstructure:"highlight" yaml:"highlight"`

	// DetectLanguage guesses a language for fences without one.
	DetectLanguage bool `mapstructure:"detect_language" yaml:"detect_language"`

	// ExtraWhitelist lists inline tag names kept in addition to the
	// built-in set.
	ExtraWhitelist []string `mapstructure:"extra_whitelist" yaml:"extra_whitelist"`

	// Ignore contains glob patterns for files to skip in batch mode.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Math:               true,
		MaxDepth:           DefaultMaxDepth,
		MaxInputBytes:      DefaultMaxInputBytes,
		ListBlankTolerance: DefaultListBlankTolerance,
		Highlight: HighlightConfig{
			Style: DefaultHighlightStyle,
		},
		Output: OutputConfig{
			Extension: DefaultExtension,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}
