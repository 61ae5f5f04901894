package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return []byte(fullTemplate), nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# gohyperdown configuration
# See: https://github.com/yaklabco/gohyperdown

# Pass raw HTML blocks and tags through unescaped
# allow_raw_html: false

# Add source line annotations to the output
# annotate_lines: false

# Highlight fenced code with a known language
# highlight:
#   enabled: false
#   style: github

# File patterns to ignore in batch mode (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

const fullTemplate = `# gohyperdown configuration - Full Template
# See: https://github.com/yaklabco/gohyperdown

# Pass raw HTML blocks, "!!!" regions and all inline tags through
allow_raw_html: false

# Add <span class="line"> source line annotations to the output
annotate_lines: false

# Protect $...$ spans and render $$ blocks
math: true

# Maximum nesting of quotes and list items
max_depth: 64

# Largest accepted document in bytes (0 = unlimited)
max_input_bytes: 8388608

# Blank lines a list may contain before it ends
list_blank_tolerance: 1

# Syntax highlighting of fenced code
highlight:
  enabled: false
  # Any chroma style name
  style: github
  # Emit CSS classes instead of inline styles
  classes: false

# Guess the language of fences without an info string
detect_language: false

# Inline tags kept verbatim in addition to the built-in set
extra_whitelist: []

# File patterns to ignore in batch mode (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Batch output
output:
  extension: .html
  # Write every output here instead of next to its source
  dir: ""
`

// templateToJSON renders the full template's values as JSON.
func templateToJSON() ([]byte, error) {
	var values map[string]any
	if err := yaml.Unmarshal([]byte(fullTemplate), &values); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(values); err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gohyperdown configuration
# See: https://github.com/yaklabco/gohyperdown`
}
