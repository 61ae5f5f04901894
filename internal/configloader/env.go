package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/gohyperdown/pkg/config"
)

// envVarPrefix is the prefix for all gohyperdown environment variables.
const envVarPrefix = "GOHYPERDOWN_"

// envSetter parses value and stores it on cfg.
type envSetter func(cfg *config.Config, value string) error

// envMapping ties an environment variable to a config field.
type envMapping struct {
	field       string
	description string
	set         envSetter
}

func envBool(dst func(*config.Config) *bool) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q (expected true/false/1/0)", value)
		}
		*dst(cfg) = b
		return nil
	}
}

func envInt(dst func(*config.Config) *int) envSetter {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*dst(cfg) = i
		return nil
	}
}

func envString(dst func(*config.Config) *string) envSetter {
	return func(cfg *config.Config, value string) error {
		*dst(cfg) = value
		return nil
	}
}

func envSlice(dst func(*config.Config) *[]string) envSetter {
	return func(cfg *config.Config, value string) error {
		*dst(cfg) = parseSliceValue(value)
		return nil
	}
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"ALLOW_RAW_HTML": {"allow_raw_html", "Pass raw HTML through: true or false",
		envBool(func(c *config.Config) *bool { return &c.AllowRawHTML })},
	"ANNOTATE_LINES": {"annotate_lines", "Add source line annotations: true or false",
		envBool(func(c *config.Config) *bool { return &c.AnnotateLines })},
	"MATH": {"math", "Protect $ math spans: true or false",
		envBool(func(c *config.Config) *bool { return &c.Math })},
	"MAX_DEPTH": {"max_depth", "Maximum quote/list nesting",
		envInt(func(c *config.Config) *int { return &c.MaxDepth })},
	"MAX_INPUT_BYTES": {"max_input_bytes", "Largest accepted document in bytes (0 = unlimited)",
		envInt(func(c *config.Config) *int { return &c.MaxInputBytes })},
	"LIST_BLANK_TOLERANCE": {"list_blank_tolerance", "Blank lines a list absorbs",
		envInt(func(c *config.Config) *int { return &c.ListBlankTolerance })},
	"HIGHLIGHT": {"highlight.enabled", "Highlight fenced code: true or false",
		envBool(func(c *config.Config) *bool { return &c.Highlight.Enabled })},
	"HIGHLIGHT_STYLE": {"highlight.style", "Chroma style name",
		envString(func(c *config.Config) *string { return &c.Highlight.Style })},
	"HIGHLIGHT_CLASSES": {"highlight.classes", "Emit CSS classes instead of inline styles: true or false",
		envBool(func(c *config.Config) *bool { return &c.Highlight.Classes })},
	"DETECT_LANGUAGE": {"detect_language", "Guess the language of unlabelled fences: true or false",
		envBool(func(c *config.Config) *bool { return &c.DetectLanguage })},
	"EXTRA_WHITELIST": {"extra_whitelist", "Comma-separated list of extra inline tags",
		envSlice(func(c *config.Config) *[]string { return &c.ExtraWhitelist })},
	"IGNORE": {"ignore", "Comma-separated list of ignore patterns",
		envSlice(func(c *config.Config) *[]string { return &c.Ignore })},
	"OUTPUT_EXTENSION": {"output.extension", "Extension of rendered files",
		envString(func(c *config.Config) *string { return &c.Output.Extension })},
	"OUTPUT_DIR": {"output.dir", "Directory for rendered files",
		envString(func(c *config.Config) *string { return &c.Output.Dir })},
	"JOBS": {"jobs", "Number of parallel workers (0 = auto)",
		envInt(func(c *config.Config) *int { return &c.Jobs })},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOHYPERDOWN_ (e.g., GOHYPERDOWN_MATH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + suffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if err := envMappings[suffix].set(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envVar, err)
		}
	}

	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
