package configloader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gohyperdown/pkg/config"
	"github.com/yaklabco/gohyperdown/pkg/highlight"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "highlight.style").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// activeTags run code or load content when whitelisted.
//
//nolint:gochecknoglobals // Read-only lookup table.
var activeTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"form":   true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.MaxDepth < 1 {
		result.fail("max_depth", cfg.MaxDepth, "max_depth must be >= 1")
	}
	if cfg.MaxInputBytes < 0 {
		result.fail("max_input_bytes", cfg.MaxInputBytes, "max_input_bytes must be >= 0 (0 means unlimited)")
	}
	if cfg.ListBlankTolerance < 0 {
		result.fail("list_blank_tolerance", cfg.ListBlankTolerance, "list_blank_tolerance must be >= 0")
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Highlight.Style != "" && !highlight.KnownStyle(cfg.Highlight.Style) {
		result.warn("highlight.style", cfg.Highlight.Style,
			"unknown style %q; falling back to %q", cfg.Highlight.Style, highlight.DefaultStyle)
	}

	if ext := cfg.Output.Extension; ext == "" || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		result.fail("output.extension", ext, "extension must start with \".\" and contain no path separator")
	}

	validateWhitelist(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateWhitelist(cfg *config.Config, result *ValidationResult) {
	for i, tag := range cfg.ExtraWhitelist {
		field := fmt.Sprintf("extra_whitelist[%d]", i)
		if !tagNamePattern.MatchString(tag) {
			result.fail(field, tag, "invalid tag name %q", tag)
			continue
		}
		if activeTags[strings.ToLower(tag)] {
			result.warn(field, tag, "whitelisting <%s> lets documents embed active content", strings.ToLower(tag))
		}
	}
}

// validateIgnorePatterns checks that ignore patterns compile the way the
// batch runner compiles them.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
