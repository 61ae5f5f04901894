package mdast

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// tabWidth is the number of spaces a tab expands to.
const tabWidth = 4

//nolint:gochecknoglobals // Stateless replacer.
var normalizer = strings.NewReplacer("\t", strings.Repeat(" ", tabWidth), "\r", "")

// Normalize expands tabs and removes carriage returns so that every later
// stage sees "\n"-separated lines. After normalization "\r" never occurs in
// document text, which leaves it free for placeholder keys.
func Normalize(text string) string {
	return normalizer.Replace(text)
}

// SplitLines splits normalized text into lines. The result always has at
// least one element; an empty text is one empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// IsBlank reports whether line contains only whitespace.
func IsBlank(line string) bool {
	return util.IsBlank([]byte(line))
}

// LeadingSpace returns the run of leading ASCII whitespace in line.
func LeadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t\v\f"))]
}
