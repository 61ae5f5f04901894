// Package langdetect guesses the language of an unlabelled fenced code
// block so it can be given a class and highlighted.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be guessed.
const Unknown = "text"

// classifierCandidates bounds the enry classifier to languages a document
// is likely to embed.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "PHP",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile", "Diff",
}

// rule is a cheap textual signal checked before the classifier.
type rule struct {
	lang  string
	match func(raw, trimmed []byte) bool
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{"go", func(_, t []byte) bool { return bytes.HasPrefix(t, []byte("package ")) }},
	{"php", func(_, t []byte) bool { return bytes.HasPrefix(t, []byte("<?php")) }},
	{"diff", isDiff},
	{"python", isPython},
	{"html", isHTML},
	{"json", func(_, t []byte) bool {
		return (bytes.HasPrefix(t, []byte("{")) || bytes.HasPrefix(t, []byte("["))) && bytes.Contains(t, []byte(`"`))
	}},
	{"dockerfile", isDockerfile},
	{"sql", isSQL},
	{"rust", containsAny("fn main()", "println!", "let mut ")},
	{"javascript", containsAny("=>", "const ", "let ", "console.log")},
	{"yaml", isYAML},
}

// Detect returns a fence-style language name for content, or Unknown.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	for _, r := range rules {
		if r.match(content, trimmed) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

func containsAny(needles ...string) func(raw, trimmed []byte) bool {
	return func(raw, _ []byte) bool {
		for _, n := range needles {
			if bytes.Contains(raw, []byte(n)) {
				return true
			}
		}
		return false
	}
}

func isDiff(_, trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("diff --git ")) ||
		(bytes.HasPrefix(trimmed, []byte("--- ")) && bytes.Contains(trimmed, []byte("\n+++ ")))
}

func isPython(raw, _ []byte) bool {
	s := string(raw)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	if strings.Contains(s, "import ") && !strings.Contains(s, "import (") &&
		(strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ")) {
		return true
	}
	return strings.Contains(s, "__name__") || strings.Contains(s, "__main__")
}

func isHTML(_, trimmed []byte) bool {
	lower := bytes.ToLower(trimmed)
	for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if bytes.Contains(lower, []byte(tag)) {
			return true
		}
	}
	return false
}

func isDockerfile(raw, trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
		(bytes.Contains(raw, []byte("\nFROM ")) && bytes.Contains(raw, []byte("\nRUN "))) ||
		(bytes.Contains(raw, []byte("WORKDIR ")) && bytes.Contains(raw, []byte("COPY ")))
}

func isSQL(_, trimmed []byte) bool {
	upper := strings.ToUpper(string(trimmed))
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// isYAML wants at least two key: value pairs or root list items.
func isYAML(raw, _ []byte) bool {
	keys := 0
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") && line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

// normalize maps enry language names to the names lexers and fences use.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	}
	return strings.ToLower(lang)
}
