package inline

import (
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	reURLJunk    = regexp.MustCompile(`["'<>\t\n\v\f ]`)
	reEmailURL   = regexp.MustCompile(`(?i)^(mailto:)?[_a-z0-9\-.+]+@[_\w-]+(?:\.[a-z]{2,})+$`)
	reScheme     = regexp.MustCompile(`(?i)^\w+:`)
	reSafeScheme = regexp.MustCompile(`(?i)^(https?|mailto):`)
)

// UnsafeURL replaces any URL whose scheme is not http, https or mailto.
const UnsafeURL = "#"

// Escape returns s with HTML special characters replaced by entities.
func Escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// CleanURL normalizes a link target. Quotes, angle brackets and whitespace
// are removed, a bare email address gains a mailto: prefix and a URL with any
// scheme other than http, https or mailto becomes "#".
func CleanURL(raw string) string {
	url, _ := cleanURL(raw, false)
	return url
}

// CleanURLTitle is CleanURL for targets that may carry a title after the
// first space, as in `url "title"`. The title is returned escaped.
func CleanURLTitle(raw string) (string, string) {
	url, title := cleanURL(raw, true)
	return url, Escape(title)
}

func cleanURL(raw string, parseTitle bool) (string, string) {
	url := strings.Trim(raw, " \t\n\x00\x0B")
	title := ""

	if parseTitle {
		if pos := strings.IndexByte(url, ' '); pos >= 0 {
			title = strings.Trim(url[pos+1:], ` "'`)
			url = url[:pos]
		}
	}

	// Placeholder keys are delimited by "\r", so it is left in place.
	url = reURLJunk.ReplaceAllString(url, "")

	if m := reEmailURL.FindStringSubmatch(url); m != nil && m[1] == "" {
		url = "mailto:" + url
	}

	if decoded := schemeText(url); reScheme.MatchString(decoded) && !reSafeScheme.MatchString(decoded) {
		return UnsafeURL, ""
	}
	return url, title
}

// schemeText is url as a browser reads its scheme: entities decoded and
// control characters dropped.
func schemeText(url string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, html.UnescapeString(url))
}

//nolint:gochecknoglobals // Stateless replacer.
var bracketUnescaper = strings.NewReplacer(`\[`, "[", `\]`, "]", `\(`, "(", `\)`, ")")

// unescapeBrackets turns escaped brackets and parentheses into plain ones.
func unescapeBrackets(s string) string {
	return bracketUnescaper.Replace(s)
}
