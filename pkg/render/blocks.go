package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/gohyperdown/pkg/inline"
	"github.com/yaklabco/gohyperdown/pkg/mdast"
	"github.com/yaklabco/gohyperdown/pkg/parser"
)

// phpSpace is the set of characters trimmed from rendered fragments.
const phpSpace = " \t\n\x00\x0B"

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	reCodeLang     = regexp.MustCompile(`(?i)^[_a-z0-9\-+#:.]+$`)
	reQuotePrefix  = regexp.MustCompile(`^\s*> ?`)
	reListItem     = regexp.MustCompile(`^((?:[0-9]+\.)|-|\+|\*)(\s+)(.*)$`)
	reParaBreak    = regexp.MustCompile(`(\n\s*){2,}`)
	reFootnoteHead = regexp.MustCompile(`^\[\^(?:[^\]]|\\\]|\\\[)+?\]:`)
	reRawToggle    = regexp.MustCompile(`^\s*!!!\s*$`)
)

// renderBlock dispatches a block to its renderer. start and end are source
// line numbers.
func (s *state) renderBlock(b mdast.Block, lines []string, start, end int) string {
	if len(lines) == 0 {
		return ""
	}

	switch b.Kind {
	case mdast.KindCode:
		return s.code(lines, b.Code, start)
	case mdast.KindRawHTMLBlock:
		return s.rawRegion(lines, start)
	case mdast.KindIndentedCode:
		return s.indentedCode(lines, start)
	case mdast.KindRawHTMLTag:
		return strings.Trim(strings.Join(s.markLines(lines, start), "\n"), phpSpace)
	case mdast.KindMath:
		return "<p>" + s.markLine(start, end) + inline.Escape(strings.Join(lines, "\n")) + "</p>"
	case mdast.KindContainerHTML:
		return s.container(lines, b.Tag, start)
	case mdast.KindFootnoteDef:
		s.footnoteDef(lines, b.Footnote.Label)
		return ""
	case mdast.KindLinkDef:
		return ""
	case mdast.KindQuote:
		return s.quote(lines, start)
	case mdast.KindTable:
		return s.table(lines, b.Table, start)
	case mdast.KindHeading, mdast.KindUnderlineHeading:
		return s.heading(lines[0], b.Level, start, end)
	case mdast.KindHR:
		if s.opts.AnnotateLines {
			return `<hr class="line" data-start="` + strconv.Itoa(start) + `" data-end="` + strconv.Itoa(start) + `">`
		}
		return "<hr>"
	case mdast.KindList:
		return s.list(lines, b.List, start)
	default:
		return s.paragraph(lines, b.Inline, start)
	}
}

func (s *state) code(lines []string, info mdast.CodeInfo, start int) string {
	lang, rel := codeLang(info.Info)

	body := lines[1:]
	if n := len(body); n > 0 && isClosingFence(body[n-1], info.Fence) {
		body = body[:n-1]
	}

	stripped := make([]string, len(body))
	empty := true
	for i, line := range body {
		stripped[i] = trimSpaces(line, len(info.Indent))
		if empty && !mdast.IsBlank(stripped[i]) {
			empty = false
		}
	}
	if empty {
		return ""
	}

	source := strings.Join(stripped, "\n")
	if lang == "" && s.opts.DetectLanguage != nil {
		if guess := s.opts.DetectLanguage([]byte(source)); guess != "" && guess != "text" {
			lang = guess
		}
	}

	var html string
	highlighted := false
	if s.opts.Highlighter != nil && lang != "" && !s.opts.AnnotateLines {
		html, highlighted = s.opts.Highlighter.Highlight(lang, source)
	}
	if !highlighted {
		escaped := make([]string, len(stripped))
		for i, line := range stripped {
			escaped[i] = inline.Escape(line)
		}
		html = strings.Join(s.markLines(escaped, start+1), "\n")
	}

	var out strings.Builder
	out.WriteString("<pre><code")
	if lang != "" {
		out.WriteString(` class="` + inline.Escape(lang) + `"`)
	}
	if rel != "" {
		out.WriteString(` rel="` + inline.Escape(rel) + `"`)
	}
	out.WriteString(">" + html + "</code></pre>")
	return out.String()
}

// codeLang splits a fence info string of the form "lang:rel". Info strings
// with characters outside the language alphabet are ignored.
func codeLang(info string) (string, string) {
	info = strings.Trim(info, phpSpace)
	if !reCodeLang.MatchString(info) {
		return "", ""
	}
	lang, rel, found := strings.Cut(info, ":")
	if !found {
		return info, ""
	}
	return strings.TrimSpace(lang), strings.TrimSpace(strings.SplitN(rel, ":", 2)[0])
}

// isClosingFence reports whether line is a fence made of exactly fence.
func isClosingFence(line, fence string) bool {
	rest, ok := strings.CutPrefix(strings.TrimLeft(line, " \t\v\f"), fence)
	return ok && !strings.ContainsAny(rest, "`~")
}

// trimSpaces removes n leading spaces when line has at least that many.
func trimSpaces(line string, n int) string {
	if n == 0 || len(line) < n || strings.TrimLeft(line[:n], " ") != "" {
		return line
	}
	return line[n:]
}

// trimWhitespace removes n leading whitespace characters when line starts
// with at least that many.
func trimWhitespace(line string, n int) string {
	if n == 0 || len(mdast.LeadingSpace(line)) < n {
		return line
	}
	return line[n:]
}

func (s *state) indentedCode(lines []string, start int) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		if len(line) > 4 {
			escaped[i] = inline.Escape(line[4:])
		}
	}

	str := strings.Join(s.markLines(escaped, start), "\n")
	if mdast.IsBlank(str) {
		return ""
	}
	return "<pre><code>" + str + "</code></pre>"
}

// rawRegion renders a "!!!" region verbatim without its toggle lines.
func (s *state) rawRegion(lines []string, start int) string {
	body := lines[1:]
	if n := len(body); n > 0 && reRawToggle.MatchString(body[n-1]) {
		body = body[:n-1]
	}
	return strings.Trim(strings.Join(s.markLines(body, start+1), "\n"), phpSpace)
}

func (s *state) container(lines []string, tag string, start int) string {
	allowed := parser.ContainerTags(tag)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = s.inlineText(line, allowed...)
	}
	return strings.Join(s.markLines(out, start), "\n")
}

func (s *state) footnoteDef(lines []string, label string) {
	body := make([]string, len(lines))
	copy(body, lines)
	body[0] = reFootnoteHead.ReplaceAllString(body[0], "")
	s.footnotes.Define(label, body)
}

func (s *state) heading(text string, level, start, end int) string {
	html := s.inlineText(strings.Trim(text, "# "))
	if mdast.IsBlank(html) {
		return ""
	}
	tag := "h" + strconv.Itoa(level)
	return "<" + tag + ">" + s.markLine(start, end) + html + "</" + tag + ">"
}

func (s *state) quote(lines []string, start int) string {
	inner := make([]string, len(lines))
	for i, line := range lines {
		inner[i] = reQuotePrefix.ReplaceAllString(line, "")
	}

	str := strings.Join(inner, "\n")
	if mdast.IsBlank(str) {
		return ""
	}
	return "<blockquote>" + s.parse(str, true, start) + "</blockquote>"
}

func (s *state) list(lines []string, info mdast.ListInfo, start int) string {
	var (
		items  [][]string
		suffix string
	)

	for i, line := range lines {
		m := listItem(line, info.Indent)
		if m != nil {
			if i == 0 && info.Marker == mdast.MarkerOrdered {
				if n, err := strconv.Atoi(strings.TrimSuffix(m[1], ".")); err == nil && n != 1 {
					suffix = ` start="` + strconv.Itoa(n) + `"`
				}
			}
			items = append(items, []string{m[3]})
			continue
		}

		if len(items) == 0 {
			items = append(items, nil)
		}
		last := len(items) - 1
		items[last] = append(items[last], trimWhitespace(line, info.Width+info.Indent))
	}

	tag := info.Marker.Tag()
	var out strings.Builder
	out.WriteString("<" + tag + suffix + ">")
	for _, item := range items {
		out.WriteString("<li>" + s.parse(strings.Join(item, "\n"), true, start) + "</li>")
		start += len(item)
	}
	out.WriteString("</" + tag + ">")
	return out.String()
}

// listItem matches a list marker at exactly indent leading whitespace.
func listItem(line string, indent int) []string {
	if len(mdast.LeadingSpace(line)) != indent {
		return nil
	}
	return reListItem.FindStringSubmatch(line[indent:])
}

func (s *state) paragraph(lines []string, inlineMode bool, start int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		html := s.inlineText(line)
		if !mdast.IsBlank(html) {
			html = s.markLine(start+i, -1) + html
		}
		out[i] = html
	}

	str := strings.Trim(strings.Join(out, "\n"), phpSpace)
	str = reParaBreak.ReplaceAllStringFunc(str, func(string) string {
		inlineMode = false
		return "</p><p>"
	})
	str = strings.ReplaceAll(str, "\n", "<br>")

	switch {
	case mdast.IsBlank(str):
		return ""
	case inlineMode:
		return str
	default:
		return "<p>" + str + "</p>"
	}
}
