package render

import (
	"fmt"
	"regexp"
	"strconv"
)

// markLine returns the annotation span for source lines start..end, or ""
// when annotation is off. A negative end means a single line.
func (s *state) markLine(start, end int) string {
	if !s.opts.AnnotateLines {
		return ""
	}
	if end < 0 {
		end = start
	}
	return fmt.Sprintf(`<span class="line" data-start="%d" data-end="%d" data-id="%s"></span>`, start, end, s.docID)
}

// markLines prefixes each line with its own annotation span.
func (s *state) markLines(lines []string, start int) []string {
	if !s.opts.AnnotateLines {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = s.markLine(start+i, -1) + line
	}
	return out
}

// optimizeLines rewrites annotations so that consecutive ranges are
// contiguous. A range that does not start right after the previous one
// starts there instead and keeps its real start in data-start-original.
func (s *state) optimizeLines(html string) string {
	if !s.opts.AnnotateLines || s.failed() {
		return html
	}

	re := regexp.MustCompile(`class="line" data-start="([0-9]+)" data-end="([0-9]+)" (data-id="` +
		regexp.QuoteMeta(s.docID) + `")`)

	last := 0
	return replaceAllSubmatch(re, html, func(m []string) string {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])

		out := m[0]
		if start != last {
			out = `class="line" data-start="` + strconv.Itoa(last) + `" data-start-original="` + m[1] +
				`" data-end="` + m[2] + `" ` + m[3]
		}
		last = end + 1
		return out
	})
}

// replaceAllSubmatch calls fn with the groups of each match of re in order
// and substitutes its result.
func replaceAllSubmatch(re *regexp.Regexp, text string, fn func([]string) string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}
