package render

import (
	"slices"
	"strconv"
	"strings"
)

// drainFootnotes appends the footnote list to html, in reference order.
// Rendering a footnote body may reference further footnotes; they are
// appended to the same list.
func (s *state) drainFootnotes(html string) string {
	if s.footnotes.Len() == 0 || s.failed() {
		return html
	}

	var out strings.Builder
	out.WriteString(html)
	out.WriteString(`<div class="footnotes"><hr><ol>`)

	for i := 0; i < s.footnotes.Len(); i++ {
		if s.failed() {
			return html
		}

		note := s.footnotes.At(i)
		id := strconv.Itoa(note.ID)
		backref := ` <a href="#fnref-` + id + `" class="footnote-backref">&#8617;</a>`

		var body string
		switch {
		case !note.Defined():
			body = note.LabelHTML + backref
		case len(note.Body) > 1:
			lines := slices.Clone(note.Body)
			lines[len(lines)-1] += backref
			body = s.parse(strings.Join(lines, "\n"), false, 0)
		default:
			text := backref
			if len(note.Body) == 1 {
				text = note.Body[0] + backref
			}
			body = s.inlineText(text)
		}

		out.WriteString(`<li id="fn-` + id + `">` + body + `</li>`)
	}

	out.WriteString(`</ol></div>`)
	return out.String()
}
