package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

// cell is one output column of a table row.
type cell struct {
	span int
	text string
}

func (s *state) table(lines []string, info mdast.TableInfo, start int) string {
	ignored := make(map[int]bool, len(info.Ignored))
	sum := 0
	for _, offset := range info.Ignored {
		ignored[offset] = true
		sum += offset
	}

	head := sum > 0
	body := !head
	bodyOpen := false
	output := false

	var out strings.Builder
	out.WriteString("<table>")

	for key, line := range lines {
		if ignored[key] {
			if head && output {
				head = false
				body = true
			}
			continue
		}
		output = true

		switch {
		case head:
			out.WriteString("<thead>")
		case body:
			out.WriteString("<tbody>")
			bodyOpen = true
		}

		out.WriteString("<tr")
		if s.opts.AnnotateLines {
			n := strconv.Itoa(start + key)
			out.WriteString(` class="line" data-start="` + n + `" data-end="` + n + `" data-id="` + s.docID + `"`)
		}
		out.WriteString(">")

		tag := "td"
		if head {
			tag = "th"
		}
		for col, c := range tableCells(line) {
			out.WriteString("<" + tag)
			if c.span > 1 {
				out.WriteString(` colspan="` + strconv.Itoa(c.span) + `"`)
			}
			if col < len(info.Aligns) && info.Aligns[col] != mdast.AlignNone {
				out.WriteString(` align="` + info.Aligns[col].String() + `"`)
			}
			out.WriteString(">" + s.inlineText(c.text) + "</" + tag + ">")
		}
		out.WriteString("</tr>")

		if head {
			out.WriteString("</thead>")
		} else {
			body = false
		}
	}

	if bodyOpen {
		out.WriteString("</tbody>")
	}
	out.WriteString("</table>")
	return out.String()
}

// tableCells splits a row into columns. An empty cell widens the column
// before it; leading empty cells widen the first column.
func tableCells(line string) []cell {
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, "|"); ok {
		line = strings.TrimSuffix(rest, "|")
	}

	var cols []cell
	pending := 0
	for _, raw := range strings.Split(line, "|") {
		text := strings.TrimSpace(raw)
		switch {
		case text != "":
			cols = append(cols, cell{span: 1 + pending, text: text})
			pending = 0
		case len(cols) > 0:
			cols[len(cols)-1].span++
		default:
			pending++
		}
	}
	if pending > 0 {
		cols = append(cols, cell{span: pending})
	}
	return cols
}
