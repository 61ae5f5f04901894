package parser

import (
	"regexp"
	"strings"

	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

// verdict is a matcher's answer for one line.
type verdict bool

const (
	// declined leaves the line for the next matcher.
	declined verdict = false
	// claimed means the matcher consumed the line.
	claimed verdict = true
)

// matchFunc inspects one line. last is a copy of the most recent block and
// is only valid when hasLast is true.
type matchFunc func(s *segmenter, n int, line string, last mdast.Block, hasLast bool) verdict

type matcher struct {
	kind    mdast.Kind
	rawHTML bool
	match   matchFunc
}

const blockHTMLTags = `p|div|h[1-6]|blockquote|pre|table|dl|ol|ul|address|form|fieldset|iframe|hr|legend|article|section|nav|aside|hgroup|header|footer|figcaption|svg|script|noscript`

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	reFence       = regexp.MustCompile("^(\\s*)(~{3,}|`{3,})([^`~]*)$")
	reToggleHTML  = regexp.MustCompile(`^(\s*)!!!(\s*)$`)
	reIndented    = regexp.MustCompile(`^ {4}`)
	reBlockTag    = regexp.MustCompile(`(?i)^\s*<(` + blockHTMLTags + `)(\s+[^>]*)?>`)
	reAnyBlockTag = regexp.MustCompile(`(?i)<(` + blockHTMLTags + `)(\s+[^>]*)?>`)
	reComment     = regexp.MustCompile(`^\s*<!--(.*?)-->\s*$`)
	reStarRule    = regexp.MustCompile(`^(\* *){3,}\s*$`)
	reDashRule    = regexp.MustCompile(`^(- *){3,}\s*$`)
	reListMarker  = regexp.MustCompile(`^(\s*)((?:[0-9]+\.)|\-|\+|\*)\s+`)
	reIndentText  = regexp.MustCompile(`^(\s*)\S+`)
	reMathToggle  = regexp.MustCompile(`^(\s*)\$\$(\s*)$`)
	reFootnoteDef = regexp.MustCompile(`^\[\^(.+?)\]:`)
	reLinkDef     = regexp.MustCompile(`^\s*\[(.+?)\]:\s*(.+)$`)
	reQuote       = regexp.MustCompile(`^(\s*)>`)
	reHeading     = regexp.MustCompile(`^(#+)(.*)$`)
	reUnderline   = regexp.MustCompile(`^\s*((=|-){2,})\s*$`)
	reDelimiter   = regexp.MustCompile(`^((?:(?:(?:\||\+)(?:[ :]*\-+[ :]*)(?:\||\+))|(?:(?:[ :]*\-+[ :]*)(?:\||\+)(?:[ :]*\-+[ :]*))|(?:(?:[ :]*\-+[ :]*)(?:\||\+))|(?:(?:\||\+)(?:[ :]*\-+[ :]*)))+)$`)
	reAlignCell   = regexp.MustCompile(`^\s*(:?)\-+(:?)\s*$`)
	reCellSplit   = regexp.MustCompile(`[+|]`)

	containerTags = map[string][]string{
		"table": {"table", "tbody", "thead", "tfoot", "tr", "td", "th"},
	}
	reContainerOpen  = regexp.MustCompile(`(?i)^\s*<(table)(\s+[^>]*)?>`)
	reContainerClose = regexp.MustCompile(`(?i)</(table)>\s*$`)
)

// ContainerTags returns the inline tags allowed inside a container HTML
// block opened by tag.
func ContainerTags(tag string) []string {
	return containerTags[strings.ToLower(tag)]
}

// matchersFor returns the matcher table in priority order.
func matchersFor(opts Options) []matcher {
	all := []matcher{
		{kind: mdast.KindCode, match: matchCode},
		{kind: mdast.KindRawHTMLBlock, rawHTML: true, match: matchRawHTMLBlock},
		{kind: mdast.KindIndentedCode, match: matchIndentedCode},
		{kind: mdast.KindRawHTMLTag, rawHTML: true, match: matchRawHTMLTag},
		{kind: mdast.KindHR, match: matchStarRule},
		{kind: mdast.KindList, match: matchList},
		{kind: mdast.KindMath, match: matchMath},
		{kind: mdast.KindContainerHTML, match: matchContainerHTML},
		{kind: mdast.KindFootnoteDef, match: matchFootnoteDef},
		{kind: mdast.KindLinkDef, match: matchLinkDef},
		{kind: mdast.KindQuote, match: matchQuote},
		{kind: mdast.KindTable, match: matchTable},
		{kind: mdast.KindHeading, match: matchHeading},
		{kind: mdast.KindUnderlineHeading, match: matchUnderline},
		{kind: mdast.KindHR, match: matchDashRule},
		{kind: mdast.KindNormal, match: matchDefault},
	}

	if opts.AllowRawHTML {
		return all
	}

	out := all[:0]
	for _, m := range all {
		if !m.rawHTML {
			out = append(out, m)
		}
	}
	return out
}

func matchCode(s *segmenter, n int, line string, last mdast.Block, _ bool) verdict {
	m := reFence.FindStringSubmatch(line)
	if m == nil {
		if s.is(mdast.KindCode) {
			s.extend(n)
			return claimed
		}
		return declined
	}

	if s.is(mdast.KindCode) {
		if m[2] != s.fence {
			s.extend(n)
			return claimed
		}
		if last.Code.AfterList {
			s.blank = 0
			s.merge().extend(n)
		} else {
			s.extend(n).close()
		}
		return claimed
	}

	afterList := false
	if s.is(mdast.KindList) {
		afterList = len(m[1]) >= last.List.Indent+s.blank
	}
	s.fence = m[2]
	s.open(n, mdast.Block{
		Kind: mdast.KindCode,
		Code: mdast.CodeInfo{Indent: m[1], Fence: m[2], Info: m[3], AfterList: afterList},
	})
	return claimed
}

func matchRawHTMLBlock(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	if reToggleHTML.MatchString(line) {
		if s.is(mdast.KindRawHTMLBlock) {
			s.extend(n).close()
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindRawHTMLBlock})
		}
		return claimed
	}
	if s.is(mdast.KindRawHTMLBlock) {
		s.extend(n)
		return claimed
	}
	return declined
}

func matchIndentedCode(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	if reIndented.MatchString(line) {
		if s.is(mdast.KindIndentedCode) {
			s.extend(n)
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindIndentedCode})
		}
		return claimed
	}
	if s.is(mdast.KindIndentedCode) && mdast.IsBlank(line) {
		s.extend(n)
		return claimed
	}
	return declined
}

func matchRawHTMLTag(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	switch {
	case reBlockTag.MatchString(line):
		if s.is(mdast.KindRawHTMLTag) {
			s.extend(n)
			return claimed
		}
		s.open(n, mdast.Block{Kind: mdast.KindRawHTMLTag})
		all := reAnyBlockTag.FindAllStringSubmatch(line, -1)
		tag := all[len(all)-1][1]
		if strings.Contains(line, "</"+tag+">") {
			s.close()
		} else {
			s.htmlTag = tag
		}
		return claimed

	case s.htmlTag != "" && strings.Contains(line, "</"+s.htmlTag+">"):
		s.extend(n).close()
		s.htmlTag = ""
		return claimed

	case s.is(mdast.KindRawHTMLTag):
		s.extend(n)
		return claimed

	case reComment.MatchString(line):
		s.open(n, mdast.Block{Kind: mdast.KindRawHTMLTag}).close()
		return claimed
	}
	return declined
}

func matchStarRule(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	return matchRule(s, n, line, reStarRule)
}

func matchDashRule(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	return matchRule(s, n, line, reDashRule)
}

func matchRule(s *segmenter, n int, line string, re *regexp.Regexp) verdict {
	if !re.MatchString(line) {
		return declined
	}
	s.open(n, mdast.Block{Kind: mdast.KindHR}).close()
	return claimed
}

func matchList(s *segmenter, n int, line string, last mdast.Block, _ bool) verdict {
	tolerance := s.opts.BlankTolerance

	if s.is(mdast.KindList) && !reLinkDef.MatchString(line) {
		if reFence.MatchString(line) {
			return declined
		}
		if m := reIndentText.FindStringSubmatch(line); m != nil && s.blank <= tolerance &&
			len(m[1]) >= last.List.Indent+s.blank {
			s.blank = 0
			s.extend(n)
			return claimed
		}
		if mdast.IsBlank(line) && s.blank < tolerance {
			s.blank++
			s.extend(n)
			return claimed
		}
	}

	m := reListMarker.FindStringSubmatch(line)
	if m == nil {
		return declined
	}

	space := len(m[1])
	info := mdast.ListInfo{Indent: space, Marker: mdast.MarkerOrdered, Width: len(m[0]) - space}
	if strings.Contains("+-*", m[2]) {
		info.Marker = mdast.MarkerUnordered
	}
	s.blank = 0

	if s.is(mdast.KindList) &&
		(space > last.List.Indent || (space == last.List.Indent && info.Marker == last.List.Marker)) {
		s.extend(n)
		return claimed
	}
	s.open(n, mdast.Block{Kind: mdast.KindList, List: info})
	return claimed
}

func matchMath(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	if reMathToggle.MatchString(line) {
		if s.is(mdast.KindMath) {
			s.extend(n).close()
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindMath})
		}
		return claimed
	}
	if s.is(mdast.KindMath) {
		s.extend(n)
		return claimed
	}
	return declined
}

func (s *segmenter) inContainer(tag string) bool {
	return s.is(mdast.KindContainerHTML) && s.tail().Tag == tag
}

func matchContainerHTML(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	if m := reContainerOpen.FindStringSubmatch(line); m != nil {
		tag := strings.ToLower(m[1])
		if s.inContainer(tag) {
			s.extend(n)
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindContainerHTML, Tag: tag})
		}
		return claimed
	}

	if m := reContainerClose.FindStringSubmatch(line); m != nil {
		if s.inContainer(strings.ToLower(m[1])) {
			s.extend(n).close()
			return claimed
		}
		return declined
	}

	if s.is(mdast.KindContainerHTML) {
		s.extend(n)
		return claimed
	}
	return declined
}

func matchFootnoteDef(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	m := reFootnoteDef.FindStringSubmatch(line)
	if m == nil {
		return declined
	}
	s.open(n, mdast.Block{
		Kind:     mdast.KindFootnoteDef,
		Footnote: mdast.FootnoteInfo{Indent: len(m[0]) - 1, Label: m[1]},
	})
	return claimed
}

func matchLinkDef(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	m := reLinkDef.FindStringSubmatch(line)
	if m == nil {
		return declined
	}
	if s.opts.OnDefinition != nil {
		s.opts.OnDefinition(m[1], m[2])
	}
	s.open(n, mdast.Block{Kind: mdast.KindLinkDef}).close()
	return claimed
}

func matchQuote(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	m := reQuote.FindStringSubmatch(line)
	if m == nil {
		return declined
	}
	switch {
	case s.is(mdast.KindList) && len(m[1]) > 0:
		s.extend(n)
	case s.is(mdast.KindQuote):
		s.extend(n)
	default:
		s.open(n, mdast.Block{Kind: mdast.KindQuote})
	}
	return claimed
}

func matchTable(s *segmenter, n int, line string, last mdast.Block, hasLast bool) verdict {
	m := reDelimiter.FindStringSubmatch(line)
	if m == nil {
		return declined
	}

	if s.is(mdast.KindTable) {
		t := s.tail()
		t.Table.Ignored = append(t.Table.Ignored, t.Table.Next)
		t.Table.Next++
		t.End = n
		return claimed
	}

	head := 0
	if !hasLast || last.Kind != mdast.KindNormal || mdast.IsBlank(s.lines[last.End]) {
		s.open(n, mdast.Block{Kind: mdast.KindTable})
	} else {
		head = 1
		s.retract(1, mdast.Block{Kind: mdast.KindTable})
	}

	t := s.tail()
	t.End = n
	t.Table = mdast.TableInfo{Ignored: []int{head}, Aligns: parseAligns(m[1]), Next: head + 1}
	return claimed
}

// parseAligns reads column alignments from a delimiter row.
func parseAligns(row string) []mdast.Align {
	if strings.HasPrefix(row, "|") {
		row = row[1:]
		row = strings.TrimSuffix(row, "|")
	}

	cells := reCellSplit.Split(row, -1)
	aligns := make([]mdast.Align, 0, len(cells))
	for _, cell := range cells {
		align := mdast.AlignNone
		if m := reAlignCell.FindStringSubmatch(cell); m != nil {
			switch {
			case m[1] != "" && m[2] != "":
				align = mdast.AlignCenter
			case m[1] != "":
				align = mdast.AlignLeft
			case m[2] != "":
				align = mdast.AlignRight
			}
		}
		aligns = append(aligns, align)
	}
	return aligns
}

func matchHeading(s *segmenter, n int, line string, _ mdast.Block, _ bool) verdict {
	m := reHeading.FindStringSubmatch(line)
	if m == nil {
		return declined
	}
	s.open(n, mdast.Block{Kind: mdast.KindHeading, Level: min(len(m[1]), 6)}).close()
	return claimed
}

func matchUnderline(s *segmenter, n int, line string, last mdast.Block, hasLast bool) verdict {
	m := reUnderline.FindStringSubmatch(line)
	if m == nil || !hasLast || last.Kind != mdast.KindNormal || mdast.IsBlank(s.lines[last.End]) {
		return declined
	}

	if !s.is(mdast.KindNormal) {
		s.open(n, mdast.Block{Kind: mdast.KindNormal})
		return claimed
	}

	level := 2
	if m[1][0] == '=' {
		level = 1
	}
	s.retract(1, mdast.Block{Kind: mdast.KindUnderlineHeading, Level: level}).extend(n).close()
	return claimed
}

func matchDefault(s *segmenter, n int, line string, last mdast.Block, hasLast bool) verdict {
	switch {
	case s.is(mdast.KindFootnoteDef):
		if len(mdast.LeadingSpace(line)) >= last.Footnote.Indent {
			s.extend(n)
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindNormal})
		}

	case s.is(mdast.KindTable):
		if strings.Contains(line, "|") {
			t := s.tail()
			t.Table.Next++
			t.End = n
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindNormal})
		}

	case s.is(mdast.KindQuote):
		if !mdast.IsBlank(line) {
			s.extend(n)
		} else {
			s.open(n, mdast.Block{Kind: mdast.KindNormal})
		}

	default:
		if !hasLast || last.Kind != mdast.KindNormal {
			s.open(n, mdast.Block{Kind: mdast.KindNormal})
		} else {
			s.extend(n)
		}
	}
	return claimed
}
