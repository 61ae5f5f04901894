package inline

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	reStrongEmStar = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	reStrongStar   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reEmStar       = regexp.MustCompile(`\*(.+?)\*`)
	reStrongEmBar  = regexp.MustCompile(`(\s+|^)___(.+?)___(\s+|$)`)
	reStrongBar    = regexp.MustCompile(`(\s+|^)__(.+?)__(\s+|$)`)
	reEmBar        = regexp.MustCompile(`(\s+|^)_(.+?)_(\s+|$)`)
	reStrike       = regexp.MustCompile(`~~(.+?)~~`)
)

// emphasize applies the emphasis chain. Every match's inner text goes
// through the whole chain again, so nested markers resolve inside out.
func emphasize(text string) string {
	text = replaceSubmatch(reStrongEmStar, text, func(m []string) string {
		return "<strong><em>" + emphasize(m[1]) + "</em></strong>"
	})
	text = replaceSubmatch(reStrongStar, text, func(m []string) string {
		return "<strong>" + emphasize(m[1]) + "</strong>"
	})
	text = replaceSubmatch(reEmStar, text, func(m []string) string {
		return "<em>" + emphasize(m[1]) + "</em>"
	})

	text = replaceSubmatch(reStrongEmBar, text, func(m []string) string {
		return m[1] + "<strong><em>" + emphasize(m[2]) + "</em></strong>" + m[3]
	})
	text = replaceSubmatch(reStrongBar, text, func(m []string) string {
		return m[1] + "<strong>" + emphasize(m[2]) + "</strong>" + m[3]
	})
	text = replaceSubmatch(reEmBar, text, func(m []string) string {
		return m[1] + "<em>" + emphasize(m[2]) + "</em>" + m[3]
	})

	return replaceSubmatch(reStrike, text, func(m []string) string {
		return "<del>" + emphasize(m[1]) + "</del>"
	})
}

// replaceSubmatch replaces every match of re in text with fn applied to the
// match's groups. Unmatched optional groups are empty strings.
func replaceSubmatch(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
