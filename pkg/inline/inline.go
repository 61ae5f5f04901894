// Package inline renders the span-level markup of a line or paragraph.
//
// Rendering is an ordered series of substitution passes. Each pass replaces
// what it matches with a placeholder key and stores the finished HTML under
// that key, so later passes never see inside fragments that are already
// done. All keys are released at the end of the call.
package inline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/gohyperdown/pkg/hook"
	"github.com/yaklabco/gohyperdown/pkg/ledger"
)

// matchTimeout bounds a single backtracking match.
const matchTimeout = 2 * time.Second

// CommonWhitelist lists the tags kept verbatim in inline text even when raw
// HTML is disabled.
//
//nolint:gochecknoglobals // Read-only table.
var CommonWhitelist = []string{"kbd", "b", "i", "strong", "em", "sup", "sub", "br", "code", "del", "a", "hr", "small"}

// ErrMatchTimeout is reported when a pattern gives up on pathological input.
var ErrMatchTimeout = errors.New("inline pattern timed out")

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	reCodeSpan = mustCompile2("(^|[^\\\\])(`+)(.+?)\\2")
	reMathSpan = mustCompile2(`(^|[^\\])(\$+)(.+?)\2`)
	reBareAmp  = mustCompile2(`&(?!#?[a-zA-Z0-9]+;)`)

	reEscaped     = regexp.MustCompile(`\\(.)`)
	reAngleLink   = regexp.MustCompile(`(?i)<(https?://[^>\s]+|(?:mailto:)?[_a-z0-9\-.+]+@[_\w-]+(?:\.[a-z]{2,})+)>`)
	reTag         = regexp.MustCompile(`(?i)<(/?)([a-z0-9-]+)(\s+[^>]*)?>`)
	reComment     = regexp.MustCompile(`<!--(.*?)-->`)
	reURLAttr     = regexp.MustCompile(`(?i)(\s(?:href|src)\s*=\s*)("[^"]*"|'[^']*'|[^\s"'>]+)`)
	reEventAttr   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+)`)
	reFootnoteRef = regexp.MustCompile(`\[\^((?:[^\]]|\\\]|\\\[)+?)\]`)
	reImage       = regexp.MustCompile(`!\[((?:[^\]]|\\\]|\\\[)*?)\]\(((?:[^\)]|\\\)|\\\()+?)\)`)
	reImageRef    = regexp.MustCompile(`!\[((?:[^\]]|\\\]|\\\[)*?)\]\[((?:[^\]]|\\\]|\\\[)+?)\]`)
	reLink        = regexp.MustCompile(`\[((?:[^\]]|\\\]|\\\[)+?)\]\(((?:[^\)]|\\\)|\\\()+?)\)`)
	reLinkRef     = regexp.MustCompile(`\[((?:[^\]]|\\\]|\\\[)+?)\]\[((?:[^\]]|\\\]|\\\[)+?)\]`)
	reBareEmail   = regexp.MustCompile(`(?i)(^|[^"\w.+\-/:])((?:mailto:)?[_a-z0-9.+\-]+@[_\w-]+(?:\.[a-z]{2,})+)`)
	reBareURL     = regexp.MustCompile(`(^|[^"])(https?://[^\s"<>\r]*[^\s"<>\r.,;:!?)\]'])`)

	angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// regexMeta are characters whose escaped form drops the backslash.
const regexMeta = `-[]/{}()*+?.\^$|`

func mustCompile2(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = matchTimeout
	return re
}

// Options controls inline rendering.
type Options struct {
	// AllowRawHTML keeps every tag and HTML comment verbatim.
	AllowRawHTML bool
	// Math protects $-delimited spans from further processing.
	Math bool
	// Whitelist adds tag names to CommonWhitelist for the whole document.
	Whitelist []string
	Hooks     *hook.Registry
}

// Renderer renders inline text for one document. It records footnote
// references in the shared ledger and resolves reference links against the
// shared definitions. A Renderer is not safe for concurrent use.
type Renderer struct {
	opts      Options
	footnotes *ledger.Footnotes
	defs      *ledger.Definitions
	keys      *Keys
	allowed   map[string]struct{}
	err       error
}

// NewRenderer returns a renderer bound to the given document state.
func NewRenderer(opts Options, footnotes *ledger.Footnotes, defs *ledger.Definitions, keys *Keys) *Renderer {
	allowed := make(map[string]struct{}, len(CommonWhitelist)+len(opts.Whitelist))
	for _, tag := range CommonWhitelist {
		allowed[tag] = struct{}{}
	}
	for _, tag := range opts.Whitelist {
		allowed[strings.ToLower(tag)] = struct{}{}
	}

	return &Renderer{
		opts:      opts,
		footnotes: footnotes,
		defs:      defs,
		keys:      keys,
		allowed:   allowed,
	}
}

// Err returns the first error met while rendering, if any. Once set, every
// further call returns its input unprocessed.
func (r *Renderer) Err() error {
	return r.err
}

func (r *Renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Render converts text to HTML. whitelist names extra tags kept verbatim in
// this call only.
func (r *Renderer) Render(text string, whitelist ...string) string {
	if r.err != nil {
		return text
	}
	c := &call{r: r, holders: holders{}, extra: whitelist}
	return c.parse(text, true)
}

// call is one top-level Render invocation. Nested renders of link text
// and footnote labels share its placeholder table.
type call struct {
	r       *Renderer
	holders holders
	extra   []string
}

func (c *call) hold(fragment string) string {
	key := c.r.keys.Next()
	c.holders[key] = fragment
	return key
}

func (c *call) hook(stage hook.Stage, text string) string {
	if c.r.err != nil {
		return text
	}
	out, err := c.r.opts.Hooks.RunText(stage, text)
	if err != nil {
		c.r.fail(err)
		return text
	}
	return out
}

func (c *call) parse(text string, autolink bool) string {
	text = c.hook(hook.BeforeParseInline, text)

	text = c.codeSpans(text)
	if c.r.opts.Math {
		text = c.mathSpans(text)
	}
	text = c.escapes(text)
	text = c.angleLinks(text)
	text = c.tags(text)
	if c.r.opts.AllowRawHTML {
		text = replaceSubmatch(reComment, text, func(m []string) string { return c.hold(m[0]) })
	}
	text = c.entities(text)
	text = c.footnoteRefs(text)
	text = c.images(text)
	text = c.links(text)
	text = emphasize(text)
	if autolink {
		text = c.bareEmails(text)
		text = c.bareURLs(text)
	}

	text = c.hook(hook.AfterParseInlineBeforeRelease, text)
	text = c.holders.release(text)
	return c.hook(hook.AfterParseInline, text)
}

func (c *call) replace2(re *regexp2.Regexp, text string, fn func(m regexp2.Match) string) string {
	if c.r.err != nil {
		return text
	}
	out, err := re.ReplaceFunc(text, fn, -1, -1)
	if err != nil {
		c.r.fail(fmt.Errorf("%w: %w", ErrMatchTimeout, err))
		return text
	}
	return out
}

func group(m regexp2.Match, n int) string {
	return m.GroupByNumber(n).String()
}

func (c *call) codeSpans(text string) string {
	return c.replace2(reCodeSpan, text, func(m regexp2.Match) string {
		return group(m, 1) + c.hold("<code>"+Escape(group(m, 3))+"</code>")
	})
}

func (c *call) mathSpans(text string) string {
	return c.replace2(reMathSpan, text, func(m regexp2.Match) string {
		delim := group(m, 2)
		return group(m, 1) + c.hold(delim+Escape(group(m, 3))+delim)
	})
}

func (c *call) escapes(text string) string {
	return replaceSubmatch(reEscaped, text, func(m []string) string {
		prefix := `\`
		if len(m[1]) == 1 && strings.Contains(regexMeta, m[1]) {
			prefix = ""
		}
		return c.hold(prefix + strings.ReplaceAll(Escape(m[1]), "$", "&dollar;"))
	})
}

func (c *call) angleLinks(text string) string {
	return replaceSubmatch(reAngleLink, text, func(m []string) string {
		url := CleanURL(m[1])
		link := c.hook(hook.ParseLink, Escape(url))
		return c.hold(`<a href="` + Escape(url) + `">` + link + `</a>`)
	})
}

func (c *call) tags(text string) string {
	return replaceSubmatch(reTag, text, func(m []string) string {
		if c.r.opts.AllowRawHTML {
			return c.hold(m[0])
		}
		if c.allows(m[2]) {
			return c.hold(sanitizeTag(m[0]))
		}
		return c.hold(Escape(m[0]))
	})
}

func (c *call) allows(tag string) bool {
	tag = strings.ToLower(tag)
	if _, ok := c.r.allowed[tag]; ok {
		return true
	}
	for _, extra := range c.extra {
		if strings.EqualFold(extra, tag) {
			return true
		}
	}
	return false
}

// sanitizeTag neutralizes URL attributes and drops event handlers of a
// whitelisted tag.
func sanitizeTag(tag string) string {
	tag = reEventAttr.ReplaceAllString(tag, "")
	return replaceSubmatch(reURLAttr, tag, func(m []string) string {
		return m[1] + `"` + CleanURL(m[2]) + `"`
	})
}

// entities escapes whatever markup characters the earlier passes left.
func (c *call) entities(text string) string {
	if c.r.err != nil {
		return text
	}
	out, err := reBareAmp.Replace(text, "&amp;", -1, -1)
	if err != nil {
		c.r.fail(fmt.Errorf("%w: %w", ErrMatchTimeout, err))
		return text
	}
	return angleEscaper.Replace(out)
}

func (c *call) footnoteRefs(text string) string {
	return replaceSubmatch(reFootnoteRef, text, func(m []string) string {
		id := c.r.footnotes.Reference(m[1], func(label string) string {
			return c.parse(label, true)
		})
		return c.hold(fmt.Sprintf(`<sup id="fnref-%d"><a href="#fn-%d" class="footnote-ref">%d</a></sup>`, id, id, id))
	})
}

func (c *call) images(text string) string {
	text = replaceSubmatch(reImage, text, func(m []string) string {
		alt := quoteAttr(unescapeBrackets(m[1]))
		url, title := cleanURL(unescapeBrackets(m[2]), true)
		if title == "" {
			title = alt
		} else {
			title = quoteAttr(title)
		}
		return c.hold(`<img src="` + url + `" alt="` + alt + `" title="` + title + `">`)
	})

	return replaceSubmatch(reImageRef, text, func(m []string) string {
		alt := quoteAttr(unescapeBrackets(m[1]))
		def, ok := c.r.defs.Lookup(m[2])
		if !ok {
			return c.hold(alt)
		}
		title := alt
		if def.Title != "" {
			title = def.Title
		}
		return c.hold(`<img src="` + def.URL + `" alt="` + alt + `" title="` + title + `">`)
	})
}

func (c *call) links(text string) string {
	text = replaceSubmatch(reLink, text, func(m []string) string {
		label := c.parse(unescapeBrackets(m[1]), false)
		url, title := cleanURL(unescapeBrackets(m[2]), true)
		return c.hold(`<a href="` + url + `"` + titleAttr(quoteAttr(title)) + `>` + label + `</a>`)
	})

	return replaceSubmatch(reLinkRef, text, func(m []string) string {
		label := c.parse(unescapeBrackets(m[1]), false)
		def, ok := c.r.defs.Lookup(m[2])
		if !ok {
			return c.hold(label)
		}
		return c.hold(`<a href="` + def.URL + `"` + titleAttr(def.Title) + `>` + label + `</a>`)
	})
}

func (c *call) bareEmails(text string) string {
	return replaceSubmatch(reBareEmail, text, func(m []string) string {
		link := c.hook(hook.ParseLink, m[2])
		return m[1] + c.hold(`<a href="`+CleanURL(m[2])+`">`+link+`</a>`)
	})
}

func (c *call) bareURLs(text string) string {
	return replaceSubmatch(reBareURL, text, func(m []string) string {
		link := c.hook(hook.ParseLink, m[2])
		return m[1] + c.hold(`<a href="`+CleanURL(m[2])+`">`+link+`</a>`)
	})
}

func titleAttr(title string) string {
	if title == "" {
		return ""
	}
	return ` title="` + title + `"`
}

// quoteAttr escapes double quotes in text whose other markup characters
// were already escaped by the entities pass.
func quoteAttr(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
