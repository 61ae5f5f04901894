package render_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/hook"
	"github.com/yaklabco/gohyperdown/pkg/mdast"
	"github.com/yaklabco/gohyperdown/pkg/render"
)

func renderWith(t *testing.T, opts render.Options, text string) string {
	t.Helper()

	html, err := render.New(opts).Render(context.Background(), text)
	require.NoError(t, err)
	return html
}

func TestRender_Documents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "atx heading", in: "#heading#", want: "<h1>heading</h1>"},
		{name: "atx heading level 6", in: "######heading######", want: "<h6>heading</h6>"},
		{name: "empty heading", in: "#", want: ""},
		{name: "underline heading", in: "heading\n======", want: "<h1>heading</h1>"},
		{name: "underline heading level 2", in: "heading\n---", want: "<h2>heading</h2>"},
		{name: "bold", in: "123**bold**123", want: "<p>123<strong>bold</strong>123</p>"},
		{name: "italic", in: "123 *italy* 123", want: "<p>123 <em>italy</em> 123</p>"},
		{name: "paragraph break", in: "a\n\nb", want: "<p>a</p><p>b</p>"},
		{name: "line break", in: "a\nb", want: "<p>a<br>b</p>"},
		{name: "escaped markup", in: "a < b && c > d", want: "<p>a &lt; b &amp;&amp; c &gt; d</p>"},
		{name: "unordered list", in: "\n\n - list", want: "<ul><li>list</li></ul>"},
		{name: "ordered list", in: "1. list", want: "<ol><li>list</li></ol>"},
		{name: "ordered start", in: "3. a\n4. b", want: `<ol start="3"><li>a</li><li>b</li></ol>`},
		{name: "loose list", in: "- a\n\n- b", want: "<ul><li>a</li><li>b</li></ul>"},
		{
			name: "nested list",
			in:   "- a\n  - b\n- c",
			want: "<ul><li><p>a</p><ul><li>b</li></ul></li><li>c</li></ul>",
		},
		{name: "quote", in: "> a\n> b", want: "<blockquote>a<br>b</blockquote>"},
		{name: "nested quote", in: ">> x", want: "<blockquote><blockquote>x</blockquote></blockquote>"},
		{name: "star rule", in: "***", want: "<hr>"},
		{name: "dash rule", in: "---", want: "<hr>"},
		{
			name: "fenced code",
			in:   "```go\nfmt.Println(\"<x>\")\n```",
			want: `<pre><code class="go">fmt.Println(&quot;&lt;x&gt;&quot;)</code></pre>`,
		},
		{
			name: "fenced code with rel",
			in:   "```js:app.js\nx\n```",
			want: `<pre><code class="js" rel="app.js">x</code></pre>`,
		},
		{name: "unterminated fence", in: "```\na\nb", want: "<pre><code>a\nb</code></pre>"},
		{name: "empty fence", in: "```\n\n```", want: ""},
		{name: "indented code", in: "    x < y", want: "<pre><code>x &lt; y</code></pre>"},
		{name: "math block", in: "$$\nx<y\n$$", want: "<p>$$\nx&lt;y\n$$</p>"},
		{name: "raw html disabled", in: "<div>x</div>", want: "<p>&lt;div&gt;x&lt;/div&gt;</p>"},
		{
			name: "container html",
			in:   "<table>\n<tr><td>*a*</td></tr>\n</table>",
			want: "<table>\n<tr><td><em>a</em></td></tr>\n</table>",
		},
		{
			name: "reference link",
			in:   "[x][id]\n\n[id]: http://a.com \"Title\"",
			want: `<p><a href="http://a.com" title="Title">x</a></p>`,
		},
		{
			name: "escapes",
			in:   `\[系统盘]:\Documents and Settings\\[用户名]\\Cookies$\lambda$`,
			want: `<p>[系统盘]:\Documents and Settings\[用户名]\Cookies$\lambda$</p>`,
		},
		{
			name: "bare url with bang",
			in:   "http://sqlfiddle.com/#!9/ca126b/1中文 break",
			want: `<p><a href="http://sqlfiddle.com/#!9/ca126b/1中文">http://sqlfiddle.com/#!9/ca126b/1中文</a> break</p>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, renderWith(t, render.DefaultOptions(), tt.in))
		})
	}
}

func TestRender_Tables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "header and body",
			in:   "| a | b |\n|---|---|\n| 1 | 2 |",
			want: "<table><thead><tr><th>a</th><th>b</th></tr></thead>" +
				"<tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
		},
		{
			name: "alignment",
			in:   "| a | b | c |\n|:--|:-:|--:|\n| 1 | 2 | 3 |",
			want: `<table><thead><tr><th align="left">a</th><th align="center">b</th><th align="right">c</th></tr></thead>` +
				`<tbody><tr><td align="left">1</td><td align="center">2</td><td align="right">3</td></tr></tbody></table>`,
		},
		{
			name: "colspan",
			in:   "| a | b |\n|---|---|\n| 1 | |",
			want: "<table><thead><tr><th>a</th><th>b</th></tr></thead>" +
				`<tbody><tr><td colspan="2">1</td></tr></tbody></table>`,
		},
		{
			name: "no header",
			in:   "|---|---|\n| 1 | 2 |",
			want: "<table><tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
		},
		{
			name: "delimiter rows around header",
			in: "|---------------|-------|\n| Variable_name | Value |\n| ------------- | ----- |\n" +
				"| sql_mode      | ONLY_FULL_GROUP_BY, STRICT_TRANS_TABLES |\n|---------------|-------|",
			want: "<table><thead><tr><th>Variable_name</th><th>Value</th></tr></thead>" +
				"<tbody><tr><td>sql_mode</td><td>ONLY_FULL_GROUP_BY, STRICT_TRANS_TABLES</td></tr></tbody></table>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, renderWith(t, render.DefaultOptions(), tt.in))
		})
	}
}

func TestRender_Footnotes(t *testing.T) {
	t.Parallel()

	t.Run("defined", func(t *testing.T) {
		t.Parallel()

		got := renderWith(t, render.DefaultOptions(), "Never [click here][^1].\n\n[^1]: Some note.")
		assert.Equal(t,
			`<p>Never [click here]<sup id="fnref-1"><a href="#fn-1" class="footnote-ref">1</a></sup>.</p>`+
				`<div class="footnotes"><hr><ol>`+
				`<li id="fn-1"> Some note. <a href="#fnref-1" class="footnote-backref">&#8617;</a></li>`+
				`</ol></div>`,
			got)
	})

	t.Run("undefined label", func(t *testing.T) {
		t.Parallel()

		got := renderWith(t, render.DefaultOptions(),
			"Never write \"[click here][^2]\".\n [^2]: http://www.w3.org/QA/Tips/noClickHere")
		assert.Equal(t,
			`<p>Never write "[click here]<sup id="fnref-1"><a href="#fn-1" class="footnote-ref">1</a></sup>".</p>`+
				`<div class="footnotes"><hr><ol>`+
				`<li id="fn-1">2 <a href="#fnref-1" class="footnote-backref">&#8617;</a></li>`+
				`</ol></div>`,
			got)
	})

	t.Run("reference order", func(t *testing.T) {
		t.Parallel()

		got := renderWith(t, render.DefaultOptions(), "a[^x] b[^y] c[^x]\n\n[^y]: Y\n[^x]: X")
		assert.Equal(t, 2, strings.Count(got, `<li id="fn-`))
		assert.Contains(t, got, `<li id="fn-1"> X <a href="#fnref-1" class="footnote-backref">&#8617;</a></li>`)
		assert.Contains(t, got, `<li id="fn-2"> Y <a href="#fnref-2" class="footnote-backref">&#8617;</a></li>`)
		assert.Less(t, strings.Index(got, `id="fn-1"`), strings.Index(got, `id="fn-2"`))
	})

	t.Run("unreferenced definition", func(t *testing.T) {
		t.Parallel()

		got := renderWith(t, render.DefaultOptions(), "text\n\n[^z]: never used")
		assert.Equal(t, "<p>text</p>", got)
	})
}

func TestRender_UnsafeURLs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"[x](javascript:alert(1))",
		"![x](vbscript:y)",
		"[x](data:text/html;base64,AAAA)",
		"<a href=\"javascript:alert(1)\">x</a>",
		"[x][bad]\n\n[bad]: javascript:alert(1)",
	}

	for _, in := range inputs {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got := renderWith(t, render.DefaultOptions(), in)
			assert.NotContains(t, strings.ToLower(got), "script:")
			assert.NotContains(t, got, "data:")
			assert.Regexp(t, `(href|src)="#"`, got)
		})
	}
}

func TestRender_RawHTML(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.AllowRawHTML = true

	assert.Equal(t, "<div>x</div>", renderWith(t, opts, "<div>x</div>"))
	assert.Equal(t, "<b>raw</b>", renderWith(t, opts, "!!!\n<b>raw</b>\n!!!"))
	assert.Equal(t, `<p><span onclick="f()">x</span></p>`, renderWith(t, opts, `<span onclick="f()">x</span>`))
}

func TestRender_ExtraWhitelist(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.ExtraWhitelist = []string{"mark"}

	assert.Equal(t, "<p><mark>x</mark></p>", renderWith(t, opts, "<mark>x</mark>"))
}

func TestRender_AnnotateLines(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.AnnotateLines = true

	text := "a\n\nb"
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String()
	got := renderWith(t, opts, text)

	assert.Equal(t,
		fmt.Sprintf(`<p><span class="line" data-start="0" data-end="0" data-id="%s"></span>a</p>`, id)+
			fmt.Sprintf(`<p><span class="line" data-start="1" data-start-original="2" data-end="2" data-id="%s"></span>b</p>`, id),
		got)

	hr := renderWith(t, opts, "***")
	assert.Equal(t, `<hr class="line" data-start="0" data-end="0">`, hr)
}

func TestRender_AnnotationIsDeterministic(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.AnnotateLines = true

	assert.Equal(t, renderWith(t, opts, "# a\n\ntext"), renderWith(t, opts, "# a\n\ntext"))
}

type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(lang, _ string) (string, bool) {
	if lang == "unknown" {
		return "", false
	}
	return "HL:" + lang, true
}

func TestRender_CodeHighlighting(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.Highlighter = fakeHighlighter{}

	assert.Equal(t, `<pre><code class="go">HL:go</code></pre>`, renderWith(t, opts, "```go\nx\n```"))
	assert.Equal(t, `<pre><code class="unknown">x</code></pre>`, renderWith(t, opts, "```unknown\nx\n```"))

	opts.AnnotateLines = true
	assert.NotContains(t, renderWith(t, opts, "```go\nx\n```"), "HL:")
}

func TestRender_DetectLanguage(t *testing.T) {
	t.Parallel()

	opts := render.DefaultOptions()
	opts.DetectLanguage = func(content []byte) string {
		if strings.HasPrefix(string(content), "def ") {
			return "python"
		}
		return "text"
	}

	assert.Equal(t, `<pre><code class="python">def f(): pass</code></pre>`, renderWith(t, opts, "```\ndef f(): pass\n```"))
	assert.Equal(t, `<pre><code>plain</code></pre>`, renderWith(t, opts, "```\nplain\n```"))
	assert.Equal(t, `<pre><code class="go">def</code></pre>`, renderWith(t, opts, "```go\ndef\n```"))
}

func TestRender_Limits(t *testing.T) {
	t.Parallel()

	t.Run("depth", func(t *testing.T) {
		t.Parallel()

		opts := render.DefaultOptions()
		opts.MaxDepth = 3

		assert.Equal(t, "<blockquote><blockquote>x</blockquote></blockquote>", renderWith(t, opts, ">> x"))

		_, err := render.New(opts).Render(context.Background(), ">>> x")
		require.ErrorIs(t, err, render.ErrTooComplex)
	})

	t.Run("default depth", func(t *testing.T) {
		t.Parallel()

		html, err := render.New(render.DefaultOptions()).Render(context.Background(), strings.Repeat(">", 1000)+" x")
		require.ErrorIs(t, err, render.ErrTooComplex)
		assert.Empty(t, html)
	})

	t.Run("size", func(t *testing.T) {
		t.Parallel()

		opts := render.DefaultOptions()
		opts.MaxInputBytes = 4

		_, err := render.New(opts).Render(context.Background(), "hello")
		require.ErrorIs(t, err, render.ErrInputTooLarge)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := render.New(render.DefaultOptions()).Render(ctx, "text")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRender_Hooks(t *testing.T) {
	t.Parallel()

	t.Run("stages", func(t *testing.T) {
		t.Parallel()

		reg := hook.NewRegistry()
		reg.OnLines(hook.BeforeBlock(mdast.KindHeading), func(lines []string, _ mdast.Block) ([]string, error) {
			return []string{strings.ToUpper(lines[0])}, nil
		})
		reg.OnHTML(hook.AfterBlock(mdast.KindHR), func(html string, _ mdast.Block) (string, error) {
			return "<div>" + html + "</div>", nil
		})
		reg.OnText(hook.MakeHTML, func(html string) (string, error) {
			return html + "<!-- end -->", nil
		})

		opts := render.DefaultOptions()
		opts.Hooks = reg

		assert.Equal(t, "<h1>HI</h1><div><hr></div><!-- end -->", renderWith(t, opts, "# hi\n***"))
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		reg := hook.NewRegistry()
		reg.OnText(hook.AfterParseInline, func(string) (string, error) { return "", boom })

		opts := render.DefaultOptions()
		opts.Hooks = reg

		html, err := render.New(opts).Render(context.Background(), "text")
		require.ErrorIs(t, err, render.ErrHookFailed)
		require.ErrorIs(t, err, boom)
		assert.Empty(t, html)
	})

	t.Run("broken block list", func(t *testing.T) {
		t.Parallel()

		reg := hook.NewRegistry()
		reg.OnBlocks(hook.BeforeOptimizeBlocks, func([]mdast.Block, []string) ([]mdast.Block, error) {
			return nil, nil
		})

		opts := render.DefaultOptions()
		opts.Hooks = reg

		_, err := render.New(opts).Render(context.Background(), "text")
		require.ErrorIs(t, err, render.ErrHookFailed)
		require.ErrorIs(t, err, mdast.ErrPartition)
	})
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	r := render.New(render.DefaultOptions())
	docs := []string{
		"a[^1] b[^2]\n\n[^2]: two\n[^1]: one",
		"# title\n\n- x\n- y",
		"| a | b |\n|---|---|\n| 1 | 2 |",
		"> quote[^q]\n\n[^q]: note",
	}

	want := make([]string, len(docs))
	for i, doc := range docs {
		html, err := r.Render(context.Background(), doc)
		require.NoError(t, err)
		want[i] = html
	}

	var wg sync.WaitGroup
	got := make([]string, len(docs)*8)
	for i := range got {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := r.Render(context.Background(), docs[i%len(docs)])
			assert.NoError(t, err)
			got[i] = html
		}()
	}
	wg.Wait()

	for i, html := range got {
		assert.Equal(t, want[i%len(docs)], html)
	}
}

func TestOptionsFromConfig_Nil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, render.DefaultOptions(), render.OptionsFromConfig(nil))
}

func FuzzRender(f *testing.F) {
	for _, seed := range []string{
		"# h\n\ntext *em* **strong** `code`",
		"- a\n  - b\n\n1. c\n\n> q\n>> qq",
		"| a | b |\n|:-:|--|\n| 1 | |",
		"```go\nx\n```\n    pre\n$$\nm\n$$",
		"[l][r]\n[r]: http://x\n[^f]\n[^f]: note",
		"<table>\n<tr><td>x</td></tr>\n</table>\n<div>raw</div>",
	} {
		f.Add(seed)
	}

	r := render.New(render.DefaultOptions())
	f.Fuzz(func(t *testing.T, in string) {
		html, err := r.Render(context.Background(), in)
		if err != nil {
			require.ErrorIs(t, err, render.ErrTooComplex)
			return
		}
		assert.NotContains(t, html, "\r")
	})
}
