package ledger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/ledger"
)

func TestFootnotes_ReferenceOrder(t *testing.T) {
	t.Parallel()

	var notes ledger.Footnotes
	calls := 0
	render := func(label string) string {
		calls++
		return "<em>" + label + "</em>"
	}

	assert.Equal(t, 1, notes.Reference("b", render))
	assert.Equal(t, 2, notes.Reference("a", render))
	assert.Equal(t, 1, notes.Reference("b", render))
	assert.Equal(t, 2, calls, "label rendered once per id")

	require.Equal(t, 2, notes.Len())
	assert.Equal(t, ledger.Footnote{ID: 1, Label: "b", LabelHTML: "<em>b</em>"}, notes.At(0))
	assert.Equal(t, "a", notes.At(1).Label)
}

func TestFootnotes_Define(t *testing.T) {
	t.Parallel()

	var notes ledger.Footnotes
	assert.False(t, notes.Define("missing", []string{"x"}))

	notes.Reference("n", nil)
	assert.False(t, notes.At(0).Defined())
	assert.Equal(t, "n", notes.At(0).LabelHTML)

	assert.True(t, notes.Define("n", []string{" body"}))
	assert.True(t, notes.At(0).Defined())
	assert.Equal(t, []string{" body"}, notes.At(0).Body)

	assert.True(t, notes.Define("n", nil))
	assert.True(t, notes.At(0).Defined(), "an empty definition still counts")
}

func TestFootnotes_NestedReference(t *testing.T) {
	t.Parallel()

	var notes ledger.Footnotes
	var render func(string) string
	render = func(label string) string {
		if strings.HasPrefix(label, "outer") {
			notes.Reference("inner", render)
		}
		return strings.ToUpper(label)
	}

	assert.Equal(t, 1, notes.Reference("outer", render))
	require.Equal(t, 2, notes.Len())
	assert.Equal(t, "OUTER", notes.At(0).LabelHTML)
	assert.Equal(t, "INNER", notes.At(1).LabelHTML)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	var defs ledger.Definitions
	_, ok := defs.Lookup("x")
	assert.False(t, ok)

	defs.Set("x", ledger.Definition{URL: "http://one"})
	defs.Set("X", ledger.Definition{URL: "http://upper"})
	defs.Set("x", ledger.Definition{URL: "http://two", Title: "t"})

	got, ok := defs.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, ledger.Definition{URL: "http://two", Title: "t"}, got)
	assert.Equal(t, 2, defs.Len())
}
