package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/mdast"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "tab expands to four spaces", input: "\tcode", want: "    code"},
		{name: "crlf becomes lf", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone cr removed", input: "a\rb", want: "ab"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdast.Normalize(tt.input))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{""}, mdast.SplitLines(""))
	assert.Equal(t, []string{"a", "b", ""}, mdast.SplitLines("a\nb\n"))
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, mdast.IsBlank(""))
	assert.True(t, mdast.IsBlank("   "))
	assert.True(t, mdast.IsBlank(" \t "))
	assert.False(t, mdast.IsBlank("  x "))
}

func TestLeadingSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", mdast.LeadingSpace("abc"))
	assert.Equal(t, "   ", mdast.LeadingSpace("   - item"))
	assert.Equal(t, "  ", mdast.LeadingSpace("  "))
}

func TestValidatePartition(t *testing.T) {
	t.Parallel()

	ok := []mdast.Block{
		{Kind: mdast.KindNormal, Start: 0, End: 1},
		{Kind: mdast.KindList, Start: 2, End: 2},
	}
	require.NoError(t, mdast.ValidatePartition(ok, 3))

	gap := []mdast.Block{
		{Kind: mdast.KindNormal, Start: 0, End: 0},
		{Kind: mdast.KindList, Start: 2, End: 2},
	}
	require.ErrorIs(t, mdast.ValidatePartition(gap, 3), mdast.ErrPartition)

	short := []mdast.Block{{Kind: mdast.KindNormal, Start: 0, End: 0}}
	require.ErrorIs(t, mdast.ValidatePartition(short, 2), mdast.ErrPartition)

	inverted := []mdast.Block{{Kind: mdast.KindNormal, Start: 0, End: -1}}
	require.ErrorIs(t, mdast.ValidatePartition(inverted, 0), mdast.ErrPartition)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "table", mdast.KindTable.String())
	assert.Equal(t, "headingUnderline", mdast.KindUnderlineHeading.String())
	assert.Equal(t, "unknown", mdast.Kind(200).String())
	assert.Len(t, mdast.Kinds(), 15)
	assert.True(t, mdast.KindList.Sticky())
	assert.False(t, mdast.KindHeading.Sticky())
}

func TestBlockClone(t *testing.T) {
	t.Parallel()

	b := mdast.Block{Kind: mdast.KindTable, Table: mdast.TableInfo{Ignored: []int{1}, Aligns: []mdast.Align{mdast.AlignLeft}}}
	c := b.Clone()
	c.Table.Ignored[0] = 5
	assert.Equal(t, 1, b.Table.Ignored[0])
	assert.Equal(t, "table[0:0]", b.String())
}
