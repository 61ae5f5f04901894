// Package mdast defines the block model shared by the segmenter, the
// optimizer and the block renderers.
package mdast

import (
	"errors"
	"fmt"
)

// MarkerKind distinguishes ordered from unordered list markers.
type MarkerKind uint8

const (
	// MarkerUnordered is a "-", "+" or "*" bullet.
	MarkerUnordered MarkerKind = iota
	// MarkerOrdered is a "N." numeral.
	MarkerOrdered
)

// Tag returns the HTML list element for the marker kind.
func (m MarkerKind) Tag() string {
	if m == MarkerOrdered {
		return "ol"
	}
	return "ul"
}

// Align is a table column alignment.
type Align uint8

// Column alignments.
const (
	AlignNone Align = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// String returns the value used for the HTML align attribute.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return ""
	}
}

// ListInfo is the payload of a KindList block.
type ListInfo struct {
	// Indent is the width of the leading whitespace before the first marker.
	Indent int
	Marker MarkerKind
	// Width is the width of the marker plus the whitespace after it.
	Width int
}

// TableInfo is the payload of a KindTable block.
type TableInfo struct {
	// Ignored holds row offsets, relative to the block start, of delimiter rows.
	Ignored []int
	Aligns  []Align
	// Next is the offset the next row of the table will occupy.
	Next int
}

// CodeInfo is the payload of a KindCode block.
type CodeInfo struct {
	// Indent is the whitespace before the opening fence.
	Indent string
	// Fence is the exact opening fence run, e.g. "```" or "~~~~".
	Fence string
	// Info is the text after the fence.
	Info string
	// AfterList is set when the fence opened inside a list item.
	AfterList bool
}

// FootnoteInfo is the payload of a KindFootnoteDef block.
type FootnoteInfo struct {
	// Indent is the column continuation lines must reach.
	Indent int
	Label  string
}

// Block is a contiguous, inclusive range of lines of a single kind.
// Only the payload field matching Kind is meaningful.
type Block struct {
	Kind  Kind
	Start int
	End   int

	List     ListInfo
	Table    TableInfo
	Code     CodeInfo
	Footnote FootnoteInfo

	// Level is the heading level for heading kinds.
	Level int
	// Tag is the container element name for KindContainerHTML.
	Tag string
	// Inline renders a KindNormal block without a paragraph wrapper.
	Inline bool
}

// Len returns the number of lines in the block.
func (b Block) Len() int {
	return b.End - b.Start + 1
}

// Lines returns the slice of lines covered by the block.
// The block must lie within lines.
func (b Block) Lines(lines []string) []string {
	return lines[b.Start : b.End+1]
}

// Clone returns a copy of the block that shares no slices with b.
func (b Block) Clone() Block {
	out := b
	if b.Table.Ignored != nil {
		out.Table.Ignored = append([]int(nil), b.Table.Ignored...)
	}
	if b.Table.Aligns != nil {
		out.Table.Aligns = append([]Align(nil), b.Table.Aligns...)
	}
	return out
}

// String implements fmt.Stringer for debugging output.
func (b Block) String() string {
	return fmt.Sprintf("%s[%d:%d]", b.Kind, b.Start, b.End)
}

// ErrPartition is returned when a block list does not cover a line range
// exactly once.
var ErrPartition = errors.New("blocks do not partition lines")

// ValidatePartition checks that blocks cover [0, lineCount) in order with
// no gaps and no overlaps.
func ValidatePartition(blocks []Block, lineCount int) error {
	next := 0
	for i, b := range blocks {
		if b.Start != next {
			return fmt.Errorf("%w: block %d (%s) starts at %d, want %d", ErrPartition, i, b, b.Start, next)
		}
		if b.End < b.Start {
			return fmt.Errorf("%w: block %d (%s) ends before it starts", ErrPartition, i, b)
		}
		next = b.End + 1
	}
	if next != lineCount {
		return fmt.Errorf("%w: covered %d of %d lines", ErrPartition, next, lineCount)
	}
	return nil
}
