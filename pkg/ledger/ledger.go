// Package ledger holds the document-scoped reference state of one render:
// footnotes in first-reference order and link reference definitions.
package ledger

// Footnote is one entry of the footnote ledger.
type Footnote struct {
	// ID is the 1-based display number, assigned on first reference.
	ID    int
	Label string
	// LabelHTML is the rendered label, used when no body is defined.
	LabelHTML string
	// Body holds the raw definition lines. It is nil until a definition
	// is recorded.
	Body []string
}

// Defined reports whether a definition was recorded for the footnote.
func (f Footnote) Defined() bool {
	return f.Body != nil
}

// Footnotes maps footnote labels to ids in first-reference order.
// The zero value is ready to use.
type Footnotes struct {
	byLabel map[string]int
	entries []Footnote
}

// Reference returns the id for label, assigning the next id on first use.
// labelHTML is called only when a new id is assigned.
func (f *Footnotes) Reference(label string, labelHTML func(string) string) int {
	if idx, ok := f.byLabel[label]; ok {
		return f.entries[idx].ID
	}
	if f.byLabel == nil {
		f.byLabel = make(map[string]int)
	}

	entry := Footnote{ID: len(f.entries) + 1, Label: label, LabelHTML: label}
	f.byLabel[label] = len(f.entries)
	f.entries = append(f.entries, entry)

	if labelHTML != nil {
		html := labelHTML(label)
		f.entries[entry.ID-1].LabelHTML = html
	}
	return entry.ID
}

// Define records body for label. Definitions for labels that were never
// referenced are dropped and Define returns false.
func (f *Footnotes) Define(label string, body []string) bool {
	idx, ok := f.byLabel[label]
	if !ok {
		return false
	}
	if body == nil {
		body = []string{}
	}
	f.entries[idx].Body = body
	return true
}

// Len returns the number of referenced footnotes.
func (f *Footnotes) Len() int {
	return len(f.entries)
}

// At returns the footnote with index i, in id order.
func (f *Footnotes) At(i int) Footnote {
	return f.entries[i]
}

// Definition is the target of a link reference definition.
type Definition struct {
	URL   string
	Title string
}

// Definitions maps reference labels to targets. Labels are case-sensitive
// and the last definition of a label wins. The zero value is ready to use.
type Definitions struct {
	targets map[string]Definition
}

// Set records the target for label.
func (d *Definitions) Set(label string, def Definition) {
	if d.targets == nil {
		d.targets = make(map[string]Definition)
	}
	d.targets[label] = def
}

// Lookup returns the target recorded for label.
func (d *Definitions) Lookup(label string) (Definition, bool) {
	def, ok := d.targets[label]
	return def, ok
}

// Len returns the number of distinct labels.
func (d *Definitions) Len() int {
	return len(d.targets)
}
