package mdast

// Kind classifies a block of lines.
type Kind uint8

// Block kinds. KindNormal doubles as the neutral "nothing open" state of the
// segmenter.
const (
	KindNormal Kind = iota
	KindCode
	KindRawHTMLBlock
	KindRawHTMLTag
	KindIndentedCode
	KindMath
	KindContainerHTML
	KindFootnoteDef
	KindLinkDef
	KindQuote
	KindTable
	KindHeading
	KindUnderlineHeading
	KindHR
	KindList
)

//nolint:gochecknoglobals // Read-only name table.
var kindNames = [...]string{
	KindNormal:           "normal",
	KindCode:             "code",
	KindRawHTMLBlock:     "rawHtmlBlock",
	KindRawHTMLTag:       "rawHtmlTag",
	KindIndentedCode:     "indentedCode",
	KindMath:             "math",
	KindContainerHTML:    "containerHtml",
	KindFootnoteDef:      "footnoteDef",
	KindLinkDef:          "linkDef",
	KindQuote:            "quote",
	KindTable:            "table",
	KindHeading:          "heading1Line",
	KindUnderlineHeading: "headingUnderline",
	KindHR:               "hr",
	KindList:             "list",
}

// String returns the lower camel case name of the kind, as used in hook
// stage names.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds returns every block kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Sticky reports whether an open block of this kind gets the first look at
// the next line before the general matcher chain runs.
func (k Kind) Sticky() bool {
	switch k {
	case KindCode, KindRawHTMLBlock, KindRawHTMLTag, KindIndentedCode, KindMath,
		KindContainerHTML, KindFootnoteDef, KindQuote, KindTable, KindList:
		return true
	default:
		return false
	}
}
