package document

// Kind identifies a node variant in the document tree.
type Kind string

const (
	KindDoc              Kind = "doc"
	KindParagraph        Kind = "paragraph"
	KindHeading          Kind = "heading"
	KindBlockquote       Kind = "blockquote"
	KindBulletList       Kind = "bulletList"
	KindOrderedList      Kind = "orderedList"
	KindListItem         Kind = "listItem"
	KindHorizontalRule   Kind = "horizontalRule"
	KindPullQuote        Kind = "pullQuote"
	KindImage            Kind = "image"
	KindImageWithCaption Kind = "imageWithCaption"
	KindHTMLEmbed        Kind = "htmlEmbed"
	KindFootnote         Kind = "footnote"
	KindText             Kind = "text"
)

// MarkType identifies an inline formatting mark.
type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkHighlight MarkType = "highlight"
	MarkLink      MarkType = "link"
)

// markOrder is the canonical outermost-to-innermost nesting used by the
// serializer; the parser normalizes to it so round-tripping is stable.
var markOrder = []MarkType{MarkLink, MarkBold, MarkItalic, MarkUnderline, MarkHighlight}

// Mark is an inline formatting annotation on a text node. Href is only
// meaningful for link marks; links always open in a new tab.
type Mark struct {
	Type MarkType
	Href string
}

// Node is one unit of the document tree. The set of kinds is closed: the
// serializer and parser both switch exhaustively over it.
//
// Attribute fields are only meaningful for the kinds that declare them:
// Level for headings (1-3); Align and Dir for block nodes; Src/Alt/Caption
// for images; EmbedCode for raw HTML embeds; FootnoteText/FootnoteNumber for
// footnote references; Text and Marks for text nodes.
type Node struct {
	Kind Kind

	Level int
	Align string // "", "left", "center", "right", "justify"
	Dir   string // "", "ltr", "rtl"; explicit override, independent of the document baseline

	Src     string
	Alt     string
	Caption string

	EmbedCode string

	FootnoteText   string
	FootnoteNumber int

	Text  string
	Marks []Mark

	Children []*Node
}

// NewDoc returns an empty document containing a single empty paragraph, the
// editor's starting state.
func NewDoc() *Node {
	return &Node{Kind: KindDoc, Children: []*Node{{Kind: KindParagraph}}}
}

// IsBlock reports whether the kind is a top-level block node.
func (k Kind) IsBlock() bool {
	switch k {
	case KindParagraph, KindHeading, KindBlockquote, KindBulletList,
		KindOrderedList, KindHorizontalRule, KindPullQuote,
		KindImage, KindImageWithCaption, KindHTMLEmbed:
		return true
	}
	return false
}

// IsAtom reports whether the node has no editable internal content and is
// selected and deleted as a single unit.
func (k Kind) IsAtom() bool {
	switch k {
	case KindImage, KindImageWithCaption, KindHTMLEmbed, KindFootnote, KindHorizontalRule:
		return true
	}
	return false
}

// HasMark reports whether the text node carries a mark of the given type.
func (n *Node) HasMark(t MarkType) bool {
	for _, m := range n.Marks {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Walk visits every node in the tree depth-first. Returning false from fn
// stops the descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CountFootnotes returns the number of footnote nodes in the document.
// Footnote numbers are assigned at insertion time from this count and are
// never renumbered, so deleting an earlier footnote leaves a gap.
func CountFootnotes(n *Node) int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.Kind == KindFootnote {
			count++
		}
		return true
	})
	return count
}

// normalizeMarks sorts marks into canonical nesting order and drops
// duplicates; the parser calls it on every text node it produces.
func normalizeMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]Mark, 0, len(marks))
	for _, t := range markOrder {
		for _, m := range marks {
			if m.Type == t {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// marksEqual compares two mark sets after canonical ordering.
func marksEqual(a, b []Mark) bool {
	na, nb := normalizeMarks(a), normalizeMarks(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}
