package document

import "errors"

var ErrNoBlock = errors.New("document: selection outside document")

// Selection addresses a top-level block and a rune range inside its inline
// content. Atomic inline nodes (footnotes) occupy one position each.
type Selection struct {
	Block int
	Start int
	End   int
}

// OnChange receives the serialized markup after every successful command.
// The markup string is the only persisted form of the document.
type OnChange func(markup string)

// Editor holds a mutable document tree and applies toolbar commands to it.
// Every command is safe to invoke repeatedly: toggles are involutive and
// setters converge.
type Editor struct {
	doc      *Node
	sel      Selection
	onChange OnChange
}

func NewEditor(onChange OnChange) *Editor {
	return &Editor{doc: NewDoc(), onChange: onChange}
}

// LoadEditor resumes editing from persisted markup.
func LoadEditor(markup string, onChange OnChange) (*Editor, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	if len(doc.Children) == 0 {
		doc.Children = append(doc.Children, &Node{Kind: KindParagraph})
	}
	return &Editor{doc: doc, onChange: onChange}, nil
}

func (e *Editor) Doc() *Node { return e.doc }

func (e *Editor) Markup() string { return Serialize(e.doc) }

func (e *Editor) Selection() Selection { return e.sel }

func (e *Editor) Select(block, start, end int) {
	if end < start {
		start, end = end, start
	}
	e.sel = Selection{Block: block, Start: start, End: end}
}

func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(Serialize(e.doc))
	}
}

func (e *Editor) block() (*Node, error) {
	if e.sel.Block < 0 || e.sel.Block >= len(e.doc.Children) {
		return nil, ErrNoBlock
	}
	return e.doc.Children[e.sel.Block], nil
}

// inlineHost resolves the node whose children are the inline content the
// selection offsets refer to. Containers delegate to their first
// text-bearing block.
func inlineHost(block *Node) *Node {
	switch block.Kind {
	case KindParagraph, KindHeading, KindPullQuote:
		return block
	case KindBlockquote, KindListItem:
		for _, c := range block.Children {
			if h := inlineHost(c); h != nil {
				return h
			}
		}
	case KindBulletList, KindOrderedList:
		for _, item := range block.Children {
			if h := inlineHost(item); h != nil {
				return h
			}
		}
	}
	return nil
}

// ---- text and marks ----

// InsertText inserts at the caret, inheriting the marks in effect there,
// and moves the caret past the inserted text.
func (e *Editor) InsertText(text string) error {
	if text == "" {
		return nil
	}
	block, err := e.block()
	if err != nil {
		return err
	}
	host := inlineHost(block)
	if host == nil {
		return ErrNoBlock
	}
	marks := marksAt(host, e.sel.Start)
	spliceText(host, e.sel.Start, text, marks)
	width := len([]rune(text))
	e.sel.Start += width
	e.sel.End = e.sel.Start
	e.emit()
	return nil
}

func (e *Editor) ToggleBold() error      { return e.toggleMark(Mark{Type: MarkBold}) }
func (e *Editor) ToggleItalic() error    { return e.toggleMark(Mark{Type: MarkItalic}) }
func (e *Editor) ToggleUnderline() error { return e.toggleMark(Mark{Type: MarkUnderline}) }
func (e *Editor) ToggleHighlight() error { return e.toggleMark(Mark{Type: MarkHighlight}) }

// SetLink applies a link over the selection, replacing any existing link.
func (e *Editor) SetLink(href string) error {
	return e.mapMarks(func(marks []Mark) []Mark {
		out := removeMark(marks, MarkLink)
		return append(out, Mark{Type: MarkLink, Href: href})
	})
}

func (e *Editor) Unlink() error {
	return e.mapMarks(func(marks []Mark) []Mark {
		return removeMark(marks, MarkLink)
	})
}

func (e *Editor) toggleMark(m Mark) error {
	block, err := e.block()
	if err != nil {
		return err
	}
	host := inlineHost(block)
	if host == nil || e.sel.Start == e.sel.End {
		return nil
	}
	present := markEverywhere(host, e.sel.Start, e.sel.End, m.Type)
	applyMarkRange(host, e.sel.Start, e.sel.End, func(marks []Mark) []Mark {
		if present {
			return removeMark(marks, m.Type)
		}
		if hasMarkType(marks, m.Type) {
			return marks
		}
		return append(append([]Mark(nil), marks...), m)
	})
	e.emit()
	return nil
}

func (e *Editor) mapMarks(fn func([]Mark) []Mark) error {
	block, err := e.block()
	if err != nil {
		return err
	}
	host := inlineHost(block)
	if host == nil || e.sel.Start == e.sel.End {
		return nil
	}
	applyMarkRange(host, e.sel.Start, e.sel.End, fn)
	e.emit()
	return nil
}

// ---- block commands ----

func (e *Editor) SetHeading(level int) error {
	if level < 1 || level > 3 {
		level = 1
	}
	block, err := e.block()
	if err != nil {
		return err
	}
	block.Kind = KindHeading
	block.Level = level
	e.emit()
	return nil
}

func (e *Editor) SetParagraph() error {
	block, err := e.block()
	if err != nil {
		return err
	}
	block.Kind = KindParagraph
	block.Level = 0
	e.emit()
	return nil
}

// ToggleBlockquote wraps the current block, or splices a blockquote's
// children back to the top level when the block already is one.
func (e *Editor) ToggleBlockquote() error {
	block, err := e.block()
	if err != nil {
		return err
	}
	i := e.sel.Block
	if block.Kind == KindBlockquote {
		e.doc.Children = spliceBlocks(e.doc.Children, i, block.Children)
	} else {
		e.doc.Children[i] = &Node{Kind: KindBlockquote, Children: []*Node{block}}
	}
	e.emit()
	return nil
}

// TogglePullQuote converts between paragraph and pull-quote in place,
// keeping the inline content.
func (e *Editor) TogglePullQuote() error {
	block, err := e.block()
	if err != nil {
		return err
	}
	switch block.Kind {
	case KindPullQuote:
		block.Kind = KindParagraph
	case KindParagraph, KindHeading:
		block.Kind = KindPullQuote
		block.Level = 0
	}
	e.emit()
	return nil
}

func (e *Editor) ToggleBulletList() error  { return e.toggleList(KindBulletList) }
func (e *Editor) ToggleOrderedList() error { return e.toggleList(KindOrderedList) }

func (e *Editor) toggleList(kind Kind) error {
	block, err := e.block()
	if err != nil {
		return err
	}
	i := e.sel.Block
	switch block.Kind {
	case kind:
		var lifted []*Node
		for _, item := range block.Children {
			lifted = append(lifted, item.Children...)
		}
		e.doc.Children = spliceBlocks(e.doc.Children, i, lifted)
	case KindBulletList, KindOrderedList:
		block.Kind = kind
	default:
		item := &Node{Kind: KindListItem, Children: []*Node{block}}
		e.doc.Children[i] = &Node{Kind: kind, Children: []*Node{item}}
	}
	e.emit()
	return nil
}

// SetTextAlign sets the block alignment; an empty value clears it.
func (e *Editor) SetTextAlign(align string) error {
	block, err := e.block()
	if err != nil {
		return err
	}
	switch align {
	case "", "left", "center", "right", "justify":
		block.Align = align
	}
	e.emit()
	return nil
}

// ToggleDirection flips the block's explicit dir attribute. A block without
// one becomes rtl first, so mixed-direction documents start from the
// Arabic side.
func (e *Editor) ToggleDirection() error {
	block, err := e.block()
	if err != nil {
		return err
	}
	if block.Dir == "rtl" {
		block.Dir = "ltr"
	} else {
		block.Dir = "rtl"
	}
	e.emit()
	return nil
}

// ---- insertions ----

// InsertFootnote numbers from the count of footnotes already present.
// Numbers are never reassigned afterwards, so deleting a footnote leaves a
// gap on purpose.
func (e *Editor) InsertFootnote(text string) error {
	block, err := e.block()
	if err != nil {
		return err
	}
	host := inlineHost(block)
	if host == nil {
		return ErrNoBlock
	}
	note := &Node{
		Kind:           KindFootnote,
		FootnoteText:   text,
		FootnoteNumber: CountFootnotes(e.doc) + 1,
	}
	spliceNode(host, e.sel.Start, note)
	e.sel.Start++
	e.sel.End = e.sel.Start
	e.emit()
	return nil
}

// InsertImage picks the captioned variant only when alt or caption is
// supplied, otherwise a bare image node goes in.
func (e *Editor) InsertImage(src, alt, caption string) error {
	if _, err := e.block(); err != nil {
		return err
	}
	node := &Node{Kind: KindImage, Src: src, Alt: alt}
	if alt != "" || caption != "" {
		node.Kind = KindImageWithCaption
		node.Caption = caption
	}
	e.insertBlockAfter(node)
	e.emit()
	return nil
}

// InsertHTMLEmbed stores the raw HTML verbatim. The payload is trusted at
// this boundary, never re-validated downstream.
func (e *Editor) InsertHTMLEmbed(code string) error {
	if _, err := e.block(); err != nil {
		return err
	}
	e.insertBlockAfter(&Node{Kind: KindHTMLEmbed, EmbedCode: code})
	e.emit()
	return nil
}

func (e *Editor) InsertHorizontalRule() error {
	if _, err := e.block(); err != nil {
		return err
	}
	e.insertBlockAfter(&Node{Kind: KindHorizontalRule})
	e.emit()
	return nil
}

func (e *Editor) insertBlockAfter(node *Node) {
	i := e.sel.Block + 1
	children := append(e.doc.Children, nil)
	copy(children[i+1:], children[i:])
	children[i] = node
	e.doc.Children = children
	e.sel = Selection{Block: i}
}

// ---- inline range machinery ----

func inlineWidth(n *Node) int {
	if n.Kind == KindText {
		return len([]rune(n.Text))
	}
	return 1
}

func marksAt(host *Node, offset int) []Mark {
	pos := 0
	for _, c := range host.Children {
		w := inlineWidth(c)
		if offset <= pos+w && c.Kind == KindText {
			return c.Marks
		}
		pos += w
	}
	return nil
}

func markEverywhere(host *Node, start, end int, t MarkType) bool {
	pos := 0
	covered := false
	for _, c := range host.Children {
		w := inlineWidth(c)
		from, to := pos, pos+w
		pos += w
		if to <= start || from >= end {
			continue
		}
		if c.Kind != KindText {
			continue
		}
		covered = true
		if !hasMarkType(c.Marks, t) {
			return false
		}
	}
	return covered
}

// applyMarkRange rewrites the host's inline children, splitting text nodes
// at the range boundaries and passing covered segments through fn. Adjacent
// text nodes with equal marks are re-merged afterwards.
func applyMarkRange(host *Node, start, end int, fn func([]Mark) []Mark) {
	var out []*Node
	pos := 0
	for _, c := range host.Children {
		w := inlineWidth(c)
		from, to := pos, pos+w
		pos += w
		if c.Kind != KindText || to <= start || from >= end {
			out = append(out, c)
			continue
		}
		runes := []rune(c.Text)
		lo := max(start-from, 0)
		hi := min(end-from, len(runes))
		if lo > 0 {
			out = append(out, &Node{Kind: KindText, Text: string(runes[:lo]), Marks: c.Marks})
		}
		out = append(out, &Node{
			Kind:  KindText,
			Text:  string(runes[lo:hi]),
			Marks: normalizeMarks(fn(c.Marks)),
		})
		if hi < len(runes) {
			out = append(out, &Node{Kind: KindText, Text: string(runes[hi:]), Marks: c.Marks})
		}
	}
	host.Children = mergeAdjacentText(out)
}

// spliceText inserts text at the offset, splitting the text node under it.
func spliceText(host *Node, offset int, text string, marks []Mark) {
	spliceNode(host, offset, &Node{Kind: KindText, Text: text, Marks: normalizeMarks(marks)})
	host.Children = mergeAdjacentText(host.Children)
}

func spliceNode(host *Node, offset int, node *Node) {
	var out []*Node
	pos := 0
	inserted := false
	for _, c := range host.Children {
		w := inlineWidth(c)
		if !inserted && offset <= pos+w {
			if c.Kind == KindText && offset > pos && offset < pos+w {
				runes := []rune(c.Text)
				cut := offset - pos
				out = append(out,
					&Node{Kind: KindText, Text: string(runes[:cut]), Marks: c.Marks},
					node,
					&Node{Kind: KindText, Text: string(runes[cut:]), Marks: c.Marks},
				)
			} else if offset <= pos {
				out = append(out, node, c)
			} else {
				out = append(out, c, node)
			}
			inserted = true
			pos += w
			continue
		}
		out = append(out, c)
		pos += w
	}
	if !inserted {
		out = append(out, node)
	}
	host.Children = out
}

func mergeAdjacentText(children []*Node) []*Node {
	var out []*Node
	for _, c := range children {
		if c.Kind == KindText && c.Text == "" {
			continue
		}
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Kind == KindText && c.Kind == KindText && marksEqual(last.Marks, c.Marks) {
				last.Text += c.Text
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func spliceBlocks(blocks []*Node, i int, replacement []*Node) []*Node {
	out := make([]*Node, 0, len(blocks)-1+len(replacement))
	out = append(out, blocks[:i]...)
	out = append(out, replacement...)
	return append(out, blocks[i+1:]...)
}

func removeMark(marks []Mark, t MarkType) []Mark {
	var out []Mark
	for _, m := range marks {
		if m.Type != t {
			out = append(out, m)
		}
	}
	return out
}

func hasMarkType(marks []Mark, t MarkType) bool {
	for _, m := range marks {
		if m.Type == t {
			return true
		}
	}
	return false
}
