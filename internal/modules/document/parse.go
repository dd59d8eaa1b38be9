package document

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var textAlignPattern = regexp.MustCompile(`text-align:\s*(left|center|right|justify)`)

// Parse rebuilds a document tree from its persisted markup. Unknown elements
// are descended into rather than rejected: the renderer is the component that
// must tolerate arbitrary markup, the parser only needs to be lossless for
// trees the serializer produced.
func Parse(markup string) (*Node, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	body := findElement(root, atom.Body)
	doc := &Node{Kind: KindDoc}
	if body == nil {
		return doc, nil
	}

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		parseBlock(c, doc)
	}
	return doc, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func parseBlock(n *html.Node, parent *Node) {
	switch n.Type {
	case html.TextNode:
		// Canonical markup carries no text between blocks; tolerate stray
		// text by wrapping it in a paragraph.
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		p := &Node{Kind: KindParagraph}
		appendText(p, n.Data, nil)
		parent.Children = append(parent.Children, p)
		return
	case html.ElementNode:
	default:
		return
	}

	attrs := attrMap(n)

	switch {
	case n.DataAtom == atom.P:
		block := &Node{Kind: KindParagraph}
		applyBlockAttrs(block, attrs)
		parseInlineChildren(n, block)
		parent.Children = append(parent.Children, block)

	case n.DataAtom == atom.H1 || n.DataAtom == atom.H2 || n.DataAtom == atom.H3:
		block := &Node{Kind: KindHeading, Level: int(n.Data[1] - '0')}
		applyBlockAttrs(block, attrs)
		parseInlineChildren(n, block)
		parent.Children = append(parent.Children, block)

	case n.DataAtom == atom.Blockquote:
		block := &Node{Kind: KindBlockquote}
		applyBlockAttrs(block, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parseBlock(c, block)
		}
		parent.Children = append(parent.Children, block)

	case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
		kind := KindBulletList
		if n.DataAtom == atom.Ol {
			kind = KindOrderedList
		}
		list := &Node{Kind: kind}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom != atom.Li {
				continue
			}
			item := &Node{Kind: KindListItem}
			for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
				parseBlock(lc, item)
			}
			list.Children = append(list.Children, item)
		}
		parent.Children = append(parent.Children, list)

	case n.DataAtom == atom.Hr:
		parent.Children = append(parent.Children, &Node{Kind: KindHorizontalRule})

	case hasAttr(attrs, "data-pull-quote"):
		block := &Node{Kind: KindPullQuote}
		applyBlockAttrs(block, attrs)
		parseInlineChildren(n, block)
		parent.Children = append(parent.Children, block)

	case hasAttr(attrs, "data-html-embed"):
		parent.Children = append(parent.Children, &Node{
			Kind:      KindHTMLEmbed,
			EmbedCode: attrs["data-embed-code"],
		})

	case hasAttr(attrs, "data-image-with-caption") || n.DataAtom == atom.Figure:
		block := &Node{Kind: KindImageWithCaption}
		if img := findElement(n, atom.Img); img != nil {
			imgAttrs := attrMap(img)
			block.Src = imgAttrs["src"]
			block.Alt = imgAttrs["alt"]
		}
		if caption := findElement(n, atom.Figcaption); caption != nil {
			block.Caption = textContent(caption)
		}
		parent.Children = append(parent.Children, block)

	case n.DataAtom == atom.Img:
		parent.Children = append(parent.Children, &Node{
			Kind: KindImage,
			Src:  attrs["src"],
			Alt:  attrs["alt"],
		})

	default:
		// Unknown wrapper: descend. Inline content leaking to this level is
		// gathered into a paragraph so nothing is silently lost.
		if isInlineElement(n) {
			block := &Node{Kind: KindParagraph}
			parseInline(n, nil, block)
			if len(block.Children) > 0 {
				parent.Children = append(parent.Children, block)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parseBlock(c, parent)
		}
	}
}

// parseInlineChildren collects the inline content of a block element. Any
// nested paragraph wrappers (the pull-quote inner <p>) are flattened.
func parseInlineChildren(n *html.Node, block *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.P {
			parseInlineChildren(c, block)
			continue
		}
		parseInline(c, nil, block)
	}
}

func parseInline(n *html.Node, marks []Mark, block *Node) {
	switch n.Type {
	case html.TextNode:
		appendText(block, n.Data, marks)
		return
	case html.ElementNode:
	default:
		return
	}

	attrs := attrMap(n)
	if hasAttr(attrs, "data-footnote") {
		number := 1
		if v, err := strconv.Atoi(attrs["data-footnote-number"]); err == nil {
			number = v
		}
		block.Children = append(block.Children, &Node{
			Kind:           KindFootnote,
			FootnoteText:   attrs["data-footnote-text"],
			FootnoteNumber: number,
		})
		return
	}

	childMarks := marks
	switch n.DataAtom {
	case atom.Strong, atom.B:
		childMarks = appendMark(marks, Mark{Type: MarkBold})
	case atom.Em, atom.I:
		childMarks = appendMark(marks, Mark{Type: MarkItalic})
	case atom.U:
		childMarks = appendMark(marks, Mark{Type: MarkUnderline})
	case atom.Mark:
		childMarks = appendMark(marks, Mark{Type: MarkHighlight})
	case atom.A:
		childMarks = appendMark(marks, Mark{Type: MarkLink, Href: attrs["href"]})
	case atom.Br:
		appendText(block, "\n", marks)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parseInline(c, childMarks, block)
	}
}

// appendText adds a text node, merging with the previous sibling when the
// mark sets match so parse output is canonical.
func appendText(block *Node, text string, marks []Mark) {
	if text == "" {
		return
	}
	normalized := normalizeMarks(marks)
	if len(block.Children) > 0 {
		last := block.Children[len(block.Children)-1]
		if last.Kind == KindText && marksEqual(last.Marks, normalized) {
			last.Text += text
			return
		}
	}
	block.Children = append(block.Children, &Node{
		Kind:  KindText,
		Text:  text,
		Marks: normalized,
	})
}

func appendMark(marks []Mark, m Mark) []Mark {
	out := make([]Mark, len(marks), len(marks)+1)
	copy(out, marks)
	for _, existing := range out {
		if existing.Type == m.Type {
			return out
		}
	}
	return append(out, m)
}

func applyBlockAttrs(block *Node, attrs map[string]string) {
	if dir := attrs["dir"]; dir == "ltr" || dir == "rtl" {
		block.Dir = dir
	}
	if style, ok := attrs["style"]; ok {
		if m := textAlignPattern.FindStringSubmatch(style); m != nil {
			block.Align = m[1]
		}
	}
}

func isInlineElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.A, atom.Strong, atom.B, atom.Em, atom.I, atom.U, atom.Mark,
		atom.Span, atom.Sup, atom.Sub, atom.Code, atom.Br:
		return true
	}
	return false
}

func attrMap(n *html.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}
	return attrs
}

func hasAttr(attrs map[string]string, key string) bool {
	_, ok := attrs[key]
	return ok
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
