package document

import (
	"fmt"
	"html"
	"strings"
)

// Serialize flattens the tree to the persisted HTML-superset markup. The
// output is canonical: Parse(Serialize(doc)) reproduces doc exactly for every
// supported node kind, and the serialization is the only representation that
// is ever stored.
func Serialize(doc *Node) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, child := range doc.Children {
		writeBlock(&b, child)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p")
		writeBlockAttrs(b, n)
		b.WriteString(">")
		writeInline(b, n.Children)
		b.WriteString("</p>")

	case KindHeading:
		level := n.Level
		if level < 1 || level > 3 {
			level = 1
		}
		fmt.Fprintf(b, "<h%d", level)
		writeBlockAttrs(b, n)
		b.WriteString(">")
		writeInline(b, n.Children)
		fmt.Fprintf(b, "</h%d>", level)

	case KindBlockquote:
		b.WriteString("<blockquote")
		writeBlockAttrs(b, n)
		b.WriteString(">")
		for _, c := range n.Children {
			writeBlock(b, c)
		}
		b.WriteString("</blockquote>")

	case KindBulletList, KindOrderedList:
		tag := "ul"
		if n.Kind == KindOrderedList {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">")
		for _, item := range n.Children {
			b.WriteString("<li>")
			for _, c := range item.Children {
				writeBlock(b, c)
			}
			b.WriteString("</li>")
		}
		b.WriteString("</" + tag + ">")

	case KindHorizontalRule:
		b.WriteString("<hr>")

	case KindPullQuote:
		b.WriteString(`<div data-pull-quote="" class="pull-quote"`)
		writeBlockAttrs(b, n)
		b.WriteString(`><p class="pull-quote-content">`)
		writeInline(b, n.Children)
		b.WriteString("</p></div>")

	case KindImage:
		fmt.Fprintf(b, `<img src="%s" alt="%s" class="max-w-full h-auto rounded-lg">`,
			html.EscapeString(n.Src), html.EscapeString(n.Alt))

	case KindImageWithCaption:
		b.WriteString(`<figure data-image-with-caption="" class="image-with-caption">`)
		fmt.Fprintf(b, `<img src="%s" alt="%s" class="max-w-full h-auto rounded-lg">`,
			html.EscapeString(n.Src), html.EscapeString(n.Alt))
		if n.Caption != "" {
			fmt.Fprintf(b, `<figcaption class="image-caption">%s</figcaption>`, html.EscapeString(n.Caption))
		}
		b.WriteString("</figure>")

	case KindHTMLEmbed:
		b.WriteString(`<div data-html-embed=""`)
		if n.EmbedCode != "" {
			fmt.Fprintf(b, ` data-embed-code="%s"`, html.EscapeString(n.EmbedCode))
		}
		b.WriteString(` class="html-embed-wrapper"><div class="html-embed-content"></div></div>`)

	default:
		// Inline nodes at the top level are wrapped in a paragraph rather
		// than dropped.
		b.WriteString("<p>")
		writeInline(b, []*Node{n})
		b.WriteString("</p>")
	}
}

func writeBlockAttrs(b *strings.Builder, n *Node) {
	if n.Dir != "" {
		fmt.Fprintf(b, ` dir="%s"`, html.EscapeString(n.Dir))
	}
	if n.Align != "" {
		fmt.Fprintf(b, ` style="text-align: %s"`, html.EscapeString(n.Align))
	}
}

func writeInline(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			writeText(b, n)
		case KindFootnote:
			writeFootnote(b, n)
		}
	}
}

func writeText(b *strings.Builder, n *Node) {
	marks := normalizeMarks(n.Marks)
	for _, m := range marks {
		switch m.Type {
		case MarkLink:
			fmt.Fprintf(b, `<a href="%s" target="_blank" rel="noopener noreferrer">`, html.EscapeString(m.Href))
		case MarkBold:
			b.WriteString("<strong>")
		case MarkItalic:
			b.WriteString("<em>")
		case MarkUnderline:
			b.WriteString("<u>")
		case MarkHighlight:
			b.WriteString("<mark>")
		}
	}
	b.WriteString(html.EscapeString(n.Text))
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case MarkLink:
			b.WriteString("</a>")
		case MarkBold:
			b.WriteString("</strong>")
		case MarkItalic:
			b.WriteString("</em>")
		case MarkUnderline:
			b.WriteString("</u>")
		case MarkHighlight:
			b.WriteString("</mark>")
		}
	}
}

func writeFootnote(b *strings.Builder, n *Node) {
	b.WriteString(`<sup data-footnote="" class="footnote-ref"`)
	if n.FootnoteText != "" {
		fmt.Fprintf(b, ` data-footnote-text="%s"`, html.EscapeString(n.FootnoteText))
	}
	fmt.Fprintf(b, ` data-footnote-number="%d">`, n.FootnoteNumber)
	fmt.Fprintf(b, `<a href="#fn-%d" class="footnote-link">[%d]</a></sup>`, n.FootnoteNumber, n.FootnoteNumber)
}
