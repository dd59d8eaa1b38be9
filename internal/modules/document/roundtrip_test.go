package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string, marks ...Mark) *Node {
	n := &Node{Kind: KindText, Text: s}
	if len(marks) > 0 {
		n.Marks = marks
	}
	return n
}

func para(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}

func TestRoundTripBlocks(t *testing.T) {
	docs := map[string]*Node{
		"paragraph": {Kind: KindDoc, Children: []*Node{
			para(text("hello world")),
		}},
		"heading": {Kind: KindDoc, Children: []*Node{
			{Kind: KindHeading, Level: 2, Children: []*Node{text("section")}},
		}},
		"blockquote": {Kind: KindDoc, Children: []*Node{
			{Kind: KindBlockquote, Children: []*Node{
				para(text("quoted")),
				para(text("twice")),
			}},
		}},
		"bullet list": {Kind: KindDoc, Children: []*Node{
			{Kind: KindBulletList, Children: []*Node{
				{Kind: KindListItem, Children: []*Node{para(text("one"))}},
				{Kind: KindListItem, Children: []*Node{para(text("two"))}},
			}},
		}},
		"ordered list": {Kind: KindDoc, Children: []*Node{
			{Kind: KindOrderedList, Children: []*Node{
				{Kind: KindListItem, Children: []*Node{para(text("first"))}},
			}},
		}},
		"horizontal rule": {Kind: KindDoc, Children: []*Node{
			para(text("above")),
			{Kind: KindHorizontalRule},
			para(text("below")),
		}},
		"pull quote": {Kind: KindDoc, Children: []*Node{
			{Kind: KindPullQuote, Children: []*Node{text("a striking line")}},
		}},
		"image": {Kind: KindDoc, Children: []*Node{
			{Kind: KindImage, Src: "https://cdn.example.com/a.jpg", Alt: "a photo"},
		}},
		"image with caption": {Kind: KindDoc, Children: []*Node{
			{Kind: KindImageWithCaption, Src: "https://cdn.example.com/b.jpg", Alt: "scene", Caption: "Old Cairo at dusk"},
		}},
		"block attrs": {Kind: KindDoc, Children: []*Node{
			{Kind: KindParagraph, Dir: "rtl", Align: "center", Children: []*Node{text("مرحبا")}},
			{Kind: KindHeading, Level: 1, Dir: "ltr", Children: []*Node{text("title")}},
		}},
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			markup := Serialize(doc)
			parsed, err := Parse(markup)
			require.NoError(t, err)
			assert.Equal(t, doc, parsed)
			assert.Equal(t, markup, Serialize(parsed))
		})
	}
}

func TestRoundTripMarks(t *testing.T) {
	doc := &Node{Kind: KindDoc, Children: []*Node{
		para(
			text("plain "),
			text("bold", Mark{Type: MarkBold}),
			text(" and "),
			text("both", Mark{Type: MarkBold}, Mark{Type: MarkItalic}),
			text(" then "),
			text("linked", Mark{Type: MarkLink, Href: "https://example.com"}, Mark{Type: MarkBold}),
		),
		para(
			text("underlined", Mark{Type: MarkUnderline}),
			text(" "),
			text("highlighted", Mark{Type: MarkHighlight}),
		),
	}}

	markup := Serialize(doc)
	parsed, err := Parse(markup)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestSerializeMarkNesting(t *testing.T) {
	doc := &Node{Kind: KindDoc, Children: []*Node{
		para(text("x", Mark{Type: MarkItalic}, Mark{Type: MarkBold}, Mark{Type: MarkLink, Href: "https://e.co"})),
	}}

	// Link is always outermost, bold before italic, regardless of the
	// order marks were attached in.
	assert.Equal(t,
		`<p><a href="https://e.co" target="_blank" rel="noopener noreferrer"><strong><em>x</em></strong></a></p>`,
		Serialize(doc))
}

func TestParseNormalizesMarkOrder(t *testing.T) {
	// Non-canonical nesting parses to the same tree as canonical nesting.
	a, err := Parse(`<p><em><strong>x</strong></em></p>`)
	require.NoError(t, err)
	b, err := Parse(`<p><strong><em>x</em></strong></p>`)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseMergesAdjacentText(t *testing.T) {
	doc, err := Parse(`<p><strong>a</strong><strong>b</strong>c</p>`)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	p := doc.Children[0]
	require.Len(t, p.Children, 2)
	assert.Equal(t, "ab", p.Children[0].Text)
	assert.True(t, p.Children[0].HasMark(MarkBold))
	assert.Equal(t, "c", p.Children[1].Text)
	assert.Empty(t, p.Children[1].Marks)
}

func TestRoundTripHTMLEmbed(t *testing.T) {
	embed := `<iframe width="100%" height="166" scrolling="no" frameborder="no" src="https://w.soundcloud.com/player/?url=x"></iframe><script>console.log("hi & bye")</script>`
	doc := &Node{Kind: KindDoc, Children: []*Node{
		{Kind: KindHTMLEmbed, EmbedCode: embed},
	}}

	markup := Serialize(doc)
	parsed, err := Parse(markup)
	require.NoError(t, err)
	require.Len(t, parsed.Children, 1)

	// The payload must survive byte for byte; it is re-injected verbatim at
	// render time.
	assert.Equal(t, embed, parsed.Children[0].EmbedCode)
	assert.Equal(t, markup, Serialize(parsed))
}

func TestRoundTripFootnote(t *testing.T) {
	doc := &Node{Kind: KindDoc, Children: []*Node{
		para(
			text("claim"),
			&Node{Kind: KindFootnote, FootnoteText: "Ibn Khaldun, Muqaddimah", FootnoteNumber: 1},
			text(" more"),
			&Node{Kind: KindFootnote, FootnoteNumber: 2},
		),
	}}

	markup := Serialize(doc)
	assert.Contains(t, markup, `data-footnote-number="1"`)
	assert.Contains(t, markup, `<a href="#fn-1" class="footnote-link">[1]</a>`)

	parsed, err := Parse(markup)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
	assert.Equal(t, 2, CountFootnotes(parsed))
}

func TestParseMalformedInput(t *testing.T) {
	doc, err := Parse(`<p>unclosed <strong>bold`)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	p := doc.Children[0]
	require.Len(t, p.Children, 2)
	assert.Equal(t, "unclosed ", p.Children[0].Text)
	assert.Equal(t, "bold", p.Children[1].Text)
	assert.True(t, p.Children[1].HasMark(MarkBold))
}

func TestParseUnknownElementDescends(t *testing.T) {
	doc, err := Parse(`<section><p>inside</p></section>`)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, KindParagraph, doc.Children[0].Kind)
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, KindDoc, doc.Kind)
	assert.Empty(t, doc.Children)
}
