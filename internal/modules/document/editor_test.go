package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorInsertText(t *testing.T) {
	var last string
	ed := NewEditor(func(markup string) { last = markup })

	require.NoError(t, ed.InsertText("hello"))
	require.NoError(t, ed.InsertText(" world"))

	assert.Equal(t, "<p>hello world</p>", ed.Markup())
	assert.Equal(t, ed.Markup(), last)
	assert.Equal(t, Selection{Block: 0, Start: 11, End: 11}, ed.Selection())
}

func TestEditorToggleBoldInvolutive(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("hello world"))
	ed.Select(0, 0, 5)

	require.NoError(t, ed.ToggleBold())
	assert.Equal(t, "<p><strong>hello</strong> world</p>", ed.Markup())

	require.NoError(t, ed.ToggleBold())
	assert.Equal(t, "<p>hello world</p>", ed.Markup())
}

func TestEditorToggleMarkMixedSelection(t *testing.T) {
	// When the selection is only partially bold, toggling bolds the rest.
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("hello world"))
	ed.Select(0, 0, 5)
	require.NoError(t, ed.ToggleBold())

	ed.Select(0, 0, 11)
	require.NoError(t, ed.ToggleBold())
	assert.Equal(t, "<p><strong>hello world</strong></p>", ed.Markup())
}

func TestEditorCollapsedSelectionNoops(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("text"))
	ed.Select(0, 2, 2)
	require.NoError(t, ed.ToggleBold())
	assert.Equal(t, "<p>text</p>", ed.Markup())
}

func TestEditorInsertTextInheritsMarks(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("bold"))
	ed.Select(0, 0, 4)
	require.NoError(t, ed.ToggleBold())

	ed.Select(0, 2, 2)
	require.NoError(t, ed.InsertText("XX"))
	assert.Equal(t, "<p><strong>boXXld</strong></p>", ed.Markup())
}

func TestEditorSetLinkAndUnlink(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("read this"))
	ed.Select(0, 5, 9)

	require.NoError(t, ed.SetLink("https://example.com"))
	assert.Equal(t,
		`<p>read <a href="https://example.com" target="_blank" rel="noopener noreferrer">this</a></p>`,
		ed.Markup())

	// Replacing an existing link keeps a single link mark.
	require.NoError(t, ed.SetLink("https://other.com"))
	assert.Equal(t,
		`<p>read <a href="https://other.com" target="_blank" rel="noopener noreferrer">this</a></p>`,
		ed.Markup())

	require.NoError(t, ed.Unlink())
	assert.Equal(t, "<p>read this</p>", ed.Markup())
}

func TestEditorHeadingAndParagraph(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("title"))

	require.NoError(t, ed.SetHeading(2))
	assert.Equal(t, "<h2>title</h2>", ed.Markup())

	// Out-of-range levels clamp to 1.
	require.NoError(t, ed.SetHeading(9))
	assert.Equal(t, "<h1>title</h1>", ed.Markup())

	require.NoError(t, ed.SetParagraph())
	assert.Equal(t, "<p>title</p>", ed.Markup())
}

func TestEditorToggleBlockquote(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("quoted"))

	require.NoError(t, ed.ToggleBlockquote())
	assert.Equal(t, "<blockquote><p>quoted</p></blockquote>", ed.Markup())

	require.NoError(t, ed.ToggleBlockquote())
	assert.Equal(t, "<p>quoted</p>", ed.Markup())
}

func TestEditorTogglePullQuote(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("striking"))

	require.NoError(t, ed.TogglePullQuote())
	assert.Equal(t,
		`<div data-pull-quote="" class="pull-quote"><p class="pull-quote-content">striking</p></div>`,
		ed.Markup())

	require.NoError(t, ed.TogglePullQuote())
	assert.Equal(t, "<p>striking</p>", ed.Markup())
}

func TestEditorToggleLists(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("item"))

	require.NoError(t, ed.ToggleBulletList())
	assert.Equal(t, "<ul><li><p>item</p></li></ul>", ed.Markup())

	// Toggling the other kind switches in place.
	require.NoError(t, ed.ToggleOrderedList())
	assert.Equal(t, "<ol><li><p>item</p></li></ol>", ed.Markup())

	// Toggling the same kind unwraps.
	require.NoError(t, ed.ToggleOrderedList())
	assert.Equal(t, "<p>item</p>", ed.Markup())
}

func TestEditorAlignAndDirection(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("نص"))

	require.NoError(t, ed.SetTextAlign("center"))
	assert.Equal(t, `<p style="text-align: center">نص</p>`, ed.Markup())

	require.NoError(t, ed.SetTextAlign(""))
	assert.Equal(t, "<p>نص</p>", ed.Markup())

	// First toggle goes rtl, second flips to ltr.
	require.NoError(t, ed.ToggleDirection())
	assert.Equal(t, `<p dir="rtl">نص</p>`, ed.Markup())
	require.NoError(t, ed.ToggleDirection())
	assert.Equal(t, `<p dir="ltr">نص</p>`, ed.Markup())
}

func TestEditorInsertFootnoteNumbering(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("ab"))

	ed.Select(0, 1, 1)
	require.NoError(t, ed.InsertFootnote("first source"))
	ed.Select(0, 3, 3)
	require.NoError(t, ed.InsertFootnote("second source"))

	doc := ed.Doc()
	require.Len(t, doc.Children, 1)
	assert.Equal(t, 2, CountFootnotes(doc))

	var numbers []int
	doc.Walk(func(n *Node) bool {
		if n.Kind == KindFootnote {
			numbers = append(numbers, n.FootnoteNumber)
		}
		return true
	})
	assert.Equal(t, []int{1, 2}, numbers)
}

func TestEditorInsertImageVariants(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertImage("plain.jpg", "", ""))
	assert.Equal(t, KindImage, ed.Doc().Children[1].Kind)

	require.NoError(t, ed.InsertImage("described.jpg", "alt text", ""))
	assert.Equal(t, KindImageWithCaption, ed.Doc().Children[2].Kind)

	require.NoError(t, ed.InsertImage("captioned.jpg", "", "a caption"))
	node := ed.Doc().Children[3]
	assert.Equal(t, KindImageWithCaption, node.Kind)
	assert.Equal(t, "a caption", node.Caption)
}

func TestEditorInsertHTMLEmbedVerbatim(t *testing.T) {
	code := `<script async src="https://platform.twitter.com/widgets.js"></script>`
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertHTMLEmbed(code))

	node := ed.Doc().Children[1]
	assert.Equal(t, KindHTMLEmbed, node.Kind)
	assert.Equal(t, code, node.EmbedCode)
	// Selection moves to the inserted block.
	assert.Equal(t, 1, ed.Selection().Block)
}

func TestEditorInsertHorizontalRule(t *testing.T) {
	ed := NewEditor(nil)
	require.NoError(t, ed.InsertText("above"))
	require.NoError(t, ed.InsertHorizontalRule())
	assert.Equal(t, "<p>above</p><hr>", ed.Markup())
}

func TestEditorSelectionOutOfRange(t *testing.T) {
	ed := NewEditor(nil)
	ed.Select(5, 0, 0)
	assert.ErrorIs(t, ed.InsertText("x"), ErrNoBlock)
}

func TestLoadEditorRoundTrip(t *testing.T) {
	markup := `<p>hello <strong>bold</strong></p><hr><p dir="rtl">مرحبا</p>`
	ed, err := LoadEditor(markup, nil)
	require.NoError(t, err)
	assert.Equal(t, markup, ed.Markup())

	// An empty document always has a paragraph to type into.
	empty, err := LoadEditor("", nil)
	require.NoError(t, err)
	require.NoError(t, empty.InsertText("x"))
	assert.Equal(t, "<p>x</p>", empty.Markup())
}
