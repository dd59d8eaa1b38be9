package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athar-archive/core/internal/modules/document"
)

func TestHydrateEmbedInjection(t *testing.T) {
	embed := `<iframe src="https://w.soundcloud.com/player/?url=x"></iframe><script src="https://platform.twitter.com/widgets.js" async=""></script>`
	doc := &document.Node{Kind: document.KindDoc, Children: []*document.Node{
		{Kind: document.KindHTMLEmbed, EmbedCode: embed},
	}}

	out := Hydrate(document.Serialize(doc), false)

	// The stored markup keeps the content container empty; hydration fills it.
	assert.Contains(t, out.Body, `<iframe src="https://w.soundcloud.com/player/?url=x">`)
	require.Len(t, out.Scripts, 1)
	assert.Equal(t, "https://platform.twitter.com/widgets.js", out.Scripts[0].Attrs["src"])
	assert.Empty(t, out.Scripts[0].Text)
}

func TestHydrateInlineScriptText(t *testing.T) {
	doc := &document.Node{Kind: document.KindDoc, Children: []*document.Node{
		{Kind: document.KindHTMLEmbed, EmbedCode: `<div id="w"></div><script>window.initWidget("w")</script>`},
	}}

	out := Hydrate(document.Serialize(doc), false)
	require.Len(t, out.Scripts, 1)
	assert.Equal(t, `window.initWidget("w")`, out.Scripts[0].Text)
}

func TestHydrateFootnotesSection(t *testing.T) {
	markup := `<p>a<sup data-footnote="" class="footnote-ref" data-footnote-text="Second source" data-footnote-number="2"><a href="#fn-2" class="footnote-link">[2]</a></sup>` +
		`b<sup data-footnote="" class="footnote-ref" data-footnote-text="First source" data-footnote-number="1"><a href="#fn-1" class="footnote-link">[1]</a></sup></p>`

	out := Hydrate(markup, false)

	require.Len(t, out.Footnotes, 2)
	// Body order is document order; the rendered section sorts ascending.
	idx1 := strings.Index(out.Body, `<div id="fn-1" class="footnote-item">`)
	idx2 := strings.Index(out.Body, `<div id="fn-2" class="footnote-item">`)
	require.Greater(t, idx1, 0)
	require.Greater(t, idx2, 0)
	assert.Less(t, idx1, idx2)
	assert.Contains(t, out.Body, `<div class="footnotes-title">References</div>`)
	assert.Contains(t, out.Body, `<span class="footnote-number">[1]</span> First source`)
}

func TestHydrateSkipsIncompleteFootnotes(t *testing.T) {
	markup := `<p><sup data-footnote="" data-footnote-number="1"></sup>` +
		`<sup data-footnote="" data-footnote-text="" data-footnote-number="2"></sup>` +
		`<sup data-footnote="" data-footnote-text="only complete one" data-footnote-number="3"></sup></p>`

	out := Hydrate(markup, false)
	require.Len(t, out.Footnotes, 1)
	assert.Equal(t, 3, out.Footnotes[0].Number)
}

func TestHydrateRebuildsStaleSection(t *testing.T) {
	// A previously rendered section in the stored markup is discarded, never
	// duplicated.
	markup := `<p>x<sup data-footnote="" data-footnote-text="src" data-footnote-number="1"></sup></p>` +
		`<div class="footnotes-section"><div class="footnotes-title">References</div><div id="fn-9" class="footnote-item">stale</div></div>`

	out := Hydrate(markup, false)
	assert.NotContains(t, out.Body, "stale")
	assert.NotContains(t, out.Body, "fn-9")
	assert.Contains(t, out.Body, `<div id="fn-1" class="footnote-item">`)
}

func TestHydrateNoFootnotesNoSection(t *testing.T) {
	out := Hydrate("<p>plain</p>", false)
	assert.NotContains(t, out.Body, "footnotes-section")
	assert.Empty(t, out.Footnotes)
}

func TestHydrateDirection(t *testing.T) {
	ltr := Hydrate("<p>text</p>", false)
	assert.Equal(t, "ltr", ltr.Dir)

	rtl := Hydrate(`<p>نص<sup data-footnote="" data-footnote-text="مصدر" data-footnote-number="1"></sup></p>`, true)
	assert.Equal(t, "rtl", rtl.Dir)
	assert.Contains(t, rtl.Body, `<div class="footnotes-title">المراجع</div>`)
}

func TestHydrateFootnoteTextVerbatim(t *testing.T) {
	// Footnote text may carry markup and passes through unescaped.
	markup := `<p><sup data-footnote="" data-footnote-text="see &lt;em&gt;Muqaddimah&lt;/em&gt;" data-footnote-number="1"></sup></p>`
	out := Hydrate(markup, false)
	assert.Contains(t, out.Body, "see <em>Muqaddimah</em>")
}
