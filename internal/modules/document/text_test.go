package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	doc := &Node{Kind: KindDoc, Children: []*Node{
		para(text("first block")),
		{Kind: KindHeading, Level: 2, Children: []*Node{text("heading")}},
		{Kind: KindHTMLEmbed, EmbedCode: "<script>ignored</script>"},
		{Kind: KindImage, Src: "x.jpg", Alt: "ignored too"},
		{Kind: KindImageWithCaption, Src: "y.jpg", Caption: "kept caption"},
		para(
			text("with "),
			&Node{Kind: KindFootnote, FootnoteText: "ignored note", FootnoteNumber: 1},
			text("footnote"),
		),
	}}

	assert.Equal(t, "first block heading kept caption with footnote", PlainText(doc))
}

func TestExcerpt(t *testing.T) {
	short := &Node{Kind: KindDoc, Children: []*Node{para(text("short enough"))}}
	assert.Equal(t, "short enough", Excerpt(short))

	long := &Node{Kind: KindDoc, Children: []*Node{
		para(text(strings.Repeat("word ", 60))),
	}}
	got := Excerpt(long)
	// Cut lands on a word boundary, never mid-word.
	assert.True(t, strings.HasSuffix(got, "word..."))
	assert.LessOrEqual(t, len(got), excerptLimit+3)
}

func TestExcerptArabic(t *testing.T) {
	// Arabic runes are multi-byte; the limit counts characters, not bytes.
	long := &Node{Kind: KindDoc, Children: []*Node{
		para(text(strings.TrimSpace(strings.Repeat("كلمة ", 80)))),
	}}
	got := Excerpt(long)
	assert.True(t, strings.HasSuffix(got, "كلمة..."))
	runes := []rune(got)
	assert.LessOrEqual(t, len(runes), excerptLimit+3)
	assert.Greater(t, len(runes), excerptLimit-10)
}

func TestWordCountAndReadingTime(t *testing.T) {
	empty := &Node{Kind: KindDoc}
	assert.Equal(t, 0, WordCount(empty))
	assert.Equal(t, 0, ReadingTime(empty))

	one := &Node{Kind: KindDoc, Children: []*Node{para(text("hello"))}}
	assert.Equal(t, 1, WordCount(one))
	assert.Equal(t, 1, ReadingTime(one))

	long := &Node{Kind: KindDoc, Children: []*Node{
		para(text(strings.TrimSpace(strings.Repeat("word ", 401)))),
	}}
	assert.Equal(t, 401, WordCount(long))
	assert.Equal(t, 3, ReadingTime(long))
}

func TestDerivedFromMarkup(t *testing.T) {
	assert.Equal(t, "hello world", ExcerptFromMarkup("<p>hello world</p>"))
	assert.Equal(t, 2, WordCountFromMarkup("<p>hello world</p>"))
	assert.Equal(t, "", ExcerptFromMarkup(""))
	assert.Equal(t, 0, WordCountFromMarkup(""))
}
