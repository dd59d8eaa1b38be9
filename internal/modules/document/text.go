package document

import "strings"

const (
	excerptLimit   = 150
	wordsPerMinute = 200
)

// PlainText flattens the tree to readable text. Block boundaries become
// single spaces, footnotes and embeds contribute nothing.
func PlainText(doc *Node) string {
	var parts []string
	var walk func(*Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindText:
			parts = append(parts, n.Text)
		case KindHTMLEmbed, KindFootnote, KindImage:
			return
		case KindImageWithCaption:
			if n.Caption != "" {
				parts = append(parts, n.Caption, " ")
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		if n.Kind.IsBlock() {
			parts = append(parts, " ")
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(strings.Join(parts, "")), " ")
}

// Excerpt truncates the plain text to 150 characters at a word boundary
// and appends an ellipsis when anything was cut.
func Excerpt(doc *Node) string {
	text := PlainText(doc)
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	cut := string(runes[:excerptLimit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "..."
}

func WordCount(doc *Node) int {
	return len(strings.Fields(PlainText(doc)))
}

// ReadingTime is in whole minutes at 200 words per minute, minimum 1 for
// any non-empty document.
func ReadingTime(doc *Node) int {
	words := WordCount(doc)
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// ExcerptFromMarkup is the persistence-side helper: posts store markup, not
// trees, so derived fields parse on the way through. Malformed markup yields
// empty derived fields rather than an error.
func ExcerptFromMarkup(markup string) string {
	doc, err := Parse(markup)
	if err != nil {
		return ""
	}
	return Excerpt(doc)
}

func WordCountFromMarkup(markup string) int {
	doc, err := Parse(markup)
	if err != nil {
		return 0
	}
	return WordCount(doc)
}
