package render

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Footnote is one collected reference marker.
type Footnote struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Script is a script element found inside hydrated embed content. The
// client must re-create these after injection because innerHTML never
// executes them.
type Script struct {
	Attrs map[string]string `json:"attrs"`
	Text  string            `json:"text"`
}

// Document is the hydrated output: body markup with embed content injected
// and the references block rebuilt, plus the script manifest for the
// deferred re-creation step.
type Document struct {
	Body      string     `json:"body"`
	Dir       string     `json:"dir"`
	Scripts   []Script   `json:"scripts"`
	Footnotes []Footnote `json:"footnotes"`
}

// Hydrate prepares persisted markup for display. Markup is trusted at this
// point and never re-validated: malformed input passes through as whatever
// the parser makes of it, and a broken embed only damages its own wrapper.
//
// Three passes over the tree:
//  1. inject each wrapper's data-embed-code into its inner container and
//     record every script element found in it,
//  2. collect footnote markers,
//  3. drop any previously generated references block and append a fresh
//     one sorted ascending by number.
func Hydrate(markup string, rtl bool) *Document {
	doc := &Document{Dir: "ltr"}
	if rtl {
		doc.Dir = "rtl"
	}

	nodes, err := parseFragment(markup)
	if err != nil {
		doc.Body = markup
		return doc
	}

	for _, n := range nodes {
		hydrateEmbeds(n, doc)
		collectFootnotes(n, doc)
	}
	nodes = dropReferences(nodes)

	var b strings.Builder
	for _, n := range nodes {
		html.Render(&b, n)
	}
	b.WriteString(referencesBlock(doc.Footnotes, rtl))
	doc.Body = b.String()
	return doc
}

func parseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(markup), ctx)
}

func hydrateEmbeds(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode && hasAttr(n, "data-html-embed") {
		code := getAttr(n, "data-embed-code")
		content := findByClass(n, "html-embed-content")
		if code != "" && content != nil {
			injectEmbed(content, code, doc)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		hydrateEmbeds(c, doc)
	}
}

func injectEmbed(content *html.Node, code string, doc *Document) {
	for content.FirstChild != nil {
		content.RemoveChild(content.FirstChild)
	}
	injected, err := parseFragment(code)
	if err != nil {
		return
	}
	for _, in := range injected {
		content.AppendChild(in)
		collectScripts(in, doc)
	}
}

func collectScripts(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Script {
		s := Script{Attrs: make(map[string]string, len(n.Attr))}
		for _, a := range n.Attr {
			s.Attrs[a.Key] = a.Val
		}
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			s.Text = n.FirstChild.Data
		}
		doc.Scripts = append(doc.Scripts, s)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectScripts(c, doc)
	}
}

func collectFootnotes(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode && hasAttr(n, "data-footnote") {
		number, err := strconv.Atoi(getAttr(n, "data-footnote-number"))
		text := getAttr(n, "data-footnote-text")
		if err == nil && text != "" {
			doc.Footnotes = append(doc.Footnotes, Footnote{Number: number, Text: text})
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectFootnotes(c, doc)
	}
}

// dropReferences removes any references block left over in the stored
// markup so the rebuild never duplicates it.
func dropReferences(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode && hasClass(n, "footnotes-section") {
			continue
		}
		removeReferencesIn(n)
		out = append(out, n)
	}
	return out
}

func removeReferencesIn(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && hasClass(c, "footnotes-section") {
			n.RemoveChild(c)
		} else {
			removeReferencesIn(c)
		}
		c = next
	}
}

// referencesBlock rebuilds the whole section from scratch on every render.
// Footnote text is trusted markup and passes through verbatim.
func referencesBlock(footnotes []Footnote, rtl bool) string {
	if len(footnotes) == 0 {
		return ""
	}
	sorted := make([]Footnote, len(footnotes))
	copy(sorted, footnotes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	title := "References"
	if rtl {
		title = "المراجع"
	}

	var b strings.Builder
	b.WriteString(`<div class="footnotes-section">`)
	b.WriteString(`<div class="footnotes-title">` + title + `</div>`)
	for _, fn := range sorted {
		num := strconv.Itoa(fn.Number)
		b.WriteString(`<div id="fn-` + num + `" class="footnote-item">`)
		b.WriteString(`<span class="footnote-number">[` + num + `]</span> `)
		b.WriteString(fn.Text)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(getAttr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}
