// Package htmltree builds a box tree from an HTML document using
// golang.org/x/net/html as the underlying parser. It is the input
// harness for the CLI and for golden-output tests; it implements only
// the subset of HTML-to-box mapping the layout engine needs: default
// display per tag, inline style attributes and text leaves.
package htmltree

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// inlineTags lists tags whose default display is inline; everything else
// defaults to block.
var inlineTags = map[atom.Atom]bool{
	atom.A:      true,
	atom.Abbr:   true,
	atom.B:      true,
	atom.Code:   true,
	atom.Em:     true,
	atom.I:      true,
	atom.Label:  true,
	atom.Small:  true,
	atom.Span:   true,
	atom.Strong: true,
	atom.Sub:    true,
	atom.Sup:    true,
	atom.U:      true,
}

// skippedTags never produce boxes.
var skippedTags = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
}

// Parse reads an HTML document and returns the corresponding box tree.
// The root box is the body element (or the document root when there is
// no body). Element style attributes are parsed with style.Parse;
// non-whitespace text becomes inline leaf boxes.
func Parse(r io.Reader) (*box.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	rootEl := findBody(doc)
	t := box.NewTree(elementStyle(rootEl))
	if rootEl != nil {
		for c := rootEl.FirstChild; c != nil; c = c.NextSibling {
			addNode(t, t.Root(), c)
		}
	}
	return t, nil
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}

func elementStyle(n *html.Node) *style.Style {
	if n == nil {
		return style.New()
	}
	st := style.New()
	for _, a := range n.Attr {
		if a.Key == "style" {
			st = style.Parse(a.Val)
			break
		}
	}
	if inlineTags[n.DataAtom] {
		// The style attribute still wins; only the default flips.
		hasDisplay := false
		for _, a := range n.Attr {
			if a.Key == "style" && strings.Contains(a.Val, "display") {
				hasDisplay = true
				break
			}
		}
		if !hasDisplay {
			st.Display = style.DisplayInline
		}
	}
	return st
}

func addNode(t *box.Tree, parent box.NodeID, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			return
		}
		st := style.New()
		st.Display = style.DisplayInline
		t.AddText(parent, st, text)
	case html.ElementNode:
		if skippedTags[n.DataAtom] {
			return
		}
		id := t.Add(parent, elementStyle(n))
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			addNode(t, id, c)
		}
	}
}

// TextSizer measures text leaves with a fixed-advance heuristic: 0.6em
// per rune and a 1.2em line height. Good enough for layout tests; real
// text metrics are the embedder's problem.
type TextSizer struct{}

// Measure implements box.IntrinsicSizer.
func (TextSizer) Measure(n *box.Node, space box.AvailableSpace) box.Intrinsic {
	if n.Text == "" {
		return box.Intrinsic{}
	}
	fs := n.Style.FontSize
	advance := 0.6 * fs
	lineHeight := 1.2 * fs
	runes := utf8.RuneCountInString(n.Text)
	width := float64(runes) * advance

	longest := 0
	for _, word := range strings.Fields(n.Text) {
		if l := utf8.RuneCountInString(word); l > longest {
			longest = l
		}
	}
	minWidth := float64(longest) * advance

	lines := 1.0
	if w, ok := space.Width.Get(); ok && w > 0 && width > w {
		perLine := int(w / advance)
		if perLine < 1 {
			perLine = 1
		}
		lines = float64((runes + perLine - 1) / perLine)
	}
	return box.Intrinsic{
		PreferredWidth:  width,
		PreferredHeight: lines * lineHeight,
		MinWidth:        minWidth,
		MinHeight:       lineHeight,
		MaxWidth:        width,
		MaxHeight:       lines * lineHeight,
	}
}
