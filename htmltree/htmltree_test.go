package htmltree

import (
	"strings"
	"testing"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/layout"
	"github.com/boxflow/boxflow/style"
)

func TestParseBasicDocument(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
  <div style="width: 100px; height: 50px"></div>
  <span>hi</span>
</body>
</html>`
	tree, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	root := tree.Node(tree.Root())
	if len(root.Children) != 2 {
		t.Fatalf("Body should have 2 children, got %d", len(root.Children))
	}

	div := tree.Node(root.Children[0])
	if div.Style.Display != style.DisplayBlock {
		t.Errorf("div default display should be block, got %v", div.Style.Display)
	}
	if div.Style.Width != style.Px(100) {
		t.Errorf("Inline style width should be 100px, got %v", div.Style.Width)
	}

	span := tree.Node(root.Children[1])
	if span.Style.Display != style.DisplayInline {
		t.Errorf("span default display should be inline, got %v", span.Style.Display)
	}
	if len(span.Children) != 1 {
		t.Fatalf("span should hold one text leaf, got %d", len(span.Children))
	}
	if text := tree.Node(span.Children[0]); text.Text != "hi" {
		t.Errorf("Text leaf content: got %q, expected %q", text.Text, "hi")
	}
}

func TestParseStyleAttributeOverridesDefaultDisplay(t *testing.T) {
	tree, err := Parse(strings.NewReader(`<body><span style="display: block"></span></body>`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	span := tree.Node(tree.Node(tree.Root()).Children[0])
	if span.Style.Display != style.DisplayBlock {
		t.Errorf("style attribute should override the tag default, got %v", span.Style.Display)
	}
}

func TestParseSkipsHeadAndWhitespace(t *testing.T) {
	input := `<html><head><style>div { color: red }</style></head>
<body>

  <p>text</p>
</body></html>`
	tree, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("Only the p element should survive, got %d children", len(root.Children))
	}
}

func TestParseCollapsesTextWhitespace(t *testing.T) {
	tree, err := Parse(strings.NewReader("<body><p>hello \n\t world</p></body>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	p := tree.Node(tree.Node(tree.Root()).Children[0])
	text := tree.Node(p.Children[0])
	if text.Text != "hello world" {
		t.Errorf("Whitespace should collapse to single spaces, got %q", text.Text)
	}
}

func TestTextSizerMeasure(t *testing.T) {
	st := style.New() // font-size 16
	n := &box.Node{Style: st, Text: "hello"}
	intr := TextSizer{}.Measure(n, box.IndefiniteSpace())

	if intr.PreferredWidth != 5*0.6*16 {
		t.Errorf("Preferred width: got %v, expected %v", intr.PreferredWidth, 5*0.6*16)
	}
	if intr.PreferredHeight != 1.2*16 {
		t.Errorf("Preferred height: got %v, expected %v", intr.PreferredHeight, 1.2*16)
	}
}

func TestTextSizerWrapsToWidth(t *testing.T) {
	st := style.New()
	n := &box.Node{Style: st, Text: strings.Repeat("a", 20)}
	// 20 runes at 9.6px each is 192px; in 96px it needs 2 lines.
	intr := TextSizer{}.Measure(n, box.AvailableSpace{Width: box.Definite(96), Height: box.Indefinite()})
	if intr.PreferredHeight != 2*1.2*16 {
		t.Errorf("Wrapped height: got %v, expected %v", intr.PreferredHeight, 2*1.2*16)
	}
}

func TestParsedTreeLaysOut(t *testing.T) {
	input := `<body>
  <div style="display: flex; width: 300px; height: 40px">
    <div style="flex: 1"></div>
    <div style="flex: 2"></div>
  </div>
</body>`
	tree, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	res, err := layout.New(layout.WithSizer(TextSizer{})).Layout(tree, box.DefiniteSpace(800, 600))
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	flex := res.Root.Children[0]
	if len(flex.Children) != 2 {
		t.Fatalf("Flex container should have 2 items, got %d", len(flex.Children))
	}
	if w := flex.Children[0].BorderSize().Width; w != 100 {
		t.Errorf("First item width: got %v, expected 100", w)
	}
	if w := flex.Children[1].BorderSize().Width; w != 200 {
		t.Errorf("Second item width: got %v, expected 200", w)
	}
}
