package layout

import (
	"testing"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

func TestFlexGrowDistribution(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 100px"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 2; flex-basis: 0"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	res := mustLayout(t, tree, 800, 600)

	widths := []float64{150, 300, 150}
	xs := []float64{0, 150, 450}
	var total float64
	for i := range widths {
		r := borderRect(res, i)
		if r.Width != widths[i] {
			t.Errorf("Item %d width: got %v, expected %v", i, r.Width, widths[i])
		}
		if r.X != xs[i] {
			t.Errorf("Item %d x: got %v, expected %v", i, r.X, xs[i])
		}
		total += r.Width
	}
	if total != 600 {
		t.Errorf("Grown widths should sum to the container width, got %v", total)
	}
}

func TestFlexShrinkWeightedByBaseSize(t *testing.T) {
	// Shrink shares are shrink x base-size, never the shrink factor alone:
	// two 200px items with shrink 1 and 3 in a 300px container lose the
	// 100px deficit 1:3, ending at 175 and 125.
	tree := box.NewTree(style.Parse("display: flex; width: 300px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 200px; flex-shrink: 1"))
	tree.Add(tree.Root(), style.Parse("width: 200px; flex-shrink: 3"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Width != 175 {
		t.Errorf("First item width: got %v, expected 175", a.Width)
	}
	if b.Width != 125 {
		t.Errorf("Second item width: got %v, expected 125", b.Width)
	}
	if a.Width+b.Width != 300 {
		t.Errorf("Shrunk widths should sum to the container width, got %v", a.Width+b.Width)
	}
}

func TestFlexNoFlexibleItemsLeaveFreeSpace(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px; justify-content: flex-end"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	res := mustLayout(t, tree, 800, 600)

	// Sum of grow factors is zero: the distribution step is skipped and
	// justify-content places the leftover space.
	r := borderRect(res, 0)
	if r.Width != 100 {
		t.Errorf("Item should keep its base size, got %v", r.Width)
	}
	if r.X != 500 {
		t.Errorf("flex-end should place the item at 500, got %v", r.X)
	}
}

func TestFlexJustifyContent(t *testing.T) {
	tests := []struct {
		justify string
		xs      []float64
	}{
		{"flex-start", []float64{0, 100}},
		{"flex-end", []float64{400, 500}},
		{"center", []float64{200, 300}},
		{"space-between", []float64{0, 500}},
		{"space-around", []float64{100, 400}},
	}
	for _, tt := range tests {
		tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px; justify-content: " + tt.justify))
		tree.Add(tree.Root(), style.Parse("width: 100px"))
		tree.Add(tree.Root(), style.Parse("width: 100px"))
		res := mustLayout(t, tree, 800, 600)
		for i, want := range tt.xs {
			if r := borderRect(res, i); r.X != want {
				t.Errorf("%s item %d x: got %v, expected %v", tt.justify, i, r.X, want)
			}
		}
	}
}

func TestFlexSpaceEvenly(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px; justify-content: space-evenly"))
	tree.Add(tree.Root(), style.Parse("width: 150px"))
	tree.Add(tree.Root(), style.Parse("width: 150px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.X != 100 || b.X != 350 {
		t.Errorf("space-evenly: got x=%v/%v, expected 100/350", a.X, b.X)
	}
}

func TestFlexSpaceBetweenSingleItem(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px; justify-content: space-between"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.X != 0 {
		t.Errorf("space-between with one item should behave as flex-start, got x=%v", r.X)
	}
}

func TestFlexWrapLines(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-wrap: wrap; width: 300px"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("width: 120px; height: 50px"))
	}
	res := mustLayout(t, tree, 800, 600)

	a, b, c := borderRect(res, 0), borderRect(res, 1), borderRect(res, 2)
	if a.X != 0 || a.Y != 0 || b.X != 120 || b.Y != 0 {
		t.Errorf("First line misplaced: (%v,%v) (%v,%v)", a.X, a.Y, b.X, b.Y)
	}
	if c.X != 0 || c.Y != 50 {
		t.Errorf("Third item should wrap to the second line, got (%v,%v)", c.X, c.Y)
	}
	if r := borderRect(res); r.Height != 100 {
		t.Errorf("Container auto height should cover both lines, got %v", r.Height)
	}
}

func TestFlexAlignContentCenter(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-wrap: wrap; width: 100px; height: 200px; align-content: center"))
	tree.Add(tree.Root(), style.Parse("width: 100px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 100px; height: 50px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Y != 50 || b.Y != 100 {
		t.Errorf("Centered lines: got y=%v/%v, expected 50/100", a.Y, b.Y)
	}
}

func TestFlexSingleWrappedLineSizesToContent(t *testing.T) {
	// A lone line in a wrap container keeps its content cross size, so
	// align-content places the line and align-items works within it.
	tree := box.NewTree(style.Parse("display: flex; flex-wrap: wrap; width: 300px; height: 200px; align-content: flex-start; align-items: flex-end"))
	tree.Add(tree.Root(), style.Parse("width: 100px; height: 40px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Y != 0 {
		t.Errorf("Wrapped lone line should sit at the cross start, got y=%v", r.Y)
	}

	// Without wrapping the single line spans the whole container.
	nowrap := box.NewTree(style.Parse("display: flex; width: 300px; height: 200px; align-items: flex-end"))
	nowrap.Add(nowrap.Root(), style.Parse("width: 100px; height: 40px"))
	res = mustLayout(t, nowrap, 800, 600)

	if r := borderRect(res, 0); r.Y != 160 {
		t.Errorf("Non-wrapped line should take the container cross size, got y=%v", r.Y)
	}
}

func TestFlexOversizedItemOwnLine(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-wrap: wrap; width: 300px"))
	tree.Add(tree.Root(), style.Parse("width: 100px; height: 10px; flex-shrink: 0"))
	tree.Add(tree.Root(), style.Parse("width: 400px; height: 10px; flex-shrink: 0"))
	res := mustLayout(t, tree, 800, 600)

	b := borderRect(res, 1)
	if b.Y != 10 {
		t.Errorf("Oversized item should get its own line, got y=%v", b.Y)
	}
	if b.Width != 400 {
		t.Errorf("Oversized item must never be split or clipped, got width %v", b.Width)
	}
}

func TestFlexGaps(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 640px; height: 50px; column-gap: 20px"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("width: 100px"))
	}
	res := mustLayout(t, tree, 800, 600)

	xs := []float64{0, 120, 240}
	for i, want := range xs {
		if r := borderRect(res, i); r.X != want {
			t.Errorf("Item %d x with gap: got %v, expected %v", i, r.X, want)
		}
	}
}

func TestFlexGapWithGrow(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 640px; height: 50px; column-gap: 20px"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("width: 100px; flex-grow: 1"))
	}
	res := mustLayout(t, tree, 800, 600)

	// Free space is 640 - (300 + 2*20) = 300, 100 extra per item.
	for i := 0; i < 3; i++ {
		if r := borderRect(res, i); r.Width != 200 {
			t.Errorf("Item %d width: got %v, expected 200", i, r.Width)
		}
	}
	if r := borderRect(res, 2); r.X != 440 {
		t.Errorf("Last item x: got %v, expected 440", r.X)
	}
}

func TestFlexMaxWidthClampRedistributes(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0; max-width: 50px"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Width != 50 {
		t.Errorf("Clamped item width: got %v, expected 50", r.Width)
	}
	// The 150px absorbed by the clamp goes to the open items once.
	for i := 1; i < 3; i++ {
		if r := borderRect(res, i); r.Width != 275 {
			t.Errorf("Item %d width after redistribution: got %v, expected 275", i, r.Width)
		}
	}
}

func TestFlexColumnDirection(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-direction: column; width: 200px; height: 300px"))
	tree.Add(tree.Root(), style.Parse("height: 50px"))
	tree.Add(tree.Root(), style.Parse("height: 50px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Y != 0 || b.Y != 50 {
		t.Errorf("Column items should stack on the main axis, got y=%v/%v", a.Y, b.Y)
	}
	if a.Width != 200 {
		t.Errorf("Stretch should fill the cross axis, got width %v", a.Width)
	}
}

func TestFlexRowReverse(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-direction: row-reverse; width: 600px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	tree.Add(tree.Root(), style.Parse("width: 200px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.X != 500 {
		t.Errorf("First item should sit at the main end, got x=%v", a.X)
	}
	if b.X != 300 {
		t.Errorf("Second item should precede it, got x=%v", b.X)
	}
}

func TestFlexOrderProperty(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 100px; order: 2"))
	tree.Add(tree.Root(), style.Parse("width: 100px; order: 1"))
	res := mustLayout(t, tree, 800, 600)

	// The children slice keeps document order; only placement reorders.
	a, b := borderRect(res, 0), borderRect(res, 1)
	if b.X != 0 {
		t.Errorf("Lower order should be placed first, got x=%v", b.X)
	}
	if a.X != 100 {
		t.Errorf("Higher order should follow, got x=%v", a.X)
	}
}

func TestFlexAlignItems(t *testing.T) {
	tests := []struct {
		align string
		y     float64
	}{
		{"flex-start", 0},
		{"flex-end", 60},
		{"center", 30},
		{"baseline", 0}, // degrades to flex-start without font metrics
	}
	for _, tt := range tests {
		tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 100px; align-items: " + tt.align))
		tree.Add(tree.Root(), style.Parse("width: 100px; height: 40px"))
		res := mustLayout(t, tree, 800, 600)
		if r := borderRect(res, 0); r.Y != tt.y {
			t.Errorf("align-items %s: got y=%v, expected %v", tt.align, r.Y, tt.y)
		}
	}
}

func TestFlexAlignSelfOverrides(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 100px; align-items: flex-start"))
	tree.Add(tree.Root(), style.Parse("width: 100px; height: 40px; align-self: flex-end"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Y != 60 {
		t.Errorf("align-self flex-end should override the container, got y=%v", r.Y)
	}
}

func TestFlexStretchDefault(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 100px"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Height != 100 {
		t.Errorf("Auto cross size should stretch to the line, got %v", r.Height)
	}
}

func TestFlexAbsoluteChildIsNotAnItem(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; width: 600px; height: 100px; position: relative"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	tree.Add(tree.Root(), style.Parse("position: absolute; left: 0; top: 0; width: 10px; height: 10px"))
	tree.Add(tree.Root(), style.Parse("flex-grow: 1; flex-basis: 0"))
	res := mustLayout(t, tree, 800, 600)

	// Only the two in-flow children split the space.
	if r := borderRect(res, 0); r.Width != 300 {
		t.Errorf("First item width: got %v, expected 300", r.Width)
	}
	if r := borderRect(res, 2); r.Width != 300 {
		t.Errorf("Second item width: got %v, expected 300", r.Width)
	}
}

func TestFlexWrapReverse(t *testing.T) {
	tree := box.NewTree(style.Parse("display: flex; flex-wrap: wrap-reverse; width: 300px"))
	tree.Add(tree.Root(), style.Parse("width: 200px; height: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 200px; height: 50px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Y != 50 || b.Y != 0 {
		t.Errorf("wrap-reverse should flip line order, got y=%v/%v", a.Y, b.Y)
	}
}
