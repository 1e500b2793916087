package layout

import (
	"testing"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

func TestGridFixedAndFrTracks(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 500px; grid-template-columns: 100px 1fr 1fr"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("height: 40px"))
	}
	res := mustLayout(t, tree, 800, 600)

	widths := []float64{100, 200, 200}
	xs := []float64{0, 100, 300}
	for i := range widths {
		r := borderRect(res, i)
		if r.Width != widths[i] {
			t.Errorf("Track %d width: got %v, expected %v", i, r.Width, widths[i])
		}
		if r.X != xs[i] {
			t.Errorf("Track %d x: got %v, expected %v", i, r.X, xs[i])
		}
		if r.Y != 0 {
			t.Errorf("Item %d should sit in the first row, got y=%v", i, r.Y)
		}
	}
}

func TestGridRepeatWithGap(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 1000px; grid-template-columns: repeat(2, 1fr); column-gap: 20px"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Width != 490 || b.Width != 490 {
		t.Errorf("fr tracks should split the space after gaps: got %v/%v, expected 490", a.Width, b.Width)
	}
	if b.X != 510 {
		t.Errorf("Second track x: got %v, expected 510", b.X)
	}
}

func TestGridZeroFrSumSkipsDistribution(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 500px; grid-template-columns: 0fr 100px"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Width != 0 {
		t.Errorf("0fr track should stay at its minimum, got %v", r.Width)
	}
	if r := borderRect(res, 1); r.X != 0 || r.Width != 100 {
		t.Errorf("Fixed track: got x=%v w=%v, expected 0/100", r.X, r.Width)
	}
}

func TestGridAutoPlacementRowFlow(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 200px; grid-template-columns: 100px 100px"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("height: 30px"))
	}
	res := mustLayout(t, tree, 800, 600)

	positions := [][2]float64{{0, 0}, {100, 0}, {0, 30}}
	for i, want := range positions {
		r := borderRect(res, i)
		if r.X != want[0] || r.Y != want[1] {
			t.Errorf("Item %d: got (%v,%v), expected (%v,%v)", i, r.X, r.Y, want[0], want[1])
		}
	}
}

func TestGridAutoPlacementColumnFlow(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 200px; grid-auto-flow: column; grid-template-rows: 100px 100px; grid-auto-columns: 50px"))
	for i := 0; i < 3; i++ {
		tree.Add(tree.Root(), style.Parse("width: 50px"))
	}
	res := mustLayout(t, tree, 800, 600)

	positions := [][2]float64{{0, 0}, {0, 100}, {50, 0}}
	for i, want := range positions {
		r := borderRect(res, i)
		if r.X != want[0] || r.Y != want[1] {
			t.Errorf("Item %d: got (%v,%v), expected (%v,%v)", i, r.X, r.Y, want[0], want[1])
		}
	}
}

func TestGridDensePackingBackfills(t *testing.T) {
	decls := "display: grid; width: 200px; grid-template-columns: 100px 100px"

	build := func(flow string) *box.Tree {
		tree := box.NewTree(style.Parse(decls + flow))
		tree.Add(tree.Root(), style.Parse("grid-column: 2; height: 30px"))
		tree.Add(tree.Root(), style.Parse("grid-column: span 2; height: 30px"))
		tree.Add(tree.Root(), style.Parse("height: 30px"))
		return tree
	}

	sparse := mustLayout(t, build(""), 800, 600)
	if r := borderRect(sparse, 2); r.Y != 60 {
		t.Errorf("Without dense the third item continues past the cursor, got y=%v, expected 60", r.Y)
	}

	dense := mustLayout(t, build("; grid-auto-flow: row dense"), 800, 600)
	if r := borderRect(dense, 2); r.X != 0 || r.Y != 0 {
		t.Errorf("Dense packing should backfill the first-row hole, got (%v,%v)", r.X, r.Y)
	}
}

func TestGridSpanningItem(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 320px; grid-template-columns: 100px 100px 100px; column-gap: 10px"))
	tree.Add(tree.Root(), style.Parse("grid-column: 1 / 3; height: 20px"))
	tree.Add(tree.Root(), style.Parse("height: 20px"))
	res := mustLayout(t, tree, 800, 600)

	a := borderRect(res, 0)
	if a.Width != 210 {
		t.Errorf("Span of two tracks should include the internal gap: got %v, expected 210", a.Width)
	}
	b := borderRect(res, 1)
	if b.X != 220 || b.Y != 0 {
		t.Errorf("Auto item should fill the remaining cell, got (%v,%v), expected (220,0)", b.X, b.Y)
	}
}

func TestGridNegativeLineSpansExplicitGrid(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 300px; grid-template-columns: 100px 100px 100px"))
	tree.Add(tree.Root(), style.Parse("grid-column: 1 / -1; height: 20px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.Width != 300 {
		t.Errorf("1 / -1 should span the whole explicit grid, got %v", r.Width)
	}
}

func TestGridMinMaxTrack(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 500px; grid-template-columns: minmax(100px, 200px) 1fr"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Width != 200 {
		t.Errorf("minmax track should settle at its max, got %v", a.Width)
	}
	if b.Width != 300 {
		t.Errorf("fr track should take the remainder, got %v", b.Width)
	}
}

func TestGridImplicitRowsFromAutoRows(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 100px; grid-template-columns: 100px; grid-auto-rows: 50px"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	tree.Add(tree.Root(), style.Parse("width: 100px"))
	res := mustLayout(t, tree, 800, 600)

	a, b := borderRect(res, 0), borderRect(res, 1)
	if a.Y != 0 || a.Height != 50 {
		t.Errorf("First implicit row: got y=%v h=%v, expected 0/50", a.Y, a.Height)
	}
	if b.Y != 50 {
		t.Errorf("Second implicit row: got y=%v, expected 50", b.Y)
	}
	if r := borderRect(res); r.Height != 100 {
		t.Errorf("Container auto height should sum the row tracks, got %v", r.Height)
	}
}

func TestGridAutoRowHeightFromContent(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 200px; grid-template-columns: 100px 100px"))
	tree.Add(tree.Root(), style.Parse("height: 30px"))
	tree.Add(tree.Root(), style.Parse("height: 70px"))
	res := mustLayout(t, tree, 800, 600)

	// The auto row sizes to its tallest item.
	if r := borderRect(res); r.Height != 70 {
		t.Errorf("Auto row should size to the tallest item, got container height %v", r.Height)
	}
}

func TestGridItemAlignment(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 200px; height: 100px; grid-template-columns: 200px; grid-template-rows: 100px"))
	tree.Add(tree.Root(), style.Parse("width: 50px; height: 20px; justify-self: center; align-self: end"))
	res := mustLayout(t, tree, 800, 600)

	r := borderRect(res, 0)
	if r.X != 75 {
		t.Errorf("justify-self center: got x=%v, expected 75", r.X)
	}
	if r.Y != 80 {
		t.Errorf("align-self end: got y=%v, expected 80", r.Y)
	}
}

func TestGridStretchIsDefault(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 300px; grid-template-columns: 300px; grid-template-rows: 120px"))
	tree.Add(tree.Root(), style.New())
	res := mustLayout(t, tree, 800, 600)

	r := borderRect(res, 0)
	if r.Width != 300 || r.Height != 120 {
		t.Errorf("Auto-sized item should stretch to its area, got %vx%v", r.Width, r.Height)
	}
}

func TestGridJustifyContentCentersTracks(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 500px; grid-template-columns: 100px 100px; justify-content: center"))
	tree.Add(tree.Root(), style.Parse("height: 10px"))
	res := mustLayout(t, tree, 800, 600)

	if r := borderRect(res, 0); r.X != 150 {
		t.Errorf("Centered track set: got x=%v, expected 150", r.X)
	}
}

func TestGridAbsoluteChildSkipsPlacement(t *testing.T) {
	tree := box.NewTree(style.Parse("display: grid; width: 200px; grid-template-columns: 100px 100px; position: relative"))
	tree.Add(tree.Root(), style.Parse("height: 30px"))
	tree.Add(tree.Root(), style.Parse("position: absolute; left: 5px; top: 5px; width: 10px; height: 10px"))
	tree.Add(tree.Root(), style.Parse("height: 30px"))
	res := mustLayout(t, tree, 800, 600)

	// The absolute child occupies no cell: both in-flow items share row 0.
	a, c := borderRect(res, 0), borderRect(res, 2)
	if a.X != 0 || c.X != 100 || c.Y != 0 {
		t.Errorf("In-flow items misplaced: (%v,%v) and (%v,%v)", a.X, a.Y, c.X, c.Y)
	}
}
