// Package layout computes final box geometry. Given a box tree with
// resolved styles and an available space, it produces one Fragment per
// box under the block/inline, flex and grid formatting contexts, resolves
// positioned boxes against their containing blocks, and reports overflow
// and degenerate sizes without ever failing on style input.
package layout

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Add returns the componentwise sum.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is a rectangular area.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the right edge coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// EdgeSizes holds resolved pixel sizes for the four edges of a box.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns the left+right sum.
func (e EdgeSizes) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the top+bottom sum.
func (e EdgeSizes) Vertical() float64 { return e.Top + e.Bottom }

// ExpandedBy returns a rectangle grown outward by the given edge sizes.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}
