package layout

import (
	"strconv"
	"strings"

	"github.com/boxflow/boxflow/box"
)

// Fragment is the geometric output produced for one box by a layout pass.
// Offset places the fragment's margin box relative to the parent
// fragment's content origin; sizes and edges are resolved pixel values.
// Consumers treat fragments as immutable.
type Fragment struct {
	Node box.NodeID

	Offset      Point
	ContentSize Size

	Margin  EdgeSizes
	Border  EdgeSizes
	Padding EdgeSizes

	// Overflow is the extent by which descendants stick out past the
	// right/bottom of the content box. Layout never clips; scroll/clip is
	// the painter's decision.
	Overflow Size

	// OutOfFlow marks absolutely or fixed positioned fragments. Their
	// Offset is resolved against the containing block in the positioning
	// pass; StaticOffset preserves the position normal flow would have
	// given them, used when both insets on an axis are auto.
	OutOfFlow    bool
	StaticOffset Point

	// Sticky marks fragments whose final offset is a deferred scroll
	// adjustment; the flow geometry recorded here is valid on its own.
	Sticky bool

	Children []*Fragment
}

// BorderSize returns the border-box size.
func (f *Fragment) BorderSize() Size {
	return Size{
		Width:  f.ContentSize.Width + f.Padding.Horizontal() + f.Border.Horizontal(),
		Height: f.ContentSize.Height + f.Padding.Vertical() + f.Border.Vertical(),
	}
}

// MarginSize returns the margin-box size.
func (f *Fragment) MarginSize() Size {
	b := f.BorderSize()
	return Size{
		Width:  b.Width + f.Margin.Horizontal(),
		Height: b.Height + f.Margin.Vertical(),
	}
}

// BorderOffset returns the border-box origin relative to the parent
// fragment's content origin.
func (f *Fragment) BorderOffset() Point {
	return Point{X: f.Offset.X + f.Margin.Left, Y: f.Offset.Y + f.Margin.Top}
}

// ContentOffset returns the content-box origin relative to the parent
// fragment's content origin.
func (f *Fragment) ContentOffset() Point {
	b := f.BorderOffset()
	return Point{
		X: b.X + f.Border.Left + f.Padding.Left,
		Y: b.Y + f.Border.Top + f.Padding.Top,
	}
}

// BorderRect returns the absolute border-box rectangle given the parent's
// absolute content origin.
func (f *Fragment) BorderRect(parentContentOrigin Point) Rect {
	o := f.BorderOffset()
	s := f.BorderSize()
	return Rect{
		X:      parentContentOrigin.X + o.X,
		Y:      parentContentOrigin.Y + o.Y,
		Width:  s.Width,
		Height: s.Height,
	}
}

// PaddingRect returns the absolute padding-box rectangle.
func (f *Fragment) PaddingRect(parentContentOrigin Point) Rect {
	b := f.BorderRect(parentContentOrigin)
	return Rect{
		X:      b.X + f.Border.Left,
		Y:      b.Y + f.Border.Top,
		Width:  b.Width - f.Border.Horizontal(),
		Height: b.Height - f.Border.Vertical(),
	}
}

// ContentRect returns the absolute content-box rectangle.
func (f *Fragment) ContentRect(parentContentOrigin Point) Rect {
	o := f.ContentOffset()
	return Rect{
		X:      parentContentOrigin.X + o.X,
		Y:      parentContentOrigin.Y + o.Y,
		Width:  f.ContentSize.Width,
		Height: f.ContentSize.Height,
	}
}

// Walk visits the fragment tree in pre-order, handing each fragment its
// absolute content origin.
func (f *Fragment) Walk(origin Point, visit func(frag *Fragment, contentOrigin Point)) {
	content := f.ContentRect(origin)
	visit(f, Point{X: content.X, Y: content.Y})
	for _, c := range f.Children {
		c.Walk(Point{X: content.X, Y: content.Y}, visit)
	}
}

// Dump renders the fragment tree in the golden-output format: one line
// per fragment, pre-order, "box-id x y width height" with absolute
// border-box geometry.
func Dump(root *Fragment) string {
	if root == nil {
		return ""
	}
	var sb strings.Builder
	dumpFragment(&sb, root, Point{})
	return sb.String()
}

func dumpFragment(sb *strings.Builder, f *Fragment, parentContentOrigin Point) {
	r := f.BorderRect(parentContentOrigin)
	sb.WriteString(strconv.Itoa(int(f.Node)))
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte('\n')
	c := f.ContentRect(parentContentOrigin)
	for _, child := range f.Children {
		dumpFragment(sb, child, Point{X: c.X, Y: c.Y})
	}
}

// clone deep-copies a fragment subtree; used when serving memoized
// results so a caller's positioning never leaks into the cache.
func (f *Fragment) clone() *Fragment {
	cp := *f
	cp.Children = make([]*Fragment, len(f.Children))
	for i, c := range f.Children {
		cp.Children[i] = c.clone()
	}
	return &cp
}
