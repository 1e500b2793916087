package layout

import (
	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// layoutBlockContainer stacks block-level children top to bottom and
// flows inline-level children left to right with wrapping. Children
// receive an available space narrowed to the content box; an auto height
// grows to the flow height. Oversized children are never clipped, only
// reported through the fragment's overflow extent.
func (pc *passContext) layoutBlockContainer(n *box.Node, bm boxModel) *Fragment {
	contentW := bm.contentWidth
	childSpace := box.AvailableSpace{Width: box.Definite(contentW), Height: bm.height}

	var children []*Fragment
	var cursorY, rowX, rowH float64
	var maxRight, maxBottom float64
	inRow := false

	flushRow := func() {
		if inRow {
			cursorY += rowH
			rowX, rowH = 0, 0
			inRow = false
		}
	}
	extend := func(f *Fragment) {
		o := f.BorderOffset()
		s := f.BorderSize()
		if r := o.X + s.Width; r > maxRight {
			maxRight = r
		}
		if b := o.Y + s.Height; b > maxBottom {
			maxBottom = b
		}
	}

	for _, cid := range n.Children {
		c := pc.tree.Node(cid)
		cst := c.Style
		if cst.Display == style.DisplayNone {
			continue
		}
		if !inFlow(cst) {
			children = append(children, placeholder(cid, Point{X: rowX, Y: cursorY}))
			continue
		}
		if pc.effectiveDisplay(c) == style.DisplayInline {
			frag := pc.layoutNode(cid, childSpace)
			mw := frag.MarginSize()
			if inRow && rowX+mw.Width > contentW {
				cursorY += rowH
				rowX, rowH = 0, 0
			}
			frag.Offset = Point{X: rowX, Y: cursorY}
			rowX += mw.Width
			if mw.Height > rowH {
				rowH = mw.Height
			}
			inRow = true
			children = append(children, frag)
			extend(frag)
			continue
		}
		flushRow()
		frag := pc.layoutNode(cid, childSpace)
		frag.Offset = Point{X: 0, Y: cursorY}
		cursorY += frag.MarginSize().Height
		children = append(children, frag)
		extend(frag)
	}
	flushRow()

	autoHeight := cursorY
	if len(n.Children) == 0 {
		intr := pc.sizer().Measure(n, childSpace)
		autoHeight = intr.PreferredHeight
	}
	contentH := pc.finishHeight(n, bm, autoHeight)

	frag := &Fragment{
		Node:        n.ID,
		ContentSize: Size{Width: contentW, Height: contentH},
		Margin:      bm.margin,
		Border:      bm.border,
		Padding:     bm.padding,
		Children:    children,
	}
	if maxRight > contentW {
		frag.Overflow.Width = maxRight - contentW
	}
	if maxBottom > contentH {
		frag.Overflow.Height = maxBottom - contentH
	}
	return frag
}
