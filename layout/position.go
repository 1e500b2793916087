package layout

import (
	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// cbFrame is one candidate containing block on the ancestor stack during
// the positioning pass. The padding rect is what absolute descendants
// resolve against; the content rect is the coordinate origin for the
// frame's own children.
type cbFrame struct {
	padding    Rect
	content    Rect
	positioned bool
	scroll     bool
}

// position runs the second pass over a finished flow tree: it applies
// relative offsets, clamps sticky boxes into their scroll containers and
// lays out the deferred absolute and fixed subtrees against their
// containing blocks. Fragments keep parent-relative offsets throughout;
// absolute coordinates exist only on the frame stack.
func (pc *passContext) position(root *Fragment, space box.AvailableSpace) error {
	vw, vwOK := space.Width.Get()
	if !vwOK {
		vw = root.MarginSize().Width
	}
	vh, vhOK := space.Height.Get()
	if !vhOK {
		vh = root.MarginSize().Height
	}
	viewport := Rect{Width: vw, Height: vh}
	frames := []cbFrame{{padding: viewport, content: viewport, positioned: true, scroll: true}}
	return pc.positionChildren(root, Point{}, frames)
}

// positionChildren walks one fragment's children, fixing up each child's
// offset and recursing with an extended frame stack. origin is the
// absolute content origin of f.
func (pc *passContext) positionChildren(f *Fragment, parentOrigin Point, frames []cbFrame) error {
	content := f.ContentRect(parentOrigin)
	origin := Point{X: content.X, Y: content.Y}

	for _, child := range f.Children {
		if child.OutOfFlow {
			if err := pc.placeOutOfFlow(child, origin, frames); err != nil {
				return err
			}
			continue
		}
		cst := pc.tree.Node(child.Node).Style
		switch cst.Position {
		case style.PositionRelative:
			dx, dy := relativeOffset(cst, f.ContentSize)
			child.Offset.X += dx
			child.Offset.Y += dy
		case style.PositionSticky:
			pc.stickyClamp(child, origin, frames)
		}

		next := frames
		if cst.IsPositioned() || cst.ScrollContainer {
			next = append(frames[:len(frames):len(frames)], cbFrame{
				padding:    child.PaddingRect(origin),
				content:    child.ContentRect(origin),
				positioned: cst.IsPositioned(),
				scroll:     cst.ScrollContainer,
			})
		}
		if err := pc.positionChildren(child, origin, next); err != nil {
			return err
		}
	}
	return nil
}

// relativeOffset resolves the visual shift of a relatively positioned
// box. Left wins over right and top over bottom when both are set;
// percentages resolve against the parent's content box.
func relativeOffset(st *style.Style, parent Size) (dx, dy float64) {
	if v, ok := st.Inset.Left.Resolve(parent.Width, true); ok {
		dx = v
	} else if v, ok := st.Inset.Right.Resolve(parent.Width, true); ok {
		dx = -v
	}
	if v, ok := st.Inset.Top.Resolve(parent.Height, true); ok {
		dy = v
	} else if v, ok := st.Inset.Bottom.Resolve(parent.Height, true); ok {
		dy = -v
	}
	return dx, dy
}

// stickyClamp adjusts a sticky box toward its inset bounds inside the
// nearest scroll container, evaluated at a scroll offset of zero. The
// box never escapes its flow position by more than the clamp requires.
func (pc *passContext) stickyClamp(f *Fragment, parentOrigin Point, frames []cbFrame) {
	var sc cbFrame
	found := false
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].scroll {
			sc = frames[i]
			found = true
			break
		}
	}
	if !found {
		return
	}
	st := pc.tree.Node(f.Node).Style
	r := f.BorderRect(parentOrigin)

	if v, ok := st.Inset.Top.Resolve(sc.content.Height, true); ok {
		if min := sc.content.Y + v; r.Y < min {
			f.Offset.Y += min - r.Y
		}
	} else if v, ok := st.Inset.Bottom.Resolve(sc.content.Height, true); ok {
		if max := sc.content.Bottom() - v - r.Height; r.Y > max {
			f.Offset.Y -= r.Y - max
		}
	}
	if v, ok := st.Inset.Left.Resolve(sc.content.Width, true); ok {
		if min := sc.content.X + v; r.X < min {
			f.Offset.X += min - r.X
		}
	} else if v, ok := st.Inset.Right.Resolve(sc.content.Width, true); ok {
		if max := sc.content.Right() - v - r.Width; r.X > max {
			f.Offset.X -= r.X - max
		}
	}
}

// placeOutOfFlow replaces an out-of-flow placeholder with the laid-out
// subtree, positioned against its containing block: the viewport for
// fixed boxes, the padding box of the nearest positioned ancestor for
// absolute ones. An axis with no definite inset falls back to the static
// position recorded by the flow pass.
func (pc *passContext) placeOutOfFlow(f *Fragment, parentOrigin Point, frames []cbFrame) error {
	n := pc.tree.Node(f.Node)
	st := n.Style

	var cb Rect
	if st.Position == style.PositionFixed {
		cb = frames[0].padding
	} else {
		found := false
		for i := len(frames) - 1; i >= 0; i-- {
			if frames[i].positioned {
				cb = frames[i].padding
				found = true
				break
			}
		}
		if !found {
			return ErrNoContainingBlock
		}
	}

	cbSpace := box.AvailableSpace{Width: box.Definite(cb.Width), Height: box.Definite(cb.Height)}
	bm := pc.resolveBoxModel(n, cbSpace)

	left, leftOK := st.Inset.Left.Resolve(cb.Width, true)
	right, rightOK := st.Inset.Right.Resolve(cb.Width, true)
	top, topOK := st.Inset.Top.Resolve(cb.Height, true)
	bottom, bottomOK := st.Inset.Bottom.Resolve(cb.Height, true)

	// Width: explicit wins; both horizontal insets solve for it; otherwise
	// shrink-to-fit within the containing block.
	if _, ok := st.Width.Resolve(cb.Width, true); !ok {
		if leftOK && rightOK {
			w := cb.Width - left - right - bm.margin.Horizontal() - bm.horizontalBP()
			if w < 0 {
				pc.note(f.Node, "content width clamped to zero")
				w = 0
			}
			bm.contentWidth = w
		} else {
			w := pc.preferredContentWidth(n)
			if avail := cb.Width - bm.margin.Horizontal() - bm.horizontalBP(); w > avail {
				w = avail
			}
			if w < 0 {
				w = 0
			}
			bm.contentWidth = w
		}
	}
	if _, ok := st.Height.Resolve(cb.Height, true); !ok && topOK && bottomOK {
		h := cb.Height - top - bottom - bm.margin.Vertical() - bm.verticalBP()
		if h < 0 {
			pc.note(f.Node, "content height clamped to zero")
			h = 0
		}
		bm.height = box.Definite(h)
	}

	static := f.StaticOffset
	frag := pc.layoutWithModel(n, bm)
	frag.OutOfFlow = true
	frag.StaticOffset = static

	bs := frag.BorderSize()
	var x, y float64
	switch {
	case leftOK:
		x = cb.X + left + frag.Margin.Left
	case rightOK:
		x = cb.Right() - right - frag.Margin.Right - bs.Width
	default:
		x = parentOrigin.X + static.X + frag.Margin.Left
	}
	switch {
	case topOK:
		y = cb.Y + top + frag.Margin.Top
	case bottomOK:
		y = cb.Bottom() - bottom - frag.Margin.Bottom - bs.Height
	default:
		y = parentOrigin.Y + static.Y + frag.Margin.Top
	}

	// The fragment stays parent-relative: translate the absolute border
	// origin back into the parent's content space.
	frag.Offset = Point{
		X: x - frag.Margin.Left - parentOrigin.X,
		Y: y - frag.Margin.Top - parentOrigin.Y,
	}
	*f = *frag

	next := append(frames[:len(frames):len(frames)], cbFrame{
		padding:    f.PaddingRect(parentOrigin),
		content:    f.ContentRect(parentOrigin),
		positioned: true,
		scroll:     st.ScrollContainer,
	})
	return pc.positionChildren(f, parentOrigin, next)
}
