package layout

import (
	"math"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// boxModel is the per-box resolution of edges and size constraints
// against one available space. Content width is always resolved to a
// concrete number; height stays indefinite until children are laid out
// when the style leaves it auto.
type boxModel struct {
	margin  EdgeSizes
	border  EdgeSizes
	padding EdgeSizes

	marginLeftAuto  bool
	marginRightAuto bool

	contentWidth float64
	height       box.SizeConstraint
	minHeight    float64
	maxHeight    float64
}

func (bm boxModel) horizontalBP() float64 {
	return bm.border.Horizontal() + bm.padding.Horizontal()
}

func (bm boxModel) verticalBP() float64 {
	return bm.border.Vertical() + bm.padding.Vertical()
}

func resolveEdges(e style.Edges, base float64, baseDefinite bool) EdgeSizes {
	return EdgeSizes{
		Top:    e.Top.ResolveOrZero(base, baseDefinite),
		Right:  e.Right.ResolveOrZero(base, baseDefinite),
		Bottom: e.Bottom.ResolveOrZero(base, baseDefinite),
		Left:   e.Left.ResolveOrZero(base, baseDefinite),
	}
}

// clampMinMax applies the standard clamping order: clamp to max first,
// then to min, so min wins when the two conflict.
func clampMinMax(v, min, max float64) float64 {
	if v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return v
}

// resolveBoxModel resolves margins, border, padding and the content width
// for a box within the given space. Percentages resolve against the
// containing width; an indefinite containing dimension makes percentage
// sizes behave as auto, never zero.
func (pc *passContext) resolveBoxModel(n *box.Node, space box.AvailableSpace) boxModel {
	st := n.Style
	pw, pwDef := space.Width.Get()
	ph, phDef := space.Height.Get()

	bm := boxModel{
		padding: resolveEdges(st.Padding, pw, pwDef),
		border:  resolveEdges(st.Border, pw, pwDef),
		margin:  resolveEdges(st.Margin, pw, pwDef),
	}
	bm.marginLeftAuto = st.Margin.Left.IsAuto()
	bm.marginRightAuto = st.Margin.Right.IsAuto()

	minW := st.MinWidth.ResolveOrZero(pw, pwDef)
	maxW := math.Inf(1)
	if v, ok := st.MaxWidth.Resolve(pw, pwDef); ok {
		maxW = v
	}

	w, wOK := st.Width.Resolve(pw, pwDef)
	fill := pc.effectiveDisplay(n) != style.DisplayInline
	switch {
	case wOK:
		w = clampMinMax(w, minW, maxW)
	case fill && pwDef:
		w = pw - bm.margin.Horizontal() - bm.horizontalBP()
		w = clampMinMax(w, minW, maxW)
	default:
		// Shrink-to-fit for inline boxes and for fills inside an
		// indefinite containing width.
		w = clampMinMax(pc.preferredContentWidth(n), minW, maxW)
		if pwDef {
			avail := pw - bm.margin.Horizontal() - bm.horizontalBP()
			if avail < 0 {
				avail = 0
			}
			if w > avail {
				w = avail
			}
		}
	}
	if w < 0 {
		pc.note(n.ID, "content width clamped to zero")
		w = 0
	}
	bm.contentWidth = w

	// Auto horizontal margins absorb leftover space when the width is
	// explicit (block centering).
	if wOK && fill && pwDef {
		leftover := pw - w - bm.horizontalBP() - bm.margin.Horizontal()
		if leftover > 0 {
			switch {
			case bm.marginLeftAuto && bm.marginRightAuto:
				bm.margin.Left += leftover / 2
				bm.margin.Right += leftover / 2
			case bm.marginLeftAuto:
				bm.margin.Left += leftover
			case bm.marginRightAuto:
				bm.margin.Right += leftover
			}
		}
	}

	bm.minHeight = st.MinHeight.ResolveOrZero(ph, phDef)
	bm.maxHeight = math.Inf(1)
	if v, ok := st.MaxHeight.Resolve(ph, phDef); ok {
		bm.maxHeight = v
	}
	if h, ok := st.Height.Resolve(ph, phDef); ok {
		h = clampMinMax(h, bm.minHeight, bm.maxHeight)
		if h < 0 {
			pc.note(n.ID, "content height clamped to zero")
			h = 0
		}
		bm.height = box.Definite(h)
	} else {
		bm.height = box.Indefinite()
	}
	return bm
}

// finishHeight settles the final content height once children are known.
func (pc *passContext) finishHeight(n *box.Node, bm boxModel, autoHeight float64) float64 {
	if h, ok := bm.height.Get(); ok {
		return h
	}
	h := clampMinMax(autoHeight, bm.minHeight, bm.maxHeight)
	if h < 0 {
		pc.note(n.ID, "content height clamped to zero")
		h = 0
	}
	return h
}

// preferredContentWidth returns the max-content width of a box's content
// box. Leaves consult the intrinsic sizer; containers derive it from
// their children per formatting context.
func (pc *passContext) preferredContentWidth(n *box.Node) float64 {
	st := n.Style
	minW := st.MinWidth.ResolveOrZero(0, false)
	maxW := math.Inf(1)
	if v, ok := st.MaxWidth.Resolve(0, false); ok {
		maxW = v
	}
	if w, ok := st.Width.Resolve(0, false); ok {
		return clampMinMax(w, minW, maxW)
	}
	if len(n.Children) == 0 {
		intr := pc.sizer().Measure(n, box.IndefiniteSpace())
		return clampMinMax(intr.PreferredWidth, minW, maxW)
	}

	var w float64
	switch pc.effectiveDisplay(n) {
	case style.DisplayFlex:
		if st.FlexDirection.IsRow() {
			count := 0
			for _, cid := range n.Children {
				c := pc.tree.Node(cid)
				if c.Style.Display == style.DisplayNone || !inFlow(c.Style) {
					continue
				}
				w += pc.preferredOuterWidth(cid)
				count++
			}
			if count > 1 {
				w += st.ColumnGap * float64(count-1)
			}
		} else {
			for _, cid := range n.Children {
				c := pc.tree.Node(cid)
				if c.Style.Display == style.DisplayNone || !inFlow(c.Style) {
					continue
				}
				if cw := pc.preferredOuterWidth(cid); cw > w {
					w = cw
				}
			}
		}
	case style.DisplayGrid:
		// Fixed template tracks plus the widest item for the rest; a
		// coarse but stable estimate for shrink-to-fit grids.
		var fixed float64
		for _, t := range st.GridTemplateColumns {
			if t.Max.Kind == style.BreadthPx {
				fixed += t.Max.Value
			}
		}
		if k := len(st.GridTemplateColumns); k > 1 {
			fixed += st.ColumnGap * float64(k-1)
		}
		w = fixed
		for _, cid := range n.Children {
			c := pc.tree.Node(cid)
			if c.Style.Display == style.DisplayNone || !inFlow(c.Style) {
				continue
			}
			if cw := pc.preferredOuterWidth(cid); cw > w {
				w = cw
			}
		}
	case style.DisplayInline:
		for _, cid := range n.Children {
			c := pc.tree.Node(cid)
			if c.Style.Display == style.DisplayNone || !inFlow(c.Style) {
				continue
			}
			w += pc.preferredOuterWidth(cid)
		}
	default:
		for _, cid := range n.Children {
			c := pc.tree.Node(cid)
			if c.Style.Display == style.DisplayNone || !inFlow(c.Style) {
				continue
			}
			if cw := pc.preferredOuterWidth(cid); cw > w {
				w = cw
			}
		}
	}
	return clampMinMax(w, minW, maxW)
}

// preferredOuterWidth is preferredContentWidth plus the box's own edges,
// with percentages treated as auto (indefinite base).
func (pc *passContext) preferredOuterWidth(id box.NodeID) float64 {
	n := pc.tree.Node(id)
	st := n.Style
	edges := resolveEdges(st.Margin, 0, false).Horizontal() +
		resolveEdges(st.Border, 0, false).Horizontal() +
		resolveEdges(st.Padding, 0, false).Horizontal()
	return pc.preferredContentWidth(n) + edges
}

// measureBorderHeightForWidth lays a box out at a forced content width
// and reports the resulting border-box height. Used for hypothetical
// cross sizes in flex and for auto row sizing in grid.
func (pc *passContext) measureBorderHeightForWidth(n *box.Node, contentW float64, base box.AvailableSpace) float64 {
	bm := pc.resolveBoxModel(n, base)
	bm.contentWidth = contentW
	frag := pc.layoutWithModel(n, bm)
	return frag.BorderSize().Height
}
