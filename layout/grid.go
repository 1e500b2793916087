package layout

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// gridTrack is the transient per-pass record of one track's resolved
// sizing function and base size. Tracks exist only for the duration of
// one grid layout invocation and are never stored on the box.
type gridTrack struct {
	size style.TrackSize
	base float64
	min  float64
	max  float64
}

// gridItem holds per-item placement and box-model scratch state.
type gridItem struct {
	id   box.NodeID
	node *box.Node
	slot int

	colStart, colSpan int
	rowStart, rowSpan int
	colAuto, rowAuto  bool

	margin   EdgeSizes
	bpH, bpV float64
}

// layoutGridContainer implements track resolution, auto-placement, fr
// distribution and item alignment. Columns are sized first, then rows,
// since auto row heights depend on the widths items end up with.
func (pc *passContext) layoutGridContainer(n *box.Node, bm boxModel) *Fragment {
	st := n.Style
	contentW := bm.contentWidth
	base := box.AvailableSpace{Width: box.Definite(contentW), Height: bm.height}

	children, items := pc.collectGridItems(n, contentW)

	if len(items) == 0 {
		contentH := pc.finishHeight(n, bm, 0)
		return &Fragment{
			Node:        n.ID,
			ContentSize: Size{Width: contentW, Height: contentH},
			Margin:      bm.margin, Border: bm.border, Padding: bm.padding,
			Children: children,
		}
	}

	colCount, rowCount := placeGridItems(items, len(st.GridTemplateColumns), len(st.GridTemplateRows), st.GridAutoFlowColumn, st.GridAutoFlowDense)

	cols := makeTracks(st.GridTemplateColumns, st.GridAutoColumns, colCount)
	rows := makeTracks(st.GridTemplateRows, st.GridAutoRows, rowCount)

	pc.sizeColumnTracks(cols, box.Definite(contentW), st.ColumnGap, items)
	pc.sizeRowTracks(rows, cols, bm.height, st.RowGap, st.ColumnGap, items, base)

	colPos := positionTracks(cols, box.Definite(contentW), st.ColumnGap, justifyToAlignment(st.JustifyContent))
	rowPos := positionTracks(rows, bm.height, st.RowGap, alignContentToAlignment(st.AlignContent))

	pc.layoutGridItemContents(children, items, cols, rows, colPos, rowPos, st, base)

	autoHeight := tracksExtent(rows, rowPos, st.RowGap)
	contentH := pc.finishHeight(n, bm, autoHeight)

	frag := &Fragment{
		Node:        n.ID,
		ContentSize: Size{Width: contentW, Height: contentH},
		Margin:      bm.margin, Border: bm.border, Padding: bm.padding,
		Children: children,
	}
	for _, f := range children {
		if f == nil || f.OutOfFlow {
			continue
		}
		o := f.BorderOffset()
		s := f.BorderSize()
		if r := o.X + s.Width - contentW; r > frag.Overflow.Width {
			frag.Overflow.Width = r
		}
		if b := o.Y + s.Height - contentH; b > frag.Overflow.Height {
			frag.Overflow.Height = b
		}
	}
	return frag
}

func (pc *passContext) collectGridItems(n *box.Node, contentW float64) ([]*Fragment, []*gridItem) {
	var children []*Fragment
	var items []*gridItem
	for _, cid := range n.Children {
		c := pc.tree.Node(cid)
		cst := c.Style
		if cst.Display == style.DisplayNone {
			continue
		}
		if !inFlow(cst) {
			children = append(children, placeholder(cid, Point{}))
			continue
		}
		children = append(children, nil)
		it := &gridItem{
			id:     cid,
			node:   c,
			slot:   len(children) - 1,
			margin: resolveEdges(cst.Margin, contentW, true),
		}
		bp := resolveEdges(cst.Border, contentW, true)
		pad := resolveEdges(cst.Padding, contentW, true)
		it.bpH = bp.Horizontal() + pad.Horizontal()
		it.bpV = bp.Vertical() + pad.Vertical()
		items = append(items, it)
	}
	return children, items
}

// resolveLineStart turns a placement into a 0-based start track index,
// or -1 when the axis is auto-placed. Negative line numbers count from
// the end of the explicit grid.
func resolveLineStart(p style.GridPlacement, explicit int) int {
	line := p.Start
	fromEnd := false
	if line.Kind != style.GridLineIndex {
		line = p.End
		fromEnd = true
	}
	if line.Kind != style.GridLineIndex {
		return -1
	}
	v := line.Value
	if v < 0 {
		v = explicit + 2 + v // -1 is the last explicit line
	}
	start := v - 1
	if fromEnd {
		start -= p.SpanCount()
	}
	if start < 0 {
		start = 0
	}
	return start
}

// resolveSpan returns the track count a placement covers, normalizing
// negative line numbers against the explicit grid before subtracting.
func resolveSpan(p style.GridPlacement, explicit int) int {
	if p.Start.Kind == style.GridLineIndex && p.End.Kind == style.GridLineIndex {
		s, e := p.Start.Value, p.End.Value
		if s < 0 {
			s = explicit + 2 + s
		}
		if e < 0 {
			e = explicit + 2 + e
		}
		n := e - s
		if n < 1 {
			n = 1
		}
		return n
	}
	return p.SpanCount()
}

// placeGridItems resolves explicit placements, then auto-places the
// remaining items in document order along the flow direction. Dense
// packing rescans from the grid origin for every item instead of
// continuing from the cursor. Returns the final track counts including
// implicit tracks.
func placeGridItems(items []*gridItem, explicitCols, explicitRows int, columnFlow, dense bool) (colCount, rowCount int) {
	colCount = explicitCols
	if colCount < 1 {
		colCount = 1
	}
	rowCount = explicitRows
	if rowCount < 1 {
		rowCount = 1
	}

	occupied := make(map[[2]int]bool)
	occupy := func(it *gridItem) {
		for r := it.rowStart; r < it.rowStart+it.rowSpan; r++ {
			for c := it.colStart; c < it.colStart+it.colSpan; c++ {
				occupied[[2]int{r, c}] = true
			}
		}
		if it.rowStart+it.rowSpan > rowCount {
			rowCount = it.rowStart + it.rowSpan
		}
		if it.colStart+it.colSpan > colCount {
			colCount = it.colStart + it.colSpan
		}
	}
	fits := func(r, c, rs, cs int) bool {
		for i := r; i < r+rs; i++ {
			for j := c; j < c+cs; j++ {
				if occupied[[2]int{i, j}] {
					return false
				}
			}
		}
		return true
	}

	// Explicitly placed items go first.
	var auto []*gridItem
	for _, it := range items {
		it.colSpan = resolveSpan(it.node.Style.GridColumn, explicitCols)
		it.rowSpan = resolveSpan(it.node.Style.GridRow, explicitRows)
		it.colStart = resolveLineStart(it.node.Style.GridColumn, explicitCols)
		it.rowStart = resolveLineStart(it.node.Style.GridRow, explicitRows)
		it.colAuto = it.colStart < 0
		it.rowAuto = it.rowStart < 0
		if !it.colAuto && !it.rowAuto {
			occupy(it)
			continue
		}
		auto = append(auto, it)
	}

	// Items pinned on one axis scan the other axis for the first fit.
	var flowing []*gridItem
	for _, it := range auto {
		switch {
		case !it.colAuto:
			for r := 0; ; r++ {
				if fits(r, it.colStart, it.rowSpan, it.colSpan) {
					it.rowStart = r
					occupy(it)
					break
				}
			}
		case !it.rowAuto:
			for c := 0; ; c++ {
				if fits(it.rowStart, c, it.rowSpan, it.colSpan) {
					it.colStart = c
					occupy(it)
					break
				}
			}
		default:
			flowing = append(flowing, it)
		}
	}

	// Fully automatic items follow the flow cursor.
	curR, curC := 0, 0
	for _, it := range flowing {
		if dense {
			curR, curC = 0, 0
		}
		if columnFlow {
			r, c := curR, curC
			for {
				if r+it.rowSpan > rowCount && r > 0 {
					r = 0
					c++
					continue
				}
				if fits(r, c, it.rowSpan, it.colSpan) {
					it.rowStart, it.colStart = r, c
					break
				}
				r++
			}
			occupy(it)
			curR, curC = it.rowStart+1, it.colStart
			if curR >= rowCount {
				curR, curC = 0, it.colStart+1
			}
		} else {
			r, c := curR, curC
			for {
				if c+it.colSpan > colCount && c > 0 {
					c = 0
					r++
					continue
				}
				if fits(r, c, it.rowSpan, it.colSpan) {
					it.rowStart, it.colStart = r, c
					break
				}
				c++
			}
			occupy(it)
			curR, curC = it.rowStart, it.colStart+1
			if curC >= colCount {
				curR, curC = it.rowStart+1, 0
			}
		}
	}
	return colCount, rowCount
}

// makeTracks builds the track list: the explicit template plus implicit
// tracks sized by the auto-track property.
func makeTracks(template []style.TrackSize, autoSize style.TrackSize, count int) []gridTrack {
	tracks := make([]gridTrack, count)
	for i := range tracks {
		if i < len(template) {
			tracks[i].size = template[i]
		} else {
			tracks[i].size = autoSize
		}
	}
	return tracks
}

// resolveBreadth returns the definite pixel value of a breadth, or
// (0, false) for auto/fr or an unresolvable percentage.
func resolveBreadth(b style.Breadth, container float64, containerDef bool) (float64, bool) {
	switch b.Kind {
	case style.BreadthPx:
		return b.Value, true
	case style.BreadthPercent:
		if containerDef {
			return container * b.Value / 100, true
		}
	}
	return 0, false
}

// sizeColumnTracks resolves column base sizes: fixed and percentage
// tracks directly, auto tracks from their items' preferred widths, then
// fr tracks from the leftover space with a single clamp redistribution.
func (pc *passContext) sizeColumnTracks(tracks []gridTrack, containerC box.SizeConstraint, gap float64, items []*gridItem) {
	container, containerDef := containerC.Get()
	contentFor := func(trackIdx int) float64 {
		var max float64
		for _, it := range items {
			if trackIdx < it.colStart || trackIdx >= it.colStart+it.colSpan {
				continue
			}
			pref := pc.preferredOuterWidth(it.id)
			// Spanning items spread their contribution evenly over the
			// spanned tracks.
			pref /= float64(it.colSpan)
			if pref > max {
				max = pref
			}
		}
		return max
	}
	sizeTrackBases(tracks, container, containerDef, gap, contentFor)
}

// sizeRowTracks resolves row base sizes; auto rows measure their items'
// heights at the column widths they were placed into.
func (pc *passContext) sizeRowTracks(tracks []gridTrack, cols []gridTrack, containerC box.SizeConstraint, gap, colGap float64, items []*gridItem, base box.AvailableSpace) {
	container, containerDef := containerC.Get()
	contentFor := func(trackIdx int) float64 {
		var max float64
		for _, it := range items {
			if trackIdx < it.rowStart || trackIdx >= it.rowStart+it.rowSpan {
				continue
			}
			cellW := spanSize(cols, it.colStart, it.colSpan, colGap)
			cw := cellW - it.margin.Horizontal() - it.bpH
			if cw < 0 {
				cw = 0
			}
			h := pc.measureBorderHeightForWidth(it.node, cw, base) + it.margin.Vertical()
			h /= float64(it.rowSpan)
			if h > max {
				max = h
			}
		}
		return max
	}
	sizeTrackBases(tracks, container, containerDef, gap, contentFor)
}

// sizeTrackBases is the axis-independent sizing core. fr tracks receive
// (fr / sum-of-fr) shares of the space left after non-flexible tracks
// and gaps; clamping against minmax() bounds redistributes the absorbed
// space among unclamped fr tracks exactly once.
func sizeTrackBases(tracks []gridTrack, container float64, containerDef bool, gap float64, contentFor func(int) float64) {
	for i := range tracks {
		t := &tracks[i]
		t.min, _ = resolveBreadth(t.size.Min, container, containerDef)
		t.max = math.Inf(1)
		if v, ok := resolveBreadth(t.size.Max, container, containerDef); ok && !t.size.IsFlexible() {
			t.max = v
		}
		if t.size.IsFlexible() {
			t.base = t.min
			continue
		}
		if v, ok := resolveBreadth(t.size.Max, container, containerDef); ok {
			t.base = clampMinMax(v, t.min, t.max)
			continue
		}
		t.base = clampMinMax(contentFor(i), t.min, t.max)
	}

	var frSum, used float64
	frIdx := make([]int, 0, len(tracks))
	for i := range tracks {
		if tracks[i].size.IsFlexible() {
			frSum += tracks[i].size.Max.Value
			frIdx = append(frIdx, i)
		} else {
			used += tracks[i].base
		}
	}
	if len(frIdx) == 0 {
		return
	}
	if len(tracks) > 1 {
		used += gap * float64(len(tracks)-1)
	}
	for _, i := range frIdx {
		used += tracks[i].base // fr minimums already reserve space
	}
	if !containerDef || frSum == 0 {
		return
	}
	available := container - used
	if available <= 0 {
		return
	}

	// First distribution, then one redistribution for clamped tracks.
	var violation float64
	open := make([]int, 0, len(frIdx))
	for _, i := range frIdx {
		t := &tracks[i]
		target := t.base + available*t.size.Max.Value/frSum
		clamped := clampMinMax(target, t.min, t.max)
		violation += target - clamped
		if clamped == target {
			open = append(open, i)
		}
		t.base = clamped
	}
	if violation != 0 && len(open) > 0 {
		var openSum float64
		for _, i := range open {
			openSum += tracks[i].size.Max.Value
		}
		if openSum > 0 {
			for _, i := range open {
				t := &tracks[i]
				t.base = clampMinMax(t.base+violation*t.size.Max.Value/openSum, t.min, t.max)
			}
		}
	}
}

// alignment is the shared content-distribution resolution for placing
// the whole track set inside a larger container.
type alignment int

const (
	alignStart alignment = iota
	alignEnd
	alignCenter
	alignSpaceBetween
	alignSpaceAround
	alignSpaceEvenly
)

func justifyToAlignment(j style.JustifyContent) alignment {
	switch j {
	case style.JustifyFlexEnd:
		return alignEnd
	case style.JustifyCenter:
		return alignCenter
	case style.JustifySpaceBetween:
		return alignSpaceBetween
	case style.JustifySpaceAround:
		return alignSpaceAround
	case style.JustifySpaceEvenly:
		return alignSpaceEvenly
	default:
		return alignStart
	}
}

func alignContentToAlignment(a style.AlignContent) alignment {
	switch a {
	case style.AlignContentFlexEnd:
		return alignEnd
	case style.AlignContentCenter:
		return alignCenter
	case style.AlignContentSpaceBetween:
		return alignSpaceBetween
	case style.AlignContentSpaceAround:
		return alignSpaceAround
	default:
		return alignStart
	}
}

// positionTracks computes each track's start offset, distributing any
// leftover container space per the content-alignment keyword.
func positionTracks(tracks []gridTrack, containerC box.SizeConstraint, gap float64, align alignment) []float64 {
	var total float64
	for i := range tracks {
		total += tracks[i].base
		if i > 0 {
			total += gap
		}
	}
	container, def := containerC.Get()
	free := 0.0
	if def {
		free = container - total
		if free < 0 {
			free = 0
		}
	}
	n := len(tracks)
	var start, between float64
	switch align {
	case alignEnd:
		start = free
	case alignCenter:
		start = free / 2
	case alignSpaceBetween:
		if n > 1 {
			between = free / float64(n-1)
		}
	case alignSpaceAround:
		between = free / float64(n)
		start = between / 2
	case alignSpaceEvenly:
		between = free / float64(n+1)
		start = between
	}

	pos := make([]float64, n)
	cur := start
	for i := range tracks {
		pos[i] = cur
		cur += tracks[i].base + gap + between
	}
	return pos
}

// spanSize sums N spanned tracks plus the N-1 internal gaps.
func spanSize(tracks []gridTrack, start, span int, gap float64) float64 {
	var total float64
	for i := start; i < start+span && i < len(tracks); i++ {
		total += tracks[i].base
	}
	if span > 1 {
		total += gap * float64(span-1)
	}
	return total
}

func tracksExtent(tracks []gridTrack, pos []float64, gap float64) float64 {
	if len(tracks) == 0 {
		return 0
	}
	last := len(tracks) - 1
	return pos[last] + tracks[last].base
}

func resolvedJustifySelf(self, items style.ItemAlign) style.ItemAlign {
	if self != style.ItemAlignAuto {
		return self
	}
	if items == style.ItemAlignAuto {
		return style.ItemAlignStretch
	}
	return items
}

// gridAlignSelf maps the shared align-self values onto grid item
// alignment; baseline degrades to start.
func gridAlignSelf(self style.AlignSelf, items style.AlignItems) style.ItemAlign {
	switch resolvedAlignSelf(self, items) {
	case style.AlignSelfFlexStart, style.AlignSelfBaseline:
		return style.ItemAlignStart
	case style.AlignSelfFlexEnd:
		return style.ItemAlignEnd
	case style.AlignSelfCenter:
		return style.ItemAlignCenter
	default:
		return style.ItemAlignStretch
	}
}

// layoutGridItemContents sizes and positions every item inside its grid
// area, then lays out its content at the final definite size. Sibling
// items are laid out in parallel when enabled.
func (pc *passContext) layoutGridItemContents(children []*Fragment, items []*gridItem, cols, rows []gridTrack, colPos, rowPos []float64, st *style.Style, base box.AvailableSpace) {
	layoutOne := func(it *gridItem) {
		cst := it.node.Style
		cellX := colPos[it.colStart]
		cellY := rowPos[it.rowStart]
		cellW := spanSize(cols, it.colStart, it.colSpan, st.ColumnGap)
		cellH := spanSize(rows, it.rowStart, it.rowSpan, st.RowGap)

		// Horizontal sizing per justify-self.
		justify := resolvedJustifySelf(cst.JustifySelf, st.JustifyItems)
		borderW, wOK := 0.0, false
		if v, ok := cst.Width.Resolve(cellW, true); ok {
			borderW, wOK = v+it.bpH, true
		}
		if !wOK {
			if justify == style.ItemAlignStretch {
				borderW = cellW - it.margin.Horizontal()
			} else {
				borderW = pc.preferredContentWidth(it.node) + it.bpH
				if max := cellW - it.margin.Horizontal(); borderW > max {
					borderW = max
				}
			}
		}
		if borderW < it.bpH {
			borderW = it.bpH
		}

		// Vertical sizing per align-self.
		alignV := gridAlignSelf(cst.AlignSelf, st.AlignItems)
		borderH, hOK := 0.0, false
		if v, ok := cst.Height.Resolve(cellH, true); ok {
			borderH, hOK = v+it.bpV, true
		}
		if !hOK {
			if alignV == style.ItemAlignStretch {
				borderH = cellH - it.margin.Vertical()
			} else {
				cw := borderW - it.bpH
				if cw < 0 {
					cw = 0
				}
				borderH = pc.measureBorderHeightForWidth(it.node, cw, base)
			}
		}
		if borderH < it.bpV {
			borderH = it.bpV
		}

		x := cellX + it.margin.Left
		switch justify {
		case style.ItemAlignEnd:
			x = cellX + cellW - borderW - it.margin.Right
		case style.ItemAlignCenter:
			x = cellX + (cellW-(borderW+it.margin.Horizontal()))/2 + it.margin.Left
		}
		y := cellY + it.margin.Top
		switch alignV {
		case style.ItemAlignEnd:
			y = cellY + cellH - borderH - it.margin.Bottom
		case style.ItemAlignCenter:
			y = cellY + (cellH-(borderH+it.margin.Vertical()))/2 + it.margin.Top
		}

		contentW := borderW - it.bpH
		contentH := borderH - it.bpV
		if contentW < 0 {
			pc.note(it.id, "content width clamped to zero")
			contentW = 0
		}
		if contentH < 0 {
			pc.note(it.id, "content height clamped to zero")
			contentH = 0
		}
		bm := pc.resolveBoxModel(it.node, base)
		bm.contentWidth = contentW
		bm.height = box.Definite(contentH)
		frag := pc.layoutWithModel(it.node, bm)
		frag.Offset = Point{X: x - frag.Margin.Left, Y: y - frag.Margin.Top}
		children[it.slot] = frag
	}

	if pc.engine.parallel && len(items) > 1 {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for _, it := range items {
			it := it
			g.Go(func() error {
				layoutOne(it)
				return nil
			})
		}
		// The closures only ever return nil.
		_ = g.Wait()
		return
	}
	for _, it := range items {
		layoutOne(it)
	}
}
