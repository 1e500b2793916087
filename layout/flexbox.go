package layout

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// flexItem holds per-item scratch state for one flex layout invocation.
// All main/cross sizes are border-box values; margins are kept separate
// for line capacity and alignment math.
type flexItem struct {
	id   box.NodeID
	node *box.Node
	slot int // index into the container fragment's children

	grow      float64
	shrink    float64
	alignSelf style.AlignSelf

	margin  EdgeSizes
	bpMain  float64
	bpCross float64

	baseSize float64 // flex base size before clamping
	hypoMain float64 // base size clamped to the item's own min/max
	minMain  float64
	maxMain  float64

	targetMain float64
	frozen     bool

	crossSize float64
	crossAuto bool
	minCross  float64
	maxCross  float64

	mainPos  float64 // border-box origin within the container content box
	crossPos float64
}

func (it *flexItem) marginMain(isRow bool) (start, end float64) {
	if isRow {
		return it.margin.Left, it.margin.Right
	}
	return it.margin.Top, it.margin.Bottom
}

func (it *flexItem) marginCross(isRow bool) (start, end float64) {
	if isRow {
		return it.margin.Top, it.margin.Bottom
	}
	return it.margin.Left, it.margin.Right
}

func (it *flexItem) outerMain(isRow bool) float64 {
	s, e := it.marginMain(isRow)
	return it.targetMain + s + e
}

func (it *flexItem) outerHypoMain(isRow bool) float64 {
	s, e := it.marginMain(isRow)
	return it.hypoMain + s + e
}

func (it *flexItem) outerCross(isRow bool) float64 {
	s, e := it.marginCross(isRow)
	return it.crossSize + s + e
}

// flexLine groups the items assigned to one wrapped line. Lines exist
// only for the duration of one flex layout invocation.
type flexLine struct {
	items     []*flexItem
	crossSize float64
	crossPos  float64
}

// layoutFlexContainer implements the flexible box algorithm: basis
// resolution, line collection, free-space distribution, cross sizing,
// alignment, then a recursive layout of every item at its final size.
func (pc *passContext) layoutFlexContainer(n *box.Node, bm boxModel) *Fragment {
	st := n.Style
	isRow := st.FlexDirection.IsRow()
	reverse := st.FlexDirection.IsReverse()

	contentW := bm.contentWidth
	base := box.AvailableSpace{Width: box.Definite(contentW), Height: bm.height}

	var mainC, crossC box.SizeConstraint
	var mainGap, crossGap float64
	if isRow {
		mainC, crossC = box.Definite(contentW), bm.height
		mainGap, crossGap = st.ColumnGap, st.RowGap
	} else {
		mainC, crossC = bm.height, box.Definite(contentW)
		mainGap, crossGap = st.RowGap, st.ColumnGap
	}

	children, items := pc.collectFlexItems(n, base, isRow, contentW)

	if len(items) == 0 {
		contentH := pc.finishHeight(n, bm, 0)
		return &Fragment{
			Node:        n.ID,
			ContentSize: Size{Width: contentW, Height: contentH},
			Margin:      bm.margin, Border: bm.border, Padding: bm.padding,
			Children: children,
		}
	}

	lines := collectFlexLines(items, st.FlexWrap, mainC, mainGap, isRow)

	// The container's main content size: definite from style, otherwise
	// the largest line's content.
	mainSize, mainDef := mainC.Get()
	if !mainDef {
		for _, line := range lines {
			if used := flexLineUsedMain(line, mainGap, isRow, true); used > mainSize {
				mainSize = used
			}
		}
	}

	for _, line := range lines {
		resolveFlexibleLengths(line, mainSize, mainGap, isRow)
	}

	pc.resolveCrossSizes(lines, base, isRow, crossC, st.FlexWrap == style.FlexWrapNowrap)

	totalCross := alignFlexLines(lines, st.AlignContent, crossC, crossGap)

	for _, line := range lines {
		pc.stretchLineItems(line, st.AlignItems, isRow)
	}

	for _, line := range lines {
		justifyFlexLine(line, st.JustifyContent, mainSize, mainGap, isRow, reverse)
		alignItemsInLine(line, st.AlignItems, isRow)
	}

	pc.layoutFlexItemContents(children, items, base, isRow)

	var autoHeight float64
	if isRow {
		autoHeight = totalCross
	} else {
		autoHeight = mainSize
	}
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

// collectFlexItems gathers in-flow children as flex items, resolving
// their box model, flex factors and base size. The returned children
// slice has one slot per rendered child in document order; item slots
// are filled after final placement.
func (pc *passContext) collectFlexItems(n *box.Node, base box.AvailableSpace, isRow bool, contentW float64) ([]*Fragment, []*flexItem) {
	var children []*Fragment
	var items []*flexItem

	mainBase, mainBaseDef := base.Width.Get()
	if !isRow {
		mainBase, mainBaseDef = base.Height.Get()
	}

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
		it := &flexItem{
			id:        cid,
			node:      c,
			slot:      len(children) - 1,
			grow:      cst.FlexGrow,
			shrink:    cst.FlexShrink,
			alignSelf: cst.AlignSelf,
			margin:    resolveEdges(cst.Margin, contentW, true),
		}
		bp := resolveEdges(cst.Border, contentW, true)
		pad := resolveEdges(cst.Padding, contentW, true)
		bpH := bp.Horizontal() + pad.Horizontal()
		bpV := bp.Vertical() + pad.Vertical()
		if isRow {
			it.bpMain, it.bpCross = bpH, bpV
		} else {
			it.bpMain, it.bpCross = bpV, bpH
		}

		it.minMain, it.maxMain = flexItemMinMax(cst, isRow, mainBase, mainBaseDef, it.bpMain)
		it.baseSize = pc.flexBaseSize(c, base, isRow, mainBase, mainBaseDef, contentW, it)
		it.hypoMain = clampMinMax(it.baseSize, it.minMain, it.maxMain)
		it.targetMain = it.hypoMain
		items = append(items, it)
	}

	// The order property reorders distribution and placement only; the
	// children slice above stays in document order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].node.Style.Order < items[j].node.Style.Order
	})
	return children, items
}

// flexItemMinMax resolves the item's own min/max along the main axis as
// border-box values.
func flexItemMinMax(cst *style.Style, isRow bool, mainBase float64, mainBaseDef bool, bpMain float64) (min, max float64) {
	minProp, maxProp := cst.MinWidth, cst.MaxWidth
	if !isRow {
		minProp, maxProp = cst.MinHeight, cst.MaxHeight
	}
	min = minProp.ResolveOrZero(mainBase, mainBaseDef) + bpMain
	max = math.Inf(1)
	if v, ok := maxProp.Resolve(mainBase, mainBaseDef); ok {
		max = v + bpMain
	}
	return min, max
}

// flexBaseSize resolves the flex base size (border-box): a definite
// basis, else the item's main-size property, else its content size.
func (pc *passContext) flexBaseSize(c *box.Node, base box.AvailableSpace, isRow bool, mainBase float64, mainBaseDef bool, contentW float64, it *flexItem) float64 {
	cst := c.Style
	if v, ok := cst.FlexBasis.Resolve(mainBase, mainBaseDef); ok {
		return v + it.bpMain
	}
	sizeProp := cst.Width
	if !isRow {
		sizeProp = cst.Height
	}
	if v, ok := sizeProp.Resolve(mainBase, mainBaseDef); ok {
		return v + it.bpMain
	}
	if isRow {
		return pc.preferredContentWidth(c) + it.bpMain
	}
	// Column: content height at the item's resolved cross width.
	cw, ok := cst.Width.Resolve(contentW, true)
	if !ok {
		cw = contentW - it.margin.Horizontal() - it.bpCross
		if cw < 0 {
			cw = 0
		}
	}
	return pc.measureBorderHeightForWidth(c, cw, base)
}

// collectFlexLines groups items into lines. With wrapping disabled, or
// with an indefinite main size, all items form one line. An item whose
// hypothetical size alone exceeds the capacity still gets its own line,
// never split.
func collectFlexLines(items []*flexItem, wrap style.FlexWrap, mainC box.SizeConstraint, gap float64, isRow bool) []*flexLine {
	capacity, def := mainC.Get()
	if wrap == style.FlexWrapNowrap || !def {
		return []*flexLine{{items: items}}
	}

	var lines []*flexLine
	var current *flexLine
	var used float64
	for _, it := range items {
		outer := it.outerHypoMain(isRow)
		if current == nil || used+gap+outer > capacity {
			current = &flexLine{}
			lines = append(lines, current)
			used = outer
		} else {
			used += gap + outer
		}
		current.items = append(current.items, it)
	}
	if wrap == style.FlexWrapWrapReverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	return lines
}

func flexLineUsedMain(line *flexLine, gap float64, isRow bool, hypothetical bool) float64 {
	var used float64
	for i, it := range line.items {
		if hypothetical {
			used += it.outerHypoMain(isRow)
		} else {
			used += it.outerMain(isRow)
		}
		if i > 0 {
			used += gap
		}
	}
	return used
}

// resolveFlexibleLengths distributes free space along the main axis.
// Growth is weighted by flex-grow; shrink is weighted by flex-shrink
// times the base size, never by the shrink factor alone. After
// distribution each item is clamped to its own min/max and any space
// absorbed or released by clamping is redistributed exactly once among
// the unclamped items; the algorithm does not iterate to convergence.
func resolveFlexibleLengths(line *flexLine, mainSize, gap float64, isRow bool) {
	items := line.items
	if len(items) == 0 {
		return
	}
	free := mainSize - flexLineUsedMain(line, gap, isRow, true)
	for _, it := range items {
		it.targetMain = it.hypoMain
		it.frozen = false
	}
	if free == 0 {
		return
	}

	growing := free > 0
	weight := func(it *flexItem) float64 {
		if growing {
			return it.grow
		}
		return it.shrink * it.baseSize
	}

	var total float64
	for _, it := range items {
		total += weight(it)
	}
	if total == 0 {
		// Nothing flexes; leftover space is justify-content's to place.
		return
	}

	for _, it := range items {
		w := weight(it)
		if w == 0 {
			it.frozen = true
			continue
		}
		it.targetMain = it.hypoMain + free*w/total
	}

	// Clamp, collect the violation, redistribute once.
	var violation float64
	var open []*flexItem
	for _, it := range items {
		if it.frozen {
			continue
		}
		clamped := clampMinMax(it.targetMain, it.minMain, it.maxMain)
		violation += it.targetMain - clamped
		if clamped != it.targetMain {
			it.frozen = true
		} else {
			open = append(open, it)
		}
		it.targetMain = clamped
	}
	if violation != 0 && len(open) > 0 {
		var openTotal float64
		for _, it := range open {
			openTotal += weight(it)
		}
		if openTotal > 0 {
			for _, it := range open {
				it.targetMain = clampMinMax(it.targetMain+violation*weight(it)/openTotal, it.minMain, it.maxMain)
			}
		}
	}
}

// resolveCrossSizes computes each item's hypothetical cross size and
// each line's cross size (its tallest item, or the container's definite
// cross size for a lone non-wrapped line).
func (pc *passContext) resolveCrossSizes(lines []*flexLine, base box.AvailableSpace, isRow bool, crossC box.SizeConstraint, nowrap bool) {
	crossBase, crossDef := crossC.Get()
	for _, line := range lines {
		var max float64
		for _, it := range line.items {
			cst := it.node.Style
			crossProp := cst.Height
			minProp, maxProp := cst.MinHeight, cst.MaxHeight
			if !isRow {
				crossProp = cst.Width
				minProp, maxProp = cst.MinWidth, cst.MaxWidth
			}
			it.minCross = minProp.ResolveOrZero(crossBase, crossDef) + it.bpCross
			it.maxCross = math.Inf(1)
			if v, ok := maxProp.Resolve(crossBase, crossDef); ok {
				it.maxCross = v + it.bpCross
			}
			if v, ok := crossProp.Resolve(crossBase, crossDef); ok {
				it.crossSize = v + it.bpCross
			} else {
				it.crossAuto = true
				if isRow {
					cw := it.targetMain - it.bpMain
					if cw < 0 {
						cw = 0
					}
					it.crossSize = pc.measureBorderHeightForWidth(it.node, cw, base)
				} else {
					it.crossSize = pc.preferredContentWidth(it.node) + it.bpCross
				}
			}
			it.crossSize = clampMinMax(it.crossSize, it.minCross, it.maxCross)
			if oc := it.outerCross(isRow); oc > max {
				max = oc
			}
		}
		line.crossSize = max
	}
	// Only a single non-wrapped line takes the container's definite
	// cross size; a lone wrapped line keeps its content size so
	// align-content can place it.
	if nowrap && len(lines) == 1 && crossDef {
		lines[0].crossSize = crossBase
	}
}

// alignFlexLines distributes leftover cross space across lines
// (align-content) and assigns each line's cross position. Returns the
// total cross extent of the content.
func alignFlexLines(lines []*flexLine, align style.AlignContent, crossC box.SizeConstraint, gap float64) float64 {
	var total float64
	for i, line := range lines {
		total += line.crossSize
		if i > 0 {
			total += gap
		}
	}
	crossSize, def := crossC.Get()
	free := 0.0
	if def {
		free = crossSize - total
		if free < 0 {
			free = 0
		}
	}

	var start, between float64
	switch align {
	case style.AlignContentFlexEnd:
		start = free
	case style.AlignContentCenter:
		start = free / 2
	case style.AlignContentSpaceBetween:
		if len(lines) > 1 {
			between = free / float64(len(lines)-1)
		}
	case style.AlignContentSpaceAround:
		between = free / float64(len(lines))
		start = between / 2
	case style.AlignContentStretch:
		if free > 0 {
			extra := free / float64(len(lines))
			for _, line := range lines {
				line.crossSize += extra
			}
			total += free
			free = 0
		}
	}

	pos := start
	for i, line := range lines {
		if i > 0 {
			pos += gap + between
		}
		line.crossPos = pos
		pos += line.crossSize
	}
	if def {
		return crossSize
	}
	return total
}

func resolvedAlignSelf(self style.AlignSelf, items style.AlignItems) style.AlignSelf {
	if self != style.AlignSelfAuto {
		return self
	}
	switch items {
	case style.AlignItemsFlexStart:
		return style.AlignSelfFlexStart
	case style.AlignItemsFlexEnd:
		return style.AlignSelfFlexEnd
	case style.AlignItemsCenter:
		return style.AlignSelfCenter
	case style.AlignItemsBaseline:
		return style.AlignSelfBaseline
	default:
		return style.AlignSelfStretch
	}
}

// stretchLineItems grows auto-sized items to their line's cross size
// when the resolved alignment is stretch.
func (pc *passContext) stretchLineItems(line *flexLine, alignItems style.AlignItems, isRow bool) {
	for _, it := range line.items {
		if !it.crossAuto {
			continue
		}
		if resolvedAlignSelf(it.alignSelf, alignItems) != style.AlignSelfStretch {
			continue
		}
		s, e := it.marginCross(isRow)
		it.crossSize = clampMinMax(line.crossSize-s-e, it.minCross, it.maxCross)
	}
}

// justifyFlexLine places items along the main axis per justify-content.
// space-between degenerates to flex-start for a single item; reverse
// directions place from the main end without reordering anything.
func justifyFlexLine(line *flexLine, justify style.JustifyContent, mainSize, gap float64, isRow, reverse bool) {
	used := flexLineUsedMain(line, gap, isRow, false)
	free := mainSize - used
	if free < 0 {
		free = 0
	}
	n := len(line.items)

	var start, between float64
	switch justify {
	case style.JustifyFlexEnd:
		start = free
	case style.JustifyCenter:
		start = free / 2
	case style.JustifySpaceBetween:
		if n > 1 {
			between = free / float64(n-1)
		}
	case style.JustifySpaceAround:
		between = free / float64(n)
		start = between / 2
	case style.JustifySpaceEvenly:
		between = free / float64(n+1)
		start = between
	}

	if reverse {
		pos := mainSize - start
		for _, it := range line.items {
			ms, me := it.marginMain(isRow)
			pos -= me + it.targetMain
			it.mainPos = pos
			pos -= ms + gap + between
		}
		return
	}
	pos := start
	for _, it := range line.items {
		ms, me := it.marginMain(isRow)
		pos += ms
		it.mainPos = pos
		pos += it.targetMain + me + gap + between
	}
}

// alignItemsInLine positions items on the cross axis within their line.
// Baseline alignment degrades to flex-start without font metrics.
func alignItemsInLine(line *flexLine, alignItems style.AlignItems, isRow bool) {
	for _, it := range line.items {
		s, e := it.marginCross(isRow)
		switch resolvedAlignSelf(it.alignSelf, alignItems) {
		case style.AlignSelfFlexEnd:
			it.crossPos = line.crossPos + line.crossSize - it.crossSize - e
		case style.AlignSelfCenter:
			it.crossPos = line.crossPos + (line.crossSize-(it.crossSize+s+e))/2 + s
		default:
			it.crossPos = line.crossPos + s
		}
	}
}

// layoutFlexItemContents lays out every item's content at its final
// definite size, in parallel when enabled: each call reads only its own
// box and writes only its own fragment slot.
func (pc *passContext) layoutFlexItemContents(children []*Fragment, items []*flexItem, base box.AvailableSpace, isRow bool) {
	layoutOne := func(it *flexItem) {
		var contentW, contentH float64
		var x, y float64
		if isRow {
			contentW = it.targetMain - it.bpMain
			contentH = it.crossSize - it.bpCross
			x, y = it.mainPos, it.crossPos
		} else {
			contentW = it.crossSize - it.bpCross
			contentH = it.targetMain - it.bpMain
			x, y = it.crossPos, it.mainPos
		}
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
