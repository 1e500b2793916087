// Package paint orders fragments for painting and provides a small debug
// rasterizer. Reference: https://www.w3.org/TR/CSS2/zindex.html for the
// painting order rules.
package paint

import (
	"sort"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/layout"
	"github.com/boxflow/boxflow/style"
)

// Context is one stacking context: an atomic painting unit whose child
// contexts are z-sorted within it and never interleave with an ancestor.
// The root box always establishes one.
type Context struct {
	Node box.NodeID
	Z    int

	seq      int
	blocks   []box.NodeID
	inlines  []box.NodeID
	zero     []zeroEntry
	negative []*Context
	positive []*Context
}

// zeroEntry is one unit painted at the z=0 step: either a child context
// with z-index 0 or a positioned z:auto box painted atomically with its
// non-context descendants. Units keep document order.
type zeroEntry struct {
	seq int
	ctx *Context
	ids []box.NodeID
}

// Build derives the stacking context tree from a positioned fragment
// tree. A box establishes a context when it is positioned with a
// non-auto z-index, has opacity below one, carries a transform or
// filter, isolates, or is a flex/grid item with a non-auto z-index.
func Build(t *box.Tree, res *layout.Result) *Context {
	if res == nil || res.Root == nil {
		return nil
	}
	b := &builder{tree: t}
	root := &Context{Node: res.Root.Node, Z: 0, seq: b.next()}
	b.gather(root, res.Root)
	return root
}

type builder struct {
	tree *box.Tree
	seq  int
}

func (b *builder) next() int {
	b.seq++
	return b.seq
}

func (b *builder) createsContext(id box.NodeID) bool {
	n := b.tree.Node(id)
	st := n.Style
	if st.Opacity < 1 || st.HasTransform || st.HasFilter || st.Isolate {
		return true
	}
	if st.ZIndex.Auto {
		return false
	}
	if st.IsPositioned() {
		return true
	}
	if n.Parent != box.None {
		pd := b.tree.Node(n.Parent).Style.Display
		if pd == style.DisplayFlex || pd == style.DisplayGrid {
			return true
		}
	}
	return false
}

func zOf(st *style.Style) int {
	if st.ZIndex.Auto {
		return 0
	}
	return st.ZIndex.Value
}

func (b *builder) isInline(id box.NodeID) bool {
	n := b.tree.Node(id)
	if n.Style.Display != style.DisplayInline {
		return false
	}
	if n.Parent != box.None {
		pd := b.tree.Node(n.Parent).Style.Display
		if pd == style.DisplayFlex || pd == style.DisplayGrid {
			return false
		}
	}
	return true
}

func (c *Context) addChild(sub *Context) {
	switch {
	case sub.Z < 0:
		c.negative = append(c.negative, sub)
	case sub.Z > 0:
		c.positive = append(c.positive, sub)
	default:
		c.zero = append(c.zero, zeroEntry{seq: sub.seq, ctx: sub})
	}
}

// gather walks one fragment's descendants, classifying each into the
// Appendix E buckets of context c.
func (b *builder) gather(c *Context, parent *layout.Fragment) {
	for _, ch := range parent.Children {
		st := b.tree.Node(ch.Node).Style
		seq := b.next()
		switch {
		case b.createsContext(ch.Node):
			sub := &Context{Node: ch.Node, Z: zOf(st), seq: seq}
			b.gather(sub, ch)
			c.addChild(sub)
		case st.IsPositioned():
			// Positioned with z:auto paints atomically at the z=0 step
			// but does not trap descendant contexts.
			unit := zeroEntry{seq: seq}
			b.gatherAtomic(c, &unit, ch)
			c.zero = append(c.zero, unit)
		default:
			if b.isInline(ch.Node) {
				c.inlines = append(c.inlines, ch.Node)
			} else {
				c.blocks = append(c.blocks, ch.Node)
			}
			b.gather(c, ch)
		}
	}
}

// gatherAtomic collects the pre-order ids of a positioned z:auto box and
// its non-context descendants. Context-establishing descendants escape
// to the enclosing real context.
func (b *builder) gatherAtomic(c *Context, unit *zeroEntry, frag *layout.Fragment) {
	unit.ids = append(unit.ids, frag.Node)
	for _, ch := range frag.Children {
		if b.createsContext(ch.Node) {
			st := b.tree.Node(ch.Node).Style
			sub := &Context{Node: ch.Node, Z: zOf(st), seq: b.next()}
			b.gather(sub, ch)
			c.addChild(sub)
			continue
		}
		b.gatherAtomic(c, unit, ch)
	}
}

// PaintOrder flattens the context into back-to-front box ids: own box,
// negative-z contexts ascending, in-flow blocks, inlines, the z=0 step
// in document order, then positive-z contexts ascending. Ties between
// equal z-indexes keep document order.
func (c *Context) PaintOrder() []box.NodeID {
	var out []box.NodeID
	c.appendTo(&out)
	return out
}

func (c *Context) appendTo(out *[]box.NodeID) {
	*out = append(*out, c.Node)

	sortContexts(c.negative)
	for _, sub := range c.negative {
		sub.appendTo(out)
	}

	*out = append(*out, c.blocks...)
	*out = append(*out, c.inlines...)

	zero := append([]zeroEntry(nil), c.zero...)
	sort.SliceStable(zero, func(i, j int) bool { return zero[i].seq < zero[j].seq })
	for _, e := range zero {
		if e.ctx != nil {
			e.ctx.appendTo(out)
			continue
		}
		*out = append(*out, e.ids...)
	}

	sortContexts(c.positive)
	for _, sub := range c.positive {
		sub.appendTo(out)
	}
}

func sortContexts(cs []*Context) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Z != cs[j].Z {
			return cs[i].Z < cs[j].Z
		}
		return cs[i].seq < cs[j].seq
	})
}
