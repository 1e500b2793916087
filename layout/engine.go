package layout

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/style"
)

// ErrNoContainingBlock reports a malformed box tree in which a positioned
// box has no qualifying ancestor. The layout root always qualifies, so
// this is an invariant violation, not a style problem, and it is the only
// condition layout treats as a hard failure.
var ErrNoContainingBlock = errors.New("layout: no containing block for positioned box")

// Note is a non-fatal diagnostic attached to a box, e.g. a content size
// that had to be clamped to zero.
type Note struct {
	Node    box.NodeID
	Message string
}

// Result is the output of one layout pass.
type Result struct {
	Root  *Fragment
	Notes []Note
}

// Engine runs layout passes. An Engine is safe for concurrent use; every
// pass is a pure function of the box tree and available space.
type Engine struct {
	sizer    box.IntrinsicSizer
	log      *zap.Logger
	parallel bool
	cache    *Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithSizer installs the intrinsic size provider for leaf boxes.
func WithSizer(s box.IntrinsicSizer) Option {
	return func(e *Engine) { e.sizer = s }
}

// WithLogger installs a logger for per-pass debug traces.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithParallelism enables laying out independent sibling subtrees on
// separate goroutines once their definite spaces are committed.
func WithParallelism(enabled bool) Option {
	return func(e *Engine) { e.parallel = enabled }
}

// WithCache installs a memo cache keyed by (box id, available space).
// The cache must be invalidated wholesale on any style change.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// New creates an Engine. Without options it uses a zero sizer and a nop
// logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		sizer: box.ZeroSizer{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout computes the fragment tree for the box tree within the given
// available space. All style-level problems are recovered locally and
// reported as Notes; the only error condition is a malformed tree.
func (e *Engine) Layout(t *box.Tree, space box.AvailableSpace) (*Result, error) {
	root := t.Node(t.Root())
	if root.Style.Display == style.DisplayNone {
		return &Result{}, nil
	}
	pc := &passContext{engine: e, tree: t}
	frag := pc.layoutNode(t.Root(), space)
	if err := pc.position(frag, space); err != nil {
		return nil, err
	}
	e.log.Debug("layout pass complete",
		zap.Int("boxes", t.Len()),
		zap.String("space", space.String()),
		zap.Int("notes", len(pc.notes)))
	return &Result{Root: frag, Notes: pc.notes}, nil
}

// passContext carries per-pass scratch state. It lives only for the
// duration of one Layout call.
type passContext struct {
	engine *Engine
	tree   *box.Tree

	mu    sync.Mutex
	notes []Note
}

func (pc *passContext) sizer() box.IntrinsicSizer { return pc.engine.sizer }

func (pc *passContext) note(id box.NodeID, msg string) {
	pc.mu.Lock()
	pc.notes = append(pc.notes, Note{Node: id, Message: msg})
	pc.mu.Unlock()
	pc.engine.log.Debug("degenerate box", zap.Int("box", int(id)), zap.String("note", msg))
}

// effectiveDisplay blockifies inline-level flex and grid items, which
// establish their own block formatting context per the display rules.
func (pc *passContext) effectiveDisplay(n *box.Node) style.Display {
	d := n.Style.Display
	if d == style.DisplayInline && n.Parent != box.None {
		pd := pc.tree.Node(n.Parent).Style.Display
		if pd == style.DisplayFlex || pd == style.DisplayGrid {
			return style.DisplayBlock
		}
	}
	return d
}

// layoutNode lays out one box subtree within the given available space.
// The returned fragment's offset is zero; the caller places it. Results
// are memoized by (id, space) when a cache is installed.
func (pc *passContext) layoutNode(id box.NodeID, space box.AvailableSpace) *Fragment {
	if c := pc.engine.cache; c != nil {
		if f, ok := c.get(id, space); ok {
			return f
		}
	}
	n := pc.tree.Node(id)
	bm := pc.resolveBoxModel(n, space)
	frag := pc.layoutWithModel(n, bm)
	if c := pc.engine.cache; c != nil {
		c.put(id, space, frag)
	}
	return frag
}

// layoutWithModel dispatches to the formatting context selected by the
// box's display kind.
func (pc *passContext) layoutWithModel(n *box.Node, bm boxModel) *Fragment {
	var frag *Fragment
	switch pc.effectiveDisplay(n) {
	case style.DisplayFlex:
		frag = pc.layoutFlexContainer(n, bm)
	case style.DisplayGrid:
		frag = pc.layoutGridContainer(n, bm)
	default:
		frag = pc.layoutBlockContainer(n, bm)
	}
	frag.Sticky = n.Style.Position == style.PositionSticky
	return frag
}

// placeholder creates the stand-in fragment for an absolutely or fixed
// positioned child. It keeps the static flow position; the subtree is
// laid out in the positioning pass once its containing block is known.
func placeholder(id box.NodeID, staticOffset Point) *Fragment {
	return &Fragment{Node: id, OutOfFlow: true, StaticOffset: staticOffset}
}

// inFlow reports whether a child participates in its parent's formatting
// context.
func inFlow(st *style.Style) bool {
	return st.Position != style.PositionAbsolute && st.Position != style.PositionFixed
}
