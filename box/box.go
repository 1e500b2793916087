// Package box holds the layout engine's own tree of boxes. The tree is an
// arena indexed by integer ids; ancestor relationships are id lookups, so
// there are no ownership cycles. A tree is built fresh per layout pass
// from the style snapshot and never mutated by the engine.
package box

import "github.com/boxflow/boxflow/style"

// NodeID indexes a Node within its Tree's arena.
type NodeID int

// None marks the absence of a node (the root's parent).
const None NodeID = -1

// Node is one box in the tree. Children order is authoritative for
// document order; paint order is derived elsewhere and never written here.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Style    *style.Style
	Children []NodeID

	// Text is the leaf payload handed to the intrinsic sizer. Only
	// meaningful on nodes without children.
	Text string
}

// Tree is an arena of Nodes. Node 0 is the layout root.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree holding just the root box.
func NewTree(rootStyle *style.Style) *Tree {
	if rootStyle == nil {
		rootStyle = style.New()
	}
	t := &Tree{}
	t.nodes = append(t.nodes, Node{ID: 0, Parent: None, Style: rootStyle})
	return t
}

// Root returns the layout root's id.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of boxes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id. The pointer is valid until the
// next Add call.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Add appends a child box under parent and returns its id.
func (t *Tree) Add(parent NodeID, st *style.Style) NodeID {
	if st == nil {
		st = style.New()
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{ID: id, Parent: parent, Style: st})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// AddText appends a leaf box carrying text content for the sizer.
func (t *Tree) AddText(parent NodeID, st *style.Style, text string) NodeID {
	id := t.Add(parent, st)
	t.nodes[id].Text = text
	return id
}

// Ancestors calls fn for each ancestor of id, nearest first, stopping
// early if fn returns false.
func (t *Tree) Ancestors(id NodeID, fn func(*Node) bool) {
	for p := t.nodes[id].Parent; p != None; p = t.nodes[p].Parent {
		if !fn(&t.nodes[p]) {
			return
		}
	}
}
