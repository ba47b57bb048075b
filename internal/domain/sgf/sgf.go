// Package sgf models game records as a tree of nodes. Nodes live in an
// arena owned by Tree and are addressed by NodeID, so several cursors can
// point into the same tree.
package sgf

import "tsumego/internal/domain/game"

// Tree owns every node of a collection of records. The root is synthetic
// and protected; each loaded record is one of its children.
type Tree struct {
	nodes map[NodeID]*Node
	root  NodeID
	next  NodeID
}

// Snapshot is enough to undo a batch of appends under the root.
type Snapshot struct {
	next     NodeID
	children []NodeID
}

func NewTree() *Tree {
	t := &Tree{nodes: make(map[NodeID]*Node)}
	root := t.NewNode(true)
	root.parent = NoNode
	root.AddProperty(NewProperty(IDName, []string{"root"}))
	t.root = root.id
	return t
}

func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// Node returns nil for ids that were removed or never existed.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// NewNode allocates a detached node.
func (t *Tree) NewNode(protected bool) *Node {
	n := &Node{id: t.next, parent: NoNode, protected: protected}
	t.nodes[n.id] = n
	t.next++
	return n
}

// NewPointNode allocates a detached node holding one point property.
func (t *Tree) NewPointNode(id string, x, y int) *Node {
	n := t.NewNode(false)
	n.AddProperty(NewPointProperty(id, x, y))
	return n
}

func (t *Tree) AppendChild(parent, child *Node) {
	child.parent = parent.id
	parent.children = append(parent.children, child.id)
}

func (t *Tree) Parent(n *Node) *Node {
	return t.nodes[n.parent]
}

func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, t.nodes[id])
	}
	return out
}

// FirstChild is the main line continuation of n.
func (t *Tree) FirstChild(n *Node) *Node {
	if len(n.children) == 0 {
		return nil
	}
	return t.nodes[n.children[0]]
}

// IsChild reports whether id is a direct child of parent.
func (t *Tree) IsChild(parent *Node, id NodeID) bool {
	for _, c := range parent.children {
		if c == id {
			return true
		}
	}
	return false
}

// RemoveChild detaches child from parent and frees its subtree. Protected
// nodes are never removed.
func (t *Tree) RemoveChild(parent *Node, child NodeID) bool {
	c := t.nodes[child]
	if c == nil || c.protected {
		return false
	}
	for i, id := range parent.children {
		if id == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			if m := c.Move(); parent.nextMove[m] == child {
				delete(parent.nextMove, m)
			}
			t.free(c)
			return true
		}
	}
	return false
}

// Discard frees a node that was never attached.
func (t *Tree) Discard(n *Node) {
	if n.parent == NoNode && n.id != t.root {
		delete(t.nodes, n.id)
	}
}

// KeepChildren frees every child subtree of parent that is not in keep,
// protected ones included.
func (t *Tree) KeepChildren(parent *Node, keep []*Node) {
	wanted := make(map[NodeID]bool, len(keep))
	for _, n := range keep {
		wanted[n.id] = true
	}
	var kept []NodeID
	for _, id := range parent.children {
		if wanted[id] {
			kept = append(kept, id)
			continue
		}
		if c := t.nodes[id]; c != nil {
			t.free(c)
		}
	}
	parent.children = kept
}

// ClearChildren frees every child subtree of n, protected ones included.
func (t *Tree) ClearChildren(n *Node) {
	for _, id := range n.children {
		if c := t.nodes[id]; c != nil {
			t.free(c)
		}
	}
	n.children = nil
	n.nextMove = nil
}

func (t *Tree) free(n *Node) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(t.nodes, cur.id)
		for _, id := range cur.children {
			if c := t.nodes[id]; c != nil {
				stack = append(stack, c)
			}
		}
	}
}

// Snapshot records the root's children and the id watermark.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{next: t.next, children: t.Root().Children()}
}

// Restore drops every node allocated after s was taken and puts the root's
// children back.
func (t *Tree) Restore(s Snapshot) {
	for id := range t.nodes {
		if id >= s.next {
			delete(t.nodes, id)
		}
	}
	root := t.Root()
	root.children = append([]NodeID(nil), s.children...)
	for _, id := range root.children {
		if n := t.nodes[id]; n != nil {
			n.parent = root.id
		}
	}
	t.next = s.next
}

// Walk visits start and its descendants depth first. path holds the nodes
// from start down to the visited node, inclusive.
func (t *Tree) Walk(start *Node, fn func(n *Node, path []*Node)) {
	var visit func(n *Node, path []*Node)
	visit = func(n *Node, path []*Node) {
		path = append(path, n)
		fn(n, path)
		for _, id := range n.children {
			if c := t.nodes[id]; c != nil {
				visit(c, path)
			}
		}
	}
	visit(start, nil)
}

// Nodes lists start and all its descendants in depth first order.
func (t *Tree) Nodes(start *Node) []*Node {
	var out []*Node
	t.Walk(start, func(n *Node, _ []*Node) {
		out = append(out, n)
	})
	return out
}

// MainLine lists start followed by the first child at every branch.
func (t *Tree) MainLine(start *Node) []*Node {
	var out []*Node
	for n := start; n != nil; n = t.FirstChild(n) {
		out = append(out, n)
	}
	return out
}

// IndexNextMoves rebuilds the move index of n from its children.
func (t *Tree) IndexNextMoves(n *Node) {
	n.nextMove = make(map[game.Move]NodeID, len(n.children))
	for _, id := range n.children {
		c := t.nodes[id]
		if c == nil {
			continue
		}
		if m := c.Move(); !m.IsZero() && m.Point().IsSet() {
			n.nextMove[m] = id
		}
	}
}

// SearchNext finds the child of n playing m, using the index when present.
func (t *Tree) SearchNext(n *Node, m game.Move) *Node {
	if id, ok := n.NextMove(m); ok {
		if c := t.nodes[id]; c != nil {
			return c
		}
	}
	for _, c := range t.Children(n) {
		if c.Move() == m {
			return c
		}
	}
	return nil
}
