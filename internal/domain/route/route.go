// Package route is the history cursor of one playback session: the path of
// nodes visited from a record root, the position on it and the floor undo
// may not go below.
package route

import (
	"strings"

	"tsumego/internal/domain/command"
	"tsumego/internal/domain/sgf"
)

type Route struct {
	tree   *sgf.Tree
	path   []sgf.NodeID
	idx    int
	minIdx int
}

func New(tree *sgf.Tree, start *sgf.Node) *Route {
	return &Route{tree: tree, path: []sgf.NodeID{start.ID()}}
}

func (r *Route) Tree() *sgf.Tree {
	return r.tree
}

func (r *Route) Current() *sgf.Node {
	return r.tree.Node(r.path[r.idx])
}

// Start is the first node of the path.
func (r *Route) Start() *sgf.Node {
	return r.tree.Node(r.path[0])
}

// Next is the node after the current one on the recorded path, nil at the tip.
func (r *Route) Next() *sgf.Node {
	if r.idx+1 < len(r.path) {
		return r.tree.Node(r.path[r.idx+1])
	}
	return nil
}

// Select moves onto a child of the current node, abandoning the recorded
// path beyond the current index.
func (r *Route) Select(n *sgf.Node) bool {
	if n == nil || !r.tree.IsChild(r.Current(), n.ID()) {
		return false
	}
	r.RemoveNodesAfterCurrent()
	r.path = append(r.path, n.ID())
	r.idx++
	return true
}

// VisitParent steps back without undoing anything.
func (r *Route) VisitParent() bool {
	if r.idx < 1 {
		return false
	}
	r.idx--
	return true
}

func (r *Route) HasMinUndoChildren() bool {
	n := r.tree.Node(r.path[r.minIdx])
	return n != nil && n.HasChildren()
}

func (r *Route) SetMinUndo() {
	r.minIdx = r.idx
}

func (r *Route) ClearMinUndo() {
	r.minIdx = 0
}

// RemoveNodesAfterCurrent truncates the path and returns how many entries
// were dropped.
func (r *Route) RemoveNodesAfterCurrent() int {
	n := len(r.path) - r.idx - 1
	r.path = r.path[:r.idx+1]
	return n
}

// Append adds n as the last child of the current node, selecting it when
// asked to.
func (r *Route) Append(n *sgf.Node, sel bool) {
	r.tree.AppendChild(r.Current(), n)
	if sel {
		r.Select(n)
	}
}

func (r *Route) CanUndo() bool {
	return r.minIdx < r.idx
}

func (r *Route) Undo(t command.Target) bool {
	if !r.CanUndo() {
		return false
	}
	r.Current().Undo(t)
	r.idx--
	return true
}

func (r *Route) CanRedo() bool {
	return r.idx+1 < len(r.path)
}

func (r *Route) Redo(t command.Target) bool {
	if !r.CanRedo() {
		return false
	}
	r.idx++
	r.Current().Redo(t)
	return true
}

// RedoHistory replays the path from its start up to the current index.
// The board must have been reset first.
func (r *Route) RedoHistory(t command.Target) {
	for i := 0; i <= r.idx; i++ {
		if n := r.tree.Node(r.path[i]); n != nil {
			n.Redo(t)
		}
	}
}

func (r *Route) Index() int {
	return r.idx
}

func (r *Route) MinIndex() int {
	return r.minIdx
}

func (r *Route) Len() int {
	return len(r.path)
}

// Nodes returns the recorded path.
func (r *Route) Nodes() []*sgf.Node {
	out := make([]*sgf.Node, 0, len(r.path))
	for _, id := range r.path {
		out = append(out, r.tree.Node(id))
	}
	return out
}

// String lists the path after the start node, one node per line, with the
// current node starred.
func (r *Route) String() string {
	var sb strings.Builder
	for i := 1; i < len(r.path); i++ {
		if i == r.idx {
			sb.WriteByte('*')
		}
		if n := r.tree.Node(r.path[i]); n != nil {
			sb.WriteString(n.SGF())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
