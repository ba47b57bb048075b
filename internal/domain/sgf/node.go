package sgf

import (
	"strings"

	"tsumego/internal/domain/command"
	"tsumego/internal/domain/game"
)

// NodeID addresses a node inside its Tree. Ids are never reused.
type NodeID int

// NoNode is the parent of a root.
const NoNode NodeID = -1

// Node is an ordered list of properties plus its variations; the first
// child is the main line.
type Node struct {
	id          NodeID
	parent      NodeID
	children    []NodeID
	protected   bool
	correctPath bool
	nextMove    map[game.Move]NodeID

	Properties []*Property
}

func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) Parent() NodeID {
	return n.parent
}

func (n *Node) Children() []NodeID {
	return append([]NodeID(nil), n.children...)
}

func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

func (n *Node) IsProtected() bool {
	return n.protected
}

func (n *Node) IsCorrectPath() bool {
	return n.correctPath
}

func (n *Node) SetCorrectPath(v bool) {
	n.correctPath = v
}

// Exec applies every property in order and reports whether any of them
// changed the position.
func (n *Node) Exec(t command.Target) bool {
	done := false
	for _, p := range n.Properties {
		if p.Exec(t) {
			done = true
		}
	}
	return done
}

// Undo reverts the properties in reverse order.
func (n *Node) Undo(t command.Target) {
	for i := len(n.Properties) - 1; i >= 0; i-- {
		n.Properties[i].Undo(t)
	}
}

func (n *Node) Redo(t command.Target) {
	for _, p := range n.Properties {
		p.Redo(t)
	}
}

func (n *Node) Has(pid PropID) bool {
	return n.Property(pid) != nil
}

// Property returns the first property with the given id.
func (n *Node) Property(pid PropID) *Property {
	for _, p := range n.Properties {
		if p.PID() == pid {
			return p
		}
	}
	return nil
}

// Move returns the first move of the node, the zero Move if there is none.
func (n *Node) Move() game.Move {
	for _, p := range n.Properties {
		switch p.PID() {
		case PropB:
			pt := p.Point()
			return game.Move{Cell: game.Black, X: pt.X, Y: pt.Y}
		case PropW:
			pt := p.Point()
			return game.Move{Cell: game.White, X: pt.X, Y: pt.Y}
		}
	}
	return game.Move{}
}

func (n *Node) IsMove() bool {
	for _, p := range n.Properties {
		if p.IsMove() {
			return true
		}
	}
	return false
}

func (n *Node) IsSetup() bool {
	for _, p := range n.Properties {
		if p.IsSetup() {
			return true
		}
	}
	return false
}

// IsSkip reports whether no property of the node touches the position.
func (n *Node) IsSkip() bool {
	for _, p := range n.Properties {
		if !p.IsSkip() {
			return false
		}
	}
	return true
}

func (n *Node) AddProperty(p *Property) {
	n.Properties = append(n.Properties, p)
}

// MergeProperty merges a point (and label) into the property with the
// given id, creating the property when the node has none.
func (n *Node) MergeProperty(id string, x, y int, label string) bool {
	c := NewCoord(x, y)
	for _, p := range n.Properties {
		if p.ID() == id {
			return p.Merge(c, label)
		}
	}
	if !c.Valid() {
		return false
	}
	v := c.String()
	if label != "" {
		v += ":" + label
	}
	n.AddProperty(NewProperty(id, []string{v}))
	return true
}

// RemoveProperty drops the first property with the given id.
func (n *Node) RemoveProperty(pid PropID) bool {
	for i, p := range n.Properties {
		if p.PID() == pid {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// RemovePropertyAt drops the first property with the given id whose first
// point is (x, y).
func (n *Node) RemovePropertyAt(pid PropID, x, y int) bool {
	pt := game.Point{X: x, Y: y}
	for i, p := range n.Properties {
		if p.PID() == pid && p.Point() == pt {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveValueAt drops (x, y) from the property with the given id, and the
// property itself when that was its only value.
func (n *Node) RemoveValueAt(pid PropID, x, y int) bool {
	pt := game.Point{X: x, Y: y}
	for i, p := range n.Properties {
		if p.PID() != pid {
			continue
		}
		for _, c := range p.coords {
			if c.Compressed() || c.First() != pt {
				continue
			}
			if len(p.vals) == 1 {
				n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
				return true
			}
			return p.removePoint(pt)
		}
	}
	return false
}

// RemoveLabelAt drops the label on (x, y) from every LB property.
func (n *Node) RemoveLabelAt(x, y int) bool {
	removed := false
	for i := 0; i < len(n.Properties); i++ {
		p := n.Properties[i]
		if p.PID() != PropLB {
			continue
		}
		for _, l := range p.Labels() {
			if l.X != x || l.Y != y {
				continue
			}
			if len(p.vals) == 1 {
				n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
				i--
			} else {
				p.removePoint(game.Point{X: x, Y: y})
			}
			removed = true
			break
		}
	}
	return removed
}

// RemovePointValues removes (x, y) from every property that lists it as a
// single point value, dropping properties left without values.
func (n *Node) RemovePointValues(x, y int) bool {
	removed := false
	c := NewCoord(x, y)
	for i := 0; i < len(n.Properties); i++ {
		p := n.Properties[i]
		if p.IsMove() {
			continue
		}
		for _, pc := range p.coords {
			if pc.Compressed() || pc.First() != c.First() {
				continue
			}
			if len(p.vals) == 1 {
				n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
				i--
			} else {
				p.removePoint(c.First())
			}
			removed = true
			break
		}
	}
	return removed
}

// NextMove returns the child reached by m, if any. The index is built by
// Tree.IndexNextMoves.
func (n *Node) NextMove(m game.Move) (NodeID, bool) {
	id, ok := n.nextMove[m]
	return id, ok
}

// SGF writes the node's own properties, without children.
func (n *Node) SGF() string {
	var sb strings.Builder
	sb.WriteByte(';')
	for _, p := range n.Properties {
		sb.WriteString(p.SGF())
	}
	return sb.String()
}

func (n *Node) String() string {
	return n.SGF()
}
