package game

import "fmt"

// Point is a 1-based board coordinate. The zero value means "unset".
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pass is the reserved coordinate used for pass moves.
var Pass = Point{X: 20, Y: 20}

func (p Point) IsSet() bool {
	return p.X != 0 && p.Y != 0
}

func (p Point) IsPass() bool {
	return p == Pass
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Vertex formats p the way players read it: column letter without 'I',
// row counted from the bottom edge.
func (p Point) Vertex(size int) string {
	if p.IsPass() {
		return "pass"
	}
	if !p.IsSet() || p.X > size || p.Y > size {
		return "-"
	}
	col := byte('A' + p.X - 1)
	if col >= 'I' {
		col++
	}
	return fmt.Sprintf("%c%d", col, size-p.Y+1)
}

// Move is a stone placed on (or removed from) a point. Cell may carry
// markup bits when a move records a captured cell.
type Move struct {
	Cell Cell `json:"cell"`
	X    int  `json:"x"`
	Y    int  `json:"y"`
}

func (m Move) Point() Point {
	return Point{X: m.X, Y: m.Y}
}

func (m Move) IsZero() bool {
	return m == Move{}
}

func (m Move) String() string {
	if m.Point().IsPass() {
		return m.Cell.String() + "[pass]"
	}
	return fmt.Sprintf("%s%s", m.Cell.String(), m.Point())
}
