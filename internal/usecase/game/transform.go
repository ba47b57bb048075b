package game

import (
	"math/rand"

	"tsumego/internal/domain/game"
)

// Transform is a display-only symmetry: an optional mirror, a quarter turn
// count and an optional color swap. Stored records never see it.
type Transform struct {
	Mirror int
	Rotate int
	Flip   int
}

func randomTransform(r *rand.Rand) Transform {
	return Transform{
		Mirror: r.Intn(2),
		Rotate: r.Intn(4),
		Flip:   r.Intn(2),
	}
}

// Apply maps a record point to the displayed point.
func (t Transform) Apply(p game.Point, size int) game.Point {
	if p.IsPass() || !p.IsSet() {
		return p
	}
	if t.Mirror%2 == 1 {
		p.X = size - p.X + 1
	}
	switch t.Rotate % 4 {
	case 1:
		p = game.Point{X: size - p.Y + 1, Y: p.X}
	case 2:
		p = game.Point{X: size - p.X + 1, Y: size - p.Y + 1}
	case 3:
		p = game.Point{X: p.Y, Y: size - p.X + 1}
	}
	return p
}

// Reverse maps a displayed point back to the record point.
func (t Transform) Reverse(p game.Point, size int) game.Point {
	if p.IsPass() || !p.IsSet() {
		return p
	}
	switch t.Rotate % 4 {
	case 1:
		p = game.Point{X: p.Y, Y: size - p.X + 1}
	case 2:
		p = game.Point{X: size - p.X + 1, Y: size - p.Y + 1}
	case 3:
		p = game.Point{X: size - p.Y + 1, Y: p.X}
	}
	if t.Mirror%2 == 1 {
		p.X = size - p.X + 1
	}
	return p
}

// FlipStone swaps black and white when the color swap is on. Markup bits
// are kept.
func (t Transform) FlipStone(c game.Cell) game.Cell {
	if t.Flip%2 == 0 || !c.IsStone() {
		return c
	}
	return c&^c.Stone() | game.Opponent(c.Stone())
}

func (t Transform) IsIdentity() bool {
	return t.Mirror%2 == 0 && t.Rotate%4 == 0 && t.Flip%2 == 0
}
