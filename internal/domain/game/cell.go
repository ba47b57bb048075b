package game

// Cell is the content of one board intersection. The low three bits hold
// the stone state, markup flags live in the higher bits and never overlap
// the stone bits.
type Cell uint64

const (
	Empty Cell = 0x00
	Black Cell = 0x01
	White Cell = 0x02
	Out   Cell = 0x04

	FlagCross    Cell = 0x10
	FlagTriangle Cell = 0x20
	FlagCircle   Cell = 0x40

	FlagCorrect Cell = 0x100
	FlagWrong   Cell = 0x200

	stoneMask Cell = 0x03
	valueMask Cell = 0x07
)

const (
	LabelShift      = 12
	LabelMask  Cell = 0xffffff000
	MaxLabelLen     = 3
)

// Stone strips everything but the stone bits.
func (c Cell) Stone() Cell {
	return c & stoneMask
}

func (c Cell) IsStone() bool {
	s := c.Stone()
	return s == Black || s == White
}

func (c Cell) Has(flag Cell) bool {
	return c&flag == flag
}

// Label returns the text packed into the label bits, "" if none.
func (c Cell) Label() string {
	return UnpackLabel(Cell((c & LabelMask) >> LabelShift))
}

func (c Cell) String() string {
	switch c.Stone() {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return "E"
}

// Opponent returns the other color. Anything that is not white is treated
// as black's opponent.
func Opponent(stone Cell) Cell {
	if stone.Stone() == Black {
		return White
	}
	return Black
}

// PackLabel packs up to three bytes of s into a 24 bit payload, first
// byte highest. The result is not shifted into the label bits yet.
func PackLabel(s string) Cell {
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	var v Cell
	for i := 0; i < len(s); i++ {
		v = v<<8 | Cell(s[i])
	}
	return v
}

// UnpackLabel is the inverse of PackLabel.
func UnpackLabel(v Cell) string {
	var buf [MaxLabelLen]byte
	n := 0
	for shift := 16; shift >= 0; shift -= 8 {
		b := byte(v >> uint(shift))
		if b == 0 {
			continue
		}
		buf[n] = b
		n++
	}
	return string(buf[:n])
}
