package sgf

import "tsumego/internal/domain/game"

// Coord is a point value as written in a record: "dd", "tt" for pass, or
// a compressed rectangle "aa:cc".
type Coord struct {
	first      game.Point
	second     game.Point
	compressed bool
	valid      bool
	raw        string
}

func NewCoord(x, y int) Coord {
	c := Coord{first: game.Point{X: x, Y: y}}
	c.valid = isValidPoint(c.first)
	if c.valid {
		c.raw = PointToValue(x, y)
	}
	return c
}

func NewRange(x1, y1, x2, y2 int) Coord {
	c := Coord{
		first:      game.Point{X: x1, Y: y1},
		second:     game.Point{X: x2, Y: y2},
		compressed: true,
	}
	c.valid = c.isValidRange()
	if c.valid {
		c.raw = PointToValue(x1, y1) + ":" + PointToValue(x2, y2)
	}
	return c
}

func ParseCoord(s string) Coord {
	c := Coord{raw: s}
	switch {
	case len(s) == 2:
		c.first = ValueToPoint(s)
		c.valid = isValidPoint(c.first)
	case len(s) == 5 && s[2] == ':':
		c.compressed = true
		c.first = ValueToPoint(s[:2])
		c.second = ValueToPoint(s[3:])
		c.valid = c.isValidRange()
	}
	return c
}

func isValidPoint(p game.Point) bool {
	if p.IsPass() {
		return true
	}
	return p.X >= 1 && p.X <= game.MaxSize && p.Y >= 1 && p.Y <= game.MaxSize
}

// a range must span more than one point and be ordered top-left first
func (c Coord) isValidRange() bool {
	if !isValidPoint(c.first) || !isValidPoint(c.second) {
		return false
	}
	if c.first == c.second {
		return false
	}
	return c.first.X <= c.second.X && c.first.Y <= c.second.Y
}

func (c Coord) Valid() bool {
	return c.valid
}

func (c Coord) Compressed() bool {
	return c.compressed
}

func (c Coord) First() game.Point {
	return c.first
}

func (c Coord) Second() game.Point {
	return c.second
}

func (c Coord) String() string {
	return c.raw
}

// Points expands the coordinate; invalid coordinates yield nothing.
func (c Coord) Points() []game.Point {
	if !c.valid {
		return nil
	}
	if !c.compressed {
		return []game.Point{c.first}
	}
	var pts []game.Point
	for x := c.first.X; x <= c.second.X; x++ {
		for y := c.first.Y; y <= c.second.Y; y++ {
			pts = append(pts, game.Point{X: x, Y: y})
		}
	}
	return pts
}

// Contains reports whether p is covered by c.
func (c Coord) Contains(p game.Point) bool {
	if !c.valid {
		return false
	}
	if !c.compressed {
		return c.first == p
	}
	return p.X >= c.first.X && p.X <= c.second.X && p.Y >= c.first.Y && p.Y <= c.second.Y
}

func PointToValue(x, y int) string {
	return string([]byte{byte('a' + x - 1), byte('a' + y - 1)})
}

func ValueToPoint(s string) game.Point {
	if len(s) < 2 {
		return game.Point{}
	}
	return game.Point{X: int(s[0]-'a') + 1, Y: int(s[1]-'a') + 1}
}
