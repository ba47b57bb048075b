package game

import "strings"

const (
	MinSize   = 1
	MaxSize   = 19
	cellsSize = MaxSize + 2
)

// right, up, left, down
var directions = [4]Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Board is the live position. The playable area is surrounded by a ring
// of Out cells so neighbour lookups from any playable point stay inside
// the grid.
type Board struct {
	size  int
	cells [cellsSize][cellsSize]Cell
	kifu  []Move

	cur  Point
	last Point
	ko   Point

	isPass         bool
	passStone      Cell
	moves          int
	blackPrisoners int
	whitePrisoners int
}

// State is the part of the board a move changes besides the grid itself.
type State struct {
	Ko             Point
	Last           Point
	IsPass         bool
	PassStone      Cell
	Moves          int
	BlackPrisoners int
	WhitePrisoners int
}

func NewBoard(size int) *Board {
	b := &Board{}
	if !b.Init(size) {
		b.Init(MaxSize)
	}
	return b
}

// Init resets the grid and all counters. It fails for sizes outside 1..19.
func (b *Board) Init(size int) bool {
	if size < MinSize || size > MaxSize {
		return false
	}

	b.size = size
	for x := 0; x < cellsSize; x++ {
		for y := 0; y < cellsSize; y++ {
			if x > 0 && x <= size && y > 0 && y <= size {
				b.cells[x][y] = Empty
			} else {
				b.cells[x][y] = Out
			}
		}
	}

	b.kifu = b.kifu[:0]
	b.cur = Point{}
	b.last = Point{}
	b.ko = Point{}
	b.isPass = false
	b.passStone = Empty
	b.moves = 0
	b.blackPrisoners = 0
	b.whitePrisoners = 0

	return true
}

func (b *Board) Size() int {
	return b.size
}

// IsEmpty reports whether no stone is on the board. Markup is ignored.
func (b *Board) IsEmpty() bool {
	for x := 1; x <= b.size; x++ {
		for y := 1; y <= b.size; y++ {
			if b.cells[x][y].Stone() != Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) IsOut(x, y int) bool {
	return x < 1 || x > b.size || y < 1 || y > b.size
}

// Val returns only Empty, Black, White or Out.
func (b *Board) Val(x, y int) Cell {
	if b.IsOut(x, y) {
		return Out
	}
	return b.cells[x][y] & valueMask
}

func (b *Board) Cell(x, y int) Cell {
	if b.IsOut(x, y) {
		return Out
	}
	return b.cells[x][y]
}

// SetCell overwrites a cell and returns its previous content.
func (b *Board) SetCell(cell Cell, x, y int) Cell {
	if b.IsOut(x, y) {
		return Out
	}
	old := b.cells[x][y]
	b.cells[x][y] = cell
	return old
}

func (b *Board) SetFlag(flag Cell, x, y int) Cell {
	if b.IsOut(x, y) {
		return Out
	}
	old := b.cells[x][y]
	b.cells[x][y] |= flag
	return old
}

// ClearFlags drops every markup bit of a cell, keeping the stone.
func (b *Board) ClearFlags(x, y int) Cell {
	if b.IsOut(x, y) {
		return Out
	}
	old := b.cells[x][y]
	b.cells[x][y] &= valueMask
	return old
}

func (b *Board) HasStone(x, y int) bool {
	if b.IsOut(x, y) {
		return false
	}
	return b.cells[x][y]&stoneMask != 0
}

func (b *Board) SetCursor(p Point) {
	if b.IsOut(p.X, p.Y) {
		p = Point{}
	}
	b.cur = p
}

func (b *Board) Cursor() Point {
	return b.cur
}

func (b *Board) Last() Point {
	return b.last
}

// LastStone is the color of the most recent move, pass included.
func (b *Board) LastStone() Cell {
	if !b.last.IsSet() {
		return Empty
	}
	if b.last.IsPass() {
		return b.passStone
	}
	return b.Val(b.last.X, b.last.Y)
}

func (b *Board) Ko() Point {
	return b.ko
}

func (b *Board) IsKo(x, y int) bool {
	return b.ko == Point{X: x, Y: y}
}

func (b *Board) IsPass() bool {
	return b.isPass
}

func (b *Board) PassStone() Cell {
	return b.passStone
}

func (b *Board) MoveCount() int {
	return b.moves
}

func (b *Board) Prisoners(stone Cell) int {
	if stone == Black {
		return b.blackPrisoners
	}
	return b.whitePrisoners
}

// Kifu is the log of moves played on this board, in order.
func (b *Board) Kifu() []Move {
	return b.kifu
}

func (b *Board) PushKifu(m Move) {
	b.kifu = append(b.kifu, m)
}

func (b *Board) PopKifu() {
	if len(b.kifu) > 0 {
		b.kifu = b.kifu[:len(b.kifu)-1]
	}
}

func (b *Board) State() State {
	return State{
		Ko:             b.ko,
		Last:           b.last,
		IsPass:         b.isPass,
		PassStone:      b.passStone,
		Moves:          b.moves,
		BlackPrisoners: b.blackPrisoners,
		WhitePrisoners: b.whitePrisoners,
	}
}

func (b *Board) Restore(s State) {
	b.ko = s.Ko
	b.last = s.Last
	b.isPass = s.IsPass
	b.passStone = s.PassStone
	b.moves = s.Moves
	b.blackPrisoners = s.BlackPrisoners
	b.whitePrisoners = s.WhitePrisoners
}

// Place plays stone at (x, y). Pass (20, 20) always succeeds. On failure
// the board is left untouched. The returned moves are the captured cells
// as they were before removal.
func (b *Board) Place(stone Cell, x, y int) ([]Move, bool) {
	val := stone.Stone()

	if (Point{X: x, Y: y}).IsPass() {
		b.isPass = true
		b.passStone = val
		b.ko = Point{}
		b.moves++
		b.kifu = append(b.kifu, Move{Cell: val, X: x, Y: y})
		b.last = Pass
		return nil, true
	}

	if val == Empty || b.IsOut(x, y) || b.HasStone(x, y) || b.IsKo(x, y) {
		return nil, false
	}

	old := b.cells[x][y]
	b.cells[x][y] = val

	// a lone stone with no friendly or empty neighbour may be taking a ko
	koPossible := true
	for _, d := range directions {
		v := b.Val(x+d.X, y+d.Y)
		if v == val || v == Empty {
			koPossible = false
		}
	}

	if b.isSurrounded(val, x, y) {
		opponent := Opponent(val)
		canKill := false
		for _, d := range directions {
			nx, ny := x+d.X, y+d.Y
			if b.Val(nx, ny) == opponent && b.isSurrounded(opponent, nx, ny) {
				canKill = true
				break
			}
		}
		if !canKill {
			b.cells[x][y] = old
			return nil, false
		}
	}

	b.moves++
	b.kifu = append(b.kifu, Move{Cell: val, X: x, Y: y})
	b.isPass = false
	b.passStone = Empty

	var captured []Move
	total := 0
	ko := Point{}
	for _, d := range directions {
		n := b.takePrisonersIfDead(val, x+d.X, y+d.Y, &captured)
		total += n
		if n == 1 {
			ko = Point{X: x + d.X, Y: y + d.Y}
		}
	}

	if val == Black {
		b.blackPrisoners += total
	} else {
		b.whitePrisoners += total
	}

	if !koPossible || total != 1 {
		ko = Point{}
	}
	b.ko = ko
	b.last = Point{X: x, Y: y}

	return captured, true
}

// isSurrounded reports whether the group of stone containing (x, y) has no
// liberty. Opponent stones and the border close a branch; any empty cell
// reached makes the answer false.
func (b *Board) isSurrounded(stone Cell, x, y int) bool {
	if x < 0 || x >= cellsSize || y < 0 || y >= cellsSize {
		return true
	}

	var seen [cellsSize][cellsSize]bool
	stack := []Point{{X: x, Y: y}}
	seen[x][y] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := b.Val(p.X, p.Y)
		if v == Empty {
			return false
		}
		if v != stone {
			continue
		}

		for _, d := range directions {
			q := Point{X: p.X + d.X, Y: p.Y + d.Y}
			if q.X < 0 || q.X >= cellsSize || q.Y < 0 || q.Y >= cellsSize || seen[q.X][q.Y] {
				continue
			}
			seen[q.X][q.Y] = true
			stack = append(stack, q)
		}
	}

	return true
}

func (b *Board) takePrisonersIfDead(myStone Cell, x, y int, captured *[]Move) int {
	opponent := Opponent(myStone)
	if b.Val(x, y) != opponent {
		return 0
	}
	if !b.isSurrounded(opponent, x, y) {
		return 0
	}
	return b.takePrisoners(opponent, x, y, captured)
}

// takePrisoners removes the connected group of stone at (x, y).
func (b *Board) takePrisoners(stone Cell, x, y int, captured *[]Move) int {
	if b.Val(x, y) != stone {
		return 0
	}

	n := 0
	stack := []Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.Val(p.X, p.Y) != stone {
			continue
		}
		*captured = append(*captured, Move{Cell: b.cells[p.X][p.Y], X: p.X, Y: p.Y})
		b.cells[p.X][p.Y] = Empty
		n++

		for _, d := range directions {
			stack = append(stack, Point{X: p.X + d.X, Y: p.Y + d.Y})
		}
	}

	return n
}

// String draws the stones only: '*' black, 'o' white, '+' empty.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 1; y <= b.size; y++ {
		for x := 1; x <= b.size; x++ {
			switch b.cells[x][y] & stoneMask {
			case Black:
				sb.WriteByte('*')
			case White:
				sb.WriteByte('o')
			default:
				sb.WriteByte('+')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
