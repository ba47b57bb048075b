package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, b *Board, stone Cell, x, y int) []Move {
	t.Helper()
	captured, ok := b.Place(stone, x, y)
	require.True(t, ok, "place %s at (%d, %d)", stone, x, y)
	return captured
}

// koBoard builds a ko shape around (2,2)/(3,2) with white at (2,2).
func koBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard(9)
	place(t, b, Black, 1, 2)
	place(t, b, Black, 2, 1)
	place(t, b, Black, 2, 3)
	place(t, b, White, 4, 2)
	place(t, b, White, 3, 1)
	place(t, b, White, 3, 3)
	place(t, b, White, 2, 2)
	return b
}

func TestBoardInit(t *testing.T) {
	tests := []struct {
		size int
		ok   bool
	}{
		{0, false},
		{1, true},
		{9, true},
		{19, true},
		{20, false},
		{-3, false},
	}

	for _, tt := range tests {
		b := NewBoard(13)
		assert.Equal(t, tt.ok, b.Init(tt.size), "size %d", tt.size)
		if tt.ok {
			assert.Equal(t, tt.size, b.Size())
			assert.Equal(t, Out, b.Val(tt.size+1, 1))
			assert.Equal(t, Empty, b.Val(tt.size, tt.size))
		} else {
			assert.Equal(t, 13, b.Size())
		}
	}
}

func TestBoardPlaceRejects(t *testing.T) {
	b := NewBoard(9)
	place(t, b, Black, 5, 5)

	_, ok := b.Place(White, 5, 5)
	assert.False(t, ok, "occupied")
	_, ok = b.Place(White, 0, 5)
	assert.False(t, ok, "out of bounds")
	_, ok = b.Place(White, 10, 1)
	assert.False(t, ok, "out of bounds")
	_, ok = b.Place(Empty, 3, 3)
	assert.False(t, ok, "no stone")
	assert.Equal(t, 1, b.MoveCount())
}

func TestBoardCornerCapture(t *testing.T) {
	b := NewBoard(9)
	place(t, b, Black, 1, 1)
	place(t, b, White, 1, 2)
	captured := place(t, b, White, 2, 1)

	require.Len(t, captured, 1)
	assert.Equal(t, Point{1, 1}, captured[0].Point())
	assert.Equal(t, Empty, b.Val(1, 1))
	assert.Equal(t, 1, b.Prisoners(White))
	assert.Equal(t, 0, b.Prisoners(Black))
	assert.False(t, b.Ko().IsSet(), "capturing stone has a friendly neighbour")
}

func TestBoardSuicideForbidden(t *testing.T) {
	b := NewBoard(9)
	place(t, b, White, 1, 2)
	place(t, b, White, 2, 1)
	place(t, b, Black, 2, 2)
	before := b.String()

	_, ok := b.Place(Black, 1, 1)
	assert.False(t, ok)
	assert.Equal(t, before, b.String())
	assert.Equal(t, Empty, b.Cell(1, 1))
	assert.Equal(t, 3, b.MoveCount())
}

func TestBoardSuicideAllowedWhenCapturing(t *testing.T) {
	b := koBoard(t)
	captured := place(t, b, Black, 3, 2)

	require.Len(t, captured, 1)
	assert.Equal(t, Point{2, 2}, captured[0].Point())
	assert.Equal(t, White, captured[0].Cell.Stone())
	assert.Equal(t, Point{2, 2}, b.Ko())
}

func TestBoardKo(t *testing.T) {
	b := koBoard(t)
	place(t, b, Black, 3, 2)

	_, ok := b.Place(White, 2, 2)
	assert.False(t, ok, "immediate recapture")
	assert.Equal(t, Black, b.Val(3, 2))

	place(t, b, White, 9, 9)
	assert.False(t, b.Ko().IsSet())
	place(t, b, Black, 9, 8)

	captured := place(t, b, White, 2, 2)
	require.Len(t, captured, 1)
	assert.Equal(t, Point{3, 2}, captured[0].Point())
	assert.Equal(t, Point{3, 2}, b.Ko())
}

func TestBoardMultiStoneCaptureNoKo(t *testing.T) {
	b := NewBoard(9)
	// two white stones on the edge
	place(t, b, White, 1, 1)
	place(t, b, White, 2, 1)
	place(t, b, Black, 1, 2)
	place(t, b, Black, 2, 2)
	captured := place(t, b, Black, 3, 1)

	assert.Len(t, captured, 2)
	assert.Equal(t, 2, b.Prisoners(Black))
	assert.False(t, b.Ko().IsSet())
}

func TestBoardPass(t *testing.T) {
	b := koBoard(t)
	place(t, b, Black, 3, 2)
	require.True(t, b.Ko().IsSet())
	grid := b.String()

	captured, ok := b.Place(White, Pass.X, Pass.Y)
	require.True(t, ok)
	assert.Empty(t, captured)
	assert.True(t, b.IsPass())
	assert.Equal(t, White, b.PassStone())
	assert.Equal(t, White, b.LastStone())
	assert.Equal(t, Pass, b.Last())
	assert.False(t, b.Ko().IsSet())
	assert.Equal(t, grid, b.String())

	place(t, b, Black, 9, 9)
	assert.False(t, b.IsPass())
	assert.Equal(t, Black, b.LastStone())
}

func TestBoardStateRestore(t *testing.T) {
	b := koBoard(t)
	s := b.State()
	place(t, b, Black, 3, 2)
	assert.NotEqual(t, s, b.State())

	b.Restore(s)
	assert.Equal(t, s, b.State())
}

func TestBoardFlagsNeverTouchStones(t *testing.T) {
	b := NewBoard(5)
	place(t, b, Black, 3, 3)
	b.SetFlag(FlagTriangle|FlagWrong, 3, 3)
	b.SetFlag(PackLabel("A")<<LabelShift, 3, 3)

	assert.Equal(t, Black, b.Val(3, 3))
	assert.True(t, b.Cell(3, 3).Has(FlagTriangle))
	assert.Equal(t, "A", b.Cell(3, 3).Label())

	b.ClearFlags(3, 3)
	assert.Equal(t, Black, b.Cell(3, 3))
}

func TestBoardString(t *testing.T) {
	b := NewBoard(3)
	place(t, b, Black, 1, 1)
	place(t, b, White, 3, 2)
	assert.Equal(t, "*++\n++o\n+++\n", b.String())
	assert.False(t, b.IsEmpty())
	assert.Len(t, b.Kifu(), 2)
}

func TestBoardIsEmptyIgnoresMarkup(t *testing.T) {
	b := NewBoard(5)
	b.SetFlag(FlagCross, 2, 2)
	b.SetFlag(FlagCircle, 5, 5)
	b.SetCell(PackLabel("A")<<LabelShift, 3, 3)
	assert.True(t, b.IsEmpty())

	b.SetCell(White, 4, 4)
	assert.False(t, b.IsEmpty())
}

func TestLabelPacking(t *testing.T) {
	for _, s := range []string{"", "A", "12", "abc"} {
		assert.Equal(t, s, UnpackLabel(PackLabel(s)), s)
	}
	assert.Equal(t, "abc", UnpackLabel(PackLabel("abcd")))
}

func TestVertex(t *testing.T) {
	assert.Equal(t, "A19", Point{1, 1}.Vertex(19))
	assert.Equal(t, "J1", Point{9, 19}.Vertex(19))
	assert.Equal(t, "H9", Point{8, 1}.Vertex(9))
	assert.Equal(t, "pass", Pass.Vertex(19))
	assert.Equal(t, "-", Point{}.Vertex(19))
}


