package cli

import (
	"fmt"
	"strings"

	"tsumego/internal/domain/game"
	gameUC "tsumego/internal/usecase/game"
)

var markSymbols = []struct {
	flag game.Cell
	sym  byte
}{
	{game.FlagWrong, '?'},
	{game.FlagCorrect, '!'},
	{game.FlagCross, 'x'},
	{game.FlagTriangle, '^'},
	{game.FlagCircle, '@'},
}

// Render draws the board as the player of g sees it: transformed, with
// move numbers, labels and marks on empty points. Rows are numbered from
// the bottom edge, columns lettered without 'I'.
func Render(g *gameUC.Game, b *game.Board) string {
	size := b.Size()

	numbers := make(map[game.Point]string)
	for _, l := range g.Numbers() {
		numbers[g.ToDisplay(game.Point{X: l.X, Y: l.Y})] = l.Text
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for x := 1; x <= size; x++ {
		col := game.Point{X: x, Y: size}.Vertex(size)
		sb.WriteString(" " + col[:1])
	}
	sb.WriteByte('\n')

	for y := 1; y <= size; y++ {
		fmt.Fprintf(&sb, "%3d", size-y+1)
		for x := 1; x <= size; x++ {
			disp := game.Point{X: x, Y: y}
			rec := g.FromDisplay(disp)
			cell := g.Flip(b.Cell(rec.X, rec.Y))
			sb.WriteByte(' ')
			sb.WriteByte(symbol(cell, numbers[disp]))
		}
		sb.WriteByte('\n')
	}

	info := fmt.Sprintf("mode %s", g.Mode())
	if c := g.Comment(); c != "" {
		info += "\n" + c
	}
	sb.WriteString(info + "\n")
	return sb.String()
}

func symbol(cell game.Cell, number string) byte {
	if number != "" && cell.IsStone() {
		return number[len(number)-1]
	}
	switch cell.Stone() {
	case game.Black:
		return '*'
	case game.White:
		return 'o'
	}
	if l := cell.Label(); l != "" {
		return l[0]
	}
	for _, m := range markSymbols {
		if cell.Has(m.flag) {
			return m.sym
		}
	}
	return '+'
}
