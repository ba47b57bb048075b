package game

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tsumego/internal/domain/game"
	"tsumego/internal/domain/sgf"
	errs "tsumego/internal/errors"
)

type memStore struct {
	files map[string]string
	saved []string
}

func (m *memStore) ReadRecord(path string) ([]byte, error) {
	s, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(s), nil
}

func (m *memStore) SaveRecord(data []byte) (string, error) {
	m.saved = append(m.saved, string(data))
	return "saved.sgf", nil
}

type events struct {
	comments  []string
	positions []string
	wrongs    []string
	trees     int
}

func (e *events) listener() Listener {
	return ListenerFuncs{
		Comment:  func(s string) { e.comments = append(e.comments, s) },
		Position: func(s string) { e.positions = append(e.positions, s) },
		Wrong:    func(s string) { e.wrongs = append(e.wrongs, s) },
		Tree:     func(*Game) { e.trees++ },
	}
}

func newTestCollection(t *testing.T, files map[string]string) (*Collection, *memStore, *events) {
	t.Helper()
	store := &memStore{files: files}
	ev := &events{}
	c := NewCollection(store, zaptest.NewLogger(t).Sugar(), Options{DefaultSize: 9}, ev.listener())
	c.SetSeed(1)
	return c, store, ev
}

const problem = "(;GM[1]SZ[9]PB[Alice]PW[Bob];AB[aa]AW[ee]C[black to live]" +
	"(;B[bb];W[cc];B[dd]N[correct])(;B[gg];W[hh]))"

func TestLoadExampleRecordUndo(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{
		"ex.sgf": "(;GM[1]SZ[9];B[ee];W[ce])",
	})
	require.NoError(t, c.Load(ModeReplay, "ex.sgf", false))

	g := c.Current()
	b := c.Board()
	assert.Equal(t, 9, b.Size())
	assert.Equal(t, game.Black, b.Val(5, 5))
	assert.Equal(t, game.Empty, b.Val(3, 5))

	require.NoError(t, g.Redo())
	assert.Equal(t, game.White, b.Val(3, 5))

	require.NoError(t, g.Undo())
	assert.Equal(t, game.Black, b.Val(5, 5))
	assert.Equal(t, game.Empty, b.Val(3, 5))
	assert.ErrorIs(t, g.Undo(), errs.ErrNothingToUndo)
}

func TestLoadReplaceAndAppend(t *testing.T) {
	c, _, ev := newTestCollection(t, map[string]string{
		"one.sgf": "(;SZ[9];B[aa])",
		"two.sgf": "(;SZ[13];B[bb])(;SZ[7];W[cc])",
		"bad.sgf": "(;SZ[9];B[aa]",
	})
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Load(ModeReplay, "one.sgf", false))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "1 / 1", c.Pos())

	require.NoError(t, c.Load(ModeReplay, "two.sgf", true))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "2 / 3", c.Pos())
	assert.Equal(t, 13, c.Board().Size())
	assert.Equal(t, game.Black, c.Board().Val(2, 2))

	require.NoError(t, c.Next())
	assert.Equal(t, 7, c.Board().Size())
	assert.Equal(t, game.White, c.Board().Val(3, 3))
	assert.ErrorIs(t, c.Next(), errs.ErrNoMoreRecords)

	require.NoError(t, c.Select(0))
	assert.Equal(t, game.Black, c.Board().Val(1, 1))
	assert.ErrorIs(t, c.Prev(), errs.ErrNoMoreRecords)

	before := len(c.Tree().Children(c.Tree().Root()))
	err := c.Load(ModeReplay, "bad.sgf", false)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.Tree().Children(c.Tree().Root()), before)

	assert.Error(t, c.Load(ModeReplay, "missing.sgf", false))
	assert.Equal(t, "1 / 3", ev.positions[len(ev.positions)-1])
}

func TestDeleteGame(t *testing.T) {
	c, _, _ := newTestCollection(t, nil)
	assert.ErrorIs(t, c.DeleteGame(), errs.ErrLastRecord)

	_, err := c.NewGame(13)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 13, c.Board().Size())

	require.NoError(t, c.DeleteGame())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 9, c.Board().Size())

	_, err = c.NewGame(25)
	assert.ErrorIs(t, err, errs.ErrInvalidBoardSize)
}

func TestCreateAndAnswer(t *testing.T) {
	c, store, _ := newTestCollection(t, nil)
	g := c.Current()
	b := c.Board()
	require.Equal(t, ModeCreate, g.Mode())

	require.NoError(t, g.PutStone(game.Black, 3, 3))
	require.NoError(t, g.PutStone(game.White, 3, 3))
	assert.Equal(t, game.White, b.Val(3, 3))
	assert.Nil(t, g.Route().Current().Property(sgf.PropAB))

	require.NoError(t, g.PutStone(game.Empty, 3, 3))
	assert.Equal(t, game.Empty, b.Val(3, 3))
	assert.Nil(t, g.Route().Current().Property(sgf.PropAW))

	require.NoError(t, g.PutStone(game.Black, 3, 3))
	require.NoError(t, g.PutStone(game.White, 4, 4))
	assert.ErrorIs(t, g.Undo(), errs.ErrWrongMode)
	_, err := g.Save()
	assert.ErrorIs(t, err, errs.ErrWrongMode)

	require.NoError(t, g.ChangeToAnswerMode())
	require.Equal(t, ModeAnswer, g.Mode())

	require.NoError(t, g.PutStone(game.Black, 5, 5))
	assert.ErrorIs(t, g.PutStone(game.Black, 6, 6), errs.ErrWrongColor)
	assert.ErrorIs(t, g.PutStone(game.White, 5, 5), errs.ErrIllegalMove)
	require.NoError(t, g.PutStone(game.White, 6, 6))

	require.NoError(t, g.Undo())
	require.NoError(t, g.Undo())
	assert.ErrorIs(t, g.Undo(), errs.ErrNothingToUndo)
	assert.Equal(t, game.Black, b.Val(3, 3))
	assert.Equal(t, game.Empty, b.Val(5, 5))

	// replaying an existing move selects the recorded child
	require.NoError(t, g.PutStone(game.Black, 5, 5))
	require.NoError(t, g.PutStone(game.White, 6, 6))
	moveNode := c.Tree().Parent(g.Route().Current())
	assert.Len(t, c.Tree().Children(moveNode), 1)

	assert.ErrorIs(t, g.ChangeToCreateMode(), errs.ErrAnswerExists)

	require.NoError(t, g.ToggleCorrect())
	path, err := g.Save()
	require.NoError(t, err)
	assert.Equal(t, "saved.sgf", path)
	require.Len(t, store.saved, 1)

	saved := store.saved[0]
	assert.Contains(t, saved, "\n;AB[cc]\nAW[dd]\n")
	assert.Contains(t, saved, ";B[ee];W[ff]N[correct])")
	assert.NotContains(t, saved, "CORRECT")

	require.NoError(t, g.ToggleCorrect())
	assert.False(t, g.Route().Current().Has(sgf.PropN))
	assert.False(t, g.Route().Current().Has(sgf.PropCorrect))
}

func TestAnswerBranchesAndDelete(t *testing.T) {
	c, _, _ := newTestCollection(t, nil)
	g := c.Current()
	require.NoError(t, g.ChangeToAnswerMode())

	require.NoError(t, g.PutStone(game.Black, 1, 1))
	require.NoError(t, g.Undo())
	require.NoError(t, g.PutStone(game.Black, 2, 2))
	floor := c.Tree().Parent(g.Route().Current())
	assert.Len(t, c.Tree().Children(floor), 2)

	require.NoError(t, g.DeleteNode())
	assert.Equal(t, floor.ID(), g.Route().Current().ID())
	assert.Len(t, c.Tree().Children(floor), 1)
	assert.Equal(t, game.Empty, c.Board().Val(2, 2))

	// the floor node itself is protected
	assert.ErrorIs(t, g.DeleteNode(), errs.ErrProtectedNode)
	assert.ErrorIs(t, g.ChangeToCreateMode(), errs.ErrAnswerExists)

	require.NoError(t, g.Redo())
	assert.Equal(t, game.Black, c.Board().Val(1, 1))
	require.NoError(t, g.DeleteNode())
	assert.False(t, floor.HasChildren())

	require.NoError(t, g.ChangeToCreateMode())
	assert.Equal(t, ModeCreate, g.Mode())
}

func TestMarkupEditing(t *testing.T) {
	c, _, _ := newTestCollection(t, nil)
	g := c.Current()
	b := c.Board()

	require.NoError(t, g.SetMark(game.FlagCross, 2, 2))
	assert.True(t, b.Cell(2, 2).Has(game.FlagCross))
	require.NoError(t, g.ToggleMark(game.FlagCross, 2, 2))
	assert.False(t, b.Cell(2, 2).Has(game.FlagCross))

	require.NoError(t, g.ChangeToAnswerMode())
	assert.ErrorIs(t, g.SetLabel("A", 1, 1), errs.ErrNoMoveNode)

	require.NoError(t, g.PutStone(game.Black, 5, 5))
	assert.ErrorIs(t, g.SetLabel("ABCD", 1, 1), errs.ErrLabelTooLong)
	require.NoError(t, g.SetLabel("A", 1, 1))
	assert.Equal(t, "A", b.Cell(1, 1).Label())
	require.NoError(t, g.SetLabel("B", 1, 1))
	assert.Equal(t, "B", b.Cell(1, 1).Label())
	assert.Equal(t, []string{"aa:B"}, g.Route().Current().Property(sgf.PropLB).Values())

	require.NoError(t, g.RemoveLabel(1, 1))
	assert.Equal(t, "", b.Cell(1, 1).Label())
	assert.ErrorIs(t, g.RemoveLabel(1, 1), errs.ErrNoMarkup)

	require.NoError(t, g.SetMark(game.FlagTriangle, 3, 3))
	assert.True(t, b.Cell(3, 3).Has(game.FlagTriangle))
	assert.Equal(t, game.Black, b.Val(5, 5))
}

func TestComments(t *testing.T) {
	c, _, ev := newTestCollection(t, nil)
	g := c.Current()

	assert.ErrorIs(t, g.AddComment(""), errs.ErrEmptyComment)
	require.NoError(t, g.AddComment("first"))
	assert.Equal(t, "first", c.Comment())
	assert.Equal(t, "first", g.Route().Current().Property(sgf.PropC).Value())
	assert.Equal(t, "first", ev.comments[len(ev.comments)-1])

	require.NoError(t, g.AddComment("second"))
	assert.Len(t, g.Route().Current().Properties, 1)

	g.RemoveComment()
	assert.False(t, g.Route().Current().Has(sgf.PropC))
	assert.Equal(t, "", c.Comment())
}

func TestSolve(t *testing.T) {
	c, _, ev := newTestCollection(t, map[string]string{"p.sgf": problem})
	require.NoError(t, c.Load(ModeSolve, "p.sgf", false))

	g := c.Current()
	b := c.Board()
	trees := ev.trees
	assert.Equal(t, game.Black, g.MyStone())
	assert.Equal(t, "Alice", g.PlayerBlack)
	assert.Equal(t, "black to live", c.Comment())
	assert.Equal(t, game.Black, b.Val(1, 1))
	assert.Equal(t, game.White, b.Val(5, 5))

	assert.ErrorIs(t, g.PutStone(game.White, 2, 2), errs.ErrWrongColor)

	require.NoError(t, g.PutStone(game.Black, 2, 2))
	assert.Equal(t, game.White, b.Val(3, 3), "opponent reply played")
	assert.False(t, g.IsWrong())
	assert.Equal(t, []sgf.Label{{Text: "2", X: 3, Y: 3}, {Text: "1", X: 2, Y: 2}}, g.Numbers())

	require.NoError(t, g.Undo())
	assert.Equal(t, game.Empty, b.Val(2, 2))
	assert.Equal(t, game.Empty, b.Val(3, 3))
	assert.ErrorIs(t, g.Undo(), errs.ErrNothingToUndo)

	require.NoError(t, g.Redo())
	assert.Equal(t, game.Black, b.Val(2, 2))
	assert.Equal(t, game.White, b.Val(3, 3))
	require.NoError(t, g.Undo())

	require.NoError(t, g.PutStone(game.Black, 7, 7))
	assert.True(t, g.IsWrong())
	require.Len(t, ev.wrongs, 1)
	assert.True(t, strings.HasPrefix(ev.wrongs[0], "(;GM[1]SZ[9]"))
	assert.Equal(t, game.White, b.Val(8, 8))

	require.NoError(t, g.Undo())
	require.NoError(t, g.PutStone(game.Black, 9, 9))
	assert.Len(t, ev.wrongs, 1, "wrong is reported once per record")
	assert.True(t, g.Route().Current().Has(sgf.PropWrong))
	assert.ErrorIs(t, g.PutStone(game.Black, 9, 8), errs.ErrNoContinuation)

	assert.Equal(t, trees, ev.trees, "tree stays hidden while solving")
}

func TestSolveRepeatWrongMoveAfterUndo(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{"p.sgf": problem})
	require.NoError(t, c.Load(ModeSolve, "p.sgf", false))

	g := c.Current()
	b := c.Board()
	floor := g.Route().Index()

	require.NoError(t, g.PutStone(game.Black, 6, 6))
	require.NoError(t, g.Undo())
	assert.Equal(t, game.Empty, b.Val(6, 6))

	for i := 0; i < 2; i++ {
		require.NoError(t, g.PutStone(game.Black, 6, 6))
		assert.Equal(t, game.Black, b.Val(6, 6))
		assert.Equal(t, floor+1, g.Route().Index())
		assert.Equal(t, game.Move{Cell: game.Black, X: 6, Y: 6}, g.Route().Current().Move())

		require.NoError(t, g.Undo())
		assert.Equal(t, game.Empty, b.Val(6, 6))
		assert.Equal(t, floor, g.Route().Index())
	}
	assert.ErrorIs(t, g.Undo(), errs.ErrNothingToUndo)
}

func TestSolveMoveToAnswerAndFree(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{"p.sgf": problem})
	require.NoError(t, c.Load(ModeSolve, "p.sgf", false))
	g := c.Current()

	assert.ErrorIs(t, g.ChangeToFreeMode(), errs.ErrWrongMode)

	g.MoveToAnswer()
	assert.Equal(t, game.Black, c.Board().Val(4, 4))
	assert.True(t, g.Route().Current().IsCorrectPath())
	assert.True(t, c.Board().Cell(4, 4).Has(game.FlagCorrect))
	assert.False(t, g.IsWrong())

	require.NoError(t, g.ChangeToFreeMode())
	require.NoError(t, g.PutStone(game.White, 6, 6))
	assert.ErrorIs(t, g.PutStone(game.White, 7, 6), errs.ErrWrongColor)
	require.NoError(t, g.PutStone(game.Black, 7, 6))
}

func TestReplayRedoFollowsMainLine(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{
		"g.sgf": "(;SZ[9];B[aa](;W[bb];B[cc])(;W[dd]))",
	})
	require.NoError(t, c.Load(ModeReplay, "g.sgf", false))
	g := c.Current()

	assert.Equal(t, []game.Move{
		{Cell: game.White, X: 2, Y: 2},
		{Cell: game.White, X: 4, Y: 4},
	}, g.Next())

	require.NoError(t, g.Redo())
	require.NoError(t, g.Redo())
	assert.Equal(t, game.Black, c.Board().Val(3, 3))
	assert.ErrorIs(t, g.Redo(), errs.ErrNothingToRedo)

	require.NoError(t, g.PutStone(game.White, 5, 5))
	assert.Equal(t, []sgf.Label{{Text: "1", X: 5, Y: 5}}, g.Numbers())
	require.NoError(t, g.DeleteNode())
	assert.Nil(t, g.Numbers())
}

func TestSwitchingGamesRebuildsBoard(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{
		"two.sgf": "(;SZ[9];B[aa];W[bb])(;SZ[9];AB[cc];W[dd])",
	})
	require.NoError(t, c.Load(ModeReplay, "two.sgf", false))

	first := c.Current()
	require.NoError(t, first.Redo())
	assert.Equal(t, game.White, c.Board().Val(2, 2))

	require.NoError(t, c.Next())
	assert.Equal(t, game.Empty, c.Board().Val(1, 1))
	assert.Equal(t, game.Black, c.Board().Val(3, 3))

	require.NoError(t, c.Prev())
	assert.Equal(t, game.Black, c.Board().Val(1, 1))
	assert.Equal(t, game.White, c.Board().Val(2, 2))
	assert.Equal(t, game.Empty, c.Board().Val(3, 3))
	assert.Equal(t, 2, c.Info().MoveNumber)
}

func TestShuffleKeepsEveryGame(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{
		"many.sgf": "(;SZ[9];B[aa])(;SZ[9];B[bb])(;SZ[9];B[cc])(;SZ[9];B[dd])",
	})
	require.NoError(t, c.Load(ModeReplay, "many.sgf", false))
	ids := make(map[string]bool)
	for _, g := range c.Games() {
		ids[g.ID.String()] = true
	}

	c.Shuffle()
	assert.Equal(t, 4, c.Len())
	for _, g := range c.Games() {
		assert.True(t, ids[g.ID.String()])
	}
	assert.Equal(t, "1 / 4", c.Pos())
}

func TestLoadFilesShufflesOnce(t *testing.T) {
	files := make(map[string]string)
	var paths, players []string
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("p%d.sgf", i)
		player := fmt.Sprintf("player%d", i)
		files[name] = fmt.Sprintf("(;GM[1]SZ[9]PB[%s];B[ee])", player)
		paths = append(paths, name)
		players = append(players, player)
	}

	load := func(mode Mode) []string {
		c := NewCollection(&memStore{files: files}, zaptest.NewLogger(t).Sugar(),
			Options{DefaultSize: 9, Shuffle: true})
		c.SetSeed(1)
		require.NoError(t, c.LoadFiles(mode, paths))
		assert.Equal(t, "1 / 6", c.Pos())
		var got []string
		for _, g := range c.Games() {
			got = append(got, g.PlayerBlack)
		}
		return got
	}

	assert.Equal(t, players, load(ModeReplay))

	want := append([]string(nil), players...)
	r := rand.New(rand.NewSource(1))
	r.Shuffle(len(want), func(i, j int) { want[i], want[j] = want[j], want[i] })
	assert.Equal(t, want, load(ModeSolve))
}

func TestLoadFilesMissingFile(t *testing.T) {
	c, _, _ := newTestCollection(t, map[string]string{"p.sgf": problem})
	assert.ErrorIs(t, c.LoadFiles(ModeSolve, nil), errs.ErrNoRecords)
	assert.Error(t, c.LoadFiles(ModeSolve, []string{"p.sgf", "missing.sgf"}))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Alice", c.Current().PlayerBlack)
}

func TestTransformRoundTrip(t *testing.T) {
	for m := 0; m < 2; m++ {
		for r := 0; r < 4; r++ {
			tr := Transform{Mirror: m, Rotate: r}
			for _, p := range []game.Point{{X: 1, Y: 1}, {X: 2, Y: 7}, {X: 9, Y: 3}} {
				got := tr.Apply(p, 9)
				assert.Equal(t, p, tr.Reverse(got, 9), "transform %+v point %v", tr, p)
			}
			assert.Equal(t, game.Pass, tr.Apply(game.Pass, 9))
		}
	}

	tr := Transform{Rotate: 1}
	assert.Equal(t, game.Point{X: 9, Y: 1}, tr.Apply(game.Point{X: 1, Y: 1}, 9))

	flip := Transform{Flip: 1}
	assert.Equal(t, game.White|game.FlagCross, flip.FlipStone(game.Black|game.FlagCross))
	assert.Equal(t, game.Empty, flip.FlipStone(game.Empty))
	assert.True(t, Transform{}.IsIdentity())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("SOLVE")
	require.NoError(t, err)
	assert.Equal(t, ModeSolve, m)

	_, err = ParseMode("quiz")
	assert.Error(t, err)
}
