package game

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"tsumego/internal/codec"
	"tsumego/internal/domain/game"
	"tsumego/internal/domain/route"
	"tsumego/internal/domain/sgf"
	errs "tsumego/internal/errors"
)

// Game is one loaded record and the session playing it. Every Game of a
// Collection shares the Collection's board; only the active one may touch it.
type Game struct {
	ID uuid.UUID

	col   *Collection
	mode  Mode
	root  *sgf.Node
	route *route.Route
	size  int

	comment    string
	myStone    game.Cell
	numberFrom int
	wrong      bool
	ready      bool
	trans      Transform

	PlayerBlack string
	PlayerWhite string
}

func newGame(c *Collection, mode Mode, root *sgf.Node, size int) *Game {
	return &Game{
		ID:         uuid.New(),
		col:        c,
		mode:       mode,
		root:       root,
		route:      route.New(c.tree, root),
		size:       size,
		numberFrom: -1,
	}
}

// setup plays the record up to its first real position and fixes the undo
// floor there.
func (g *Game) setup() {
	tree := g.col.tree
	if g.mode == ModeSolve {
		g.markCorrectPath()
		g.markWrongBranches()
	}

	g.root.Exec(g.col)
	if p := g.root.Property(sgf.PropPB); p != nil {
		g.PlayerBlack = p.Value()
	}
	if p := g.root.Property(sgf.PropPW); p != nil {
		g.PlayerWhite = p.Value()
	}

	line := tree.MainLine(g.root)
	for _, n := range line[1:] {
		done := g.exec(n)
		g.route.Select(n)
		if done {
			break
		}
	}

	for _, n := range tree.Nodes(g.root) {
		tree.IndexNextMoves(n)
	}

	g.setMyStone()
	g.route.SetMinUndo()
	if g.mode == ModeSolve {
		g.numberFrom = len(g.board().Kifu())
	}
	g.ready = true
	g.col.dispatchInfo()
}

// exec runs a node and reports a wrong answer the first time a node marked
// wrong is played.
func (g *Game) exec(n *sgf.Node) bool {
	done := n.Exec(g.col)
	if g.ready && !g.wrong && n.Has(sgf.PropWrong) && n.Move().Cell == g.myStone {
		g.wrong = true
		g.col.dispatchWrong(g.SGF())
	}
	return done
}

// markCorrectPath flags every node on a line that ends in a node named
// correct, and marks the correct move itself.
func (g *Game) markCorrectPath() {
	g.col.tree.Walk(g.root, func(n *sgf.Node, path []*sgf.Node) {
		for _, p := range n.Properties {
			if !p.IsCorrect() {
				continue
			}
			if m := n.Move(); !m.IsZero() {
				n.AddProperty(sgf.NewPointProperty(sgf.IDCorrect, m.X, m.Y))
			}
			for _, pn := range path {
				pn.SetCorrectPath(true)
			}
			return
		}
	})
}

// markWrongBranches marks the move of every child leaving a correct line.
func (g *Game) markWrongBranches() {
	tree := g.col.tree
	tree.Walk(g.root, func(n *sgf.Node, _ []*sgf.Node) {
		if !n.IsCorrectPath() {
			return
		}
		for _, c := range tree.Children(n) {
			if c.IsCorrectPath() {
				continue
			}
			if m := c.Move(); !m.IsZero() {
				c.AddProperty(sgf.NewPointProperty(sgf.IDWrong, m.X, m.Y))
			}
		}
	})
}

// setMyStone picks the trainee's color: the PL of the current node, else
// the color of the first recorded reply.
func (g *Game) setMyStone() bool {
	g.myStone = game.Empty
	cur := g.route.Current()

	if p := cur.Property(sgf.PropPL); p != nil {
		switch p.Value() {
		case sgf.IDBlack:
			g.myStone = game.Black
			return true
		case sgf.IDWhite:
			g.myStone = game.White
			return true
		}
	}

	for _, c := range g.col.tree.Children(cur) {
		if m := c.Move(); !m.IsZero() {
			g.myStone = m.Cell
			return true
		}
	}
	return false
}

func (g *Game) Mode() Mode {
	return g.mode
}

func (g *Game) Root() *sgf.Node {
	return g.root
}

func (g *Game) Route() *route.Route {
	return g.route
}

func (g *Game) Size() int {
	return g.size
}

func (g *Game) MyStone() game.Cell {
	return g.myStone
}

// IsWrong reports whether the trainee has left the correct lines.
func (g *Game) IsWrong() bool {
	return g.wrong
}

func (g *Game) Comment() string {
	return g.comment
}

// SetComment replaces the displayed comment and returns the previous one.
func (g *Game) SetComment(s string) string {
	old := g.comment
	g.comment = s
	return old
}

// SGF is the compact record of this game.
func (g *Game) SGF() string {
	return codec.String(g.col.tree, g.root)
}

func (g *Game) board() *game.Board {
	return g.col.board
}

// PutStone submits a move. Its meaning depends on the mode: CREATE edits
// the setup stones, SOLVE checks the trainee against the recorded lines,
// the other modes play and record alternating moves.
func (g *Game) PutStone(stone game.Cell, x, y int) error {
	if x == 0 || y == 0 {
		return errs.ErrInvalidPoint
	}

	switch g.mode {
	case ModeCreate:
		return g.placeStone(stone, x, y)
	case ModeAnswer, ModeFree, ModeReplay:
		if !stone.IsStone() {
			return errs.ErrIllegalMove
		}
		if stone == g.board().LastStone() {
			return errs.ErrWrongColor
		}
		if next := g.col.tree.SearchNext(g.route.Current(), game.Move{Cell: stone, X: x, Y: y}); next != nil {
			if !g.exec(next) {
				return errs.ErrIllegalMove
			}
			g.route.Select(next)
			if g.mode == ModeReplay {
				if next.IsProtected() {
					g.numberFrom = -1
				} else if g.numberFrom < 0 {
					g.numberFrom = len(g.board().Kifu()) - 1
				}
			}
			g.col.dispatchTree()
			g.col.dispatchInfo()
			return nil
		}
		return g.putMove(stone, x, y, false)
	case ModeSolve:
		return g.solveMove(stone, x, y)
	}
	return errs.ErrWrongMode
}

// putMove plays a new move node under the current node.
func (g *Game) putMove(stone game.Cell, x, y int, wrong bool) error {
	id := sgf.IDBlack
	if stone == game.White {
		id = sgf.IDWhite
	}

	tree := g.col.tree
	n := tree.NewPointNode(id, x, y)
	if wrong {
		n.AddProperty(sgf.NewPointProperty(sgf.IDWrong, x, y))
	}

	if !g.exec(n) {
		tree.Discard(n)
		return errs.ErrIllegalMove
	}

	if g.mode == ModeReplay && g.numberFrom < 0 {
		g.numberFrom = len(g.board().Kifu()) - 1
	}

	g.removeUnusedHistory()
	g.route.Append(n, true)

	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

// placeStone edits the setup of the current node; an empty stone clears
// the point.
func (g *Game) placeStone(stone game.Cell, x, y int) error {
	if g.board().IsOut(x, y) {
		return errs.ErrInvalidPoint
	}
	cur := g.route.Current()

	switch stone.Stone() {
	case game.Empty:
		cur.RemovePointValues(x, y)
	case game.Black:
		cur.RemoveValueAt(sgf.PropAW, x, y)
		cur.MergeProperty(sgf.IDAddB, x, y, "")
	case game.White:
		cur.RemoveValueAt(sgf.PropAB, x, y)
		cur.MergeProperty(sgf.IDAddW, x, y, "")
	}

	g.board().SetCell(stone.Stone(), x, y)
	g.col.dispatchTree()
	return nil
}

func (g *Game) solveMove(stone game.Cell, x, y int) error {
	if stone != g.myStone {
		return errs.ErrWrongColor
	}

	tree := g.col.tree
	cur := g.route.Current()
	if !cur.HasChildren() {
		return errs.ErrNoContinuation
	}

	next := tree.SearchNext(cur, game.Move{Cell: stone, X: x, Y: y})
	if next == nil {
		return g.putMove(stone, x, y, true)
	}

	if g.route.Next() == next {
		g.route.RemoveNodesAfterCurrent()
	} else {
		g.removeUnusedHistory()
	}
	if !g.exec(next) {
		return errs.ErrIllegalMove
	}
	if !g.route.Select(next) {
		next.Undo(g.col)
		return errs.ErrIllegalMove
	}

	if reply := g.reply(next); reply != nil && g.exec(reply) {
		g.route.Select(reply)
	}

	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

// reply picks the opponent's recorded answer to n, preferring one that
// stays on a correct line.
func (g *Game) reply(n *sgf.Node) *sgf.Node {
	opp := game.Opponent(g.myStone)
	var first *sgf.Node
	for _, c := range g.col.tree.Children(n) {
		if c.Move().Cell != opp {
			continue
		}
		if c.IsCorrectPath() {
			return c
		}
		if first == nil {
			first = c
		}
	}
	return first
}

// removeUnusedHistory drops the stale forward path. In CREATE and SOLVE the
// abandoned node itself goes too unless it is protected.
func (g *Game) removeUnusedHistory() {
	if g.mode == ModeCreate || g.mode == ModeSolve {
		if next := g.route.Next(); next != nil {
			g.col.tree.RemoveChild(g.route.Current(), next.ID())
		}
	}
	g.route.RemoveNodesAfterCurrent()
}

var markIDs = map[game.Cell]string{
	game.FlagCross:    sgf.IDCross,
	game.FlagTriangle: sgf.IDTri,
	game.FlagCircle:   sgf.IDCircle,
}

// SetMark adds a cross, triangle or circle to the current node.
func (g *Game) SetMark(flag game.Cell, x, y int) error {
	id, ok := markIDs[flag]
	if !ok {
		return fmt.Errorf("%w: unknown mark", errs.ErrIllegalMove)
	}
	return g.setMarkup(id, x, y, "")
}

// ToggleMark adds the mark, or removes it when the point already has it.
func (g *Game) ToggleMark(flag game.Cell, x, y int) error {
	id, ok := markIDs[flag]
	if !ok {
		return fmt.Errorf("%w: unknown mark", errs.ErrIllegalMove)
	}
	if err := g.checkMarkup(); err != nil {
		return err
	}
	if g.route.Current().RemoveValueAt(sgf.LookupID(id), x, y) {
		g.markupChanged()
		return nil
	}
	return g.setMarkup(id, x, y, "")
}

func (g *Game) SetLabel(text string, x, y int) error {
	if x == 0 || y == 0 {
		return errs.ErrInvalidPoint
	}
	if len(text) > game.MaxLabelLen {
		return errs.ErrLabelTooLong
	}
	if err := g.checkMarkup(); err != nil {
		return err
	}
	if g.mode != ModeCreate {
		g.route.Current().RemoveLabelAt(x, y)
	}
	return g.setMarkup(sgf.IDLabel, x, y, text)
}

func (g *Game) RemoveLabel(x, y int) error {
	if err := g.checkMarkup(); err != nil {
		return err
	}
	if !g.route.Current().RemoveLabelAt(x, y) {
		return errs.ErrNoMarkup
	}
	g.markupChanged()
	return nil
}

// checkMarkup allows markup in CREATE, and in ANSWER on move nodes only.
func (g *Game) checkMarkup() error {
	if g.mode != ModeCreate && g.mode != ModeAnswer {
		return errs.ErrWrongMode
	}
	if g.mode == ModeAnswer && !g.route.Current().IsMove() {
		return errs.ErrNoMoveNode
	}
	return nil
}

func (g *Game) setMarkup(id string, x, y int, label string) error {
	if err := g.checkMarkup(); err != nil {
		return err
	}
	if !sgf.NewCoord(x, y).Valid() {
		return errs.ErrInvalidPoint
	}
	g.route.Current().MergeProperty(id, x, y, label)
	g.markupChanged()
	return nil
}

func (g *Game) markupChanged() {
	g.UpdateMarkups()
	g.col.dispatchTree()
}

// AddComment replaces the comment of the current node.
func (g *Game) AddComment(s string) error {
	if s == "" {
		return errs.ErrEmptyComment
	}
	cur := g.route.Current()
	cur.RemoveProperty(sgf.PropC)
	cur.AddProperty(sgf.NewProperty(sgf.IDComment, []string{s}))
	g.col.SetComment(s)
	g.col.dispatchTree()
	return nil
}

func (g *Game) RemoveComment() {
	g.route.Current().RemoveProperty(sgf.PropC)
	g.col.SetComment("")
	g.col.dispatchTree()
}

// Save writes the answer tree to the record store and returns where it
// went. The setup node's properties are sorted by id first.
func (g *Game) Save() (string, error) {
	if g.mode != ModeAnswer {
		return "", errs.ErrWrongMode
	}

	tree := g.col.tree
	if setupNode := tree.FirstChild(g.root); setupNode != nil {
		sort.SliceStable(setupNode.Properties, func(i, j int) bool {
			return setupNode.Properties[i].ID() < setupNode.Properties[j].ID()
		})
	}

	var buf bytes.Buffer
	if err := codec.EncodeRecord(&buf, tree, g.root); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	path, err := g.col.store.SaveRecord(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}

	g.col.log.Infow("record saved", "game", g.ID, "path", path)
	g.col.dispatchTree()
	return path, nil
}

// Undo steps back one node. While solving it also takes back the
// trainee's own move so the trainee is to play again.
func (g *Game) Undo() error {
	if g.mode == ModeCreate {
		return errs.ErrWrongMode
	}
	if !g.route.Undo(g.col) {
		return errs.ErrNothingToUndo
	}

	if g.mode == ModeSolve && g.route.CanUndo() {
		if g.route.Current().Move().Cell == g.myStone {
			g.route.Undo(g.col)
		}
	}

	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

// Redo steps forward on the recorded path. In ANSWER and REPLAY it follows
// the main line past the path's tip; while solving it also replays the
// opponent's reply.
func (g *Game) Redo() error {
	if g.mode == ModeCreate {
		return errs.ErrWrongMode
	}

	if !g.route.CanRedo() {
		if g.mode == ModeAnswer || g.mode == ModeReplay {
			return g.redoMainLine()
		}
		return errs.ErrNothingToRedo
	}

	g.route.Redo(g.col)

	if g.mode == ModeSolve && g.route.CanRedo() {
		if m := g.route.Next().Move(); !m.IsZero() && m.Cell != g.myStone {
			g.route.Redo(g.col)
		}
	}

	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

func (g *Game) redoMainLine() error {
	next := g.col.tree.FirstChild(g.route.Current())
	if next == nil {
		return errs.ErrNothingToRedo
	}
	if !g.exec(next) && next.IsMove() {
		return errs.ErrIllegalMove
	}
	g.route.Select(next)
	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

// ChangeToAnswerMode locks the current setup behind the undo floor and
// drops any lines recorded after it.
func (g *Game) ChangeToAnswerMode() error {
	if g.mode != ModeCreate {
		return errs.ErrWrongMode
	}

	cur := g.route.Current()
	g.numberFrom = 0
	g.route.RemoveNodesAfterCurrent()
	g.col.tree.ClearChildren(cur)
	g.route.SetMinUndo()
	g.mode = ModeAnswer
	return nil
}

// ChangeToFreeMode leaves SOLVE once the recorded lines are exhausted. Any
// other mode may switch only before a move was played.
func (g *Game) ChangeToFreeMode() error {
	switch {
	case g.mode == ModeSolve:
		if g.route.Current().HasChildren() {
			return fmt.Errorf("%w: recorded lines remain", errs.ErrWrongMode)
		}
	case len(g.board().Kifu()) != 0:
		return errs.ErrWrongMode
	}
	g.mode = ModeFree
	return nil
}

// ChangeToCreateMode goes back to editing the setup while no answer has
// been recorded.
func (g *Game) ChangeToCreateMode() error {
	if g.mode != ModeAnswer {
		return errs.ErrWrongMode
	}
	if g.route.HasMinUndoChildren() {
		return errs.ErrAnswerExists
	}
	g.numberFrom = -1
	g.route.ClearMinUndo()
	g.mode = ModeCreate
	return nil
}

// MoveToAnswer rewinds to the floor and plays the correct line.
func (g *Game) MoveToAnswer() {
	for g.route.CanUndo() {
		if g.Undo() != nil {
			break
		}
	}

	tree := g.col.tree
	for {
		var next *sgf.Node
		for _, c := range tree.Children(g.route.Current()) {
			if c.IsCorrectPath() {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		g.exec(next)
		g.route.Select(next)
	}

	g.col.dispatchTree()
	g.col.dispatchInfo()
}

// Numbers labels the moves played since numbering started, "1" first. A
// point played more than once shows its latest number.
func (g *Game) Numbers() []sgf.Label {
	if g.numberFrom < 0 {
		return nil
	}

	kifu := g.board().Kifu()
	seen := make(map[game.Point]bool)
	var labels []sgf.Label

	for i := len(kifu) - g.numberFrom - 1; i >= 0; i-- {
		m := kifu[g.numberFrom+i]
		pt := m.Point()
		if pt.IsPass() || seen[pt] {
			continue
		}
		seen[pt] = true
		labels = append(labels, sgf.Label{Text: strconv.Itoa(i + 1), X: pt.X, Y: pt.Y})
	}
	return labels
}

// SetNumbering starts numbering at the given move index; -1 turns it off.
func (g *Game) SetNumbering(from int) {
	g.numberFrom = from
}

// ToggleCorrect marks the current answer move as correct, or unmarks it.
func (g *Game) ToggleCorrect() error {
	if g.mode != ModeAnswer {
		return errs.ErrWrongMode
	}

	cur := g.route.Current()
	m := cur.Move()
	if m.IsZero() {
		return errs.ErrNoMoveNode
	}

	correct := cur.Has(sgf.PropCorrect)
	for _, p := range cur.Properties {
		correct = correct || p.IsCorrect()
	}

	if correct {
		cur.RemoveProperty(sgf.PropN)
		cur.RemovePropertyAt(sgf.PropCorrect, m.X, m.Y)
	} else {
		cur.AddProperty(sgf.NewProperty(sgf.IDName, []string{sgf.CorrectName}))
		cur.AddProperty(sgf.NewPointProperty(sgf.IDCorrect, m.X, m.Y))
	}

	g.markupChanged()
	return nil
}

// DeleteNode removes the current move node and its subtree, or every
// variation under a node without a move.
func (g *Game) DeleteNode() error {
	if g.mode != ModeAnswer && g.mode != ModeReplay {
		return errs.ErrWrongMode
	}

	tree := g.col.tree
	cur := g.route.Current()
	if cur.IsProtected() {
		return errs.ErrProtectedNode
	}

	if !cur.IsMove() {
		if !cur.HasChildren() {
			return errs.ErrNoMoveNode
		}
		tree.ClearChildren(cur)
	} else {
		if !g.route.Undo(g.col) {
			return errs.ErrProtectedNode
		}
		if !tree.RemoveChild(g.route.Current(), cur.ID()) {
			g.route.Redo(g.col)
			return errs.ErrProtectedNode
		}
	}

	g.route.RemoveNodesAfterCurrent()

	if g.mode == ModeReplay && g.numberFrom >= 0 && g.numberFrom == len(g.board().Kifu()) {
		g.numberFrom = -1
	}

	g.col.dispatchTree()
	g.col.dispatchInfo()
	return nil
}

// Next lists the moves of the current node's children.
func (g *Game) Next() []game.Move {
	var moves []game.Move
	for _, c := range g.col.tree.Children(g.route.Current()) {
		moves = append(moves, c.Move())
	}
	return moves
}

var markupFlags = map[sgf.PropID]game.Cell{
	sgf.PropMA:      game.FlagCross,
	sgf.PropTR:      game.FlagTriangle,
	sgf.PropCR:      game.FlagCircle,
	sgf.PropCorrect: game.FlagCorrect,
	sgf.PropWrong:   game.FlagWrong,
}

// UpdateMarkups recomputes the board's markup bits from the current node.
func (g *Game) UpdateMarkups() {
	b := g.board()
	for x := 1; x <= b.Size(); x++ {
		for y := 1; y <= b.Size(); y++ {
			b.ClearFlags(x, y)
		}
	}

	for _, p := range g.route.Current().Properties {
		if p.PID() == sgf.PropLB {
			for _, l := range p.Labels() {
				b.SetFlag(game.PackLabel(l.Text)<<game.LabelShift, l.X, l.Y)
			}
			continue
		}
		flag, ok := markupFlags[p.PID()]
		if !ok {
			continue
		}
		for _, pt := range p.Points() {
			b.SetFlag(flag, pt.X, pt.Y)
		}
	}
}

// Transform returns the display transform of this session.
func (g *Game) Transform() Transform {
	return g.trans
}

func (g *Game) SetTransform(t Transform) {
	g.trans = t
}

// SetRandTrans picks a random display transform.
func (g *Game) SetRandTrans() {
	g.trans = randomTransform(g.col.rand)
}

// ToDisplay maps a record point to where it is shown.
func (g *Game) ToDisplay(p game.Point) game.Point {
	return g.trans.Apply(p, g.size)
}

// FromDisplay maps a shown point back to the record point.
func (g *Game) FromDisplay(p game.Point) game.Point {
	return g.trans.Reverse(p, g.size)
}

// Flip swaps colors when the display swaps them.
func (g *Game) Flip(c game.Cell) game.Cell {
	return g.trans.FlipStone(c)
}
