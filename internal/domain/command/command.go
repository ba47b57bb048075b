// Package command holds the undoable mutations a record node applies to
// the live position. The set of commands is closed: a Command is one of
// move, edit, comment or resize, each carrying its own undo payload.
package command

import "tsumego/internal/domain/game"

// Target is what commands mutate: the shared board and the comment of the
// active record.
type Target interface {
	Board() *game.Board
	// SetComment replaces the active comment and returns the previous one.
	SetComment(comment string) string
}

type Kind int

const (
	KindMove Kind = iota + 1
	KindEdit
	KindComment
	KindResize
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindEdit:
		return "edit"
	case KindComment:
		return "comment"
	case KindResize:
		return "resize"
	}
	return "unknown"
}

type Command struct {
	kind    Kind
	move    *movePayload
	edit    *editPayload
	comment *commentPayload
	size    int
}

type movePayload struct {
	stone game.Cell
	x, y  int

	done     bool
	oldCell  game.Cell
	captured []game.Move
	before   game.State
	after    game.State
}

// Op merges a requested cell value into the current one.
type Op int

const (
	// OpOverwrite replaces the cell.
	OpOverwrite Op = iota
	// OpToggle xors the requested flags into the cell.
	OpToggle
	// OpLabel replaces the label bits, keeping stone and other flags.
	OpLabel
)

func (o Op) apply(old, v game.Cell) game.Cell {
	switch o {
	case OpToggle:
		return old ^ v
	case OpLabel:
		v &= game.LabelMask >> game.LabelShift
		return old&^game.LabelMask | v<<game.LabelShift
	}
	return v
}

type editPayload struct {
	op      Op
	targets []game.Move
	changed []game.Move
}

type commentPayload struct {
	text string
	old  string
}

func NewMove(stone game.Cell, x, y int) *Command {
	return &Command{kind: KindMove, move: &movePayload{stone: stone.Stone(), x: x, y: y}}
}

// NewEdit applies op to every target cell. Targets outside the board are
// ignored when the command runs.
func NewEdit(op Op, targets []game.Move) *Command {
	t := make([]game.Move, len(targets))
	copy(t, targets)
	return &Command{kind: KindEdit, edit: &editPayload{op: op, targets: t}}
}

func NewComment(text string) *Command {
	return &Command{kind: KindComment, comment: &commentPayload{text: text}}
}

func NewResize(size int) *Command {
	return &Command{kind: KindResize, size: size}
}

func (c *Command) Kind() Kind {
	return c.kind
}

// Execute runs the command and reports whether it changed anything.
func (c *Command) Execute(t Target) bool {
	switch c.kind {
	case KindMove:
		return c.execMove(t.Board())
	case KindEdit:
		return c.execEdit(t.Board())
	case KindComment:
		c.comment.old = t.SetComment(c.comment.text)
		return true
	case KindResize:
		return t.Board().Init(c.size)
	}
	return false
}

func (c *Command) Undo(t Target) {
	switch c.kind {
	case KindMove:
		c.undoMove(t.Board())
	case KindEdit:
		b := t.Board()
		for i := len(c.edit.changed) - 1; i >= 0; i-- {
			m := c.edit.changed[i]
			b.SetCell(m.Cell, m.X, m.Y)
		}
	case KindComment:
		t.SetComment(c.comment.old)
	case KindResize:
		// a resize wipes the grid; nothing to restore
	}
}

func (c *Command) Redo(t Target) {
	switch c.kind {
	case KindMove:
		c.redoMove(t.Board())
	case KindEdit:
		c.execEdit(t.Board())
	case KindComment:
		t.SetComment(c.comment.text)
	case KindResize:
		t.Board().Init(c.size)
	}
}

func (c *Command) execMove(b *game.Board) bool {
	m := c.move
	if m.done {
		c.redoMove(b)
		return true
	}

	pass := game.Point{X: m.x, Y: m.y}.IsPass()
	if !pass && b.IsOut(m.x, m.y) {
		return false
	}

	m.before = b.State()
	m.oldCell = b.Cell(m.x, m.y)

	captured, ok := b.Place(m.stone, m.x, m.y)
	if !ok {
		return false
	}

	m.captured = captured
	m.after = b.State()
	m.done = true
	return true
}

func (c *Command) undoMove(b *game.Board) {
	m := c.move
	if !m.done {
		return
	}
	if !m.after.IsPass {
		b.SetCell(m.oldCell, m.x, m.y)
	}
	b.PopKifu()
	b.Restore(m.before)
	for _, p := range m.captured {
		b.SetCell(p.Cell, p.X, p.Y)
	}
}

func (c *Command) redoMove(b *game.Board) {
	m := c.move
	if !m.done {
		return
	}
	if !m.after.IsPass {
		b.SetCell(m.stone, m.x, m.y)
	}
	b.PushKifu(game.Move{Cell: m.stone, X: m.x, Y: m.y})
	b.Restore(m.after)
	for _, p := range m.captured {
		b.SetCell(game.Empty, p.X, p.Y)
	}
}

func (c *Command) execEdit(b *game.Board) bool {
	e := c.edit
	e.changed = e.changed[:0]

	for _, m := range e.targets {
		if b.IsOut(m.X, m.Y) {
			continue
		}
		old := b.Cell(m.X, m.Y)
		cell := e.op.apply(old, m.Cell)
		if cell == old {
			continue
		}
		b.SetCell(cell, m.X, m.Y)
		e.changed = append(e.changed, game.Move{Cell: old, X: m.X, Y: m.Y})
	}

	return len(e.changed) > 0
}
