package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tsumego/internal/domain/game"
	"tsumego/internal/domain/sgf"
	errs "tsumego/internal/errors"
	gameUC "tsumego/internal/usecase/game"
)

// ErrQuit ends Run without an error.
var ErrQuit = errors.New("quit")

// WrongLog records wrongly answered problems.
type WrongLog interface {
	AppendWrong(id uuid.UUID, record string) error
}

// Handler drives a Collection from text commands, one per line, and
// prints what the listeners report.
type Handler struct {
	log   *zap.SugaredLogger
	col   *gameUC.Collection
	wrong WrongLog
	out   io.Writer
	mode  gameUC.Mode

	commands map[string]command
}

type command struct {
	usage string
	run   func(args []string) error
}

func NewHandler(log *zap.SugaredLogger, col *gameUC.Collection, wrong WrongLog, out io.Writer, mode gameUC.Mode) *Handler {
	h := &Handler{
		log:   log,
		col:   col,
		wrong: wrong,
		out:   out,
		mode:  mode,
	}
	h.commands = map[string]command{
		"b":         {"b <pt>", h.stone(game.Black)},
		"w":         {"w <pt>", h.stone(game.White)},
		"pass":      {"pass", h.pass},
		"undo":      {"undo", h.noArgs(func() error { return h.current().Undo() })},
		"redo":      {"redo", h.noArgs(func() error { return h.current().Redo() })},
		"comment":   {"comment <text>", h.comment},
		"uncomment": {"uncomment", h.noArgs(func() error { h.current().RemoveComment(); return nil })},
		"label":     {"label <pt> <text>", h.label},
		"unlabel":   {"unlabel <pt>", h.unlabel},
		"mark":      {"mark ma|tr|cr <pt>", h.mark},
		"correct":   {"correct", h.noArgs(func() error { return h.current().ToggleCorrect() })},
		"delete":    {"delete", h.noArgs(func() error { return h.current().DeleteNode() })},
		"mode":      {"mode create|answer|free", h.changeMode},
		"answer":    {"answer", h.noArgs(func() error { h.current().MoveToAnswer(); return nil })},
		"number":    {"number off|<move>", h.number},
		"next":      {"next", h.noArgs(h.col.Next)},
		"prev":      {"prev", h.noArgs(h.col.Prev)},
		"load":      {"load <file>", h.load(false)},
		"append":    {"append <file>", h.load(true)},
		"save":      {"save", h.noArgs(h.save)},
		"new":       {"new <size>", h.newGame},
		"shuffle":   {"shuffle", h.noArgs(func() error { h.col.Shuffle(); return nil })},
		"show":      {"show", h.noArgs(h.show)},
		"sgf":       {"sgf", h.noArgs(h.printSGF)},
		"help":      {"help", h.noArgs(h.help)},
		"quit":      {"quit", h.noArgs(func() error { return ErrQuit })},
	}
	return h
}

func (h *Handler) current() *gameUC.Game {
	return h.col.Current()
}

// Run reads commands from r until it is exhausted or quit is entered.
// Failed commands are reported and reading goes on.
func (h *Handler) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		err := h.Handle(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			h.log.Debugw("command failed", "line", scanner.Text(), "error", err)
			fmt.Fprintf(h.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Handle runs one command line. Blank lines and lines starting with '#'
// are ignored.
func (h *Handler) Handle(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	cmd, ok := h.commands[strings.ToLower(fields[0])]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return cmd.run(fields[1:])
}

func (h *Handler) noArgs(fn func() error) func([]string) error {
	return func(args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("unexpected arguments %v", args)
		}
		return fn()
	}
}

// point reads a displayed point, as SGF letters ("dd") or "x,y", and maps
// it back to the record.
func (h *Handler) point(s string) (game.Point, error) {
	g := h.current()
	size := g.Size()

	var p game.Point
	if x, y, ok := strings.Cut(s, ","); ok {
		px, errX := strconv.Atoi(strings.TrimSpace(x))
		py, errY := strconv.Atoi(strings.TrimSpace(y))
		if errX != nil || errY != nil {
			return p, fmt.Errorf("%w: %q", errs.ErrInvalidPoint, s)
		}
		p = game.Point{X: px, Y: py}
	} else if len(s) == 2 {
		p = sgf.ValueToPoint(strings.ToLower(s))
	}

	if p.X < 1 || p.X > size || p.Y < 1 || p.Y > size {
		return game.Point{}, fmt.Errorf("%w: %q", errs.ErrInvalidPoint, s)
	}
	return g.FromDisplay(p), nil
}

func (h *Handler) stone(stone game.Cell) func([]string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return errors.New("usage: b|w <pt>")
		}
		p, err := h.point(args[0])
		if err != nil {
			return err
		}
		g := h.current()
		return g.PutStone(g.Flip(stone), p.X, p.Y)
	}
}

func (h *Handler) pass(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments %v", args)
	}
	g := h.current()
	stone := game.Opponent(h.col.Board().LastStone())
	if g.Mode() == gameUC.ModeSolve {
		stone = g.MyStone()
	}
	return g.PutStone(stone, game.Pass.X, game.Pass.Y)
}

func (h *Handler) comment(args []string) error {
	return h.current().AddComment(strings.Join(args, " "))
}

func (h *Handler) label(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: label <pt> <text>")
	}
	p, err := h.point(args[0])
	if err != nil {
		return err
	}
	return h.current().SetLabel(args[1], p.X, p.Y)
}

func (h *Handler) unlabel(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unlabel <pt>")
	}
	p, err := h.point(args[0])
	if err != nil {
		return err
	}
	return h.current().RemoveLabel(p.X, p.Y)
}

var markNames = map[string]game.Cell{
	"ma": game.FlagCross,
	"tr": game.FlagTriangle,
	"cr": game.FlagCircle,
}

func (h *Handler) mark(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: mark ma|tr|cr <pt>")
	}
	flag, ok := markNames[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown mark %q", args[0])
	}
	p, err := h.point(args[1])
	if err != nil {
		return err
	}
	return h.current().ToggleMark(flag, p.X, p.Y)
}

func (h *Handler) changeMode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: mode create|answer|free")
	}
	mode, err := gameUC.ParseMode(args[0])
	if err != nil {
		return err
	}

	g := h.current()
	switch mode {
	case gameUC.ModeCreate:
		err = g.ChangeToCreateMode()
	case gameUC.ModeAnswer:
		err = g.ChangeToAnswerMode()
	case gameUC.ModeFree:
		err = g.ChangeToFreeMode()
	default:
		return fmt.Errorf("%w: cannot switch to %s", errs.ErrWrongMode, mode)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "mode: %s\n", g.Mode())
	return nil
}

// number labels moves from the given move on; off hides the labels.
func (h *Handler) number(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: number off|<move>")
	}
	if strings.EqualFold(args[0], "off") {
		h.current().SetNumbering(-1)
		return nil
	}
	from, err := strconv.Atoi(args[0])
	if err != nil || from < 1 {
		return fmt.Errorf("invalid move number %q", args[0])
	}
	h.current().SetNumbering(from - 1)
	return nil
}

func (h *Handler) load(appendRecords bool) func([]string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return errors.New("usage: load|append <file>")
		}
		return h.col.Load(h.mode, args[0], appendRecords)
	}
}

func (h *Handler) save() error {
	path, err := h.current().Save()
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "saved: %s\n", path)
	return nil
}

func (h *Handler) newGame(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: new <size>")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", errs.ErrInvalidBoardSize, args[0])
	}
	_, err = h.col.NewGame(size)
	return err
}

func (h *Handler) show() error {
	fmt.Fprint(h.out, Render(h.current(), h.col.Board()))
	return nil
}

func (h *Handler) printSGF() error {
	fmt.Fprintln(h.out, h.current().SGF())
	return nil
}

func (h *Handler) help() error {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(h.out, "  "+h.commands[name].usage)
	}
	return nil
}

func (h *Handler) OnComment(comment string) {
	if comment != "" {
		fmt.Fprintf(h.out, "comment: %s\n", comment)
	}
}

func (h *Handler) OnPosition(pos string) {
	fmt.Fprintf(h.out, "record %s\n", pos)
}

func (h *Handler) OnWrong(record string) {
	fmt.Fprintln(h.out, "wrong answer")
	g := h.current()
	if g == nil || h.wrong == nil {
		return
	}
	if err := h.wrong.AppendWrong(g.ID, record); err != nil {
		h.log.Errorw("append wrong log failed", "game", g.ID, "error", err)
	}
}

func (h *Handler) OnInfo(info string) {
	h.log.Debugw("position changed", "info", info)
}

func (h *Handler) OnTree(g *gameUC.Game) {
	h.log.Debugw("tree changed", "game", g.ID, "route", g.Route().Len())
}
