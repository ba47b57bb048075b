package game

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"tsumego/internal/codec"
	"tsumego/internal/domain/game"
	"tsumego/internal/domain/sgf"
	errs "tsumego/internal/errors"
)

// RecordStore reads record files and persists saved answers.
type RecordStore interface {
	ReadRecord(path string) ([]byte, error)
	SaveRecord(data []byte) (string, error)
}

type Options struct {
	DefaultSize     int
	Shuffle         bool
	RandomTransform bool
}

// Collection holds every loaded record in one shared tree and the board
// they take turns on. Only the current game may touch the board.
type Collection struct {
	board     *game.Board
	tree      *sgf.Tree
	games     []*Game
	idx       int
	comment   string
	listeners []Listener
	store     RecordStore
	opts      Options
	rand      *rand.Rand
	log       *zap.SugaredLogger
}

func NewCollection(store RecordStore, log *zap.SugaredLogger, opts Options, listeners ...Listener) *Collection {
	if opts.DefaultSize < game.MinSize || opts.DefaultSize > game.MaxSize {
		opts.DefaultSize = game.MaxSize
	}
	c := &Collection{
		board:     game.NewBoard(opts.DefaultSize),
		tree:      sgf.NewTree(),
		listeners: listeners,
		store:     store,
		opts:      opts,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       log,
	}
	c.NewGame(opts.DefaultSize)
	return c
}

// Board is the position shared by every game.
func (c *Collection) Board() *game.Board {
	return c.board
}

// SetComment replaces the displayed comment, tells the listeners and
// returns the previous one.
func (c *Collection) SetComment(s string) string {
	old := c.comment
	c.comment = s
	if g := c.Current(); g != nil {
		g.SetComment(s)
	}
	for _, l := range c.listeners {
		l.OnComment(s)
	}
	return old
}

func (c *Collection) Comment() string {
	return c.comment
}

func (c *Collection) Tree() *sgf.Tree {
	return c.tree
}

// AddListener registers l for every later notification.
func (c *Collection) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// SetSeed makes shuffling and random transforms repeatable.
func (c *Collection) SetSeed(seed int64) {
	c.rand = rand.New(rand.NewSource(seed))
}

func (c *Collection) Current() *Game {
	if c.idx < 0 || c.idx >= len(c.games) {
		return nil
	}
	return c.games[c.idx]
}

func (c *Collection) Games() []*Game {
	return c.games
}

func (c *Collection) Len() int {
	return len(c.games)
}

// NewGame starts an empty record of the given size in CREATE mode and
// makes it current. The setup node it edits is protected.
func (c *Collection) NewGame(size int) (*Game, error) {
	if size < game.MinSize || size > game.MaxSize {
		return nil, errs.ErrInvalidBoardSize
	}

	root := c.tree.NewNode(false)
	root.AddProperty(sgf.NewProperty("FF", []string{"4"}))
	root.AddProperty(sgf.NewProperty("GM", []string{"1"}))
	root.AddProperty(sgf.NewProperty(sgf.IDSize, []string{fmt.Sprint(size)}))
	root.AddProperty(sgf.NewProperty(sgf.IDPB, []string{"Black"}))
	root.AddProperty(sgf.NewProperty(sgf.IDPW, []string{"White"}))
	c.tree.AppendChild(c.tree.Root(), root)

	g := newGame(c, ModeCreate, root, size)
	c.board.Init(size)
	c.games = append(c.games, g)
	c.idx = len(c.games) - 1
	c.setComment("")
	g.setup()

	setupNode := c.tree.NewNode(true)
	g.route.Append(setupNode, true)
	c.update()
	return g, nil
}

// DeleteGame drops the current record. The last one always stays.
func (c *Collection) DeleteGame() error {
	if len(c.games) <= 1 {
		return errs.ErrLastRecord
	}

	c.games = append(c.games[:c.idx], c.games[c.idx+1:]...)
	roots := make([]*sgf.Node, 0, len(c.games))
	for _, g := range c.games {
		roots = append(roots, g.root)
	}
	c.tree.KeepChildren(c.tree.Root(), roots)
	if c.idx >= len(c.games) {
		c.idx = len(c.games) - 1
	}
	c.update()
	return nil
}

// Load reads the records of a file. In replace mode they take the place
// of everything loaded so far; otherwise they are appended. A malformed
// file changes nothing.
func (c *Collection) Load(mode Mode, path string, appendRecords bool) error {
	data, err := c.read(path)
	if err != nil {
		return err
	}
	return c.LoadData(mode, path, data, appendRecords)
}

// LoadData is Load for records already in memory; name only shows up in
// logs.
func (c *Collection) LoadData(mode Mode, name string, data []byte, appendRecords bool) error {
	first, err := c.loadData(mode, name, data, appendRecords)
	if err != nil {
		return err
	}
	c.finishLoad(mode, first)
	return nil
}

// LoadFiles replaces the collection with the records of every file, in
// order, and shuffles them once as a whole when solving. Files read
// before a failing one stay loaded.
func (c *Collection) LoadFiles(mode Mode, paths []string) error {
	if len(paths) == 0 {
		return errs.ErrNoRecords
	}
	for i, path := range paths {
		data, err := c.read(path)
		if err == nil {
			_, err = c.loadData(mode, path, data, i > 0)
		}
		if err != nil {
			if i > 0 {
				c.finishLoad(mode, 0)
			}
			return err
		}
	}
	c.finishLoad(mode, 0)
	return nil
}

func (c *Collection) read(path string) ([]byte, error) {
	data, err := c.store.ReadRecord(path)
	if err != nil {
		c.log.Errorw("read record failed", "path", path, "error", err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// loadData decodes data and sets up a game per record. It returns the
// index of the first new game.
func (c *Collection) loadData(mode Mode, name string, data []byte, appendRecords bool) (int, error) {
	roots, err := codec.Decode(bytes.NewReader(data), c.tree)
	if err != nil {
		c.log.Errorw("parse record failed", "path", name, "error", err)
		return 0, err
	}
	if len(roots) == 0 {
		return 0, errs.ErrNoRecords
	}

	if !appendRecords {
		c.tree.KeepChildren(c.tree.Root(), roots)
		c.games = nil
	}

	first := len(c.games)
	for _, root := range roots {
		size := c.opts.DefaultSize
		if p := root.Property(sgf.PropSZ); p != nil {
			if v, ok := p.Int(); ok && v >= game.MinSize && v <= game.MaxSize {
				size = v
			}
		}

		g := newGame(c, mode, root, size)
		if mode == ModeSolve && c.opts.RandomTransform {
			g.SetRandTrans()
		}
		c.games = append(c.games, g)
		c.idx = len(c.games) - 1

		c.board.Init(size)
		c.setComment("")
		g.setup()
	}

	c.log.Infow("records loaded", "path", name, "records", len(roots), "mode", mode.String())
	return first, nil
}

// finishLoad shuffles the games from first on when solving and makes the
// first of them current.
func (c *Collection) finishLoad(mode Mode, first int) {
	if mode == ModeSolve && c.opts.Shuffle {
		c.shuffle(first)
	}
	c.idx = first
	c.update()
}

// Shuffle reorders the loaded games randomly and starts over at the first.
func (c *Collection) Shuffle() {
	c.shuffle(0)
	c.idx = 0
	c.update()
}

func (c *Collection) shuffle(from int) {
	tail := c.games[from:]
	c.rand.Shuffle(len(tail), func(i, j int) {
		tail[i], tail[j] = tail[j], tail[i]
	})
}

func (c *Collection) Prev() error {
	if c.idx <= 0 {
		return errs.ErrNoMoreRecords
	}
	c.idx--
	c.update()
	return nil
}

func (c *Collection) Next() error {
	if c.idx+1 >= len(c.games) {
		return errs.ErrNoMoreRecords
	}
	c.idx++
	c.update()
	return nil
}

// Select makes the i-th game current.
func (c *Collection) Select(i int) error {
	if i < 0 || i >= len(c.games) {
		return errs.ErrNoMoreRecords
	}
	c.idx = i
	c.update()
	return nil
}

// Pos is the position of the current game, "i / n".
func (c *Collection) Pos() string {
	return fmt.Sprintf("%d / %d", c.idx+1, len(c.games))
}

func (c *Collection) Info() game.Info {
	info := game.Info{
		MoveNumber:     c.board.MoveCount(),
		BlackPrisoners: c.board.Prisoners(game.Black),
		WhitePrisoners: c.board.Prisoners(game.White),
	}
	if g := c.Current(); g != nil {
		info.PlayerBlack = g.PlayerBlack
		info.PlayerWhite = g.PlayerWhite
	}
	return info
}

// update rebuilds the board for the current game and tells the listeners.
func (c *Collection) update() {
	g := c.Current()
	if g == nil {
		return
	}
	c.board.Init(g.size)
	c.setComment("")
	g.route.RedoHistory(c)

	c.dispatchTree()
	for _, l := range c.listeners {
		l.OnPosition(c.Pos())
	}
	c.dispatchInfo()
}

// setComment resets the comment without an event; replaying nodes sends
// their own.
func (c *Collection) setComment(s string) {
	c.comment = s
	if g := c.Current(); g != nil {
		g.SetComment(s)
	}
}

func (c *Collection) dispatchTree() {
	g := c.Current()
	if g == nil || g.mode == ModeSolve {
		return
	}
	for _, l := range c.listeners {
		l.OnTree(g)
	}
}

// dispatchInfo also refreshes the markup, since it follows every change
// of position.
func (c *Collection) dispatchInfo() {
	if g := c.Current(); g != nil && g.ready {
		g.UpdateMarkups()
	}
	info := c.Info().String()
	for _, l := range c.listeners {
		l.OnInfo(info)
	}
}

func (c *Collection) dispatchWrong(record string) {
	for _, l := range c.listeners {
		l.OnWrong(record)
	}
}
