package sgf

import (
	"strconv"
	"strings"

	"tsumego/internal/domain/command"
	"tsumego/internal/domain/game"
)

// PropID identifies the properties the engine gives meaning to. Everything
// else is kept as PropUnknown and written back untouched.
type PropID int

const (
	PropUnknown PropID = iota
	PropSZ
	PropPB
	PropPW
	PropC
	PropPL
	PropN
	PropB
	PropW
	PropAB
	PropAW
	PropAE
	PropLB
	PropMA
	PropTR
	PropCR
	PropCorrect
	PropWrong
)

const (
	IDBlack   = "B"
	IDWhite   = "W"
	IDAddB    = "AB"
	IDAddW    = "AW"
	IDAddE    = "AE"
	IDLabel   = "LB"
	IDCross   = "MA"
	IDTri     = "TR"
	IDCircle  = "CR"
	IDComment = "C"
	IDName    = "N"
	IDSize    = "SZ"
	IDPlayer  = "PL"
	IDPB      = "PB"
	IDPW      = "PW"
	IDCorrect = "CORRECT"
	IDWrong   = "WRONG"

	// MaxIDLen bounds the length of a property identifier.
	MaxIDLen = 7

	// CorrectName is the N value that marks a correct answer.
	CorrectName = "correct"
)

var propIDs = map[string]PropID{
	IDSize:    PropSZ,
	IDPB:      PropPB,
	IDPW:      PropPW,
	IDComment: PropC,
	IDPlayer:  PropPL,
	IDName:    PropN,
	IDBlack:   PropB,
	IDWhite:   PropW,
	IDAddB:    PropAB,
	IDAddW:    PropAW,
	IDAddE:    PropAE,
	IDLabel:   PropLB,
	IDCross:   PropMA,
	IDTri:     PropTR,
	IDCircle:  PropCR,
	IDCorrect: PropCorrect,
	IDWrong:   PropWrong,
}

// LookupID maps a property identifier to its PropID.
func LookupID(id string) PropID {
	return propIDs[id]
}

// ValidID reports whether id is a well formed property identifier:
// upper case letters only, at most MaxIDLen of them.
func ValidID(id string) bool {
	if id == "" || len(id) > MaxIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 'A' || id[i] > 'Z' {
			return false
		}
	}
	return true
}

// Property is one record attribute with the command it applies to the
// position.
type Property struct {
	id      string
	pid     PropID
	vals    []string
	coords  []Coord
	cmd     *command.Command
	correct bool
}

// NewProperty builds a property and its command. Values that do not decode
// are kept for serialization but take no effect.
func NewProperty(id string, vals []string) *Property {
	p := &Property{
		id:   id,
		pid:  LookupID(id),
		vals: append([]string(nil), vals...),
	}
	p.build()
	return p
}

// NewPointProperty is a property with a single point value.
func NewPointProperty(id string, x, y int) *Property {
	return NewProperty(id, []string{PointToValue(x, y)})
}

func (p *Property) build() {
	p.coords = p.coords[:0]
	p.cmd = nil
	p.correct = false

	switch p.pid {
	case PropB, PropW:
		if len(p.vals) == 0 || p.vals[0] == "" {
			p.vals = []string{PointToValue(game.Pass.X, game.Pass.Y)}
		}
		c := ParseCoord(p.vals[0])
		if !c.Valid() || c.Compressed() {
			return
		}
		p.coords = append(p.coords, c)
		stone := game.Black
		if p.pid == PropW {
			stone = game.White
		}
		p.cmd = command.NewMove(stone, c.First().X, c.First().Y)

	case PropAB, PropAW, PropAE:
		stone := game.Empty
		switch p.pid {
		case PropAB:
			stone = game.Black
		case PropAW:
			stone = game.White
		}
		var targets []game.Move
		for _, v := range p.vals {
			c := ParseCoord(v)
			if !c.Valid() {
				continue
			}
			p.coords = append(p.coords, c)
			for _, pt := range c.Points() {
				targets = append(targets, game.Move{Cell: stone, X: pt.X, Y: pt.Y})
			}
		}
		if len(targets) > 0 {
			p.cmd = command.NewEdit(command.OpOverwrite, targets)
		}

	case PropMA, PropTR, PropCR, PropCorrect, PropWrong:
		// markup is derived from the current node on every refresh
		for _, v := range p.vals {
			if c := ParseCoord(v); c.Valid() {
				p.coords = append(p.coords, c)
			}
		}

	case PropLB:
		var targets []game.Move
		for _, v := range p.vals {
			c, text, ok := splitLabel(v)
			if !ok {
				continue
			}
			p.coords = append(p.coords, c)
			pt := c.First()
			targets = append(targets, game.Move{Cell: game.PackLabel(text), X: pt.X, Y: pt.Y})
		}
		if len(targets) > 0 {
			p.cmd = command.NewEdit(command.OpLabel, targets)
		}

	case PropC:
		if len(p.vals) > 0 {
			p.cmd = command.NewComment(p.vals[0])
		}

	case PropN:
		if len(p.vals) > 0 && strings.EqualFold(p.vals[0], CorrectName) {
			p.correct = true
		}

	case PropSZ:
		if size, ok := p.Int(); ok {
			p.cmd = command.NewResize(size)
		}
	}
}

// splitLabel decodes "dd:txt".
func splitLabel(v string) (Coord, string, bool) {
	if len(v) < 3 || v[2] != ':' {
		return Coord{}, "", false
	}
	c := ParseCoord(v[:2])
	if !c.Valid() {
		return Coord{}, "", false
	}
	return c, v[3:], true
}

func (p *Property) Exec(t command.Target) bool {
	if p.cmd == nil {
		return false
	}
	return p.cmd.Execute(t)
}

func (p *Property) Undo(t command.Target) {
	if p.cmd != nil {
		p.cmd.Undo(t)
	}
}

func (p *Property) Redo(t command.Target) {
	if p.cmd != nil {
		p.cmd.Redo(t)
	}
}

func (p *Property) ID() string {
	return p.id
}

func (p *Property) PID() PropID {
	return p.pid
}

func (p *Property) Values() []string {
	return append([]string(nil), p.vals...)
}

// Value is the first value, "" if there is none.
func (p *Property) Value() string {
	if len(p.vals) == 0 {
		return ""
	}
	return p.vals[0]
}

// Int parses the first value as an integer.
func (p *Property) Int() (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(p.Value()))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Point is the first decoded point, the zero Point if there is none.
func (p *Property) Point() game.Point {
	if len(p.coords) == 0 {
		return game.Point{}
	}
	return p.coords[0].First()
}

func (p *Property) Coords() []Coord {
	return append([]Coord(nil), p.coords...)
}

// Points expands every decoded value, ranges included.
func (p *Property) Points() []game.Point {
	var pts []game.Point
	for _, c := range p.coords {
		pts = append(pts, c.Points()...)
	}
	return pts
}

// Labels decodes the label values of an LB property.
func (p *Property) Labels() []Label {
	if p.pid != PropLB {
		return nil
	}
	var labels []Label
	for _, v := range p.vals {
		c, text, ok := splitLabel(v)
		if !ok || text == "" {
			continue
		}
		pt := c.First()
		labels = append(labels, Label{Text: text, X: pt.X, Y: pt.Y})
	}
	return labels
}

// Merge adds a point value, or a "pt:label" value when label is set. An
// existing value on the same point is kept for plain points and replaced
// when the label text differs. Move properties never merge.
func (p *Property) Merge(c Coord, label string) bool {
	if !c.Valid() || p.IsMove() {
		return false
	}
	v := c.String()
	if label != "" {
		v += ":" + label
	}

	for i, old := range p.vals {
		key := old
		if p.pid == PropLB && len(old) > 2 {
			key = old[:2]
		}
		oc := ParseCoord(key)
		if oc.Compressed() || oc.First() != c.First() {
			continue
		}
		if label == "" || old == v {
			return false
		}
		p.vals[i] = v
		p.build()
		return true
	}

	p.vals = append(p.vals, v)
	p.build()
	return true
}

// removePoint drops the first single point value on pt, labels included.
func (p *Property) removePoint(pt game.Point) bool {
	for _, v := range p.vals {
		key := v
		if len(v) > 2 && v[2] == ':' && p.pid == PropLB {
			key = v[:2]
		}
		if c := ParseCoord(key); c.Valid() && !c.Compressed() && c.First() == pt {
			return p.removeRaw(v)
		}
	}
	return false
}

func (p *Property) removeRaw(v string) bool {
	for i, old := range p.vals {
		if old == v {
			p.vals = append(p.vals[:i], p.vals[i+1:]...)
			p.build()
			return true
		}
	}
	return false
}

func (p *Property) IsMove() bool {
	return p.pid == PropB || p.pid == PropW
}

func (p *Property) IsSetup() bool {
	return p.pid == PropAB || p.pid == PropAW || p.pid == PropAE
}

// IsSkip reports whether the property never touches the position.
func (p *Property) IsSkip() bool {
	return p.cmd == nil
}

// IsCorrect reports an N property naming the correct answer.
func (p *Property) IsCorrect() bool {
	return p.correct
}

// IsSynthetic reports the engine-only markers that are never written out.
func (p *Property) IsSynthetic() bool {
	return p.pid == PropCorrect || p.pid == PropWrong
}

// SGF writes the property in record syntax, "" for synthetic ones.
func (p *Property) SGF() string {
	if p.IsSynthetic() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.id)
	for _, v := range p.vals {
		sb.WriteByte('[')
		sb.WriteString(Escape(v))
		sb.WriteByte(']')
	}
	return sb.String()
}

func (p *Property) String() string {
	return p.SGF()
}

// Escape protects the characters that end or escape a value.
func Escape(v string) string {
	if !strings.ContainsAny(v, `]\`) {
		return v
	}
	var sb strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == ']' || v[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	return sb.String()
}

// Label is a text mark on a point.
type Label struct {
	Text string
	X, Y int
}
