package game

// Listener receives the notifications a front end renders. Callbacks run
// synchronously after the operation that caused them.
type Listener interface {
	OnComment(comment string)
	// OnPosition reports which record is active, as "i / n".
	OnPosition(pos string)
	// OnWrong fires once per record when a trainee leaves the correct
	// lines; sgf is the record being solved.
	OnWrong(sgf string)
	OnInfo(info string)
	// OnTree fires after the record tree changed. It is not sent while
	// solving so the answer stays hidden.
	OnTree(g *Game)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Comment  func(string)
	Position func(string)
	Wrong    func(string)
	Info     func(string)
	Tree     func(*Game)
}

func (l ListenerFuncs) OnComment(s string) {
	if l.Comment != nil {
		l.Comment(s)
	}
}

func (l ListenerFuncs) OnPosition(s string) {
	if l.Position != nil {
		l.Position(s)
	}
}

func (l ListenerFuncs) OnWrong(s string) {
	if l.Wrong != nil {
		l.Wrong(s)
	}
}

func (l ListenerFuncs) OnInfo(s string) {
	if l.Info != nil {
		l.Info(s)
	}
}

func (l ListenerFuncs) OnTree(g *Game) {
	if l.Tree != nil {
		l.Tree(g)
	}
}
