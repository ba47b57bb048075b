package game

import (
	"fmt"
	"strings"
)

// Mode decides how a session reacts to moves and edits.
type Mode int

const (
	// ModeCreate edits the setup position of the current node.
	ModeCreate Mode = iota
	// ModeAnswer records the answer lines of a problem.
	ModeAnswer
	// ModeSolve lets the trainee play one color against the recorded lines.
	ModeSolve
	// ModeFree is untracked play from the reached position.
	ModeFree
	// ModeReplay steps through a finished game record.
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeAnswer:
		return "answer"
	case ModeSolve:
		return "solve"
	case ModeFree:
		return "free"
	case ModeReplay:
		return "replay"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for m := ModeCreate; m <= ModeReplay; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
