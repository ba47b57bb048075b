package errors

import "errors"

var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrWrongColor        = errors.New("wrong color to move")
	ErrWrongMode         = errors.New("operation not allowed in current mode")
	ErrNoMoveNode        = errors.New("current node has no move")
	ErrProtectedNode     = errors.New("node is protected")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrAnswerExists      = errors.New("answer moves already recorded")
	ErrInvalidPoint      = errors.New("invalid point")
	ErrLabelTooLong      = errors.New("label is longer than 3 characters")
	ErrEmptyComment      = errors.New("empty comment")
	ErrNoRecords         = errors.New("no records loaded")
	ErrLastRecord        = errors.New("cannot delete the last record")
	ErrNoMoreRecords     = errors.New("no more records in that direction")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrMissingParen      = errors.New("missing '('")
	ErrMissingSemicolon  = errors.New("missing ';'")
	ErrMissingBracket    = errors.New("missing '['")
	ErrUnterminatedValue = errors.New("unterminated property value")
	ErrUnclosedTree      = errors.New("missing ')'")
	ErrUnknownProperty   = errors.New("unrecognized property id")
	ErrTokenTooLong      = errors.New("token exceeds maximum length")
	ErrInvalidBoardSize  = errors.New("board size must be between 1 and 19")
	ErrNoContinuation    = errors.New("no recorded continuation")
	ErrNoMarkup          = errors.New("no markup at that point")
)
