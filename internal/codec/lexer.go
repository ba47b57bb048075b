package codec

import (
	"bufio"
	"errors"
	"io"

	errs "tsumego/internal/errors"
)

type Token int

const (
	TokenEnd Token = iota
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenLabel
)

func (t Token) String() string {
	switch t {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenSemicolon:
		return ";"
	case TokenLabel:
		return "label"
	}
	return "end"
}

// MaxTokenLen bounds labels and property values.
const MaxTokenLen = 1023

type lexer struct {
	r    *bufio.Reader
	buf  []byte
	line int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (l *lexer) readByte() (byte, error) {
	b, err := l.r.ReadByte()
	if err == nil && b == '\n' {
		l.line++
	}
	return b, err
}

func (l *lexer) unreadByte(b byte) {
	if l.r.UnreadByte() == nil && b == '\n' {
		l.line--
	}
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '[', ']', ';':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (l *lexer) skipSpaces() error {
	for {
		b, err := l.readByte()
		if err != nil {
			return err
		}
		if !isSpace(b) {
			l.unreadByte(b)
			return nil
		}
	}
}

// text is the label read by the last next call.
func (l *lexer) text() string {
	return string(l.buf)
}

// next returns the next token outside a value. TokenEnd with a nil error
// means the input is exhausted.
func (l *lexer) next() (Token, error) {
	l.buf = l.buf[:0]
	if err := l.skipSpaces(); err != nil {
		return eof(err)
	}

	for {
		b, err := l.readByte()
		if err != nil {
			if len(l.buf) > 0 && errors.Is(err, io.EOF) {
				return TokenLabel, nil
			}
			return eof(err)
		}

		if len(l.buf) == 0 {
			switch b {
			case '(':
				return TokenLParen, nil
			case ')':
				return TokenRParen, nil
			case '[':
				return TokenLBracket, nil
			case ']':
				return TokenRBracket, nil
			case ';':
				return TokenSemicolon, nil
			}
		} else if isDelimiter(b) || isSpace(b) {
			l.unreadByte(b)
			return TokenLabel, nil
		}

		if len(l.buf) >= MaxTokenLen {
			return TokenEnd, errs.ErrTokenTooLong
		}
		l.buf = append(l.buf, b)
	}
}

func eof(err error) (Token, error) {
	if errors.Is(err, io.EOF) {
		return TokenEnd, nil
	}
	return TokenEnd, err
}

// value reads up to the closing bracket of a value whose opening bracket
// was already consumed. Escapes are resolved; an escaped line break
// disappears.
func (l *lexer) value() (string, error) {
	l.buf = l.buf[:0]
	escaped := false

	for {
		b, err := l.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errs.ErrUnterminatedValue
			}
			return "", err
		}

		if escaped {
			escaped = false
			switch b {
			case '\n':
				continue
			case '\r':
				if nb, err := l.readByte(); err == nil && nb != '\n' {
					l.unreadByte(nb)
				}
				continue
			}
		} else if b == '\\' {
			escaped = true
			continue
		} else if b == ']' {
			return string(l.buf), nil
		}

		if len(l.buf) >= MaxTokenLen {
			return "", errs.ErrTokenTooLong
		}
		l.buf = append(l.buf, b)
	}
}

// openValue consumes a '[' that follows optional whitespace.
func (l *lexer) openValue() (bool, error) {
	if err := l.skipSpaces(); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	b, err := l.readByte()
	if err != nil {
		return false, nil
	}
	if b != '[' {
		l.unreadByte(b)
		return false, nil
	}
	return true, nil
}
