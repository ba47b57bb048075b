// Package codec reads and writes the bracketed record format:
// "(" ";" ID "[" value "]" ... ")" with nested parentheses for variations.
package codec

import (
	"fmt"
	"io"
	"strings"

	"tsumego/internal/domain/route"
	"tsumego/internal/domain/sgf"
	errs "tsumego/internal/errors"
)

type decoder struct {
	lex  *lexer
	tree *sgf.Tree
}

// SyntaxError locates a malformed record. It unwraps to both
// ErrMalformedRecord and the specific cause.
type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at line %d", errs.ErrMalformedRecord, e.Err, e.Line)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{errs.ErrMalformedRecord, e.Err}
}

// Decode parses every game tree in r and appends each one as a new child
// of the tree root. It returns the new record roots. On error the tree is
// left exactly as it was.
func Decode(r io.Reader, tree *sgf.Tree) ([]*sgf.Node, error) {
	snap := tree.Snapshot()
	before := len(tree.Root().Children())

	d := &decoder{lex: newLexer(r), tree: tree}
	rt := route.New(tree, tree.Root())

	for n := 0; ; n++ {
		tok, err := d.lex.next()
		if err != nil {
			tree.Restore(snap)
			return nil, d.fail(err)
		}
		if tok != TokenLParen {
			if n == 0 {
				tree.Restore(snap)
				return nil, d.fail(errs.ErrMissingParen)
			}
			break
		}
		if err := d.gameTree(rt); err != nil {
			tree.Restore(snap)
			return nil, err
		}
	}

	children := tree.Children(tree.Root())
	return children[before:], nil
}

// DecodeString is Decode over a string.
func DecodeString(s string, tree *sgf.Tree) ([]*sgf.Node, error) {
	return Decode(strings.NewReader(s), tree)
}

func (d *decoder) fail(err error) error {
	return &SyntaxError{Line: d.lex.line, Err: err}
}

// gameTree reads the rest of a tree whose '(' was consumed. Every node
// becomes a protected child of the route's current node; the route ends
// where it started.
func (d *decoder) gameTree(rt *route.Route) error {
	tok, err := d.lex.next()
	if err != nil {
		return d.fail(err)
	}
	if tok != TokenSemicolon {
		return d.fail(errs.ErrMissingSemicolon)
	}

	rt.Append(d.tree.NewNode(true), true)
	depth := 1

	for {
		tok, err := d.lex.next()
		if err != nil {
			return d.fail(err)
		}

		switch tok {
		case TokenEnd:
			return d.fail(errs.ErrUnclosedTree)
		case TokenRParen:
			for i := 0; i < depth; i++ {
				rt.VisitParent()
			}
			return nil
		case TokenSemicolon:
			rt.Append(d.tree.NewNode(true), true)
			depth++
		case TokenLParen:
			if err := d.gameTree(rt); err != nil {
				return err
			}
		case TokenLabel:
			p, err := d.property(d.lex.text())
			if err != nil {
				return err
			}
			rt.Current().AddProperty(p)
		default:
			return d.fail(fmt.Errorf("%w: %q", errs.ErrUnknownProperty, tok.String()))
		}
	}
}

func (d *decoder) property(id string) (*sgf.Property, error) {
	if !sgf.ValidID(id) {
		return nil, d.fail(fmt.Errorf("%w: %q", errs.ErrUnknownProperty, id))
	}

	tok, err := d.lex.next()
	if err != nil {
		return nil, d.fail(err)
	}
	if tok != TokenLBracket {
		return nil, d.fail(errs.ErrMissingBracket)
	}

	var vals []string
	for {
		v, err := d.lex.value()
		if err != nil {
			return nil, d.fail(err)
		}
		vals = append(vals, v)

		more, err := d.lex.openValue()
		if err != nil {
			return nil, d.fail(err)
		}
		if !more {
			break
		}
	}

	return sgf.NewProperty(id, vals), nil
}
