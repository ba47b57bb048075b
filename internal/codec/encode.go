package codec

import (
	"bufio"
	"io"
	"strings"

	"tsumego/internal/domain/sgf"
)

// Encode writes the tree under n as one compact game tree. Engine-only
// properties are left out.
func Encode(w io.Writer, tree *sgf.Tree, n *sgf.Node) error {
	return encode(w, tree, n, false)
}

// EncodeRecord writes the layout used for saved files: the record root on
// its own line, each property of the next node on its own line, the rest
// compact.
func EncodeRecord(w io.Writer, tree *sgf.Tree, n *sgf.Node) error {
	return encode(w, tree, n, true)
}

// String is the compact form of the tree under n.
func String(tree *sgf.Tree, n *sgf.Node) string {
	var sb strings.Builder
	_ = Encode(&sb, tree, n)
	return sb.String()
}

func encode(w io.Writer, tree *sgf.Tree, n *sgf.Node, layout bool) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('(')
	writeNode(bw, tree, n, 0, layout)
	bw.WriteByte(')')
	if layout {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, tree *sgf.Tree, n *sgf.Node, depth int, layout bool) {
	switch {
	case layout && depth == 0:
		w.WriteString(n.SGF())
		w.WriteByte('\n')
	case layout && depth == 1:
		w.WriteByte(';')
		for _, p := range n.Properties {
			if p.IsSynthetic() {
				continue
			}
			w.WriteString(p.SGF())
			w.WriteByte('\n')
		}
	default:
		w.WriteString(n.SGF())
	}

	children := tree.Children(n)
	if len(children) == 1 {
		writeNode(w, tree, children[0], depth+1, layout)
		return
	}
	for _, c := range children {
		w.WriteByte('(')
		writeNode(w, tree, c, depth+1, layout)
		w.WriteByte(')')
	}
}
