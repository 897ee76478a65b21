package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/l3aro/v2flow/pkg/ast"
)

// WriteASTDOT dumps a syntax tree as `digraph AST`. Every node, named or
// not, gets an id in pre-order and is labelled with its grammar kind.
func WriteASTDOT(w io.Writer, root ast.Node) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph AST {\n")
	if root != nil {
		next := 0
		dumpNode(bw, root, -1, &next)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func dumpNode(w *bufio.Writer, n ast.Node, parent int, next *int) {
	id := *next
	*next++
	fmt.Fprintf(w, "  n%d [label=\"%s\"];\n", id, Escape(n.Type()))
	if parent >= 0 {
		fmt.Fprintf(w, "  n%d -> n%d;\n", parent, id)
	}
	for i := 0; i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			dumpNode(w, c, id, next)
		}
	}
}
