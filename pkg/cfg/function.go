package cfg

import (
	"github.com/l3aro/v2flow/pkg/ast"
	"github.com/l3aro/v2flow/pkg/ir"
)

// Function is the CFG of one function definition.
type Function struct {
	Name       string
	Signature  string
	SourceFile string
	Graph      *Graph
}

// NewFunction lowers a function definition found in path.
func NewFunction(fn ast.Node, src []byte, path string, limits Limits) Function {
	return Function{
		Name:       ast.FunctionName(src, fn),
		Signature:  ast.FunctionSignature(src, fn),
		SourceFile: path,
		Graph:      BuildFunction(fn, src, limits),
	}
}

// BuildFunction builds the finalized CFG of a function definition. Node 0
// is always the function exit. A function without a body gets a single
// empty entry node wired to the exit. When the body never falls through,
// its entry is wired to the exit instead of its last block.
func BuildFunction(fn ast.Node, src []byte, limits Limits) *Graph {
	g := NewGraph()
	exit := g.AddNode(RoleExit)
	g.AddLine(exit, ir.LineExit)

	body := ast.FindBody(fn)
	if body == nil {
		entry := g.AddNode(RoleEntry)
		g.AddLine(entry, ir.LineEmpty)
		g.AddEdge(entry, exit, "")
		g.Finalize()
		return g
	}

	b := NewBuilder(g, src, limits, exit)
	entry, last := b.Lower(body, RoleEntry)
	if last >= 0 {
		g.AddEdge(last, exit, "")
	} else {
		g.AddEdge(entry, exit, "")
	}
	g.Finalize()
	return g
}
