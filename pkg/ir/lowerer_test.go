package ir

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/v2flow/pkg/ast"
	"github.com/l3aro/v2flow/pkg/v2lang"
)

// parseStatement parses body as the only statement of a v2 function and
// returns the node inside its statement wrapper.
func parseStatement(t *testing.T, body string) ([]byte, ast.Node) {
	t.Helper()
	src := []byte("method f() begin " + body + " end;")
	root, err := v2lang.Parse(src)
	require.NoError(t, err)

	block := ast.FindBody(ast.FindFunctions(root)[0])
	require.NotNil(t, block)
	stmt := ast.FirstNamed(block)
	require.NotNil(t, stmt)
	return src, ast.FirstNamed(stmt)
}

const (
	varA = "Nop(Identifier) [var:a]"
	varB = "Nop(Identifier) [var:b]"
	varC = "Nop(Identifier) [var:c]"
	varI = "Nop(Identifier) [var:i]"
	varJ = "Nop(Identifier) [var:j]"
	varX = "Nop(Identifier) [var:x]"
)

func TestLowerer_Expr(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"identifier", "x", varX},
		{"literal", "42", "Nop(Literal) [const:42]"},
		{"string literal", `"hi"`, `Nop(Literal) [const:"hi"]`},
		{"bool literal", "true", "Nop(Literal) [const:true]"},
		{"parenthesized", "((x))", varX},
		{"add", "a + b", "BinaryOp(AddExpr) { " + varA + " | " + varB + " }"},
		{"mul", "a % b", "BinaryOp(MulExpr) { " + varA + " | " + varB + " }"},
		{"compare", "a != b", "BinaryOp(CompareExpr) { " + varA + " | " + varB + " }"},
		{
			"precedence",
			"a < b and c",
			"BinaryOp(LogicExpr) { BinaryOp(CompareExpr) { " + varA + " | " + varB + " } | " + varC + " }",
		},
		{"unary minus", "-x", "UnaryOp(-) { " + varX + " }"},
		{"unary not", "not x", "UnaryOp(not) { " + varX + " }"},
		{"call without arguments", "f()", "Call(f) { }"},
		{"call", "f(a, 1)", "Call(f) { " + varA + " | Nop(Literal) [const:1] }"},
		{"index", "a[i]", "BinaryOp(IndexExpr) { " + varA + " | " + varI + " }"},
		{"multi index", "a[i, j]", "BinaryOp(IndexExpr) { " + varA + " | Tuple { " + varI + " | " + varJ + " } }"},
		{"empty index", "a[]", "BinaryOp(IndexExpr) { " + varA + " | ... }"},
		{"call on index", "t[i](x)", "Call(t) { " + varX + " }"},
		{
			"depth limit",
			"a + b + c + d + e + f",
			"BinaryOp(AddExpr) { BinaryOp(AddExpr) { BinaryOp(AddExpr) { BinaryOp(AddExpr) { " +
				"BinaryOp(AddExpr) { ... | ... } | " + varC + " } | Nop(Identifier) [var:d] } | " +
				"Nop(Identifier) [var:e] } | Nop(Identifier) [var:f] }",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src, stmt := parseStatement(t, tc.expr+";")
			require.Equal(t, "expr_stmt", stmt.Type())

			l := New(src, 0)
			assert.Equal(t, tc.want, l.Expr(ast.FirstNamed(stmt), 0))
		})
	}
}

func TestLowerer_Expr_NaryChain(t *testing.T) {
	src := []byte("a+b+c")
	id := func(start uint32) *ast.SyntaxNode { return ast.NewLeaf("identifier", start, start+1) }
	l := New(src, DefaultMaxDepth)

	chain := ast.NewNode("add", id(0), ast.NewToken("+", 1, 2), id(2), ast.NewToken("+", 3, 4), id(4))
	assert.Equal(t,
		"BinaryOp(AddExpr) { BinaryOp(AddExpr) { "+varA+" | "+varB+" } | "+varC+" }",
		l.Expr(chain, 0))

	assert.Equal(t, varA, l.Expr(ast.NewNode("mul", id(0)), 0))
	assert.Equal(t, Ellipsis, l.Expr(ast.NewNode("mul"), 0))
	assert.Equal(t, Ellipsis, l.Expr(nil, 0))
	assert.Equal(t, Ellipsis, l.Expr(id(0), DefaultMaxDepth+1))
}

func TestLowerer_Expr_Unrecognized(t *testing.T) {
	src := []byte("p->next")
	l := New(src, 0)
	assert.Equal(t, "Expr(p->next)", l.Expr(ast.NewLeaf("field_expression", 0, 7), 0))

	// a binary node whose operator is unknown is summarized too
	src = []byte("a ?? b")
	l = New(src, 0)
	n := ast.NewNode("binary_expression",
		ast.NewLeaf("identifier", 0, 1), ast.NewToken("??", 2, 4), ast.NewLeaf("identifier", 5, 6))
	assert.Equal(t, "Expr(a ?? b)", l.Expr(n, 0))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", "expr"},
		{"short", "short"},
		{"abcdefghijklmnopqr", "abcdefghijklmnopqr"},
		{"foo(bar, baz, qux12)", "foo(bar, baz, qux12)"},
		{"foo(bar, baz) + qux(quux, corge)", "complex_expr"},
		{"foo(bar, baz, qux, quux, corge)", "expr"},
		{"a_very_long_name + another_long", "complex_expr"},
		{"a_very_long_identifier_name", "expr"},
		{"very_long_call(arguments_go_here)", "expr"},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.text))
		})
	}
}

func TestLowerer_C(t *testing.T) {
	src := []byte(`int f(int *a, int n) {
    return a[n] + g(n, 2) * -n;
}
`)
	tree, err := ast.ParseTreeSitter(context.Background(), "c", src)
	require.NoError(t, err)
	defer tree.Close()

	fn := ast.FindFunctions(tree.Root())[0]
	ret := ast.FindFirst(fn, ast.KindReturn)
	require.NotNil(t, ret)

	l := New(src, 0)
	assert.Equal(t,
		"Return\n  value: BinaryOp(AddExpr) { BinaryOp(IndexExpr) { "+varA+" | Nop(Identifier) [var:n] } | "+
			"BinaryOp(MulExpr) { Call(g) { Nop(Identifier) [var:n] | Nop(Literal) [const:2] } | "+
			"UnaryOp(-) { Nop(Identifier) [var:n] } } }",
		l.Return(ret))
}
