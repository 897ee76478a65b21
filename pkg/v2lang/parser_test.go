package v2lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/v2flow/pkg/ast"
)

func TestLex(t *testing.T) {
	src := []byte(`foo := 0x1F + 0b101 <= 42 "s\"t" 'c' // trailing
{ block
comment } end`)
	tokens := Lex(src)

	var kinds []TokenKind
	var texts []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []TokenKind{
		TokenIdent, TokenPunct, TokenHex, TokenPunct, TokenBits, TokenPunct,
		TokenDec, TokenStr, TokenChar, TokenKeyword, TokenEOF,
	}, kinds)
	assert.Equal(t, []string{"foo", ":=", "0x1F", "+", "0b101", "<=", "42", `"s\"t"`, "'c'", "end", ""}, texts)

	end := tokens[len(tokens)-2]
	require.Len(t, end.Comments, 2)
	assert.Equal(t, 3, end.Line)
}

func TestLex_Illegal(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"unterminated string", `"abc`, "unterminated string"},
		{"unterminated comment", `{ abc`, "unterminated comment"},
		{"stray character", `#`, `unexpected character '#'`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens := Lex([]byte(tc.src))
			require.NotEmpty(t, tokens)
			assert.Equal(t, TokenIllegal, tokens[0].Kind)
			assert.Equal(t, tc.err, tokens[0].Err)
		})
	}
}

func TestParse_Functions(t *testing.T) {
	src := []byte(`method add(a: int, b: int): int
var s: int;
begin
    s := a + b;
    return s;
end;

method decl(x);

method loop(n)
begin
    repeat
    begin
        n := n - 1;
        if n = 3 then continue;
    end;
    until n <= 0;
end;
`)
	root, err := Parse(src)
	require.NoError(t, err)

	funcs := ast.FindFunctions(root)
	require.Len(t, funcs, 3)
	assert.Equal(t, "add", ast.FunctionName(src, funcs[0]))
	assert.Equal(t, "add(a: int, b: int): int", ast.FunctionSignature(src, funcs[0]))
	assert.Equal(t, "decl", ast.FunctionName(src, funcs[1]))
	assert.Nil(t, ast.FindBody(funcs[1]))
	assert.NotNil(t, ast.FindBody(funcs[2]))

	assert.NotNil(t, find(funcs[0], "return_statement"))
	assert.NotNil(t, find(funcs[0], "varDecl"))
	assert.NotNil(t, find(funcs[2], "do_statement"))
	assert.NotNil(t, find(funcs[2], "continue_statement"))
	assert.Equal(t, uint32(len(src)), root.EndByte())
}

func TestParse_Precedence(t *testing.T) {
	src := []byte("method f() begin a := b + c * d; end;")
	root, err := Parse(src)
	require.NoError(t, err)

	assign := find(root, "assign_expr")
	require.NotNil(t, assign)
	rhs := ast.NamedChildren(assign)[1]
	assert.Equal(t,
		"(expr (binary_expr (expr (postfix (primary (identifier)))) (binOp) (expr (binary_expr (expr (postfix (primary (identifier)))) (binOp) (expr (postfix (primary (identifier))))))))",
		rhs.(*ast.SyntaxNode).String())
}

func TestParse_PostfixChain(t *testing.T) {
	src := []byte("method f() begin g(1)[i, j]; end;")
	root, err := Parse(src)
	require.NoError(t, err)

	stmt := find(root, "expr_stmt")
	require.NotNil(t, stmt)
	assert.Equal(t, "g(1)[i, j]", ast.Text(src, ast.FirstNamed(stmt)))

	outer := find(stmt, "postfix").(*ast.SyntaxNode)
	require.GreaterOrEqual(t, len(outer.Children), 4)
	assert.Equal(t, "[", outer.Children[1].Kind)
	assert.Equal(t, "postfix", outer.Children[0].Kind)
}

func TestParse_Recovery(t *testing.T) {
	src := []byte(`method broken()
begin
    x := ;
    then y;
    z := 1;
end;

method fine() begin w := 2; end;
`)
	root, err := Parse(src)
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 3, syntaxErr.Line)

	funcs := ast.FindFunctions(root)
	require.Len(t, funcs, 2)
	assert.Equal(t, "fine", ast.FunctionName(src, funcs[1]))
	assert.NotNil(t, find(funcs[0], "ERROR"))

	// the statement after the bad ones survives
	var assigns int
	ast.Walk(funcs[0], func(n ast.Node) bool {
		if n.Type() == "assign_expr" {
			assigns++
		}
		return true
	})
	assert.Equal(t, 2, assigns)
}

func TestParse_MissingEnd(t *testing.T) {
	src := []byte("method a() begin x := 1;\nmethod b() begin end;")
	root, err := Parse(src)
	require.Error(t, err)

	funcs := ast.FindFunctions(root)
	require.Len(t, funcs, 2)
	assert.Equal(t, "b", ast.FunctionName(src, funcs[1]))
}

func TestParse_TopLevelGarbage(t *testing.T) {
	src := []byte("x := 1; method f() begin end;")
	root, err := Parse(src)
	require.Error(t, err)
	require.Len(t, ast.FindFunctions(root), 1)
	assert.Equal(t, "ERROR", root.Children[0].Kind)
}

func TestParse_Comments(t *testing.T) {
	src := []byte("// header\nmethod f() begin { note } x := 1; end;")
	root, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, "comment", root.Children[0].Kind)
	block := find(root, "block").(*ast.SyntaxNode)
	assert.Equal(t, "comment", block.Children[1].Kind)
	assert.Equal(t, "{ note }", ast.Text(src, block.Children[1]))
}

func find(n ast.Node, kind string) ast.Node {
	var found ast.Node
	ast.Walk(n, func(c ast.Node) bool {
		if found != nil {
			return false
		}
		if c.Type() == kind {
			found = c
			return false
		}
		return true
	})
	return found
}
