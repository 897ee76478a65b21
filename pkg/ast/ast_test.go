package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxNode_Span(t *testing.T) {
	n := NewNode("expr",
		NewLeaf("identifier", 4, 5),
		NewToken("+", 6, 7),
		NewLeaf("dec", 8, 9),
	)

	assert.Equal(t, uint32(4), n.StartByte())
	assert.Equal(t, uint32(9), n.EndByte())
	assert.Equal(t, 3, n.ChildCount())
	assert.Nil(t, n.Child(3))
	assert.Nil(t, n.Child(-1))
	assert.Equal(t, "(expr (identifier) (dec))", n.String())
}

func TestSyntaxNode_NilSafe(t *testing.T) {
	var n *SyntaxNode
	assert.Equal(t, "", n.Type())
	assert.False(t, n.IsNamed())
	assert.Equal(t, 0, n.ChildCount())
	assert.Nil(t, n.Child(0))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"anonymous keyword", NewToken("while", 0, 5), KindToken},
		{"anonymous identifier-looking token", NewToken("identifier", 0, 1), KindToken},
		{"v2 function", NewNode("funcDef"), KindFuncDef},
		{"c function", NewNode("function_definition"), KindFuncDef},
		{"v2 block", NewNode("block"), KindBlock},
		{"c block", NewNode("compound_statement"), KindBlock},
		{"statement wrapper", NewNode("statement"), KindSequence},
		{"do loop", NewNode("do_statement"), KindDo},
		{"v2 literal", NewLeaf("hex", 0, 3), KindLiteral},
		{"logical chain", NewNode("logical_or"), KindLogical},
		{"expression list", NewNode("expression_list"), KindTuple},
		{"unmapped", NewNode("for_statement"), KindUnknown},
		{"error", NewNode("ERROR"), KindError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.node))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "while", KindWhile.String())
	assert.Equal(t, "unknown", Kind(-1).String())
	assert.Equal(t, "unknown", Kind(1000).String())
}

func TestText(t *testing.T) {
	src := []byte("  x := 1 ;")
	assert.Equal(t, "x := 1", Text(src, NewLeaf("assign_expr", 0, 9)))
	assert.Equal(t, "", Text(src, NewLeaf("identifier", 5, 50)))
	assert.Equal(t, "", Text(src, nil))
}

func TestNamedChildren_SkipsTokensAndComments(t *testing.T) {
	n := NewNode("block",
		NewToken("begin", 0, 5),
		NewLeaf("comment", 6, 10),
		NewNode("statement", NewLeaf("break_statement", 11, 17)),
		NewToken("end", 18, 21),
	)

	children := NamedChildren(n)
	require.Len(t, children, 1)
	assert.Equal(t, "statement", children[0].Type())
	assert.Equal(t, "statement", FirstNamed(n).Type())
	assert.Nil(t, FirstNamed(nil))
}

func TestFindFunctions(t *testing.T) {
	// method a() begin end; method b(); method c() begin end;
	src := []byte("method a() begin end; method b(); method c() begin end;")
	fn := func(start uint32) *SyntaxNode {
		return NewNode("funcDef",
			NewToken("method", start, start+6),
			NewNode("funcSignature", NewLeaf("identifier", start+7, start+8)),
		)
	}
	root := NewNode("source_file", fn(0), fn(22), fn(34))

	funcs := FindFunctions(root)
	require.Len(t, funcs, 3)

	var names []string
	for _, f := range funcs {
		names = append(names, FunctionName(src, f))
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestFunctionName_Anonymous(t *testing.T) {
	fn := NewNode("funcDef", NewToken("method", 0, 6))
	assert.Equal(t, AnonymousName, FunctionName([]byte("method"), fn))
}

func TestFindBody(t *testing.T) {
	block := NewNode("block", NewToken("begin", 20, 25), NewToken("end", 26, 29))

	withBody := NewNode("funcDef", NewNode("funcSignature"), NewNode("body", block))
	assert.Equal(t, Node(block), FindBody(withBody))

	direct := NewNode("function_definition", NewNode("compound_statement"))
	assert.Equal(t, "compound_statement", FindBody(direct).Type())

	declOnly := NewNode("funcDef", NewNode("funcSignature"), NewToken(";", 10, 11))
	assert.Nil(t, FindBody(declOnly))

	bodyWithoutBlock := NewNode("funcDef", NewNode("body"))
	assert.Nil(t, FindBody(bodyWithoutBlock))
}

func TestWalk_SkipsSubtree(t *testing.T) {
	root := NewNode("source_file",
		NewNode("funcDef", NewLeaf("identifier", 0, 1)),
		NewLeaf("identifier", 2, 3),
	)

	var seen []string
	Walk(root, func(n Node) bool {
		seen = append(seen, n.Type())
		return n.Type() != "funcDef"
	})
	assert.Equal(t, []string{"source_file", "funcDef", "identifier"}, seen)
}
