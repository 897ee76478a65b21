// Package ast defines the syntax-tree surface consumed by the lowering engine.
// Any parser can feed the engine as long as it exposes node kind names,
// ordered children, whether a node is named, and byte offsets into the
// parsed text.
package ast

import "strings"

// Node is the read-only view of a syntax tree node.
// Child returns nil for out-of-range indexes.
type Node interface {
	Type() string
	IsNamed() bool
	StartByte() uint32
	EndByte() uint32
	ChildCount() int
	Child(i int) Node
}

// SyntaxNode is an in-memory Node built by hand-written parsers and tests.
type SyntaxNode struct {
	Kind     string
	Named    bool
	Start    uint32
	End      uint32
	Children []*SyntaxNode

	spanned bool
}

// NewNode creates a named node spanning its children.
func NewNode(kind string, children ...*SyntaxNode) *SyntaxNode {
	n := &SyntaxNode{Kind: kind, Named: true}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// NewToken creates an anonymous leaf (keyword or punctuation).
func NewToken(kind string, start, end uint32) *SyntaxNode {
	return &SyntaxNode{Kind: kind, Start: start, End: end, spanned: true}
}

// NewLeaf creates a named leaf such as an identifier or a literal.
func NewLeaf(kind string, start, end uint32) *SyntaxNode {
	return &SyntaxNode{Kind: kind, Named: true, Start: start, End: end, spanned: true}
}

// Append adds a child and widens the node span to cover it. Children that
// cover no source, such as an empty node standing in for a missing
// construct, leave the span unchanged.
func (n *SyntaxNode) Append(c *SyntaxNode) {
	if c == nil {
		return
	}
	n.Children = append(n.Children, c)
	if !c.spanned || (c.Start == c.End && len(c.Children) == 0) {
		return
	}
	if !n.spanned {
		n.Start, n.End, n.spanned = c.Start, c.End, true
		return
	}
	if c.Start < n.Start {
		n.Start = c.Start
	}
	if c.End > n.End {
		n.End = c.End
	}
}

func (n *SyntaxNode) Type() string {
	if n == nil {
		return ""
	}
	return n.Kind
}

func (n *SyntaxNode) IsNamed() bool { return n != nil && n.Named }

func (n *SyntaxNode) StartByte() uint32 {
	if n == nil {
		return 0
	}
	return n.Start
}

func (n *SyntaxNode) EndByte() uint32 {
	if n == nil {
		return 0
	}
	return n.End
}

func (n *SyntaxNode) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

func (n *SyntaxNode) Child(i int) Node {
	if n == nil || i < 0 || i >= len(n.Children) || n.Children[i] == nil {
		return nil
	}
	return n.Children[i]
}

// String renders the tree as an s-expression of named nodes, the way
// tree-sitter prints trees. Used by tests and the ast command.
func (n *SyntaxNode) String() string {
	var sb strings.Builder
	writeSExpr(&sb, n)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, n Node) {
	sb.WriteByte('(')
	sb.WriteString(n.Type())
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		sb.WriteByte(' ')
		writeSExpr(sb, c)
	}
	sb.WriteByte(')')
}
