// Package ir renders syntax subtrees as one-line textual pseudo-IR.
//
// The output is descriptive: it exists to label control-flow diagrams and
// to be scanned for call sites, not to be executed. Every function here is
// total, so malformed or partial trees degrade to placeholders instead of
// failing.
package ir

import (
	"fmt"
	"strings"

	"github.com/l3aro/v2flow/pkg/ast"
)

// DefaultMaxDepth bounds expression recursion when no limit is configured.
const DefaultMaxDepth = 4

// Ellipsis replaces subtrees that are missing or nested too deeply.
const Ellipsis = "..."

// Binary operator families.
const (
	FamilyLogic   = "LogicExpr"
	FamilyBitwise = "BitwiseExpr"
	FamilyCompare = "CompareExpr"
	FamilyAdd     = "AddExpr"
	FamilyMul     = "MulExpr"
)

var kindFamilies = map[ast.Kind]string{
	ast.KindLogical: FamilyLogic,
	ast.KindBitwise: FamilyBitwise,
	ast.KindCompare: FamilyCompare,
	ast.KindAdd:     FamilyAdd,
	ast.KindMul:     FamilyMul,
}

var operatorFamilies = map[string]string{
	"or": FamilyLogic, "and": FamilyLogic, "||": FamilyLogic, "&&": FamilyLogic,
	"|": FamilyBitwise, "^": FamilyBitwise, "&": FamilyBitwise,
	"<<": FamilyBitwise, ">>": FamilyBitwise, "&^": FamilyBitwise,
	"=": FamilyCompare, "==": FamilyCompare, "!=": FamilyCompare,
	"<": FamilyCompare, ">": FamilyCompare, "<=": FamilyCompare, ">=": FamilyCompare,
	"+": FamilyAdd, "-": FamilyAdd,
	"*": FamilyMul, "/": FamilyMul, "%": FamilyMul,
}

// OperatorFamily returns the binary family of an operator token, or "" when
// the operator is not recognised.
func OperatorFamily(op string) string {
	return operatorFamilies[strings.ToLower(op)]
}

// Lowerer turns expression subtrees of one source file into IR text.
// It only reads Source and never mutates the tree.
type Lowerer struct {
	Source   []byte
	MaxDepth int
}

// New creates a Lowerer. A non-positive maxDepth selects DefaultMaxDepth.
func New(src []byte, maxDepth int) *Lowerer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Lowerer{Source: src, MaxDepth: maxDepth}
}

// Expr lowers an expression node at the given nesting depth.
func (l *Lowerer) Expr(n ast.Node, depth int) string {
	if n == nil || depth > l.MaxDepth {
		return Ellipsis
	}

	kind := ast.Classify(n)
	switch kind {
	case ast.KindWrapper:
		return l.Expr(ast.FirstNamed(n), depth)
	case ast.KindTuple:
		items := ast.NamedChildren(n)
		if len(items) == 1 {
			return l.Expr(items[0], depth)
		}
		return fmt.Sprintf("Tuple { %s }", l.join(items, depth+1))
	case ast.KindIdentifier:
		return fmt.Sprintf("Nop(Identifier) [var:%s]", ast.Text(l.Source, n))
	case ast.KindLiteral:
		return fmt.Sprintf("Nop(Literal) [const:%s]", ast.Text(l.Source, n))
	case ast.KindPostfix:
		return l.postfix(n, depth)
	case ast.KindCall:
		return l.call(ast.FirstNamed(n), l.arguments(n), depth+1)
	case ast.KindIndex:
		return l.index(ast.FirstNamed(n), l.arguments(n), depth+1)
	case ast.KindUnary:
		return l.unary(n, depth)
	case ast.KindBinary:
		family := OperatorFamily(operatorText(l.Source, n))
		if family == "" {
			break
		}
		return l.chain(n, family, depth)
	default:
		if family, ok := kindFamilies[kind]; ok {
			return l.chain(n, family, depth)
		}
	}
	return fmt.Sprintf("Expr(%s)", Summarize(ast.Text(l.Source, n)))
}

// postfix handles the v2 postfix form: a callee followed by a call or
// index suffix.
func (l *Lowerer) postfix(n ast.Node, depth int) string {
	if n.ChildCount() == 0 {
		return Ellipsis
	}
	callee := n.Child(0)
	for i := 1; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || c.IsNamed() {
			continue
		}
		switch c.Type() {
		case "(":
			return l.call(callee, argumentsAfter(n, i), depth+1)
		case "[":
			return l.index(callee, argumentsAfter(n, i), depth+1)
		}
	}
	return l.Expr(callee, depth)
}

// argumentsAfter returns the named entries of the first argument list that
// follows child i of n.
func argumentsAfter(n ast.Node, i int) []ast.Node {
	for j := i + 1; j < n.ChildCount(); j++ {
		if c := n.Child(j); ast.Classify(c) == ast.KindArgList {
			return ast.NamedChildren(c)
		}
	}
	return nil
}

// arguments returns the call arguments or index expressions of a call or
// index node: the entries of its argument list when it has one, otherwise
// every named child after the callee or base.
func (l *Lowerer) arguments(n ast.Node) []ast.Node {
	if list := ast.ChildOfKind(n, ast.KindArgList); list != nil {
		return ast.NamedChildren(list)
	}
	named := ast.NamedChildren(n)
	if len(named) < 2 {
		return nil
	}
	return named[1:]
}

func (l *Lowerer) call(callee ast.Node, args []ast.Node, depth int) string {
	name, ok := ast.FindIdentifier(l.Source, callee)
	if !ok {
		name = Summarize(ast.Text(l.Source, callee))
	}
	if len(args) == 0 {
		return fmt.Sprintf("Call(%s) { }", name)
	}
	return fmt.Sprintf("Call(%s) { %s }", name, l.join(args, depth+1))
}

func (l *Lowerer) index(base ast.Node, indices []ast.Node, depth int) string {
	baseIR := l.Expr(base, depth+1)
	var idx string
	switch len(indices) {
	case 0:
		idx = Ellipsis
	case 1:
		idx = l.Expr(indices[0], depth+1)
	default:
		idx = fmt.Sprintf("Tuple { %s }", l.join(indices, depth+1))
	}
	return fmt.Sprintf("BinaryOp(IndexExpr) { %s | %s }", baseIR, idx)
}

func (l *Lowerer) join(nodes []ast.Node, depth int) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = l.Expr(n, depth)
	}
	return strings.Join(parts, " | ")
}

func (l *Lowerer) unary(n ast.Node, depth int) string {
	var op string
	var operand ast.Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		k := ast.Classify(c)
		switch {
		case k == ast.KindComment:
		case k == ast.KindToken || k == ast.KindOperator:
			if op == "" {
				op = ast.Text(l.Source, c)
				if op == "" {
					op = c.Type()
				}
			}
		case operand == nil:
			operand = c
		}
	}
	if op == "" {
		return l.Expr(operand, depth)
	}
	return fmt.Sprintf("UnaryOp(%s) { %s }", op, l.Expr(operand, depth+1))
}

// chain folds the operands of a binary node left-associatively:
// a op b op c becomes BinaryOp { BinaryOp { a | b } | c }.
func (l *Lowerer) chain(n ast.Node, family string, depth int) string {
	var operands []ast.Node
	for _, c := range ast.NamedChildren(n) {
		if ast.Classify(c) != ast.KindOperator {
			operands = append(operands, c)
		}
	}
	switch len(operands) {
	case 0:
		return Ellipsis
	case 1:
		return l.Expr(operands[0], depth)
	}

	acc := l.Expr(operands[0], depth+1)
	for _, rhs := range operands[1:] {
		acc = fmt.Sprintf("BinaryOp(%s) { %s | %s }", family, acc, l.Expr(rhs, depth+1))
	}
	return acc
}

// operatorText returns the first operator of a binary node: a named
// operator node's text, or the kind of an anonymous token.
func operatorText(src []byte, n ast.Node) string {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch ast.Classify(c) {
		case ast.KindOperator:
			return ast.Text(src, c)
		case ast.KindToken:
			return c.Type()
		}
	}
	return ""
}

const operatorChars = "+-*/%&|^=!<>"

// Summarize shortens raw source text for use as a label: short text is kept
// verbatim, longer text collapses to a fixed marker.
func Summarize(text string) string {
	switch {
	case text == "":
		return "expr"
	case len(text) <= 18:
		return text
	case strings.Contains(text, "(") && len(text) <= 28:
		return text
	case strings.ContainsAny(text, operatorChars):
		return "complex_expr"
	default:
		return "expr"
	}
}
