package ir

import (
	"fmt"
	"strings"

	"github.com/l3aro/v2flow/pkg/ast"
)

// Fixed lines of synthesized nodes.
const (
	LineEmpty    = "empty"
	LineJoin     = "join"
	LineExit     = "Nop(exit)"
	LineBreak    = "Nop(break)"
	LineContinue = "Nop(continue)"
	LineReturn   = "Return"
)

// SimpleLines returns the IR lines of an assignment, expression statement or
// variable declaration. A declaration yields one line per declared name.
// Other statement kinds yield nil.
func (l *Lowerer) SimpleLines(n ast.Node) []string {
	switch ast.Classify(n) {
	case ast.KindAssign:
		return []string{l.Assign(n)}
	case ast.KindExprStmt:
		if inner := unwrap(ast.FirstNamed(n)); ast.Classify(inner) == ast.KindAssign {
			return []string{l.Assign(inner)}
		}
		return []string{fmt.Sprintf("ExprStmt\n  expr: %s", l.Expr(ast.FirstNamed(n), 0))}
	case ast.KindVarDecl:
		return l.VarDecl(n)
	}
	return nil
}

// Assign formats an assignment from its first and last named operands.
// Compound operators such as += keep their text; := reads as plain =.
func (l *Lowerer) Assign(n ast.Node) string {
	var lhs, rhs ast.Node
	operands := ast.NamedChildren(n)
	if len(operands) > 0 {
		lhs = operands[0]
	}
	if len(operands) > 1 {
		rhs = operands[len(operands)-1]
	}
	return fmt.Sprintf("Assign(%s)\n  lhs: %s\n  rhs: %s", assignOperator(n), l.Expr(lhs, 0), l.Expr(rhs, 0))
}

func assignOperator(n ast.Node) string {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if ast.Classify(c) != ast.KindToken {
			continue
		}
		if op := c.Type(); strings.HasSuffix(op, "=") && op != ":=" {
			return op
		}
	}
	return "="
}

// VarDecl formats a variable declaration. Names come from an identifier
// list, direct identifiers or declarators; when none is found the raw
// declaration text stands in for the name. The type is "auto" unless the
// declaration spells one out.
func (l *Lowerer) VarDecl(n ast.Node) []string {
	typ := "auto"
	var names []string
	for _, c := range ast.NamedChildren(n) {
		switch ast.Classify(c) {
		case ast.KindTypeRef:
			if typ == "auto" {
				typ = ast.Text(l.Source, c)
			}
		case ast.KindIdentifier:
			names = append(names, ast.Text(l.Source, c))
		case ast.KindIdList:
			for _, id := range ast.NamedChildren(c) {
				if ast.Classify(id) == ast.KindIdentifier {
					names = append(names, ast.Text(l.Source, id))
				}
			}
		case ast.KindDeclarator:
			declNames, declType := l.declarator(c)
			names = append(names, declNames...)
			if typ == "auto" && declType != "" {
				typ = declType
			}
		}
	}
	if len(names) == 0 {
		names = []string{ast.Text(l.Source, n)}
	}

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("VarDecl(%s)\n  var: %s", typ, name)
	}
	return lines
}

// declarator extracts names (and a type, for Go var specs) from a
// declarator. Nested declarators such as C pointers are searched for their
// first identifier.
func (l *Lowerer) declarator(n ast.Node) ([]string, string) {
	var names []string
	var typ string
	for _, c := range ast.NamedChildren(n) {
		switch ast.Classify(c) {
		case ast.KindIdentifier:
			names = append(names, ast.Text(l.Source, c))
		case ast.KindTypeRef:
			if typ == "" {
				typ = ast.Text(l.Source, c)
			}
		}
	}
	if len(names) == 0 {
		if name, ok := ast.FindIdentifier(l.Source, n); ok {
			names = append(names, name)
		}
	}
	return names, typ
}

// Return formats a return statement and its optional value.
func (l *Lowerer) Return(n ast.Node) string {
	value := ast.FirstNamed(n)
	if value == nil {
		return LineReturn
	}
	return fmt.Sprintf("Return\n  value: %s", l.Expr(value, 0))
}

func (l *Lowerer) IfCond(cond ast.Node) string {
	return fmt.Sprintf("IfCond\n  expr: %s", l.Expr(cond, 0))
}

func (l *Lowerer) WhileCond(cond ast.Node) string {
	return fmt.Sprintf("WhileCond\n  expr: %s", l.Expr(cond, 0))
}

// RepeatCond formats the trailing condition of a post-tested loop together
// with the keyword that introduced it.
func (l *Lowerer) RepeatCond(keyword string, cond ast.Node) string {
	return fmt.Sprintf("RepeatCond(%s)\n  expr: %s", keyword, l.Expr(cond, 0))
}

func unwrap(n ast.Node) ast.Node {
	for ast.Classify(n) == ast.KindWrapper {
		n = ast.FirstNamed(n)
	}
	return n
}
