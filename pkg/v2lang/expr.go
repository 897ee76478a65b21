package v2lang

import "github.com/l3aro/v2flow/pkg/ast"

// Binary operator precedence, loosest first. Operators of one level
// associate to the left.
var binaryPrecedence = map[string]int{
	"or":  1,
	"and": 2,
	"=":   3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func binaryOp(tok Token) (int, bool) {
	if tok.Kind != TokenKeyword && tok.Kind != TokenPunct {
		return 0, false
	}
	prec, ok := binaryPrecedence[tok.Text]
	return prec, ok
}

// expr parses an expression and wraps it in an "expr" node. An assignment
// is only formed when the left side is a postfix expression.
func (p *parser) expr() *ast.SyntaxNode {
	lhs := p.binary(1)
	if p.at(":=") && lhs.Kind == "postfix" {
		assign := ast.NewNode("assign_expr", lhs, p.take(), p.expr())
		return ast.NewNode("expr", assign)
	}
	return wrapExpr(lhs)
}

func wrapExpr(n *ast.SyntaxNode) *ast.SyntaxNode {
	if n.Kind == "expr" {
		return n
	}
	return ast.NewNode("expr", n)
}

func (p *parser) binary(minPrec int) *ast.SyntaxNode {
	lhs := p.unary()
	for {
		prec, ok := binaryOp(p.peek())
		if !ok || prec < minPrec {
			return lhs
		}
		op := p.leaf("binOp")
		rhs := p.binary(prec + 1)
		lhs = ast.NewNode("binary_expr", wrapExpr(lhs), op, wrapExpr(rhs))
	}
}

func (p *parser) unary() *ast.SyntaxNode {
	if p.at("-") || p.at("!") || p.at("not") {
		op := p.leaf("unOp")
		return ast.NewNode("unary_expr", op, p.postfix())
	}
	return p.postfix()
}

func (p *parser) postfix() *ast.SyntaxNode {
	n := ast.NewNode("postfix", p.primary())
	for {
		var closer string
		switch {
		case p.at("("):
			closer = ")"
		case p.at("["):
			closer = "]"
		default:
			return n
		}
		n = ast.NewNode("postfix", n, p.take())
		if !p.at(closer) {
			n.Append(p.exprList())
		}
		p.expect(n, closer)
	}
}

func (p *parser) exprList() *ast.SyntaxNode {
	list := ast.NewNode("exprList", p.expr())
	for p.at(",") {
		list.Append(p.take())
		list.Append(p.expr())
	}
	return list
}

func (p *parser) primary() *ast.SyntaxNode {
	tok := p.peek()
	switch {
	case tok.Kind == TokenIdent:
		return ast.NewNode("primary", p.leaf("identifier"))
	case tok.is("("):
		n := ast.NewNode("primary", p.take(), p.expr())
		p.expect(n, ")")
		return n
	case tok.is("true"), tok.is("false"):
		return ast.NewNode("primary", ast.NewNode("literal", ast.NewNode("bool", p.take())))
	}
	if kind, ok := literalKinds[tok.Kind]; ok {
		return ast.NewNode("primary", ast.NewNode("literal", p.leaf(kind)))
	}
	p.errorf(tok, "expected expression, found %s", tok.describe())
	return ast.NewNode("primary", ast.NewLeaf("ERROR", tok.Start, tok.Start))
}

var literalKinds = map[TokenKind]string{
	TokenDec:  "dec",
	TokenHex:  "hex",
	TokenBits: "bits",
	TokenStr:  "str",
	TokenChar: "char",
}
