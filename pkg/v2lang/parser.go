package v2lang

import (
	"errors"
	"fmt"

	"github.com/l3aro/v2flow/pkg/ast"
)

// SyntaxError describes one recovered parse error.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parse parses a v2 source file. The returned tree is always usable: input
// that does not fit the grammar is wrapped in ERROR nodes and parsing
// resumes at the next ';' or block boundary. The error joins every
// *SyntaxError encountered, or is nil for well-formed input.
func Parse(src []byte) (*ast.SyntaxNode, error) {
	p := &parser{tokens: Lex(src)}
	root := p.sourceFile()
	return root, errors.Join(p.errs...)
}

type parser struct {
	tokens []Token
	pos    int
	errs   []error
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) peekAt(off int) Token {
	if p.pos+off >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+off]
}

func (p *parser) at(text string) bool { return p.peek().is(text) }

// take consumes the current token as an anonymous node.
func (p *parser) take() *ast.SyntaxNode {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return ast.NewToken(tok.Text, tok.Start, tok.End)
}

// leaf consumes the current token as a named leaf of the given kind.
func (p *parser) leaf(kind string) *ast.SyntaxNode {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return ast.NewLeaf(kind, tok.Start, tok.End)
}

func (p *parser) errorf(tok Token, format string, args ...any) {
	if tok.Kind == TokenIllegal && tok.Err != "" {
		format, args = "%s", []any{tok.Err}
	}
	p.errs = append(p.errs, &SyntaxError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)})
}

// expect consumes text into parent, or records an error without consuming.
func (p *parser) expect(parent *ast.SyntaxNode, text string) bool {
	if p.at(text) {
		parent.Append(p.take())
		return true
	}
	p.errorf(p.peek(), "expected %q, found %s", text, p.peek().describe())
	return false
}

// comments moves the comments preceding the current token into parent.
func (p *parser) comments(parent *ast.SyntaxNode) {
	tok := &p.tokens[p.pos]
	for _, c := range tok.Comments {
		parent.Append(ast.NewLeaf("comment", c.Start, c.End))
	}
	tok.Comments = nil
}

func (p *parser) atSync() bool {
	tok := p.peek()
	return tok.Kind == TokenEOF || tok.is("end") || tok.is("begin") || tok.is("method")
}

// recover wraps unexpected tokens in an ERROR node, stopping after ';' or
// before a block keyword. It consumes nothing when already positioned on
// such a keyword.
func (p *parser) recover(parent *ast.SyntaxNode) {
	tok := p.peek()
	errNode := ast.NewLeaf("ERROR", tok.Start, tok.Start)
	for !p.atSync() {
		semi := p.at(";")
		errNode.Append(p.take())
		if semi {
			break
		}
	}
	parent.Append(errNode)
}

func (p *parser) sourceFile() *ast.SyntaxNode {
	root := ast.NewNode("source_file")
	for {
		p.comments(root)
		tok := p.peek()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.is("method") {
			root.Append(p.funcDef())
			continue
		}
		p.errorf(tok, "expected method definition, found %s", tok.describe())
		errNode := ast.NewLeaf("ERROR", tok.Start, tok.Start)
		for p.peek().Kind != TokenEOF && !p.at("method") {
			errNode.Append(p.take())
		}
		root.Append(errNode)
	}
	root.Start = 0
	if end := p.peek().End; end > root.End {
		root.End = end
	}
	return root
}

func (p *parser) funcDef() *ast.SyntaxNode {
	fn := ast.NewNode("funcDef", p.take())
	fn.Append(p.funcSignature())
	switch {
	case p.at(";"):
		fn.Append(p.take())
	case p.at("var"), p.at("begin"):
		fn.Append(p.body())
	default:
		p.errorf(p.peek(), "expected function body or ';', found %s", p.peek().describe())
		p.recover(fn)
	}
	return fn
}

func (p *parser) funcSignature() *ast.SyntaxNode {
	sig := ast.NewNode("funcSignature")
	if p.peek().Kind == TokenIdent {
		sig.Append(p.leaf("identifier"))
	} else {
		p.errorf(p.peek(), "expected function name, found %s", p.peek().describe())
	}
	if !p.expect(sig, "(") {
		return sig
	}
	if p.peek().Kind == TokenIdent {
		sig.Append(p.argList())
	}
	p.expect(sig, ")")
	if p.at(":") {
		sig.Append(p.take())
		sig.Append(p.typeRef())
	}
	return sig
}

func (p *parser) argList() *ast.SyntaxNode {
	list := ast.NewNode("argList", p.argDef())
	for p.at(",") {
		list.Append(p.take())
		list.Append(p.argDef())
	}
	return list
}

func (p *parser) argDef() *ast.SyntaxNode {
	def := ast.NewNode("argDef")
	if p.peek().Kind != TokenIdent {
		p.errorf(p.peek(), "expected parameter name, found %s", p.peek().describe())
		def.Append(ast.NewLeaf("ERROR", p.peek().Start, p.peek().Start))
		return def
	}
	def.Append(p.leaf("identifier"))
	if p.at(":") {
		def.Append(p.take())
		def.Append(p.typeRef())
	}
	return def
}

var builtinTypes = map[string]bool{
	"bool": true, "byte": true, "int": true, "uint": true,
	"long": true, "ulong": true, "char": true, "string": true,
}

func (p *parser) typeRef() *ast.SyntaxNode {
	tok := p.peek()
	ref := ast.NewNode("typeRef")
	switch {
	case tok.Kind == TokenKeyword && builtinTypes[tok.Text]:
		ref.Append(p.take())
	case tok.Kind == TokenIdent:
		ref.Append(p.leaf("identifier"))
	case tok.is("array"):
		ref.Append(p.take())
		if p.expect(ref, "[") {
			for p.at(",") {
				ref.Append(p.take())
			}
			p.expect(ref, "]")
		}
		if p.expect(ref, "of") {
			ref.Append(p.typeRef())
		}
	default:
		p.errorf(tok, "expected type, found %s", tok.describe())
		ref.Append(ast.NewLeaf("ERROR", tok.Start, tok.Start))
	}
	return ref
}

func (p *parser) body() *ast.SyntaxNode {
	body := ast.NewNode("body")
	if p.at("var") {
		body.Append(p.take())
		for p.peek().Kind == TokenIdent {
			body.Append(p.varDecl())
		}
	}
	if p.at("begin") {
		body.Append(p.block())
	} else {
		p.errorf(p.peek(), "expected 'begin', found %s", p.peek().describe())
	}
	return body
}

func (p *parser) varDecl() *ast.SyntaxNode {
	ids := ast.NewNode("idList", p.leaf("identifier"))
	for p.at(",") {
		ids.Append(p.take())
		if p.peek().Kind != TokenIdent {
			p.errorf(p.peek(), "expected identifier, found %s", p.peek().describe())
			break
		}
		ids.Append(p.leaf("identifier"))
	}
	decl := ast.NewNode("varDecl", ids)
	if p.at(":") {
		decl.Append(p.take())
		decl.Append(p.typeRef())
	}
	p.terminate(decl)
	return decl
}

// terminate consumes the ';' closing a statement, recovering when it is
// missing.
func (p *parser) terminate(n *ast.SyntaxNode) {
	if p.at(";") {
		n.Append(p.take())
		return
	}
	p.errorf(p.peek(), "expected ';', found %s", p.peek().describe())
	if !p.atSync() {
		p.recover(n)
	}
}

func (p *parser) block() *ast.SyntaxNode {
	block := ast.NewNode("block", p.take())
	for {
		p.comments(block)
		tok := p.peek()
		if tok.is("end") || tok.is("method") || tok.Kind == TokenEOF {
			break
		}
		block.Append(p.statement())
	}
	if p.expect(block, "end") {
		p.expect(block, ";")
	}
	return block
}

func (p *parser) statement() *ast.SyntaxNode {
	tok := p.peek()
	var inner *ast.SyntaxNode
	switch {
	case tok.is("if"):
		inner = p.ifStatement()
	case tok.is("begin"):
		inner = p.block()
	case tok.is("while"):
		inner = p.whileStatement()
	case tok.is("repeat"):
		inner = p.doStatement()
	case tok.is("break"):
		inner = p.jump("break_statement")
	case tok.is("continue"):
		inner = p.jump("continue_statement")
	case tok.is("return"):
		inner = p.returnStatement()
	case tok.Kind == TokenIdent && (p.peekAt(1).is(",") || p.peekAt(1).is(":")):
		inner = p.varDecl()
	case startsExpr(tok):
		inner = ast.NewNode("expr_stmt", p.expr())
		p.terminate(inner)
	default:
		p.errorf(tok, "unexpected %s", tok.describe())
		inner = ast.NewNode("statement")
		p.recover(inner)
		return inner
	}
	return ast.NewNode("statement", inner)
}

func (p *parser) ifStatement() *ast.SyntaxNode {
	n := ast.NewNode("if_statement", p.take())
	n.Append(p.expr())
	p.expect(n, "then")
	n.Append(p.statementOrMissing())
	if p.at("else") {
		n.Append(p.take())
		n.Append(p.statementOrMissing())
	}
	return n
}

func (p *parser) whileStatement() *ast.SyntaxNode {
	n := ast.NewNode("while_statement", p.take())
	n.Append(p.expr())
	p.expect(n, "do")
	n.Append(p.statementOrMissing())
	return n
}

func (p *parser) doStatement() *ast.SyntaxNode {
	n := ast.NewNode("do_statement", p.take())
	n.Append(p.statementOrMissing())
	if p.at("while") || p.at("until") {
		n.Append(p.take())
	} else {
		p.errorf(p.peek(), "expected 'while' or 'until', found %s", p.peek().describe())
	}
	n.Append(p.expr())
	p.terminate(n)
	return n
}

// statementOrMissing parses a nested statement, recording an error instead
// when the input ends or a block closes first.
func (p *parser) statementOrMissing() *ast.SyntaxNode {
	tok := p.peek()
	if tok.Kind == TokenEOF || tok.is("end") || tok.is("method") {
		p.errorf(tok, "expected statement, found %s", tok.describe())
		return ast.NewLeaf("ERROR", tok.Start, tok.Start)
	}
	return p.statement()
}

func (p *parser) jump(kind string) *ast.SyntaxNode {
	n := ast.NewNode(kind, p.take())
	p.terminate(n)
	return n
}

func (p *parser) returnStatement() *ast.SyntaxNode {
	n := ast.NewNode("return_statement", p.take())
	if startsExpr(p.peek()) {
		n.Append(p.expr())
	}
	p.terminate(n)
	return n
}

func startsExpr(tok Token) bool {
	switch tok.Kind {
	case TokenIdent, TokenDec, TokenHex, TokenBits, TokenStr, TokenChar:
		return true
	}
	return tok.is("(") || tok.is("-") || tok.is("!") || tok.is("not") || tok.is("true") || tok.is("false")
}
