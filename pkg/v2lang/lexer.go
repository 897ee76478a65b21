// Package v2lang parses the v2 teaching language into an ast.SyntaxNode tree.
//
// Node kinds follow the language's tree-sitter grammar (funcDef, body,
// block, statement, if_statement, expr, postfix, ...) so the tree can be
// lowered by the same engine as any tree-sitter parse. Keywords and
// punctuation become anonymous nodes whose kind is their text.
package v2lang

import (
	"fmt"
	"strings"
)

// TokenKind classifies lexer output.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIllegal
	TokenIdent
	TokenKeyword
	TokenPunct
	TokenComment
	TokenDec
	TokenHex
	TokenBits
	TokenStr
	TokenChar
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:     "end of file",
	TokenIllegal: "illegal",
	TokenIdent:   "identifier",
	TokenKeyword: "keyword",
	TokenPunct:   "punctuation",
	TokenComment: "comment",
	TokenDec:     "dec",
	TokenHex:     "hex",
	TokenBits:    "bits",
	TokenStr:     "str",
	TokenChar:    "char",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var keywords = map[string]bool{
	"method": true, "var": true, "begin": true, "end": true,
	"if": true, "then": true, "else": true,
	"while": true, "do": true, "repeat": true, "until": true,
	"break": true, "continue": true, "return": true,
	"array": true, "of": true,
	"and": true, "or": true, "not": true,
	"true": true, "false": true,
	"bool": true, "byte": true, "int": true, "uint": true,
	"long": true, "ulong": true, "char": true, "string": true,
}

// Token is a lexeme with its byte span and 1-based position.
type Token struct {
	Kind     TokenKind
	Text     string
	Start    uint32
	End      uint32
	Line     int
	Column   int
	Err      string  // set on TokenIllegal
	Comments []Token // comments immediately preceding the token
}

func (t Token) is(text string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenPunct) && t.Text == text
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenIdent, TokenKeyword, TokenPunct:
		return fmt.Sprintf("%q", t.Text)
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}

// Lex splits src into tokens. Comments are not returned as tokens but are
// attached to the token that follows them. The last token is always
// TokenEOF.
func Lex(src []byte) []Token {
	l := &lexer{src: src, line: 1, col: 1}
	var tokens []Token
	var comments []Token
	for {
		tok := l.next()
		if tok.Kind == TokenComment {
			comments = append(comments, tok)
			continue
		}
		tok.Comments = comments
		comments = nil
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

type lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.advance()
	}
}

func (l *lexer) next() Token {
	l.skipSpace()
	tok := Token{Start: uint32(l.pos), Line: l.line, Column: l.col}
	if l.pos >= len(l.src) {
		tok.Kind = TokenEOF
		tok.End = tok.Start
		return tok
	}

	c := l.src[l.pos]
	switch {
	case c == '/' && l.peekByte(1) == '/':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.advance()
		}
		tok.Kind = TokenComment
	case c == '{':
		for l.pos < len(l.src) && l.src[l.pos] != '}' {
			l.advance()
		}
		if l.pos >= len(l.src) {
			tok.Kind = TokenIllegal
			tok.Err = "unterminated comment"
		} else {
			l.advance()
			tok.Kind = TokenComment
		}
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.advance()
		}
		tok.Kind = TokenIdent
		if keywords[string(l.src[tok.Start:l.pos])] {
			tok.Kind = TokenKeyword
		}
	case isDigit(c):
		tok.Kind = l.number()
	case c == '"':
		tok.Kind = l.quoted('"', TokenStr, &tok)
	case c == '\'':
		tok.Kind = l.char(&tok)
	default:
		tok.Kind = l.punct(&tok)
	}

	tok.End = uint32(l.pos)
	tok.Text = string(l.src[tok.Start:tok.End])
	return tok
}

func (l *lexer) number() TokenKind {
	c1 := l.peekByte(1)
	switch {
	case l.src[l.pos] == '0' && (c1 == 'x' || c1 == 'X') && isHexDigit(l.peekByte(2)):
		l.advance()
		l.advance()
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.advance()
		}
		return TokenHex
	case l.src[l.pos] == '0' && (c1 == 'b' || c1 == 'B') && isBit(l.peekByte(2)):
		l.advance()
		l.advance()
		for l.pos < len(l.src) && isBit(l.src[l.pos]) {
			l.advance()
		}
		return TokenBits
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance()
	}
	return TokenDec
}

func (l *lexer) quoted(quote byte, kind TokenKind, tok *Token) TokenKind {
	l.advance()
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
			continue
		case quote:
			l.advance()
			return kind
		}
		l.advance()
	}
	tok.Err = "unterminated string"
	return TokenIllegal
}

func (l *lexer) char(tok *Token) TokenKind {
	if l.peekByte(1) != 0 && l.peekByte(1) != '\'' && l.peekByte(1) != '\\' && l.peekByte(2) == '\'' {
		l.advance()
		l.advance()
		l.advance()
		return TokenChar
	}
	l.advance()
	tok.Err = "malformed character literal"
	return TokenIllegal
}

var twoCharPuncts = []string{":=", "<=", ">=", "!="}

func (l *lexer) punct(tok *Token) TokenKind {
	if l.pos+1 < len(l.src) {
		pair := string(l.src[l.pos : l.pos+2])
		for _, p := range twoCharPuncts {
			if pair == p {
				l.advance()
				l.advance()
				return TokenPunct
			}
		}
	}
	c := l.src[l.pos]
	l.advance()
	if strings.IndexByte("()[],;:+-*/%<>=!", c) >= 0 {
		return TokenPunct
	}
	tok.Err = fmt.Sprintf("unexpected character %q", c)
	return TokenIllegal
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isBit(c byte) bool       { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
