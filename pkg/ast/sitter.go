package ast

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
)

// ErrUnknownGrammar is returned when no tree-sitter grammar is bundled for a
// language.
var ErrUnknownGrammar = errors.New("no tree-sitter grammar for language")

var grammars = map[string]func() *sitter.Language{
	"go": golang.GetLanguage,
	"c":  c.GetLanguage,
}

// Grammars lists the languages that can be parsed with tree-sitter.
func Grammars() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SitterTree owns a tree-sitter parse tree. Close must be called once the
// tree and every node obtained from it are no longer used.
type SitterTree struct {
	Language string
	tree     *sitter.Tree
}

// ParseTreeSitter parses src with the bundled grammar for lang.
func ParseTreeSitter(ctx context.Context, lang string, src []byte) (*SitterTree, error) {
	grammar, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrammar, lang)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", lang, err)
	}
	return &SitterTree{Language: lang, tree: tree}, nil
}

// Root returns the root node of the tree.
func (t *SitterTree) Root() Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return FromSitter(t.tree.RootNode())
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (t *SitterTree) HasErrors() bool {
	if t == nil || t.tree == nil {
		return false
	}
	return t.tree.RootNode().HasError()
}

func (t *SitterTree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// FromSitter adapts a tree-sitter node. A nil node yields a nil Node.
func FromSitter(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return sitterNode{n: n}
}

type sitterNode struct {
	n *sitter.Node
}

func (s sitterNode) Type() string      { return s.n.Type() }
func (s sitterNode) IsNamed() bool     { return s.n.IsNamed() }
func (s sitterNode) StartByte() uint32 { return s.n.StartByte() }
func (s sitterNode) EndByte() uint32   { return s.n.EndByte() }
func (s sitterNode) ChildCount() int   { return int(s.n.ChildCount()) }

func (s sitterNode) Child(i int) Node {
	if i < 0 || i >= int(s.n.ChildCount()) {
		return nil
	}
	return FromSitter(s.n.Child(i))
}
