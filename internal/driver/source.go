package driver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/l3aro/v2flow/internal/scanner"
	"github.com/l3aro/v2flow/pkg/ast"
	"github.com/l3aro/v2flow/pkg/cfg"
	"github.com/l3aro/v2flow/pkg/v2lang"
)

// ErrUnsupportedLanguage is returned for files no front end can parse.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrSyntax marks the non-fatal diagnostics of a tree-sitter parse that had
// to recover from errors.
var ErrSyntax = errors.New("source contains syntax errors")

// Source is one parsed file. Close releases the syntax tree; functions
// lowered from it stay valid afterwards.
type Source struct {
	Path     string
	Language string
	Text     []byte
	Root     ast.Node
	// Diagnostics holds recovered syntax errors. The tree is still usable.
	Diagnostics error

	tree *ast.SitterTree
}

// ParseSource parses src with the front end for lang.
func ParseSource(ctx context.Context, path, lang string, src []byte) (*Source, error) {
	s := &Source{Path: path, Language: lang, Text: src}
	switch lang {
	case scanner.LanguageV2:
		root, err := v2lang.Parse(src)
		s.Root, s.Diagnostics = root, err
	case scanner.LanguageGo, scanner.LanguageC:
		tree, err := ast.ParseTreeSitter(ctx, lang, src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		s.tree, s.Root = tree, tree.Root()
		if tree.HasErrors() {
			s.Diagnostics = ErrSyntax
		}
	default:
		if lang == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
		}
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedLanguage, lang, path)
	}
	return s, nil
}

// LoadSource reads and parses a file. An empty lang selects the front end
// from the file extension.
func LoadSource(ctx context.Context, path, lang string) (*Source, error) {
	if lang == "" {
		lang = scanner.DetectLanguage(path)
	}
	if lang == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSource(ctx, path, lang, src)
}

// Functions lowers every function definition in discovery order.
func (s *Source) Functions(limits cfg.Limits) []cfg.Function {
	var funcs []cfg.Function
	for _, fn := range ast.FindFunctions(s.Root) {
		funcs = append(funcs, cfg.NewFunction(fn, s.Text, s.Path, limits))
	}
	return funcs
}

// Function lowers the first function called name.
func (s *Source) Function(name string, limits cfg.Limits) (cfg.Function, bool) {
	for _, fn := range ast.FindFunctions(s.Root) {
		if ast.FunctionName(s.Text, fn) == name {
			return cfg.NewFunction(fn, s.Text, s.Path, limits), true
		}
	}
	return cfg.Function{}, false
}

func (s *Source) Close() {
	if s == nil {
		return
	}
	s.tree.Close()
	s.tree = nil
	s.Root = nil
}
