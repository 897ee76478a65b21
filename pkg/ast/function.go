package ast

import "strings"

// AnonymousName is reported for functions whose name cannot be extracted.
const AnonymousName = "<anon>"

// FindFunctions returns every function definition under root in source
// order. Definitions nested inside a found function are not reported.
func FindFunctions(root Node) []Node {
	var funcs []Node
	Walk(root, func(n Node) bool {
		if Classify(n) == KindFuncDef {
			funcs = append(funcs, n)
			return false
		}
		return true
	})
	return funcs
}

// FunctionName extracts the declared name of a function definition.
func FunctionName(src []byte, fn Node) string {
	if sig := ChildOfKind(fn, KindFuncSignature); sig != nil {
		if id := ChildOfKind(sig, KindIdentifier); id != nil {
			if name := Text(src, id); name != "" {
				return name
			}
		}
		return AnonymousName
	}
	// C keeps the name inside a (possibly pointer) declarator
	if decl := ChildOfKind(fn, KindDeclarator); decl != nil {
		if name, ok := FindIdentifier(src, decl); ok && name != "" {
			return name
		}
	}
	if id := ChildOfKind(fn, KindIdentifier); id != nil {
		if name := Text(src, id); name != "" {
			return name
		}
	}
	return AnonymousName
}

// FunctionSignature returns the header of a function definition on one line:
// the signature node when the grammar has one, otherwise everything before
// the body.
func FunctionSignature(src []byte, fn Node) string {
	if fn == nil {
		return ""
	}
	if sig := ChildOfKind(fn, KindFuncSignature); sig != nil {
		return collapseSpace(Text(src, sig))
	}
	end := fn.EndByte()
	if body := bodyNode(fn); body != nil {
		end = body.StartByte()
	}
	start := fn.StartByte()
	if int(end) > len(src) || start >= end {
		return ""
	}
	return collapseSpace(string(src[start:end]))
}

// FindBody returns the statement block of a function definition, or nil
// when the function is only declared.
func FindBody(fn Node) Node {
	if body := ChildOfKind(fn, KindBody); body != nil {
		return ChildOfKind(body, KindBlock)
	}
	return ChildOfKind(fn, KindBlock)
}

func bodyNode(fn Node) Node {
	if body := ChildOfKind(fn, KindBody); body != nil {
		return body
	}
	return ChildOfKind(fn, KindBlock)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
