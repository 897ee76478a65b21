package ast

import "strings"

// Text returns the source text covered by n with surrounding whitespace
// trimmed. Offsets outside src yield an empty string.
func Text(src []byte, n Node) string {
	if n == nil {
		return ""
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end > len(src) || start >= end {
		return ""
	}
	return strings.TrimSpace(string(src[start:end]))
}

// NamedChildren returns the named children of n in order, skipping comments.
func NamedChildren(n Node) []Node {
	if n == nil {
		return nil
	}
	var out []Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() || Classify(c) == KindComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FirstNamed returns the first named, non-comment child of n.
func FirstNamed(n Node) Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.IsNamed() && Classify(c) != KindComment {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first direct child of n with kind k.
func ChildOfKind(n Node, k Kind) Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && Classify(c) == k {
			return c
		}
	}
	return nil
}

// FindFirst returns the first node of kind k in a pre-order walk of n,
// n included.
func FindFirst(n Node, k Kind) Node {
	if n == nil {
		return nil
	}
	if Classify(n) == k {
		return n
	}
	for i := 0; i < n.ChildCount(); i++ {
		if found := FindFirst(n.Child(i), k); found != nil {
			return found
		}
	}
	return nil
}

// FindIdentifier returns the text of the first identifier under n.
func FindIdentifier(src []byte, n Node) (string, bool) {
	id := FindFirst(n, KindIdentifier)
	if id == nil {
		return "", false
	}
	return Text(src, id), true
}

// Walk visits n and its descendants in pre-order, anonymous nodes included.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < n.ChildCount(); i++ {
		Walk(n.Child(i), fn)
	}
}
