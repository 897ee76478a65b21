// Package emit serializes control-flow graphs, syntax trees and CFG
// documents. DOT output follows storage order exactly, so the same graph
// always produces the same bytes.
package emit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/l3aro/v2flow/pkg/cfg"
)

// ErrNotFinalized is returned when a graph reaches an emitter before
// cfg.Graph.Finalize has assigned its labels.
var ErrNotFinalized = errors.New("graph is not finalized")

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// Escape prepares s for a double-quoted DOT string. Only backslash, double
// quote, newline and carriage return are rewritten.
func Escape(s string) string {
	return escaper.Replace(s)
}

// NodeLabel is the DOT label of a node: its display label followed by its
// IR lines, newline separated and escaped.
func NodeLabel(n *cfg.Node) string {
	var sb strings.Builder
	sb.WriteString(Escape(n.Label))
	for _, line := range n.Lines {
		sb.WriteString(`\n`)
		sb.WriteString(Escape(line))
	}
	return sb.String()
}

// WriteDOT writes one finalized CFG as `digraph CFG_<name>`, with name
// passed through SanitizeName.
func WriteDOT(w io.Writer, g *cfg.Graph, name string) error {
	if !g.Finalized() {
		return fmt.Errorf("function %s: %w", name, ErrNotFinalized)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph CFG_%s {\n", SanitizeName(name))
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "  n%d [label=\"%s\"];\n", n.ID, NodeLabel(n))
	}
	for _, e := range g.Edges() {
		writeEdge(bw, "  ", fmt.Sprintf("n%d", e.From), fmt.Sprintf("n%d", e.To), e.Label)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// WriteClusteredDOT writes every function of a file into a single
// `digraph G`, one cluster per function. Node names are
// <prefix>_f<index>_n<id> so clusters never collide. Functions without a
// graph are skipped but keep their index. Nothing is written unless every
// graph is finalized.
func WriteClusteredDOT(w io.Writer, prefix string, funcs []cfg.Function) error {
	for _, fn := range funcs {
		if fn.Graph != nil && !fn.Graph.Finalized() {
			return fmt.Errorf("function %s: %w", fn.Name, ErrNotFinalized)
		}
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph G {\n")
	for i, fn := range funcs {
		if fn.Graph == nil {
			continue
		}
		name := func(id int) string { return fmt.Sprintf("%s_f%d_n%d", prefix, i, id) }

		fmt.Fprintf(bw, "  subgraph cluster_f%d {\n", i)
		fmt.Fprintf(bw, "    label=\"function %s\";\n", Escape(fn.Name))
		for _, n := range fn.Graph.Nodes() {
			fmt.Fprintf(bw, "    %s [shape=box,label=\"%s\"];\n", name(n.ID), NodeLabel(n))
		}
		for _, e := range fn.Graph.Edges() {
			writeEdge(bw, "    ", name(e.From), name(e.To), e.Label)
		}
		bw.WriteString("  }\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeEdge(w io.Writer, indent, from, to, label string) {
	if label == "" {
		fmt.Fprintf(w, "%s%s -> %s;\n", indent, from, to)
		return
	}
	fmt.Fprintf(w, "%s%s -> %s [label=\"%s\"];\n", indent, from, to, Escape(label))
}

// SanitizeName maps s to a DOT identifier fragment: letters, digits and
// underscores are kept and everything else becomes an underscore.
func SanitizeName(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}
