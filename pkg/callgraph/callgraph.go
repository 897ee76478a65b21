// Package callgraph provides intra-file call graph building functionality.
// It scans the IR lines of lowered function CFGs for call sites and maps
// each caller to the callees defined in the same file.
package callgraph

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/l3aro/v2flow/pkg/cfg"
	"github.com/l3aro/v2flow/pkg/emit"
)

const callMarker = "Call("

// CallGraphEntry is one caller/callee pair and the number of call sites
// linking them.
type CallGraphEntry struct {
	// Caller is the name of the calling function
	Caller string `json:"caller"`
	// Callee is the name of the called function
	Callee string `json:"callee"`
	// Count is the number of call sites found in the caller
	Count int `json:"count"`
}

// CallGraph represents the call graph for a single file
type CallGraph struct {
	// Functions lists every known function name once, in discovery order
	Functions []string `json:"functions"`
	// Entries holds caller/callee pairs in first-seen order
	Entries []CallGraphEntry `json:"entries"`

	known map[string]bool
	index map[[2]string]int
}

// NewCallGraph creates an empty call graph whose known functions are names.
// Duplicate names are kept once.
func NewCallGraph(names []string) *CallGraph {
	g := &CallGraph{
		known: make(map[string]bool),
		index: make(map[[2]string]int),
	}
	for _, name := range names {
		if !g.known[name] {
			g.known[name] = true
			g.Functions = append(g.Functions, name)
		}
	}
	return g
}

// Build derives the call graph of one file from its function CFGs. Only
// calls whose callee is one of funcs are recorded.
func Build(funcs []cfg.Function) *CallGraph {
	names := make([]string, 0, len(funcs))
	for _, fn := range funcs {
		names = append(names, fn.Name)
	}
	g := NewCallGraph(names)

	for _, fn := range funcs {
		if fn.Graph == nil {
			continue
		}
		for _, n := range fn.Graph.Nodes() {
			for _, line := range n.Lines {
				for _, callee := range ScanCalls(line) {
					if g.known[callee] {
						g.Add(fn.Name, callee)
					}
				}
			}
		}
	}
	return g
}

// Add records one call site from caller to callee.
func (g *CallGraph) Add(caller, callee string) {
	key := [2]string{caller, callee}
	if i, ok := g.index[key]; ok {
		g.Entries[i].Count++
		return
	}
	g.index[key] = len(g.Entries)
	g.Entries = append(g.Entries, CallGraphEntry{Caller: caller, Callee: callee, Count: 1})
}

// GetCalls returns the entries whose caller is name.
func (g *CallGraph) GetCalls(name string) []CallGraphEntry {
	var calls []CallGraphEntry
	for _, e := range g.Entries {
		if e.Caller == name {
			calls = append(calls, e)
		}
	}
	return calls
}

// GetCallers returns the names of functions that call name.
func (g *CallGraph) GetCallers(name string) []string {
	var callers []string
	for _, e := range g.Entries {
		if e.Callee == name {
			callers = append(callers, e.Caller)
		}
	}
	return callers
}

// ScanCalls returns the callee names of every "Call(" marker in an IR
// line. Spaces after the marker are skipped and the name runs over letters,
// digits and underscores; markers not followed by a name are ignored.
func ScanCalls(line string) []string {
	var names []string
	for {
		i := strings.Index(line, callMarker)
		if i < 0 {
			return names
		}
		line = strings.TrimLeft(line[i+len(callMarker):], " \t\n\r\v\f")
		end := 0
		for end < len(line) && isNameByte(line[end]) {
			end++
		}
		if end > 0 {
			names = append(names, line[:end])
		}
		line = line[end:]
	}
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// WriteDOT writes the graph as `digraph CallGraph`: every known function
// as a node, then one edge per pair labelled with its count.
func (g *CallGraph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph CallGraph {\n")
	for _, name := range g.Functions {
		fmt.Fprintf(bw, "  \"%s\";\n", emit.Escape(name))
	}
	for _, e := range g.Entries {
		fmt.Fprintf(bw, "  \"%s\" -> \"%s\" [label=\"%d\"];\n", emit.Escape(e.Caller), emit.Escape(e.Callee), e.Count)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// WriteCSV writes a caller,callee,count header followed by one row per
// pair.
func (g *CallGraph) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"caller", "callee", "count"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range g.Entries {
		if err := cw.Write([]string{e.Caller, e.Callee, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
