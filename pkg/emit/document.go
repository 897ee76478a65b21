package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/v2flow/pkg/cfg"
)

// Format selects how a file's CFGs are written.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatJSON, FormatMsgpack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want dot, json or msgpack)", s)
}

// Extension returns the file suffix used for documents of this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".cfg.json"
	case FormatMsgpack:
		return ".cfg.msgpack"
	default:
		return ".dot"
	}
}

// Document is the serializable form of every CFG built from one file.
type Document struct {
	File      string        `json:"file" msgpack:"file"`
	Functions []FunctionDoc `json:"functions" msgpack:"functions"`
}

type FunctionDoc struct {
	Name       string    `json:"name" msgpack:"name"`
	Signature  string    `json:"signature,omitempty" msgpack:"signature,omitempty"`
	Complexity int       `json:"complexity" msgpack:"complexity"`
	Nodes      []NodeDoc `json:"nodes" msgpack:"nodes"`
	Edges      []EdgeDoc `json:"edges" msgpack:"edges"`
}

type NodeDoc struct {
	ID    int      `json:"id" msgpack:"id"`
	Role  string   `json:"role" msgpack:"role"`
	Label string   `json:"label" msgpack:"label"`
	Lines []string `json:"lines" msgpack:"lines"`
}

type EdgeDoc struct {
	From  int    `json:"from" msgpack:"from"`
	To    int    `json:"to" msgpack:"to"`
	Label string `json:"label,omitempty" msgpack:"label,omitempty"`
}

// NewDocument snapshots the finalized graphs of funcs.
func NewDocument(file string, funcs []cfg.Function) (Document, error) {
	doc := Document{File: file, Functions: make([]FunctionDoc, 0, len(funcs))}
	for _, fn := range funcs {
		fd, err := NewFunctionDoc(fn)
		if err != nil {
			return Document{}, err
		}
		doc.Functions = append(doc.Functions, fd)
	}
	return doc, nil
}

func NewFunctionDoc(fn cfg.Function) (FunctionDoc, error) {
	fd := FunctionDoc{Name: fn.Name, Signature: fn.Signature, Nodes: []NodeDoc{}, Edges: []EdgeDoc{}}
	if fn.Graph == nil {
		return fd, nil
	}
	if !fn.Graph.Finalized() {
		return FunctionDoc{}, fmt.Errorf("function %s: %w", fn.Name, ErrNotFinalized)
	}
	fd.Complexity = fn.Graph.CyclomaticComplexity()
	for _, n := range fn.Graph.Nodes() {
		lines := append([]string{}, n.Lines...)
		fd.Nodes = append(fd.Nodes, NodeDoc{ID: n.ID, Role: string(n.Role), Label: n.Label, Lines: lines})
	}
	for _, e := range fn.Graph.Edges() {
		fd.Edges = append(fd.Edges, EdgeDoc{From: e.From, To: e.To, Label: e.Label})
	}
	return fd, nil
}

// Encode writes doc as JSON or msgpack.
func Encode(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json document: %w", err)
		}
		return nil
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode msgpack document: %w", err)
		}
		return nil
	}
	return fmt.Errorf("format %q does not produce documents", format)
}

// Decode reads a document written by Encode.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return doc, fmt.Errorf("format %q does not produce documents", format)
	}
	if err != nil {
		return doc, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return doc, nil
}
