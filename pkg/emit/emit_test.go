package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/v2flow/pkg/ast"
	"github.com/l3aro/v2flow/pkg/cfg"
	"github.com/l3aro/v2flow/pkg/v2lang"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "B0 (exit)", "B0 (exit)"},
		{"quote", `say "hi"`, `say \"hi\"`},
		{"backslash", `a\b`, `a\\b`},
		{"newline", "a\nb", `a\nb`},
		{"carriage return", "a\rb", `a\rb`},
		{"other characters untouched", "<tab>\t{|}", "<tab>\t{|}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Escape(tc.in))
		})
	}
}

func sampleGraph() *cfg.Graph {
	g := cfg.NewGraph()
	exit := g.AddNode(cfg.RoleExit)
	g.AddLine(exit, "Nop(exit)")
	cond := g.AddNode(cfg.RoleIfCond)
	g.AddLine(cond, "IfCond\n  expr: Expr(\"s\")")
	g.AddEdge(cond, exit, cfg.LabelTrue)
	g.AddEdge(cond, exit, "")
	g.Finalize()
	return g
}

func unfinalizedGraph() *cfg.Graph {
	g := cfg.NewGraph()
	g.AddLine(g.AddNode(cfg.RoleExit), "Nop(exit)")
	return g
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, sampleGraph(), "main"))

	want := `digraph CFG_main {
  n0 [label="B0 (exit)\nNop(exit)"];
  n1 [label="B1 (if.cond)\nIfCond\n  expr: Expr(\"s\")"];
  n1 -> n0 [label="true"];
  n1 -> n0;
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteDOT_SanitizesName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, sampleGraph(), "<anon>"))
	assert.True(t, strings.HasPrefix(buf.String(), "digraph CFG__anon_ {\n"))
}

func TestEmitters_RequireFinalizedGraph(t *testing.T) {
	g := unfinalizedGraph()
	var buf bytes.Buffer

	err := WriteDOT(&buf, g, "f")
	assert.ErrorIs(t, err, ErrNotFinalized)

	err = WriteClusteredDOT(&buf, "file_a_v2", []cfg.Function{{Name: "first", Graph: sampleGraph()}, {Name: "f", Graph: g}})
	assert.ErrorIs(t, err, ErrNotFinalized)
	assert.ErrorContains(t, err, "function f")

	_, err = NewDocument("a.v2", []cfg.Function{{Name: "f", Graph: g}})
	assert.ErrorIs(t, err, ErrNotFinalized)

	assert.Empty(t, buf.String(), "nothing is written for a rejected graph")
	assert.False(t, g.Finalized(), "emitters leave the graph untouched")
	assert.Empty(t, g.Node(0).Label)
}

func TestWriteClusteredDOT(t *testing.T) {
	funcs := []cfg.Function{
		{Name: "first", Graph: sampleGraph()},
		{Name: "skipped"},
		{Name: "third", Graph: sampleGraph()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteClusteredDOT(&buf, "file_a_v2", funcs))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph G {\n"))
	assert.True(t, strings.HasSuffix(out, "  }\n}\n"))
	assert.Contains(t, out, "  subgraph cluster_f0 {\n    label=\"function first\";\n")
	assert.NotContains(t, out, "cluster_f1")
	assert.Contains(t, out, "  subgraph cluster_f2 {\n    label=\"function third\";\n")
	assert.Contains(t, out, "    file_a_v2_f0_n0 [shape=box,label=\"B0 (exit)\\nNop(exit)\"];\n")
	assert.Contains(t, out, "    file_a_v2_f2_n1 -> file_a_v2_f2_n0 [label=\"true\"];\n")
	assert.Contains(t, out, "    file_a_v2_f2_n1 -> file_a_v2_f2_n0;\n")
}

func TestWriteDOT_Deterministic(t *testing.T) {
	src := []byte("method f(n) begin while n > 0 do n := n - 1; return n; end;")
	root, err := v2lang.Parse(src)
	require.NoError(t, err)

	render := func() string {
		g := cfg.BuildFunction(ast.FindFunctions(root)[0], src, cfg.DefaultLimits())
		var buf bytes.Buffer
		require.NoError(t, WriteDOT(&buf, g, "f"))
		return buf.String()
	}
	assert.Equal(t, render(), render())
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "sample_v2", SanitizeName("sample.v2"))
	assert.Equal(t, "my_file_c", SanitizeName("my-file.c"))
	assert.Equal(t, "_", SanitizeName(""))
}

func TestWriteASTDOT(t *testing.T) {
	root := ast.NewNode("source_file",
		ast.NewNode("funcDef", ast.NewToken("method", 0, 6), ast.NewLeaf("identifier", 7, 8)),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteASTDOT(&buf, root))

	want := `digraph AST {
  n0 [label="source_file"];
  n1 [label="funcDef"];
  n0 -> n1;
  n2 [label="method"];
  n1 -> n2;
  n3 [label="identifier"];
  n1 -> n3;
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteASTDOT_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteASTDOT(&buf, nil))
	assert.Equal(t, "digraph AST {\n}\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"dot", FormatDOT, false},
		{"JSON", FormatJSON, false},
		{" msgpack ", FormatMsgpack, false},
		{"xml", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, ".dot", FormatDOT.Extension())
	assert.Equal(t, ".cfg.json", FormatJSON.Extension())
	assert.Equal(t, ".cfg.msgpack", FormatMsgpack.Extension())
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("a.v2", []cfg.Function{{Name: "f", Signature: "f()", Graph: sampleGraph()}})
	require.NoError(t, err)

	require.Len(t, doc.Functions, 1)
	fd := doc.Functions[0]
	assert.Equal(t, "f", fd.Name)
	assert.Equal(t, 2, fd.Complexity)
	assert.Equal(t, []NodeDoc{
		{ID: 0, Role: "exit", Label: "B0 (exit)", Lines: []string{"Nop(exit)"}},
		{ID: 1, Role: "if.cond", Label: "B1 (if.cond)", Lines: []string{"IfCond\n  expr: Expr(\"s\")"}},
	}, fd.Nodes)
	assert.Equal(t, []EdgeDoc{{From: 1, To: 0, Label: "true"}, {From: 1, To: 0}}, fd.Edges)
}

func TestEncodeDecode(t *testing.T) {
	doc, err := NewDocument("a.v2", []cfg.Function{{Name: "f", Signature: "f()", Graph: sampleGraph()}})
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, doc))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestEncode_DOTIsNotADocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, FormatDOT, Document{}))
	_, err := Decode(&buf, FormatDOT)
	assert.Error(t, err)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	assert.ErrorContains(t, err, "failed to decode json document")
}
