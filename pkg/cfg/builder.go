package cfg

import (
	"strings"

	"github.com/l3aro/v2flow/pkg/ast"
	"github.com/l3aro/v2flow/pkg/ir"
)

type loopContext struct {
	cond int // target of continue
	exit int // target of break
}

// Builder lowers statements of one function into a Graph. A Builder is not
// safe for concurrent use; build each function with its own Builder.
type Builder struct {
	graph    *Graph
	lower    *ir.Lowerer
	limits   Limits
	loops    []loopContext
	funcExit int
}

// NewBuilder creates a Builder writing into g. Return statements are wired
// to funcExit; pass NoFallthrough to leave them unconnected.
func NewBuilder(g *Graph, src []byte, limits Limits, funcExit int) *Builder {
	limits = limits.withDefaults()
	return &Builder{
		graph:    g,
		lower:    ir.New(src, limits.MaxExprDepth),
		limits:   limits,
		funcExit: funcExit,
	}
}

// Lower lowers one statement or statement sequence and returns the ids of
// its entry node and its exit node. The exit is NoFallthrough when control
// never leaves the statement normally. hint is the role given to the first
// block created for n; an empty hint means RoleBlock.
func (b *Builder) Lower(n ast.Node, hint Role) (entry, exit int) {
	switch kind := ast.Classify(n); {
	case n == nil:
		return b.placeholder(hint)
	case kind == ast.KindBlock || kind == ast.KindSequence || kind == ast.KindElse:
		return b.lowerSequence(n.ChildCount(), n.Child, hint)
	case ast.IsSimpleStatement(kind):
		return b.lowerSequence(1, func(int) ast.Node { return n }, hint)
	case kind == ast.KindIf:
		return b.lowerIf(n)
	case kind == ast.KindWhile:
		return b.lowerWhile(n)
	case kind == ast.KindDo:
		return b.lowerDo(n)
	case kind == ast.KindBreak:
		id := b.node(hint, ir.LineBreak)
		if loop, ok := b.currentLoop(); ok {
			b.graph.AddEdge(id, loop.exit, "")
		}
		return id, NoFallthrough
	case kind == ast.KindContinue:
		id := b.node(hint, ir.LineContinue)
		if loop, ok := b.currentLoop(); ok {
			b.graph.AddEdge(id, loop.cond, "")
		}
		return id, NoFallthrough
	case kind == ast.KindReturn:
		id := b.node(hint, b.lower.Return(n))
		if b.funcExit >= 0 {
			b.graph.AddEdge(id, b.funcExit, "")
		}
		return id, NoFallthrough
	default:
		id := b.node(hint, n.Type())
		return id, id
	}
}

// node creates a node holding one line. An empty role means RoleBlock.
func (b *Builder) node(role Role, line string) int {
	if role == "" {
		role = RoleBlock
	}
	id := b.graph.AddNode(role)
	b.graph.AddLine(id, line)
	return id
}

func (b *Builder) placeholder(role Role) (int, int) {
	id := b.node(role, ir.LineEmpty)
	return id, id
}

// sequence accumulates the lowering of consecutive statements.
type sequence struct {
	b        *Builder
	hint     Role
	hintFree bool
	pending  []string
	entry    int
	exit     int
}

// lowerSequence lowers count children produced by child. Simple statements
// are merged into blocks of at most MaxBlockLines lines; every other
// statement is lowered on its own and chained after the pending block.
func (b *Builder) lowerSequence(count int, child func(int) ast.Node, hint Role) (int, int) {
	s := &sequence{b: b, hint: hint, hintFree: true, entry: NoFallthrough, exit: NoFallthrough}
	s.walk(count, child)
	s.flush()
	if s.entry < 0 {
		return b.placeholder(s.takeHint())
	}
	return s.entry, s.exit
}

func (s *sequence) walk(count int, child func(int) ast.Node) {
	for i := 0; i < count; i++ {
		c := child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		switch kind := ast.Classify(c); {
		case kind == ast.KindComment:
		case kind == ast.KindSequence:
			s.walk(c.ChildCount(), c.Child)
		case ast.IsSimpleStatement(kind):
			for _, line := range s.b.lower.SimpleLines(c) {
				s.pending = append(s.pending, line)
				if len(s.pending) >= s.b.limits.MaxBlockLines {
					s.flush()
				}
			}
		default:
			s.flush()
			// only flushed blocks and the empty placeholder take the hint
			s.link(s.b.Lower(c, ""))
		}
	}
}

// takeHint returns the caller's role hint the first time it is asked for
// and RoleBlock afterwards.
func (s *sequence) takeHint() Role {
	if s.hintFree {
		s.hintFree = false
		if s.hint != "" {
			return s.hint
		}
	}
	return RoleBlock
}

func (s *sequence) flush() {
	if len(s.pending) == 0 {
		return
	}
	id := s.b.graph.AddNode(s.takeHint())
	for _, line := range s.pending {
		s.b.graph.AddLine(id, line)
	}
	s.pending = nil
	s.link(id, id)
}

// link chains a lowered statement after the previous one. Nothing is wired
// from a predecessor that does not fall through.
func (s *sequence) link(entry, exit int) {
	if s.entry < 0 {
		s.entry = entry
	} else if s.exit >= 0 {
		s.b.graph.AddEdge(s.exit, entry, "")
	}
	s.exit = exit
}

// ifParts splits a conditional into its test and branches. The else
// branch is whatever follows an "else" token or an else clause; the test
// and then-branch are the last two named children before it, so a leading
// initializer statement is skipped.
func ifParts(n ast.Node) (cond, then, els ast.Node) {
	var before []ast.Node
	seenElse := false
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		kind := ast.Classify(c)
		switch {
		case kind == ast.KindToken && strings.EqualFold(c.Type(), "else"):
			seenElse = true
		case kind == ast.KindToken || kind == ast.KindComment:
		case seenElse || kind == ast.KindElse:
			if els == nil {
				els = c
			}
		default:
			before = append(before, c)
		}
	}
	switch len(before) {
	case 0:
	case 1:
		cond = before[0]
	default:
		cond, then = before[len(before)-2], before[len(before)-1]
	}
	return cond, then, els
}

func (b *Builder) lowerIf(n ast.Node) (int, int) {
	condNode, thenNode, elseNode := ifParts(n)

	cond := b.node(RoleIfCond, b.lower.IfCond(condNode))
	thenEntry, thenExit := b.Lower(thenNode, RoleIfThen)
	elseEntry, elseExit := b.Lower(elseNode, RoleIfElse)
	join := b.node(RoleIfJoin, ir.LineJoin)

	b.graph.AddEdge(cond, thenEntry, LabelTrue)
	b.graph.AddEdge(cond, elseEntry, LabelFalse)
	if thenExit >= 0 {
		b.graph.AddEdge(thenExit, join, "")
	}
	if elseExit >= 0 {
		b.graph.AddEdge(elseExit, join, "")
	}
	return cond, join
}

// lowerWhile lowers a pre-tested loop. The exit node is created before the
// body so a break inside it has a target.
func (b *Builder) lowerWhile(n ast.Node) (int, int) {
	var condNode, bodyNode ast.Node
	named := ast.NamedChildren(n)
	if len(named) > 0 {
		condNode = named[0]
	}
	if len(named) > 1 {
		bodyNode = named[len(named)-1]
	}

	cond := b.node(RoleWhileCond, b.lower.WhileCond(condNode))
	exit := b.node(RoleAfterWhile, ir.LineExit)

	pushed := b.pushLoop(cond, exit)
	bodyEntry, bodyExit := b.Lower(bodyNode, RoleWhileBody)
	if pushed {
		b.popLoop()
	}

	b.graph.AddEdge(cond, bodyEntry, LabelTrue)
	if bodyExit >= 0 {
		b.graph.AddEdge(bodyExit, cond, "")
	}
	b.graph.AddEdge(cond, exit, LabelFalse)
	return cond, exit
}

// lowerDo lowers a post-tested loop. The test and exit nodes are reserved
// before the body is lowered so break and continue inside the body resolve
// to this loop. The "while" keyword loops on true; any other keyword
// (until) loops on false.
func (b *Builder) lowerDo(n ast.Node) (int, int) {
	var bodyNode, condNode ast.Node
	keyword := "while"
	bodyIndex := -1
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch kind := ast.Classify(c); {
		case kind == ast.KindComment:
		case c.IsNamed():
			if bodyNode == nil {
				bodyNode, bodyIndex = c, i
			} else if condNode == nil {
				condNode = c
			}
		case bodyIndex >= 0 && condNode == nil && isLoopKeyword(c.Type()):
			keyword = c.Type()
		}
	}

	cond := b.node(RoleWhileCond, b.lower.RepeatCond(keyword, condNode))
	exit := b.node(RoleAfterWhile, ir.LineExit)

	pushed := b.pushLoop(cond, exit)
	bodyEntry, bodyExit := b.Lower(bodyNode, RoleWhileBody)
	if pushed {
		b.popLoop()
	}

	loopLabel, exitLabel := LabelTrue, LabelFalse
	if !strings.EqualFold(keyword, "while") {
		loopLabel, exitLabel = LabelFalse, LabelTrue
	}
	if bodyExit >= 0 {
		b.graph.AddEdge(bodyExit, cond, "")
	}
	b.graph.AddEdge(cond, bodyEntry, loopLabel)
	b.graph.AddEdge(cond, exit, exitLabel)
	return bodyEntry, exit
}

func isLoopKeyword(s string) bool {
	return strings.EqualFold(s, "while") || strings.EqualFold(s, "until")
}

// pushLoop enters a loop. It reports false, leaving the stack unchanged,
// once MaxLoopDepth loops are open; the caller then skips the matching pop.
func (b *Builder) pushLoop(cond, exit int) bool {
	if len(b.loops) >= b.limits.MaxLoopDepth {
		return false
	}
	b.loops = append(b.loops, loopContext{cond: cond, exit: exit})
	return true
}

func (b *Builder) popLoop() {
	if len(b.loops) > 0 {
		b.loops = b.loops[:len(b.loops)-1]
	}
}

func (b *Builder) currentLoop() (loopContext, bool) {
	if len(b.loops) == 0 {
		return loopContext{}, false
	}
	return b.loops[len(b.loops)-1], true
}
