// Package cfg builds per-function control flow graphs whose nodes carry
// textual IR lines. A Graph is filled by exactly one lowering pass, frozen
// by Finalize and read-only afterwards.
package cfg

// Role is the logical category of a CFG node, used for its display label.
type Role string

const (
	RoleEntry      Role = "entry"       // First block of a function body
	RoleExit       Role = "exit"        // Single function exit
	RoleBlock      Role = "block"       // Straight-line block
	RoleIfCond     Role = "if.cond"     // Conditional test
	RoleIfThen     Role = "if.then"     // First block of a then-branch
	RoleIfElse     Role = "if.else"     // First block of an else-branch
	RoleIfJoin     Role = "if.join"     // Merge point after a conditional
	RoleWhileCond  Role = "while.cond"  // Loop test, pre- or post-tested
	RoleWhileBody  Role = "while.body"  // First block of a loop body
	RoleAfterWhile Role = "after_while" // Block following a loop
)

// Edge labels of conditional transfers.
const (
	LabelTrue  = "true"
	LabelFalse = "false"
)

// NoFallthrough is returned as the exit of a lowered statement that never
// transfers control to the statement after it.
const NoFallthrough = -1

// Edge is a directed transfer between two nodes. An empty Label means the
// edge is unconditional.
type Edge struct {
	From  int
	To    int
	Label string
}

// Node is a basic block. Succs keeps outgoing edges in insertion order.
type Node struct {
	ID    int
	Role  Role
	Label string // "B<id> (<role>)", set by Finalize
	Lines []string
	Succs []Edge
}

// Limits bound the lowering pass.
type Limits struct {
	MaxExprDepth  int // nesting depth rendered before "..."
	MaxBlockLines int // IR lines merged into one block
	MaxLoopDepth  int // enclosing loops tracked for break/continue
}

// DefaultLimits returns the standard lowering limits.
func DefaultLimits() Limits {
	return Limits{MaxExprDepth: 4, MaxBlockLines: 3, MaxLoopDepth: 32}
}

// withDefaults replaces non-positive limits with the defaults.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxExprDepth <= 0 {
		l.MaxExprDepth = def.MaxExprDepth
	}
	if l.MaxBlockLines <= 0 {
		l.MaxBlockLines = def.MaxBlockLines
	}
	if l.MaxLoopDepth <= 0 {
		l.MaxLoopDepth = def.MaxLoopDepth
	}
	return l
}
