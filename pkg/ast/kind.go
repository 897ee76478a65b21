package ast

// Kind is the structural category of a syntax node. Grammar-specific kind
// names are mapped onto it once, so lowering dispatches on an enum instead
// of comparing strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindToken        // anonymous keyword or punctuation
	KindComment
	KindError
	KindSourceFile
	KindFuncDef
	KindFuncSignature
	KindBody
	KindBlock
	KindSequence // statement wrappers
	KindIf
	KindElse
	KindWhile
	KindDo
	KindBreak
	KindContinue
	KindReturn
	KindExprStmt
	KindAssign
	KindVarDecl
	KindIdList
	KindDeclarator
	KindTypeRef
	KindWrapper // expr, primary, parenthesized expressions
	KindTuple   // comma-separated expression lists
	KindPostfix
	KindCall
	KindIndex
	KindArgList
	KindUnary
	KindBinary // operator family decided by the operator token
	KindLogical
	KindBitwise
	KindCompare
	KindAdd
	KindMul
	KindOperator
	KindIdentifier
	KindLiteral
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindToken:         "token",
	KindComment:       "comment",
	KindError:         "error",
	KindSourceFile:    "source_file",
	KindFuncDef:       "func_def",
	KindFuncSignature: "func_signature",
	KindBody:          "body",
	KindBlock:         "block",
	KindSequence:      "sequence",
	KindIf:            "if",
	KindElse:          "else",
	KindWhile:         "while",
	KindDo:            "do",
	KindBreak:         "break",
	KindContinue:      "continue",
	KindReturn:        "return",
	KindExprStmt:      "expr_stmt",
	KindAssign:        "assign",
	KindVarDecl:       "var_decl",
	KindIdList:        "id_list",
	KindDeclarator:    "declarator",
	KindTypeRef:       "type_ref",
	KindWrapper:       "wrapper",
	KindTuple:         "tuple",
	KindPostfix:       "postfix",
	KindCall:          "call",
	KindIndex:         "index",
	KindArgList:       "arg_list",
	KindUnary:         "unary",
	KindBinary:        "binary",
	KindLogical:       "logical",
	KindBitwise:       "bitwise",
	KindCompare:       "compare",
	KindAdd:           "add",
	KindMul:           "mul",
	KindOperator:      "operator",
	KindIdentifier:    "identifier",
	KindLiteral:       "literal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// grammarKinds maps node type names of the supported grammars onto kinds.
// v2 names come from the language's tree-sitter grammar; the rest cover the
// bundled tree-sitter Go and C grammars.
var grammarKinds = map[string]Kind{
	// files and functions
	"source_file":          KindSourceFile,
	"translation_unit":     KindSourceFile,
	"funcDef":              KindFuncDef,
	"function_definition":  KindFuncDef,
	"function_declaration": KindFuncDef,
	"method_declaration":   KindFuncDef,
	"funcSignature":        KindFuncSignature,
	"body":                 KindBody,

	// statements
	"block":                 KindBlock,
	"compound_statement":    KindBlock,
	"statement":             KindSequence,
	"statements":            KindSequence,
	"statement_list":        KindSequence,
	"statement_seq":         KindSequence,
	"else_clause":           KindElse,
	"if_statement":          KindIf,
	"while_statement":       KindWhile,
	"do_statement":          KindDo,
	"break_statement":       KindBreak,
	"continue_statement":    KindContinue,
	"return_statement":      KindReturn,
	"expr_stmt":             KindExprStmt,
	"expression_statement":  KindExprStmt,
	"assignment":            KindAssign,
	"assign_expr":           KindAssign,
	"assignment_expression": KindAssign,
	"assignment_statement":  KindAssign,
	"short_var_declaration": KindAssign,
	"varDecl":               KindVarDecl,
	"declaration":           KindVarDecl,
	"var_declaration":       KindVarDecl,
	"idList":                KindIdList,
	"identifier_list":       KindIdList,
	"init_declarator":       KindDeclarator,
	"pointer_declarator":    KindDeclarator,
	"array_declarator":      KindDeclarator,
	"function_declarator":   KindDeclarator,
	"var_spec":              KindDeclarator,
	"typeRef":               KindTypeRef,
	"primitive_type":        KindTypeRef,
	"type_identifier":       KindTypeRef,
	"sized_type_specifier":  KindTypeRef,

	// expressions
	"expr":                     KindWrapper,
	"_expr":                    KindWrapper,
	"primary":                  KindWrapper,
	"parenthesized_expression": KindWrapper,
	"condition_clause":         KindWrapper,
	"expression_list":          KindTuple,
	"postfix":                  KindPostfix,
	"call_expression":          KindCall,
	"index_expression":         KindIndex,
	"subscript_expression":     KindIndex,
	"exprList":                 KindArgList,
	"argument_list":            KindArgList,
	"unary":                    KindUnary,
	"unary_expr":               KindUnary,
	"unary_expression":         KindUnary,
	"binary_expr":              KindBinary,
	"binary_expression":        KindBinary,
	"logical_or":               KindLogical,
	"logical_and":              KindLogical,
	"bitwise_or":               KindBitwise,
	"bitwise_xor":              KindBitwise,
	"bitwise_and":              KindBitwise,
	"shift":                    KindBitwise,
	"equality":                 KindCompare,
	"relational":               KindCompare,
	"add":                      KindAdd,
	"mul":                      KindMul,
	"binOp":                    KindOperator,
	"unOp":                     KindOperator,

	// leaves
	"identifier":                 KindIdentifier,
	"field_identifier":           KindIdentifier,
	"literal":                    KindLiteral,
	"bool":                       KindLiteral,
	"str":                        KindLiteral,
	"char":                       KindLiteral,
	"hex":                        KindLiteral,
	"bits":                       KindLiteral,
	"dec":                        KindLiteral,
	"number_literal":             KindLiteral,
	"string_literal":             KindLiteral,
	"char_literal":               KindLiteral,
	"int_literal":                KindLiteral,
	"float_literal":              KindLiteral,
	"imaginary_literal":          KindLiteral,
	"rune_literal":               KindLiteral,
	"interpreted_string_literal": KindLiteral,
	"raw_string_literal":         KindLiteral,
	"true":                       KindLiteral,
	"false":                      KindLiteral,
	"nil":                        KindLiteral,
	"null":                       KindLiteral,

	"comment": KindComment,
	"ERROR":   KindError,
}

// KindOf classifies a grammar kind name. Unlisted names are KindUnknown.
func KindOf(name string) Kind {
	if k, ok := grammarKinds[name]; ok {
		return k
	}
	return KindUnknown
}

// Classify returns the kind of n. Anonymous nodes are always KindToken,
// whatever their text, and a nil node is KindUnknown.
func Classify(n Node) Kind {
	if n == nil {
		return KindUnknown
	}
	if !n.IsNamed() {
		return KindToken
	}
	return KindOf(n.Type())
}

// IsSimpleStatement reports whether k is batched into straight-line blocks.
func IsSimpleStatement(k Kind) bool {
	return k == KindAssign || k == KindExprStmt || k == KindVarDecl
}

// IsBinaryFamily reports whether k is a binary operator chain.
func IsBinaryFamily(k Kind) bool {
	switch k {
	case KindBinary, KindLogical, KindBitwise, KindCompare, KindAdd, KindMul:
		return true
	}
	return false
}
