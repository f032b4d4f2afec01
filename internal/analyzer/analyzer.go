// Package analyzer implements the symbol table's two passes: ST build
// hoists every declaration into its enclosing scope, then ST visit resolves
// every identifier, type-checks every expression, and records the
// cross-reference tables the generator reads. It plays the combined role an
// analyzer and symbol-table package would, scaled down to Mini's much
// smaller type system (no unification, no generics — see internal/kinds).
package analyzer

import (
	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/symbols"
)

// SymbolTable is the ST: the scope/slot arena plus the three identity-keyed
// cross-reference tables the generator reads back.
type SymbolTable struct {
	Arena       *symbols.Arena
	GlobalScope symbols.ScopeId

	// MainFunction is set by New and never changes afterwards; its slot is
	// a Static slot of Function-kind with signature () -> Number, unless a
	// source-level `function main` rebinds it to its own definition (see
	// build).
	MainFunction symbols.VariableId

	DefinitionRef  map[*ast.VariableDefinition]symbols.VariableId
	IdentifierRef  map[ast.Identifier]symbols.VariableId
	ExpressionKind map[ast.Expression]kinds.Kind

	// FunctionScope maps a non-external function's slot to the child scope
	// ST build created for its body, so internal/gen can find a function's
	// statements without re-walking the AST. The designated main slot has an
	// entry only when the source declares `function main` itself; its
	// top-level statements live in the global scope either way.
	FunctionScope map[symbols.VariableId]symbols.ScopeId
}

// New creates a SymbolTable with the global scope populated by a synthetic
// `main` definition: every program's designated entry point.
func New() *SymbolTable {
	arena := symbols.NewArena()
	global := arena.NewScope(0, false, symbols.ScopeGlobal, nil)

	mainDef := &ast.VariableDefinition{
		Name:         "main",
		DeclaredKind: kinds.NewFunction(nil, kinds.KNumber),
		IsWritable:   false,
	}

	st := &SymbolTable{
		Arena:          arena,
		GlobalScope:    global,
		DefinitionRef:  make(map[*ast.VariableDefinition]symbols.VariableId),
		IdentifierRef:  make(map[ast.Identifier]symbols.VariableId),
		ExpressionKind: make(map[ast.Expression]kinds.Kind),
		FunctionScope:  make(map[symbols.VariableId]symbols.ScopeId),
	}

	id, err := arena.NewStatic(global, mainDef, false)
	if err != nil {
		// The global scope is freshly created; inserting its very first
		// name can never collide.
		panic(err)
	}
	st.MainFunction = id
	st.DefinitionRef[mainDef] = id
	return st
}

// Analyze runs the ST build phase then the ST visit phase over prog.
func Analyze(prog *ast.Program) (*SymbolTable, error) {
	st := New()

	global := st.Arena.Scope(st.GlobalScope)
	global.Statements = prog.Statements

	if err := st.build(st.GlobalScope, prog.Statements); err != nil {
		return nil, err
	}
	if err := st.visit(); err != nil {
		return nil, err
	}
	return st, nil
}
