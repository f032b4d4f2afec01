// Package symbols owns the scope tree and variable-slot arena: two flat
// arrays indexed by an integer handle, so the analyzer and the code
// generator can hold stable IDs across the whole compilation instead of Go
// pointers that would move if a slice grew. A SymbolTable holds scopes keyed
// by handle, with a slot model built around Mini's three-case
// Static/Property/Indexed sum rather than a unifying type variable.
package symbols

import (
	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/mcerr"
)

// ScopeId and VariableId are plain indexes into the arenas below; they carry
// no generation counter.
type ScopeId int
type VariableId int

// ScopeKind distinguishes the single global scope from per-function scopes.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
)

// Scope is one lexical scope: the global scope, or one function body.
// Variables is insertion-ordered.
type Scope struct {
	Parent     ScopeId // meaningful only when HasParent is true
	HasParent  bool
	Kind       ScopeKind
	Statements []ast.Statement

	names map[string]VariableId
	order []string
}

// SlotKind distinguishes the three VariableSlot shapes.
type SlotKind int

const (
	SlotStatic SlotKind = iota
	SlotProperty
	SlotIndexed
)

// VariableSlot is one entry in the variable arena.
type VariableSlot struct {
	Kind SlotKind

	// Static fields.
	Definition  *ast.VariableDefinition
	IsParameter bool

	// Property fields.
	Base     VariableId
	PropName string

	// Indexed fields.
	IndexExpr ast.Expression
}

// StaticKind returns the slot's declared Kind. Static slots answer from
// their definition; Property and Indexed slots have no declared Kind of
// their own and report Any.
func (s VariableSlot) StaticKind() kinds.Kind {
	if s.Kind == SlotStatic && s.Definition != nil {
		return s.Definition.DeclaredKind
	}
	return kinds.KAny
}

// Arena owns every Scope and VariableSlot created during a single
// compilation. Scopes and slots are appended, never removed or mutated
// after the ST visit phase finishes.
type Arena struct {
	scopes []Scope
	vars   []VariableSlot
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewScope creates a scope, does not populate it.
func (a *Arena) NewScope(parent ScopeId, hasParent bool, kind ScopeKind, statements []ast.Statement) ScopeId {
	a.scopes = append(a.scopes, Scope{
		Parent:     parent,
		HasParent:  hasParent,
		Kind:       kind,
		Statements: statements,
		names:      make(map[string]VariableId),
	})
	return ScopeId(len(a.scopes) - 1)
}

// Scope returns a pointer to the scope for in-place mutation (e.g. Analyze
// sets the global scope's Statements through it).
func (a *Arena) Scope(id ScopeId) *Scope {
	return &a.scopes[id]
}

// NewStatic inserts a Static slot into scope, erroring if the name already
// exists there. internal/gen backs it with a stack slot, or with an LLVM
// global when scope is the global scope.
func (a *Arena) NewStatic(scope ScopeId, def *ast.VariableDefinition, isParameter bool) (VariableId, error) {
	sc := &a.scopes[scope]
	if _, exists := sc.names[def.Name]; exists {
		return 0, &mcerr.VariableAlreadyDefined{Name: def.Name, Begin: def.Begin, End: def.End}
	}
	a.vars = append(a.vars, VariableSlot{Kind: SlotStatic, Definition: def, IsParameter: isParameter})
	id := VariableId(len(a.vars) - 1)
	sc.names[def.Name] = id
	sc.order = append(sc.order, def.Name)
	return id, nil
}

// Rebind replaces a Static slot's definition. The slot keeps its id and its
// place in the scope's name map; only the definition behind it changes. This
// is how a source-level `function main` takes over the synthetic main slot
// the symbol table creates before the program is read.
func (a *Arena) Rebind(id VariableId, def *ast.VariableDefinition) {
	a.vars[id].Definition = def
}

// NewProperty creates a Property slot over base. Always succeeds; Property
// slots are not inserted into any scope's name map — each
// identifier occurrence gets its own fresh slot.
func (a *Arena) NewProperty(base VariableId, name string) VariableId {
	a.vars = append(a.vars, VariableSlot{Kind: SlotProperty, Base: base, PropName: name})
	return VariableId(len(a.vars) - 1)
}

// NewIndexed creates an Indexed slot over base. Always succeeds.
func (a *Arena) NewIndexed(base VariableId, index ast.Expression) VariableId {
	a.vars = append(a.vars, VariableSlot{Kind: SlotIndexed, Base: base, IndexExpr: index})
	return VariableId(len(a.vars) - 1)
}

// Slot returns the VariableSlot for id.
func (a *Arena) Slot(id VariableId) VariableSlot {
	return a.vars[id]
}

// NumScopes reports how many scopes exist, for callers that want to walk
// every scope in arena (creation) order — the ST visit phase visits each
// scope this way.
func (a *Arena) NumScopes() int { return len(a.scopes) }

// VariableNames returns the scope's declared names in insertion order.
func (sc *Scope) VariableNames() []string { return sc.order }

// Lookup finds name directly in sc without walking parents.
func (sc *Scope) Lookup(name string) (VariableId, bool) {
	id, ok := sc.names[name]
	return id, ok
}

// LookupInScopeChain resolves name in scope, then its ancestors — the
// innermost declaration wins.
func (a *Arena) LookupInScopeChain(scope ScopeId, name string) (VariableId, error) {
	cur := scope
	for {
		sc := &a.scopes[cur]
		if id, ok := sc.names[name]; ok {
			return id, nil
		}
		if !sc.HasParent {
			return 0, &mcerr.VariableNotDefined{Name: name}
		}
		cur = sc.Parent
	}
}
