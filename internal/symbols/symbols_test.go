package symbols

import (
	"testing"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
)

func def(name string) *ast.VariableDefinition {
	return &ast.VariableDefinition{Name: name, DeclaredKind: kinds.KNumber, IsWritable: true}
}

func TestNewStaticRejectsDuplicateName(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)

	if _, err := a.NewStatic(global, def("x"), false); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := a.NewStatic(global, def("x"), false); err == nil {
		t.Fatal("expected an error inserting a duplicate name into the same scope")
	}
}

func TestLookupInScopeChainResolvesThroughParent(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	if _, err := a.NewStatic(global, def("g"), false); err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	child := a.NewScope(global, true, ScopeFunction, nil)
	if _, err := a.NewStatic(child, def("local"), false); err != nil {
		t.Fatalf("NewStatic: %v", err)
	}

	if _, err := a.LookupInScopeChain(child, "g"); err != nil {
		t.Errorf("expected to resolve a global from a child scope: %v", err)
	}
	if _, err := a.LookupInScopeChain(child, "local"); err != nil {
		t.Errorf("expected to resolve a name declared directly in the scope: %v", err)
	}
	if _, err := a.LookupInScopeChain(global, "local"); err == nil {
		t.Error("expected a parent scope not to see a child's declarations")
	}
	if _, err := a.LookupInScopeChain(child, "missing"); err == nil {
		t.Error("expected an error for a name that is not declared anywhere in the chain")
	}
}

func TestInnermostDeclarationShadowsOuter(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	outerID, _ := a.NewStatic(global, def("x"), false)

	child := a.NewScope(global, true, ScopeFunction, nil)
	innerID, _ := a.NewStatic(child, def("x"), false)

	got, err := a.LookupInScopeChain(child, "x")
	if err != nil {
		t.Fatalf("LookupInScopeChain: %v", err)
	}
	if got != innerID {
		t.Errorf("got %v, want the inner shadowing declaration %v (outer was %v)", got, innerID, outerID)
	}
}

func TestPropertyAndIndexedSlotsAlwaysFresh(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	baseID, _ := a.NewStatic(global, def("obj"), false)

	p1 := a.NewProperty(baseID, "field")
	p2 := a.NewProperty(baseID, "field")
	if p1 == p2 {
		t.Error("each Property occurrence should get its own slot, even for the same base+name")
	}
	if a.Slot(p1).Kind != SlotProperty || a.Slot(p1).Base != baseID || a.Slot(p1).PropName != "field" {
		t.Errorf("Slot(p1) = %+v", a.Slot(p1))
	}

	idx := a.NewIndexed(baseID, nil)
	if a.Slot(idx).Kind != SlotIndexed || a.Slot(idx).Base != baseID {
		t.Errorf("Slot(idx) = %+v", a.Slot(idx))
	}
}

func TestStaticKindResolvesFromDefinition(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	id, _ := a.NewStatic(global, def("x"), false)

	slot := a.Slot(id)
	if !slot.StaticKind().Equal(kinds.KNumber) {
		t.Errorf("StaticKind() = %s, want number", slot.StaticKind())
	}

	prop := a.Slot(a.NewProperty(id, "f"))
	if !prop.StaticKind().Equal(kinds.KAny) {
		t.Errorf("Property slot StaticKind() = %s, want any", prop.StaticKind())
	}
}

func TestNumScopesCountsEveryCreatedScope(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	a.NewScope(global, true, ScopeFunction, nil)
	a.NewScope(global, true, ScopeFunction, nil)

	if got := a.NumScopes(); got != 3 {
		t.Errorf("NumScopes() = %d, want 3", got)
	}
}

func TestVariableNamesPreservesInsertionOrder(t *testing.T) {
	a := NewArena()
	global := a.NewScope(0, false, ScopeGlobal, nil)
	a.NewStatic(global, def("c"), false)
	a.NewStatic(global, def("a"), false)
	a.NewStatic(global, def("b"), false)

	got := a.Scope(global).VariableNames()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VariableNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
