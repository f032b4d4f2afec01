package gen

import (
	"testing"

	"github.com/oznakn/minic/internal/analyzer"
	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
)

func TestSymbolForNamingScheme(t *testing.T) {
	st := analyzer.New()
	g := &generator{st: st}

	mainSlot := st.Arena.Slot(st.MainFunction)
	if got := g.symbolFor(st.MainFunction, mainSlot.Definition); got != "main" {
		t.Errorf("symbolFor(main) = %q, want %q", got, "main")
	}

	extDef := &ast.VariableDefinition{Name: "puts", DeclaredKind: kinds.NewFunction(nil, kinds.KNumber), IsExternal: true}
	extID, err := st.Arena.NewStatic(st.GlobalScope, extDef, false)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	if got := g.symbolFor(extID, extDef); got != "puts" {
		t.Errorf("symbolFor(external) = %q, want the source name", got)
	}

	// Ordinary user functions get opaque monotonically numbered labels.
	for i, name := range []string{"f", "g"} {
		def := &ast.VariableDefinition{Name: name, DeclaredKind: kinds.NewFunction(nil, kinds.KNumber)}
		id, err := st.Arena.NewStatic(st.GlobalScope, def, false)
		if err != nil {
			t.Fatalf("NewStatic: %v", err)
		}
		want := []string{"@f0", "@f1"}[i]
		if got := g.symbolFor(id, def); got != want {
			t.Errorf("symbolFor(%s) = %q, want %q", name, got, want)
		}
	}
}
