package gen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/config"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/symbols"
)

// declareFunctions implements GEN initialisation: every Function-kind
// Static slot gets an LLVM function declaration before any body is
// translated, so forward references and mutual recursion between functions
// resolve regardless of source order.
func (g *generator) declareFunctions() error {
	for i := 0; i < g.st.Arena.NumScopes(); i++ {
		sc := g.st.Arena.Scope(symbols.ScopeId(i))
		for _, name := range sc.VariableNames() {
			vid, _ := sc.Lookup(name)
			slot := g.st.Arena.Slot(vid)
			if slot.Kind != symbols.SlotStatic || slot.Definition.DeclaredKind.Tag != kinds.Function {
				continue
			}
			g.declareFunction(vid, slot)
		}
	}
	return nil
}

func (g *generator) declareFunction(vid symbols.VariableId, slot symbols.VariableSlot) {
	def := slot.Definition
	fk := def.DeclaredKind

	paramTypes := make([]llvm.Type, len(fk.Params))
	for i := range fk.Params {
		paramTypes[i] = g.valType
	}

	fnType := llvm.FunctionType(g.valType, paramTypes, false)

	symbol := g.symbolFor(vid, def)
	if existing := g.mod.NamedFunction(symbol); !existing.IsNil() {
		// Already present, e.g. an external declaration repeated for a
		// symbol the runtime declarations brought in. Reuse it.
		g.funcs[vid] = function{typ: fnType, val: existing}
		return
	}
	fn := llvm.AddFunction(g.mod, symbol, fnType)

	if def.IsExternal {
		fn.SetLinkage(llvm.ExternalWeakLinkage)
	} else {
		fn.SetLinkage(llvm.ExternalLinkage)
	}

	g.funcs[vid] = function{typ: fnType, val: fn}
}

// symbolFor decides the emitted symbol for vid: `main` for the designated
// entry point, the source name for external declarations (they must match
// the linked-in symbol), otherwise an opaque `@f{N}` label.
func (g *generator) symbolFor(vid symbols.VariableId, def *ast.VariableDefinition) string {
	if vid == g.st.MainFunction {
		return config.MainSymbolName
	}
	if def.IsExternal {
		return def.Name
	}
	label := fmt.Sprintf("@f%d", g.labelN)
	g.labelN++
	return label
}
