package analyzer

import (
	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/symbols"
)

// build is the ST build phase: a single recursive pass that hoists every
// Function and Definition declaration into its enclosing scope, descending
// into a function's own child scope (with its parameters pre-bound) as soon
// as the function's own slot has been inserted. This is what lets a call to
// a function declared later in the same scope resolve successfully: build
// finishes for the whole tree before visit ever runs, so every scope's name
// map is complete by the time any lookup happens.
func (st *SymbolTable) build(scope symbols.ScopeId, statements []ast.Statement) error {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			var id symbols.VariableId
			if scope == st.GlobalScope && s.Def.Name == "main" {
				// The global scope already holds the synthetic main slot;
				// a source-level `function main` takes it over instead of
				// colliding with it. Only once, though.
				if _, taken := st.FunctionScope[st.MainFunction]; taken {
					return &mcerr.VariableAlreadyDefined{Name: s.Def.Name, Begin: s.Def.Begin, End: s.Def.End}
				}
				id = st.MainFunction
				st.Arena.Rebind(id, s.Def)
			} else {
				var err error
				id, err = st.Arena.NewStatic(scope, s.Def, false)
				if err != nil {
					return err
				}
			}
			st.DefinitionRef[s.Def] = id

			if !s.Def.IsExternal {
				child := st.Arena.NewScope(scope, true, symbols.ScopeFunction, s.Body)
				st.FunctionScope[id] = child
				for _, param := range s.Parameters {
					pid, err := st.Arena.NewStatic(child, param, true)
					if err != nil {
						return err
					}
					st.DefinitionRef[param] = pid
				}
				if err := st.build(child, s.Body); err != nil {
					return err
				}
			}

		case *ast.DefinitionStatement:
			id, err := st.Arena.NewStatic(scope, s.Def, false)
			if err != nil {
				return err
			}
			st.DefinitionRef[s.Def] = id

		default:
			// ExpressionStatement, ReturnStatement, EmptyStatement: ignored
			// by build.
		}
	}
	return nil
}
