package analyzer

import (
	"errors"
	"testing"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/parser"
	"github.com/oznakn/minic/internal/symbols"
)

func analyzeSource(t *testing.T, source string) (*SymbolTable, error) {
	t.Helper()
	prog, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parser.Parse(%q): %v", source, err)
	}
	return Analyze(prog)
}

func TestAnalyzeSimpleProgram(t *testing.T) {
	st, err := analyzeSource(t, `let x: number = 1 + 2;`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := st.Arena.Scope(st.GlobalScope).Lookup("x"); !ok {
		t.Error("expected x to be declared in the global scope")
	}
}

func TestAnalyzeInferredTypeFromInitializer(t *testing.T) {
	st, err := analyzeSource(t, `let x = "hello";`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	vid, _ := st.Arena.Scope(st.GlobalScope).Lookup("x")
	slot := st.Arena.Slot(vid)
	if !slot.Definition.DeclaredKind.Equal(kinds.KString) {
		t.Errorf("inferred DeclaredKind = %s, want string", slot.Definition.DeclaredKind)
	}
}

func TestAnalyzeFunctionCallResolvesBeforeDeclaration(t *testing.T) {
	// Forward references are legal: ST build hoists every function
	// declaration before ST visit resolves any call site.
	_, err := analyzeSource(t, `
		function main(): number {
			return helper();
		}
		function helper(): number {
			return 1;
		}
	`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
}

func TestAnalyzeUndefinedVariableErrors(t *testing.T) {
	_, err := analyzeSource(t, `let x = y;`)
	var want *mcerr.VariableNotDefined
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.VariableNotDefined", err, err)
	}
}

func TestAnalyzeDuplicateDeclarationErrors(t *testing.T) {
	_, err := analyzeSource(t, `
		let x: number = 1;
		let x: number = 2;
	`)
	var want *mcerr.VariableAlreadyDefined
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.VariableAlreadyDefined", err, err)
	}
}

func TestAnalyzeAssignToConstErrors(t *testing.T) {
	_, err := analyzeSource(t, `
		const x: number = 1;
		function main(): number {
			x = 2;
			return x;
		}
	`)
	var want *mcerr.CannotAssignConstVariable
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.CannotAssignConstVariable", err, err)
	}
}

func TestAnalyzeAssignWrongKindErrors(t *testing.T) {
	_, err := analyzeSource(t, `
		let x: number = 1;
		function main(): number {
			x = "oops";
			return 0;
		}
	`)
	var want *mcerr.InvalidAssignment
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.InvalidAssignment", err, err)
	}
}

func TestAnalyzeReturnAtGlobalScopeErrors(t *testing.T) {
	_, err := analyzeSource(t, `return 1;`)
	var want *mcerr.CannotReturnFromGlobalScope
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.CannotReturnFromGlobalScope", err, err)
	}
}

func TestAnalyzeCallingNonFunctionErrors(t *testing.T) {
	_, err := analyzeSource(t, `
		let x: number = 1;
		function main(): number {
			return x();
		}
	`)
	var want *mcerr.InvalidFunctionCall
	if !errors.As(err, &want) {
		t.Fatalf("got %v (%T), want *mcerr.InvalidFunctionCall", err, err)
	}
}

func TestAnalyzeNestedFunctionGetsOwnScope(t *testing.T) {
	st, err := analyzeSource(t, `
		function outer(): number {
			function inner(): number {
				return 1;
			}
			return inner();
		}
	`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// inner's declaration must be hoisted into some scope of the arena.
	found := false
	for i := 0; i < st.Arena.NumScopes(); i++ {
		scope := st.Arena.Scope(symbols.ScopeId(i))
		if _, ok := scope.Lookup("inner"); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected some scope to declare \"inner\"")
	}
}

func TestAnalyzeUserDeclaredMainTakesOverSyntheticSlot(t *testing.T) {
	st, err := analyzeSource(t, `
		function f(): number {
			return 1;
		}
		function main(): number {
			return f();
		}
	`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	vid, ok := st.Arena.Scope(st.GlobalScope).Lookup("main")
	if !ok {
		t.Fatal("expected main in the global scope")
	}
	if vid != st.MainFunction {
		t.Errorf("main resolved to slot %v, want the designated MainFunction slot %v", vid, st.MainFunction)
	}
	if _, ok := st.FunctionScope[st.MainFunction]; !ok {
		t.Error("expected a body scope recorded for the user-declared main")
	}
	slot := st.Arena.Slot(st.MainFunction)
	if slot.Kind != symbols.SlotStatic || slot.Definition.DeclaredKind.Tag != kinds.Function {
		t.Errorf("main slot = %+v, want a Static slot of Function kind", slot)
	}
}

func TestAnalyzeBinaryExpressionKindIsNumber(t *testing.T) {
	prog, err := parser.Parse(`
		let a: number = 2;
		let b: number = 3;
		function main(): number {
			return a + b;
		}
	`)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	st, err := Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	found := false
	for expr, k := range st.ExpressionKind {
		if _, ok := expr.(*ast.BinaryExpression); ok {
			found = true
			if !k.Equal(kinds.KNumber) {
				t.Errorf("kind of a+b = %s, want number", k)
			}
		}
	}
	if !found {
		t.Error("expected an ExpressionKind entry for a+b")
	}
}

func TestAnalyzeStringConcatenationPromotesToString(t *testing.T) {
	prog, err := parser.Parse(`
		function main(): number {
			let s: string = "hi";
			return s + "!";
		}
	`)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	st, err := Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for expr, k := range st.ExpressionKind {
		if _, ok := expr.(*ast.BinaryExpression); ok {
			if !k.Equal(kinds.KString) {
				t.Errorf("kind of s+\"!\" = %s, want string", k)
			}
		}
	}
}

func TestAnalyzeEveryVisitedExpressionHasAKind(t *testing.T) {
	// Resolution totality: after the visit phase, every expression reached
	// by traversing statements carries a recorded Kind, and every
	// identifier occurrence is bound to a slot.
	prog, err := parser.Parse(`
		let o: object = {x: 1};
		function main(): number {
			o.x = o.x + 1;
			return typeof [1, 2] === "array";
		}
	`)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	st, err := Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(st.ExpressionKind) == 0 {
		t.Fatal("expected ExpressionKind to be populated")
	}
	if len(st.IdentifierRef) == 0 {
		t.Fatal("expected IdentifierRef to be populated")
	}
	for id, vid := range st.IdentifierRef {
		slot := st.Arena.Slot(vid)
		switch id.(type) {
		case *ast.PropertyIdentifier:
			if slot.Kind != symbols.SlotProperty {
				t.Errorf("property identifier bound to %v slot", slot.Kind)
			}
		case *ast.IndexIdentifier:
			if slot.Kind != symbols.SlotIndexed {
				t.Errorf("index identifier bound to %v slot", slot.Kind)
			}
		}
	}
}

func TestAnalyzeArrayLiteralKind(t *testing.T) {
	prog, err := parser.Parse(`let xs = [1, 2, 3];`)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	st, err := Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	vid, _ := st.Arena.Scope(st.GlobalScope).Lookup("xs")
	slot := st.Arena.Slot(vid)
	if slot.Definition.DeclaredKind.Tag != kinds.Array {
		t.Fatalf("DeclaredKind = %s, want an array", slot.Definition.DeclaredKind)
	}
	// Array literals do not commit to an element Kind; indexing into one
	// reports Any and the runtime carries the real tags.
	if !slot.Definition.DeclaredKind.Element.Equal(kinds.KAny) {
		t.Errorf("element kind = %s, want any", slot.Definition.DeclaredKind.Element)
	}
}

func TestAnalyzeArrayLiteralFitsAnnotatedArray(t *testing.T) {
	_, err := analyzeSource(t, `let xs: number[] = [1, 2, 3];`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
}
