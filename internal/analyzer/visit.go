package analyzer

import (
	"fmt"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/symbols"
)

// visit is the ST visit phase: every scope the build pass created is walked
// in arena order, resolving identifiers, inferring and checking Kinds, and
// filling in the three cross-reference tables.
func (st *SymbolTable) visit() error {
	for i := 0; i < st.Arena.NumScopes(); i++ {
		scope := symbols.ScopeId(i)
		sc := st.Arena.Scope(scope)
		for _, stmt := range sc.Statements {
			if err := st.visitStatement(scope, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st *SymbolTable) visitStatement(scope symbols.ScopeId, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		return nil

	case *ast.ExpressionStatement:
		_, err := st.visitExpression(scope, s.Expr)
		return err

	case *ast.DefinitionStatement:
		var valueKind kinds.Kind
		if s.Initializer != nil {
			k, err := st.visitExpression(scope, s.Initializer)
			if err != nil {
				return err
			}
			valueKind = k
		}
		if s.Def.KindIsInferred {
			// parser guarantees Initializer != nil whenever no annotation
			// was given (mcerr.VariableTypeCannotBeInfered otherwise).
			s.Def.DeclaredKind = valueKind
			return nil
		}
		if s.Initializer != nil && !assignable(s.Def.DeclaredKind, valueKind) {
			return &mcerr.InvalidAssignment{
				Name: s.Def.Name, Expected: s.Def.DeclaredKind.String(), Got: valueKind.String(),
				Begin: s.Begin, End: s.End,
			}
		}
		return nil

	case *ast.FunctionStatement:
		// The declaration itself needs no further work here; its body (if
		// any) is its own scope, already queued in arena order by build.
		return nil

	case *ast.ReturnStatement:
		if st.Arena.Scope(scope).Kind == symbols.ScopeGlobal {
			return &mcerr.CannotReturnFromGlobalScope{Begin: s.Begin, End: s.End}
		}
		if s.Expr != nil {
			if _, err := st.visitExpression(scope, s.Expr); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("analyzer: unhandled statement %T", stmt)
	}
}

func (st *SymbolTable) visitExpression(scope symbols.ScopeId, expr ast.Expression) (kinds.Kind, error) {
	switch e := expr.(type) {
	case *ast.ConstantExpression:
		k := e.Value.GetKind()
		st.ExpressionKind[expr] = k
		return k, nil

	case *ast.VariableExpression:
		_, k, err := st.resolveIdentifier(scope, e.Id)
		if err != nil {
			return kinds.Kind{}, err
		}
		st.ExpressionKind[expr] = k
		return k, nil

	case *ast.CallExpression:
		vid, k, err := st.resolveIdentifier(scope, e.Callee)
		if err != nil {
			return kinds.Kind{}, err
		}
		if k.Tag != kinds.Function {
			b, end := e.Callee.Range()
			return kinds.Kind{}, &mcerr.InvalidFunctionCall{Name: calleeName(e.Callee), Begin: b, End: end}
		}
		for _, arg := range e.Args {
			// Arity and per-argument Kind checking are left to the runtime;
			// arguments are still visited so nested identifiers resolve and
			// every sub-expression gets an ExpressionKind entry.
			if _, err := st.visitExpression(scope, arg); err != nil {
				return kinds.Kind{}, err
			}
		}
		ret := *st.Arena.Slot(vid).Definition.DeclaredKind.ReturnOf
		st.ExpressionKind[expr] = ret
		return ret, nil

	case *ast.AssignmentExpression:
		vid, targetKind, err := st.resolveIdentifier(scope, e.Target)
		if err != nil {
			return kinds.Kind{}, err
		}
		slot := st.Arena.Slot(vid)
		if slot.Kind == symbols.SlotStatic && !slot.Definition.IsWritable {
			b, end := e.Target.Range()
			return kinds.Kind{}, &mcerr.CannotAssignConstVariable{Name: slot.Definition.Name, Begin: b, End: end}
		}
		valueKind, err := st.visitExpression(scope, e.Value)
		if err != nil {
			return kinds.Kind{}, err
		}
		if slot.Kind == symbols.SlotStatic && !assignable(targetKind, valueKind) {
			b, end := e.Target.Range()
			return kinds.Kind{}, &mcerr.InvalidAssignment{
				Name: slot.Definition.Name, Expected: targetKind.String(), Got: valueKind.String(),
				Begin: b, End: end,
			}
		}
		st.ExpressionKind[expr] = valueKind
		return valueKind, nil

	case *ast.UnaryExpression:
		// A unary operator does not change the operand's static Kind; the
		// runtime builtin decides the actual result.
		k, err := st.visitExpression(scope, e.Operand)
		if err != nil {
			return kinds.Kind{}, err
		}
		st.ExpressionKind[expr] = k
		return k, nil

	case *ast.BinaryExpression:
		left, err := st.visitExpression(scope, e.Left)
		if err != nil {
			return kinds.Kind{}, err
		}
		right, err := st.visitExpression(scope, e.Right)
		if err != nil {
			return kinds.Kind{}, err
		}
		k := left.OperationResult(right)
		st.ExpressionKind[expr] = k
		return k, nil

	case *ast.ArrayExpression:
		for _, item := range e.Items {
			if _, err := st.visitExpression(scope, item); err != nil {
				return kinds.Kind{}, err
			}
		}
		k := kinds.NewArray(kinds.KAny)
		st.ExpressionKind[expr] = k
		return k, nil

	case *ast.ObjectExpression:
		for _, pair := range e.Pairs {
			if _, err := st.visitExpression(scope, pair.Value); err != nil {
				return kinds.Kind{}, err
			}
		}
		st.ExpressionKind[expr] = kinds.KObject
		return kinds.KObject, nil

	case *ast.TypeOfExpression:
		if _, err := st.visitExpression(scope, e.Operand); err != nil {
			return kinds.Kind{}, err
		}
		st.ExpressionKind[expr] = kinds.KString
		return kinds.KString, nil

	default:
		return kinds.Kind{}, fmt.Errorf("analyzer: unhandled expression %T", expr)
	}
}

// resolveIdentifier resolves id within scope, creating a fresh Property or
// Indexed slot for each occurrence, and records the
// identifier_ref entry.
func (st *SymbolTable) resolveIdentifier(scope symbols.ScopeId, id ast.Identifier) (symbols.VariableId, kinds.Kind, error) {
	switch t := id.(type) {
	case *ast.NameIdentifier:
		vid, err := st.Arena.LookupInScopeChain(scope, t.Name)
		if err != nil {
			return 0, kinds.Kind{}, &mcerr.VariableNotDefined{Name: t.Name, Begin: t.Begin, End: t.End}
		}
		st.IdentifierRef[id] = vid
		return vid, st.Arena.Slot(vid).StaticKind(), nil

	case *ast.PropertyIdentifier:
		baseId, _, err := st.resolveIdentifier(scope, t.Base)
		if err != nil {
			return 0, kinds.Kind{}, err
		}
		vid := st.Arena.NewProperty(baseId, t.Property)
		st.IdentifierRef[id] = vid
		return vid, kinds.KAny, nil

	case *ast.IndexIdentifier:
		baseId, baseKind, err := st.resolveIdentifier(scope, t.Base)
		if err != nil {
			return 0, kinds.Kind{}, err
		}
		if _, err := st.visitExpression(scope, t.Index); err != nil {
			return 0, kinds.Kind{}, err
		}
		vid := st.Arena.NewIndexed(baseId, t.Index)
		st.IdentifierRef[id] = vid
		elem := kinds.KAny
		if baseKind.Tag == kinds.Array {
			elem = *baseKind.Element
		}
		return vid, elem, nil

	default:
		return 0, kinds.Kind{}, fmt.Errorf("analyzer: unhandled identifier %T", id)
	}
}

// assignable reports whether a value of Kind actual may be stored into a
// slot declared as Kind declared. Any accepts everything, at any depth —
// an `any[]` value fits a `number[]` slot, since array literals carry
// element Kind Any. Otherwise the Kinds must match exactly.
func assignable(declared, actual kinds.Kind) bool {
	if declared.Tag == kinds.Any || actual.Tag == kinds.Any {
		return true
	}
	if declared.Tag == kinds.Array && actual.Tag == kinds.Array {
		return assignable(*declared.Element, *actual.Element)
	}
	return declared.Equal(actual)
}

func calleeName(id ast.Identifier) string {
	switch t := id.(type) {
	case *ast.NameIdentifier:
		return t.Name
	case *ast.PropertyIdentifier:
		return calleeName(t.Base) + "." + t.Property
	case *ast.IndexIdentifier:
		return calleeName(t.Base) + "[]"
	default:
		return "?"
	}
}
