package gen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/symbols"
)

// funcCtx is the per-function translation state: the alloca for every
// tracked stack slot declared directly in the function's own scope, and the
// order they were allocated in (so the implicit end-of-function return and
// every explicit Return can unlink_val them all).
type funcCtx struct {
	fn      llvm.Value
	slots   map[symbols.VariableId]llvm.Value
	tracked []symbols.VariableId
}

// declareGlobals gives every non-function Static slot in the global scope
// its own LLVM global variable, zero-initialised. Top-level `let`/`const`
// initializers run once, at the top of `main` (see translateFunctions),
// storing into these globals rather than per-call stack slots, so a global
// is visible from every function, not just main.
func (g *generator) declareGlobals() {
	g.globals = make(map[symbols.VariableId]llvm.Value)
	global := g.st.Arena.Scope(g.st.GlobalScope)
	for _, name := range global.VariableNames() {
		vid, _ := global.Lookup(name)
		slot := g.st.Arena.Slot(vid)
		if slot.Kind != symbols.SlotStatic || slot.Definition.DeclaredKind.Tag == kinds.Function {
			continue
		}
		gv := llvm.AddGlobal(g.mod, g.valType, name)
		gv.SetInitializer(llvm.ConstNull(g.valType))
		gv.SetLinkage(llvm.InternalLinkage)
		g.globals[vid] = gv
	}
}

// translateFunctions implements GEN body translation for every
// non-external function. The designated main function additionally runs
// the global scope's statements first (see declareGlobals), before the
// statements of its own body — if the source declared one at all.
func (g *generator) translateFunctions() error {
	for i := 0; i < g.st.Arena.NumScopes(); i++ {
		scopeId := symbols.ScopeId(i)
		sc := g.st.Arena.Scope(scopeId)
		for _, name := range sc.VariableNames() {
			vid, _ := sc.Lookup(name)
			slot := g.st.Arena.Slot(vid)
			if slot.Kind != symbols.SlotStatic || slot.Definition.DeclaredKind.Tag != kinds.Function || slot.Definition.IsExternal {
				continue
			}
			bodyScope, hasBody := g.st.FunctionScope[vid]
			var scopes []symbols.ScopeId
			switch {
			case vid == g.st.MainFunction && hasBody:
				scopes = []symbols.ScopeId{g.st.GlobalScope, bodyScope}
			case vid == g.st.MainFunction:
				scopes = []symbols.ScopeId{g.st.GlobalScope}
			case hasBody:
				scopes = []symbols.ScopeId{bodyScope}
			default:
				return &mcerr.CodeGenError{Msg: fmt.Sprintf("no body scope recorded for function %q", slot.Definition.Name)}
			}
			if err := g.translateFunctionBody(g.funcs[vid], scopes); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) translateFunctionBody(fn function, scopes []symbols.ScopeId) error {
	entry := g.ctx.AddBasicBlock(fn.val, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	fctx := &funcCtx{fn: fn.val, slots: make(map[symbols.VariableId]llvm.Value)}
	paramIdx := 0

	for _, scopeId := range scopes {
		if scopeId == g.st.GlobalScope {
			// Global-scope variables live in the LLVM globals declareGlobals
			// created, not in per-call allocas; their Definition statements
			// (if any) store into them below.
			continue
		}
		sc := g.st.Arena.Scope(scopeId)
		for _, name := range sc.VariableNames() {
			vid, _ := sc.Lookup(name)
			slot := g.st.Arena.Slot(vid)
			if slot.Kind != symbols.SlotStatic || slot.Definition.DeclaredKind.Tag == kinds.Function {
				continue
			}
			alloc := g.builder.CreateAlloca(g.valType, name)
			fctx.slots[vid] = alloc
			fctx.tracked = append(fctx.tracked, vid)
			if slot.IsParameter {
				arg := fn.val.Param(paramIdx)
				paramIdx++
				g.builder.CreateStore(arg, alloc)
				g.emitCall(g.runtime.link, arg)
			} else {
				g.builder.CreateStore(g.zero(), alloc)
			}
		}
	}

	for _, scopeId := range scopes {
		for _, stmt := range g.st.Arena.Scope(scopeId).Statements {
			if err := g.translateStmt(fctx, stmt); err != nil {
				return err
			}
		}
	}

	g.unlinkTracked(fctx)
	g.builder.CreateRet(g.zero())
	return nil
}

func (g *generator) zero() llvm.Value { return llvm.ConstNull(g.valType) }

func (g *generator) emitCall(fn function, args ...llvm.Value) llvm.Value {
	return g.builder.CreateCall(fn.typ, fn.val, args, "")
}

// unlinkTracked releases every tracked stack slot's current value. Called
// on every return path, explicit or implicit, keeping link_val and
// unlink_val balanced per slot.
func (g *generator) unlinkTracked(fctx *funcCtx) {
	for _, vid := range fctx.tracked {
		v := g.builder.CreateLoad(g.valType, fctx.slots[vid], "")
		g.emitCall(g.runtime.unlink, v)
	}
}

func (g *generator) slotPtr(fctx *funcCtx, vid symbols.VariableId) llvm.Value {
	if gv, ok := g.globals[vid]; ok {
		return gv
	}
	return fctx.slots[vid]
}

func (g *generator) translateStmt(fctx *funcCtx, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		return nil

	case *ast.ExpressionStatement:
		_, err := g.translateExpr(fctx, s.Expr)
		return err

	case *ast.DefinitionStatement:
		vid := g.st.DefinitionRef[s.Def]
		ptr := g.slotPtr(fctx, vid)
		v := g.zero()
		if s.Initializer != nil {
			var err error
			v, err = g.translateExpr(fctx, s.Initializer)
			if err != nil {
				return err
			}
		}
		g.emitCall(g.runtime.link, v)
		g.builder.CreateStore(v, ptr)
		return nil

	case *ast.FunctionStatement:
		return nil

	case *ast.ReturnStatement:
		v := g.zero()
		if s.Expr != nil {
			var err error
			v, err = g.translateExpr(fctx, s.Expr)
			if err != nil {
				return err
			}
		}
		g.unlinkTracked(fctx)
		g.builder.CreateRet(v)
		// Whatever follows the return in source is dead code, but the
		// builder still needs a legal insertion point for it.
		unreachable := g.ctx.AddBasicBlock(fctx.fn, "")
		g.builder.SetInsertPointAtEnd(unreachable)
		return nil

	default:
		return fmt.Errorf("gen: unhandled statement %T", stmt)
	}
}

// loadVar resolves vid to a tagged Val, recursing through Property/Indexed
// bases.
func (g *generator) loadVar(fctx *funcCtx, vid symbols.VariableId) (llvm.Value, error) {
	slot := g.st.Arena.Slot(vid)
	switch slot.Kind {
	case symbols.SlotStatic:
		return g.builder.CreateLoad(g.valType, g.slotPtr(fctx, vid), ""), nil

	case symbols.SlotProperty:
		base, err := g.loadVar(fctx, slot.Base)
		if err != nil {
			return llvm.Value{}, err
		}
		name := g.builder.CreateGlobalStringPtr(slot.PropName, "prop")
		return g.emitCall(g.runtime.objectGet, base, name), nil

	case symbols.SlotIndexed:
		base, err := g.loadVar(fctx, slot.Base)
		if err != nil {
			return llvm.Value{}, err
		}
		idx, err := g.translateExpr(fctx, slot.IndexExpr)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.emitCall(g.runtime.get, base, idx), nil

	default:
		return llvm.Value{}, fmt.Errorf("gen: unhandled slot kind %v", slot.Kind)
	}
}

// storeVar resolves vid and stores v into it.
func (g *generator) storeVar(fctx *funcCtx, vid symbols.VariableId, v llvm.Value) error {
	slot := g.st.Arena.Slot(vid)
	switch slot.Kind {
	case symbols.SlotStatic:
		ptr := g.slotPtr(fctx, vid)
		old := g.builder.CreateLoad(g.valType, ptr, "")
		g.emitCall(g.runtime.unlink, old)
		g.emitCall(g.runtime.link, v)
		g.builder.CreateStore(v, ptr)
		return nil

	case symbols.SlotProperty:
		base, err := g.loadVar(fctx, slot.Base)
		if err != nil {
			return err
		}
		name := g.builder.CreateGlobalStringPtr(slot.PropName, "prop")
		g.emitCall(g.runtime.objectSet, base, name, v)
		return nil

	case symbols.SlotIndexed:
		base, err := g.loadVar(fctx, slot.Base)
		if err != nil {
			return err
		}
		idx, err := g.translateExpr(fctx, slot.IndexExpr)
		if err != nil {
			return err
		}
		g.emitCall(g.runtime.set, base, idx, v)
		return nil

	default:
		return fmt.Errorf("gen: unhandled slot kind %v", slot.Kind)
	}
}
