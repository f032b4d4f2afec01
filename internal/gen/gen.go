// Package gen is GEN: it walks the analyzed program and the symbol table's
// arena and emits a relocatable object file through the LLVM SSA backend
// (tinygo.org/x/go-llvm) — context/module/builder creation, per-function IR
// building, then EmitToMemoryBuffer through a TargetMachine.
//
// GEN has three phases, splitting "what exists" from "what runs":
// initialisation declares every function in the module (internal/analyzer
// has already resolved every call site), body translation fills in the
// non-external ones, and Emit lowers the finished module to bytes.
package gen

import (
	"fmt"

	"github.com/google/uuid"
	"tinygo.org/x/go-llvm"

	"github.com/oznakn/minic/internal/analyzer"
	"github.com/oznakn/minic/internal/config"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/symbols"
)

// function pairs a declared llvm function with its type; calls through
// opaque pointers need both.
type function struct {
	typ llvm.Type
	val llvm.Value
}

// generator holds everything alive for one compilation: the LLVM handles
// that must be disposed together, plus the per-function label counter GEN
// initialisation uses for opaque `@f{N}` symbols.
type generator struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	// valType is the runtime ABI's opaque tagged Val pointer: every Mini
	// value, regardless of static Kind, crosses the ABI as a pointer into
	// the runtime's heap.
	valType llvm.Type

	st *analyzer.SymbolTable

	// funcs maps a Function-kind Static slot to its declared llvm function,
	// populated entirely during initialisation before any body is
	// translated, so every call site resolves regardless of declaration
	// order.
	funcs map[symbols.VariableId]function

	// globals maps a global-scope non-function Static slot to its LLVM
	// global variable (see declareGlobals in body.go).
	globals map[symbols.VariableId]llvm.Value

	runtime runtimeFuncs
	labelN  int
}

// Generate runs every GEN phase over st and returns the relocatable object
// bytes for targetTriple.
func Generate(st *analyzer.SymbolTable, targetTriple string, optimize bool) ([]byte, error) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	builder := ctx.NewBuilder()
	defer builder.Dispose()

	mod := ctx.NewModule("mini")
	defer mod.Dispose()

	g := &generator{
		ctx:     ctx,
		mod:     mod,
		builder: builder,
		valType: llvm.PointerType(ctx.Int8Type(), 0),
		st:      st,
		funcs:   make(map[symbols.VariableId]function),
	}
	g.declareRuntime()
	g.declareBuildID()
	g.declareGlobals()

	if err := g.declareFunctions(); err != nil {
		return nil, err
	}
	if err := g.translateFunctions(); err != nil {
		return nil, err
	}

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return nil, &mcerr.CodeGenError{Msg: err.Error()}
	}

	return Emit(mod, targetTriple, optimize)
}

// Emit lowers a finished module to a relocatable object for targetTriple.
// An empty targetTriple means "use the host's default".
func Emit(mod llvm.Module, targetTriple string, optimize bool) ([]byte, error) {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargets()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	triple := targetTriple
	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return nil, &mcerr.CodeGenError{Msg: fmt.Sprintf("resolving target %q: %s", triple, err)}
	}

	level := llvm.CodeGenLevelNone
	if optimize {
		level = llvm.CodeGenLevelAggressive
	}

	tm := target.CreateTargetMachine(triple, "generic", "", level, llvm.RelocPIC, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	mod.SetDataLayout(td.String())
	mod.SetTarget(tm.Triple())

	buf, err := tm.EmitToMemoryBuffer(mod, llvm.ObjectFile)
	if err != nil {
		return nil, &mcerr.CodeGenError{Msg: fmt.Sprintf("emitting object: %s", err)}
	}
	defer buf.Dispose()

	out := make([]byte, len(buf.Bytes()))
	copy(out, buf.Bytes())
	return out, nil
}

// declareBuildID embeds a fresh build identifier as an internal global
// string constant, so object files from different compiler invocations can
// be distinguished once linked together.
func (g *generator) declareBuildID() {
	id := uuid.NewString()
	strVal := g.ctx.ConstString(id, true)
	gv := llvm.AddGlobal(g.mod, strVal.Type(), config.BuildIDSymbolName)
	gv.SetInitializer(strVal)
	gv.SetLinkage(llvm.InternalLinkage)
	gv.SetGlobalConstant(true)
}

// runtimeFuncs is every runtime support function GEN may call, declared
// once up front with ExternalWeak linkage — the actual definitions live in
// the runtime support library linked in at the end.
type runtimeFuncs struct {
	newNull, newBool, newInt, newFloat, newStr, newArray, newObject function

	opPos, opNeg, opNot                                               function
	opAdd, opSub, opMul, opDiv, opMod                                 function
	opEq, opNeq, opSeq, opSneq, opLt, opLte, opGt, opGte, opAnd, opOr function

	arrayPush, objectSet, objectGet, get, set function

	getType function

	link, unlink function
}

func (g *generator) declareRuntime() {
	i1 := g.ctx.Int1Type()
	i64 := g.ctx.Int64Type()
	f64 := g.ctx.DoubleType()
	str := llvm.PointerType(g.ctx.Int8Type(), 0)
	val := g.valType

	decl := func(name string, ret llvm.Type, params ...llvm.Type) function {
		typ := llvm.FunctionType(ret, params, false)
		fn := llvm.AddFunction(g.mod, name, typ)
		fn.SetLinkage(llvm.ExternalWeakLinkage)
		return function{typ: typ, val: fn}
	}

	var r runtimeFuncs
	r.newNull = decl(config.FnNewNullVal, val)
	r.newBool = decl(config.FnNewBoolVal, val, i1)
	r.newInt = decl(config.FnNewIntVal, val, i64)
	r.newFloat = decl(config.FnNewFloatVal, val, f64)
	r.newStr = decl(config.FnNewStrVal, val, str)
	r.newArray = decl(config.FnNewArrayVal, val, i64)
	r.newObject = decl(config.FnNewObjectVal, val)

	r.opPos = decl(config.FnOpPos, val, val)
	r.opNeg = decl(config.FnOpNeg, val, val)
	r.opNot = decl(config.FnOpNot, val, val)

	r.opAdd = decl(config.FnOpAdd, val, val, val)
	r.opSub = decl(config.FnOpSub, val, val, val)
	r.opMul = decl(config.FnOpMul, val, val, val)
	r.opDiv = decl(config.FnOpDiv, val, val, val)
	r.opMod = decl(config.FnOpMod, val, val, val)
	r.opEq = decl(config.FnOpEq, val, val, val)
	r.opNeq = decl(config.FnOpNeq, val, val, val)
	r.opSeq = decl(config.FnOpSeq, val, val, val)
	r.opSneq = decl(config.FnOpSneq, val, val, val)
	r.opLt = decl(config.FnOpLt, val, val, val)
	r.opLte = decl(config.FnOpLte, val, val, val)
	r.opGt = decl(config.FnOpGt, val, val, val)
	r.opGte = decl(config.FnOpGte, val, val, val)
	r.opAnd = decl(config.FnOpAnd, val, val, val)
	r.opOr = decl(config.FnOpOr, val, val, val)

	r.arrayPush = decl(config.FnArrayPush, val, val, val)
	r.objectSet = decl(config.FnObjectSet, val, val, str, val)
	r.objectGet = decl(config.FnObjectGet, val, val, str)
	r.get = decl(config.FnGet, val, val, val)
	r.set = decl(config.FnSet, val, val, val, val)

	r.getType = decl(config.FnGetType, val, val)

	r.link = decl(config.FnLinkVal, g.ctx.VoidType(), val)
	r.unlink = decl(config.FnUnlinkVal, g.ctx.VoidType(), val)

	g.runtime = r
}
