package gen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/oznakn/minic/internal/ast"
)

// translateExpr lowers an expression to IR: every case returns a val_type
// pointer.
func (g *generator) translateExpr(fctx *funcCtx, expr ast.Expression) (llvm.Value, error) {
	switch e := expr.(type) {
	case *ast.ConstantExpression:
		return g.translateConstant(e.Value)

	case *ast.VariableExpression:
		vid := g.st.IdentifierRef[e.Id]
		return g.loadVar(fctx, vid)

	case *ast.AssignmentExpression:
		v, err := g.translateExpr(fctx, e.Value)
		if err != nil {
			return llvm.Value{}, err
		}
		vid := g.st.IdentifierRef[e.Target]
		if err := g.storeVar(fctx, vid, v); err != nil {
			return llvm.Value{}, err
		}
		return v, nil

	case *ast.UnaryExpression:
		v, err := g.translateExpr(fctx, e.Operand)
		if err != nil {
			return llvm.Value{}, err
		}
		switch e.Op {
		case ast.UnaryPlus:
			return g.emitCall(g.runtime.opPos, v), nil
		case ast.UnaryMinus:
			return g.emitCall(g.runtime.opNeg, v), nil
		case ast.UnaryNot:
			return g.emitCall(g.runtime.opNot, v), nil
		default:
			return llvm.Value{}, fmt.Errorf("gen: unhandled unary operator %v", e.Op)
		}

	case *ast.BinaryExpression:
		l, err := g.translateExpr(fctx, e.Left)
		if err != nil {
			return llvm.Value{}, err
		}
		r, err := g.translateExpr(fctx, e.Right)
		if err != nil {
			return llvm.Value{}, err
		}
		fn, err := g.binaryRuntimeFunc(e.Op)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.emitCall(fn, l, r), nil

	case *ast.CallExpression:
		return g.translateCall(fctx, e)

	case *ast.ArrayExpression:
		arr := g.emitCall(g.runtime.newArray, llvm.ConstInt(g.ctx.Int64Type(), uint64(len(e.Items)), false))
		for _, item := range e.Items {
			v, err := g.translateExpr(fctx, item)
			if err != nil {
				return llvm.Value{}, err
			}
			arr = g.emitCall(g.runtime.arrayPush, arr, v)
		}
		return arr, nil

	case *ast.ObjectExpression:
		obj := g.emitCall(g.runtime.newObject)
		for _, pair := range e.Pairs {
			v, err := g.translateExpr(fctx, pair.Value)
			if err != nil {
				return llvm.Value{}, err
			}
			name := g.builder.CreateGlobalStringPtr(pair.Key, "prop")
			obj = g.emitCall(g.runtime.objectSet, obj, name, v)
		}
		return obj, nil

	case *ast.TypeOfExpression:
		v, err := g.translateExpr(fctx, e.Operand)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.emitCall(g.runtime.getType, v), nil

	default:
		return llvm.Value{}, fmt.Errorf("gen: unhandled expression %T", expr)
	}
}

func (g *generator) translateConstant(c ast.Constant) (llvm.Value, error) {
	switch v := c.(type) {
	case *ast.UndefinedConstant:
		return g.zero(), nil
	case *ast.NullConstant:
		return g.emitCall(g.runtime.newNull), nil
	case *ast.BooleanConstant:
		var bit uint64
		if v.Value {
			bit = 1
		}
		return g.emitCall(g.runtime.newBool, llvm.ConstInt(g.ctx.Int1Type(), bit, false)), nil
	case *ast.IntegerConstant:
		return g.emitCall(g.runtime.newInt, llvm.ConstInt(g.ctx.Int64Type(), v.Value, false)), nil
	case *ast.FloatConstant:
		return g.emitCall(g.runtime.newFloat, llvm.ConstFloat(g.ctx.DoubleType(), v.Value)), nil
	case *ast.StringConstant:
		ptr := g.builder.CreateGlobalStringPtr(v.Value, "str")
		return g.emitCall(g.runtime.newStr, ptr), nil
	default:
		return llvm.Value{}, fmt.Errorf("gen: unhandled constant %T", c)
	}
}

func (g *generator) binaryRuntimeFunc(op ast.BinaryOp) (function, error) {
	switch op {
	case ast.BinaryAdd:
		return g.runtime.opAdd, nil
	case ast.BinarySub:
		return g.runtime.opSub, nil
	case ast.BinaryMul:
		return g.runtime.opMul, nil
	case ast.BinaryDiv:
		return g.runtime.opDiv, nil
	case ast.BinaryMod:
		return g.runtime.opMod, nil
	case ast.BinaryEq:
		return g.runtime.opEq, nil
	case ast.BinaryNeq:
		return g.runtime.opNeq, nil
	case ast.BinarySeq:
		return g.runtime.opSeq, nil
	case ast.BinarySneq:
		return g.runtime.opSneq, nil
	case ast.BinaryLt:
		return g.runtime.opLt, nil
	case ast.BinaryLte:
		return g.runtime.opLte, nil
	case ast.BinaryGt:
		return g.runtime.opGt, nil
	case ast.BinaryGte:
		return g.runtime.opGte, nil
	case ast.BinaryAnd:
		return g.runtime.opAnd, nil
	case ast.BinaryOr:
		return g.runtime.opOr, nil
	default:
		return function{}, fmt.Errorf("gen: unhandled binary operator %v", op)
	}
}

// translateCall implements the rest-parameter packing rule: arguments at
// and after the first is_rest parameter are collected into a runtime array
// and passed as the final direct argument.
func (g *generator) translateCall(fctx *funcCtx, e *ast.CallExpression) (llvm.Value, error) {
	vid := g.st.IdentifierRef[e.Callee]
	fn := g.funcs[vid]
	params := g.st.Arena.Slot(vid).Definition.DeclaredKind.Params

	n := len(params)
	if len(e.Args) > n {
		n = len(e.Args)
	}

	var args []llvm.Value
	var rest []llvm.Value
	inRest := false
	for i := 0; i < n; i++ {
		var v llvm.Value
		if i < len(e.Args) {
			var err error
			v, err = g.translateExpr(fctx, e.Args[i])
			if err != nil {
				return llvm.Value{}, err
			}
		} else {
			v = g.zero()
		}
		if i < len(params) && params[i].IsRest {
			inRest = true
		}
		if inRest {
			rest = append(rest, v)
		} else {
			args = append(args, v)
		}
	}

	if inRest {
		arr := g.emitCall(g.runtime.newArray, llvm.ConstInt(g.ctx.Int64Type(), uint64(len(rest)), false))
		for _, item := range rest {
			arr = g.emitCall(g.runtime.arrayPush, arr, item)
		}
		args = append(args, arr)
	}

	return g.builder.CreateCall(fn.typ, fn.val, args, ""), nil
}
