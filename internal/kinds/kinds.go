// Package kinds implements Mini's static type lattice.
//
// A Kind is a closed sum — Undefined, Null, Any, Boolean, String, Number,
// Object, Array{element}, Function{parameters,return} — with no generics
// and no user-defined type constructors, no type variables, and no
// unification: the Kind lattice is a closed switch, not an open interface
// hierarchy needing substitution or unification.
package kinds

import "fmt"

// Tag identifies which Kind variant a value holds.
type Tag int

const (
	Undefined Tag = iota
	Null
	Any
	Boolean
	String
	Number
	Object
	Array
	Function
)

// Kind is Mini's static type. Array and Function carry extra payload;
// the other tags are singletons.
type Kind struct {
	Tag      Tag
	Element  *Kind           // set when Tag == Array
	Params   []ParameterKind // set when Tag == Function
	ReturnOf *Kind           // set when Tag == Function
}

// ParameterKind describes one function parameter's Kind and modifiers.
// At most one ParameterKind in a parameter list may have IsRest set, and
// if present it must be last.
type ParameterKind struct {
	Kind       Kind
	IsRest     bool
	IsOptional bool
}

var (
	KUndefined = Kind{Tag: Undefined}
	KNull      = Kind{Tag: Null}
	KAny       = Kind{Tag: Any}
	KBoolean   = Kind{Tag: Boolean}
	KString    = Kind{Tag: String}
	KNumber    = Kind{Tag: Number}
	KObject    = Kind{Tag: Object}
)

// NewArray builds an Array Kind with the given element Kind.
func NewArray(element Kind) Kind {
	el := element
	return Kind{Tag: Array, Element: &el}
}

// NewFunction builds a Function Kind.
func NewFunction(params []ParameterKind, ret Kind) Kind {
	r := ret
	return Kind{Tag: Function, Params: params, ReturnOf: &r}
}

// Equal reports whether k and other denote the same Kind.
func (k Kind) Equal(other Kind) bool {
	if k.Tag != other.Tag {
		return false
	}
	switch k.Tag {
	case Array:
		return k.Element.Equal(*other.Element)
	case Function:
		if len(k.Params) != len(other.Params) {
			return false
		}
		for i := range k.Params {
			if !k.Params[i].Kind.Equal(other.Params[i].Kind) ||
				k.Params[i].IsRest != other.Params[i].IsRest ||
				k.Params[i].IsOptional != other.Params[i].IsOptional {
				return false
			}
		}
		return k.ReturnOf.Equal(*other.ReturnOf)
	default:
		return true
	}
}

func (k Kind) String() string {
	switch k.Tag {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Any:
		return "any"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Number:
		return "number"
	case Object:
		return "object"
	case Array:
		return fmt.Sprintf("%s[]", k.Element.String())
	case Function:
		return fmt.Sprintf("Function(%d) -> %s", len(k.Params), k.ReturnOf.String())
	default:
		return "?"
	}
}

// OperationResult implements the binary-operator result lattice:
// if a==b, the result is a; else if either operand is String, the result is
// String; else if both are Number, the result is Number; else String.
func (a Kind) OperationResult(b Kind) Kind {
	if a.Equal(b) {
		return a
	}
	if a.Tag == String || b.Tag == String {
		return KString
	}
	if a.Tag == Number && b.Tag == Number {
		return KNumber
	}
	return KString
}
