// Package types implements Atlas's closed type system: Number, String,
// Bool, Void, Null, Array(T), and Function(params, ret). There is no
// polymorphism and no unification — every type is fully known at each
// AST node once the checker has visited it, so there are no type
// variables or substitutions anywhere in this package.
package types

import "strings"

// Type is the result of type checking one AST node.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the five scalar/void kinds.
type Primitive struct {
	Name string // "number" | "string" | "bool" | "void" | "null"
}

func (Primitive) isType()          {}
func (p Primitive) String() string { return p.Name }

var (
	Number = Primitive{"number"}
	String = Primitive{"string"}
	Bool   = Primitive{"bool"}
	Void   = Primitive{"void"}
	Null   = Primitive{"null"}
)

// Array is invariant in its element type.
type Array struct {
	Elem Type
}

func (Array) isType()          {}
func (a Array) String() string { return a.Elem.String() + "[]" }

// Function is a first-class function type; Atlas has no closures, so this
// type never carries captured-environment information.
type Function struct {
	Params []Type
	Ret    Type
}

func (Function) isType() {}
func (f Function) String() string {
	var b strings.Builder
	b.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(f.Ret.String())
	return b.String()
}

// Equal reports structural equality. Array is invariant in T; Function
// compares parameter lists and return type positionally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.Name == bv.Name
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Elem, bv.Elem)
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Params) != len(bv.Params) || !Equal(av.Ret, bv.Ret) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is the number type.
func IsNumeric(t Type) bool { return Equal(t, Number) }
