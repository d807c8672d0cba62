// Package value implements Atlas's runtime value model, shared by both
// the tree-walking interpreter and the bytecode VM. Keeping exactly one
// Value representation for both engines is what makes the interpreter/VM
// parity guarantee mechanical: equality and the canonical string form
// live here once. Arithmetic, ordering comparisons, and their domain
// checks are implemented separately in internal/interp and internal/vm.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNull
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a tagged union over Atlas's six runtime value kinds. Number,
// String, Bool, and Null are held inline; Array and FunctionRef data live
// behind a pointer so their sharing semantics are explicit.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	arr  *Array
	fn   FunctionID
}

// FunctionID indexes into the static function table built by the binder
// and shared by both engines. Atlas has no closures, so a function value
// carries no captured environment, only this index.
type FunctionID int

// Number constructs a Value holding a finite IEEE 754 double. Callers must
// have already checked math.IsInf/IsNaN — a Number value is never NaN or
// ±Inf. Number itself does not re-validate so that the check site can
// attach the precise AT0007 span.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String constructs a Value holding a content-immutable UTF-8 string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null is the singular null Value.
var Null = Value{kind: KindNull}

// NewArray constructs a Value wrapping a freshly allocated Array with
// refcount 1.
func NewArray(elems []Value) Value {
	return Value{kind: KindArray, arr: &Array{elems: elems, refs: 1}}
}

// Function constructs a first-class function reference Value.
func Function(id FunctionID) Value { return Value{kind: KindFunction, fn: id} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNumber() bool   { return v.kind == KindNumber }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsBool() bool     { return v.kind == KindBool }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) IsArray() bool    { return v.kind == KindArray }
func (v Value) IsFunction() bool { return v.kind == KindFunction }

// AsNumber returns v's number payload without checking its kind (0 for a
// non-Number); callers are expected to have checked Kind() already (the type checker guarantees this for any
// accepted program).
func (v Value) AsNumber() float64 { return v.num }

func (v Value) AsString() string { return v.str }

func (v Value) AsBool() bool { return v.b }

func (v Value) AsArray() *Array { return v.arr }

func (v Value) AsFunction() FunctionID { return v.fn }

// Array is a reference-counted, mutable sequence of Value — the only
// aggregate with observable sharing in Atlas's value model. There is no
// cycle collector: cyclic arrays leak, an accepted trade-off.
type Array struct {
	elems []Value
	refs  int
}

// Retain increments a's reference count. Every binding that copies an
// Array value (assignment, parameter passing, return) must Retain it.
func (a *Array) Retain() {
	if a != nil {
		a.refs++
	}
}

// Release decrements a's reference count. Atlas never frees memory
// proactively on refs reaching zero (no destructors are observable in the
// language), so Release exists as the hook an embedding with a real
// allocator would use; the Go runtime's GC reclaims the backing slice
// once no goroutine holds a live Array.
func (a *Array) Release() {
	if a != nil && a.refs > 0 {
		a.refs--
	}
}

// RefCount returns a's current reference count, primarily for tests.
func (a *Array) RefCount() int {
	if a == nil {
		return 0
	}
	return a.refs
}

func (a *Array) Len() int { return len(a.elems) }

func (a *Array) Get(i int) Value { return a.elems[i] }

func (a *Array) Set(i int, v Value) { a.elems[i] = v }

// Elements exposes the backing slice directly; callers must not retain it
// past a mutation of the array.
func (a *Array) Elements() []Value { return a.elems }

// IsFinite reports whether f is a legal Atlas Number: never NaN, never
// ±Inf.
func IsFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Equal implements the language's equality rules: structural for
// number/string/bool/null, reference identity for Array, identity-by-
// declaration for FunctionRef. Both operands must already be known to
// share a type (the checker guarantees this for '==' and '!=').
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindBool:
		return a.b == b.b
	case KindNull:
		return true
	case KindArray:
		return a.arr == b.arr
	case KindFunction:
		return a.fn == b.fn
	default:
		return false
	}
}

// CanonicalString renders v's canonical textual form: numbers as the
// shortest round-trip decimal, true/false, the literal "null", and
// strings verbatim without surrounding quotes. Arrays render as a
// bracketed, comma-separated list of their elements' canonical forms so a
// program can still observe array structure through `print`.
func CanonicalString(v Value) string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindArray:
		return formatArray(v.arr)
	case KindFunction:
		return fmt.Sprintf("<function #%d>", v.fn)
	default:
		return "<?>"
	}
}

func formatArray(a *Array) string {
	s := "["
	for i, e := range a.elems {
		if i > 0 {
			s += ", "
		}
		if e.kind == KindString {
			s += strconv.Quote(e.str)
		} else {
			s += CanonicalString(e)
		}
	}
	return s + "]"
}

// formatNumber renders f as the shortest decimal string that round-trips
// back to the same float64. strconv.FormatFloat's 'g' verb with precision
// -1 is Go's implementation of exactly that algorithm.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
