package checker

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

// checkExpr assigns and records a Type for e, recursing into its
// children first (types.go's sum is closed, so every case is handled).
func (c *Checker) checkExpr(e ast.Expression) types.Type {
	t := c.computeType(e)
	c.NodeTypes[e] = t
	return t
}

func (c *Checker) computeType(e ast.Expression) types.Type {
	switch v := e.(type) {
	case *ast.NumberLiteral:
		return types.Number
	case *ast.StringLiteral:
		return types.String
	case *ast.BoolLiteral:
		return types.Bool
	case *ast.NullLiteral:
		return types.Null
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(v)
	case *ast.Identifier:
		return c.checkIdentifier(v)
	case *ast.BinaryExpr:
		return c.checkBinaryExpr(v)
	case *ast.UnaryExpr:
		return c.checkUnaryExpr(v)
	case *ast.CallExpr:
		return c.checkCallExpr(v)
	case *ast.IndexExpr:
		return c.checkIndexExpr(v)
	case *ast.GroupExpr:
		return c.checkExpr(v.Inner)
	default:
		return types.Void
	}
}

// checkAll checks every expression in es in order and returns their types,
// used to check prelude-call arguments before the arity/domain validation
// in preludeSignature runs.
func checkAll(c *Checker, es []ast.Expression) []types.Type {
	out := make([]types.Type, len(es))
	for i, e := range es {
		out[i] = c.checkExpr(e)
	}
	return out
}

func (c *Checker) checkArrayLiteral(a *ast.ArrayLiteral) types.Type {
	if len(a.Elements) == 0 {
		c.err(diagnostics.ErrTypeMismatch, a.Span, "",
			"cannot infer the element type of an empty array literal; add a type annotation")
		return types.Array{Elem: types.Void}
	}
	elemType := c.checkExpr(a.Elements[0])
	for _, el := range a.Elements[1:] {
		t := c.checkExpr(el)
		if !types.Equal(t, elemType) {
			c.err(diagnostics.ErrTypeMismatch, el.GetSpan(), "",
				fmt.Sprintf("array element type mismatch: expected %s, found %s", elemType, t))
		}
	}
	return types.Array{Elem: elemType}
}

func (c *Checker) checkIdentifier(id *ast.Identifier) types.Type {
	sym := c.symbolAt(id.Span)
	if sym == nil {
		return types.Void // binder already reported AT0002; avoid a cascade
	}
	if sym.Type == nil {
		return types.Void
	}
	return sym.Type
}

func (c *Checker) checkUnaryExpr(u *ast.UnaryExpr) types.Type {
	operand := c.checkExpr(u.Operand)
	switch u.Op {
	case token.MINUS:
		if !types.Equal(operand, types.Number) {
			c.err(diagnostics.ErrTypeMismatch, u.Span, "",
				fmt.Sprintf("unary '-' requires number, found %s", operand))
			return types.Number
		}
		return types.Number
	case token.BANG:
		if !types.Equal(operand, types.Bool) {
			c.err(diagnostics.ErrTypeMismatch, u.Span, "",
				fmt.Sprintf("unary '!' requires bool, found %s", operand))
			return types.Bool
		}
		return types.Bool
	default:
		return types.Void
	}
}

func (c *Checker) checkBinaryExpr(b *ast.BinaryExpr) types.Type {
	left := c.checkExpr(b.Left)
	right := c.checkExpr(b.Right)
	return c.binaryResultType(b.Op, left, right, b.Span)
}

// binaryResultType implements the binary operator domain table. On a
// domain violation it reports AT0001 and still returns a
// best-effort result type so later checks don't cascade into unrelated
// noise. left/right may be nil (compound-assign on an unresolved
// target); in that case no diagnostic is issued beyond what was already
// reported for the target.
func (c *Checker) binaryResultType(op token.Kind, left, right types.Type, span token.Span) types.Type {
	if left == nil || right == nil {
		return nil
	}
	switch op {
	case token.PLUS:
		if types.Equal(left, types.Number) && types.Equal(right, types.Number) {
			return types.Number
		}
		if types.Equal(left, types.String) && types.Equal(right, types.String) {
			return types.String
		}
		c.err(diagnostics.ErrTypeMismatch, span, "",
			fmt.Sprintf("'+' requires (number, number) or (string, string), found (%s, %s)", left, right))
		return types.Number

	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if !types.Equal(left, types.Number) || !types.Equal(right, types.Number) {
			c.err(diagnostics.ErrTypeMismatch, span, "",
				fmt.Sprintf("'%s' requires (number, number), found (%s, %s)", op, left, right))
		}
		return types.Number

	case token.LT, token.LT_EQ, token.GT, token.GT_EQ:
		if !types.Equal(left, types.Number) || !types.Equal(right, types.Number) {
			c.err(diagnostics.ErrTypeMismatch, span, "",
				fmt.Sprintf("'%s' requires (number, number), found (%s, %s)", op, left, right))
		}
		return types.Bool

	case token.EQ, token.NOT_EQ:
		if !types.Equal(left, right) {
			c.err(diagnostics.ErrTypeMismatch, span, "",
				fmt.Sprintf("'%s' requires both operands of the same type, found %s and %s", op, left, right))
		}
		return types.Bool

	case token.AND_AND, token.OR_OR:
		if !types.Equal(left, types.Bool) || !types.Equal(right, types.Bool) {
			c.err(diagnostics.ErrTypeMismatch, span, "",
				fmt.Sprintf("'%s' requires (bool, bool), found (%s, %s)", op, left, right))
		}
		return types.Bool

	default:
		return types.Void
	}
}

// preludeSignature reports the return type of a call to one of Atlas's
// three fixed builtins and validates its argument, since none of
// print/len/str has a single internal/types.Function signature: print
// accepts any type, len accepts string or Array(T), str accepts
// number/bool/null.
func (c *Checker) preludeSignature(name string, call *ast.CallExpr, argTypes []types.Type) (types.Type, bool) {
	switch name {
	case "print":
		if len(argTypes) != 1 {
			c.err(diagnostics.ErrInvalidStdlibArg, call.Span, "", "print expects exactly 1 argument")
		}
		return types.Void, true
	case "len":
		if len(argTypes) != 1 {
			c.err(diagnostics.ErrInvalidStdlibArg, call.Span, "", "len expects exactly 1 argument")
			return types.Number, true
		}
		t := argTypes[0]
		if !types.Equal(t, types.String) {
			if _, ok := t.(types.Array); !ok {
				c.err(diagnostics.ErrInvalidStdlibArg, call.Args[0].GetSpan(), "",
					fmt.Sprintf("len expects a string or array, found %s", t))
			}
		}
		return types.Number, true
	case "str":
		if len(argTypes) != 1 {
			c.err(diagnostics.ErrInvalidStdlibArg, call.Span, "", "str expects exactly 1 argument")
			return types.String, true
		}
		t := argTypes[0]
		if !types.Equal(t, types.Number) && !types.Equal(t, types.Bool) && !types.Equal(t, types.Null) {
			c.err(diagnostics.ErrInvalidStdlibArg, call.Args[0].GetSpan(), "",
				fmt.Sprintf("str expects number, bool, or null, found %s", t))
		}
		return types.String, true
	default:
		return nil, false
	}
}

func (c *Checker) checkCallExpr(call *ast.CallExpr) types.Type {
	argTypes := checkAll(c, call.Args)

	if ident, ok := call.Callee.(*ast.Identifier); ok {
		if ret, isPrelude := c.preludeSignature(ident.Name, call, argTypes); isPrelude {
			c.NodeTypes[call.Callee] = types.Function{Ret: types.Void}
			return ret
		}
	}

	calleeType := c.checkExpr(call.Callee)

	fn, ok := calleeType.(types.Function)
	if !ok {
		c.err(diagnostics.ErrTypeMismatch, call.Callee.GetSpan(), "",
			fmt.Sprintf("%s is not callable", calleeType))
		return types.Void
	}
	if len(fn.Params) != len(argTypes) {
		c.err(diagnostics.ErrTypeMismatch, call.Span, "",
			fmt.Sprintf("expected %d argument(s), found %d", len(fn.Params), len(argTypes)))
		return fn.Ret
	}
	for i, want := range fn.Params {
		if !types.Equal(want, argTypes[i]) {
			c.err(diagnostics.ErrTypeMismatch, call.Args[i].GetSpan(), "",
				fmt.Sprintf("argument %d: expected %s, found %s", i+1, want, argTypes[i]))
		}
	}
	return fn.Ret
}

func (c *Checker) checkIndexExpr(ix *ast.IndexExpr) types.Type {
	arrType := c.checkExpr(ix.Array)
	idxType := c.checkExpr(ix.Index)

	arr, ok := arrType.(types.Array)
	if !ok {
		c.err(diagnostics.ErrTypeMismatch, ix.Array.GetSpan(), "",
			fmt.Sprintf("cannot index non-array type %s", arrType))
		return types.Void
	}
	if !types.Equal(idxType, types.Number) {
		c.err(diagnostics.ErrTypeMismatch, ix.Index.GetSpan(), "",
			fmt.Sprintf("array index must be number, found %s", idxType))
	}
	return arr.Elem
}
