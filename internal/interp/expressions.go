package interp

import (
	"math"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// eval evaluates e in env to a Value, dispatching on the node kind.
func (in *Interpreter) eval(e ast.Expression, env *Environment) (value.Value, *RuntimeError) {
	switch v := e.(type) {
	case *ast.NumberLiteral:
		// The lexer does not reject a literal that overflows to infinity;
		// the rejection happens here, on evaluation.
		if !value.IsFinite(v.Value) {
			return value.Null, in.runtimeErr(diagnostics.ErrNonFiniteResult, v.Span,
				"numeric literal overflows to a non-finite value")
		}
		return value.Number(v.Value), nil
	case *ast.StringLiteral:
		return value.String(v.Value), nil
	case *ast.BoolLiteral:
		return value.Bool(v.Value), nil
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.ArrayLiteral:
		return in.evalArrayLiteral(v, env)
	case *ast.Identifier:
		return in.evalIdentifier(v, env)
	case *ast.BinaryExpr:
		return in.evalBinaryExpr(v, env)
	case *ast.UnaryExpr:
		return in.evalUnaryExpr(v, env)
	case *ast.CallExpr:
		return in.evalCallExpr(v, env)
	case *ast.IndexExpr:
		return in.evalIndexExpr(v, env)
	case *ast.GroupExpr:
		return in.eval(v.Inner, env)
	default:
		return value.Null, nil
	}
}

func (in *Interpreter) evalArrayLiteral(a *ast.ArrayLiteral, env *Environment) (value.Value, *RuntimeError) {
	elems := make([]value.Value, len(a.Elements))
	for i, el := range a.Elements {
		v, err := in.eval(el, env)
		if err != nil {
			return value.Null, err
		}
		retainIfArray(v)
		elems[i] = v
	}
	return value.NewArray(elems), nil
}

func (in *Interpreter) evalIdentifier(id *ast.Identifier, env *Environment) (value.Value, *RuntimeError) {
	v, ok := env.get(id.Name)
	if !ok {
		// A function name: function values are resolved lazily rather than
		// stored in the Environment, since Atlas functions are static
		// top-level declarations, not closures.
		if id2, isFn := in.fnIDs[id.Name]; isFn {
			return value.Function(id2), nil
		}
		return value.Null, nil
	}
	return v, nil
}

func (in *Interpreter) evalUnaryExpr(u *ast.UnaryExpr, env *Environment) (value.Value, *RuntimeError) {
	operand, err := in.eval(u.Operand, env)
	if err != nil {
		return value.Null, err
	}
	switch u.Op {
	case token.MINUS:
		return in.checkFinite(-operand.AsNumber(), u.Span)
	case token.BANG:
		return value.Bool(!operand.AsBool()), nil
	default:
		return value.Null, nil
	}
}

func (in *Interpreter) evalBinaryExpr(b *ast.BinaryExpr, env *Environment) (value.Value, *RuntimeError) {
	// && and || short-circuit: the right operand is not evaluated when the
	// result is already determined.
	if b.Op == token.AND_AND || b.Op == token.OR_OR {
		left, err := in.eval(b.Left, env)
		if err != nil {
			return value.Null, err
		}
		if b.Op == token.AND_AND && !left.AsBool() {
			return value.Bool(false), nil
		}
		if b.Op == token.OR_OR && left.AsBool() {
			return value.Bool(true), nil
		}
		return in.eval(b.Right, env)
	}

	left, err := in.eval(b.Left, env)
	if err != nil {
		return value.Null, err
	}
	right, err := in.eval(b.Right, env)
	if err != nil {
		return value.Null, err
	}

	switch b.Op {
	case token.EQ:
		return value.Bool(value.Equal(left, right)), nil
	case token.NOT_EQ:
		return value.Bool(!value.Equal(left, right)), nil
	case token.LT:
		return value.Bool(left.AsNumber() < right.AsNumber()), nil
	case token.LT_EQ:
		return value.Bool(left.AsNumber() <= right.AsNumber()), nil
	case token.GT:
		return value.Bool(left.AsNumber() > right.AsNumber()), nil
	case token.GT_EQ:
		return value.Bool(left.AsNumber() >= right.AsNumber()), nil
	default:
		return in.applyBinary(b.Op, left, right, b.Span)
	}
}

// applyBinary implements the arithmetic operator domain: '+' on
// (number,number) or (string,string); '-','*','/','%' on (number,number).
// Used both directly by evalBinaryExpr and by compound-assignment
// lowering.
func (in *Interpreter) applyBinary(op token.Kind, left, right value.Value, span token.Span) (value.Value, *RuntimeError) {
	switch op {
	case token.PLUS:
		if left.IsString() {
			return value.String(left.AsString() + right.AsString()), nil
		}
		return in.checkFinite(left.AsNumber()+right.AsNumber(), span)
	case token.MINUS:
		return in.checkFinite(left.AsNumber()-right.AsNumber(), span)
	case token.STAR:
		return in.checkFinite(left.AsNumber()*right.AsNumber(), span)
	case token.SLASH:
		if right.AsNumber() == 0 {
			return value.Value{}, in.runtimeErr(diagnostics.ErrDivideByZero, span, "division by zero")
		}
		return in.checkFinite(left.AsNumber()/right.AsNumber(), span)
	case token.PERCENT:
		if right.AsNumber() == 0 {
			return value.Value{}, in.runtimeErr(diagnostics.ErrDivideByZero, span, "division by zero")
		}
		return in.checkFinite(math.Mod(left.AsNumber(), right.AsNumber()), span)
	default:
		return value.Null, nil
	}
}

func (in *Interpreter) evalIndexExpr(ix *ast.IndexExpr, env *Environment) (value.Value, *RuntimeError) {
	arrV, err := in.eval(ix.Array, env)
	if err != nil {
		return value.Null, err
	}
	idxV, err := in.eval(ix.Index, env)
	if err != nil {
		return value.Null, err
	}
	i, rerr := in.checkIndex(idxV, arrV.AsArray(), ix.Index.GetSpan())
	if rerr != nil {
		return value.Null, rerr
	}
	return arrV.AsArray().Get(i), nil
}

func (in *Interpreter) evalCallExpr(call *ast.CallExpr, env *Environment) (value.Value, *RuntimeError) {
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		if v, handled, err := in.evalPrelude(ident.Name, call, env); handled {
			return v, err
		}
	}

	calleeV, err := in.eval(call.Callee, env)
	if err != nil {
		return value.Null, err
	}
	name, ok := in.fnNames[calleeV.AsFunction()]
	if !ok {
		return value.Null, in.runtimeErr(diagnostics.ErrUnknownSymbol, call.Span, "call target is not a known function")
	}
	fn := in.functions[name]
	return in.callFunction(fn, call, env)
}

// callFunction evaluates args left-to-right, pushes a fresh parameter
// scope, runs the body until a Return signal (or falls off the end for a
// void function), and pops the call frame on every exit path including a
// propagating runtime error.
func (in *Interpreter) callFunction(fn *ast.FunctionDecl, call *ast.CallExpr, env *Environment) (value.Value, *RuntimeError) {
	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := in.eval(a, env)
		if err != nil {
			return value.Null, err
		}
		retainIfArray(v)
		args[i] = v
	}

	in.pushFrame(fn.Name, call.Span)
	defer in.popFrame()

	fnEnv := NewEnclosedEnvironment(in.globals)
	for i, p := range fn.Params {
		fnEnv.define(p.Name, args[i])
	}

	f, err := in.execStmtsIn(fn.Body.Stmts, fnEnv)
	if err != nil {
		return value.Null, err
	}
	if f.sig == signalReturn {
		return f.val, nil
	}
	return value.Null, nil
}

