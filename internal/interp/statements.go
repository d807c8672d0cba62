package interp

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// exec runs one statement in env and reports any control-flow signal it
// produces. Break, Continue, and Return propagate up through block
// execution as a typed flow until the enclosing loop or function body
// intercepts them.
func (in *Interpreter) exec(stmt ast.Statement, env *Environment) (flow, *RuntimeError) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return in.execVarDecl(s, env)
	case *ast.AssignStmt:
		return flowNone, in.execAssignStmt(s, env)
	case *ast.CompoundAssignStmt:
		return flowNone, in.execCompoundAssignStmt(s, env)
	case *ast.IncDecStmt:
		return flowNone, in.execIncDecStmt(s, env)
	case *ast.IfStmt:
		return in.execIfStmt(s, env)
	case *ast.WhileStmt:
		return in.execWhileStmt(s, env)
	case *ast.ForStmt:
		return in.execForStmt(s, env)
	case *ast.ReturnStmt:
		return in.execReturnStmt(s, env)
	case *ast.BreakStmt:
		return flow{sig: signalBreak}, nil
	case *ast.ContinueStmt:
		return flow{sig: signalContinue}, nil
	case *ast.ExprStmt:
		_, err := in.eval(s.Expr, env)
		return flowNone, err
	case *ast.Block:
		return in.execBlock(s, env)
	default:
		return flowNone, nil
	}
}

// execBlock opens a new scope for b — every block pushes a fresh scope
// discarded on exit — and runs its statements until one produces a
// non-none signal.
func (in *Interpreter) execBlock(b *ast.Block, parent *Environment) (flow, *RuntimeError) {
	env := NewEnclosedEnvironment(parent)
	return in.execStmtsIn(b.Stmts, env)
}

// execStmtsIn runs stmts directly in env without opening another scope,
// used for a function body so its parameter scope and its top-level block
// scope are the same Environment.
func (in *Interpreter) execStmtsIn(stmts []ast.Statement, env *Environment) (flow, *RuntimeError) {
	for _, s := range stmts {
		f, err := in.exec(s, env)
		if err != nil {
			return flowNone, err
		}
		if f.sig != signalNone {
			return f, nil
		}
	}
	return flowNone, nil
}

func (in *Interpreter) execVarDecl(s *ast.VarDecl, env *Environment) (flow, *RuntimeError) {
	v, err := in.eval(s.Init, env)
	if err != nil {
		return flowNone, err
	}
	retainIfArray(v)
	env.define(s.Name, v)
	return flowNone, nil
}

func (in *Interpreter) execAssignStmt(s *ast.AssignStmt, env *Environment) *RuntimeError {
	switch t := s.Target.(type) {
	case *ast.Identifier:
		v, err := in.eval(s.Value, env)
		if err != nil {
			return err
		}
		retainIfArray(v)
		env.assign(t.Name, v)
		return nil
	case *ast.IndexExpr:
		arr, idx, err := in.evalIndexTarget(t, env)
		if err != nil {
			return err
		}
		v, err := in.eval(s.Value, env)
		if err != nil {
			return err
		}
		retainIfArray(v)
		arr.Set(idx, v)
		return nil
	default:
		return nil
	}
}

// evalIndexTarget evaluates an array-element assignment target's array and
// index sub-expressions, in that order (the ordering is observable and
// must match the compiler's), and bounds-checks the index.
func (in *Interpreter) evalIndexTarget(ix *ast.IndexExpr, env *Environment) (*value.Array, int, *RuntimeError) {
	arrV, err := in.eval(ix.Array, env)
	if err != nil {
		return nil, 0, err
	}
	idxV, err := in.eval(ix.Index, env)
	if err != nil {
		return nil, 0, err
	}
	idx, rerr := in.checkIndex(idxV, arrV.AsArray(), ix.Index.GetSpan())
	if rerr != nil {
		return nil, 0, rerr
	}
	return arrV.AsArray(), idx, nil
}

func (in *Interpreter) checkIndex(idxV value.Value, arr *value.Array, span token.Span) (int, *RuntimeError) {
	f := idxV.AsNumber()
	if !isIntegral(f) {
		return 0, in.runtimeErr(diagnostics.ErrNonIntegerIndex, span, "array index must be an integer")
	}
	i := int(f)
	if i < 0 || i >= arr.Len() {
		return 0, in.runtimeErr(diagnostics.ErrOutOfBounds, span, "array index out of bounds")
	}
	return i, nil
}

// execCompoundAssignStmt implements `target OP= value` as "load current
// value, apply op, store". For an array-element target the array/index
// sub-expressions are evaluated twice — once to load, once to store —
// exactly like the bytecode compiler's lowering, so the two engines
// diverge identically rather than only one of them re-evaluating a
// side-effecting index expression.
func (in *Interpreter) execCompoundAssignStmt(s *ast.CompoundAssignStmt, env *Environment) *RuntimeError {
	binOp := compoundBinaryOp(s.Op)
	switch t := s.Target.(type) {
	case *ast.Identifier:
		cur, ok := env.get(t.Name)
		if !ok {
			cur = value.Null
		}
		rhs, err := in.eval(s.Value, env)
		if err != nil {
			return err
		}
		result, err := in.applyBinary(binOp, cur, rhs, s.Span)
		if err != nil {
			return err
		}
		env.assign(t.Name, result)
		return nil
	case *ast.IndexExpr:
		arr1, idx1, err := in.evalIndexTarget(t, env)
		if err != nil {
			return err
		}
		cur := arr1.Get(idx1)
		rhs, err := in.eval(s.Value, env)
		if err != nil {
			return err
		}
		result, err := in.applyBinary(binOp, cur, rhs, s.Span)
		if err != nil {
			return err
		}
		arr2, idx2, err := in.evalIndexTarget(t, env)
		if err != nil {
			return err
		}
		arr2.Set(idx2, result)
		return nil
	default:
		return nil
	}
}

func (in *Interpreter) execIncDecStmt(s *ast.IncDecStmt, env *Environment) *RuntimeError {
	delta := 1.0
	if s.Op == token.MINUS_MINUS {
		delta = -1.0
	}
	switch t := s.Target.(type) {
	case *ast.Identifier:
		cur, _ := env.get(t.Name)
		next, err := in.checkFinite(cur.AsNumber()+delta, s.Span)
		if err != nil {
			return err
		}
		env.assign(t.Name, next)
		return nil
	case *ast.IndexExpr:
		arr1, idx1, err := in.evalIndexTarget(t, env)
		if err != nil {
			return err
		}
		cur := arr1.Get(idx1)
		next, err := in.checkFinite(cur.AsNumber()+delta, s.Span)
		if err != nil {
			return err
		}
		arr2, idx2, err := in.evalIndexTarget(t, env)
		if err != nil {
			return err
		}
		arr2.Set(idx2, next)
		return nil
	default:
		return nil
	}
}

func (in *Interpreter) execIfStmt(s *ast.IfStmt, env *Environment) (flow, *RuntimeError) {
	cond, err := in.eval(s.Cond, env)
	if err != nil {
		return flowNone, err
	}
	if cond.AsBool() {
		return in.execBlock(s.Then, env)
	}
	if s.Else != nil {
		return in.exec(s.Else, env)
	}
	return flowNone, nil
}

func (in *Interpreter) execWhileStmt(s *ast.WhileStmt, env *Environment) (flow, *RuntimeError) {
	for {
		cond, err := in.eval(s.Cond, env)
		if err != nil {
			return flowNone, err
		}
		if !cond.AsBool() {
			return flowNone, nil
		}
		f, err := in.execBlock(s.Body, env)
		if err != nil {
			return flowNone, err
		}
		switch f.sig {
		case signalBreak:
			return flowNone, nil
		case signalReturn:
			return f, nil
		case signalContinue, signalNone:
			// fall through to next iteration
		}
	}
}

// execForStmt treats `for (init; cond; step) body` as `init` desugared to
// `while (cond) { body; step; }` in a dedicated loop scope, so the init
// variable's scope matches the binder's ScopeLoop.
func (in *Interpreter) execForStmt(s *ast.ForStmt, env *Environment) (flow, *RuntimeError) {
	loopEnv := NewEnclosedEnvironment(env)
	if s.Init != nil {
		if _, err := in.exec(s.Init, loopEnv); err != nil {
			return flowNone, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := in.eval(s.Cond, loopEnv)
			if err != nil {
				return flowNone, err
			}
			if !cond.AsBool() {
				return flowNone, nil
			}
		}
		f, err := in.execStmtsIn(s.Body.Stmts, NewEnclosedEnvironment(loopEnv))
		if err != nil {
			return flowNone, err
		}
		switch f.sig {
		case signalBreak:
			return flowNone, nil
		case signalReturn:
			return f, nil
		}
		if s.Step != nil {
			if _, err := in.exec(s.Step, loopEnv); err != nil {
				return flowNone, err
			}
		}
	}
}

func (in *Interpreter) execReturnStmt(s *ast.ReturnStmt, env *Environment) (flow, *RuntimeError) {
	if s.Value == nil {
		return flow{sig: signalReturn, val: value.Null}, nil
	}
	v, err := in.eval(s.Value, env)
	if err != nil {
		return flowNone, err
	}
	return flow{sig: signalReturn, val: v}, nil
}

func compoundBinaryOp(op token.Kind) token.Kind {
	switch op {
	case token.PLUS_ASSIGN:
		return token.PLUS
	case token.MINUS_ASSIGN:
		return token.MINUS
	case token.STAR_ASSIGN:
		return token.STAR
	case token.SLASH_ASSIGN:
		return token.SLASH
	case token.PERCENT_ASSIGN:
		return token.PERCENT
	default:
		return token.ILLEGAL
	}
}

// retainIfArray bumps v's refcount when it is an Array being stored into a
// new binding, matching the reference-counted sharing model.
func retainIfArray(v value.Value) {
	if v.IsArray() {
		v.AsArray().Retain()
	}
}
