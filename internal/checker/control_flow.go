package checker

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
)

// blockAlwaysReturns reports whether executing b is guaranteed to hit a
// `return` on every path, used to check missing-return coverage
// (AT0004). Loops are conservatively treated as never guaranteeing a
// return, since the checker does not reason about trip counts or
// condition literals.
func blockAlwaysReturns(b *ast.Block) bool {
	for _, s := range b.Stmts {
		if stmtAlwaysReturns(s) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(s ast.Statement) bool {
	switch v := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.Block:
		return blockAlwaysReturns(v)
	case *ast.IfStmt:
		if v.Else == nil {
			return false
		}
		return blockAlwaysReturns(v.Then) && stmtAlwaysReturns(v.Else)
	default:
		return false
	}
}

// stmtIsTerminal reports whether s unconditionally ends control flow for
// the remainder of its enclosing block (return/break/continue, or an
// if/block that always does).
func stmtIsTerminal(s ast.Statement) bool {
	switch v := s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	case *ast.Block:
		return blockTerminal(v)
	case *ast.IfStmt:
		if v.Else == nil {
			return false
		}
		return blockTerminal(v.Then) && stmtIsTerminal(v.Else)
	default:
		return false
	}
}

func blockTerminal(b *ast.Block) bool {
	for _, s := range b.Stmts {
		if stmtIsTerminal(s) {
			return true
		}
	}
	return false
}

// checkUnreachable warns (AT2002) about the first statement following an
// unconditional return/break/continue in the same block.
func (c *Checker) checkUnreachable(b *ast.Block) {
	for i, s := range b.Stmts {
		if stmtIsTerminal(s) && i+1 < len(b.Stmts) {
			next := b.Stmts[i+1]
			c.warn(diagnostics.WarnUnreachableCode, next.GetSpan(), "", "unreachable code")
			return
		}
	}
}
