package checker

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

func (c *Checker) checkStatement(s ast.Statement) {
	switch v := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(v)
	case *ast.AssignStmt:
		c.checkAssignStmt(v)
	case *ast.CompoundAssignStmt:
		c.checkCompoundAssignStmt(v)
	case *ast.IncDecStmt:
		c.checkIncDecStmt(v)
	case *ast.IfStmt:
		c.checkIfStmt(v)
	case *ast.WhileStmt:
		c.checkCond(v.Cond)
		c.checkBlock(v.Body)
	case *ast.ForStmt:
		c.checkForStmt(v)
	case *ast.ReturnStmt:
		c.checkReturnStmt(v)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Structural legality already enforced by the binder.
	case *ast.ExprStmt:
		c.checkExpr(v.Expr)
	case *ast.Block:
		c.checkBlock(v)
	}
}

// checkVarDecl handles the empty-array-literal special case:
// `let xs: number[] = [];` is legal because the declared type supplies
// the element type an un-annotated `[]` could not infer.
func (c *Checker) checkVarDecl(s *ast.VarDecl) {
	var initType types.Type
	if arr, ok := s.Init.(*ast.ArrayLiteral); ok && len(arr.Elements) == 0 {
		if s.DeclaredType == nil {
			c.err(diagnostics.ErrTypeMismatch, arr.Span, "",
				"cannot infer the element type of an empty array literal; add a type annotation")
			initType = types.Array{Elem: types.Void}
		} else {
			initType = typeRefToType(s.DeclaredType)
		}
		c.NodeTypes[arr] = initType
	} else {
		initType = c.checkExpr(s.Init)
	}

	var declType types.Type
	if s.DeclaredType != nil {
		declType = typeRefToType(s.DeclaredType)
		if !types.Equal(declType, initType) {
			c.err(diagnostics.ErrTypeMismatch, s.Init.GetSpan(), "",
				fmt.Sprintf("expected %s, found %s", declType, initType))
		}
	} else if types.Equal(initType, types.Null) {
		c.err(diagnostics.ErrTypeMismatch, s.NameSpan, s.Name,
			fmt.Sprintf("'%s' is initialized to null; give it an explicit type annotation", s.Name))
		declType = types.Null
	} else {
		declType = initType
	}

	if sym := c.symbolAt(s.NameSpan); sym != nil {
		sym.Type = declType
	}
}

func (c *Checker) checkAssignStmt(s *ast.AssignStmt) {
	targetType := c.checkAssignTarget(s.Target)
	valType := c.checkExpr(s.Value)
	if targetType != nil && !types.Equal(targetType, valType) {
		c.err(diagnostics.ErrTypeMismatch, s.Value.GetSpan(), "",
			fmt.Sprintf("expected %s, found %s", targetType, valType))
	}
}

func (c *Checker) checkCompoundAssignStmt(s *ast.CompoundAssignStmt) {
	targetType := c.checkAssignTarget(s.Target)
	valType := c.checkExpr(s.Value)
	result := c.binaryResultType(compoundToBinaryOp(s.Op), targetType, valType, s.Span)
	if targetType != nil && result != nil && !types.Equal(result, targetType) {
		c.err(diagnostics.ErrTypeMismatch, s.Span, "",
			fmt.Sprintf("compound assignment result %s does not match target type %s", result, targetType))
	}
}

func (c *Checker) checkIncDecStmt(s *ast.IncDecStmt) {
	targetType := c.checkAssignTarget(s.Target)
	if targetType != nil && !types.Equal(targetType, types.Number) {
		c.err(diagnostics.ErrTypeMismatch, s.Span, "",
			fmt.Sprintf("'++'/'--' require a number target, found %s", targetType))
	}
}

// checkAssignTarget type-checks an assignment target and enforces
// mutability: only `var` bindings and array elements may be assigned to
// (AT0003).
func (c *Checker) checkAssignTarget(t ast.AssignTarget) types.Type {
	switch v := t.(type) {
	case *ast.Identifier:
		sym := c.symbolAt(v.Span)
		if sym == nil {
			return nil
		}
		if !sym.IsMutable() {
			c.err(diagnostics.ErrInvalidAssignment, v.Span, v.Name,
				fmt.Sprintf("cannot assign to '%s': not declared with 'var'", v.Name))
		}
		return sym.Type
	case *ast.IndexExpr:
		return c.checkExpr(v)
	default:
		return nil
	}
}

func (c *Checker) checkIfStmt(s *ast.IfStmt) {
	c.checkCond(s.Cond)
	c.checkBlock(s.Then)
	if s.Else != nil {
		c.checkStatement(s.Else)
	}
}

func (c *Checker) checkForStmt(s *ast.ForStmt) {
	if s.Init != nil {
		c.checkStatement(s.Init)
	}
	if s.Cond != nil {
		c.checkCond(s.Cond)
	}
	if s.Step != nil {
		c.checkStatement(s.Step)
	}
	c.checkBlock(s.Body)
}

func (c *Checker) checkCond(cond ast.Expression) {
	t := c.checkExpr(cond)
	if !types.Equal(t, types.Bool) {
		c.err(diagnostics.ErrTypeMismatch, cond.GetSpan(), "",
			fmt.Sprintf("condition must be bool, found %s", t))
	}
}

func (c *Checker) checkReturnStmt(s *ast.ReturnStmt) {
	want := c.currentReturnType()
	if s.Value == nil {
		if !types.Equal(want, types.Void) {
			c.err(diagnostics.ErrTypeMismatch, s.Span, "",
				fmt.Sprintf("expected a return value of type %s", want))
		}
		return
	}
	got := c.checkExpr(s.Value)
	if types.Equal(want, types.Void) {
		c.err(diagnostics.ErrTypeMismatch, s.Value.GetSpan(), "",
			"a void function cannot return a value")
		return
	}
	if !types.Equal(got, want) {
		c.err(diagnostics.ErrTypeMismatch, s.Value.GetSpan(), "",
			fmt.Sprintf("expected %s, found %s", want, got))
	}
}

func compoundToBinaryOp(op token.Kind) token.Kind {
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
