// Package printer renders an AST back to Atlas source text. Because the
// parser keeps grouping parentheses in the tree (ast.GroupExpr) and the
// grammar's precedence is fixed, printing a parser-produced tree and
// re-parsing the output yields a structurally identical tree — the
// round-trip law the parser test suite checks.
package printer

import (
	"strings"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// CodePrinter implements ast.Visitor, accumulating formatted source text.
type CodePrinter struct {
	buf    strings.Builder
	indent int
}

// NewCodePrinter returns an empty printer.
func NewCodePrinter() *CodePrinter { return &CodePrinter{} }

// Print renders prog and returns the source text.
func Print(prog *ast.Program) string {
	p := NewCodePrinter()
	prog.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string { return p.buf.String() }

func (p *CodePrinter) write(s string) { p.buf.WriteString(s) }

func (p *CodePrinter) writeIndent() {
	p.write(strings.Repeat("    ", p.indent))
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, item := range n.Items {
		item.Accept(p)
		p.write("\n")
	}
}

func (p *CodePrinter) VisitFunctionDecl(n *ast.FunctionDecl) {
	p.write("fn " + n.Name + "(")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name + ": ")
		param.Type.Accept(p)
	}
	p.write(") -> ")
	n.ReturnType.Accept(p)
	p.write(" ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) VisitVarDecl(n *ast.VarDecl) {
	if n.VarKind == ast.KindVar {
		p.write("var ")
	} else {
		p.write("let ")
	}
	p.write(n.Name)
	if n.DeclaredType != nil {
		p.write(": ")
		n.DeclaredType.Accept(p)
	}
	p.write(" = ")
	n.Init.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitAssignStmt(n *ast.AssignStmt) {
	n.Target.Accept(p)
	p.write(" = ")
	n.Value.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitCompoundAssignStmt(n *ast.CompoundAssignStmt) {
	n.Target.Accept(p)
	p.write(" " + n.Op.String() + " ")
	n.Value.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitIncDecStmt(n *ast.IncDecStmt) {
	if n.Position == ast.PositionPre {
		p.write(n.Op.String())
		n.Target.Accept(p)
	} else {
		n.Target.Accept(p)
		p.write(n.Op.String())
	}
	p.write(";")
}

func (p *CodePrinter) VisitIfStmt(n *ast.IfStmt) {
	p.write("if (")
	n.Cond.Accept(p)
	p.write(") ")
	p.printBlock(n.Then)
	if n.Else != nil {
		p.write(" else ")
		if elseIf, ok := n.Else.(*ast.IfStmt); ok {
			elseIf.Accept(p)
			return
		}
		p.printBlock(n.Else.(*ast.Block))
	}
}

func (p *CodePrinter) VisitWhileStmt(n *ast.WhileStmt) {
	p.write("while (")
	n.Cond.Accept(p)
	p.write(") ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) VisitForStmt(n *ast.ForStmt) {
	p.write("for (")
	if n.Init != nil {
		p.printForClause(n.Init)
	}
	p.write("; ")
	if n.Cond != nil {
		n.Cond.Accept(p)
	}
	p.write("; ")
	if n.Step != nil {
		p.printForClause(n.Step)
	}
	p.write(") ")
	p.printBlock(n.Body)
}

// printForClause prints a for-header statement without its trailing ';',
// which the header's own punctuation supplies.
func (p *CodePrinter) printForClause(s ast.Statement) {
	var inner CodePrinter
	s.Accept(&inner)
	p.write(strings.TrimSuffix(inner.String(), ";"))
}

func (p *CodePrinter) VisitReturnStmt(n *ast.ReturnStmt) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		n.Value.Accept(p)
	}
	p.write(";")
}

func (p *CodePrinter) VisitBreakStmt(*ast.BreakStmt)       { p.write("break;") }
func (p *CodePrinter) VisitContinueStmt(*ast.ContinueStmt) { p.write("continue;") }

func (p *CodePrinter) VisitExprStmt(n *ast.ExprStmt) {
	n.Expr.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitBlock(n *ast.Block) {
	p.printBlock(n)
}

func (p *CodePrinter) printBlock(b *ast.Block) {
	if len(b.Stmts) == 0 {
		p.write("{ }")
		return
	}
	p.write("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		s.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	if n.Raw != "" {
		p.write(n.Raw)
		return
	}
	p.write(value.CanonicalString(value.Number(n.Value)))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(quoteAtlas(n.Value))
}

// quoteAtlas renders s as an Atlas string literal using only the escape
// sequences the lexer recognizes.
func quoteAtlas(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (p *CodePrinter) VisitBoolLiteral(n *ast.BoolLiteral) {
	if n.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *CodePrinter) VisitNullLiteral(*ast.NullLiteral) { p.write("null") }

func (p *CodePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	p.write("]")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) { p.write(n.Name) }

func (p *CodePrinter) VisitBinaryExpr(n *ast.BinaryExpr) {
	n.Left.Accept(p)
	p.write(" " + n.Op.String() + " ")
	n.Right.Accept(p)
}

func (p *CodePrinter) VisitUnaryExpr(n *ast.UnaryExpr) {
	p.write(n.Op.String())
	// A doubled '-' would lex as '--'; parenthesize a nested negation.
	if inner, ok := n.Operand.(*ast.UnaryExpr); ok && inner.Op == n.Op && n.Op == token.MINUS {
		p.write("(")
		n.Operand.Accept(p)
		p.write(")")
		return
	}
	n.Operand.Accept(p)
}

func (p *CodePrinter) VisitCallExpr(n *ast.CallExpr) {
	n.Callee.Accept(p)
	p.write("(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitIndexExpr(n *ast.IndexExpr) {
	n.Array.Accept(p)
	p.write("[")
	n.Index.Accept(p)
	p.write("]")
}

func (p *CodePrinter) VisitGroupExpr(n *ast.GroupExpr) {
	p.write("(")
	n.Inner.Accept(p)
	p.write(")")
}

func (p *CodePrinter) VisitPrimitiveTypeRef(n *ast.PrimitiveTypeRef) { p.write(n.Name) }

func (p *CodePrinter) VisitArrayTypeRef(n *ast.ArrayTypeRef) {
	n.Elem.Accept(p)
	p.write("[]")
}

func (p *CodePrinter) VisitFunctionTypeRef(n *ast.FunctionTypeRef) {
	p.write("fn(")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(") -> ")
	n.Ret.Accept(p)
}
