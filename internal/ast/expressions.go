package ast

import "github.com/atlas-lang/atlas/internal/token"

// NumberLiteral is a decimal or scientific-notation numeric literal.
type NumberLiteral struct {
	Value float64
	Raw   string
	Span  token.Span
}

func (e *NumberLiteral) GetSpan() token.Span { return e.Span }
func (e *NumberLiteral) Accept(v Visitor)     { v.VisitNumberLiteral(e) }
func (e *NumberLiteral) expressionNode()      {}

// StringLiteral is an escaped, UTF-8 string literal.
type StringLiteral struct {
	Value string
	Span  token.Span
}

func (e *StringLiteral) GetSpan() token.Span { return e.Span }
func (e *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(e) }
func (e *StringLiteral) expressionNode()      {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value bool
	Span  token.Span
}

func (e *BoolLiteral) GetSpan() token.Span { return e.Span }
func (e *BoolLiteral) Accept(v Visitor)     { v.VisitBoolLiteral(e) }
func (e *BoolLiteral) expressionNode()      {}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Span token.Span
}

func (e *NullLiteral) GetSpan() token.Span { return e.Span }
func (e *NullLiteral) Accept(v Visitor)     { v.VisitNullLiteral(e) }
func (e *NullLiteral) expressionNode()      {}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Elements []Expression
	Span     token.Span
}

func (e *ArrayLiteral) GetSpan() token.Span { return e.Span }
func (e *ArrayLiteral) Accept(v Visitor)     { v.VisitArrayLiteral(e) }
func (e *ArrayLiteral) expressionNode()      {}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Span token.Span
}

func (e *Identifier) GetSpan() token.Span { return e.Span }
func (e *Identifier) Accept(v Visitor)     { v.VisitIdentifier(e) }
func (e *Identifier) expressionNode()      {}
func (e *Identifier) assignTargetNode()    {}

// BinaryExpr is a left-associative binary operator application.
type BinaryExpr struct {
	Op    token.Kind
	Left  Expression
	Right Expression
	Span  token.Span
}

func (e *BinaryExpr) GetSpan() token.Span { return e.Span }
func (e *BinaryExpr) Accept(v Visitor)     { v.VisitBinaryExpr(e) }
func (e *BinaryExpr) expressionNode()      {}

// UnaryExpr is a prefix `!` or `-` application.
type UnaryExpr struct {
	Op      token.Kind
	Operand Expression
	Span    token.Span
}

func (e *UnaryExpr) GetSpan() token.Span { return e.Span }
func (e *UnaryExpr) Accept(v Visitor)     { v.VisitUnaryExpr(e) }
func (e *UnaryExpr) expressionNode()      {}

// CallExpr is a function call. Callee is always an Identifier or another
// call/index result resolving to a Function-typed value.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Span   token.Span
}

func (e *CallExpr) GetSpan() token.Span { return e.Span }
func (e *CallExpr) Accept(v Visitor)     { v.VisitCallExpr(e) }
func (e *CallExpr) expressionNode()      {}

// IndexExpr is `array[index]`.
type IndexExpr struct {
	Array Expression
	Index Expression
	Span  token.Span
}

func (e *IndexExpr) GetSpan() token.Span { return e.Span }
func (e *IndexExpr) Accept(v Visitor)     { v.VisitIndexExpr(e) }
func (e *IndexExpr) expressionNode()      {}
func (e *IndexExpr) assignTargetNode()    {}

// GroupExpr is a parenthesized expression, kept in the tree so
// pretty-printing round-trips.
type GroupExpr struct {
	Inner Expression
	Span  token.Span
}

func (e *GroupExpr) GetSpan() token.Span { return e.Span }
func (e *GroupExpr) Accept(v Visitor)     { v.VisitGroupExpr(e) }
func (e *GroupExpr) expressionNode()      {}
