// Package ast defines the Atlas abstract syntax tree. Every node carries
// a source span and dispatches through a shared Visitor via Accept.
package ast

import "github.com/atlas-lang/atlas/internal/token"

// Node is the base interface every AST node implements.
type Node interface {
	GetSpan() token.Span
	Accept(v Visitor)
}

// Statement is a Node appearing in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node appearing in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Item is a top-level program element: either a function declaration or a
// statement.
type Item interface {
	Node
	itemNode()
}

// TypeRef is a syntactic type annotation, resolved to a types.Type by the
// checker.
type TypeRef interface {
	Node
	typeRefNode()
}

// AssignTarget is the left-hand side of an assignment: a bare name or an
// array element.
type AssignTarget interface {
	Node
	assignTargetNode()
}

// Program is the root node produced by the parser for one source file.
type Program struct {
	File  string
	Items []Item
	Span  token.Span
}

func (p *Program) GetSpan() token.Span { return p.Span }
func (p *Program) Accept(v Visitor)     { v.VisitProgram(p) }
