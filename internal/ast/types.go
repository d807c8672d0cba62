package ast

import "github.com/atlas-lang/atlas/internal/token"

// PrimitiveTypeRef names one of the primitive types.
type PrimitiveTypeRef struct {
	Name string // "number" | "string" | "bool" | "void" | "null"
	Span token.Span
}

func (t *PrimitiveTypeRef) GetSpan() token.Span { return t.Span }
func (t *PrimitiveTypeRef) Accept(v Visitor)     { v.VisitPrimitiveTypeRef(t) }
func (t *PrimitiveTypeRef) typeRefNode()         {}

// ArrayTypeRef is `T[]`.
type ArrayTypeRef struct {
	Elem TypeRef
	Span token.Span
}

func (t *ArrayTypeRef) GetSpan() token.Span { return t.Span }
func (t *ArrayTypeRef) Accept(v Visitor)     { v.VisitArrayTypeRef(t) }
func (t *ArrayTypeRef) typeRefNode()         {}

// FunctionTypeRef is `fn(T1, T2) -> R`.
type FunctionTypeRef struct {
	Params []TypeRef
	Ret    TypeRef
	Span   token.Span
}

func (t *FunctionTypeRef) GetSpan() token.Span { return t.Span }
func (t *FunctionTypeRef) Accept(v Visitor)     { v.VisitFunctionTypeRef(t) }
func (t *FunctionTypeRef) typeRefNode()         {}
