package binder

import "github.com/atlas-lang/atlas/internal/pipeline"

// Processor is the binding stage of the compile pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.SymbolTable = Bind(ctx.AST, ctx.FilePath, ctx.Source, ctx.Diags)
	return ctx
}
