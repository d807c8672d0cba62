package checker

import "github.com/atlas-lang/atlas/internal/pipeline"

// Processor is the type-checking stage of the compile pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.NodeTypes = Check(ctx.AST, ctx.SymbolTable, ctx.FilePath, ctx.Source, ctx.Diags)
	return ctx
}
