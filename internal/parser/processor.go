package parser

import "github.com/atlas-lang/atlas/internal/pipeline"

// Processor is the parsing stage of the compile pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	p := New(ctx.Tokens, ctx.FilePath, ctx.Source, ctx.Diags)
	ctx.AST = p.ParseProgram()
	return ctx
}
