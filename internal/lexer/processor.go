package lexer

import "github.com/atlas-lang/atlas/internal/pipeline"

// Processor is the lexing stage of the compile pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.Source, ctx.FilePath, ctx.FileID, ctx.Diags)
	ctx.Tokens = l.Scan()
	return ctx
}
