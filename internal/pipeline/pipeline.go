// Package pipeline chains the compilation stages (lex, parse, bind,
// check, run) over a shared context.
package pipeline

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

// Context carries state between pipeline stages. Each stage reads what
// earlier stages wrote (the checker reads both the parser's AST and the
// binder's symbol table) and writes its own results.
type Context struct {
	FilePath string
	FileID   int
	Source   string

	Tokens []token.Token

	AST *ast.Program

	SymbolTable *symbols.Table

	// NodeTypes maps an expression node (by pointer identity) to its
	// resolved type, populated by the checker.
	NodeTypes map[ast.Expression]types.Type

	Diags *diagnostics.Bag
}

// NewContext creates a pipeline context for a single source file.
func NewContext(filePath string, fileID int, source string) *Context {
	return &Context{
		FilePath:  filePath,
		FileID:    fileID,
		Source:    source,
		NodeTypes: make(map[ast.Expression]types.Type),
		Diags:     diagnostics.NewBag(),
	}
}

// Stage is one step of the pipeline. Stages must continue even after
// recording errors into ctx.Diags so that later stages (and, ultimately,
// tooling) can still surface further diagnostics from the best-effort
// AST where possible.
type Stage interface {
	Process(ctx *Context) *Context
}

// StageFunc adapts a function to the Stage interface.
type StageFunc func(ctx *Context) *Context

func (f StageFunc) Process(ctx *Context) *Context { return f(ctx) }

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline from the given stages, run in order.
func New(stages ...Stage) *Pipeline { return &Pipeline{stages: stages} }

// Run executes every stage over ctx in order, continuing even if a
// previous stage recorded errors, and returns the final context.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, s := range p.stages {
		ctx = s.Process(ctx)
	}
	return ctx
}
