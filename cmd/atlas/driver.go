package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/checker"
	"github.com/atlas-lang/atlas/internal/config"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/pipeline"
)

// compileFile runs the front half of the pipeline (lex, parse, bind,
// check) over path's contents, honoring any atlas.yaml discovered above
// it. Diagnostics are collected in the returned context, not printed.
func compileFile(path string) (*pipeline.Context, *config.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadProjectConfig(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	ctx := pipeline.NewContext(path, 0, string(data))
	ctx.Diags.SetMaxErrors(cfg.MaxErrors)
	p := pipeline.New(lexer.Processor{}, parser.Processor{}, binder.Processor{}, checker.Processor{})
	return p.Run(ctx), cfg, nil
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// colorEnabled decides whether diagnostics get ANSI color, combining the
// project config's color mode with a TTY check on stderr so piped output
// (CI, `atlas check 2>log`) stays plain.
func colorEnabled(cfg *config.ProjectConfig) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

// renderDiag renders d in the human gutter format, colorizing only the
// level prefix so the caret/snippet layout stays byte-identical to the
// uncolored form modulo the escape codes.
func renderDiag(d *diagnostics.Diagnostic, color bool) string {
	out := diagnostics.RenderHuman(d)
	if !color {
		return out
	}
	prefix := string(d.Level)
	tint := ansiRed
	if d.Level == diagnostics.LevelWarning {
		tint = ansiYellow
	}
	return strings.Replace(out, prefix+"[", tint+prefix+ansiReset+"[", 1)
}

// reportDiagnostics writes every collected diagnostic to stderr, errors
// first (the Bag already orders them), and reports whether any error-level
// diagnostic blocks execution.
func reportDiagnostics(ctx *pipeline.Context, cfg *config.ProjectConfig, jsonOut bool) bool {
	ds := ctx.Diags.All()
	if jsonOut || cfg.Format == "json" {
		for _, d := range ds {
			line, err := diagnostics.RenderJSON(d)
			if err != nil {
				continue
			}
			fmt.Fprintln(os.Stderr, line)
		}
		return ctx.Diags.HasErrors()
	}
	color := colorEnabled(cfg)
	for _, d := range ds {
		fmt.Fprint(os.Stderr, renderDiag(d, color))
	}
	return ctx.Diags.HasErrors()
}

// runtimeDiagnostic is satisfied by both engines' RuntimeError types.
type runtimeDiagnostic interface {
	ToDiagnostic(file, source string) (*diagnostics.Diagnostic, []string)
}

// reportRuntimeError renders a runtime error from either engine in the
// `runtime error[AT0xxx]:` gutter format with its stack trace.
func reportRuntimeError(err error, file, source string) {
	if de, ok := err.(runtimeDiagnostic); ok {
		d, frames := de.ToDiagnostic(file, source)
		fmt.Fprint(os.Stderr, diagnostics.RenderRuntimeHuman(d, frames))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
