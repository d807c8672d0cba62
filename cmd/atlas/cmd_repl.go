package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/checker"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/pipeline"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

const (
	replFile       = "<repl>"
	promptPrimary  = ">>> "
	promptContinue = "... "
)

// replCmd is the interactive read-eval-print loop. The session holds one
// persistent global environment: bindings survive across inputs, and a
// runtime error aborts only the current input.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Atlas session" }
func (*replCmd) Usage() string {
	return `atlas repl
  Read-eval-print loop; 'exit' or Ctrl-D ends the session.
`
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := &replSession{
		interp: interp.New(nil, nil, replFile, "", os.Stdout),
		color:  isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}

	// Interactive terminals get readline (editing + history); piped stdin
	// falls back to a plain scanner so the REPL stays scriptable.
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return s.runReadline()
	}
	return s.runPlain(os.Stdin)
}

// replSession accumulates accepted inputs so each new input is compiled
// with every earlier declaration in scope, while only the new top-level
// items are executed (earlier ones are re-bound and re-checked, which has
// no side effects).
type replSession struct {
	interp   *interp.Interpreter
	accepted []string
	itemsRun int
	color    bool
}

func (s *replSession) runReadline() subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      promptPrimary,
		HistoryFile: filepath.Join(os.TempDir(), ".atlas_history"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas repl: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buf.Reset()
			rl.SetPrompt(promptPrimary)
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "atlas repl: %v\n", err)
			return subcommands.ExitFailure
		}
		if buf.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return subcommands.ExitSuccess
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		if !inputComplete(buf.String()) {
			rl.SetPrompt(promptContinue)
			continue
		}
		s.submit(buf.String())
		buf.Reset()
		rl.SetPrompt(promptPrimary)
	}
}

func (s *replSession) runPlain(in io.Reader) subcommands.ExitStatus {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if buf.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return subcommands.ExitSuccess
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		if !inputComplete(buf.String()) {
			continue
		}
		s.submit(buf.String())
		buf.Reset()
	}
	if buf.Len() > 0 {
		s.submit(buf.String())
	}
	return subcommands.ExitSuccess
}

// inputComplete reports whether src has balanced braces/brackets/parens;
// the REPL keeps reading continuation lines until it does.
func inputComplete(src string) bool {
	l := lexer.New(src, replFile, 0, nil)
	depth := 0
	for _, t := range l.Scan() {
		switch t.Kind {
		case token.LBRACE, token.LBRACKET, token.LPAREN:
			depth++
		case token.RBRACE, token.RBRACKET, token.RPAREN:
			depth--
		}
	}
	return depth <= 0
}

// submit compiles the accumulated session source plus input, executes the
// newly added top-level items against the persistent environment, and
// displays the final value when the input was a bare expression.
func (s *replSession) submit(input string) {
	if strings.TrimSpace(input) == "" {
		return
	}

	parts := append(append([]string{}, s.accepted...), input)
	source := strings.Join(parts, "\n")
	prefixLines := 0
	if len(s.accepted) > 0 {
		prefixLines = strings.Count(strings.Join(s.accepted, "\n"), "\n") + 1
	}

	ctx := pipeline.NewContext(replFile, 0, source)
	p := pipeline.New(lexer.Processor{}, parser.Processor{}, binder.Processor{}, checker.Processor{})
	ctx = p.Run(ctx)

	// Only show diagnostics that point into the new input; warnings for
	// already-accepted lines were shown when those lines were accepted.
	for _, d := range ctx.Diags.All() {
		if d.Line > prefixLines {
			fmt.Fprint(os.Stderr, renderDiag(d, s.color))
		}
	}
	if ctx.Diags.HasErrors() {
		return
	}

	fresh := &ast.Program{
		File:  ctx.AST.File,
		Items: ctx.AST.Items[min(s.itemsRun, len(ctx.AST.Items)):],
		Span:  ctx.AST.Span,
	}
	s.accepted = append(s.accepted, input)
	s.itemsRun = len(ctx.AST.Items)

	v, rerr := s.interp.Run(fresh)
	if rerr != nil {
		reportRuntimeError(rerr, replFile, source)
		return
	}
	if v.Kind() != value.KindNull {
		fmt.Fprintln(os.Stdout, value.CanonicalString(v))
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
