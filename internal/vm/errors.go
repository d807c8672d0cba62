package vm

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

// Frame is one active function call at the moment a runtime error was
// raised, annotated with the span of its call site — the VM's counterpart
// to interp.Frame, kept as an independent type rather than a shared import
// so the two engines stay decoupled: the interpreter and VM are parallel
// consumers of the typed AST / Bytecode, not layered on each other.
type Frame struct {
	FuncName string
	CallSpan token.Span
}

// RuntimeError is the VM's structured failure record, field-for-field the
// same shape as interp.RuntimeError, which is what lets internal/backend
// compare the two engines' failures for equality.
type RuntimeError struct {
	Code    diagnostics.ErrorCode
	Message string
	Span    token.Span
	Stack   []Frame
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error[%s]: %s", e.Code, e.Message)
}

// ToDiagnostic renders e into the shared Diagnostic shape plus the
// "at <function> file:line:col" frame lines diagnostics.RenderRuntimeHuman
// expects.
func (e *RuntimeError) ToDiagnostic(file, source string) (*diagnostics.Diagnostic, []string) {
	line, col := lineColAt(source, e.Span.StartOffset)
	tok := token.Token{Span: e.Span, Line: line, Column: col, Lexeme: lexemeAt(source, e.Span)}
	d := diagnostics.New(diagnostics.LevelError, e.Code, tok, file, source, e.Message, "^")

	frames := make([]string, 0, len(e.Stack)+1)
	for _, f := range e.Stack {
		fl, fc := lineColAt(source, f.CallSpan.StartOffset)
		frames = append(frames, fmt.Sprintf("%s %s:%d:%d", f.FuncName, file, fl, fc))
	}
	// The implicit top-level frame closes every trace; its position is the
	// outermost call site, or the failing operation itself when the error
	// was raised directly at top level.
	mainSpan := e.Span
	if len(e.Stack) > 0 {
		mainSpan = e.Stack[len(e.Stack)-1].CallSpan
	}
	ml, mc := lineColAt(source, mainSpan.StartOffset)
	frames = append(frames, fmt.Sprintf("main %s:%d:%d", file, ml, mc))
	return d, frames
}

func newRuntimeError(code diagnostics.ErrorCode, span token.Span, msg string, stack []Frame) *RuntimeError {
	trace := make([]Frame, len(stack))
	for i := range stack {
		trace[len(stack)-1-i] = stack[i]
	}
	return &RuntimeError{Code: code, Message: msg, Span: span, Stack: trace}
}

func lineColAt(source string, offset int) (line, col int) {
	line, col = 1, 1
	for i, r := range source {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func lexemeAt(source string, span token.Span) string {
	start := span.StartOffset
	end := start + span.Length
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}
