package binder_test

import (
	"testing"

	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
)

func bind(t *testing.T, src string) *diagnostics.Bag {
	t.Helper()
	bag := diagnostics.NewBag()
	toks := lexer.New(src, "test.atl", 0, bag).Scan()
	prog := parser.New(toks, "test.atl", src, bag).ParseProgram()
	if bag.HasErrors() {
		t.Fatalf("parse errors before binding: %v", bag.Errors()[0].Message)
	}
	binder.Bind(prog, "test.atl", src, bag)
	return bag
}

func firstError(bag *diagnostics.Bag) diagnostics.ErrorCode {
	if len(bag.Errors()) == 0 {
		return ""
	}
	return bag.Errors()[0].Code
}

func TestBindErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"unknown_symbol", "let x = y;", diagnostics.ErrUnknownSymbol},
		{"use_before_decl", "let a = b; let b = 1;", diagnostics.ErrUnknownSymbol},
		{"redeclaration", "let x = 1; let x = 2;", diagnostics.ErrRedeclaration},
		{"redeclaration_let_var", "let x = 1; var x = 2;", diagnostics.ErrRedeclaration},
		{"param_redeclared", "fn f(a: number) -> number { let a = 1; return a; }", diagnostics.ErrRedeclaration},
		{"break_outside_loop", "break;", diagnostics.ErrIllegalBreakCont},
		{"continue_outside_loop", "continue;", diagnostics.ErrIllegalBreakCont},
		{"break_in_fn_outside_loop", "fn f() -> void { break; }", diagnostics.ErrIllegalBreakCont},
		{"return_outside_fn", "return 1;", diagnostics.ErrIllegalReturn},
		{"return_in_top_loop", "while (true) { return; }", diagnostics.ErrIllegalReturn},
		{"shadow_prelude_var", "let print = 1;", diagnostics.ErrShadowedPrelude},
		{"shadow_prelude_fn", "fn len(a: number) -> number { return a; }", diagnostics.ErrShadowedPrelude},
		{"shadow_prelude_param", "fn f(str: number) -> number { return str; }", diagnostics.ErrShadowedPrelude},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bag := bind(t, tc.src)
			if !bag.HasErrors() {
				t.Fatal("expected a binder error")
			}
			if got := firstError(bag); got != tc.code {
				t.Errorf("got %s, want %s", got, tc.code)
			}
		})
	}
}

func TestBindAccepts(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"shadow_in_nested_scope", "let x = 1; { let x = 2; print(x); } print(x);"},
		{"forward_fn_reference", "let r = f(); fn f() -> number { return 1; }"},
		{"fn_calls_fn_declared_later", "fn a() -> number { return b(); } fn b() -> number { return 1; }"},
		{"for_init_scoped_to_loop", "for (var i = 0; i < 3; i = i + 1) { print(i); } let i = 9; print(i);"},
		{"break_inside_for", "for (;;) { break; }"},
		{"continue_inside_while", "var x = 0; while (x < 3) { x = x + 1; continue; }"},
		{"recursion", "fn f(n: number) -> number { if (n <= 1) { return 1; } return n * f(n - 1); }"},
		{"prelude_calls", `print("a"); let n = len("abc"); let s = str(1);`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bag := bind(t, tc.src)
			if bag.HasErrors() {
				t.Errorf("unexpected error: %s: %s", firstError(bag), bag.Errors()[0].Message)
			}
		})
	}
}

func TestUnusedVariableWarning(t *testing.T) {
	bag := bind(t, "let unused = 1;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if len(bag.Warnings()) == 0 {
		t.Fatal("expected an unused-variable warning")
	}
	if got := bag.Warnings()[0].Code; got != diagnostics.WarnUnusedVariable {
		t.Errorf("got %s, want %s", got, diagnostics.WarnUnusedVariable)
	}
}

func TestUsedVariableNoWarning(t *testing.T) {
	bag := bind(t, "let used = 1; print(used);")
	if len(bag.Warnings()) != 0 {
		t.Errorf("unexpected warning: %v", bag.Warnings()[0].Message)
	}
}

// Diagnostics produced from bare spans must still carry 1-based positions.
func TestBinderDiagnosticPositions(t *testing.T) {
	bag := bind(t, "let a = 1;\nlet b = missing;")
	if !bag.HasErrors() {
		t.Fatal("expected an error")
	}
	d := bag.Errors()[0]
	if d.Line != 2 {
		t.Errorf("line: got %d, want 2", d.Line)
	}
	if d.Column != 9 {
		t.Errorf("column: got %d, want 9", d.Column)
	}
}
