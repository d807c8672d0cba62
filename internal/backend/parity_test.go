package backend_test

import (
	"testing"

	"github.com/atlas-lang/atlas/internal/backend"
	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/checker"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/pipeline"
)

func compile(t *testing.T, src string) *pipeline.Context {
	t.Helper()
	ctx := pipeline.NewContext("test.atl", 0, src)
	p := pipeline.New(lexer.Processor{}, parser.Processor{}, binder.Processor{}, checker.Processor{})
	ctx = p.Run(ctx)
	if ctx.Diags.HasErrors() {
		t.Fatalf("program rejected: %s", ctx.Diags.Errors()[0].Message)
	}
	return ctx
}

// Every program here runs on BOTH engines; RunBoth asserts identical
// stdout, final value, and (where applicable) runtime error code — the
// core parity guarantee, exercised as a regression suite.
func TestEngineParity(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		stdout string
	}{
		{"scenario_add", `fn add(a: number, b: number) -> number { return a + b; } print(add(2, 3));`, "5\n"},
		{"scenario_aliasing", `let a = [1, 2, 3]; let b = a; a[0] = 99; print(b[0]);`, "99\n"},
		{"scenario_for_sum", `var sum = 0; for (var i = 0; i < 5; i = i + 1) { sum = sum + i; } print(sum);`, "10\n"},
		{"scenario_factorial", `fn f(n: number) -> number { if (n <= 1) { return 1; } return n * f(n - 1); } print(f(5));`, "120\n"},
		{"number_formatting", `print(0.1 + 0.2); print(1 / 3); print(100); print(2.5e10);`, "0.30000000000000004\n0.3333333333333333\n100\n2.5e+10\n"},
		{"string_ops", `let s = "a" + "b" + "c"; print(s); print(len(s)); print(str(len(s)) + "!");`, "abc\n3\n3!\n"},
		{"booleans", `print(true && false); print(true || false); print(!true); print(1 < 2 == true);`, "false\ntrue\nfalse\ntrue\n"},
		{"equality_kinds", `let a = [1]; let b = a; print(a == b); print(a == [1]); print(null == null); print("x" == "x");`, "true\nfalse\ntrue\ntrue\n"},
		{"short_circuit_effects", `fn t() -> bool { print("t"); return true; } fn f() -> bool { print("f"); return false; }
print(f() && t());
print(t() || f());
print(t() && f());`, "f\nfalse\nt\ntrue\nt\nf\nfalse\n"},
		{"loops_break_continue", `for (var i = 0; i < 6; i = i + 1) { if (i == 5) { break; } if (i % 2 == 0) { continue; } print(i); }`, "1\n3\n"},
		{"while_nested", `var i = 0; while (i < 2) { var j = 0; while (j < 2) { print(i * 10 + j); j = j + 1; } i = i + 1; }`, "0\n1\n10\n11\n"},
		{"shadowing", `let x = 1; { let x = 2; { let x = 3; print(x); } print(x); } print(x);`, "3\n2\n1\n"},
		{"compound_and_incdec", `var x = 1; x += 4; x--; let xs = [10]; xs[0] *= 3; xs[0]++; print(x); print(xs[0]);`, "4\n31\n"},
		{"mutual_recursion", `fn even(n: number) -> bool { if (n == 0) { return true; } return odd(n - 1); } fn odd(n: number) -> bool { if (n == 0) { return false; } return even(n - 1); } print(odd(7));`, "true\n"},
		{"fn_values", `fn double(n: number) -> number { return n * 2; } fn apply(f: fn(number) -> number, n: number) -> number { return f(n); } print(apply(double, 21));`, "42\n"},
		{"nested_arrays", `let grid = [[1, 2], [3, 4]]; grid[0][1] = 20; print(grid[0][1]); print(len(grid)); print(len(grid[1]));`, "20\n2\n2\n"},
		{"arg_eval_order", `fn tap(n: number) -> number { print(n); return n; } fn add3(a: number, b: number, c: number) -> number { return a + b + c; } print(add3(tap(1), tap(2), tap(3)));`, "1\n2\n3\n6\n"},
		{"unicode_len", `print(len("héllo wörld")); print(len("日本語"));`, "11\n3\n"},
		{"array_passed_to_fn_aliases", `fn bump(xs: number[]) -> void { xs[0] = xs[0] + 1; } let a = [41]; bump(a); print(a[0]);`, "42\n"},
		{"for_init_scope", `for (var i = 0; i < 2; i = i + 1) { print(i); } let i = 5; print(i);`, "0\n1\n5\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := compile(t, tc.src)
			r := backend.RunBoth(ctx)
			if !r.OK() {
				t.Fatalf("parity violated: %s\ninterp stdout: %q\nvm stdout:     %q\ninterp err: %v\nvm err:     %v",
					r.Mismatch, r.InterpStdout, r.VMStdout, r.InterpErr, r.VMErr)
			}
			if r.InterpStdout != tc.stdout {
				t.Errorf("stdout:\ngot  %q\nwant %q", r.InterpStdout, tc.stdout)
			}
		})
	}
}

// Runtime failures must also agree: same first error code, same stdout
// prefix written before the failure.
func TestEngineParityOnRuntimeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		stdout string
	}{
		{"scenario_div_zero", `print(1 / 0);`, ""},
		{"div_zero_mid_program", `print(1); print(2); print(3 / 0);`, "1\n2\n"},
		{"overflow", `print(1e308 * 1e308);`, ""},
		{"overflow_literal", `print(1e999 + 1);`, ""},
		{"out_of_bounds", `let xs = [1, 2]; print(xs[2]);`, ""},
		{"negative_index", `let xs = [1]; print(xs[0 - 1]);`, ""},
		{"fractional_index", `let xs = [1]; print(xs[0.5]);`, ""},
		{"error_in_recursion", `fn f(n: number) -> number { if (n == 0) { return 1 / 0; } return f(n - 1); } print(f(3));`, ""},
		{"error_after_output_in_loop", `for (var i = 3; i >= 0; i = i - 1) { print(10 / i); }`, "3.3333333333333335\n5\n10\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := compile(t, tc.src)
			r := backend.RunBoth(ctx)
			if !r.OK() {
				t.Fatalf("parity violated: %s\ninterp err: %v\nvm err: %v", r.Mismatch, r.InterpErr, r.VMErr)
			}
			if r.InterpErr == nil || r.VMErr == nil {
				t.Fatal("expected both engines to fail")
			}
			if r.InterpStdout != tc.stdout {
				t.Errorf("stdout before error:\ngot  %q\nwant %q", r.InterpStdout, tc.stdout)
			}
		})
	}
}

func TestBackendNames(t *testing.T) {
	if backend.NewTreeWalk().Name() != "interpreter" {
		t.Error("tree-walk backend name changed")
	}
	if backend.NewVM().Name() != "vm" {
		t.Error("vm backend name changed")
	}
}
