package parser_test

import (
	"strings"
	"testing"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/token"
)

func parse(t *testing.T, src string) (*ast.Program, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag()
	toks := lexer.New(src, "test.atl", 0, bag).Scan()
	p := parser.New(toks, "test.atl", src, bag)
	return p.ParseProgram(), bag
}

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, bag.Errors()[0].Message)
	}
	return prog
}

func TestParseStatements(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want func(t *testing.T, prog *ast.Program)
	}{
		{"let_decl", "let x = 5;", func(t *testing.T, prog *ast.Program) {
			d := prog.Items[0].(*ast.VarDecl)
			if d.VarKind != ast.KindLet || d.Name != "x" || d.DeclaredType != nil {
				t.Errorf("got %+v", d)
			}
		}},
		{"var_decl_typed", "var n: number = 0;", func(t *testing.T, prog *ast.Program) {
			d := prog.Items[0].(*ast.VarDecl)
			if d.VarKind != ast.KindVar {
				t.Error("expected var")
			}
			if _, ok := d.DeclaredType.(*ast.PrimitiveTypeRef); !ok {
				t.Errorf("expected primitive type ref, got %T", d.DeclaredType)
			}
		}},
		{"array_type", "let xs: number[] = [1];", func(t *testing.T, prog *ast.Program) {
			d := prog.Items[0].(*ast.VarDecl)
			at, ok := d.DeclaredType.(*ast.ArrayTypeRef)
			if !ok {
				t.Fatalf("expected array type ref, got %T", d.DeclaredType)
			}
			if _, ok := at.Elem.(*ast.PrimitiveTypeRef); !ok {
				t.Errorf("expected primitive element, got %T", at.Elem)
			}
		}},
		{"fn_type", "let f: fn(number) -> number = g;", func(t *testing.T, prog *ast.Program) {
			d := prog.Items[0].(*ast.VarDecl)
			ft, ok := d.DeclaredType.(*ast.FunctionTypeRef)
			if !ok {
				t.Fatalf("expected function type ref, got %T", d.DeclaredType)
			}
			if len(ft.Params) != 1 {
				t.Errorf("params: %d", len(ft.Params))
			}
		}},
		{"assign_name", "x = 1;", func(t *testing.T, prog *ast.Program) {
			a := prog.Items[0].(*ast.AssignStmt)
			if _, ok := a.Target.(*ast.Identifier); !ok {
				t.Errorf("target: %T", a.Target)
			}
		}},
		{"assign_index", "xs[0] = 1;", func(t *testing.T, prog *ast.Program) {
			a := prog.Items[0].(*ast.AssignStmt)
			if _, ok := a.Target.(*ast.IndexExpr); !ok {
				t.Errorf("target: %T", a.Target)
			}
		}},
		{"compound_assign", "x += 2;", func(t *testing.T, prog *ast.Program) {
			c := prog.Items[0].(*ast.CompoundAssignStmt)
			if c.Op != token.PLUS_ASSIGN {
				t.Errorf("op: %s", c.Op)
			}
		}},
		{"post_inc", "x++;", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.IncDecStmt)
			if s.Op != token.PLUS_PLUS || s.Position != ast.PositionPost {
				t.Errorf("got %+v", s)
			}
		}},
		{"pre_dec", "--x;", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.IncDecStmt)
			if s.Op != token.MINUS_MINUS || s.Position != ast.PositionPre {
				t.Errorf("got %+v", s)
			}
		}},
		{"if_else_if", "if (a) { } else if (b) { } else { }", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.IfStmt)
			nested, ok := s.Else.(*ast.IfStmt)
			if !ok {
				t.Fatalf("else: %T", s.Else)
			}
			if _, ok := nested.Else.(*ast.Block); !ok {
				t.Errorf("nested else: %T", nested.Else)
			}
		}},
		{"while", "while (x < 10) { x = x + 1; }", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.WhileStmt)
			if len(s.Body.Stmts) != 1 {
				t.Errorf("body: %d stmts", len(s.Body.Stmts))
			}
		}},
		{"for_full", "for (var i = 0; i < 5; i = i + 1) { }", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.ForStmt)
			if s.Init == nil || s.Cond == nil || s.Step == nil {
				t.Errorf("got %+v", s)
			}
		}},
		{"for_step_incdec", "for (var i = 0; i < 5; i++) { }", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.ForStmt)
			if _, ok := s.Step.(*ast.IncDecStmt); !ok {
				t.Errorf("step: %T", s.Step)
			}
		}},
		{"for_empty_clauses", "for (;;) { break; }", func(t *testing.T, prog *ast.Program) {
			s := prog.Items[0].(*ast.ForStmt)
			if s.Init != nil || s.Cond != nil || s.Step != nil {
				t.Errorf("got %+v", s)
			}
		}},
		{"return_value", "fn f() -> number { return 1; }", func(t *testing.T, prog *ast.Program) {
			fd := prog.Items[0].(*ast.FunctionDecl)
			r := fd.Body.Stmts[0].(*ast.ReturnStmt)
			if r.Value == nil {
				t.Error("expected a return value")
			}
		}},
		{"bare_return", "fn f() -> void { return; }", func(t *testing.T, prog *ast.Program) {
			fd := prog.Items[0].(*ast.FunctionDecl)
			r := fd.Body.Stmts[0].(*ast.ReturnStmt)
			if r.Value != nil {
				t.Error("expected no return value")
			}
		}},
		{"fn_params", "fn add(a: number, b: number) -> number { return a + b; }", func(t *testing.T, prog *ast.Program) {
			fd := prog.Items[0].(*ast.FunctionDecl)
			if fd.Name != "add" || len(fd.Params) != 2 {
				t.Errorf("got %+v", fd)
			}
		}},
		{"nested_block", "{ let x = 1; { let y = 2; } }", func(t *testing.T, prog *ast.Program) {
			b := prog.Items[0].(*ast.Block)
			if len(b.Stmts) != 2 {
				t.Fatalf("outer block: %d stmts", len(b.Stmts))
			}
			if _, ok := b.Stmts[1].(*ast.Block); !ok {
				t.Errorf("inner: %T", b.Stmts[1])
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog := parseOK(t, tc.src)
			if len(prog.Items) == 0 {
				t.Fatal("no items parsed")
			}
			tc.want(t, prog)
		})
	}
}

// exprShape renders an expression with full parenthesization so precedence
// tests can assert grouping structurally.
func exprShape(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.NumberLiteral:
		return v.Raw
	case *ast.Identifier:
		return v.Name
	case *ast.BoolLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.BinaryExpr:
		return "(" + exprShape(v.Left) + " " + v.Op.String() + " " + exprShape(v.Right) + ")"
	case *ast.UnaryExpr:
		return "(" + v.Op.String() + exprShape(v.Operand) + ")"
	case *ast.GroupExpr:
		return exprShape(v.Inner)
	case *ast.IndexExpr:
		return exprShape(v.Array) + "[" + exprShape(v.Index) + "]"
	case *ast.CallExpr:
		var args []string
		for _, a := range v.Args {
			args = append(args, exprShape(a))
		}
		return exprShape(v.Callee) + "(" + strings.Join(args, ", ") + ")"
	default:
		return "?"
	}
}

func TestOperatorPrecedence(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"1 * 2 + 3;", "((1 * 2) + 3)"},
		{"1 + 2 - 3;", "((1 + 2) - 3)"},
		{"a || b && c;", "(a || (b && c))"},
		{"a == b || c == d;", "((a == b) || (c == d))"},
		{"1 < 2 == true;", "((1 < 2) == true)"},
		{"-a * b;", "((-a) * b)"},
		{"!a && b;", "((!a) && b)"},
		{"-a - -b;", "((-a) - (-b))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a[0] + f(1);", "(a[0] + f(1))"},
		{"f(1)[0];", "f(1)[0]"},
		{"a % 2 == 0;", "((a % 2) == 0)"},
	}
	for _, tc := range testCases {
		prog := parseOK(t, tc.src)
		es, ok := prog.Items[0].(*ast.ExprStmt)
		if !ok {
			t.Fatalf("%q: item is %T", tc.src, prog.Items[0])
		}
		if got := exprShape(es.Expr); got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"missing_semicolon", "let x = 1", diagnostics.ErrSyntax},
		{"nested_fn", "fn outer() -> void { fn inner() -> void { } }", diagnostics.ErrSyntax},
		{"reserved_match", "match x { }", diagnostics.ErrReservedKeyword},
		{"reserved_import", `import "foo";`, diagnostics.ErrReservedKeyword},
		{"missing_paren", "if x) { }", diagnostics.ErrSyntax},
		{"bad_assign_target", "1 + 2 = 3;", diagnostics.ErrSyntax},
		{"missing_arrow", "fn f() number { return 1; }", diagnostics.ErrSyntax},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := parse(t, tc.src)
			if !bag.HasErrors() {
				t.Fatal("expected a parse error")
			}
			found := false
			for _, d := range bag.Errors() {
				if d.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s among %v", tc.code, bag.Errors()[0].Code)
			}
		})
	}
}

// A single bad statement must not swallow the rest of the program.
func TestRecoveryKeepsLaterItems(t *testing.T) {
	prog, bag := parse(t, "let = 5;\nlet y = 6;")
	if !bag.HasErrors() {
		t.Fatal("expected an error")
	}
	foundY := false
	for _, item := range prog.Items {
		if d, ok := item.(*ast.VarDecl); ok && d.Name == "y" {
			foundY = true
		}
	}
	if !foundY {
		t.Error("recovery lost the second declaration")
	}
}

func TestErrorCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("let = ;\n")
	}
	_, bag := parse(t, b.String())
	if got := bag.ErrorCount(); got > diagnostics.MaxErrors {
		t.Errorf("error cap exceeded: %d > %d", got, diagnostics.MaxErrors)
	}
}

func TestItemSpansNonEmpty(t *testing.T) {
	prog := parseOK(t, "fn f(a: number) -> number { if (a > 0) { return a; } return 0 - a; }\nlet r = f(3);\nprint(r);")
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		sp := n.GetSpan()
		if sp.Length <= 0 {
			t.Errorf("%T has empty span %+v", n, sp)
		}
	}
	for _, item := range prog.Items {
		walk(item)
	}
}
