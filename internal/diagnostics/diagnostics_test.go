package diagnostics_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

func TestCodePattern(t *testing.T) {
	valid := []diagnostics.ErrorCode{
		diagnostics.ErrTypeMismatch, diagnostics.ErrUnknownSymbol,
		diagnostics.ErrDivideByZero, diagnostics.ErrSyntax,
		diagnostics.WarnUnusedVariable, diagnostics.ErrShadowedPrelude,
	}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("%s should match the AT#### pattern", c)
		}
	}
	invalid := []diagnostics.ErrorCode{"AT1", "XX0001", "AT00001", "at0001", ""}
	for _, c := range invalid {
		if c.Valid() {
			t.Errorf("%q should not match the AT#### pattern", c)
		}
	}
}

func TestRenderHumanShape(t *testing.T) {
	src := "let x: number = \"hello\";"
	tok := token.Token{
		Lexeme: `"hello"`, Line: 1, Column: 17,
		Span: token.Span{StartOffset: 16, Length: 7},
	}
	d := diagnostics.New(diagnostics.LevelError, diagnostics.ErrTypeMismatch, tok,
		"path/to/file.atl", src, "Type mismatch", "expected number, found string").
		WithHelp("convert the value to number or change the variable type")

	out := diagnostics.RenderHuman(d)
	wantLines := []string{
		"error[AT0001]: Type mismatch",
		"  --> path/to/file.atl:1:17",
		"  |",
		`1 | let x: number = "hello";`,
		"  | " + strings.Repeat(" ", 16) + strings.Repeat("^", 7) + " expected number, found string",
		"  |",
		"help: convert the value to number or change the variable type",
	}
	got := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(got) != len(wantLines) {
		t.Fatalf("line count: got %d, want %d\n%s", len(got), len(wantLines), out)
	}
	for i := range wantLines {
		if got[i] != wantLines[i] {
			t.Errorf("line %d:\ngot  %q\nwant %q", i, got[i], wantLines[i])
		}
	}
}

// Identical inputs must render byte-identically (spec bit-compatibility).
func TestRenderDeterministic(t *testing.T) {
	tok := token.Token{Lexeme: "x", Line: 3, Column: 5, Span: token.Span{StartOffset: 20, Length: 1}}
	mk := func() *diagnostics.Diagnostic {
		return diagnostics.New(diagnostics.LevelWarning, diagnostics.WarnUnusedVariable, tok,
			"a.atl", "line1\nline2\nlet x = 1;", "'x' is declared but never used", "^")
	}
	if diagnostics.RenderHuman(mk()) != diagnostics.RenderHuman(mk()) {
		t.Error("human rendering is not deterministic")
	}
	j1, _ := diagnostics.RenderJSON(mk())
	j2, _ := diagnostics.RenderJSON(mk())
	if j1 != j2 {
		t.Error("JSON rendering is not deterministic")
	}
}

func TestRenderJSONFields(t *testing.T) {
	tok := token.Token{Lexeme: "y", Line: 2, Column: 3, Span: token.Span{StartOffset: 8, Length: 1}}
	d := diagnostics.New(diagnostics.LevelError, diagnostics.ErrUnknownSymbol, tok,
		"b.atl", "let a=1\n  y;", "unknown symbol 'y'", "^")
	out, err := diagnostics.RenderJSON(d)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["diag_version"].(float64) != 1 {
		t.Error("diag_version must be 1")
	}
	if decoded["code"] != "AT0002" {
		t.Errorf("code: %v", decoded["code"])
	}
	if decoded["level"] != "error" {
		t.Errorf("level: %v", decoded["level"])
	}
	if decoded["line"].(float64) != 2 || decoded["column"].(float64) != 3 {
		t.Errorf("position: %v:%v", decoded["line"], decoded["column"])
	}
}

// A token carrying only a span still produces 1-based line/column.
func TestPositionDerivedFromSpan(t *testing.T) {
	src := "let a = 1;\nlet b = oops;"
	tok := token.Token{Lexeme: "oops", Span: token.Span{StartOffset: 19, Length: 4}}
	d := diagnostics.New(diagnostics.LevelError, diagnostics.ErrUnknownSymbol, tok,
		"c.atl", src, "unknown symbol 'oops'", "^")
	if d.Line != 2 || d.Column != 9 {
		t.Errorf("got %d:%d, want 2:9", d.Line, d.Column)
	}
	if d.Snippet != "let b = oops;" {
		t.Errorf("snippet: %q", d.Snippet)
	}
}

func TestRenderRuntimeHuman(t *testing.T) {
	tok := token.Token{Lexeme: "/", Line: 1, Column: 9, Span: token.Span{StartOffset: 8, Length: 1}}
	d := diagnostics.New(diagnostics.LevelError, diagnostics.ErrDivideByZero, tok,
		"m.atl", "print(1 / 0);", "division by zero", "^")
	out := diagnostics.RenderRuntimeHuman(d, []string{"f m.atl:1:7", "main m.atl:1:1"})
	if !strings.HasPrefix(out, "runtime error[AT0005]: division by zero\n") {
		t.Errorf("prefix: %q", out)
	}
	if !strings.Contains(out, "stack trace:\n  at f m.atl:1:7\n  at main m.atl:1:1\n") {
		t.Errorf("stack trace block:\n%s", out)
	}
}

func TestBagOrderingAndCap(t *testing.T) {
	bag := diagnostics.NewBag()
	tok := token.Token{Line: 1, Column: 1, Lexeme: "x"}

	// Interleave: warning first, then errors — All() must still put errors first.
	bag.Add(diagnostics.New(diagnostics.LevelWarning, diagnostics.WarnUnusedVariable, tok, "f", "", "w1", ""))
	for i := 0; i < diagnostics.MaxErrors+10; i++ {
		bag.Add(diagnostics.New(diagnostics.LevelError, diagnostics.ErrSyntax, tok, "f", "", "e", ""))
	}
	bag.Add(diagnostics.New(diagnostics.LevelWarning, diagnostics.WarnUnreachableCode, tok, "f", "", "w2", ""))

	if got := bag.ErrorCount(); got != diagnostics.MaxErrors {
		t.Errorf("error cap: got %d, want %d", got, diagnostics.MaxErrors)
	}
	if got := len(bag.Warnings()); got != 2 {
		t.Errorf("warnings are uncapped: got %d, want 2", got)
	}
	all := bag.All()
	for i, d := range all {
		isError := d.Level == diagnostics.LevelError
		if i < diagnostics.MaxErrors != isError {
			t.Fatalf("ordering violated at %d: %s", i, d.Level)
		}
	}
}

func TestBagMaxErrorsOverride(t *testing.T) {
	bag := diagnostics.NewBag()
	bag.SetMaxErrors(2)
	tok := token.Token{Line: 1, Column: 1}
	for i := 0; i < 5; i++ {
		bag.Add(diagnostics.New(diagnostics.LevelError, diagnostics.ErrSyntax, tok, "f", "", "e", ""))
	}
	if got := bag.ErrorCount(); got != 2 {
		t.Errorf("got %d errors, want 2", got)
	}
}

func TestDiagnosticError(t *testing.T) {
	tok := token.Token{Lexeme: "x", Line: 4, Column: 2}
	e := diagnostics.NewError(diagnostics.ErrRedeclaration, tok, "f.atl", "", "'x' is already declared in this scope", "^")
	want := "error[AT2003]: 'x' is already declared in this scope"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
}
