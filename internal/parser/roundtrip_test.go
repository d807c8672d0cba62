package parser_test

import (
	"testing"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/printer"
)

// parse → print → parse must be a fixed point: the second print equals the
// first, which is only possible if the two trees are structurally equal
// (modulo comments and layout).
func TestPrintRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"declarations", "let x = 5;\nvar y: number = 6;\nlet s: string = \"hi\";"},
		{"escapes", `let s = "a\nb\t\"q\"\\";`},
		{"precedence_flat", "let a = 1 + 2 * 3 - 4 / 5 % 6;"},
		{"precedence_grouped", "let a = (1 + 2) * (3 - 4);"},
		{"logic", "let b = true && false || !true;"},
		{"comparisons", "let b = 1 < 2 == (3 >= 4);"},
		{"unary_chain", "let n = -(-5);"},
		{"arrays", "let xs: number[][] = [[1, 2], [3]];\nxs[0][1] = 9;"},
		{"calls", "print(len(\"abc\"));\nlet s = str(1 + 2);"},
		{"function", "fn add(a: number, b: number) -> number {\n    return a + b;\n}"},
		{"fn_type_annotation", "fn inc(n: number) -> number { return n + 1; }\nlet f: fn(number) -> number = inc;"},
		{"control_flow", "if (1 < 2) {\n    print(\"a\");\n} else if (2 < 3) {\n    print(\"b\");\n} else {\n    print(\"c\");\n}"},
		{"loops", "var i = 0;\nwhile (i < 3) {\n    i = i + 1;\n}\nfor (var j = 0; j < 3; j++) {\n    if (j == 1) { continue; }\n    print(j);\n}"},
		{"for_empty_header", "for (;;) {\n    break;\n}"},
		{"compound_incdec", "var x = 1;\nx += 2;\nx *= 3;\nx--;\n++x;"},
		{"nested_blocks", "{\n    let x = 1;\n    {\n        let y = 2;\n        print(y);\n    }\n    print(x);\n}"},
		{"empty_block", "if (true) { }"},
		{"scientific_literals", "let a = 1e3;\nlet b = 2.5e-4;\nlet c = 0.125;"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := parseRT(t, tc.src)
			printed1 := printer.Print(first)
			second := parseRT(t, printed1)
			printed2 := printer.Print(second)
			if printed1 != printed2 {
				t.Errorf("round trip not stable:\nfirst:\n%s\nsecond:\n%s", printed1, printed2)
			}
		})
	}
}

func parseRT(t *testing.T, src string) *ast.Program {
	t.Helper()
	bag := diagnostics.NewBag()
	toks := lexer.New(src, "rt.atl", 0, bag).Scan()
	prog := parser.New(toks, "rt.atl", src, bag).ParseProgram()
	if bag.HasErrors() {
		t.Fatalf("parse failed for:\n%s\nerror: %s", src, bag.Errors()[0].Message)
	}
	return prog
}
