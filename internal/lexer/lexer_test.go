package lexer_test

import (
	"testing"

	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag()
	l := lexer.New(src, "test.atl", 0, bag)
	return l.Scan(), bag
}

// kinds strips NEWLINE/EOF so tests can assert just the interesting tokens.
func kinds(toks []token.Token) []token.Kind {
	var out []token.Kind
	for _, tok := range toks {
		if tok.Kind == token.NEWLINE || tok.Kind == token.EOF {
			continue
		}
		out = append(out, tok.Kind)
	}
	return out
}

func TestScanKinds(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"let_decl", `let x = 5;`, []token.Kind{token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON}},
		{"var_decl_typed", `var s: string = "hi";`, []token.Kind{token.VAR, token.IDENT, token.COLON, token.STRING_TYPE, token.ASSIGN, token.STRING, token.SEMICOLON}},
		{"operators", `+ - * / % == != < <= > >= && || !`, []token.Kind{
			token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
			token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
			token.AND_AND, token.OR_OR, token.BANG,
		}},
		{"compound_assign", `+= -= *= /= %=`, []token.Kind{
			token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
		}},
		{"inc_dec", `++ --`, []token.Kind{token.PLUS_PLUS, token.MINUS_MINUS}},
		{"arrow_vs_minus", `-> - >`, []token.Kind{token.ARROW, token.MINUS, token.GT}},
		{"punctuation", `( ) { } [ ] , ; : ::`, []token.Kind{
			token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET,
			token.RBRACKET, token.COMMA, token.SEMICOLON, token.COLON, token.COLON_COLON,
		}},
		{"keywords", `fn if else while for return break continue true false null`, []token.Kind{
			token.FN, token.IF, token.ELSE, token.WHILE, token.FOR, token.RETURN,
			token.BREAK, token.CONTINUE, token.TRUE, token.FALSE, token.NULL,
		}},
		{"reserved_keywords", `match import`, []token.Kind{token.MATCH, token.IMPORT}},
		{"type_names", `number string bool void`, []token.Kind{
			token.NUMBER_TYPE, token.STRING_TYPE, token.BOOL_TYPE, token.VOID_TYPE,
		}},
		{"identifier_not_keyword_prefix", `letter fnord`, []token.Kind{token.IDENT, token.IDENT}},
		{"line_comment", "let x = 1; // trailing\nlet y = 2;", []token.Kind{
			token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
			token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		}},
		{"block_comment", `let /* inline */ x = 1;`, []token.Kind{
			token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, bag := scan(t, tc.input)
			if bag.HasErrors() {
				t.Fatalf("unexpected lex errors: %v", bag.Errors())
			}
			got := kinds(toks)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tc.want), tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d: got %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestScanNumbers(t *testing.T) {
	testCases := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{"1e3", 1000},
		{"2.5e-1", 0.25},
		{"1E+2", 100},
	}
	for _, tc := range testCases {
		toks, bag := scan(t, tc.input)
		if bag.HasErrors() {
			t.Fatalf("%q: unexpected errors", tc.input)
		}
		if toks[0].Kind != token.NUMBER {
			t.Fatalf("%q: got kind %s", tc.input, toks[0].Kind)
		}
		if got := toks[0].Literal.(float64); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.input, got, tc.want)
		}
	}
}

// A huge literal lexes fine; rejecting the resulting infinity is the
// evaluator's job, not the lexer's.
func TestScanNumberOverflowDeferred(t *testing.T) {
	toks, bag := scan(t, "1e999")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if toks[0].Kind != token.NUMBER || toks[0].Lexeme != "1e999" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestScanStrings(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"inside"`, `quote"inside`},
		{`"back\\slash"`, `back\slash`},
		{`"héllo"`, "héllo"},
	}
	for _, tc := range testCases {
		toks, bag := scan(t, tc.input)
		if bag.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", tc.input, bag.Errors())
		}
		if got := toks[0].Literal.(string); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestScanErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"unknown_char", "let x = 1 @ 2;", diagnostics.ErrUnknownChar},
		{"bare_ampersand", "a & b", diagnostics.ErrUnknownChar},
		{"bare_pipe", "a | b", diagnostics.ErrUnknownChar},
		{"unterminated_string", `"never closed`, diagnostics.ErrUnterminatedString},
		{"string_hits_newline", "\"broken\nrest", diagnostics.ErrUnterminatedString},
		{"bad_escape", `"oops\q"`, diagnostics.ErrBadEscape},
		{"unterminated_comment", "/* no end", diagnostics.ErrUnterminatedComment},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := scan(t, tc.input)
			if !bag.HasErrors() {
				t.Fatal("expected a lex error")
			}
			if got := bag.Errors()[0].Code; got != tc.code {
				t.Errorf("got code %s, want %s", got, tc.code)
			}
		})
	}
}

// Recovery: an unknown character is skipped and lexing continues.
func TestScanRecoversPastUnknownChar(t *testing.T) {
	toks, bag := scan(t, "let @ x = 1;")
	if !bag.HasErrors() {
		t.Fatal("expected an error for '@'")
	}
	got := kinds(toks)
	want := []token.Kind{token.LET, token.ILLEGAL, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSpansAndPositions(t *testing.T) {
	toks, _ := scan(t, "let x = 5;\nlet y = 6;")
	// tokens: let x = 5 ; NL let y = 6 ; EOF
	first := toks[0]
	if first.Span.StartOffset != 0 || first.Span.Length != 3 {
		t.Errorf("let span: %+v", first.Span)
	}
	if first.Line != 1 || first.Column != 1 {
		t.Errorf("let position: %d:%d", first.Line, first.Column)
	}
	var secondLet token.Token
	seen := 0
	for _, tok := range toks {
		if tok.Kind == token.LET {
			seen++
			if seen == 2 {
				secondLet = tok
			}
		}
	}
	if secondLet.Line != 2 || secondLet.Column != 1 {
		t.Errorf("second let position: %d:%d", secondLet.Line, secondLet.Column)
	}
	if secondLet.Span.StartOffset != 11 {
		t.Errorf("second let offset: %d", secondLet.Span.StartOffset)
	}
}
