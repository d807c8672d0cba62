// Package token defines the lexical tokens produced by the Atlas lexer.
package token

import "fmt"

// Kind classifies a token. The set is closed: Atlas never needs a
// "generic punctuation" catch-all because every symbol the grammar
// accepts is enumerated here.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals and identifiers
	IDENT
	NUMBER
	STRING

	// Keywords
	LET
	VAR
	FN
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	TRUE
	FALSE
	NULL
	MATCH  // reserved, not grammatical
	IMPORT // reserved, not grammatical

	// Primitive type names
	NUMBER_TYPE
	STRING_TYPE
	BOOL_TYPE
	VOID_TYPE
	NULL_TYPE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ
	NOT_EQ
	LT
	LT_EQ
	GT
	GT_EQ
	AND_AND
	OR_OR
	BANG
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	PLUS_PLUS
	MINUS_MINUS

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	ARROW
	COLON_COLON

	NEWLINE
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	LET: "let", VAR: "var", FN: "fn", IF: "if", ELSE: "else",
	WHILE: "while", FOR: "for", RETURN: "return", BREAK: "break",
	CONTINUE: "continue", TRUE: "true", FALSE: "false", NULL: "null",
	MATCH: "match", IMPORT: "import",
	NUMBER_TYPE: "number", STRING_TYPE: "string", BOOL_TYPE: "bool",
	VOID_TYPE: "void", NULL_TYPE: "null",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	EQ: "==", NOT_EQ: "!=", LT: "<", LT_EQ: "<=", GT: ">", GT_EQ: ">=",
	AND_AND: "&&", OR_OR: "||", BANG: "!",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
	PLUS_PLUS: "++", MINUS_MINUS: "--",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", SEMICOLON: ";", COLON: ":",
	ARROW: "->", COLON_COLON: "::", NEWLINE: "\\n",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved words to their token kind. Identifiers are
// promoted to keywords by exact string match after the full lexeme has
// been assembled (see internal/lexer).
var Keywords = map[string]Kind{
	"let": LET, "var": VAR, "fn": FN, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "return": RETURN, "break": BREAK,
	"continue": CONTINUE, "true": TRUE, "false": FALSE, "null": NULL,
	"match": MATCH, "import": IMPORT,
	"number": NUMBER_TYPE, "string": STRING_TYPE, "bool": BOOL_TYPE,
	"void": VOID_TYPE,
}

// Span is a half-open byte range within a single source file.
type Span struct {
	FileID      int
	StartOffset int
	Length      int
}

// Merge returns the smallest span covering both a and b. Both spans must
// belong to the same file.
func Merge(a, b Span) Span {
	start := a.StartOffset
	if b.StartOffset < start {
		start = b.StartOffset
	}
	end := a.StartOffset + a.Length
	if e := b.StartOffset + b.Length; e > end {
		end = e
	}
	return Span{FileID: a.FileID, StartOffset: start, Length: end - start}
}

// Token is a single lexical unit with its source span.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any // parsed float64 for NUMBER, unescaped string for STRING
	Span    Span
	Line    int // 1-based
	Column  int // 1-based
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q %d:%d}", t.Kind, t.Lexeme, t.Line, t.Column)
}
