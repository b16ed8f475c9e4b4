package lexer

import "testing"

func TestNextTokenStream(t *testing.T) {
	input := `module Demo where

import Text

main : Int
main = show 42
`
	want := []struct {
		typ     TokenType
		literal string
	}{
		{TokenModule, "module"},
		{TokenUpperIdent, "Demo"},
		{TokenWhere, "where"},
		{TokenNewline, "\n"},
		{TokenNewline, "\n"},
		{TokenImport, "import"},
		{TokenUpperIdent, "Text"},
		{TokenNewline, "\n"},
		{TokenNewline, "\n"},
		{TokenLowerIdent, "main"},
		{TokenColon, ":"},
		{TokenUpperIdent, "Int"},
		{TokenNewline, "\n"},
		{TokenLowerIdent, "main"},
		{TokenEquals, "="},
		{TokenLowerIdent, "show"},
		{TokenInt, "42"},
		{TokenNewline, "\n"},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, w.typ, tok.Literal)
		}
		if tok.Literal != w.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, w.literal)
		}
	}
}

func TestSymbols(t *testing.T) {
	input := `a -> b | ( ) , . =`
	want := []TokenType{
		TokenLowerIdent, TokenArrow, TokenLowerIdent, TokenPipe,
		TokenLParen, TokenRParen, TokenComma, TokenDot, TokenEquals,
		TokenEOF,
	}
	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w)
		}
	}
}

func TestLineComments(t *testing.T) {
	input := "-- leading comment\nx = 1 -- trailing\n"
	want := []TokenType{
		TokenNewline,
		TokenLowerIdent, TokenEquals, TokenInt, TokenNewline,
		TokenEOF,
	}
	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, w, tok.Literal)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		typ   TokenType
		want  string
	}{
		{"plain", `"hello"`, TokenString, "hello"},
		{"escapes", `"a\nb\t\"c\\d"`, TokenString, "a\nb\t\"c\\d"},
		{"unknown escape kept verbatim", `"a\qb"`, TokenString, `a\qb`},
		{"unterminated", `"never ends`, TokenError, "unterminated string literal"},
		{"newline terminates", "\"broken\nrest", TokenError, "unterminated string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.typ {
				t.Fatalf("type = %s, want %s", tok.Type, tt.typ)
			}
			if tok.Literal != tt.want {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	input := "module Demo where\nmain = 1\n"
	l := New(input)

	tok := l.NextToken() // module
	if tok.Line != 1 || tok.Column != 1 || tok.Offset != 0 {
		t.Errorf("module at %d:%d offset %d, want 1:1 offset 0", tok.Line, tok.Column, tok.Offset)
	}
	l.NextToken() // Demo
	l.NextToken() // where
	l.NextToken() // newline

	tok = l.NextToken() // main
	if tok.Line != 2 || tok.Column != 1 || tok.Offset != 18 {
		t.Errorf("main at %d:%d offset %d, want 2:1 offset 18", tok.Line, tok.Column, tok.Offset)
	}
	l.NextToken() // =
	tok = l.NextToken()
	if tok.Line != 2 || tok.Column != 8 {
		t.Errorf("literal at %d:%d, want 2:8", tok.Line, tok.Column)
	}
}

func TestLoneMinusIsError(t *testing.T) {
	tok := New("-x").NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %s, want ERROR", tok.Type)
	}
}

func TestIdentifierClassification(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"foo", TokenLowerIdent},
		{"Foo", TokenUpperIdent},
		{"x'", TokenLowerIdent},
		{"_tmp", TokenLowerIdent},
		{"data", TokenData},
		{"where", TokenWhere},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ {
			t.Errorf("%q: type = %s, want %s", tt.input, tok.Type, tt.typ)
		}
	}
}
