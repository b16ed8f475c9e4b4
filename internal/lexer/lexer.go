// Package lexer implements the Lumen lexical analyzer.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token.
type TokenType int

// Token types.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Literals and identifiers
	TokenLowerIdent
	TokenUpperIdent
	TokenInt
	TokenString

	// Keywords
	TokenModule
	TokenWhere
	TokenImport
	TokenData

	// Symbols
	TokenEquals
	TokenColon
	TokenArrow
	TokenPipe
	TokenLParen
	TokenRParen
	TokenComma
	TokenDot
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenNewline:    "NEWLINE",
	TokenLowerIdent: "LOWER_IDENT",
	TokenUpperIdent: "UPPER_IDENT",
	TokenInt:        "INT",
	TokenString:     "STRING",
	TokenModule:     "MODULE",
	TokenWhere:      "WHERE",
	TokenImport:     "IMPORT",
	TokenData:       "DATA",
	TokenEquals:     "EQUALS",
	TokenColon:      "COLON",
	TokenArrow:      "ARROW",
	TokenPipe:       "PIPE",
	TokenLParen:     "LPAREN",
	TokenRParen:     "RPAREN",
	TokenComma:      "COMMA",
	TokenDot:        "DOT",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"module": TokenModule,
	"where":  TokenWhere,
	"import": TokenImport,
	"data":   TokenData,
}

// Token represents one lexical token with its source location.
type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based
	Column  int // 1-based
	Offset  int // 0-based byte offset
}

// Lexer tokenizes Lumen source text.
type Lexer struct {
	input        string
	filename     string
	position     int  // current char position
	readPosition int  // next char position
	ch           byte // current char
	line         int
	column       int
}

// New creates a lexer for the given input.
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a lexer that records the filename in error
// reporting positions.
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{input: input, filename: filename, line: 1}
	l.readChar()
	return l
}

// Filename returns the filename the lexer was created with.
func (l *Lexer) Filename() string { return l.filename }

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '\''
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a double-quoted string literal with backslash
// escapes. Returns the decoded content and whether it was terminated.
func (l *Lexer) readString() (string, bool) {
	var out []byte
	l.readChar() // consume opening quote
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return string(out), false
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, '\\', l.ch)
			}
		} else {
			out = append(out, l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume closing quote
	return string(out), true
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipSpaces()
	for l.ch == '-' && l.peekChar() == '-' {
		l.skipLineComment()
		l.skipSpaces()
	}

	tok := Token{Line: l.line, Column: l.column, Offset: l.position}

	switch {
	case l.ch == 0:
		tok.Type = TokenEOF
		return tok
	case l.ch == '\n':
		tok.Type = TokenNewline
		tok.Literal = "\n"
		l.readChar()
		return tok
	case isIdentStart(l.ch):
		lit := l.readIdentifier()
		tok.Literal = lit
		if kw, ok := keywords[lit]; ok {
			tok.Type = kw
			return tok
		}
		r, _ := utf8.DecodeRuneInString(lit)
		if unicode.IsUpper(r) {
			tok.Type = TokenUpperIdent
		} else {
			tok.Type = TokenLowerIdent
		}
		return tok
	case isDigit(l.ch):
		tok.Type = TokenInt
		tok.Literal = l.readNumber()
		return tok
	case l.ch == '"':
		content, terminated := l.readString()
		if !terminated {
			tok.Type = TokenError
			tok.Literal = "unterminated string literal"
			return tok
		}
		tok.Type = TokenString
		tok.Literal = content
		return tok
	}

	switch l.ch {
	case '=':
		tok.Type = TokenEquals
		tok.Literal = "="
	case ':':
		tok.Type = TokenColon
		tok.Literal = ":"
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type = TokenArrow
			tok.Literal = "->"
		} else {
			tok.Type = TokenError
			tok.Literal = fmt.Sprintf("unexpected character %q", string(l.ch))
		}
	case '|':
		tok.Type = TokenPipe
		tok.Literal = "|"
	case '(':
		tok.Type = TokenLParen
		tok.Literal = "("
	case ')':
		tok.Type = TokenRParen
		tok.Literal = ")"
	case ',':
		tok.Type = TokenComma
		tok.Literal = ","
	case '.':
		tok.Type = TokenDot
		tok.Literal = "."
	default:
		tok.Type = TokenError
		tok.Literal = fmt.Sprintf("unexpected character %q", string(l.ch))
	}
	l.readChar()
	return tok
}
