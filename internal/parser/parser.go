// Package parser implements the Lumen parser. It produces the parsed
// syntax tree: identifier slots hold reader names exactly as written,
// and every slot owned by a later phase is an unfilled placeholder.
package parser

import (
	"fmt"
	"strconv"

	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/position"
	"github.com/lumen-lang/lumen/internal/syntax"
)

// Parser parses one Lumen module.
type Parser struct {
	l        *lexer.Lexer
	filename string

	cur  lexer.Token
	peek lexer.Token

	errors []string
}

// NewParser creates a parser reading from the given lexer.
func NewParser(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, filename: filename}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the parse errors collected so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) {
	pos := p.posOf(tok)
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) posOf(tok lexer.Token) position.Position {
	return position.Position{
		Filename: p.filename,
		Line:     tok.Line,
		Column:   tok.Column,
		Offset:   tok.Offset,
	}
}

// spanOf returns the span covering a single token.
func (p *Parser) spanOf(tok lexer.Token) position.Span {
	start := p.posOf(tok)
	end := start
	end.Column += len(tok.Literal)
	end.Offset += len(tok.Literal)
	return position.Span{Start: start, End: end}
}

func (p *Parser) skipNewlines() {
	for p.cur.Type == lexer.TokenNewline {
		p.nextToken()
	}
}

// skipToLineEnd advances past the rest of the current line. Used for
// per-declaration error recovery.
func (p *Parser) skipToLineEnd() {
	for p.cur.Type != lexer.TokenNewline && p.cur.Type != lexer.TokenEOF {
		p.nextToken()
	}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.cur.Type != tt {
		p.errorf(p.cur, "expected %s, found %s %q", tt, p.cur.Type, p.cur.Literal)
		return p.cur, false
	}
	tok := p.cur
	p.nextToken()
	return tok, true
}

// ParseFile parses a whole module.
func (p *Parser) ParseFile() *syntax.File {
	p.skipNewlines()

	file := &syntax.File{
		Fixities: syntax.Deferred[[]syntax.Pair[string, int]]("fixity"),
		FreeVars: syntax.Deferred[[]*syntax.Name]("placeHolderNames"),
	}

	if _, ok := p.expect(lexer.TokenModule); !ok {
		p.skipToLineEnd()
		return file
	}
	nameTok, ok := p.expect(lexer.TokenUpperIdent)
	if !ok {
		p.skipToLineEnd()
		return file
	}
	file.Name = syntax.L(p.spanOf(nameTok), nameTok.Literal)
	p.expect(lexer.TokenWhere)
	p.skipNewlines()

	for p.cur.Type != lexer.TokenEOF {
		switch p.cur.Type {
		case lexer.TokenImport:
			if imp := p.parseImport(); imp != nil {
				file.Imports = append(file.Imports, syntax.L(imp.Span, imp))
			}
		case lexer.TokenData:
			if d := p.parseDataDecl(); d != nil {
				file.Decls = append(file.Decls, syntax.L(d.GetSpan(), syntax.Decl(d)))
			}
		case lexer.TokenLowerIdent:
			if d := p.parseValueDecl(); d != nil {
				file.Decls = append(file.Decls, syntax.L(d.GetSpan(), d))
			}
		case lexer.TokenError:
			p.errorf(p.cur, "%s", p.cur.Literal)
			p.nextToken()
		default:
			p.errorf(p.cur, "unexpected token %q at start of declaration", p.cur.Literal)
			p.skipToLineEnd()
		}
		p.skipNewlines()
	}

	if len(file.Decls) > 0 {
		first := file.Decls[0].Span
		last := file.Decls[len(file.Decls)-1].Span
		file.Span = first.Union(last)
	} else {
		file.Span = file.Name.Span
	}
	return file
}

func (p *Parser) parseImport() *syntax.ImportDecl {
	impTok := p.cur
	p.nextToken()
	modTok, ok := p.expect(lexer.TokenUpperIdent)
	if !ok {
		p.skipToLineEnd()
		return nil
	}
	return &syntax.ImportDecl{
		Span:   p.spanOf(impTok).Union(p.spanOf(modTok)),
		Module: modTok.Literal,
	}
}

// parseValueDecl parses either a type signature (name : type) or a
// function binding (name params = expr).
func (p *Parser) parseValueDecl() syntax.Decl {
	nameTok := p.cur
	p.nextToken()

	name := syntax.Unqual{Name: syntax.OccName{Space: syntax.VarNS, Text: nameTok.Literal}}

	if p.cur.Type == lexer.TokenColon {
		p.nextToken()
		ty, ok := p.parseType()
		if !ok {
			p.skipToLineEnd()
			return nil
		}
		return &syntax.SigDecl{
			Span: p.spanOf(nameTok).Union(ty.Span),
			Name: name,
			Type: ty,
		}
	}

	var params []syntax.Ident
	for p.cur.Type == lexer.TokenLowerIdent {
		params = append(params, syntax.Unqual{
			Name: syntax.OccName{Space: syntax.VarNS, Text: p.cur.Literal},
		})
		p.nextToken()
	}
	if _, ok := p.expect(lexer.TokenEquals); !ok {
		p.skipToLineEnd()
		return nil
	}
	body, ok := p.parseExpr()
	if !ok {
		p.skipToLineEnd()
		return nil
	}
	return &syntax.FunDecl{
		Span:   p.spanOf(nameTok).Union(body.Span),
		Name:   name,
		Params: params,
		Body:   body,
	}
}

func (p *Parser) parseDataDecl() *syntax.DataDecl {
	dataTok := p.cur
	p.nextToken()
	nameTok, ok := p.expect(lexer.TokenUpperIdent)
	if !ok {
		p.skipToLineEnd()
		return nil
	}

	d := &syntax.DataDecl{
		Name: syntax.Unqual{Name: syntax.OccName{Space: syntax.TcClsNS, Text: nameTok.Literal}},
	}
	for p.cur.Type == lexer.TokenLowerIdent {
		d.TyVars = append(d.TyVars, syntax.Unqual{
			Name: syntax.OccName{Space: syntax.TvNS, Text: p.cur.Literal},
		})
		p.nextToken()
	}
	if _, ok := p.expect(lexer.TokenEquals); !ok {
		p.skipToLineEnd()
		return nil
	}

	end := p.spanOf(nameTok)
	for {
		con, ok := p.parseConDecl()
		if !ok {
			p.skipToLineEnd()
			return nil
		}
		d.Ctors = append(d.Ctors, syntax.L(con.Span, con))
		end = con.Span
		if p.cur.Type != lexer.TokenPipe {
			break
		}
		p.nextToken()
	}
	d.Span = p.spanOf(dataTok).Union(end)
	return d
}

func (p *Parser) parseConDecl() (*syntax.ConDecl, bool) {
	nameTok, ok := p.expect(lexer.TokenUpperIdent)
	if !ok {
		return nil, false
	}
	con := &syntax.ConDecl{
		Span: p.spanOf(nameTok),
		Name: syntax.Unqual{Name: syntax.OccName{Space: syntax.DataNS, Text: nameTok.Literal}},
	}
	for p.atTypeAtomStart() {
		arg, ok := p.parseTypeAtom()
		if !ok {
			return nil, false
		}
		con.Args = append(con.Args, arg)
		con.Span = con.Span.Union(arg.Span)
	}
	return con, true
}

// ====== Expressions ======

func (p *Parser) atExprAtomStart() bool {
	switch p.cur.Type {
	case lexer.TokenLowerIdent, lexer.TokenUpperIdent, lexer.TokenInt,
		lexer.TokenString, lexer.TokenLParen:
		return true
	}
	return false
}

// parseExpr parses a sequence of atoms as left-associated application.
func (p *Parser) parseExpr() (syntax.Located[syntax.Expr], bool) {
	fn, ok := p.parseExprAtom()
	if !ok {
		return syntax.Located[syntax.Expr]{}, false
	}
	for p.atExprAtomStart() {
		arg, ok := p.parseExprAtom()
		if !ok {
			return syntax.Located[syntax.Expr]{}, false
		}
		span := fn.Span.Union(arg.Span)
		fn = syntax.L(span, syntax.Expr(&syntax.AppExpr{
			Span:     span,
			Fn:       fn,
			Arg:      arg,
			ExprType: syntax.Deferred[syntax.Type]("PostTcType"),
		}))
	}
	return fn, true
}

func (p *Parser) parseExprAtom() (syntax.Located[syntax.Expr], bool) {
	var none syntax.Located[syntax.Expr]
	switch p.cur.Type {
	case lexer.TokenLowerIdent:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		name := syntax.Unqual{Name: syntax.OccName{Space: syntax.VarNS, Text: tok.Literal}}
		return syntax.L(span, syntax.Expr(&syntax.VarExpr{Span: span, Name: name})), true
	case lexer.TokenUpperIdent:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		var name syntax.Ident
		if p.cur.Type == lexer.TokenDot {
			p.nextToken()
			name2, span2, ok := p.parseQualifiedTail(tok.Literal)
			if !ok {
				return none, false
			}
			name = name2
			span = span.Union(span2)
		} else {
			name = syntax.Unqual{Name: syntax.OccName{Space: syntax.DataNS, Text: tok.Literal}}
		}
		return syntax.L(span, syntax.Expr(&syntax.VarExpr{Span: span, Name: name})), true
	case lexer.TokenInt:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok, "integer literal out of range: %s", tok.Literal)
		}
		return syntax.L(span, syntax.Expr(&syntax.LitExpr{
			Span:     span,
			Lit:      syntax.IntLit{Value: value},
			Witness:  syntax.Deferred[syntax.Expr]("PostTcExpr"),
			ExprType: syntax.Deferred[syntax.Type]("PostTcType"),
		})), true
	case lexer.TokenString:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		return syntax.L(span, syntax.Expr(&syntax.LitExpr{
			Span:     span,
			Lit:      syntax.StringLit{Value: tok.Literal},
			Witness:  syntax.Deferred[syntax.Expr]("PostTcExpr"),
			ExprType: syntax.Deferred[syntax.Type]("PostTcType"),
		})), true
	case lexer.TokenLParen:
		open := p.cur
		p.nextToken()
		inner, ok := p.parseExpr()
		if !ok {
			return none, false
		}
		closeTok, ok := p.expect(lexer.TokenRParen)
		if !ok {
			return none, false
		}
		span := p.spanOf(open).Union(p.spanOf(closeTok))
		return syntax.L(span, syntax.Expr(&syntax.ParenExpr{Span: span, Inner: inner})), true
	}
	p.errorf(p.cur, "expected expression, found %s %q", p.cur.Type, p.cur.Literal)
	return none, false
}

// parseQualifiedTail parses the identifier after "Module." and builds
// the qualified reader name.
func (p *Parser) parseQualifiedTail(moduleName string) (syntax.Ident, position.Span, bool) {
	switch p.cur.Type {
	case lexer.TokenLowerIdent:
		tok := p.cur
		p.nextToken()
		return syntax.Qual{
			Module: moduleName,
			Name:   syntax.OccName{Space: syntax.VarNS, Text: tok.Literal},
		}, p.spanOf(tok), true
	case lexer.TokenUpperIdent:
		tok := p.cur
		p.nextToken()
		return syntax.Qual{
			Module: moduleName,
			Name:   syntax.OccName{Space: syntax.DataNS, Text: tok.Literal},
		}, p.spanOf(tok), true
	}
	p.errorf(p.cur, "expected identifier after %q", moduleName+".")
	return nil, position.Span{}, false
}

// ====== Types ======

func (p *Parser) atTypeAtomStart() bool {
	switch p.cur.Type {
	case lexer.TokenLowerIdent, lexer.TokenUpperIdent, lexer.TokenLParen:
		return true
	}
	return false
}

// parseType parses an application chain with an optional function
// arrow. Arrows associate to the right.
func (p *Parser) parseType() (syntax.Located[syntax.Type], bool) {
	var none syntax.Located[syntax.Type]
	lhs, ok := p.parseTypeApp()
	if !ok {
		return none, false
	}
	if p.cur.Type == lexer.TokenArrow {
		p.nextToken()
		res, ok := p.parseType()
		if !ok {
			return none, false
		}
		span := lhs.Span.Union(res.Span)
		return syntax.L(span, syntax.Type(&syntax.FunType{Span: span, Arg: lhs, Res: res})), true
	}
	return lhs, true
}

func (p *Parser) parseTypeApp() (syntax.Located[syntax.Type], bool) {
	fn, ok := p.parseTypeAtom()
	if !ok {
		return syntax.Located[syntax.Type]{}, false
	}
	for p.atTypeAtomStart() {
		arg, ok := p.parseTypeAtom()
		if !ok {
			return syntax.Located[syntax.Type]{}, false
		}
		span := fn.Span.Union(arg.Span)
		fn = syntax.L(span, syntax.Type(&syntax.AppType{Span: span, Fn: fn, Arg: arg}))
	}
	return fn, true
}

func (p *Parser) parseTypeAtom() (syntax.Located[syntax.Type], bool) {
	var none syntax.Located[syntax.Type]
	switch p.cur.Type {
	case lexer.TokenUpperIdent:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		var name syntax.Ident = syntax.Unqual{
			Name: syntax.OccName{Space: syntax.TcClsNS, Text: tok.Literal},
		}
		if p.cur.Type == lexer.TokenDot {
			p.nextToken()
			inner, ok := p.expect(lexer.TokenUpperIdent)
			if !ok {
				return none, false
			}
			name = syntax.Qual{
				Module: tok.Literal,
				Name:   syntax.OccName{Space: syntax.TcClsNS, Text: inner.Literal},
			}
			span = span.Union(p.spanOf(inner))
		}
		return syntax.L(span, syntax.Type(&syntax.ConType{
			Span: span,
			Name: name,
			Kind: syntax.Deferred[string]("PostTcKind"),
		})), true
	case lexer.TokenLowerIdent:
		tok := p.cur
		p.nextToken()
		span := p.spanOf(tok)
		return syntax.L(span, syntax.Type(&syntax.VarType{
			Span: span,
			Name: syntax.Unqual{Name: syntax.OccName{Space: syntax.TvNS, Text: tok.Literal}},
		})), true
	case lexer.TokenLParen:
		p.nextToken()
		inner, ok := p.parseType()
		if !ok {
			return none, false
		}
		if _, ok := p.expect(lexer.TokenRParen); !ok {
			return none, false
		}
		return inner, true
	}
	p.errorf(p.cur, "expected type, found %s %q", p.cur.Type, p.cur.Literal)
	return none, false
}
