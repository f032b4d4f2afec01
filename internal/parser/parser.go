// Package parser builds an internal/ast tree from Mini source text.
//
// The lexer and parser are external collaborators to the compiler's core,
// specified only by the AST shape they must deliver. This package exists so
// the repo is a runnable compiler end to end; it is deliberately the
// smallest grammar that produces every node shape internal/ast describes:
// one file per concern, Parser.next()/expect() helpers, and Pratt-style
// expression parsing via precedence tables.
package parser

import (
	"fmt"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/lexer"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/token"
)

// Parser is a single-file recursive-descent parser.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token
}

// New creates a Parser over source.
func New(source string) *Parser {
	p := &Parser{l: lexer.New(source)}
	p.next()
	p.next()
	return p
}

// Parse parses an entire program, returning the first error encountered.
func Parse(source string) (*ast.Program, error) {
	p := New(source)
	return p.ParseProgram()
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, &mcerr.ParserError{
			Detail: fmt.Sprintf("expected %s, got %q", t, p.cur.Lexeme),
			Begin:  p.cur.Begin, End: p.cur.End,
		}
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// ParseProgram parses every top-level statement until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseType() (kinds.Kind, error) {
	begin := p.cur.Begin
	var base kinds.Kind
	switch p.cur.Type {
	case token.TYPE_NUMBER:
		base = kinds.KNumber
	case token.TYPE_STRING:
		base = kinds.KString
	case token.TYPE_BOOLEAN:
		base = kinds.KBoolean
	case token.TYPE_OBJECT:
		base = kinds.KObject
	case token.TYPE_ANY:
		base = kinds.KAny
	case token.TYPE_VOID, token.UNDEFINED:
		base = kinds.KUndefined
	default:
		return kinds.Kind{}, &mcerr.ParserError{Detail: fmt.Sprintf("expected type, got %q", p.cur.Lexeme), Begin: begin, End: p.cur.End}
	}
	p.next()
	for p.curIs(token.LBRACKET) {
		p.next()
		if _, err := p.expect(token.RBRACKET); err != nil {
			return kinds.Kind{}, err
		}
		base = kinds.NewArray(base)
	}
	return base, nil
}
