package lexer

import (
	"testing"

	"github.com/oznakn/minic/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextTokenOperatorsAndDelimiters(t *testing.T) {
	input := `let x: number = 1 + 2; const y = "hi"; == != === !== <= >= && || ... ?`
	toks := collect(input)

	want := []token.Type{
		token.LET, token.IDENT, token.COLON, token.TYPE_NUMBER, token.ASSIGN,
		token.INT, token.PLUS, token.INT, token.SEMICOLON,
		token.CONST, token.IDENT, token.ASSIGN, token.STRING, token.SEMICOLON,
		token.EQ, token.NOT_EQ, token.SEQ, token.SNEQ, token.LTE, token.GTE,
		token.AND, token.OR, token.ELLIPSIS, token.QUESTION, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v (lexeme %q)", i, toks[i].Type, w, toks[i].Lexeme)
		}
	}
}

func TestNextTokenKeywords(t *testing.T) {
	toks := collect("function external typeof true false null undefined return any void object boolean string")
	want := []token.Type{
		token.FUNCTION, token.EXTERNAL, token.TYPEOF, token.TRUE, token.FALSE,
		token.NULL, token.UNDEFINED, token.RETURN, token.TYPE_ANY, token.TYPE_VOID,
		token.TYPE_OBJECT, token.TYPE_BOOLEAN, token.TYPE_STRING, token.EOF,
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\tc\\d"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Type)
	}
	if toks[0].Literal != "a\nb\tc\\d" {
		t.Errorf("Literal = %q, want %q", toks[0].Literal, "a\nb\tc\\d")
	}
}

func TestNextTokenNumbers(t *testing.T) {
	toks := collect("42 3.14 7.")
	if toks[0].Type != token.INT || toks[0].Lexeme != "42" {
		t.Errorf("got %v %q, want INT 42", toks[0].Type, toks[0].Lexeme)
	}
	if toks[1].Type != token.FLOAT || toks[1].Lexeme != "3.14" {
		t.Errorf("got %v %q, want FLOAT 3.14", toks[1].Type, toks[1].Lexeme)
	}
	// "7." with no trailing digit is not a float: the dot is a separate token.
	if toks[2].Type != token.INT || toks[2].Lexeme != "7" {
		t.Errorf("got %v %q, want INT 7", toks[2].Type, toks[2].Lexeme)
	}
	if toks[3].Type != token.DOT {
		t.Errorf("got %v, want DOT", toks[3].Type)
	}
}

func TestNextTokenComments(t *testing.T) {
	toks := collect("1 // line comment\n2 /* block\ncomment */ 3")
	want := []token.Type{token.INT, token.INT, token.INT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenIllegal(t *testing.T) {
	toks := collect("@")
	if toks[0].Type != token.ILLEGAL {
		t.Errorf("got %v, want ILLEGAL", toks[0].Type)
	}
}
