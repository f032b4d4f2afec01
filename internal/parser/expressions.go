package parser

import (
	"fmt"
	"strconv"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/token"
)

type precedence int

const (
	precLowest precedence = iota
	precAssign
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrec = map[token.Type]precedence{
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precEquality,
	token.NOT_EQ:   precEquality,
	token.SEQ:      precEquality,
	token.SNEQ:     precEquality,
	token.LT:       precRelational,
	token.LTE:      precRelational,
	token.GT:       precRelational,
	token.GTE:      precRelational,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.ASTERISK: precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
}

var binaryOp = map[token.Type]ast.BinaryOp{
	token.PLUS:     ast.BinaryAdd,
	token.MINUS:    ast.BinarySub,
	token.ASTERISK: ast.BinaryMul,
	token.SLASH:    ast.BinaryDiv,
	token.PERCENT:  ast.BinaryMod,
	token.EQ:       ast.BinaryEq,
	token.NOT_EQ:   ast.BinaryNeq,
	token.SEQ:      ast.BinarySeq,
	token.SNEQ:     ast.BinarySneq,
	token.LT:       ast.BinaryLt,
	token.LTE:      ast.BinaryLte,
	token.GT:       ast.BinaryGt,
	token.GTE:      ast.BinaryGte,
	token.AND:      ast.BinaryAnd,
	token.OR:       ast.BinaryOr,
}

func (p *Parser) parseExpression(min precedence) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// Assignment binds loosest and is right-associative; it is only legal
	// when the left-hand side is itself an identifier occurrence).
	if min <= precAssign && p.curIs(token.ASSIGN) {
		target, ok := identifierFromExpression(left)
		if !ok {
			return nil, &mcerr.ParserError{Detail: "left-hand side of assignment must be an identifier", Begin: exprBegin(left), End: exprEnd(left)}
		}
		p.next()
		value, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		e := &ast.AssignmentExpression{Target: target, Value: value}
		e.Begin, e.End = exprBegin(left), exprEnd(value)
		return e, nil
	}

	for {
		prec, ok := binaryPrec[p.cur.Type]
		if !ok || prec < min || prec == precAssign {
			break
		}
		opTok := p.cur
		p.next()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		be := &ast.BinaryExpression{Op: binaryOp[opTok.Type], Left: left, Right: right}
		be.Begin, be.End = exprBegin(left), exprEnd(right)
		left = be
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.PLUS, token.MINUS, token.BANG:
		begin := p.cur.Begin
		var op ast.UnaryOp
		switch p.cur.Type {
		case token.PLUS:
			op = ast.UnaryPlus
		case token.MINUS:
			op = ast.UnaryMinus
		case token.BANG:
			op = ast.UnaryNot
		}
		p.next()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		e := &ast.UnaryExpression{Op: op, Operand: operand}
		e.Begin, e.End = begin, exprEnd(operand)
		return e, nil
	case token.TYPEOF:
		begin := p.cur.Begin
		p.next()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		e := &ast.TypeOfExpression{Operand: operand}
		e.Begin, e.End = begin, exprEnd(operand)
		return e, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.INT:
		tok := p.cur
		p.next()
		v, err := strconv.ParseUint(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &mcerr.ParserError{Detail: fmt.Sprintf("invalid integer literal %q", tok.Lexeme), Begin: tok.Begin, End: tok.End}
		}
		c := &ast.IntegerConstant{Value: v}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.FLOAT:
		tok := p.cur
		p.next()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &mcerr.ParserError{Detail: fmt.Sprintf("invalid float literal %q", tok.Lexeme), Begin: tok.Begin, End: tok.End}
		}
		c := &ast.FloatConstant{Value: v}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.STRING:
		tok := p.cur
		p.next()
		c := &ast.StringConstant{Value: tok.Literal}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.TRUE, token.FALSE:
		tok := p.cur
		p.next()
		c := &ast.BooleanConstant{Value: tok.Type == token.TRUE}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.NULL:
		tok := p.cur
		p.next()
		c := &ast.NullConstant{}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.UNDEFINED:
		tok := p.cur
		p.next()
		c := &ast.UndefinedConstant{}
		c.Begin, c.End = tok.Begin, tok.End
		e := &ast.ConstantExpression{Value: c}
		e.Begin, e.End = tok.Begin, tok.End
		return e, nil
	case token.LPAREN:
		p.next()
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACKET:
		return p.parseArrayExpression()
	case token.LBRACE:
		return p.parseObjectExpression()
	case token.IDENT:
		return p.parseIdentifierOrCall()
	default:
		return nil, &mcerr.ParserError{Detail: fmt.Sprintf("unexpected token %q", p.cur.Lexeme), Begin: p.cur.Begin, End: p.cur.End}
	}
}

func (p *Parser) parseArrayExpression() (ast.Expression, error) {
	begin := p.cur.Begin
	p.next()
	var items []ast.Expression
	for !p.curIs(token.RBRACKET) {
		if len(items) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		item, err := p.parseExpression(precAssign + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	end := p.cur.End
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	e := &ast.ArrayExpression{Items: items}
	e.Begin, e.End = begin, end
	return e, nil
}

func (p *Parser) parseObjectExpression() (ast.Expression, error) {
	begin := p.cur.Begin
	p.next()
	var pairs []ast.ObjectPair
	for !p.curIs(token.RBRACE) {
		if len(pairs) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		keyTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(precAssign + 1)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.ObjectPair{Key: keyTok.Lexeme, Value: value})
	}
	end := p.cur.End
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	e := &ast.ObjectExpression{Pairs: pairs}
	e.Begin, e.End = begin, end
	return e, nil
}

// parseIdentifierOrCall parses a dotted/indexed identifier chain and, if
// followed by '(', turns it into a Call expression. The callee is always an
// identifier chain, not an arbitrary expression.
func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	id, err := p.parseIdentifierChain()
	if err != nil {
		return nil, err
	}
	if p.curIs(token.LPAREN) {
		p.next()
		var args []ast.Expression
		for !p.curIs(token.RPAREN) {
			if len(args) > 0 {
				if _, err := p.expect(token.COMMA); err != nil {
					return nil, err
				}
			}
			arg, err := p.parseExpression(precAssign + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		end := p.cur.End
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		idBegin, _ := id.Range()
		e := &ast.CallExpression{Callee: id, Args: args}
		e.Begin, e.End = idBegin, end
		return e, nil
	}
	idBegin, idEnd := id.Range()
	e := &ast.VariableExpression{Id: id}
	e.Begin, e.End = idBegin, idEnd
	return e, nil
}

func (p *Parser) parseIdentifierChain() (ast.Identifier, error) {
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var id ast.Identifier = &ast.NameIdentifier{Name: tok.Lexeme}
	id.(*ast.NameIdentifier).Begin, id.(*ast.NameIdentifier).End = tok.Begin, tok.End

	for {
		switch p.cur.Type {
		case token.DOT:
			p.next()
			propTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			idBegin, _ := id.Range()
			pi := &ast.PropertyIdentifier{Base: id, Property: propTok.Lexeme}
			pi.Begin, pi.End = idBegin, propTok.End
			id = pi
		case token.LBRACKET:
			p.next()
			idxExpr, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			end := p.cur.End
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			idBegin, _ := id.Range()
			ii := &ast.IndexIdentifier{Base: id, Index: idxExpr}
			ii.Begin, ii.End = idBegin, end
			id = ii
		default:
			return id, nil
		}
	}
}

func identifierFromExpression(e ast.Expression) (ast.Identifier, bool) {
	if ve, ok := e.(*ast.VariableExpression); ok {
		return ve.Id, true
	}
	return nil, false
}

func exprBegin(e ast.Expression) int { b, _ := e.Range(); return b }
func exprEnd(e ast.Expression) int   { _, e2 := e.Range(); return e2 }
