package parser

import (
	"fmt"

	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/kinds"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.SEMICOLON:
		p.next()
		return &ast.EmptyStatement{}, nil
	case token.LET, token.CONST:
		return p.parseDefinitionStatement()
	case token.FUNCTION, token.EXTERNAL:
		return p.parseFunctionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseDefinitionStatement() (ast.Statement, error) {
	begin := p.cur.Begin
	isWritable := p.cur.Type == token.LET
	p.next()

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	declaredKind := kinds.Kind{}
	hasAnnotation := false
	if p.curIs(token.COLON) {
		p.next()
		declaredKind, err = p.parseType()
		if err != nil {
			return nil, err
		}
		hasAnnotation = true
	}

	var initializer ast.Expression
	if p.curIs(token.ASSIGN) {
		p.next()
		initializer, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}

	if !hasAnnotation && initializer == nil {
		return nil, &mcerr.VariableTypeCannotBeInfered{Name: nameTok.Lexeme, Begin: begin, End: nameTok.End}
	}

	end := p.cur.End
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}

	def := &ast.VariableDefinition{
		Name:           nameTok.Lexeme,
		IsWritable:     isWritable,
		KindIsInferred: !hasAnnotation,
	}
	def.Begin, def.End = begin, end
	if hasAnnotation {
		def.DeclaredKind = declaredKind
	}

	stmt := &ast.DefinitionStatement{Def: def, Initializer: initializer}
	stmt.Begin, stmt.End = begin, end
	return stmt, nil
}

func (p *Parser) parseFunctionStatement() (ast.Statement, error) {
	begin := p.cur.Begin
	isExternal := false
	if p.curIs(token.EXTERNAL) {
		isExternal = true
		p.next()
	}
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.VariableDefinition
	var paramKinds []kinds.ParameterKind
	for !p.curIs(token.RPAREN) {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		pBegin := p.cur.Begin
		isRest := false
		if p.curIs(token.ELLIPSIS) {
			isRest = true
			p.next()
		}
		pNameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		isOptional := false
		if p.curIs(token.QUESTION) {
			isOptional = true
			p.next()
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		pKind, err := p.parseType()
		if err != nil {
			return nil, err
		}
		pDef := &ast.VariableDefinition{Name: pNameTok.Lexeme, DeclaredKind: pKind, IsWritable: true}
		pDef.Begin, pDef.End = pBegin, p.cur.Begin
		params = append(params, pDef)
		paramKinds = append(paramKinds, kinds.ParameterKind{Kind: pKind, IsRest: isRest, IsOptional: isOptional})
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	retKind, err := p.parseType()
	if err != nil {
		return nil, err
	}

	var body []ast.Statement
	end := p.cur.End
	if isExternal {
		end = p.cur.End
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
	} else {
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		end = p.cur.Begin
	}

	def := &ast.VariableDefinition{
		Name:         nameTok.Lexeme,
		DeclaredKind: kinds.NewFunction(paramKinds, retKind),
		IsWritable:   false,
		IsExternal:   isExternal,
	}
	def.Begin, def.End = begin, end

	stmt := &ast.FunctionStatement{Def: def, Parameters: params, Body: body}
	stmt.Begin, stmt.End = begin, end
	return stmt, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	begin := p.cur.Begin
	p.next()
	var expr ast.Expression
	if !p.curIs(token.SEMICOLON) {
		var err error
		expr, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}
	end := p.cur.End
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	stmt := &ast.ReturnStatement{Expr: expr}
	stmt.Begin, stmt.End = begin, end
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	begin := p.cur.Begin
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.cur.End
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, fmt.Errorf("%w (statement started at byte %d)", err, begin)
	}
	stmt := &ast.ExpressionStatement{Expr: expr}
	stmt.Begin, stmt.End = begin, end
	return stmt, nil
}
