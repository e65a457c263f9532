package parser

import (
	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/lexer"
)

// Token sets are package level so a failed expectation can keep them
// without copying.
var (
	expressionStarts = []lexer.Kind{
		lexer.KwFunction,
		lexer.KwIf,
		lexer.KwThrow,
		lexer.KwReturn,
		lexer.KwConst,
		lexer.SymLCurly,
		lexer.OpBang,
		lexer.LitString,
		lexer.LitNumber,
		lexer.LitIdent,
	}
	rvalueStarts = []lexer.Kind{
		lexer.OpBang,
		lexer.LitString,
		lexer.LitNumber,
		lexer.LitIdent,
	}
	typeKinds = []lexer.Kind{
		lexer.TypeBoolean,
		lexer.TypeNumber,
		lexer.TypeVoid,
	}
	binaryOps = []lexer.Kind{
		lexer.OpLtEq,
		lexer.OpMinus,
		lexer.OpPlus,
		lexer.OpTripleEq,
		lexer.OpAssign,
	}
	operandKinds = []lexer.Kind{
		lexer.LitIdent,
		lexer.LitNumber,
	}
)

func (p *Parser) parseExpression() (ast.Expr, error) {
	tok, err := p.peekExpectOneOf(expressionStarts)
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.KwFunction:
		return p.parseFunction()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwThrow:
		return p.parseThrow()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwConst:
		return p.parseConst()
	case lexer.SymLCurly:
		return p.parseBlock()
	default:
		return p.parseRValue()
	}
}

func (p *Parser) parseFunction() (*ast.FuncDecl, error) {
	keyword, err := p.expect(lexer.KwFunction)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.LitIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SymLParen); err != nil {
		return nil, err
	}
	args, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SymColon); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Keyword:    keyword,
		Name:       name,
		Args:       args,
		ReturnType: ret,
		Body:       body,
	}, nil
}

// parseParameters reads "name: type" pairs up to and including ')'.
// Parameters are separated by commas; a trailing comma is accepted.
func (p *Parser) parseParameters() ([]*ast.VarDecl, error) {
	var args []*ast.VarDecl
	for !p.peekIs(0, lexer.SymRParen) {
		name, err := p.expect(lexer.LitIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SymColon); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, &ast.VarDecl{Name: name, Type: typ})

		if !p.peekIs(0, lexer.SymComma) {
			break
		}
		p.next()
	}

	if _, err := p.expect(lexer.SymRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	tok, err := p.expectOneOf(typeKinds)
	if err != nil {
		return ast.TypeNone, err
	}
	return ast.TypeFromToken(tok.Kind)
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lcurly, err := p.expect(lexer.SymLCurly)
	if err != nil {
		return nil, err
	}

	block := &ast.Block{LCurly: lcurly}
	for !p.peekIs(0, lexer.SymRCurly) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		block.Exprs = append(block.Exprs, expr)
		p.skipSemicolons()
	}

	if _, err := p.expect(lexer.SymRCurly); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (*ast.IfStmt, error) {
	keyword, err := p.expect(lexer.KwIf)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SymLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SymRParen); err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Keyword: keyword, Cond: cond, Then: then}

	// The then branch may be terminated by semicolons before the else.
	skip := 0
	for p.peekIs(skip, lexer.SymSemicolon) {
		skip++
	}
	if p.peekIs(skip, lexer.KwElse) {
		p.index += skip + 1
		if stmt.Else, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseThrow() (*ast.ThrowStmt, error) {
	keyword, err := p.expect(lexer.KwThrow)
	if err != nil {
		return nil, err
	}
	value, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	keyword, err := p.expect(lexer.KwReturn)
	if err != nil {
		return nil, err
	}
	value, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

// parseConst reads "const name (: type)? = value". Without an annotation
// the declaration takes the type resolved for the value.
func (p *Parser) parseConst() (*ast.VarDecl, error) {
	if _, err := p.expect(lexer.KwConst); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.LitIdent)
	if err != nil {
		return nil, err
	}

	typ := ast.TypeNone
	if p.peekIs(0, lexer.SymColon) {
		p.next()
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.OpAssign); err != nil {
		return nil, err
	}
	value, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	if typ == ast.TypeNone {
		typ = value.Type
	}
	return &ast.VarDecl{Name: name, Type: typ, Default: value}, nil
}

// parseRValue dispatches on the current and the next token.
func (p *Parser) parseRValue() (*ast.RValue, error) {
	tok, err := p.peekExpectOneOf(rvalueStarts)
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.OpBang:
		return p.parseUnary()
	case lexer.LitString:
		p.next()
		return &ast.RValue{Value: &ast.StringLiteral{Token: tok}}, nil
	case lexer.LitNumber:
		if p.peekBinaryOp() {
			return p.parseBinary()
		}
		p.next()
		return operand(tok), nil
	default:
		switch {
		case p.peekIs(1, lexer.SymDot):
			return p.parseDotExpr()
		case p.peekIs(1, lexer.SymLParen):
			return p.parseFuncCall()
		case p.peekBinaryOp():
			return p.parseBinary()
		}
		p.next()
		return operand(tok), nil
	}
}

func (p *Parser) peekBinaryOp() bool {
	tok, ok := p.peek(1)
	return ok && contains(binaryOps, tok.Kind)
}

func operand(tok lexer.Token) *ast.RValue {
	if tok.Kind == lexer.LitNumber {
		return &ast.RValue{Type: ast.TypeNumber, Value: &ast.NumberLiteral{Token: tok}}
	}
	return &ast.RValue{Value: &ast.Lvalue{Token: tok}}
}

func (p *Parser) parseUnary() (*ast.RValue, error) {
	op, err := p.expect(lexer.OpBang)
	if err != nil {
		return nil, err
	}
	ident, err := p.expect(lexer.LitIdent)
	if err != nil {
		return nil, err
	}
	return &ast.RValue{
		Type: ast.TypeBoolean,
		Value: &ast.UnaryExpr{
			Op:    op,
			Value: operand(ident),
		},
	}, nil
}

func (p *Parser) parseBinary() (*ast.RValue, error) {
	lhs, err := p.expectOneOf(operandKinds)
	if err != nil {
		return nil, err
	}
	op, err := p.expectOneOf(binaryOps)
	if err != nil {
		return nil, err
	}
	rhs, err := p.expectOneOf(operandKinds)
	if err != nil {
		return nil, err
	}

	expr := &ast.BinaryExpr{Op: op, LHS: operand(lhs), RHS: operand(rhs)}
	return &ast.RValue{Type: binaryType(expr), Value: expr}, nil
}

func binaryType(expr *ast.BinaryExpr) ast.Type {
	switch expr.Op.Kind {
	case lexer.OpLtEq, lexer.OpTripleEq:
		return ast.TypeBoolean
	case lexer.OpPlus, lexer.OpMinus:
		if expr.LHS.Type == ast.TypeNumber && expr.RHS.Type == ast.TypeNumber {
			return ast.TypeNumber
		}
	}
	return ast.TypeNone
}

func (p *Parser) parseDotExpr() (*ast.RValue, error) {
	lhs, err := p.expect(lexer.LitIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SymDot); err != nil {
		return nil, err
	}
	rhs, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	return &ast.RValue{Type: rhs.Type, Value: &ast.DotExpr{LHS: lhs, RHS: rhs}}, nil
}

func (p *Parser) parseFuncCall() (*ast.RValue, error) {
	name, err := p.expect(lexer.LitIdent)
	if err != nil {
		return nil, err
	}
	args, err := p.parseFuncCallArgs()
	if err != nil {
		return nil, err
	}
	return &ast.RValue{Value: &ast.FuncCall{Name: name, Args: args}}, nil
}

// parseFuncCallArgs follows the parameter rules: comma separated with an
// optional trailing comma.
func (p *Parser) parseFuncCallArgs() ([]*ast.VarDecl, error) {
	if _, err := p.expect(lexer.SymLParen); err != nil {
		return nil, err
	}

	var args []*ast.VarDecl
	for !p.peekIs(0, lexer.SymRParen) {
		value, err := p.parseRValue()
		if err != nil {
			return nil, err
		}
		args = append(args, &ast.VarDecl{Type: value.Type, Default: value})

		if !p.peekIs(0, lexer.SymComma) {
			break
		}
		p.next()
	}

	if _, err := p.expect(lexer.SymRParen); err != nil {
		return nil, err
	}
	return args, nil
}
