// Package parser implements the recursive descent parser. It consumes the
// token slice produced by the lexer and builds an ast.ParseTree. Parsing
// stops at the first error.
package parser

import (
	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/errors"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/source"
)

// Parser walks a token slice with at most two tokens of lookahead
type Parser struct {
	src    *source.Source
	tokens []lexer.Token
	index  int
}

// New creates a parser over tokens lexed from src.
func New(src *source.Source, tokens []lexer.Token) *Parser {
	return &Parser{src: src, tokens: tokens}
}

// Parse builds the tree for the whole token slice.
func Parse(src *source.Source, tokens []lexer.Token) (*ast.ParseTree, error) {
	return New(src, tokens).Parse()
}

// Parse consumes every remaining token.
func (p *Parser) Parse() (*ast.ParseTree, error) {
	tree := &ast.ParseTree{}
	for p.more() {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		tree.Exprs = append(tree.Exprs, expr)
		p.skipSemicolons()
	}
	return tree, nil
}

func (p *Parser) more() bool {
	return p.index < len(p.tokens)
}

func (p *Parser) peek(ahead int) (lexer.Token, bool) {
	i := p.index + ahead
	if i >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[i], true
}

func (p *Parser) peekIs(ahead int, kind lexer.Kind) bool {
	tok, ok := p.peek(ahead)
	return ok && tok.Kind == kind
}

func (p *Parser) next() (lexer.Token, bool) {
	tok, ok := p.peek(0)
	if ok {
		p.index++
	}
	return tok, ok
}

func (p *Parser) skipSemicolons() {
	for p.peekIs(0, lexer.SymSemicolon) {
		p.index++
	}
}

// The expect family captures the caller only on failure, so the error
// names the grammar rule that rejected the input.

func (p *Parser) expectAny() (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	return tok, nil
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	if tok.Kind != kind {
		return tok, p.errorAt(Expected, []lexer.Kind{kind}, p.index-1, errors.CallerAt(1))
	}
	return tok, nil
}

func (p *Parser) expectOneOf(kinds []lexer.Kind) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	if !contains(kinds, tok.Kind) {
		return tok, p.errorAt(ExpectedOneOf, kinds, p.index-1, errors.CallerAt(1))
	}
	return tok, nil
}

func (p *Parser) peekExpectAny() (lexer.Token, error) {
	tok, ok := p.peek(0)
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	return tok, nil
}

func (p *Parser) peekExpect(kind lexer.Kind) (lexer.Token, error) {
	tok, ok := p.peek(0)
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	if tok.Kind != kind {
		return tok, p.errorAt(Expected, []lexer.Kind{kind}, p.index, errors.CallerAt(1))
	}
	return tok, nil
}

func (p *Parser) peekExpectOneOf(kinds []lexer.Kind) (lexer.Token, error) {
	tok, ok := p.peek(0)
	if !ok {
		return tok, p.errorAt(ExpectedAny, nil, p.index, errors.CallerAt(1))
	}
	if !contains(kinds, tok.Kind) {
		return tok, p.errorAt(ExpectedOneOf, kinds, p.index, errors.CallerAt(1))
	}
	return tok, nil
}

func contains(kinds []lexer.Kind, kind lexer.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
