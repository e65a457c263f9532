package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/errors"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/source"
)

// ErrorKind enumerates the parse failures
type ErrorKind int

const (
	ExpectedAny ErrorKind = iota
	Expected
	ExpectedOneOf
)

var errorCodes = [...]string{
	ExpectedAny:   "P001",
	Expected:      "P002",
	ExpectedOneOf: "P003",
}

func (k ErrorKind) String() string {
	switch k {
	case ExpectedAny:
		return "expected-any"
	case Expected:
		return "expected"
	case ExpectedOneOf:
		return "expected-one-of"
	default:
		return "unknown"
	}
}

// ParseError keeps a snapshot of the parser at the offending token. The
// message and the line and column are only computed when displayed.
type ParseError struct {
	Kind     ErrorKind
	Expected []lexer.Kind

	src    *source.Source
	tokens []lexer.Token
	index  int
	caller errors.Caller
}

func (p *Parser) errorAt(kind ErrorKind, expected []lexer.Kind, index int, caller errors.Caller) *ParseError {
	return &ParseError{
		Kind:     kind,
		Expected: expected,
		src:      p.src,
		tokens:   p.tokens,
		index:    index,
		caller:   caller,
	}
}

// Token returns the offending token. Past the end of input it falls back
// to the last token; ok is false only when there are no tokens at all.
func (e *ParseError) Token() (tok lexer.Token, ok bool) {
	switch {
	case e.index < len(e.tokens):
		return e.tokens[e.index], true
	case len(e.tokens) > 0:
		return e.tokens[len(e.tokens)-1], true
	}
	return lexer.Token{}, false
}

// AtEnd reports whether the parser ran out of tokens
func (e *ParseError) AtEnd() bool {
	return e.index >= len(e.tokens)
}

// Function returns the name of the grammar rule that failed.
func (e *ParseError) Function() string {
	return e.caller.Name()
}

func (e *ParseError) got() string {
	if e.AtEnd() {
		return "end of input"
	}
	return e.tokens[e.index].Kind.String()
}

// Message formats the error text.
func (e *ParseError) Message() string {
	switch e.Kind {
	case Expected:
		return fmt.Sprintf("expected %s but got %s", e.Expected[0], e.got())
	case ExpectedOneOf:
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		return fmt.Sprintf("expected one of [%s] but got %s", strings.Join(names, ", "), e.got())
	default:
		return "expected something here"
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Diagnostic().String()
}

// Diagnostic converts the error to the generic diagnostic shape. At end of
// input the diagnostic points just past the last token.
func (e *ParseError) Diagnostic() diagnostic.Diagnostic {
	var (
		path   string
		buf    []byte
		offset int
		width  = 1
	)
	if e.src != nil {
		path, buf = e.src.Path, e.src.Buffer
	}
	if tok, ok := e.Token(); ok {
		offset = int(tok.Pos)
		width = tok.Width(buf)
		if e.AtEnd() {
			offset, width = tok.End(buf), 1
		}
	}
	return diagnostic.New(errors.CategoryParse, errorCodes[e.Kind], e.Message(),
		e.caller, path, buf, offset, width)
}
