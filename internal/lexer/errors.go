package lexer

import (
	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/errors"
	"github.com/orizon-lang/tscpp/internal/source"
)

// ErrorKind enumerates the lexical failures.
type ErrorKind int

const (
	UnknownCharacter ErrorKind = iota
	UnterminatedBlockComment
	UnterminatedString
)

var errorMessages = [...]string{
	UnknownCharacter:         "unknown character",
	UnterminatedBlockComment: "expected end of block comment",
	UnterminatedString:       "unterminated string literal",
}

var errorCodes = [...]string{
	UnknownCharacter:         "L001",
	UnterminatedBlockComment: "L002",
	UnterminatedString:       "L003",
}

func (k ErrorKind) String() string {
	switch k {
	case UnknownCharacter:
		return "unknown-character"
	case UnterminatedBlockComment:
		return "unterminated-block-comment"
	case UnterminatedString:
		return "unterminated-string"
	default:
		return "unknown"
	}
}

// LexError reports the first lexical failure. It only stores the offset;
// line and column are computed when the error is displayed.
type LexError struct {
	Kind   ErrorKind
	Source *source.Source
	Pos    int
	Width  int
	caller errors.Caller
}

func (l *Lexer) errorAt(kind ErrorKind, pos, width int) *LexError {
	return &LexError{
		Kind:   kind,
		Source: l.src,
		Pos:    pos,
		Width:  width,
		caller: errors.CallerAt(1),
	}
}

// Message returns the static description of the failure.
func (e *LexError) Message() string {
	return errorMessages[e.Kind]
}

// Error implements the error interface
func (e *LexError) Error() string {
	return e.Diagnostic().String()
}

// Diagnostic converts the error to the generic diagnostic shape.
func (e *LexError) Diagnostic() diagnostic.Diagnostic {
	return diagnostic.New(errors.CategoryLex, errorCodes[e.Kind], e.Message(),
		e.caller, e.Source.Path, e.Source.Buffer, e.Pos, e.Width)
}
