package codegen

import (
	"fmt"

	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/errors"
	"github.com/orizon-lang/tscpp/internal/source"
)

// ErrorKind enumerates the code generation failures
type ErrorKind int

const (
	// UnimplementedNode is a node the generator has no translation for.
	UnimplementedNode ErrorKind = iota
	// InvalidNode is a node whose shape cannot be translated.
	InvalidNode
)

var errorCodes = [...]string{
	UnimplementedNode: "C001",
	InvalidNode:       "C002",
}

func (k ErrorKind) String() string {
	switch k {
	case UnimplementedNode:
		return "unimplemented-node"
	case InvalidNode:
		return "structurally-invalid-node"
	default:
		return "unknown"
	}
}

// CodegenError reports the first node that could not be translated.
type CodegenError struct {
	Kind    ErrorKind
	Node    ast.Kind
	Pos     uint32
	Message string

	src    *source.Source
	caller errors.Caller
}

func (g *generator) unimplemented(node ast.Expr, format string, args ...any) *CodegenError {
	return g.newError(UnimplementedNode, node, errors.CallerAt(1), format, args...)
}

func (g *generator) invalid(node ast.Expr, format string, args ...any) *CodegenError {
	return g.newError(InvalidNode, node, errors.CallerAt(1), format, args...)
}

func (g *generator) newError(kind ErrorKind, node ast.Expr, caller errors.Caller, format string, args ...any) *CodegenError {
	return &CodegenError{
		Kind:    kind,
		Node:    node.Kind(),
		Pos:     node.Pos(),
		Message: fmt.Sprintf(format, args...),
		src:     g.src,
		caller:  caller,
	}
}

// Function returns the name of the emitter that failed.
func (e *CodegenError) Function() string {
	return e.caller.Name()
}

// Error implements the error interface
func (e *CodegenError) Error() string {
	return e.Diagnostic().String()
}

// Diagnostic converts the error to the generic diagnostic shape.
func (e *CodegenError) Diagnostic() diagnostic.Diagnostic {
	var (
		path string
		buf  []byte
	)
	if e.src != nil {
		path, buf = e.src.Path, e.src.Buffer
	}
	return diagnostic.New(errors.CategoryCodegen, errorCodes[e.Kind], e.Message,
		e.caller, path, buf, int(e.Pos), 1)
}
