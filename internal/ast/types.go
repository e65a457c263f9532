package ast

import (
	"fmt"

	"github.com/orizon-lang/tscpp/internal/lexer"
)

// Type is one of the primitive types of the language
type Type int

const (
	TypeNone Type = iota
	TypeBoolean
	TypeNumber
	TypeVoid
)

// TypeFromToken converts a type keyword token kind to a Type.
func TypeFromToken(kind lexer.Kind) (Type, error) {
	switch kind {
	case lexer.TypeBoolean:
		return TypeBoolean, nil
	case lexer.TypeNumber:
		return TypeNumber, nil
	case lexer.TypeVoid:
		return TypeVoid, nil
	}
	return TypeNone, fmt.Errorf("%s is not a type", kind)
}

// String returns the display name of the type
func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeVoid:
		return "void"
	case TypeNone:
		return "none"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}
