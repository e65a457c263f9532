// Package ast defines the syntax tree produced by the parser and consumed
// by the code generator. Expr is a closed sum type: only the node types in
// this package implement it. Every node is owned by exactly one parent and
// the tree never contains cycles.
package ast

import (
	"fmt"

	"github.com/orizon-lang/tscpp/internal/lexer"
)

// Kind identifies the variant of an Expr
type Kind int

const (
	KindNone Kind = iota
	KindBlock
	KindVarDecl
	KindFuncDecl
	KindFuncCall
	KindIfStmt
	KindThrowStmt
	KindReturnStmt
	KindUnaryExpr
	KindBinaryExpr
	KindDotExpr
	KindLvalue
	KindRValue
	KindStringLiteral
	KindNumberLiteral
)

var kindNames = [...]string{
	KindNone:          "none",
	KindBlock:         "block",
	KindVarDecl:       "var_decl",
	KindFuncDecl:      "func_decl",
	KindFuncCall:      "func_call",
	KindIfStmt:        "if_stmt",
	KindThrowStmt:     "throw_stmt",
	KindReturnStmt:    "return_stmt",
	KindUnaryExpr:     "unary_expr",
	KindBinaryExpr:    "binary_expr",
	KindDotExpr:       "dot_expr",
	KindLvalue:        "lvalue_expr",
	KindRValue:        "rvalue_expr",
	KindStringLiteral: "string_literal",
	KindNumberLiteral: "number_literal",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expr is implemented by every node of the tree
type Expr interface {
	// Kind returns the variant tag of the node
	Kind() Kind
	// Pos returns the byte offset of the first token of the node
	Pos() uint32
	exprNode()
}

// ParseTree owns the whole forest of top-level expressions
type ParseTree struct {
	Exprs []Expr
}

// Block is a brace-delimited sequence of expressions
type Block struct {
	LCurly lexer.Token
	Exprs  []Expr
}

// VarDecl is a named, typed slot with an optional value. It is used for
// function parameters, call arguments (value only) and const declarations.
type VarDecl struct {
	Name    lexer.Token
	Type    Type
	Default *RValue
}

// FuncDecl represents a function declaration
type FuncDecl struct {
	Keyword    lexer.Token
	Name       lexer.Token
	Args       []*VarDecl
	ReturnType Type
	Body       *Block
}

// FuncCall represents a call of a named function
type FuncCall struct {
	Name       lexer.Token
	Args       []*VarDecl
	ReturnType Type
}

// IfStmt represents a conditional. Else is nil without an else branch.
type IfStmt struct {
	Keyword lexer.Token
	Cond    *RValue
	Then    Expr
	Else    Expr
}

// ThrowStmt raises an error built from Value
type ThrowStmt struct {
	Keyword lexer.Token
	Value   *RValue
}

// ReturnStmt returns Value from the enclosing function
type ReturnStmt struct {
	Keyword lexer.Token
	Value   *RValue
}

// UnaryExpr applies a prefix operator
type UnaryExpr struct {
	Op    lexer.Token
	Value *RValue
}

// BinaryExpr applies an infix operator to two operands
type BinaryExpr struct {
	Op  lexer.Token
	LHS *RValue
	RHS *RValue
}

// DotExpr is a member access "lhs.rhs"
type DotExpr struct {
	LHS lexer.Token
	RHS *RValue
}

// RValue wraps a value-producing expression with its resolved type, which
// is TypeNone when unknown.
type RValue struct {
	Type  Type
	Value Expr
}

// Lvalue is a bare identifier reference
type Lvalue struct {
	Token lexer.Token
}

// StringLiteral is a quoted string token
type StringLiteral struct {
	Token lexer.Token
}

// NumberLiteral is a numeric token
type NumberLiteral struct {
	Token lexer.Token
}

func (*Block) Kind() Kind         { return KindBlock }
func (*VarDecl) Kind() Kind       { return KindVarDecl }
func (*FuncDecl) Kind() Kind      { return KindFuncDecl }
func (*FuncCall) Kind() Kind      { return KindFuncCall }
func (*IfStmt) Kind() Kind        { return KindIfStmt }
func (*ThrowStmt) Kind() Kind     { return KindThrowStmt }
func (*ReturnStmt) Kind() Kind    { return KindReturnStmt }
func (*UnaryExpr) Kind() Kind     { return KindUnaryExpr }
func (*BinaryExpr) Kind() Kind    { return KindBinaryExpr }
func (*DotExpr) Kind() Kind       { return KindDotExpr }
func (*RValue) Kind() Kind        { return KindRValue }
func (*Lvalue) Kind() Kind        { return KindLvalue }
func (*StringLiteral) Kind() Kind { return KindStringLiteral }
func (*NumberLiteral) Kind() Kind { return KindNumberLiteral }

func (n *Block) Pos() uint32         { return n.LCurly.Pos }
func (n *FuncDecl) Pos() uint32      { return n.Keyword.Pos }
func (n *FuncCall) Pos() uint32      { return n.Name.Pos }
func (n *IfStmt) Pos() uint32        { return n.Keyword.Pos }
func (n *ThrowStmt) Pos() uint32     { return n.Keyword.Pos }
func (n *ReturnStmt) Pos() uint32    { return n.Keyword.Pos }
func (n *UnaryExpr) Pos() uint32     { return n.Op.Pos }
func (n *BinaryExpr) Pos() uint32    { return n.LHS.Pos() }
func (n *DotExpr) Pos() uint32       { return n.LHS.Pos }
func (n *Lvalue) Pos() uint32        { return n.Token.Pos }
func (n *StringLiteral) Pos() uint32 { return n.Token.Pos }
func (n *NumberLiteral) Pos() uint32 { return n.Token.Pos }

// Pos returns the name position, or the value position for call
// arguments, which carry no name.
func (n *VarDecl) Pos() uint32 {
	if n.Name.Kind == lexer.None && n.Default != nil {
		return n.Default.Pos()
	}
	return n.Name.Pos
}

// Pos returns the position of the wrapped value, or zero when empty.
func (n *RValue) Pos() uint32 {
	if n == nil || n.Value == nil {
		return 0
	}
	return n.Value.Pos()
}

func (*Block) exprNode()         {}
func (*VarDecl) exprNode()       {}
func (*FuncDecl) exprNode()      {}
func (*FuncCall) exprNode()      {}
func (*IfStmt) exprNode()        {}
func (*ThrowStmt) exprNode()     {}
func (*ReturnStmt) exprNode()    {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*DotExpr) exprNode()       {}
func (*RValue) exprNode()        {}
func (*Lvalue) exprNode()        {}
func (*StringLiteral) exprNode() {}
func (*NumberLiteral) exprNode() {}

// Functions returns the top-level function declarations in source order.
func (t *ParseTree) Functions() []*FuncDecl {
	var funcs []*FuncDecl
	for _, e := range t.Exprs {
		if fn, ok := e.(*FuncDecl); ok {
			funcs = append(funcs, fn)
		}
	}
	return funcs
}
