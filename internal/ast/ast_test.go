package ast

import (
	"bytes"
	"testing"

	"github.com/orizon-lang/tscpp/internal/lexer"
)

// sample builds the tree for:
//
//	function f(a: number): void { if (!a) throw "x" }
func sample() ([]byte, *ParseTree) {
	buf := []byte(`function f(a: number): void { if (!a) throw "x" }`)
	tok := func(kind lexer.Kind, pos int) lexer.Token { return lexer.Token{Kind: kind, Pos: uint32(pos)} }

	ifStmt := &IfStmt{
		Keyword: tok(lexer.KwIf, 30),
		Cond: &RValue{Value: &UnaryExpr{
			Op:    tok(lexer.OpBang, 34),
			Value: &RValue{Value: &Lvalue{Token: tok(lexer.LitIdent, 35)}},
		}},
		Then: &ThrowStmt{
			Keyword: tok(lexer.KwThrow, 38),
			Value:   &RValue{Value: &StringLiteral{Token: tok(lexer.LitString, 44)}},
		},
	}
	fn := &FuncDecl{
		Keyword:    tok(lexer.KwFunction, 0),
		Name:       tok(lexer.LitIdent, 9),
		Args:       []*VarDecl{{Name: tok(lexer.LitIdent, 11), Type: TypeNumber}},
		ReturnType: TypeVoid,
		Body:       &Block{LCurly: tok(lexer.SymLCurly, 28), Exprs: []Expr{ifStmt}},
	}
	return buf, &ParseTree{Exprs: []Expr{fn}}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	_, tree := sample()

	var kinds []Kind
	WalkTree(tree, func(e Expr) bool {
		kinds = append(kinds, e.Kind())
		return true
	})

	expected := []Kind{
		KindFuncDecl, KindVarDecl, KindBlock, KindIfStmt,
		KindRValue, KindUnaryExpr, KindRValue, KindLvalue,
		KindThrowStmt, KindRValue, KindStringLiteral,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("expected %d nodes, got %d: %v", len(expected), len(kinds), kinds)
	}
	for i, k := range expected {
		if kinds[i] != k {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, k, kinds[i])
		}
	}
	if got := Count(tree); got != len(expected) {
		t.Fatalf("Count() = %d", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	_, tree := sample()

	n := 0
	WalkTree(tree, func(e Expr) bool {
		n++
		return e.Kind() != KindBlock
	})
	// func_decl, var_decl, block
	if n != 3 {
		t.Fatalf("visited %d nodes, want 3", n)
	}
}

func TestFprint(t *testing.T) {
	buf, tree := sample()

	var out bytes.Buffer
	if err := Fprint(&out, buf, tree); err != nil {
		t.Fatal(err)
	}

	expected := `func_decl f(a: number): void
  block
    if_stmt
      rvalue_expr
        unary_expr !
          rvalue_expr
            lvalue_expr a
      throw_stmt
        rvalue_expr
          string_literal "x"
`
	if out.String() != expected {
		t.Fatalf("Fprint() mismatch\nexpected:\n%s\ngot:\n%s", expected, out.String())
	}
}

func TestPositions(t *testing.T) {
	_, tree := sample()
	fn := tree.Functions()[0]

	if fn.Pos() != 0 || fn.Body.Pos() != 28 {
		t.Fatalf("unexpected positions %d %d", fn.Pos(), fn.Body.Pos())
	}
	ifStmt := fn.Body.Exprs[0].(*IfStmt)
	if ifStmt.Cond.Pos() != 34 {
		t.Fatalf("Cond.Pos() = %d", ifStmt.Cond.Pos())
	}
	var empty *RValue
	if empty.Pos() != 0 {
		t.Fatal("nil rvalue should report position 0")
	}
	if ifStmt.Kind() != KindIfStmt {
		t.Fatalf("Kind() = %s", ifStmt.Kind())
	}
}

func TestTypeConversions(t *testing.T) {
	tests := []struct {
		kind lexer.Kind
		typ  Type
		name string
	}{
		{lexer.TypeBoolean, TypeBoolean, "boolean"},
		{lexer.TypeNumber, TypeNumber, "number"},
		{lexer.TypeVoid, TypeVoid, "void"},
	}

	for i, tt := range tests {
		typ, err := TypeFromToken(tt.kind)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if typ != tt.typ || typ.String() != tt.name {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, tt.name, typ)
		}
	}

	if _, err := TypeFromToken(lexer.LitIdent); err == nil {
		t.Fatal("expected error for non-type token")
	}
	if TypeNone.String() != "none" {
		t.Fatal("TypeNone conversions wrong")
	}
}

func TestKindNames(t *testing.T) {
	if KindFuncCall.String() != "func_call" || KindNumberLiteral.String() != "number_literal" {
		t.Fatal("unexpected kind names")
	}
	if Kind(99).String() != "Kind(99)" {
		t.Fatalf("Kind(99).String() = %q", Kind(99).String())
	}
}
