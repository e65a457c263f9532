// Package codegen translates a parse tree into C++ source that targets the
// JS runtime shim emitted in the prelude. Generation is a single
// deterministic pass; the first untranslatable node aborts it.
package codegen

import (
	"bytes"
	"strconv"

	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/source"
)

type generator struct {
	src *source.Source
	buf []byte
	out bytes.Buffer
}

// Generate emits the C++ translation of tree. The returned buffer is only
// produced when every node was translated.
func Generate(src *source.Source, tree *ast.ParseTree) ([]byte, error) {
	g := &generator{src: src, buf: src.Buffer}

	g.out.WriteString(preludeHeader)
	g.out.WriteString(prelude)
	if err := g.forwards(tree); err != nil {
		return nil, err
	}
	if err := g.main(tree); err != nil {
		return nil, err
	}
	return g.out.Bytes(), nil
}

// forwards declares a function pointer for every top-level function so the
// entry routine can assign and call them in any order.
func (g *generator) forwards(tree *ast.ParseTree) error {
	for _, fn := range tree.Functions() {
		ret, err := g.typeName(fn, fn.ReturnType)
		if err != nil {
			return err
		}
		g.out.WriteString("static ErrorOr<")
		g.out.WriteString(ret)
		g.out.WriteString(">(*")
		g.out.WriteString(fn.Name.Text(g.buf))
		g.out.WriteString(")(")
		for i, arg := range fn.Args {
			typ, err := g.typeName(arg, arg.Type)
			if err != nil {
				return err
			}
			if i > 0 {
				g.out.WriteString(", ")
			}
			g.out.WriteString(typ)
		}
		g.out.WriteString(") = nullptr;\n")
	}
	g.out.WriteString("\n")
	return nil
}

func (g *generator) main(tree *ast.ParseTree) error {
	g.out.WriteString("ErrorOr<int> Main::main(int, c_string[])\n")
	g.out.WriteString("{\n")
	g.out.WriteString("TRY([]() -> ErrorOr<void> {\n")
	for _, e := range tree.Exprs {
		if err := g.statement(e); err != nil {
			return err
		}
	}
	g.out.WriteString("return {};\n")
	g.out.WriteString("}());\n")
	g.out.WriteString("return 0;\n")
	g.out.WriteString("}\n")
	return nil
}

func (g *generator) statement(e ast.Expr) error {
	if err := g.expr(e); err != nil {
		return err
	}
	g.out.WriteString(";\n")
	return nil
}

func (g *generator) expr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Block:
		return g.block(n)
	case *ast.VarDecl:
		return g.varDecl(n)
	case *ast.FuncDecl:
		return g.funcDecl(n)
	case *ast.FuncCall:
		return g.funcCall(n)
	case *ast.IfStmt:
		return g.ifStmt(n)
	case *ast.ThrowStmt:
		return g.throwStmt(n)
	case *ast.ReturnStmt:
		return g.returnStmt(n)
	case *ast.UnaryExpr:
		return g.unaryExpr(n)
	case *ast.BinaryExpr:
		return g.binaryExpr(n)
	case *ast.DotExpr:
		return g.dotExpr(n)
	case *ast.RValue:
		if n == nil || n.Value == nil {
			return g.invalid(n, "empty value")
		}
		return g.expr(n.Value)
	case *ast.Lvalue:
		g.out.WriteString(n.Token.Text(g.buf))
		return nil
	case *ast.StringLiteral:
		return g.stringLiteral(n)
	case *ast.NumberLiteral:
		return g.numberLiteral(n)
	}
	return g.invalid(&ast.RValue{}, "unexpected node %T", e)
}

// value emits v, reporting a missing value against its parent.
func (g *generator) value(parent ast.Expr, v *ast.RValue) error {
	if v == nil || v.Value == nil {
		return g.invalid(parent, "%s without a value", parent.Kind())
	}
	return g.expr(v.Value)
}

func (g *generator) typeName(node ast.Expr, t ast.Type) (string, error) {
	switch t {
	case ast.TypeBoolean, ast.TypeNumber, ast.TypeVoid:
		return t.String(), nil
	}
	return "", g.invalid(node, "missing type in %s", node.Kind())
}

func (g *generator) block(n *ast.Block) error {
	g.out.WriteString("{\n")
	if err := g.body(n); err != nil {
		return err
	}
	g.out.WriteString("}")
	return nil
}

func (g *generator) body(n *ast.Block) error {
	for _, e := range n.Exprs {
		if err := g.statement(e); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) varDecl(n *ast.VarDecl) error {
	if n.Default == nil {
		return g.invalid(n, "declaration of %s without a value", n.Name.Text(g.buf))
	}
	g.out.WriteString("const ")
	if n.Type == ast.TypeNone {
		g.out.WriteString("auto")
	} else {
		typ, err := g.typeName(n, n.Type)
		if err != nil {
			return err
		}
		g.out.WriteString(typ)
	}
	g.out.WriteString(" ")
	g.out.WriteString(n.Name.Text(g.buf))
	g.out.WriteString(" = ")
	return g.value(n, n.Default)
}

func (g *generator) funcDecl(n *ast.FuncDecl) error {
	g.out.WriteString(n.Name.Text(g.buf))
	g.out.WriteString(" = [](")
	for i, arg := range n.Args {
		typ, err := g.typeName(arg, arg.Type)
		if err != nil {
			return err
		}
		if i > 0 {
			g.out.WriteString(", ")
		}
		g.out.WriteString(typ)
		g.out.WriteString(" ")
		g.out.WriteString(arg.Name.Text(g.buf))
	}

	ret, err := g.typeName(n, n.ReturnType)
	if err != nil {
		return err
	}
	g.out.WriteString(") -> ErrorOr<")
	g.out.WriteString(ret)
	g.out.WriteString("> {\n")
	if n.Body != nil {
		if err := g.body(n.Body); err != nil {
			return err
		}
	}
	if n.ReturnType == ast.TypeVoid {
		g.out.WriteString("return {};\n")
	}
	g.out.WriteString("}")
	return nil
}

func (g *generator) funcCall(n *ast.FuncCall) error {
	g.out.WriteString(n.Name.Text(g.buf))
	g.out.WriteString("(")
	for i, arg := range n.Args {
		if arg.Default == nil {
			return g.invalid(n, "argument %d of %s has no value", i+1, n.Name.Text(g.buf))
		}
		if i > 0 {
			g.out.WriteString(", ")
		}
		if err := g.expr(arg.Default); err != nil {
			return err
		}
	}
	g.out.WriteString(")")
	return nil
}

func (g *generator) ifStmt(n *ast.IfStmt) error {
	if n.Else != nil {
		return g.unimplemented(n.Else, "else branches are not supported")
	}
	if n.Then == nil {
		return g.invalid(n, "if statement without a body")
	}
	g.out.WriteString("if (")
	if err := g.value(n, n.Cond); err != nil {
		return err
	}
	g.out.WriteString(")\n")
	return g.expr(n.Then)
}

func (g *generator) throwStmt(n *ast.ThrowStmt) error {
	g.out.WriteString("return Error::from_string_literal(")
	if err := g.value(n, n.Value); err != nil {
		return err
	}
	g.out.WriteString(".data())")
	return nil
}

func (g *generator) returnStmt(n *ast.ReturnStmt) error {
	g.out.WriteString("return ")
	return g.value(n, n.Value)
}

func (g *generator) unaryExpr(n *ast.UnaryExpr) error {
	g.out.WriteString(n.Op.Text(g.buf))
	return g.value(n, n.Value)
}

func (g *generator) binaryExpr(n *ast.BinaryExpr) error {
	g.out.WriteString("(")
	if err := g.value(n, n.LHS); err != nil {
		return err
	}
	g.out.WriteString(" ")
	g.out.WriteString(binaryOperator(n.Op.Kind))
	g.out.WriteString(" ")
	if err := g.value(n, n.RHS); err != nil {
		return err
	}
	g.out.WriteString(")")
	return nil
}

func binaryOperator(kind lexer.Kind) string {
	if kind == lexer.OpTripleEq {
		return "=="
	}
	return kind.Spelling()
}

func (g *generator) dotExpr(n *ast.DotExpr) error {
	g.out.WriteString("(")
	g.out.WriteString(n.LHS.Text(g.buf))
	g.out.WriteString("->")
	if err := g.value(n, n.RHS); err != nil {
		return err
	}
	g.out.WriteString(")")
	return nil
}

func (g *generator) stringLiteral(n *ast.StringLiteral) error {
	text := n.Token.Text(g.buf)
	if len(text) < 2 || text[len(text)-1] != text[0] {
		return g.invalid(n, "unterminated string literal")
	}
	writeQuoted(&g.out, text[1:len(text)-1])
	return nil
}

// writeQuoted writes the body of a string token as a C++ string_view
// literal. Escape sequences pass through unchanged; only a bare double
// quote, which a single-quoted or template string may hold, and raw line
// breaks are escaped.
func writeQuoted(out *bytes.Buffer, s string) {
	out.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 == len(s) {
				out.WriteString(`\\`)
				continue
			}
			out.WriteByte(c)
			i++
			out.WriteByte(s[i])
		case '"':
			out.WriteString(`\"`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteString(`"sv`)
}

func (g *generator) numberLiteral(n *ast.NumberLiteral) error {
	text := n.Token.Text(g.buf)
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return g.invalid(n, "malformed number literal %q", text)
	}
	g.out.WriteString("number(")
	g.out.WriteString(text)
	g.out.WriteString(")")
	return nil
}
