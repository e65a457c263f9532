package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree to w. buf is the source
// buffer the tree's tokens point into.
func Fprint(w io.Writer, buf []byte, t *ParseTree) error {
	p := &printer{w: bufio.NewWriter(w), buf: buf}
	for _, e := range t.Exprs {
		p.expr(e, 0)
	}
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

type printer struct {
	w   *bufio.Writer
	buf []byte
	err error
}

func (p *printer) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := p.w.WriteString(strings.Repeat("  ", depth)); err != nil {
		p.err = err
		return
	}
	if _, err := fmt.Fprintf(p.w, format+"\n", args...); err != nil {
		p.err = err
	}
}

func (p *printer) expr(e Expr, depth int) {
	switch n := e.(type) {
	case nil:
		p.line(depth, "%s", KindNone)
	case *Block:
		p.line(depth, "%s", n.Kind())
		for _, child := range n.Exprs {
			p.expr(child, depth+1)
		}
	case *VarDecl:
		p.line(depth, "%s %s: %s", n.Kind(), n.Name.Text(p.buf), n.Type)
		if n.Default != nil {
			p.expr(n.Default, depth+1)
		}
	case *FuncDecl:
		params := make([]string, len(n.Args))
		for i, arg := range n.Args {
			params[i] = fmt.Sprintf("%s: %s", arg.Name.Text(p.buf), arg.Type)
		}
		p.line(depth, "%s %s(%s): %s", n.Kind(), n.Name.Text(p.buf), strings.Join(params, ", "), n.ReturnType)
		if n.Body != nil {
			p.expr(n.Body, depth+1)
		}
	case *FuncCall:
		p.line(depth, "%s %s", n.Kind(), n.Name.Text(p.buf))
		for _, arg := range n.Args {
			if arg.Default != nil {
				p.expr(arg.Default, depth+1)
			}
		}
	case *IfStmt:
		p.line(depth, "%s", n.Kind())
		p.expr(n.Cond, depth+1)
		p.expr(n.Then, depth+1)
		if n.Else != nil {
			p.expr(n.Else, depth+1)
		}
	case *ThrowStmt:
		p.line(depth, "%s", n.Kind())
		p.expr(n.Value, depth+1)
	case *ReturnStmt:
		p.line(depth, "%s", n.Kind())
		p.expr(n.Value, depth+1)
	case *UnaryExpr:
		p.line(depth, "%s %s", n.Kind(), n.Op.Text(p.buf))
		p.expr(n.Value, depth+1)
	case *BinaryExpr:
		p.line(depth, "%s %s", n.Kind(), n.Op.Text(p.buf))
		p.expr(n.LHS, depth+1)
		p.expr(n.RHS, depth+1)
	case *DotExpr:
		p.line(depth, "%s %s", n.Kind(), n.LHS.Text(p.buf))
		p.expr(n.RHS, depth+1)
	case *RValue:
		if n == nil {
			p.line(depth, "%s", KindNone)
			return
		}
		if n.Type != TypeNone {
			p.line(depth, "%s: %s", n.Kind(), n.Type)
		} else {
			p.line(depth, "%s", n.Kind())
		}
		p.expr(n.Value, depth+1)
	case *Lvalue:
		p.line(depth, "%s %s", n.Kind(), n.Token.Text(p.buf))
	case *StringLiteral:
		p.line(depth, "%s %s", n.Kind(), n.Token.Text(p.buf))
	case *NumberLiteral:
		p.line(depth, "%s %s", n.Kind(), n.Token.Text(p.buf))
	}
}
