package ast

// Walk traverses e in pre-order, calling fn for every node. When fn
// returns false the children of that node are skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case *Block:
		for _, child := range n.Exprs {
			Walk(child, fn)
		}
	case *VarDecl:
		walkRValue(n.Default, fn)
	case *FuncDecl:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}
	case *FuncCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *IfStmt:
		walkRValue(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *ThrowStmt:
		walkRValue(n.Value, fn)
	case *ReturnStmt:
		walkRValue(n.Value, fn)
	case *UnaryExpr:
		walkRValue(n.Value, fn)
	case *BinaryExpr:
		walkRValue(n.LHS, fn)
		walkRValue(n.RHS, fn)
	case *DotExpr:
		walkRValue(n.RHS, fn)
	case *RValue:
		Walk(n.Value, fn)
	}
}

// walkRValue avoids handing a typed nil pointer to Walk.
func walkRValue(rv *RValue, fn func(Expr) bool) {
	if rv != nil {
		Walk(rv, fn)
	}
}

// WalkTree walks every top-level expression of the tree in order.
func WalkTree(t *ParseTree, fn func(Expr) bool) {
	for _, e := range t.Exprs {
		Walk(e, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(t *ParseTree) int {
	n := 0
	WalkTree(t, func(Expr) bool {
		n++
		return true
	})
	return n
}
