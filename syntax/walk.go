package syntax

// Walk traverses the AST rooted at n in depth-first preorder, calling f for
// each node. If f returns false for a node, its children are skipped.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *Ident, *IntLit, *StringLit:
		// leaves

	case *ListExpr:
		walkExprs(n.Elements, f)

	case *DictExpr:
		for _, e := range n.Entries {
			Walk(e.Key, f)
			Walk(e.Value, f)
		}

	case *Comprehension:
		if n.Key != nil {
			Walk(n.Key, f)
		}
		Walk(n.Body, f)
		for _, c := range n.Clauses {
			Walk(c, f)
		}

	case *ForClause:
		Walk(n.Vars, f)
		Walk(n.X, f)

	case *IfClause:
		Walk(n.Cond, f)

	case *TupleExpr:
		walkExprs(n.Elements, f)

	case *ParenExpr:
		Walk(n.X, f)

	case *CondExpr:
		Walk(n.Cond, f)
		Walk(n.True, f)
		Walk(n.False, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *DotExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *CallExpr:
		Walk(n.X, f)
		for _, a := range n.Args {
			if a.Name != nil {
				Walk(a.Name, f)
			}
			Walk(a.Value, f)
		}

	case *IndexExpr:
		Walk(n.X, f)
		Walk(n.Index, f)

	case *SliceExpr:
		Walk(n.X, f)
		if n.Lo != nil {
			Walk(n.Lo, f)
		}
		if n.Hi != nil {
			Walk(n.Hi, f)
		}
		if n.Step != nil {
			Walk(n.Step, f)
		}

	case *ExprStmt:
		Walk(n.X, f)

	case *AssignStmt:
		Walk(n.LHS, f)
		Walk(n.RHS, f)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *BranchStmt:
		// leaf

	case *LoadStmt:
		Walk(n.Module, f)
		for _, b := range n.Bindings {
			if b.Alias != nil {
				Walk(b.Alias, f)
			}
			Walk(b.Sym, f)
		}

	case *IfClauseStmt:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)

	case *IfStmt:
		for _, c := range n.Clauses {
			Walk(c, f)
		}
		walkStmts(n.Else, f)

	case *ForStmt:
		Walk(n.Vars, f)
		Walk(n.X, f)
		walkStmts(n.Body, f)

	case *Param:
		Walk(n.Name, f)
		if n.Default != nil {
			Walk(n.Default, f)
		}

	case *DefStmt:
		Walk(n.Name, f)
		for _, p := range n.Params {
			Walk(p, f)
		}
		walkStmts(n.Body, f)
	}
}

func walkExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		Walk(e, f)
	}
}

func walkStmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		Walk(s, f)
	}
}
