package wire

import (
	"fmt"

	"github.com/chazu/skylark/syntax"
)

// opsByName maps the printed operator spelling back to its token type.
var opsByName = map[string]syntax.TokenType{}

func init() {
	ops := []syntax.TokenType{
		syntax.TokenOr, syntax.TokenAnd, syntax.TokenNot,
		syntax.TokenEqEq, syntax.TokenNe, syntax.TokenLt, syntax.TokenGt,
		syntax.TokenLe, syntax.TokenGe, syntax.TokenIn, syntax.TokenNotIn,
		syntax.TokenPipe, syntax.TokenAmp, syntax.TokenPlus, syntax.TokenMinus,
		syntax.TokenStar, syntax.TokenSlash, syntax.TokenSlashSlash,
		syntax.TokenPercent,
		syntax.TokenEq, syntax.TokenPlusEq, syntax.TokenMinusEq,
		syntax.TokenStarEq, syntax.TokenSlashEq, syntax.TokenSlashSlashEq,
		syntax.TokenPercentEq,
		syntax.TokenBreak, syntax.TokenContinue, syntax.TokenPass,
	}
	for _, op := range ops {
		opsByName[op.String()] = op
	}
}

func decodeOp(name string) (syntax.TokenType, error) {
	op, ok := opsByName[name]
	if !ok {
		return 0, fmt.Errorf("wire: unknown operator %q", name)
	}
	return op, nil
}

func (w *wireNode) span() syntax.Span {
	return spanFrom(w.Span)
}

// arity checks the child count for fixed-layout kinds.
func (w *wireNode) arity(n int) error {
	if len(w.Kids) != n {
		return fmt.Errorf("wire: %s node has %d children, want %d", w.Kind, len(w.Kids), n)
	}
	return nil
}

func decodeExpr(w *wireNode) (syntax.Expr, error) {
	n, err := decodeNode(w)
	if err != nil {
		return nil, err
	}
	e, ok := n.(syntax.Expr)
	if !ok {
		return nil, fmt.Errorf("wire: %s node where an expression was expected", w.Kind)
	}
	return e, nil
}

func decodeOptionalExpr(w *wireNode) (syntax.Expr, error) {
	if w.Kind == "nil" {
		return nil, nil
	}
	return decodeExpr(w)
}

func decodeStmt(w *wireNode) (syntax.Stmt, error) {
	n, err := decodeNode(w)
	if err != nil {
		return nil, err
	}
	st, ok := n.(syntax.Stmt)
	if !ok {
		return nil, fmt.Errorf("wire: %s node where a statement was expected", w.Kind)
	}
	return st, nil
}

func decodeBlock(w *wireNode) ([]syntax.Stmt, error) {
	if w.Kind != "block" {
		return nil, fmt.Errorf("wire: %s node where a block was expected", w.Kind)
	}
	stmts := make([]syntax.Stmt, 0, len(w.Kids))
	for _, k := range w.Kids {
		st, err := decodeStmt(k)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

func decodeIdentAt(name string, sp syntax.Span) *syntax.Ident {
	return &syntax.Ident{SpanVal: sp, Name: name}
}

func decodeNode(w *wireNode) (syntax.Node, error) {
	sp := w.span()

	switch w.Kind {
	case "file":
		f := &syntax.File{SpanVal: sp}
		for _, k := range w.Kids {
			st, err := decodeStmt(k)
			if err != nil {
				return nil, err
			}
			f.Stmts = append(f.Stmts, st)
		}
		return f, nil

	case "ident":
		return &syntax.Ident{SpanVal: sp, Name: w.Str}, nil

	case "int":
		return &syntax.IntLit{SpanVal: sp, Raw: w.Str, Value: w.Int}, nil

	case "string":
		return &syntax.StringLit{SpanVal: sp, Value: w.Str}, nil

	case "list":
		n := &syntax.ListExpr{SpanVal: sp}
		for _, k := range w.Kids {
			e, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			n.Elements = append(n.Elements, e)
		}
		return n, nil

	case "dict":
		if len(w.Kids)%2 != 0 {
			return nil, fmt.Errorf("wire: dict node has odd child count %d", len(w.Kids))
		}
		n := &syntax.DictExpr{SpanVal: sp}
		for i := 0; i < len(w.Kids); i += 2 {
			k, err := decodeExpr(w.Kids[i])
			if err != nil {
				return nil, err
			}
			v, err := decodeExpr(w.Kids[i+1])
			if err != nil {
				return nil, err
			}
			n.Entries = append(n.Entries, syntax.DictEntry{Key: k, Value: v})
		}
		return n, nil

	case "comp":
		if len(w.Kids) < 3 {
			return nil, fmt.Errorf("wire: comp node has %d children, want at least 3", len(w.Kids))
		}
		key, err := decodeOptionalExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		n := &syntax.Comprehension{SpanVal: sp, Curly: w.Flag, Key: key, Body: body}
		for _, k := range w.Kids[2:] {
			c, err := decodeNode(k)
			if err != nil {
				return nil, err
			}
			cc, ok := c.(syntax.CompClause)
			if !ok {
				return nil, fmt.Errorf("wire: %s node where a comprehension clause was expected", k.Kind)
			}
			n.Clauses = append(n.Clauses, cc)
		}
		return n, nil

	case "forclause":
		if err := w.arity(2); err != nil {
			return nil, err
		}
		vars, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		return &syntax.ForClause{SpanVal: sp, Vars: vars, X: x}, nil

	case "ifclause":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.IfClause{SpanVal: sp, Cond: cond}, nil

	case "tuple":
		n := &syntax.TupleExpr{SpanVal: sp}
		for _, k := range w.Kids {
			e, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			n.Elements = append(n.Elements, e)
		}
		return n, nil

	case "paren":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.ParenExpr{SpanVal: sp, X: x}, nil

	case "cond":
		if err := w.arity(3); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		tru, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		fls, err := decodeExpr(w.Kids[2])
		if err != nil {
			return nil, err
		}
		return &syntax.CondExpr{SpanVal: sp, Cond: cond, True: tru, False: fls}, nil

	case "unary":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		op, err := decodeOp(w.Str)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.UnaryExpr{SpanVal: sp, Op: op, X: x}, nil

	case "binary":
		if err := w.arity(2); err != nil {
			return nil, err
		}
		op, err := decodeOp(w.Str)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		return &syntax.BinaryExpr{SpanVal: sp, Op: op, X: x, Y: y}, nil

	case "dot":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.DotExpr{SpanVal: sp, X: x, Name: decodeIdentAt(w.Str, sp)}, nil

	case "call":
		if len(w.Kids) < 1 {
			return nil, fmt.Errorf("wire: call node has no callee")
		}
		fn, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		n := &syntax.CallExpr{SpanVal: sp, X: fn}
		for _, k := range w.Kids[1:] {
			if k.Kind != "arg" {
				return nil, fmt.Errorf("wire: %s node where an argument was expected", k.Kind)
			}
			if err := k.arity(1); err != nil {
				return nil, err
			}
			v, err := decodeExpr(k.Kids[0])
			if err != nil {
				return nil, err
			}
			a := syntax.Arg{Star: k.Str, Value: v}
			if k.Flag {
				a.Name = decodeIdentAt(k.Str2, k.span())
			}
			n.Args = append(n.Args, a)
		}
		return n, nil

	case "index":
		if err := w.arity(2); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		ix, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		return &syntax.IndexExpr{SpanVal: sp, X: x, Index: ix}, nil

	case "slice":
		if err := w.arity(4); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		lo, err := decodeOptionalExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		hi, err := decodeOptionalExpr(w.Kids[2])
		if err != nil {
			return nil, err
		}
		step, err := decodeOptionalExpr(w.Kids[3])
		if err != nil {
			return nil, err
		}
		return &syntax.SliceExpr{SpanVal: sp, X: x, Lo: lo, Hi: hi, Step: step}, nil

	case "exprstmt":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.ExprStmt{SpanVal: sp, X: x}, nil

	case "assign":
		if err := w.arity(2); err != nil {
			return nil, err
		}
		op, err := decodeOp(w.Str)
		if err != nil {
			return nil, err
		}
		lhs, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		return &syntax.AssignStmt{SpanVal: sp, Op: op, LHS: lhs, RHS: rhs}, nil

	case "return":
		if err := w.arity(1); err != nil {
			return nil, err
		}
		res, err := decodeOptionalExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		return &syntax.ReturnStmt{SpanVal: sp, Result: res}, nil

	case "branch":
		tok, err := decodeOp(w.Str)
		if err != nil {
			return nil, err
		}
		return &syntax.BranchStmt{SpanVal: sp, Token: tok}, nil

	case "load":
		if len(w.Kids) < 1 {
			return nil, fmt.Errorf("wire: load node has no module")
		}
		mod, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		modLit, ok := mod.(*syntax.StringLit)
		if !ok {
			return nil, fmt.Errorf("wire: load module is %T, want string literal", mod)
		}
		n := &syntax.LoadStmt{SpanVal: sp, Module: modLit}
		for _, k := range w.Kids[1:] {
			if k.Kind != "bind" {
				return nil, fmt.Errorf("wire: %s node where a load binding was expected", k.Kind)
			}
			b := syntax.LoadBinding{
				Sym: &syntax.StringLit{SpanVal: k.span(), Value: k.Str2},
			}
			if k.Flag {
				b.Alias = decodeIdentAt(k.Str, k.span())
			}
			n.Bindings = append(n.Bindings, b)
		}
		return n, nil

	case "ifstmt":
		kids := w.Kids
		n := &syntax.IfStmt{SpanVal: sp}
		if w.Flag {
			if len(kids) < 1 {
				return nil, fmt.Errorf("wire: ifstmt marked with else but has no children")
			}
			els, err := decodeBlock(kids[len(kids)-1])
			if err != nil {
				return nil, err
			}
			n.Else = els
			kids = kids[:len(kids)-1]
		}
		for _, k := range kids {
			if k.Kind != "ifarm" {
				return nil, fmt.Errorf("wire: %s node where an if arm was expected", k.Kind)
			}
			if err := k.arity(2); err != nil {
				return nil, err
			}
			cond, err := decodeExpr(k.Kids[0])
			if err != nil {
				return nil, err
			}
			body, err := decodeBlock(k.Kids[1])
			if err != nil {
				return nil, err
			}
			n.Clauses = append(n.Clauses, &syntax.IfClauseStmt{
				SpanVal: k.span(),
				Cond:    cond,
				Body:    body,
			})
		}
		return n, nil

	case "forstmt":
		if err := w.arity(3); err != nil {
			return nil, err
		}
		vars, err := decodeExpr(w.Kids[0])
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.Kids[1])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(w.Kids[2])
		if err != nil {
			return nil, err
		}
		return &syntax.ForStmt{SpanVal: sp, Vars: vars, X: x, Body: body}, nil

	case "def":
		if err := w.arity(2); err != nil {
			return nil, err
		}
		if w.Kids[0].Kind != "params" {
			return nil, fmt.Errorf("wire: %s node where a parameter list was expected", w.Kids[0].Kind)
		}
		n := &syntax.DefStmt{SpanVal: sp, Name: decodeIdentAt(w.Str, sp)}
		for _, k := range w.Kids[0].Kids {
			if k.Kind != "param" {
				return nil, fmt.Errorf("wire: %s node where a parameter was expected", k.Kind)
			}
			if err := k.arity(1); err != nil {
				return nil, err
			}
			def, err := decodeOptionalExpr(k.Kids[0])
			if err != nil {
				return nil, err
			}
			n.Params = append(n.Params, &syntax.Param{
				SpanVal: k.span(),
				Star:    k.Str,
				Name:    decodeIdentAt(k.Str2, k.span()),
				Default: def,
			})
		}
		body, err := decodeBlock(w.Kids[1])
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n, nil

	default:
		return nil, fmt.Errorf("wire: unknown node kind %q", w.Kind)
	}
}
