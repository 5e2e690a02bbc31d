package syntax

import (
	"fmt"
	"strings"
	"testing"
)

// quoteString prints a string literal using only escapes the lexer decodes:
// \n, \t, \\, \" and \xhh for every other non-printable byte. The value is
// treated as raw bytes since string literals may hold arbitrary binary
// content.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// renderExpr prints an expression as source text. Composite expressions are
// parenthesized so operator structure survives a re-parse; grouping nodes
// print transparently, which keeps the output a fixed point of
// parse-then-render.
func renderExpr(x Expr) string {
	switch x := x.(type) {
	case *Ident:
		return x.Name
	case *IntLit:
		return x.Raw
	case *StringLit:
		return quoteString(x.Value)
	case *ParenExpr:
		return renderExpr(x.X)
	case *TupleExpr:
		if len(x.Elements) == 1 {
			return "(" + renderExpr(x.Elements[0]) + ",)"
		}
		return "(" + renderExprs(x.Elements) + ")"
	case *ListExpr:
		return "[" + renderExprs(x.Elements) + "]"
	case *DictExpr:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = renderExpr(e.Key) + ": " + renderExpr(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Comprehension:
		var sb strings.Builder
		if x.Curly {
			sb.WriteString("{" + renderExpr(x.Key) + ": " + renderExpr(x.Body))
		} else {
			sb.WriteString("[" + renderExpr(x.Body))
		}
		for _, c := range x.Clauses {
			switch c := c.(type) {
			case *ForClause:
				sb.WriteString(" for " + renderExpr(c.Vars) + " in " + renderExpr(c.X))
			case *IfClause:
				sb.WriteString(" if " + renderExpr(c.Cond))
			}
		}
		if x.Curly {
			sb.WriteString("}")
		} else {
			sb.WriteString("]")
		}
		return sb.String()
	case *CondExpr:
		return "(" + renderExpr(x.True) + " if " + renderExpr(x.Cond) +
			" else " + renderExpr(x.False) + ")"
	case *UnaryExpr:
		if x.Op == TokenNot {
			return "(not " + renderExpr(x.X) + ")"
		}
		return "(-" + renderExpr(x.X) + ")"
	case *BinaryExpr:
		return "(" + renderExpr(x.X) + " " + x.Op.String() + " " + renderExpr(x.Y) + ")"
	case *DotExpr:
		return renderExpr(x.X) + "." + x.Name.Name
	case *CallExpr:
		parts := make([]string, len(x.Args))
		for i, a := range x.Args {
			switch {
			case a.Star != "":
				parts[i] = a.Star + renderExpr(a.Value)
			case a.Name != nil:
				parts[i] = a.Name.Name + " = " + renderExpr(a.Value)
			default:
				parts[i] = renderExpr(a.Value)
			}
		}
		return renderExpr(x.X) + "(" + strings.Join(parts, ", ") + ")"
	case *IndexExpr:
		return renderExpr(x.X) + "[" + renderExpr(x.Index) + "]"
	case *SliceExpr:
		var sb strings.Builder
		sb.WriteString(renderExpr(x.X) + "[")
		if x.Lo != nil {
			sb.WriteString(renderExpr(x.Lo))
		}
		sb.WriteString(":")
		if x.Hi != nil {
			sb.WriteString(renderExpr(x.Hi))
		}
		if x.Step != nil {
			sb.WriteString(":" + renderExpr(x.Step))
		}
		sb.WriteString("]")
		return sb.String()
	default:
		panic(fmt.Sprintf("renderExpr: unexpected node %T", x))
	}
}

func renderExprs(list []Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = renderExpr(e)
	}
	return strings.Join(parts, ", ")
}

func renderStmts(sb *strings.Builder, stmts []Stmt, indent string) {
	for _, st := range stmts {
		renderStmt(sb, st, indent)
	}
}

func renderStmt(sb *strings.Builder, st Stmt, indent string) {
	switch st := st.(type) {
	case *ExprStmt:
		sb.WriteString(indent + renderExpr(st.X) + "\n")
	case *AssignStmt:
		sb.WriteString(indent + renderExpr(st.LHS) + " " + st.Op.String() + " " +
			renderExpr(st.RHS) + "\n")
	case *ReturnStmt:
		if st.Result == nil {
			sb.WriteString(indent + "return\n")
		} else {
			sb.WriteString(indent + "return " + renderExpr(st.Result) + "\n")
		}
	case *BranchStmt:
		sb.WriteString(indent + st.Token.String() + "\n")
	case *LoadStmt:
		parts := []string{quoteString(st.Module.Value)}
		for _, b := range st.Bindings {
			if b.Alias != nil {
				parts = append(parts, b.Alias.Name+" = "+quoteString(b.Sym.Value))
			} else {
				parts = append(parts, quoteString(b.Sym.Value))
			}
		}
		sb.WriteString(indent + "load(" + strings.Join(parts, ", ") + ")\n")
	case *IfStmt:
		for i, c := range st.Clauses {
			kw := "if"
			if i > 0 {
				kw = "elif"
			}
			sb.WriteString(indent + kw + " " + renderExpr(c.Cond) + ":\n")
			renderStmts(sb, c.Body, indent+"    ")
		}
		if st.Else != nil {
			sb.WriteString(indent + "else:\n")
			renderStmts(sb, st.Else, indent+"    ")
		}
	case *ForStmt:
		sb.WriteString(indent + "for " + renderExpr(st.Vars) + " in " +
			renderExpr(st.X) + ":\n")
		renderStmts(sb, st.Body, indent+"    ")
	case *DefStmt:
		parts := make([]string, len(st.Params))
		for i, p := range st.Params {
			parts[i] = p.Star + p.Name.Name
			if p.Default != nil {
				parts[i] += " = " + renderExpr(p.Default)
			}
		}
		sb.WriteString(indent + "def " + st.Name.Name + "(" + strings.Join(parts, ", ") + "):\n")
		renderStmts(sb, st.Body, indent+"    ")
	default:
		panic(fmt.Sprintf("renderStmt: unexpected node %T", st))
	}
}

func renderFile(f *File) string {
	var sb strings.Builder
	renderStmts(&sb, f.Stmts, "")
	return sb.String()
}

// TestRenderRoundTrip parses a program, prints it back, re-parses the
// output, and checks the second print matches the first.
func TestRenderRoundTrip(t *testing.T) {
	programs := []string{
		"x = 1\n",
		"x = 1 + 2 * 3\n",
		"x = a < b < c\n",
		"x = a not in b\n",
		"x = -y\n",
		"x = not y\n",
		"x = a if c else b\n",
		"x = ()\n",
		"x = (1)\n",
		"x = (1,)\n",
		"x = 1, 2, 3\n",
		"x = [1, [2, 3], {}]\n",
		`x = {"a": 1, "b": [2]}` + "\n",
		"x = [y * 2 for y in xs if y > 0]\n",
		"x = {k: v for k, v in items}\n",
		"x = a.b.c(1, n = 2, *v, **kw)[0]\n",
		"x = a[1:2:3]\n",
		"x = a[::2]\n",
		`x = "a\nb\x00"` + "\n",
		`x = "\x0d\x07\x0b\x7f\xff"` + "\n",
		`x = "it's \"quoted\""` + "\n",
		"x, y = y, x\n",
		"x += 1\n",
		"a; b; c\n",
		"load(\"pkg.sky\", \"a\", b = \"c\")\n",
		"if x:\n    a = 1\nelif y:\n    a = 2\nelse:\n    a = 3\n",
		"for k, v in items:\n    if k:\n        continue\n    break\n",
		"def f(a, b = 1, *args, **kwargs):\n    return a + b\n",
		"def outer(x):\n    def inner(y):\n        return y * 2\n    return inner\n",
	}

	for _, src := range programs {
		f1, err := Parse("a.sky", []byte(src), nil)
		if err != nil {
			t.Errorf("parse %q: %v", src, err)
			continue
		}
		s1 := renderFile(f1)

		f2, err := Parse("b.sky", []byte(s1), nil)
		if err != nil {
			t.Errorf("re-parse of %q failed: %v\nrendered:\n%s", src, err, s1)
			continue
		}
		s2 := renderFile(f2)

		if s1 != s2 {
			t.Errorf("round trip diverged for %q:\nfirst:\n%s\nsecond:\n%s", src, s1, s2)
		}
	}
}
