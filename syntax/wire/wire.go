// Package wire provides a CBOR interchange encoding for parsed syntax
// trees, so a tree produced by one process can be consumed by another
// without re-parsing the source.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/skylark/syntax"
)

// Version is the wire format version. Bump on any incompatible change to
// the node encoding.
const Version = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// envelope wraps a root node with the format version.
type envelope struct {
	Version int       `cbor:"v"`
	Path    string    `cbor:"f,omitempty"`
	Root    *wireNode `cbor:"r"`
}

// wireNode is the flattened encoding of one AST node. Kind selects the
// node type; the scalar fields and child layout depend on it.
type wireNode struct {
	Kind string      `cbor:"k"`
	Str  string      `cbor:"s,omitempty"`
	Str2 string      `cbor:"u,omitempty"`
	Int  int64       `cbor:"i,omitempty"`
	Flag bool        `cbor:"b,omitempty"`
	Span [6]int      `cbor:"p,omitempty"`
	Kids []*wireNode `cbor:"c,omitempty"`
}

// Encode serializes a parsed file to canonical CBOR.
func Encode(f *syntax.File) ([]byte, error) {
	root, err := encodeNode(f)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(&envelope{Version: Version, Path: f.Path, Root: root})
}

// Decode deserializes a file encoded by Encode.
func Decode(data []byte) (*syntax.File, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: unmarshal: %w", err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("wire: unsupported version %d", env.Version)
	}
	if env.Root == nil || env.Root.Kind != "file" {
		return nil, fmt.Errorf("wire: root is not a file node")
	}
	n, err := decodeNode(env.Root)
	if err != nil {
		return nil, err
	}
	f := n.(*syntax.File)
	f.Path = env.Path
	return f, nil
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func spanOf(n syntax.Node) [6]int {
	sp := n.Span()
	return [6]int{
		sp.Start.Offset, sp.Start.Line, sp.Start.Column,
		sp.End.Offset, sp.End.Line, sp.End.Column,
	}
}

func spanFrom(a [6]int) syntax.Span {
	return syntax.Span{
		Start: syntax.Position{Offset: a[0], Line: a[1], Column: a[2]},
		End:   syntax.Position{Offset: a[3], Line: a[4], Column: a[5]},
	}
}

var nilNode = &wireNode{Kind: "nil"}

func encodeOptional(e syntax.Expr) (*wireNode, error) {
	if e == nil {
		return nilNode, nil
	}
	return encodeNode(e)
}

func encodeExprs(list []syntax.Expr) ([]*wireNode, error) {
	kids := make([]*wireNode, 0, len(list))
	for _, e := range list {
		k, err := encodeNode(e)
		if err != nil {
			return nil, err
		}
		kids = append(kids, k)
	}
	return kids, nil
}

// encodeBlock wraps a statement suite so suites of variable length can sit
// next to other children.
func encodeBlock(stmts []syntax.Stmt) (*wireNode, error) {
	b := &wireNode{Kind: "block"}
	for _, st := range stmts {
		k, err := encodeNode(st)
		if err != nil {
			return nil, err
		}
		b.Kids = append(b.Kids, k)
	}
	return b, nil
}

func encodeNode(node syntax.Node) (*wireNode, error) {
	w := &wireNode{Span: spanOf(node)}

	switch n := node.(type) {
	case *syntax.File:
		w.Kind = "file"
		for _, st := range n.Stmts {
			k, err := encodeNode(st)
			if err != nil {
				return nil, err
			}
			w.Kids = append(w.Kids, k)
		}

	case *syntax.Ident:
		w.Kind = "ident"
		w.Str = n.Name

	case *syntax.IntLit:
		w.Kind = "int"
		w.Str = n.Raw
		w.Int = n.Value

	case *syntax.StringLit:
		w.Kind = "string"
		w.Str = n.Value

	case *syntax.ListExpr:
		w.Kind = "list"
		kids, err := encodeExprs(n.Elements)
		if err != nil {
			return nil, err
		}
		w.Kids = kids

	case *syntax.DictExpr:
		w.Kind = "dict"
		for _, e := range n.Entries {
			k, err := encodeNode(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := encodeNode(e.Value)
			if err != nil {
				return nil, err
			}
			w.Kids = append(w.Kids, k, v)
		}

	case *syntax.Comprehension:
		w.Kind = "comp"
		w.Flag = n.Curly
		key, err := encodeOptional(n.Key)
		if err != nil {
			return nil, err
		}
		body, err := encodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{key, body}
		for _, c := range n.Clauses {
			k, err := encodeNode(c)
			if err != nil {
				return nil, err
			}
			w.Kids = append(w.Kids, k)
		}

	case *syntax.ForClause:
		w.Kind = "forclause"
		if err := encodeInto(w, n.Vars, n.X); err != nil {
			return nil, err
		}

	case *syntax.IfClause:
		w.Kind = "ifclause"
		if err := encodeInto(w, n.Cond); err != nil {
			return nil, err
		}

	case *syntax.TupleExpr:
		w.Kind = "tuple"
		kids, err := encodeExprs(n.Elements)
		if err != nil {
			return nil, err
		}
		w.Kids = kids

	case *syntax.ParenExpr:
		w.Kind = "paren"
		if err := encodeInto(w, n.X); err != nil {
			return nil, err
		}

	case *syntax.CondExpr:
		w.Kind = "cond"
		if err := encodeInto(w, n.Cond, n.True, n.False); err != nil {
			return nil, err
		}

	case *syntax.UnaryExpr:
		w.Kind = "unary"
		w.Str = n.Op.String()
		if err := encodeInto(w, n.X); err != nil {
			return nil, err
		}

	case *syntax.BinaryExpr:
		w.Kind = "binary"
		w.Str = n.Op.String()
		if err := encodeInto(w, n.X, n.Y); err != nil {
			return nil, err
		}

	case *syntax.DotExpr:
		w.Kind = "dot"
		w.Str = n.Name.Name
		if err := encodeInto(w, n.X); err != nil {
			return nil, err
		}

	case *syntax.CallExpr:
		w.Kind = "call"
		fn, err := encodeNode(n.X)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{fn}
		for _, a := range n.Args {
			arg := &wireNode{Kind: "arg", Str: a.Star}
			if a.Name != nil {
				arg.Flag = true
				arg.Str2 = a.Name.Name
			}
			v, err := encodeNode(a.Value)
			if err != nil {
				return nil, err
			}
			arg.Kids = []*wireNode{v}
			w.Kids = append(w.Kids, arg)
		}

	case *syntax.IndexExpr:
		w.Kind = "index"
		if err := encodeInto(w, n.X, n.Index); err != nil {
			return nil, err
		}

	case *syntax.SliceExpr:
		w.Kind = "slice"
		x, err := encodeNode(n.X)
		if err != nil {
			return nil, err
		}
		lo, err := encodeOptional(n.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := encodeOptional(n.Hi)
		if err != nil {
			return nil, err
		}
		step, err := encodeOptional(n.Step)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{x, lo, hi, step}

	case *syntax.ExprStmt:
		w.Kind = "exprstmt"
		if err := encodeInto(w, n.X); err != nil {
			return nil, err
		}

	case *syntax.AssignStmt:
		w.Kind = "assign"
		w.Str = n.Op.String()
		if err := encodeInto(w, n.LHS, n.RHS); err != nil {
			return nil, err
		}

	case *syntax.ReturnStmt:
		w.Kind = "return"
		res, err := encodeOptional(n.Result)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{res}

	case *syntax.BranchStmt:
		w.Kind = "branch"
		w.Str = n.Token.String()

	case *syntax.LoadStmt:
		w.Kind = "load"
		mod, err := encodeNode(n.Module)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{mod}
		for _, b := range n.Bindings {
			bind := &wireNode{Kind: "bind", Str2: b.Sym.Value, Span: spanOf(b.Sym)}
			if b.Alias != nil {
				bind.Flag = true
				bind.Str = b.Alias.Name
			}
			w.Kids = append(w.Kids, bind)
		}

	case *syntax.IfStmt:
		w.Kind = "ifstmt"
		for _, c := range n.Clauses {
			arm := &wireNode{Kind: "ifarm", Span: spanOf(c)}
			cond, err := encodeNode(c.Cond)
			if err != nil {
				return nil, err
			}
			body, err := encodeBlock(c.Body)
			if err != nil {
				return nil, err
			}
			arm.Kids = []*wireNode{cond, body}
			w.Kids = append(w.Kids, arm)
		}
		if n.Else != nil {
			els, err := encodeBlock(n.Else)
			if err != nil {
				return nil, err
			}
			w.Flag = true
			w.Kids = append(w.Kids, els)
		}

	case *syntax.ForStmt:
		w.Kind = "forstmt"
		vars, err := encodeNode(n.Vars)
		if err != nil {
			return nil, err
		}
		x, err := encodeNode(n.X)
		if err != nil {
			return nil, err
		}
		body, err := encodeBlock(n.Body)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{vars, x, body}

	case *syntax.DefStmt:
		w.Kind = "def"
		w.Str = n.Name.Name
		params := &wireNode{Kind: "params"}
		for _, p := range n.Params {
			pw := &wireNode{Kind: "param", Str: p.Star, Str2: p.Name.Name, Span: spanOf(p)}
			def, err := encodeOptional(p.Default)
			if err != nil {
				return nil, err
			}
			pw.Kids = []*wireNode{def}
			params.Kids = append(params.Kids, pw)
		}
		body, err := encodeBlock(n.Body)
		if err != nil {
			return nil, err
		}
		w.Kids = []*wireNode{params, body}

	default:
		return nil, fmt.Errorf("wire: unexpected node type %T", node)
	}

	return w, nil
}

func encodeInto(w *wireNode, kids ...syntax.Node) error {
	for _, k := range kids {
		e, err := encodeNode(k)
		if err != nil {
			return err
		}
		w.Kids = append(w.Kids, e)
	}
	return nil
}
