package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/chazu/skylark/syntax"
)

// ---------------------------------------------------------------------------
// Deterministic binary serialization of the AST for content hashing.
//
// Encoding conventions:
//   - First byte: HashVersion (0x01)
//   - Integers: big-endian fixed-width (int64=8B, uint32=4B)
//   - Strings: uint32 big-endian length + raw bytes
//   - Optional children: presence byte (0/1) then the child
//   - Child lists: uint32 count then each child inline (flat)
//
// Source positions are not serialized: reformatting a file never changes
// its content hash.
// ---------------------------------------------------------------------------

// Serialize produces a deterministic byte serialization of an AST node.
// The returned bytes are suitable for hashing with SHA-256.
func Serialize(node syntax.Node) []byte {
	s := &serializer{buf: make([]byte, 0, 256)}
	s.writeByte(HashVersion)
	s.serializeNode(node)
	return s.buf
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) writeOp(op syntax.TokenType) {
	tag, ok := opTags[op]
	if !ok {
		panic(fmt.Sprintf("hash: no frozen tag for operator %v", op))
	}
	s.writeByte(tag)
}

// writeOptional writes a presence byte, then the node if present.
func (s *serializer) writeOptional(n syntax.Node) {
	if n == nil {
		s.writeByte(0)
		return
	}
	s.writeByte(1)
	s.serializeNode(n)
}

func (s *serializer) writeExprs(list []syntax.Expr) {
	s.writeUint32(uint32(len(list)))
	for _, e := range list {
		s.serializeNode(e)
	}
}

func (s *serializer) writeStmts(list []syntax.Stmt) {
	s.writeUint32(uint32(len(list)))
	for _, st := range list {
		s.serializeNode(st)
	}
}

func (s *serializer) serializeNode(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.Ident:
		s.writeByte(TagIdent)
		s.writeString(n.Name)

	case *syntax.IntLit:
		s.writeByte(TagIntLit)
		s.writeInt64(n.Value)

	case *syntax.StringLit:
		s.writeByte(TagStringLit)
		s.writeString(n.Value)

	case *syntax.ListExpr:
		s.writeByte(TagListExpr)
		s.writeExprs(n.Elements)

	case *syntax.DictExpr:
		s.writeByte(TagDictExpr)
		s.writeUint32(uint32(len(n.Entries)))
		for _, e := range n.Entries {
			s.serializeNode(e.Key)
			s.serializeNode(e.Value)
		}

	case *syntax.Comprehension:
		s.writeByte(TagComprehension)
		if n.Curly {
			s.writeByte(1)
		} else {
			s.writeByte(0)
		}
		s.writeOptional(exprOrNil(n.Key))
		s.serializeNode(n.Body)
		s.writeUint32(uint32(len(n.Clauses)))
		for _, c := range n.Clauses {
			s.serializeNode(c)
		}

	case *syntax.ForClause:
		s.writeByte(TagForClause)
		s.serializeNode(n.Vars)
		s.serializeNode(n.X)

	case *syntax.IfClause:
		s.writeByte(TagIfClause)
		s.serializeNode(n.Cond)

	case *syntax.TupleExpr:
		s.writeByte(TagTupleExpr)
		s.writeExprs(n.Elements)

	case *syntax.ParenExpr:
		s.writeByte(TagParenExpr)
		s.serializeNode(n.X)

	case *syntax.CondExpr:
		s.writeByte(TagCondExpr)
		s.serializeNode(n.Cond)
		s.serializeNode(n.True)
		s.serializeNode(n.False)

	case *syntax.UnaryExpr:
		s.writeByte(TagUnaryExpr)
		s.writeOp(n.Op)
		s.serializeNode(n.X)

	case *syntax.BinaryExpr:
		s.writeByte(TagBinaryExpr)
		s.writeOp(n.Op)
		s.serializeNode(n.X)
		s.serializeNode(n.Y)

	case *syntax.DotExpr:
		s.writeByte(TagDotExpr)
		s.serializeNode(n.X)
		s.writeString(n.Name.Name)

	case *syntax.CallExpr:
		s.writeByte(TagCallExpr)
		s.serializeNode(n.X)
		s.writeUint32(uint32(len(n.Args)))
		for _, a := range n.Args {
			s.writeString(a.Star)
			if a.Name != nil {
				s.writeByte(1)
				s.writeString(a.Name.Name)
			} else {
				s.writeByte(0)
			}
			s.serializeNode(a.Value)
		}

	case *syntax.IndexExpr:
		s.writeByte(TagIndexExpr)
		s.serializeNode(n.X)
		s.serializeNode(n.Index)

	case *syntax.SliceExpr:
		s.writeByte(TagSliceExpr)
		s.serializeNode(n.X)
		s.writeOptional(exprOrNil(n.Lo))
		s.writeOptional(exprOrNil(n.Hi))
		s.writeOptional(exprOrNil(n.Step))

	case *syntax.ExprStmt:
		s.writeByte(TagExprStmt)
		s.serializeNode(n.X)

	case *syntax.AssignStmt:
		s.writeByte(TagAssignStmt)
		s.writeOp(n.Op)
		s.serializeNode(n.LHS)
		s.serializeNode(n.RHS)

	case *syntax.ReturnStmt:
		s.writeByte(TagReturnStmt)
		s.writeOptional(exprOrNil(n.Result))

	case *syntax.BranchStmt:
		s.writeByte(TagBranchStmt)
		s.writeOp(n.Token)

	case *syntax.LoadStmt:
		s.writeByte(TagLoadStmt)
		s.writeString(n.Module.Value)
		s.writeUint32(uint32(len(n.Bindings)))
		for _, b := range n.Bindings {
			if b.Alias != nil {
				s.writeByte(1)
				s.writeString(b.Alias.Name)
			} else {
				s.writeByte(0)
			}
			s.writeString(b.Sym.Value)
		}

	case *syntax.IfStmt:
		s.writeByte(TagIfStmt)
		s.writeUint32(uint32(len(n.Clauses)))
		for _, c := range n.Clauses {
			s.serializeNode(c.Cond)
			s.writeStmts(c.Body)
		}
		if n.Else != nil {
			s.writeByte(1)
			s.writeStmts(n.Else)
		} else {
			s.writeByte(0)
		}

	case *syntax.ForStmt:
		s.writeByte(TagForStmt)
		s.serializeNode(n.Vars)
		s.serializeNode(n.X)
		s.writeStmts(n.Body)

	case *syntax.DefStmt:
		s.writeByte(TagDefStmt)
		s.writeString(n.Name.Name)
		s.writeUint32(uint32(len(n.Params)))
		for _, p := range n.Params {
			s.writeByte(TagParam)
			s.writeString(p.Star)
			s.writeString(p.Name.Name)
			s.writeOptional(exprOrNil(p.Default))
		}
		s.writeStmts(n.Body)

	case *syntax.File:
		s.writeByte(TagFile)
		s.writeStmts(n.Stmts)

	default:
		panic(fmt.Sprintf("hash: unexpected node type %T", node))
	}
}

// exprOrNil lifts a possibly-nil Expr to a Node without producing a
// non-nil interface wrapping a nil pointer.
func exprOrNil(e syntax.Expr) syntax.Node {
	if e == nil {
		return nil
	}
	return e
}
