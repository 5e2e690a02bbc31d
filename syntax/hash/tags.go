package hash

import "github.com/chazu/skylark/syntax"

// ---------------------------------------------------------------------------
// Frozen tag bytes for the hashing AST serialization format.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new tags is fine; changing existing ones breaks
// all previously computed content hashes.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix for the serialization format.
// Bumping this invalidates all existing content hashes.
const HashVersion byte = 1

// AST node type tags. Each tag uniquely identifies a node kind in the
// serialized byte stream.
const (
	TagReservedZero byte = 0x00 // version prefix / reserved

	// Expressions
	TagIdent         byte = 0x01
	TagIntLit        byte = 0x02
	TagStringLit     byte = 0x03
	TagListExpr      byte = 0x04
	TagDictExpr      byte = 0x05
	TagComprehension byte = 0x06
	TagTupleExpr     byte = 0x07
	TagParenExpr     byte = 0x08
	TagCondExpr      byte = 0x09
	TagUnaryExpr     byte = 0x0A
	TagBinaryExpr    byte = 0x0B
	TagDotExpr       byte = 0x0C
	TagCallExpr      byte = 0x0D
	TagIndexExpr     byte = 0x0E
	TagSliceExpr     byte = 0x0F

	// Comprehension clauses
	TagForClause byte = 0x10
	TagIfClause  byte = 0x11

	// Statements
	TagExprStmt   byte = 0x20
	TagAssignStmt byte = 0x21
	TagReturnStmt byte = 0x22
	TagBranchStmt byte = 0x23
	TagLoadStmt   byte = 0x24
	TagIfStmt     byte = 0x25
	TagForStmt    byte = 0x26
	TagDefStmt    byte = 0x27

	// Structure
	TagFile  byte = 0x30
	TagParam byte = 0x31

	// Reserved 0xFE-0xFF
)

// Operator tags. Frozen like the node tags; the serializer never writes a
// raw TokenType value, so reordering the token enumeration cannot change a
// hash.
const (
	OpOr         byte = 0x01
	OpAnd        byte = 0x02
	OpNot        byte = 0x03
	OpEqEq       byte = 0x04
	OpNe         byte = 0x05
	OpLt         byte = 0x06
	OpGt         byte = 0x07
	OpLe         byte = 0x08
	OpGe         byte = 0x09
	OpIn         byte = 0x0A
	OpNotIn      byte = 0x0B
	OpPipe       byte = 0x0C
	OpAmp        byte = 0x0D
	OpPlus       byte = 0x0E
	OpMinus      byte = 0x0F
	OpStar       byte = 0x10
	OpSlash      byte = 0x11
	OpSlashSlash byte = 0x12
	OpPercent    byte = 0x13

	OpAssign        byte = 0x20
	OpPlusAssign    byte = 0x21
	OpMinusAssign   byte = 0x22
	OpStarAssign    byte = 0x23
	OpSlashAssign   byte = 0x24
	OpFloorAssign   byte = 0x25
	OpPercentAssign byte = 0x26

	OpBreak    byte = 0x30
	OpContinue byte = 0x31
	OpPass     byte = 0x32
)

var opTags = map[syntax.TokenType]byte{
	syntax.TokenOr:         OpOr,
	syntax.TokenAnd:        OpAnd,
	syntax.TokenNot:        OpNot,
	syntax.TokenEqEq:       OpEqEq,
	syntax.TokenNe:         OpNe,
	syntax.TokenLt:         OpLt,
	syntax.TokenGt:         OpGt,
	syntax.TokenLe:         OpLe,
	syntax.TokenGe:         OpGe,
	syntax.TokenIn:         OpIn,
	syntax.TokenNotIn:      OpNotIn,
	syntax.TokenPipe:       OpPipe,
	syntax.TokenAmp:        OpAmp,
	syntax.TokenPlus:       OpPlus,
	syntax.TokenMinus:      OpMinus,
	syntax.TokenStar:       OpStar,
	syntax.TokenSlash:      OpSlash,
	syntax.TokenSlashSlash: OpSlashSlash,
	syntax.TokenPercent:    OpPercent,

	syntax.TokenEq:           OpAssign,
	syntax.TokenPlusEq:       OpPlusAssign,
	syntax.TokenMinusEq:      OpMinusAssign,
	syntax.TokenStarEq:       OpStarAssign,
	syntax.TokenSlashEq:      OpSlashAssign,
	syntax.TokenSlashSlashEq: OpFloorAssign,
	syntax.TokenPercentEq:    OpPercentAssign,

	syntax.TokenBreak:    OpBreak,
	syntax.TokenContinue: OpContinue,
	syntax.TokenPass:     OpPass,
}
