package syntax

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the Skylark lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Block structure (synthesized, never present in raw text)
	TokenNewline
	TokenIndent
	TokenDedent

	// Literals
	TokenInt    // 0, 42, 0o17, 0x1F
	TokenString // 'a', "a", '''a''', r"a\n"
	TokenIdent  // foo, _bar

	// Punctuation
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
	TokenComma    // ,
	TokenSemi     // ;
	TokenColon    // :
	TokenDot      // .

	// Operators
	TokenEq           // =
	TokenEqEq         // ==
	TokenNe           // !=
	TokenLt           // <
	TokenGt           // >
	TokenLe           // <=
	TokenGe           // >=
	TokenPipe         // |
	TokenAmp          // &
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenStarStar     // **
	TokenSlash        // /
	TokenSlashSlash   // //
	TokenPercent      // %
	TokenPlusEq       // +=
	TokenMinusEq      // -=
	TokenStarEq       // *=
	TokenSlashEq      // /=
	TokenSlashSlashEq // //=
	TokenPercentEq    // %=

	// NotIn is synthesized by the parser from adjacent 'not' 'in' at
	// binary-operator position; the lexer never emits it.
	TokenNotIn // not in

	// Keywords
	TokenAnd
	TokenOr
	TokenNot
	TokenIf
	TokenElif
	TokenElse
	TokenFor
	TokenIn
	TokenDef
	TokenReturn
	TokenBreak
	TokenContinue
	TokenPass
	TokenLoad
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenError:        "ERROR",
	TokenNewline:      "NEWLINE",
	TokenIndent:       "INDENT",
	TokenDedent:       "DEDENT",
	TokenInt:          "INT",
	TokenString:       "STRING",
	TokenIdent:        "IDENT",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenComma:        ",",
	TokenSemi:         ";",
	TokenColon:        ":",
	TokenDot:          ".",
	TokenEq:           "=",
	TokenEqEq:         "==",
	TokenNe:           "!=",
	TokenLt:           "<",
	TokenGt:           ">",
	TokenLe:           "<=",
	TokenGe:           ">=",
	TokenPipe:         "|",
	TokenAmp:          "&",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenStarStar:     "**",
	TokenSlash:        "/",
	TokenSlashSlash:   "//",
	TokenPercent:      "%",
	TokenPlusEq:       "+=",
	TokenMinusEq:      "-=",
	TokenStarEq:       "*=",
	TokenSlashEq:      "/=",
	TokenSlashSlashEq: "//=",
	TokenPercentEq:    "%=",
	TokenNotIn:        "not in",
	TokenAnd:          "and",
	TokenOr:           "or",
	TokenNot:          "not",
	TokenIf:           "if",
	TokenElif:         "elif",
	TokenElse:         "else",
	TokenFor:          "for",
	TokenIn:           "in",
	TokenDef:          "def",
	TokenReturn:       "return",
	TokenBreak:        "break",
	TokenContinue:     "continue",
	TokenPass:         "pass",
	TokenLoad:         "load",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // raw text, or the decoded value for strings
	Value   int64    // decoded value, TokenInt only
	Pos     Position // start position
	End     Position // position just past the last character
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	case TokenNewline, TokenIndent, TokenDedent:
		return t.Type.String()
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Keywords mapped to their token types. The table is built once and never
// mutated; the lexer checks it before classifying an identifier.
var keywords = map[string]TokenType{
	"and":      TokenAnd,
	"or":       TokenOr,
	"not":      TokenNot,
	"if":       TokenIf,
	"elif":     TokenElif,
	"else":     TokenElse,
	"for":      TokenFor,
	"in":       TokenIn,
	"def":      TokenDef,
	"return":   TokenReturn,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"pass":     TokenPass,
	"load":     TokenLoad,
}
