package syntax

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: indentation-sensitive tokenizer for Skylark syntax
// ---------------------------------------------------------------------------

// Lexer tokenizes Skylark source code. One Lexer owns all tokenization
// state for one pass. The indentation stack and bracket-depth counter are
// local, never ambient, so concurrent parses cannot interfere.
type Lexer struct {
	filename string
	input    string
	pos      int  // current position in input
	readPos  int  // reading position (after current char)
	ch       rune // current character, 0 at EOF
	line     int  // current line (1-based)
	col      int  // current column (1-based, runes)
	tabWidth int

	indents       []int   // indentation stack, strictly increasing, bottom 0
	depth         int     // bracket nesting depth of ( [ {
	pending       []Token // synthesized tokens awaiting delivery
	atLineStart   bool
	lineHasTokens bool // a real token was produced on the current logical line
}

// NewLexer creates a new lexer for the given source. The filename is used
// only for diagnostics. A nil opts means defaults.
func NewLexer(filename string, src []byte, opts *Options) *Lexer {
	o := opts.withDefaults()
	l := &Lexer{
		filename:    filename,
		input:       string(src),
		line:        1,
		tabWidth:    o.TabWidth,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// readChar advances to the next character, maintaining line/column of the
// current character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// position returns the position of the current character.
func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) token(t TokenType, lit string, pos Position) Token {
	return Token{Type: t, Literal: lit, Pos: pos, End: l.position()}
}

func (l *Lexer) errorf(pos Position, format string, args ...interface{}) Token {
	return l.token(TokenError, fmt.Sprintf(format, args...), pos)
}

// NextToken returns the next token. Lexical errors surface as a TokenError
// token carrying the message; the sequence always ends with TokenEOF.
func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart && l.depth <= 0 {
		if tok, ok := l.lineStart(); ok {
			return tok
		}
	}

	l.skipSpace()

	pos := l.position()

	switch {
	case l.ch == 0:
		// Close the final logical line, unwind the indentation stack,
		// then report end of input on every subsequent call.
		if l.lineHasTokens {
			l.lineHasTokens = false
			return l.token(TokenNewline, "", pos)
		}
		if len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			return l.token(TokenDedent, "", pos)
		}
		return l.token(TokenEOF, "", pos)

	case l.ch == '\n':
		l.readChar()
		l.atLineStart = true
		if l.lineHasTokens {
			l.lineHasTokens = false
			return Token{Type: TokenNewline, Literal: "", Pos: pos, End: l.position()}
		}
		return l.NextToken()

	case isDigit(l.ch):
		l.lineHasTokens = true
		return l.readNumber(pos)

	case (l.ch == 'r' || l.ch == 'R') && (l.peekChar() == '\'' || l.peekChar() == '"'):
		l.lineHasTokens = true
		l.readChar() // consume raw prefix
		return l.readString(pos, true)

	case l.ch == '\'' || l.ch == '"':
		l.lineHasTokens = true
		return l.readString(pos, false)

	case isIdentStart(l.ch):
		l.lineHasTokens = true
		return l.readIdentifierOrKeyword(pos)

	default:
		l.lineHasTokens = true
		return l.readOperator(pos)
	}
}

// skipSpace skips horizontal whitespace, comments, backslash line joins,
// and, while bracket depth is positive, line breaks.
func (l *Lexer) skipSpace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()

		case l.ch == '\\' && (l.peekChar() == '\n' || l.peekChar() == '\r'):
			// Escape-continuation: join the next physical line.
			l.readChar() // consume backslash
			if l.ch == '\r' {
				l.readChar()
			}
			if l.ch == '\n' {
				l.readChar()
			}

		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}

		case l.ch == '\n' && l.depth > 0:
			// Logical line continues inside brackets.
			l.readChar()

		default:
			return
		}
	}
}

// lineStart handles the start of a logical line at bracket depth 0: it
// skips blank and comment-only lines, measures the indentation of the
// first code line, and synthesizes INDENT/DEDENT tokens against the
// indentation stack. Returns (token, true) when a synthetic token or a
// lexical error must be delivered before normal scanning resumes.
func (l *Lexer) lineStart() (Token, bool) {
	l.atLineStart = false

	width := 0
	for {
		switch l.ch {
		case ' ':
			width++
			l.readChar()
			continue
		case '\t':
			width += l.tabWidth - width%l.tabWidth
			l.readChar()
			continue
		case '\r':
			l.readChar()
			continue
		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		case '\n':
			// Blank or comment-only line: no NEWLINE, indentation untouched.
			l.readChar()
			width = 0
			continue
		}
		break
	}

	if l.ch == 0 {
		// EOF handling emits the closing DEDENTs.
		return Token{}, false
	}

	pos := l.position()
	top := l.indents[len(l.indents)-1]

	switch {
	case width == top:
		return Token{}, false

	case width > top:
		l.indents = append(l.indents, width)
		return l.token(TokenIndent, "", pos), true

	default:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.token(TokenDedent, "", pos))
		}
		if l.indents[len(l.indents)-1] != width {
			l.pending = append(l.pending,
				l.errorf(pos, "unindent does not match any outer indentation level"))
		}
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, true
	}
}

// readNumber reads an integer literal.
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		l.readChar() // 0
		l.readChar() // o
		digitStart := l.pos
		for l.ch >= '0' && l.ch <= '7' {
			l.readChar()
		}
		if l.pos == digitStart || isIdentStart(l.ch) || isDigit(l.ch) {
			return l.errorf(pos, "invalid octal literal")
		}
		lit := l.input[start:l.pos]
		value, err := strconv.ParseInt(l.input[digitStart:l.pos], 8, 64)
		if err != nil {
			return l.errorf(pos, "invalid octal literal %s", lit)
		}
		return l.intToken(lit, value, pos)
	}

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar() // 0
		l.readChar() // x
		digitStart := l.pos
		for isHexDigit(l.ch) {
			l.readChar()
		}
		if l.pos == digitStart || isIdentStart(l.ch) {
			return l.errorf(pos, "invalid hexadecimal literal")
		}
		lit := l.input[start:l.pos]
		value, err := strconv.ParseInt(l.input[digitStart:l.pos], 16, 64)
		if err != nil {
			return l.errorf(pos, "invalid hexadecimal literal %s", lit)
		}
		return l.intToken(lit, value, pos)
	}

	leadingZero := l.ch == '0'
	for isDigit(l.ch) {
		l.readChar()
	}
	if isIdentStart(l.ch) {
		return l.errorf(pos, "invalid character %q in number", l.ch)
	}
	lit := l.input[start:l.pos]

	if leadingZero && len(lit) > 1 {
		// Leading-zero decimals are not octal here. Runs of zeros are
		// accepted as zero, a documented quirk, and that allowance is
		// extended to octal-digit tails; an 8 or 9 is an error.
		for _, d := range lit[1:] {
			if d == '8' || d == '9' {
				return l.errorf(pos, "invalid decimal literal %s with leading zero", lit)
			}
		}
		return l.intToken(lit, 0, pos)
	}

	value, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return l.errorf(pos, "invalid integer literal %s", lit)
	}
	return l.intToken(lit, value, pos)
}

func (l *Lexer) intToken(lit string, value int64, pos Position) Token {
	tok := l.token(TokenInt, lit, pos)
	tok.Value = value
	return tok
}

// readIdentifierOrKeyword reads an identifier, classifying it against the
// keyword table first.
func (l *Lexer) readIdentifierOrKeyword(pos Position) Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.pos]

	if tokType, ok := keywords[literal]; ok {
		return l.token(tokType, literal, pos)
	}
	return l.token(TokenIdent, literal, pos)
}

// readOperator reads one operator or punctuation token.
func (l *Lexer) readOperator(pos Position) Token {
	ch := l.ch
	l.readChar()

	two := func(next rune, pair, single TokenType) Token {
		if l.ch == next {
			l.readChar()
			return l.token(pair, string(ch)+string(next), pos)
		}
		return l.token(single, string(ch), pos)
	}

	switch ch {
	case '(':
		l.depth++
		return l.token(TokenLParen, "(", pos)
	case ')':
		l.depth--
		return l.token(TokenRParen, ")", pos)
	case '[':
		l.depth++
		return l.token(TokenLBracket, "[", pos)
	case ']':
		l.depth--
		return l.token(TokenRBracket, "]", pos)
	case '{':
		l.depth++
		return l.token(TokenLBrace, "{", pos)
	case '}':
		l.depth--
		return l.token(TokenRBrace, "}", pos)
	case ',':
		return l.token(TokenComma, ",", pos)
	case ';':
		return l.token(TokenSemi, ";", pos)
	case ':':
		return l.token(TokenColon, ":", pos)
	case '.':
		return l.token(TokenDot, ".", pos)
	case '|':
		return l.token(TokenPipe, "|", pos)
	case '&':
		return l.token(TokenAmp, "&", pos)
	case '=':
		return two('=', TokenEqEq, TokenEq)
	case '<':
		return two('=', TokenLe, TokenLt)
	case '>':
		return two('=', TokenGe, TokenGt)
	case '+':
		return two('=', TokenPlusEq, TokenPlus)
	case '-':
		return two('=', TokenMinusEq, TokenMinus)
	case '%':
		return two('=', TokenPercentEq, TokenPercent)
	case '*':
		if l.ch == '*' {
			l.readChar()
			return l.token(TokenStarStar, "**", pos)
		}
		return two('=', TokenStarEq, TokenStar)
	case '/':
		if l.ch == '/' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.token(TokenSlashSlashEq, "//=", pos)
			}
			return l.token(TokenSlashSlash, "//", pos)
		}
		return two('=', TokenSlashEq, TokenSlash)
	case '!':
		if l.ch == '=' {
			l.readChar()
			return l.token(TokenNe, "!=", pos)
		}
		return l.errorf(pos, "unexpected character %q", ch)
	default:
		return l.errorf(pos, "unexpected character %q", ch)
	}
}

// Tokenize returns all tokens from the source, ending with exactly one
// TokenEOF (or stopping at the first TokenError).
func Tokenize(filename string, src []byte, opts *Options) []Token {
	l := NewLexer(filename, src, opts)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}

// Helper functions

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r) || unicode.IsDigit(r)
}
