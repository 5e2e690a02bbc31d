package syntax

import "strings"

// ---------------------------------------------------------------------------
// String literal scanning and escape decoding
// ---------------------------------------------------------------------------

// readString reads a string literal starting at the opening quote. The
// returned token's Literal holds the decoded byte sequence, which may be
// arbitrary binary content. raw means an r/R prefix was present and
// backslash escapes are preserved literally.
func (l *Lexer) readString(pos Position, raw bool) Token {
	quote := l.ch
	l.readChar() // consume opening quote

	triple := false
	if l.ch == quote {
		if l.peekChar() == quote {
			triple = true
			l.readChar()
			l.readChar()
		} else {
			// Empty string.
			l.readChar()
			return l.token(TokenString, "", pos)
		}
	}

	var sb strings.Builder
	for {
		switch {
		case l.ch == 0:
			return l.errorf(pos, "unterminated string literal")

		case l.ch == '\n' && !triple:
			return l.errorf(pos, "newline in string literal")

		case l.ch == quote:
			if !triple {
				l.readChar()
				return l.token(TokenString, sb.String(), pos)
			}
			if l.readPos < len(l.input) && l.input[l.readPos] == byte(quote) &&
				l.readPos+1 < len(l.input) && l.input[l.readPos+1] == byte(quote) {
				l.readChar()
				l.readChar()
				l.readChar()
				return l.token(TokenString, sb.String(), pos)
			}
			// A single quote character inside a triple-quoted form.
			sb.WriteRune(l.ch)
			l.readChar()

		case l.ch == '\\' && raw:
			// Raw mode: the backslash and the following character are both
			// kept; the backslash still prevents that character from
			// terminating the literal.
			next := l.peekChar()
			if next == 0 {
				return l.errorf(pos, "unterminated string literal")
			}
			if next == '\n' && !triple {
				return l.errorf(pos, "newline in string literal")
			}
			sb.WriteRune('\\')
			sb.WriteRune(next)
			l.readChar()
			l.readChar()

		case l.ch == '\\':
			if errTok, ok := l.decodeEscape(&sb, pos); !ok {
				return errTok
			}

		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// decodeEscape decodes one backslash escape into sb. The cursor is on the
// backslash. Returns (errorToken, false) for an invalid escape.
func (l *Lexer) decodeEscape(sb *strings.Builder, pos Position) (Token, bool) {
	escPos := l.position()
	l.readChar() // consume backslash

	switch {
	case l.ch == 'n':
		sb.WriteByte('\n')
		l.readChar()
	case l.ch == 't':
		sb.WriteByte('\t')
		l.readChar()
	case l.ch == '\\':
		sb.WriteByte('\\')
		l.readChar()
	case l.ch == '\'':
		sb.WriteByte('\'')
		l.readChar()
	case l.ch == '"':
		sb.WriteByte('"')
		l.readChar()

	case l.ch >= '0' && l.ch <= '7':
		// Octal byte escape, one to three digits.
		v := 0
		for i := 0; i < 3 && l.ch >= '0' && l.ch <= '7'; i++ {
			v = v*8 + int(l.ch-'0')
			l.readChar()
		}
		if v > 255 {
			return l.errorf(escPos, "octal escape value %d out of range", v), false
		}
		sb.WriteByte(byte(v))

	case l.ch == 'x':
		// Hex byte escape, exactly two digits.
		l.readChar()
		v := 0
		for i := 0; i < 2; i++ {
			if !isHexDigit(l.ch) {
				return l.errorf(escPos, "invalid hex escape in string literal"), false
			}
			v = v*16 + hexValue(l.ch)
			l.readChar()
		}
		sb.WriteByte(byte(v))

	case l.ch == 0:
		return l.errorf(pos, "unterminated string literal"), false

	default:
		return l.errorf(escPos, "invalid escape sequence \\%c", l.ch), false
	}

	return Token{}, true
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}
