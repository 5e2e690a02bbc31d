package syntax

import (
	"testing"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	return Tokenize("test.sky", []byte(input), nil)
}

func TestLexerPunctuation(t *testing.T) {
	input := `( ) [ ] { } , ; : . | &`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenComma, ","},
		{TokenSemi, ";"},
		{TokenColon, ":"},
		{TokenDot, "."},
		{TokenPipe, "|"},
		{TokenAmp, "&"},
		{TokenNewline, ""},
		{TokenEOF, ""},
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, exp := range expected {
		if toks[i].Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, toks[i].Type, exp.typ)
		}
		if toks[i].Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, toks[i].Literal, exp.lit)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	input := `== != < > <= >= = += -= *= /= //= %= + - * ** / // %`
	expected := []TokenType{
		TokenEqEq, TokenNe, TokenLt, TokenGt, TokenLe, TokenGe,
		TokenEq, TokenPlusEq, TokenMinusEq, TokenStarEq, TokenSlashEq,
		TokenSlashSlashEq, TokenPercentEq,
		TokenPlus, TokenMinus, TokenStar, TokenStarStar,
		TokenSlash, TokenSlashSlash, TokenPercent,
		TokenNewline, TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `and or not if elif else for in def return break continue pass load`
	expected := []TokenType{
		TokenAnd, TokenOr, TokenNot, TokenIf, TokenElif, TokenElse,
		TokenFor, TokenIn, TokenDef, TokenReturn, TokenBreak,
		TokenContinue, TokenPass, TokenLoad,
		TokenNewline, TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d", len(toks), len(expected))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{"foo", "_private", "foo123", "FooBar", "caf\u00e9"}
	for _, input := range tests {
		toks := tokenize(t, input)
		if toks[0].Type != TokenIdent {
			t.Errorf("Tokenize(%q): type = %v, want IDENT", input, toks[0].Type)
		}
		if toks[0].Literal != input {
			t.Errorf("Tokenize(%q): literal = %q", input, toks[0].Literal)
		}
	}
}

func TestLexerIntegers(t *testing.T) {
	tests := []struct {
		input string
		value int64
	}{
		{"0", 0},
		{"42", 42},
		{"1234567890", 1234567890},
		{"00000", 0},
		{"007", 0},
		{"0o17", 15},
		{"0O17", 15},
		{"0o0", 0},
		{"0x1F", 31},
		{"0X1f", 31},
		{"0xff", 255},
	}

	for _, tc := range tests {
		toks := tokenize(t, tc.input)
		if toks[0].Type != TokenInt {
			t.Errorf("Tokenize(%q): type = %v, want INT", tc.input, toks[0].Type)
			continue
		}
		if toks[0].Literal != tc.input {
			t.Errorf("Tokenize(%q): literal = %q", tc.input, toks[0].Literal)
		}
		if toks[0].Value != tc.value {
			t.Errorf("Tokenize(%q): value = %d, want %d", tc.input, toks[0].Value, tc.value)
		}
	}
}

func TestLexerBadIntegers(t *testing.T) {
	tests := []string{"08", "09", "079", "0o", "0o8", "0o19", "0x", "0xG", "12a", "0x1FG"}
	for _, input := range tests {
		toks := tokenize(t, input)
		last := toks[len(toks)-1]
		if last.Type != TokenError {
			t.Errorf("Tokenize(%q): want lexical error, got %v", input, toks)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'world'`, "world"},
		{`""`, ""},
		{`''`, ""},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"\\"`, `\`},
		{`"say \"hi\""`, `say "hi"`},
		{`'it\'s'`, "it's"},
		{`"\x41\x62"`, "Ab"},
		{`"\101\102"`, "AB"},
		{`"\0"`, "\x00"},
		{`r"a\nb"`, `a\nb`},
		{`R"a\tb"`, `a\tb`},
		{"\"\"\"line1\nline2\"\"\"", "line1\nline2"},
		{`"""a"b"""`, `a"b`},
		{`''''''`, ""},
		{"'''it's'''", "it's"},
	}

	for _, tc := range tests {
		toks := tokenize(t, tc.input)
		if toks[0].Type != TokenString {
			t.Errorf("Tokenize(%q): type = %v, want STRING (%v)", tc.input, toks[0].Type, toks[0])
			continue
		}
		if toks[0].Literal != tc.want {
			t.Errorf("Tokenize(%q): value = %q, want %q", tc.input, toks[0].Literal, tc.want)
		}
	}
}

func TestLexerBadStrings(t *testing.T) {
	tests := []string{
		`"abc`,
		`'abc`,
		"\"ab\ncd\"",
		`"""never closed`,
		`"\q"`,
		`"\477"`,
		`"\x4"`,
		`"\xZZ"`,
	}
	for _, input := range tests {
		toks := tokenize(t, input)
		last := toks[len(toks)-1]
		if last.Type != TokenError {
			t.Errorf("Tokenize(%q): want lexical error, got %v", input, toks)
		}
	}
}

func TestLexerIndentation(t *testing.T) {
	input := "def f():\n    x = 1\n    return x\n"
	expected := []TokenType{
		TokenDef, TokenIdent, TokenLParen, TokenRParen, TokenColon, TokenNewline,
		TokenIndent,
		TokenIdent, TokenEq, TokenInt, TokenNewline,
		TokenReturn, TokenIdent, TokenNewline,
		TokenDedent,
		TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerNestedIndentation(t *testing.T) {
	input := "if a:\n    if b:\n        pass\nx = 1\n"
	expected := []TokenType{
		TokenIf, TokenIdent, TokenColon, TokenNewline,
		TokenIndent,
		TokenIf, TokenIdent, TokenColon, TokenNewline,
		TokenIndent,
		TokenPass, TokenNewline,
		TokenDedent, TokenDedent,
		TokenIdent, TokenEq, TokenInt, TokenNewline,
		TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerDedentsAtEOF(t *testing.T) {
	// No trailing newline: the final logical line still closes and the
	// indentation stack unwinds before EOF.
	input := "if a:\n    pass"
	expected := []TokenType{
		TokenIf, TokenIdent, TokenColon, TokenNewline,
		TokenIndent,
		TokenPass, TokenNewline,
		TokenDedent,
		TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerBadDedent(t *testing.T) {
	// Dedent to a width that matches no enclosing level.
	input := "if a:\n    pass\n  pass\n"
	toks := tokenize(t, input)
	last := toks[len(toks)-1]
	if last.Type != TokenError {
		t.Fatalf("want lexical error, got %v", toks)
	}
	if last.Literal != "unindent does not match any outer indentation level" {
		t.Errorf("error = %q", last.Literal)
	}
	// The matching outer levels are still closed first.
	if toks[len(toks)-2].Type != TokenDedent {
		t.Errorf("token before error = %v, want DEDENT", toks[len(toks)-2].Type)
	}
}

func TestLexerBlankAndCommentLines(t *testing.T) {
	// Blank and comment-only lines produce no NEWLINE and never affect
	// indentation.
	input := "x = 1\n\n# a comment\n    # indented comment\n\ny = 2\n"
	expected := []TokenType{
		TokenIdent, TokenEq, TokenInt, TokenNewline,
		TokenIdent, TokenEq, TokenInt, TokenNewline,
		TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerTrailingComment(t *testing.T) {
	input := "x = 1  # trailing\n"
	expected := []TokenType{TokenIdent, TokenEq, TokenInt, TokenNewline, TokenEOF}
	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
}

func TestLexerBracketsSuppressNewlines(t *testing.T) {
	input := "x = [\n    1,\n    2,\n]\n"
	expected := []TokenType{
		TokenIdent, TokenEq, TokenLBracket,
		TokenInt, TokenComma, TokenInt, TokenComma,
		TokenRBracket, TokenNewline,
		TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerLineContinuation(t *testing.T) {
	input := "x = 1 + \\\n    2\n"
	expected := []TokenType{
		TokenIdent, TokenEq, TokenInt, TokenPlus, TokenInt, TokenNewline, TokenEOF,
	}

	toks := tokenize(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerNewlineAtEOFWithoutTerminator(t *testing.T) {
	toks := tokenize(t, "x = 1")
	expected := []TokenType{TokenIdent, TokenEq, TokenInt, TokenNewline, TokenEOF}
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, want)
		}
	}
}

func TestLexerEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "# only a comment\n", "   \n\t\n"} {
		toks := tokenize(t, input)
		if len(toks) != 1 || toks[0].Type != TokenEOF {
			t.Errorf("Tokenize(%q) = %v, want just EOF", input, toks)
		}
	}
}

func TestLexerTabWidth(t *testing.T) {
	// One tab and eight spaces indent to the same level by default.
	input := "if a:\n\tx = 1\n        y = 2\n"
	toks := tokenize(t, input)
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case TokenIndent:
			indents++
		case TokenDedent:
			dedents++
		case TokenError:
			t.Fatalf("unexpected error: %v", tok)
		}
	}
	if indents != 1 || dedents != 1 {
		t.Errorf("indents = %d, dedents = %d, want 1 and 1", indents, dedents)
	}
}

func TestLexerPositions(t *testing.T) {
	toks := tokenize(t, "x = 1\ny = 2\n")
	// y starts line 2, column 1.
	var y Token
	for _, tok := range toks {
		if tok.Type == TokenIdent && tok.Literal == "y" {
			y = tok
		}
	}
	if y.Pos.Line != 2 || y.Pos.Column != 1 {
		t.Errorf("y position = %d:%d, want 2:1", y.Pos.Line, y.Pos.Column)
	}
	if y.Pos.Offset != 6 {
		t.Errorf("y offset = %d, want 6", y.Pos.Offset)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	for _, input := range []string{"x = 1 $", "x ~ y", "!x"} {
		toks := tokenize(t, input)
		if toks[len(toks)-1].Type != TokenError {
			t.Errorf("Tokenize(%q): want lexical error, got %v", input, toks)
		}
	}
}
