package syntax

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Parser: Recursive descent parser for Skylark syntax
// ---------------------------------------------------------------------------

var log = commonlog.GetLogger("skylark.syntax")

// SyntaxError describes the first lexical or structural violation found in
// a parse. No partial tree accompanies it.
type SyntaxError struct {
	Filename string
	Pos      Position
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser parses Skylark source code into an AST. It holds no state beyond
// the token cursor and its call stack; parsing is single-pass.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	filename  string
	err       *SyntaxError
	maxDepth  int
	depth     int
}

// NewParser creates a new parser for the given source.
func NewParser(filename string, src []byte, opts *Options) *Parser {
	o := opts.withDefaults()
	p := &Parser{
		lexer:    NewLexer(filename, src, opts),
		filename: filename,
		maxDepth: o.MaxParseDepth,
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole file and returns its AST, or the first error
// encountered; it never returns a partially built tree.
//
// Comparison operators are strictly left-associative binary: a < b < c is
// (a < b) < c, with no Python-style chained-comparison semantics.
func Parse(filename string, src []byte, opts *Options) (*File, error) {
	log.Debugf("parsing %s (%d bytes)", filename, len(src))
	p := NewParser(filename, src, opts)

	f := &File{Path: filename}
	start := p.curToken.Pos

	for !p.curTokenIs(TokenEOF) {
		if p.err != nil {
			return nil, p.fail()
		}
		if p.curTokenIs(TokenNewline) {
			p.nextToken()
			continue
		}
		p.parseStmt(&f.Stmts)
	}
	if p.err != nil {
		return nil, p.fail()
	}

	f.SpanVal = MakeSpan(start, p.curToken.Pos)
	return f, nil
}

// ParseExpr parses a single expression (possibly a naked tuple) that spans
// the whole input.
func ParseExpr(filename string, src []byte, opts *Options) (Expr, error) {
	p := NewParser(filename, src, opts)
	x := p.parseExprList()
	if p.err != nil {
		return nil, p.fail()
	}
	if p.curTokenIs(TokenNewline) {
		p.nextToken()
	}
	if !p.curTokenIs(TokenEOF) {
		p.errorf(p.curToken.Pos, "unexpected %s after expression", p.curToken)
		return nil, p.fail()
	}
	return x, nil
}

// ---------------------------------------------------------------------------
// Cursor helpers
// ---------------------------------------------------------------------------

// nextToken advances to the next token. The first lexical error wins over
// any later parse error.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	if p.peekToken.Type == TokenError && p.err == nil {
		p.err = &SyntaxError{Filename: p.filename, Pos: p.peekToken.Pos, Msg: p.peekToken.Literal}
	}
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expect advances if the current token matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.curToken.Pos, "expected %s, got %s", t, p.curToken.Type)
	return false
}

// errorf records the first parse error; later ones are discarded since the
// pass aborts at the first violation.
func (p *Parser) errorf(pos Position, format string, args ...interface{}) {
	if p.err == nil {
		p.err = &SyntaxError{Filename: p.filename, Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

// fail traces and returns the recorded error.
func (p *Parser) fail() error {
	log.Debugf("parse of %s failed at %d:%d: %s",
		p.filename, p.err.Pos.Line, p.err.Pos.Column, p.err.Msg)
	return p.err
}

// enter guards nesting depth; recursion is bounded by input nesting up to
// the configured cap.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorf(p.curToken.Pos, "exceeded maximum parse depth (%d)", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// ---------------------------------------------------------------------------
// Statement parsing
// ---------------------------------------------------------------------------

// parseStmt appends one compound statement, or every small statement of one
// simple-statement line, to list.
func (p *Parser) parseStmt(list *[]Stmt) {
	switch p.curToken.Type {
	case TokenDef:
		if st := p.parseDefStmt(); st != nil {
			*list = append(*list, st)
		}
	case TokenIf:
		if st := p.parseIfStmt(); st != nil {
			*list = append(*list, st)
		}
	case TokenFor:
		if st := p.parseForStmt(); st != nil {
			*list = append(*list, st)
		}
	default:
		p.parseSimpleLine(list)
	}
}

// parseSimpleLine parses one logical line of ';'-separated small statements
// terminated by NEWLINE (or end of input).
func (p *Parser) parseSimpleLine(list *[]Stmt) {
	for {
		st := p.parseSmallStmt()
		if st == nil {
			return
		}
		*list = append(*list, st)

		if !p.curTokenIs(TokenSemi) {
			break
		}
		p.nextToken()
		if p.curTokenIs(TokenNewline) || p.curTokenIs(TokenEOF) {
			break // trailing ';'
		}
	}

	if p.curTokenIs(TokenNewline) {
		p.nextToken()
		return
	}
	if p.curTokenIs(TokenEOF) {
		return
	}
	p.errorf(p.curToken.Pos, "expected NEWLINE or ';' after statement, got %s", p.curToken.Type)
}

func (p *Parser) parseSmallStmt() Stmt {
	pos := p.curToken.Pos

	switch p.curToken.Type {
	case TokenReturn:
		end := p.curToken.End
		p.nextToken()
		var result Expr
		if canStartExpr(p.curToken.Type) {
			result = p.parseExprList()
			if result == nil {
				return nil
			}
			end = result.Span().End
		}
		return &ReturnStmt{SpanVal: MakeSpan(pos, end), Result: result}

	case TokenBreak, TokenContinue, TokenPass:
		t := p.curToken.Type
		end := p.curToken.End
		p.nextToken()
		return &BranchStmt{SpanVal: MakeSpan(pos, end), Token: t}

	case TokenLoad:
		return p.parseLoadStmt()

	default:
		lhs := p.parseExprList()
		if lhs == nil {
			return nil
		}

		switch op := p.curToken.Type; op {
		case TokenEq, TokenPlusEq, TokenMinusEq, TokenStarEq,
			TokenSlashEq, TokenSlashSlashEq, TokenPercentEq:
			p.nextToken()
			rhs := p.parseExprList()
			if rhs == nil {
				return nil
			}
			if !p.checkAssignable(lhs, op != TokenEq) {
				return nil
			}
			return &AssignStmt{
				SpanVal: MakeSpan(pos, rhs.Span().End),
				Op:      op,
				LHS:     lhs,
				RHS:     rhs,
			}
		}

		return &ExprStmt{SpanVal: lhs.Span(), X: lhs}
	}
}

// checkAssignable reports whether e may appear as an assignment target.
// Augmented assignments additionally reject list/tuple targets.
func (p *Parser) checkAssignable(e Expr, augmented bool) bool {
	switch t := e.(type) {
	case *Ident, *DotExpr, *IndexExpr, *SliceExpr:
		return true
	case *ParenExpr:
		return p.checkAssignable(t.X, augmented)
	case *TupleExpr:
		if augmented {
			p.errorf(e.Span().Start, "cannot use a tuple as augmented assignment target")
			return false
		}
		for _, el := range t.Elements {
			if !p.checkAssignable(el, augmented) {
				return false
			}
		}
		return true
	case *ListExpr:
		if augmented {
			p.errorf(e.Span().Start, "cannot use a list as augmented assignment target")
			return false
		}
		for _, el := range t.Elements {
			if !p.checkAssignable(el, augmented) {
				return false
			}
		}
		return true
	default:
		p.errorf(e.Span().Start, "cannot assign to this expression")
		return false
	}
}

// parseLoadStmt parses load("module", "a", alias="b", ...). The enclosing
// parentheses are mandatory and at least one symbol must be imported.
func (p *Parser) parseLoadStmt() Stmt {
	pos := p.curToken.Pos
	p.nextToken() // consume 'load'

	if !p.expect(TokenLParen) {
		return nil
	}

	if !p.curTokenIs(TokenString) {
		p.errorf(p.curToken.Pos, "load: expected module path string, got %s", p.curToken.Type)
		return nil
	}
	module := &StringLit{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Value: p.curToken.Literal}
	p.nextToken()

	var bindings []LoadBinding
	for p.curTokenIs(TokenComma) {
		p.nextToken()
		if p.curTokenIs(TokenRParen) {
			break // trailing comma
		}

		var alias *Ident
		if p.curTokenIs(TokenIdent) {
			alias = &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
			p.nextToken()
			if !p.expect(TokenEq) {
				return nil
			}
		}

		if !p.curTokenIs(TokenString) {
			p.errorf(p.curToken.Pos, "load: expected symbol string, got %s", p.curToken.Type)
			return nil
		}
		sym := &StringLit{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Value: p.curToken.Literal}
		p.nextToken()

		bindings = append(bindings, LoadBinding{Alias: alias, Sym: sym})
	}

	end := p.curToken.End
	if !p.expect(TokenRParen) {
		return nil
	}
	if len(bindings) == 0 {
		p.errorf(pos, "load statement must import at least one symbol")
		return nil
	}

	return &LoadStmt{SpanVal: MakeSpan(pos, end), Module: module, Bindings: bindings}
}

// parseIfStmt parses an if/elif*/else chain as ordered condition/suite
// pairs plus an optional trailing else suite.
func (p *Parser) parseIfStmt() Stmt {
	pos := p.curToken.Pos
	st := &IfStmt{}

	for {
		clausePos := p.curToken.Pos
		p.nextToken() // consume 'if' or 'elif'

		cond := p.parseTest()
		if cond == nil {
			return nil
		}
		body := p.parseSuite()
		if body == nil {
			return nil
		}
		st.Clauses = append(st.Clauses, &IfClauseStmt{
			SpanVal: MakeSpan(clausePos, p.curToken.Pos),
			Cond:    cond,
			Body:    body,
		})

		if !p.curTokenIs(TokenElif) {
			break
		}
	}

	if p.curTokenIs(TokenElse) {
		p.nextToken()
		st.Else = p.parseSuite()
		if st.Else == nil {
			return nil
		}
	}

	st.SpanVal = MakeSpan(pos, p.curToken.Pos)
	return st
}

// parseForStmt parses for vars in x: suite.
func (p *Parser) parseForStmt() Stmt {
	pos := p.curToken.Pos
	p.nextToken() // consume 'for'

	vars := p.parseForTargets()
	if vars == nil {
		return nil
	}
	if !p.expect(TokenIn) {
		return nil
	}
	x := p.parseTest()
	if x == nil {
		return nil
	}
	body := p.parseSuite()
	if body == nil {
		return nil
	}

	return &ForStmt{SpanVal: MakeSpan(pos, p.curToken.Pos), Vars: vars, X: x, Body: body}
}

// parseDefStmt parses def name(params): suite.
func (p *Parser) parseDefStmt() Stmt {
	pos := p.curToken.Pos
	p.nextToken() // consume 'def'

	if !p.curTokenIs(TokenIdent) {
		p.errorf(p.curToken.Pos, "expected function name, got %s", p.curToken.Type)
		return nil
	}
	name := &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
	p.nextToken()

	if !p.expect(TokenLParen) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	if !p.expect(TokenRParen) {
		return nil
	}

	body := p.parseSuite()
	if body == nil {
		return nil
	}

	return &DefStmt{SpanVal: MakeSpan(pos, p.curToken.Pos), Name: name, Params: params, Body: body}
}

// parseParams parses a def parameter list, enforcing the ordering
// plain-or-defaulted names, then *name, then **name last, and rejecting a
// trailing comma after a variadic parameter.
func (p *Parser) parseParams() ([]*Param, bool) {
	var params []*Param
	seenDefault := false
	seenStar := false
	seenStarStar := false
	lastVariadic := false

	for !p.curTokenIs(TokenRParen) {
		if p.err != nil {
			return nil, false
		}
		pos := p.curToken.Pos

		switch p.curToken.Type {
		case TokenStar:
			if seenStar || seenStarStar {
				p.errorf(pos, "multiple variadic positional parameters")
				return nil, false
			}
			p.nextToken()
			name := p.parseParamName()
			if name == nil {
				return nil, false
			}
			params = append(params, &Param{SpanVal: MakeSpan(pos, name.SpanVal.End), Star: "*", Name: name})
			seenStar = true
			lastVariadic = true

		case TokenStarStar:
			if seenStarStar {
				p.errorf(pos, "multiple variadic keyword parameters")
				return nil, false
			}
			p.nextToken()
			name := p.parseParamName()
			if name == nil {
				return nil, false
			}
			params = append(params, &Param{SpanVal: MakeSpan(pos, name.SpanVal.End), Star: "**", Name: name})
			seenStarStar = true
			lastVariadic = true

		case TokenIdent:
			if seenStarStar {
				p.errorf(pos, "parameter %s follows variadic keyword parameter", p.curToken.Literal)
				return nil, false
			}
			name := p.parseParamName()
			param := &Param{SpanVal: MakeSpan(pos, name.SpanVal.End), Name: name}
			if p.curTokenIs(TokenEq) {
				p.nextToken()
				def := p.parseTest()
				if def == nil {
					return nil, false
				}
				param.Default = def
				param.SpanVal.End = def.Span().End
				seenDefault = true
			} else {
				if seenStar {
					p.errorf(pos, "positional parameter %s follows variadic parameter", name.Name)
					return nil, false
				}
				if seenDefault {
					p.errorf(pos, "non-default parameter %s follows a defaulted parameter", name.Name)
					return nil, false
				}
			}
			params = append(params, param)
			lastVariadic = false

		default:
			p.errorf(pos, "expected parameter, got %s", p.curToken.Type)
			return nil, false
		}

		if !p.curTokenIs(TokenComma) {
			break
		}
		p.nextToken()
		if p.curTokenIs(TokenRParen) {
			if lastVariadic {
				p.errorf(p.curToken.Pos, "trailing comma after variadic parameter")
				return nil, false
			}
			break
		}
	}

	return params, true
}

func (p *Parser) parseParamName() *Ident {
	if !p.curTokenIs(TokenIdent) {
		p.errorf(p.curToken.Pos, "expected parameter name, got %s", p.curToken.Type)
		return nil
	}
	name := &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
	p.nextToken()
	return name
}

// parseSuite parses a suite after the ':' of a compound statement: either
// NEWLINE INDENT statements DEDENT, or the remainder of the logical line as
// ';'-separated small statements.
func (p *Parser) parseSuite() []Stmt {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	if !p.expect(TokenColon) {
		return nil
	}

	if p.curTokenIs(TokenNewline) {
		p.nextToken()
		if !p.curTokenIs(TokenIndent) {
			p.errorf(p.curToken.Pos, "expected an indented block, got %s", p.curToken.Type)
			return nil
		}
		p.nextToken()

		var stmts []Stmt
		for !p.curTokenIs(TokenDedent) && !p.curTokenIs(TokenEOF) {
			if p.err != nil {
				return nil
			}
			if p.curTokenIs(TokenNewline) {
				p.nextToken()
				continue
			}
			p.parseStmt(&stmts)
		}
		if !p.expect(TokenDedent) {
			return nil
		}
		if p.err != nil {
			return nil
		}
		return stmts
	}

	// Inline suite: one line of small statements.
	var stmts []Stmt
	p.parseSimpleLine(&stmts)
	if p.err != nil {
		return nil
	}
	if len(stmts) == 0 {
		p.errorf(p.curToken.Pos, "expected statement after ':'")
		return nil
	}
	return stmts
}

// ---------------------------------------------------------------------------
// Expression parsing (precedence climbing)
// ---------------------------------------------------------------------------

// Binding strength of the binary operators, weakest to strongest. All
// levels are left-associative.
const (
	precOr    = 1
	precAnd   = 2
	precCmp   = 3
	precBitOr = 4
)

var binaryPrec = map[TokenType]int{
	TokenOr:         precOr,
	TokenAnd:        precAnd,
	TokenEqEq:       precCmp,
	TokenNe:         precCmp,
	TokenLt:         precCmp,
	TokenGt:         precCmp,
	TokenLe:         precCmp,
	TokenGe:         precCmp,
	TokenIn:         precCmp,
	TokenNotIn:      precCmp,
	TokenPipe:       precBitOr,
	TokenAmp:        5,
	TokenPlus:       6,
	TokenMinus:      6,
	TokenStar:       7,
	TokenSlash:      7,
	TokenSlashSlash: 7,
	TokenPercent:    7,
}

// canStartExpr reports whether t can begin an expression.
func canStartExpr(t TokenType) bool {
	switch t {
	case TokenInt, TokenString, TokenIdent, TokenLParen, TokenLBracket,
		TokenLBrace, TokenMinus, TokenNot:
		return true
	}
	return false
}

// parseExprList parses a test, or a naked tuple of tests: one trailing
// comma after a single expression still forms a one-tuple.
func (p *Parser) parseExprList() Expr {
	pos := p.curToken.Pos
	x := p.parseTest()
	if x == nil {
		return nil
	}
	if !p.curTokenIs(TokenComma) {
		return x
	}

	elems := []Expr{x}
	end := x.Span().End
	for p.curTokenIs(TokenComma) {
		end = p.curToken.End
		p.nextToken()
		if !canStartExpr(p.curToken.Type) {
			break
		}
		y := p.parseTest()
		if y == nil {
			return nil
		}
		elems = append(elems, y)
		end = y.Span().End
	}

	return &TupleExpr{SpanVal: MakeSpan(pos, end), Elements: elems}
}

// parseForTargets parses a loop-variable target list (for statements and
// comprehension for-clauses). Targets bind tighter than comparisons so the
// closing 'in' is not consumed, and must be assignable like any other
// binding target.
func (p *Parser) parseForTargets() Expr {
	pos := p.curToken.Pos
	x := p.parseBinary(precBitOr)
	if x == nil {
		return nil
	}
	if !p.curTokenIs(TokenComma) {
		if !p.checkAssignable(x, false) {
			return nil
		}
		return x
	}

	elems := []Expr{x}
	end := x.Span().End
	for p.curTokenIs(TokenComma) {
		end = p.curToken.End
		p.nextToken()
		if !canStartExpr(p.curToken.Type) {
			break
		}
		y := p.parseBinary(precBitOr)
		if y == nil {
			return nil
		}
		elems = append(elems, y)
		end = y.Span().End
	}

	targets := &TupleExpr{SpanVal: MakeSpan(pos, end), Elements: elems}
	if !p.checkAssignable(targets, false) {
		return nil
	}
	return targets
}

// parseTest parses an expression at conditional precedence:
// x if cond else alt, right-associated through the else branch.
func (p *Parser) parseTest() Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	x := p.parseBinary(precOr)
	if x == nil {
		return nil
	}

	if p.curTokenIs(TokenIf) {
		p.nextToken()
		cond := p.parseBinary(precOr)
		if cond == nil {
			return nil
		}
		if !p.expect(TokenElse) {
			return nil
		}
		alt := p.parseTest()
		if alt == nil {
			return nil
		}
		return &CondExpr{
			SpanVal: MakeSpan(x.Span().Start, alt.Span().End),
			Cond:    cond,
			True:    x,
			False:   alt,
		}
	}

	return x
}

// parseBinary parses binary expressions of at least minPrec binding
// strength. 'not in' is synthesized here from adjacent not/in tokens at
// operator position, forming a single membership-negation operator.
func (p *Parser) parseBinary(minPrec int) Expr {
	x := p.parseUnary()
	if x == nil {
		return nil
	}

	for {
		op := p.curToken.Type
		if op == TokenNot && p.peekTokenIs(TokenIn) {
			op = TokenNotIn
		}
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return x
		}

		if op == TokenNotIn {
			p.nextToken() // consume 'not'
		}
		p.nextToken() // consume the operator

		y := p.parseBinary(prec + 1)
		if y == nil {
			return nil
		}
		x = &BinaryExpr{
			SpanVal: MakeSpan(x.Span().Start, y.Span().End),
			Op:      op,
			X:       x,
			Y:       y,
		}
	}
}

// parseUnary parses prefix -x and not x, right-associated onto themselves.
func (p *Parser) parseUnary() Expr {
	if p.curTokenIs(TokenMinus) || p.curTokenIs(TokenNot) {
		if !p.enter() {
			return nil
		}
		defer p.leave()
		pos := p.curToken.Pos
		op := p.curToken.Type
		p.nextToken()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &UnaryExpr{SpanVal: MakeSpan(pos, x.Span().End), Op: op, X: x}
	}
	return p.parseSuffixed()
}

// parseSuffixed parses a primary operand followed by its postfix suffix
// chain: attribute access, calls, and subscripts, applied left-to-right.
func (p *Parser) parseSuffixed() Expr {
	x := p.parsePrimary()

	for x != nil {
		switch p.curToken.Type {
		case TokenDot:
			p.nextToken()
			if !p.curTokenIs(TokenIdent) {
				p.errorf(p.curToken.Pos, "expected attribute name after '.', got %s", p.curToken.Type)
				return nil
			}
			name := &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
			p.nextToken()
			x = &DotExpr{SpanVal: MakeSpan(x.Span().Start, name.SpanVal.End), X: x, Name: name}

		case TokenLParen:
			x = p.parseCall(x)

		case TokenLBracket:
			x = p.parseSubscript(x)

		default:
			return x
		}
	}
	return nil
}

// parseCall parses the (args) suffix: positional arguments, then name=value
// arguments, with *args and **kwargs permitted, **kwargs last.
func (p *Parser) parseCall(fn Expr) Expr {
	p.nextToken() // consume '('

	var args []Arg
	seenNamed := false
	seenStarStar := false

	for !p.curTokenIs(TokenRParen) {
		if p.err != nil {
			return nil
		}
		if seenStarStar {
			p.errorf(p.curToken.Pos, "argument follows **kwargs argument")
			return nil
		}

		var a Arg
		switch {
		case p.curTokenIs(TokenStar):
			p.nextToken()
			v := p.parseTest()
			if v == nil {
				return nil
			}
			a = Arg{Star: "*", Value: v}

		case p.curTokenIs(TokenStarStar):
			p.nextToken()
			v := p.parseTest()
			if v == nil {
				return nil
			}
			a = Arg{Star: "**", Value: v}
			seenStarStar = true

		case p.curTokenIs(TokenIdent) && p.peekTokenIs(TokenEq):
			name := &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
			p.nextToken()
			p.nextToken() // consume '='
			v := p.parseTest()
			if v == nil {
				return nil
			}
			a = Arg{Name: name, Value: v}
			seenNamed = true

		default:
			if seenNamed {
				p.errorf(p.curToken.Pos, "positional argument follows named argument")
				return nil
			}
			v := p.parseTest()
			if v == nil {
				return nil
			}
			a = Arg{Value: v}
		}
		args = append(args, a)

		if !p.curTokenIs(TokenComma) {
			break
		}
		p.nextToken()
	}

	end := p.curToken.End
	if !p.expect(TokenRParen) {
		return nil
	}
	return &CallExpr{SpanVal: MakeSpan(fn.Span().Start, end), X: fn, Args: args}
}

// parseSubscript parses the [...] suffix: x[i] indexing, or x[lo:hi] and
// x[lo:hi:step] slicing with every part optional.
func (p *Parser) parseSubscript(x Expr) Expr {
	p.nextToken() // consume '['

	if p.curTokenIs(TokenRBracket) {
		p.errorf(p.curToken.Pos, "expected expression or ':' in subscript")
		return nil
	}

	var lo, hi, step Expr
	if !p.curTokenIs(TokenColon) {
		lo = p.parseTest()
		if lo == nil {
			return nil
		}
		if p.curTokenIs(TokenRBracket) {
			end := p.curToken.End
			p.nextToken()
			return &IndexExpr{SpanVal: MakeSpan(x.Span().Start, end), X: x, Index: lo}
		}
	}

	if !p.expect(TokenColon) {
		return nil
	}
	if !p.curTokenIs(TokenColon) && !p.curTokenIs(TokenRBracket) {
		hi = p.parseTest()
		if hi == nil {
			return nil
		}
	}
	if p.curTokenIs(TokenColon) {
		p.nextToken()
		if !p.curTokenIs(TokenRBracket) {
			step = p.parseTest()
			if step == nil {
				return nil
			}
		}
	}

	end := p.curToken.End
	if !p.expect(TokenRBracket) {
		return nil
	}
	return &SliceExpr{SpanVal: MakeSpan(x.Span().Start, end), X: x, Lo: lo, Hi: hi, Step: step}
}

// parsePrimary parses primary operands.
func (p *Parser) parsePrimary() Expr {
	switch p.curToken.Type {
	case TokenInt:
		n := &IntLit{
			SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End),
			Raw:     p.curToken.Literal,
			Value:   p.curToken.Value,
		}
		p.nextToken()
		return n

	case TokenString:
		n := &StringLit{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Value: p.curToken.Literal}
		p.nextToken()
		return n

	case TokenIdent:
		n := &Ident{SpanVal: MakeSpan(p.curToken.Pos, p.curToken.End), Name: p.curToken.Literal}
		p.nextToken()
		return n

	case TokenLParen:
		return p.parseParenOrTuple()

	case TokenLBracket:
		return p.parseListOrComp()

	case TokenLBrace:
		return p.parseDictOrComp()

	default:
		p.errorf(p.curToken.Pos, "expected expression, got %s", p.curToken.Type)
		return nil
	}
}

// parseParenOrTuple disambiguates () empty tuple, (x) parenthesized
// expression, and (x,), (x, y), (x, y,) tuples.
func (p *Parser) parseParenOrTuple() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume '('

	if p.curTokenIs(TokenRParen) {
		end := p.curToken.End
		p.nextToken()
		return &TupleExpr{SpanVal: MakeSpan(pos, end)}
	}

	x := p.parseTest()
	if x == nil {
		return nil
	}

	if p.curTokenIs(TokenRParen) {
		end := p.curToken.End
		p.nextToken()
		return &ParenExpr{SpanVal: MakeSpan(pos, end), X: x}
	}

	elems := []Expr{x}
	for p.curTokenIs(TokenComma) {
		p.nextToken()
		if p.curTokenIs(TokenRParen) {
			break
		}
		y := p.parseTest()
		if y == nil {
			return nil
		}
		elems = append(elems, y)
	}

	end := p.curToken.End
	if !p.expect(TokenRParen) {
		return nil
	}
	return &TupleExpr{SpanVal: MakeSpan(pos, end), Elements: elems}
}

// parseListOrComp parses [..] list literals and [x for ...] comprehensions.
func (p *Parser) parseListOrComp() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume '['

	if p.curTokenIs(TokenRBracket) {
		end := p.curToken.End
		p.nextToken()
		return &ListExpr{SpanVal: MakeSpan(pos, end)}
	}

	first := p.parseTest()
	if first == nil {
		return nil
	}

	if p.curTokenIs(TokenFor) {
		clauses := p.parseCompClauses()
		if clauses == nil {
			return nil
		}
		end := p.curToken.End
		if !p.expect(TokenRBracket) {
			return nil
		}
		return &Comprehension{SpanVal: MakeSpan(pos, end), Body: first, Clauses: clauses}
	}

	elems := []Expr{first}
	for p.curTokenIs(TokenComma) {
		p.nextToken()
		if p.curTokenIs(TokenRBracket) {
			break
		}
		y := p.parseTest()
		if y == nil {
			return nil
		}
		elems = append(elems, y)
	}

	end := p.curToken.End
	if !p.expect(TokenRBracket) {
		return nil
	}
	return &ListExpr{SpanVal: MakeSpan(pos, end), Elements: elems}
}

// parseDictOrComp parses {..} dictionary literals and {k: v for ...}
// comprehensions.
func (p *Parser) parseDictOrComp() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume '{'

	if p.curTokenIs(TokenRBrace) {
		end := p.curToken.End
		p.nextToken()
		return &DictExpr{SpanVal: MakeSpan(pos, end)}
	}

	key := p.parseTest()
	if key == nil {
		return nil
	}
	if !p.expect(TokenColon) {
		return nil
	}
	value := p.parseTest()
	if value == nil {
		return nil
	}

	if p.curTokenIs(TokenFor) {
		clauses := p.parseCompClauses()
		if clauses == nil {
			return nil
		}
		end := p.curToken.End
		if !p.expect(TokenRBrace) {
			return nil
		}
		return &Comprehension{
			SpanVal: MakeSpan(pos, end),
			Curly:   true,
			Key:     key,
			Body:    value,
			Clauses: clauses,
		}
	}

	entries := []DictEntry{{Key: key, Value: value}}
	for p.curTokenIs(TokenComma) {
		p.nextToken()
		if p.curTokenIs(TokenRBrace) {
			break
		}
		k := p.parseTest()
		if k == nil {
			return nil
		}
		if !p.expect(TokenColon) {
			return nil
		}
		v := p.parseTest()
		if v == nil {
			return nil
		}
		entries = append(entries, DictEntry{Key: k, Value: v})
	}

	end := p.curToken.End
	if !p.expect(TokenRBrace) {
		return nil
	}
	return &DictExpr{SpanVal: MakeSpan(pos, end), Entries: entries}
}

// parseCompClauses parses the for/if qualifier sequence of a comprehension,
// applied left-to-right. The first clause is always a for-clause.
func (p *Parser) parseCompClauses() []CompClause {
	var clauses []CompClause
	for {
		switch p.curToken.Type {
		case TokenFor:
			pos := p.curToken.Pos
			p.nextToken()
			vars := p.parseForTargets()
			if vars == nil {
				return nil
			}
			if !p.expect(TokenIn) {
				return nil
			}
			x := p.parseBinary(precOr)
			if x == nil {
				return nil
			}
			clauses = append(clauses, &ForClause{
				SpanVal: MakeSpan(pos, x.Span().End),
				Vars:    vars,
				X:       x,
			})

		case TokenIf:
			pos := p.curToken.Pos
			p.nextToken()
			cond := p.parseBinary(precOr)
			if cond == nil {
				return nil
			}
			clauses = append(clauses, &IfClause{
				SpanVal: MakeSpan(pos, cond.Span().End),
				Cond:    cond,
			})

		default:
			return clauses
		}
	}
}
