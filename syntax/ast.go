package syntax

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for Skylark
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// Ident represents an identifier reference.
type Ident struct {
	SpanVal Span
	Name    string
}

func (n *Ident) Span() Span { return n.SpanVal }
func (n *Ident) node()      {}
func (n *Ident) expr()      {}

// IntLit represents an integer literal.
type IntLit struct {
	SpanVal Span
	Raw     string // source text: "0x1F", "007"
	Value   int64
}

func (n *IntLit) Span() Span { return n.SpanVal }
func (n *IntLit) node()      {}
func (n *IntLit) expr()      {}

// StringLit represents a string literal. Value holds the decoded byte
// sequence; it is not assumed to be valid UTF-8 since escape processing may
// produce arbitrary binary content.
type StringLit struct {
	SpanVal Span
	Value   string
}

func (n *StringLit) Span() Span { return n.SpanVal }
func (n *StringLit) node()      {}
func (n *StringLit) expr()      {}

// ListExpr represents a list literal [a, b, c].
type ListExpr struct {
	SpanVal  Span
	Elements []Expr
}

func (n *ListExpr) Span() Span { return n.SpanVal }
func (n *ListExpr) node()      {}
func (n *ListExpr) expr()      {}

// DictEntry is one key: value pair in a dictionary literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictExpr represents a dictionary literal {k: v, ...}.
type DictExpr struct {
	SpanVal Span
	Entries []DictEntry
}

func (n *DictExpr) Span() Span { return n.SpanVal }
func (n *DictExpr) node()      {}
func (n *DictExpr) expr()      {}

// CompClause is one qualifier inside a comprehension: either a ForClause or
// an IfClause, applied left-to-right.
type CompClause interface {
	Node
	compClause()
}

// ForClause is a 'for vars in x' comprehension qualifier.
type ForClause struct {
	SpanVal Span
	Vars    Expr // Ident or TupleExpr of targets
	X       Expr
}

func (n *ForClause) Span() Span  { return n.SpanVal }
func (n *ForClause) node()       {}
func (n *ForClause) compClause() {}

// IfClause is an 'if cond' comprehension qualifier.
type IfClause struct {
	SpanVal Span
	Cond    Expr
}

func (n *IfClause) Span() Span  { return n.SpanVal }
func (n *IfClause) node()       {}
func (n *IfClause) compClause() {}

// Comprehension represents a list or dictionary comprehension.
// For a list comprehension Body is the element expression and Key is nil;
// for a dictionary comprehension Key and Body are the key and value.
type Comprehension struct {
	SpanVal Span
	Curly   bool // {…} dict comprehension rather than […] list comprehension
	Key     Expr // nil unless Curly
	Body    Expr
	Clauses []CompClause
}

func (n *Comprehension) Span() Span { return n.SpanVal }
func (n *Comprehension) node()      {}
func (n *Comprehension) expr()      {}

// TupleExpr represents a tuple, parenthesized or naked.
type TupleExpr struct {
	SpanVal  Span
	Elements []Expr
}

func (n *TupleExpr) Span() Span { return n.SpanVal }
func (n *TupleExpr) node()      {}
func (n *TupleExpr) expr()      {}

// ParenExpr represents a parenthesized sub-expression (x) that is not a
// tuple: no trailing comma was present.
type ParenExpr struct {
	SpanVal Span
	X       Expr
}

func (n *ParenExpr) Span() Span { return n.SpanVal }
func (n *ParenExpr) node()      {}
func (n *ParenExpr) expr()      {}

// CondExpr represents a conditional expression: True if Cond else False.
// The two branches are distinct owned sub-expressions.
type CondExpr struct {
	SpanVal Span
	Cond    Expr
	True    Expr
	False   Expr
}

func (n *CondExpr) Span() Span { return n.SpanVal }
func (n *CondExpr) node()      {}
func (n *CondExpr) expr()      {}

// UnaryExpr represents a prefix unary expression: -x or not x.
type UnaryExpr struct {
	SpanVal Span
	Op      TokenType // TokenMinus or TokenNot
	X       Expr
}

func (n *UnaryExpr) Span() Span { return n.SpanVal }
func (n *UnaryExpr) node()      {}
func (n *UnaryExpr) expr()      {}

// BinaryExpr represents a binary expression. Op is one of or, and, ==, !=,
// <, >, <=, >=, in, not in, |, &, +, -, *, /, //, %.
type BinaryExpr struct {
	SpanVal Span
	Op      TokenType
	X       Expr
	Y       Expr
}

func (n *BinaryExpr) Span() Span { return n.SpanVal }
func (n *BinaryExpr) node()      {}
func (n *BinaryExpr) expr()      {}

// DotExpr represents attribute access: x.name.
type DotExpr struct {
	SpanVal Span
	X       Expr
	Name    *Ident
}

func (n *DotExpr) Span() Span { return n.SpanVal }
func (n *DotExpr) node()      {}
func (n *DotExpr) expr()      {}

// Arg is one argument in a call: positional, name=value, *args or **kwargs.
type Arg struct {
	Star  string // "", "*" or "**"
	Name  *Ident // nil unless a name=value argument
	Value Expr
}

// CallExpr represents a call: x(args).
type CallExpr struct {
	SpanVal Span
	X       Expr
	Args    []Arg
}

func (n *CallExpr) Span() Span { return n.SpanVal }
func (n *CallExpr) node()      {}
func (n *CallExpr) expr()      {}

// IndexExpr represents subscription: x[i].
type IndexExpr struct {
	SpanVal Span
	X       Expr
	Index   Expr
}

func (n *IndexExpr) Span() Span { return n.SpanVal }
func (n *IndexExpr) node()      {}
func (n *IndexExpr) expr()      {}

// SliceExpr represents a slice suffix: x[lo:hi] or x[lo:hi:step].
// Any of Lo, Hi, Step may be nil.
type SliceExpr struct {
	SpanVal Span
	X       Expr
	Lo      Expr
	Hi      Expr
	Step    Expr
}

func (n *SliceExpr) Span() Span { return n.SpanVal }
func (n *SliceExpr) node()      {}
func (n *SliceExpr) expr()      {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	SpanVal Span
	X       Expr
}

func (n *ExprStmt) Span() Span { return n.SpanVal }
func (n *ExprStmt) node()      {}
func (n *ExprStmt) stmt()      {}

// AssignStmt represents an assignment. Op is TokenEq or one of the
// augmented forms += -= *= /= //= %=.
type AssignStmt struct {
	SpanVal Span
	Op      TokenType
	LHS     Expr
	RHS     Expr
}

func (n *AssignStmt) Span() Span { return n.SpanVal }
func (n *AssignStmt) node()      {}
func (n *AssignStmt) stmt()      {}

// ReturnStmt represents a return statement. Result is nil for a bare return.
type ReturnStmt struct {
	SpanVal Span
	Result  Expr
}

func (n *ReturnStmt) Span() Span { return n.SpanVal }
func (n *ReturnStmt) node()      {}
func (n *ReturnStmt) stmt()      {}

// BranchStmt represents break, continue or pass.
type BranchStmt struct {
	SpanVal Span
	Token   TokenType // TokenBreak, TokenContinue or TokenPass
}

func (n *BranchStmt) Span() Span { return n.SpanVal }
func (n *BranchStmt) node()      {}
func (n *BranchStmt) stmt()      {}

// LoadBinding is one loaded symbol: an original name string, optionally
// bound to a local alias (alias = "name").
type LoadBinding struct {
	Alias *Ident     // nil when unaliased
	Sym   *StringLit // the quoted original name
}

// LoadStmt represents load("module", "a", b="c").
type LoadStmt struct {
	SpanVal  Span
	Module   *StringLit
	Bindings []LoadBinding
}

func (n *LoadStmt) Span() Span { return n.SpanVal }
func (n *LoadStmt) node()      {}
func (n *LoadStmt) stmt()      {}

// IfClauseStmt is one condition/suite pair of an if/elif chain.
type IfClauseStmt struct {
	SpanVal Span
	Cond    Expr
	Body    []Stmt
}

func (n *IfClauseStmt) Span() Span { return n.SpanVal }
func (n *IfClauseStmt) node()      {}

// IfStmt represents an if/elif*/else chain: ordered condition/suite pairs
// plus an optional trailing else suite. All clauses are recorded as ordered
// alternatives; which one runs is the evaluator's concern.
type IfStmt struct {
	SpanVal Span
	Clauses []*IfClauseStmt
	Else    []Stmt // nil when no else suite
}

func (n *IfStmt) Span() Span { return n.SpanVal }
func (n *IfStmt) node()      {}
func (n *IfStmt) stmt()      {}

// ForStmt represents a for loop. Vars is an Ident or a TupleExpr of
// loop-variable targets.
type ForStmt struct {
	SpanVal Span
	Vars    Expr
	X       Expr
	Body    []Stmt
}

func (n *ForStmt) Span() Span { return n.SpanVal }
func (n *ForStmt) node()      {}
func (n *ForStmt) stmt()      {}

// Param is one function parameter: plain name, name with default, *name, or
// **name.
type Param struct {
	SpanVal Span
	Star    string // "", "*" or "**"
	Name    *Ident
	Default Expr // nil unless a defaulted parameter
}

func (n *Param) Span() Span { return n.SpanVal }
func (n *Param) node()      {}

// DefStmt represents a function definition.
type DefStmt struct {
	SpanVal Span
	Name    *Ident
	Params  []*Param
	Body    []Stmt
}

func (n *DefStmt) Span() Span { return n.SpanVal }
func (n *DefStmt) node()      {}
func (n *DefStmt) stmt()      {}

// ---------------------------------------------------------------------------
// Top-level structure
// ---------------------------------------------------------------------------

// File is the root of a parse: an ordered sequence of top-level statements.
type File struct {
	SpanVal Span
	Path    string // logical source name, diagnostics only
	Stmts   []Stmt
}

func (n *File) Span() Span { return n.SpanVal }
func (n *File) node()      {}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// MakeSpan creates a span from start and end positions.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}
