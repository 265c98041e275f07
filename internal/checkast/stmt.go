package checkast

import "github.com/nxgtri/funxycheck/internal/diag"

// Block is a sequence of statements making up a function body or chunk.
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(span diag.Span, stmts []Stmt) *Block { return &Block{base{span}, stmts} }

// LocalDecl declares one or more local variables, optionally with inline
// Kind annotations and initializer expressions.
type LocalDecl struct {
	base
	Names   []string
	Kinds   []Kind // parallel to Names; nil entries mean "no annotation"
	Values  []Expr
}

func (*LocalDecl) stmtNode() {}

// Assign assigns Values to the (already-bound) variables/index targets
// named by Targets.
type Assign struct {
	base
	Targets []Expr // NameExpr or IndexExpr
	Values  []Expr
}

func (*Assign) stmtNode() {}

// If is an if/elseif.../else chain.
type If struct {
	base
	Conds  []Expr
	Blocks []*Block
	Else   *Block // nil if there is no else clause
}

func (*If) stmtNode() {}

// While is a condition-first loop.
type While struct {
	base
	Cond Expr
	Body *Block
}

func (*While) stmtNode() {}

// NumericFor is a `for i = start, stop[, step] do ... end`-style loop. Per
// the later-generation behavior this module implements, the loop variable
// is always bound as an integer, never a plain (possibly fractional)
// number.
type NumericFor struct {
	base
	Var           string
	Start, Stop   Expr
	Step          Expr // nil if defaulted to 1
	Body          *Block
}

func (*NumericFor) stmtNode() {}

// GenericFor is a `for k, v in iter do ... end`-style loop.
type GenericFor struct {
	base
	Vars  []string
	Exprs []Expr
	Body  *Block
}

func (*GenericFor) stmtNode() {}

// FuncDecl declares a named function (sugar for an Assign of a FuncExpr,
// kept distinct because it commonly carries a method receiver).
type FuncDecl struct {
	base
	Name     string
	Receiver string // empty if this is not a method
	Func     *FuncExpr
}

func (*FuncDecl) stmtNode() {}

// Return returns zero or more values from the enclosing function.
type Return struct {
	base
	Values []Expr
}

func (*Return) stmtNode() {}

// ExprStmt is a statement consisting of a single (typically call)
// expression evaluated for effect.
type ExprStmt struct {
	base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// Assume is an explicit `::assume name: Kind` annotation statement that
// force-overwrites a variable's tracked type without a compatibility
// check against what the checker already inferred.
type Assume struct {
	base
	Name string
	Kind Kind
}

func (*Assume) stmtNode() {}
