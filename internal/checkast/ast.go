// Package checkast defines the minimal AST contract the checker driver
// consumes: statement and expression marker interfaces plus the concrete
// node shapes (assignments, calls, control flow, function literals,
// require calls) the checker actually pattern-matches against. It does not
// define a lexer, parser, or source-position model — those are explicitly
// out of scope; any front-end producing values that satisfy these
// interfaces can drive the checker.
package checkast

import "github.com/nxgtri/funxycheck/internal/diag"

// Node is the common supertype of every AST node the checker visits.
type Node interface {
	Span() diag.Span
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

type base struct {
	span diag.Span
}

func (b base) Span() diag.Span { return b.span }

func NewBase(s diag.Span) base { return base{span: s} }
