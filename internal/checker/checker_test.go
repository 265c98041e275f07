package checker

import (
	"testing"

	"github.com/nxgtri/funxycheck/internal/checkast"
	"github.com/nxgtri/funxycheck/internal/diag"
	"github.com/nxgtri/funxycheck/internal/tenv"
)

func newChecker() (*Checker, *diag.Collector) {
	env := tenv.NewEnv(tenv.NewContext())
	col := diag.NewCollector(false)
	return New(env, col, nil), col
}

func TestLocalDeclAnnotationMismatchReportsError(t *testing.T) {
	c, col := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"x"},
			Kinds:  []checkast.Kind{&checkast.KindName{Name: "String"}},
			Values: []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1}},
		},
	}}
	if err := c.CheckBlock(block); err == nil {
		t.Fatalf("expected checking to fail for an int initializer against a String annotation")
	}
	if !col.HasErrors() {
		t.Fatalf("expected at least one reported diagnostic")
	}
}

func TestLocalDeclAnnotationMatchSucceeds(t *testing.T) {
	c, col := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"x"},
			Kinds:  []checkast.Kind{&checkast.KindName{Name: "Integer"}},
			Values: []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1}},
		},
	}}
	if err := c.CheckBlock(block); err != nil {
		t.Fatalf("unexpected failure: %v (diagnostics: %v)", err, col.Errors())
	}
	if col.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", col.Errors())
	}
}

func TestNumericForBindsLoopVarAsInteger(t *testing.T) {
	c, col := newChecker()
	// for i = 1, 10 do local y: Integer = i end
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.NumericFor{
			Var:   "i",
			Start: &checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1},
			Stop:  &checkast.LiteralExpr{Kind: checkast.LitInt, Int: 10},
			Body: &checkast.Block{Stmts: []checkast.Stmt{
				&checkast.LocalDecl{
					Names:  []string{"y"},
					Kinds:  []checkast.Kind{&checkast.KindName{Name: "Integer"}},
					Values: []checkast.Expr{&checkast.NameExpr{Name: "i"}},
				},
			}},
		},
	}}
	if err := c.CheckBlock(block); err != nil {
		t.Fatalf("unexpected failure: %v (diagnostics: %v)", err, col.Errors())
	}
}

func TestNumericForRejectsNonNumericBound(t *testing.T) {
	c, _ := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.NumericFor{
			Var:   "i",
			Start: &checkast.LiteralExpr{Kind: checkast.LitString, Str: "nope"},
			Stop:  &checkast.LiteralExpr{Kind: checkast.LitInt, Int: 10},
			Body:  &checkast.Block{},
		},
	}}
	if err := c.CheckBlock(block); err == nil {
		t.Fatalf("expected a non-numeric for-loop bound to fail")
	}
}

// A non-vararg function reports no Var tail in its signature, and a vararg
// function with that function nested inside it still checks cleanly, each
// FuncExpr getting its own frame rather than merging with an enclosing one.
func TestNestedFunctionGetsOwnFuncSignature(t *testing.T) {
	c, col := newChecker()
	inner := &checkast.FuncExpr{
		Params: nil,
		Vararg: false,
		Body:   &checkast.Block{},
	}
	outer := &checkast.FuncExpr{
		Params: nil,
		Vararg: true,
		Body: &checkast.Block{Stmts: []checkast.Stmt{
			&checkast.LocalDecl{
				Names:  []string{"f"},
				Values: []checkast.Expr{inner},
			},
		}},
	}
	innerTy, err := c.visitExpr(inner)
	if err != nil {
		t.Fatalf("unexpected failure checking inner func: %v", err)
	}
	innerFns, ok := innerTy.Functions()
	if !ok {
		t.Fatalf("expected a function type, got %s", innerTy)
	}
	sig, ok := innerFns.SoleSignature()
	if !ok || sig.Args.Var != nil {
		t.Fatalf("expected the non-vararg inner function to have no variadic tail, got %+v", sig)
	}

	block := &checkast.Block{Stmts: []checkast.Stmt{&checkast.ExprStmt{X: outer}}}
	if err := c.CheckBlock(block); err != nil {
		t.Fatalf("unexpected failure: %v (diagnostics: %v)", err, col.Errors())
	}
}

func TestAssignRejectsIncompatibleType(t *testing.T) {
	c, _ := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"x"},
			Kinds:  []checkast.Kind{&checkast.KindName{Name: "Integer"}},
			Values: []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1}},
		},
		&checkast.Assign{
			Targets: []checkast.Expr{&checkast.NameExpr{Name: "x"}},
			Values:  []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitString, Str: "oops"}},
		},
	}}
	if err := c.CheckBlock(block); err == nil {
		t.Fatalf("expected reassigning a String to an Integer-typed local to fail")
	}
}

func TestArithmeticOnNonNumericOperandFails(t *testing.T) {
	c, _ := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.ExprStmt{X: &checkast.BinOpExpr{
			Op:    checkast.OpAdd,
			Left:  &checkast.LiteralExpr{Kind: checkast.LitString, Str: "a"},
			Right: &checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1},
		}},
	}}
	if err := c.CheckBlock(block); err == nil {
		t.Fatalf("expected string + int to fail")
	}
}

func TestRequireWithoutLoaderFails(t *testing.T) {
	c, _ := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"m"},
			Values: []checkast.Expr{&checkast.RequireExpr{Path: "some.module"}},
		},
	}}
	if err := c.CheckBlock(block); err == nil {
		t.Fatalf("expected require() with no configured ModuleLoader to fail")
	}
}

func TestTableConstructorAndIndexRoundtrip(t *testing.T) {
	c, col := newChecker()
	block := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names: []string{"t"},
			Values: []checkast.Expr{&checkast.TableExpr{Fields: []checkast.TableField{
				{Key: &checkast.LiteralExpr{Kind: checkast.LitString, Str: "name"}, Value: &checkast.LiteralExpr{Kind: checkast.LitString, Str: "x"}},
			}}},
		},
		&checkast.LocalDecl{
			Names: []string{"n"},
			Kinds: []checkast.Kind{&checkast.KindName{Name: "String"}},
			Values: []checkast.Expr{&checkast.IndexExpr{
				Table: &checkast.NameExpr{Name: "t"},
				Index: &checkast.LiteralExpr{Kind: checkast.LitString, Str: "name"},
			}},
		},
	}}
	if err := c.CheckBlock(block); err != nil {
		t.Fatalf("unexpected failure: %v (diagnostics: %v)", err, col.Errors())
	}
}
