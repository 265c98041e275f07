package orchestrator

import (
	"context"
	"testing"

	"github.com/nxgtri/funxycheck/internal/checkast"
)

func block(stmts ...checkast.Stmt) *checkast.Block {
	return &checkast.Block{Stmts: stmts}
}

func TestRunChecksEachFileIndependently(t *testing.T) {
	files := []File{
		{Path: "good.lang", Block: block(
			&checkast.LocalDecl{
				Names:  []string{"x"},
				Kinds:  []checkast.Kind{&checkast.KindName{Name: "Integer"}},
				Values: []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1}},
			},
		)},
		{Path: "bad.lang", Block: block(
			&checkast.LocalDecl{
				Names:  []string{"x"},
				Kinds:  []checkast.Kind{&checkast.KindName{Name: "String"}},
				Values: []checkast.Expr{&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 1}},
			},
		)},
	}

	results, err := Run(context.Background(), files, Options{})
	if err != nil {
		t.Fatalf("unexpected orchestration error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Path != "good.lang" || len(results[0].Diags) != 0 {
		t.Fatalf("expected good.lang to have no diagnostics, got %+v", results[0])
	}
	if results[1].Path != "bad.lang" || len(results[1].Diags) == 0 {
		t.Fatalf("expected bad.lang to have at least one diagnostic, got %+v", results[1])
	}
	if !HasErrors(results) {
		t.Fatalf("expected HasErrors to report true across the result set")
	}
}

func TestRunRespectsMaxConcurrency(t *testing.T) {
	var files []File
	for i := 0; i < 10; i++ {
		files = append(files, File{Path: "f.lang", Block: block()})
	}
	results, err := Run(context.Background(), files, Options{MaxConcurrency: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
}
