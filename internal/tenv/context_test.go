package tenv

import (
	"testing"

	"github.com/nxgtri/funxycheck/internal/types"
)

func TestContextTVarBounds(t *testing.T) {
	ctx := NewContext()

	// idempotency of bounds
	v1 := ctx.GenTVar()
	if err := ctx.AssertTVarSub(v1, types.TInt(types.NumbersInt())); err != nil {
		t.Fatalf("first bound should succeed: %v", err)
	}
	if err := ctx.AssertTVarSub(v1, types.TInt(types.NumbersInt())); err != nil {
		t.Fatalf("repeating the same bound should succeed: %v", err)
	}
	if err := ctx.AssertTVarSub(v1, types.TStr(types.StringsAll())); err == nil {
		t.Fatalf("conflicting bound should fail")
	}

	// empty bounds: lb & ub disjoint
	v2 := ctx.GenTVar()
	if err := ctx.AssertTVarSub(v2, types.TInt(types.NumbersInt())); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ctx.AssertTVarSup(v2, types.TStr(types.StringsAll())); err == nil {
		t.Fatalf("string lower bound against integer upper bound should fail")
	}
}

func TestContextTVarSubTVarSwapsBounds(t *testing.T) {
	ctx := NewContext()
	v1 := ctx.GenTVar()
	v2 := ctx.GenTVar()
	if err := ctx.AssertTVarSubTVar(v1, v2); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ctx.AssertTVarSub(v2, types.TStr(types.StringsAll())); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ctx.AssertTVarSub(v1, types.TInt(types.NumbersInt())); err == nil {
		t.Fatalf("v1 <: v2 <: string should forbid v1 <: integer")
	}
}

func TestContextMarkSolverTrueFalse(t *testing.T) {
	ctx := NewContext()
	m := ctx.GenMark()
	if err := ctx.AssertMarkTrue(m); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ctx.AssertMarkFalse(m); err == nil {
		t.Fatalf("a mark already asserted true cannot be asserted false")
	}
}

func TestClassTableTransitiveSubclass(t *testing.T) {
	ct := NewClassTable()
	base := types.NewClass("Base")
	mid := types.NewClass("Mid")
	leaf := types.NewClass("Leaf")
	ct.Declare(mid, base)
	ct.Declare(leaf, mid)
	if !ct.IsSubclassOf(leaf, base) {
		t.Fatalf("Leaf should transitively be a subclass of Base")
	}
	if ct.IsSubclassOf(base, leaf) {
		t.Fatalf("Base should not be a subclass of Leaf")
	}
}
