package constraints

import (
	"testing"

	"github.com/nxgtri/funxycheck/internal/types"
)

type noopCtx struct{}

func (noopCtx) AssertTVarSub(types.TVar, types.Ty) error       { return nil }
func (noopCtx) AssertTVarSup(types.TVar, types.Ty) error       { return nil }
func (noopCtx) AssertTVarEq(types.TVar, types.Ty) error        { return nil }
func (noopCtx) AssertTVarSubTVar(types.TVar, types.TVar) error { return nil }
func (noopCtx) AssertTVarEqTVar(types.TVar, types.TVar) error  { return nil }
func (noopCtx) ResolveTVar(types.TVar) (types.Ty, bool)        { return types.Ty{}, false }
func (noopCtx) IsSubclassOf(types.Class, types.Class) bool     { return false }
func (noopCtx) ResolveMark(types.Mark) (bool, bool)            { return false, false }
func (noopCtx) AssertMarkImply(types.Mark, types.Mark) error   { return nil }

func TestGenTVarProducesDistinctIncreasingVars(t *testing.T) {
	s := NewStore()
	a := s.GenTVar()
	b := s.GenTVar()
	if a == b {
		t.Fatalf("expected distinct tvars, got %v and %v", a, b)
	}
	last, ok := s.LastTVar()
	if !ok || last != b {
		t.Fatalf("expected LastTVar to report %v, got %v (ok=%v)", b, last, ok)
	}
}

func TestLastTVarFailsBeforeAnyGenerated(t *testing.T) {
	s := NewStore()
	if _, ok := s.LastTVar(); ok {
		t.Fatalf("expected LastTVar to fail before GenTVar is ever called")
	}
}

func TestAssertSubThenResolveLeavesVariableUnresolvedWithoutEqBound(t *testing.T) {
	s := NewStore()
	ctx := noopCtx{}
	v := s.GenTVar()
	if err := s.AssertSub(v, types.TInt(types.NumbersInt()), ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.ResolveTVar(v); ok {
		t.Fatalf("a <: bound alone should not resolve the variable")
	}
}

func TestAssertEqResolvesVariable(t *testing.T) {
	s := NewStore()
	ctx := noopCtx{}
	v := s.GenTVar()
	want := types.TIntLiterals(3, 4)
	if err := s.AssertEq(v, want, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := s.ResolveTVar(v)
	if !ok || !got.Equal(want) {
		t.Fatalf("expected resolved bound %v, got %v (ok=%v)", want, got, ok)
	}
}

func TestAssertSubTwiceWithDifferentBoundsConflicts(t *testing.T) {
	s := NewStore()
	ctx := noopCtx{}
	v := s.GenTVar()
	if err := s.AssertSub(v, types.TIntLiterals(3), ctx); err != nil {
		t.Fatalf("unexpected error on first bound: %v", err)
	}
	if err := s.AssertSub(v, types.TStrLiterals("x"), ctx); err == nil {
		t.Fatalf("expected conflicting non-trivial bounds to fail")
	}
}

func TestAssertSubAllowsWideningFromTrivialBound(t *testing.T) {
	s := NewStore()
	ctx := noopCtx{}
	v := s.GenTVar()
	if err := s.AssertSub(v, types.TNone(), ctx); err != nil {
		t.Fatalf("unexpected error asserting bottom: %v", err)
	}
	want := types.TIntLiterals(5)
	if err := s.AssertSub(v, want, ctx); err != nil {
		t.Fatalf("expected a trivial (bottom) bound to be freely overwritten: %v", err)
	}
	if b, ok := s.sub.GetBound(v); !ok || !b.Equal(want) {
		t.Fatalf("expected sub bound %v, got %v (ok=%v)", want, b, ok)
	}
}

func TestAssertSubTVarMergesUpperAndLowerTablesSymmetrically(t *testing.T) {
	s := NewStore()
	a := s.GenTVar()
	b := s.GenTVar()
	if err := s.AssertSubTVar(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.sub.Is(a, b) {
		t.Fatalf("expected a and b to share a partition in the upper-bound table")
	}
	if !s.sup.Is(b, a) {
		t.Fatalf("expected b and a to share a partition in the lower-bound table")
	}
}

func TestAssertSubTVarNoopWhenAlreadyKnownEqual(t *testing.T) {
	s := NewStore()
	a := s.GenTVar()
	b := s.GenTVar()
	if err := s.AssertEqTVar(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AssertSubTVar(a, b); err != nil {
		t.Fatalf("expected AssertSubTVar to short-circuit cleanly once eq already holds: %v", err)
	}
}

func TestAssertEqTVarLeavesSubSupTablesIndependent(t *testing.T) {
	s := NewStore()
	ctx := noopCtx{}
	a := s.GenTVar()
	b := s.GenTVar()
	if err := s.AssertSub(a, types.TIntLiterals(1), ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AssertEqTVar(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.sub.Is(a, b) {
		t.Fatalf("merging the eq table should not also merge the sub table")
	}
}

func TestConstraintsAddRelationKeepsTheNonTrivialBoundOnMerge(t *testing.T) {
	// Merging a bound variable with a bare one keeps the non-trivial bound
	// on the merged representative (see the doc comment on AddRelation), so
	// the bare side sees it afterward and reasserting the same bound is a
	// no-op.
	c := New("<:")
	a := types.TVar(1)
	b := types.TVar(2)
	if err := c.AddBound(a, types.TIntLiterals(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddRelation(a, b); err != nil {
		t.Fatalf("unexpected error merging with a bare (trivial) variable: %v", err)
	}
	if got, ok := c.GetBound(b); !ok || !got.Equal(types.TIntLiterals(7)) {
		t.Fatalf("expected the merge to keep the non-trivial left-hand bound")
	}
	if err := c.AddBound(b, types.TIntLiterals(7)); err != nil {
		t.Fatalf("reasserting the bound after the merge should succeed: %v", err)
	}
}

func TestConstraintsAddRelationConflictsOnUnequalTrivialBounds(t *testing.T) {
	// Both sides' bounds are compared for equality when both are trivial
	// (as well as when both are non-trivial), so two different trivial
	// bounds, e.g. bottom on one side and dynamic on the other, conflict.
	c := New("=")
	a := types.TVar(1)
	b := types.TVar(2)
	if err := c.AddBound(a, types.TNone()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddBound(b, types.TDynamic(types.DynUser)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddRelation(a, b); err == nil {
		t.Fatalf("expected merging two variables with unequal trivial bounds to fail")
	}
}
