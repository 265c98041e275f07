package tenv

import (
	"testing"

	"github.com/nxgtri/funxycheck/internal/types"
)

func TestScopeStackLocalsShadowGlobal(t *testing.T) {
	env := NewEnv(NewContext())
	env.ctx.GlobalScope().Put("x", &TyInfo{Ty: types.TStr(types.StringsAll())})

	env.Enter(NewScope())
	env.AddLocalVar("x", &TyInfo{Ty: types.TInt(types.NumbersInt())})

	info, ok := env.GetVar("x")
	if !ok || !info.Ty.Equal(types.TInt(types.NumbersInt())) {
		t.Fatalf("expected the local shadow to win, got %+v", info)
	}

	env.Leave()
	info, ok = env.GetVar("x")
	if !ok || !info.Ty.Equal(types.TStr(types.StringsAll())) {
		t.Fatalf("expected the global binding after leaving the inner scope, got %+v", info)
	}
}

// A nested function scope must always install its own Frame, even when it
// declares no vararg, so GetFrame/GetVararg stop there instead of finding an
// enclosing function's vararg binding.
func TestGetVarargDoesNotInheritAcrossFunctionBoundary(t *testing.T) {
	env := NewEnv(NewContext())

	outerVararg := &TyInfo{Ty: types.TDynamic(types.DynUser)}
	env.Enter(NewFunctionScope(&Frame{Vararg: outerVararg}))

	if got := env.GetVararg(); got != outerVararg {
		t.Fatalf("expected the outer function's own vararg binding, got %+v", got)
	}

	// A nested function with no vararg of its own.
	env.Enter(NewFunctionScope(&Frame{}))
	if got := env.GetVararg(); got != nil {
		t.Fatalf("expected no vararg binding inside the inner (non-vararg) function, got %+v", got)
	}
	env.Leave()

	if got := env.GetVararg(); got != outerVararg {
		t.Fatalf("expected the outer function's vararg binding to resume after leaving the inner one, got %+v", got)
	}
}

func TestAssignToVarRejectsIncompatibleReassignment(t *testing.T) {
	env := NewEnv(NewContext())
	env.AddLocalVar("x", &TyInfo{Ty: types.TInt(types.NumbersInt())})

	if err := env.AssignToVar("x", &TyInfo{Ty: types.TStr(types.StringsAll())}); err == nil {
		t.Fatalf("expected assigning a String to an Integer-typed local to fail")
	}
	if err := env.AssignToVar("x", &TyInfo{Ty: types.TIntLiterals(5)}); err != nil {
		t.Fatalf("expected assigning a narrower Integer literal to succeed: %v", err)
	}
}

func TestAssumeVarOverwritesWithoutCompatibilityCheck(t *testing.T) {
	env := NewEnv(NewContext())
	env.AddLocalVar("x", &TyInfo{Ty: types.TInt(types.NumbersInt())})
	env.AssumeVar("x", &TyInfo{Ty: types.TStr(types.StringsAll())})

	info, ok := env.GetVar("x")
	if !ok || !info.Ty.Equal(types.TStr(types.StringsAll())) {
		t.Fatalf("expected AssumeVar to force-overwrite the binding, got %+v", info)
	}
}
