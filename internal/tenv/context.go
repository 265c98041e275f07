package tenv

import (
	"github.com/google/uuid"

	"github.com/nxgtri/funxycheck/internal/constraints"
	"github.com/nxgtri/funxycheck/internal/marks"
	"github.com/nxgtri/funxycheck/internal/types"
)

// Context is one independent checking session's shared state: the global
// scope, the type-variable constraint store, the mark solver, and the
// class hierarchy. Spec concurrency model keeps one Context per file being
// checked, with any fan-out living above this package (see
// internal/orchestrator) — nothing here is safe for concurrent use by
// multiple goroutines against the same Context.
type Context struct {
	SessionID uuid.UUID

	global *Scope
	tvars  *constraints.Store
	marks  *marks.Store
	classes *ClassTable
}

func NewContext() *Context {
	return &Context{
		SessionID: uuid.New(),
		global:    NewScope(),
		tvars:     constraints.NewStore(),
		marks:     marks.NewStore(),
		classes:   NewClassTable(),
	}
}

func (c *Context) GlobalScope() *Scope     { return c.global }
func (c *Context) Classes() *ClassTable     { return c.classes }

// types.TypeContext implementation: these delegate straight to the
// constraint store, adapting nothing, so that the type algebra in package
// types never has to know this package exists.

func (c *Context) AssertTVarSub(lhs types.TVar, rhs types.Ty) error {
	return c.tvars.AssertSub(lhs, rhs, c)
}

func (c *Context) AssertTVarSup(lhs types.TVar, rhs types.Ty) error {
	return c.tvars.AssertSup(lhs, rhs, c)
}

func (c *Context) AssertTVarEq(lhs types.TVar, rhs types.Ty) error {
	return c.tvars.AssertEq(lhs, rhs, c)
}

func (c *Context) AssertTVarSubTVar(lhs, rhs types.TVar) error {
	return c.tvars.AssertSubTVar(lhs, rhs)
}

func (c *Context) AssertTVarEqTVar(lhs, rhs types.TVar) error {
	return c.tvars.AssertEqTVar(lhs, rhs)
}

func (c *Context) ResolveTVar(v types.TVar) (types.Ty, bool) {
	return c.tvars.ResolveTVar(v)
}

func (c *Context) IsSubclassOf(sub, super types.Class) bool {
	return c.classes.IsSubclassOf(sub, super)
}

func (c *Context) GenTVar() types.TVar { return c.tvars.GenTVar() }
func (c *Context) GenMark() marks.Mark { return c.marks.GenMark() }

func (c *Context) AssertMarkTrue(m marks.Mark) error    { return c.marks.AssertTrue(m, c) }
func (c *Context) AssertMarkFalse(m marks.Mark) error   { return c.marks.AssertFalse(m) }
func (c *Context) AssertMarkEq(lhs, rhs marks.Mark) error {
	return c.marks.AssertEq(lhs, rhs, c)
}
func (c *Context) AssertMarkImply(lhs, rhs marks.Mark) error {
	return c.marks.AssertImply(lhs, rhs, c)
}
func (c *Context) AssertMarkRequire(m marks.Mark, base, ty types.Ty) error {
	return c.marks.AssertRequire(m, base, ty, c)
}

func (c *Context) ResolveMark(m types.Mark) (bool, bool) { return c.marks.Resolve(m) }
