package tenv

import "fmt"

// Env is a stack of lexical Scopes over one Context, used by the checker
// driver to walk into and out of blocks/function bodies. A fresh Env always
// starts with one Scope even at the top level, since top-level local
// variables are still locals rather than globals.
type Env struct {
	ctx    *Context
	scopes []*Scope
}

func NewEnv(ctx *Context) *Env {
	return &Env{ctx: ctx, scopes: []*Scope{NewScope()}}
}

func (e *Env) Context() *Context { return e.ctx }

func (e *Env) Enter(s *Scope) { e.scopes = append(e.scopes, s) }

func (e *Env) Leave() {
	if len(e.scopes) <= 1 {
		panic("tenv: Leave called with no enclosing scope left")
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Env) CurrentScope() *Scope { return e.scopes[len(e.scopes)-1] }

// GetVar looks up name innermost-scope-first, falling back to the global
// scope if no enclosing local scope binds it.
func (e *Env) GetVar(name string) (*TyInfo, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if info, ok := e.scopes[i].Get(name); ok {
			return info, true
		}
	}
	return e.ctx.GlobalScope().Get(name)
}

// GetLocalVar is GetVar but never falls back to the global scope.
func (e *Env) GetLocalVar(name string) (*TyInfo, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if info, ok := e.scopes[i].Get(name); ok {
			return info, true
		}
	}
	return nil, false
}

// GetFrame returns the innermost enclosing function's Frame, falling back
// to the (normally absent) global frame.
func (e *Env) GetFrame() *Frame {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if f := e.scopes[i].GetFrame(); f != nil {
			return f
		}
	}
	return e.ctx.GlobalScope().GetFrame()
}

func (e *Env) GetVararg() *TyInfo {
	if f := e.GetFrame(); f != nil {
		return f.Vararg
	}
	return nil
}

func (e *Env) AddLocalVar(name string, info *TyInfo) {
	e.CurrentScope().Put(name, info)
}

// AssignToVar assigns info to an existing local variable, routing the
// compatibility check through the constraint store's normal AssertSub
// rather than a bare flags comparison — an existing local's declared type
// genuinely constrains what it can be reassigned, tvars and all, rather
// than just accepting anything flag-compatible. If name has no local
// binding it becomes (or updates) a global.
func (e *Env) AssignToVar(name string, info *TyInfo) error {
	if prev, ok := e.GetLocalVar(name); ok {
		if err := info.Ty.AssertSub(prev.Ty, e.ctx); err != nil {
			return fmt.Errorf("cannot assign %s to variable %q with type %s: %w",
				info.Ty, name, prev.Ty, err)
		}
		return nil
	}
	e.ctx.GlobalScope().Put(name, info)
	return nil
}

// AssumeVar force-overwrites name's binding without a compatibility check,
// used by explicit type-assume annotations that tell the checker to trust
// the user over its own inference.
func (e *Env) AssumeVar(name string, info *TyInfo) {
	if _, ok := e.GetLocalVar(name); ok {
		for i := len(e.scopes) - 1; i >= 0; i-- {
			if _, ok := e.scopes[i].Get(name); ok {
				e.scopes[i].Put(name, info)
				return
			}
		}
	}
	e.ctx.GlobalScope().Put(name, info)
}
