// Package marks implements the checker's boolean "mark" solver: flag
// variables generated during checking (e.g. "does this optional parameter
// actually get passed") that are only partially known at the point they're
// created and get resolved to true/false — or tied to each other via
// implication and equality — as checking proceeds. Marks share the same
// union-find discipline as the type-variable constraint store in package
// constraints, reused here via constraints.Partitions.
package marks

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/constraints"
	"github.com/nxgtri/funxycheck/internal/types"
)

// Mark is an alias, not a redeclaration: the type itself lives in package
// types (see types.Mark) so that the table/function subtyping code there can
// name a Mark on a Slot without importing this package, which already
// imports types. Every pre-existing reference to marks.Mark throughout the
// checker keeps compiling unchanged against this alias.
type Mark = types.Mark

// Deps is the set of obligations attached to a mark whose value is not yet
// known: another mark it implies (follows), another mark that implies it
// (precedes), and a requirement that a base type stay equal to every type
// asserted against it so far (eqTypes) once the mark is known true.
type Deps struct {
	follows  *Mark
	precedes *Mark
	eqBase   *types.Ty
	eqOthers []types.Ty
}

func (d *Deps) assertTrue(ctx types.TypeContext, s *Store) error {
	if d.eqBase != nil {
		for _, o := range d.eqOthers {
			if err := d.eqBase.AssertEq(o, ctx); err != nil {
				return err
			}
		}
	}
	if d.follows != nil {
		return s.AssertTrue(*d.follows, ctx)
	}
	return nil
}

func (d *Deps) assertFalse(s *Store) error {
	if d.precedes != nil {
		return s.AssertFalse(*d.precedes)
	}
	return nil
}

// merge combines d with other when two marks carrying independent deps turn
// out to be the same mark. Two deps implying the same third mark in
// different directions is a programming error in the checker driver, not a
// user-facing typing error, so it panics rather than returning an error —
// mirroring the reference solver's own "non-linear deps detected" panic.
func (d *Deps) merge(other *Deps, ctx types.TypeContext) (*Deps, error) {
	merged := &Deps{}

	switch {
	case d.eqBase == nil && other.eqBase == nil:
	case d.eqBase == nil:
		merged.eqBase, merged.eqOthers = other.eqBase, other.eqOthers
	case other.eqBase == nil:
		merged.eqBase, merged.eqOthers = d.eqBase, d.eqOthers
	default:
		if err := d.eqBase.AssertEq(*other.eqBase, ctx); err != nil {
			return nil, err
		}
		merged.eqBase = d.eqBase
		merged.eqOthers = append(append([]types.Ty{}, d.eqOthers...), other.eqOthers...)
	}

	mergeMark := func(l, r *Mark) *Mark {
		switch {
		case l == nil && r == nil:
			return nil
		case l == nil:
			return r
		case r == nil:
			return l
		default:
			panic("non-linear deps detected")
		}
	}
	merged.follows = mergeMark(d.follows, other.follows)
	merged.precedes = mergeMark(d.precedes, other.precedes)
	return merged, nil
}

type valueKind int

// vUnknown is deliberately the zero value: a mark the Partitions union-find
// forest has never seen before (no Ensure call yet) reads back as an
// unknown-with-no-deps value, matching the reference's own MarkInfo default
// of Unknown(None) rather than landing on the Invalid take-out sentinel.
const (
	vUnknown valueKind = iota
	vTrue
	vFalse
	vInvalid
)

type value struct {
	kind valueKind
	deps *Deps
}

func unknownNoDeps() value { return value{kind: vUnknown} }

func (v value) assertTrue(mark Mark, ctx types.TypeContext, s *Store) error {
	switch v.kind {
	case vInvalid:
		panic("self-recursive mark resolution")
	case vTrue:
		return nil
	case vFalse:
		return fmt.Errorf("%s cannot be true", mark)
	default:
		if v.deps == nil {
			return nil
		}
		return v.deps.assertTrue(ctx, s)
	}
}

func (v value) assertFalse(mark Mark, s *Store) error {
	switch v.kind {
	case vInvalid:
		panic("self-recursive mark resolution")
	case vTrue:
		return fmt.Errorf("%s cannot be false", mark)
	case vFalse:
		return nil
	default:
		if v.deps == nil {
			return nil
		}
		return v.deps.assertFalse(s)
	}
}

// Store is the mark solver: a union-find forest keyed by Mark identity,
// each representative carrying a value (true/false/unknown-with-deps).
type Store struct {
	infos    *constraints.Partitions[value]
	nextMark Mark
}

func NewStore() *Store {
	return &Store{infos: constraints.NewPartitions[value]()}
}

func (s *Store) GenMark() Mark {
	m := s.nextMark
	s.nextMark++
	return m
}

func (s *Store) take(rep int, repl value) value {
	e := s.infos.Ensure(rep)
	old := *e
	*e = repl
	return old
}

// AssertTrue commits mark to true and discharges any deps it was carrying.
func (s *Store) AssertTrue(mark Mark, ctx types.TypeContext) error {
	rep := s.infos.Find(int(mark))
	old := s.take(rep, value{kind: vTrue})
	return old.assertTrue(mark, ctx, s)
}

// AssertFalse commits mark to false and discharges any deps it was carrying.
func (s *Store) AssertFalse(mark Mark) error {
	rep := s.infos.Find(int(mark))
	old := s.take(rep, value{kind: vFalse})
	return old.assertFalse(mark, s)
}

// AssertEq asserts that lhs and rhs are the same boolean mark, merging
// their representatives and reconciling whatever was already known or
// pending about each.
func (s *Store) AssertEq(lhs, rhs Mark, ctx types.TypeContext) error {
	if lhs == rhs {
		return nil
	}
	lr := s.infos.Find(int(lhs))
	rr := s.infos.Find(int(rhs))
	if lr == rr {
		return nil
	}

	lv, lok := s.infos.Get(lr)
	rv, rok := s.infos.Get(rr)
	var lkind, rkind valueKind = vUnknown, vUnknown
	if lok {
		lkind = lv.kind
	}
	if rok {
		rkind = rv.kind
	}
	if lkind == vInvalid || rkind == vInvalid {
		panic("self-recursive mark resolution")
	}
	switch {
	case lkind == vTrue && rkind == vTrue:
		return nil
	case lkind == vTrue && rkind == vFalse:
		return fmt.Errorf("%s (known to be true) and %s (known to be false) can never be the same", lhs, rhs)
	case lkind == vFalse && rkind == vTrue:
		return fmt.Errorf("%s (known to be false) and %s (known to be true) can never be the same", lhs, rhs)
	case lkind == vFalse && rkind == vFalse:
		return nil
	}

	lval := s.take(lr, value{kind: vInvalid})
	rval := s.take(rr, value{kind: vInvalid})
	newRep := s.infos.Union(lr, rr)

	var newVal value
	var err error
	switch {
	case lval.kind == vTrue || rval.kind == vTrue:
		d := lval.deps
		if lval.kind != vUnknown {
			d = rval.deps
		}
		if d != nil {
			if err = d.assertTrue(ctx, s); err != nil {
				return err
			}
		}
		newVal = value{kind: vTrue}
	case lval.kind == vFalse || rval.kind == vFalse:
		d := lval.deps
		if lval.kind != vUnknown {
			d = rval.deps
		}
		if d != nil {
			if err = d.assertFalse(s); err != nil {
				return err
			}
		}
		newVal = value{kind: vFalse}
	case lval.deps == nil && rval.deps == nil:
		newVal = unknownNoDeps()
	case lval.deps == nil:
		newVal = value{kind: vUnknown, deps: rval.deps}
	case rval.deps == nil:
		newVal = value{kind: vUnknown, deps: lval.deps}
	default:
		ldeps, rdeps := lval.deps, rval.deps
		lMark, rMark := Mark(lr), Mark(rr)
		if ldeps.follows != nil && *ldeps.follows == rMark {
			ldeps.follows = nil
		}
		if ldeps.precedes != nil && *ldeps.precedes == rMark {
			ldeps.precedes = nil
		}
		if rdeps.follows != nil && *rdeps.follows == lMark {
			rdeps.follows = nil
		}
		if rdeps.precedes != nil && *rdeps.precedes == lMark {
			rdeps.precedes = nil
		}
		deps, mergeErr := ldeps.merge(rdeps, ctx)
		if mergeErr != nil {
			return mergeErr
		}
		if deps.follows != nil {
			fe, ok := s.infos.Get(int(*deps.follows))
			if !ok || fe.kind != vUnknown || fe.deps == nil {
				panic(fmt.Sprintf("desynchronized dependency implication from %s or %s to %s", lhs, rhs, *deps.follows))
			}
			nm := Mark(newRep)
			fe.deps.precedes = &nm
		}
		if deps.precedes != nil {
			pe, ok := s.infos.Get(int(*deps.precedes))
			if !ok || pe.kind != vUnknown || pe.deps == nil {
				panic(fmt.Sprintf("desynchronized dependency implication from %s to %s or %s", *deps.precedes, lhs, rhs))
			}
			nm := Mark(newRep)
			pe.deps.follows = &nm
		}
		newVal = value{kind: vUnknown, deps: deps}
	}

	*s.infos.Ensure(newRep) = newVal
	return nil
}

// AssertImply asserts that lhs implies rhs.
func (s *Store) AssertImply(lhs, rhs Mark, ctx types.TypeContext) error {
	if lhs == rhs {
		return nil
	}
	lr := s.infos.Find(int(lhs))
	rr := s.infos.Find(int(rhs))
	if lr == rr {
		return nil
	}

	lv, lok := s.infos.Get(lr)
	rv, rok := s.infos.Get(rr)
	lkind, rkind := vUnknown, vUnknown
	if lok {
		lkind = lv.kind
	}
	if rok {
		rkind = rv.kind
	}
	if lkind == vInvalid || rkind == vInvalid {
		panic("self-recursive mark resolution")
	}

	switch {
	case lkind == vTrue && rkind == vTrue:
		return nil
	case lkind == vTrue && rkind == vFalse:
		return fmt.Errorf("%s (known to be true) cannot imply %s (known to be false)", lhs, rhs)
	case lkind == vTrue:
		re := s.infos.Ensure(rr)
		deps := re.deps
		*re = value{kind: vTrue}
		if deps != nil {
			return deps.assertTrue(ctx, s)
		}
		return nil
	case lkind == vFalse:
		return nil
	case rkind == vTrue:
		return nil
	case rkind == vFalse:
		le := s.infos.Ensure(lr)
		deps := le.deps
		*le = value{kind: vFalse}
		if deps != nil {
			return deps.assertFalse(s)
		}
		return nil
	default:
		le := s.infos.Ensure(lr)
		if le.kind == vUnknown {
			if le.deps == nil {
				le.deps = &Deps{}
			}
			follows := Mark(rr)
			if le.deps.follows == nil {
				le.deps.follows = &follows
			} else if *le.deps.follows != follows {
				panic("non-linear deps detected")
			}
		}
		re := s.infos.Ensure(rr)
		if re.kind == vUnknown {
			if re.deps == nil {
				re.deps = &Deps{}
			}
			precedes := Mark(lr)
			if re.deps.precedes == nil {
				re.deps.precedes = &precedes
			} else if *re.deps.precedes != precedes {
				panic("non-linear deps detected")
			}
		}
		return nil
	}
}

// AssertRequire asserts that whenever mark is (or becomes) true, base must
// be type-equal to ty — and records ty as a pending obligation if mark's
// value isn't known yet. Extending an already-pending requirement doesn't
// eagerly assert base equal to every ty seen so far (that equality only
// needs to hold once the mark is actually true, and is discharged by
// Deps.assertTrue when it does); it only asserts that this call's base
// agrees with whichever base the first call on this mark recorded, then
// defers ty itself to the pending list regardless of how that check comes
// out, matching the reference's own create-or-extend-then-push-separately
// structure.
func (s *Store) AssertRequire(mark Mark, base, ty types.Ty, ctx types.TypeContext) error {
	rep := s.infos.Find(int(mark))
	old := s.take(rep, value{kind: vInvalid})

	var ret error
	var next value
	switch old.kind {
	case vInvalid:
		panic("self-recursive mark resolution")
	case vTrue:
		ret = base.AssertEq(ty, ctx)
		next = value{kind: vTrue}
	case vFalse:
		ret = nil
		next = value{kind: vFalse}
	default:
		deps := old.deps
		if deps == nil {
			deps = &Deps{}
		}
		if deps.eqBase != nil {
			ret = base.AssertEq(*deps.eqBase, ctx)
		} else {
			b := base
			deps.eqBase = &b
		}
		deps.eqOthers = append(deps.eqOthers, ty)
		next = value{kind: vUnknown, deps: deps}
	}

	*s.infos.Ensure(rep) = next
	return ret
}

// Resolve reads mark's current committed value without mutating the solver,
// mirroring constraints.Store.ResolveTVar: (true/false, true) once mark has
// been committed either way, (false, false) while it's still unknown.
func (s *Store) Resolve(mark Mark) (bool, bool) {
	rep := s.infos.Find(int(mark))
	v, ok := s.infos.Get(rep)
	if !ok {
		return false, false
	}
	switch v.kind {
	case vTrue:
		return true, true
	case vFalse:
		return false, true
	default:
		return false, false
	}
}
