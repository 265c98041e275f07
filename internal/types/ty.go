package types

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/config"
)

// TVar identifies a type variable tracked by a constraint store elsewhere
// in the checker (see package constraints). This package never resolves a
// TVar on its own — AssertSub/AssertEq delegate to the TypeContext supplied
// by the caller.
type TVar uint32

// Dyn distinguishes a dynamically-typed value the user wrote on purpose
// (User) from one produced as a placeholder after a prior type error
// (Oops). Oops dominates under Or/union so that one real error doesn't
// cascade into a string of unrelated-looking ones: once any operand of an
// expression is an error placeholder, the whole expression's dynamic-ness
// is tagged Oops rather than User.
type Dyn int

const (
	DynUser Dyn = iota
	DynOops
)

func (d Dyn) Or(o Dyn) Dyn {
	if d == DynOops || o == DynOops {
		return DynOops
	}
	return DynUser
}

func (d Dyn) String() string {
	if d == DynOops {
		return "<error>"
	}
	return "any"
}

// TypeContext is the subset of the constraint/mark store that the type
// algebra needs in order to check subtyping and equality against type
// variables and nominal classes. Implemented by tenv.Context.
type TypeContext interface {
	AssertTVarSub(lhs TVar, rhs Ty) error
	AssertTVarSup(lhs TVar, rhs Ty) error
	AssertTVarEq(lhs TVar, rhs Ty) error
	AssertTVarSubTVar(lhs, rhs TVar) error
	AssertTVarEqTVar(lhs, rhs TVar) error
	ResolveTVar(v TVar) (Ty, bool)
	IsSubclassOf(sub, super Class) bool

	// ResolveMark reads a flex mark's committed value (see Slot's
	// VarOrConst/VarOrCurrently variants), returning ok=false while it is
	// still unresolved.
	ResolveMark(m Mark) (bool, bool)
	// AssertMarkImply links two flex marks by implication; Slot.AssertSub
	// calls it (through linkFlexMarks) on a Currently-flavored comparison.
	AssertMarkImply(lhs, rhs Mark) error
}

type tyKind int

const (
	tyNone tyKind = iota // the bottom type: no value inhabits it
	tyDynamic
	tyNil
	tyTrue
	tyFalse
	tyThread
	tyUserdata
	tyNumber
	tyString
	tyTable
	tyFunction
	tyTVar
	tyBuiltin
	tyClass
	tyUnion
	tyAll // the top type: dynamic without the "don't check me" escape hatch
)

// Ty is the shallow type representation: a single tag plus whatever payload
// that tag carries. Multiple simple tags combined by Union collapse into a
// tyUnion payload (see Unioned) unless they simplify back down to one tag.
type Ty struct {
	kind    tyKind
	dyn     Dyn
	numbers Numbers
	strings Strings
	tables  Tables
	fns     Functions
	tvar    TVar
	builtin *Builtin
	class   Class
	union   *Unioned
}

func TNone() Ty     { return Ty{kind: tyNone} }
func TAll() Ty      { return Ty{kind: tyAll} }
func TNil() Ty      { return Ty{kind: tyNil} }
func TTrue() Ty     { return Ty{kind: tyTrue} }
func TFalse() Ty    { return Ty{kind: tyFalse} }
func TThread() Ty   { return Ty{kind: tyThread} }
func TUserdata() Ty { return Ty{kind: tyUserdata} }
func TDynamic(d Dyn) Ty { return Ty{kind: tyDynamic, dyn: d} }
func TTVar(v TVar) Ty   { return Ty{kind: tyTVar, tvar: v} }
func TClass(c Class) Ty { return Ty{kind: tyClass, class: c} }

func TInt(n Numbers) Ty {
	if n.IsNone() {
		return TNone()
	}
	return Ty{kind: tyNumber, numbers: n}
}

func TStr(s Strings) Ty {
	if s.IsNone() {
		return TNone()
	}
	return Ty{kind: tyString, strings: s}
}

func TTable(t Tables) Ty {
	if t.IsNone() {
		return TNone()
	}
	return Ty{kind: tyTable, tables: t}
}

func TFunc(f Functions) Ty {
	if f.IsNone() {
		return TNone()
	}
	return Ty{kind: tyFunction, fns: f}
}

func TBuiltinAttr(b Builtin, inner Ty) Ty {
	b2 := b
	b2.Inner = inner
	return Ty{kind: tyBuiltin, builtin: &b2}
}

// Convenience constructors matching the named helpers in the reference's
// own Ty::table/empty_table/function/ints/strs/tuple/record/array/map.
func TTableEmpty() Ty                     { return TTable(TablesEmpty()) }
func TTableArray(elem SlotWithNil) Ty      { return TTable(TablesArray(elem)) }
func TTableMap(key Ty, val SlotWithNil) Ty { return TTable(TablesMap(key, val)) }
func TTableFields(fields map[Key]Slot) Ty  { return TTable(TablesFields(fields)) }
func TIntLiterals(vs ...int64) Ty          { return TInt(NumbersSet(vs...)) }
func TStrLiterals(vs ...string) Ty         { return TStr(StringsSet(vs...)) }
func TFunction(f Function) Ty              { return TFunc(FunctionsSimple(f)) }

func (t Ty) IsNone() bool { return t.kind == tyNone }
func (t Ty) IsAll() bool  { return t.kind == tyAll }
func (t Ty) IsDynamic() bool {
	return t.kind == tyDynamic || t.kind == tyAll ||
		(t.kind == tyBuiltin && t.builtin.Inner.IsDynamic())
}

func (t Ty) TVar() (TVar, bool) {
	if t.kind == tyTVar {
		return t.tvar, true
	}
	return 0, false
}

// Tables returns the table shape lattice value t carries, if t is a table
// type (unwrapping a builtin attribute wrapper first).
func (t Ty) Tables() (Tables, bool) {
	if t.kind == tyBuiltin {
		return t.builtin.Inner.Tables()
	}
	if t.kind == tyTable {
		return t.tables, true
	}
	return Tables{}, false
}

// Functions returns the function shape lattice value t carries, if t is a
// function type (unwrapping a builtin attribute wrapper first).
func (t Ty) Functions() (Functions, bool) {
	if t.kind == tyBuiltin {
		return t.builtin.Inner.Functions()
	}
	if t.kind == tyFunction {
		return t.fns, true
	}
	return Functions{}, false
}

// LiteralKeys returns the finite set of table keys t could denote when used
// as an index expression's value (e.g. an Integer or String literal type),
// or false if t isn't a finite literal set of either kind.
func (t Ty) LiteralKeys() ([]Key, bool) {
	switch t.kind {
	case tyNumber:
		lits, ok := t.numbers.Literals()
		if !ok {
			return nil, false
		}
		keys := make([]Key, len(lits))
		for i, v := range lits {
			keys[i] = IntKey(v)
		}
		return keys, true
	case tyString:
		lits, ok := t.strings.Literals()
		if !ok {
			return nil, false
		}
		keys := make([]Key, len(lits))
		for i, v := range lits {
			keys[i] = StrKey(v)
		}
		return keys, true
	default:
		return nil, false
	}
}

// Flags summarizes t's admitted primitive tags for the cheap is_* style
// predicates; a tyUnion payload delegates to Unioned.Flags.
func (t Ty) Flags() Flags {
	switch t.kind {
	case tyNone:
		return FlagNone
	case tyDynamic, tyAll:
		return FlagAll
	case tyNil:
		return FlagNil
	case tyTrue:
		return FlagTrue
	case tyFalse:
		return FlagFalse
	case tyThread:
		return FlagThread
	case tyUserdata:
		return FlagUserdata
	case tyNumber:
		if _, finite := t.numbers.Literals(); finite {
			return FlagInteger
		}
		if t.numbers.tier == numInt {
			return FlagInteger
		}
		return FlagInteger | FlagNumber
	case tyString:
		return FlagString
	case tyTable:
		return FlagTable
	case tyFunction:
		return FlagFunction
	case tyTVar:
		return FlagAll // unresolved: treat conservatively as dynamic until bound
	case tyBuiltin:
		return t.builtin.Inner.Flags()
	case tyClass:
		return FlagTable
	case tyUnion:
		return t.union.Flags()
	default:
		return FlagNone
	}
}

func (t Ty) Truthy() bool {
	return !(t.kind == tyNil || t.kind == tyFalse)
}

func (t Ty) Falsey() bool {
	return t.kind == tyNil || t.kind == tyFalse || t.kind == tyNone
}

// WithoutNil strips a bare Nil tag or a Nil member of a union, used when a
// condition has been checked truthy/falsey and nil is no longer possible.
func (t Ty) WithoutNil() Ty {
	if t.kind == tyNil {
		return TNone()
	}
	if t.kind == tyUnion {
		return FromUnioned(t.union.withoutNil())
	}
	return t
}

// Union computes t | o, matching same-tag pairs directly and otherwise
// building (and immediately simplifying) an Unioned payload.
func (t Ty) Union(o Ty) Ty {
	if t.kind == tyBuiltin {
		return t.builtin.Inner.Union(o)
	}
	if o.kind == tyBuiltin {
		return t.Union(o.builtin.Inner)
	}
	if t.kind == tyNone {
		return o
	}
	if o.kind == tyNone {
		return t
	}
	if t.kind == tyDynamic || o.kind == tyDynamic {
		d := DynUser
		if t.kind == tyDynamic {
			d = d.Or(t.dyn)
		}
		if o.kind == tyDynamic {
			d = d.Or(o.dyn)
		}
		return TDynamic(d)
	}
	if t.kind == tyAll || o.kind == tyAll {
		return TAll()
	}
	if t.kind == o.kind {
		switch t.kind {
		case tyNil, tyTrue, tyFalse, tyThread, tyUserdata:
			return t
		case tyNumber:
			return TInt(t.numbers.Union(o.numbers))
		case tyString:
			return TStr(t.strings.Union(o.strings))
		case tyTable:
			return TTable(t.tables.Union(o.tables))
		case tyFunction:
			return TFunc(t.fns.Union(o.fns))
		case tyTVar:
			if t.tvar == o.tvar {
				return t
			}
		case tyClass:
			if t.class.Equal(o.class) {
				return t
			}
		}
	}
	u := UnionedFromTy(t)
	u = u.unionWith(UnionedFromTy(o))
	return FromUnioned(u.simplify())
}

// Intersect computes t & o. Dynamic is the identity element (unlike Union,
// where it eclipses everything): intersecting a dynamic value against a
// concrete type just yields the concrete type back, since a dynamically
// typed operand places no real constraint of its own.
func (t Ty) Intersect(o Ty) Ty {
	if t.kind == tyBuiltin {
		return t.builtin.Inner.Intersect(o)
	}
	if o.kind == tyBuiltin {
		return t.Intersect(o.builtin.Inner)
	}
	if t.kind == tyDynamic || t.kind == tyAll {
		return o
	}
	if o.kind == tyDynamic || o.kind == tyAll {
		return t
	}
	if t.kind == tyNone || o.kind == tyNone {
		return TNone()
	}
	if t.kind == o.kind {
		switch t.kind {
		case tyNil, tyTrue, tyFalse, tyThread, tyUserdata:
			return t
		case tyNumber:
			return TInt(t.numbers.Intersect(o.numbers))
		case tyString:
			return TStr(t.strings.Intersect(o.strings))
		case tyTable:
			return TTable(t.tables.Intersect(o.tables))
		case tyFunction:
			return TFunc(t.fns.Intersect(o.fns))
		case tyTVar:
			if t.tvar == o.tvar {
				return t
			}
		case tyClass:
			if t.class.Equal(o.class) {
				return t
			}
		}
	}
	return TNone()
}

// Equal is structural (lattice) equality, not subtyping in either
// direction; two unions are equal only if Unioned.simplify agrees on every
// field.
func (t Ty) Equal(o Ty) bool {
	if t.kind == tyBuiltin || o.kind == tyBuiltin {
		tb, ob := t, o
		if tb.kind == tyBuiltin {
			tb = tb.builtin.Inner
		}
		if ob.kind == tyBuiltin {
			ob = ob.builtin.Inner
		}
		return tb.Equal(ob)
	}
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case tyNone, tyAll, tyNil, tyTrue, tyFalse, tyThread, tyUserdata:
		return true
	case tyDynamic:
		return true // Oops vs User is not lattice-distinguished for equality
	case tyNumber:
		return t.numbers.Equal(o.numbers)
	case tyString:
		return t.strings.Equal(o.strings)
	case tyTable:
		return t.tables.Equal(o.tables)
	case tyFunction:
		return t.fns.Equal(o.fns)
	case tyTVar:
		return t.tvar == o.tvar
	case tyClass:
		return t.class.Equal(o.class)
	case tyUnion:
		return t.union.Equal(o.union)
	default:
		return false
	}
}

// AssertSub asserts t <: o, resolving any type variables on either side
// through ctx and delegating into the constraint store when a bare
// variable is involved. Returns a descriptive error (never panics) when
// the relation cannot hold.
func (t Ty) AssertSub(o Ty, ctx TypeContext) error {
	if t.kind == tyBuiltin {
		if t.builtin.NeedsSubtype() {
			return t.builtin.Inner.AssertSub(o, ctx)
		}
	}
	if o.kind == tyBuiltin {
		return t.AssertSub(o.builtin.Inner, ctx)
	}
	if tv, ok := t.TVar(); ok {
		if ov, ok2 := o.TVar(); ok2 {
			return ctx.AssertTVarSubTVar(tv, ov)
		}
		return ctx.AssertTVarSub(tv, o)
	}
	if ov, ok := o.TVar(); ok {
		return ctx.AssertTVarSup(ov, t)
	}
	if t.kind == tyNone || o.kind == tyAll || o.kind == tyDynamic || t.kind == tyDynamic {
		return nil
	}
	if t.kind == tyClass && o.kind == tyClass {
		if t.class.Equal(o.class) || ctx.IsSubclassOf(t.class, o.class) {
			return nil
		}
		return fmt.Errorf("class %s is not a subclass of %s", t.class, o.class)
	}
	if t.kind == tyUnion {
		for _, m := range t.union.members() {
			if err := m.AssertSub(o, ctx); err != nil {
				return err
			}
		}
		return nil
	}
	if o.kind == tyUnion {
		var lastErr error
		for _, m := range o.union.members() {
			if err := t.AssertSub(m, ctx); err == nil {
				return nil
			} else {
				lastErr = err
			}
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("%s is not a subtype of %s", t, o)
		}
		return lastErr
	}
	if t.kind != o.kind {
		return fmt.Errorf("%s is not a subtype of %s", t, o)
	}
	switch t.kind {
	case tyNil, tyTrue, tyFalse, tyThread, tyUserdata:
		return nil
	case tyNumber:
		if t.numbers.Union(o.numbers).Equal(o.numbers) {
			return nil
		}
	case tyString:
		if t.strings.Union(o.strings).Equal(o.strings) {
			return nil
		}
	case tyTable:
		return t.tables.AssertSub(o.tables, ctx)
	case tyFunction:
		return t.fns.AssertSub(o.fns, ctx)
	}
	return fmt.Errorf("%s is not a subtype of %s", t, o)
}

// AssertEq asserts t = o via mutual AssertSub, the way the reference
// lattice implements equality checks without a separate code path — except
// for bare type variables, which route straight into the constraint
// store's dedicated eq-store instead of two redundant sub-checks.
func (t Ty) AssertEq(o Ty, ctx TypeContext) error {
	if tv, ok := t.TVar(); ok {
		if ov, ok2 := o.TVar(); ok2 {
			return ctx.AssertTVarEqTVar(tv, ov)
		}
		return ctx.AssertTVarEq(tv, o)
	}
	if ov, ok := o.TVar(); ok {
		return ctx.AssertTVarEq(ov, t)
	}
	if err := t.AssertSub(o, ctx); err != nil {
		return err
	}
	return o.AssertSub(t, ctx)
}

func (t Ty) String() string {
	switch t.kind {
	case tyNone:
		return "<bottom>"
	case tyAll:
		return "any"
	case tyDynamic:
		return t.dyn.String()
	case tyNil:
		return "nil"
	case tyTrue:
		return "true"
	case tyFalse:
		return "false"
	case tyThread:
		return "thread"
	case tyUserdata:
		return "userdata"
	case tyNumber:
		return t.numbers.String()
	case tyString:
		return t.strings.String()
	case tyTable:
		return t.tables.String()
	case tyFunction:
		return t.fns.String()
	case tyTVar:
		// Normalized to a fixed placeholder under IsTestMode so that golden
		// test output doesn't depend on allocation order, the same t?
		// collapsing the reference applies to its own auto-generated t1/t2/…
		// names.
		if config.IsTestMode {
			return "t?"
		}
		return fmt.Sprintf("t#%d", t.tvar)
	case tyBuiltin:
		return t.builtin.String()
	case tyClass:
		return t.class.String()
	case tyUnion:
		return t.union.String()
	default:
		return "?"
	}
}
