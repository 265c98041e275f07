package types

import "sort"

// simpleMask is the subset of Flags bits that Unioned tracks directly as a
// bitset rather than through a dedicated field (nil/true/false/thread/
// userdata — every tag with no payload of its own).
const simpleMask = FlagNil | FlagTrue | FlagFalse | FlagThread | FlagUserdata

// Unioned is the expanded representation of a union of two or more simple
// tags: a bitset for the payload-less tags plus one slot per payload-bearing
// category. Any combination of the categories may be set at once: a union
// of a table, a function and a type variable keeps all three side by side,
// alongside Numbers/Strings/simple bits. At most one type variable is kept.
type Unioned struct {
	simple    Flags
	numbers   Numbers
	strings   Strings
	tables    Tables
	functions Functions
	classes   map[Class]struct{}
	tvar      *TVar
}

func emptyUnioned() Unioned {
	return Unioned{numbers: NumbersNone(), strings: StringsNone(), tables: TablesNone(), functions: FunctionsNone()}
}

// UnionedFromTy lifts a single simple Ty (not Dynamic, not All, not itself a
// union) into its Unioned representation, the starting point for building
// up a multi-tag union one member at a time.
func UnionedFromTy(t Ty) Unioned {
	u := emptyUnioned()
	switch t.kind {
	case tyNil:
		u.simple |= FlagNil
	case tyTrue:
		u.simple |= FlagTrue
	case tyFalse:
		u.simple |= FlagFalse
	case tyThread:
		u.simple |= FlagThread
	case tyUserdata:
		u.simple |= FlagUserdata
	case tyNumber:
		u.numbers = t.numbers
	case tyString:
		u.strings = t.strings
	case tyTable:
		u.tables = t.tables
	case tyFunction:
		u.functions = t.fns
	case tyClass:
		u.classes = map[Class]struct{}{t.class: {}}
	case tyTVar:
		v := t.tvar
		u.tvar = &v
	case tyUnion:
		return *t.union
	case tyBuiltin:
		return UnionedFromTy(t.builtin.Inner)
	}
	return u
}

func (u Unioned) unionWith(o Unioned) Unioned {
	out := Unioned{
		simple:    u.simple | o.simple,
		numbers:   u.numbers.Union(o.numbers),
		strings:   u.strings.Union(o.strings),
		tables:    u.tables.Union(o.tables),
		functions: u.functions.Union(o.functions),
	}
	if len(u.classes) > 0 || len(o.classes) > 0 {
		out.classes = map[Class]struct{}{}
		for c := range u.classes {
			out.classes[c] = struct{}{}
		}
		for c := range o.classes {
			out.classes[c] = struct{}{}
		}
	}
	switch {
	case u.tvar != nil:
		out.tvar = u.tvar
	case o.tvar != nil:
		out.tvar = o.tvar
	}
	return out
}

func (u Unioned) withoutNil() Unioned {
	u.simple &^= FlagNil
	return u
}

// simplify is idempotent canonicalization; Unioned is already kept in
// canonical per-field form by construction, so this mostly exists as the
// named entry point FromUnioned expects, mirroring the reference's own
// simplify step.
func (u Unioned) simplify() Unioned { return u }

// members enumerates the distinct simple Ty values folded into u, used by
// AssertSub/AssertEq to check a union against another type member-by-member.
func (u Unioned) members() []Ty {
	var out []Ty
	if u.simple.Has(FlagNil) {
		out = append(out, TNil())
	}
	if u.simple.Has(FlagTrue) {
		out = append(out, TTrue())
	}
	if u.simple.Has(FlagFalse) {
		out = append(out, TFalse())
	}
	if u.simple.Has(FlagThread) {
		out = append(out, TThread())
	}
	if u.simple.Has(FlagUserdata) {
		out = append(out, TUserdata())
	}
	if !u.numbers.IsNone() {
		out = append(out, TInt(u.numbers))
	}
	if !u.strings.IsNone() {
		out = append(out, TStr(u.strings))
	}
	if !u.tables.IsNone() {
		out = append(out, TTable(u.tables))
	}
	if !u.functions.IsNone() {
		out = append(out, TFunc(u.functions))
	}
	classes := make([]Class, 0, len(u.classes))
	for c := range u.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].String() < classes[j].String() })
	for _, c := range classes {
		out = append(out, TClass(c))
	}
	if u.tvar != nil {
		out = append(out, TTVar(*u.tvar))
	}
	return out
}

func (u Unioned) Flags() Flags {
	f := u.simple
	if !u.numbers.IsNone() {
		if u.numbers.tier == numInt {
			f |= FlagInteger
		} else {
			f |= FlagInteger | FlagNumber
		}
	}
	if !u.strings.IsNone() {
		f |= FlagString
	}
	if !u.tables.IsNone() {
		f |= FlagTable
	}
	if !u.functions.IsNone() {
		f |= FlagFunction
	}
	if len(u.classes) > 0 {
		f |= FlagTable
	}
	if u.tvar != nil {
		f |= FlagAll
	}
	return f
}

// FromUnioned collapses u back down to a bare Ty when it turns out to carry
// only a single member (e.g. after WithoutNil strips the last other tag),
// and otherwise wraps it as a tyUnion payload.
func FromUnioned(u Unioned) Ty {
	members := u.members()
	if len(members) == 0 {
		return TNone()
	}
	if len(members) == 1 {
		return members[0]
	}
	uc := u
	return Ty{kind: tyUnion, union: &uc}
}

func (u *Unioned) Equal(o *Unioned) bool {
	if u.simple != o.simple {
		return false
	}
	if !u.numbers.Equal(o.numbers) || !u.strings.Equal(o.strings) {
		return false
	}
	if !u.tables.Equal(o.tables) || !u.functions.Equal(o.functions) {
		return false
	}
	if len(u.classes) != len(o.classes) {
		return false
	}
	for c := range u.classes {
		if _, ok := o.classes[c]; !ok {
			return false
		}
	}
	if (u.tvar == nil) != (o.tvar == nil) {
		return false
	}
	if u.tvar != nil && *u.tvar != *o.tvar {
		return false
	}
	return true
}

func (u *Unioned) String() string {
	out := ""
	add := func(s string) {
		if out != "" {
			out += " | "
		}
		out += s
	}
	for _, m := range u.members() {
		add(m.String())
	}
	if out == "" {
		return "<bottom>"
	}
	return out
}
