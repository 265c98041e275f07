package types

import "fmt"

// TySeq is a fixed prefix of argument/return types plus an optional
// variadic tail type absorbing any further positions.
type TySeq struct {
	Fixed []Ty
	Var   *Ty // nil if the sequence has no variadic tail
}

func (s TySeq) Equal(o TySeq) bool {
	if len(s.Fixed) != len(o.Fixed) {
		return false
	}
	for i := range s.Fixed {
		if !s.Fixed[i].Equal(o.Fixed[i]) {
			return false
		}
	}
	if (s.Var == nil) != (o.Var == nil) {
		return false
	}
	if s.Var != nil && !s.Var.Equal(*o.Var) {
		return false
	}
	return true
}

// at returns the type occupying position i: a fixed element, the variadic
// tail's type once i runs past the fixed prefix, or Nil once there's no
// variadic tail left to absorb it (an absent trailing argument/return is
// nil, the same convention the rest of the checker uses for missing
// values).
func (s TySeq) at(i int) Ty {
	if i < len(s.Fixed) {
		return s.Fixed[i]
	}
	if s.Var != nil {
		return *s.Var
	}
	return TNil()
}

// AssertSub compares two sequences position by position, padding whichever
// side is shorter out to the longer fixed-prefix length with its variadic
// tail (or Nil) before comparing, and finally comparing the two variadic
// tails themselves if o declares one.
func (s TySeq) AssertSub(o TySeq, ctx TypeContext) error {
	n := len(s.Fixed)
	if len(o.Fixed) > n {
		n = len(o.Fixed)
	}
	for i := 0; i < n; i++ {
		if err := s.at(i).AssertSub(o.at(i), ctx); err != nil {
			return fmt.Errorf("position %d: %w", i+1, err)
		}
	}
	if o.Var != nil {
		st := TNil()
		if s.Var != nil {
			st = *s.Var
		}
		if err := st.AssertSub(*o.Var, ctx); err != nil {
			return fmt.Errorf("variadic tail: %w", err)
		}
	}
	return nil
}

func (s TySeq) String() string {
	out := "("
	for i, t := range s.Fixed {
		if i > 0 {
			out += ", "
		}
		out += t.String()
	}
	if s.Var != nil {
		if len(s.Fixed) > 0 {
			out += ", "
		}
		out += s.Var.String() + "..."
	}
	return out + ")"
}

// Function is one concrete call signature.
type Function struct {
	Args    TySeq
	Returns TySeq
}

func (f Function) Equal(o Function) bool {
	return f.Args.Equal(o.Args) && f.Returns.Equal(o.Returns)
}

func (f Function) String() string {
	return f.Args.String() + " -> " + f.Returns.String()
}

// AssertSub asserts f <: o: contravariant in arguments (o must be callable
// with anything f accepts, so o's argument types must subtype f's, the
// reverse of the usual direction) and covariant in returns (f's returns
// must subtype o's, since a caller of o expecting o's returns is satisfied
// by anything f actually hands back).
func (f Function) AssertSub(o Function, ctx TypeContext) error {
	if err := o.Args.AssertSub(f.Args, ctx); err != nil {
		return fmt.Errorf("argument types are not contravariant: %w", err)
	}
	if err := f.Returns.AssertSub(o.Returns, ctx); err != nil {
		return fmt.Errorf("return types are not covariant: %w", err)
	}
	return nil
}

type functionsTier int

const (
	fnNone functionsTier = iota
	fnSimple
	fnMulti
	fnAll
)

// Functions is the shape lattice over function values: no function at all,
// a single known signature, a disjunctive-normal-form set of overload
// groups (each group is a conjunction — a value must satisfy every
// signature in the group simultaneously, and the value satisfies the whole
// set if it satisfies any one group), or any function whatsoever.
type Functions struct {
	tier   functionsTier
	simple Function
	multi  [][]Function // outer: OR of groups, inner: AND within a group
}

func FunctionsNone() Functions { return Functions{tier: fnNone} }
func FunctionsAll() Functions  { return Functions{tier: fnAll} }

func FunctionsSimple(f Function) Functions {
	return Functions{tier: fnSimple, simple: f}
}

func FunctionsMulti(groups [][]Function) Functions {
	if len(groups) == 0 {
		return FunctionsNone()
	}
	if len(groups) == 1 && len(groups[0]) == 1 {
		return FunctionsSimple(groups[0][0])
	}
	return Functions{tier: fnMulti, multi: groups}
}

func (f Functions) IsNone() bool { return f.tier == fnNone }
func (f Functions) IsAll() bool  { return f.tier == fnAll }

func (f Functions) asGroups() [][]Function {
	switch f.tier {
	case fnNone:
		return nil
	case fnSimple:
		return [][]Function{{f.simple}}
	case fnMulti:
		return f.multi
	default:
		return nil
	}
}

// Union concatenates the overload groups of f and o: a value satisfying
// either side's set of groups satisfies the union.
func (f Functions) Union(o Functions) Functions {
	if f.tier == fnAll || o.tier == fnAll {
		return FunctionsAll()
	}
	if f.tier == fnNone {
		return o
	}
	if o.tier == fnNone {
		return f
	}
	return FunctionsMulti(append(append([][]Function{}, f.asGroups()...), o.asGroups()...))
}

// Intersect distributes the OR of f's groups over the OR of o's groups,
// producing one combined (AND) group per pair — the cross-product-concat
// the reference lattice uses so "f1|f2" intersected with "f3|f4" yields
// every group that must hold simultaneously under at least one pairing.
// Intersecting a set with an equal set returns it unchanged.
func (f Functions) Intersect(o Functions) Functions {
	if f.tier == fnAll {
		return o
	}
	if o.tier == fnAll {
		return f
	}
	if f.tier == fnNone || o.tier == fnNone {
		return FunctionsNone()
	}
	if f.Equal(o) {
		return f
	}
	var out [][]Function
	for _, gi := range f.asGroups() {
		for _, gj := range o.asGroups() {
			combined := make([]Function, 0, len(gi)+len(gj))
			combined = append(combined, gi...)
			combined = append(combined, gj...)
			out = append(out, combined)
		}
	}
	return FunctionsMulti(out)
}

// SoleSignature returns the one signature a call site can check arguments
// against: the simple case directly, or a single-group multi (every
// signature in that lone AND-group must hold, so the first is
// representative enough for a conservative arity/type check). A multi-group
// (OR) set or an all/none function has no single representative signature.
func (f Functions) SoleSignature() (Function, bool) {
	switch f.tier {
	case fnSimple:
		return f.simple, true
	case fnMulti:
		if len(f.multi) == 1 && len(f.multi[0]) > 0 {
			return f.multi[0][0], true
		}
	}
	return Function{}, false
}

// AssertSub replaces the old Union-then-Equal shortcut (sound only for the
// flat Numbers/Strings lattices) with the real overload-intersection rule:
// f <: o iff every OR-alternative f might actually be satisfies o, and a
// single AND-group fg satisfies a single AND-group og iff every signature
// og asks for is covered by at least one signature in fg — "f1∧f2 <: g iff
// some fi <: g" and "f <: g1∧g2 iff f <: gi for all i" composed together.
func (f Functions) AssertSub(o Functions, ctx TypeContext) error {
	switch {
	case o.tier == fnAll:
		return nil
	case f.tier == fnNone:
		return nil
	case f.tier == fnAll:
		return fmt.Errorf("function (any signature) is not a subtype of %s", o)
	case o.tier == fnNone:
		return fmt.Errorf("%s is not a subtype of <no function>", f)
	}
	oGroups := o.asGroups()
	for _, fg := range f.asGroups() {
		if err := groupAssertSubAnyOf(fg, oGroups, ctx); err != nil {
			return err
		}
	}
	return nil
}

// groupAssertSubAnyOf checks whether the intersection group fg (a value
// conforming to every signature in fg at once) is a subtype of at least one
// of o's OR-alternatives, matching how a bare Ty's AssertSub tries each
// member of a union on the right-hand side in turn.
func groupAssertSubAnyOf(fg []Function, oGroups [][]Function, ctx TypeContext) error {
	var lastErr error
	for _, og := range oGroups {
		if err := groupAssertSub(fg, og, ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no overload group is compatible")
	}
	return lastErr
}

// groupAssertSub checks fg <: og, og itself an AND-group: every signature og
// requires must be matched ("f <: g1∧g2 iff f <: gi for all i"), and fg may
// satisfy any one of them with any single one of its own signatures
// ("f1∧f2 <: g iff some fi <: g").
func groupAssertSub(fg []Function, og []Function, ctx TypeContext) error {
	for _, g := range og {
		matched := false
		var lastErr error
		for _, f := range fg {
			if err := f.AssertSub(g, ctx); err == nil {
				matched = true
				break
			} else {
				lastErr = err
			}
		}
		if !matched {
			if lastErr == nil {
				lastErr = fmt.Errorf("no signature satisfies %s", g)
			}
			return lastErr
		}
	}
	return nil
}

func (f Functions) Equal(o Functions) bool {
	fg, og := f.asGroups(), o.asGroups()
	if f.tier == fnAll || o.tier == fnAll {
		return f.tier == fnAll && o.tier == fnAll
	}
	if len(fg) != len(og) {
		return false
	}
	for i := range fg {
		if len(fg[i]) != len(og[i]) {
			return false
		}
		for j := range fg[i] {
			if !fg[i][j].Equal(og[i][j]) {
				return false
			}
		}
	}
	return true
}

func (f Functions) String() string {
	switch f.tier {
	case fnNone:
		return "<no function>"
	case fnAll:
		return "function"
	case fnSimple:
		return f.simple.String()
	default:
		out := ""
		for i, g := range f.multi {
			if i > 0 {
				out += " | "
			}
			for j, fn := range g {
				if j > 0 {
					out += " & "
				}
				out += fn.String()
			}
		}
		return out
	}
}
