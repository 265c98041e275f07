package types

import (
	"fmt"
	"sort"
)

// KeyKind distinguishes the two kinds of known table keys: integer indices
// (tuple/array-style) and string fields (record-style). Both live in the
// same Fields map, since the later generation unifies what an earlier
// generation split into separate Record and Tuple shapes.
type KeyKind int

const (
	KeyInt KeyKind = iota
	KeyStr
)

type Key struct {
	Kind KeyKind
	Int  int64
	Str  string
}

func IntKey(i int64) Key  { return Key{Kind: KeyInt, Int: i} }
func StrKey(s string) Key { return Key{Kind: KeyStr, Str: s} }

func (k Key) String() string {
	if k.Kind == KeyInt {
		return itoa(k.Int)
	}
	return k.Str
}

// F is the flexibility (mutability) tag of a table slot. Just/Var/Const are
// the three fixed flavors; Currently is Var's "not yet settled" cousin used
// for a local's freshly-inferred table shape; VarOrConst and VarOrCurrently
// are mark-gated — which of the two named flavors they actually behave as
// isn't decided at the point the slot is built, only once the mark solver
// (package marks, consulted through TypeContext.ResolveMark) commits their
// Mark to true or false.
type F int

const (
	FJust           F = iota // a literal value slot, e.g. one synthesized for a literal key lookup
	FVar                     // the slot may be reassigned a different (sub)type later: invariant
	FConst                   // the slot's type never changes after initialization: covariant
	FCurrently               // not yet settled Var: covariant for now, but still propagates marks
	FVarOrConst              // behaves as Const once Mark resolves true, Var otherwise
	FVarOrCurrently          // behaves as Currently once Mark resolves true, Var otherwise
)

// Slot pairs a value type with its flexibility. Mark is only meaningful
// when Flex is FVarOrConst or FVarOrCurrently; every other flavor leaves it
// at its zero value.
type Slot struct {
	Flex F
	Type Ty
	Mark Mark
}

func NewSlot(flex F, t Ty) Slot { return Slot{Flex: flex, Type: t} }

// NewMarkedSlot builds a mark-gated slot (flex must be FVarOrConst or
// FVarOrCurrently).
func NewMarkedSlot(flex F, t Ty, mark Mark) Slot {
	return Slot{Flex: flex, Type: t, Mark: mark}
}

func (s Slot) Union(o Slot) Slot {
	flex := FConst
	if s.Flex == FVar || o.Flex == FVar {
		flex = FVar
	}
	return Slot{Flex: flex, Type: s.Type.Union(o.Type)}
}

func (s Slot) Equal(o Slot) bool {
	return s.Flex == o.Flex && s.Type.Equal(o.Type)
}

// effectiveFlex resolves a mark-gated flavor down to the flavor it actually
// behaves as right now. A plain, non-gated flavor is returned as is. A
// gated flavor whose mark is unresolved (or resolved false) falls back to
// FVar, the strictest (invariant) option, since a flex that might still
// resolve toward mutability can't be soundly treated as covariant in the
// meantime.
func (s Slot) effectiveFlex(ctx TypeContext) F {
	switch s.Flex {
	case FVarOrConst:
		if v, ok := ctx.ResolveMark(s.Mark); ok && v {
			return FConst
		}
		return FVar
	case FVarOrCurrently:
		if v, ok := ctx.ResolveMark(s.Mark); ok && v {
			return FCurrently
		}
		return FVar
	default:
		return s.Flex
	}
}

func (s Slot) flexMark() (Mark, bool) {
	if s.Flex == FVarOrConst || s.Flex == FVarOrCurrently {
		return s.Mark, true
	}
	return 0, false
}

// AssertSub asserts that a slot typed s may stand in for one typed o: Var
// (after mark resolution) requires the two value types to be identical,
// since both sides of the subtyping relation might write through the slot;
// every other flavor only requires s.Type <: o.Type. For Currently,
// linkFlexMarks is called first, and it links the two slots' marks by
// implication only when both are mark-gated and both marks are still
// unresolved. o reaches the Currently case only as a plain Currently slot
// or once its own mark has resolved true, so this path records no
// implication; the comparison is always decided by s.Type <: o.Type.
func (s Slot) AssertSub(o Slot, ctx TypeContext) error {
	switch o.effectiveFlex(ctx) {
	case FVar:
		if !s.Type.Equal(o.Type) {
			return fmt.Errorf("invariant (var) slot requires identical types: %s and %s", s.Type, o.Type)
		}
		return nil
	case FCurrently:
		if err := linkFlexMarks(s, o, ctx); err != nil {
			return err
		}
		return s.Type.AssertSub(o.Type, ctx)
	default: // FConst, FJust
		return s.Type.AssertSub(o.Type, ctx)
	}
}

func linkFlexMarks(s, o Slot, ctx TypeContext) error {
	sm, sok := s.flexMark()
	om, ook := o.flexMark()
	if !sok || !ook {
		return nil
	}
	if _, known := ctx.ResolveMark(sm); known {
		return nil
	}
	if _, known := ctx.ResolveMark(om); known {
		return nil
	}
	return ctx.AssertMarkImply(sm, om)
}

// SlotWithNil is a Slot that also tracks whether the underlying container
// may yield nil for a missing key (array holes, absent map entries).
type SlotWithNil struct {
	Slot    Slot
	Nilable bool
}

func (s SlotWithNil) Union(o SlotWithNil) SlotWithNil {
	return SlotWithNil{Slot: s.Slot.Union(o.Slot), Nilable: s.Nilable || o.Nilable}
}

func (s SlotWithNil) Equal(o SlotWithNil) bool {
	return s.Nilable == o.Nilable && s.Slot.Equal(o.Slot)
}

// AssertSub asserts that s may stand in for o: a possibly-nil slot can't
// satisfy a slot the supertype promises is never nil, and otherwise it
// reduces to the wrapped Slot's own flexibility-respecting comparison.
func (s SlotWithNil) AssertSub(o SlotWithNil, ctx TypeContext) error {
	if s.Nilable && !o.Nilable {
		return fmt.Errorf("a possibly-nil slot is not a subtype of a non-nilable slot")
	}
	return s.Slot.AssertSub(o.Slot, ctx)
}

type tableTier int

const (
	tblNone tableTier = iota
	tblEmpty
	tblFields
	tblArray
	tblMap
	tblAll
)

// Tables is the shape lattice over table values: the empty table (no known
// fields), a fixed set of known integer/string-keyed fields (records and
// tuples unified), a homogeneous array, a homogeneous key/value map, or any
// table shape at all.
type Tables struct {
	tier   tableTier
	fields map[Key]Slot
	elem   SlotWithNil  // for Array
	mapKey Ty           // for Map
	mapVal SlotWithNil  // for Map
}

func TablesNone() Tables  { return Tables{tier: tblNone} }
func TablesEmpty() Tables { return Tables{tier: tblEmpty} }
func TablesAll() Tables   { return Tables{tier: tblAll} }

func TablesFields(fields map[Key]Slot) Tables {
	if len(fields) == 0 {
		return TablesEmpty()
	}
	return Tables{tier: tblFields, fields: fields}
}

func TablesArray(elem SlotWithNil) Tables {
	return Tables{tier: tblArray, elem: elem}
}

func TablesMap(key Ty, val SlotWithNil) Tables {
	return Tables{tier: tblMap, mapKey: key, mapVal: val}
}

func (t Tables) IsNone() bool  { return t.tier == tblNone }
func (t Tables) IsAll() bool   { return t.tier == tblAll }
func (t Tables) IsEmpty() bool { return t.tier == tblEmpty }

func (t Tables) Fields() (map[Key]Slot, bool) {
	if t.tier == tblFields {
		return t.fields, true
	}
	return nil, false
}

func (t Tables) Array() (SlotWithNil, bool) {
	if t.tier == tblArray {
		return t.elem, true
	}
	return SlotWithNil{}, false
}

func (t Tables) Map() (Ty, SlotWithNil, bool) {
	if t.tier == tblMap {
		return t.mapKey, t.mapVal, true
	}
	return Ty{}, SlotWithNil{}, false
}

// unionAllValues collects every slot value type reachable from t into a
// single SlotWithNil, used when a shape mismatch forces promotion to Map.
func (t Tables) unionAllValues() SlotWithNil {
	switch t.tier {
	case tblFields:
		var acc SlotWithNil
		first := true
		for _, s := range t.fields {
			sn := SlotWithNil{Slot: s}
			if first {
				acc, first = sn, false
			} else {
				acc = acc.Union(sn)
			}
		}
		return acc
	case tblArray:
		return t.elem
	case tblMap:
		return t.mapVal
	default:
		return SlotWithNil{}
	}
}

func (t Tables) keyTypeUnion() Ty {
	switch t.tier {
	case tblFields:
		var acc Ty
		first := true
		for k := range t.fields {
			var kt Ty
			if k.Kind == KeyInt {
				kt = TInt(NumbersOne(k.Int))
			} else {
				kt = TStr(StringsOne(k.Str))
			}
			if first {
				acc, first = kt, false
			} else {
				acc = acc.Union(kt)
			}
		}
		return acc
	case tblArray:
		return TInt(NumbersInt())
	case tblMap:
		return t.mapKey
	default:
		return TNone()
	}
}

// Union computes the least upper bound of t and o. Mismatched known shapes
// (e.g. a record union'd with an array) are promoted to a generic Map whose
// key and value types summarize every field/element/key-value type seen on
// either side — the same promotion the reference lattice performs rather
// than rejecting the union outright.
func (t Tables) Union(o Tables) Tables {
	switch {
	case t.tier == tblNone:
		return o
	case o.tier == tblNone:
		return t
	case t.tier == tblAll || o.tier == tblAll:
		return TablesAll()
	case t.tier == tblEmpty && o.tier == tblEmpty:
		return TablesEmpty()
	case t.tier == tblEmpty:
		return o
	case o.tier == tblEmpty:
		return t
	case t.tier == tblFields && o.tier == tblFields:
		return unionFields(t.fields, o.fields)
	case t.tier == tblArray && o.tier == tblArray:
		return TablesArray(t.elem.Union(o.elem))
	default:
		key := t.keyTypeUnion().Union(o.keyTypeUnion())
		val := t.unionAllValues().Union(o.unionAllValues())
		return TablesMap(key, val)
	}
}

func unionFields(a, b map[Key]Slot) Tables {
	sameKeys := len(a) == len(b)
	if sameKeys {
		for k := range a {
			if _, ok := b[k]; !ok {
				sameKeys = false
				break
			}
		}
	}
	if sameKeys {
		merged := make(map[Key]Slot, len(a))
		for k, s := range a {
			merged[k] = s.Union(b[k])
		}
		return TablesFields(merged)
	}
	keyU := Tables{tier: tblFields, fields: a}.keyTypeUnion().Union(Tables{tier: tblFields, fields: b}.keyTypeUnion())
	valU := Tables{tier: tblFields, fields: a}.unionAllValues().Union(Tables{tier: tblFields, fields: b}.unionAllValues())
	return TablesMap(keyU, valU)
}

// Intersect computes the greatest lower bound, filtering fields from a
// Fields shape against the admissible key set of a Map on the other side —
// a Map whose key type carries the Dynamic flag admits any key. An Array
// meeting a Map or a Fields shape intersects to TablesNone.
func (t Tables) Intersect(o Tables) Tables {
	switch {
	case t.tier == tblAll:
		return o
	case o.tier == tblAll:
		return t
	case t.tier == tblNone || o.tier == tblNone:
		return TablesNone()
	case t.tier == tblEmpty || o.tier == tblEmpty:
		return TablesEmpty()
	case t.tier == tblFields && o.tier == tblFields:
		return intersectFields(t.fields, o.fields)
	case t.tier == tblArray && o.tier == tblArray:
		return TablesArray(SlotWithNil{
			Slot:    Slot{Flex: FConst, Type: t.elem.Slot.Type.Intersect(o.elem.Slot.Type)},
			Nilable: t.elem.Nilable && o.elem.Nilable,
		})
	case t.tier == tblMap && o.tier == tblFields:
		return intersectMapFields(t.mapKey, t.mapVal, o.fields)
	case o.tier == tblMap && t.tier == tblFields:
		return intersectMapFields(o.mapKey, o.mapVal, t.fields)
	case t.tier == tblMap && o.tier == tblMap:
		return TablesMap(t.mapKey.Intersect(o.mapKey), SlotWithNil{
			Slot:    Slot{Flex: FConst, Type: t.mapVal.Slot.Type.Intersect(o.mapVal.Slot.Type)},
			Nilable: t.mapVal.Nilable && o.mapVal.Nilable,
		})
	default:
		return TablesNone()
	}
}

func intersectFields(a, b map[Key]Slot) Tables {
	out := map[Key]Slot{}
	for k, sa := range a {
		if sb, ok := b[k]; ok {
			out[k] = Slot{Flex: FConst, Type: sa.Type.Intersect(sb.Type)}
		}
	}
	return TablesFields(out)
}

func intersectMapFields(key Ty, val SlotWithNil, fields map[Key]Slot) Tables {
	out := map[Key]Slot{}
	for k, s := range fields {
		var kt Ty
		if k.Kind == KeyInt {
			kt = TInt(NumbersOne(k.Int))
		} else {
			kt = TStr(StringsOne(k.Str))
		}
		if key.Flags().Has(FlagDynamic) || key.Union(kt).Equal(key) {
			out[k] = Slot{Flex: FConst, Type: s.Type.Intersect(val.Slot.Type)}
		}
	}
	return TablesFields(out)
}

func (t Tables) Equal(o Tables) bool {
	if t.tier != o.tier {
		// an empty Fields map is normalized away by TablesFields, so no
		// cross-tier equalities remain to special-case here.
		return false
	}
	switch t.tier {
	case tblFields:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for k, s := range t.fields {
			os, ok := o.fields[k]
			if !ok || !s.Equal(os) {
				return false
			}
		}
		return true
	case tblArray:
		return t.elem.Equal(o.elem)
	case tblMap:
		return t.mapKey.Equal(o.mapKey) && t.mapVal.Equal(o.mapVal)
	default:
		return true
	}
}

// AssertSub implements the structural table subtyping §4.2 calls for,
// replacing the old Union-then-Equal shortcut (sound only for the flat
// Numbers/Strings lattices, not for Tables): record width subtyping (t may
// carry more fields than o asks for, each shared field compared per-slot),
// array-to-map, and tuple-to-array, all delegating the per-value comparison
// to Slot/SlotWithNil.AssertSub so flexibility is respected throughout.
func (t Tables) AssertSub(o Tables, ctx TypeContext) error {
	switch {
	case o.tier == tblAll:
		return nil
	case t.tier == tblNone:
		return nil
	case t.tier == tblAll:
		return fmt.Errorf("table (any shape) is not a subtype of %s", o)
	case o.tier == tblNone:
		return fmt.Errorf("%s is not a subtype of <no table>", t)
	case t.tier == tblEmpty:
		return emptyTableAssertSub(o)
	case t.tier == tblFields && o.tier == tblFields:
		return fieldsAssertSub(t.fields, o.fields, ctx)
	case t.tier == tblFields && o.tier == tblEmpty:
		if len(t.fields) == 0 {
			return nil
		}
		return fmt.Errorf("%s is not a subtype of {}", t)
	case t.tier == tblFields && o.tier == tblArray:
		return tupleAssertSubArray(t.fields, o.elem, ctx)
	case t.tier == tblFields && o.tier == tblMap:
		return fieldsAssertSubMap(t.fields, o.mapKey, o.mapVal, ctx)
	case t.tier == tblArray && o.tier == tblArray:
		return t.elem.AssertSub(o.elem, ctx)
	case t.tier == tblArray && o.tier == tblMap:
		if err := TInt(NumbersInt()).AssertSub(o.mapKey, ctx); err != nil {
			return fmt.Errorf("array index is not a subtype of map key %s: %w", o.mapKey, err)
		}
		return t.elem.AssertSub(o.mapVal, ctx)
	case t.tier == tblMap && o.tier == tblMap:
		if err := o.mapKey.AssertSub(t.mapKey, ctx); err != nil {
			return fmt.Errorf("map key %s is not a subtype of %s: %w", o.mapKey, t.mapKey, err)
		}
		return t.mapVal.AssertSub(o.mapVal, ctx)
	default:
		return fmt.Errorf("%s is not a subtype of %s", t, o)
	}
}

// emptyTableAssertSub handles t == {}: vacuously a subtype of any array or
// map (no elements to violate the element type) and of a Fields shape only
// if that shape also has no fields (an empty Fields map is itself
// normalized to Empty by TablesFields, so this only matters when comparing
// against a Tables value built some other way).
func emptyTableAssertSub(o Tables) error {
	switch o.tier {
	case tblEmpty, tblArray, tblMap:
		return nil
	case tblFields:
		if len(o.fields) == 0 {
			return nil
		}
		return fmt.Errorf("{} is not a subtype of a record with fields")
	default:
		return fmt.Errorf("{} is not a subtype of that table shape")
	}
}

// fieldsAssertSub is record width subtyping: every field o requires must be
// present in t (t may carry extra fields beyond what o asks for) and compare
// per-slot through Slot.AssertSub.
func fieldsAssertSub(t, o map[Key]Slot, ctx TypeContext) error {
	for k, os := range o {
		ts, ok := t[k]
		if !ok {
			return fmt.Errorf("missing field %s required by the supertype record", k)
		}
		if err := ts.AssertSub(os, ctx); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
	}
	return nil
}

// tupleAssertSubArray implements "tuple <: array(v) iff each element <: v":
// every field key must be an integer index (a record with any string key
// can never stand in for an array) and every element slot must subtype the
// array's element slot.
func tupleAssertSubArray(fields map[Key]Slot, elem SlotWithNil, ctx TypeContext) error {
	for k, s := range fields {
		if k.Kind != KeyInt {
			return fmt.Errorf("record field %s cannot be used where an array is expected", k)
		}
		if err := (SlotWithNil{Slot: s}).AssertSub(elem, ctx); err != nil {
			return fmt.Errorf("tuple element %s: %w", k, err)
		}
	}
	return nil
}

// fieldsAssertSubMap implements record-to-map width subtyping: every field's
// own key type must fall under the map's key type and every field's slot
// must subtype the map's value slot.
func fieldsAssertSubMap(fields map[Key]Slot, mapKey Ty, mapVal SlotWithNil, ctx TypeContext) error {
	for k, s := range fields {
		var kt Ty
		if k.Kind == KeyInt {
			kt = TInt(NumbersOne(k.Int))
		} else {
			kt = TStr(StringsOne(k.Str))
		}
		if err := kt.AssertSub(mapKey, ctx); err != nil {
			return fmt.Errorf("field key %s is not a subtype of map key %s: %w", k, mapKey, err)
		}
		if err := (SlotWithNil{Slot: s}).AssertSub(mapVal, ctx); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
	}
	return nil
}

func (t Tables) String() string {
	switch t.tier {
	case tblNone:
		return "<no table>"
	case tblEmpty:
		return "{}"
	case tblAll:
		return "table"
	case tblArray:
		return "{" + t.elem.Slot.Type.String() + "...}"
	case tblMap:
		return "{[" + t.mapKey.String() + "] = " + t.mapVal.Slot.Type.String() + "}"
	case tblFields:
		keys := make([]Key, 0, len(t.fields))
		for k := range t.fields {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ", "
			}
			out += k.String() + " = " + t.fields[k].Type.String()
		}
		return out + "}"
	default:
		return "<table>"
	}
}
