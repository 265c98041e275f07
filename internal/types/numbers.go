package types

import "sort"

type numberTier int

const (
	numNone numberTier = iota
	numOne
	numSome
	numInt
	numAll
)

// Numbers is the literal-set lattice over numeric values: the empty set,
// a single known integer literal, a finite set of known integer literals,
// any integer, or any number (integer or not).
type Numbers struct {
	tier numberTier
	one  int64
	set  map[int64]struct{}
}

func NumbersNone() Numbers { return Numbers{tier: numNone} }
func NumbersOne(v int64) Numbers { return Numbers{tier: numOne, one: v} }
func NumbersInt() Numbers { return Numbers{tier: numInt} }
func NumbersAll() Numbers { return Numbers{tier: numAll} }

func NumbersSet(vs ...int64) Numbers {
	switch len(vs) {
	case 0:
		return NumbersNone()
	case 1:
		return NumbersOne(vs[0])
	}
	set := make(map[int64]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return normalizeSome(set)
}

func normalizeSome(set map[int64]struct{}) Numbers {
	if len(set) == 0 {
		return NumbersNone()
	}
	if len(set) == 1 {
		for v := range set {
			return NumbersOne(v)
		}
	}
	return Numbers{tier: numSome, set: set}
}

func (n Numbers) IsNone() bool { return n.tier == numNone }
func (n Numbers) IsAll() bool  { return n.tier == numAll }

// Literals returns the finite set of known integer literals admitted by n,
// and false if n is not a finite literal set (None counts as the empty set).
func (n Numbers) Literals() ([]int64, bool) {
	switch n.tier {
	case numNone:
		return nil, true
	case numOne:
		return []int64{n.one}, true
	case numSome:
		out := make([]int64, 0, len(n.set))
		for v := range n.set {
			out = append(out, v)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out, true
	default:
		return nil, false
	}
}

func (n Numbers) asSet() map[int64]struct{} {
	switch n.tier {
	case numNone:
		return map[int64]struct{}{}
	case numOne:
		return map[int64]struct{}{n.one: {}}
	case numSome:
		return n.set
	default:
		return nil
	}
}

// Union computes the least upper bound of n and m in the Numbers lattice.
func (n Numbers) Union(m Numbers) Numbers {
	if n.tier > m.tier {
		n, m = m, n
	}
	switch {
	case n.tier == numNone:
		return m
	case m.tier == numAll:
		return NumbersAll()
	case m.tier == numInt:
		return NumbersInt()
	default: // both finite (None already handled, so One or Some on both sides)
		merged := map[int64]struct{}{}
		for v := range n.asSet() {
			merged[v] = struct{}{}
		}
		for v := range m.asSet() {
			merged[v] = struct{}{}
		}
		return normalizeSome(merged)
	}
}

// Intersect computes the greatest lower bound of n and m.
func (n Numbers) Intersect(m Numbers) Numbers {
	if n.tier == numAll {
		return m
	}
	if m.tier == numAll {
		return n
	}
	if n.tier == numNone || m.tier == numNone {
		return NumbersNone()
	}
	if n.tier == numInt && m.tier == numInt {
		return NumbersInt()
	}
	if n.tier == numInt {
		return m
	}
	if m.tier == numInt {
		return n
	}
	result := map[int64]struct{}{}
	small, big := n.asSet(), m.asSet()
	if len(big) < len(small) {
		small, big = big, small
	}
	for v := range small {
		if _, ok := big[v]; ok {
			result[v] = struct{}{}
		}
	}
	return normalizeSome(result)
}

// Equal reports lattice equality: an empty literal set is None regardless of
// tier, and otherwise tiers and contents must match exactly.
func (n Numbers) Equal(m Numbers) bool {
	if n.tier == numAll || m.tier == numAll {
		return n.tier == numAll && m.tier == numAll
	}
	if n.tier == numInt || m.tier == numInt {
		return n.tier == numInt && m.tier == numInt
	}
	ns, ms := n.asSet(), m.asSet()
	if len(ns) != len(ms) {
		return false
	}
	for v := range ns {
		if _, ok := ms[v]; !ok {
			return false
		}
	}
	return true
}

func (n Numbers) String() string {
	switch n.tier {
	case numNone:
		return "<none>"
	case numAll:
		return "number"
	case numInt:
		return "integer"
	default:
		lits, _ := n.Literals()
		out := ""
		for i, v := range lits {
			if i > 0 {
				out += "|"
			}
			out += itoa(v)
		}
		return out
	}
}

func itoa(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
