// Package types implements the type algebra of the checker: the flag
// bitset, the literal-set lattices for numbers and strings, the table and
// function shape lattices, and the shallow/expanded type representations
// (T, Unioned, Ty) built on top of them.
package types

// Flags is a bitset over the primitive type tags a value may carry. It is
// used both as a cheap summary of a T/Unioned (see T.Flags) and as the
// currency of Dyn-gated predicate checks: once the Dynamic bit is set, every
// is_* predicate below reports true, since a dynamically-typed value is
// compatible with any shape check a caller might perform on it.
type Flags uint32

const (
	FlagNone Flags = 0

	FlagNil Flags = 1 << iota
	FlagTrue
	FlagFalse
	FlagInteger
	FlagNumber // non-integer numeric value
	FlagString
	FlagTable
	FlagFunction
	FlagThread
	FlagUserdata
	FlagDynamic // either Dyn::User or Dyn::Oops collapsed to a single bit
)

const (
	FlagBoolean  = FlagTrue | FlagFalse
	FlagIntegral = FlagDynamic | FlagInteger
	FlagNumeric  = FlagDynamic | FlagInteger | FlagNumber
	FlagStringy  = FlagDynamic | FlagString
	FlagTabular  = FlagDynamic | FlagTable
	FlagCallable = FlagDynamic | FlagFunction
	FlagAll      = FlagNil | FlagBoolean | FlagNumeric | FlagStringy |
		FlagTabular | FlagCallable | FlagThread | FlagUserdata | FlagDynamic
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) Union(g Flags) Flags        { return f | g }
func (f Flags) Intersect(g Flags) Flags    { return f & g }
func (f Flags) WithoutDynamic() Flags       { return f &^ FlagDynamic }

// IsIntegral reports whether every value admitted by f is an integer (or f
// admits dynamic values, which are compatible with an integer expectation).
func (f Flags) IsIntegral() bool {
	return f.Has(FlagDynamic) || (f&FlagIntegral != 0 && f&^FlagIntegral == 0)
}

// IsNumeric reports whether every value admitted by f is a number (integer
// or not).
func (f Flags) IsNumeric() bool {
	return f.Has(FlagDynamic) || (f&FlagNumeric != 0 && f&^FlagNumeric == 0)
}

// IsStringy reports whether every value admitted by f is a string.
func (f Flags) IsStringy() bool {
	return f.Has(FlagDynamic) || (f&FlagStringy != 0 && f&^FlagStringy == 0)
}

// IsTabular reports whether every value admitted by f is a table.
func (f Flags) IsTabular() bool {
	return f.Has(FlagDynamic) || (f&FlagTabular != 0 && f&^FlagTabular == 0)
}

// IsCallable reports whether every value admitted by f is a function.
func (f Flags) IsCallable() bool {
	return f.Has(FlagDynamic) || (f&FlagCallable != 0 && f&^FlagCallable == 0)
}

func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	names := []struct {
		bit  Flags
		name string
	}{
		{FlagNil, "nil"}, {FlagTrue, "true"}, {FlagFalse, "false"},
		{FlagInteger, "integer"}, {FlagNumber, "number"}, {FlagString, "string"},
		{FlagTable, "table"}, {FlagFunction, "function"}, {FlagThread, "thread"},
		{FlagUserdata, "userdata"}, {FlagDynamic, "dynamic"},
	}
	out := ""
	for _, n := range names {
		if f.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}
