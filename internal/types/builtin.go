package types

// BuiltinKind tags the handful of special attributes the checker attaches
// to an otherwise-ordinary type. Require marks the return type of a
// `require()` call (consumed by the module loader); Subtype/NoSubtype mark
// an annotation that opts a value explicitly into, or out of, the normal
// structural subtyping checks performed against it.
type BuiltinKind int

const (
	BuiltinRequire BuiltinKind = iota
	BuiltinSubtype
	BuiltinNoSubtype
)

// Builtin wraps an inner type with one of the attributes above. Flags and
// Equal delegate to Inner; String prefixes Require and NoSubtype values
// with "<require>" / "<nosubtype>". On the left of AssertSub the attribute
// gates whether Inner's structural rules apply: a NoSubtype value is not
// unwrapped, so it is a subtype only of the top and dynamic types (or of a
// type variable, which is handed to ctx). On the right of AssertSub a
// builtin is always unwrapped to Inner.
type Builtin struct {
	Kind  BuiltinKind
	Inner Ty
}

func NewBuiltin(kind BuiltinKind, inner Ty) Builtin {
	return Builtin{Kind: kind, Inner: inner}
}

// NeedsSubtype reports whether AssertSub should recurse into Inner's normal
// structural rules. Require and Subtype both do; NoSubtype does not.
func (b Builtin) NeedsSubtype() bool {
	return b.Kind == BuiltinRequire || b.Kind == BuiltinSubtype
}

func (b Builtin) String() string {
	switch b.Kind {
	case BuiltinRequire:
		return "<require>" + b.Inner.String()
	case BuiltinSubtype:
		return b.Inner.String()
	case BuiltinNoSubtype:
		return "<nosubtype>" + b.Inner.String()
	default:
		return b.Inner.String()
	}
}
