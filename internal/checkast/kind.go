package checkast

// Kind is the annotation-surface grammar: the syntax a user writes inline
// (`local x :: Integer`, `function f(x :: Integer) :: String`) that the
// checker translates into a types.Ty. Each concrete Kind below mirrors one
// shape the reference annotation grammar pattern-matches on.
type Kind interface {
	kindNode()
}

// KindName is a bare name reference: a builtin primitive name (Integer,
// Number, String, Boolean, Nil, Table, Function, Thread, Userdata, Any) or
// a declared class name.
type KindName struct {
	Name string
}

func (*KindName) kindNode() {}

// KindLiteral is a literal-set annotation, e.g. `1|2|3` or `"a"|"b"`.
type KindLiteral struct {
	Ints    []int64
	Strings []string
}

func (*KindLiteral) kindNode() {}

// KindField is one named field of a KindRecord.
type KindField struct {
	Name string
	Kind Kind
	// Optional marks a field that may be entirely absent (as opposed to
	// present with a nilable type).
	Optional bool
}

// KindRecord is a `{x :: Integer, y :: String}`-style fixed-shape
// annotation.
type KindRecord struct {
	Fields []KindField
}

func (*KindRecord) kindNode() {}

// KindTuple is a `{Integer, String}`-style fixed-length positional
// annotation.
type KindTuple struct {
	Elems []Kind
}

func (*KindTuple) kindNode() {}

// KindArray is a `{Integer...}`-style homogeneous array annotation.
type KindArray struct {
	Elem Kind
}

func (*KindArray) kindNode() {}

// KindMap is a `{[String] = Integer}`-style homogeneous map annotation.
type KindMap struct {
	Key Kind
	Val Kind
}

func (*KindMap) kindNode() {}

// KindFunction is a `(Integer, String) -> Boolean`-style signature
// annotation.
type KindFunction struct {
	Params  []Kind
	Vararg  Kind // nil if the signature has no variadic tail
	Returns []Kind
}

func (*KindFunction) kindNode() {}

// KindUnion is a `A | B`-style annotation.
type KindUnion struct {
	Members []Kind
}

func (*KindUnion) kindNode() {}

// KindNullable is a `Kind?`-style annotation: Kind unioned with Nil.
type KindNullable struct {
	Inner Kind
}

func (*KindNullable) kindNode() {}

// KindAttr is a `<require>Kind`/`<nosubtype>Kind`-style attributed
// annotation, translated into a types.Builtin wrapper.
type KindAttr struct {
	Attr  string
	Inner Kind
}

func (*KindAttr) kindNode() {}
