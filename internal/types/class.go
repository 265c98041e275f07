package types

// Class is a nominal type tag: a declared class name. Subtype relations
// between classes are resolved externally (see tenv.ClassTable) — this
// package only carries the tag and structural equality between tags of the
// same name.
type Class struct {
	Name string
}

func NewClass(name string) Class { return Class{Name: name} }

func (c Class) Equal(o Class) bool { return c.Name == o.Name }

func (c Class) String() string { return c.Name }
