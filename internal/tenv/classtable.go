package tenv

import "github.com/nxgtri/funxycheck/internal/types"

// ClassTable resolves nominal subclass relations. The type algebra in
// package types calls ctx.IsSubclassOf but has no way to define the
// relation itself — it has to live alongside the rest of the checking
// session's declarations, which is what Context supplies here via an
// adjacency-list DAG with memoized reachability.
type ClassTable struct {
	parents map[string][]string
	cache   map[[2]string]bool
}

func NewClassTable() *ClassTable {
	return &ClassTable{parents: map[string][]string{}, cache: map[[2]string]bool{}}
}

// Declare registers that class extends each of the given superclasses.
func (t *ClassTable) Declare(class types.Class, superclasses ...types.Class) {
	names := make([]string, len(superclasses))
	for i, s := range superclasses {
		names[i] = s.Name
	}
	t.parents[class.Name] = append(t.parents[class.Name], names...)
	t.cache = map[[2]string]bool{}
}

// IsSubclassOf reports whether sub transitively extends super.
func (t *ClassTable) IsSubclassOf(sub, super types.Class) bool {
	if sub.Equal(super) {
		return true
	}
	key := [2]string{sub.Name, super.Name}
	if v, ok := t.cache[key]; ok {
		return v
	}
	visited := map[string]bool{}
	result := t.reaches(sub.Name, super.Name, visited)
	t.cache[key] = result
	return result
}

func (t *ClassTable) reaches(from, to string, visited map[string]bool) bool {
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, p := range t.parents[from] {
		if p == to || t.reaches(p, to, visited) {
			return true
		}
	}
	return false
}
