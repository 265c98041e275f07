package constraints

import "testing"

func TestPartitionsFindIsIdentityForUnseenElement(t *testing.T) {
	p := NewPartitions[int]()
	if got := p.Find(42); got != 42 {
		t.Fatalf("expected an element never Ensure'd/Union'd to be its own representative, got %d", got)
	}
}

func TestPartitionsEnsureCreatesZeroValuePayload(t *testing.T) {
	p := NewPartitions[int]()
	v := p.Ensure(3)
	if *v != 0 {
		t.Fatalf("expected a freshly Ensure'd entry to carry the zero value, got %d", *v)
	}
	*v = 7
	if got := *p.Ensure(3); got != 7 {
		t.Fatalf("expected Ensure on an existing entry to return the same payload, got %d", got)
	}
}

func TestPartitionsGetFailsWithoutEnsure(t *testing.T) {
	p := NewPartitions[int]()
	if _, ok := p.Get(5); ok {
		t.Fatalf("expected Get to report false for an element never Ensure'd")
	}
}

func TestPartitionsUnionMergesAndPathCompresses(t *testing.T) {
	p := NewPartitions[int]()
	p.Union(1, 2)
	p.Union(2, 3)
	r1 := p.Find(1)
	r2 := p.Find(2)
	r3 := p.Find(3)
	if r1 != r2 || r2 != r3 {
		t.Fatalf("expected 1, 2, and 3 to share one representative, got %d %d %d", r1, r2, r3)
	}
}

func TestPartitionsUnionIsNoopWhenAlreadySamePartition(t *testing.T) {
	p := NewPartitions[int]()
	p.Union(1, 2)
	rep := p.Union(1, 2)
	if rep != p.Find(1) {
		t.Fatalf("expected re-union of an already-merged pair to return the existing representative")
	}
}

func TestPartitionsUnionPreservesPayloadAtWhicheverSideBecomesRepresentative(t *testing.T) {
	p := NewPartitions[string]()
	*p.Ensure(1) = "left"
	*p.Ensure(2) = "right"
	rep := p.Union(1, 2)
	// Union never touches payloads itself (see its doc comment) — the
	// representative's own entry keeps whichever string it already had.
	got, ok := p.Get(rep)
	if !ok {
		t.Fatalf("expected the representative to still have a payload entry")
	}
	if got == nil || (*got != "left" && *got != "right") {
		t.Fatalf("expected the representative's original payload to survive untouched, got %q", *got)
	}
}
