package constraints

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/types"
)

// boundEntry is the union-find payload: the representative variable's
// currently-known bound, or nil if none has been asserted yet.
type boundEntry struct {
	bound *types.Ty
}

// isTrivial reports whether a bound can still be freely overwritten: an
// absent bound, or one that resolved to the bottom type or to dynamic,
// places no real restriction on the variable yet.
func isTrivial(b *types.Ty) bool {
	if b == nil {
		return true
	}
	return b.IsNone() || b.IsDynamic()
}

func boundsEqual(a, b *types.Ty) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Constraints is one of the three bound stores (upper, lower, or exact)
// named by op ("<:", ":>", "=" respectively, used only for error messages).
type Constraints struct {
	op     string
	bounds *Partitions[boundEntry]
}

func New(op string) *Constraints {
	return &Constraints{op: op, bounds: NewPartitions[boundEntry]()}
}

// Is reports whether lhs and rhs are already known to be related through
// this store (i.e. share a representative).
func (c *Constraints) Is(lhs, rhs types.TVar) bool {
	return lhs == rhs || c.bounds.Find(int(lhs)) == c.bounds.Find(int(rhs))
}

// GetBound returns the bound currently associated with lhs's representative,
// if any.
func (c *Constraints) GetBound(lhs types.TVar) (*types.Ty, bool) {
	r := c.bounds.Find(int(lhs))
	e, ok := c.bounds.Get(r)
	if !ok || e.bound == nil {
		return nil, false
	}
	return e.bound, true
}

// AddBound records that lhs is bounded by rhs. A trivial existing bound is
// freely overwritten; a non-trivial one must exactly match rhs, or the
// variable is reported as having conflicting bounds.
func (c *Constraints) AddBound(lhs types.TVar, rhs types.Ty) error {
	r := c.bounds.Find(int(lhs))
	e := c.bounds.Ensure(r)
	if isTrivial(e.bound) {
		rc := rhs
		e.bound = &rc
		return nil
	}
	if !e.bound.Equal(rhs) {
		return fmt.Errorf("variable %v cannot have multiple %s bounds (original %s %v, later %s %v)",
			lhs, c.op, c.op, *e.bound, c.op, rhs)
	}
	return nil
}

// AddRelation merges lhs and rhs into the same partition, reconciling
// whichever bound(s) either side's representative already carried. A
// non-trivial bound on either side is kept on the merged representative;
// two non-trivial bounds must be equal, and so must two trivial ones,
// otherwise the merge fails.
func (c *Constraints) AddRelation(lhs, rhs types.TVar) error {
	if lhs == rhs {
		return nil
	}
	lr := c.bounds.Find(int(lhs))
	rr := c.bounds.Find(int(rhs))
	if lr == rr {
		return nil
	}

	var lb, rb *types.Ty
	if e, ok := c.bounds.Get(lr); ok {
		lb, e.bound = e.bound, nil
	}
	if e, ok := c.bounds.Get(rr); ok {
		rb, e.bound = e.bound, nil
	}

	var bound *types.Ty
	switch {
	case !isTrivial(lb) && !isTrivial(rb):
		if !boundsEqual(lb, rb) {
			return fmt.Errorf("variables %v/%v cannot have multiple %s bounds (left %v, right %v)",
				lhs, rhs, c.op, lb, rb)
		}
		bound = lb
	case !isTrivial(lb):
		bound = lb
	case !isTrivial(rb):
		bound = rb
	default:
		if boundsEqual(lb, rb) {
			bound = lb
		} else {
			return fmt.Errorf("variables %v/%v cannot have multiple %s bounds (left %v, right %v)",
				lhs, rhs, c.op, lb, rb)
		}
	}

	newRep := c.bounds.Union(lr, rr)
	if !isTrivial(bound) {
		c.bounds.Ensure(newRep).bound = bound
	}
	return nil
}
