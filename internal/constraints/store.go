package constraints

import "github.com/nxgtri/funxycheck/internal/types"

// Store owns the three constraint tables that together describe everything
// currently known about every type variable in one checking session: an
// upper bound (<:), a lower bound (:>), and an exact bound (=). Asserting a
// new bound on one table re-checks it against the other two tables one
// level deep — it does not iterate to a fixpoint, matching the reference
// store's own non-iterative propagation.
type Store struct {
	nextTVar types.TVar
	sub      *Constraints // upper bound, op "<:"
	sup      *Constraints // lower bound, op ":>"
	eq       *Constraints // tight bound, op "="
}

func NewStore() *Store {
	return &Store{
		sub: New("<:"),
		sup: New(":>"),
		eq:  New("="),
	}
}

func (s *Store) GenTVar() types.TVar {
	v := s.nextTVar
	s.nextTVar++
	return v
}

func (s *Store) LastTVar() (types.TVar, bool) {
	if s.nextTVar == 0 {
		return 0, false
	}
	return s.nextTVar - 1, true
}

// AssertSub asserts lhs <: rhs, then checks the new bound against any
// existing exact or lower bound on lhs.
func (s *Store) AssertSub(lhs types.TVar, rhs types.Ty, ctx types.TypeContext) error {
	if err := s.sub.AddBound(lhs, rhs); err != nil {
		return err
	}
	if eb, ok := s.eq.GetBound(lhs); ok {
		if err := eb.AssertSub(rhs, ctx); err != nil {
			return err
		}
	}
	if lb, ok := s.sup.GetBound(lhs); ok {
		if err := lb.AssertSub(rhs, ctx); err != nil {
			return err
		}
	}
	return nil
}

// AssertSup asserts lhs :> rhs, then checks the new bound against any
// existing exact or upper bound on lhs.
func (s *Store) AssertSup(lhs types.TVar, rhs types.Ty, ctx types.TypeContext) error {
	if err := s.sup.AddBound(lhs, rhs); err != nil {
		return err
	}
	if eb, ok := s.eq.GetBound(lhs); ok {
		if err := rhs.AssertSub(*eb, ctx); err != nil {
			return err
		}
	}
	if ub, ok := s.sub.GetBound(lhs); ok {
		if err := rhs.AssertSub(*ub, ctx); err != nil {
			return err
		}
	}
	return nil
}

// AssertEq asserts lhs = rhs, then checks the new bound against any
// existing upper or lower bound on lhs.
func (s *Store) AssertEq(lhs types.TVar, rhs types.Ty, ctx types.TypeContext) error {
	if err := s.eq.AddBound(lhs, rhs); err != nil {
		return err
	}
	if ub, ok := s.sub.GetBound(lhs); ok {
		if err := rhs.AssertSub(*ub, ctx); err != nil {
			return err
		}
	}
	if lb, ok := s.sup.GetBound(lhs); ok {
		if err := lb.AssertSub(rhs, ctx); err != nil {
			return err
		}
	}
	return nil
}

// AssertSubTVar asserts lhs <: rhs for two bare type variables. Note the
// swapped argument order on the second call: lhs <: rhs on the upper-bound
// table is simultaneously rhs :> lhs on the lower-bound table.
func (s *Store) AssertSubTVar(lhs, rhs types.TVar) error {
	if s.eq.Is(lhs, rhs) {
		return nil
	}
	if err := s.sub.AddRelation(lhs, rhs); err != nil {
		return err
	}
	return s.sup.AddRelation(rhs, lhs)
}

// AssertEqTVar asserts lhs = rhs for two bare type variables. This only
// merges the exact-bound table; the upper/lower tables are left alone,
// matching the reference store (an eq relation doesn't retroactively fold
// two variables' independent sub/sup histories together).
func (s *Store) AssertEqTVar(lhs, rhs types.TVar) error {
	return s.eq.AddRelation(lhs, rhs)
}

func (s *Store) ResolveTVar(v types.TVar) (types.Ty, bool) {
	if b, ok := s.eq.GetBound(v); ok {
		return *b, true
	}
	return types.Ty{}, false
}
