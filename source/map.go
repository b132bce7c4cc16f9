package source

import (
	"github.com/hupe1980/lazyframe/lookup"
)

// mappedSource transforms a parent's cells on access. With a reverse
// transform it additionally supports value lookup by translating the
// target into the parent's value space.
type mappedSource[V, R any] struct {
	parent Source[V]
	fwd    func(addr int64, c Cell[V]) Cell[R]
	rev    func(target R) (V, bool)
	eq     func(a, b R) bool
}

// Map returns a source whose cell at address i is fwd(i, parent cell at
// i). The address passed to fwd is always view-local, so slicing a mapped
// source rebases the addresses the transform observes.
//
// The result has no reverse transform: value lookups on it fail with
// ErrLookupUnsupported. Use MapWithReverse when lookups are needed.
func Map[V, R any](s Source[V], fwd func(addr int64, c Cell[V]) Cell[R]) Source[R] {
	return &mappedSource[V, R]{parent: s, fwd: fwd}
}

// MapWithReverse is Map with an inverse: rev translates a lookup target
// back into the parent's value space so lookups can delegate to the
// parent, re-mapping the found value forward. rev returning false marks
// the target as untranslatable, which makes the lookup miss.
func MapWithReverse[V any, R comparable](s Source[V], fwd func(addr int64, c Cell[V]) Cell[R], rev func(target R) (V, bool)) Source[R] {
	return &mappedSource[V, R]{
		parent: s,
		fwd:    fwd,
		rev:    rev,
		eq:     func(a, b R) bool { return a == b },
	}
}

func (s *mappedSource[V, R]) Len() int64 {
	return s.parent.Len()
}

func (s *mappedSource[V, R]) ValueAt(addr int64) Cell[R] {
	checkAddr(addr, s.Len())
	return s.fwd(addr, s.parent.ValueAt(addr))
}

func (s *mappedSource[V, R]) Slice(r Range) (Source[R], error) {
	sub, err := s.parent.Slice(r)
	if err != nil {
		return nil, err
	}
	return &mappedSource[V, R]{parent: sub, fwd: s.fwd, rev: s.rev, eq: s.eq}, nil
}

func (s *mappedSource[V, R]) Select(set AddressSet) Source[R] {
	return &mappedSource[V, R]{parent: s.parent.Select(set), fwd: s.fwd, rev: s.rev, eq: s.eq}
}

func (s *mappedSource[V, R]) LookupValue(target R, policy lookup.Policy, check lookup.Check) (int64, bool, error) {
	if s.rev == nil {
		return 0, false, ErrLookupUnsupported
	}
	parentTarget, ok := s.rev(target)
	if !ok {
		return 0, false, nil
	}
	addr, ok, err := s.parent.LookupValue(parentTarget, policy, check)
	if err != nil || !ok {
		return 0, false, err
	}
	// Re-map the hit forward. An exact lookup must round-trip to the
	// original target; directional policies trust the reverse transform
	// to preserve the ordering.
	found := s.fwd(addr, s.parent.ValueAt(addr))
	fv, ok := found.Get()
	if !ok {
		return 0, false, nil
	}
	if policy == lookup.Exact && !s.eq(fv, target) {
		return 0, false, nil
	}
	return addr, true, nil
}

func (s *mappedSource[V, R]) LookupRange(q RangeQuery[R]) (AddressSet, error) {
	return scanRange[R](s, q)
}
