package source

import (
	"github.com/hupe1980/lazyframe/lookup"
)

// sliceView validates r against parent and returns a contiguous view. An
// empty range yields an empty view; a view over the whole extent returns
// the parent unchanged.
func sliceView[V any](parent Source[V], r Range) (Source[V], error) {
	if !r.validIn(parent.Len()) {
		return nil, &ErrInvalidRange{Range: r, Len: parent.Len()}
	}
	if r.Empty() {
		return &subSource[V]{parent: parent, offset: 0, length: 0}, nil
	}
	if r.First == 0 && r.Last == parent.Len()-1 {
		return parent, nil
	}
	return &subSource[V]{parent: parent, offset: r.First, length: r.Len()}, nil
}

// subSource is a contiguous view: address i resolves to parent address
// offset+i. Nested views collapse by re-slicing the parent, so chains of
// sub-ranging never deepen.
type subSource[V any] struct {
	parent Source[V]
	offset int64
	length int64
}

func (s *subSource[V]) Len() int64 {
	return s.length
}

func (s *subSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.length)
	return s.parent.ValueAt(s.offset + addr)
}

func (s *subSource[V]) Slice(r Range) (Source[V], error) {
	if !r.validIn(s.length) {
		return nil, &ErrInvalidRange{Range: r, Len: s.length}
	}
	return s.parent.Slice(NewRange(s.offset+r.First, s.offset+r.Last))
}

func (s *subSource[V]) Select(set AddressSet) Source[V] {
	return &setSource[V]{parent: s, set: set}
}

// LookupValue delegates to the parent with the check restricted to the
// window, then rebases the found address. The parent's values are monotone
// over the window too, so the directional scans land on the nearest
// in-window hit.
func (s *subSource[V]) LookupValue(target V, policy lookup.Policy, check lookup.Check) (int64, bool, error) {
	addr, ok, err := s.parent.LookupValue(target, policy, func(a int64) bool {
		if a < s.offset || a >= s.offset+s.length {
			return false
		}
		return check(a - s.offset)
	})
	if err != nil || !ok {
		return 0, false, err
	}
	return addr - s.offset, true, nil
}

func (s *subSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}

// setSource is a non-contiguous view over an explicit address set:
// address i resolves to the i-th smallest address in the set.
type setSource[V any] struct {
	parent Source[V]
	set    AddressSet
}

func (s *setSource[V]) Len() int64 {
	return s.set.Len()
}

func (s *setSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.Len())
	a, ok := s.set.At(addr)
	if !ok {
		return Missing[V]()
	}
	return s.parent.ValueAt(a)
}

func (s *setSource[V]) Slice(r Range) (Source[V], error) {
	if !r.validIn(s.Len()) {
		return nil, &ErrInvalidRange{Range: r, Len: s.Len()}
	}
	sub := NewAddressSet()
	for i := r.First; i <= r.Last; i++ {
		if a, ok := s.set.At(i); ok {
			sub.Add(a)
		}
	}
	return &setSource[V]{parent: s.parent, set: sub}, nil
}

func (s *setSource[V]) Select(set AddressSet) Source[V] {
	// Re-resolve: positions in set name positions within this view.
	resolved := NewAddressSet()
	for i := range set.All() {
		if a, ok := s.set.At(i); ok {
			resolved.Add(a)
		}
	}
	return &setSource[V]{parent: s.parent, set: resolved}
}

func (s *setSource[V]) LookupValue(V, lookup.Policy, lookup.Check) (int64, bool, error) {
	return 0, false, ErrLookupUnsupported
}

func (s *setSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}
