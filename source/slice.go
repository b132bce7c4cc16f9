package source

import (
	"cmp"

	"github.com/hupe1980/lazyframe/lookup"
)

// sliceSource is an in-memory column. It is the simplest Source and the
// representation the eager builder materializes into.
type sliceSource[V any] struct {
	cells []Cell[V]
}

// FromSlice builds a source over values, all present.
func FromSlice[V any](values []V) Source[V] {
	cells := make([]Cell[V], len(values))
	for i, v := range values {
		cells[i] = Present(v)
	}
	return &sliceSource[V]{cells: cells}
}

// FromCells builds a source over cells, preserving missing markers.
func FromCells[V any](cells []Cell[V]) Source[V] {
	return &sliceSource[V]{cells: cells}
}

func (s *sliceSource[V]) Len() int64 {
	return int64(len(s.cells))
}

func (s *sliceSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.Len())
	return s.cells[addr]
}

func (s *sliceSource[V]) Slice(r Range) (Source[V], error) {
	return sliceView[V](s, r)
}

func (s *sliceSource[V]) Select(set AddressSet) Source[V] {
	return &setSource[V]{parent: s, set: set}
}

func (s *sliceSource[V]) LookupValue(V, lookup.Policy, lookup.Check) (int64, bool, error) {
	return 0, false, ErrLookupUnsupported
}

func (s *sliceSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}

// sortedSource is an in-memory column whose values are monotonically
// non-decreasing and all present, which makes value lookup a binary
// search.
type sortedSource[V cmp.Ordered] struct {
	values []V
}

// FromSortedSlice builds a source over values, which must be sorted in
// non-decreasing order. The ordering is trusted, not verified.
func FromSortedSlice[V cmp.Ordered](values []V) Source[V] {
	return &sortedSource[V]{values: values}
}

func (s *sortedSource[V]) Len() int64 {
	return int64(len(s.values))
}

func (s *sortedSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.Len())
	return Present(s.values[addr])
}

func (s *sortedSource[V]) Slice(r Range) (Source[V], error) {
	return sliceView[V](s, r)
}

func (s *sortedSource[V]) Select(set AddressSet) Source[V] {
	return &setSource[V]{parent: s, set: set}
}

func (s *sortedSource[V]) LookupValue(target V, policy lookup.Policy, check lookup.Check) (int64, bool, error) {
	return lookup.Search(s.Len(), func(addr int64) V { return s.values[addr] }, target, policy, check)
}

func (s *sortedSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}

// funcSource is a computed column: a pure function from address to cell.
type funcSource[V any] struct {
	length int64
	fn     func(addr int64) Cell[V]
}

// Generate builds a computed source of the given length. fn must be pure:
// it may be invoked any number of times for the same address.
func Generate[V any](length int64, fn func(addr int64) Cell[V]) Source[V] {
	return &funcSource[V]{length: length, fn: fn}
}

func (s *funcSource[V]) Len() int64 {
	return s.length
}

func (s *funcSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.length)
	return s.fn(addr)
}

func (s *funcSource[V]) Slice(r Range) (Source[V], error) {
	return sliceView[V](s, r)
}

func (s *funcSource[V]) Select(set AddressSet) Source[V] {
	return &setSource[V]{parent: s, set: set}
}

func (s *funcSource[V]) LookupValue(V, lookup.Policy, lookup.Check) (int64, bool, error) {
	return 0, false, ErrLookupUnsupported
}

func (s *funcSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}

// orderedFuncSource is a computed column whose generator is monotonically
// non-decreasing, so value lookup binary-searches the generator directly.
type orderedFuncSource[V cmp.Ordered] struct {
	length int64
	fn     func(addr int64) V
}

// GenerateOrdered builds a computed source whose generator must be
// monotonically non-decreasing over [0, length). Every cell is present.
// The ordering is trusted, not verified.
func GenerateOrdered[V cmp.Ordered](length int64, fn func(addr int64) V) Source[V] {
	return &orderedFuncSource[V]{length: length, fn: fn}
}

func (s *orderedFuncSource[V]) Len() int64 {
	return s.length
}

func (s *orderedFuncSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.length)
	return Present(s.fn(addr))
}

func (s *orderedFuncSource[V]) Slice(r Range) (Source[V], error) {
	return sliceView[V](s, r)
}

func (s *orderedFuncSource[V]) Select(set AddressSet) Source[V] {
	return &setSource[V]{parent: s, set: set}
}

func (s *orderedFuncSource[V]) LookupValue(target V, policy lookup.Policy, check lookup.Check) (int64, bool, error) {
	return lookup.Search(s.length, s.fn, target, policy, check)
}

func (s *orderedFuncSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}
