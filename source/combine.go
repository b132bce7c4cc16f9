package source

import (
	"github.com/hupe1980/lazyframe/lookup"
)

// Fold combines the cells observed at one address across several input
// sources into a single cell.
type Fold[V any] func(cells []Cell[V]) Cell[V]

// combinedSource is the n-ary structural combination of equal-length
// sources: the cell at address i is fold applied across every input's
// cell at i. Slicing or selecting a combined source pushes the restriction
// down into the inputs and re-combines, so nothing is materialized.
type combinedSource[V any] struct {
	fold    Fold[V]
	sources []Source[V]
	length  int64
}

// Combine builds the pointwise combination of sources. It fails with
// ErrNoSources when sources is empty and with ErrLengthMismatch when the
// input lengths differ; it never truncates.
func Combine[V any](fold Fold[V], sources ...Source[V]) (Source[V], error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	length := sources[0].Len()
	for _, s := range sources[1:] {
		if s.Len() != length {
			return nil, &ErrLengthMismatch{Want: length, Got: s.Len()}
		}
	}
	return &combinedSource[V]{fold: fold, sources: sources, length: length}, nil
}

func (s *combinedSource[V]) Len() int64 {
	return s.length
}

func (s *combinedSource[V]) ValueAt(addr int64) Cell[V] {
	checkAddr(addr, s.length)
	cells := make([]Cell[V], len(s.sources))
	for i, src := range s.sources {
		cells[i] = src.ValueAt(addr)
	}
	return s.fold(cells)
}

func (s *combinedSource[V]) Slice(r Range) (Source[V], error) {
	if !r.validIn(s.length) {
		return nil, &ErrInvalidRange{Range: r, Len: s.length}
	}
	subs := make([]Source[V], len(s.sources))
	for i, src := range s.sources {
		sub, err := src.Slice(r)
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}
	return Combine(s.fold, subs...)
}

func (s *combinedSource[V]) Select(set AddressSet) Source[V] {
	subs := make([]Source[V], len(s.sources))
	for i, src := range s.sources {
		subs[i] = src.Select(set)
	}
	return &combinedSource[V]{fold: s.fold, sources: subs, length: set.Len()}
}

func (s *combinedSource[V]) LookupValue(V, lookup.Policy, lookup.Check) (int64, bool, error) {
	return 0, false, ErrLookupUnsupported
}

func (s *combinedSource[V]) LookupRange(q RangeQuery[V]) (AddressSet, error) {
	return scanRange[V](s, q)
}
