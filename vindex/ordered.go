package vindex

import (
	"cmp"
	"iter"

	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
)

// Ordered is a virtual index over an externally supplied key column. The
// backing source is shared by reference and must outlive the index.
type Ordered[K cmp.Ordered] struct {
	keys source.Source[K]
}

// NewOrdered builds an ordered index over keys.
//
// keys must be strictly ordered with no missing cells. This is trusted,
// not verified: validating would force a full scan of a possibly huge or
// expensive column, which is exactly what this index exists to avoid.
// Lookup behavior on an unsorted source is undefined.
func NewOrdered[K cmp.Ordered](keys source.Source[K]) *Ordered[K] {
	return &Ordered[K]{keys: keys}
}

// Source returns the backing key source.
func (ix *Ordered[K]) Source() source.Source[K] {
	return ix.keys
}

// Len returns the number of keys.
func (ix *Ordered[K]) Len() int64 {
	return ix.keys.Len()
}

// KeyAt returns the key at addr.
func (ix *Ordered[K]) KeyAt(addr int64) (K, error) {
	var zero K
	if addr < 0 || addr >= ix.Len() {
		return zero, &ErrKeyOutOfRange{Addr: addr, Len: ix.Len()}
	}
	k, ok := ix.keys.ValueAt(addr).Get()
	if !ok {
		// A missing key violates the construction contract; surface it
		// as out-of-domain rather than guessing.
		return zero, &ErrKeyOutOfRange{Addr: addr, Len: ix.Len()}
	}
	return k, nil
}

// Locate returns the address of key via an exact lookup, or
// source.Invalid when the key is absent or the source cannot look up
// values.
func (ix *Ordered[K]) Locate(key K) int64 {
	addr, ok, err := ix.keys.LookupValue(key, lookup.Exact, lookup.CheckAlways)
	if err != nil || !ok {
		return source.Invalid
	}
	return addr
}

// Lookup finds the key nearest to key under policy whose address passes
// check, delegating to the backing source's lookup machinery.
func (ix *Ordered[K]) Lookup(key K, policy lookup.Policy, check lookup.Check) (K, int64, bool, error) {
	var zero K
	addr, ok, err := ix.keys.LookupValue(key, policy, check)
	if err != nil || !ok {
		return zero, 0, false, err
	}
	found, present := ix.keys.ValueAt(addr).Get()
	if !present {
		return zero, 0, false, nil
	}
	return found, addr, true, nil
}

// KeyRange returns the first and last key. The boolean is false for an
// empty index.
func (ix *Ordered[K]) KeyRange() (K, K, bool) {
	var zero K
	n := ix.Len()
	if n == 0 {
		return zero, zero, false
	}
	first, ok1 := ix.keys.ValueAt(0).Get()
	last, ok2 := ix.keys.ValueAt(n - 1).Get()
	if !ok1 || !ok2 {
		return zero, zero, false
	}
	return first, last, true
}

// Keys enumerates every key by visiting every address. This is the one
// operation that defeats laziness: it resolves the whole column. Intended
// only for small key domains.
func (ix *Ordered[K]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for addr := int64(0); addr < ix.Len(); addr++ {
			if k, ok := ix.keys.ValueAt(addr).Get(); ok {
				if !yield(k) {
					return
				}
			}
		}
	}
}
