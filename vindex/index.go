package vindex

import (
	"cmp"
	"iter"

	"github.com/hupe1980/lazyframe/lookup"
)

// Kind tags the closed set of index variants. The index builder switches
// on the tag to decide between a lazy path and the eager fallback instead
// of probing open-ended dynamic types.
type Kind int

// Index kinds.
const (
	// KindOrdinal is the dense arithmetic index; lazy.
	KindOrdinal Kind = iota
	// KindOrdered is the source-backed ordered index; lazy.
	KindOrdered
	// KindEager is a fully materialized index built by an eager builder.
	KindEager
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindOrdinal:
		return "Ordinal"
	case KindOrdered:
		return "Ordered"
	case KindEager:
		return "Eager"
	default:
		return "Unknown"
	}
}

// Lazy reports whether the kind belongs to the virtual family, i.e. its
// keys need not be materialized to answer address arithmetic.
func (k Kind) Lazy() bool {
	return k == KindOrdinal || k == KindOrdered
}

// Index is the key↔address translation contract shared by all index
// variants.
type Index[K cmp.Ordered] interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Len returns the number of keys.
	Len() int64

	// KeyAt returns the key at addr, failing when addr is out of range.
	KeyAt(addr int64) (K, error)

	// Locate returns the address of key, or source.Invalid when absent.
	Locate(key K) int64

	// Lookup finds the key nearest to key under policy whose address
	// passes check, returning the found key and its address.
	Lookup(key K, policy lookup.Policy, check lookup.Check) (K, int64, bool, error)

	// Keys enumerates every key in address order. For virtual indices
	// this resolves the whole key column; see Ordered.Keys.
	Keys() iter.Seq[K]
}

// Kind returns KindOrdinal.
func (ix Ordinal) Kind() Kind { return KindOrdinal }

// Keys enumerates the arithmetic key range in order.
func (ix Ordinal) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for k := ix.lo; k <= ix.hi; k++ {
			if !yield(k) {
				return
			}
		}
	}
}

// Kind returns KindOrdered.
func (ix *Ordered[K]) Kind() Kind { return KindOrdered }

var _ Index[int64] = Ordinal{}
var _ Index[int64] = (*Ordered[int64])(nil)
