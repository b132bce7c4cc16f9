// Package vindex implements the virtual indices: a dense ordinal index
// whose key↔address translation is pure arithmetic, and an ordered index
// backed by an externally supplied, sorted virtual column.
package vindex

import (
	"fmt"

	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
)

// ErrKeyOutOfRange is a named error type for a key or address outside an
// index's domain.
type ErrKeyOutOfRange struct {
	Addr int64
	Len  int64
}

func (e *ErrKeyOutOfRange) Error() string {
	return fmt.Sprintf("address %d out of range [0, %d)", e.Addr, e.Len)
}

// ErrInvalidKeyRange is a named error type for an ordinal construction
// whose bounds describe a negative-size range.
type ErrInvalidKeyRange struct {
	Lo int64
	Hi int64
}

func (e *ErrInvalidKeyRange) Error() string {
	return fmt.Sprintf("invalid ordinal key range [%d, %d]", e.Lo, e.Hi)
}

// Ordinal maps the contiguous keys [lo, hi] one-to-one, in order, onto the
// addresses [0, hi-lo]. No backing source is needed; every operation is
// O(1) arithmetic except the policy lookups, which reuse the shared
// binary-search primitive over the arithmetic key space.
type Ordinal struct {
	lo int64
	hi int64
}

// NewOrdinal builds the ordinal index over keys [lo, hi]. hi == lo-1
// describes the empty index; anything smaller is invalid.
func NewOrdinal(lo, hi int64) (Ordinal, error) {
	if hi-lo+1 < 0 {
		return Ordinal{}, &ErrInvalidKeyRange{Lo: lo, Hi: hi}
	}
	return Ordinal{lo: lo, hi: hi}, nil
}

// Lo returns the first key of the range.
func (ix Ordinal) Lo() int64 { return ix.lo }

// Hi returns the last key of the range.
func (ix Ordinal) Hi() int64 { return ix.hi }

// Len returns the number of keys.
func (ix Ordinal) Len() int64 {
	return ix.hi - ix.lo + 1
}

// KeyAt returns the key at addr.
func (ix Ordinal) KeyAt(addr int64) (int64, error) {
	if addr < 0 || addr >= ix.Len() {
		return 0, &ErrKeyOutOfRange{Addr: addr, Len: ix.Len()}
	}
	return ix.lo + addr, nil
}

// Locate returns the address of key, or source.Invalid when key falls
// outside [lo, hi]. It never fails; callers must check the sentinel.
func (ix Ordinal) Locate(key int64) int64 {
	if key < ix.lo || key > ix.hi {
		return source.Invalid
	}
	return key - ix.lo
}

// Lookup finds the key nearest to key under policy whose address passes
// check, returning the found key and its address.
func (ix Ordinal) Lookup(key int64, policy lookup.Policy, check lookup.Check) (int64, int64, bool, error) {
	addr, ok, err := lookup.Search(ix.Len(), func(a int64) int64 { return ix.lo + a }, key, policy, check)
	if err != nil || !ok {
		return 0, 0, false, err
	}
	return ix.lo + addr, addr, true, nil
}
