package source

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// AddressSet is an explicit, ordered set of addresses, used for
// non-contiguous views and as the result of LookupRange scans. It wraps a
// 64-bit Roaring Bitmap, so large sparse sets stay compact and rank-select
// access is cheap.
//
// An AddressSet is mutable through Add during construction; once handed to
// a Select view it must not be modified.
type AddressSet struct {
	bm *roaring64.Bitmap
}

// NewAddressSet builds a set containing the given addresses.
func NewAddressSet(addrs ...int64) AddressSet {
	bm := roaring64.NewBitmap()
	for _, a := range addrs {
		bm.Add(uint64(a))
	}
	return AddressSet{bm: bm}
}

// Add inserts an address into the set.
func (s AddressSet) Add(addr int64) {
	s.bm.Add(uint64(addr))
}

// Len returns the number of addresses in the set.
func (s AddressSet) Len() int64 {
	return int64(s.bm.GetCardinality())
}

// Empty reports whether the set contains no addresses.
func (s AddressSet) Empty() bool {
	return s.bm.IsEmpty()
}

// Contains reports whether addr is in the set.
func (s AddressSet) Contains(addr int64) bool {
	if addr < 0 {
		return false
	}
	return s.bm.Contains(uint64(addr))
}

// At returns the i-th smallest address in the set, or (Invalid, false)
// when i is out of bounds.
func (s AddressSet) At(i int64) (int64, bool) {
	if i < 0 || i >= s.Len() {
		return Invalid, false
	}
	addr, err := s.bm.Select(uint64(i))
	if err != nil {
		return Invalid, false
	}
	return int64(addr), true
}

// All iterates the addresses in ascending order.
func (s AddressSet) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		it := s.bm.Iterator()
		for it.HasNext() {
			if !yield(int64(it.Next())) {
				return
			}
		}
	}
}
