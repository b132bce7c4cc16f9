// Package source defines the virtual vector source abstraction: a lazy,
// address-addressable column with no required in-memory backing.
//
// A Source is a pure function from address to an optional cell. Sources are
// immutable once constructed; sub-ranging, mapping and combining all return
// new sources and never evaluate the column eagerly. External data
// providers (memory-mapped arrays, remote data, computed columns) plug into
// the engine by implementing this one interface.
package source

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lazyframe/lookup"
)

// Invalid is the explicit invalid-address sentinel. Operations that
// translate keys to addresses return Invalid instead of failing when the
// key is absent; callers must check for it.
const Invalid int64 = -1

// ErrLookupUnsupported is returned by LookupValue on sources that have no
// native ordering, such as mapped sources without a reverse transform or
// combined sources.
var ErrLookupUnsupported = errors.New("value lookup not supported by this source")

// ErrNoSources is returned by Combine when no input sources are given.
var ErrNoSources = errors.New("at least one source is required")

// ErrLengthMismatch is a named error type for sources whose lengths were
// required to agree but did not.
type ErrLengthMismatch struct {
	Want int64
	Got  int64
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("source length mismatch: want %d, got %d", e.Want, e.Got)
}

// ErrInvalidRange is a named error type for a range that does not fit the
// extent it was applied to.
type ErrInvalidRange struct {
	Range Range
	Len   int64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range [%d, %d] for length %d", e.Range.First, e.Range.Last, e.Len)
}

// Cell is a column cell: either a present value or an explicit missing
// marker. The zero value is missing.
type Cell[V any] struct {
	value   V
	present bool
}

// Present wraps a value in a present cell.
func Present[V any](v V) Cell[V] {
	return Cell[V]{value: v, present: true}
}

// Missing returns the explicit missing cell.
func Missing[V any]() Cell[V] {
	return Cell[V]{}
}

// Get returns the cell's value and whether it is present.
func (c Cell[V]) Get() (V, bool) {
	return c.value, c.present
}

// Present reports whether the cell holds a value.
func (c Cell[V]) Present() bool {
	return c.present
}

// Range is an inclusive, contiguous address range [First, Last]. A range
// with Last < First is empty.
type Range struct {
	First int64
	Last  int64
}

// NewRange returns the inclusive range [first, last].
func NewRange(first, last int64) Range {
	return Range{First: first, Last: last}
}

// Len returns the number of addresses covered by the range.
func (r Range) Len() int64 {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Empty reports whether the range covers no addresses.
func (r Range) Empty() bool {
	return r.Last < r.First
}

// validIn reports whether the range fits an extent of n addresses. An
// empty range is always valid.
func (r Range) validIn(n int64) bool {
	if r.Empty() {
		return true
	}
	return r.First >= 0 && r.Last < n
}

// Source is a lazy column of cells addressed on [0, Len).
//
// ValueAt must be O(1) or better for primitive array-backed sources and
// must not fail for in-range addresses; passing an out-of-range address is
// a programming error and panics, like slice indexing. All other
// operations return errors for invalid arguments.
type Source[V any] interface {
	// Len returns the fixed logical length of the source.
	Len() int64

	// ValueAt returns the cell at addr, which must be in [0, Len).
	ValueAt(addr int64) Cell[V]

	// Slice returns a contiguous view: address i of the view resolves to
	// address r.First+i of this source. No data is copied.
	Slice(r Range) (Source[V], error)

	// Select returns a view over an explicit, ordered set of addresses:
	// address i of the view resolves to the i-th smallest address in set.
	Select(set AddressSet) Source[V]

	// LookupValue finds an address by value using the given policy and
	// validity check. Only sources with a native ordering support it;
	// others return ErrLookupUnsupported.
	LookupValue(target V, policy lookup.Policy, check lookup.Check) (int64, bool, error)

	// LookupRange scans the full extent and collects every address
	// matched by the query into an ordered address set. This is the
	// designated slow path for derived sources that cannot binary-search.
	LookupRange(q RangeQuery[V]) (AddressSet, error)
}

// RangeQuery selects addresses during a LookupRange scan. Construct one
// with Scan or ByValue.
type RangeQuery[V any] struct {
	pred func(addr int64, c Cell[V]) bool
}

// Scan builds a query matching every address for which pred returns true.
// The predicate observes the cell as exposed by the queried source, so a
// mapped source presents transformed values.
func Scan[V any](pred func(addr int64, c Cell[V]) bool) RangeQuery[V] {
	return RangeQuery[V]{pred: pred}
}

// ByValue builds a query matching every address whose cell is present and
// equal to target.
func ByValue[V comparable](target V) RangeQuery[V] {
	return RangeQuery[V]{pred: func(_ int64, c Cell[V]) bool {
		v, ok := c.Get()
		return ok && v == target
	}}
}

// Matches reports whether the query selects the cell at addr.
func (q RangeQuery[V]) Matches(addr int64, c Cell[V]) bool {
	return q.pred(addr, c)
}

// scanRange is the shared LookupRange implementation: a full linear scan
// over [0, Len) collecting matching addresses in order.
func scanRange[V any](s Source[V], q RangeQuery[V]) (AddressSet, error) {
	set := NewAddressSet()
	for addr := int64(0); addr < s.Len(); addr++ {
		if q.Matches(addr, s.ValueAt(addr)) {
			set.Add(addr)
		}
	}
	return set, nil
}

// checkAddr panics with a descriptive message when addr is outside
// [0, n). ValueAt implementations call it before resolving.
func checkAddr(addr, n int64) {
	if addr < 0 || addr >= n {
		panic(fmt.Sprintf("source: address %d out of range [0, %d)", addr, n))
	}
}
