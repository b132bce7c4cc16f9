// Package lookup implements the binary-search primitive shared by all
// virtual indices and ordered sources.
//
// Search operates over an abstract address space [0, count): the caller
// supplies an accessor yielding the comparison key at each address, a
// lookup policy describing which non-exact matches are acceptable, and a
// validity check gating which addresses the search may land on.
package lookup

import (
	"cmp"
	"fmt"
)

// Policy describes the ordering relationship a lookup must satisfy when an
// exact match is unavailable or disallowed.
type Policy int

// Supported lookup policies.
const (
	Exact Policy = iota
	ExactOrGreater
	ExactOrSmaller
	Greater
	Smaller
)

// String returns a string representation of the Policy.
func (p Policy) String() string {
	switch p {
	case Exact:
		return "Exact"
	case ExactOrGreater:
		return "ExactOrGreater"
	case ExactOrSmaller:
		return "ExactOrSmaller"
	case Greater:
		return "Greater"
	case Smaller:
		return "Smaller"
	default:
		return "Unknown"
	}
}

// ErrInvalidPolicy is a named error type for an unrecognized lookup policy.
type ErrInvalidPolicy struct {
	Policy Policy
}

func (e *ErrInvalidPolicy) Error() string {
	return fmt.Sprintf("invalid lookup policy: %d", int(e.Policy))
}

// Check is an address-keyed predicate gating which addresses a lookup may
// land on, independent of value comparison.
type Check func(addr int64) bool

// CheckAlways accepts every address. Callers needing a bounded directional
// scan should pass CheckAlways; arbitrary predicates make the scan phase
// unbounded in the worst case.
func CheckAlways(int64) bool { return true }

// Search binary-searches the address space [0, count) for target.
//
// valueAt must be monotonically non-decreasing over [0, count). The binary
// phase finds the largest address whose value is <= target; the policy then
// decides whether that address is acceptable or whether a directional
// linear scan is needed to find the nearest address passing check.
//
// The boolean result reports whether an address was found; a false result
// with a nil error means "missing", which is the expected outcome for an
// empty domain, an exact miss, or an exhausted scan.
func Search[T cmp.Ordered](count int64, valueAt func(int64) T, target T, policy Policy, check Check) (int64, bool, error) {
	switch policy {
	case Exact, ExactOrGreater, ExactOrSmaller, Greater, Smaller:
	default:
		return 0, false, &ErrInvalidPolicy{Policy: policy}
	}

	if count <= 0 {
		return 0, false, nil
	}

	// Largest idx with valueAt(idx) <= target. If every value exceeds the
	// target the loop lands on 0, which the policy branches handle.
	lo, hi := int64(0), count
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if valueAt(mid) <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	idx := lo
	v := valueAt(idx)

	switch policy {
	case Exact:
		if v == target && check(idx) {
			return idx, true, nil
		}
		return 0, false, nil

	case ExactOrGreater, Greater:
		if policy == ExactOrGreater && v == target && check(idx) {
			return idx, true, nil
		}
		start := idx
		if v <= target {
			// Everything past idx is strictly greater than target.
			start = idx + 1
		}
		for a := start; a < count; a++ {
			if check(a) {
				return a, true, nil
			}
		}
		return 0, false, nil

	default: // ExactOrSmaller, Smaller
		if policy == ExactOrSmaller && v <= target && check(idx) {
			return idx, true, nil
		}
		start := idx
		if v >= target {
			start = idx - 1
		}
		for a := start; a >= 0; a-- {
			if check(a) {
				return a, true, nil
			}
		}
		return 0, false, nil
	}
}
