// Package lazyframe provides a lazy, address-indexed columnar data
// substrate for Go.
//
// A column is modeled as a virtual vector source: a pure function from
// integer address to optional cell. Columns stay unevaluated through
// range-slicing, key-range slicing, value search, transformation and
// structural combination; only an explicit materialization resolves
// addresses. Key↔address translation happens through two virtual index
// kinds:
//
//   - Ordinal: a dense integer key range with O(1) arithmetic translation
//   - Ordered: keys supplied by an external, pre-sorted virtual column
//
// The index-builder dispatcher answers each algebraic request on a lazy
// path when one exists and otherwise either delegates to the default
// eager builder or fails loudly, so a performance cliff is always an
// explicit choice, never a silent one.
//
// # Quick Start
//
//	// A computed column of a million squares, never materialized.
//	squares := source.GenerateOrdered(1_000_000, func(addr int64) int64 {
//	    return addr * addr
//	})
//
//	s, err := lazyframe.NewOrdinalSeries(squares)
//	if err != nil {
//	    panic(err)
//	}
//
//	// Slice by key range; no address is resolved.
//	sub, err := s.SliceKeys(builder.Incl(int64(10)), builder.Excl(int64(20)))
//
//	// Read a single value; exactly one address is resolved.
//	v, ok, err := sub.Get(12)
//
// Frames pair one index with several named columns:
//
//	f, err := lazyframe.NewOrderedFrame(keys,
//	    []string{"open", "close"},
//	    []source.Source[float64]{open, close},
//	)
//
// External data providers integrate by implementing source.Source; that
// is the only required integration point for new lazy column types.
//
// All data structures are immutable after construction and safe for
// concurrent readers. The substrate never logs on its own; pass
// WithLogger to observe dispatch decisions.
package lazyframe
