package builder

import (
	"cmp"
	"io"
	"log/slog"

	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
	"github.com/hupe1980/lazyframe/vindex"
)

// BoundKind says how a key-range bound treats its key.
type BoundKind int

// Bound kinds.
const (
	Unbounded BoundKind = iota
	Inclusive
	Exclusive
)

// Bound is an optional key-range endpoint.
type Bound[K cmp.Ordered] struct {
	Key  K
	Kind BoundKind
}

// Incl returns an inclusive bound at key.
func Incl[K cmp.Ordered](key K) Bound[K] {
	return Bound[K]{Key: key, Kind: Inclusive}
}

// Excl returns an exclusive bound at key.
func Excl[K cmp.Ordered](key K) Bound[K] {
	return Bound[K]{Key: key, Kind: Exclusive}
}

// NoBound returns the absent bound; the index's own endpoint applies.
func NoBound[K cmp.Ordered]() Bound[K] {
	return Bound[K]{}
}

// admitsLow reports whether key is admitted by the bound acting as a
// lower endpoint.
func (b Bound[K]) admitsLow(key K) bool {
	return b.admits(key, true)
}

// admitsHigh reports whether key is admitted by the bound acting as an
// upper endpoint.
func (b Bound[K]) admitsHigh(key K) bool {
	return b.admits(key, false)
}

func (b Bound[K]) admits(key K, low bool) bool {
	if b.Kind == Unbounded {
		return true
	}
	c := cmp.Compare(key, b.Key)
	if low {
		if b.Kind == Inclusive {
			return c >= 0
		}
		return c > 0
	}
	if b.Kind == Inclusive {
		return c <= 0
	}
	return c < 0
}

// Options configures a Virtual dispatcher.
type Options struct {
	// Logger receives Debug-level dispatch decisions. Defaults to a
	// discarding logger; the substrate itself never logs errors.
	Logger *slog.Logger
}

// Materialized pairs the results of a materialization: an index over the
// now fully known key sequence and the command yielding the resolved
// vector.
type Materialized[K cmp.Ordered, V any] struct {
	Index  vindex.Index[K]
	Vector VectorCommand[V]
}

// Virtual dispatches the index algebra over the virtual index family. Per
// request it inspects the operand kinds and picks a lazy path when one
// exists: pure address arithmetic for ordinal indices, pushing range
// restrictions into the vector-source layer for ordered ones. Requests
// with no lazy path either delegate to the eager fallback (where that is
// the documented intent) or fail with ErrUnsupportedOperation — failing
// loudly is preferred to silently degrading performance.
//
// Virtual holds no mutable state; a shared instance is safe for
// concurrent use.
type Virtual[K cmp.Ordered, V comparable] struct {
	eager  *Eager[K, V]
	lazy   *Lazy[V]
	logger *slog.Logger
}

// NewVirtual creates the dispatcher with its eager fallback.
func NewVirtual[K cmp.Ordered, V comparable](optFns ...func(o *Options)) *Virtual[K, V] {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Virtual[K, V]{
		eager:  NewEager[K, V](),
		lazy:   NewLazy[V](),
		logger: opts.Logger,
	}
}

// Eager returns the fallback builder, which is also the module's default
// vector builder.
func (b *Virtual[K, V]) Eager() *Eager[K, V] {
	return b.eager
}

// AddressRange slices index and vector to a contiguous address range
// without evaluating the vector.
func (b *Virtual[K, V]) AddressRange(ix vindex.Index[K], cmd VectorCommand[V], r source.Range) (vindex.Index[K], VectorCommand[V], error) {
	if !r.Empty() && (r.First < 0 || r.Last >= ix.Len()) {
		return nil, nil, &source.ErrInvalidRange{Range: r, Len: ix.Len()}
	}

	switch ix.Kind() {
	case vindex.KindOrdinal:
		ord := asOrdinal[K](ix)
		b.logger.Debug("address range via ordinal arithmetic", "first", r.First, "last", r.Last)
		if r.Empty() {
			empty, err := vindex.NewOrdinal(ord.Lo(), ord.Lo()-1)
			if err != nil {
				return nil, nil, err
			}
			return indexOf[K](empty), Empty[V]{}, nil
		}
		shifted, err := vindex.NewOrdinal(ord.Lo()+r.First, ord.Lo()+r.Last)
		if err != nil {
			return nil, nil, err
		}
		return indexOf[K](shifted), GetRange[V]{Cmd: cmd, Range: r}, nil

	case vindex.KindOrdered:
		od := ix.(*vindex.Ordered[K])
		b.logger.Debug("address range via key source slice", "first", r.First, "last", r.Last)
		keys, err := od.Source().Slice(r)
		if err != nil {
			return nil, nil, err
		}
		return vindex.NewOrdered(keys), GetRange[V]{Cmd: cmd, Range: r}, nil

	default:
		b.logger.Debug("address range via eager fallback", "kind", ix.Kind().String())
		return b.eager.AddressRange(ix, cmd, r)
	}
}

// KeyRange slices index and vector to the addresses whose keys fall
// within the given bounds. Absent bounds default to the index's own
// endpoints.
func (b *Virtual[K, V]) KeyRange(ix vindex.Index[K], cmd VectorCommand[V], lo, hi Bound[K]) (vindex.Index[K], VectorCommand[V], error) {
	switch ix.Kind() {
	case vindex.KindOrdinal:
		ord := asOrdinal[K](ix)
		b.logger.Debug("key range via ordinal arithmetic")
		first, last := int64(0), ix.Len()-1
		if lo.Kind != Unbounded {
			first = keyAsInt64(lo.Key) - ord.Lo()
			if lo.Kind == Exclusive {
				first++
			}
			first = max(first, 0)
		}
		if hi.Kind != Unbounded {
			last = keyAsInt64(hi.Key) - ord.Lo()
			if hi.Kind == Exclusive {
				last--
			}
			last = min(last, ix.Len()-1)
		}
		if first > last {
			return b.AddressRange(ix, cmd, source.NewRange(0, -1))
		}
		return b.AddressRange(ix, cmd, source.NewRange(first, last))

	case vindex.KindOrdered:
		b.logger.Debug("key range via ordered lookup")
		first, last := int64(0), ix.Len()-1
		if lo.Kind != Unbounded {
			policy := lookup.ExactOrGreater
			if lo.Kind == Exclusive {
				policy = lookup.Greater
			}
			_, addr, ok, err := ix.Lookup(lo.Key, policy, lookup.CheckAlways)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				return b.AddressRange(ix, cmd, source.NewRange(0, -1))
			}
			first = addr
		}
		if hi.Kind != Unbounded {
			policy := lookup.ExactOrSmaller
			if hi.Kind == Exclusive {
				policy = lookup.Smaller
			}
			_, addr, ok, err := ix.Lookup(hi.Key, policy, lookup.CheckAlways)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				return b.AddressRange(ix, cmd, source.NewRange(0, -1))
			}
			last = addr
		}
		if first > last {
			return b.AddressRange(ix, cmd, source.NewRange(0, -1))
		}
		return b.AddressRange(ix, cmd, source.NewRange(first, last))

	default:
		b.logger.Debug("key range via eager fallback", "kind", ix.Kind().String())
		return b.eager.KeyRange(ix, cmd, lo, hi)
	}
}

// Search finds every address whose companion value equals target and
// rebuilds a sub-indexed result over exactly those addresses. The index
// must be the lazy kind; an eager one would force materializing the whole
// column, so it fails instead. The companion vector is interpreted as a
// composed view, so sliced and selected pipelines stay searchable.
func (b *Virtual[K, V]) Search(ix vindex.Index[K], cmd VectorCommand[V], target V) (vindex.Index[K], VectorCommand[V], error) {
	if !ix.Kind().Lazy() {
		return nil, nil, &ErrUnsupportedOperation{Op: "Search", Reason: reasonAvoidMaterialization}
	}

	vec, err := b.lazy.Build(cmd)
	if err != nil {
		return nil, nil, err
	}

	set, err := vec.LookupRange(source.ByValue(target))
	if err != nil {
		return nil, nil, err
	}
	b.logger.Debug("search via lookup range scan", "hits", set.Len())

	keys := keySource[K](ix).Select(set)
	return vindex.NewOrdered(keys), GetSet[V]{Cmd: cmd, Set: set}, nil
}

// Reindex realigns a vector from oldIx to newIx. The only lazy case is a
// no-op: both indices ordinal with identical key ranges. Everything else
// is unsupported by design rather than silently eager; lazy reindexing is
// future work, not default-eager behavior.
func (b *Virtual[K, V]) Reindex(oldIx, newIx vindex.Index[K], cmd VectorCommand[V]) (VectorCommand[V], error) {
	if oldIx.Kind() == vindex.KindOrdinal && newIx.Kind() == vindex.KindOrdinal {
		o, n := asOrdinal[K](oldIx), asOrdinal[K](newIx)
		if o.Lo() == n.Lo() && o.Hi() == n.Hi() {
			b.logger.Debug("reindex no-op: identical ordinal ranges")
			return cmd, nil
		}
	}
	return nil, &ErrUnsupportedOperation{Op: "Reindex", Reason: reasonAvoidMaterialization}
}

// WithIndex installs a new ordered index over existing data by wrapping
// the replacement key column directly; the column stays unevaluated.
func (b *Virtual[K, V]) WithIndex(keys source.Source[K], cmd VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	b.logger.Debug("with index: wrapping key source")
	return vindex.NewOrdered(keys), cmd, nil
}

// Merge unions several indexed parts. Merging requires materializing a
// union of key spaces, so any lazy participant makes the request fail;
// all-eager merges delegate transparently to the default builder.
func (b *Virtual[K, V]) Merge(ixs []vindex.Index[K], cmds []VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	for _, ix := range ixs {
		if ix.Kind().Lazy() {
			return nil, nil, &ErrUnsupportedOperation{Op: "Merge", Reason: reasonAvoidMaterialization}
		}
	}
	b.logger.Debug("merge via eager fallback", "parts", len(ixs))
	return b.eager.Merge(ixs, cmds)
}

// Materialize forces an ordinal-indexed vector into the eager
// representation, resolving every address. Other index kinds pass through
// unchanged: they are either already eager or not covered by this
// shortcut. The work is deferred into the returned task so the caller can
// schedule it alongside other column loads.
func (b *Virtual[K, V]) Materialize(ix vindex.Index[K], cmd VectorCommand[V]) *Task[Materialized[K, V]] {
	if ix.Kind() != vindex.KindOrdinal {
		return Resolved(Materialized[K, V]{Index: ix, Vector: cmd})
	}

	return NewTask(func() (Materialized[K, V], error) {
		b.logger.Debug("materialize ordinal", "len", ix.Len())
		vec, err := b.eager.Build(cmd)
		if err != nil {
			return Materialized[K, V]{}, err
		}
		keys := make([]K, 0, ix.Len())
		for k := range ix.Keys() {
			keys = append(keys, k)
		}
		return Materialized[K, V]{
			Index:  NewEagerIndex(keys),
			Vector: Return[V]{Source: vec},
		}, nil
	})
}

// Shift is not supported on the virtual index family.
func (b *Virtual[K, V]) Shift(vindex.Index[K], VectorCommand[V], int64) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "Shift", Reason: reasonAvoidMaterialization}
}

// OrderIndex is not supported on the virtual index family.
func (b *Virtual[K, V]) OrderIndex(vindex.Index[K], VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "OrderIndex", Reason: reasonAvoidMaterialization}
}

// GroupBy is not supported on the virtual index family.
func (b *Virtual[K, V]) GroupBy(vindex.Index[K], VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "GroupBy", Reason: reasonAvoidMaterialization}
}

// Aggregate is not supported on the virtual index family.
func (b *Virtual[K, V]) Aggregate(vindex.Index[K], VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "Aggregate", Reason: reasonAvoidMaterialization}
}

// Resample is not supported on the virtual index family.
func (b *Virtual[K, V]) Resample(vindex.Index[K], VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "Resample", Reason: reasonAvoidMaterialization}
}

// DropItem is not supported on the virtual index family.
func (b *Virtual[K, V]) DropItem(vindex.Index[K], VectorCommand[V], K) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "DropItem", Reason: reasonAvoidMaterialization}
}

// LookupLevel is not supported on the virtual index family.
func (b *Virtual[K, V]) LookupLevel(vindex.Index[K], VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	return nil, nil, &ErrUnsupportedOperation{Op: "LookupLevel", Reason: reasonAvoidMaterialization}
}

// Union is not supported on the virtual index family.
func (b *Virtual[K, V]) Union(vindex.Index[K], vindex.Index[K]) (vindex.Index[K], error) {
	return nil, &ErrUnsupportedOperation{Op: "Union", Reason: reasonAvoidMaterialization}
}

// Intersect is not supported on the virtual index family.
func (b *Virtual[K, V]) Intersect(vindex.Index[K], vindex.Index[K]) (vindex.Index[K], error) {
	return nil, &ErrUnsupportedOperation{Op: "Intersect", Reason: reasonAvoidMaterialization}
}

// asOrdinal unwraps the ordinal variant. Kind dispatch guarantees the
// dynamic type; ordinal keys are int64, so K is int64 here.
func asOrdinal[K cmp.Ordered](ix vindex.Index[K]) vindex.Ordinal {
	return any(ix).(vindex.Ordinal)
}

// indexOf re-wraps a concrete index as Index[K]. Callers only reach it on
// dispatch paths where K is the concrete key type.
func indexOf[K cmp.Ordered](ix any) vindex.Index[K] {
	return ix.(vindex.Index[K])
}

// keySource exposes a lazy index's keys as a source: the ordered variant
// shares its backing source, the ordinal variant generates keys
// arithmetically.
func keySource[K cmp.Ordered](ix vindex.Index[K]) source.Source[K] {
	if od, ok := any(ix).(*vindex.Ordered[K]); ok {
		return od.Source()
	}
	ord := asOrdinal[K](ix)
	keys := source.GenerateOrdered(ord.Len(), func(addr int64) int64 { return ord.Lo() + addr })
	return any(keys).(source.Source[K])
}

// keyAsInt64 converts an ordinal key out of its type parameter. Only
// reachable when K is int64.
func keyAsInt64[K any](key K) int64 {
	return any(key).(int64)
}
