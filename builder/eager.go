package builder

import (
	"cmp"
	"fmt"
	"iter"
	"math"

	"github.com/google/btree"

	"github.com/hupe1980/lazyframe/internal/container"
	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
	"github.com/hupe1980/lazyframe/vindex"
)

// keyAddr is an eager index entry. Entries are ordered by key first and
// address second, so duplicate keys stay iterable in address order.
type keyAddr[K cmp.Ordered] struct {
	key  K
	addr int64
}

func lessKeyAddr[K cmp.Ordered](a, b keyAddr[K]) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.addr < b.addr
}

// EagerIndex is the default builder's fully materialized index: keys are
// held in address order and mirrored into a B-tree for ordered lookup.
// Keys are not required to be sorted by address.
type EagerIndex[K cmp.Ordered] struct {
	keys []K
	tree *btree.BTreeG[keyAddr[K]]
}

// NewEagerIndex builds an eager index over the key sequence; keys[i] is
// the key at address i.
func NewEagerIndex[K cmp.Ordered](keys []K) *EagerIndex[K] {
	tree := btree.NewG(32, lessKeyAddr[K])
	for i, k := range keys {
		tree.ReplaceOrInsert(keyAddr[K]{key: k, addr: int64(i)})
	}
	return &EagerIndex[K]{keys: keys, tree: tree}
}

// Kind returns vindex.KindEager.
func (ix *EagerIndex[K]) Kind() vindex.Kind { return vindex.KindEager }

// Len returns the number of keys.
func (ix *EagerIndex[K]) Len() int64 { return int64(len(ix.keys)) }

// KeyAt returns the key at addr.
func (ix *EagerIndex[K]) KeyAt(addr int64) (K, error) {
	if addr < 0 || addr >= ix.Len() {
		var zero K
		return zero, &vindex.ErrKeyOutOfRange{Addr: addr, Len: ix.Len()}
	}
	return ix.keys[addr], nil
}

// Locate returns the address of the first entry holding key, or
// source.Invalid when absent.
func (ix *EagerIndex[K]) Locate(key K) int64 {
	_, addr, ok, _ := ix.Lookup(key, lookup.Exact, lookup.CheckAlways)
	if !ok {
		return source.Invalid
	}
	return addr
}

// Lookup walks the B-tree in key order: exact hits first, then the
// nearest entry in the policy's direction whose address passes check.
func (ix *EagerIndex[K]) Lookup(key K, policy lookup.Policy, check lookup.Check) (K, int64, bool, error) {
	var (
		zero  K
		hit   keyAddr[K]
		found bool
	)

	switch policy {
	case lookup.Exact:
		ix.tree.AscendGreaterOrEqual(keyAddr[K]{key: key, addr: math.MinInt64}, func(item keyAddr[K]) bool {
			if item.key != key {
				return false
			}
			if check(item.addr) {
				hit, found = item, true
				return false
			}
			return true
		})

	case lookup.ExactOrGreater, lookup.Greater:
		ix.tree.AscendGreaterOrEqual(keyAddr[K]{key: key, addr: math.MinInt64}, func(item keyAddr[K]) bool {
			if policy == lookup.Greater && item.key == key {
				return true
			}
			if check(item.addr) {
				hit, found = item, true
				return false
			}
			return true
		})

	case lookup.ExactOrSmaller, lookup.Smaller:
		ix.tree.DescendLessOrEqual(keyAddr[K]{key: key, addr: math.MaxInt64}, func(item keyAddr[K]) bool {
			if policy == lookup.Smaller && item.key == key {
				return true
			}
			if check(item.addr) {
				hit, found = item, true
				return false
			}
			return true
		})

	default:
		return zero, 0, false, &lookup.ErrInvalidPolicy{Policy: policy}
	}

	if !found {
		return zero, 0, false, nil
	}
	return hit.key, hit.addr, true, nil
}

// Keys enumerates the keys in address order.
func (ix *EagerIndex[K]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range ix.keys {
			if !yield(k) {
				return
			}
		}
	}
}

var _ vindex.Index[int64] = (*EagerIndex[int64])(nil)

// Eager is the default builder: it interprets vector commands by
// materializing them into in-memory sources and answers index-algebra
// requests by resolving every address involved. The Virtual dispatcher
// falls back to it when no lazy path exists.
//
// Eager carries no mutable state; a shared instance is safe for
// concurrent use.
type Eager[K cmp.Ordered, V any] struct{}

// NewEager creates the default eager builder.
func NewEager[K cmp.Ordered, V any]() *Eager[K, V] {
	return &Eager[K, V]{}
}

// Build evaluates cmd into a fully materialized in-memory source.
func (e *Eager[K, V]) Build(cmd VectorCommand[V]) (source.Source[V], error) {
	switch c := cmd.(type) {
	case Empty[V]:
		return source.FromCells[V](nil), nil

	case Return[V]:
		return materialize(c.Source), nil

	case GetRange[V]:
		inner, err := e.Build(c.Cmd)
		if err != nil {
			return nil, err
		}
		sub, err := inner.Slice(c.Range)
		if err != nil {
			return nil, err
		}
		return materialize(sub), nil

	case GetSet[V]:
		inner, err := e.Build(c.Cmd)
		if err != nil {
			return nil, err
		}
		return materialize(inner.Select(c.Set)), nil

	case Combined[V]:
		sources := make([]source.Source[V], len(c.Cmds))
		for i, sub := range c.Cmds {
			s, err := e.Build(sub)
			if err != nil {
				return nil, err
			}
			sources[i] = s
		}
		combined, err := source.Combine(c.Fold, sources...)
		if err != nil {
			return nil, err
		}
		return materialize(combined), nil

	case Custom[V]:
		sources := make([]source.Source[V], len(c.Cmds))
		for i, sub := range c.Cmds {
			s, err := e.Build(sub)
			if err != nil {
				return nil, err
			}
			sources[i] = s
		}
		built, err := c.Fn(sources)
		if err != nil {
			return nil, err
		}
		return materialize(built), nil

	default:
		return nil, &ErrUnknownCommand{Cmd: fmt.Sprintf("%T", cmd)}
	}
}

// AddressRange materializes the requested slice: keys are read through the
// index and the vector is rebuilt over the same range.
func (e *Eager[K, V]) AddressRange(ix vindex.Index[K], cmd VectorCommand[V], r source.Range) (vindex.Index[K], VectorCommand[V], error) {
	if !r.Empty() && (r.First < 0 || r.Last >= ix.Len()) {
		return nil, nil, &source.ErrInvalidRange{Range: r, Len: ix.Len()}
	}

	keys := make([]K, 0, r.Len())
	for addr := r.First; addr <= r.Last; addr++ {
		k, err := ix.KeyAt(addr)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, k)
	}

	vec, err := e.Build(GetRange[V]{Cmd: cmd, Range: r})
	if err != nil {
		return nil, nil, err
	}
	return NewEagerIndex(keys), Return[V]{Source: vec}, nil
}

// KeyRange materializes the slice of all addresses whose key falls within
// the bounds, preserving address order.
func (e *Eager[K, V]) KeyRange(ix vindex.Index[K], cmd VectorCommand[V], lo, hi Bound[K]) (vindex.Index[K], VectorCommand[V], error) {
	set := source.NewAddressSet()
	var keys []K
	for addr := int64(0); addr < ix.Len(); addr++ {
		k, err := ix.KeyAt(addr)
		if err != nil {
			return nil, nil, err
		}
		if lo.admitsLow(k) && hi.admitsHigh(k) {
			set.Add(addr)
			keys = append(keys, k)
		}
	}

	vec, err := e.Build(GetSet[V]{Cmd: cmd, Set: set})
	if err != nil {
		return nil, nil, err
	}
	return NewEagerIndex(keys), Return[V]{Source: vec}, nil
}

// Merge unions the key spaces of several eager parts into one sorted
// index. When parts share a key, the earliest part wins.
func (e *Eager[K, V]) Merge(ixs []vindex.Index[K], cmds []VectorCommand[V]) (vindex.Index[K], VectorCommand[V], error) {
	if len(ixs) == 0 || len(ixs) != len(cmds) {
		return nil, nil, &ErrUnsupportedOperation{Op: "Merge", Reason: "index and vector part counts must match and be non-empty"}
	}

	type entry struct {
		key  K
		cell source.Cell[V]
	}
	tree := btree.NewG(32, func(a, b entry) bool { return a.key < b.key })

	for part := range ixs {
		vec, err := e.Build(cmds[part])
		if err != nil {
			return nil, nil, err
		}
		for addr := int64(0); addr < ixs[part].Len(); addr++ {
			k, err := ixs[part].KeyAt(addr)
			if err != nil {
				return nil, nil, err
			}
			if _, ok := tree.Get(entry{key: k}); !ok {
				tree.ReplaceOrInsert(entry{key: k, cell: vec.ValueAt(addr)})
			}
		}
	}

	keys := make([]K, 0, tree.Len())
	cells := make([]source.Cell[V], 0, tree.Len())
	tree.Ascend(func(it entry) bool {
		keys = append(keys, it.key)
		cells = append(cells, it.cell)
		return true
	})
	return NewEagerIndex(keys), Return[V]{Source: source.FromCells(cells)}, nil
}

// materialize resolves every address of src into an in-memory source. The
// deque buffers the cells so sources of unknown-but-large length do not
// force repeated slice reallocation.
func materialize[V any](src source.Source[V]) source.Source[V] {
	buf := container.NewDeque[source.Cell[V]]()
	for addr := int64(0); addr < src.Len(); addr++ {
		buf.PushBack(src.ValueAt(addr))
	}
	cells := make([]source.Cell[V], 0, buf.Len())
	for c := range buf.All() {
		cells = append(cells, c)
	}
	return source.FromCells(cells)
}
