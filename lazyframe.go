package lazyframe

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lazyframe/builder"
	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
	"github.com/hupe1980/lazyframe/vindex"
)

// Series pairs a virtual index with one lazy column. All operations
// return new series; nothing is evaluated until a value is read or the
// series is materialized.
type Series[K cmp.Ordered, V comparable] struct {
	index vindex.Index[K]
	cmd   builder.VectorCommand[V]
	ib    *builder.Virtual[K, V]
	vb    builder.VectorBuilder[V]
}

// NewSeries assembles a series from an explicit index, vector command and
// builder pair. The factory functions cover the common cases; NewSeries
// is for callers that want to share builders across many series or
// substitute their own.
func NewSeries[K cmp.Ordered, V comparable](ix vindex.Index[K], cmd builder.VectorCommand[V], ib *builder.Virtual[K, V], vb builder.VectorBuilder[V]) *Series[K, V] {
	return &Series[K, V]{index: ix, cmd: cmd, ib: ib, vb: vb}
}

// NewOrdinalSeries builds a series over column with the dense ordinal
// index [0, column.Len()-1].
func NewOrdinalSeries[V comparable](column source.Source[V], optFns ...Option) (*Series[int64, V], error) {
	opts := applyOptions(optFns)

	ix, err := vindex.NewOrdinal(0, column.Len()-1)
	if err != nil {
		return nil, err
	}
	return newSeries[int64, V](ix, builder.Return[V]{Source: column}, opts), nil
}

// NewOrderedSeries builds a series over column keyed by an external,
// pre-sorted key source. The key and value sources must report equal
// lengths.
func NewOrderedSeries[K cmp.Ordered, V comparable](keys source.Source[K], column source.Source[V], optFns ...Option) (*Series[K, V], error) {
	opts := applyOptions(optFns)

	if keys.Len() != column.Len() {
		return nil, &source.ErrLengthMismatch{Want: keys.Len(), Got: column.Len()}
	}
	return newSeries[K, V](vindex.NewOrdered(keys), builder.Return[V]{Source: column}, opts), nil
}

func newSeries[K cmp.Ordered, V comparable](ix vindex.Index[K], cmd builder.VectorCommand[V], opts options) *Series[K, V] {
	ib := builder.NewVirtual[K, V](func(o *builder.Options) { o.Logger = opts.logger.Logger })
	return NewSeries(ix, cmd, ib, builder.NewLazy[V]())
}

func (s *Series[K, V]) derive(ix vindex.Index[K], cmd builder.VectorCommand[V]) *Series[K, V] {
	return &Series[K, V]{index: ix, cmd: cmd, ib: s.ib, vb: s.vb}
}

// Index returns the series' index.
func (s *Series[K, V]) Index() vindex.Index[K] {
	return s.index
}

// Command returns the unevaluated vector command backing the series.
func (s *Series[K, V]) Command() builder.VectorCommand[V] {
	return s.cmd
}

// Len returns the number of rows.
func (s *Series[K, V]) Len() int64 {
	return s.index.Len()
}

// Get returns the value at key. The boolean is false when the key is
// absent or the cell is missing; only the one address involved is
// resolved.
func (s *Series[K, V]) Get(key K) (V, bool, error) {
	var zero V
	addr := s.index.Locate(key)
	if addr == source.Invalid {
		return zero, false, nil
	}
	vec, err := s.vb.Build(s.cmd)
	if err != nil {
		return zero, false, err
	}
	v, ok := vec.ValueAt(addr).Get()
	return v, ok, nil
}

// Lookup finds the row whose key is nearest to key under policy,
// returning the found key and its value.
func (s *Series[K, V]) Lookup(key K, policy lookup.Policy) (K, V, bool, error) {
	var zeroK K
	var zeroV V

	found, addr, ok, err := s.index.Lookup(key, policy, lookup.CheckAlways)
	if err != nil || !ok {
		return zeroK, zeroV, false, err
	}
	vec, err := s.vb.Build(s.cmd)
	if err != nil {
		return zeroK, zeroV, false, err
	}
	v, ok := vec.ValueAt(addr).Get()
	if !ok {
		return zeroK, zeroV, false, nil
	}
	return found, v, true, nil
}

// SliceAddresses restricts the series to a contiguous address range.
func (s *Series[K, V]) SliceAddresses(r source.Range) (*Series[K, V], error) {
	ix, cmd, err := s.ib.AddressRange(s.index, s.cmd, r)
	if err != nil {
		return nil, err
	}
	return s.derive(ix, cmd), nil
}

// SliceKeys restricts the series to the rows whose keys fall within the
// given bounds; absent bounds default to the series' own endpoints.
func (s *Series[K, V]) SliceKeys(lo, hi builder.Bound[K]) (*Series[K, V], error) {
	ix, cmd, err := s.ib.KeyRange(s.index, s.cmd, lo, hi)
	if err != nil {
		return nil, err
	}
	return s.derive(ix, cmd), nil
}

// SearchValue restricts the series to the rows whose value equals target.
func (s *Series[K, V]) SearchValue(target V) (*Series[K, V], error) {
	ix, cmd, err := s.ib.Search(s.index, s.cmd, target)
	if err != nil {
		return nil, err
	}
	return s.derive(ix, cmd), nil
}

// WithKeys installs a new ordered index over the existing data. The
// replacement key column must report the series' length.
func (s *Series[K, V]) WithKeys(keys source.Source[K]) (*Series[K, V], error) {
	if keys.Len() != s.Len() {
		return nil, &source.ErrLengthMismatch{Want: s.Len(), Got: keys.Len()}
	}
	ix, cmd, err := s.ib.WithIndex(keys, s.cmd)
	if err != nil {
		return nil, err
	}
	return s.derive(ix, cmd), nil
}

// Reindex realigns the series to newIndex. Only the trivial case (both
// ordinal with identical ranges) is supported lazily; everything else
// fails rather than silently materializing.
func (s *Series[K, V]) Reindex(newIndex vindex.Index[K]) (*Series[K, V], error) {
	cmd, err := s.ib.Reindex(s.index, newIndex, s.cmd)
	if err != nil {
		return nil, err
	}
	return s.derive(newIndex, cmd), nil
}

// Merge unions the series with others. It fails when any participant is
// backed by a lazy index; materialize explicitly first.
func (s *Series[K, V]) Merge(others ...*Series[K, V]) (*Series[K, V], error) {
	ixs := make([]vindex.Index[K], 0, len(others)+1)
	cmds := make([]builder.VectorCommand[V], 0, len(others)+1)
	ixs = append(ixs, s.index)
	cmds = append(cmds, s.cmd)
	for _, o := range others {
		ixs = append(ixs, o.index)
		cmds = append(cmds, o.cmd)
	}

	ix, cmd, err := s.ib.Merge(ixs, cmds)
	if err != nil {
		return nil, err
	}
	return s.derive(ix, cmd), nil
}

// Materialize forces the series into the eager representation, resolving
// every address.
func (s *Series[K, V]) Materialize(ctx context.Context) (*Series[K, V], error) {
	m, err := s.ib.Materialize(s.index, s.cmd).Await(ctx)
	if err != nil {
		return nil, err
	}
	return s.derive(m.Index, m.Vector), nil
}

// Frame pairs one virtual index with several named lazy columns of a
// common value type.
type Frame[K cmp.Ordered, V comparable] struct {
	index vindex.Index[K]
	names []string
	cmds  []builder.VectorCommand[V]
	ib    *builder.Virtual[K, V]
	vb    builder.VectorBuilder[V]
}

// NewFrame assembles a frame from an explicit index, named vector
// commands and builder pair.
func NewFrame[K cmp.Ordered, V comparable](ix vindex.Index[K], names []string, cmds []builder.VectorCommand[V], ib *builder.Virtual[K, V], vb builder.VectorBuilder[V]) (*Frame[K, V], error) {
	if len(cmds) == 0 {
		return nil, ErrNoColumns
	}
	if len(names) != len(cmds) {
		return nil, &ErrColumnCountMismatch{Names: len(names), Columns: len(cmds)}
	}
	return &Frame[K, V]{index: ix, names: slices.Clone(names), cmds: slices.Clone(cmds), ib: ib, vb: vb}, nil
}

// NewOrdinalFrame builds a frame over the named columns with the dense
// ordinal index [0, n-1]. At least one column is required and all columns
// must report equal lengths.
func NewOrdinalFrame[V comparable](names []string, columns []source.Source[V], optFns ...Option) (*Frame[int64, V], error) {
	opts := applyOptions(optFns)

	if err := validateColumns(names, columns); err != nil {
		return nil, err
	}
	ix, err := vindex.NewOrdinal(0, columns[0].Len()-1)
	if err != nil {
		return nil, err
	}
	return newFrame[int64, V](ix, names, columns, opts), nil
}

// NewOrderedFrame builds a frame keyed by an external, pre-sorted key
// source. At least one column is required; the key source and all columns
// must report equal lengths.
func NewOrderedFrame[K cmp.Ordered, V comparable](keys source.Source[K], names []string, columns []source.Source[V], optFns ...Option) (*Frame[K, V], error) {
	opts := applyOptions(optFns)

	if err := validateColumns(names, columns); err != nil {
		return nil, err
	}
	if keys.Len() != columns[0].Len() {
		return nil, &source.ErrLengthMismatch{Want: keys.Len(), Got: columns[0].Len()}
	}
	return newFrame[K, V](vindex.NewOrdered(keys), names, columns, opts), nil
}

func validateColumns[V comparable](names []string, columns []source.Source[V]) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	if len(names) != len(columns) {
		return &ErrColumnCountMismatch{Names: len(names), Columns: len(columns)}
	}
	want := columns[0].Len()
	for _, c := range columns[1:] {
		if c.Len() != want {
			return &source.ErrLengthMismatch{Want: want, Got: c.Len()}
		}
	}
	return nil
}

func newFrame[K cmp.Ordered, V comparable](ix vindex.Index[K], names []string, columns []source.Source[V], opts options) *Frame[K, V] {
	cmds := make([]builder.VectorCommand[V], len(columns))
	for i, c := range columns {
		cmds[i] = builder.Return[V]{Source: c}
	}
	ib := builder.NewVirtual[K, V](func(o *builder.Options) { o.Logger = opts.logger.Logger })
	return &Frame[K, V]{
		index: ix,
		names: slices.Clone(names),
		cmds:  cmds,
		ib:    ib,
		vb:    builder.NewLazy[V](),
	}
}

func (f *Frame[K, V]) derive(ix vindex.Index[K], cmds []builder.VectorCommand[V]) *Frame[K, V] {
	return &Frame[K, V]{index: ix, names: f.names, cmds: cmds, ib: f.ib, vb: f.vb}
}

// Index returns the frame's index.
func (f *Frame[K, V]) Index() vindex.Index[K] {
	return f.index
}

// Names returns the column names in order.
func (f *Frame[K, V]) Names() []string {
	return slices.Clone(f.names)
}

// Len returns the number of rows.
func (f *Frame[K, V]) Len() int64 {
	return f.index.Len()
}

// Column returns the named column as a series sharing the frame's index.
func (f *Frame[K, V]) Column(name string) (*Series[K, V], error) {
	i := slices.Index(f.names, name)
	if i < 0 {
		return nil, &ErrColumnNotFound{Name: name}
	}
	return &Series[K, V]{index: f.index, cmd: f.cmds[i], ib: f.ib, vb: f.vb}, nil
}

// SliceAddresses restricts every column to a contiguous address range.
func (f *Frame[K, V]) SliceAddresses(r source.Range) (*Frame[K, V], error) {
	ix := f.index
	cmds := make([]builder.VectorCommand[V], len(f.cmds))
	for i, cmd := range f.cmds {
		newIx, newCmd, err := f.ib.AddressRange(f.index, cmd, r)
		if err != nil {
			return nil, err
		}
		ix, cmds[i] = newIx, newCmd
	}
	return f.derive(ix, cmds), nil
}

// SliceKeys restricts every column to the rows whose keys fall within the
// given bounds.
func (f *Frame[K, V]) SliceKeys(lo, hi builder.Bound[K]) (*Frame[K, V], error) {
	ix := f.index
	cmds := make([]builder.VectorCommand[V], len(f.cmds))
	for i, cmd := range f.cmds {
		newIx, newCmd, err := f.ib.KeyRange(f.index, cmd, lo, hi)
		if err != nil {
			return nil, err
		}
		ix, cmds[i] = newIx, newCmd
	}
	return f.derive(ix, cmds), nil
}

// Materialize forces every column into the eager representation. Columns
// materialize as parallel tasks; the first failure wins.
func (f *Frame[K, V]) Materialize(ctx context.Context) (*Frame[K, V], error) {
	results := make([]builder.Materialized[K, V], len(f.cmds))

	g, gctx := errgroup.WithContext(ctx)
	for i, cmd := range f.cmds {
		task := f.ib.Materialize(f.index, cmd)
		g.Go(func() error {
			m, err := task.Await(gctx)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmds := make([]builder.VectorCommand[V], len(results))
	for i, m := range results {
		cmds[i] = m.Vector
	}
	return f.derive(results[0].Index, cmds), nil
}
