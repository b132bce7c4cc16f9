package lazyframe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lazyframe/builder"
	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
	"github.com/hupe1980/lazyframe/util"
	"github.com/hupe1980/lazyframe/vindex"
)

func TestNewOrdinalSeries(t *testing.T) {
	s, err := NewOrdinalSeries(source.FromSlice([]string{"a", "b", "c"}))
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.Len())

	v, ok, err := s.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok, err = s.Get(7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewOrderedSeries(t *testing.T) {
	keys := source.FromSortedSlice([]int64{10, 20, 30})
	vals := source.FromSlice([]float64{1.5, 2.5, 3.5})

	s, err := NewOrderedSeries(keys, vals)
	require.NoError(t, err)

	v, ok, err := s.Get(20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, ok, err = s.Get(25)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewOrderedSeriesLengthMismatch(t *testing.T) {
	keys := source.FromSortedSlice([]int64{10, 20, 30})
	vals := source.FromSlice([]float64{1.5, 2.5})

	_, err := NewOrderedSeries(keys, vals)

	var lm *source.ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
	assert.Equal(t, int64(3), lm.Want)
	assert.Equal(t, int64(2), lm.Got)
}

func TestSeriesLookup(t *testing.T) {
	keys := source.FromSortedSlice([]int64{10, 20, 30})
	vals := source.FromSlice([]string{"x", "y", "z"})

	s, err := NewOrderedSeries(keys, vals)
	require.NoError(t, err)

	k, v, ok, err := s.Lookup(25, lookup.ExactOrSmaller)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(20), k)
	assert.Equal(t, "y", v)

	_, _, ok, err = s.Lookup(25, lookup.Exact)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesSliceAddresses(t *testing.T) {
	s, err := NewOrdinalSeries(source.FromSlice([]int64{100, 101, 102, 103, 104}))
	require.NoError(t, err)

	sub, err := s.SliceAddresses(source.NewRange(1, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(3), sub.Len())

	// Ordinal keys survive the slice; only the window moves.
	v, ok, err := sub.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(101), v)

	v, ok, err = sub.Get(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(103), v)

	_, ok, err = sub.Get(0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesSliceKeys(t *testing.T) {
	keys := source.FromSortedSlice([]int64{1, 3, 5, 7, 9})
	vals := source.FromSlice([]string{"a", "b", "c", "d", "e"})

	s, err := NewOrderedSeries(keys, vals)
	require.NoError(t, err)

	sub, err := s.SliceKeys(builder.Excl(int64(3)), builder.Incl(int64(9)))
	require.NoError(t, err)

	assert.Equal(t, int64(3), sub.Len())

	v, ok, err := sub.Get(5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok, err = sub.Get(3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesSearchValue(t *testing.T) {
	keys := source.FromSortedSlice([]int64{1, 2, 3, 4})
	vals := source.FromSlice([]string{"hit", "miss", "hit", "miss"})

	s, err := NewOrderedSeries(keys, vals)
	require.NoError(t, err)

	sub, err := s.SearchValue("hit")
	require.NoError(t, err)

	assert.Equal(t, int64(2), sub.Len())

	v, ok, err := sub.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hit", v)

	v, ok, err = sub.Get(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hit", v)

	_, ok, err = sub.Get(2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesSearchValueAfterSlice(t *testing.T) {
	keys := source.FromSortedSlice([]int64{1, 2, 3, 4, 5, 6})
	vals := source.FromSlice([]string{"miss", "hit", "miss", "hit", "hit", "miss"})

	s, err := NewOrderedSeries(keys, vals)
	require.NoError(t, err)

	sub, err := s.SliceAddresses(source.NewRange(1, 4))
	require.NoError(t, err)

	// Window covers keys 2..5 with values hit, miss, hit, hit.
	found, err := sub.SearchValue("hit")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.Len())

	v, ok, err := found.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hit", v)

	v, ok, err = found.Get(5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hit", v)

	_, ok, err = found.Get(3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesWithKeys(t *testing.T) {
	s, err := NewOrdinalSeries(source.FromSlice([]string{"a", "b", "c"}))
	require.NoError(t, err)

	reKeyed, err := s.WithKeys(source.FromSortedSlice([]int64{10, 20, 30}))
	require.NoError(t, err)

	v, ok, err := reKeyed.Get(30)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, err = s.WithKeys(source.FromSortedSlice([]int64{10, 20}))
	var lm *source.ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
}

func TestSeriesMaterialize(t *testing.T) {
	s, err := NewOrdinalSeries(source.FromSlice([]int64{7, 8, 9}))
	require.NoError(t, err)

	m, err := s.Materialize(context.Background())
	require.NoError(t, err)

	assert.False(t, m.Index().Kind().Lazy())

	v, ok, err := m.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(8), v)
}

func TestSeriesMergeRequiresEager(t *testing.T) {
	a, err := NewOrdinalSeries(source.FromSlice([]int64{1, 2}))
	require.NoError(t, err)
	b, err := NewOrdinalSeries(source.FromSlice([]int64{3, 4}))
	require.NoError(t, err)

	_, err = a.Merge(b)

	var uo *builder.ErrUnsupportedOperation
	require.ErrorAs(t, err, &uo)
	assert.Equal(t, "Merge", uo.Op)
}

func TestSeriesMergeAfterMaterialize(t *testing.T) {
	ctx := context.Background()

	a, err := NewOrdinalSeries(source.FromSlice([]string{"a0", "a1"}))
	require.NoError(t, err)
	b, err := NewOrdinalSeries(source.FromSlice([]string{"b0", "b1"}))
	require.NoError(t, err)

	ma, err := a.Materialize(ctx)
	require.NoError(t, err)
	mb, err := b.Materialize(ctx)
	require.NoError(t, err)

	merged, err := ma.Merge(mb)
	require.NoError(t, err)

	// Keys collide; the earliest participant wins per key.
	assert.Equal(t, int64(2), merged.Len())

	v, ok, err := merged.Get(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a0", v)
}

func TestNewOrdinalFrame(t *testing.T) {
	f, err := NewOrdinalFrame(
		[]string{"price", "volume"},
		[]source.Source[int64]{
			source.FromSlice([]int64{100, 110, 120}),
			source.FromSlice([]int64{5, 6, 7}),
		},
	)
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.Len())
	assert.Equal(t, []string{"price", "volume"}, f.Names())

	col, err := f.Column("volume")
	require.NoError(t, err)

	v, ok, err := col.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	_, err = f.Column("missing")
	var nf *ErrColumnNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
}

func TestNewOrdinalFrameValidation(t *testing.T) {
	_, err := NewOrdinalFrame[int64](nil, nil)
	require.ErrorIs(t, err, ErrNoColumns)

	_, err = NewOrdinalFrame(
		[]string{"only"},
		[]source.Source[int64]{
			source.FromSlice([]int64{1}),
			source.FromSlice([]int64{2}),
		},
	)
	var cm *ErrColumnCountMismatch
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, 1, cm.Names)
	assert.Equal(t, 2, cm.Columns)

	_, err = NewOrdinalFrame(
		[]string{"a", "b"},
		[]source.Source[int64]{
			source.FromSlice([]int64{1, 2}),
			source.FromSlice([]int64{3}),
		},
	)
	var lm *source.ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
}

func TestNewOrderedFrame(t *testing.T) {
	keys := source.FromSortedSlice([]int64{10, 20, 30})
	f, err := NewOrderedFrame(keys,
		[]string{"high", "low"},
		[]source.Source[float64]{
			source.FromSlice([]float64{9.5, 9.9, 10.1}),
			source.FromSlice([]float64{9.1, 9.4, 9.8}),
		},
	)
	require.NoError(t, err)

	col, err := f.Column("low")
	require.NoError(t, err)

	v, ok, err := col.Get(20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9.4, v)
}

func TestFrameSliceKeys(t *testing.T) {
	keys := source.FromSortedSlice([]int64{1, 2, 3, 4, 5})
	f, err := NewOrderedFrame(keys,
		[]string{"a", "b"},
		[]source.Source[int64]{
			source.FromSlice([]int64{10, 20, 30, 40, 50}),
			source.FromSlice([]int64{-1, -2, -3, -4, -5}),
		},
	)
	require.NoError(t, err)

	sub, err := f.SliceKeys(builder.Incl(int64(2)), builder.Incl(int64(4)))
	require.NoError(t, err)

	assert.Equal(t, int64(3), sub.Len())

	col, err := sub.Column("b")
	require.NoError(t, err)

	v, ok, err := col.Get(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-3), v)
}

func TestFrameMaterialize(t *testing.T) {
	f, err := NewOrdinalFrame(
		[]string{"a", "b"},
		[]source.Source[int64]{
			source.FromSlice([]int64{1, 2, 3}),
			source.FromSlice([]int64{4, 5, 6}),
		},
	)
	require.NoError(t, err)

	m, err := f.Materialize(context.Background())
	require.NoError(t, err)

	assert.False(t, m.Index().Kind().Lazy())

	col, err := m.Column("b")
	require.NoError(t, err)

	v, ok, err := col.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), v)
}

func TestNewSeriesExplicitBuilders(t *testing.T) {
	ib := builder.NewVirtual[int64, string]()
	keys := source.FromSortedSlice([]int64{1, 2, 3})

	// Sharing one dispatcher and interpreting commands eagerly instead of
	// through the lazy view composer.
	s := NewSeries(vindex.NewOrdered(keys),
		builder.Return[string]{Source: source.FromSlice([]string{"a", "b", "c"})},
		ib, ib.Eager())

	v, ok, err := s.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	sub, err := s.SliceKeys(builder.Incl(int64(2)), builder.NoBound[int64]())
	require.NoError(t, err)
	assert.Equal(t, int64(2), sub.Len())
}

func TestSeriesGeneratedKeys(t *testing.T) {
	rng := util.NewRNG(4711)
	keys := rng.GenerateSortedKeys(1000, 5)
	vals := rng.GenerateValues(1000)

	s, err := NewOrderedSeries(source.FromSortedSlice(keys), source.FromSlice(vals))
	require.NoError(t, err)

	for _, i := range []int{0, 499, 999} {
		v, ok, err := s.Get(keys[i])
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, vals[i], v)
	}

	// A probe below the smallest key resolves to the first row under
	// ExactOrGreater.
	k, v, ok, err := s.Lookup(-1, lookup.ExactOrGreater)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, keys[0], k)
	assert.Equal(t, vals[0], v)
}

func TestFrameMaterializeCanceled(t *testing.T) {
	f, err := NewOrdinalFrame(
		[]string{"a"},
		[]source.Source[int64]{source.FromSlice([]int64{1, 2, 3})},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Materialize(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}
