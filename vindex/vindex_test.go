package vindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lazyframe/lookup"
	"github.com/hupe1980/lazyframe/source"
)

func TestOrdinalRoundTrip(t *testing.T) {
	ix, err := NewOrdinal(100, 104)
	require.NoError(t, err)
	require.Equal(t, int64(5), ix.Len())

	for addr := int64(0); addr < ix.Len(); addr++ {
		key, err := ix.KeyAt(addr)
		require.NoError(t, err)
		assert.Equal(t, addr, ix.Locate(key))
	}
}

func TestOrdinalScenario(t *testing.T) {
	ix, err := NewOrdinal(100, 104)
	require.NoError(t, err)

	assert.Equal(t, int64(2), ix.Locate(102))

	key, err := ix.KeyAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), key)
}

func TestOrdinalOutOfDomain(t *testing.T) {
	ix, err := NewOrdinal(100, 104)
	require.NoError(t, err)

	assert.Equal(t, source.Invalid, ix.Locate(99))
	assert.Equal(t, source.Invalid, ix.Locate(105))

	_, err = ix.KeyAt(5)
	var oor *ErrKeyOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, int64(5), oor.Addr)

	_, err = ix.KeyAt(-1)
	assert.ErrorAs(t, err, &oor)
}

func TestOrdinalEmpty(t *testing.T) {
	ix, err := NewOrdinal(10, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ix.Len())
	assert.Equal(t, source.Invalid, ix.Locate(10))

	_, _, ok, err := ix.Lookup(10, lookup.ExactOrGreater, lookup.CheckAlways)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrdinalInvalidRange(t *testing.T) {
	_, err := NewOrdinal(10, 8)
	var ir *ErrInvalidKeyRange
	require.ErrorAs(t, err, &ir)
	assert.Equal(t, int64(10), ir.Lo)
}

func TestOrdinalLookupPolicies(t *testing.T) {
	ix, err := NewOrdinal(100, 104)
	require.NoError(t, err)

	key, addr, ok, err := ix.Lookup(102, lookup.Exact, lookup.CheckAlways)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(102), key)
	assert.Equal(t, int64(2), addr)

	key, addr, ok, err = ix.Lookup(98, lookup.Greater, lookup.CheckAlways)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(100), key)
	assert.Equal(t, int64(0), addr)

	key, addr, ok, err = ix.Lookup(200, lookup.ExactOrSmaller, lookup.CheckAlways)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(104), key)
	assert.Equal(t, int64(4), addr)

	// Validity check skips addresses in the arithmetic key space too.
	key, addr, ok, err = ix.Lookup(102, lookup.ExactOrGreater, func(a int64) bool { return a != 2 })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(103), key)
	assert.Equal(t, int64(3), addr)
}

func TestOrderedRoundTrip(t *testing.T) {
	keys := source.FromSortedSlice([]int64{2, 4, 8, 16, 32})
	ix := NewOrdered(keys)

	require.Equal(t, int64(5), ix.Len())
	for addr := int64(0); addr < ix.Len(); addr++ {
		key, err := ix.KeyAt(addr)
		require.NoError(t, err)

		found, at, ok, err := ix.Lookup(key, lookup.Exact, lookup.CheckAlways)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, key, found)
		assert.Equal(t, addr, at)
	}
}

func TestOrderedLocate(t *testing.T) {
	ix := NewOrdered(source.FromSortedSlice([]int64{1, 3, 5, 7, 9}))

	assert.Equal(t, int64(2), ix.Locate(5))
	assert.Equal(t, source.Invalid, ix.Locate(4))
}

func TestOrderedKeyRange(t *testing.T) {
	ix := NewOrdered(source.FromSortedSlice([]int64{1, 3, 5, 7, 9}))

	lo, hi, ok := ix.KeyRange()
	require.True(t, ok)
	assert.Equal(t, int64(1), lo)
	assert.Equal(t, int64(9), hi)

	empty := NewOrdered(source.FromSortedSlice([]int64{}))
	_, _, ok = empty.KeyRange()
	assert.False(t, ok)
}

func TestOrderedKeysEnumeration(t *testing.T) {
	ix := NewOrdered(source.FromSortedSlice([]int64{1, 3, 5}))

	var got []int64
	for k := range ix.Keys() {
		got = append(got, k)
	}
	assert.Equal(t, []int64{1, 3, 5}, got)
}

func TestOrderedKeyAtOutOfRange(t *testing.T) {
	ix := NewOrdered(source.FromSortedSlice([]int64{1, 3, 5}))

	_, err := ix.KeyAt(3)
	var oor *ErrKeyOutOfRange
	assert.ErrorAs(t, err, &oor)
}
