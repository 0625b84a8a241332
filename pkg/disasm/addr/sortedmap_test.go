package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedMapKeepsKeysSorted(t *testing.T) {
	m := NewSortedMap[uint32, string]()

	m.Set(30, "c")
	m.Set(10, "a")
	m.Set(20, "b")

	assert.Equal(t, []uint32{10, 20, 30}, m.Keys())

	v, ok := m.Get(20)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestSortedMapSetOverwritesWithoutDuplicatingKey(t *testing.T) {
	m := NewSortedMap[uint32, string]()

	m.Set(10, "a")
	m.Set(10, "a2")

	assert.Equal(t, []uint32{10}, m.Keys())
	v, _ := m.Get(10)
	assert.Equal(t, "a2", v)
}

func TestSortedMapPop(t *testing.T) {
	m := NewSortedMap[uint32, string]()
	m.Set(10, "a")
	m.Set(20, "b")

	v, ok := m.Pop(10)
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, []uint32{20}, m.Keys())

	_, ok = m.Pop(10)
	assert.False(t, ok)
}

func TestSortedMapKeyRight(t *testing.T) {
	m := NewSortedMap[uint32, string]()
	m.Set(10, "a")
	m.Set(20, "b")
	m.Set(30, "c")

	k, ok := m.KeyRight(25, true)
	require.True(t, ok)
	assert.Equal(t, uint32(20), k)

	k, ok = m.KeyRight(20, true)
	require.True(t, ok)
	assert.Equal(t, uint32(20), k)

	k, ok = m.KeyRight(20, false)
	require.True(t, ok)
	assert.Equal(t, uint32(10), k)

	_, ok = m.KeyRight(5, true)
	assert.False(t, ok)
}

func TestSortedMapRange(t *testing.T) {
	m := NewSortedMap[uint32, int]()
	for _, k := range []uint32{10, 20, 30, 40} {
		m.Set(k, int(k))
	}

	var got []uint32
	m.Range(15, 35, func(key uint32, value int) {
		got = append(got, key)
	})

	assert.Equal(t, []uint32{20, 30}, got)
}

func TestSortedMapRangeAndPop(t *testing.T) {
	m := NewSortedMap[uint32, int]()
	for _, k := range []uint32{10, 20, 30, 40} {
		m.Set(k, int(k))
	}

	popped := m.RangeAndPop(15, 35)
	require.Len(t, popped, 2)
	assert.Equal(t, uint32(20), popped[0].Key)
	assert.Equal(t, uint32(30), popped[1].Key)

	assert.Equal(t, []uint32{10, 40}, m.Keys())
}
