// Package addr implements address-keyed ordered storage used throughout
// pkg/disasm: symbol tables, pointer-in-data queues and offset indices all
// need deterministic, sorted iteration instead of Go's randomized map order.
package addr

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedMap is a map keyed by an ordered key type that keeps its keys
// sorted, so Range/Keys never depend on Go's map iteration order. Get and
// Has are O(1) through the backing map; KeyRight and the start of a range
// are found by O(log n) binary search over the sorted key slice; Set of a
// new key and Pop shift that slice, so they are O(n).
type SortedMap[K constraints.Ordered, V any] struct {
	values map[K]V
	keys   []K
}

func NewSortedMap[K constraints.Ordered, V any]() *SortedMap[K, V] {
	return &SortedMap[K, V]{values: make(map[K]V)}
}

func (m *SortedMap[K, V]) Len() int {
	return len(m.keys)
}

func (m *SortedMap[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

func (m *SortedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or overwrites the value at key, keeping m.keys sorted.
func (m *SortedMap[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		i := m.search(key)
		m.keys = append(m.keys, key)
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	m.values[key] = value
}

// Pop removes and returns the value at key, if present.
func (m *SortedMap[K, V]) Pop(key K) (V, bool) {
	v, ok := m.values[key]
	if !ok {
		return v, false
	}
	delete(m.values, key)
	i := m.search(key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	return v, true
}

func (m *SortedMap[K, V]) search(key K) int {
	return sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
}

// KeyRight returns the greatest key <= target (inclusive=true) or < target
// (inclusive=false), matching the original's getKeyRight lookup used by
// SymbolsSegment.GetSymbol's plus-offset resolution.
func (m *SortedMap[K, V]) KeyRight(target K, inclusive bool) (K, bool) {
	i := m.search(target)
	if i < len(m.keys) && m.keys[i] == target {
		if inclusive {
			return m.keys[i], true
		}
		i--
	} else {
		i--
	}
	if i < 0 {
		var zero K
		return zero, false
	}
	return m.keys[i], true
}

// Range calls f for every key in [start, end) in ascending order.
func (m *SortedMap[K, V]) Range(start, end K, f func(key K, value V)) {
	i := m.search(start)
	for ; i < len(m.keys) && m.keys[i] < end; i++ {
		f(m.keys[i], m.values[m.keys[i]])
	}
}

// RangeAndPop removes and returns, in ascending order, every entry with key
// in [start, end).
func (m *SortedMap[K, V]) RangeAndPop(start, end K) []Pair[K, V] {
	i := m.search(start)
	j := i
	for ; j < len(m.keys) && m.keys[j] < end; j++ {
	}

	out := make([]Pair[K, V], 0, j-i)
	for _, key := range m.keys[i:j] {
		out = append(out, Pair[K, V]{Key: key, Value: m.values[key]})
		delete(m.values, key)
	}
	m.keys = append(m.keys[:i], m.keys[j:]...)

	return out
}

// Keys returns every key in ascending order. The returned slice aliases
// internal storage and must not be mutated.
func (m *SortedMap[K, V]) Keys() []K {
	return m.keys
}

// Pair is an ordered key/value entry, as returned by RangeAndPop.
type Pair[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}
