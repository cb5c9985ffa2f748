// Package intmap is the integer-valued associative container used to memoize
// collisions and tally placement frequencies during one move-generation pass.
package intmap

import "github.com/dolthub/swiss"

// Absent is returned by Get for keys that were never stored.
// Values stored in this domain are never negative.
const Absent = -1

// Map associates comparable keys with non-negative integers.
// It has no delete; a map lives for a single pass and is then dropped.
type Map[K comparable] struct {
	m *swiss.Map[K, int]
}

// New allocates a map sized for roughly sizeHint keys.
func New[K comparable](sizeHint uint32) *Map[K] {
	return &Map[K]{m: swiss.NewMap[K, int](sizeHint)}
}

// Get returns the value for k, or Absent.
func (m *Map[K]) Get(k K) int {
	if v, ok := m.m.Get(k); ok {
		return v
	}
	return Absent
}

func (m *Map[K]) Has(k K) bool { return m.m.Has(k) }

// Put inserts k or overwrites its value.
func (m *Map[K]) Put(k K, v int) { m.m.Put(k, v) }

// Inc adds delta to k, treating a missing key as zero, and returns the new value.
func (m *Map[K]) Inc(k K, delta int) int {
	v, _ := m.m.Get(k)
	v += delta
	m.m.Put(k, v)
	return v
}

func (m *Map[K]) Len() int { return m.m.Count() }

// Each visits every entry in unspecified order until fn returns false.
func (m *Map[K]) Each(fn func(k K, v int) bool) {
	m.m.Iter(func(k K, v int) (stop bool) {
		return !fn(k, v)
	})
}
