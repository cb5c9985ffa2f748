package intmap

import "testing"

type pairKey struct {
	a, b int
}

func TestGetAbsent(t *testing.T) {
	m := New[int](8)
	if got := m.Get(42); got != Absent {
		t.Errorf("Get on empty map = %d, want %d", got, Absent)
	}
	if m.Has(42) {
		t.Error("Has on empty map = true")
	}
}

func TestPutOverwrites(t *testing.T) {
	m := New[int](8)
	m.Put(3, 1)
	m.Put(3, 9)
	if got := m.Get(3); got != 9 {
		t.Errorf("Get = %d, want 9", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestIncStructKeys(t *testing.T) {
	m := New[pairKey](0)
	for i := 0; i < 1000; i++ {
		m.Inc(pairKey{i % 10, i % 7}, 1)
	}
	total := 0
	m.Each(func(_ pairKey, v int) bool {
		total += v
		return true
	})
	if total != 1000 {
		t.Errorf("sum of counts = %d, want 1000", total)
	}
	if m.Len() != 70 {
		t.Errorf("Len = %d, want 70", m.Len())
	}
	if got := m.Get(pairKey{0, 0}); got != 15 {
		t.Errorf("count for {0,0} = %d, want 15", got)
	}
}

func TestEachStops(t *testing.T) {
	m := New[int](16)
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	seen := 0
	m.Each(func(int, int) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Errorf("visited %d entries, want 3", seen)
	}
}
