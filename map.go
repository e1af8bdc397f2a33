package arena

import (
	"bytes"
	"cmp"
	"iter"
)

// Order defines a strict weak ordering over K together with equality.
// Implementations are zero-size types so a Map carries no comparator state.
type Order[K any] interface {
	Less(a, b K) bool
	Equal(a, b K) bool
}

// Ordered orders keys with the built-in comparison operators.
type Ordered[K cmp.Ordered] struct{}

func (Ordered[K]) Less(a, b K) bool  { return cmp.Less(a, b) }
func (Ordered[K]) Equal(a, b K) bool { return cmp.Compare(a, b) == 0 }

// StrOrder orders Str keys bytewise.
type StrOrder struct{}

func (StrOrder) Less(a, b Str) bool  { return bytes.Compare(a.data, b.data) < 0 }
func (StrOrder) Equal(a, b Str) bool { return bytes.Equal(a.data, b.data) }

// Pair is one key/value entry of a Map.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Map is an ordered associative container backed by a sorted Vec of pairs.
// Lookups are binary searches; inserts and erases shift the tail. The zero
// value is an empty map.
//
// Value pointers returned by At and Find are invalidated by the next insert
// or erase.
type Map[K, V any, O Order[K]] struct {
	pairs Vec[Pair[K, V]]
}

// StrMap maps Str keys to Str values.
type StrMap = Map[Str, Str, StrOrder]

// search returns the first index whose key is not before the target, where
// before reports whether a key sorts before it.
func (m *Map[K, V, O]) search(before func(K) bool) int {
	data := m.pairs.data
	first, count := 0, len(data)
	for count > 0 {
		step := count / 2
		it := first + step
		if before(data[it].Key) {
			first = it + 1
			count -= step + 1
		} else {
			count = step
		}
	}
	return first
}

func (m *Map[K, V, O]) lowerBound(key K) int {
	var o O
	return m.search(func(k K) bool { return o.Less(k, key) })
}

// Find returns a pointer to the value stored under key, or nil.
func (m *Map[K, V, O]) Find(key K) *V {
	var o O
	i := m.lowerBound(key)
	if i < len(m.pairs.data) && o.Equal(m.pairs.data[i].Key, key) {
		return &m.pairs.data[i].Value
	}
	return nil
}

// At returns a pointer to the value stored under key, inserting a zero
// value in sorted position first if the key is absent.
func (m *Map[K, V, O]) At(a *Arena, key K) *V {
	var o O
	i := m.lowerBound(key)
	switch {
	case i == len(m.pairs.data):
		return &m.pairs.Push(a, Pair[K, V]{Key: key}).Value
	case o.Equal(m.pairs.data[i].Key, key):
		return &m.pairs.data[i].Value
	default:
		return &m.pairs.Insert(a, i, Pair[K, V]{Key: key}).Value
	}
}

// Erase removes key and reports whether it was present.
func (m *Map[K, V, O]) Erase(key K) bool {
	var o O
	i := m.lowerBound(key)
	if i == len(m.pairs.data) || !o.Equal(m.pairs.data[i].Key, key) {
		return false
	}
	m.pairs.Erase(i)
	return true
}

// Len returns the number of entries.
func (m *Map[K, V, O]) Len() int {
	return m.pairs.Len()
}

// Pairs returns the entries in ascending key order, aliasing map storage.
func (m *Map[K, V, O]) Pairs() []Pair[K, V] {
	return m.pairs.data
}

// All yields every key and a pointer to its value in ascending key order.
func (m *Map[K, V, O]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range m.pairs.data {
			p := &m.pairs.data[i]
			if !yield(p.Key, &p.Value) {
				return
			}
		}
	}
}

// Clear removes every entry and keeps the storage.
func (m *Map[K, V, O]) Clear() {
	m.pairs.Clear()
}

func findByString[V any](m *Map[Str, V, StrOrder], key string) (int, bool) {
	i := m.search(func(k Str) bool { return k.compareString(key) < 0 })
	return i, i < len(m.pairs.data) && m.pairs.data[i].Key.compareString(key) == 0
}

// FindString looks key up without copying it into an arena.
func FindString[V any](m *Map[Str, V, StrOrder], key string) *V {
	if i, ok := findByString(m, key); ok {
		return &m.pairs.data[i].Value
	}
	return nil
}

// AtString is At for a Go string key. The key is copied into a only when it
// is inserted.
func AtString[V any](a *Arena, m *Map[Str, V, StrOrder], key string) *V {
	i, ok := findByString(m, key)
	if ok {
		return &m.pairs.data[i].Value
	}
	return &m.pairs.Insert(a, i, Pair[Str, V]{Key: S(a, key)}).Value
}

// EraseString is Erase for a Go string key.
func EraseString[V any](m *Map[Str, V, StrOrder], key string) bool {
	i, ok := findByString(m, key)
	if ok {
		m.pairs.Erase(i)
	}
	return ok
}
