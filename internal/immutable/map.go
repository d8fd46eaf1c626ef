package immutable

import (
	"maps"
	"slices"
)

// Entry is a key-value pair produced by Map iteration.
type Entry[K comparable, V comparable] struct {
	Key   K
	Value V
}

// Map is a read-only, tamper-evident map. Values must be comparable so that an
// in-place value replacement changes the content hash.
type Map[K comparable, V comparable] struct {
	g     guard
	items map[K]V
}

// NewMap builds a Map that owns a private copy of m.
func NewMap[K comparable, V comparable](m map[K]V) *Map[K, V] {
	return WrapMap(maps.Clone(m))
}

// WrapMap wraps m by reference. A nil map is treated as empty.
func WrapMap[K comparable, V comparable](m map[K]V) *Map[K, V] {
	if m == nil {
		m = map[K]V{}
	}
	mm := &Map[K, V]{items: m}
	mm.g.count = len(m)
	mm.g.sum = mm.sum()
	return mm
}

func (m *Map[K, V]) count() int { return len(m.items) }

func (m *Map[K, V]) sum() uint64 {
	return unorderedSum(func(yield func(Entry[K, V]) bool) {
		for k, v := range m.items {
			if !yield(Entry[K, V]{Key: k, Value: v}) {
				return
			}
		}
	})
}

// Err returns ErrTamperDetected if the backing store was modified, nil otherwise.
func (m *Map[K, V]) Err() error {
	return m.g.valid(m.count, m.sum)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() (int, error) {
	var n int
	err := m.g.locked(m.count, m.sum, func() { n = len(m.items) })
	return n, err
}

// Get returns the value stored under key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	var (
		v  V
		ok bool
	)
	err := m.g.locked(m.count, m.sum, func() { v, ok = m.items[key] })
	return v, ok, err
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Keys returns the keys in unspecified order.
func (m *Map[K, V]) Keys() ([]K, error) {
	var out []K
	err := m.g.locked(m.count, m.sum, func() { out = slices.Collect(maps.Keys(m.items)) })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clone returns a fresh mutable copy of the entries.
func (m *Map[K, V]) Clone() (map[K]V, error) {
	var out map[K]V
	err := m.g.locked(m.count, m.sum, func() { out = maps.Clone(m.items) })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Iter returns an iterator over a snapshot of the entries.
func (m *Map[K, V]) Iter() *Iterator[Entry[K, V]] {
	var entries []Entry[K, V]
	err := m.g.locked(m.count, m.sum, func() {
		entries = make([]Entry[K, V], 0, len(m.items))
		for k, v := range m.items {
			entries = append(entries, Entry[K, V]{Key: k, Value: v})
		}
	})
	if err != nil {
		entries = nil
	}
	return newIterator(entries, m.Err, err)
}

// Hash returns the content hash. Equal maps in the same process have equal hashes.
func (m *Map[K, V]) Hash() (uint64, error) {
	var h uint64
	err := m.g.locked(m.count, m.sum, func() { h = m.g.sum })
	return h, err
}

// Equal reports whether both maps hold the same entries. Both maps are validated.
func (m *Map[K, V]) Equal(other *Map[K, V]) (bool, error) {
	mine, err := m.Clone()
	if err != nil {
		return false, err
	}
	if other == nil {
		return false, nil
	}
	theirs, err := other.Clone()
	if err != nil {
		return false, err
	}
	return maps.Equal(mine, theirs), nil
}

// Put always fails with ErrUnsupportedOperation.
func (m *Map[K, V]) Put(K, V) error { return ErrUnsupportedOperation }

// Delete always fails with ErrUnsupportedOperation.
func (m *Map[K, V]) Delete(K) error { return ErrUnsupportedOperation }

// Clear always fails with ErrUnsupportedOperation.
func (m *Map[K, V]) Clear() error { return ErrUnsupportedOperation }
