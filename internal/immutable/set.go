package immutable

import (
	"maps"
	"slices"
)

// Set is a read-only, tamper-evident set.
type Set[T comparable] struct {
	g     guard
	items map[T]struct{}
}

// NewSet builds a Set that owns a private copy of items. Duplicates collapse.
func NewSet[T comparable](items ...T) *Set[T] {
	m := make(map[T]struct{}, len(items))
	for _, v := range items {
		m[v] = struct{}{}
	}
	return WrapSet(m)
}

// WrapSet wraps m by reference. Any later change to m made by the holder of that
// reference invalidates the Set. A nil map is treated as empty.
func WrapSet[T comparable](m map[T]struct{}) *Set[T] {
	if m == nil {
		m = map[T]struct{}{}
	}
	s := &Set[T]{items: m}
	s.g.count = len(m)
	s.g.sum = s.sum()
	return s
}

func (s *Set[T]) count() int { return len(s.items) }

func (s *Set[T]) sum() uint64 {
	return unorderedSum(maps.Keys(s.items))
}

// Err returns ErrTamperDetected if the backing store was modified, nil otherwise.
func (s *Set[T]) Err() error {
	return s.g.valid(s.count, s.sum)
}

// Len returns the number of elements.
func (s *Set[T]) Len() (int, error) {
	var n int
	err := s.g.locked(s.count, s.sum, func() { n = len(s.items) })
	return n, err
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) (bool, error) {
	var ok bool
	err := s.g.locked(s.count, s.sum, func() { _, ok = s.items[v] })
	return ok, err
}

// ContainsAll reports whether every one of vs is in the set. It is true for no arguments.
func (s *Set[T]) ContainsAll(vs ...T) (bool, error) {
	ok := true
	err := s.g.locked(s.count, s.sum, func() {
		for _, v := range vs {
			if _, found := s.items[v]; !found {
				ok = false
				return
			}
		}
	})
	return ok, err
}

// ContainsAny reports whether at least one of vs is in the set. It is false for no arguments.
func (s *Set[T]) ContainsAny(vs ...T) (bool, error) {
	var ok bool
	err := s.g.locked(s.count, s.sum, func() {
		for _, v := range vs {
			if _, found := s.items[v]; found {
				ok = true
				return
			}
		}
	})
	return ok, err
}

// Slice returns the elements in unspecified order. The slice is a fresh copy.
func (s *Set[T]) Slice() ([]T, error) {
	var out []T
	err := s.g.locked(s.count, s.sum, func() { out = slices.Collect(maps.Keys(s.items)) })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Iter returns an iterator over a snapshot of the elements.
func (s *Set[T]) Iter() *Iterator[T] {
	items, err := s.Slice()
	return newIterator(items, s.Err, err)
}

// Hash returns the content hash. Equal sets in the same process have equal hashes.
func (s *Set[T]) Hash() (uint64, error) {
	var h uint64
	err := s.g.locked(s.count, s.sum, func() { h = s.g.sum })
	return h, err
}

// Equal reports whether both sets hold the same elements. Both sets are validated.
func (s *Set[T]) Equal(other *Set[T]) (bool, error) {
	items, err := s.Slice()
	if err != nil {
		return false, err
	}
	if other == nil {
		return false, nil
	}
	n, err := other.Len()
	if err != nil {
		return false, err
	}
	if n != len(items) {
		return false, nil
	}
	return other.ContainsAll(items...)
}

// Add always fails with ErrUnsupportedOperation.
func (s *Set[T]) Add(T) error { return ErrUnsupportedOperation }

// Remove always fails with ErrUnsupportedOperation.
func (s *Set[T]) Remove(T) error { return ErrUnsupportedOperation }

// Clear always fails with ErrUnsupportedOperation.
func (s *Set[T]) Clear() error { return ErrUnsupportedOperation }
