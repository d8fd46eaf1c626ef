package immutable

import (
	"hash/maphash"
	"slices"
)

// List is a read-only, tamper-evident ordered sequence.
type List[T comparable] struct {
	g     guard
	items []T
}

// NewList builds a List that owns a private copy of items.
func NewList[T comparable](items ...T) *List[T] {
	return WrapList(slices.Clone(items))
}

// WrapList wraps s by reference. Element assignments through a retained reference to
// s invalidate the List; appends to that reference are not visible to it.
func WrapList[T comparable](s []T) *List[T] {
	l := &List[T]{items: s}
	l.g.count = len(s)
	l.g.sum = l.sum()
	return l
}

func (l *List[T]) count() int { return len(l.items) }

func (l *List[T]) sum() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	for _, v := range l.items {
		maphash.WriteComparable(&h, v)
	}
	return h.Sum64()
}

// Err returns ErrTamperDetected if the backing store was modified, nil otherwise.
func (l *List[T]) Err() error {
	return l.g.valid(l.count, l.sum)
}

// Len returns the number of elements.
func (l *List[T]) Len() (int, error) {
	var n int
	err := l.g.locked(l.count, l.sum, func() { n = len(l.items) })
	return n, err
}

// At returns the element at index i.
func (l *List[T]) At(i int) (T, error) {
	var (
		v     T
		inRng bool
	)
	err := l.g.locked(l.count, l.sum, func() {
		if i >= 0 && i < len(l.items) {
			v, inRng = l.items[i], true
		}
	})
	if err != nil {
		return v, err
	}
	if !inRng {
		return v, ErrIndexOutOfRange
	}
	return v, nil
}

// Contains reports whether v occurs in the list.
func (l *List[T]) Contains(v T) (bool, error) {
	var ok bool
	err := l.g.locked(l.count, l.sum, func() { ok = slices.Contains(l.items, v) })
	return ok, err
}

// Slice returns a fresh copy of the elements in order.
func (l *List[T]) Slice() ([]T, error) {
	var out []T
	err := l.g.locked(l.count, l.sum, func() { out = slices.Clone(l.items) })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Iter returns an iterator over a snapshot of the elements in order.
func (l *List[T]) Iter() *Iterator[T] {
	items, err := l.Slice()
	return newIterator(items, l.Err, err)
}

// Hash returns the order-sensitive content hash.
func (l *List[T]) Hash() (uint64, error) {
	var h uint64
	err := l.g.locked(l.count, l.sum, func() { h = l.g.sum })
	return h, err
}

// Equal reports whether both lists hold equal elements in the same order.
func (l *List[T]) Equal(other *List[T]) (bool, error) {
	mine, err := l.Slice()
	if err != nil {
		return false, err
	}
	if other == nil {
		return false, nil
	}
	theirs, err := other.Slice()
	if err != nil {
		return false, err
	}
	return slices.Equal(mine, theirs), nil
}

// Append always fails with ErrUnsupportedOperation.
func (l *List[T]) Append(...T) error { return ErrUnsupportedOperation }

// Set always fails with ErrUnsupportedOperation.
func (l *List[T]) Set(int, T) error { return ErrUnsupportedOperation }

// Clear always fails with ErrUnsupportedOperation.
func (l *List[T]) Clear() error { return ErrUnsupportedOperation }
