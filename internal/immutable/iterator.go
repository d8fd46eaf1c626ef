package immutable

// Iterator walks a snapshot of a collection's elements, re-validating the collection
// before each step so a modification made during iteration is reported at the next
// call to Next.
//
//	it := set.Iter()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator[T any] struct {
	items []T
	pos   int
	cur   T
	check func() error
	err   error
}

func newIterator[T any](items []T, check func() error, err error) *Iterator[T] {
	return &Iterator[T]{items: items, check: check, err: err}
}

// Next advances the iterator. It returns false when the elements are exhausted or
// validation failed; Err tells the two apart. Validation also runs on the final
// call, so a modification made while handling the last element is reported.
func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}
	var zero T
	if err := it.check(); err != nil {
		it.err = err
		it.cur = zero
		return false
	}
	if it.pos >= len(it.items) {
		it.cur = zero
		return false
	}
	it.cur = it.items[it.pos]
	it.pos++
	return true
}

// Value returns the element at the current position.
func (it *Iterator[T]) Value() T {
	return it.cur
}

// Err returns the validation error that stopped iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}
