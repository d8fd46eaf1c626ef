package immutable

import (
	"hash/maphash"
	"iter"
	"sync"
)

// hashSeed is shared by every collection so equal contents hash equally.
var hashSeed = maphash.MakeSeed()

// guard holds the fingerprint captured at construction and the Valid -> Invalid state.
// mu serializes each check with the read it protects.
type guard struct {
	mu       sync.Mutex
	count    int
	sum      uint64
	tampered bool
}

// check compares the live fingerprint with the captured one. The caller holds mu.
func (g *guard) check(count int, sum func() uint64) error {
	if g.tampered {
		return ErrTamperDetected
	}
	if count != g.count || sum() != g.sum {
		g.tampered = true
		return ErrTamperDetected
	}
	return nil
}

// locked runs fn under the guard after a successful check.
func (g *guard) locked(count func() int, sum func() uint64, fn func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.check(count(), sum); err != nil {
		return err
	}
	fn()
	return nil
}

// valid reports whether the collection is still in the Valid state, checking it first.
func (g *guard) valid(count func() int, sum func() uint64) error {
	return g.locked(count, sum, func() {})
}

// unorderedSum combines element hashes so iteration order does not matter.
func unorderedSum[T comparable](seq iter.Seq[T]) uint64 {
	var sum uint64
	for v := range seq {
		sum += mix(maphash.Comparable(hashSeed, v))
	}
	return sum
}

// mix is the splitmix64 finalizer; it keeps a plain sum of hashes from cancelling out.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
