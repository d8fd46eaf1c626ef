// Package immutable provides read-only collections that detect out-of-band modification.
//
// A collection either owns a private copy of its contents (NewSet, NewMap, NewList)
// or wraps a caller's collection by reference (WrapSet, WrapMap, WrapList). In both
// cases it records the element count and an order-aware content hash when it is
// built and re-checks them under a per-instance mutex before every read. A mismatch
// means the backing store was modified behind the wrapper (through a retained
// reference, reflection or unsafe code); the read fails with ErrTamperDetected and
// the collection stays invalid for the rest of its life.
//
// Mutating methods exist only to fail: they return ErrUnsupportedOperation and never
// touch the backing store.
package immutable
