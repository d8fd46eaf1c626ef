package immutable

import (
	apperrors "github.com/allisson/licenses/internal/errors"
)

var (
	// ErrTamperDetected indicates the backing store changed after the collection was built.
	// The collection must be discarded.
	ErrTamperDetected = apperrors.Wrap(apperrors.ErrTampered, "collection modified through reflection")

	// ErrUnsupportedOperation is returned by every mutating method.
	ErrUnsupportedOperation = apperrors.Wrap(apperrors.ErrFailedPrecondition, "collection is immutable")

	// ErrIndexOutOfRange indicates a List index outside [0, Len).
	ErrIndexOutOfRange = apperrors.Wrap(apperrors.ErrInvalidInput, "index out of range")
)
