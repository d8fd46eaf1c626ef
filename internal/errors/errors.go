// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Domain packages wrap these sentinels with
// specific messages so callers can branch on the failure kind with Is or KindOf.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource (or key material) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller is not entitled to the requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupported indicates the runtime or configuration lacks a required primitive.
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidKey indicates key material does not form a usable key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrSignatureInvalid indicates a signature did not verify.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrCorrupted indicates encrypted or serialized data is structurally broken.
	ErrCorrupted = errors.New("corrupted")

	// ErrTampered indicates an immutable object observed out-of-band modification.
	ErrTampered = errors.New("tampered")

	// ErrFailedPrecondition indicates an object was used before it was initialized.
	ErrFailedPrecondition = errors.New("failed precondition")
)

// Kind classifies an error by how a caller is expected to react to it.
type Kind int

const (
	// KindUnknown is any error outside the taxonomy (I/O, database, ...).
	KindUnknown Kind = iota
	// KindConfiguration is a missing algorithm or invalid configuration. Fatal, not retryable.
	KindConfiguration
	// KindNotFound is absent or unreadable key material (or another missing resource).
	KindNotFound
	// KindInvalidKey is key material that is malformed, of the wrong type or of the wrong size.
	KindInvalidKey
	// KindSignatureInvalid is a trust failure: the signature did not verify.
	KindSignatureInvalid
	// KindPayloadCorrupt is a payload that failed to decrypt or deserialize.
	KindPayloadCorrupt
	// KindTamperDetected is an immutable wrapper whose backing store changed.
	KindTamperDetected
	// KindState is a programming error such as using an orchestrator before creating it.
	KindState
	// KindInvalidInput is caller input that failed validation.
	KindInvalidInput
	// KindForbidden is a feature restriction that the license does not satisfy.
	KindForbidden
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindConfiguration:    "configuration",
	KindNotFound:         "not_found",
	KindInvalidKey:       "invalid_key",
	KindSignatureInvalid: "signature_invalid",
	KindPayloadCorrupt:   "payload_corrupt",
	KindTamperDetected:   "tamper_detected",
	KindState:            "state",
	KindInvalidInput:     "invalid_input",
	KindForbidden:        "forbidden",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// KindOf reports the kind of err. Nil errors are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrTampered):
		return KindTamperDetected
	case errors.Is(err, ErrSignatureInvalid):
		return KindSignatureInvalid
	case errors.Is(err, ErrCorrupted):
		return KindPayloadCorrupt
	case errors.Is(err, ErrInvalidKey):
		return KindInvalidKey
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnsupported):
		return KindConfiguration
	case errors.Is(err, ErrFailedPrecondition):
		return KindState
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
