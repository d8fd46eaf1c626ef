// Package service provides the license payload codec: the serialization and
// symmetric encryption of License values into the bytes that get signed.
package service

import (
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// PayloadCodec turns a License into encrypted bytes and back.
type PayloadCodec interface {
	// Encode serializes and encrypts l.
	Encode(l *licenseDomain.License) ([]byte, error)

	// Decode decrypts and deserializes data. Structural failures are
	// ErrPayloadCorrupted; format versions it cannot read are ErrIncompatiblePayloadVersion.
	Decode(data []byte) (*licenseDomain.License, error)
}
