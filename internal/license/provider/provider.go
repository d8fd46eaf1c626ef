// Package provider implements the external collaborators that supply encrypted key
// material and key passwords to the license orchestrators.
//
// Providers are consulted on every sign or verify call; nothing they return is cached.
// A canceled context is reported as a not-found failure of the same kind as a
// missing key file.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	apperrors "github.com/allisson/licenses/internal/errors"
)

// ErrPasswordNotFound indicates a password provider could not produce a password.
var ErrPasswordNotFound = apperrors.Wrap(apperrors.ErrNotFound, "key password not found")

// KeyDataProvider supplies the bytes of an encrypted key envelope.
type KeyDataProvider interface {
	// EncryptedKeyData returns a fresh copy of the envelope bytes. It fails with
	// ErrKeyNotFound when the source is absent or unreadable.
	EncryptedKeyData(ctx context.Context) ([]byte, error)
}

// PasswordProvider supplies the password protecting a private-key envelope.
type PasswordProvider interface {
	// Password returns a fresh password buffer owned by the caller, who must zero it.
	Password(ctx context.Context) ([]byte, error)
}

// KeyDataProviderFunc adapts a function to KeyDataProvider.
type KeyDataProviderFunc func(ctx context.Context) ([]byte, error)

// EncryptedKeyData calls f.
func (f KeyDataProviderFunc) EncryptedKeyData(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// PasswordProviderFunc adapts a function to PasswordProvider.
type PasswordProviderFunc func(ctx context.Context) ([]byte, error)

// Password calls f.
func (f PasswordProviderFunc) Password(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// NewKeyDataProvider picks a provider for source: a URL with a scheme
// ("file:///etc/licenses#private.key") opens a gocloud blob,
// anything else is a local file path.
func NewKeyDataProvider(source string) (KeyDataProvider, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty key source", cryptoDomain.ErrKeyNotFound)
	}
	if strings.Contains(source, "://") {
		return NewBlobKeyDataProvider(source)
	}
	return NewFileKeyDataProvider(source), nil
}

// StaticKeyDataProvider serves envelope bytes held in memory, such as a public key
// compiled into the consuming application.
type StaticKeyDataProvider struct {
	data []byte
}

// NewStaticKeyDataProvider copies data into a StaticKeyDataProvider.
func NewStaticKeyDataProvider(data []byte) *StaticKeyDataProvider {
	return &StaticKeyDataProvider{data: bytes.Clone(data)}
}

// EncryptedKeyData returns a copy of the held bytes.
func (p *StaticKeyDataProvider) EncryptedKeyData(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	if len(p.data) == 0 {
		return nil, fmt.Errorf("%w: no key data", cryptoDomain.ErrKeyNotFound)
	}
	return bytes.Clone(p.data), nil
}
