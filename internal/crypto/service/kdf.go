package service

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	apperrors "github.com/allisson/licenses/internal/errors"
)

// ErrEmptyPassword indicates an empty password was supplied for key derivation.
var ErrEmptyPassword = apperrors.Wrap(apperrors.ErrInvalidInput, "password must not be empty")

// Argon2KeyDeriver derives envelope keys from passwords with Argon2id.
type Argon2KeyDeriver struct{}

// NewArgon2KeyDeriver creates a new Argon2KeyDeriver.
func NewArgon2KeyDeriver() *Argon2KeyDeriver {
	return &Argon2KeyDeriver{}
}

// DeriveKey returns a 32-byte key for password and salt. The password is not modified.
func (d *Argon2KeyDeriver) DeriveKey(password, salt []byte, params cryptoDomain.KDFParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) < cryptoDomain.MinSaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", cryptoDomain.ErrInvalidKDFParams, cryptoDomain.MinSaltSize)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return argon2.IDKey(password, salt, params.Time, params.MemoryKiB, params.Threads, cryptoDomain.KeySize), nil
}
