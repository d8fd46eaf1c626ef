package service

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// RSAKeyGenerator creates RSA key pairs for license signing.
type RSAKeyGenerator struct{}

// NewKeyGenerator creates a new RSAKeyGenerator.
func NewKeyGenerator() *RSAKeyGenerator {
	return &RSAKeyGenerator{}
}

// GenerateKeyPair creates an RSA key with a 2048, 3072 or 4096-bit modulus.
func (g *RSAKeyGenerator) GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if !cryptoDomain.IsSupportedRSAKeyBits(bits) {
		return nil, fmt.Errorf("%w: %d bits", cryptoDomain.ErrUnsupportedKeySize, bits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return key, nil
}
