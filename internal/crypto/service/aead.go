package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// AEADCipher implements the AEAD interface on top of a standard library or
// x/crypto cipher.AEAD. A unique random nonce is generated for every encryption.
//
// Thread safety: the cipher is stateless after construction and safe for
// concurrent use.
type AEADCipher struct {
	alg  cryptoDomain.Algorithm
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher. The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AEADCipher{alg: cryptoDomain.AESGCM, aead: aead}, nil
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher. The key must be exactly 32 bytes.
func NewChaCha20Poly1305(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &AEADCipher{alg: cryptoDomain.ChaCha20, aead: aead}, nil
}

// Algorithm returns the algorithm implemented by the cipher.
func (c *AEADCipher) Algorithm() cryptoDomain.Algorithm {
	return c.alg
}

// NonceSize returns the nonce length of the underlying AEAD (12 bytes for both algorithms).
func (c *AEADCipher) NonceSize() int {
	return c.aead.NonceSize()
}

// Encrypt seals plaintext, authenticating aad, under a fresh random nonce.
// The returned ciphertext carries the 16-byte authentication tag.
func (c *AEADCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the nonce and aad used during encryption.
// A nonce of the wrong length, a wrong key, a different aad or any modified
// byte yields ErrDecryptionFailed and no plaintext.
func (c *AEADCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", cryptoDomain.ErrDecryptionFailed, c.aead.NonceSize())
	}

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
