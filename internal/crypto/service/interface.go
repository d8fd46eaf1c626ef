// Package service provides cryptographic services for license issuance and verification.
//
// It implements the AEAD ciphers sealing key envelopes and payloads, the
// password-based key derivation, the key material loader that opens encrypted
// RSA keys, and the signature engine that signs and verifies encrypted payloads.
package service

import (
	"crypto/rsa"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length the cipher expects.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver turns a password into a symmetric key.
type KeyDeriver interface {
	// DeriveKey returns a fresh 32-byte key. The caller owns the key and must zero it.
	DeriveKey(password, salt []byte, params cryptoDomain.KDFParams) ([]byte, error)
}

// KeyLoader opens and seals encrypted RSA key envelopes.
//
// Every method that accepts a password takes ownership of it: the password slice
// is zeroed before the method returns, on success and on failure.
type KeyLoader interface {
	// DecryptPrivateKey opens a private-key envelope with the password.
	DecryptPrivateKey(envelope, password []byte) (*rsa.PrivateKey, error)

	// DecryptPublicKey opens a public-key envelope.
	DecryptPublicKey(envelope []byte) (*rsa.PublicKey, error)

	// EncryptPrivateKey seals a private key into an envelope under the password.
	EncryptPrivateKey(key *rsa.PrivateKey, password []byte) ([]byte, error)

	// EncryptPublicKey seals a public key into an envelope.
	EncryptPublicKey(key *rsa.PublicKey) ([]byte, error)
}

// Signer is the signature engine applied to opaque byte payloads.
type Signer interface {
	// Sign returns a detached signature over data.
	Sign(key *rsa.PrivateKey, data []byte) ([]byte, error)

	// Verify reports whether signature is valid for data. An invalid signature is
	// (false, nil); errors are reserved for unusable keys.
	Verify(key *rsa.PublicKey, data, signature []byte) (bool, error)

	// Algorithm returns the signature scheme in use.
	Algorithm() cryptoDomain.SignatureAlgorithm
}

// KeyGenerator creates new RSA key pairs.
type KeyGenerator interface {
	// GenerateKeyPair creates an RSA private key of the given modulus size.
	GenerateKeyPair(bits int) (*rsa.PrivateKey, error)
}
