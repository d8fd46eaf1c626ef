package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// KeyLoaderService opens and seals RSA keys stored in password-encrypted envelopes.
//
// Private keys are PKCS#8 DER, public keys are PKIX DER; both are sealed with an
// AEAD under an Argon2id key derived from the password. Every intermediate secret
// (password, derived key, decrypted DER) is zeroed before returning.
type KeyLoaderService struct {
	aeadManager AEADManager
	kdf         KeyDeriver
	alg         cryptoDomain.Algorithm
	params      cryptoDomain.KDFParams
	minBits     int
}

// NewKeyLoader creates a KeyLoaderService. alg and params apply to envelopes it
// seals; opening always honors what the envelope header declares. Keys smaller
// than minBits are rejected on load.
func NewKeyLoader(
	aeadManager AEADManager,
	kdf KeyDeriver,
	alg cryptoDomain.Algorithm,
	params cryptoDomain.KDFParams,
	minBits int,
) *KeyLoaderService {
	return &KeyLoaderService{
		aeadManager: aeadManager,
		kdf:         kdf,
		alg:         alg,
		params:      params,
		minBits:     minBits,
	}
}

// DecryptPrivateKey opens a private-key envelope. The password is zeroed on return.
//
// Errors:
//   - ErrInvalidKeyEnvelope: the bytes are not a private-key envelope
//   - ErrKeyDecryptionFailed: wrong password or modified envelope
//   - ErrInvalidKeySpec: the plaintext is not an RSA key of at least minBits
//   - ErrUnsupportedAlgorithm: the envelope names an unavailable algorithm
func (l *KeyLoaderService) DecryptPrivateKey(envelope, password []byte) (*rsa.PrivateKey, error) {
	defer cryptoDomain.Zero(password)

	der, err := l.open(envelope, password, cryptoDomain.PrivateKeyKind)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(der)

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA private key, got %T", cryptoDomain.ErrInvalidKeySpec, parsed)
	}
	if key.N.BitLen() < l.minBits {
		bits := key.N.BitLen()
		cryptoDomain.DestroyPrivateKey(key)
		return nil, fmt.Errorf("%w: %d-bit key below minimum of %d", cryptoDomain.ErrInvalidKeySpec, bits, l.minBits)
	}

	return key, nil
}

// DecryptPublicKey opens a public-key envelope sealed with the distribution passphrase.
func (l *KeyLoaderService) DecryptPublicKey(envelope []byte) (*rsa.PublicKey, error) {
	password := publicKeyPassword()
	defer cryptoDomain.Zero(password)

	der, err := l.open(envelope, password, cryptoDomain.PublicKeyKind)
	if err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA public key, got %T", cryptoDomain.ErrInvalidKeySpec, parsed)
	}
	if key.N.BitLen() < l.minBits {
		return nil, fmt.Errorf(
			"%w: %d-bit key below minimum of %d",
			cryptoDomain.ErrInvalidKeySpec,
			key.N.BitLen(),
			l.minBits,
		)
	}

	return key, nil
}

// EncryptPrivateKey seals key under password. The password is zeroed on return.
func (l *KeyLoaderService) EncryptPrivateKey(key *rsa.PrivateKey, password []byte) ([]byte, error) {
	defer cryptoDomain.Zero(password)

	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", cryptoDomain.ErrInvalidKeySpec)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}
	defer cryptoDomain.Zero(der)

	return l.seal(der, password, cryptoDomain.PrivateKeyKind)
}

// EncryptPublicKey seals key under the distribution passphrase.
func (l *KeyLoaderService) EncryptPublicKey(key *rsa.PublicKey) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil public key", cryptoDomain.ErrInvalidKeySpec)
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}

	password := publicKeyPassword()
	defer cryptoDomain.Zero(password)

	return l.seal(der, password, cryptoDomain.PublicKeyKind)
}

func (l *KeyLoaderService) open(envelope, password []byte, kind cryptoDomain.KeyKind) ([]byte, error) {
	env, err := cryptoDomain.ParseKeyEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	if env.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s key, got %s", cryptoDomain.ErrInvalidKeyEnvelope, kind, env.Kind)
	}

	key, err := l.kdf.DeriveKey(password, env.Salt, env.KDFParams)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyDecryptionFailed, err)
		}
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := l.aeadManager.CreateCipher(key, env.Algorithm)
	if err != nil {
		return nil, err
	}

	der, err := cipher.Decrypt(env.Ciphertext, env.Nonce, env.Header())
	if err != nil {
		return nil, cryptoDomain.ErrKeyDecryptionFailed
	}
	return der, nil
}

func (l *KeyLoaderService) seal(der, password []byte, kind cryptoDomain.KeyKind) ([]byte, error) {
	salt := make([]byte, cryptoDomain.MinSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := l.kdf.DeriveKey(password, salt, l.params)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := l.aeadManager.CreateCipher(key, l.alg)
	if err != nil {
		return nil, err
	}

	env := &cryptoDomain.KeyEnvelope{
		Kind:      kind,
		KDF:       cryptoDomain.KDFArgon2id,
		KDFParams: l.params,
		Algorithm: l.alg,
		Salt:      salt,
	}
	ciphertext, nonce, err := cipher.Encrypt(der, env.Header())
	if err != nil {
		return nil, err
	}
	env.Nonce = nonce
	env.Ciphertext = ciphertext

	return env.MarshalBinary()
}

func publicKeyPassword() []byte {
	return append([]byte(nil), cryptoDomain.PublicKeyPassphrase...)
}
