package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// RSASigner signs and verifies byte payloads with RSA over a SHA-512 digest.
//
// RSASHA512 is PKCS#1 v1.5 and produces deterministic signatures; RSAPSSSHA512
// uses a random salt the length of the digest.
type RSASigner struct {
	alg     cryptoDomain.SignatureAlgorithm
	minBits int
}

// NewSigner creates an RSASigner. It fails with ErrUnsupportedAlgorithm if the
// scheme is unknown or SHA-512 is unavailable in this runtime.
func NewSigner(alg cryptoDomain.SignatureAlgorithm, minBits int) (*RSASigner, error) {
	if _, err := cryptoDomain.ParseSignatureAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	if !crypto.SHA512.Available() {
		return nil, fmt.Errorf("%w: SHA-512 not available", cryptoDomain.ErrUnsupportedAlgorithm)
	}
	return &RSASigner{alg: alg, minBits: minBits}, nil
}

// Algorithm returns the signature scheme in use.
func (s *RSASigner) Algorithm() cryptoDomain.SignatureAlgorithm {
	return s.alg
}

// Sign returns a signature over data, which may be empty.
func (s *RSASigner) Sign(key *rsa.PrivateKey, data []byte) ([]byte, error) {
	if key == nil || key.N == nil {
		return nil, fmt.Errorf("%w: nil private key", cryptoDomain.ErrInvalidKeySpec)
	}
	if key.N.BitLen() < s.minBits {
		return nil, fmt.Errorf("%w: %d-bit key below minimum of %d", cryptoDomain.ErrInvalidKeySpec, key.N.BitLen(), s.minBits)
	}

	digest := sha512.Sum512(data)

	var (
		sig []byte
		err error
	)
	switch s.alg {
	case cryptoDomain.RSAPSSSHA512:
		sig, err = rsa.SignPSS(rand.Reader, key, crypto.SHA512, digest[:], &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
		})
	default:
		sig, err = rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA512, digest[:])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}
	return sig, nil
}

// Verify reports whether signature is a valid signature over data. A signature
// that does not verify, including one of the wrong length, is (false, nil).
func (s *RSASigner) Verify(key *rsa.PublicKey, data, signature []byte) (bool, error) {
	if key == nil || key.N == nil {
		return false, fmt.Errorf("%w: nil public key", cryptoDomain.ErrInvalidKeySpec)
	}
	if key.N.BitLen() < s.minBits {
		return false, fmt.Errorf("%w: %d-bit key below minimum of %d", cryptoDomain.ErrInvalidKeySpec, key.N.BitLen(), s.minBits)
	}
	if len(signature) == 0 {
		return false, nil
	}

	digest := sha512.Sum512(data)

	var err error
	switch s.alg {
	case cryptoDomain.RSAPSSSHA512:
		err = rsa.VerifyPSS(key, crypto.SHA512, digest[:], signature, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
		})
	default:
		err = rsa.VerifyPKCS1v15(key, crypto.SHA512, digest[:], signature)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeySpec, err)
	}
}
