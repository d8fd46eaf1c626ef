package domain

import (
	"github.com/allisson/licenses/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap the base sentinels from internal/errors so
// callers can branch on the error kind (configuration, not found, invalid key).
var (
	// ErrUnsupportedAlgorithm indicates the requested algorithm is not available.
	//
	// Supported AEADs: AESGCM, ChaCha20. Supported signatures: RSASHA512, RSAPSSSHA512.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrUnsupported, "unsupported algorithm")

	// ErrUnsupportedKeySize indicates an RSA modulus size outside 2048, 3072 and 4096 bits.
	ErrUnsupportedKeySize = errors.Wrap(errors.ErrUnsupported, "unsupported key size")

	// ErrInvalidKeySize indicates a symmetric key that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidKey, "invalid key size")

	// ErrKeyNotFound indicates the encrypted key bytes could not be obtained from their source.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrInvalidKeyEnvelope indicates the key envelope is truncated or has an unknown layout.
	ErrInvalidKeyEnvelope = errors.Wrap(errors.ErrInvalidKey, "invalid key envelope")

	// ErrKeyDecryptionFailed indicates the key envelope did not authenticate.
	//
	// Causes are deliberately not distinguished: a wrong password and a modified
	// envelope look the same.
	ErrKeyDecryptionFailed = errors.Wrap(errors.ErrInvalidKey, "key decryption failed")

	// ErrInvalidKeySpec indicates decrypted bytes that do not form a key of the expected
	// algorithm and size.
	ErrInvalidKeySpec = errors.Wrap(errors.ErrInvalidKey, "inappropriate key specification")

	// ErrInvalidKDFParams indicates Argon2id parameters outside the accepted bounds.
	ErrInvalidKDFParams = errors.Wrap(errors.ErrInvalidKey, "invalid key derivation parameters")

	// ErrDecryptionFailed indicates an AEAD open operation failed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCorrupted, "decryption failed")
)
