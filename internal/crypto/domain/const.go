package domain

// Algorithm represents the AEAD algorithm used to seal key envelopes and license payloads.
//
// Both supported algorithms use a 256-bit key, a 12-byte nonce and a 16-byte
// authentication tag, so a modified envelope never decrypts to partial data.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Preferred on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Constant-time in software; preferred on platforms without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// SignatureAlgorithm represents the hash-then-sign scheme applied to encrypted license payloads.
type SignatureAlgorithm string

const (
	// RSASHA512 is RSASSA-PKCS1-v1_5 over a SHA-512 digest. Deterministic; the reference scheme.
	RSASHA512 SignatureAlgorithm = "rsa-sha512"

	// RSAPSSSHA512 is RSASSA-PSS over a SHA-512 digest with a salt as long as the digest.
	RSAPSSSHA512 SignatureAlgorithm = "rsa-pss-sha512"
)

// Supported RSA modulus sizes in bits. DefaultRSAKeyBits is the reference configuration.
const (
	DefaultRSAKeyBits = 2048
	rsaKeyBits3072    = 3072
	rsaKeyBits4096    = 4096
)

// IsSupportedRSAKeyBits reports whether bits is an RSA modulus size this system generates and accepts.
func IsSupportedRSAKeyBits(bits int) bool {
	switch bits {
	case DefaultRSAKeyBits, rsaKeyBits3072, rsaKeyBits4096:
		return true
	default:
		return false
	}
}

// KeySize is the size in bytes of every symmetric key (AEAD keys, derived keys, payload keys).
const KeySize = 32

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// ParseSignatureAlgorithm converts a configuration string into a SignatureAlgorithm.
func ParseSignatureAlgorithm(s string) (SignatureAlgorithm, error) {
	switch SignatureAlgorithm(s) {
	case RSASHA512, RSAPSSSHA512:
		return SignatureAlgorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
