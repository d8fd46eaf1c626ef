package domain

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// KeyKind tells whether a key envelope carries a private or a public key.
type KeyKind uint8

const (
	// PrivateKeyKind marks a PKCS#8 DER private key.
	PrivateKeyKind KeyKind = 1
	// PublicKeyKind marks a PKIX DER public key.
	PublicKeyKind KeyKind = 2
)

// String returns a human-readable name for the key kind.
func (k KeyKind) String() string {
	switch k {
	case PrivateKeyKind:
		return "private"
	case PublicKeyKind:
		return "public"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// keyEnvelopeMagic prefixes every key envelope.
var keyEnvelopeMagic = []byte("LKEY")

// KeyEnvelopeVersion is the only envelope layout this package reads and writes.
const KeyEnvelopeVersion uint8 = 1

// PublicKeyPassphrase seals public-key envelopes. Public keys are not secret; the
// envelope gives them integrity and a single at-rest format with private keys.
var PublicKeyPassphrase = []byte("license-public-key-distribution-v1")

// KeyEnvelope is the at-rest form of an RSA key sealed with a password-derived key.
//
// Binary layout (all integers big-endian, lp = 4-byte length prefix):
//
//	"LKEY" | version u8 | kind u8 | kdf u8 | time u32 | memory u32 | threads u8 |
//	lp(algorithm) | lp(salt) | lp(nonce) | lp(ciphertext)
//
// Everything before the nonce is the header and is bound to the ciphertext as
// AEAD additional data, so any header change fails decryption. The nonce is
// authenticated implicitly by the AEAD.
type KeyEnvelope struct {
	Kind       KeyKind
	KDF        KDF
	KDFParams  KDFParams
	Algorithm  Algorithm
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// Header returns the authenticated header bytes of the envelope.
func (e *KeyEnvelope) Header() []byte {
	buf := make([]byte, 0, 64+len(e.Salt))
	buf = append(buf, keyEnvelopeMagic...)
	buf = append(buf, KeyEnvelopeVersion, uint8(e.Kind), uint8(e.KDF))
	buf = binary.BigEndian.AppendUint32(buf, e.KDFParams.Time)
	buf = binary.BigEndian.AppendUint32(buf, e.KDFParams.MemoryKiB)
	buf = append(buf, e.KDFParams.Threads)
	buf = AppendLengthPrefixed(buf, []byte(e.Algorithm))
	buf = AppendLengthPrefixed(buf, e.Salt)
	return buf
}

// MarshalBinary encodes the envelope into its binary layout.
func (e *KeyEnvelope) MarshalBinary() ([]byte, error) {
	buf := AppendLengthPrefixed(e.Header(), e.Nonce)
	return AppendLengthPrefixed(buf, e.Ciphertext), nil
}

// ParseKeyEnvelope decodes a key envelope and validates its structure.
//
// The returned envelope's byte fields alias data.
func ParseKeyEnvelope(data []byte) (*KeyEnvelope, error) {
	r := NewFieldReader(data)

	if magic := r.Bytes(len(keyEnvelopeMagic)); r.Err() == nil && !bytes.Equal(magic, keyEnvelopeMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidKeyEnvelope)
	}
	version := r.Uint8()
	env := &KeyEnvelope{
		Kind: KeyKind(r.Uint8()),
		KDF:  KDF(r.Uint8()),
	}
	env.KDFParams.Time = r.Uint32()
	env.KDFParams.MemoryKiB = r.Uint32()
	env.KDFParams.Threads = r.Uint8()
	env.Algorithm = Algorithm(r.LengthPrefixed())
	env.Salt = r.LengthPrefixed()
	env.Nonce = r.LengthPrefixed()
	env.Ciphertext = r.LengthPrefixed()

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEnvelope, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidKeyEnvelope, r.Remaining())
	}
	if version != KeyEnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidKeyEnvelope, version)
	}
	if env.Kind != PrivateKeyKind && env.Kind != PublicKeyKind {
		return nil, fmt.Errorf("%w: unknown key kind %d", ErrInvalidKeyEnvelope, uint8(env.Kind))
	}
	if env.KDF != KDFArgon2id {
		return nil, fmt.Errorf("%w: unknown kdf %d", ErrUnsupportedAlgorithm, uint8(env.KDF))
	}
	if _, err := ParseAlgorithm(string(env.Algorithm)); err != nil {
		return nil, fmt.Errorf("%w: %q", err, env.Algorithm)
	}
	if err := env.KDFParams.Validate(); err != nil {
		return nil, err
	}
	if len(env.Salt) < MinSaltSize || len(env.Salt) > MaxSaltSize {
		return nil, fmt.Errorf("%w: salt must be %d-%d bytes", ErrInvalidKeyEnvelope, MinSaltSize, MaxSaltSize)
	}

	return env, nil
}

