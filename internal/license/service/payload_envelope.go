package service

import (
	"bytes"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// KeyMode selects how the payload encryption key is obtained from the configured key.
type KeyMode uint8

const (
	// StaticKeyMode encrypts every payload directly under the configured key.
	StaticKeyMode KeyMode = 1
	// DerivedKeyMode derives a per-payload key with HKDF-SHA512 from the configured
	// key and a random salt stored in the envelope.
	DerivedKeyMode KeyMode = 2
)

// String returns the configuration name of the mode.
func (m KeyMode) String() string {
	switch m {
	case StaticKeyMode:
		return "static"
	case DerivedKeyMode:
		return "derived"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// ParseKeyMode converts "static" or "derived" into a KeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch strings.ToLower(s) {
	case "static":
		return StaticKeyMode, nil
	case "derived":
		return DerivedKeyMode, nil
	default:
		return 0, fmt.Errorf("%w: payload key mode %q", cryptoDomain.ErrUnsupportedAlgorithm, s)
	}
}

var payloadMagic = []byte("LPAY")

// PayloadEnvelopeVersion is the envelope layout written by this package.
const PayloadEnvelopeVersion uint8 = 1

// derivedSaltSize is the HKDF salt length used in DerivedKeyMode.
const derivedSaltSize = 32

// payloadEnvelope is the binary frame around an encrypted license document.
//
// Layout (lp = 4-byte big-endian length prefix):
//
//	"LPAY" | version u8 | key mode u8 | lp(algorithm) | lp(salt) | lp(nonce) | lp(ciphertext)
//
// The bytes up to and including the salt form the header, bound as AEAD additional data.
type payloadEnvelope struct {
	Mode       KeyMode
	Algorithm  cryptoDomain.Algorithm
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

func (e *payloadEnvelope) header() []byte {
	buf := make([]byte, 0, 32+len(e.Salt))
	buf = append(buf, payloadMagic...)
	buf = append(buf, PayloadEnvelopeVersion, uint8(e.Mode))
	buf = cryptoDomain.AppendLengthPrefixed(buf, []byte(e.Algorithm))
	buf = cryptoDomain.AppendLengthPrefixed(buf, e.Salt)
	return buf
}

func (e *payloadEnvelope) marshal() []byte {
	buf := cryptoDomain.AppendLengthPrefixed(e.header(), e.Nonce)
	return cryptoDomain.AppendLengthPrefixed(buf, e.Ciphertext)
}

func parsePayloadEnvelope(data []byte) (*payloadEnvelope, error) {
	r := cryptoDomain.NewFieldReader(data)

	magic := r.Bytes(len(payloadMagic))
	if r.Err() != nil || !bytes.Equal(magic, payloadMagic) {
		return nil, fmt.Errorf("%w: bad magic", licenseDomain.ErrPayloadCorrupted)
	}
	version := r.Uint8()
	if r.Err() == nil && version != PayloadEnvelopeVersion {
		return nil, fmt.Errorf("%w: envelope version %d", licenseDomain.ErrIncompatiblePayloadVersion, version)
	}

	env := &payloadEnvelope{Mode: KeyMode(r.Uint8())}
	env.Algorithm = cryptoDomain.Algorithm(r.LengthPrefixed())
	env.Salt = r.LengthPrefixed()
	env.Nonce = r.LengthPrefixed()
	env.Ciphertext = r.LengthPrefixed()

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", licenseDomain.ErrPayloadCorrupted, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", licenseDomain.ErrPayloadCorrupted, r.Remaining())
	}

	switch env.Mode {
	case StaticKeyMode:
		if len(env.Salt) != 0 {
			return nil, fmt.Errorf("%w: unexpected salt in static mode", licenseDomain.ErrPayloadCorrupted)
		}
	case DerivedKeyMode:
		if len(env.Salt) != derivedSaltSize {
			return nil, fmt.Errorf("%w: salt must be %d bytes", licenseDomain.ErrPayloadCorrupted, derivedSaltSize)
		}
	default:
		return nil, fmt.Errorf("%w: unknown key mode %d", licenseDomain.ErrIncompatiblePayloadVersion, uint8(env.Mode))
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(env.Algorithm)); err != nil {
		return nil, fmt.Errorf("%w: unknown algorithm %q", licenseDomain.ErrIncompatiblePayloadVersion, env.Algorithm)
	}

	return env, nil
}
