package service

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// SchemaVersion is the license document schema written by this package. Documents
// with a higher schema version are rejected rather than partially read.
const SchemaVersion = 1

// payloadKeyInfo is the HKDF info string for per-payload keys.
var payloadKeyInfo = []byte("license-payload-v1")

// payloadDocument is the JSON plaintext inside a payload envelope.
type payloadDocument struct {
	SchemaVersion int                            `json:"schema_version"`
	ID            uuid.UUID                      `json:"id"`
	Holder        string                         `json:"holder"`
	Subject       string                         `json:"subject"`
	Issuer        string                         `json:"issuer,omitempty"`
	IssuedAt      time.Time                      `json:"issued_at"`
	NotBefore     time.Time                      `json:"not_before"`
	ExpiresAt     *time.Time                     `json:"expires_at,omitempty"`
	Seats         int                            `json:"seats,omitempty"`
	Features      []string                       `json:"features"`
	Metadata      map[string]licenseDomain.Value `json:"metadata,omitempty"`
}

// AEADPayloadCodec encrypts license documents with an AEAD under a shared symmetric key.
//
// In StaticKeyMode the configured key encrypts every payload. In DerivedKeyMode a
// fresh 32-byte salt is drawn per payload and the encryption key is derived with
// HKDF-SHA512, so no two licenses share an encryption key. Decoding honors the mode
// recorded in each envelope, so either mode reads payloads written in the other.
type AEADPayloadCodec struct {
	aeadManager cryptoService.AEADManager
	key         []byte
	alg         cryptoDomain.Algorithm
	mode        KeyMode
}

// NewPayloadCodec creates an AEADPayloadCodec. key is copied and must be 32 bytes.
func NewPayloadCodec(
	aeadManager cryptoService.AEADManager,
	key []byte,
	alg cryptoDomain.Algorithm,
	mode KeyMode,
) (*AEADPayloadCodec, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	if mode != StaticKeyMode && mode != DerivedKeyMode {
		return nil, fmt.Errorf("%w: payload key mode %d", cryptoDomain.ErrUnsupportedAlgorithm, uint8(mode))
	}
	return &AEADPayloadCodec{
		aeadManager: aeadManager,
		key:         bytes.Clone(key),
		alg:         alg,
		mode:        mode,
	}, nil
}

// Mode returns the key mode used for encoding.
func (c *AEADPayloadCodec) Mode() KeyMode {
	return c.mode
}

// Close zeroes the codec's copy of the key. The codec is unusable afterwards.
func (c *AEADPayloadCodec) Close() error {
	cryptoDomain.Zero(c.key)
	return nil
}

// Encode serializes l to a versioned JSON document and seals it.
func (c *AEADPayloadCodec) Encode(l *licenseDomain.License) ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil license", licenseDomain.ErrInvalidLicense)
	}
	p, err := l.Params()
	if err != nil {
		return nil, err
	}

	doc := payloadDocument{
		SchemaVersion: SchemaVersion,
		ID:            p.ID,
		Holder:        p.Holder,
		Subject:       p.Subject,
		Issuer:        p.Issuer,
		IssuedAt:      p.IssuedAt,
		NotBefore:     p.NotBefore,
		Seats:         p.Seats,
		Features:      p.Features,
		Metadata:      p.Metadata,
	}
	if !p.ExpiresAt.IsZero() {
		doc.ExpiresAt = &p.ExpiresAt
	}
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize license: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	env := &payloadEnvelope{Mode: c.mode, Algorithm: c.alg}
	if c.mode == DerivedKeyMode {
		env.Salt = make([]byte, derivedSaltSize)
		if _, err := rand.Read(env.Salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	key, err := c.encryptionKey(env)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := c.aeadManager.CreateCipher(key, env.Algorithm)
	if err != nil {
		return nil, err
	}
	env.Ciphertext, env.Nonce, err = cipher.Encrypt(plaintext, env.header())
	if err != nil {
		return nil, err
	}

	return env.marshal(), nil
}

// Decode opens and deserializes a payload produced by Encode.
func (c *AEADPayloadCodec) Decode(data []byte) (*licenseDomain.License, error) {
	env, err := parsePayloadEnvelope(data)
	if err != nil {
		return nil, err
	}

	key, err := c.encryptionKey(env)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := c.aeadManager.CreateCipher(key, env.Algorithm)
	if err != nil {
		return nil, err
	}
	plaintext, err := cipher.Decrypt(env.Ciphertext, env.Nonce, env.header())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", licenseDomain.ErrPayloadCorrupted, err)
	}
	defer cryptoDomain.Zero(plaintext)

	return decodeDocument(plaintext)
}

// encryptionKey returns a fresh copy of the key to use for env. The caller zeroes it.
func (c *AEADPayloadCodec) encryptionKey(env *payloadEnvelope) ([]byte, error) {
	if cryptoDomain.IsZero(c.key) {
		return nil, fmt.Errorf("%w: payload key is closed", cryptoDomain.ErrInvalidKeySize)
	}
	if env.Mode == StaticKeyMode {
		return bytes.Clone(c.key), nil
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha512.New, c.key, env.Salt, payloadKeyInfo), key); err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to derive payload key: %w", err)
	}
	return key, nil
}

func decodeDocument(plaintext []byte) (*licenseDomain.License, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(plaintext, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", licenseDomain.ErrPayloadCorrupted, err)
	}
	if probe.SchemaVersion < 1 || probe.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf(
			"%w: schema version %d (supported up to %d)",
			licenseDomain.ErrIncompatiblePayloadVersion,
			probe.SchemaVersion,
			SchemaVersion,
		)
	}

	var doc payloadDocument
	dec := json.NewDecoder(bytes.NewReader(plaintext))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", licenseDomain.ErrPayloadCorrupted, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", licenseDomain.ErrPayloadCorrupted)
	}
	if doc.ID == uuid.Nil || doc.IssuedAt.IsZero() || doc.NotBefore.IsZero() {
		return nil, fmt.Errorf("%w: missing id or timestamps", licenseDomain.ErrPayloadCorrupted)
	}

	p := licenseDomain.Params{
		ID:        doc.ID,
		Holder:    doc.Holder,
		Subject:   doc.Subject,
		Issuer:    doc.Issuer,
		IssuedAt:  doc.IssuedAt,
		NotBefore: doc.NotBefore,
		Seats:     doc.Seats,
		Features:  doc.Features,
		Metadata:  doc.Metadata,
	}
	if doc.ExpiresAt != nil {
		p.ExpiresAt = *doc.ExpiresAt
	}

	l, err := licenseDomain.NewLicense(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", licenseDomain.ErrPayloadCorrupted, err)
	}
	return l, nil
}
