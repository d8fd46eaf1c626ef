package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// signedLicensePrefix tags the text form of a SignedLicense.
const signedLicensePrefix = "v1"

// SignedLicense pairs the encrypted license payload with a detached signature over it.
//
// The text form is "v1:<base64 encrypted data>:<base64 signature>" using standard
// base64; it is what gets written to license files and transmitted to clients.
type SignedLicense struct {
	encryptedData []byte
	signature     []byte
}

// NewSignedLicense copies encryptedData and signature into a SignedLicense.
func NewSignedLicense(encryptedData, signature []byte) SignedLicense {
	return SignedLicense{
		encryptedData: bytes.Clone(encryptedData),
		signature:     bytes.Clone(signature),
	}
}

// ParseSignedLicense decodes the text form. Surrounding whitespace is ignored.
func ParseSignedLicense(content string) (SignedLicense, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 3 {
		return SignedLicense{}, fmt.Errorf(
			"%w: expected format 'v1:data:signature', got %d parts",
			ErrInvalidSignedLicenseFormat,
			len(parts),
		)
	}
	if parts[0] != signedLicensePrefix {
		return SignedLicense{}, fmt.Errorf("%w: unknown version %q", ErrInvalidSignedLicenseFormat, parts[0])
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return SignedLicense{}, fmt.Errorf("%w: data: %v", ErrInvalidSignedLicenseFormat, err)
	}
	sig, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return SignedLicense{}, fmt.Errorf("%w: signature: %v", ErrInvalidSignedLicenseFormat, err)
	}
	if len(data) == 0 || len(sig) == 0 {
		return SignedLicense{}, fmt.Errorf("%w: empty data or signature", ErrInvalidSignedLicenseFormat)
	}

	return SignedLicense{encryptedData: data, signature: sig}, nil
}

// EncryptedData returns a copy of the encrypted payload.
func (s SignedLicense) EncryptedData() []byte { return bytes.Clone(s.encryptedData) }

// Signature returns a copy of the signature.
func (s SignedLicense) Signature() []byte { return bytes.Clone(s.signature) }

// IsZero reports whether the SignedLicense carries no data.
func (s SignedLicense) IsZero() bool {
	return len(s.encryptedData) == 0 && len(s.signature) == 0
}

// Equal reports whether both values hold identical bytes.
func (s SignedLicense) Equal(other SignedLicense) bool {
	return bytes.Equal(s.encryptedData, other.encryptedData) && bytes.Equal(s.signature, other.signature)
}

// String returns the text form.
func (s SignedLicense) String() string {
	return signedLicensePrefix + ":" +
		base64.StdEncoding.EncodeToString(s.encryptedData) + ":" +
		base64.StdEncoding.EncodeToString(s.signature)
}

// MarshalText implements encoding.TextMarshaler.
func (s SignedLicense) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SignedLicense) UnmarshalText(text []byte) error {
	parsed, err := ParseSignedLicense(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
