package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssuedLicense is the ledger record kept by the licensor for every license it signs.
type IssuedLicense struct {
	ID                 uuid.UUID  // License ID (UUIDv7)
	Holder             string     // Licensee
	Subject            string     // Licensed product
	Features           []string   // Granted features, sorted
	Seats              int        // 0 means unlimited
	IssuedAt           time.Time  // Issue time embedded in the license
	NotBefore          time.Time  // Start of the validity window
	ExpiresAt          *time.Time // End of the validity window (nil if perpetual)
	SignatureAlgorithm string     // Scheme used to sign EncryptedData
	EncryptedData      []byte
	Signature          []byte
	CreatedAt          time.Time // When the record was written
}

// NewIssuedLicense builds a ledger record from a license and its signed form.
func NewIssuedLicense(l *License, signed SignedLicense, algorithm string, now time.Time) (*IssuedLicense, error) {
	features, err := l.FeatureNames()
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if !l.Perpetual() {
		exp := l.ExpiresAt()
		expiresAt = &exp
	}

	return &IssuedLicense{
		ID:                 l.ID(),
		Holder:             l.Holder(),
		Subject:            l.Subject(),
		Features:           features,
		Seats:              l.Seats(),
		IssuedAt:           l.IssuedAt(),
		NotBefore:          l.NotBefore(),
		ExpiresAt:          expiresAt,
		SignatureAlgorithm: algorithm,
		EncryptedData:      signed.EncryptedData(),
		Signature:          signed.Signature(),
		CreatedAt:          now.UTC(),
	}, nil
}

// SignedLicense returns the signed form stored in the record.
func (il *IssuedLicense) SignedLicense() SignedLicense {
	return NewSignedLicense(il.EncryptedData, il.Signature)
}
