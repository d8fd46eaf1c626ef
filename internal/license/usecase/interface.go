// Package usecase implements the license issuance and verification orchestrators
// and the application services built on them: the license manager that caches a
// verified license for feature checks, and the ledger of issued licenses.
package usecase

import (
	"context"

	"github.com/google/uuid"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// Issuer signs licenses with the licensor's private key.
type Issuer interface {
	// SignLicense encrypts l and signs the encrypted bytes. The key password and
	// the decrypted private key are wiped before it returns.
	SignLicense(ctx context.Context, l *licenseDomain.License) (licenseDomain.SignedLicense, error)
}

// Verifier checks signed licenses with the distributed public key.
type Verifier interface {
	// VerifyAndDecode verifies the signature and decodes the payload. A signature
	// that does not verify is ErrSignatureInvalid; a payload that does not decode
	// is ErrPayloadCorrupted.
	VerifyAndDecode(ctx context.Context, signed licenseDomain.SignedLicense) (*licenseDomain.License, error)
}

// LicenseManager holds the verified license of a running application and gates
// features on it.
type LicenseManager interface {
	// Load verifies signed and makes it the current license. Concurrent loads of
	// the same bytes share one verification.
	Load(ctx context.Context, signed licenseDomain.SignedLicense) (*licenseDomain.License, error)

	// Current returns the loaded license or ErrNoLicenseLoaded.
	Current() (*licenseDomain.License, error)

	// Check evaluates r against the current license. It fails with ErrLicenseExpired
	// outside the validity window.
	Check(ctx context.Context, r licenseDomain.FeatureRestriction) (bool, error)

	// Guard returns fn wrapped so that it only runs when r is satisfied; otherwise
	// the wrapper returns ErrFeatureNotLicensed.
	Guard(r licenseDomain.FeatureRestriction, fn func(ctx context.Context) error) func(ctx context.Context) error
}

// IssuedLicenseRepository persists the ledger of issued licenses.
type IssuedLicenseRepository interface {
	Create(ctx context.Context, issued *licenseDomain.IssuedLicense) error
	Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error)
	List(ctx context.Context, offset, limit int) ([]*licenseDomain.IssuedLicense, error)
}

// LedgerUseCase issues licenses and records them in the ledger.
type LedgerUseCase interface {
	Issue(ctx context.Context, params licenseDomain.Params) (*licenseDomain.IssuedLicense, error)
	Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error)
	List(ctx context.Context, offset, limit int) ([]*licenseDomain.IssuedLicense, error)
}
