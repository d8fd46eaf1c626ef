package domain

import (
	"github.com/allisson/licenses/internal/errors"
)

// License-specific error definitions.
var (
	// ErrInvalidLicense indicates license parameters that fail validation.
	ErrInvalidLicense = errors.Wrap(errors.ErrInvalidInput, "invalid license")

	// ErrInvalidMetadataValue indicates a metadata value that cannot be represented (NaN, infinities).
	ErrInvalidMetadataValue = errors.Wrap(errors.ErrInvalidInput, "invalid metadata value")

	// ErrInvalidFeatureRestriction indicates a restriction with an unknown operand or bad feature name.
	ErrInvalidFeatureRestriction = errors.Wrap(errors.ErrInvalidInput, "invalid feature restriction")

	// ErrSignatureInvalid indicates a SignedLicense whose signature did not verify.
	ErrSignatureInvalid = errors.Wrap(errors.ErrSignatureInvalid, "license signature invalid")

	// ErrPayloadCorrupted indicates encrypted license data that failed to decrypt or decode.
	ErrPayloadCorrupted = errors.Wrap(errors.ErrCorrupted, "license payload corrupted")

	// ErrIncompatiblePayloadVersion indicates a payload written by a newer or unknown format version.
	ErrIncompatiblePayloadVersion = errors.Wrap(errors.ErrCorrupted, "incompatible license payload version")

	// ErrInvalidSignedLicenseFormat indicates a SignedLicense text form that cannot be parsed.
	ErrInvalidSignedLicenseFormat = errors.Wrap(errors.ErrCorrupted, "invalid signed license format")

	// ErrIssuerNotInitialized indicates the issuance orchestrator was used before it was created.
	ErrIssuerNotInitialized = errors.Wrap(errors.ErrFailedPrecondition, "license issuer not initialized")

	// ErrVerifierNotInitialized indicates the verification orchestrator was used before it was created.
	ErrVerifierNotInitialized = errors.Wrap(errors.ErrFailedPrecondition, "license verifier not initialized")

	// ErrNoLicenseLoaded indicates a feature check before any license was loaded.
	ErrNoLicenseLoaded = errors.Wrap(errors.ErrFailedPrecondition, "no license loaded")

	// ErrLicenseExpired indicates a license outside its validity window.
	ErrLicenseExpired = errors.Wrap(errors.ErrForbidden, "license not valid at this time")

	// ErrFeatureNotLicensed indicates a restriction the loaded license does not satisfy.
	ErrFeatureNotLicensed = errors.Wrap(errors.ErrForbidden, "feature not licensed")

	// ErrIssuedLicenseNotFound indicates no ledger record exists for the requested ID.
	ErrIssuedLicenseNotFound = errors.Wrap(errors.ErrNotFound, "issued license not found")

	// ErrIssuedLicenseConflict indicates a ledger record with the same ID already exists.
	ErrIssuedLicenseConflict = errors.Wrap(errors.ErrConflict, "issued license already recorded")
)
