package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/metrics"
)

// metricsDomain labels every operation recorded by this package.
const metricsDomain = "licenses"

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}

// issuerWithMetrics decorates Issuer with metrics instrumentation.
type issuerWithMetrics struct {
	next    Issuer
	metrics metrics.BusinessMetrics
}

// NewIssuerWithMetrics wraps an Issuer with metrics recording.
func NewIssuerWithMetrics(next Issuer, m metrics.BusinessMetrics) Issuer {
	return &issuerWithMetrics{next: next, metrics: m}
}

// SignLicense records metrics for license signing.
func (i *issuerWithMetrics) SignLicense(
	ctx context.Context,
	l *licenseDomain.License,
) (licenseDomain.SignedLicense, error) {
	start := time.Now()
	signed, err := i.next.SignLicense(ctx, l)

	metrics.Observe(ctx, i.metrics, metricsDomain, "license_sign", start, statusOf(err))

	return signed, err
}

// verifierWithMetrics decorates Verifier with metrics instrumentation.
type verifierWithMetrics struct {
	next    Verifier
	metrics metrics.BusinessMetrics
}

// NewVerifierWithMetrics wraps a Verifier with metrics recording.
func NewVerifierWithMetrics(next Verifier, m metrics.BusinessMetrics) Verifier {
	return &verifierWithMetrics{next: next, metrics: m}
}

// VerifyAndDecode records metrics for license verification.
func (v *verifierWithMetrics) VerifyAndDecode(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	start := time.Now()
	l, err := v.next.VerifyAndDecode(ctx, signed)

	metrics.Observe(ctx, v.metrics, metricsDomain, "license_verify", start, statusOf(err))

	return l, err
}

// licenseManagerWithMetrics decorates LicenseManager with metrics instrumentation.
type licenseManagerWithMetrics struct {
	next    LicenseManager
	metrics metrics.BusinessMetrics
}

// NewLicenseManagerWithMetrics wraps a LicenseManager with metrics recording.
func NewLicenseManagerWithMetrics(next LicenseManager, m metrics.BusinessMetrics) LicenseManager {
	return &licenseManagerWithMetrics{next: next, metrics: m}
}

// Load records metrics for license loading.
func (lm *licenseManagerWithMetrics) Load(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	start := time.Now()
	l, err := lm.next.Load(ctx, signed)

	metrics.Observe(ctx, lm.metrics, metricsDomain, "license_load", start, statusOf(err))

	return l, err
}

// Current is not instrumented.
func (lm *licenseManagerWithMetrics) Current() (*licenseDomain.License, error) {
	return lm.next.Current()
}

// Check records feature checks as granted, denied or error.
func (lm *licenseManagerWithMetrics) Check(ctx context.Context, r licenseDomain.FeatureRestriction) (bool, error) {
	start := time.Now()
	ok, err := lm.next.Check(ctx, r)

	status := metrics.StatusGranted
	switch {
	case err != nil:
		status = metrics.StatusError
	case !ok:
		status = metrics.StatusDenied
	}
	metrics.Observe(ctx, lm.metrics, metricsDomain, "feature_check", start, status)

	return ok, err
}

// Guard builds the guard on this decorator so guarded calls are counted as checks.
func (lm *licenseManagerWithMetrics) Guard(
	r licenseDomain.FeatureRestriction,
	fn func(ctx context.Context) error,
) func(ctx context.Context) error {
	return guard(lm, r, fn)
}

// ledgerUseCaseWithMetrics decorates LedgerUseCase with metrics instrumentation.
type ledgerUseCaseWithMetrics struct {
	next    LedgerUseCase
	metrics metrics.BusinessMetrics
}

// NewLedgerUseCaseWithMetrics wraps a LedgerUseCase with metrics recording.
func NewLedgerUseCaseWithMetrics(next LedgerUseCase, m metrics.BusinessMetrics) LedgerUseCase {
	return &ledgerUseCaseWithMetrics{next: next, metrics: m}
}

// Issue records metrics for license issuance.
func (u *ledgerUseCaseWithMetrics) Issue(
	ctx context.Context,
	params licenseDomain.Params,
) (*licenseDomain.IssuedLicense, error) {
	start := time.Now()
	issued, err := u.next.Issue(ctx, params)

	metrics.Observe(ctx, u.metrics, metricsDomain, "license_issue", start, statusOf(err))

	return issued, err
}

// Get records metrics for ledger lookups.
func (u *ledgerUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error) {
	start := time.Now()
	issued, err := u.next.Get(ctx, id)

	metrics.Observe(ctx, u.metrics, metricsDomain, "license_get", start, statusOf(err))

	return issued, err
}

// List records metrics for ledger listing.
func (u *ledgerUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*licenseDomain.IssuedLicense, error) {
	start := time.Now()
	issued, err := u.next.List(ctx, offset, limit)

	metrics.Observe(ctx, u.metrics, metricsDomain, "license_list", start, statusOf(err))

	return issued, err
}
