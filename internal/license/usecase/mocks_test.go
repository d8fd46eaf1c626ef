package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/metrics"
)

// mockIssuer is a mock implementation of Issuer for testing.
type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) SignLicense(
	ctx context.Context,
	l *licenseDomain.License,
) (licenseDomain.SignedLicense, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(licenseDomain.SignedLicense), args.Error(1)
}

// mockVerifier is a mock implementation of Verifier for testing.
type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyAndDecode(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, signed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// mockLicenseManager is a mock implementation of LicenseManager for testing.
type mockLicenseManager struct {
	mock.Mock
}

func (m *mockLicenseManager) Load(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, signed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

func (m *mockLicenseManager) Current() (*licenseDomain.License, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

func (m *mockLicenseManager) Check(ctx context.Context, r licenseDomain.FeatureRestriction) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *mockLicenseManager) Guard(
	r licenseDomain.FeatureRestriction,
	fn func(ctx context.Context) error,
) func(ctx context.Context) error {
	return guard(m, r, fn)
}

// mockLedgerUseCase is a mock implementation of LedgerUseCase for testing.
type mockLedgerUseCase struct {
	mock.Mock
}

func (m *mockLedgerUseCase) Issue(
	ctx context.Context,
	params licenseDomain.Params,
) (*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.IssuedLicense), args.Error(1)
}

func (m *mockLedgerUseCase) Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.IssuedLicense), args.Error(1)
}

func (m *mockLedgerUseCase) List(ctx context.Context, offset, limit int) ([]*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.IssuedLicense), args.Error(1)
}

// mockIssuedLicenseRepository is a mock implementation of IssuedLicenseRepository for testing.
type mockIssuedLicenseRepository struct {
	mock.Mock
}

func (m *mockIssuedLicenseRepository) Create(ctx context.Context, issued *licenseDomain.IssuedLicense) error {
	args := m.Called(ctx, issued)
	return args.Error(0)
}

func (m *mockIssuedLicenseRepository) Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.IssuedLicense), args.Error(1)
}

func (m *mockIssuedLicenseRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.IssuedLicense), args.Error(1)
}

// mockTxManager runs the function inline and records the call.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var (
	_ Issuer                  = (*mockIssuer)(nil)
	_ Verifier                = (*mockVerifier)(nil)
	_ LicenseManager          = (*mockLicenseManager)(nil)
	_ LedgerUseCase           = (*mockLedgerUseCase)(nil)
	_ IssuedLicenseRepository = (*mockIssuedLicenseRepository)(nil)
	_ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)
)
