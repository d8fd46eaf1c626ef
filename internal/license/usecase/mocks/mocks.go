// Package mocks provides testify mock implementations of the license use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// MockIssuer is a mock implementation of Issuer.
type MockIssuer struct {
	mock.Mock
}

// SignLicense mocks the SignLicense method of Issuer.
func (m *MockIssuer) SignLicense(
	ctx context.Context,
	l *licenseDomain.License,
) (licenseDomain.SignedLicense, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(licenseDomain.SignedLicense), args.Error(1)
}

// MockVerifier is a mock implementation of Verifier.
type MockVerifier struct {
	mock.Mock
}

// VerifyAndDecode mocks the VerifyAndDecode method of Verifier.
func (m *MockVerifier) VerifyAndDecode(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, signed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// MockLicenseManager is a mock implementation of LicenseManager.
type MockLicenseManager struct {
	mock.Mock
}

// Load mocks the Load method of LicenseManager.
func (m *MockLicenseManager) Load(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, signed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// Current mocks the Current method of LicenseManager.
func (m *MockLicenseManager) Current() (*licenseDomain.License, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// Check mocks the Check method of LicenseManager.
func (m *MockLicenseManager) Check(ctx context.Context, r licenseDomain.FeatureRestriction) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

// Guard mocks the Guard method of LicenseManager.
func (m *MockLicenseManager) Guard(
	r licenseDomain.FeatureRestriction,
	fn func(ctx context.Context) error,
) func(ctx context.Context) error {
	args := m.Called(r, fn)
	return args.Get(0).(func(ctx context.Context) error)
}

// MockLedgerUseCase is a mock implementation of LedgerUseCase.
type MockLedgerUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of LedgerUseCase.
func (m *MockLedgerUseCase) Issue(
	ctx context.Context,
	params licenseDomain.Params,
) (*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.IssuedLicense), args.Error(1)
}

// Get mocks the Get method of LedgerUseCase.
func (m *MockLedgerUseCase) Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.IssuedLicense), args.Error(1)
}

// List mocks the List method of LedgerUseCase.
func (m *MockLedgerUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*licenseDomain.IssuedLicense, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.IssuedLicense), args.Error(1)
}
