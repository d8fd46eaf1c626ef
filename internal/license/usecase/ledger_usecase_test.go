package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

type ledgerFixture struct {
	txManager *mockTxManager
	repo      *mockIssuedLicenseRepository
	issuer    *mockIssuer
	holder    *IssuerHolder
	useCase   *ledgerUseCase
}

func newLedgerFixture(t *testing.T, initialized bool) *ledgerFixture {
	t.Helper()
	signer, err := cryptoService.NewSigner(cryptoDomain.RSASHA512, cryptoDomain.DefaultRSAKeyBits)
	require.NoError(t, err)

	f := &ledgerFixture{
		txManager: &mockTxManager{},
		repo:      &mockIssuedLicenseRepository{},
		issuer:    &mockIssuer{},
		holder:    NewIssuerHolder(nil, nil, signer, nil, discardLogger()),
	}
	if initialized {
		f.holder.instance = f.issuer
	}
	f.useCase = NewLedgerUseCase(f.txManager, f.repo, f.holder, signer, discardLogger()).(*ledgerUseCase)
	f.useCase.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestLedgerUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	signed := licenseDomain.NewSignedLicense([]byte("encrypted"), []byte("signature"))

	t.Run("Success", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		params := testParams()

		f.issuer.On("SignLicense", ctx, mock.AnythingOfType("*domain.License")).Return(signed, nil).Once()
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, params.ID).Return(nil, licenseDomain.ErrIssuedLicenseNotFound).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(il *licenseDomain.IssuedLicense) bool {
			return il.ID == params.ID
		})).Return(nil).Once()

		issued, err := f.useCase.Issue(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, params.ID, issued.ID)
		assert.Equal(t, "Acme Corp", issued.Holder)
		assert.Equal(t, []string{"export", "reports"}, issued.Features)
		assert.Equal(t, string(cryptoDomain.RSASHA512), issued.SignatureAlgorithm)
		assert.Equal(t, []byte("encrypted"), issued.EncryptedData)
		assert.Equal(t, []byte("signature"), issued.Signature)
		assert.Equal(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), issued.CreatedAt)
		require.NotNil(t, issued.ExpiresAt)
		assert.True(t, issued.SignedLicense().Equal(signed))

		f.issuer.AssertExpectations(t)
		f.txManager.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("Error_IssuerNotInitialized", func(t *testing.T) {
		f := newLedgerFixture(t, false)

		_, err := f.useCase.Issue(ctx, testParams())
		assert.ErrorIs(t, err, licenseDomain.ErrIssuerNotInitialized)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidParams", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		params := testParams()
		params.Holder = "   "

		_, err := f.useCase.Issue(ctx, params)
		assert.ErrorIs(t, err, licenseDomain.ErrInvalidLicense)
		f.issuer.AssertNotCalled(t, "SignLicense", mock.Anything, mock.Anything)
	})

	t.Run("Error_SignFails", func(t *testing.T) {
		f := newLedgerFixture(t, true)

		f.issuer.On("SignLicense", ctx, mock.Anything).
			Return(licenseDomain.SignedLicense{}, cryptoDomain.ErrKeyNotFound).
			Once()

		_, err := f.useCase.Issue(ctx, testParams())
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything)
	})

	t.Run("Error_AlreadyRecorded", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		params := testParams()

		f.issuer.On("SignLicense", ctx, mock.Anything).Return(signed, nil).Once()
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, params.ID).Return(&licenseDomain.IssuedLicense{ID: params.ID}, nil).Once()

		_, err := f.useCase.Issue(ctx, params)
		assert.ErrorIs(t, err, licenseDomain.ErrIssuedLicenseConflict)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_LookupFails", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		params := testParams()
		dbErr := errors.New("connection reset")

		f.issuer.On("SignLicense", ctx, mock.Anything).Return(signed, nil).Once()
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, params.ID).Return(nil, dbErr).Once()

		_, err := f.useCase.Issue(ctx, params)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Error_CreateFails", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		params := testParams()
		dbErr := errors.New("disk full")

		f.issuer.On("SignLicense", ctx, mock.Anything).Return(signed, nil).Once()
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, params.ID).Return(nil, licenseDomain.ErrIssuedLicenseNotFound).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(dbErr).Once()

		issued, err := f.useCase.Issue(ctx, params)
		assert.Nil(t, issued)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Error_BeginTxFails", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		txErr := errors.New("begin failed")

		f.issuer.On("SignLicense", ctx, mock.Anything).Return(signed, nil).Once()
		f.txManager.On("WithTx", ctx).Return(txErr).Once()

		_, err := f.useCase.Issue(ctx, testParams())
		assert.ErrorIs(t, err, txErr)
	})
}

func TestLedgerUseCase_GetAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		id := uuid.Must(uuid.NewV7())
		record := &licenseDomain.IssuedLicense{ID: id}

		f.repo.On("Get", ctx, id).Return(record, nil).Once()

		got, err := f.useCase.Get(ctx, id)
		require.NoError(t, err)
		assert.Same(t, record, got)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		id := uuid.Must(uuid.NewV7())

		f.repo.On("Get", ctx, id).Return(nil, licenseDomain.ErrIssuedLicenseNotFound).Once()

		_, err := f.useCase.Get(ctx, id)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("List", func(t *testing.T) {
		f := newLedgerFixture(t, true)
		records := []*licenseDomain.IssuedLicense{{ID: uuid.Must(uuid.NewV7())}}

		f.repo.On("List", ctx, 0, 50).Return(records, nil).Once()

		got, err := f.useCase.List(ctx, 0, 50)
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("List_InvalidPagination", func(t *testing.T) {
		f := newLedgerFixture(t, true)

		_, err := f.useCase.List(ctx, -1, 10)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = f.useCase.List(ctx, 0, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
