package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	"github.com/allisson/licenses/internal/database"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// ledgerUseCase implements LedgerUseCase on top of the IssuerHolder.
type ledgerUseCase struct {
	txManager database.TxManager
	repo      IssuedLicenseRepository
	issuers   *IssuerHolder
	signer    cryptoService.Signer
	now       func() time.Time
	logger    *slog.Logger
}

// Issue builds a license from params, signs it and records it.
//
// Signing happens outside the transaction so no connection is held while the key
// password is obtained.
func (u *ledgerUseCase) Issue(
	ctx context.Context,
	params licenseDomain.Params,
) (*licenseDomain.IssuedLicense, error) {
	issuer, err := u.issuers.Instance()
	if err != nil {
		return nil, err
	}

	l, err := licenseDomain.NewLicense(params)
	if err != nil {
		return nil, err
	}

	signed, err := issuer.SignLicense(ctx, l)
	if err != nil {
		return nil, err
	}

	issued, err := licenseDomain.NewIssuedLicense(l, signed, string(u.signer.Algorithm()), u.now())
	if err != nil {
		return nil, err
	}

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := u.repo.Get(txCtx, issued.ID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", licenseDomain.ErrIssuedLicenseConflict, issued.ID)
		}
		return u.repo.Create(txCtx, issued)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("license issued",
		slog.String("license_id", issued.ID.String()),
		slog.String("holder", issued.Holder),
		slog.String("subject", issued.Subject),
	)
	return issued, nil
}

// Get returns the ledger record for id.
func (u *ledgerUseCase) Get(ctx context.Context, id uuid.UUID) (*licenseDomain.IssuedLicense, error) {
	return u.repo.Get(ctx, id)
}

// List returns ledger records, newest first.
func (u *ledgerUseCase) List(ctx context.Context, offset, limit int) ([]*licenseDomain.IssuedLicense, error) {
	if offset < 0 || limit < 1 {
		return nil, fmt.Errorf("%w: offset must be >= 0 and limit >= 1", apperrors.ErrInvalidInput)
	}
	return u.repo.List(ctx, offset, limit)
}

// NewLedgerUseCase creates a LedgerUseCase. Issue fails with ErrIssuerNotInitialized
// until the holder has an instance.
func NewLedgerUseCase(
	txManager database.TxManager,
	repo IssuedLicenseRepository,
	issuers *IssuerHolder,
	signer cryptoService.Signer,
	logger *slog.Logger,
) LedgerUseCase {
	return &ledgerUseCase{
		txManager: txManager,
		repo:      repo,
		issuers:   issuers,
		signer:    signer,
		now:       time.Now,
		logger:    logger,
	}
}
