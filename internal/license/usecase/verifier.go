package usecase

import (
	"context"
	"log/slog"

	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/provider"
	licenseService "github.com/allisson/licenses/internal/license/service"
)

// verifier implements Verifier.
type verifier struct {
	keyDataProvider provider.KeyDataProvider
	keyLoader       cryptoService.KeyLoader
	codec           licenseService.PayloadCodec
	signer          cryptoService.Signer
	logger          *slog.Logger
}

// VerifyAndDecode checks the signature over the encrypted data before decrypting it.
func (v *verifier) VerifyAndDecode(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	envelope, err := v.keyDataProvider.EncryptedKeyData(ctx)
	if err != nil {
		return nil, err
	}

	key, err := v.keyLoader.DecryptPublicKey(envelope)
	if err != nil {
		return nil, err
	}

	data := signed.EncryptedData()
	ok, err := v.signer.Verify(key, data, signed.Signature())
	if err != nil {
		return nil, err
	}
	if !ok {
		v.logger.Warn("license signature rejected", slog.String("algorithm", string(v.signer.Algorithm())))
		return nil, licenseDomain.ErrSignatureInvalid
	}

	l, err := v.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	v.logger.Debug("license verified", slog.String("license_id", l.ID().String()))
	return l, nil
}
