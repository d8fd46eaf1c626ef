package usecase

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/provider"
	licenseService "github.com/allisson/licenses/internal/license/service"
)

// issuer implements Issuer. It holds no key material between calls.
type issuer struct {
	passwordProvider provider.PasswordProvider
	keyDataProvider  provider.KeyDataProvider
	keyLoader        cryptoService.KeyLoader
	codec            licenseService.PayloadCodec
	signer           cryptoService.Signer
	logger           *slog.Logger
}

// SignLicense loads the private key, encodes the license and signs the result.
func (i *issuer) SignLicense(
	ctx context.Context,
	l *licenseDomain.License,
) (licenseDomain.SignedLicense, error) {
	if l == nil {
		return licenseDomain.SignedLicense{}, fmt.Errorf("%w: nil license", licenseDomain.ErrInvalidLicense)
	}
	if err := l.Err(); err != nil {
		return licenseDomain.SignedLicense{}, err
	}

	envelope, err := i.keyDataProvider.EncryptedKeyData(ctx)
	if err != nil {
		return licenseDomain.SignedLicense{}, err
	}

	password, err := i.passwordProvider.Password(ctx)
	if err != nil {
		return licenseDomain.SignedLicense{}, err
	}
	defer cryptoDomain.Zero(password)

	key, err := i.keyLoader.DecryptPrivateKey(envelope, password)
	if err != nil {
		return licenseDomain.SignedLicense{}, err
	}
	defer cryptoDomain.DestroyPrivateKey(key)

	data, err := i.codec.Encode(l)
	if err != nil {
		return licenseDomain.SignedLicense{}, err
	}

	signature, err := i.signer.Sign(key, data)
	if err != nil {
		return licenseDomain.SignedLicense{}, err
	}

	i.logger.Debug("license signed",
		slog.String("license_id", l.ID().String()),
		slog.String("algorithm", string(i.signer.Algorithm())),
	)

	return licenseDomain.NewSignedLicense(data, signature), nil
}
