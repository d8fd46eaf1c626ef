package app

import (
	"context"
	"fmt"
	"os"

	"github.com/allisson/licenses/internal/config"
	"github.com/allisson/licenses/internal/database"
	licenseHTTP "github.com/allisson/licenses/internal/license/http"
	"github.com/allisson/licenses/internal/license/provider"
	licenseRepository "github.com/allisson/licenses/internal/license/repository"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
	"github.com/allisson/licenses/internal/metrics"
)

const terminalPasswordPrompt = "Private key password: "

// PasswordProvider returns the private-key password source selected by PASSWORD_SOURCE.
func (c *Container) PasswordProvider() (provider.PasswordProvider, error) {
	var err error
	c.passwordProviderInit.Do(func() {
		c.passwordProvider, err = c.initPasswordProvider()
		if err != nil {
			c.setInitError("passwordProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("passwordProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.passwordProvider, nil
}

// PrivateKeyDataProvider returns the source of the private-key envelope.
func (c *Container) PrivateKeyDataProvider() (provider.KeyDataProvider, error) {
	var err error
	c.privateKeyDataProviderInit.Do(func() {
		c.privateKeyDataProvider, err = provider.NewKeyDataProvider(c.config.PrivateKeySource)
		if err != nil {
			err = fmt.Errorf("failed to create private key data provider: %w", err)
			c.setInitError("privateKeyDataProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("privateKeyDataProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.privateKeyDataProvider, nil
}

// PublicKeyDataProvider returns the source of the public-key envelope.
func (c *Container) PublicKeyDataProvider() (provider.KeyDataProvider, error) {
	var err error
	c.publicKeyDataProviderInit.Do(func() {
		c.publicKeyDataProvider, err = provider.NewKeyDataProvider(c.config.PublicKeySource)
		if err != nil {
			err = fmt.Errorf("failed to create public key data provider: %w", err)
			c.setInitError("publicKeyDataProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("publicKeyDataProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.publicKeyDataProvider, nil
}

// IssuerHolder returns the holder owning the application's single issuer.
func (c *Container) IssuerHolder() (*licenseUseCase.IssuerHolder, error) {
	var err error
	c.issuerHolderInit.Do(func() {
		c.issuerHolder, err = c.initIssuerHolder()
		if err != nil {
			c.setInitError("issuerHolder", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("issuerHolder"); storedErr != nil {
		return nil, storedErr
	}
	return c.issuerHolder, nil
}

// VerifierHolder returns the holder owning the application's single verifier.
func (c *Container) VerifierHolder() (*licenseUseCase.VerifierHolder, error) {
	var err error
	c.verifierHolderInit.Do(func() {
		c.verifierHolder, err = c.initVerifierHolder()
		if err != nil {
			c.setInitError("verifierHolder", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("verifierHolder"); storedErr != nil {
		return nil, storedErr
	}
	return c.verifierHolder, nil
}

// Issuer creates the issuer from the configured providers, or returns the one
// already held.
func (c *Container) Issuer() (licenseUseCase.Issuer, error) {
	holder, err := c.IssuerHolder()
	if err != nil {
		return nil, err
	}

	passwordProvider, err := c.PasswordProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get password provider for issuer: %w", err)
	}

	keyDataProvider, err := c.PrivateKeyDataProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key data provider for issuer: %w", err)
	}

	return holder.CreateInstance(passwordProvider, keyDataProvider)
}

// Verifier creates the verifier from the configured public key source, or returns
// the one already held.
func (c *Container) Verifier() (licenseUseCase.Verifier, error) {
	holder, err := c.VerifierHolder()
	if err != nil {
		return nil, err
	}

	keyDataProvider, err := c.PublicKeyDataProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key data provider for verifier: %w", err)
	}

	return holder.CreateInstance(keyDataProvider)
}

// LicenseManager returns the license manager backed by the verifier.
func (c *Container) LicenseManager() (licenseUseCase.LicenseManager, error) {
	var err error
	c.licenseManagerInit.Do(func() {
		c.licenseManager, err = c.initLicenseManager()
		if err != nil {
			c.setInitError("licenseManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("licenseManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.licenseManager, nil
}

// IssuedLicenseRepository returns the ledger repository for the configured driver.
func (c *Container) IssuedLicenseRepository() (licenseUseCase.IssuedLicenseRepository, error) {
	var err error
	c.ledgerRepoInit.Do(func() {
		c.ledgerRepo, err = c.initIssuedLicenseRepository()
		if err != nil {
			c.setInitError("ledgerRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ledgerRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.ledgerRepo, nil
}

// LedgerUseCase returns the use case that issues and records licenses.
func (c *Container) LedgerUseCase() (licenseUseCase.LedgerUseCase, error) {
	var err error
	c.ledgerUseCaseInit.Do(func() {
		c.ledgerUseCase, err = c.initLedgerUseCase()
		if err != nil {
			c.setInitError("ledgerUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ledgerUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.ledgerUseCase, nil
}

// LicenseHandler returns the read-only license HTTP handler a host application mounts.
// The ledger routes are included only when withLedger is set.
func (c *Container) LicenseHandler(withLedger bool) (*licenseHTTP.LicenseHandler, error) {
	var err error
	c.licenseHandlerInit.Do(func() {
		c.licenseHandler, err = c.initLicenseHandler(withLedger)
		if err != nil {
			c.setInitError("licenseHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("licenseHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.licenseHandler, nil
}

// initPasswordProvider selects the password source.
func (c *Container) initPasswordProvider() (provider.PasswordProvider, error) {
	switch c.config.PasswordSource {
	case config.PasswordSourceEnv:
		return provider.NewEnvPasswordProvider(c.config.PasswordEnvVar), nil
	case config.PasswordSourceTerminal:
		return provider.NewTerminalPasswordProvider(int(os.Stdin.Fd()), terminalPasswordPrompt, os.Stderr), nil
	case config.PasswordSourceKMS:
		kmsProvider, err := provider.NewKMSPasswordProvider(
			c.KMSService(),
			c.config.KMSKeyURI,
			c.config.KMSEncryptedPassword,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create kms password provider: %w", err)
		}
		return kmsProvider, nil
	default:
		return nil, fmt.Errorf("unsupported password source: %s", c.config.PasswordSource)
	}
}

// initIssuerHolder creates the issuer holder with its shared collaborators.
func (c *Container) initIssuerHolder() (*licenseUseCase.IssuerHolder, error) {
	keyLoader, err := c.KeyLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to get key loader for issuer: %w", err)
	}

	codec, err := c.PayloadCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get payload codec for issuer: %w", err)
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for issuer: %w", err)
	}

	return licenseUseCase.NewIssuerHolder(keyLoader, codec, signer, c.holderMetrics(), c.Logger()), nil
}

// initVerifierHolder creates the verifier holder with its shared collaborators.
func (c *Container) initVerifierHolder() (*licenseUseCase.VerifierHolder, error) {
	keyLoader, err := c.KeyLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to get key loader for verifier: %w", err)
	}

	codec, err := c.PayloadCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get payload codec for verifier: %w", err)
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for verifier: %w", err)
	}

	return licenseUseCase.NewVerifierHolder(keyLoader, codec, signer, c.holderMetrics(), c.Logger()), nil
}

// initLicenseManager creates the license manager, instrumented when metrics are enabled.
func (c *Container) initLicenseManager() (licenseUseCase.LicenseManager, error) {
	verifier, err := c.Verifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get verifier for license manager: %w", err)
	}

	manager := licenseUseCase.NewLicenseManager(verifier, c.Logger())
	if m := c.holderMetrics(); m != nil {
		manager = licenseUseCase.NewLicenseManagerWithMetrics(manager, m)
	}
	return manager, nil
}

// initIssuedLicenseRepository creates the ledger repository based on the database driver.
func (c *Container) initIssuedLicenseRepository() (licenseUseCase.IssuedLicenseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for issued license repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return licenseRepository.NewPostgreSQLIssuedLicenseRepository(db), nil
	case database.DriverMySQL:
		return licenseRepository.NewMySQLIssuedLicenseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initLedgerUseCase creates the ledger use case. The issuer is created first so
// that Issue can sign.
func (c *Container) initLedgerUseCase() (licenseUseCase.LedgerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for ledger use case: %w", err)
	}

	repo, err := c.IssuedLicenseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get issued license repository for ledger use case: %w", err)
	}

	if _, err := c.Issuer(); err != nil {
		return nil, fmt.Errorf("failed to get issuer for ledger use case: %w", err)
	}

	holder, err := c.IssuerHolder()
	if err != nil {
		return nil, err
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for ledger use case: %w", err)
	}

	useCase := licenseUseCase.NewLedgerUseCase(txManager, repo, holder, signer, c.Logger())
	if m := c.holderMetrics(); m != nil {
		useCase = licenseUseCase.NewLedgerUseCaseWithMetrics(useCase, m)
	}
	return useCase, nil
}

// initLicenseHandler creates the license HTTP handler.
func (c *Container) initLicenseHandler(withLedger bool) (*licenseHTTP.LicenseHandler, error) {
	manager, err := c.LicenseManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get license manager for license handler: %w", err)
	}

	var ledger licenseUseCase.LedgerUseCase
	if withLedger {
		ledger, err = c.LedgerUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get ledger use case for license handler: %w", err)
		}
	}

	return licenseHTTP.NewLicenseHandler(manager, ledger, c.Logger()), nil
}

// holderMetrics returns the business metrics to instrument orchestrators with, or
// nil when metrics are disabled or unavailable.
func (c *Container) holderMetrics() metrics.BusinessMetrics {
	if !c.config.MetricsEnabled {
		return nil
	}
	m, err := c.BusinessMetrics()
	if err != nil {
		c.Logger().WarnContext(context.Background(), "business metrics unavailable", "error", err)
		return nil
	}
	return m
}
