package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/provider"
	licenseService "github.com/allisson/licenses/internal/license/service"
	"github.com/allisson/licenses/internal/metrics"
)

// IssuerHolder owns the single Issuer of an application.
//
// CreateInstance is first-writer-wins: concurrent first calls race under a mutex
// to exactly one instance, and later calls return that instance unchanged.
type IssuerHolder struct {
	mu        sync.Mutex
	instance  Issuer
	keyLoader cryptoService.KeyLoader
	codec     licenseService.PayloadCodec
	signer    cryptoService.Signer
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewIssuerHolder creates an empty holder. The collaborators are shared by the
// instance it eventually creates; a nil metrics disables instrumentation.
func NewIssuerHolder(
	keyLoader cryptoService.KeyLoader,
	codec licenseService.PayloadCodec,
	signer cryptoService.Signer,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) *IssuerHolder {
	return &IssuerHolder{
		keyLoader: keyLoader,
		codec:     codec,
		signer:    signer,
		metrics:   m,
		logger:    logger,
	}
}

// CreateInstance creates the Issuer on the first call and returns the existing
// one on every later call, ignoring its arguments.
func (h *IssuerHolder) CreateInstance(
	passwordProvider provider.PasswordProvider,
	keyDataProvider provider.KeyDataProvider,
) (Issuer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.instance != nil {
		return h.instance, nil
	}
	if passwordProvider == nil || keyDataProvider == nil {
		return nil, fmt.Errorf("%w: password and key data providers are required", apperrors.ErrInvalidInput)
	}

	var instance Issuer = &issuer{
		passwordProvider: passwordProvider,
		keyDataProvider:  keyDataProvider,
		keyLoader:        h.keyLoader,
		codec:            h.codec,
		signer:           h.signer,
		logger:           h.logger,
	}
	if h.metrics != nil {
		instance = NewIssuerWithMetrics(instance, h.metrics)
	}
	h.instance = instance

	h.logger.Info("license issuer created", slog.String("algorithm", string(h.signer.Algorithm())))
	return h.instance, nil
}

// Instance returns the Issuer or ErrIssuerNotInitialized.
func (h *IssuerHolder) Instance() (Issuer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.instance == nil {
		return nil, licenseDomain.ErrIssuerNotInitialized
	}
	return h.instance, nil
}

// VerifierHolder owns the single Verifier of an application, with the same
// first-writer-wins semantics as IssuerHolder.
type VerifierHolder struct {
	mu        sync.Mutex
	instance  Verifier
	keyLoader cryptoService.KeyLoader
	codec     licenseService.PayloadCodec
	signer    cryptoService.Signer
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewVerifierHolder creates an empty holder.
func NewVerifierHolder(
	keyLoader cryptoService.KeyLoader,
	codec licenseService.PayloadCodec,
	signer cryptoService.Signer,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) *VerifierHolder {
	return &VerifierHolder{
		keyLoader: keyLoader,
		codec:     codec,
		signer:    signer,
		metrics:   m,
		logger:    logger,
	}
}

// CreateInstance creates the Verifier on the first call and returns the existing
// one on every later call.
func (h *VerifierHolder) CreateInstance(keyDataProvider provider.KeyDataProvider) (Verifier, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.instance != nil {
		return h.instance, nil
	}
	if keyDataProvider == nil {
		return nil, fmt.Errorf("%w: key data provider is required", apperrors.ErrInvalidInput)
	}

	var instance Verifier = &verifier{
		keyDataProvider: keyDataProvider,
		keyLoader:       h.keyLoader,
		codec:           h.codec,
		signer:          h.signer,
		logger:          h.logger,
	}
	if h.metrics != nil {
		instance = NewVerifierWithMetrics(instance, h.metrics)
	}
	h.instance = instance

	h.logger.Info("license verifier created", slog.String("algorithm", string(h.signer.Algorithm())))
	return h.instance, nil
}

// Instance returns the Verifier or ErrVerifierNotInitialized.
func (h *VerifierHolder) Instance() (Verifier, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.instance == nil {
		return nil, licenseDomain.ErrVerifierNotInitialized
	}
	return h.instance, nil
}
