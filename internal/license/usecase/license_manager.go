package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// licenseManager implements LicenseManager.
type licenseManager struct {
	verifier Verifier
	group    singleflight.Group
	mu       sync.RWMutex
	current  *licenseDomain.License
	now      func() time.Time
	logger   *slog.Logger
}

// Load verifies signed and replaces the current license with the result.
//
// Concurrent loads of the same bytes share one verification. The shared call is
// detached from the caller's cancellation; each caller stops waiting when its own
// ctx ends, which is reported as ErrKeyNotFound like any cancelled key retrieval.
func (m *licenseManager) Load(
	ctx context.Context,
	signed licenseDomain.SignedLicense,
) (*licenseDomain.License, error) {
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(signed.String(), func() (any, error) {
		l, err := m.verifier.VerifyAndDecode(shared, signed)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.current = l
		m.mu.Unlock()

		attrs := []any{
			slog.String("license_id", l.ID().String()),
			slog.String("holder", l.Holder()),
			slog.String("subject", l.Subject()),
		}
		if !l.IsValidAt(m.now()) {
			m.logger.Warn("loaded license is outside its validity window", attrs...)
		} else {
			m.logger.Info("license loaded", attrs...)
		}
		return l, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyNotFound, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			m.logger.Debug("license verification shared with a concurrent load")
		}
		return res.Val.(*licenseDomain.License), nil
	}
}

// Current returns the most recently loaded license.
func (m *licenseManager) Current() (*licenseDomain.License, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, licenseDomain.ErrNoLicenseLoaded
	}
	return m.current, nil
}

// Check evaluates r against the current license at the present time.
func (m *licenseManager) Check(_ context.Context, r licenseDomain.FeatureRestriction) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}

	l, err := m.Current()
	if err != nil {
		return false, err
	}

	now := m.now()
	if !l.IsValidAt(now) {
		if l.IsExpired(now) {
			return false, fmt.Errorf("%w: expired at %s", licenseDomain.ErrLicenseExpired, l.ExpiresAt().Format(time.RFC3339))
		}
		return false, fmt.Errorf("%w: not valid before %s", licenseDomain.ErrLicenseExpired, l.NotBefore().Format(time.RFC3339))
	}

	return l.Satisfies(r)
}

// Guard wraps fn with a Check of r.
func (m *licenseManager) Guard(
	r licenseDomain.FeatureRestriction,
	fn func(ctx context.Context) error,
) func(ctx context.Context) error {
	return guard(m, r, fn)
}

func guard(
	m LicenseManager,
	r licenseDomain.FeatureRestriction,
	fn func(ctx context.Context) error,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ok, err := m.Check(ctx, r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: requires %s", licenseDomain.ErrFeatureNotLicensed, r)
		}
		return fn(ctx)
	}
}

// NewLicenseManager creates a LicenseManager that loads licenses through verifier.
func NewLicenseManager(verifier Verifier, logger *slog.Logger) LicenseManager {
	return &licenseManager{
		verifier: verifier,
		now:      time.Now,
		logger:   logger,
	}
}
