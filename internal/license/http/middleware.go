// Package http exposes license state to host applications built on Gin: a middleware
// that gates routes on a FeatureRestriction and read-only handlers for the loaded
// license and the issued-license ledger.
package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/licenses/internal/errors"
	"github.com/allisson/licenses/internal/httputil"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
	"github.com/allisson/licenses/internal/metrics"
)

// Gate outcomes stored under metrics.GateOutcomeKey.
const (
	outcomeGranted    = "granted"
	outcomeDenied     = "denied"
	outcomeUnlicensed = "unlicensed"
	outcomeExpired    = "expired"
	outcomeError      = "error"
)

// RequireFeatures returns a middleware that lets a request through only when the loaded
// license satisfies restriction.
//
// Error handling:
//   - Restriction not satisfied → 403 Forbidden (ErrFeatureNotLicensed)
//   - License expired or not yet valid → 403 Forbidden (ErrLicenseExpired)
//   - No license loaded → 503 Service Unavailable
//   - Other errors (tampered license) → 500 Internal Server Error
//
// Usage:
//
//	reports := router.Group("/v1/reports")
//	reports.Use(RequireFeatures(manager, licenseDomain.Require("reports"), logger))
//
// It panics if restriction is invalid, the same way route registration panics on a
// malformed path.
func RequireFeatures(
	manager licenseUseCase.LicenseManager,
	restriction licenseDomain.FeatureRestriction,
	logger *slog.Logger,
) gin.HandlerFunc {
	if err := restriction.Validate(); err != nil {
		panic(fmt.Sprintf("license http: %v", err))
	}

	return func(c *gin.Context) {
		ok, err := manager.Check(c.Request.Context(), restriction)
		if err != nil {
			c.Set(metrics.GateOutcomeKey, outcomeForError(err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if !ok {
			c.Set(metrics.GateOutcomeKey, outcomeDenied)
			logger.Debug("feature gate denied request",
				slog.String("route", c.FullPath()),
				slog.String("restriction", restriction.String()))
			httputil.HandleErrorGin(c,
				fmt.Errorf("%w: requires %s", licenseDomain.ErrFeatureNotLicensed, restriction),
				logger)
			c.Abort()
			return
		}

		c.Set(metrics.GateOutcomeKey, outcomeGranted)
		c.Next()
	}
}

func outcomeForError(err error) string {
	switch {
	case apperrors.Is(err, licenseDomain.ErrLicenseExpired):
		return outcomeExpired
	case apperrors.KindOf(err) == apperrors.KindState:
		return outcomeUnlicensed
	default:
		return outcomeError
	}
}
