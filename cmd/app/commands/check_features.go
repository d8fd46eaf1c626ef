package commands

import (
	"context"
	"fmt"
	"log/slog"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
)

// RunCheckFeatures loads a signed license into manager and evaluates a feature
// restriction against it. A restriction the license does not satisfy is reported
// and returned as ErrFeatureNotLicensed so the process exits non-zero.
func RunCheckFeatures(
	ctx context.Context,
	manager licenseUseCase.LicenseManager,
	logger *slog.Logger,
	stdio IOTuple,
	input string,
	operand string,
	features []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	op, err := licenseDomain.ParseOperand(operand)
	if err != nil {
		return err
	}
	restriction, err := licenseDomain.NewFeatureRestriction(op, features...)
	if err != nil {
		return err
	}

	signed, err := readSignedLicense(input, stdio.Reader)
	if err != nil {
		return err
	}

	if _, err := manager.Load(ctx, signed); err != nil {
		return fmt.Errorf("failed to load license: %w", err)
	}

	granted, err := manager.Check(ctx, restriction)
	if err != nil {
		return err
	}

	logger.Info("feature restriction evaluated",
		slog.String("restriction", restriction.String()),
		slog.Bool("granted", granted),
	)

	if format == FormatJSON {
		if err := writeJSON(stdio.Writer, map[string]any{
			"restriction": restriction.String(),
			"granted":     granted,
		}); err != nil {
			return err
		}
	} else {
		verdict := "denied"
		if granted {
			verdict = "granted"
		}
		if _, err := fmt.Fprintf(stdio.Writer, "%s: %s\n", restriction, verdict); err != nil {
			return err
		}
	}

	if !granted {
		return fmt.Errorf("%w: requires %s", licenseDomain.ErrFeatureNotLicensed, restriction)
	}
	return nil
}
