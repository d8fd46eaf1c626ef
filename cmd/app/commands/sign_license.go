package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/http/dto"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
)

// SignLicenseOptions selects the input and output of sign-license.
type SignLicenseOptions struct {
	// Input is a JSON file with the license attributes, or "-" for standard input.
	Input  string
	Format string
}

// RunSignLicense builds a license from JSON attributes and signs it with issuer.
// The text form of the signed license is written to out.
func RunSignLicense(
	ctx context.Context,
	issuer licenseUseCase.Issuer,
	logger *slog.Logger,
	stdio IOTuple,
	opts SignLicenseOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	params, err := readLicenseParams(opts.Input, stdio.Reader)
	if err != nil {
		return err
	}

	l, err := licenseDomain.NewLicense(params)
	if err != nil {
		return err
	}

	signed, err := issuer.SignLicense(ctx, l)
	if err != nil {
		return fmt.Errorf("failed to sign license: %w", err)
	}

	logger.Info("license signed",
		slog.String("license_id", l.ID().String()),
		slog.String("holder", l.Holder()),
	)

	if opts.Format == FormatJSON {
		return writeJSON(stdio.Writer, map[string]string{
			"id":             l.ID().String(),
			"signed_license": signed.String(),
		})
	}
	_, err = fmt.Fprintln(stdio.Writer, signed.String())
	return err
}

// RunIssueLicense signs a license through the ledger so that it is recorded in the
// issued-licenses table.
func RunIssueLicense(
	ctx context.Context,
	ledger licenseUseCase.LedgerUseCase,
	logger *slog.Logger,
	stdio IOTuple,
	opts SignLicenseOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	params, err := readLicenseParams(opts.Input, stdio.Reader)
	if err != nil {
		return err
	}

	issued, err := ledger.Issue(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to issue license: %w", err)
	}

	logger.Info("license issued and recorded",
		slog.String("license_id", issued.ID.String()),
		slog.String("holder", issued.Holder),
	)

	if opts.Format == FormatJSON {
		return writeJSON(stdio.Writer, dto.MapIssuedLicenseToResponse(issued))
	}
	_, err = fmt.Fprintln(stdio.Writer, issued.SignedLicense().String())
	return err
}

// readLicenseParams decodes license attributes. Unknown fields are rejected so a
// misspelled attribute is not silently dropped from the license.
func readLicenseParams(path string, in io.Reader) (licenseDomain.Params, error) {
	data, err := readInput(path, in)
	if err != nil {
		return licenseDomain.Params{}, err
	}

	var params licenseDomain.Params
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return licenseDomain.Params{}, fmt.Errorf("%w: license attributes are empty", apperrors.ErrInvalidInput)
		}
		return licenseDomain.Params{}, fmt.Errorf("%w: invalid license attributes: %v", apperrors.ErrInvalidInput, err)
	}
	return params, nil
}
