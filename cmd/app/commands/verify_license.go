package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allisson/licenses/internal/license/http/dto"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
)

// RunVerifyLicense verifies a signed license with the public key and prints its
// attributes. A license outside its validity window still verifies; the output
// reports it as not valid.
func RunVerifyLicense(
	ctx context.Context,
	verifier licenseUseCase.Verifier,
	logger *slog.Logger,
	stdio IOTuple,
	input string,
	format string,
	now time.Time,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	signed, err := readSignedLicense(input, stdio.Reader)
	if err != nil {
		return err
	}

	l, err := verifier.VerifyAndDecode(ctx, signed)
	if err != nil {
		return fmt.Errorf("failed to verify license: %w", err)
	}

	response, err := dto.MapLicenseToResponse(l, now)
	if err != nil {
		return err
	}

	logger.Info("license verified",
		slog.String("license_id", response.ID),
		slog.Bool("valid", response.Valid),
	)

	if format == FormatJSON {
		return writeJSON(stdio.Writer, response)
	}
	return writeLicenseText(stdio, response)
}

func writeLicenseText(stdio IOTuple, r dto.LicenseResponse) error {
	expires := "never"
	if r.ExpiresAt != nil {
		expires = r.ExpiresAt.Format(time.RFC3339)
	}
	seats := "unlimited"
	if r.Seats > 0 {
		seats = fmt.Sprint(r.Seats)
	}
	features := "-"
	if len(r.Features) > 0 {
		features = strings.Join(r.Features, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID:          %s\n", r.ID)
	fmt.Fprintf(&b, "Holder:      %s\n", r.Holder)
	fmt.Fprintf(&b, "Subject:     %s\n", r.Subject)
	if r.Issuer != "" {
		fmt.Fprintf(&b, "Issuer:      %s\n", r.Issuer)
	}
	fmt.Fprintf(&b, "Issued at:   %s\n", r.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Not before:  %s\n", r.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(&b, "Expires at:  %s\n", expires)
	fmt.Fprintf(&b, "Seats:       %s\n", seats)
	fmt.Fprintf(&b, "Features:    %s\n", features)
	for _, key := range sortedKeys(r.Metadata) {
		fmt.Fprintf(&b, "Metadata:    %s=%s\n", key, r.Metadata[key].String())
	}
	fmt.Fprintf(&b, "Valid:       %t\n", r.Valid)

	_, err := fmt.Fprint(stdio.Writer, b.String())
	return err
}
