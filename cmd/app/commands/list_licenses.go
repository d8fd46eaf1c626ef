package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	apperrors "github.com/allisson/licenses/internal/errors"
	"github.com/allisson/licenses/internal/httputil"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/http/dto"
)

// IssuedLicenseLister reads pages of the issued-license ledger. Both the ledger
// repository and the ledger use case satisfy it.
type IssuedLicenseLister interface {
	List(ctx context.Context, offset, limit int) ([]*licenseDomain.IssuedLicense, error)
}

// RunListLicenses prints a page of the issued-licenses ledger, newest first.
func RunListLicenses(
	ctx context.Context,
	lister IssuedLicenseLister,
	logger *slog.Logger,
	stdio IOTuple,
	offset, limit int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if offset < 0 {
		return fmt.Errorf("%w: offset must be a non-negative integer", apperrors.ErrInvalidInput)
	}
	if limit < 1 || limit > httputil.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", apperrors.ErrInvalidInput, httputil.MaxLimit)
	}

	issued, err := lister.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list issued licenses: %w", err)
	}

	logger.Info("issued licenses listed", slog.Int("count", len(issued)))

	if format == FormatJSON {
		return writeJSON(stdio.Writer, dto.MapIssuedLicensesToListResponse(issued))
	}

	w := tabwriter.NewWriter(stdio.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHOLDER\tSUBJECT\tFEATURES\tEXPIRES\tISSUED")
	for _, il := range issued {
		expires := "never"
		if il.ExpiresAt != nil {
			expires = il.ExpiresAt.Format(time.DateOnly)
		}
		features := "-"
		if len(il.Features) > 0 {
			features = strings.Join(il.Features, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			il.ID, il.Holder, il.Subject, features, expires, il.IssuedAt.Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdio.Writer, "\nTotal: %d license(s)\n", len(issued))
	return err
}
