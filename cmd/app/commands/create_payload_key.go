package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// RunCreatePayloadKey prints a new random payload key, base64-encoded, ready to be
// used as PAYLOAD_KEY by both the issuer and the verifier.
func RunCreatePayloadKey(logger *slog.Logger, out io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate payload key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	encoded := base64.StdEncoding.EncodeToString(key)
	logger.Info("payload key generated")

	if format == FormatJSON {
		return writeJSON(out, map[string]string{"payload_key": encoded})
	}

	_, err := fmt.Fprintf(out, "# Add this to your environment of both issuer and verifier:\nPAYLOAD_KEY=%s\n", encoded)
	return err
}
