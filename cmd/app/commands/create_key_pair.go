package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	"github.com/allisson/licenses/internal/license/provider"
)

// KeyPairOptions controls where create-key-pair writes the envelopes.
type KeyPairOptions struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Bits           int
	Force          bool
}

// RunCreateKeyPair generates an RSA key pair and writes the private key sealed with
// the configured password and the public key sealed with the fixed public passphrase.
// Existing files are kept unless Force is set.
func RunCreateKeyPair(
	ctx context.Context,
	generator cryptoService.KeyGenerator,
	loader cryptoService.KeyLoader,
	passwordProvider provider.PasswordProvider,
	logger *slog.Logger,
	out io.Writer,
	opts KeyPairOptions,
) error {
	if opts.PrivateKeyPath == "" || opts.PublicKeyPath == "" {
		return errors.New("private and public key paths are required")
	}
	if opts.PrivateKeyPath == opts.PublicKeyPath {
		return errors.New("private and public key paths must differ")
	}

	logger.Info("generating key pair", slog.Int("bits", opts.Bits))

	password, err := passwordProvider.Password(ctx)
	if err != nil {
		return fmt.Errorf("failed to get private key password: %w", err)
	}
	defer cryptoDomain.Zero(password)

	key, err := generator.GenerateKeyPair(opts.Bits)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}
	defer cryptoDomain.DestroyPrivateKey(key)

	privateEnvelope, err := loader.EncryptPrivateKey(key, password)
	if err != nil {
		return fmt.Errorf("failed to seal private key: %w", err)
	}

	publicEnvelope, err := loader.EncryptPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to seal public key: %w", err)
	}

	if err := writeKeyFile(opts.PrivateKeyPath, privateEnvelope, opts.Force); err != nil {
		return err
	}
	if err := writeKeyFile(opts.PublicKeyPath, publicEnvelope, opts.Force); err != nil {
		return err
	}

	logger.Info("key pair created",
		slog.String("private_key", opts.PrivateKeyPath),
		slog.String("public_key", opts.PublicKeyPath),
	)

	_, err = fmt.Fprintf(out, "Private key written to %s\nPublic key written to %s\n",
		opts.PrivateKeyPath, opts.PublicKeyPath)
	return err
}

func writeKeyFile(path string, data []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o600) //nolint:gosec // path is an operator-supplied CLI argument
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
