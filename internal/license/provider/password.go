package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	cryptoService "github.com/allisson/licenses/internal/crypto/service"
)

// StaticPasswordProvider returns a copy of a password held in memory.
type StaticPasswordProvider struct {
	password []byte
}

// NewStaticPasswordProvider copies password into a StaticPasswordProvider.
func NewStaticPasswordProvider(password []byte) *StaticPasswordProvider {
	return &StaticPasswordProvider{password: bytes.Clone(password)}
}

// Password returns a fresh copy of the password.
func (p *StaticPasswordProvider) Password(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}
	if len(p.password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrPasswordNotFound)
	}
	return bytes.Clone(p.password), nil
}

// EnvPasswordProvider reads the password from an environment variable.
//
// The process environment keeps its own copy of the value; only the returned
// buffer can be zeroed.
type EnvPasswordProvider struct {
	name string
}

// NewEnvPasswordProvider creates an EnvPasswordProvider reading variable name.
func NewEnvPasswordProvider(name string) *EnvPasswordProvider {
	return &EnvPasswordProvider{name: name}
}

// Password returns the variable's value.
func (p *EnvPasswordProvider) Password(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}
	value, ok := os.LookupEnv(p.name)
	if !ok || value == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrPasswordNotFound, p.name)
	}
	return []byte(value), nil
}

// TerminalPasswordProvider prompts for the password without echo.
type TerminalPasswordProvider struct {
	fd     int
	prompt string
	out    io.Writer
}

// NewTerminalPasswordProvider prompts on out and reads from the terminal fd.
func NewTerminalPasswordProvider(fd int, prompt string, out io.Writer) *TerminalPasswordProvider {
	return &TerminalPasswordProvider{fd: fd, prompt: prompt, out: out}
}

// Password reads a line from the terminal. It fails if fd is not a terminal.
func (p *TerminalPasswordProvider) Password(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}
	if !term.IsTerminal(p.fd) {
		return nil, fmt.Errorf("%w: file descriptor %d is not a terminal", ErrPasswordNotFound, p.fd)
	}

	_, _ = fmt.Fprint(p.out, p.prompt)
	password, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrPasswordNotFound)
	}
	return password, nil
}

// KMSPasswordProvider unwraps a password stored as KMS ciphertext.
//
// The keeper is opened and closed on every call so no decrypted material
// outlives the call.
type KMSPasswordProvider struct {
	kmsService cryptoService.KMSService
	keyURI     string
	ciphertext []byte
}

// NewKMSPasswordProvider creates a provider for a base64-encoded ciphertext produced
// by the keeper at keyURI.
func NewKMSPasswordProvider(
	kmsService cryptoService.KMSService,
	keyURI string,
	encodedCiphertext string,
) (*KMSPasswordProvider, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encodedCiphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid KMS ciphertext: %v", ErrPasswordNotFound, err)
	}
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: empty KMS ciphertext", ErrPasswordNotFound)
	}
	return &KMSPasswordProvider{kmsService: kmsService, keyURI: keyURI, ciphertext: ciphertext}, nil
}

// Password decrypts the stored ciphertext with the KMS keeper.
func (p *KMSPasswordProvider) Password(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}

	keeper, err := p.kmsService.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordNotFound, err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	password, err := keeper.Decrypt(ctx, p.ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt password: %v", ErrPasswordNotFound, err)
	}
	return password, nil
}
