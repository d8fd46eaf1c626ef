package commands

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	"github.com/allisson/licenses/internal/license/provider"
	licenseService "github.com/allisson/licenses/internal/license/service"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
)

var testPassword = []byte("correct horse battery staple")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// licensing wires the real crypto stack with cheap Argon2id parameters and a key
// pair written to a temporary directory.
type licensing struct {
	loader     *cryptoService.KeyLoaderService
	codec      *licenseService.AEADPayloadCodec
	signer     *cryptoService.RSASigner
	privateKey string
	publicKey  string
}

func newLicensing(t *testing.T) *licensing {
	t.Helper()

	loader := cryptoService.NewKeyLoader(
		cryptoService.NewAEADManager(),
		cryptoService.NewArgon2KeyDeriver(),
		cryptoDomain.AESGCM,
		cryptoDomain.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1},
		cryptoDomain.DefaultRSAKeyBits,
	)

	codec, err := licenseService.NewPayloadCodec(
		cryptoService.NewAEADManager(),
		bytes.Repeat([]byte{0x42}, cryptoDomain.KeySize),
		cryptoDomain.AESGCM,
		licenseService.StaticKeyMode,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = codec.Close() })

	signer, err := cryptoService.NewSigner(cryptoDomain.RSASHA512, cryptoDomain.DefaultRSAKeyBits)
	require.NoError(t, err)

	dir := t.TempDir()
	l := &licensing{
		loader:     loader,
		codec:      codec,
		signer:     signer,
		privateKey: filepath.Join(dir, "private.key"),
		publicKey:  filepath.Join(dir, "public.key"),
	}

	var out bytes.Buffer
	err = RunCreateKeyPair(
		t.Context(),
		cryptoService.NewKeyGenerator(),
		loader,
		provider.NewStaticPasswordProvider(testPassword),
		discardLogger(),
		&out,
		KeyPairOptions{PrivateKeyPath: l.privateKey, PublicKeyPath: l.publicKey, Bits: cryptoDomain.DefaultRSAKeyBits},
	)
	require.NoError(t, err)

	return l
}

func (l *licensing) issuer(t *testing.T) licenseUseCase.Issuer {
	t.Helper()
	holder := licenseUseCase.NewIssuerHolder(l.loader, l.codec, l.signer, nil, discardLogger())
	issuer, err := holder.CreateInstance(
		provider.NewStaticPasswordProvider(testPassword),
		provider.NewFileKeyDataProvider(l.privateKey),
	)
	require.NoError(t, err)
	return issuer
}

func (l *licensing) verifier(t *testing.T) licenseUseCase.Verifier {
	t.Helper()
	holder := licenseUseCase.NewVerifierHolder(l.loader, l.codec, l.signer, nil, discardLogger())
	verifier, err := holder.CreateInstance(provider.NewFileKeyDataProvider(l.publicKey))
	require.NoError(t, err)
	return verifier
}

// signLicense runs sign-license on attrs and returns the signed text form.
func (l *licensing) signLicense(t *testing.T, attrs string) string {
	t.Helper()
	var out bytes.Buffer
	err := RunSignLicense(
		t.Context(),
		l.issuer(t),
		discardLogger(),
		IOTuple{Reader: strings.NewReader(attrs), Writer: &out},
		SignLicenseOptions{Input: "-", Format: FormatText},
	)
	require.NoError(t, err)
	return strings.TrimSpace(out.String())
}
