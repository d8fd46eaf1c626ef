package usecase

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/provider"
	licenseService "github.com/allisson/licenses/internal/license/service"
)

var (
	testRSAKeyOnce sync.Once
	testRSAKey     *rsa.PrivateKey
	testRSAKeyErr  error
)

var testPassword = []byte("correct horse battery staple")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires the real crypto stack with cheap Argon2id parameters.
type fixture struct {
	loader          *cryptoService.KeyLoaderService
	codec           *licenseService.AEADPayloadCodec
	signer          *cryptoService.RSASigner
	privateEnvelope []byte
	publicEnvelope  []byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	testRSAKeyOnce.Do(func() {
		testRSAKey, testRSAKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, testRSAKeyErr)

	loader := cryptoService.NewKeyLoader(
		cryptoService.NewAEADManager(),
		cryptoService.NewArgon2KeyDeriver(),
		cryptoDomain.AESGCM,
		cryptoDomain.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1},
		cryptoDomain.DefaultRSAKeyBits,
	)

	privateEnvelope, err := loader.EncryptPrivateKey(testRSAKey, bytes.Clone(testPassword))
	require.NoError(t, err)
	publicEnvelope, err := loader.EncryptPublicKey(&testRSAKey.PublicKey)
	require.NoError(t, err)

	payloadKey := make([]byte, cryptoDomain.KeySize)
	_, err = rand.Read(payloadKey)
	require.NoError(t, err)
	codec, err := licenseService.NewPayloadCodec(
		cryptoService.NewAEADManager(),
		payloadKey,
		cryptoDomain.AESGCM,
		licenseService.StaticKeyMode,
	)
	require.NoError(t, err)

	signer, err := cryptoService.NewSigner(cryptoDomain.RSASHA512, cryptoDomain.DefaultRSAKeyBits)
	require.NoError(t, err)

	return &fixture{
		loader:          loader,
		codec:           codec,
		signer:          signer,
		privateEnvelope: privateEnvelope,
		publicEnvelope:  publicEnvelope,
	}
}

func (f *fixture) issuer(passwords provider.PasswordProvider) *issuer {
	return &issuer{
		passwordProvider: passwords,
		keyDataProvider:  provider.NewStaticKeyDataProvider(f.privateEnvelope),
		keyLoader:        f.loader,
		codec:            f.codec,
		signer:           f.signer,
		logger:           discardLogger(),
	}
}

func (f *fixture) verifier() *verifier {
	return &verifier{
		keyDataProvider: provider.NewStaticKeyDataProvider(f.publicEnvelope),
		keyLoader:       f.loader,
		codec:           f.codec,
		signer:          f.signer,
		logger:          discardLogger(),
	}
}

// trackingPasswords hands out fresh password buffers and remembers them so tests
// can check they were wiped.
type trackingPasswords struct {
	mu     sync.Mutex
	issued [][]byte
}

func (p *trackingPasswords) Password(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := bytes.Clone(testPassword)
	p.issued = append(p.issued, buf)
	return buf, nil
}

func (p *trackingPasswords) allZero() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, buf := range p.issued {
		if !cryptoDomain.IsZero(buf) {
			return false
		}
	}
	return len(p.issued) > 0
}

func testParams() licenseDomain.Params {
	return licenseDomain.Params{
		ID:        uuid.Must(uuid.NewV7()),
		Holder:    "Acme Corp",
		Subject:   "analytics",
		Issuer:    "Example Software",
		IssuedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Seats:     25,
		Features:  []string{"export", "reports"},
		Metadata: map[string]licenseDomain.Value{
			"tier": licenseDomain.StringValue("gold"),
		},
	}
}

func newTestLicense(t *testing.T) *licenseDomain.License {
	t.Helper()
	l, err := licenseDomain.NewLicense(testParams())
	require.NoError(t, err)
	return l
}
