package http

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLicense(t *testing.T) *licenseDomain.License {
	t.Helper()

	gold := licenseDomain.StringValue("gold")
	l, err := licenseDomain.NewLicense(licenseDomain.Params{
		ID:        uuid.Must(uuid.NewV7()),
		Holder:    "Acme Corp",
		Subject:   "analytics",
		Issuer:    "Licensing Inc",
		IssuedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Seats:     25,
		Features:  []string{"reports", "export"},
		Metadata:  map[string]licenseDomain.Value{"tier": gold},
	})
	require.NoError(t, err)
	return l
}

func newTestIssuedLicense() *licenseDomain.IssuedLicense {
	return &licenseDomain.IssuedLicense{
		ID:                 uuid.Must(uuid.NewV7()),
		Holder:             "Acme Corp",
		Subject:            "analytics",
		Features:           []string{"export"},
		Seats:              5,
		IssuedAt:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NotBefore:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		SignatureAlgorithm: "rsa-sha512",
		EncryptedData:      []byte("data"),
		Signature:          []byte("sig"),
		CreatedAt:          time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}
