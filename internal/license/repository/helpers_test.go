package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

var issuedLicenseColumns = []string{
	"id", "holder", "subject", "features", "seats", "issued_at", "not_before", "expires_at",
	"signature_algorithm", "encrypted_data", "signature", "created_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func newIssuedLicense() *licenseDomain.IssuedLicense {
	expiresAt := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	return &licenseDomain.IssuedLicense{
		ID:                 uuid.Must(uuid.NewV7()),
		Holder:             "Acme Corp",
		Subject:            "analytics",
		Features:           []string{"export", "reports"},
		Seats:              25,
		IssuedAt:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NotBefore:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:          &expiresAt,
		SignatureAlgorithm: "rsa-sha512",
		EncryptedData:      []byte("encrypted"),
		Signature:          []byte("signature"),
		CreatedAt:          time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC),
	}
}
