package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/licenses/internal/database"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// mysqlDuplicateEntry is the MySQL error number for a duplicate key.
const mysqlDuplicateEntry = 1062

// MySQLIssuedLicenseRepository implements IssuedLicense persistence for MySQL.
type MySQLIssuedLicenseRepository struct {
	db *sql.DB
}

// Create inserts a ledger record. A duplicate ID is ErrIssuedLicenseConflict.
func (m *MySQLIssuedLicenseRepository) Create(
	ctx context.Context,
	issued *licenseDomain.IssuedLicense,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := issued.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal issued license id")
	}

	features, err := json.Marshal(issued.Features)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal features")
	}

	query := `INSERT INTO issued_licenses
			  (id, holder, subject, features, seats, issued_at, not_before, expires_at,
			   signature_algorithm, encrypted_data, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		issued.Holder,
		issued.Subject,
		features,
		issued.Seats,
		issued.IssuedAt,
		issued.NotBefore,
		issued.ExpiresAt,
		issued.SignatureAlgorithm,
		issued.EncryptedData,
		issued.Signature,
		issued.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return licenseDomain.ErrIssuedLicenseConflict
		}
		return apperrors.Wrap(err, "failed to create issued license")
	}
	return nil
}

// Get retrieves a ledger record by license ID.
func (m *MySQLIssuedLicenseRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*licenseDomain.IssuedLicense, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal issued license id")
	}

	query := `SELECT id, holder, subject, features, seats, issued_at, not_before, expires_at,
			  signature_algorithm, encrypted_data, signature, created_at
			  FROM issued_licenses
			  WHERE id = ?`

	issued, err := scanMySQLIssuedLicense(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, licenseDomain.ErrIssuedLicenseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get issued license")
	}
	return issued, nil
}

// List retrieves ledger records ordered by creation time, newest first.
func (m *MySQLIssuedLicenseRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*licenseDomain.IssuedLicense, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, holder, subject, features, seats, issued_at, not_before, expires_at,
			  signature_algorithm, encrypted_data, signature, created_at
			  FROM issued_licenses
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issued licenses")
	}
	defer func() {
		_ = rows.Close()
	}()

	licenses := make([]*licenseDomain.IssuedLicense, 0)
	for rows.Next() {
		issued, err := scanMySQLIssuedLicense(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issued license")
		}
		licenses = append(licenses, issued)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating issued licenses")
	}

	return licenses, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLIssuedLicense(row rowScanner) (*licenseDomain.IssuedLicense, error) {
	var issued licenseDomain.IssuedLicense
	var id, features []byte

	if err := row.Scan(
		&id,
		&issued.Holder,
		&issued.Subject,
		&features,
		&issued.Seats,
		&issued.IssuedAt,
		&issued.NotBefore,
		&issued.ExpiresAt,
		&issued.SignatureAlgorithm,
		&issued.EncryptedData,
		&issued.Signature,
		&issued.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := issued.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal issued license id")
	}
	if err := json.Unmarshal(features, &issued.Features); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal features")
	}
	return &issued, nil
}

// NewMySQLIssuedLicenseRepository creates a new MySQL ledger repository.
func NewMySQLIssuedLicenseRepository(db *sql.DB) *MySQLIssuedLicenseRepository {
	return &MySQLIssuedLicenseRepository{db: db}
}
