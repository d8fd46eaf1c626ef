// Package repository implements persistence for the ledger of issued licenses.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/licenses/internal/database"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// postgresUniqueViolation is the SQLSTATE for unique_violation.
const postgresUniqueViolation = "23505"

// PostgreSQLIssuedLicenseRepository implements IssuedLicense persistence for PostgreSQL.
type PostgreSQLIssuedLicenseRepository struct {
	db *sql.DB
}

// Create inserts a ledger record. A duplicate ID is ErrIssuedLicenseConflict.
func (p *PostgreSQLIssuedLicenseRepository) Create(
	ctx context.Context,
	issued *licenseDomain.IssuedLicense,
) error {
	querier := database.GetTx(ctx, p.db)

	features, err := json.Marshal(issued.Features)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal features")
	}

	query := `INSERT INTO issued_licenses
			  (id, holder, subject, features, seats, issued_at, not_before, expires_at,
			   signature_algorithm, encrypted_data, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		issued.ID,
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
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == postgresUniqueViolation {
			return licenseDomain.ErrIssuedLicenseConflict
		}
		return apperrors.Wrap(err, "failed to create issued license")
	}
	return nil
}

// Get retrieves a ledger record by license ID.
func (p *PostgreSQLIssuedLicenseRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*licenseDomain.IssuedLicense, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, holder, subject, features, seats, issued_at, not_before, expires_at,
			  signature_algorithm, encrypted_data, signature, created_at
			  FROM issued_licenses
			  WHERE id = $1`

	var issued licenseDomain.IssuedLicense
	var features []byte
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&issued.ID,
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, licenseDomain.ErrIssuedLicenseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get issued license")
	}

	if err := json.Unmarshal(features, &issued.Features); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal features")
	}

	return &issued, nil
}

// List retrieves ledger records ordered by creation time, newest first.
func (p *PostgreSQLIssuedLicenseRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*licenseDomain.IssuedLicense, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, holder, subject, features, seats, issued_at, not_before, expires_at,
			  signature_algorithm, encrypted_data, signature, created_at
			  FROM issued_licenses
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issued licenses")
	}
	defer func() {
		_ = rows.Close()
	}()

	licenses := make([]*licenseDomain.IssuedLicense, 0)
	for rows.Next() {
		var issued licenseDomain.IssuedLicense
		var features []byte
		if err := rows.Scan(
			&issued.ID,
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
			return nil, apperrors.Wrap(err, "failed to scan issued license")
		}
		if err := json.Unmarshal(features, &issued.Features); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal features")
		}
		licenses = append(licenses, &issued)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating issued licenses")
	}

	return licenses, nil
}

// NewPostgreSQLIssuedLicenseRepository creates a new PostgreSQL ledger repository.
func NewPostgreSQLIssuedLicenseRepository(db *sql.DB) *PostgreSQLIssuedLicenseRepository {
	return &PostgreSQLIssuedLicenseRepository{db: db}
}
