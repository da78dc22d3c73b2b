package enrollments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec *Record) (*Record, error) {
	query :=
		`INSERT INTO enrollments (id, enrollment_id, user_id, institution_id, institution_name, token_fingerprint)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (enrollment_id) DO UPDATE
		 SET user_id = EXCLUDED.user_id,
		     institution_id = EXCLUDED.institution_id,
		     institution_name = EXCLUDED.institution_name,
		     token_fingerprint = EXCLUDED.token_fingerprint,
		     updated_at = now()
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.EnrollmentID, rec.UserID, rec.InstitutionID, rec.InstitutionName, rec.TokenFingerprint,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) ReplaceAccounts(ctx context.Context, enrollmentID string, accounts []AccountRecord) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollment_accounts WHERE enrollment_id = $1`, enrollmentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO enrollment_accounts (enrollment_id, account_id, name, type, subtype, last_four, currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	for _, a := range accounts {
		if _, err := r.db.ExecContext(ctx, query,
			enrollmentID, a.AccountID, a.Name, a.Type, a.Subtype, a.LastFour, a.Currency); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) GetByEnrollmentID(ctx context.Context, enrollmentID string) (*Record, error) {
	query :=
		`SELECT id, enrollment_id, user_id, institution_id, institution_name, token_fingerprint, created_at, updated_at
		 FROM enrollments
		 WHERE enrollment_id = $1
		 `

	rec := &Record{}
	err := r.db.QueryRowContext(ctx, query, enrollmentID).Scan(
		&rec.ID, &rec.EnrollmentID, &rec.UserID, &rec.InstitutionID, &rec.InstitutionName,
		&rec.TokenFingerprint, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}
