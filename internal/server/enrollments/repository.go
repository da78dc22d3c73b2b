package enrollments

import "context"

type Repository interface {
	// Upsert inserts rec or updates the row with the same EnrollmentID and
	// returns the stored ID.
	Upsert(ctx context.Context, rec *Record) (*Record, error)
	ReplaceAccounts(ctx context.Context, enrollmentID string, accounts []AccountRecord) error
	GetByEnrollmentID(ctx context.Context, enrollmentID string) (*Record, error)
}
