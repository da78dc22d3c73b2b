// Package enrollments records completed bank enrollments reported by the
// client.
package enrollments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/finlink/internal/cryptox"
	"github.com/dmitrijs2005/finlink/internal/dbx"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
)

const StatusProcessed = "processed"

// Processor handles one enrollment notification.
type Processor interface {
	Process(ctx context.Context, e *models.Enrollment) (*models.EnrollmentReceipt, error)
}

// RepositoryFactory binds a Repository to a connection or transaction.
type RepositoryFactory func(db dbx.DBTX) Repository

type Service struct {
	db             *sql.DB
	repos          RepositoryFactory
	fingerprintKey []byte
	logger         logging.Logger
}

func NewService(db *sql.DB, repos RepositoryFactory, fingerprintKey []byte, logger logging.Logger) *Service {
	return &Service{
		db:             db,
		repos:          repos,
		fingerprintKey: fingerprintKey,
		logger:         logger.With("module", "enrollments"),
	}
}

// Process validates e and stores it with its accounts in one transaction.
// Repeating the same enrollment updates the existing row.
func (s *Service) Process(ctx context.Context, e *models.Enrollment) (*models.EnrollmentReceipt, error) {
	rec, accounts, err := toRecord(e, s.fingerprintKey)
	if err != nil {
		return nil, err
	}

	rec, err = dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*Record, error) {
		repo := s.repos(tx)

		stored, err := repo.Upsert(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("upsert enrollment: %w", err)
		}

		if err := repo.ReplaceAccounts(ctx, stored.EnrollmentID, accounts); err != nil {
			return nil, fmt.Errorf("store accounts: %w", err)
		}
		return stored, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "enrollment processed",
		"enrollment_id", rec.EnrollmentID,
		"institution", rec.InstitutionName,
		"accounts", len(accounts))

	return &models.EnrollmentReceipt{
		ID:           rec.ID,
		EnrollmentID: rec.EnrollmentID,
		Accounts:     len(accounts),
		Status:       StatusProcessed,
	}, nil
}

// AckOnly acknowledges enrollments without storing them. Used when no
// database is configured.
type AckOnly struct {
	fingerprintKey []byte
	logger         logging.Logger
}

func NewAckOnly(fingerprintKey []byte, logger logging.Logger) *AckOnly {
	return &AckOnly{fingerprintKey: fingerprintKey, logger: logger.With("module", "enrollments")}
}

func (a *AckOnly) Process(ctx context.Context, e *models.Enrollment) (*models.EnrollmentReceipt, error) {
	rec, accounts, err := toRecord(e, a.fingerprintKey)
	if err != nil {
		return nil, err
	}

	a.logger.Warn(ctx, "enrollment not stored, no database configured", "enrollment_id", rec.EnrollmentID)

	return &models.EnrollmentReceipt{
		ID:           rec.ID,
		EnrollmentID: rec.EnrollmentID,
		Accounts:     len(accounts),
		Status:       StatusProcessed,
	}, nil
}

// toRecord derives the stored shape. An enrollment without an ID is keyed by
// its token fingerprint.
func toRecord(e *models.Enrollment, key []byte) (*Record, []AccountRecord, error) {
	if err := e.Validate(); err != nil {
		return nil, nil, err
	}

	fp, err := cryptox.Fingerprint(e.AccessToken, key)
	if err != nil {
		return nil, nil, err
	}

	enrollmentID := e.Enrollment.ID
	if enrollmentID == "" {
		enrollmentID = "fp_" + fp[:32]
	}

	rec := &Record{
		ID:               uuid.NewString(),
		EnrollmentID:     enrollmentID,
		UserID:           e.User.ID,
		InstitutionID:    e.Enrollment.Institution.ID,
		InstitutionName:  e.Enrollment.Institution.Name,
		TokenFingerprint: fp,
	}

	accounts := make([]AccountRecord, 0, len(e.Accounts))
	for _, a := range e.Accounts {
		if a.ID == "" {
			continue
		}
		accounts = append(accounts, AccountRecord{
			AccountID: a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Subtype:   a.Subtype,
			LastFour:  a.LastFour,
			Currency:  a.Currency,
		})
	}

	return rec, accounts, nil
}
